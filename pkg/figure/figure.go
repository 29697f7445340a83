package figure

import (
	"fmt"

	"launchdash/pkg/launch"
)

// Kind is the chart type a Figure describes
type Kind string

const (
	KindPie     Kind = "pie"
	KindScatter Kind = "scatter"
)

// PieMode selects what the all-sites pie counts per site
type PieMode string

const (
	// PieSuccess counts only successful launches per site
	PieSuccess PieMode = "success"
	// PieTotal counts every launch per site
	PieTotal PieMode = "total"
)

// Valid reports whether m is a known mode
func (m PieMode) Valid() bool {
	return m == PieSuccess || m == PieTotal
}

// Figure is a renderer-independent chart description
type Figure struct {
	Kind   Kind    `json:"kind"`
	Title  string  `json:"title"`
	XLabel string  `json:"x_label,omitempty"`
	YLabel string  `json:"y_label,omitempty"`
	Slices []Slice `json:"slices,omitempty"`
	Traces []Trace `json:"traces,omitempty"`
	// XRange is the scatter x extent, usually the selected payload window
	XRange *launch.Range `json:"x_range,omitempty"`
}

// Slice is one pie sector
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Trace is one colored scatter group
type Trace struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Point is one scatter marker
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Empty reports whether the figure has nothing to draw
func (f Figure) Empty() bool {
	for _, s := range f.Slices {
		if s.Value > 0 {
			return false
		}
	}
	for _, t := range f.Traces {
		if len(t.Points) > 0 {
			return false
		}
	}
	return true
}

// Pie describes launch success for one site, or per site for launch.AllSites
func Pie(ds *launch.Dataset, site string, mode PieMode) Figure {
	if site == launch.AllSites {
		counts := ds.SuccessesBySite()
		title := "Total Successful Launches by Site"
		if mode == PieTotal {
			counts = ds.TotalsBySite()
			title = "Total Launches by Site"
		}

		fig := Figure{Kind: KindPie, Title: title}
		for _, c := range counts {
			fig.Slices = append(fig.Slices, Slice{Label: c.Site, Value: float64(c.Count)})
		}
		return fig
	}

	fig := Figure{
		Kind:  KindPie,
		Title: fmt.Sprintf("Success vs. Failed Launches for %s", site),
	}
	for _, c := range ds.CountByOutcome(site) {
		fig.Slices = append(fig.Slices, Slice{Label: c.Class.String(), Value: float64(c.Count)})
	}
	return fig
}

// Scatter plots payload mass against outcome class, one trace per booster version category
func Scatter(records []launch.Record, site string, window launch.Range) Figure {
	label := "All Sites"
	if site != launch.AllSites {
		label = site
	}

	fig := Figure{
		Kind:   KindScatter,
		Title:  fmt.Sprintf("Payload vs. Success Rate for %s", label),
		XLabel: "Payload Mass (kg)",
		YLabel: "class",
		XRange: &window,
	}

	idx := make(map[string]int)
	for _, r := range records {
		i, ok := idx[r.BoosterCategory]
		if !ok {
			i = len(fig.Traces)
			idx[r.BoosterCategory] = i
			fig.Traces = append(fig.Traces, Trace{Name: r.BoosterCategory})
		}
		fig.Traces[i].Points = append(fig.Traces[i].Points, Point{X: r.PayloadMassKg, Y: float64(r.Class)})
	}
	return fig
}
