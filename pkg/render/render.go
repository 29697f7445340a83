package render

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"launchdash/pkg/figure"
)

// ErrUnknownKind is returned for a figure kind the renderer cannot draw
var ErrUnknownKind = errors.New("unknown figure kind")

// Renderer draws figures as SVG
type Renderer struct {
	Width  int
	Height int
}

// New returns a renderer with the given canvas size
func New(width, height int) *Renderer {
	return &Renderer{Width: width, Height: height}
}

// SVG writes fig to w. A figure with no data renders as a blank titled canvas.
func (r *Renderer) SVG(w io.Writer, fig figure.Figure) error {
	if fig.Empty() {
		return r.blank(w, fig.Title)
	}

	// Render into a buffer so a failed render never leaves a truncated document on w
	var buf bytes.Buffer
	var err error
	switch fig.Kind {
	case figure.KindPie:
		err = r.pie(&buf, fig)
	case figure.KindScatter:
		err = r.scatter(&buf, fig)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, fig.Kind)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s chart: %w", fig.Kind, err)
	}

	_, err = buf.WriteTo(w)
	return err
}

func (r *Renderer) pie(w io.Writer, fig figure.Figure) error {
	values := make([]chart.Value, 0, len(fig.Slices))
	for i, s := range fig.Slices {
		if s.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%g)", s.Label, s.Value),
			Value: s.Value,
			Style: chart.Style{FillColor: chart.GetDefaultColor(i)},
		})
	}

	pie := chart.PieChart{
		Title:  fig.Title,
		Width:  r.Width,
		Height: r.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		Values: values,
	}
	return pie.Render(chart.SVG, w)
}

// pointStyle draws markers only, no connecting line
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    col,
	}
}

func (r *Renderer) scatter(w io.Writer, fig figure.Figure) error {
	series := make([]chart.Series, 0, len(fig.Traces))
	minX, maxX := 0.0, 0.0
	first := true
	for i, t := range fig.Traces {
		if len(t.Points) == 0 {
			continue
		}
		xs := make([]float64, len(t.Points))
		ys := make([]float64, len(t.Points))
		for j, p := range t.Points {
			xs[j], ys[j] = p.X, p.Y
			if first || p.X < minX {
				minX = p.X
			}
			if first || p.X > maxX {
				maxX = p.X
			}
			first = false
		}
		series = append(series, chart.ContinuousSeries{
			Name:    t.Name,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(chart.GetDefaultColor(i)),
		})
	}

	if fig.XRange != nil && !fig.XRange.Empty() {
		minX, maxX = fig.XRange.Low, fig.XRange.High
	}
	// go-chart cannot scale a zero-width axis
	if maxX <= minX {
		maxX = minX + 1
	}

	ch := chart.Chart{
		Title:  fig.Title,
		Width:  r.Width,
		Height: r.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  fig.XLabel,
			Range: &chart.ContinuousRange{Min: minX, Max: maxX},
		},
		YAxis: chart.YAxis{
			Name:  fig.YLabel,
			Range: &chart.ContinuousRange{Min: -0.25, Max: 1.25},
			Ticks: []chart.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.LegendLeft(&ch)}

	return ch.Render(chart.SVG, w)
}

func (r *Renderer) blank(w io.Writer, title string) error {
	_, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+
			`<rect width="100%%" height="100%%" fill="#ffffff"/>`+
			`<text x="50%%" y="28" text-anchor="middle" font-family="sans-serif" font-size="16">%s</text>`+
			`<text x="50%%" y="50%%" text-anchor="middle" font-family="sans-serif" font-size="12" fill="#888888">No data</text>`+
			`</svg>`,
		r.Width, r.Height, html.EscapeString(title))
	return err
}
