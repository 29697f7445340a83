package dashboard

import (
	"math"

	"launchdash/pkg/launch"
)

// Component IDs shared by the page, the callback graph and the HTTP API
const (
	SiteDropdownID  = "site-dropdown"
	PayloadSliderID = "payload-slider"
	PieChartID      = "success-pie-chart"
	ScatterChartID  = "success-payload-scatter-chart"
)

// Title is the page heading
const Title = "SpaceX Launch Records Dashboard"

// Option is one dropdown entry
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Dropdown is the single-choice launch site selector
type Dropdown struct {
	ID          string   `json:"id"`
	Options     []Option `json:"options"`
	Value       string   `json:"value"`
	Placeholder string   `json:"placeholder"`
	Searchable  bool     `json:"searchable"`
}

// Slider is the payload mass range selector
type Slider struct {
	ID    string       `json:"id"`
	Min   float64      `json:"min"`
	Max   float64      `json:"max"`
	Step  float64      `json:"step"`
	Value launch.Range `json:"value"`
}

// Clamp moves each bound into [Min, Max]. Bound order is kept, so an
// inverted range stays inverted.
func (s Slider) Clamp(r launch.Range) launch.Range {
	clamp := func(v float64) float64 {
		return math.Min(math.Max(v, s.Min), s.Max)
	}
	return launch.Range{Low: clamp(r.Low), High: clamp(r.High)}
}

// Graph is a chart placeholder filled by a callback output
type Graph struct {
	ID string `json:"id"`
}

// CallbackSpec declares which controls an output depends on
type CallbackSpec struct {
	Output string   `json:"output"`
	Inputs []string `json:"inputs"`
}

// Layout is the full, static description of the page
type Layout struct {
	Title     string         `json:"title"`
	Dropdown  Dropdown       `json:"dropdown"`
	Slider    Slider         `json:"slider"`
	Graphs    []Graph        `json:"graphs"`
	Callbacks []CallbackSpec `json:"callbacks"`
}

// SliderBounds configures the payload slider track
type SliderBounds struct {
	Min  float64
	Max  float64
	Step float64
}

// NewLayout builds the page for ds: one dropdown option per known site after
// "All Sites", and a slider defaulting to the dataset payload range.
func NewLayout(ds *launch.Dataset, bounds SliderBounds, callbacks []CallbackSpec) Layout {
	options := []Option{{Label: "All Sites", Value: launch.AllSites}}
	for _, site := range ds.Sites() {
		options = append(options, Option{Label: site, Value: site})
	}

	slider := Slider{
		ID:   PayloadSliderID,
		Min:  bounds.Min,
		Max:  bounds.Max,
		Step: bounds.Step,
	}
	slider.Value = slider.Clamp(ds.PayloadRange())

	graphs := make([]Graph, 0, len(callbacks))
	for _, cb := range callbacks {
		graphs = append(graphs, Graph{ID: cb.Output})
	}

	return Layout{
		Title: Title,
		Dropdown: Dropdown{
			ID:          SiteDropdownID,
			Options:     options,
			Value:       launch.AllSites,
			Placeholder: "Select a Launch Site Here",
			Searchable:  true,
		},
		Slider:    slider,
		Graphs:    graphs,
		Callbacks: callbacks,
	}
}
