package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"launchdash/pkg/cache"
	"launchdash/pkg/figure"
	"launchdash/pkg/launch"
	"launchdash/pkg/logger"
	"launchdash/pkg/metrics"
	"launchdash/pkg/render"
)

var (
	// ErrUnknownSite is returned for a site that is not on the dropdown menu
	ErrUnknownSite = errors.New("unknown launch site")
	// ErrUnknownComponent is returned for an event or output ID the page does not define
	ErrUnknownComponent = errors.New("unknown component")
)

// State is the value of every control at the time of an event
type State struct {
	Site    string       `json:"site"`
	Payload launch.Range `json:"payload"`
}

// Event reports a control change. An empty Changed means the initial page render.
type Event struct {
	Changed string `json:"changed,omitempty"`
	State   State  `json:"state"`
}

// Output is a recomputed figure for one graph
type Output struct {
	ID     string        `json:"id"`
	Figure figure.Figure `json:"figure"`
}

// Config holds dashboard behavior settings
type Config struct {
	PieMode figure.PieMode
	Slider  SliderBounds
}

type callback struct {
	CallbackSpec
	compute func(State) figure.Figure
}

// Service evaluates dashboard callbacks against the immutable dataset.
// It holds no per-user state, so one instance serves all requests.
type Service struct {
	logger    *logger.Logger
	dataset   *launch.Dataset
	renderer  *render.Renderer
	cache     cache.Cache
	pieMode   figure.PieMode
	callbacks []callback
	layout    Layout
}

// NewService creates a new dashboard Service
func NewService(
	l *logger.Logger,
	ds *launch.Dataset,
	cfg Config,
	r *render.Renderer,
	c cache.Cache,
) *Service {
	s := &Service{
		logger:   l.Named("dashboard"),
		dataset:  ds,
		renderer: r,
		cache:    c,
		pieMode:  cfg.PieMode,
	}

	s.callbacks = []callback{
		{
			CallbackSpec: CallbackSpec{Output: PieChartID, Inputs: []string{SiteDropdownID}},
			compute:      s.pieFigure,
		},
		{
			CallbackSpec: CallbackSpec{Output: ScatterChartID, Inputs: []string{SiteDropdownID, PayloadSliderID}},
			compute:      s.scatterFigure,
		},
	}

	specs := make([]CallbackSpec, len(s.callbacks))
	for i, cb := range s.callbacks {
		specs[i] = cb.CallbackSpec
	}
	s.layout = NewLayout(ds, cfg.Slider, specs)

	return s
}

// Layout returns the page description
func (s *Service) Layout() Layout {
	return s.layout
}

// DefaultState is the control state of a freshly loaded page
func (s *Service) DefaultState() State {
	return State{
		Site:    s.layout.Dropdown.Value,
		Payload: s.layout.Slider.Value,
	}
}

// Normalize checks the site against the dropdown menu and clamps the payload
// window to the slider track
func (s *Service) Normalize(st State) (State, error) {
	if st.Site != launch.AllSites && !s.dataset.HasSite(st.Site) {
		return State{}, fmt.Errorf("%w: %q", ErrUnknownSite, st.Site)
	}
	st.Payload = s.layout.Slider.Clamp(st.Payload)
	return st, nil
}

func (s *Service) pieFigure(st State) figure.Figure {
	return figure.Pie(s.dataset, st.Site, s.pieMode)
}

func (s *Service) scatterFigure(st State) figure.Figure {
	return figure.Scatter(s.dataset.Filter(st.Site, st.Payload), st.Site, st.Payload)
}

func (s *Service) lookup(output string) (callback, bool) {
	for _, cb := range s.callbacks {
		if cb.Output == output {
			return cb, true
		}
	}
	return callback{}, false
}

func (s *Service) isInput(id string) bool {
	for _, cb := range s.callbacks {
		if contains(cb.Inputs, id) {
			return true
		}
	}
	return false
}

// Figure evaluates the callback that feeds output
func (s *Service) Figure(output string, st State) (figure.Figure, error) {
	cb, ok := s.lookup(output)
	if !ok {
		return figure.Figure{}, fmt.Errorf("%w: %q", ErrUnknownComponent, output)
	}

	st, err := s.Normalize(st)
	if err != nil {
		metrics.CallbackErrorsTotal.WithLabelValues(output).Inc()
		return figure.Figure{}, err
	}

	metrics.CallbacksTotal.WithLabelValues(output).Inc()
	return cb.compute(st), nil
}

// Dispatch recomputes every output whose inputs include the changed control,
// in callback declaration order
func (s *Service) Dispatch(ctx context.Context, ev Event) ([]Output, error) {
	if ev.Changed != "" && !s.isInput(ev.Changed) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, ev.Changed)
	}

	var outputs []Output
	for _, cb := range s.callbacks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ev.Changed != "" && !contains(cb.Inputs, ev.Changed) {
			continue
		}
		fig, err := s.Figure(cb.Output, ev.State)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, Output{ID: cb.Output, Figure: fig})
	}

	s.logger.Debug("dispatched event",
		zap.String("changed", ev.Changed),
		zap.String("site", ev.State.Site),
		zap.Int("outputs", len(outputs)))
	return outputs, nil
}

// RenderSVG draws the figure for output, consulting the cache first.
// Cache failures are logged and the chart is rendered directly.
func (s *Service) RenderSVG(ctx context.Context, output string, st State) ([]byte, error) {
	if _, ok := s.lookup(output); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, output)
	}
	st, err := s.Normalize(st)
	if err != nil {
		metrics.CallbackErrorsTotal.WithLabelValues(output).Inc()
		return nil, err
	}

	key := s.cacheKey(output, st)
	if body, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("chart cache read failed", zap.Error(err), zap.String("key", key))
	} else if ok {
		metrics.CacheHitsTotal.Inc()
		return body, nil
	}
	metrics.CacheMissesTotal.Inc()

	fig, err := s.Figure(output, st)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := s.renderer.SVG(&buf, fig); err != nil {
		return nil, err
	}
	metrics.RenderLatency.WithLabelValues(string(fig.Kind)).Observe(time.Since(start).Seconds())

	if err := s.cache.Set(ctx, key, buf.Bytes()); err != nil {
		s.logger.Warn("chart cache write failed", zap.Error(err), zap.String("key", key))
	}
	return buf.Bytes(), nil
}

func (s *Service) cacheKey(output string, st State) string {
	// the pie ignores the slider, so one entry per site is enough
	if output == PieChartID {
		return fmt.Sprintf("%s|%s|%s", output, s.pieMode, st.Site)
	}
	return fmt.Sprintf("%s|%s|%g|%g", output, st.Site, st.Payload.Low, st.Payload.High)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
