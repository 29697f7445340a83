package dashboard

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"go.uber.org/zap"

	"launchdash/pkg/launch"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// stateQuery is the control state as sent in chart and figure URLs
type stateQuery struct {
	Site string  `schema:"site"`
	Low  float64 `schema:"low"`
	High float64 `schema:"high"`
}

// Register mounts the page, the JSON API and the chart endpoints on r
func (s *Service) Register(r *mux.Router) {
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/api/layout", s.handleLayout).Methods(http.MethodGet)
	r.HandleFunc("/api/figures/{id}", s.handleFigure).Methods(http.MethodGet)
	r.HandleFunc("/api/events", s.handleEvent).Methods(http.MethodPost)
	r.HandleFunc("/charts/{id}.svg", s.handleChart).Methods(http.MethodGet)
}

func (s *Service) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, s.layout); err != nil {
		s.logger.Error("failed to render index page", err)
	}
}

func (s *Service) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.layout)
}

func (s *Service) handleFigure(w http.ResponseWriter, r *http.Request) {
	st, err := s.decodeState(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	fig, err := s.Figure(mux.Vars(r)["id"], st)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, fig)
}

func (s *Service) handleEvent(w http.ResponseWriter, r *http.Request) {
	ev := Event{State: s.DefaultState()}
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		s.writeError(w, badRequest{err})
		return
	}
	outputs, err := s.Dispatch(r.Context(), ev)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"outputs": outputs})
}

func (s *Service) handleChart(w http.ResponseWriter, r *http.Request) {
	st, err := s.decodeState(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	body, err := s.RenderSVG(r.Context(), mux.Vars(r)["id"], st)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// decodeState reads site/low/high, defaulting any that are absent
func (s *Service) decodeState(r *http.Request) (State, error) {
	def := s.DefaultState()
	q := stateQuery{Site: def.Site, Low: def.Payload.Low, High: def.Payload.High}
	if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		return State{}, badRequest{err}
	}
	return State{Site: q.Site, Payload: launch.Range{Low: q.Low, High: q.High}}, nil
}

type badRequest struct {
	err error
}

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func (s *Service) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var br badRequest
	switch {
	case errors.Is(err, ErrUnknownComponent):
		status = http.StatusNotFound
	case errors.Is(err, ErrUnknownSite), errors.As(err, &br):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", err)
	} else {
		s.logger.Debug("request rejected", zap.Error(err), zap.Int("status", status))
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", err)
	}
}
