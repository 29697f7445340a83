package dashboard

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchdash/pkg/cache"
	"launchdash/pkg/figure"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	r := mux.NewRouter()
	newTestService(t, cache.NewMemoryCache()).Register(r)
	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestIndexPage(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := rec.Body.String()
	assert.Contains(t, page, Title)
	assert.Contains(t, page, `id="site-dropdown"`)
	assert.Contains(t, page, `<option value="All" selected>All Sites</option>`)
	assert.Contains(t, page, `id="success-pie-chart"`)
	assert.Contains(t, page, `id="success-payload-scatter-chart"`)
	assert.Contains(t, page, `step="1000"`)
	// inputs snap to the step, so the first render reads the exact range from the layout
	assert.Contains(t, page, "layout.slider.value.low")
	assert.Contains(t, page, "layout.slider.value.high")
}

func TestLayoutEndpoint(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/api/layout", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var l Layout
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &l))
	assert.Len(t, l.Dropdown.Options, 3)
	assert.Equal(t, 10000.0, l.Slider.Max)
	assert.Len(t, l.Callbacks, 2)
}

func TestFigureEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := serve(r, http.MethodGet, "/api/figures/success-pie-chart?site=A", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var pie figure.Figure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pie))
	assert.Equal(t, "Success vs. Failed Launches for A", pie.Title)
	assert.Len(t, pie.Slices, 2)

	rec = serve(r, http.MethodGet, "/api/figures/success-payload-scatter-chart?low=1000&high=5000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var scatter figure.Figure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scatter))
	points := 0
	for _, tr := range scatter.Traces {
		points += len(tr.Points)
	}
	assert.Equal(t, 2, points)
}

func TestFigureEndpointErrors(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{name: "unknown site", target: "/api/figures/success-pie-chart?site=Boca+Chica", want: http.StatusBadRequest},
		{name: "non-numeric bound", target: "/api/figures/success-payload-scatter-chart?low=heavy", want: http.StatusBadRequest},
		{name: "unknown output", target: "/api/figures/launch-map", want: http.StatusNotFound},
		{name: "unknown chart", target: "/charts/launch-map.svg", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(r, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestEventEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := serve(r, http.MethodPost, "/api/events",
		`{"changed":"payload-slider","state":{"site":"All","payload":{"low":1000,"high":5000}}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Outputs []Output `json:"outputs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Outputs, 1)
	assert.Equal(t, ScatterChartID, resp.Outputs[0].ID)

	rec = serve(r, http.MethodPost, "/api/events", `{"changed":"site-dropdown","state":{"site":"B"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{PieChartID, ScatterChartID}, outputIDs(resp.Outputs))

	rec = serve(r, http.MethodPost, "/api/events", `{"changed":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(r, http.MethodPost, "/api/events", `{"changed":"launch-year"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChartEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := serve(r, http.MethodGet, "/charts/success-pie-chart.svg?site=All", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = serve(r, http.MethodGet, "/charts/success-payload-scatter-chart.svg?site=A&low=5000&high=1000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No data")
}
