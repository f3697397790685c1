package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	datasetrepo "github.com/kailas-cloud/carelens/internal/repository/dataset"
	dashboarduc "github.com/kailas-cloud/carelens/internal/usecase/dashboard"
	healthuc "github.com/kailas-cloud/carelens/internal/usecase/health"
	"github.com/kailas-cloud/carelens/internal/usecase/view"
)

const testdataDir = "../../repository/dataset/testdata"

func newTestRouter(t *testing.T, load bool) http.Handler {
	t.Helper()
	repo := datasetrepo.New(os.DirFS(testdataDir), datasetrepo.DefaultFiles(), zap.NewNop())
	dash := dashboarduc.New(repo, view.DefaultSettings(), zap.NewNop())
	if load {
		require.NoError(t, dash.Load(context.Background()))
	}
	srv := NewServer(dash, healthuc.New(dash, "test"), zap.NewNop())

	r := chi.NewRouter()
	srv.Mount(r)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v))
	return v
}

func TestServer_NotLoaded(t *testing.T) {
	h := newTestRouter(t, false)

	for _, target := range []string{
		"/api/v1/frame",
		"/api/v1/views/map",
		"/api/v1/views/scatter",
		"/api/v1/views/procedures",
		"/api/v1/views/ranking",
		"/api/v1/ownerships",
	} {
		t.Run(target, func(t *testing.T) {
			rr := do(t, h, http.MethodGet, target, "")

			assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
			assert.Equal(t, CodeNotLoaded, decodeBody[ErrorResponse](t, rr).Code)
		})
	}
}

func TestServer_HealthCheck(t *testing.T) {
	rr := do(t, newTestRouter(t, false), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	got := decodeBody[HealthResponse](t, rr)
	assert.Equal(t, healthuc.Unhealthy, got.Status)

	rr = do(t, newTestRouter(t, true), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	got = decodeBody[HealthResponse](t, rr)
	assert.Equal(t, healthuc.Healthy, got.Status)
	assert.Equal(t, healthuc.CheckOK, got.Checks["dataset"])
	assert.Equal(t, "test", got.Version)
}

func TestServer_Metrics(t *testing.T) {
	rr := do(t, newTestRouter(t, true), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestServer_Frame(t *testing.T) {
	rr := do(t, newTestRouter(t, true), http.MethodGet, "/api/v1/frame", "")
	require.Equal(t, http.StatusOK, rr.Code)

	f := decodeBody[dashboarduc.Frame](t, rr)
	assert.Equal(t, uint64(0), f.Version)
	assert.Equal(t, 10, f.State.Filter.TopN)
	assert.Len(t, f.Map.Regions, 3)
	assert.Equal(t, view.StatusReady, f.Scatter.Status)
	assert.Equal(t, view.StatusNoSelection, f.Procedures.Status)
	require.NotEmpty(t, f.Ranking.Rows)
}

func TestServer_UnknownView(t *testing.T) {
	rr := do(t, newTestRouter(t, true), http.MethodGet, "/api/v1/views/pie", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, CodeNotFound, decodeBody[ErrorResponse](t, rr).Code)
}

func TestServer_Ownerships(t *testing.T) {
	rr := do(t, newTestRouter(t, true), http.MethodGet, "/api/v1/ownerships", "")
	require.Equal(t, http.StatusOK, rr.Code)

	got := decodeBody[OwnershipsResponse](t, rr)
	assert.Equal(t, []string{"Government - Local", "Proprietary", "Voluntary non-profit - Private"}, got.Items)
}

func TestServer_Selection(t *testing.T) {
	h := newTestRouter(t, true)

	rr := do(t, h, http.MethodPost, "/api/v1/selection", `{"countyFips":"26003"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	st := decodeBody[StateResponse](t, rr).State
	assert.Equal(t, uint64(1), st.Version)
	assert.Equal(t, "26003", st.Selection.CountyKey)

	rr = do(t, h, http.MethodGet, "/api/v1/views/scatter", "")
	sc := decodeBody[view.ScatterView](t, rr)
	require.Len(t, sc.Points, 1)
	assert.Equal(t, "230002", sc.Points[0].ProviderKey)
	assert.Equal(t, "Alger, MI", sc.Title)

	rr = do(t, h, http.MethodPost, "/api/v1/selection", `{"providerId":"23-0002"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	st = decodeBody[StateResponse](t, rr).State
	assert.Equal(t, "26003", st.Selection.CountyKey, "absent field stays unchanged")
	assert.Equal(t, "230002", st.Selection.ProviderKey)

	rr = do(t, h, http.MethodGet, "/api/v1/views/procedures", "")
	pv := decodeBody[view.ProcedureView](t, rr)
	assert.Equal(t, view.StatusNoData, pv.Status)
	assert.Equal(t, "Alger Memorial", pv.Title)

	rr = do(t, h, http.MethodPost, "/api/v1/selection", `{"countyFips":"","providerId":""}`)
	require.Equal(t, http.StatusOK, rr.Code)
	st = decodeBody[StateResponse](t, rr).State
	assert.False(t, st.Selection.HasCounty())
	assert.False(t, st.Selection.HasProvider())
}

func TestServer_Filter(t *testing.T) {
	h := newTestRouter(t, true)

	rr := do(t, h, http.MethodPost, "/api/v1/filter", `{"ownership":["Proprietary"],"search":"  ADAMS "}`)
	require.Equal(t, http.StatusOK, rr.Code)
	st := decodeBody[StateResponse](t, rr).State
	assert.Equal(t, "adams", st.Filter.SearchText)
	assert.Equal(t, []string{"Proprietary"}, st.Filter.Ownership)

	rr = do(t, h, http.MethodGet, "/api/v1/views/scatter", "")
	sc := decodeBody[view.ScatterView](t, rr)
	require.Len(t, sc.Points, 1)
	assert.Equal(t, "360001", sc.Points[0].ProviderKey)

	rr = do(t, h, http.MethodPost, "/api/v1/filter", `{"search":"nothing matches"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, h, http.MethodGet, "/api/v1/views/scatter", "")
	sc = decodeBody[view.ScatterView](t, rr)
	assert.Equal(t, view.StatusEmpty, sc.Status)
	assert.NotEmpty(t, sc.Message)
}

func TestServer_FilterRejections(t *testing.T) {
	h := newTestRouter(t, true)

	tests := []struct {
		name     string
		body     string
		wantCode ErrorCode
	}{
		{"topN zero", `{"topN":0}`, CodeInvalidTopN},
		{"topN too large", `{"topN":51}`, CodeInvalidTopN},
		{"topN negative", `{"topN":-3}`, CodeInvalidTopN},
		{"empty patch", `{}`, CodeValidationFailed},
		{"search too long", `{"search":"` + strings.Repeat("x", 300) + `"}`, CodeValidationFailed},
		{"malformed", `{"topN":`, CodeBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/api/v1/filter", tc.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tc.wantCode, decodeBody[ErrorResponse](t, rr).Code)
		})
	}

	rr := do(t, h, http.MethodGet, "/api/v1/state", "")
	assert.Equal(t, uint64(0), decodeBody[StateResponse](t, rr).State.Version, "rejected patches must not change state")
}

func TestServer_StateBeforeLoad(t *testing.T) {
	h := newTestRouter(t, false)

	rr := do(t, h, http.MethodPost, "/api/v1/filter", `{"topN":5}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/v1/state", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 5, decodeBody[StateResponse](t, rr).State.Filter.TopN)
}
