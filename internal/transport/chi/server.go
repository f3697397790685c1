// Package chi serves a dashboard session over HTTP and websocket.
package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/carelens/internal/domain"
	domstate "github.com/kailas-cloud/carelens/internal/domain/state"
	dashboarduc "github.com/kailas-cloud/carelens/internal/usecase/dashboard"
	healthuc "github.com/kailas-cloud/carelens/internal/usecase/health"
)

// View names accepted by GET /api/v1/views/{view}.
const (
	ViewMap        = "map"
	ViewScatter    = "scatter"
	ViewProcedures = "procedures"
	ViewRanking    = "ranking"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  healthuc.Status                 `json:"status"`
	Checks  map[string]healthuc.CheckResult `json:"checks"`
	Version string                          `json:"version"`
}

// StateResponse wraps the selection and filter snapshot.
type StateResponse struct {
	State domstate.Snapshot `json:"state"`
}

// OwnershipsResponse lists the ownership categories of the dataset.
type OwnershipsResponse struct {
	Items []string `json:"items"`
}

// Server is the HTTP API over one dashboard session.
type Server struct {
	dashboard     *dashboarduc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	validate      *validator.Validate
	upgrader      websocket.Upgrader
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(dashboard *dashboarduc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{
		dashboard:     dashboard,
		health:        health,
		logger:        logger,
		validate:      newValidator(),
		upgrader:      websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 4096},
		errorHandlers: defaultErrorHandlers(),
	}
}

// Mount registers all routes on r.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/frame", s.GetFrame)
		r.Get("/views/{view}", s.GetView)
		r.Get("/ownerships", s.ListOwnerships)
		r.Get("/state", s.GetState)
		r.Post("/selection", s.UpdateSelection)
		r.Post("/filter", s.UpdateFilter)
		r.Get("/ws", s.Stream)
	})
}

// GetFrame handles GET /api/v1/frame.
func (s *Server) GetFrame(w http.ResponseWriter, r *http.Request) {
	f, err := s.dashboard.Frame()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, f)
}

// GetView handles GET /api/v1/views/{view}.
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	var (
		v   any
		err error
	)
	switch name := chi.URLParam(r, "view"); name {
	case ViewMap:
		v, err = s.dashboard.Map()
	case ViewScatter:
		v, err = s.dashboard.Scatter()
	case ViewProcedures:
		v, err = s.dashboard.Procedures()
	case ViewRanking:
		v, err = s.dashboard.Ranking()
	default:
		s.handleDomainError(w, r, fmt.Errorf("view %q: %w", name, domain.ErrNotFound))
		return
	}
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

// ListOwnerships handles GET /api/v1/ownerships.
func (s *Server) ListOwnerships(w http.ResponseWriter, r *http.Request) {
	items, err := s.dashboard.Ownerships()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, OwnershipsResponse{Items: items})
}

// GetState handles GET /api/v1/state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, StateResponse{State: s.dashboard.State()})
}

// UpdateSelection handles POST /api/v1/selection.
func (s *Server) UpdateSelection(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if !s.decode(w, r, &req) {
		return
	}
	p, err := req.patch()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, StateResponse{State: s.dashboard.Update(p)})
}

// UpdateFilter handles POST /api/v1/filter.
func (s *Server) UpdateFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if !s.decode(w, r, &req) {
		return
	}
	p, err := req.patch()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, StateResponse{State: s.dashboard.Update(p)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, r, httpStatus, HealthResponse{
		Status:  report.Status,
		Checks:  report.Checks,
		Version: report.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decode reads and validates a JSON body. On failure the response is
// already written.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		writeError(w, r, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if vf := validateRequest(s.validate, dst); vf != nil {
		writeError(w, r, http.StatusBadRequest, vf.Code, vf.Message)
		return false
	}
	return true
}
