package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/averlane/simsearch/internal/domain"
	"github.com/averlane/simsearch/internal/metrics"
	healthuc "github.com/averlane/simsearch/internal/usecase/health"
	searchuc "github.com/averlane/simsearch/internal/usecase/search"
)

// SessionHeader carries the caller's session identity. Pagination is
// meaningless without it.
const SessionHeader = "X-Session-ID"

// Error codes returned to clients.
const (
	CodeBadRequest       = "bad_request"
	CodeValidationFailed = "validation_failed"
	CodeUnknownDomain    = "unknown_domain"
	CodeEncodingFailure  = "encoding_failure"
	CodeIndexUnavailable = "index_unavailable"
	CodeNoActiveSearch   = "no_active_search"
	CodeInternalError    = "internal_error"
)

// SearchRequest is the POST /search body.
type SearchRequest struct {
	Domain  string `json:"domain"`
	Keyword string `json:"keyword"`
}

// ResultItem is one joined match in a page.
type ResultItem struct {
	ID        int64   `json:"id"`
	Text      string  `json:"text"`
	Author    string  `json:"author"`
	CreatedAt string  `json:"created_at"`
	Distance  float64 `json:"distance"`
}

// PageResponse is the payload for both /search and /paginate.
type PageResponse struct {
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	Results    []ResultItem `json:"results"`
}

// ErrorResponse is the error payload for every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the GET /health payload.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API over the search and health services.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUnknownDomain, http.StatusBadRequest, CodeUnknownDomain),
		sentinelHandler(domain.ErrNoActiveSearch, http.StatusBadRequest, CodeNoActiveSearch),
		sentinelHandler(domain.ErrEncodingFailure, http.StatusBadGateway, CodeEncodingFailure),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, CodeIndexUnavailable),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/search", s.Search)
	r.Get("/paginate", s.Paginate)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "missing "+SessionHeader+" header")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Keyword) == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "keyword is required")
		return
	}

	label := strings.ToLower(strings.TrimSpace(req.Domain))
	page, err := s.search.Search(r.Context(), req.Domain, req.Keyword, sessionID)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(label, "error").Inc()
		s.handleDomainError(w, err)
		return
	}

	metrics.SearchesTotal.WithLabelValues(label, "success").Inc()
	metrics.SearchMatches.WithLabelValues(label).Observe(float64(len(page.Results)))

	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// Paginate handles GET /paginate?page=N.
func (s *Server) Paginate(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "missing "+SessionHeader+" header")
		return
	}

	pageNum := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "page must be an integer")
			return
		}
		pageNum = n
	}

	page, err := s.search.Paginate(r.Context(), sessionID, pageNum)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func pageToResponse(page searchuc.Page) PageResponse {
	results := make([]ResultItem, len(page.Results))
	for i, sr := range page.Results {
		results[i] = ResultItem{
			ID:        sr.Record.ID,
			Text:      sr.Record.Text,
			Author:    sr.Record.Author,
			CreatedAt: sr.Record.CreatedAt.Format(domain.TimeLayout),
			Distance:  sr.Distance,
		}
	}
	return PageResponse{
		Page:       page.Number,
		TotalPages: page.TotalPages,
		Results:    results,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client
// without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUnknownDomain,
		domain.ErrEncodingFailure,
		domain.ErrIndexUnavailable,
		domain.ErrNoActiveSearch,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler matching a single sentinel.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
