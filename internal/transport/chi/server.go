// Package chi exposes the records service as a small read-only HTTP API.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/firequery/internal/domain"
	"github.com/kailas-cloud/firequery/internal/domain/document"
	"github.com/kailas-cloud/firequery/internal/domain/query"
	"github.com/kailas-cloud/firequery/internal/logger"
	healthuc "github.com/kailas-cloud/firequery/internal/usecase/health"
)

const (
	maxBodyBytes = 1 << 20
	maxBatchIDs  = 100
)

// RecordService is what the server needs from the records use case.
type RecordService interface {
	List(ctx context.Context, collectionPath string, opts query.Options) ([]document.Record, error)
	Get(ctx context.Context, collectionPath, id string) (document.Record, error)
	GetMany(ctx context.Context, collectionPath string, ids []string) ([]document.Record, error)
}

// HealthService reports upstream reachability.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle an error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the proxy API.
type Server struct {
	records       RecordService
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the proxy HTTP server.
func NewServer(records RecordService, health HealthService, l *zap.Logger) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{
		records: records,
		health:  health,
		logger:  l,
		errorHandlers: []errorHandler{
			sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeInvalidQuery),
			sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, CodeTimeout),
			sentinelHandler(domain.ErrTransport, http.StatusBadGateway, CodeUpstreamError),
			sentinelHandler(domain.ErrMalformedResponse, http.StatusBadGateway, CodeUpstreamError),
		},
	}
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Post("/query", s.Query)
		r.Post("/batchGet", s.BatchGet)
		r.Get("/documents/*", s.GetDocument)
	})
}

// Query handles POST /v1/query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Collection == "" {
		writeError(w, http.StatusBadRequest, CodeInvalidQuery, "collection is required")
		return
	}

	opts, err := req.Options.toDomain()
	if err != nil {
		s.handleError(r.Context(), w, err)
		return
	}

	recs, err := s.records.List(r.Context(), req.Collection, opts)
	if err != nil {
		s.handleError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, QueryResponse{Records: recs, Count: len(recs)})
}

// GetDocument handles GET /v1/documents/{collectionPath}/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	path, err := wildcardPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "malformed document path")
		return
	}
	path = strings.Trim(path, "/")
	i := strings.LastIndexByte(path, '/')
	if i <= 0 || i == len(path)-1 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "path must be <collection>/<id>")
		return
	}
	collection, id := path[:i], path[i+1:]

	rec, err := s.records.Get(r.Context(), collection, id)
	if err != nil {
		s.handleError(r.Context(), w, err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, CodeNotFound, "document not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// wildcardPath returns the unescaped "*" route parameter. chi matches on
// RawPath when the request carries one, leaving the parameter escaped.
func wildcardPath(r *http.Request) (string, error) {
	p := chi.URLParam(r, "*")
	if r.URL.RawPath == "" {
		return p, nil
	}
	return url.PathUnescape(p)
}

// BatchGet handles POST /v1/batchGet.
func (s *Server) BatchGet(w http.ResponseWriter, r *http.Request) {
	var req BatchGetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		s.handleError(r.Context(), w, errEmptyBatch)
		return
	}
	if len(req.IDs) > maxBatchIDs {
		writeError(w, http.StatusBadRequest, CodeInvalidQuery, "too many ids (max 100)")
		return
	}

	recs, err := s.records.GetMany(r.Context(), req.Collection, req.IDs)
	if err != nil {
		s.handleError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, BatchGetResponse{Records: recs})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// Validation messages are safe to return; upstream ones are not echoed.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := sentinel.Error()
		if status == http.StatusBadRequest {
			msg = err.Error()
		}
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) {
			msg = "upstream answered " + http.StatusText(apiErr.StatusCode)
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logger.FromContext(ctx)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("request failed", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
