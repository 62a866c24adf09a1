// Package httpapi exposes a kv.Service over HTTP and provides the matching
// client.
//
//	POST /put           {"key": "...", "value": "..."}  -> 200 {"status": "success"}
//	GET  /get?key=...                                    -> 200 {"value": "..."} | 404
//	GET  /health                                         -> 200 {"status": "healthy"}
//
// Errors carry a JSON body {"detail": "..."}.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/codewandler/lrukv/core/cache"
	"github.com/codewandler/lrukv/ports/kv"
)

const maxBodyBytes = 64 << 10

type (
	PutRequest struct {
		Key   *string `json:"key"`
		Value *string `json:"value"`
	}

	StatusResponse struct {
		Status string `json:"status"`
	}

	ValueResponse struct {
		Value string `json:"value"`
	}

	ErrorResponse struct {
		Detail string `json:"detail"`
	}
)

type ServerOptions struct {
	Service kv.Service
	Log     *slog.Logger // optional
}

type Server struct {
	svc kv.Service
	log *slog.Logger
	mux *http.ServeMux
}

func NewServer(opts ServerOptions) *Server {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		svc: opts.Service,
		log: log.With(slog.String("transport", "http")),
		mux: http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /put", s.handlePut)
	s.mux.HandleFunc("GET /get", s.handleGet)
	s.mux.HandleFunc("GET /get/", s.handleGet)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.log.DebugContext(r.Context(), "request",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", rec.status),
		slog.Duration("took", time.Since(start)),
	)
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	var req PutRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Detail: fmt.Sprintf("invalid body: %s", err)})
		return
	}
	if req.Key == nil || req.Value == nil {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Detail: "key and value are required"})
		return
	}

	if err := s.svc.Put(r.Context(), *req.Key, *req.Value); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "success"})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("key") {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Detail: "query parameter key is required"})
		return
	}

	value, err := s.svc.Get(r.Context(), q.Get("key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ValueResponse{Value: value})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h, err := s.svc.Health(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: h.Status})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *cache.ValidationError
	switch {
	case errors.Is(err, kv.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Detail: "Key not found"})
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: vErr.Detail()})
	case errors.Is(err, kv.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
	default:
		s.log.ErrorContext(r.Context(), "request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Detail: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
