// Package server exposes page sessions over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/ganttkit/internal/contract"
	"github.com/alexanderramin/ganttkit/internal/controller"
	"github.com/alexanderramin/ganttkit/internal/service"
)

const maxBodyBytes = 1 << 20

type Server struct {
	pages  service.PageService
	drops  service.DropLogService
	logger *slog.Logger
}

// New builds the API. drops may be nil, which disables GET /api/drops.
func New(pages service.PageService, drops service.DropLogService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{pages: pages, drops: drops, logger: logger}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/pages", s.handlePages)
	mux.HandleFunc("POST /api/pages/{page}/sessions", s.handleOpen)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGet)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleClose)
	mux.HandleFunc("POST /api/sessions/{id}/toggles/{name}", s.handleToggle)
	mux.HandleFunc("PUT /api/sessions/{id}/timescale", s.handleTimeScale)
	mux.HandleFunc("PUT /api/sessions/{id}/scale", s.handleScale)
	mux.HandleFunc("PUT /api/sessions/{id}/detail-level", s.handleDetailLevel)
	mux.HandleFunc("PUT /api/sessions/{id}/color-by", s.handleColorBy)
	mux.HandleFunc("PUT /api/sessions/{id}/widths", s.handleWidths)
	mux.HandleFunc("PUT /api/sessions/{id}/row-status", s.handleRowStatus)
	mux.HandleFunc("PUT /api/sessions/{id}/scroll-left", s.handleScrollLeft)
	mux.HandleFunc("POST /api/sessions/{id}/drop", s.handleDrop)
	mux.HandleFunc("POST /api/sessions/{id}/click", s.handleClick)
	mux.HandleFunc("GET /api/drops", s.handleDrops)
	return s.logRequests(withSecurityHeaders(mux))
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln, readTimeout, shutdownTimeout)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener, readTimeout, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.InfoContext(ctx, "serving", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.DebugContext(r.Context(), "http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnknownPage), errors.Is(err, service.ErrUnknownSession):
		return http.StatusNotFound
	case errors.Is(err, controller.ErrUnsupportedToggle), errors.Is(err, service.ErrInvalidClick), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

var errBadRequest = errors.New("bad request")

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decoding body: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.pages.Pages(r.Context()))
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	resp, err := s.pages.Open(r.Context(), r.PathValue("page"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	resp, err := s.pages.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	if err := s.pages.Close(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	props, err := s.pages.Toggle(r.Context(), r.PathValue("id"), controller.Toggle(r.PathValue("name")))
	s.writeProps(w, r, props, err)
}

func (s *Server) writeProps(w http.ResponseWriter, r *http.Request, props *contract.ChartProps, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, props)
}

// propsHandler decodes a request body of type T and applies it with fn.
func propsHandler[T any](s *Server, fn func(ctx context.Context, id string, req T) (*contract.ChartProps, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req T
		if err := decode(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		props, err := fn(r.Context(), r.PathValue("id"), req)
		s.writeProps(w, r, props, err)
	}
}

// updateHandler decodes a write-back body of type T and answers 204.
func updateHandler[T any](s *Server, fn func(ctx context.Context, id string, req T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req T
		if err := decode(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := fn(r.Context(), r.PathValue("id"), req); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleTimeScale(w http.ResponseWriter, r *http.Request) {
	propsHandler(s, s.pages.SelectTimeScale)(w, r)
}

func (s *Server) handleScale(w http.ResponseWriter, r *http.Request) {
	propsHandler(s, s.pages.SetScale)(w, r)
}

func (s *Server) handleDetailLevel(w http.ResponseWriter, r *http.Request) {
	propsHandler(s, s.pages.SelectDetailLevel)(w, r)
}

func (s *Server) handleColorBy(w http.ResponseWriter, r *http.Request) {
	propsHandler(s, s.pages.SelectColorBy)(w, r)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	propsHandler(s, s.pages.Click)(w, r)
}

func (s *Server) handleWidths(w http.ResponseWriter, r *http.Request) {
	updateHandler(s, s.pages.UpdateWidths)(w, r)
}

func (s *Server) handleRowStatus(w http.ResponseWriter, r *http.Request) {
	updateHandler(s, s.pages.UpdateRowStatus)(w, r)
}

func (s *Server) handleScrollLeft(w http.ResponseWriter, r *http.Request) {
	updateHandler(s, s.pages.UpdateScrollLeft)(w, r)
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req contract.DropRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := s.pages.Drop(r.Context(), r.PathValue("id"), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDrops(w http.ResponseWriter, r *http.Request) {
	if s.drops == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "drop log disabled"})
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, fmt.Errorf("%w: limit must be a non-negative integer", errBadRequest))
			return
		}
		limit = n
	}
	events, err := s.drops.List(r.Context(), r.URL.Query().Get("page"), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if events == nil {
		events = []*contract.DropEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}
