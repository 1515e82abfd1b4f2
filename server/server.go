// Package server exposes key rate durations over HTTP.
//
//	POST /v1/krd   bonds → report
//	POST /v1/pv    bonds → present values
//	GET  /healthz
//
// Bonds are posted either as a JSON object {"name", "compounding", "bonds": [...]} or,
// with Content-Type application/x-ndjson, as a bonds file.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/etnz/krd"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// MaxBodySize bounds the size of a posted book.
const MaxBodySize = 8 << 20

// Server is the HTTP handler of the API.
type Server struct {
	// Options are the defaults of every report, the compounding can be overridden per request.
	Options krd.ReportOptions
	Logger  *zap.Logger
	router  chi.Router
}

// New creates the API handler.
func New(opts krd.ReportOptions, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{Options: opts, Logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.Health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/krd", s.KeyRateDurations)
		r.Post("/pv", s.PresentValues)
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

// ListenAndServe serves the API on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.Logger.Info("listening", zap.String("addr", addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.Logger.Info("shutting down")
	if err := srv.Shutdown(shutdown); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Health reports that the server is up.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// KeyRateDurations responds with the key rate duration report of the posted bonds.
func (s *Server) KeyRateDurations(w http.ResponseWriter, r *http.Request) {
	report, ok := s.report(w, r)
	if !ok {
		return
	}
	w.Header().Set("X-Report-ID", report.ID)
	s.writeJSON(w, r, http.StatusOK, report)
}

type bondPV struct {
	Name         string    `json:"name"`
	Weight       float64   `json:"weight"`
	PresentValue krd.Money `json:"presentValue"`
}

type pvResponse struct {
	ID       string    `json:"id"`
	AsOf     string    `json:"asOf"`
	Currency string    `json:"currency,omitempty"`
	Bonds    []bondPV  `json:"bonds"`
	Total    krd.Money `json:"total"`
}

// PresentValues responds with the present value of each posted bond.
func (s *Server) PresentValues(w http.ResponseWriter, r *http.Request) {
	report, ok := s.report(w, r)
	if !ok {
		return
	}
	resp := pvResponse{
		ID:       report.ID,
		AsOf:     report.AsOf.String(),
		Currency: report.Currency,
		Bonds:    make([]bondPV, len(report.Bonds)),
		Total:    report.TotalPresentValue(),
	}
	for i, b := range report.Bonds {
		resp.Bonds[i] = bondPV{Name: b.Name, Weight: b.Weight, PresentValue: b.PresentValue}
	}
	w.Header().Set("X-Report-ID", report.ID)
	s.writeJSON(w, r, http.StatusOK, resp)
}

// report decodes the request and computes its report, or writes the error response.
func (s *Server) report(w http.ResponseWriter, r *http.Request) (*krd.Report, bool) {
	logger := s.requestLogger(r)

	book, mode, err := decodeRequest(w, r, s.Options.Mode)
	if err != nil {
		logger.Info("invalid request", zap.Error(err))
		s.writeError(w, r, http.StatusBadRequest, err)
		return nil, false
	}

	opts := s.Options
	opts.Mode = mode
	opts.Logger = logger
	report, err := krd.NewReport(r.Context(), book, opts)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.Warn("report interrupted", zap.Error(err))
		s.writeError(w, r, http.StatusServiceUnavailable, err)
		return nil, false
	case err != nil:
		logger.Info("cannot compute report", zap.Error(err))
		s.writeError(w, r, http.StatusUnprocessableEntity, err)
		return nil, false
	}
	return report, true
}

type krdRequest struct {
	Name        string           `json:"name"`
	Compounding *krd.Compounding `json:"compounding,omitempty"`
	Bonds       []krd.Bond       `json:"bonds"`
}

func decodeRequest(w http.ResponseWriter, r *http.Request, mode krd.Compounding) (*krd.Book, krd.Compounding, error) {
	body := http.MaxBytesReader(w, r.Body, MaxBodySize)

	if ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); ct == "application/x-ndjson" {
		book, err := krd.DecodeBook(body)
		if err != nil {
			return nil, mode, err
		}
		if c := r.URL.Query().Get("compounding"); c != "" {
			if mode, err = krd.ParseCompounding(c); err != nil {
				return nil, mode, err
			}
		}
		return book, mode, nil
	}

	var req krdRequest
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, mode, fmt.Errorf("invalid request body: %w", err)
	}
	if req.Compounding != nil {
		mode = *req.Compounding
	}
	return krd.NewBook(req.Name, req.Bonds...), mode, nil
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return s.Logger.With(zap.String("request_id", middleware.GetReqID(r.Context())))
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.requestLogger(r).Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.writeJSON(w, r, status, map[string]string{
		"error":     err.Error(),
		"requestId": middleware.GetReqID(r.Context()),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.requestLogger(r).Error(fmt.Errorf("encode response: %w", err).Error())
	}
}
