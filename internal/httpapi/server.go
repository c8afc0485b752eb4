// Package httpapi serves the engine over HTTP. Request and response bodies
// use the wire JSON schema.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hypostat/hypostat"
	"github.com/hypostat/hypostat/internal/stats"
	"github.com/hypostat/hypostat/internal/wire"
)

// maxBodyBytes bounds a request document.
const maxBodyBytes = 32 << 20

// Server routes HTTP requests to an engine.
type Server struct {
	engine    *hypostat.Engine
	defaults  wire.Defaults
	precision int
	gatherer  prometheus.Gatherer
	stats     stats.Collector
	logger    *zap.Logger
	router    *chi.Mux
}

// Option configures a Server.
type Option func(*Server)

// WithDefaults sets the values used for omitted optional request fields.
func WithDefaults(d wire.Defaults) Option {
	return func(s *Server) { s.defaults = d }
}

// WithPrecision rounds response values to n decimal places. A negative n,
// the default, keeps full precision.
func WithPrecision(n int) Option {
	return func(s *Server) { s.precision = n }
}

// WithGatherer exposes the metrics of g at /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithStats sets the stats collector.
func WithStats(c stats.Collector) Option {
	return func(s *Server) {
		if c != nil {
			s.stats = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l.Named("http")
		}
	}
}

// New creates a Server for engine.
func New(engine *hypostat.Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		defaults:  wire.Defaults{Alpha: 0.05},
		precision: -1,
		stats:     stats.NewNoop(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/families", s.handleFamilies)
		r.Post("/tests", s.handleTest)
		r.Post("/tests/{family}", s.handleTest)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serving %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type familyDoc struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tails       []string `json:"tails"`
}

func (s *Server) handleFamilies(w http.ResponseWriter, _ *http.Request) {
	families := hypostat.Families()
	out := make([]familyDoc, 0, len(families))
	for _, f := range families {
		tails := f.Tails()
		names := make([]string, len(tails))
		for i, t := range tails {
			names[i] = t.String()
		}
		out = append(out, familyDoc{Name: string(f), Description: f.Description(), Tails: names})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	id := RequestIDFrom(r.Context())

	// A family in the path wins over the body.
	family := chi.URLParam(r, "family")
	if family != "" {
		if _, err := hypostat.ParseFamily(family); err != nil {
			s.fail(w, id, err)
			return
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, wire.Response{ID: id, Error: err.Error(), Kind: wire.KindIncompleteInput})
			return
		}
		s.fail(w, id, fmt.Errorf("reading body: %w", err))
		return
	}

	doc, err := wire.Decode(body)
	if err != nil {
		s.fail(w, id, err)
		return
	}
	if doc.ID != "" {
		id = doc.ID
	}
	if family != "" {
		doc.Family = family
	}

	req, err := doc.ToRequest(s.defaults)
	if err != nil {
		s.fail(w, id, err)
		return
	}
	res, err := s.engine.Run(req)
	if err != nil {
		s.fail(w, id, err)
		return
	}
	if s.precision >= 0 {
		res = res.Rounded(s.precision)
	}
	writeJSON(w, http.StatusOK, wire.Response{ID: id, Result: res})
}

func (s *Server) fail(w http.ResponseWriter, id string, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("request_id", id), zap.Error(err))
	}
	writeJSON(w, status, wire.ErrorResponse(id, err))
}

// statusOf maps an error to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, hypostat.ErrUnknownFamily):
		return http.StatusNotFound
	case wire.IsInputError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON encodes v before committing the status, so a value that cannot
// be encoded is reported as an internal error instead of an empty body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		b, _ = json.Marshal(wire.Response{Error: fmt.Sprintf("encoding response: %v", err), Kind: wire.KindInternal})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}
