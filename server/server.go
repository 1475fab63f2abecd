package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/TFMV/driftgraph/logging"
	"github.com/TFMV/driftgraph/metrics"
	"github.com/TFMV/driftgraph/render"
	"github.com/TFMV/driftgraph/session"
)

// DefaultMaxSurface caps a requested width or height when Config leaves it zero
const DefaultMaxSurface = 4096

// Config for the server
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// MaxSurface is the largest width or height a request may ask for
	MaxSurface float64
}

// DefaultConfig listens on :8080 with the usual timeouts
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		MaxSurface:   DefaultMaxSurface,
	}
}

// Server paints a running session over HTTP
type Server struct {
	config  Config
	session *session.Session
	metrics *metrics.Registry
	logger  *slog.Logger
	mux     *http.ServeMux
}

// New registers the routes for sess. A nil registry disables /metrics and
// request instrumentation
func New(config Config, sess *session.Session, reg *metrics.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	if config.MaxSurface <= 0 {
		config.MaxSurface = DefaultMaxSurface
	}
	s := &Server{
		config:  config,
		session: sess,
		metrics: reg,
		logger:  logger,
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", handleIndex())
	s.mux.HandleFunc("GET /api/frame", s.handleAPIFrame())
	s.mux.HandleFunc("GET /api/snapshot", s.handleAPISnapshot())
	s.mux.HandleFunc("GET /api/stats", s.handleAPIStats())
	s.mux.HandleFunc("GET /frame.svg", s.handleFrame("svg"))
	s.mux.HandleFunc("GET /frame.png", s.handleFrame("png"))
	s.mux.HandleFunc("GET /frame.txt", s.handleFrame("ascii"))
	s.mux.HandleFunc("POST /api/gradient", s.handleGradient())
	s.mux.HandleFunc("GET /healthz", s.handleHealth())
	if reg != nil {
		s.mux.Handle("GET /metrics", reg.Handler())
	}

	return s
}

// Handler returns the instrumented router
func (s *Server) Handler() http.Handler {
	if s.metrics == nil {
		return s.mux
	}
	return s.instrument(s.mux)
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", ln.Addr().String())
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("shutting down server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// surface reads width and height from the query, defaulting to the canvas.
// Each must be finite and within [0, MaxSurface]
func (s *Server) surface(r *http.Request) (render.Surface, error) {
	bounds := s.session.Bounds()
	surface := render.Surface{Width: bounds.Width, Height: bounds.Height}

	for name, dst := range map[string]*float64{
		"width":  &surface.Width,
		"height": &surface.Height,
	} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return render.Surface{}, fmt.Errorf("invalid %s %q", name, raw)
		}
		if v > s.config.MaxSurface {
			return render.Surface{}, fmt.Errorf("%s %g exceeds the maximum of %g", name, v, s.config.MaxSurface)
		}
		*dst = v
	}
	return surface, nil
}

func (s *Server) paint(r *http.Request) (*render.Frame, error) {
	surface, err := s.surface(r)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordPaint("http")
	}
	return s.session.OnPaint(surface), nil
}

// handleAPIFrame returns the draw commands for one paint as JSON
func (s *Server) handleAPIFrame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		frame, err := s.paint(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.writeJSON(w, frame)
	}
}

// handleAPISnapshot returns the latest published snapshot
func (s *Server) handleAPISnapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, s.session.Snapshot())
	}
}

// handleAPIStats returns the graph's topology summary
func (s *Server) handleAPIStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, s.session.Snapshot().Stats())
	}
}

// handleFrame renders one paint in format
func (s *Server) handleFrame(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		frame, err := s.paint(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		renderer, err := render.GetRenderer(format)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		output, err := renderer.Render(frame)
		if err != nil {
			s.logger.Error("render failed", "format", format, "error", err)
			http.Error(w, "Error generating frame: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", renderer.ContentType())
		w.Header().Set("Cache-Control", "no-store")
		w.Write(output)
	}
}

// handleGradient sets the gradient offset from the "offset" form value
func (s *Server) handleGradient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := strconv.ParseFloat(r.FormValue("offset"), 64)
		if err != nil || math.IsNaN(v) || v < 0 || v > 1 {
			http.Error(w, "offset must be a number between 0 and 1", http.StatusBadRequest)
			return
		}
		s.session.SetGradientOffset(v)
		s.writeJSON(w, map[string]float64{"offset": v})
	}
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, map[string]any{
			"status": "ok",
			"seq":    s.session.Snapshot().Seq,
			"paused": s.session.Paused(),
		})
	}
}

// writeJSON encodes v before touching w so a failure can still report 500
func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to encode response", "error", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.logger.Debug("failed to write response", "error", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument records request counts and latency by route pattern
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		s.metrics.RecordHTTPRequest(r.Method, path, strconv.Itoa(rec.status), time.Since(start))
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status)
	})
}
