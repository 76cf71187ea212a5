// Package webserver serves the static web page and the raw asset files
// over HTTP.
package webserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mosslight/walkabout/internal/logger"
)

// Config holds the server settings.
type Config struct {
	Port      int
	Root      string // document root holding index.html
	AssetsDir string // served under /assets/
}

// Server is the static file server with graceful shutdown.
type Server struct {
	cfg Config
	srv *http.Server
}

// New builds the server around the route table.
func New(cfg Config) *Server {
	return &Server{
		cfg: cfg,
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           Handler(cfg),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler returns the full route table: the document root at /, the
// asset tree under /assets/, and a health endpoint. Every request goes
// through the logging middleware.
func Handler(cfg Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.AssetsDir))))
	mux.Handle("/", http.FileServer(http.Dir(cfg.Root)))

	return logRequests(noListing(mux))
}

// ListenAndServe blocks serving requests until Shutdown. A graceful
// close returns nil.
func (s *Server) ListenAndServe() error {
	logger.Info("http server listening",
		zap.String("addr", s.srv.Addr),
		zap.String("root", s.cfg.Root),
		zap.String("assets", s.cfg.AssetsDir))

	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight
// requests, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("http server shutting down")
	return s.srv.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// ResolvePort picks the listen port: a well-formed PORT value wins,
// otherwise fallback (the flag-over-config result). A malformed PORT
// logs a warning and is ignored.
func ResolvePort(env string, fallback int) int {
	if env != "" {
		if p, err := strconv.Atoi(env); err == nil && p > 0 && p < 65536 {
			return p
		}
		logger.Warn("ignoring malformed PORT", zap.String("value", env))
	}
	return fallback
}

// noListing turns directory requests into 404s. The root document is
// the one trailing-slash path allowed through, so / still serves
// index.html.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr))
	})
}
