package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"github.com/ritzau/ecolink/pkg/corridor"
	"github.com/ritzau/ecolink/pkg/logging"
	"github.com/ritzau/ecolink/pkg/risk"
)

//go:embed static/*
var staticFiles embed.FS

// CorridorFinder answers corridor queries
type CorridorFinder interface {
	Find(ctx context.Context, source, destination string) (*corridor.Corridor, error)
}

// Options configures the server
type Options struct {
	// StaticDir serves front-end assets from disk instead of the built-in ones
	StaticDir string
	// CORS allows any origin to call the API
	CORS bool
}

// Server represents the web server
type Server struct {
	router  *mux.Router
	finder  CorridorFinder
	assets  fs.FS
	handler http.Handler
	logger  *slog.Logger
}

// NewServer creates a new web server
func NewServer(finder CorridorFinder, opts Options) (*Server, error) {
	assets, err := assetFS(opts.StaticDir)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router: mux.NewRouter(),
		finder: finder,
		assets: assets,
		logger: logging.New("web"),
	}
	s.setupRoutes()

	// Wrap the router itself so preflight and 405 responses get headers too
	var h http.Handler = s.router
	if opts.CORS {
		h = corsMiddleware(h)
	}
	s.handler = logging.RequestIDMiddleware(h)
	return s, nil
}

func assetFS(dir string) (fs.FS, error) {
	if dir == "" {
		return fs.Sub(staticFiles, "static")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("static directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static directory: %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/get_corridor", s.handleCorridor).Methods(http.MethodGet)
	s.router.HandleFunc("/get_risk_info", s.handleRiskInfo).Methods(http.MethodGet)

	files := http.FileServer(http.FS(s.assets))
	s.router.PathPrefix("/").Handler(files).Methods(http.MethodGet, http.MethodHead)
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) handleCorridor(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := s.finder.Find(r.Context(), q.Get("source"), q.Get("destination"))
	if err != nil {
		logger := logging.WithContext(r.Context(), s.logger)
		status := corridor.StatusCode(err)
		if status >= http.StatusInternalServerError {
			logger.Error("corridor query failed", "error", err)
		} else {
			logger.Debug("corridor query rejected", "error", err)
		}
		s.writeError(w, status, corridor.Message(err))
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleRiskInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, risk.Table())
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorBody{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

// corsMiddleware allows any origin so the map page can be opened from disk
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
			if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
				h.Set("Access-Control-Allow-Headers", reqHeaders)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.logger.Info("web server listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("web server stopped")
	return nil
}
