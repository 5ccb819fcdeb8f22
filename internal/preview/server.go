package preview

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/OpenTraceLab/OpenTraceFX/internal/logging"
	"github.com/OpenTraceLab/OpenTraceFX/internal/store"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/scene"
)

// Options configures a Server.
type Options struct {
	Theme scene.ColorTheme

	// Store enables the snapshot endpoints when set.
	Store   *store.Store
	Project string

	// OnChange runs under the lock after a request mutated the editor.
	OnChange func(ed *timeline.Editor)
}

// Server exposes one editor over HTTP.
type Server struct {
	mu     sync.Mutex
	ed     *timeline.Editor
	opts   Options
	router *mux.Router
}

// New builds a server and its routes.
func New(ed *timeline.Editor, opts Options) *Server {
	if opts.Project == "" {
		opts.Project = "default"
	}
	s := &Server{ed: ed, opts: opts}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(metricsMiddleware)

	r.HandleFunc("/healthz", s.health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/project", s.getProject).Methods("GET")
	api.HandleFunc("/project", s.putProject).Methods("PUT")
	api.HandleFunc("/summary", s.getSummary).Methods("GET")
	api.HandleFunc("/frames/{frame:[0-9]+}", s.getFrame).Methods("GET")
	api.HandleFunc("/regions/{id:[0-9]+}", s.getRegion).Methods("GET")
	api.HandleFunc("/lanes/{id:[0-9]+}/samples", s.getLaneSamples).Methods("GET")
	api.HandleFunc("/playhead", s.getPlayhead).Methods("GET")
	api.HandleFunc("/playhead", s.putPlayhead).Methods("PUT")
	api.HandleFunc("/snapshot.png", s.getSnapshotPNG).Methods("GET")
	api.HandleFunc("/effects", s.getEffects).Methods("GET")
	api.HandleFunc("/snapshots", s.listSnapshots).Methods("GET")
	api.HandleFunc("/snapshots", s.saveSnapshot).Methods("POST")
	api.HandleFunc("/snapshots/{id:[0-9]+}/restore", s.restoreSnapshot).Methods("POST")

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Do runs fn with exclusive access to the editor.
func (s *Server) Do(fn func(ed *timeline.Editor)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.ed)
}

// changed must be called with the lock held.
func (s *Server) changed() {
	if s.opts.OnChange != nil {
		s.opts.OnChange(s.ed)
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("preview listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Warn("preview shutdown error: %v", err)
		return err
	}
	logging.Info("preview stopped")
	return nil
}
