// Package api serves the retained sensor history over HTTP: raw series,
// rolling statistics, chart figures for the dashboard and a WebSocket live
// feed. Handlers only ever read store snapshots; the store lock is never
// held while a response is being written.
package api

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"time"

	"codeberg.org/mutker/enviromon/internal/errors"
	"codeberg.org/mutker/enviromon/internal/logger"
	"codeberg.org/mutker/enviromon/internal/store"
	"github.com/gorilla/websocket"
)

//go:embed static
var staticFS embed.FS

const (
	defaultPushInterval = 5 * time.Second
	shutdownTimeout     = 5 * time.Second
)

type Config struct {
	Listen       string
	PushInterval time.Duration // live feed cadence; zero means the default
}

type Server struct {
	cfg      Config
	store    *store.Store
	upgrader websocket.Upgrader
}

func New(cfg Config, st *store.Store) *Server {
	if cfg.PushInterval <= 0 {
		cfg.PushInterval = defaultPushInterval
	}

	return &Server{
		cfg:   cfg,
		store: st,
		upgrader: websocket.Upgrader{
			// Dashboard and API are unauthenticated on the local network
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the full route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/data", s.handleData)
	mux.HandleFunc("GET /api/series/{metric}", s.handleSeries)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/latest", s.handleLatest)
	mux.HandleFunc("GET /api/chart/{chart}", s.handleChart)
	mux.HandleFunc("GET /api/live", s.handleLive)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		// embed is checked at build time; Sub only fails on a bad path
		panic(err)
	}
	mux.Handle("GET /", http.FileServerFS(static))

	return mux
}

// Run serves until the context is canceled, then drains with a short
// shutdown deadline.
func (s *Server) Run(ctx context.Context) error {
	errFactory := errors.New()

	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	logger.Info().Str("listen", s.cfg.Listen).Msg("HTTP server listening")

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			return errFactory.Wrap(errors.ErrShutdownFailed, err)
		}
		return nil
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errFactory.Wrap(errors.ErrServeHTTP, err)
		}
		return nil
	}
}
