// Package httpapi serves published menus, health and metrics over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"daily-menu/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// MenuReader reads published menus.
type MenuReader interface {
	ListPublished(ctx context.Context, from string) ([]models.DayMenu, error)
	GetPublished(ctx context.Context, date string) (*models.DayMenu, error)
}

type Server struct {
	log     *zap.SugaredLogger
	menus   MenuReader
	ping    func(context.Context) error
	metrics http.Handler
	now     func() time.Time
}

// New builds the server. ping checks the database for /healthz and metrics
// serves /metrics.
func New(log *zap.SugaredLogger, menus MenuReader, ping func(context.Context) error, metrics http.Handler) *Server {
	return &Server{
		log:     log,
		menus:   menus,
		ping:    ping,
		metrics: metrics,
		now:     time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthHandler)
	r.Method(http.MethodGet, "/metrics", s.metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/menus", s.listMenusHandler)
		r.Get("/menus/{date}", s.getMenuHandler)
	})

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error, 1)
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		shutdown <- srv.Shutdown(sctx)
	}()

	s.log.Infow("http server started", "addr", addr)
	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdown; err != nil {
		return err
	}
	s.log.Infow("http server stopped", "addr", addr)
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debugw("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
