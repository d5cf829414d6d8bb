package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"slack-translate-bot/internal/application"
	"slack-translate-bot/internal/config"
	"slack-translate-bot/internal/infra/metrics"
	"slack-translate-bot/internal/infra/worker"
)

// EventHandler is implemented by application.Dispatcher.
type EventHandler interface {
	HandleMessage(ctx context.Context, ev application.MessageEvent) error
	HandleBlockAction(ctx context.Context, ev application.BlockActionEvent) error
}

// Server exposes the Slack endpoints plus health and metrics.
type Server struct {
	cfg           config.ServerConfig
	signingSecret string
	events        EventHandler
	pool          *worker.Pool // nil: handle events inline
	log           *zerolog.Logger
	srv           *http.Server
}

func NewServer(cfg *config.Config, events EventHandler, pool *worker.Pool, logger *zerolog.Logger) *Server {
	s := &Server{
		cfg:           cfg.Server,
		signingSecret: cfg.Bot.SigningSecret,
		events:        events,
		pool:          pool,
		log:           logger,
	}
	s.srv = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Router builds the chi routing tree with the middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(s.log), Recover(s.log), RequestLog(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(Timeout(s.cfg.RequestTimeout), SlackSignature(s.signingSecret, s.log))
		r.Post(s.cfg.EventsPath, s.handleEvents)
		r.Post(s.cfg.InteractivePath, s.handleInteractive)
	})
	return r
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("http server listening")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
