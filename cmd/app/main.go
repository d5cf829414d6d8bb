// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"slack-translate-bot/internal/application"
	"slack-translate-bot/internal/config"
	"slack-translate-bot/internal/domain/ports/repository"
	aiAdapters "slack-translate-bot/internal/infra/adapters/ai"
	slackAdapter "slack-translate-bot/internal/infra/adapters/slack"
	"slack-translate-bot/internal/infra/api"
	"slack-translate-bot/internal/infra/db/filestore"
	pg "slack-translate-bot/internal/infra/db/postgres"
	"slack-translate-bot/internal/infra/i18n"
	"slack-translate-bot/internal/infra/logging"
	"slack-translate-bot/internal/infra/metrics"
	red "slack-translate-bot/internal/infra/redis"
	"slack-translate-bot/internal/infra/worker"
	"slack-translate-bot/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file (optional)")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted text)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Preference store ----
	prefs, closeStore, err := openPreferenceStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("preference store")
	}
	defer closeStore()

	// ---- AI ----
	gen, err := aiAdapters.NewFromConfig(ctx, cfg.AI)
	if err != nil {
		logger.Fatal().Err(err).Msg("ai adapter")
	}
	logger.Info().Str("provider", gen.Provider()).Str("model", gen.Model()).Msg("ai adapter ready")

	// ---- Slack ----
	chat, err := slackAdapter.NewRealSlackAdapter(ctx, &cfg.Bot, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("slack")
	}

	tr, err := i18n.NewDefault(cfg.I18n.Locale)
	if err != nil {
		logger.Fatal().Err(err).Msg("i18n")
	}

	// ---- Use cases ----
	onboardingUC := usecase.NewOnboardingUseCase(prefs, chat, tr, logger)
	translationUC := usecase.NewTranslationUseCase(prefs, gen, chat, tr, usecase.TranslationOptions{
		ChannelMembersOnly: cfg.Translate.ChannelMembersOnly,
		DedupeByLanguage:   cfg.Translate.DedupeByLanguage,
	}, logger, cfg.Runtime.Dev)
	dispatcher := application.NewDispatcher(onboardingUC, translationUC, chat.BotUserID(), logger)

	// ---- Event workers (optional) ----
	var pool *worker.Pool
	if cfg.Bot.EventWorkers > 0 {
		pool = worker.NewPool(cfg.Bot.EventWorkers, logger)
		pool.Start(ctx)
		defer pool.Stop()
	}

	// ---- HTTP ----
	srv := api.NewServer(cfg, dispatcher, pool, logger)
	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case err := <-errc:
		if err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}

func openPreferenceStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (repository.PreferenceRepository, func(), error) {
	switch cfg.Store.Driver {
	case "redis":
		client, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return red.NewPreferenceRepo(client, cfg.Redis.Key), func() { _ = client.Close() }, nil

	case "postgres":
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return nil, nil, err
		}
		repo := pg.NewPostgresPreferenceRepo(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil

	default:
		logger.Info().Str("path", cfg.Store.PreferencesFile).Msg("using file preference store")
		return filestore.NewPreferenceFile(cfg.Store.PreferencesFile, logger), func() {}, nil
	}
}
