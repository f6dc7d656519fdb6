package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Faiz-1107/AMK-Project-Management/internal/apiclient"
	"github.com/Faiz-1107/AMK-Project-Management/internal/config"
	"github.com/Faiz-1107/AMK-Project-Management/internal/geo"
	"github.com/Faiz-1107/AMK-Project-Management/internal/guard"
	"github.com/Faiz-1107/AMK-Project-Management/internal/handlers"
	"github.com/Faiz-1107/AMK-Project-Management/internal/jobs"
	"github.com/Faiz-1107/AMK-Project-Management/internal/log"
	"github.com/Faiz-1107/AMK-Project-Management/internal/notify"
	"github.com/Faiz-1107/AMK-Project-Management/internal/server"
	"github.com/Faiz-1107/AMK-Project-Management/internal/session"
	"github.com/Faiz-1107/AMK-Project-Management/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	backend, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("failed to open session storage")
	}

	sessions := session.NewStore(backend, log.Component(logger, "session"))
	sessions.Restore(ctx)

	api := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout, sessions, log.Component(logger, "apiclient"))
	g := guard.New(sessions, log.Component(logger, "guard"))
	notices := notify.NewQueue(0)

	handlerSet := handlers.NewHandlerSet(logger, cfg, api, sessions, backend, notices, geo.Default(), g)
	httpServer, err := server.NewHTTPServer(cfg, logger, handlerSet, g)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build http server")
	}

	var revalidator *jobs.Revalidator
	if cfg.Revalidate.Enabled {
		revalidator = jobs.NewRevalidator(cfg.Revalidate.Schedule, sessions, api, cfg.API.Timeout, log.Component(logger, "revalidate"))
		if err := revalidator.Start(); err != nil {
			logger.Error().Err(err).Msg("revalidation start failed")
			revalidator = nil
		}
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, revalidator, backend)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, revalidator *jobs.Revalidator, backend storage.Backend) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if revalidator != nil {
		revalidator.Stop(shutdownCtx)
	}

	if err := backend.Close(); err != nil {
		logger.Error().Err(err).Msg("session storage close error")
	}

	logger.Info().Msg("console exited cleanly")
}
