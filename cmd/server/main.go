package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/skilltrust/portal/internal/api"
	"github.com/skilltrust/portal/internal/infrastructure/config"
	"github.com/skilltrust/portal/internal/infrastructure/session"
	"github.com/skilltrust/portal/internal/infrastructure/upstream"
	"github.com/skilltrust/portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{Level: "info"})
		log := logger.Get()
		log.Fatal().Err(err).Msg("loading configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
	})

	rdb, err := session.Connect(ctx, session.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("connecting to redis")
	}
	defer rdb.Close()

	store := session.NewRedisStore(rdb, cfg.SessionTTL)
	client := upstream.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, logger.Component("upstream"))

	e, err := api.NewRouter(api.Deps{
		Upstream:     client,
		Store:        store,
		Redis:        rdb,
		Log:          logger.Component("http"),
		CookieSecure: cfg.CookieSecure,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("building router")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
