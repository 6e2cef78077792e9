package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/config"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/infra"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/repository"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/router"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title        Cafe Cafe Confeitaria API
// @version      1.0
// @description  Bakery point-of-sale backend: cash registers, sales and end-of-day reconciliation.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	webhook := infra.NewWebhookClient(cfg.WebhookURL)
	mailer := infra.NewMailer(cfg)

	dispatcher := worker.NewDispatcher(rdb)
	reportWorker := worker.NewReportWorker(repository.NewClosingRepository(db), mailer, webhook, cb, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker.StartWorkerPool(ctx, rdb, &worker.WorkerHandlers{Report: reportWorker}, cfg.WorkerPoolSize)
	worker.StartRetryCron(ctx, rdb, cb)

	engine := router.New(cfg, db, rdb, dispatcher, cb)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("closing redis client")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}
