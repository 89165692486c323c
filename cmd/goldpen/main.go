package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yuchialin/goldpen/internal/api"
	"github.com/yuchialin/goldpen/internal/config"
	"github.com/yuchialin/goldpen/internal/content"
	"github.com/yuchialin/goldpen/internal/gpt"
	"github.com/yuchialin/goldpen/internal/kitco"
	"github.com/yuchialin/goldpen/internal/scheduler"
	"github.com/yuchialin/goldpen/internal/storage"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg := config.Load()
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	cfg.Validate()

	log.Info().Msg("Starting goldpen")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := storage.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		store.Close(closeCtx)
	}()

	chat := gpt.NewClient(gpt.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	})

	market := kitco.NewClient(cfg.KitcoBaseURL)
	pipeline := content.NewPipeline(chat, store, nil, nil)

	sched := scheduler.NewScheduler(pipeline, market, cfg.GenerateHour, cfg.SnapshotInterval)
	sched.Start()
	defer sched.Stop()

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      api.NewRouter(store, sched),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	log.Info().Msg("Goodbye")
}
