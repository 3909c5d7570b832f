package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hongminglow/coffee-shop/internal/app"
	"github.com/hongminglow/coffee-shop/internal/config"
	"github.com/hongminglow/coffee-shop/internal/logger"
	"github.com/hongminglow/coffee-shop/internal/metrics"
	"github.com/hongminglow/coffee-shop/internal/server"
)

func main() {
	loadLocalEnv()
	logger.Init()
	log := logger.Logger

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.RequireJWT(); err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	userStore, closeStore, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init user store")
	}
	defer closeStore()

	srv := server.New(cfg, userStore, metrics.New(), log)

	go func() {
		log.Info().Str("addr", cfg.HTTPAddress()).Msg("coffee shop backend listening")
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		// logger is not configured yet
		os.Stderr.WriteString("no .env file found; relying on existing environment\n")
	}
}
