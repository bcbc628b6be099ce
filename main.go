package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/username/notional/backend/src/config"
	"github.com/username/notional/backend/src/handlers"
	"github.com/username/notional/backend/src/logger"
	"github.com/username/notional/backend/src/parsers"
	"github.com/username/notional/backend/src/processors"
	"github.com/username/notional/backend/src/services"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel, config.Cfg.LogPretty)
	logger.L.Info().Msg("Notional calculator backend starting...")

	logger.L.Info().Dur("ttl", config.Cfg.ResultTTL).Msg("Initializing report cache...")
	reportCache := services.NewReportCache(config.Cfg.ResultTTL)

	logger.L.Info().Str("fxAPI", config.Cfg.FXAPIURL).Msg("Initializing services and handlers...")
	fxClient := services.NewFrankfurterClient(config.Cfg.FXAPIURL, config.Cfg.FXAPITimeout, config.Cfg.FXAPIRPS)
	registry := parsers.DefaultRegistry()
	notionalService := services.NewNotionalService(
		registry, processors.NewSymbolClassifier(), fxClient, reportCache,
		processors.WithAPITimeout(config.Cfg.FXAPITimeout),
		processors.WithFallbackCaching(config.Cfg.FXCacheFallback),
	)

	router := handlers.NewRouter(notionalService, handlers.RouterConfig{
		CORSOrigins:    config.Cfg.CORSOrigins,
		MaxUploadBytes: config.Cfg.MaxUploadSizeBytes,
		RateLimitRPS:   config.Cfg.RateLimitRPS,
		RateLimitBurst: config.Cfg.RateLimitBurst,
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.L.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}()

	logger.L.Info().Str("address", serverAddr).Strs("platforms", registry.Platforms()).Msg("Server starting")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.L.Error().Err(err).Msg("Failed to start server")
		stdlog.Fatalf("Failed to start server: %v", err)
	}
	logger.L.Info().Msg("Server stopped gracefully.")
}
