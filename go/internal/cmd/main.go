package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("holdtight failed")
	}
}

func run(parent context.Context, config *Config) error {
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		log.Warn().Str("log_level", config.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	services, err := setupServices(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to set up services: %w", err)
	}
	defer services.Close()

	go services.Connections.Start(ctx)

	if err := services.Table.Start(ctx); err != nil {
		return fmt.Errorf("failed to start table: %w", err)
	}

	server := setupServer(config, services)
	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Int("players", config.Game.Players).
			Int("total_rounds", config.Game.TotalRounds).
			Msg("holdtight server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case err := <-serverErr:
		services.Table.Stop()
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	services.Table.Stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	cancel()

	log.Info().Msg("holdtight shutdown complete")
	return nil
}
