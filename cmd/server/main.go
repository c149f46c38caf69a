package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"

	"github.com/Auhnip/chat-app-backend/auth"
	"github.com/Auhnip/chat-app-backend/fabric"
	"github.com/Auhnip/chat-app-backend/internal"
	"github.com/Auhnip/chat-app-backend/moderation"
	"github.com/Auhnip/chat-app-backend/repositories"
	"github.com/Auhnip/chat-app-backend/runtime"
	"github.com/Auhnip/chat-app-backend/runtime/workers"
	"github.com/Auhnip/chat-app-backend/services"
	"github.com/Auhnip/chat-app-backend/transport"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const shutdownTimeout = 10 * time.Second

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Deferred cleanups (database, index, fabric) always execute before the
// process exits, which os.Exit in main would skip.
func run() (int, error) {
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := internal.LoggerFromString(config.LogLevel)
	ctx := context.Background()

	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	messageFabric, err := buildFabric(config, logger)
	if err != nil {
		return exitRuntime, fmt.Errorf("fabric setup failed: %w", err)
	}
	defer func() {
		logger.Info("Closing fabric...")
		_ = messageFabric.Close()
	}()

	moderator, err := buildModerator(config)
	if err != nil {
		return exitConfig, err
	}

	messageRepository := repositories.NewMessageRepository(db, logger)
	cursorRepository := repositories.NewCursorRepository(db, logger)
	membershipRepository := repositories.NewMembershipRepository(db, logger)
	searchRepository := repositories.NewSearchRepository(blugeWriter, logger, config.SearchResultLimit)

	registry := runtime.NewRegistry(logger, messageFabric, cursorRepository, config.HeartbeatInterval)
	deliveryService := services.NewDeliveryService(logger,
		messageRepository, cursorRepository, membershipRepository, searchRepository,
		messageFabric, moderator, services.DefaultLookbacks)

	verifier := auth.NewTokenVerifier(config.JwtSecret)
	api := transport.NewAPI(logger, verifier, deliveryService)
	wsHandler := transport.NewWSHandler(logger, verifier, registry)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sup := workers.NewSupervisor(logger)
	sup.Add(
		workers.NewStorageGCWorker(logger, db, config.GCInterval),
		workers.NewStatsReporterWorker(logger, registry, config.MetricInterval),
	)
	go sup.Run(ctx)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: api.Routes(wsHandler)}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	registry.ShutdownAll()
	sup.Stop()
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

// buildFabric selects the broker backed fabric when an AMQP URL is
// configured and the in-process one otherwise.
func buildFabric(config internal.Config, logger *slog.Logger) (fabric.Fabric, error) {
	if config.AmqpURL == "" {
		logger.Warn("AMQP_URL not set, using in-process fabric")
		return fabric.NewMemoryFabric(logger), nil
	}
	return fabric.NewAMQPFabric(logger, config.AmqpURL)
}

// buildModerator returns nil when no censored words are configured, which
// disables moderation entirely.
func buildModerator(config internal.Config) (*moderation.Moderator, error) {
	words := strings.FieldsFunc(config.CensoredWords, func(r rune) bool { return r == ',' })
	if len(words) == 0 {
		return nil, nil
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return nil, err
	}
	moderator, err := moderation.NewModerator(words, charReplacement)
	if err != nil {
		return nil, err
	}
	return &moderator, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}
