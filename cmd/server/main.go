/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the earnings engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, then flags)
  2. Set up structured logging
  3. Initialize SQLite store
  4. Seed settings from SETTINGS_FILE or load a demo scenario
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (overrides APP_PORT)
  -db        SQLite database path (overrides DB_PATH)
             Use ":memory:" for in-memory database
  -scenario  Load a demo scenario at startup (resets the database)

ENVIRONMENT:
  APP_PORT, APP_ENV, LOG_LEVEL, CORS_ORIGINS, DB_PATH, ENTITY_ID,
  SETTINGS_FILE. See config/config.go.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/earnings.db"

  # Demo month in memory
  ./server -db=":memory:" -scenario=standby-week

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/earnings-engine/api"
	"github.com/warp/earnings-engine/config"
	"github.com/warp/earnings-engine/generic"
	"github.com/warp/earnings-engine/logging"
	"github.com/warp/earnings-engine/store/sqlite"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Flags override the environment.
	port := flag.Int("port", cfg.App.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.Database.Path, "SQLite database path")
	scenarioID := flag.String("scenario", "", "Demo scenario to load at startup")
	flag.Parse()
	cfg.App.Port = *port
	cfg.Database.Path = *dbPath
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Options{
		Level:   cfg.App.LogLevel,
		App:     "earnings-engine",
		Version: version,
		Env:     cfg.App.Env,
	})

	// Initialize store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		logging.Fatal("failed to initialize database", slog.String("path", cfg.Database.Path), slog.String("error", err.Error()))
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store, generic.EntityID(cfg.Engine.EntityID), logger)

	ctx := context.Background()
	if err := seed(ctx, handler, cfg.Engine.SettingsFile, *scenarioID); err != nil {
		logging.Fatal("failed to seed data", slog.String("error", err.Error()))
	}

	// Create server
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.NewRouter(handler, api.RouterOptions{AllowedOrigins: cfg.App.CORSOrigins, Logger: logger}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", slog.String("addr", cfg.Addr()), slog.String("db", cfg.Database.Path))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server failed", slog.String("error", err.Error()))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", slog.String("error", err.Error()))
		return
	}

	logger.Info("server stopped")
}

// seed loads a demo scenario, or stores the settings file as the first
// settings version when none exists yet.
func seed(ctx context.Context, h *api.Handler, settingsFile, scenarioID string) error {
	if scenarioID != "" {
		_, err := h.LoadScenarioByID(ctx, scenarioID)
		return err
	}

	if settingsFile == "" {
		return nil
	}
	doc, err := os.ReadFile(settingsFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", settingsFile, err)
	}
	written, err := h.SeedSettings(ctx, doc)
	if err != nil {
		return fmt.Errorf("seeding settings from %s: %w", settingsFile, err)
	}
	if written {
		h.Logger.Info("settings seeded", slog.String("file", settingsFile))
	}
	return nil
}
