package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"excelviewer/internal/config"
	"excelviewer/internal/i18n"
	"excelviewer/internal/logging"
	"excelviewer/internal/session"
	"excelviewer/internal/web"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"upload_root", cfg.Upload.Root,
		"max_upload_mb", cfg.Upload.MaxUploadMB,
		"session_ttl_hours", cfg.Session.TTLHours,
	)

	// Create the session store; failure to create the upload root is the
	// one unrecoverable startup fault.
	store, err := session.NewStore(cfg.Upload.Root)
	if err != nil {
		slog.Error("failed to create upload root", "error", err)
		os.Exit(1)
	}

	catalog := i18n.NewCatalog(cfg.I18n.Dir, slog.Default())

	// Create server with config
	server := web.NewServer(cfg, store, catalog)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	// Start the expiry sweeper
	sweeper := session.NewSweeper(store, cfg.Session.TTL(), cfg.Session.CleanupInterval, slog.Default())
	go sweeper.Run(jobCtx)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
