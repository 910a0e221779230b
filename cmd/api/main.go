// Package main provides the entry point for the midshelf server application.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/midshelf/midshelf-server/internal/api"
	"github.com/midshelf/midshelf-server/internal/config"
	"github.com/midshelf/midshelf-server/internal/logger"
	"github.com/midshelf/midshelf-server/internal/service"
	"github.com/midshelf/midshelf-server/internal/store/sqlite"
	"github.com/midshelf/midshelf-server/internal/transfer"
	"github.com/midshelf/midshelf-server/internal/validation"
)

const sessionCleanupInterval = time.Hour

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "midshelf: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(cfg.Logger.Level),
	})

	st, err := sqlite.Open(cfg.Database.Path, log.Logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error("close database", "error", err)
		}
	}()

	v := validation.New()

	authService := service.NewAuthService(st, v, cfg.Auth.SessionDuration, log.Logger)
	itemService := service.NewItemService(st, v, log.Logger)
	taxonomyService := service.NewTaxonomyService(st, v, log.Logger)
	tagService := service.NewTagService(st, log.Logger)
	settingsService := service.NewSettingsService(st, log.Logger)
	transferEngine := transfer.NewEngine(st, log.Logger)

	server := api.NewServer(
		authService,
		itemService,
		taxonomyService,
		tagService,
		settingsService,
		transferEngine,
		api.Config{LoginRatePerMinute: cfg.Auth.LoginRatePerMinute},
		log.Logger,
	)
	defer server.Close()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Periodically sweep expired sessions.
	go func() {
		ticker := time.NewTicker(sessionCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := authService.CleanupExpiredSessions(ctx); err != nil {
					log.Error("session cleanup failed", "error", err)
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			"port", cfg.Server.Port,
			"environment", cfg.App.Environment,
			"database", cfg.Database.Path,
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("goodbye")
	return nil
}
