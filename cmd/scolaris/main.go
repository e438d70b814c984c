// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the scolaris server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scolaris/internal/cache"
	"scolaris/internal/card"
	"scolaris/internal/config"
	"scolaris/internal/database"
	"scolaris/internal/handlers"
	"scolaris/internal/pdf"
	"scolaris/internal/router"
	"scolaris/internal/session"
	"scolaris/internal/storage"
	"scolaris/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible cache + session store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark session and CSRF cookies as
	// Secure.
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Data stores.
	userStore := store.NewUserStore(db)
	schoolStore := store.NewSchoolStore(db)
	classStore := store.NewClassStore(db)
	studentStore := store.NewStudentStore(db)
	templateStore := store.NewCardTemplateStore(db)

	// S3-compatible object storage holds logos and student photos. The app
	// runs without it; cards then render with their image boxes empty.
	var storageClient *storage.Client
	if cfg.HasStorage() {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket,
		)
		if err != nil {
			slog.Error("failed to initialize s3 storage", "error", err)
			os.Exit(1)
		}
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"bucket", cfg.S3Bucket,
		)
	} else {
		slog.Warn("s3 storage not configured, photo and logo uploads disabled")
	}

	// The PDF engine pulls card images straight from object storage.
	var loader pdf.ImageLoader
	if storageClient != nil {
		loader = func(ctx context.Context, ref string) ([]byte, error) {
			return storageClient.Download(ctx, ref)
		}
	} else {
		loader = func(ctx context.Context, ref string) ([]byte, error) {
			return nil, fmt.Errorf("object storage not configured, cannot load %q", ref)
		}
	}
	renderer := card.NewRenderer(pdf.New(loader))

	// Rendered single-student cards are cached in Valkey keyed by template
	// version, so activating or editing a template retires them naturally.
	cardCache := cache.NewCardCache(valkeyClient, cache.DefaultCardTTL)

	r := router.New(sessionStore, router.Handlers{
		Auth:      handlers.NewAuth(sessionStore, userStore),
		Schools:   handlers.NewSchools(schoolStore, storageClient),
		Classes:   handlers.NewClasses(classStore, schoolStore),
		Students:  handlers.NewStudents(studentStore, classStore, storageClient, cardCache),
		Templates: handlers.NewTemplates(templateStore, schoolStore, cardCache),
		Cards:     handlers.NewCards(renderer, templateStore, studentStore, classStore, schoolStore, cardCache),
	}, secureCookies)

	// WriteTimeout must accommodate whole-class batch renders, which fetch
	// every student photo from object storage before the PDF is finalized.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
