// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Inkwell API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/router"
	"inkwell/internal/service"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var logHandler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		logHandler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(logHandler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"comment_default_status", cfg.CommentDefaultStatus,
	)

	if err := run(cfg); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped gracefully")
}

func run(cfg *config.Config) error {
	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	// Valkey backs both sessions and the response cache, so it is required.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return err
	}
	defer valkeyClient.Close()

	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	responses := cache.NewResponseCache(valkeyClient, cfg.CacheTTL)

	// Data stores.
	postStore := store.NewPostStore(db)
	commentStore := store.NewCommentStore(db)
	categoryStore := store.NewCategoryStore(db)
	tagStore := store.NewTagStore(db)
	userStore := store.NewUserStore(db)

	paging := service.Paging{DefaultLimit: cfg.PageSize, MaxLimit: cfg.MaxPageSize}
	postService := service.NewPostService(postStore, categoryStore, tagStore, paging)
	commentService := service.NewCommentService(commentStore, postStore, cfg.CommentDefaultStatus, paging)

	limiter := middleware.NewRateLimiter(cfg.CommentRateLimit, time.Minute)
	defer limiter.Stop()

	r := router.New(sessionStore, router.Handlers{
		Posts:          handlers.NewPosts(postService, responses),
		Comments:       handlers.NewComments(commentService, responses),
		Taxonomy:       handlers.NewTaxonomy(service.NewCategoryService(categoryStore), service.NewTagService(tagStore), responses),
		Auth:           handlers.NewAuth(sessionStore, userStore),
		CommentLimiter: limiter,
	}, secureCookies)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		// Give active requests up to 30 seconds to complete.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
