// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Inkwell API. It organizes routes into public, session and admin groups
// with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"inkwell/internal/handlers"
	"inkwell/internal/metrics"
	"inkwell/internal/middleware"
)

// Handlers bundles the handler groups and request guards the router mounts.
type Handlers struct {
	Posts    *handlers.Posts
	Comments *handlers.Comments
	Taxonomy *handlers.Taxonomy
	Auth     *handlers.Auth

	// CommentLimiter throttles comment submission per client IP. Nil
	// disables throttling.
	CommentLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. secureCookies marks the CSRF cookie HTTPS-only.
func New(sessions middleware.SessionLoader, h Handlers, secureCookies bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(metrics.Instrument)
	r.Use(middleware.LoadSession(sessions))
	r.Use(middleware.NewCSRF(secureCookies))

	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Public reads.
	r.Get("/posts", h.Posts.List)
	r.Get("/posts/{slug}", h.Posts.Get)
	r.Get("/posts/{slug}/comments", h.Comments.ListForPost)
	r.Get("/categories", h.Taxonomy.ListCategories)
	r.Get("/categories/{slug}", h.Taxonomy.GetCategory)
	r.Get("/tags", h.Taxonomy.ListTags)
	r.Get("/tags/{slug}", h.Taxonomy.GetTag)

	// Commenting is open to anonymous readers, so it is throttled.
	r.Group(func(r chi.Router) {
		if h.CommentLimiter != nil {
			r.Use(h.CommentLimiter.Middleware)
		}
		r.Post("/posts/{slug}/comments", h.Comments.Create)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Auth.Login)
		r.Post("/logout", h.Auth.Logout)
		r.With(middleware.RequireAuth).Get("/me", h.Auth.Me)
	})

	// Any signed-in user.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Put("/comments/{id}", h.Comments.UpdateContent)
	})

	// Admin only.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireAdmin)

		r.Post("/posts", h.Posts.Create)
		r.Put("/posts/{id}", h.Posts.Update)
		r.Delete("/posts/{id}", h.Posts.Delete)
		r.Get("/admin/posts/{id}", h.Posts.AdminGet)

		r.Get("/admin/comments", h.Comments.Queue)
		r.Patch("/comments/{id}/status", h.Comments.Moderate)
		r.Delete("/comments/{id}", h.Comments.Delete)

		r.Post("/categories", h.Taxonomy.CreateCategory)
		r.Put("/categories/{id}", h.Taxonomy.UpdateCategory)
		r.Delete("/categories/{id}", h.Taxonomy.DeleteCategory)

		r.Post("/tags", h.Taxonomy.CreateTag)
		r.Put("/tags/{id}", h.Taxonomy.UpdateTag)
		r.Delete("/tags/{id}", h.Taxonomy.DeleteTag)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
