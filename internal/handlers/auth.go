// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/session"
)

// UserStore looks up accounts for sign-in.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
}

// SessionManager issues and revokes session cookies.
type SessionManager interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions  SessionManager
	userStore UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions SessionManager, userStore UserStore) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// unauthorized writes a 401 with the same envelope the middleware uses.
func unauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errorDetail{Code: "unauthorized", Message: message}})
}

// Login serves POST /auth/login. On success a session cookie is set and the
// account is returned.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeError(w, r, apperr.Validation("email and password are required"))
		return
	}

	user, err := a.userStore.FindByEmail(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		slog.Warn("login failed", "email", email, "remote", r.RemoteAddr)
		unauthorized(w, "invalid email or password")
		return
	}

	// A session presented at login is never carried over.
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("stale session destroy failed", "error", err)
	}
	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	}); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user signed in", "user_id", user.ID, "role", user.Role)
	writeJSON(w, http.StatusOK, user)
}

// Logout serves POST /auth/logout.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me serves GET /auth/me with the signed-in account.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		unauthorized(w, "authentication required")
		return
	}
	user, err := a.userStore.FindByID(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		unauthorized(w, "account no longer exists")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
