// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/cache"
	"inkwell/internal/markdown"
	"inkwell/internal/metrics"
	"inkwell/internal/models"
	"inkwell/internal/service"
)

// Comments groups the comment and moderation endpoints.
type Comments struct {
	comments *service.CommentService
	cache    *cache.ResponseCache
}

// NewComments creates the comment handler group. responses may be nil.
func NewComments(comments *service.CommentService, responses *cache.ResponseCache) *Comments {
	return &Comments{comments: comments, cache: responses}
}

type commentRequest struct {
	Content     string     `json:"content"`
	ParentID    *uuid.UUID `json:"parent_id"`
	AuthorName  string     `json:"author_name"`
	AuthorEmail string     `json:"author_email"`
}

type contentRequest struct {
	Content string `json:"content"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// ListForPost serves GET /posts/{slug}/comments: the approved tree, cached
// per post until the next comment mutation.
func (h *Comments) ListForPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	entry := h.cache.Comments(ctx, slug)

	if cached, ok := entry.Get(ctx); ok {
		writeRaw(w, cached)
		return
	}

	tree, err := h.comments.ListApprovedForPost(ctx, slug)
	if err != nil {
		writeError(w, r, err)
		return
	}
	renderTree(tree)

	body, err := json.Marshal(tree)
	if err != nil {
		writeError(w, r, err)
		return
	}
	entry.Set(ctx, body)
	writeRaw(w, body)
}

// renderTree fills ContentHTML on every comment in the tree.
func renderTree(tree []*models.Comment) {
	for _, c := range tree {
		c.ContentHTML = markdown.CommentHTML(c.Content)
		renderTree(c.Replies)
	}
}

// Create serves POST /posts/{slug}/comments. Signed-in callers are linked
// as the author; everyone else comments anonymously.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.AuthorName = strings.TrimSpace(req.AuthorName)
	req.AuthorEmail = strings.TrimSpace(req.AuthorEmail)
	if msg := validateComment(req.Content, req.AuthorName, req.AuthorEmail); msg != "" {
		writeError(w, r, apperr.Validation("%s", msg))
		return
	}

	c, err := h.comments.Create(r.Context(), chi.URLParam(r, "slug"), service.CommentInput{
		Content:     req.Content,
		ParentID:    req.ParentID,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
	}, actorFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	metrics.RecordComment(string(c.Status))
	if c.Status == models.CommentStatusApproved {
		h.cache.InvalidateComments(r.Context())
	}

	slog.Info("comment created", "id", c.ID, "post_id", c.PostID, "status", c.Status)
	c.ContentHTML = markdown.CommentHTML(c.Content)
	writeJSON(w, http.StatusCreated, c)
}

// UpdateContent serves PUT /comments/{id}. Only the registered author may
// edit a comment.
func (h *Comments) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req contentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validateComment(req.Content, "", ""); msg != "" {
		writeError(w, r, apperr.Validation("%s", msg))
		return
	}

	c, err := h.comments.UpdateContent(r.Context(), id, req.Content, actorFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.InvalidateComments(r.Context())
	writeJSON(w, http.StatusOK, c)
}

// Moderate serves PATCH /comments/{id}/status.
func (h *Comments) Moderate(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.comments.Moderate(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.InvalidateComments(r.Context())

	slog.Info("comment moderated", "id", c.ID, "status", c.Status)
	writeJSON(w, http.StatusOK, c)
}

// Delete serves DELETE /comments/{id}. Direct replies are removed too.
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.comments.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.InvalidateComments(r.Context())

	slog.Info("comment deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Queue serves GET /admin/comments?status=&page=&limit=, the moderation
// queue. The status defaults to PENDING.
func (h *Comments) Queue(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.comments.ListByStatus(r.Context(), r.URL.Query().Get("status"), page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
