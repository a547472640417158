// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/cache"
	"inkwell/internal/markdown"
	"inkwell/internal/metrics"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"
)

// Posts groups the post endpoints.
type Posts struct {
	posts *service.PostService
	cache *cache.ResponseCache
}

// NewPosts creates the post handler group. responses may be nil.
func NewPosts(posts *service.PostService, responses *cache.ResponseCache) *Posts {
	return &Posts{posts: posts, cache: responses}
}

// postRequest is the body of create and update calls. Absent fields are
// left unchanged on update. An empty category_id clears the category and
// an empty tag_ids list clears the tags.
type postRequest struct {
	Title      *string   `json:"title"`
	Slug       *string   `json:"slug"`
	Excerpt    *string   `json:"excerpt"`
	Content    *string   `json:"content"`
	Status     *string   `json:"status"`
	Featured   *bool     `json:"featured"`
	CategoryID *string   `json:"category_id"`
	TagIDs     *[]string `json:"tag_ids"`
}

// input converts the request into a service.PostInput.
func (req *postRequest) input() (service.PostInput, error) {
	if msg := validatePost(req); msg != "" {
		return service.PostInput{}, apperr.Validation("%s", msg)
	}
	in := service.PostInput{
		Title:    req.Title,
		Slug:     req.Slug,
		Excerpt:  req.Excerpt,
		Content:  req.Content,
		Status:   req.Status,
		Featured: req.Featured,
	}
	if req.CategoryID != nil {
		id := uuid.Nil
		if *req.CategoryID != "" {
			var err error
			if id, err = uuid.Parse(*req.CategoryID); err != nil {
				return service.PostInput{}, apperr.Validation("category_id %q is not a valid id", *req.CategoryID)
			}
		}
		in.CategoryID = &id
	}
	if req.TagIDs != nil {
		ids, err := parseIDs("tag_ids", *req.TagIDs)
		if err != nil {
			return service.PostInput{}, err
		}
		in.TagIDs = &ids
	}
	return in, nil
}

// List serves GET /posts, the published listing. Admins may pass ?status=
// to list another state; that path is never cached.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := postFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if filter.Status != nil && actorFrom(r).IsAdmin() {
		page, err := h.posts.List(ctx, filter)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
		return
	}

	entry := h.cache.Posts(ctx, r.URL.Query())
	if cached, ok := entry.Get(ctx); ok {
		writeRaw(w, cached)
		return
	}

	page, err := h.posts.GetPublished(ctx, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err := json.Marshal(page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	entry.Set(ctx, body)
	writeRaw(w, body)
}

// postFilter reads listing parameters from the query string.
func postFilter(r *http.Request) (service.PostFilter, error) {
	q := r.URL.Query()
	f := service.PostFilter{
		CategorySlug: q.Get("category"),
		TagSlug:      q.Get("tag"),
		Search:       q.Get("search"),
	}
	var err error
	if f.Page, err = queryInt(r, "page"); err != nil {
		return f, err
	}
	if f.Limit, err = queryInt(r, "limit"); err != nil {
		return f, err
	}
	if f.Featured, err = queryBool(r, "featured"); err != nil {
		return f, err
	}
	if raw := q.Get("status"); raw != "" {
		st, ok := models.ParsePostStatus(raw)
		if !ok {
			return f, apperr.E(apperr.KindInvalidStatus, "invalid post status %q", raw)
		}
		f.Status = &st
	}
	return f, nil
}

// Get serves GET /posts/{slug}. Every successful read counts as a view,
// so the response is never cached.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.posts.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	metrics.RecordView()

	html, err := markdown.ToHTML(p.Content)
	if err != nil {
		slog.Warn("markdown render failed", "post", p.Slug, "error", err)
	}
	p.ContentHTML = html
	writeJSON(w, http.StatusOK, p)
}

// AdminGet serves GET /admin/posts/{id} for any status without counting a view.
func (h *Posts) AdminGet(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Create serves POST /posts. The signed-in user becomes the author.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, r, apperr.E(apperr.KindForbidden, "sign in to create posts"))
		return
	}

	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.posts.Create(r.Context(), in, sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.InvalidatePosts(r.Context())

	slog.Info("post created", "id", p.ID, "slug", p.Slug, "status", p.Status)
	writeJSON(w, http.StatusCreated, p)
}

// Update serves PUT /posts/{id}.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.posts.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.InvalidatePosts(r.Context())
	h.cache.InvalidateComments(r.Context())

	slog.Info("post updated", "id", p.ID, "slug", p.Slug, "status", p.Status)
	writeJSON(w, http.StatusOK, p)
}

// Delete serves DELETE /posts/{id}. Comments and tag links go with it.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.posts.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.InvalidatePosts(r.Context())
	h.cache.InvalidateComments(r.Context())

	slog.Info("post deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
