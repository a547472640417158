// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/apperr"
	"inkwell/internal/cache"
	"inkwell/internal/service"
)

// Taxonomy groups the category and tag endpoints.
type Taxonomy struct {
	categories *service.CategoryService
	tags       *service.TagService
	cache      *cache.ResponseCache
}

// NewTaxonomy creates the taxonomy handler group. responses may be nil.
func NewTaxonomy(categories *service.CategoryService, tags *service.TagService, responses *cache.ResponseCache) *Taxonomy {
	return &Taxonomy{categories: categories, tags: tags, cache: responses}
}

// termRequest is the body of category and tag writes.
type termRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
}

// decodeTerm reads and size-checks a termRequest.
func decodeTerm(w http.ResponseWriter, r *http.Request) (service.TaxonomyInput, error) {
	var req termRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return service.TaxonomyInput{}, err
	}
	if msg := validateTerm(&req); msg != "" {
		return service.TaxonomyInput{}, apperr.Validation("%s", msg)
	}
	return service.TaxonomyInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Color:       req.Color,
		Description: req.Description,
	}, nil
}

// ListCategories serves GET /categories.
func (h *Taxonomy) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categories.ListWithCounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// GetCategory serves GET /categories/{slug}.
func (h *Taxonomy) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.categories.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateCategory serves POST /categories.
func (h *Taxonomy) CreateCategory(w http.ResponseWriter, r *http.Request) {
	in, err := decodeTerm(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.categories.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("category created", "id", c.ID, "slug", c.Slug)
	writeJSON(w, http.StatusCreated, c)
}

// UpdateCategory serves PUT /categories/{id}. Post listings embed category
// names, so they are invalidated.
func (h *Taxonomy) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := decodeTerm(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.categories.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.InvalidatePosts(r.Context())
	writeJSON(w, http.StatusOK, c)
}

// DeleteCategory serves DELETE /categories/{id}.
func (h *Taxonomy) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.categories.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("category deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListTags serves GET /tags.
func (h *Taxonomy) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.ListWithCounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// GetTag serves GET /tags/{slug}.
func (h *Taxonomy) GetTag(w http.ResponseWriter, r *http.Request) {
	t, err := h.tags.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// CreateTag serves POST /tags.
func (h *Taxonomy) CreateTag(w http.ResponseWriter, r *http.Request) {
	in, err := decodeTerm(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.tags.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("tag created", "id", t.ID, "slug", t.Slug)
	writeJSON(w, http.StatusCreated, t)
}

// UpdateTag serves PUT /tags/{id}.
func (h *Taxonomy) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := decodeTerm(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.tags.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.cache.InvalidatePosts(r.Context())
	writeJSON(w, http.StatusOK, t)
}

// DeleteTag serves DELETE /tags/{id}.
func (h *Taxonomy) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.tags.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("tag deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
