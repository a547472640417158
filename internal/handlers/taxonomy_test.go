// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/models"
)

func TestCategoryLifecycle(t *testing.T) {
	f := newFixture(t)

	rr := serve(f.taxonomy.CreateCategory, request(t, "POST", "/categories", map[string]any{
		"name":  "Go Tips",
		"color": "#00ADD8",
	}))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var cat models.Category
	decode(t, rr, &cat)
	assert.Equal(t, "go-tips", cat.Slug)
	assert.Equal(t, "#00add8", cat.Color)

	rr = serve(f.taxonomy.CreateCategory, request(t, "POST", "/categories", map[string]any{"name": "Go Tips"}))
	requireError(t, rr, http.StatusConflict, "duplicate_slug")

	rr = serve(f.taxonomy.CreateCategory, request(t, "POST", "/categories", map[string]any{"name": "Bad", "color": "blue"}))
	requireError(t, rr, http.StatusBadRequest, "validation")

	id := cat.ID.String()
	rr = serve(f.taxonomy.UpdateCategory, withParams(request(t, "PUT", "/", map[string]any{"description": "Short ones"}), "id", id))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decode(t, rr, &cat)
	require.NotNil(t, cat.Description)
	assert.Equal(t, "Short ones", *cat.Description)

	// A post in the category blocks deletion until it is removed.
	rr = serve(f.posts.Create, as(request(t, "POST", "/posts", map[string]any{
		"title": "Tip", "content": "x", "status": "PUBLISHED", "category_id": id,
	}), f.admin))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var post models.Post
	decode(t, rr, &post)

	rr = serve(f.taxonomy.ListCategories, request(t, "GET", "/categories", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var cats []models.Category
	decode(t, rr, &cats)
	require.Len(t, cats, 1)
	assert.Equal(t, 1, cats[0].PostCount)

	rr = serve(f.taxonomy.DeleteCategory, withParams(request(t, "DELETE", "/", nil), "id", id))
	requireError(t, rr, http.StatusConflict, "has_dependents")

	rr = serve(f.posts.Delete, withParams(request(t, "DELETE", "/", nil), "id", post.ID.String()))
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = serve(f.taxonomy.DeleteCategory, withParams(request(t, "DELETE", "/", nil), "id", id))
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = serve(f.taxonomy.GetCategory, withParams(request(t, "GET", "/", nil), "slug", "go-tips"))
	requireError(t, rr, http.StatusNotFound, "not_found")
}

func TestTagLifecycle(t *testing.T) {
	f := newFixture(t)

	rr := serve(f.taxonomy.CreateTag, request(t, "POST", "/tags", map[string]any{"name": "Concurrency"}))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var tag models.Tag
	decode(t, rr, &tag)
	assert.Equal(t, "concurrency", tag.Slug)

	id := tag.ID.String()
	rr = serve(f.taxonomy.UpdateTag, withParams(request(t, "PUT", "/", map[string]any{"name": "Channels", "slug": ""}), "id", id))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decode(t, rr, &tag)
	assert.Equal(t, "Channels", tag.Name)
	assert.Equal(t, "channels", tag.Slug)

	rr = serve(f.taxonomy.GetTag, withParams(request(t, "GET", "/", nil), "slug", "channels"))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = serve(f.taxonomy.ListTags, request(t, "GET", "/tags", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var tags []models.Tag
	decode(t, rr, &tags)
	require.Len(t, tags, 1)
	assert.Zero(t, tags[0].PostCount)

	rr = serve(f.taxonomy.DeleteTag, withParams(request(t, "DELETE", "/", nil), "id", id))
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = serve(f.taxonomy.DeleteTag, withParams(request(t, "DELETE", "/", nil), "id", id))
	requireError(t, rr, http.StatusNotFound, "not_found")
}

func TestTermValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body any
	}{
		{"name too long", map[string]any{"name": strings.Repeat("n", 101)}},
		{"description too long", map[string]any{"name": "ok", "description": strings.Repeat("d", 501)}},
		{"missing name", map[string]any{"color": "#ffffff"}},
		{"unknown field", map[string]any{"name": "ok", "parent": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireError(t, serve(f.taxonomy.CreateTag, request(t, "POST", "/tags", tt.body)), http.StatusBadRequest, "validation")
		})
	}
	assert.Empty(t, f.db.Tags)
}
