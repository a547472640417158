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
	"inkwell/internal/service"
)

func TestPostsCreate(t *testing.T) {
	f := newFixture(t)

	rr := serve(f.posts.Create, as(request(t, "POST", "/posts", map[string]any{
		"title":   "Hello, World!",
		"content": "Some words",
		"status":  "published",
	}), f.admin))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var p models.Post
	decode(t, rr, &p)
	assert.Equal(t, "hello-world", p.Slug)
	assert.Equal(t, models.PostStatusPublished, p.Status)
	assert.Equal(t, f.admin.ID, p.AuthorID)
	assert.NotNil(t, p.PublishedAt)
	assert.Equal(t, 1, p.ReadTime)
}

func TestPostsCreateErrors(t *testing.T) {
	f := newFixture(t)
	f.publish(t, "Taken", "body")

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"duplicate slug", map[string]any{"title": "Other", "slug": "taken", "content": "x"}, http.StatusConflict, "duplicate_slug"},
		{"missing title", map[string]any{"content": "x"}, http.StatusBadRequest, "validation"},
		{"bad status", map[string]any{"title": "T", "content": "x", "status": "DELETED"}, http.StatusUnprocessableEntity, "invalid_status"},
		{"unknown field", map[string]any{"title": "T", "content": "x", "hero": true}, http.StatusBadRequest, "validation"},
		{"malformed json", `{"title":`, http.StatusBadRequest, "validation"},
		{"bad category id", map[string]any{"title": "T", "content": "x", "category_id": "nope"}, http.StatusBadRequest, "validation"},
		{"missing category", map[string]any{"title": "T", "content": "x", "category_id": "7f3c2a4e-0000-4000-8000-000000000000"}, http.StatusNotFound, "not_found"},
		{"title too long", map[string]any{"title": strings.Repeat("t", 301), "content": "x"}, http.StatusBadRequest, "validation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(f.posts.Create, as(request(t, "POST", "/posts", tt.body), f.admin))
			requireError(t, rr, tt.status, tt.code)
		})
	}
}

func TestPostsCreateRequiresSession(t *testing.T) {
	f := newFixture(t)
	rr := serve(f.posts.Create, request(t, "POST", "/posts", map[string]any{"title": "T", "content": "x"}))
	requireError(t, rr, http.StatusForbidden, "forbidden")
}

func TestPostsGetCountsViewsAndRenders(t *testing.T) {
	f := newFixture(t)
	p := f.publish(t, "Rendered", "# Heading\n\nSome *emphasis*.")

	var got models.Post
	for i := 0; i < 2; i++ {
		rr := serve(f.posts.Get, withParams(request(t, "GET", "/posts/"+p.Slug, nil), "slug", p.Slug))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		decode(t, rr, &got)
	}
	assert.EqualValues(t, 2, got.ViewCount)
	assert.Contains(t, got.ContentHTML, "<em>emphasis</em>")
	assert.Contains(t, got.ContentHTML, "<h1")
}

func TestPostsGetHidesDrafts(t *testing.T) {
	f := newFixture(t)
	rr := serve(f.posts.Create, as(request(t, "POST", "/posts", map[string]any{"title": "Secret", "content": "x"}), f.admin))
	require.Equal(t, http.StatusCreated, rr.Code)
	var draft models.Post
	decode(t, rr, &draft)

	rr = serve(f.posts.Get, withParams(request(t, "GET", "/posts/secret", nil), "slug", "secret"))
	requireError(t, rr, http.StatusNotFound, "not_found")

	rr = serve(f.posts.AdminGet, withParams(request(t, "GET", "/admin/posts/"+draft.ID.String(), nil), "id", draft.ID.String()))
	require.Equal(t, http.StatusOK, rr.Code)
	var got models.Post
	decode(t, rr, &got)
	assert.Equal(t, models.PostStatusDraft, got.Status)
	assert.Zero(t, got.ViewCount)
}

func TestPostsList(t *testing.T) {
	f := newFixture(t)
	f.publish(t, "One", "x")
	f.publish(t, "Two", "x")
	rr := serve(f.posts.Create, as(request(t, "POST", "/posts", map[string]any{"title": "Draft", "content": "x"}), f.admin))
	require.Equal(t, http.StatusCreated, rr.Code)

	t.Run("anonymous sees published only", func(t *testing.T) {
		rr := serve(f.posts.List, request(t, "GET", "/posts?status=DRAFT&limit=1", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		var page service.PostPage
		decode(t, rr, &page)
		require.Len(t, page.Posts, 1)
		assert.Equal(t, "two", page.Posts[0].Slug)
		assert.Equal(t, 2, page.Pagination.Total)
		assert.Equal(t, 2, page.Pagination.TotalPages)
	})

	t.Run("admin filters by status", func(t *testing.T) {
		rr := serve(f.posts.List, as(request(t, "GET", "/posts?status=draft", nil), f.admin))
		require.Equal(t, http.StatusOK, rr.Code)
		var page service.PostPage
		decode(t, rr, &page)
		require.Len(t, page.Posts, 1)
		assert.Equal(t, "draft", page.Posts[0].Slug)
	})

	t.Run("admin without status sees published only", func(t *testing.T) {
		rr := serve(f.posts.List, as(request(t, "GET", "/posts", nil), f.admin))
		require.Equal(t, http.StatusOK, rr.Code)
		var page service.PostPage
		decode(t, rr, &page)
		require.Len(t, page.Posts, 2)
		for _, p := range page.Posts {
			assert.Equal(t, models.PostStatusPublished, p.Status)
		}
		assert.Equal(t, 2, page.Pagination.Total)
	})

	t.Run("invalid parameters", func(t *testing.T) {
		requireError(t, serve(f.posts.List, request(t, "GET", "/posts?page=0", nil)), http.StatusBadRequest, "validation")
		requireError(t, serve(f.posts.List, request(t, "GET", "/posts?featured=maybe", nil)), http.StatusBadRequest, "validation")
		requireError(t, serve(f.posts.List, request(t, "GET", "/posts?status=DELETED", nil)), http.StatusUnprocessableEntity, "invalid_status")
	})
}

func TestPostsUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	p := f.publish(t, "Original", "x")
	id := p.ID.String()

	rr := serve(f.posts.Update, withParams(request(t, "PUT", "/posts/"+id, map[string]any{"title": "Renamed", "featured": true}), "id", id))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var got models.Post
	decode(t, rr, &got)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "original", got.Slug)
	assert.True(t, got.Featured)

	rr = serve(f.posts.Delete, withParams(request(t, "DELETE", "/posts/"+id, nil), "id", id))
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = serve(f.posts.Delete, withParams(request(t, "DELETE", "/posts/"+id, nil), "id", id))
	requireError(t, rr, http.StatusNotFound, "not_found")

	rr = serve(f.posts.Update, withParams(request(t, "PUT", "/posts/x", map[string]any{}), "id", "x"))
	requireError(t, rr, http.StatusBadRequest, "validation")
}

func TestPostsStoreFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.db.Err = assert.AnError

	rr := serve(f.posts.List, request(t, "GET", "/posts", nil))
	requireError(t, rr, http.StatusInternalServerError, "internal")
	assert.NotContains(t, rr.Body.String(), assert.AnError.Error())
}
