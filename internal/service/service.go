// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service holds the blog's business rules: the post lifecycle,
// comment trees and moderation, and category/tag maintenance. Services talk
// to storage only through the interfaces below, so the same code runs
// against PostgreSQL (internal/store) and the in-memory fakes used in tests
// (internal/mocks).
//
// Every error a service returns is either an *apperr.Error with a
// caller-facing Kind or an unclassified storage error that the HTTP layer
// reports as Internal.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// PostStore is the persistence contract for posts. *store.PostStore
// implements it.
type PostStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error)
	ViewBySlug(ctx context.Context, slug string) (*models.Post, error)
	SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	List(ctx context.Context, q store.PostQuery) ([]*models.Post, int, error)
	Create(ctx context.Context, p *models.Post, tagIDs []uuid.UUID) (uuid.UUID, error)
	Update(ctx context.Context, p *models.Post, tagIDs *[]uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// CommentStore is the persistence contract for comments.
type CommentStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	Create(ctx context.Context, c *models.Comment) error
	ListByPost(ctx context.Context, postID uuid.UUID, status models.CommentStatus) ([]*models.Comment, error)
	ListByStatus(ctx context.Context, status models.CommentStatus, limit, offset int) ([]*models.Comment, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.CommentStatus) (bool, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// CategoryStore is the persistence contract for categories.
type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) (bool, error)
	HasPosts(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// TagStore is the persistence contract for tags.
type TagStore interface {
	List(ctx context.Context) ([]models.Tag, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	FindBySlug(ctx context.Context, slug string) (*models.Tag, error)
	CountExisting(ctx context.Context, ids []uuid.UUID) (int, error)
	SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	Create(ctx context.Context, t *models.Tag) error
	Update(ctx context.Context, t *models.Tag) (bool, error)
	HasPosts(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

var (
	_ PostStore     = (*store.PostStore)(nil)
	_ CommentStore  = (*store.CommentStore)(nil)
	_ CategoryStore = (*store.CategoryStore)(nil)
	_ TagStore      = (*store.TagStore)(nil)
)

// Actor is the signed-in caller of an operation. A nil *Actor is an
// anonymous visitor.
type Actor struct {
	UserID uuid.UUID
	Role   models.Role
}

// IsAdmin reports whether the actor is a signed-in admin.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == models.RoleAdmin
}

// Paging holds the page-size policy shared by all listings.
type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

// DefaultPaging is used when a service is built with a zero Paging.
var DefaultPaging = Paging{DefaultLimit: 10, MaxLimit: 100}

// normalize clamps page to >= 1 and limit to [1, MaxLimit], substituting
// DefaultLimit when limit is unset.
func (p Paging) normalize(page, limit int) (int, int) {
	if p.DefaultLimit < 1 || p.MaxLimit < 1 {
		p = DefaultPaging
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = p.DefaultLimit
	}
	if limit > p.MaxLimit {
		limit = p.MaxLimit
	}
	return page, limit
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func newPagination(page, limit, total int) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }
