// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/models"
	"inkwell/internal/readtime"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// PostInput carries the caller-supplied fields of a create or update. Nil
// fields are left unchanged on update. CategoryID set to uuid.Nil removes
// the category; TagIDs set to an empty slice removes every tag.
type PostInput struct {
	Title      *string
	Slug       *string
	Excerpt    *string
	Content    *string
	Status     *string
	Featured   *bool
	CategoryID *uuid.UUID
	TagIDs     *[]uuid.UUID
}

// PostFilter selects and pages a post listing.
type PostFilter struct {
	Page         int
	Limit        int
	Status       *models.PostStatus // only honored by List
	CategorySlug string
	TagSlug      string
	Search       string
	Featured     *bool
}

// PostPage is one page of posts.
type PostPage struct {
	Posts      []*models.Post `json:"posts"`
	Pagination Pagination     `json:"pagination"`
}

// PostService owns post state transitions, slugs, read time and views.
type PostService struct {
	posts      PostStore
	categories CategoryStore
	tags       TagStore
	paging     Paging
}

// NewPostService creates a PostService.
func NewPostService(posts PostStore, categories CategoryStore, tags TagStore, paging Paging) *PostService {
	return &PostService{posts: posts, categories: categories, tags: tags, paging: paging}
}

// Create stores a new post authored by authorID. The slug is derived from
// the title unless one is supplied. A post created as PUBLISHED gets its
// publish timestamp immediately.
func (s *PostService) Create(ctx context.Context, in PostInput, authorID uuid.UUID) (*models.Post, error) {
	title := strings.TrimSpace(deref(in.Title))
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	content := deref(in.Content)
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validation("content is required")
	}

	status := models.PostStatusDraft
	if in.Status != nil {
		st, err := parsePostStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		status = st
	}

	postSlug, err := s.claimSlug(ctx, in.Slug, title, uuid.Nil)
	if err != nil {
		return nil, err
	}

	p := &models.Post{
		Title:    title,
		Slug:     postSlug,
		Excerpt:  optional(in.Excerpt),
		Content:  content,
		Status:   status,
		Featured: in.Featured != nil && *in.Featured,
		ReadTime: readtime.Estimate(content),
		AuthorID: authorID,
	}
	if status == models.PostStatusPublished {
		t := now()
		p.PublishedAt = &t
	}
	if in.CategoryID != nil && *in.CategoryID != uuid.Nil {
		if err := s.checkCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		p.CategoryID = in.CategoryID
	}

	var tagIDs []uuid.UUID
	if in.TagIDs != nil {
		tagIDs = dedupe(*in.TagIDs)
		if err := s.checkTags(ctx, tagIDs); err != nil {
			return nil, err
		}
	}

	id, err := s.posts.Create(ctx, p, tagIDs)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Update applies in to the post. The slug only changes when in.Slug is
// set. publishedAt is stamped on the first transition into PUBLISHED and
// never touched again.
func (s *PostService) Update(ctx context.Context, id uuid.UUID, in PostInput) (*models.Post, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("post", id)
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperr.Validation("title cannot be empty")
		}
		p.Title = title
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, apperr.Validation("content cannot be empty")
		}
		p.Content = *in.Content
		p.ReadTime = readtime.Estimate(p.Content)
	}
	if in.Excerpt != nil {
		p.Excerpt = optional(in.Excerpt)
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.Status != nil {
		st, err := parsePostStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		p.Status = st
	}
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		t := now()
		p.PublishedAt = &t
	}

	if in.Slug != nil && strings.TrimSpace(*in.Slug) != p.Slug {
		newSlug, err := s.claimSlug(ctx, in.Slug, p.Title, p.ID)
		if err != nil {
			return nil, err
		}
		p.Slug = newSlug
	}

	if in.CategoryID != nil {
		if *in.CategoryID == uuid.Nil {
			p.CategoryID = nil
		} else {
			if err := s.checkCategory(ctx, *in.CategoryID); err != nil {
				return nil, err
			}
			p.CategoryID = in.CategoryID
		}
	}

	var tagIDs *[]uuid.UUID
	if in.TagIDs != nil {
		ids := dedupe(*in.TagIDs)
		if err := s.checkTags(ctx, ids); err != nil {
			return nil, err
		}
		tagIDs = &ids
	}

	found, err := s.posts.Update(ctx, p, tagIDs)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("post", id)
	}
	return s.GetByID(ctx, id)
}

// Delete removes the post together with its comments and tag links.
func (s *PostService) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.posts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound("post", id)
	}
	return nil
}

// GetPublished lists PUBLISHED posts, newest first. f.Status is ignored.
func (s *PostService) GetPublished(ctx context.Context, f PostFilter) (*PostPage, error) {
	published := models.PostStatusPublished
	f.Status = &published
	return s.list(ctx, f)
}

// List is the admin listing: f.Status, when set, selects any status and a
// nil Status returns posts in every status.
func (s *PostService) List(ctx context.Context, f PostFilter) (*PostPage, error) {
	return s.list(ctx, f)
}

func (s *PostService) list(ctx context.Context, f PostFilter) (*PostPage, error) {
	page, limit := s.paging.normalize(f.Page, f.Limit)
	posts, total, err := s.posts.List(ctx, store.PostQuery{
		Status:       f.Status,
		CategorySlug: strings.TrimSpace(f.CategorySlug),
		TagSlug:      strings.TrimSpace(f.TagSlug),
		Search:       strings.TrimSpace(f.Search),
		Featured:     f.Featured,
		Limit:        limit,
		Offset:       (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Pagination: newPagination(page, limit, total)}, nil
}

// GetBySlug is the public read: it returns a PUBLISHED post and counts one
// view. Drafts and archived posts are reported as NotFound.
func (s *PostService) GetBySlug(ctx context.Context, postSlug string) (*models.Post, error) {
	p, err := s.posts.ViewBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("post", postSlug)
	}
	return p, nil
}

// GetByID returns a post in any status without counting a view.
func (s *PostService) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("post", id)
	}
	return p, nil
}

// claimSlug resolves the slug for a new post (exclude == uuid.Nil) or a
// rename and fails with DuplicateSlug when another post holds it. The
// store's unique index still backs this up under concurrent writes.
func (s *PostService) claimSlug(ctx context.Context, explicit *string, title string, exclude uuid.UUID) (string, error) {
	candidate, err := resolveSlug(explicit, "post", title)
	if err != nil {
		return "", err
	}
	taken, err := s.posts.SlugTaken(ctx, candidate, exclude)
	if err != nil {
		return "", err
	}
	if taken {
		return "", apperr.DuplicateSlug(candidate)
	}
	return candidate, nil
}

func (s *PostService) checkCategory(ctx context.Context, id uuid.UUID) error {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperr.NotFound("category", id)
	}
	return nil
}

func (s *PostService) checkTags(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := s.tags.CountExisting(ctx, ids)
	if err != nil {
		return err
	}
	if n != len(ids) {
		return apperr.E(apperr.KindNotFound, "one or more tags not found")
	}
	return nil
}

func parsePostStatus(s string) (models.PostStatus, error) {
	st, ok := models.ParsePostStatus(s)
	if !ok {
		return "", apperr.E(apperr.KindInvalidStatus, "invalid post status %q", s)
	}
	return st, nil
}

// resolveSlug returns the explicit slug when one is given, checking its
// shape, or derives one from name.
func resolveSlug(explicit *string, prefix, name string) (string, error) {
	if explicit != nil {
		if s := strings.TrimSpace(*explicit); s != "" {
			if !slug.Valid(s) {
				return "", apperr.Validation("slug %q must be lowercase letters, digits and single hyphens", s)
			}
			return s, nil
		}
	}
	return slug.Derive(prefix, name), nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// optional trims s and maps empty strings to nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
