// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/models"
)

// DefaultColor is given to categories and tags created without a color.
const DefaultColor = "#6b7280"

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// TaxonomyInput carries the fields of a category or tag. Nil fields are
// left unchanged on update. An empty Description clears it.
type TaxonomyInput struct {
	Name        *string
	Slug        *string
	Color       *string
	Description *string
}

// term is the editable state shared by categories and tags.
type term struct {
	Name        string
	Slug        string
	Color       string
	Description *string
}

// apply validates in and writes it over t. creating selects the rules for
// a new entity: name required and slug derived when absent.
func (t *term) apply(in TaxonomyInput, prefix string, creating bool) (slugChanged bool, err error) {
	if in.Name != nil || creating {
		name := strings.TrimSpace(deref(in.Name))
		if name == "" {
			return false, apperr.Validation("name is required")
		}
		t.Name = name
	}
	if in.Color != nil {
		color := strings.TrimSpace(*in.Color)
		if !hexColor.MatchString(color) {
			return false, apperr.Validation("color %q must be a hex value like #1a2b3c", color)
		}
		t.Color = strings.ToLower(color)
	} else if creating {
		t.Color = DefaultColor
	}
	if in.Description != nil {
		t.Description = optional(in.Description)
	}

	if creating || (in.Slug != nil && strings.TrimSpace(*in.Slug) != t.Slug) {
		s, err := resolveSlug(in.Slug, prefix, t.Name)
		if err != nil {
			return false, err
		}
		slugChanged = s != t.Slug
		t.Slug = s
	}
	return slugChanged, nil
}

// CategoryService maintains categories.
type CategoryService struct {
	categories CategoryStore
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(categories CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

// ListWithCounts returns every category with its published post count.
func (s *CategoryService) ListWithCounts(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// GetBySlug returns one category.
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	c, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("category", slug)
	}
	return c, nil
}

// Create adds a category, deriving its slug from the name when none is given.
func (s *CategoryService) Create(ctx context.Context, in TaxonomyInput) (*models.Category, error) {
	var t term
	if _, err := t.apply(in, "category", true); err != nil {
		return nil, err
	}
	if err := s.checkSlug(ctx, t.Slug, uuid.Nil); err != nil {
		return nil, err
	}

	c := &models.Category{Name: t.Name, Slug: t.Slug, Color: t.Color, Description: t.Description}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update edits a category. The slug only changes when one is supplied.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, in TaxonomyInput) (*models.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("category", id)
	}

	t := term{Name: c.Name, Slug: c.Slug, Color: c.Color, Description: c.Description}
	changed, err := t.apply(in, "category", false)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.checkSlug(ctx, t.Slug, id); err != nil {
			return nil, err
		}
	}

	c.Name, c.Slug, c.Color, c.Description = t.Name, t.Slug, t.Color, t.Description
	found, err := s.categories.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("category", id)
	}
	return c, nil
}

// Delete removes a category that no post references.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperr.NotFound("category", id)
	}

	used, err := s.categories.HasPosts(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return apperr.E(apperr.KindHasDependents, "category %q is used by one or more posts", c.Slug)
	}

	found, err := s.categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound("category", id)
	}
	return nil
}

func (s *CategoryService) checkSlug(ctx context.Context, slug string, exclude uuid.UUID) error {
	taken, err := s.categories.SlugTaken(ctx, slug, exclude)
	if err != nil {
		return err
	}
	if taken {
		return apperr.DuplicateSlug(slug)
	}
	return nil
}

// TagService maintains tags.
type TagService struct {
	tags TagStore
}

// NewTagService creates a TagService.
func NewTagService(tags TagStore) *TagService {
	return &TagService{tags: tags}
}

// ListWithCounts returns every tag with its published post count.
func (s *TagService) ListWithCounts(ctx context.Context) ([]models.Tag, error) {
	return s.tags.List(ctx)
}

// GetBySlug returns one tag.
func (s *TagService) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	t, err := s.tags.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("tag", slug)
	}
	return t, nil
}

// Create adds a tag, deriving its slug from the name when none is given.
func (s *TagService) Create(ctx context.Context, in TaxonomyInput) (*models.Tag, error) {
	var t term
	if _, err := t.apply(in, "tag", true); err != nil {
		return nil, err
	}
	if err := s.checkSlug(ctx, t.Slug, uuid.Nil); err != nil {
		return nil, err
	}

	tag := &models.Tag{Name: t.Name, Slug: t.Slug, Color: t.Color, Description: t.Description}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// Update edits a tag. The slug only changes when one is supplied.
func (s *TagService) Update(ctx context.Context, id uuid.UUID, in TaxonomyInput) (*models.Tag, error) {
	tag, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, apperr.NotFound("tag", id)
	}

	t := term{Name: tag.Name, Slug: tag.Slug, Color: tag.Color, Description: tag.Description}
	changed, err := t.apply(in, "tag", false)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.checkSlug(ctx, t.Slug, id); err != nil {
			return nil, err
		}
	}

	tag.Name, tag.Slug, tag.Color, tag.Description = t.Name, t.Slug, t.Color, t.Description
	found, err := s.tags.Update(ctx, tag)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("tag", id)
	}
	return tag, nil
}

// Delete removes a tag that no post carries.
func (s *TagService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if tag == nil {
		return apperr.NotFound("tag", id)
	}

	used, err := s.tags.HasPosts(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return apperr.E(apperr.KindHasDependents, "tag %q is used by one or more posts", tag.Slug)
	}

	found, err := s.tags.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound("tag", id)
	}
	return nil
}

func (s *TagService) checkSlug(ctx context.Context, slug string, exclude uuid.UUID) error {
	taken, err := s.tags.SlugTaken(ctx, slug, exclude)
	if err != nil {
		return err
	}
	if taken {
		return apperr.DuplicateSlug(slug)
	}
	return nil
}
