// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// categoryColumns includes the published post count as its last column.
const categoryColumns = `c.id, c.name, c.slug, c.color, c.description, c.created_at, c.updated_at,
	(SELECT COUNT(*) FROM posts p WHERE p.category_id = c.id AND p.status = 'PUBLISHED')`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner rowScanner) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Color, &c.Description,
		&c.CreatedAt, &c.UpdatedAt, &c.PostCount,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name, with published post counts.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories c ORDER BY c.name, c.id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories c WHERE c.id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories c WHERE c.slug = $1`, slug)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// SlugTaken reports whether a category other than exclude uses slug.
func (s *CategoryStore) SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1 AND id <> $2)`,
		slug, exclude,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check category slug: %w", err)
	}
	return taken, nil
}

// Create inserts c and fills in its ID and timestamps.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, color, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Slug, c.Color, c.Description).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create category: %w", slugConflict(err, c.Slug))
	}
	return nil
}

// Update modifies an existing category. Returns false if it does not exist.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) (bool, error) {
	err := s.db.QueryRowContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, color = $3, description = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`, c.Name, c.Slug, c.Color, c.Description, c.ID).Scan(&c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("update category: %w", slugConflict(err, c.Slug))
	}
	return true, nil
}

// HasPosts reports whether any post, in any status, references the category.
func (s *CategoryStore) HasPosts(ctx context.Context, id uuid.UUID) (bool, error) {
	var used bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE category_id = $1)`, id,
	).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("check category posts: %w", err)
	}
	return used, nil
}

// Delete removes a category by ID. Returns false if it does not exist.
// A post attached concurrently surfaces as HasDependents via the
// ON DELETE RESTRICT foreign key.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, apperr.Wrap(apperr.KindHasDependents, err, "category is still used by posts")
		}
		return false, fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return n > 0, nil
}
