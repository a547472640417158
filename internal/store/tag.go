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

// TagStore manages tags in the database.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// tagColumns includes the published post count as its last column.
const tagColumns = `t.id, t.name, t.slug, t.color, t.description, t.created_at, t.updated_at,
	(SELECT COUNT(*) FROM post_tags pt JOIN posts p ON p.id = pt.post_id
	 WHERE pt.tag_id = t.id AND p.status = 'PUBLISHED')`

func scanTag(scanner rowScanner) (*models.Tag, error) {
	var t models.Tag
	err := scanner.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Color, &t.Description,
		&t.CreatedAt, &t.UpdatedAt, &t.PostCount,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all tags ordered by name, with published post counts.
func (s *TagStore) List(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+tagColumns+` FROM tags t ORDER BY t.name, t.id`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	items := []models.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// FindByID retrieves a tag by ID. Returns nil if not found.
func (s *TagStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	t, err := scanTag(s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags t WHERE t.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by id: %w", err)
	}
	return t, nil
}

// FindBySlug retrieves a tag by slug. Returns nil if not found.
func (s *TagStore) FindBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	t, err := scanTag(s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags t WHERE t.slug = $1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by slug: %w", err)
	}
	return t, nil
}

// CountExisting returns how many of ids exist in the tags table.
func (s *TagStore) CountExisting(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tags WHERE id = ANY($1::uuid[])`, uuidArray(ids),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count tags: %w", err)
	}
	return n, nil
}

// SlugTaken reports whether a tag other than exclude uses slug.
func (s *TagStore) SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tags WHERE slug = $1 AND id <> $2)`,
		slug, exclude,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check tag slug: %w", err)
	}
	return taken, nil
}

// Create inserts t and fills in its ID and timestamps.
func (s *TagStore) Create(ctx context.Context, t *models.Tag) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tags (name, slug, color, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, t.Name, t.Slug, t.Color, t.Description).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create tag: %w", slugConflict(err, t.Slug))
	}
	return nil
}

// Update modifies an existing tag. Returns false if it does not exist.
func (s *TagStore) Update(ctx context.Context, t *models.Tag) (bool, error) {
	err := s.db.QueryRowContext(ctx, `
		UPDATE tags SET
			name = $1, slug = $2, color = $3, description = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`, t.Name, t.Slug, t.Color, t.Description, t.ID).Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("update tag: %w", slugConflict(err, t.Slug))
	}
	return true, nil
}

// HasPosts reports whether any post, in any status, carries the tag.
func (s *TagStore) HasPosts(ctx context.Context, id uuid.UUID) (bool, error) {
	var used bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM post_tags WHERE tag_id = $1)`, id,
	).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("check tag posts: %w", err)
	}
	return used, nil
}

// Delete removes a tag by ID. Returns false if it does not exist.
func (s *TagStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, apperr.Wrap(apperr.KindHasDependents, err, "tag is still used by posts")
		}
		return false, fmt.Errorf("delete tag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete tag: %w", err)
	}
	return n > 0, nil
}
