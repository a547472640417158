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

// CommentStore handles comment persistence. Authors are stored either as a
// users.id link or as a guest name/email pair, never both.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `c.id, c.content, c.status, c.post_id, c.parent_id,
	c.author_id, c.author_name, c.author_email, c.created_at, c.updated_at,
	u.display_name, u.avatar_url`

const commentJoins = `LEFT JOIN users u ON u.id = c.author_id`

// scanComment scans a commentColumns row and rebuilds the author union.
func scanComment(scanner rowScanner) (*models.Comment, error) {
	var (
		c                     models.Comment
		authorID              *uuid.UUID
		guestName, guestEmail sql.NullString
		displayName           sql.NullString
		avatarURL             *string
	)
	err := scanner.Scan(
		&c.ID, &c.Content, &c.Status, &c.PostID, &c.ParentID,
		&authorID, &guestName, &guestEmail, &c.CreatedAt, &c.UpdatedAt,
		&displayName, &avatarURL,
	)
	if err != nil {
		return nil, err
	}

	if authorID != nil {
		c.Author = models.RegisteredAuthor{
			UserID:      *authorID,
			DisplayName: displayName.String,
			AvatarURL:   avatarURL,
		}
	} else {
		c.Author = models.AnonymousAuthor{Name: guestName.String, Email: guestEmail.String}
	}
	return &c, nil
}

// authorColumns splits the author union into the three stored columns.
func authorColumns(a models.CommentAuthor) (*uuid.UUID, *string, *string) {
	switch a := a.(type) {
	case models.RegisteredAuthor:
		id := a.UserID
		return &id, nil, nil
	case models.AnonymousAuthor:
		name := a.DisplayName()
		var email *string
		if a.Email != "" {
			email = &a.Email
		}
		return nil, &name, email
	}
	name := models.AnonymousName
	return nil, &name, nil
}

// FindByID retrieves a comment by ID. Returns nil if not found.
func (s *CommentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+commentColumns+`
		FROM comments c `+commentJoins+`
		WHERE c.id = $1
	`, id)
	c, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Create inserts c and fills in its ID and timestamps.
func (s *CommentStore) Create(ctx context.Context, c *models.Comment) error {
	authorID, name, email := authorColumns(c.Author)
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (content, status, post_id, parent_id, author_id, author_name, author_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, c.Content, string(c.Status), c.PostID, c.ParentID, authorID, name, email,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperr.Wrap(apperr.KindValidation, err, "post, parent or author does not exist")
		}
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// ListByPost returns every comment of a post with the given status,
// oldest first. Callers assemble the reply tree.
func (s *CommentStore) ListByPost(ctx context.Context, postID uuid.UUID, status models.CommentStatus) ([]*models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+commentColumns+`
		FROM comments c `+commentJoins+`
		WHERE c.post_id = $1 AND c.status = $2
		ORDER BY c.created_at ASC, c.id ASC
	`, postID, string(status))
	if err != nil {
		return nil, fmt.Errorf("list comments by post: %w", err)
	}
	defer rows.Close()
	return collectComments(rows)
}

// ListByStatus returns one page of comments in the given status across all
// posts, newest first, together with the total count.
func (s *CommentStore) ListByStatus(ctx context.Context, status models.CommentStatus, limit, offset int) ([]*models.Comment, int, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE status = $1`, string(status),
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+commentColumns+`
		FROM comments c `+commentJoins+`
		WHERE c.status = $1
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $2 OFFSET $3
	`, string(status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments by status: %w", err)
	}
	defer rows.Close()

	comments, err := collectComments(rows)
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func collectComments(rows *sql.Rows) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// UpdateStatus sets the moderation status. Returns false if the comment
// does not exist.
func (s *CommentStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.CommentStatus) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE comments SET status = $1, updated_at = NOW() WHERE id = $2
	`, string(status), id)
	if err != nil {
		return false, fmt.Errorf("update comment status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update comment status: %w", err)
	}
	return n > 0, nil
}

// UpdateContent replaces the comment body. Returns false if the comment
// does not exist.
func (s *CommentStore) UpdateContent(ctx context.Context, id uuid.UUID, content string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE comments SET content = $1, updated_at = NOW() WHERE id = $2
	`, content, id)
	if err != nil {
		return false, fmt.Errorf("update comment content: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update comment content: %w", err)
	}
	return n > 0, nil
}

// Delete removes a comment and its direct replies in one transaction.
// Returns false if the comment does not exist.
func (s *CommentStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE parent_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete comment replies: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	} else if n == 0 {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete comment: %w", err)
	}
	return true, nil
}
