// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/models"
)

// PostQuery narrows a post listing. Zero values mean "no filter".
type PostQuery struct {
	Status       *models.PostStatus
	CategorySlug string
	TagSlug      string
	Search       string
	Featured     *bool
	Limit        int
	Offset       int
}

// PostStore handles all post-related database operations, including the
// post_tags join rows and the explicit cascades on delete.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postColumns selects a post together with its author profile and category.
// Every query using it aliases posts as p and joins postJoins.
const postColumns = `p.id, p.title, p.slug, p.excerpt, p.content, p.status, p.featured,
	p.read_time, p.view_count, p.published_at, p.author_id, p.category_id,
	p.created_at, p.updated_at,
	u.display_name, u.avatar_url,
	c.name, c.slug, c.color`

const postJoins = `JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id`

// scanPost scans a postColumns row into a Post with Author and Category set.
func scanPost(scanner rowScanner) (*models.Post, error) {
	var (
		p                          models.Post
		author                     models.UserProfile
		catName, catSlug, catColor sql.NullString
	)
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.Status, &p.Featured,
		&p.ReadTime, &p.ViewCount, &p.PublishedAt, &p.AuthorID, &p.CategoryID,
		&p.CreatedAt, &p.UpdatedAt,
		&author.DisplayName, &author.AvatarURL,
		&catName, &catSlug, &catColor,
	)
	if err != nil {
		return nil, err
	}

	author.ID = p.AuthorID
	p.Author = &author
	if p.CategoryID != nil && catSlug.Valid {
		p.Category = &models.Category{
			ID:    *p.CategoryID,
			Name:  catName.String,
			Slug:  catSlug.String,
			Color: catColor.String,
		}
	}
	p.Tags = []models.Tag{}
	return &p, nil
}

// findOne runs a single-row post query and attaches tags. Returns nil if
// no row matched.
func (s *PostStore) findOne(ctx context.Context, what, query string, args ...any) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	if err := s.attachTags(ctx, []*models.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// FindByID retrieves a post by its UUID regardless of status. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.findOne(ctx, "find post by id", `
		SELECT `+postColumns+`
		FROM posts p `+postJoins+`
		WHERE p.id = $1
	`, id)
}

// FindPublishedBySlug retrieves a published post without touching its view
// count. Returns nil for missing or unpublished posts.
func (s *PostStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.findOne(ctx, "find published post by slug", `
		SELECT `+postColumns+`
		FROM posts p `+postJoins+`
		WHERE p.slug = $1 AND p.status = 'PUBLISHED'
	`, slug)
}

// ViewBySlug records one public view of a published post and returns it.
// The increment and the read are a single statement, so concurrent views
// never overwrite each other. Returns nil for missing or unpublished posts.
func (s *PostStore) ViewBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.findOne(ctx, "view post by slug", `
		WITH p AS (
			UPDATE posts SET view_count = view_count + 1
			WHERE slug = $1 AND status = 'PUBLISHED'
			RETURNING *
		)
		SELECT `+postColumns+`
		FROM p `+postJoins+`
	`, slug)
}

// SlugTaken reports whether a post other than exclude already uses slug.
// Pass uuid.Nil to check against every post.
func (s *PostStore) SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)`,
		slug, exclude,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check post slug: %w", err)
	}
	return taken, nil
}

// List returns one page of posts matching q, newest first, and the total
// number of matching posts.
func (s *PostStore) List(ctx context.Context, q PostQuery) ([]*models.Post, int, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Status != nil {
		where = append(where, "p.status = "+arg(string(*q.Status)))
	}
	if q.CategorySlug != "" {
		where = append(where, "c.slug = "+arg(q.CategorySlug))
	}
	if q.TagSlug != "" {
		where = append(where, `EXISTS (
			SELECT 1 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
			WHERE pt.post_id = p.id AND t.slug = `+arg(q.TagSlug)+`)`)
	}
	if q.Search != "" {
		pattern := arg("%" + escapeLike(q.Search) + "%")
		where = append(where, "(p.title ILIKE "+pattern+
			" OR p.excerpt ILIKE "+pattern+
			" OR p.content ILIKE "+pattern+")")
	}
	if q.Featured != nil {
		where = append(where, "p.featured = "+arg(*q.Featured))
	}

	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM posts p LEFT JOIN categories c ON c.id = p.category_id
		`+clause, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	limit := arg(q.Limit)
	offset := arg(q.Offset)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p `+postJoins+`
		`+clause+`
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT `+limit+` OFFSET `+offset, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	if err := s.attachTags(ctx, posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// attachTags loads the tags of every post in one query.
func (s *PostStore) attachTags(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(posts))
	byID := make(map[uuid.UUID]*models.Post, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT pt.post_id, t.id, t.name, t.slug, t.color
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1::uuid[])
		ORDER BY t.name
	`, uuidArray(ids))
	if err != nil {
		return fmt.Errorf("load post tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID uuid.UUID
			t      models.Tag
		)
		if err := rows.Scan(&postID, &t.ID, &t.Name, &t.Slug, &t.Color); err != nil {
			return fmt.Errorf("scan post tag: %w", err)
		}
		if p, ok := byID[postID]; ok {
			p.Tags = append(p.Tags, t)
		}
	}
	return rows.Err()
}

// Create inserts a post and its tag associations in one transaction and
// returns the new post ID.
func (s *PostStore) Create(ctx context.Context, p *models.Post, tagIDs []uuid.UUID) (uuid.UUID, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, excerpt, content, status, featured,
		                   read_time, published_at, author_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, p.Title, p.Slug, p.Excerpt, p.Content, string(p.Status), p.Featured,
		p.ReadTime, p.PublishedAt, p.AuthorID, p.CategoryID,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create post: %w", postWriteError(err, p.Slug))
	}

	if err := insertPostTags(ctx, tx, id, tagIDs); err != nil {
		return uuid.Nil, err
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("commit post: %w", err)
	}
	return id, nil
}

// Update writes the editable fields of p. published_at is only ever filled
// in, never overwritten. When tagIDs is non-nil the post's tag set is
// replaced inside the same transaction. Returns false if the post does not
// exist.
func (s *PostStore) Update(ctx context.Context, p *models.Post, tagIDs *[]uuid.UUID) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE posts SET
			title = $1, slug = $2, excerpt = $3, content = $4, status = $5,
			featured = $6, read_time = $7,
			published_at = COALESCE(published_at, $8),
			category_id = $9, updated_at = NOW()
		WHERE id = $10
	`, p.Title, p.Slug, p.Excerpt, p.Content, string(p.Status),
		p.Featured, p.ReadTime, p.PublishedAt, p.CategoryID, p.ID,
	)
	if err != nil {
		return false, fmt.Errorf("update post: %w", postWriteError(err, p.Slug))
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, fmt.Errorf("update post: %w", err)
	} else if n == 0 {
		return false, nil
	}

	if tagIDs != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, p.ID); err != nil {
			return false, fmt.Errorf("clear post tags: %w", err)
		}
		if err := insertPostTags(ctx, tx, p.ID, *tagIDs); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit post: %w", err)
	}
	return true, nil
}

// Delete removes a post with its replies, comments and tag associations in
// one transaction. Returns false if the post does not exist.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Replies first: comments.parent_id has no ON DELETE action.
	steps := []struct{ what, query string }{
		{"delete post replies", `DELETE FROM comments WHERE post_id = $1 AND parent_id IS NOT NULL`},
		{"delete post comments", `DELETE FROM comments WHERE post_id = $1`},
		{"delete post tags", `DELETE FROM post_tags WHERE post_id = $1`},
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.query, id); err != nil {
			return false, fmt.Errorf("%s: %w", step.what, err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	} else if n == 0 {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete post: %w", err)
	}
	return true, nil
}

// insertPostTags adds one post_tags row per tag ID.
func insertPostTags(ctx context.Context, tx *sql.Tx, postID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("prepare post tags: %w", err)
	}
	defer stmt.Close()

	for _, tagID := range tagIDs {
		if _, err := stmt.ExecContext(ctx, postID, tagID); err != nil {
			if isForeignKeyViolation(err) {
				return apperr.Wrap(apperr.KindValidation, err, "tag %s does not exist", tagID)
			}
			return fmt.Errorf("insert post tag %s: %w", tagID, err)
		}
	}
	return nil
}

// postWriteError classifies constraint failures from INSERT/UPDATE on posts.
func postWriteError(err error, slug string) error {
	if isForeignKeyViolation(err) {
		return apperr.Wrap(apperr.KindValidation, err, "author or category does not exist")
	}
	return slugConflict(err, slug)
}

// escapeLike escapes LIKE metacharacters so search terms match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
