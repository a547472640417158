// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mocks provides in-memory implementations of the store contracts
// used by the service and handler tests. The stores share one DB so that
// cross-entity rules (cascading deletes, published counts, unique slugs and
// referenced-entity guards) behave the way the PostgreSQL schema does.
package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/apperr"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// DB is the shared in-memory state. Set Err to make every store call fail.
type DB struct {
	mu sync.Mutex

	Users      map[uuid.UUID]*models.User
	Posts      map[uuid.UUID]*models.Post
	PostTags   map[uuid.UUID][]uuid.UUID
	Comments   map[uuid.UUID]*models.Comment
	Categories map[uuid.UUID]*models.Category
	Tags       map[uuid.UUID]*models.Tag

	Err error

	clock time.Time
}

// NewDB returns an empty DB.
func NewDB() *DB {
	return &DB{
		Users:      make(map[uuid.UUID]*models.User),
		Posts:      make(map[uuid.UUID]*models.Post),
		PostTags:   make(map[uuid.UUID][]uuid.UUID),
		Comments:   make(map[uuid.UUID]*models.Comment),
		Categories: make(map[uuid.UUID]*models.Category),
		Tags:       make(map[uuid.UUID]*models.Tag),
		clock:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick advances the fake clock so every write gets a distinct, increasing
// timestamp.
func (db *DB) tick() time.Time {
	db.clock = db.clock.Add(time.Millisecond)
	return db.clock
}

// AddUser stores a user with a bcrypt hash of password and returns it.
func (db *DB) AddUser(email, password, displayName string, role models.Role) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	db.mu.Lock()
	defer db.mu.Unlock()
	t := db.tick()
	u := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         role,
		CreatedAt:    t,
		UpdatedAt:    t,
	}
	db.Users[u.ID] = u
	return u
}

// --- posts ---

// PostStore is an in-memory service.PostStore.
type PostStore struct{ db *DB }

// NewPostStore returns a PostStore over db.
func NewPostStore(db *DB) *PostStore { return &PostStore{db: db} }

// hydratePost returns a copy of p with its author, category and tags resolved.
func (db *DB) hydratePost(p *models.Post) *models.Post {
	out := *p
	profile := models.UserProfile{ID: p.AuthorID}
	if u, ok := db.Users[p.AuthorID]; ok {
		profile = u.Profile()
	}
	out.Author = &profile
	out.Category = nil
	if p.CategoryID != nil {
		if c, ok := db.Categories[*p.CategoryID]; ok {
			cat := *c
			out.Category = &cat
		}
		id := *p.CategoryID
		out.CategoryID = &id
	}
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		out.PublishedAt = &t
	}
	out.Tags = []models.Tag{}
	for _, id := range db.PostTags[p.ID] {
		if t, ok := db.Tags[id]; ok {
			out.Tags = append(out.Tags, *t)
		}
	}
	sort.Slice(out.Tags, func(i, j int) bool { return out.Tags[i].Name < out.Tags[j].Name })
	return &out
}

func (db *DB) postSlugTaken(slug string, exclude uuid.UUID) bool {
	for _, p := range db.Posts {
		if p.Slug == slug && p.ID != exclude {
			return true
		}
	}
	return false
}

func (db *DB) checkPostRefs(p *models.Post, tagIDs []uuid.UUID) error {
	if p.CategoryID != nil {
		if _, ok := db.Categories[*p.CategoryID]; !ok {
			return apperr.Validation("author or category does not exist")
		}
	}
	for _, id := range tagIDs {
		if _, ok := db.Tags[id]; !ok {
			return apperr.Validation("tag %s does not exist", id)
		}
	}
	return nil
}

func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return nil, s.db.Err
	}
	p, ok := s.db.Posts[id]
	if !ok {
		return nil, nil
	}
	return s.db.hydratePost(p), nil
}

func (s *PostStore) findPublished(slug string) *models.Post {
	for _, p := range s.db.Posts {
		if p.Slug == slug && p.Status == models.PostStatusPublished {
			return p
		}
	}
	return nil
}

func (s *PostStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return nil, s.db.Err
	}
	p := s.findPublished(slug)
	if p == nil {
		return nil, nil
	}
	return s.db.hydratePost(p), nil
}

func (s *PostStore) ViewBySlug(ctx context.Context, slug string) (*models.Post, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return nil, s.db.Err
	}
	p := s.findPublished(slug)
	if p == nil {
		return nil, nil
	}
	p.ViewCount++
	return s.db.hydratePost(p), nil
}

func (s *PostStore) SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return false, s.db.Err
	}
	return s.db.postSlugTaken(slug, exclude), nil
}

func (s *PostStore) List(ctx context.Context, q store.PostQuery) ([]*models.Post, int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return nil, 0, s.db.Err
	}

	search := strings.ToLower(q.Search)
	var matched []*models.Post
	for _, p := range s.db.Posts {
		if q.Status != nil && p.Status != *q.Status {
			continue
		}
		if q.Featured != nil && p.Featured != *q.Featured {
			continue
		}
		h := s.db.hydratePost(p)
		if q.CategorySlug != "" && (h.Category == nil || h.Category.Slug != q.CategorySlug) {
			continue
		}
		if q.TagSlug != "" && !hasTag(h.Tags, q.TagSlug) {
			continue
		}
		if search != "" {
			excerpt := ""
			if p.Excerpt != nil {
				excerpt = *p.Excerpt
			}
			hay := strings.ToLower(p.Title + "\x00" + excerpt + "\x00" + p.Content)
			if !strings.Contains(hay, search) {
				continue
			}
		}
		matched = append(matched, h)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() > matched[j].ID.String()
	})

	total := len(matched)
	page := []*models.Post{}
	for i := q.Offset; i < total && len(page) < q.Limit; i++ {
		page = append(page, matched[i])
	}
	return page, total, nil
}

func hasTag(tags []models.Tag, slug string) bool {
	for _, t := range tags {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

func (s *PostStore) Create(ctx context.Context, p *models.Post, tagIDs []uuid.UUID) (uuid.UUID, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return uuid.Nil, s.db.Err
	}
	if s.db.postSlugTaken(p.Slug, uuid.Nil) {
		return uuid.Nil, apperr.DuplicateSlug(p.Slug)
	}
	if err := s.db.checkPostRefs(p, tagIDs); err != nil {
		return uuid.Nil, err
	}

	stored := *p
	stored.ID = uuid.New()
	stored.CreatedAt = s.db.tick()
	stored.UpdatedAt = stored.CreatedAt
	stored.Author, stored.Category, stored.Tags = nil, nil, nil
	s.db.Posts[stored.ID] = &stored
	s.db.PostTags[stored.ID] = append([]uuid.UUID(nil), tagIDs...)
	return stored.ID, nil
}

func (s *PostStore) Update(ctx context.Context, p *models.Post, tagIDs *[]uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return false, s.db.Err
	}
	existing, ok := s.db.Posts[p.ID]
	if !ok {
		return false, nil
	}
	if s.db.postSlugTaken(p.Slug, p.ID) {
		return false, apperr.DuplicateSlug(p.Slug)
	}
	var tags []uuid.UUID
	if tagIDs != nil {
		tags = *tagIDs
	}
	if err := s.db.checkPostRefs(p, tags); err != nil {
		return false, err
	}

	stored := *p
	stored.ViewCount = existing.ViewCount
	stored.AuthorID = existing.AuthorID
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = s.db.tick()
	if existing.PublishedAt != nil {
		stored.PublishedAt = existing.PublishedAt
	}
	stored.Author, stored.Category, stored.Tags = nil, nil, nil
	s.db.Posts[p.ID] = &stored
	if tagIDs != nil {
		s.db.PostTags[p.ID] = append([]uuid.UUID(nil), tags...)
	}
	return true, nil
}

func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return false, s.db.Err
	}
	if _, ok := s.db.Posts[id]; !ok {
		return false, nil
	}
	for cid, c := range s.db.Comments {
		if c.PostID == id {
			delete(s.db.Comments, cid)
		}
	}
	delete(s.db.PostTags, id)
	delete(s.db.Posts, id)
	return true, nil
}

// --- comments ---

// CommentStore is an in-memory service.CommentStore.
type CommentStore struct{ db *DB }

// NewCommentStore returns a CommentStore over db.
func NewCommentStore(db *DB) *CommentStore { return &CommentStore{db: db} }

// hydrateComment copies c and resolves a registered author's profile.
func (db *DB) hydrateComment(c *models.Comment) *models.Comment {
	out := *c
	out.Replies = nil
	if c.ParentID != nil {
		id := *c.ParentID
		out.ParentID = &id
	}
	if a, ok := c.Author.(models.RegisteredAuthor); ok {
		if u, ok := db.Users[a.UserID]; ok {
			a.DisplayName, a.AvatarURL = u.DisplayName, u.AvatarURL
		}
		out.Author = a
	}
	return &out
}

func (s *CommentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return nil, s.db.Err
	}
	c, ok := s.db.Comments[id]
	if !ok {
		return nil, nil
	}
	return s.db.hydrateComment(c), nil
}

func (s *CommentStore) Create(ctx context.Context, c *models.Comment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return s.db.Err
	}
	if _, ok := s.db.Posts[c.PostID]; !ok {
		return apperr.Validation("post, parent or author does not exist")
	}
	if c.ParentID != nil {
		if _, ok := s.db.Comments[*c.ParentID]; !ok {
			return apperr.Validation("post, parent or author does not exist")
		}
	}
	if c.Author == nil {
		c.Author = models.AnonymousAuthor{}
	}

	c.ID = uuid.New()
	c.CreatedAt = s.db.tick()
	c.UpdatedAt = c.CreatedAt
	stored := *c
	stored.Replies = nil
	s.db.Comments[c.ID] = &stored
	return nil
}

func (s *CommentStore) sorted(keep func(*models.Comment) bool, newestFirst bool) []*models.Comment {
	out := []*models.Comment{}
	for _, c := range s.db.Comments {
		if keep(c) {
			out = append(out, s.db.hydrateComment(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if newestFirst {
			a, b = b, a
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
	return out
}

func (s *CommentStore) ListByPost(ctx context.Context, postID uuid.UUID, status models.CommentStatus) ([]*models.Comment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return nil, s.db.Err
	}
	return s.sorted(func(c *models.Comment) bool {
		return c.PostID == postID && c.Status == status
	}, false), nil
}

func (s *CommentStore) ListByStatus(ctx context.Context, status models.CommentStatus, limit, offset int) ([]*models.Comment, int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return nil, 0, s.db.Err
	}
	all := s.sorted(func(c *models.Comment) bool { return c.Status == status }, true)
	page := []*models.Comment{}
	for i := offset; i < len(all) && len(page) < limit; i++ {
		page = append(page, all[i])
	}
	return page, len(all), nil
}

func (s *CommentStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.CommentStatus) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return false, s.db.Err
	}
	c, ok := s.db.Comments[id]
	if !ok {
		return false, nil
	}
	c.Status = status
	c.UpdatedAt = s.db.tick()
	return true, nil
}

func (s *CommentStore) UpdateContent(ctx context.Context, id uuid.UUID, content string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return false, s.db.Err
	}
	c, ok := s.db.Comments[id]
	if !ok {
		return false, nil
	}
	c.Content = content
	c.UpdatedAt = s.db.tick()
	return true, nil
}

func (s *CommentStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return false, s.db.Err
	}
	if _, ok := s.db.Comments[id]; !ok {
		return false, nil
	}
	for cid, c := range s.db.Comments {
		if c.ParentID != nil && *c.ParentID == id {
			delete(s.db.Comments, cid)
		}
	}
	delete(s.db.Comments, id)
	return true, nil
}

// --- categories ---

// CategoryStore is an in-memory service.CategoryStore.
type CategoryStore struct{ db *DB }

// NewCategoryStore returns a CategoryStore over db.
func NewCategoryStore(db *DB) *CategoryStore { return &CategoryStore{db: db} }

func (s *CategoryStore) counted(c *models.Category) *models.Category {
	out := *c
	out.PostCount = 0
	for _, p := range s.db.Posts {
		if p.CategoryID != nil && *p.CategoryID == c.ID && p.Status == models.PostStatusPublished {
			out.PostCount++
		}
	}
	return &out
}

func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return nil, s.db.Err
	}
	out := []models.Category{}
	for _, c := range s.db.Categories {
		out = append(out, *s.counted(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return nil, s.db.Err
	}
	if c, ok := s.db.Categories[id]; ok {
		return s.counted(c), nil
	}
	return nil, nil
}

func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return nil, s.db.Err
	}
	for _, c := range s.db.Categories {
		if c.Slug == slug {
			return s.counted(c), nil
		}
	}
	return nil, nil
}

func (s *CategoryStore) slugTaken(slug string, exclude uuid.UUID) bool {
	for _, c := range s.db.Categories {
		if c.Slug == slug && c.ID != exclude {
			return true
		}
	}
	return false
}

func (s *CategoryStore) SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return false, s.db.Err
	}
	return s.slugTaken(slug, exclude), nil
}

func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return s.db.Err
	}
	if s.slugTaken(c.Slug, uuid.Nil) {
		return apperr.DuplicateSlug(c.Slug)
	}
	c.ID = uuid.New()
	c.CreatedAt = s.db.tick()
	c.UpdatedAt = c.CreatedAt
	stored := *c
	s.db.Categories[c.ID] = &stored
	return nil
}

func (s *CategoryStore) Update(ctx context.Context, c *models.Category) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return false, s.db.Err
	}
	existing, ok := s.db.Categories[c.ID]
	if !ok {
		return false, nil
	}
	if s.slugTaken(c.Slug, c.ID) {
		return false, apperr.DuplicateSlug(c.Slug)
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = s.db.tick()
	stored := *c
	s.db.Categories[c.ID] = &stored
	return true, nil
}

func (s *CategoryStore) hasPosts(id uuid.UUID) bool {
	for _, p := range s.db.Posts {
		if p.CategoryID != nil && *p.CategoryID == id {
			return true
		}
	}
	return false
}

func (s *CategoryStore) HasPosts(ctx context.Context, id uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return false, s.db.Err
	}
	return s.hasPosts(id), nil
}

func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return false, s.db.Err
	}
	if _, ok := s.db.Categories[id]; !ok {
		return false, nil
	}
	if s.hasPosts(id) {
		return false, apperr.E(apperr.KindHasDependents, "category is still used by posts")
	}
	delete(s.db.Categories, id)
	return true, nil
}

// --- tags ---

// TagStore is an in-memory service.TagStore.
type TagStore struct{ db *DB }

// NewTagStore returns a TagStore over db.
func NewTagStore(db *DB) *TagStore { return &TagStore{db: db} }

func (s *TagStore) counted(t *models.Tag) *models.Tag {
	out := *t
	out.PostCount = 0
	for postID, ids := range s.db.PostTags {
		p, ok := s.db.Posts[postID]
		if !ok || p.Status != models.PostStatusPublished {
			continue
		}
		for _, id := range ids {
			if id == t.ID {
				out.PostCount++
			}
		}
	}
	return &out
}

func (s *TagStore) List(ctx context.Context) ([]models.Tag, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return nil, s.db.Err
	}
	out := []models.Tag{}
	for _, t := range s.db.Tags {
		out = append(out, *s.counted(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *TagStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return nil, s.db.Err
	}
	if t, ok := s.db.Tags[id]; ok {
		return s.counted(t), nil
	}
	return nil, nil
}

func (s *TagStore) FindBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return nil, s.db.Err
	}
	for _, t := range s.db.Tags {
		if t.Slug == slug {
			return s.counted(t), nil
		}
	}
	return nil, nil
}

func (s *TagStore) CountExisting(ctx context.Context, ids []uuid.UUID) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return 0, s.db.Err
	}
	n := 0
	for _, id := range ids {
		if _, ok := s.db.Tags[id]; ok {
			n++
		}
	}
	return n, nil
}

func (s *TagStore) slugTaken(slug string, exclude uuid.UUID) bool {
	for _, t := range s.db.Tags {
		if t.Slug == slug && t.ID != exclude {
			return true
		}
	}
	return false
}

func (s *TagStore) SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return false, s.db.Err
	}
	return s.slugTaken(slug, exclude), nil
}

func (s *TagStore) Create(ctx context.Context, t *models.Tag) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return s.db.Err
	}
	if s.slugTaken(t.Slug, uuid.Nil) {
		return apperr.DuplicateSlug(t.Slug)
	}
	t.ID = uuid.New()
	t.CreatedAt = s.db.tick()
	t.UpdatedAt = t.CreatedAt
	stored := *t
	s.db.Tags[t.ID] = &stored
	return nil
}

func (s *TagStore) Update(ctx context.Context, t *models.Tag) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return false, s.db.Err
	}
	existing, ok := s.db.Tags[t.ID]
	if !ok {
		return false, nil
	}
	if s.slugTaken(t.Slug, t.ID) {
		return false, apperr.DuplicateSlug(t.Slug)
	}
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = s.db.tick()
	stored := *t
	s.db.Tags[t.ID] = &stored
	return true, nil
}

func (s *TagStore) hasPosts(id uuid.UUID) bool {
	for _, ids := range s.db.PostTags {
		for _, tagID := range ids {
			if tagID == id {
				return true
			}
		}
	}
	return false
}

func (s *TagStore) HasPosts(ctx context.Context, id uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return false, s.db.Err
	}
	return s.hasPosts(id), nil
}

func (s *TagStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return false, s.db.Err
	}
	if _, ok := s.db.Tags[id]; !ok {
		return false, nil
	}
	if s.hasPosts(id) {
		return false, apperr.E(apperr.KindHasDependents, "tag is still used by posts")
	}
	delete(s.db.Tags, id)
	return true, nil
}

// --- users ---

// UserStore is an in-memory user lookup for the auth handlers.
type UserStore struct{ db *DB }

// NewUserStore returns a UserStore over db.
func NewUserStore(db *DB) *UserStore { return &UserStore{db: db} }

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return nil, s.db.Err
	}
	for _, u := range s.db.Users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Err != nil {
		return nil, s.db.Err
	}
	if u, ok := s.db.Users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, nil
}

func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
