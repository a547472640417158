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
)

// CommentInput is a new comment. AuthorName and AuthorEmail are only used
// when the caller is anonymous.
type CommentInput struct {
	Content     string
	ParentID    *uuid.UUID
	AuthorName  string
	AuthorEmail string
}

// CommentPage is one page of the moderation queue.
type CommentPage struct {
	Comments   []*models.Comment `json:"comments"`
	Pagination Pagination        `json:"pagination"`
}

// CommentService builds comment trees and runs the moderation workflow.
type CommentService struct {
	comments      CommentStore
	posts         PostStore
	defaultStatus models.CommentStatus
	paging        Paging
}

// NewCommentService creates a CommentService. New comments start in
// defaultStatus; an empty value means APPROVED.
func NewCommentService(comments CommentStore, posts PostStore, defaultStatus models.CommentStatus, paging Paging) *CommentService {
	if defaultStatus == "" {
		defaultStatus = models.CommentStatusApproved
	}
	return &CommentService{comments: comments, posts: posts, defaultStatus: defaultStatus, paging: paging}
}

// ListApprovedForPost returns the public comment tree of a published post:
// approved top-level comments newest first, each with its approved replies
// oldest first.
func (s *CommentService) ListApprovedForPost(ctx context.Context, postSlug string) ([]*models.Comment, error) {
	post, err := s.publishedPost(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	approved, err := s.comments.ListByPost(ctx, post.ID, models.CommentStatusApproved)
	if err != nil {
		return nil, err
	}
	return buildTree(approved), nil
}

// buildTree nests replies under their top-level parents. Input must be
// oldest first. Replies whose parent is not in the input are dropped, so a
// hidden parent hides its thread.
func buildTree(flat []*models.Comment) []*models.Comment {
	parents := make(map[uuid.UUID]*models.Comment)
	var roots []*models.Comment
	for _, c := range flat {
		if c.IsTopLevel() {
			c.Replies = []*models.Comment{}
			parents[c.ID] = c
			roots = append(roots, c)
		}
	}
	for _, c := range flat {
		if c.IsTopLevel() {
			continue
		}
		if parent, ok := parents[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		}
	}

	tree := make([]*models.Comment, len(roots))
	for i, c := range roots {
		tree[len(roots)-1-i] = c
	}
	return tree
}

// Create adds a comment to a published post. A reply's parent must be a
// top-level comment on the same post. Signed-in actors are linked by ID;
// everyone else is stored as an anonymous author.
func (s *CommentService) Create(ctx context.Context, postSlug string, in CommentInput, actor *Actor) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperr.Validation("content is required")
	}

	post, err := s.publishedPost(ctx, postSlug)
	if err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		parent, err := s.comments.FindByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		switch {
		case parent == nil:
			return nil, apperr.E(apperr.KindInvalidParent, "parent comment %s does not exist", *in.ParentID)
		case parent.PostID != post.ID:
			return nil, apperr.E(apperr.KindInvalidParent, "parent comment %s belongs to another post", parent.ID)
		case !parent.IsTopLevel():
			return nil, apperr.E(apperr.KindInvalidParent, "cannot reply to a reply")
		}
	}

	var author models.CommentAuthor
	if actor != nil {
		author = models.RegisteredAuthor{UserID: actor.UserID}
	} else {
		author = models.AnonymousAuthor{
			Name:  strings.TrimSpace(in.AuthorName),
			Email: strings.TrimSpace(in.AuthorEmail),
		}
	}

	c := &models.Comment{
		Content:  content,
		Status:   s.defaultStatus,
		PostID:   post.ID,
		ParentID: in.ParentID,
		Author:   author,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return s.Get(ctx, c.ID)
}

// Moderate moves a comment to status. Any of the three states may follow
// any other.
func (s *CommentService) Moderate(ctx context.Context, id uuid.UUID, status string) (*models.Comment, error) {
	st, err := parseCommentStatus(status)
	if err != nil {
		return nil, err
	}
	found, err := s.comments.UpdateStatus(ctx, id, st)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("comment", id)
	}
	return s.Get(ctx, id)
}

// UpdateContent lets a registered author edit their own comment. Anonymous
// comments cannot be edited.
func (s *CommentService) UpdateContent(ctx context.Context, id uuid.UUID, content string, actor *Actor) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("content is required")
	}

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	authorID := c.AuthorID()
	if actor == nil || authorID == nil || *authorID != actor.UserID {
		return nil, apperr.E(apperr.KindForbidden, "only the author can edit this comment")
	}

	found, err := s.comments.UpdateContent(ctx, id, content)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("comment", id)
	}
	return s.Get(ctx, id)
}

// Delete removes a comment and its direct replies.
func (s *CommentService) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.comments.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound("comment", id)
	}
	return nil
}

// ListByStatus pages through comments in one moderation state, newest
// first. An empty status lists the PENDING queue.
func (s *CommentService) ListByStatus(ctx context.Context, status string, page, limit int) (*CommentPage, error) {
	st := models.CommentStatusPending
	if status != "" {
		var err error
		if st, err = parseCommentStatus(status); err != nil {
			return nil, err
		}
	}

	page, limit = s.paging.normalize(page, limit)
	comments, total, err := s.comments.ListByStatus(ctx, st, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &CommentPage{Comments: comments, Pagination: newPagination(page, limit, total)}, nil
}

// Get returns a single comment in any status.
func (s *CommentService) Get(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("comment", id)
	}
	return c, nil
}

// publishedPost resolves a post for the public comment paths. Drafts and
// archived posts have no public comment thread.
func (s *CommentService) publishedPost(ctx context.Context, postSlug string) (*models.Post, error) {
	p, err := s.posts.FindPublishedBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("post", postSlug)
	}
	return p, nil
}

func parseCommentStatus(s string) (models.CommentStatus, error) {
	st, ok := models.ParseCommentStatus(s)
	if !ok {
		return "", apperr.E(apperr.KindInvalidStatus, "invalid comment status %q", s)
	}
	return st, nil
}
