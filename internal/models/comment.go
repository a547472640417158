// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CommentStatus is the moderation state of a comment. Only APPROVED
// comments are shown publicly.
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "PENDING"
	CommentStatusApproved CommentStatus = "APPROVED"
	CommentStatusRejected CommentStatus = "REJECTED"
)

// ParseCommentStatus converts user input into a CommentStatus. Matching is
// case-insensitive; ok is false for anything outside the enum.
func ParseCommentStatus(s string) (CommentStatus, bool) {
	switch st := CommentStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case CommentStatusPending, CommentStatusApproved, CommentStatusRejected:
		return st, true
	}
	return "", false
}

// AnonymousName is shown for anonymous comments that left no name.
const AnonymousName = "Anonymous"

// CommentAuthor is either a RegisteredAuthor or an AnonymousAuthor.
// The interface is sealed; switch on the concrete type.
type CommentAuthor interface {
	commentAuthor()
}

// RegisteredAuthor is a signed-in user. DisplayName and AvatarURL are
// resolved from the users table when comments are listed.
type RegisteredAuthor struct {
	UserID      uuid.UUID
	DisplayName string
	AvatarURL   *string
}

// AnonymousAuthor is a guest who supplied an optional name and email.
type AnonymousAuthor struct {
	Name  string
	Email string
}

func (RegisteredAuthor) commentAuthor() {}
func (AnonymousAuthor) commentAuthor()  {}

// DisplayName returns the name shown publicly for the guest.
func (a AnonymousAuthor) DisplayName() string {
	if n := strings.TrimSpace(a.Name); n != "" {
		return n
	}
	return AnonymousName
}

// Comment belongs to a post and optionally replies to a top-level comment
// on the same post. Nesting stops at one level.
type Comment struct {
	ID        uuid.UUID
	Content   string
	Status    CommentStatus
	PostID    uuid.UUID
	ParentID  *uuid.UUID
	Author    CommentAuthor
	CreatedAt time.Time
	UpdatedAt time.Time

	// ContentHTML is the sanitized rendering of Content, set by the API
	// layer for public reads.
	ContentHTML string

	// Replies is populated for top-level comments when building a tree.
	// A nil slice is omitted from JSON; an empty one is not.
	Replies []*Comment
}

// IsTopLevel reports whether the comment is attached directly to the post.
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}

// AuthorID returns the linked user ID, or nil for anonymous comments.
func (c *Comment) AuthorID() *uuid.UUID {
	if a, ok := c.Author.(RegisteredAuthor); ok {
		id := a.UserID
		return &id
	}
	return nil
}

// commentAuthorJSON is the wire shape of both author variants. Guest
// emails are never serialized.
type commentAuthorJSON struct {
	ID        *uuid.UUID `json:"id"`
	Name      string     `json:"name"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
}

type commentJSON struct {
	ID          uuid.UUID         `json:"id"`
	Content     string            `json:"content"`
	ContentHTML string            `json:"content_html,omitempty"`
	Status      CommentStatus     `json:"status"`
	PostID      uuid.UUID         `json:"post_id"`
	ParentID    *uuid.UUID        `json:"parent_id"`
	Author      commentAuthorJSON `json:"author"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Replies     *[]*Comment       `json:"replies,omitempty"`
}

// MarshalJSON flattens the author union into {id, name, avatar_url}.
func (c *Comment) MarshalJSON() ([]byte, error) {
	out := commentJSON{
		ID:          c.ID,
		Content:     c.Content,
		ContentHTML: c.ContentHTML,
		Status:      c.Status,
		PostID:      c.PostID,
		ParentID:    c.ParentID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.Replies != nil {
		out.Replies = &c.Replies
	}
	switch a := c.Author.(type) {
	case RegisteredAuthor:
		id := a.UserID
		out.Author = commentAuthorJSON{ID: &id, Name: a.DisplayName, AvatarURL: a.AvatarURL}
	case AnonymousAuthor:
		out.Author = commentAuthorJSON{Name: a.DisplayName()}
	default:
		out.Author = commentAuthorJSON{Name: AnonymousName}
	}
	return json.Marshal(out)
}
