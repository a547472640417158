// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "DRAFT"
	PostStatusPublished PostStatus = "PUBLISHED"
	PostStatusArchived  PostStatus = "ARCHIVED"
)

// ParsePostStatus converts user input into a PostStatus. Matching is
// case-insensitive; ok is false for anything outside the enum.
func ParsePostStatus(s string) (PostStatus, bool) {
	switch st := PostStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return st, true
	}
	return "", false
}

// Post is a blog article. Only PUBLISHED posts are visible to anonymous readers.
type Post struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	Content     string     `json:"content"`
	Status      PostStatus `json:"status"`
	Featured    bool       `json:"featured"`
	ReadTime    int        `json:"read_time"`
	ViewCount   int64      `json:"view_count"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	AuthorID    uuid.UUID  `json:"author_id"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Virtual fields populated by store methods.
	Author   *UserProfile `json:"author,omitempty"`
	Category *Category    `json:"category,omitempty"`
	Tags     []Tag        `json:"tags"`

	// ContentHTML is the rendered Markdown, set only on single-post reads.
	ContentHTML string `json:"content_html,omitempty"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}
