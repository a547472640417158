// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/mail"
	"unicode/utf8"
)

// Length limits for request fields. Required-field rules live in the
// service layer; these only bound input size.
const (
	maxTitleLen       = 300
	maxSlugLen        = 300
	maxContentLen     = 100_000
	maxExcerptLen     = 1_000
	maxCommentLen     = 5_000
	maxAuthorNameLen  = 100
	maxEmailLen       = 254
	maxTermNameLen    = 100
	maxDescriptionLen = 500
)

// validatePost checks post request sizes and returns the first error found.
func validatePost(req *postRequest) string {
	if tooLong(req.Title, maxTitleLen) {
		return "title is too long (max 300 characters)"
	}
	if tooLong(req.Slug, maxSlugLen) {
		return "slug is too long (max 300 characters)"
	}
	if tooLong(req.Content, maxContentLen) {
		return "content is too long (max 100,000 characters)"
	}
	if tooLong(req.Excerpt, maxExcerptLen) {
		return "excerpt is too long (max 1,000 characters)"
	}
	return ""
}

// validateComment checks a new comment and the optional guest identity.
func validateComment(content, name, email string) string {
	if utf8.RuneCountInString(content) > maxCommentLen {
		return "content is too long (max 5,000 characters)"
	}
	if utf8.RuneCountInString(name) > maxAuthorNameLen {
		return "author_name is too long (max 100 characters)"
	}
	if email != "" {
		if len(email) > maxEmailLen {
			return "author_email is too long"
		}
		if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
			return "author_email is not a valid address"
		}
	}
	return ""
}

// validateTerm checks category and tag request sizes.
func validateTerm(req *termRequest) string {
	if tooLong(req.Name, maxTermNameLen) {
		return "name is too long (max 100 characters)"
	}
	if tooLong(req.Slug, maxSlugLen) {
		return "slug is too long (max 300 characters)"
	}
	if tooLong(req.Description, maxDescriptionLen) {
		return "description is too long (max 500 characters)"
	}
	return ""
}

func tooLong(s *string, max int) bool {
	return s != nil && utf8.RuneCountInString(*s) > max
}
