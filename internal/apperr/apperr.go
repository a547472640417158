// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the caller-facing error kinds returned by the
// service layer. Handlers map a Kind to an HTTP status; anything without a
// Kind is treated as Internal and never shown to the client.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP boundary.
type Kind string

const (
	KindInternal      Kind = "internal"
	KindNotFound      Kind = "not_found"
	KindDuplicateSlug Kind = "duplicate_slug"
	KindInvalidParent Kind = "invalid_parent"
	KindInvalidStatus Kind = "invalid_status"
	KindForbidden     Kind = "forbidden"
	KindHasDependents Kind = "has_dependents"
	KindValidation    Kind = "validation"
)

// Sentinels for errors.Is checks. Two *Error values match when their kinds
// are equal, so errors.Is(err, apperr.ErrNotFound) holds for any NotFound.
var (
	ErrNotFound      = &Error{Kind: KindNotFound, Message: "not found"}
	ErrDuplicateSlug = &Error{Kind: KindDuplicateSlug, Message: "slug already exists"}
	ErrInvalidParent = &Error{Kind: KindInvalidParent, Message: "invalid parent comment"}
	ErrInvalidStatus = &Error{Kind: KindInvalidStatus, Message: "invalid status"}
	ErrForbidden     = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrHasDependents = &Error{Kind: KindHasDependents, Message: "entity is still referenced"}
)

// Error is a classified error with a message safe to return to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error // optional cause, logged but never serialized
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// E builds an error of the given kind with a printf-style message.
func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity, e.g. NotFound("post", slug).
func NotFound(entity string, key any) *Error {
	return E(KindNotFound, "%s %v not found", entity, key)
}

// DuplicateSlug reports a slug collision.
func DuplicateSlug(slug string) *Error {
	return E(KindDuplicateSlug, "slug %q already exists", slug)
}

// Validation reports a malformed input field.
func Validation(format string, args ...any) *Error {
	return E(KindValidation, format, args...)
}

// Wrap attaches a cause to a classified error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	e := E(kind, format, args...)
	e.Err = err
	return e
}

// KindOf returns the Kind carried by err, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-safe message for err. Unclassified errors get
// a generic message so storage diagnostics never leak.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}
