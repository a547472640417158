// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, whitespace, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// separators collapses runs of whitespace and hyphens into one hyphen.
	separators = regexp.MustCompile(`[\s-]+`)
	// valid is the shape every stored slug must have.
	valid = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// now is swapped in tests to make fallback slugs deterministic.
var now = time.Now

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// Derive returns the slug for a new entity named name. Names containing any
// non-ASCII rune (CJK titles, emoji, accented letters) or names that slug to
// nothing get "<prefix>-<base36 unix millis>" instead.
//
// The result is not checked against storage; callers own uniqueness.
func Derive(prefix, name string) string {
	if isASCII(name) {
		if s := Generate(name); s != "" {
			return s
		}
	}
	return Fallback(prefix)
}

// Fallback returns a timestamp slug with the given prefix. Two calls within
// the same millisecond return the same value.
func Fallback(prefix string) string {
	return prefix + "-" + strconv.FormatInt(now().UnixMilli(), 36)
}

// Valid reports whether s is acceptable as an explicitly supplied slug.
func Valid(s string) bool {
	return valid.MatchString(s)
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
