// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package readtime estimates how long a post takes to read.
package readtime

import "strings"

// WordsPerMinute is the reading speed the estimate assumes.
const WordsPerMinute = 200

// Estimate returns the reading time of content in whole minutes, rounded up.
// Words are whitespace-delimited tokens. Content without words yields 0;
// anything else yields at least 1.
func Estimate(content string) int {
	words := len(strings.Fields(content))
	return (words + WordsPerMinute - 1) / WordsPerMinute
}
