// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts Markdown source text into HTML using goldmark.
// Post bodies get the full GFM feature set with syntax highlighting;
// comments get a reduced dialect. Both outputs are sanitized with
// bluemonday before they leave the server.
package markdown

import (
	"bytes"
	"regexp"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// postMD renders post bodies, reused across calls.
var postMD = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // GitHub-Flavored Markdown: tables, strikethrough, autolinks, task lists
		extension.Typographer, // Smart quotes and dashes
		highlighting.NewHighlighting( // Syntax highlighting for fenced code blocks
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(), // Auto-generate heading IDs for anchors
	),
)

// commentMD renders comments: links and strikethrough only, raw HTML dropped.
var commentMD = goldmark.New(
	goldmark.WithExtensions(
		extension.Linkify,
		extension.Strikethrough,
	),
)

// chromaClass matches the class names emitted by the highlighter.
var chromaClass = regexp.MustCompile(`^[a-z0-9 -]+$`)

var (
	postPolicy    = newPostPolicy()
	commentPolicy = newCommentPolicy()
)

func newPostPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(chromaClass).OnElements("pre", "code", "span")
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	return p
}

func newCommentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "em", "strong", "del", "code", "pre", "blockquote", "ul", "ol", "li")
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// ToHTML converts a post body into sanitized HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := postMD.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return postPolicy.Sanitize(buf.String()), nil
}

// CommentHTML converts a comment into sanitized HTML. A conversion error
// falls back to the escaped source.
func CommentHTML(source string) string {
	var buf bytes.Buffer
	if err := commentMD.Convert([]byte(source), &buf); err != nil {
		return commentPolicy.Sanitize(source)
	}
	return commentPolicy.Sanitize(buf.String())
}
