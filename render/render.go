//go:generate go run go.uber.org/mock/mockgen -source=render.go -destination=../mocks/mock_render.go -package=mocks

// Package render draws the message log as a two-column table.
package render

import (
	"errors"
	"html"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/gosuda/cbor-chat/chatlog"
)

// Header holds the column labels. The first column shows Message.Content but
// is labelled "message", as the chat server's own page labels it.
var Header = [2]string{"message", "author"}

// Renderer is a rendering surface for the message log.
type Renderer interface {
	// RenderFull clears the surface, writes the header and one row per message.
	RenderFull(msgs []chatlog.Message) error
	// RenderFrame clears the surface and writes only the header.
	RenderFrame() error
	// RenderAppend writes one row after the existing ones.
	RenderAppend(m chatlog.Message) error
}

// Multi fans every call out to each non-nil renderer.
func Multi(renderers ...Renderer) Renderer {
	return multi(lo.Filter(renderers, func(r Renderer, _ int) bool { return r != nil }))
}

type multi []Renderer

func (m multi) RenderFull(msgs []chatlog.Message) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RenderFull(msgs))
	}
	return errors.Join(errs...)
}

func (m multi) RenderFrame() error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RenderFrame())
	}
	return errors.Join(errs...)
}

func (m multi) RenderAppend(msg chatlog.Message) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RenderAppend(msg))
	}
	return errors.Join(errs...)
}

// Text returns s as display text. The chat server sends messages HTML-escaped
// (spaces included), so entities are decoded before the line is flattened.
func Text(s string) string {
	return cleanCell(html.UnescapeString(s))
}

// cleanCell removes control characters so a cell stays on one line.
func cleanCell(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			b.WriteRune(' ')
			continue
		}
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
