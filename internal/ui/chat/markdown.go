// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer renders answers with glamour. Building a TermRenderer is
// expensive, so one is kept per style and wrap width.
type markdownRenderer struct {
	mu       sync.Mutex
	style    string
	width    int
	renderer *glamour.TermRenderer
}

func newMarkdownRenderer() *markdownRenderer {
	return &markdownRenderer{}
}

// Render returns content as styled terminal text, or content unchanged when
// glamour fails.
func (r *markdownRenderer) Render(content, style string, width int) string {
	if width < 20 {
		width = 20
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.renderer == nil || r.style != style || r.width != width {
		tr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content
		}
		r.renderer, r.style, r.width = tr, style, width
	}

	out, err := r.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
