package render

import (
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/gosuda/cbor-chat/chatlog"
)

// HTML keeps the rendered table as markup for the view server.
// Cells are stripped of all HTML before insertion.
type HTML struct {
	mu     sync.RWMutex
	rows   []string
	policy *bluemonday.Policy
}

// NewHTML returns an empty HTML surface.
func NewHTML() *HTML {
	return &HTML{policy: bluemonday.StrictPolicy()}
}

func (h *HTML) RenderFull(msgs []chatlog.Message) error {
	rows := make([]string, 0, len(msgs)+1)
	rows = append(rows, headerRow())
	for _, m := range msgs {
		rows = append(rows, h.row(m))
	}
	h.mu.Lock()
	h.rows = rows
	h.mu.Unlock()
	return nil
}

func (h *HTML) RenderFrame() error {
	h.mu.Lock()
	h.rows = []string{headerRow()}
	h.mu.Unlock()
	return nil
}

func (h *HTML) RenderAppend(m chatlog.Message) error {
	row := h.row(m)
	h.mu.Lock()
	h.rows = append(h.rows, row)
	h.mu.Unlock()
	return nil
}

// Markup returns the current table.
func (h *HTML) Markup() template.HTML {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var b strings.Builder
	b.WriteString(`<table class="chatMessages">`)
	for _, r := range h.rows {
		b.WriteString(r)
	}
	b.WriteString(`</table>`)
	return template.HTML(b.String())
}

func (h *HTML) row(m chatlog.Message) string {
	return "<tr><td>" + h.sanitize(m.Content) + "</td><td>" + h.sanitize(m.Author) + "</td></tr>"
}

func (h *HTML) sanitize(s string) string {
	// Decoded first so encoded tags are caught by the policy.
	return h.policy.Sanitize(Text(s))
}

func headerRow() string {
	return "<tr><th>" + Header[0] + "</th><th>" + Header[1] + "</th></tr>"
}
