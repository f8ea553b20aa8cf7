package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// footerHint defines a key hint for the footer bar.
// These are intentionally shorter than the KeyMap help text.
type footerHint struct {
	key  string
	desc string
}

var pickerFooterHints = []footerHint{
	{"↑↓", "Navigate"},
	{"⏎", "Apply"},
	{"q", "Quit"},
}

// renderFooter renders the hints as pills, dropping trailing hints that do
// not fit in width. A width of zero means unlimited.
func renderFooter(styles Styles, hints []footerHint, width int) string {
	for len(hints) > 0 {
		line := joinHints(styles, hints)
		if width <= 0 || lipgloss.Width(line) <= width {
			return line
		}
		hints = hints[:len(hints)-1]
	}
	return ""
}

func joinHints(styles Styles, hints []footerHint) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, keyPill(styles, h.key, h.desc))
	}
	return strings.Join(parts, "  ")
}

// keyPill renders a single key hint as a pill with description.
func keyPill(styles Styles, key, desc string) string {
	return styles.KeyPill.Render(" "+key+" ") + " " + styles.KeyDesc.Render(desc)
}
