// Package ui renders themes for the terminal: palette swatches, catalog
// lines, and the interactive picker.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cheztheme/internal/palette"
	"cheztheme/internal/themes"
)

// swatchBlock is the cell painted for each slot.
const swatchBlock = "   "

// Painter renders palettes and catalog entries with one renderer.
type Painter struct {
	r      *lipgloss.Renderer
	styles Styles
}

// NewPainter creates a Painter. A nil renderer uses the lipgloss default.
func NewPainter(r *lipgloss.Renderer) *Painter {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Painter{r: r, styles: NewStyles(r)}
}

// Styles exposes the painter's style set.
func (p *Painter) Styles() Styles {
	return p.styles
}

// Swatches renders the 16 slots as colored blocks in display order. Every
// slot is parsed before anything is drawn, so a malformed value yields an
// error and no partial output.
func (p *Painter) Swatches(pal palette.Palette) (string, error) {
	colors, err := pal.Colors()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, c := range colors {
		b.WriteString(p.r.NewStyle().Background(lipgloss.Color(c.Hex())).Render(swatchBlock))
	}
	return b.String(), nil
}

// CatalogLines renders one line per entry. The current theme is prefixed with
// "** " in yellow, presets are magenta, and custom themes are unstyled. Names
// present under both origins carry an origin tag so the two can be told apart.
func (p *Painter) CatalogLines(entries []themes.Entry, current string) []string {
	origins := make(map[string]int, len(entries))
	for _, e := range entries {
		origins[e.Name]++
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, p.CatalogLine(e, e.Name == current, origins[e.Name] > 1))
	}
	return lines
}

// CatalogLine renders a single catalog entry.
func (p *Painter) CatalogLine(e themes.Entry, current, tagged bool) string {
	var line string
	switch {
	case current:
		line = p.styles.Current.Render("** " + e.Name)
	case e.Origin == themes.OriginPreset:
		line = p.styles.Preset.Render(e.Name)
	default:
		line = p.styles.Custom.Render(e.Name)
	}
	if tagged {
		line += " " + p.styles.Tag.Render("("+e.Origin.String()+")")
	}
	return line
}
