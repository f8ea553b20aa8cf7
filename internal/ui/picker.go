package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"cheztheme/internal/themes"
)

// LoadFunc loads the theme behind a catalog entry for previewing.
type LoadFunc func(themes.Entry) (*themes.Theme, error)

// chromeLines is the number of lines View spends outside the list.
const chromeLines = 7

// Picker is a bubbletea model for choosing a theme from the catalog.
type Picker struct {
	entries []themes.Entry
	lines   []string
	current string
	load    LoadFunc
	painter *Painter
	keys    KeyMap

	cursor   int
	offset   int
	width    int
	height   int
	chosen   bool
	previews map[string]string
}

// NewPicker creates a picker over entries. The cursor starts on the current
// theme when it is listed.
func NewPicker(entries []themes.Entry, current string, load LoadFunc, painter *Painter) *Picker {
	if painter == nil {
		painter = NewPainter(nil)
	}
	p := &Picker{
		entries:  entries,
		lines:    painter.CatalogLines(entries, current),
		current:  current,
		load:     load,
		painter:  painter,
		keys:     DefaultKeyMap(),
		previews: map[string]string{},
	}
	for i, e := range entries {
		if e.Name == current {
			p.cursor = i
			break
		}
	}
	return p
}

// Init implements tea.Model.
func (p *Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
		p.clampOffset()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Quit):
			return p, tea.Quit
		case key.Matches(msg, p.keys.Enter):
			if len(p.entries) > 0 {
				p.chosen = true
				return p, tea.Quit
			}
		case key.Matches(msg, p.keys.Up):
			p.move(-1)
		case key.Matches(msg, p.keys.Down):
			p.move(1)
		case key.Matches(msg, p.keys.PageUp):
			p.move(-p.pageSize())
		case key.Matches(msg, p.keys.PageDown):
			p.move(p.pageSize())
		case key.Matches(msg, p.keys.Home):
			p.move(-len(p.entries))
		case key.Matches(msg, p.keys.End):
			p.move(len(p.entries))
		}
	}
	return p, nil
}

func (p *Picker) move(delta int) {
	if len(p.entries) == 0 {
		return
	}
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= len(p.entries) {
		p.cursor = len(p.entries) - 1
	}
	p.clampOffset()
}

// pageSize is the number of list rows visible at once.
func (p *Picker) pageSize() int {
	if p.height <= 0 {
		return len(p.entries)
	}
	if rows := p.height - chromeLines; rows > 3 {
		return rows
	}
	return 3
}

func (p *Picker) clampOffset() {
	size := p.pageSize()
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+size {
		p.offset = p.cursor - size + 1
	}
	if p.offset < 0 {
		p.offset = 0
	}
}

// Selected returns the chosen entry once the user confirmed a selection.
func (p *Picker) Selected() (themes.Entry, bool) {
	if !p.chosen || len(p.entries) == 0 {
		return themes.Entry{}, false
	}
	return p.entries[p.cursor], true
}

// Cursor returns the highlighted entry.
func (p *Picker) Cursor() (themes.Entry, bool) {
	if len(p.entries) == 0 {
		return themes.Entry{}, false
	}
	return p.entries[p.cursor], true
}

// View implements tea.Model.
func (p *Picker) View() string {
	styles := p.painter.Styles()
	var b strings.Builder
	b.WriteString(styles.Header.Render("Pick a theme"))
	b.WriteString("\n\n")

	if len(p.entries) == 0 {
		b.WriteString(styles.Muted.Render("No themes found."))
		b.WriteString("\n\n")
		b.WriteString(renderFooter(styles, pickerFooterHints[2:], p.width))
		return b.String()
	}

	end := p.offset + p.pageSize()
	if end > len(p.entries) {
		end = len(p.entries)
	}
	for i := p.offset; i < end; i++ {
		if i == p.cursor {
			b.WriteString(styles.Selected.Render("> ") + p.lines[i])
		} else {
			b.WriteString("  " + p.lines[i])
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.preview(p.entries[p.cursor]))
	b.WriteString("\n\n")
	b.WriteString(renderFooter(styles, pickerFooterHints, p.width))
	return b.String()
}

func (p *Picker) preview(e themes.Entry) string {
	if cached, ok := p.previews[e.ID()]; ok {
		return cached
	}
	out := p.renderPreview(e)
	p.previews[e.ID()] = out
	return out
}

func (p *Picker) renderPreview(e themes.Entry) string {
	if p.load == nil {
		return ""
	}
	styles := p.painter.Styles()
	theme, err := p.load(e)
	if err != nil {
		return styles.Error.Render(err.Error())
	}
	swatches, err := p.painter.Swatches(theme.Palette)
	if err != nil {
		return styles.Error.Render(err.Error())
	}
	return swatches
}
