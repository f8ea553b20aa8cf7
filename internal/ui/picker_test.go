package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"cheztheme/internal/themes"
)

func loadTestTheme(e themes.Entry) (*themes.Theme, error) {
	if e.Name == "broken" {
		return nil, errors.New("broken.yaml: palette is missing")
	}
	return &themes.Theme{Name: e.Name, Origin: e.Origin, Palette: testPalette()}, nil
}

func newTestPicker(entries []themes.Entry, current string) *Picker {
	return NewPicker(entries, current, loadTestTheme, newTestPainter(termenv.Ascii))
}

func send(p *Picker, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = p.Update(msg)
	}
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestPickerStartsOnCurrentTheme(t *testing.T) {
	p := newTestPicker(catalog(), "gruvbox")
	got, ok := p.Cursor()
	if !ok || got != (themes.Entry{Name: "gruvbox", Origin: themes.OriginPreset}) {
		t.Fatalf("cursor = %+v, want gruvbox preset", got)
	}
}

func TestPickerNavigationClamps(t *testing.T) {
	p := newTestPicker(catalog(), "")

	send(p, runeKey('k'))
	if got, _ := p.Cursor(); got.Name != "dracula" {
		t.Fatalf("moving up from the top should stay put, got %s", got.Name)
	}
	send(p, runeKey('j'), runeKey('j'))
	if got, _ := p.Cursor(); got != (themes.Entry{Name: "gruvbox", Origin: themes.OriginCustom}) {
		t.Fatalf("cursor = %+v, want gruvbox custom", got)
	}
	send(p, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if got, _ := p.Cursor(); got.Name != "nord" {
		t.Fatalf("moving down past the end should clamp, got %s", got.Name)
	}
	send(p, runeKey('g'))
	if got, _ := p.Cursor(); got.Name != "dracula" {
		t.Fatalf("home should jump to top, got %s", got.Name)
	}
	send(p, runeKey('G'))
	if got, _ := p.Cursor(); got.Name != "nord" {
		t.Fatalf("end should jump to bottom, got %s", got.Name)
	}
}

func TestPickerEnterSelects(t *testing.T) {
	p := newTestPicker(catalog(), "")
	if _, ok := p.Selected(); ok {
		t.Fatal("nothing should be selected before enter")
	}
	cmd := send(p, runeKey('j'), tea.KeyMsg{Type: tea.KeyEnter})
	if !isQuit(cmd) {
		t.Fatal("expected enter to quit the program")
	}
	got, ok := p.Selected()
	if !ok || got.Name != "gruvbox" {
		t.Fatalf("Selected = %+v, %v", got, ok)
	}
}

func TestPickerQuitWithoutSelection(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		p := newTestPicker(catalog(), "")
		if !isQuit(send(p, msg)) {
			t.Fatalf("expected %q to quit", msg.String())
		}
		if _, ok := p.Selected(); ok {
			t.Fatalf("%q must not select a theme", msg.String())
		}
	}
}

func TestPickerViewShowsCatalogAndPreview(t *testing.T) {
	p := newTestPicker(catalog(), "nord")
	view := p.View()

	for _, want := range []string{"Pick a theme", "  dracula", "gruvbox (custom)", "> ** nord", strings.Repeat(swatchBlock, 16), "Apply"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestPickerViewShowsLoadErrors(t *testing.T) {
	p := newTestPicker([]themes.Entry{{Name: "broken", Origin: themes.OriginCustom}}, "")
	if view := p.View(); !strings.Contains(view, "palette is missing") {
		t.Fatalf("expected load error in view:\n%s", view)
	}
}

func TestPickerEmptyCatalog(t *testing.T) {
	p := newTestPicker(nil, "")
	if isQuit(send(p, tea.KeyMsg{Type: tea.KeyEnter})) {
		t.Fatal("enter on an empty catalog should do nothing")
	}
	if _, ok := p.Selected(); ok {
		t.Fatal("empty catalog cannot select")
	}
	if view := p.View(); !strings.Contains(view, "No themes found.") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestPickerScrollsWithinWindow(t *testing.T) {
	var entries []themes.Entry
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		entries = append(entries, themes.Entry{Name: "theme-" + name, Origin: themes.OriginPreset})
	}
	p := newTestPicker(entries, "")
	send(p, tea.WindowSizeMsg{Width: 80, Height: chromeLines + 4})

	if p.pageSize() != 4 {
		t.Fatalf("pageSize = %d, want 4", p.pageSize())
	}
	send(p, runeKey('G'))
	view := p.View()
	if strings.Contains(view, "theme-a") {
		t.Fatalf("top entries should scroll out of view:\n%s", view)
	}
	if !strings.Contains(view, "> theme-j") {
		t.Fatalf("cursor row should be visible:\n%s", view)
	}

	send(p, tea.KeyMsg{Type: tea.KeyPgUp})
	if got, _ := p.Cursor(); got.Name != "theme-f" {
		t.Fatalf("page up moved to %s, want theme-f", got.Name)
	}
}

func TestRenderFooterDropsHintsToFit(t *testing.T) {
	styles := newTestPainter(termenv.Ascii).Styles()
	full := renderFooter(styles, pickerFooterHints, 0)
	if !strings.Contains(full, "Quit") {
		t.Fatalf("unlimited footer should include every hint, got %q", full)
	}
	narrow := renderFooter(styles, pickerFooterHints, 15)
	if strings.Contains(narrow, "Quit") || !strings.Contains(narrow, "Navigate") {
		t.Fatalf("narrow footer = %q", narrow)
	}
}
