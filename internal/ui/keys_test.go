package ui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	t.Run("NavigationBindings", func(t *testing.T) {
		if !key.Matches(tea.KeyMsg{Type: tea.KeyUp}, km.Up) {
			t.Error("expected up arrow to match Up binding")
		}
		if !key.Matches(runeKey('k'), km.Up) {
			t.Error("expected k to match Up binding")
		}
		if !key.Matches(tea.KeyMsg{Type: tea.KeyDown}, km.Down) {
			t.Error("expected down arrow to match Down binding")
		}
		if !key.Matches(runeKey('j'), km.Down) {
			t.Error("expected j to match Down binding")
		}
		if !key.Matches(runeKey('g'), km.Home) || !key.Matches(runeKey('G'), km.End) {
			t.Error("expected g/G to jump to top/bottom")
		}
	})

	t.Run("ActionBindings", func(t *testing.T) {
		if !key.Matches(tea.KeyMsg{Type: tea.KeyEnter}, km.Enter) {
			t.Error("expected enter to match Enter binding")
		}
		for _, msg := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
			if !key.Matches(msg, km.Quit) {
				t.Errorf("expected %q to match Quit binding", msg.String())
			}
		}
	})
}

func TestKeyBindingsHaveHelpText(t *testing.T) {
	km := DefaultKeyMap()
	bindings := map[string]key.Binding{
		"Up": km.Up, "Down": km.Down, "Home": km.Home, "End": km.End,
		"PageUp": km.PageUp, "PageDown": km.PageDown, "Enter": km.Enter, "Quit": km.Quit,
	}
	for name, b := range bindings {
		if b.Help().Key == "" || b.Help().Desc == "" {
			t.Errorf("%s binding is missing help text", name)
		}
	}
}

func TestRelatedBindingsShareHelpText(t *testing.T) {
	km := DefaultKeyMap()
	if km.Up.Help() != km.Down.Help() {
		t.Errorf("Up/Down help differ: %v vs %v", km.Up.Help(), km.Down.Help())
	}
}
