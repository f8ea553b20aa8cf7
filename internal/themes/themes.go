// Package themes discovers and loads base16 themes from the bundled presets
// and from the user's theme directory.
package themes

import (
	"fmt"
	"strings"

	"cheztheme/internal/palette"
)

// Origin tags where a theme came from.
type Origin int

const (
	// OriginPreset marks a theme bundled with the program.
	OriginPreset Origin = iota
	// OriginCustom marks a user-authored theme file.
	OriginCustom
)

// String returns the origin label.
func (o Origin) String() string {
	switch o {
	case OriginPreset:
		return "preset"
	case OriginCustom:
		return "custom"
	default:
		return fmt.Sprintf("origin(%d)", int(o))
	}
}

// MarshalText encodes the origin label.
func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// ParseOrigin converts a label back to an Origin.
func ParseOrigin(s string) (Origin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "preset":
		return OriginPreset, nil
	case "custom":
		return OriginCustom, nil
	default:
		return 0, fmt.Errorf("unknown theme origin %q", s)
	}
}

// Entry names one theme in the catalog.
type Entry struct {
	Name   string `json:"name"`
	Origin Origin `json:"type"`
}

// ID returns a stable identifier that stays unique across origins.
func (e Entry) ID() string {
	return e.Name + "-" + e.Origin.String()
}

// Theme is a resolved theme.
type Theme struct {
	Name        string
	Origin      Origin
	DisplayName string
	Author      string
	Variant     string
	Palette     palette.Palette
	Source      string // file path or "builtin"
}

// Entry returns the catalog entry for the theme.
func (t *Theme) Entry() Entry {
	return Entry{Name: t.Name, Origin: t.Origin}
}

// themeFile is the on-disk layout of a theme document.
type themeFile struct {
	System  string           `yaml:"system"`
	Name    string           `yaml:"name"`
	Author  string           `yaml:"author"`
	Variant string           `yaml:"variant"`
	Palette *palette.Palette `yaml:"palette"`
}
