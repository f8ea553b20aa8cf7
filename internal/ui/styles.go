package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	cYellow     = lipgloss.Color("3")
	cMagenta    = lipgloss.Color("5")
	cPurple     = lipgloss.Color("99")
	cGray       = lipgloss.Color("240")
	cBrightGray = lipgloss.Color("246")
	cWhite      = lipgloss.Color("255")
	cHighlight  = lipgloss.Color("57")
	cRed        = lipgloss.Color("203")
)

// Styles holds the lipgloss styles bound to one renderer.
type Styles struct {
	Current  lipgloss.Style
	Preset   lipgloss.Style
	Custom   lipgloss.Style
	Tag      lipgloss.Style
	Header   lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	KeyPill  lipgloss.Style
	KeyDesc  lipgloss.Style
}

// NewStyles builds the style set for r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Current: r.NewStyle().Foreground(cYellow),
		Preset:  r.NewStyle().Foreground(cMagenta),
		Custom:  r.NewStyle(),
		Tag:     r.NewStyle().Foreground(cGray),
		Header: r.NewStyle().
			Foreground(cWhite).
			Background(cPurple).
			Bold(true).
			Padding(0, 1),
		Selected: r.NewStyle().
			Background(cHighlight).
			Foreground(cWhite).
			Bold(true),
		Muted: r.NewStyle().Foreground(cBrightGray),
		Error: r.NewStyle().Foreground(cRed),
		KeyPill: r.NewStyle().
			Background(cPurple).
			Foreground(cWhite).
			Bold(true),
		KeyDesc: r.NewStyle().Foreground(cBrightGray),
	}
}

// NewRenderer returns a renderer for w. With forceColor set, output is true
// color even when w is not a terminal.
func NewRenderer(w io.Writer, forceColor bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if forceColor {
		r.SetColorProfile(termenv.TrueColor)
	}
	return r
}
