package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"cheztheme/internal/themes"
	"cheztheme/internal/ui"
)

// themeJSON is the machine-readable form of one catalog entry.
type themeJSON struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Type        themes.Origin     `json:"type"`
	DisplayName string            `json:"displayName,omitempty"`
	Author      string            `json:"author,omitempty"`
	Variant     string            `json:"variant,omitempty"`
	Current     bool              `json:"current"`
	Palette     map[string]string `json:"palette,omitempty"`
	Error       string            `json:"error,omitempty"`
}

func (a *app) newListCmd() *cobra.Command {
	var color, asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List preset and custom themes",
		Long:  "List every bundled preset and every theme file in the user theme directory. The current theme is marked with **.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.setup(cmd)
			if err != nil {
				return err
			}
			entries, err := s.resolver.Catalog()
			if err != nil {
				return err
			}
			current := s.currentName()

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), s.catalogJSON(entries, current))
			}

			out := cmd.OutOrStdout()
			painter := ui.NewPainter(ui.NewRenderer(out, color))
			lines := painter.CatalogLines(entries, current)
			for i, entry := range entries {
				fmt.Fprintln(out, lines[i])
				if !color {
					continue
				}
				theme, err := s.resolver.LoadEntry(entry)
				if err != nil {
					return err
				}
				swatches, err := painter.Swatches(theme.Palette)
				if err != nil {
					return fmt.Errorf("%s: %w", entry.Name, err)
				}
				fmt.Fprintln(out, swatches)
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&color, "color", "c", false, "show a palette swatch under each theme")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")
	return cmd
}

// currentName returns the persisted theme name, or "" when it cannot be read.
// Listing still works on a fresh machine without a selection.
func (s *session) currentName() string {
	name, err := s.engine.Current()
	if err != nil {
		log := loggerFor("list")
		log.Debug().Err(err).Msg("no current theme")
		return ""
	}
	return name
}

func (s *session) catalogJSON(entries []themes.Entry, current string) []themeJSON {
	out := make([]themeJSON, 0, len(entries))
	for _, entry := range entries {
		item := themeJSON{
			ID:      entry.ID(),
			Name:    entry.Name,
			Type:    entry.Origin,
			Current: entry.Name == current,
		}
		theme, err := s.resolver.LoadEntry(entry)
		if err != nil {
			item.Error = err.Error()
		} else {
			item.DisplayName = theme.DisplayName
			item.Author = theme.Author
			item.Variant = theme.Variant
			item.Palette = theme.Palette.Map()
		}
		out = append(out, item)
	}
	return out
}
