package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"cheztheme/internal/themes"
	"cheztheme/internal/ui"
)

type currentJSON struct {
	Name    string            `json:"name"`
	Type    *themes.Origin    `json:"type,omitempty"`
	Palette map[string]string `json:"palette"`
}

func (a *app) newCurrentCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show the selected theme",
		Long:  "Print the theme name stored in the chezmoi configuration followed by its palette.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.setup(cmd)
			if err != nil {
				return err
			}
			name, err := s.engine.Current()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if asJSON {
				persisted, err := s.engine.CurrentPalette()
				if err != nil {
					return err
				}
				result := currentJSON{Name: name, Palette: persisted.Map()}
				if theme, err := s.resolver.Load(name); err == nil {
					result.Type = &theme.Origin
				}
				return writeJSON(out, result)
			}

			theme, err := s.resolver.Load(name)
			if err != nil {
				return err
			}
			swatches, err := ui.NewPainter(ui.NewRenderer(out, true)).Swatches(theme.Palette)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			fmt.Fprintln(out, name)
			fmt.Fprintln(out, swatches)
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the persisted selection as JSON")
	return cmd
}
