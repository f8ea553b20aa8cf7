package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	appErrors "cheztheme/internal/errors"
	"cheztheme/internal/themes"
	"cheztheme/internal/ui"
)

func (a *app) newPickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Choose a theme interactively",
		Long:  "Browse the catalog with palette previews and apply the selected theme.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.deps.IsTerminal() {
				return appErrors.New(appErrors.CodeConfigurationError,
					"pick requires an interactive terminal; use `cheztheme apply <themeName>` instead", nil)
			}
			s, err := a.setup(cmd)
			if err != nil {
				return err
			}
			entries, err := s.resolver.Catalog()
			if err != nil {
				return err
			}

			picker := ui.NewPicker(entries, s.currentName(), s.resolver.LoadEntry,
				ui.NewPainter(ui.NewRenderer(cmd.OutOrStdout(), false)))
			if err := a.deps.RunPicker(picker); err != nil {
				return fmt.Errorf("run picker: %w", err)
			}
			entry, ok := picker.Selected()
			if !ok {
				return nil
			}
			if entry.Origin == themes.OriginCustom && s.shadowed(entry.Name) {
				fmt.Fprintf(cmd.ErrOrStderr(),
					"warning: custom theme %s is shadowed by the preset of the same name; applying the preset\n", entry.Name)
			}
			return runApply(cmd, s.engine, entry.Name)
		},
	}
}

// shadowed reports whether a preset named name exists.
func (s *session) shadowed(name string) bool {
	_, err := s.resolver.LoadEntry(themes.Entry{Name: name, Origin: themes.OriginPreset})
	return !appErrors.IsCode(err, appErrors.CodeNotFound)
}
