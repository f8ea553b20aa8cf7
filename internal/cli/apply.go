package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cheztheme/internal/apply"
	appErrors "cheztheme/internal/errors"
)

func (a *app) newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <themeName>",
		Short: "Apply a theme",
		Long:  "Write the named theme into the chezmoi configuration, run chezmoi apply, and signal running terminals to reload. Presets take precedence over custom themes of the same name.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.setup(cmd)
			if err != nil {
				return err
			}
			return runApply(cmd, s.engine, args[0])
		},
	}
}

func runApply(cmd *cobra.Command, engine *apply.Engine, name string) error {
	result, err := engine.Apply(cmd.Context(), name)
	if result != nil {
		reportWarnings(cmd.ErrOrStderr(), result)
	}
	if err != nil {
		if result != nil && appErrors.IsCode(err, appErrors.CodeExternalCommandFailed) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Theme %s was saved to %s but dotfiles were not regenerated.\n", result.Theme, result.ConfigPath)
		}
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Theme applied.")
	return nil
}

func reportWarnings(w io.Writer, result *apply.Result) {
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}
