// Package cli implements the cheztheme command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"cheztheme/internal/apply"
	"cheztheme/internal/config"
	"cheztheme/internal/logging"
	"cheztheme/internal/reload"
	"cheztheme/internal/store"
	"cheztheme/internal/themes"
	"cheztheme/internal/ui"
)

// Deps holds the collaborators the commands use. Zero values select the
// production implementations.
type Deps struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Version VersionInfo

	// Home overrides the home directory used to resolve settings.
	Home string
	// Presets overrides the bundled preset themes.
	Presets fs.FS
	// Notifier builds the reload notifier from settings.
	Notifier func(*config.Settings) (reload.Notifier, error)
	// IsTerminal reports whether stdin and stdout are a terminal.
	IsTerminal func() bool
	// RunPicker runs the interactive picker until it exits.
	RunPicker func(*ui.Picker) error
}

type app struct {
	deps       Deps
	configFile string
	debug      bool
}

// session is the per-invocation wiring built from resolved settings.
type session struct {
	settings *config.Settings
	resolver *themes.Resolver
	store    *store.Store
	engine   *apply.Engine
}

// NewRootCmd builds the command tree.
func NewRootCmd(deps Deps) *cobra.Command {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Presets == nil {
		deps.Presets = themes.BuiltinPresets()
	}
	if deps.Notifier == nil {
		deps.Notifier = defaultNotifier
	}
	if deps.IsTerminal == nil {
		deps.IsTerminal = hasTTY
	}
	if deps.RunPicker == nil {
		deps.RunPicker = runPicker
	}
	a := &app{deps: deps}

	root := &cobra.Command{
		Use:           "cheztheme",
		Short:         "Switch base16 themes for chezmoi and kitty",
		Long:          "Select a base16 theme, write it into the chezmoi configuration, run chezmoi apply, and reload running kitty terminals.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(deps.Stdout)
	root.SetErr(deps.Stderr)
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "settings file (default ~/.config/cheztheme/config.yaml)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging to ~/.cheztheme/debug.log")

	root.AddCommand(
		a.newListCmd(),
		a.newCurrentCmd(),
		a.newApplyCmd(),
		a.newPickCmd(),
		a.newVersionCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, deps Deps) int {
	root := NewRootCmd(deps)
	root.SetArgs(args)
	defer logging.Close()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) setup(cmd *cobra.Command) (*session, error) {
	var opts []config.Option
	if a.deps.Home != "" {
		opts = append(opts, config.WithHome(a.deps.Home))
	}
	if a.configFile != "" {
		opts = append(opts, config.WithConfigFile(a.configFile))
	}
	if cmd.Flags().Changed("debug") {
		opts = append(opts, config.WithOverrides(map[string]any{config.KeyDebug: a.debug}))
	}
	settings, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}

	if err := logging.Init(logging.Options{
		Debug:   settings.Debug,
		Console: cmd.ErrOrStderr(),
		NoColor: !a.deps.IsTerminal(),
	}); err != nil {
		return nil, err
	}
	log := logging.Component("cli")
	log.Debug().
		Str("themes", settings.ThemesDir).
		Str("config", settings.ChezmoiConfig).
		Stringer("section", settings.Section).
		Str("settings", settings.ConfigFile).
		Msg("resolved settings")

	notifier, err := a.deps.Notifier(settings)
	if err != nil {
		return nil, err
	}

	env := settings.Environment()
	resolver := themes.NewResolver(env.ThemeDir, themes.WithPresets(a.deps.Presets))
	st := store.New(env.ConfigPath)
	return &session{
		settings: settings,
		resolver: resolver,
		store:    st,
		engine:   apply.New(resolver, st, notifier, apply.WithSection(env.Section)),
	}, nil
}

func defaultNotifier(s *config.Settings) (reload.Notifier, error) {
	return reload.NewClient(
		reload.WithCommand(s.Command, s.Args...),
		reload.WithProcess(s.Process),
		reload.WithSignal(s.Signal),
	)
}

func runPicker(p *ui.Picker) error {
	_, err := tea.NewProgram(p, tea.WithAltScreen()).Run()
	return err
}
