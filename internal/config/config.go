// Package config resolves cheztheme settings from defaults, the user config
// file, CHEZTHEME_* environment variables, and command-line overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	appErrors "cheztheme/internal/errors"
	"cheztheme/internal/store"
)

const (
	KeyThemesDir      = "themes.dir"
	KeyChezmoiConfig  = "chezmoi.config"
	KeyChezmoiSection = "chezmoi.section"
	KeyChezmoiCommand = "chezmoi.command"
	KeyChezmoiArgs    = "chezmoi.args"
	KeyTerminalProc   = "terminal.process"
	KeyTerminalSignal = "terminal.signal"
	KeyDebug          = "debug"
)

const envPrefix = "CHEZTHEME"

// Defaults, relative to the home directory where they are paths.
const (
	DefaultThemesDir      = ".local/share/chezmoi/themes"
	DefaultChezmoiConfig  = ".config/chezmoi/chezmoi.toml"
	DefaultChezmoiSection = "data.cheztheme"
	DefaultUserConfig     = ".config/cheztheme/config.yaml"
)

// Settings is the resolved program configuration.
type Settings struct {
	Home          string
	ThemesDir     string
	ChezmoiConfig string
	Section       store.Path
	Command       string
	Args          []string
	Process       string
	Signal        string
	Debug         bool
	ConfigFile    string // the settings file consulted, present or not
}

// Environment is the explicit context passed to constructors so nothing
// reads $HOME mid-operation.
type Environment struct {
	Home       string
	ThemeDir   string
	ConfigPath string
	Section    store.Path
}

// Environment extracts the filesystem context from the settings.
func (s *Settings) Environment() Environment {
	return Environment{
		Home:       s.Home,
		ThemeDir:   s.ThemesDir,
		ConfigPath: s.ChezmoiConfig,
		Section:    append(store.Path(nil), s.Section...),
	}
}

type loadSettings struct {
	home           string
	configFile     string
	configExplicit bool
	overrides      map[string]any
}

// Option configures Load. Useful for tests to override paths.
type Option func(*loadSettings)

// WithHome overrides the home directory used for defaults and relative paths.
func WithHome(dir string) Option {
	return func(cfg *loadSettings) {
		cfg.home = dir
	}
}

// WithUserConfig overrides the default settings file. A missing file is
// ignored, matching the default location.
func WithUserConfig(path string) Option {
	return func(cfg *loadSettings) {
		cfg.configFile = path
	}
}

// WithConfigFile selects a settings file that must exist, as passed with
// --config.
func WithConfigFile(path string) Option {
	return func(cfg *loadSettings) {
		if strings.TrimSpace(path) == "" {
			return
		}
		cfg.configFile = path
		cfg.configExplicit = true
	}
}

// WithOverrides injects values typically coming from CLI flags. Overrides
// take precedence over every other source.
func WithOverrides(overrides map[string]any) Option {
	return func(cfg *loadSettings) {
		if cfg.overrides == nil {
			cfg.overrides = map[string]any{}
		}
		for k, v := range overrides {
			cfg.overrides[k] = v
		}
	}
}

// Load resolves settings using the precedence:
// defaults < settings file < environment variables < overrides.
func Load(opts ...Option) (*Settings, error) {
	ls := loadSettings{}
	for _, opt := range opts {
		opt(&ls)
	}

	home := strings.TrimSpace(ls.home)
	if home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return nil, appErrors.New(appErrors.CodeConfigurationError, "determine user home", err)
		}
		home = dir
	}

	configFile := strings.TrimSpace(ls.configFile)
	if configFile == "" {
		configFile = filepath.Join(home, DefaultUserConfig)
	}
	configFile = resolvePath(home, configFile)

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := mergeConfigFile(v, configFile, ls.configExplicit); err != nil {
		return nil, appErrors.New(appErrors.CodeConfigurationError, fmt.Sprintf("load settings: %v", err), err)
	}
	for k, val := range ls.overrides {
		v.Set(k, val)
	}

	section, err := store.ParsePath(v.GetString(KeyChezmoiSection))
	if err != nil {
		return nil, appErrors.New(appErrors.CodeConfigurationError, fmt.Sprintf("%s: %v", KeyChezmoiSection, err), err)
	}
	command := strings.TrimSpace(v.GetString(KeyChezmoiCommand))
	if command == "" {
		return nil, appErrors.New(appErrors.CodeConfigurationError, KeyChezmoiCommand+" must not be empty", nil)
	}

	return &Settings{
		Home:          home,
		ThemesDir:     resolvePath(home, v.GetString(KeyThemesDir)),
		ChezmoiConfig: resolvePath(home, v.GetString(KeyChezmoiConfig)),
		Section:       section,
		Command:       command,
		Args:          v.GetStringSlice(KeyChezmoiArgs),
		Process:       strings.TrimSpace(v.GetString(KeyTerminalProc)),
		Signal:        strings.TrimSpace(v.GetString(KeyTerminalSignal)),
		Debug:         v.GetBool(KeyDebug),
		ConfigFile:    configFile,
	}, nil
}

func mergeConfigFile(v *viper.Viper, path string, required bool) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		if required {
			return fmt.Errorf("config file %s not found", path)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}
	//nolint:gosec // G304: Config loader intentionally reads the user's settings file
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// resolvePath expands a leading ~ and anchors relative paths at home.
func resolvePath(home, path string) string {
	path = strings.TrimSpace(path)
	switch {
	case path == "~":
		return home
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:])
	case filepath.IsAbs(path):
		return filepath.Clean(path)
	default:
		return filepath.Join(home, path)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyThemesDir, DefaultThemesDir)
	v.SetDefault(KeyChezmoiConfig, DefaultChezmoiConfig)
	v.SetDefault(KeyChezmoiSection, DefaultChezmoiSection)
	v.SetDefault(KeyChezmoiCommand, "chezmoi")
	v.SetDefault(KeyChezmoiArgs, []string{"apply"})
	v.SetDefault(KeyTerminalProc, "kitty")
	v.SetDefault(KeyTerminalSignal, "SIGUSR1")
	v.SetDefault(KeyDebug, false)
}
