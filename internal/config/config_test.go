package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	appErrors "cheztheme/internal/errors"
	"cheztheme/internal/store"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()

	s, err := Load(WithHome(home))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if got, want := s.ThemesDir, filepath.Join(home, ".local/share/chezmoi/themes"); got != want {
		t.Fatalf("ThemesDir = %q, want %q", got, want)
	}
	if got, want := s.ChezmoiConfig, filepath.Join(home, ".config/chezmoi/chezmoi.toml"); got != want {
		t.Fatalf("ChezmoiConfig = %q, want %q", got, want)
	}
	if !reflect.DeepEqual(s.Section, store.Path{"data", "cheztheme"}) {
		t.Fatalf("Section = %v", s.Section)
	}
	if s.Command != "chezmoi" || !reflect.DeepEqual(s.Args, []string{"apply"}) {
		t.Fatalf("command = %q %v", s.Command, s.Args)
	}
	if s.Process != "kitty" || s.Signal != "SIGUSR1" {
		t.Fatalf("terminal = %q/%q", s.Process, s.Signal)
	}
	if s.Debug {
		t.Fatal("expected debug to default to false")
	}
	if got, want := s.ConfigFile, filepath.Join(home, ".config/cheztheme/config.yaml"); got != want {
		t.Fatalf("ConfigFile = %q, want %q", got, want)
	}
}

func TestUserConfigOverridesDefaults(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, ".config", "cheztheme", "config.yaml"), `
themes:
  dir: ~/themes
chezmoi:
  config: /etc/chezmoi.toml
  section: data.colors
  args: [apply, --force]
terminal:
  signal: SIGUSR2
`)

	s, err := Load(WithHome(home))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got, want := s.ThemesDir, filepath.Join(home, "themes"); got != want {
		t.Fatalf("ThemesDir = %q, want %q", got, want)
	}
	if s.ChezmoiConfig != "/etc/chezmoi.toml" {
		t.Fatalf("ChezmoiConfig = %q", s.ChezmoiConfig)
	}
	if !reflect.DeepEqual(s.Section, store.Path{"data", "colors"}) {
		t.Fatalf("Section = %v", s.Section)
	}
	if !reflect.DeepEqual(s.Args, []string{"apply", "--force"}) {
		t.Fatalf("Args = %v", s.Args)
	}
	if s.Signal != "SIGUSR2" {
		t.Fatalf("Signal = %q", s.Signal)
	}
	if s.Process != "kitty" {
		t.Fatalf("expected unset keys to keep defaults, got process %q", s.Process)
	}
}

func TestEnvironmentAndOverridesPrecedence(t *testing.T) {
	home := t.TempDir()
	cfg := filepath.Join(home, "settings.yaml")
	writeFile(t, cfg, `
themes:
  dir: from-file
terminal:
  process: alacritty
debug: false
`)

	t.Setenv("CHEZTHEME_THEMES_DIR", "from-env")
	t.Setenv("CHEZTHEME_DEBUG", "true")

	s, err := Load(WithHome(home), WithConfigFile(cfg))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got, want := s.ThemesDir, filepath.Join(home, "from-env"); got != want {
		t.Fatalf("expected env to override file, got %q want %q", got, want)
	}
	if s.Process != "alacritty" {
		t.Fatalf("expected file value for process, got %q", s.Process)
	}
	if !s.Debug {
		t.Fatal("expected CHEZTHEME_DEBUG to enable debug")
	}

	s, err = Load(WithHome(home), WithConfigFile(cfg), WithOverrides(map[string]any{KeyDebug: false}))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.Debug {
		t.Fatal("expected override to win over environment")
	}
}

func TestExplicitConfigFileMustExist(t *testing.T) {
	home := t.TempDir()
	_, err := Load(WithHome(home), WithConfigFile(filepath.Join(home, "missing.yaml")))
	if !appErrors.IsCode(err, appErrors.CodeConfigurationError) {
		t.Fatalf("expected configuration_error, got %v", err)
	}

	if _, err := Load(WithHome(home), WithUserConfig(filepath.Join(home, "missing.yaml"))); err != nil {
		t.Fatalf("missing default config should be ignored, got %v", err)
	}
}

func TestInvalidSettings(t *testing.T) {
	tests := map[string]string{
		"bad yaml":      "themes: [\n",
		"empty section": "chezmoi:\n  section: \"data..x\"\n",
		"empty command": "chezmoi:\n  command: \"  \"\n",
	}
	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			home := t.TempDir()
			cfg := filepath.Join(home, "settings.yaml")
			writeFile(t, cfg, contents)
			_, err := Load(WithHome(home), WithConfigFile(cfg))
			if !appErrors.IsCode(err, appErrors.CodeConfigurationError) {
				t.Fatalf("expected configuration_error, got %v", err)
			}
		})
	}
}

func TestConfigPathIsDirectory(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, "cfg")
	mustMkdir(t, dir)
	if _, err := Load(WithHome(home), WithUserConfig(dir)); err == nil {
		t.Fatal("expected error for directory config path")
	}
}

func TestEmptyConfigFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	cfg := filepath.Join(home, "settings.yaml")
	writeFile(t, cfg, "\n\n")
	s, err := Load(WithHome(home), WithConfigFile(cfg))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.Command != "chezmoi" {
		t.Fatalf("Command = %q", s.Command)
	}
}

func TestEnvironment(t *testing.T) {
	home := t.TempDir()
	s, err := Load(WithHome(home))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	env := s.Environment()
	if env.Home != home || env.ThemeDir != s.ThemesDir || env.ConfigPath != s.ChezmoiConfig {
		t.Fatalf("unexpected environment %+v", env)
	}
	env.Section[0] = "mutated"
	if s.Section[0] != "data" {
		t.Fatal("Environment must copy the section path")
	}
}

func TestResolvePath(t *testing.T) {
	home := "/home/u"
	cases := map[string]string{
		"~":              "/home/u",
		"~/themes":       "/home/u/themes",
		"rel/dir":        "/home/u/rel/dir",
		"/abs/../x.toml": "/x.toml",
	}
	for in, want := range cases {
		if got := resolvePath(home, in); got != want {
			t.Fatalf("resolvePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func mustMkdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	mustMkdir(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}
