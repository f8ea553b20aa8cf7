// Package apply writes a selected theme into the chezmoi configuration and
// propagates it to dotfiles and running terminals.
package apply

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	appErrors "cheztheme/internal/errors"
	"cheztheme/internal/logging"
	"cheztheme/internal/palette"
	"cheztheme/internal/reload"
	"cheztheme/internal/store"
	"cheztheme/internal/themes"
)

// ThemeNameKey is the field holding the selected theme name.
const ThemeNameKey = "themeName"

// DefaultSection is where the selection lives in the chezmoi document.
var DefaultSection = store.Path{"data", "cheztheme"}

// ThemeSource resolves a theme by name.
type ThemeSource interface {
	Load(name string) (*themes.Theme, error)
}

// ConfigStore persists the chezmoi document.
type ConfigStore interface {
	Path() string
	Load() (*store.Document, error)
	Save(doc *store.Document) error
}

// Result describes a completed apply.
type Result struct {
	Theme      string        `json:"theme"`
	Origin     themes.Origin `json:"type"`
	ConfigPath string        `json:"configPath"`
	Signaled   []int         `json:"signaled"`
	Warnings   []string      `json:"warnings,omitempty"`
}

// Engine applies themes. It keeps no state between calls.
type Engine struct {
	themes   ThemeSource
	config   ConfigStore
	notifier reload.Notifier
	section  store.Path
	logger   zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSection overrides the document section holding the selection.
func WithSection(section store.Path) Option {
	return func(e *Engine) {
		if len(section) > 0 {
			e.section = append(store.Path(nil), section...)
		}
	}
}

// New constructs an Engine.
func New(src ThemeSource, cfg ConfigStore, notifier reload.Notifier, opts ...Option) *Engine {
	e := &Engine{
		themes:   src,
		config:   cfg,
		notifier: notifier,
		section:  DefaultSection,
		logger:   logging.Component("apply"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Section returns the document section the engine reads and writes.
func (e *Engine) Section() store.Path {
	return e.section
}

// Apply selects the named theme.
//
// Resolution, load, and save failures abort before any later side effect.
// When the dotfiles apply command fails the configuration has already been
// written: Apply still signals terminals and returns both the Result and an
// external_command_failed error. Terminal discovery and signal failures only
// add warnings.
func (e *Engine) Apply(ctx context.Context, name string) (*Result, error) {
	theme, err := e.themes.Load(name)
	if err != nil {
		return nil, err
	}
	log := e.logger.With().Str("theme", theme.Name).Stringer("origin", theme.Origin).Logger()
	log.Debug().Str("source", theme.Source).Msg("resolved theme")

	doc, err := e.config.Load()
	if err != nil {
		return nil, err
	}
	if err := e.write(doc, theme); err != nil {
		return nil, err
	}
	if err := e.config.Save(doc); err != nil {
		return nil, err
	}
	log.Info().Str("config", e.config.Path()).Msg("theme written")

	result := &Result{
		Theme:      theme.Name,
		Origin:     theme.Origin,
		ConfigPath: e.config.Path(),
		Signaled:   []int{},
	}

	var applyErr error
	if err := e.notifier.ApplyDotfiles(ctx); err != nil {
		log.Debug().Err(err).Msg("dotfiles apply failed")
		applyErr = appErrors.New(appErrors.CodeExternalCommandFailed,
			fmt.Sprintf("theme config updated but external apply failed: %v", err), err)
	}

	e.reloadTerminals(ctx, result, log)
	return result, applyErr
}

func (e *Engine) write(doc *store.Document, theme *themes.Theme) error {
	if err := doc.SetString(e.section.Child(ThemeNameKey), theme.Name); err != nil {
		return err
	}
	for i, slot := range palette.Slots {
		if err := doc.SetString(e.section.Child(slot), theme.Palette[i]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) reloadTerminals(ctx context.Context, result *Result, log zerolog.Logger) {
	pids, err := e.notifier.TerminalPIDs(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("terminal discovery failed")
		result.Warnings = append(result.Warnings, fmt.Sprintf("could not list terminals: %v", err))
		return
	}
	if len(pids) == 0 {
		log.Debug().Msg("no terminals to reload")
		return
	}
	for _, pid := range pids {
		if err := e.notifier.Signal(ctx, pid); err != nil {
			log.Debug().Err(err).Int("pid", pid).Msg("terminal reload failed")
			result.Warnings = append(result.Warnings, fmt.Sprintf("could not reload terminal %d: %v", pid, err))
			continue
		}
		result.Signaled = append(result.Signaled, pid)
	}
}

// Current returns the persisted theme name.
func (e *Engine) Current() (string, error) {
	doc, err := e.config.Load()
	if err != nil {
		return "", err
	}
	return doc.GetString(e.section.Child(ThemeNameKey))
}

// CurrentPalette returns the persisted slot values. Every slot must be set.
func (e *Engine) CurrentPalette() (palette.Palette, error) {
	doc, err := e.config.Load()
	if err != nil {
		return palette.Palette{}, err
	}
	var p palette.Palette
	for i, slot := range palette.Slots {
		value, err := doc.GetString(e.section.Child(slot))
		if err != nil {
			return palette.Palette{}, err
		}
		p[i] = value
	}
	return p, nil
}
