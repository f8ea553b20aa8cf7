package themes

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/rs/zerolog"

	appErrors "cheztheme/internal/errors"
	"cheztheme/internal/logging"
)

// Resolver merges bundled presets with custom themes from a user directory.
//
// Presets take precedence: when a preset and a custom file share a name, Load
// returns the preset and never reads the custom file. Catalog still lists both.
type Resolver struct {
	presets fs.FS
	dir     string
	logger  zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPresets replaces the bundled presets. Theme files must sit at the root
// of fsys.
func WithPresets(fsys fs.FS) Option {
	return func(r *Resolver) {
		if fsys != nil {
			r.presets = fsys
		}
	}
}

// NewResolver creates a resolver over the bundled presets and themeDir.
func NewResolver(themeDir string, opts ...Option) *Resolver {
	r := &Resolver{
		presets: BuiltinPresets(),
		dir:     themeDir,
		logger:  logging.Component("themes"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dir returns the user theme directory.
func (r *Resolver) Dir() string {
	return r.dir
}

// Catalog lists every preset and custom theme sorted by name. Equal names
// list the preset first.
func (r *Resolver) Catalog() ([]Entry, error) {
	presetNames, err := listFS(r.presets)
	if err != nil {
		return nil, appErrors.New(appErrors.CodeIOFailed, "read preset themes", err)
	}
	customNames, err := listDir(r.dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(presetNames)+len(customNames))
	for _, name := range presetNames {
		entries = append(entries, Entry{Name: name, Origin: OriginPreset})
	}
	for _, name := range customNames {
		entries = append(entries, Entry{Name: name, Origin: OriginCustom})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Origin < entries[j].Origin
	})

	r.logger.Debug().
		Int("presets", len(presetNames)).
		Int("custom", len(customNames)).
		Str("dir", r.dir).
		Msg("built theme catalog")
	return entries, nil
}

// Load resolves a theme by name, presets first.
func (r *Resolver) Load(name string) (*Theme, error) {
	if !validName(name) {
		return nil, notFound(name)
	}
	theme, err := r.loadPreset(name)
	if err == nil {
		return theme, nil
	}
	if !appErrors.IsCode(err, appErrors.CodeNotFound) {
		return nil, err
	}
	return r.loadCustom(name)
}

// LoadEntry loads the theme for a specific catalog entry, which lets a custom
// theme shadowed by a preset of the same name still be read.
func (r *Resolver) LoadEntry(entry Entry) (*Theme, error) {
	if !validName(entry.Name) {
		return nil, notFound(entry.Name)
	}
	switch entry.Origin {
	case OriginPreset:
		return r.loadPreset(entry.Name)
	case OriginCustom:
		return r.loadCustom(entry.Name)
	default:
		return nil, fmt.Errorf("unknown theme origin %d", int(entry.Origin))
	}
}

func (r *Resolver) loadPreset(name string) (*Theme, error) {
	data, path, err := readFS(r.presets, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, appErrors.New(appErrors.CodeIOFailed, fmt.Sprintf("read preset %s", path), err)
	}
	theme, err := parseTheme(data)
	if err != nil {
		return nil, appErrors.New(appErrors.CodeParseFailed, fmt.Sprintf("parse preset %s: %v", name, err), err)
	}
	theme.Name = name
	theme.Origin = OriginPreset
	theme.Source = "builtin"
	r.logger.Debug().Str("theme", name).Msg("loaded preset theme")
	return theme, nil
}

func (r *Resolver) loadCustom(name string) (*Theme, error) {
	data, path, err := readDir(r.dir, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, appErrors.New(appErrors.CodeIOFailed, fmt.Sprintf("read theme %s", path), err)
	}
	theme, err := parseTheme(data)
	if err != nil {
		return nil, appErrors.New(appErrors.CodeParseFailed, fmt.Sprintf("parse theme %s: %v", path, err), err)
	}
	theme.Name = name
	theme.Origin = OriginCustom
	theme.Source = path
	r.logger.Debug().Str("theme", name).Str("path", path).Msg("loaded custom theme")
	return theme, nil
}

func notFound(name string) error {
	return appErrors.New(appErrors.CodeNotFound, fmt.Sprintf("theme %q not found", name), nil)
}
