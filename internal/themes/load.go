package themes

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"gopkg.in/yaml.v3"

	appErrors "cheztheme/internal/errors"
)

// Extensions lists the recognized theme file extensions in lookup order.
var Extensions = []string{".yaml", ".yml"}

func hasThemeExt(name string) bool {
	ext := filepath.Ext(name)
	for _, candidate := range Extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// listFS returns theme names found at the root of fsys.
func listFS(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !hasThemeExt(entry.Name()) {
			continue
		}
		names = append(names, stem(entry.Name()))
	}
	return names, nil
}

// listDir returns theme names in a user directory. A missing path, or a path
// that is not a directory, contributes nothing; a directory that cannot be
// read is an error.
func listDir(dir string) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, nil
	}
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, appErrors.New(appErrors.CodeIOFailed, fmt.Sprintf("stat themes dir %s", dir), err)
	}
	if !info.IsDir() {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, appErrors.New(appErrors.CodeIOFailed, fmt.Sprintf("read themes dir %s", dir), err)
	}

	seen := make(map[string]struct{}, len(entries))
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !hasThemeExt(entry.Name()) {
			continue
		}
		name := stem(entry.Name())
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}

// readFS returns the first existing "<name><ext>" in fsys.
func readFS(fsys fs.FS, name string) ([]byte, string, error) {
	for _, ext := range Extensions {
		path := name + ext
		data, err := fs.ReadFile(fsys, path)
		if err == nil {
			return data, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, path, err
		}
	}
	return nil, "", fs.ErrNotExist
}

// readDir returns the first existing "<dir>/<name><ext>".
func readDir(dir, name string) ([]byte, string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, "", fs.ErrNotExist
	}
	for _, ext := range Extensions {
		path := filepath.Join(dir, name+ext)
		//nolint:gosec // G304: theme files are read from the user's own theme directory
		data, err := os.ReadFile(path)
		if err == nil {
			return data, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
			return nil, path, err
		}
	}
	return nil, "", fs.ErrNotExist
}

func parseTheme(data []byte) (*Theme, error) {
	var file themeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if file.Palette == nil {
		return nil, fmt.Errorf("palette is required")
	}
	return &Theme{
		DisplayName: strings.TrimSpace(file.Name),
		Author:      strings.TrimSpace(file.Author),
		Variant:     strings.TrimSpace(file.Variant),
		Palette:     *file.Palette,
	}, nil
}

// validName rejects names that could escape the theme directory.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
