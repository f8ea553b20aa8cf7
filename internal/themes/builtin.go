package themes

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed presets/*.yaml
var presetFS embed.FS

// BuiltinPresets returns the preset theme files bundled with cheztheme, rooted
// so that each preset sits at "<name>.yaml".
func BuiltinPresets() fs.FS {
	sub, err := fs.Sub(presetFS, "presets")
	if err != nil {
		panic(fmt.Sprintf("presets: %v", err))
	}
	return sub
}
