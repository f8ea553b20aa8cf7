// Package palette defines the base16 color palette shared by presets, custom
// theme files, and the persisted chezmoi selection.
package palette

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	appErrors "cheztheme/internal/errors"
)

// SlotCount is the number of color slots in a base16 palette.
const SlotCount = 16

// Slots lists the slot names in display order.
var Slots = [SlotCount]string{
	"base00", "base01", "base02", "base03",
	"base04", "base05", "base06", "base07",
	"base08", "base09", "base0A", "base0B",
	"base0C", "base0D", "base0E", "base0F",
}

// Palette holds the 16 slot values in display order. Values are kept verbatim
// as read from their source; hex validity is checked only when a color is used.
type Palette [SlotCount]string

// SlotIndex returns the display index of a slot name. Names match exactly:
// base0A is a slot, base0a is not.
func SlotIndex(name string) (int, bool) {
	for i, slot := range Slots {
		if slot == name {
			return i, true
		}
	}
	return 0, false
}

// Get returns the value stored for the named slot.
func (p Palette) Get(slot string) (string, bool) {
	idx, ok := SlotIndex(slot)
	if !ok {
		return "", false
	}
	return p[idx], true
}

// Map returns the palette keyed by slot name.
func (p Palette) Map() map[string]string {
	out := make(map[string]string, SlotCount)
	for i, slot := range Slots {
		out[slot] = p[i]
	}
	return out
}

// FromMap builds a palette from slot/value pairs. Every slot must be present
// with a non-empty value; values are kept verbatim.
func FromMap(values map[string]string) (Palette, error) {
	var p Palette
	seen := [SlotCount]bool{}
	for key, value := range values {
		idx, ok := SlotIndex(key)
		if !ok {
			continue
		}
		p[idx] = value
		seen[idx] = true
	}
	for i, slot := range Slots {
		if !seen[i] {
			return Palette{}, fmt.Errorf("palette slot %s is missing", slot)
		}
		if p[i] == "" {
			return Palette{}, fmt.Errorf("palette slot %s is empty", slot)
		}
	}
	return p, nil
}

// UnmarshalYAML decodes a mapping of slot names to color strings.
func (p *Palette) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: palette must be a mapping of slot names to colors", node.Line)
	}
	values := make(map[string]string, SlotCount)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if _, ok := SlotIndex(key.Value); !ok {
			continue
		}
		if _, dup := values[key.Value]; dup {
			return fmt.Errorf("line %d: palette slot %s is defined twice", key.Line, key.Value)
		}
		if value.Kind != yaml.ScalarNode || value.ShortTag() != "!!str" {
			return fmt.Errorf("line %d: palette slot %s must be a string", value.Line, key.Value)
		}
		values[key.Value] = value.Value
	}
	decoded, err := FromMap(values)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

// MarshalYAML encodes the palette as a slot mapping in display order.
func (p Palette) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i, slot := range Slots {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: slot},
			&yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: p[i]},
		)
	}
	return node, nil
}

// ParseHex parses #RRGGBB or #RGB (the leading # is optional).
func ParseHex(value string) (colorful.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) != 6 && len(hex) != 3 {
		return colorful.Color{}, invalidHex(value)
	}
	for _, r := range hex {
		if !isHexDigit(r) {
			return colorful.Color{}, invalidHex(value)
		}
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return colorful.Color{}, appErrors.New(appErrors.CodeParseFailed, fmt.Sprintf("invalid hex color %q", value), err)
	}
	return c, nil
}

// Colors parses every slot. The first malformed slot fails the whole palette.
func (p Palette) Colors() ([SlotCount]colorful.Color, error) {
	var out [SlotCount]colorful.Color
	for i, value := range p {
		c, err := ParseHex(value)
		if err != nil {
			return out, fmt.Errorf("%s: %w", Slots[i], err)
		}
		out[i] = c
	}
	return out, nil
}

func invalidHex(value string) error {
	return appErrors.New(appErrors.CodeParseFailed, fmt.Sprintf("invalid hex color %q", value), nil)
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
