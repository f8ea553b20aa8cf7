// Package store reads and edits the chezmoi TOML configuration in place.
//
// Edits splice new bytes into the original document: only the value of the
// edited key changes, so comments, ordering, and unrelated keys survive
// byte for byte.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"

	appErrors "cheztheme/internal/errors"
)

// Path is a dotted key path such as data.cheztheme.themeName.
type Path []string

// ParsePath splits a dotted key path. Empty segments are rejected.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("key path is empty")
	}
	parts := strings.Split(s, ".")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("key path %q has an empty segment", s)
		}
		parts[i] = part
	}
	return Path(parts), nil
}

// Child returns a new path with key appended.
func (p Path) Child(key string) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)
	return append(out, key)
}

// String joins the path with dots.
func (p Path) String() string {
	return strings.Join(p, ".")
}

func (p Path) equal(other []string) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Document is an in-memory TOML document.
type Document struct {
	data []byte
}

// Parse validates data as TOML and wraps it in a Document.
func Parse(data []byte) (*Document, error) {
	if _, err := decode(data); err != nil {
		return nil, err
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Document{data: buf}, nil
}

// Bytes returns the serialized document.
func (d *Document) Bytes() []byte {
	out := make([]byte, len(d.data))
	copy(out, d.data)
	return out
}

// Lookup returns the decoded value at path.
func (d *Document) Lookup(path Path) (any, bool, error) {
	tree, err := decode(d.data)
	if err != nil {
		return nil, false, err
	}
	var current any = tree
	for _, key := range path {
		table, ok := current.(map[string]any)
		if !ok {
			return nil, false, nil
		}
		current, ok = table[key]
		if !ok {
			return nil, false, nil
		}
	}
	return current, true, nil
}

// GetString returns the string stored at path.
func (d *Document) GetString(path Path) (string, error) {
	value, ok, err := d.Lookup(path)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", appErrors.New(appErrors.CodeNotFound, fmt.Sprintf("%s is not set", path), nil)
	}
	s, ok := value.(string)
	if !ok {
		return "", appErrors.New(appErrors.CodeParseFailed, fmt.Sprintf("%s is a %T, not a string", path, value), nil)
	}
	return s, nil
}

// SetString stores value at path. An existing scalar is replaced in place;
// a missing key is inserted after the last key of its table, and a missing
// table is appended at the end of the document.
func (d *Document) SetString(path Path, value string) error {
	if len(path) < 2 {
		return fmt.Errorf("key path %q must name a table and a key", path)
	}
	loc, err := locate(d.data, path)
	if err != nil {
		return err
	}

	encoded := quoteString(value)
	var next []byte
	switch {
	case loc.found:
		next = splice(d.data, loc.start, loc.end, []byte(encoded))
	case loc.anchor >= 0:
		line := formatKey(path[len(loc.anchorTable):]) + " = " + encoded + "\n"
		at, prefix := lineEnd(d.data, loc.anchor)
		next = splice(d.data, at, at, []byte(prefix+line))
	default:
		next = appendTable(d.data, path, encoded)
	}

	check := &Document{data: next}
	got, err := check.GetString(path)
	if err != nil || got != value {
		return appErrors.New(appErrors.CodeParseFailed,
			fmt.Sprintf("cannot update %s in place (is the table defined inline?)", path), err)
	}
	d.data = next
	return nil
}

func decode(data []byte) (map[string]any, error) {
	tree := map[string]any{}
	if err := toml.Unmarshal(data, &tree); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, appErrors.New(appErrors.CodeParseFailed,
				fmt.Sprintf("invalid TOML at line %d, column %d: %s", row, col, derr.Error()), err)
		}
		return nil, appErrors.New(appErrors.CodeParseFailed, fmt.Sprintf("invalid TOML: %v", err), err)
	}
	return tree, nil
}

type location struct {
	found      bool
	start, end int

	// anchor is the offset after which a new key can be inserted, or -1.
	anchor      int
	anchorTable []string
}

// locate walks the document expressions tracking the current table header.
func locate(data []byte, path Path) (location, error) {
	loc := location{anchor: -1}
	section := path[:len(path)-1]

	p := unstable.Parser{}
	p.Reset(data)

	var table []string
	inArray := false
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			keys, last, err := keyParts(&p, data, expr)
			if err != nil {
				return loc, err
			}
			table = keys
			inArray = expr.Kind == unstable.ArrayTable
			if !inArray && section.equal(table) {
				loc.anchor = last
				loc.anchorTable = table
			}

		case unstable.KeyValue:
			if inArray {
				continue
			}
			keys, _, err := keyParts(&p, data, expr)
			if err != nil {
				return loc, err
			}
			full := make([]string, 0, len(table)+len(keys))
			full = append(full, table...)
			full = append(full, keys...)

			start, end, err := valueRange(&p, data, expr.Value())
			if path.equal(full) {
				if err != nil {
					return loc, appErrors.New(appErrors.CodeParseFailed, fmt.Sprintf("%s is not a scalar value", path), err)
				}
				loc.found = true
				loc.start, loc.end = start, end
				return loc, nil
			}
			if err == nil && section.equal(full[:len(full)-1]) {
				loc.anchor = end
				loc.anchorTable = table
			}
		}
	}
	if err := p.Error(); err != nil {
		return loc, appErrors.New(appErrors.CodeParseFailed, fmt.Sprintf("invalid TOML: %v", err), err)
	}
	return loc, nil
}

// keyParts returns the decoded key segments of expr and the offset just past
// its last segment.
func keyParts(p *unstable.Parser, data []byte, expr *unstable.Node) ([]string, int, error) {
	var keys []string
	end := -1
	it := expr.Key()
	for it.Next() {
		node := it.Node()
		keys = append(keys, string(node.Data))
		start, length, ok := nodeRange(p, data, node)
		if !ok {
			return nil, 0, appErrors.New(appErrors.CodeParseFailed,
				fmt.Sprintf("cannot locate key %q in document", node.Data), nil)
		}
		end = start + length
	}
	return keys, end, nil
}

// valueRange returns the byte range of a scalar value, quotes included.
func valueRange(p *unstable.Parser, data []byte, node *unstable.Node) (int, int, error) {
	switch node.Kind {
	case unstable.Array, unstable.InlineTable:
		return 0, 0, fmt.Errorf("unsupported value kind %s", node.Kind)
	}
	start, length, ok := nodeRange(p, data, node)
	if !ok {
		return 0, 0, fmt.Errorf("cannot locate %s value", node.Kind)
	}
	return start, start + length, nil
}

// nodeRange prefers the parser's raw range and falls back to the position of
// the node data when it aliases the input.
func nodeRange(p *unstable.Parser, data []byte, node *unstable.Node) (int, int, bool) {
	if node.Raw.Length > 0 {
		return int(node.Raw.Offset), int(node.Raw.Length), true
	}
	off, ok := offsetIn(data, node.Data)
	if !ok {
		return 0, 0, false
	}
	return off, len(node.Data), true
}

func offsetIn(data, sub []byte) (int, bool) {
	if len(sub) == 0 || len(data) == 0 {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(data)))
	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(sub)))
	if ptr < base || ptr+uintptr(len(sub)) > base+uintptr(len(data)) {
		return 0, false
	}
	return int(ptr - base), true
}

// lineEnd returns the offset just past the newline that ends the line
// containing pos, plus a prefix to insert when the document lacks one.
func lineEnd(data []byte, pos int) (int, string) {
	if i := bytes.IndexByte(data[pos:], '\n'); i >= 0 {
		return pos + i + 1, ""
	}
	return len(data), "\n"
}

func appendTable(data []byte, path Path, encoded string) []byte {
	var b bytes.Buffer
	b.Write(data)
	if len(data) > 0 {
		if data[len(data)-1] != '\n' {
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	section := path[:len(path)-1]
	b.WriteString("[" + formatKey(section) + "]\n")
	b.WriteString(formatKey(path[len(path)-1:]) + " = " + encoded + "\n")
	return b.Bytes()
}

func splice(data []byte, start, end int, insert []byte) []byte {
	out := make([]byte, 0, len(data)-(end-start)+len(insert))
	out = append(out, data[:start]...)
	out = append(out, insert...)
	return append(out, data[end:]...)
}

func formatKey(parts []string) string {
	quoted := make([]string, len(parts))
	for i, part := range parts {
		if isBareKey(part) {
			quoted[i] = part
		} else {
			quoted[i] = quoteString(part)
		}
	}
	return strings.Join(quoted, ".")
}

func isBareKey(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// quoteString encodes s as a TOML basic string.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
