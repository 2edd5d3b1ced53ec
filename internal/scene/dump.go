package scene

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultIndent is written once per depth level in front of each name.
const DefaultIndent = "--"

// ChildMarker separates the indent from the name on every non-root line.
const ChildMarker = ">"

const displayNameCacheSize = 4096

var displayNames = mustNameCache()

func mustNameCache() *lru.Cache[string, string] {
	cache, err := lru.New[string, string](displayNameCacheSize)
	if err != nil {
		panic(err)
	}
	return cache
}

// DisplayName turns an identifier-style name into a spaced label:
// "PlayerController" -> "Player Controller", "HUDCanvas" -> "HUD Canvas",
// "Level2" -> "Level 2".
func DisplayName(name string) string {
	if label, ok := displayNames.Get(name); ok {
		return label
	}
	label := spaceWords(name)
	displayNames.Add(name, label)
	return label
}

func spaceWords(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 8)
	for i, r := range runes {
		if i > 0 && wordBoundary(runes[i-1], r, runes[i+1:]) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func wordBoundary(prev, cur rune, rest []rune) bool {
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(cur):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(cur) && len(rest) > 0 && unicode.IsLower(rest[0]):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(cur):
		return true
	}
	return false
}

// Dumper writes indented hierarchy listings.
type Dumper struct {
	Indent string
}

// NewDumper returns a Dumper using indent, or DefaultIndent when empty.
func NewDumper(indent string) *Dumper {
	if indent == "" {
		indent = DefaultIndent
	}
	return &Dumper{Indent: indent}
}

// DumpAll writes the listing of every root of s, in root order.
func (d *Dumper) DumpAll(w io.Writer, s *Scene) error {
	bw := bufio.NewWriter(w)
	for _, root := range s.Roots() {
		d.dump(bw, s, root, 0, make(map[FileID]bool))
	}
	return bw.Flush()
}

// Dump writes the listing rooted at root. An unknown root writes nothing.
func (d *Dumper) Dump(w io.Writer, s *Scene, root FileID) error {
	bw := bufio.NewWriter(w)
	d.dump(bw, s, root, 0, make(map[FileID]bool))
	return bw.Flush()
}

func (d *Dumper) dump(w *bufio.Writer, s *Scene, id FileID, depth int, visited map[FileID]bool) {
	g, ok := s.GameObject(id)
	if !ok || visited[id] {
		return
	}
	visited[id] = true

	if depth > 0 {
		w.WriteString(strings.Repeat(d.Indent, depth))
		w.WriteString(ChildMarker)
	}
	w.WriteString(DisplayName(g.Name))
	w.WriteByte('\n')
	for _, child := range g.Children {
		d.dump(w, s, child, depth+1, visited)
	}
}
