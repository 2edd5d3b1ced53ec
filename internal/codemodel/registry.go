package codemodel

import (
	"os"
	"path/filepath"
	"strings"
)

// LanguageParser extracts declarations from one language.
type LanguageParser interface {
	// Language returns the language name (e.g., "csharp")
	Language() string

	// Extensions returns file extensions this parser handles
	Extensions() []string

	// Parse extracts declarations from source code
	Parse(filename string, content []byte) (*FileDeclarations, error)
}

// Registry maps file extensions to language parsers.
type Registry struct {
	parsers   map[string]LanguageParser
	extToLang map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		parsers:   make(map[string]LanguageParser),
		extToLang: make(map[string]string),
	}
}

// NewDefaultRegistry creates a registry with every supported language.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewCSharpParser())
	return r
}

// Register adds p for every extension it handles. A later parser for the
// same extension replaces the earlier one.
func (r *Registry) Register(p LanguageParser) {
	lang := p.Language()
	r.parsers[lang] = p
	for _, ext := range p.Extensions() {
		r.extToLang[ext] = lang
	}
}

// ParserForFile returns the parser handling filename's extension.
func (r *Registry) ParserForFile(filename string) (LanguageParser, bool) {
	lang, ok := r.extToLang[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return nil, false
	}
	p, ok := r.parsers[lang]
	return p, ok
}

// ParseFile parses the file at path. Unsupported files return nil, nil.
func (r *Registry) ParseFile(path string) (*FileDeclarations, error) {
	p, ok := r.ParserForFile(path)
	if !ok {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(path, content)
}
