package codemodel

import (
	"path/filepath"
	"sort"
)

// Model is the set of declarations of a project, indexed for reference
// resolution by simple type name.
type Model struct {
	Files  []FileDeclarations
	Issues []Issue

	byName map[string][]Declaration
	byFile map[string][]Declaration
}

// NewModel indexes the given files.
func NewModel(files []FileDeclarations) *Model {
	m := &Model{
		Files:  files,
		byName: make(map[string][]Declaration),
		byFile: make(map[string][]Declaration),
	}
	sort.Slice(m.Files, func(i, j int) bool {
		return m.Files[i].Path < m.Files[j].Path
	})
	for _, file := range m.Files {
		for _, decl := range file.Declarations {
			m.byName[decl.Name] = append(m.byName[decl.Name], decl)
			m.byFile[decl.File] = append(m.byFile[decl.File], decl)
		}
	}
	return m
}

// BuildModel parses every file in relPaths (relative to root). Files that
// fail to parse are recorded as issues and left out of the model.
func (r *Registry) BuildModel(root string, relPaths []string) *Model {
	files := make([]FileDeclarations, 0, len(relPaths))
	issues := make([]Issue, 0)
	for _, rel := range relPaths {
		lang := ""
		if p, ok := r.ParserForFile(rel); ok {
			lang = p.Language()
		}
		parsed, err := r.ParseFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			issues = append(issues, Issue{File: rel, Language: lang, Severity: "error", Message: err.Error()})
			continue
		}
		if parsed == nil {
			continue
		}
		parsed.Path = rel
		for i := range parsed.Declarations {
			parsed.Declarations[i].File = rel
		}
		files = append(files, *parsed)
	}
	m := NewModel(files)
	m.Issues = issues
	return m
}

// Declarations returns every declaration named name.
func (m *Model) Declarations(name string) []Declaration {
	return m.byName[name]
}

// References returns the relation "a serialized field of From has type To",
// restricted to types declared in the project. Self references are dropped.
func (m *Model) References() []Reference {
	refs := make([]Reference, 0)
	for _, file := range m.Files {
		for _, from := range file.Declarations {
			for _, field := range from.Fields {
				if !field.Serialized {
					continue
				}
				for _, typeName := range field.Types {
					for _, to := range m.Declarations(typeName) {
						if to.File == from.File && to.Name == from.Name {
							continue
						}
						refs = append(refs, Reference{From: from, Field: field.Name, To: to})
					}
				}
			}
		}
	}
	return refs
}

// Referenced returns the closure of used under the reference relation: the
// used files plus every file declaring a type that a serialized field of an
// already reached declaration names. Types declared under the same name in
// several files reach all of them.
func (m *Model) Referenced(used []string) []string {
	reached := make(map[string]bool, len(used))
	queue := make([]string, 0, len(used))
	for _, file := range used {
		if !reached[file] {
			reached[file] = true
			queue = append(queue, file)
		}
	}

	for len(queue) > 0 {
		file := queue[0]
		queue = queue[1:]
		for _, decl := range m.byFile[file] {
			for _, field := range decl.Fields {
				if !field.Serialized {
					continue
				}
				for _, typeName := range field.Types {
					for _, target := range m.Declarations(typeName) {
						if reached[target.File] {
							continue
						}
						reached[target.File] = true
						queue = append(queue, target.File)
					}
				}
			}
		}
	}

	out := make([]string, 0, len(reached))
	for file := range reached {
		out = append(out, file)
	}
	sort.Strings(out)
	return out
}
