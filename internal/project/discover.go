package project

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/skelly-dev/unitymap/internal/ignore"
)

const (
	SceneExtension  = ".unity"
	ScriptExtension = ".cs"
)

// Inventory lists the project files a run works on, as forward-slash paths
// relative to the project root.
type Inventory struct {
	Scenes  []string
	Scripts []string
	Issues  []Issue
}

// Discover walks root and collects scenes and scripts, honoring ignoreRules.
// Unreadable entries become warnings.
func Discover(root string, ignoreRules []string) (*Inventory, error) {
	matcher := ignore.NewMatcher(ignoreRules)
	inv := &Inventory{
		Scenes:  make([]string, 0),
		Scripts: make([]string, 0),
		Issues:  make([]Issue, 0),
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if err != nil {
			inv.Issues = append(inv.Issues, Issue{
				File:     relPath,
				Severity: "warning",
				Message:  fmt.Sprintf("walk error: %v", err),
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if matcher.ShouldIgnore(relPath, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case SceneExtension:
			inv.Scenes = append(inv.Scenes, relPath)
		case ScriptExtension:
			inv.Scripts = append(inv.Scripts, relPath)
		}
		return nil
	})

	sort.Strings(inv.Scenes)
	sort.Strings(inv.Scripts)
	return inv, err
}
