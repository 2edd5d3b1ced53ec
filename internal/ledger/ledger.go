// Package ledger tracks which project scripts are used, keyed by asset guid.
// A Ledger is shared by every scene worker of a run and is safe for
// concurrent use.
package ledger

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Entry is the usage state of one script guid.
type Entry struct {
	GUID         string `json:"guid"`
	RelativePath string `json:"relative_path,omitempty"`
	Used         bool   `json:"used"`
}

// DuplicateGUIDError reports two script files claiming the same guid.
type DuplicateGUIDError struct {
	GUID     string
	Existing string
	Incoming string
}

func (e *DuplicateGUIDError) Error() string {
	return fmt.Sprintf("duplicate script guid %s claimed by %q and %q", e.GUID, e.Existing, e.Incoming)
}

// ReferenceProvider expands a set of used script paths with the paths they
// reference.
type ReferenceProvider interface {
	Referenced(used []string) []string
}

// Ledger maps script guids to their usage.
type Ledger struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{entries: make(map[string]*Entry)}
}

// MarkUsed records a sighting of guid. Used never reverts to false.
func (l *Ledger) MarkUsed(guid string) {
	guid = strings.TrimSpace(guid)
	if guid == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry, ok := l.entries[guid]; ok {
		entry.Used = true
		return
	}
	l.entries[guid] = &Entry{GUID: guid, Used: true}
}

// RegisterKnown records that the script at relPath declares guid. A guid
// already bound to a different path returns a *DuplicateGUIDError.
func (l *Ledger) RegisterKnown(guid, relPath string) error {
	guid = strings.TrimSpace(guid)
	relPath = strings.TrimSpace(relPath)
	if guid == "" {
		return fmt.Errorf("empty guid for %q", relPath)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[guid]
	if !ok {
		l.entries[guid] = &Entry{GUID: guid, RelativePath: relPath}
		return nil
	}
	switch {
	case entry.RelativePath == "":
		entry.RelativePath = relPath
	case entry.RelativePath != relPath:
		return &DuplicateGUIDError{GUID: guid, Existing: entry.RelativePath, Incoming: relPath}
	}
	return nil
}

// UsedPaths returns the sorted paths of used entries that have one.
func (l *Ledger) UsedPaths() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	paths := make([]string, 0, len(l.entries))
	for _, entry := range l.entries {
		if entry.Used && entry.RelativePath != "" {
			paths = append(paths, entry.RelativePath)
		}
	}
	sort.Strings(paths)
	return paths
}

// MarkPathsUsed marks every entry whose path is in paths as used and
// returns how many entries changed state.
func (l *Ledger) MarkPathsUsed(paths []string) int {
	if len(paths) == 0 {
		return 0
	}
	want := make(map[string]bool, len(paths))
	for _, path := range paths {
		want[path] = true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	marked := 0
	for _, entry := range l.entries {
		if entry.Used || entry.RelativePath == "" || !want[entry.RelativePath] {
			continue
		}
		entry.Used = true
		marked++
	}
	return marked
}

// ApplyReferences marks as used every script the provider reports as
// referenced from the currently used scripts.
func (l *Ledger) ApplyReferences(p ReferenceProvider) int {
	if p == nil {
		return 0
	}
	return l.MarkPathsUsed(p.Referenced(l.UsedPaths()))
}

// Entry returns a copy of the entry for guid.
func (l *Ledger) Entry(guid string) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[guid]
	if !ok {
		return Entry{}, false
	}
	return *entry, true
}

// Len returns the number of tracked guids.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Unused returns every entry never marked used, sorted by path then guid.
func (l *Ledger) Unused() []Entry {
	l.mu.Lock()
	out := make([]Entry, 0)
	for _, entry := range l.entries {
		if !entry.Used {
			out = append(out, *entry)
		}
	}
	l.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].RelativePath != out[j].RelativePath {
			return out[i].RelativePath < out[j].RelativePath
		}
		return out[i].GUID < out[j].GUID
	})
	return out
}
