package ignore

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultRules exclude the folders Unity regenerates or that never hold
// authored assets.
var DefaultRules = []string{
	".git/",
	"Library/",
	"Temp/",
	"Logs/",
	"obj/",
	"Build/",
	"Builds/",
	"UserSettings/",
}

type rule struct {
	re       *regexp.Regexp
	pattern  string
	negated  bool
	dirOnly  bool
	anchored bool
	nested   bool // pattern contains a slash
}

// Matcher applies gitignore-like rules with "last rule wins" behavior.
type Matcher struct {
	rules []rule
}

// NewMatcher builds a matcher from .unitymapignore lines. DefaultRules come
// first so user negations can re-include them.
func NewMatcher(userRules []string) *Matcher {
	all := make([]string, 0, len(DefaultRules)+len(userRules))
	all = append(all, DefaultRules...)
	all = append(all, userRules...)

	m := &Matcher{rules: make([]rule, 0, len(all))}
	for _, line := range all {
		if parsed, ok := parseRule(line); ok {
			m.rules = append(m.rules, parsed)
		}
	}
	return m
}

// ShouldIgnore returns true when relPath should be excluded.
func (m *Matcher) ShouldIgnore(relPath string, isDir bool) bool {
	relPath = normalizePath(relPath)
	if relPath == "" || relPath == "." {
		return false
	}
	ignored := false
	for _, r := range m.rules {
		if r.matches(relPath, isDir) {
			ignored = !r.negated
		}
	}
	return ignored
}

func parseRule(line string) (rule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return rule{}, false
	}

	var r rule
	if rest, ok := strings.CutPrefix(line, "!"); ok {
		r.negated = true
		line = rest
	}
	if rest, ok := strings.CutPrefix(line, "/"); ok {
		r.anchored = true
		line = rest
	}
	if rest, ok := strings.CutSuffix(line, "/"); ok {
		r.dirOnly = true
		line = rest
	}

	line = normalizePath(line)
	if line == "" {
		return rule{}, false
	}
	r.pattern = line
	r.nested = strings.Contains(line, "/")
	r.re = regexp.MustCompile("^" + globToRegex(line) + "$")
	return r, true
}

func (r rule) matches(relPath string, isDir bool) bool {
	segments := strings.Split(relPath, "/")

	if r.dirOnly {
		// a directory rule covers the directory itself and everything below it
		limit := len(segments)
		if !isDir {
			limit--
		}
		for i := 1; i <= limit; i++ {
			if r.anchored || r.nested {
				if r.re.MatchString(strings.Join(segments[:i], "/")) {
					return true
				}
				continue
			}
			if r.re.MatchString(segments[i-1]) {
				return true
			}
		}
		return false
	}

	if r.anchored {
		return r.re.MatchString(relPath)
	}
	if r.nested {
		for i := range segments {
			if r.re.MatchString(strings.Join(segments[i:], "/")) {
				return true
			}
		}
		return false
	}
	for _, segment := range segments {
		if r.re.MatchString(segment) {
			return true
		}
	}
	return false
}

func globToRegex(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		switch {
		case ch == '*' && i+1 < len(pattern) && pattern[i+1] == '*':
			b.WriteString(".*")
			i++
		case ch == '*':
			b.WriteString("[^/]*")
		case ch == '?':
			b.WriteString("[^/]")
		default:
			b.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}
	return b.String()
}

func normalizePath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return ""
	}
	return path.Clean(p)
}
