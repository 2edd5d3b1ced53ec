// Package project runs one analysis of a Unity project: it dumps the
// hierarchy of every scene and classifies project scripts as used or unused.
package project

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/skelly-dev/unitymap/internal/codemodel"
	"github.com/skelly-dev/unitymap/internal/ctxlog"
	"github.com/skelly-dev/unitymap/internal/ledger"
	"github.com/skelly-dev/unitymap/internal/meta"
	"github.com/skelly-dev/unitymap/internal/output"
	"github.com/skelly-dev/unitymap/internal/scene"
)

var ErrProjectNotFound = errors.New("project directory not found")

// Options configures Scan.
type Options struct {
	ProjectDir  string
	OutputDir   string
	Workers     int
	Indent      string
	IgnoreRules []string

	// Progress, when set, is called after each scene completes. It may be
	// called from several goroutines.
	Progress func(scenePath string, done, total int)
}

// Issue is a recoverable problem found during a run.
type Issue struct {
	File     string `json:"file"`
	Line     int    `json:"line,omitempty"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// SceneResult is the outcome of one scene.
type SceneResult struct {
	Path        string  `json:"path"`
	DumpPath    string  `json:"dump_path,omitempty"`
	GameObjects int     `json:"game_objects"`
	Roots       int     `json:"roots"`
	Issues      []Issue `json:"issues,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// Result summarizes a run.
type Result struct {
	ProjectDir string         `json:"project_dir"`
	OutputDir  string         `json:"output_dir"`
	Scenes     []SceneResult  `json:"scenes"`
	Scripts    int            `json:"scripts"`
	Registered int            `json:"registered"`
	Referenced int            `json:"referenced"`
	References int            `json:"references"`
	Unused     []ledger.Entry `json:"unused"`
	UnusedPath string         `json:"unused_path"`
	Issues     []Issue        `json:"issues,omitempty"`
}

// FailedScenes counts scenes that could not be read.
func (r *Result) FailedScenes() int {
	n := 0
	for _, s := range r.Scenes {
		if s.Error != "" {
			n++
		}
	}
	return n
}

// Scan analyzes opts.ProjectDir and writes its artifacts to opts.OutputDir.
// A duplicate script guid aborts the run before any scene is parsed.
func Scan(ctx context.Context, opts Options) (*Result, error) {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Indent == "" {
		opts.Indent = scene.DefaultIndent
	}

	info, err := os.Stat(opts.ProjectDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, opts.ProjectDir)
	}

	inv, err := Discover(opts.ProjectDir, opts.IgnoreRules)
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", opts.ProjectDir, err)
	}

	result := &Result{
		ProjectDir: opts.ProjectDir,
		OutputDir:  opts.OutputDir,
		Scripts:    len(inv.Scripts),
		Issues:     inv.Issues,
	}

	led := ledger.New()
	registered, issues, err := registerScripts(led, opts.ProjectDir, inv.Scripts)
	result.Issues = append(result.Issues, issues...)
	if err != nil {
		return result, err
	}
	result.Registered = registered

	writer := output.NewWriter(opts.OutputDir)
	scenes, err := parseScenes(ctx, opts, inv.Scenes, led, writer)
	result.Scenes = scenes
	if err != nil {
		return result, err
	}

	model := codemodel.NewDefaultRegistry().BuildModel(opts.ProjectDir, inv.Scripts)
	for _, issue := range model.Issues {
		result.Issues = append(result.Issues, Issue{File: issue.File, Severity: issue.Severity, Message: issue.Message})
	}
	logger := ctxlog.FromContext(ctx)
	refs := model.References()
	for _, ref := range refs {
		logger.Debug("serialized field reference",
			"from", ref.From.File, "type", ref.From.Name, "field", ref.Field, "to", ref.To.File)
	}
	result.References = len(refs)
	result.Referenced = led.ApplyReferences(model)

	result.Unused = led.Unused()
	unusedPath, err := writer.WriteUnused(result.Unused)
	if err != nil {
		return result, err
	}
	result.UnusedPath = unusedPath
	return result, nil
}

// registerScripts reads the guid of every script from its meta file.
func registerScripts(led *ledger.Ledger, root string, scripts []string) (int, []Issue, error) {
	issues := make([]Issue, 0)
	registered := 0
	for _, rel := range scripts {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		guid, err := meta.ReadGUID(meta.PathFor(abs))
		if err != nil {
			issues = append(issues, Issue{
				File:     rel + meta.Extension,
				Severity: "warning",
				Message:  fmt.Sprintf("script not tracked: %v", err),
			})
			continue
		}
		if err := led.RegisterKnown(guid, rel); err != nil {
			var dup *ledger.DuplicateGUIDError
			if errors.As(err, &dup) {
				return registered, issues, err
			}
			issues = append(issues, Issue{File: rel, Severity: "warning", Message: err.Error()})
			continue
		}
		registered++
	}
	return registered, issues, nil
}

// parseScenes runs one worker per scene, bounded by opts.Workers. A scene
// that cannot be read fails alone; the run continues.
func parseScenes(ctx context.Context, opts Options, scenes []string, led *ledger.Ledger, writer *output.Writer) ([]SceneResult, error) {
	results := make([]SceneResult, len(scenes))
	names := dumpFileNames(scenes)
	dumper := scene.NewDumper(opts.Indent)

	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, rel := range scenes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = processScene(opts.ProjectDir, rel, names[i], led, dumper, writer)
			if opts.Progress != nil {
				mu.Lock()
				done++
				n := done
				mu.Unlock()
				opts.Progress(rel, n, len(scenes))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func processScene(root, rel, dumpName string, led *ledger.Ledger, dumper *scene.Dumper, writer *output.Writer) SceneResult {
	res := SceneResult{Path: rel}

	parsed, err := scene.ParseFile(filepath.Join(root, filepath.FromSlash(rel)), led)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	for _, issue := range parsed.Issues {
		res.Issues = append(res.Issues, Issue{File: rel, Line: issue.Line, Severity: issue.Severity, Message: issue.Message})
	}
	res.GameObjects = parsed.GameObjectCount()
	res.Roots = len(parsed.Roots())

	var buf bytes.Buffer
	if err := dumper.DumpAll(&buf, parsed); err != nil {
		res.Error = err.Error()
		return res
	}
	dumpPath, err := writer.WriteDump(dumpName, buf.Bytes())
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.DumpPath = dumpPath
	return res
}

// dumpFileNames picks the dump name of each scene. Scenes sharing a base
// name get path-qualified names so no dump overwrites another.
func dumpFileNames(scenes []string) []string {
	counts := make(map[string]int, len(scenes))
	for _, rel := range scenes {
		counts[output.DumpFileName(rel)]++
	}
	names := make([]string, len(scenes))
	for i, rel := range scenes {
		name := output.DumpFileName(rel)
		if counts[name] > 1 {
			name = output.QualifiedDumpFileName(rel)
		}
		names[i] = name
	}
	return names
}
