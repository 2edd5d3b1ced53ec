package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/skelly-dev/unitymap/internal/project"
)

type RunSummary struct {
	ProjectDir   string   `json:"project_dir"`
	OutputDir    string   `json:"output_dir"`
	Scenes       int      `json:"scenes"`
	FailedScenes []string `json:"failed_scenes,omitempty"`
	GameObjects  int      `json:"game_objects"`
	Scripts      int      `json:"scripts"`
	Tracked      int      `json:"tracked"`
	Referenced   int      `json:"referenced"`
	Unused       int      `json:"unused"`
	Warnings     int      `json:"warnings"`
	UnusedPath   string   `json:"unused_path"`
	DumpPaths    []string `json:"dump_paths,omitempty"`
	DurationMS   int64    `json:"duration_ms"`
}

// NewRunSummary condenses a scan result.
func NewRunSummary(result *project.Result, durationMS int64) RunSummary {
	summary := RunSummary{
		ProjectDir: result.ProjectDir,
		OutputDir:  result.OutputDir,
		Scenes:     len(result.Scenes),
		Scripts:    result.Scripts,
		Tracked:    result.Registered,
		Referenced: result.Referenced,
		Unused:     len(result.Unused),
		Warnings:   len(result.Issues),
		UnusedPath: result.UnusedPath,
		DurationMS: durationMS,
	}
	for _, s := range result.Scenes {
		summary.GameObjects += s.GameObjects
		summary.Warnings += len(s.Issues)
		if s.Error != "" {
			summary.FailedScenes = append(summary.FailedScenes, s.Path)
			continue
		}
		summary.DumpPaths = append(summary.DumpPaths, s.DumpPath)
	}
	return summary
}

func PrintRunSummary(w io.Writer, summary RunSummary, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	}

	fmt.Fprintf(w, "unitymap complete in %dms\n", summary.DurationMS)
	fmt.Fprintf(w, "output: %s\n", summary.OutputDir)
	fmt.Fprintf(w, "scenes: total=%d failed=%d game_objects=%d\n", summary.Scenes, len(summary.FailedScenes), summary.GameObjects)
	fmt.Fprintf(w, "scripts: total=%d tracked=%d referenced=%d unused=%d\n", summary.Scripts, summary.Tracked, summary.Referenced, summary.Unused)
	if len(summary.FailedScenes) > 0 {
		fmt.Fprintf(w, "failed scenes (%d): %s\n", len(summary.FailedScenes), SummarizePaths(summary.FailedScenes, 8))
	}
	if summary.Warnings > 0 {
		fmt.Fprintf(w, "warnings: %d (see log)\n", summary.Warnings)
	}
	fmt.Fprintf(w, "unused scripts: %s\n", summary.UnusedPath)
	return nil
}

func SummarizePaths(paths []string, max int) string {
	if len(paths) <= max {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s ... (+%d more)", strings.Join(paths[:max], ", "), len(paths)-max)
}
