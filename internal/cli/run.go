package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/skelly-dev/unitymap/internal/ctxlog"
	"github.com/skelly-dev/unitymap/internal/project"
)

func RunMap(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg, err := ResolveConfig(cmd, args)
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}

	projectDir, err := filepath.Abs(cfg.ProjectDir)
	if err != nil {
		return fmt.Errorf("failed to resolve path %q: %w", cfg.ProjectDir, err)
	}
	outputDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to resolve path %q: %w", cfg.OutputDir, err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := ctxlog.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	ctx = ctxlog.WithLogger(ctx, logger)

	ignoreRules, err := LoadIgnoreRules(projectDir)
	if err != nil {
		return err
	}

	progress := newSceneProgressReporter("scenes", asJSON)
	logger.Debug("scan starting", "project", projectDir, "output", outputDir, "workers", cfg.Workers)
	result, err := project.Scan(ctx, project.Options{
		ProjectDir:  projectDir,
		OutputDir:   outputDir,
		Workers:     cfg.Workers,
		Indent:      cfg.Indent,
		IgnoreRules: ignoreRules,
		Progress:    progress.Update,
	})
	if errors.Is(err, project.ErrProjectNotFound) {
		fmt.Fprintf(cmd.ErrOrStderr(), "project directory %s does not exist; nothing to do\n", projectDir)
		return nil
	}
	if result != nil {
		progress.Done(len(result.Scenes))
		ReportIssues(ctx, result)
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	return PrintRunSummary(cmd.OutOrStdout(), NewRunSummary(result, time.Since(start).Milliseconds()), asJSON)
}
