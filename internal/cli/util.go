package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skelly-dev/unitymap/internal/ctxlog"
	"github.com/skelly-dev/unitymap/internal/project"
)

const IgnoreFile = ".unitymapignore"

func LoadIgnoreRules(rootPath string) ([]string, error) {
	ignorePath := filepath.Join(rootPath, IgnoreFile)
	f, err := os.Open(ignorePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", IgnoreFile, err)
	}
	defer f.Close()

	rules := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules = append(rules, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", IgnoreFile, err)
	}

	return rules, nil
}

// ReportIssues logs every recoverable problem of a run.
func ReportIssues(ctx context.Context, result *project.Result) {
	logger := ctxlog.FromContext(ctx)
	for _, issue := range result.Issues {
		logger.Warn(issue.Message, "file", issue.File, "severity", issue.Severity)
	}
	for _, s := range result.Scenes {
		if s.Error != "" {
			logger.Error("scene skipped", "file", s.Path, "error", s.Error)
		}
		for _, issue := range s.Issues {
			logger.Warn(issue.Message, "file", issue.File, "line", issue.Line)
		}
	}
}
