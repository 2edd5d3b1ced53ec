package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skelly-dev/unitymap/internal/config"
)

func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

// ResolveConfig layers explicit flags and positional directories over the
// environment configuration.
func ResolveConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return cfg, err
	}
	if len(args) > 0 {
		cfg.ProjectDir = args[0]
	}
	if len(args) > 1 {
		cfg.OutputDir = args[1]
	}

	if cmd.Flags().Changed("workers") {
		workers, err := cmd.Flags().GetInt("workers")
		if err != nil {
			return cfg, fmt.Errorf("failed to read --workers flag: %w", err)
		}
		cfg.Workers = workers
	}
	if level, err := OptionalStringFlag(cmd, "log-level"); err != nil {
		return cfg, err
	} else if level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	if format, err := OptionalStringFlag(cmd, "log-format"); err != nil {
		return cfg, err
	} else if format != "" {
		cfg.LogFormat = strings.ToLower(format)
	}
	if cmd.Flags().Changed("indent") {
		indent, err := cmd.Flags().GetString("indent")
		if err != nil {
			return cfg, fmt.Errorf("failed to read --indent flag: %w", err)
		}
		cfg.Indent = indent
	}
	return cfg, cfg.Validate()
}
