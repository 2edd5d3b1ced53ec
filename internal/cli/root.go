package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skelly-dev/unitymap/internal/scene"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "unitymap [project-directory] [output-directory]",
		Short: "Dump Unity scene hierarchies and find unused scripts",
		Long: `unitymap reads a Unity project, writes one <scene>.unity.dump file per
scene listing its GameObject hierarchy, and writes UnusedScripts.csv with
every project script no scene uses, directly or through a serialized field.

Both directories default to the current directory.`,
		Args:         cobra.MaximumNArgs(2),
		SilenceUsage: true,
		RunE:         RunMap,
	}
	rootCmd.Flags().Int("workers", 0, "Scenes parsed in parallel (default: number of CPUs)")
	rootCmd.Flags().String("log-level", "", "Log level: debug|info|warn|error")
	rootCmd.Flags().String("log-format", "", "Log format: text|json")
	rootCmd.Flags().String("indent", "", fmt.Sprintf("Per-depth indent marker in dumps (default %q)", scene.DefaultIndent))
	rootCmd.Flags().Bool("json", false, "Print machine-readable run summary")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "unitymap %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)
	return rootCmd
}
