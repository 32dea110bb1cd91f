package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "plugport",
	Short: "Convert AI assistant plugins between hosts",
	Long: `Plugport converts a Claude-style plugin tree (agents, commands, skills,
hooks, MCP servers) into the equivalent artifacts for other AI coding
hosts. Each target has its own file layout, frontmatter schema, and path
conventions; plugport rewrites bodies, remaps frontmatter, and reports
anything a target cannot represent.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("plugport %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
