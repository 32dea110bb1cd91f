package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avolkau/plugport/internal/core"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [plugin-dir...]",
	Short: "Show entity counts for plugin trees",
	Long: `Load the given plugin directories (or the personal config when none are
given) and print per-kind entity counts. Nothing is converted or written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var sources []*core.PluginSource

		if len(args) == 0 {
			configRoot, _ := cmd.Flags().GetString("config")
			if configRoot == "" {
				configRoot = core.DefaultPersonalRoot()
			}
			src, err := core.LoadPersonal(configRoot)
			if err != nil {
				return err
			}
			sources = append(sources, src)
		}

		for _, dir := range args {
			src, err := core.Load(dir)
			if err != nil {
				return err
			}
			sources = append(sources, src)
		}

		for _, src := range sources {
			c := core.ComputeCounts(src)
			fmt.Fprintf(os.Stdout, "%s: %d command(s), %d agent(s), %d skill(s), %d hook(s), %d MCP server(s)\n",
				src.Name, c.Commands, c.Agents, c.Skills, c.Hooks, c.McpServers)
		}

		if len(sources) > 1 {
			total := core.ComputeCounts(sources...)
			fmt.Fprintf(os.Stdout, "total: %d entit(ies)\n", total.Total())
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().String("config", "", "Personal config root (default: ~/.claude)")
	rootCmd.AddCommand(inspectCmd)
}
