package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avolkau/plugport/internal/core"
	"github.com/avolkau/plugport/internal/core/target"
)

var convertCmd = &cobra.Command{
	Use:   "convert <plugin-dir>",
	Short: "Convert a single plugin for a target host",
	Long: `Convert one plugin directory (containing .claude-plugin/plugin.json)
into the target host's artifacts, without the personal-config merge that
sync performs. The secret-env scan still runs over the plugin's own MCP
declarations.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTarget(cmd)
		if err != nil {
			return err
		}
		outDir, err := resolveOutDir(cmd)
		if err != nil {
			return err
		}

		src, err := core.Load(args[0])
		if err != nil {
			return err
		}

		merged, warnings := core.Merge([]*core.PluginSource{src})
		printWarnings(warnings)

		bundle, notes, err := t.Emit(merged)
		if err != nil {
			return err
		}
		printNotes(notes)

		if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
			for _, f := range bundle.Files {
				fmt.Fprintf(os.Stdout, "would write %s\n", f.Path)
			}
			return nil
		}

		proceed, err := confirmSecrets(cmd, warnings)
		if err != nil {
			return err
		}
		if !proceed {
			fmt.Fprintln(os.Stdout, "Aborted; nothing written.")
			return nil
		}

		if err := target.WriteBundle(bundle, outDir); err != nil {
			return err
		}

		printBundleSummary(t, bundle)
		return nil
	},
}

func init() {
	convertCmd.Flags().String("target", "", "Target host (opencode, codex)")
	convertCmd.Flags().StringP("out", "o", "", "Output directory (default: current directory)")
	convertCmd.Flags().Bool("dry-run", false, "Show what would be written without writing")
	convertCmd.Flags().BoolP("yes", "y", false, "Skip the secrets confirmation prompt")
	rootCmd.AddCommand(convertCmd)
}
