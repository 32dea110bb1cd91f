package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avolkau/plugport/internal/core"
	"github.com/avolkau/plugport/internal/core/target"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Convert personal config and plugins for a target host",
	Long: `Load the personal config tree (default ~/.claude), then each --plugin
directory in order, merge them, and emit the converted artifacts for the
given target into --out.

Name collisions between sources are resolved last-writer-wins and reported
as warnings. Anything the target cannot represent (hooks, unsupported
fields) is reported as a fidelity note. When MCP servers declare
secret-like environment variables, the write is gated behind a confirmation
prompt unless --yes is set or stdin is not a terminal.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTarget(cmd)
		if err != nil {
			return err
		}
		outDir, err := resolveOutDir(cmd)
		if err != nil {
			return err
		}

		configRoot, _ := cmd.Flags().GetString("config")
		if configRoot == "" {
			configRoot = core.DefaultPersonalRoot()
		}

		personal, err := core.LoadPersonal(configRoot)
		if err != nil {
			return err
		}
		sources := []*core.PluginSource{personal}

		pluginDirs, _ := cmd.Flags().GetStringArray("plugin")
		for _, dir := range pluginDirs {
			src, err := core.Load(dir)
			if err != nil {
				return err
			}
			sources = append(sources, src)
		}

		merged, warnings := core.Merge(sources)
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
			if bundle.Config != nil {
				fmt.Fprintf(os.Stdout, "would patch %s (%d entr(ies) under %q)\n",
					bundle.Config.Path, len(bundle.Config.Entries), bundle.Config.Key)
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
	syncCmd.Flags().String("target", "", "Target host (opencode, codex)")
	syncCmd.Flags().String("config", "", "Personal config root (default: ~/.claude)")
	syncCmd.Flags().StringArray("plugin", nil, "Plugin directory to include (repeatable, in install order)")
	syncCmd.Flags().StringP("out", "o", "", "Output directory (default: current directory)")
	syncCmd.Flags().Bool("dry-run", false, "Show what would be written without writing")
	syncCmd.Flags().BoolP("yes", "y", false, "Skip the secrets confirmation prompt")
	rootCmd.AddCommand(syncCmd)
}
