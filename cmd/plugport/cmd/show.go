package cmd

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/avolkau/plugport/internal/core"
	"github.com/avolkau/plugport/internal/core/target"
)

var showCmd = &cobra.Command{
	Use:   "show <plugin-dir> <command|agent|skill> <name>",
	Short: "Preview one converted entity",
	Long: `Convert the plugin and render the named entity's emitted file to the
terminal, for eyeballing path and reference rewrites before a real sync.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTarget(cmd)
		if err != nil {
			return err
		}

		src, err := core.Load(args[0])
		if err != nil {
			return err
		}

		bundle, _, err := t.Emit(src)
		if err != nil {
			return err
		}

		kind, name := target.FileKind(args[1]), args[2]
		file := findEmitted(bundle, kind, name)
		if file == nil {
			return fmt.Errorf("no emitted %s named %q for target %s", kind, name, t.Name())
		}

		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return err
		}
		out, err := r.Render(string(file.Content))
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, out)
		return nil
	},
}

// findEmitted locates the bundle file for an entity. Commands and agents are
// single files named <name>.md; for skills the primary SKILL.md is shown.
func findEmitted(b *target.Bundle, kind target.FileKind, name string) *target.File {
	for i, f := range b.Files {
		if f.Kind != kind {
			continue
		}
		switch kind {
		case target.FileSkill:
			if strings.HasSuffix(f.Path, path.Join(name, "SKILL.md")) {
				return &b.Files[i]
			}
		default:
			if path.Base(f.Path) == name+".md" {
				return &b.Files[i]
			}
		}
	}
	return nil
}

func init() {
	showCmd.Flags().String("target", "", "Target host (opencode, codex)")
	rootCmd.AddCommand(showCmd)
}
