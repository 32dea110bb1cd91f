package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/avolkau/plugport/internal/core"
	"github.com/avolkau/plugport/internal/core/target"
	"github.com/avolkau/plugport/internal/tui"
)

var (
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	noteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// resolveOutDir resolves the --out flag or falls back to cwd.
func resolveOutDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("out")
	if dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return cwd, nil
}

// resolveTarget parses the required --target flag.
func resolveTarget(cmd *cobra.Command) (target.Target, error) {
	name, _ := cmd.Flags().GetString("target")
	if name == "" {
		return nil, fmt.Errorf("--target is required (one of: %s)", strings.Join(target.Names(), ", "))
	}
	return target.Resolve(name)
}

// printWarnings writes each merge warning as a distinct stderr line.
func printWarnings(warnings []core.MergeWarning) {
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, warnStyle.Render("warning: "+w.String()))
	}
}

// printNotes writes each fidelity note as a distinct stderr line.
func printNotes(notes []core.FidelityNote) {
	for _, n := range notes {
		fmt.Fprintln(os.Stderr, noteStyle.Render("note: "+n.String()))
	}
}

// hasSecretWarning reports whether the merge flagged secret-like MCP env vars.
func hasSecretWarning(warnings []core.MergeWarning) bool {
	for _, w := range warnings {
		if w.Kind == "mcp-env" {
			return true
		}
	}
	return false
}

// confirmSecrets gates the write behind an interactive prompt when
// secret-like env vars were flagged. Non-interactive runs (no TTY) and
// --yes proceed without asking; the warning has already been printed.
func confirmSecrets(cmd *cobra.Command, warnings []core.MergeWarning) (bool, error) {
	if !hasSecretWarning(warnings) {
		return true, nil
	}
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true, nil
	}
	if !isInteractive() {
		return true, nil
	}

	var lines []string
	lines = append(lines, "Secret-like MCP environment variables detected:")
	for _, w := range warnings {
		if w.Kind == "mcp-env" {
			lines = append(lines, w.Message)
		}
	}
	lines = append(lines, "", "Write converted config anyway?")
	return tui.Confirm(strings.Join(lines, "\n"))
}

// isInteractive reports whether stdin is a terminal.
func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// printBundleSummary prints per-kind emitted file counts plus config entries.
func printBundleSummary(t target.Target, b *target.Bundle) {
	counts := map[target.FileKind]int{}
	skillDirs := map[string]bool{}
	for _, f := range b.Files {
		if f.Kind == target.FileSkill {
			// Count skills as directories, not individual files. Paths are
			// <skill-root>/<skill-name>/<rel> with a two-segment root.
			parts := strings.SplitN(f.Path, "/", 4)
			if len(parts) >= 3 {
				skillDirs[parts[2]] = true
			}
			continue
		}
		counts[f.Kind]++
	}

	mcpCount := 0
	if b.Config != nil {
		mcpCount = len(b.Config.Entries)
	}

	fmt.Fprintln(os.Stdout, okStyle.Render(fmt.Sprintf(
		"Converted for %s: %d command(s), %d agent(s), %d skill(s), %d MCP entr(ies)",
		t.DisplayName(), counts[target.FileCommand], counts[target.FileAgent],
		len(skillDirs), mcpCount)))
}
