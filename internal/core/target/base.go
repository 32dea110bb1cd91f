package target

import (
	"fmt"
	"path"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/avolkau/plugport/internal/core"
	"github.com/avolkau/plugport/internal/core/rewrite"
)

// baseTarget carries the shared layout parameters and emission helpers.
// Concrete targets embed it and assemble Emit from the pieces they support.
type baseTarget struct {
	name        string
	displayName string
	policy      CommandPolicy

	commandDir string   // project-relative command output dir
	agentDir   string   // "" = target has no agent concept
	skillDir   string   // project-relative skill output dir
	proseGlobs []string // skill files whose text gets rewritten
}

func (b *baseTarget) Name() string                 { return b.name }
func (b *baseTarget) DisplayName() string          { return b.displayName }
func (b *baseTarget) CommandPolicy() CommandPolicy { return b.policy }

// emitCommands converts each command into one deterministic file. Under the
// Exclude policy, disable-model-invocation commands produce a note instead
// of a file.
//
// buildFields shapes the target frontmatter; it receives the command and the
// normalized model ("" means omit). Rewrite misses become notes.
func (b *baseTarget) emitCommands(src *core.PluginSource, rules *rewrite.Table,
	buildFields func(c core.Command, model string) map[string]any) ([]File, []core.FidelityNote) {

	var files []File
	var notes []core.FidelityNote

	for _, c := range src.Commands {
		if c.DisableModel && b.policy == Exclude {
			notes = append(notes, core.FidelityNote{
				Target: b.name,
				Kind:   "command",
				Name:   c.Name,
				Reason: "disable-model-invocation commands are excluded on this target",
			})
			continue
		}

		model, keep := rules.NormalizeModel(c.Model)
		if !keep {
			model = ""
		}
		if c.HasModel() && model == "" {
			notes = append(notes, core.FidelityNote{
				Target: b.name,
				Kind:   "command",
				Name:   c.Name,
				Reason: fmt.Sprintf("model override %q dropped (target files carry no model field)", c.Model),
			})
		}

		body, misses := rules.Apply(c.Body)
		notes = append(notes, missNotes(b.name, "command", c.Name, misses)...)

		content, err := core.RenderMarkdown(buildFields(c, model), body)
		if err != nil {
			// Frontmatter values come from parsed YAML; re-encoding them
			// cannot fail in practice. Surface it as a note rather than
			// aborting the whole pass.
			notes = append(notes, core.FidelityNote{
				Target: b.name, Kind: "command", Name: c.Name,
				Reason: fmt.Sprintf("frontmatter render failed: %v", err),
			})
			continue
		}

		files = append(files, File{
			Kind:    FileCommand,
			Path:    path.Join(b.commandDir, c.Name+".md"),
			Content: content,
		})
	}

	return files, notes
}

// emitAgents converts agents analogously to commands. Targets without an
// agent concept call dropAgents instead.
func (b *baseTarget) emitAgents(src *core.PluginSource, rules *rewrite.Table,
	buildFields func(a core.Agent, model string) map[string]any) ([]File, []core.FidelityNote) {

	var files []File
	var notes []core.FidelityNote

	for _, a := range src.Agents {
		model, keep := rules.NormalizeModel(a.Model)
		if !keep {
			model = ""
		}

		body, misses := rules.Apply(a.Body)
		notes = append(notes, missNotes(b.name, "agent", a.Name, misses)...)

		content, err := core.RenderMarkdown(buildFields(a, model), body)
		if err != nil {
			notes = append(notes, core.FidelityNote{
				Target: b.name, Kind: "agent", Name: a.Name,
				Reason: fmt.Sprintf("frontmatter render failed: %v", err),
			})
			continue
		}

		files = append(files, File{
			Kind:    FileAgent,
			Path:    path.Join(b.agentDir, a.Name+".md"),
			Content: content,
		})
	}

	return files, notes
}

// dropAgents records one note per agent for targets without subagents.
func (b *baseTarget) dropAgents(src *core.PluginSource) []core.FidelityNote {
	var notes []core.FidelityNote
	for _, a := range src.Agents {
		notes = append(notes, core.FidelityNote{
			Target: b.name,
			Kind:   "agent",
			Name:   a.Name,
			Reason: "target has no subagent concept; agent dropped",
		})
	}
	return notes
}

// emitSkills copies each skill directory under skillDir, keeping the skill
// name verbatim as the directory name (skills are referenced by path
// elsewhere). Files matching the prose globs get their text rewritten;
// everything else is copied byte-for-byte.
func (b *baseTarget) emitSkills(src *core.PluginSource, rules *rewrite.Table) ([]File, []core.FidelityNote) {
	var files []File
	var notes []core.FidelityNote

	for _, s := range src.Skills {
		for _, f := range s.Files {
			content := f.Content
			if b.isProse(f.Rel) {
				rewritten, misses := rules.Apply(string(f.Content))
				notes = append(notes, missNotes(b.name, "skill", s.Name, misses)...)
				content = []byte(rewritten)
			}
			files = append(files, File{
				Kind:    FileSkill,
				Path:    path.Join(b.skillDir, s.Name, f.Rel),
				Content: content,
			})
		}
	}

	return files, notes
}

// isProse reports whether a skill-relative path matches any prose glob.
func (b *baseTarget) isProse(rel string) bool {
	for _, g := range b.proseGlobs {
		if ok, err := doublestar.Match(g, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// noteToolScopes records a note per command whose allowed-tools scoping the
// target cannot enforce. The command is still emitted; only the permission
// scope is lost.
func (b *baseTarget) noteToolScopes(src *core.PluginSource) []core.FidelityNote {
	var notes []core.FidelityNote
	for _, c := range src.Commands {
		if c.DisableModel && b.policy == Exclude {
			continue // already dropped with its own note
		}
		if len(c.AllowedTools) > 0 {
			notes = append(notes, core.FidelityNote{
				Target: b.name,
				Kind:   "command",
				Name:   c.Name,
				Reason: "allowed-tools permission scope is not representable; command emitted without it",
			})
		}
	}
	return notes
}

// dropHooks records one note per hook. Neither supported target can run
// lifecycle hooks.
func (b *baseTarget) dropHooks(src *core.PluginSource) []core.FidelityNote {
	var notes []core.FidelityNote
	for _, h := range src.Hooks {
		notes = append(notes, core.FidelityNote{
			Target: b.name,
			Kind:   "hook",
			Name:   h.Event,
			Reason: fmt.Sprintf("target has no hook support; %s hook (matcher %q) dropped", h.Event, h.Matcher),
		})
	}
	return notes
}

// dropMcpServers records one note per server, in name order.
func (b *baseTarget) dropMcpServers(src *core.PluginSource) []core.FidelityNote {
	var notes []core.FidelityNote
	for _, name := range sortedNames(src.McpServers) {
		notes = append(notes, core.FidelityNote{
			Target: b.name,
			Kind:   "mcp",
			Name:   name,
			Reason: "target has no MCP configuration; server dropped",
		})
	}
	return notes
}

// missNotes converts rewrite misses into fidelity notes.
func missNotes(targetName, kind, name string, misses []rewrite.Miss) []core.FidelityNote {
	var notes []core.FidelityNote
	for _, m := range misses {
		notes = append(notes, core.FidelityNote{
			Target: targetName,
			Kind:   kind,
			Name:   name,
			Reason: fmt.Sprintf("%s reference %q has no equivalent on this target; left as-is", m.Kind, m.Text),
		})
	}
	return notes
}

func sortedNames(m map[string]core.McpServer) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
