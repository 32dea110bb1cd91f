package target

import (
	"github.com/avolkau/plugport/internal/core"
	"github.com/avolkau/plugport/internal/core/rewrite"
)

// Codex implements the Target interface for the Codex CLI.
//
// Codex is the narrow target: commands become custom prompts under
// .codex/prompts/, skills go to the shared .agents/skills/ directory, and
// everything else (agents, hooks, MCP servers, model overrides) is dropped
// with a fidelity note.
//
// Command policy: exclude. Prompts have no notion of assistant-triggered
// commands, and a disable-model-invocation command that exists purely for
// manual workflows is judged closer in intent to "not part of the prompt
// catalog" — the note keeps the drop visible.
type Codex struct {
	baseTarget
}

// NewCodex creates a configured Codex target.
func NewCodex() *Codex {
	return &Codex{baseTarget{
		name:        "codex",
		displayName: "Codex",
		policy:      Exclude,
		commandDir:  ".codex/prompts",
		skillDir:    ".agents/skills",
		proseGlobs:  []string{"**/*.md"},
	}}
}

// Rules returns a fresh Codex rewrite rule table.
func (c *Codex) Rules() *rewrite.Table { return rewrite.ForCodex() }

// Emit converts src into a Codex Bundle.
func (c *Codex) Emit(src *core.PluginSource) (*Bundle, []core.FidelityNote, error) {
	rules := c.Rules()

	bundle := &Bundle{Target: c.name}
	var notes []core.FidelityNote

	cmdFiles, cmdNotes := c.emitCommands(src, rules, c.promptFields)
	bundle.Files = append(bundle.Files, cmdFiles...)
	notes = append(notes, cmdNotes...)

	notes = append(notes, c.dropAgents(src)...)

	skillFiles, skillNotes := c.emitSkills(src, rules)
	bundle.Files = append(bundle.Files, skillFiles...)
	notes = append(notes, skillNotes...)

	notes = append(notes, c.noteToolScopes(src)...)
	notes = append(notes, c.dropHooks(src)...)
	notes = append(notes, c.dropMcpServers(src)...)

	return bundle, notes, nil
}

// promptFields builds Codex prompt frontmatter. Prompts carry a description
// and nothing else; the model parameter is always "" here because the Codex
// rule table omits all models.
func (c *Codex) promptFields(cmd core.Command, model string) map[string]any {
	_ = model
	fields := map[string]any{
		"description": cmd.Description,
	}
	if hint, ok := cmd.Extra["argument-hint"]; ok {
		fields["argument-hint"] = hint
	}
	return fields
}

func init() { Register(NewCodex()) }
