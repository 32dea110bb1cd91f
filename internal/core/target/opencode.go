package target

import (
	"github.com/avolkau/plugport/internal/core"
	"github.com/avolkau/plugport/internal/core/rewrite"
)

// OpenCode implements the Target interface for the OpenCode AI coding tool.
//
// Layout: commands under .opencode/command/, agents under .opencode/agent/
// (mode: subagent), skills under .opencode/skills/, MCP servers merged into
// the "mcp" key of opencode.json (or opencode.jsonc when present).
//
// Command policy: include-as-manual. OpenCode commands are only ever run by
// explicit slash invocation, so a disable-model-invocation command loses
// nothing by being emitted.
type OpenCode struct {
	baseTarget
}

// NewOpenCode creates a configured OpenCode target.
func NewOpenCode() *OpenCode {
	return &OpenCode{baseTarget{
		name:        "opencode",
		displayName: "OpenCode",
		policy:      IncludeManual,
		commandDir:  ".opencode/command",
		agentDir:    ".opencode/agent",
		skillDir:    ".opencode/skills",
		proseGlobs:  []string{"**/*.md"},
	}}
}

// Rules returns a fresh OpenCode rewrite rule table.
func (o *OpenCode) Rules() *rewrite.Table { return rewrite.ForOpenCode() }

// Emit converts src into an OpenCode Bundle.
func (o *OpenCode) Emit(src *core.PluginSource) (*Bundle, []core.FidelityNote, error) {
	rules := o.Rules()

	bundle := &Bundle{Target: o.name}
	var notes []core.FidelityNote

	cmdFiles, cmdNotes := o.emitCommands(src, rules, o.commandFields)
	bundle.Files = append(bundle.Files, cmdFiles...)
	notes = append(notes, cmdNotes...)

	agentFiles, agentNotes := o.emitAgents(src, rules, o.agentFields)
	bundle.Files = append(bundle.Files, agentFiles...)
	notes = append(notes, agentNotes...)

	skillFiles, skillNotes := o.emitSkills(src, rules)
	bundle.Files = append(bundle.Files, skillFiles...)
	notes = append(notes, skillNotes...)

	notes = append(notes, o.noteToolScopes(src)...)
	notes = append(notes, o.dropHooks(src)...)

	if len(src.McpServers) > 0 {
		bundle.Config = &ConfigPatch{
			Path:    "opencode.json",
			PathAlt: "opencode.jsonc",
			Key:     "mcp",
			Entries: o.mcpEntries(src),
		}
	}

	return bundle, notes, nil
}

// commandFields builds OpenCode command frontmatter: description, plus
// model when the source set a concrete one. Unknown source keys are carried
// through — OpenCode ignores what it does not understand, and dropping them
// would lose information.
func (o *OpenCode) commandFields(c core.Command, model string) map[string]any {
	fields := map[string]any{
		"description": c.Description,
	}
	if model != "" {
		fields["model"] = model
	}
	for k, v := range c.Extra {
		fields[k] = v
	}
	return fields
}

// agentFields builds OpenCode agent frontmatter. Converted agents are
// always subagents: OpenCode's primary mode is its own built-in agent.
// Tool lists turn into OpenCode's enable-map form.
func (o *OpenCode) agentFields(a core.Agent, model string) map[string]any {
	fields := map[string]any{
		"description": a.Description,
		"mode":        "subagent",
	}
	if model != "" {
		fields["model"] = model
	}
	if len(a.Tools) > 0 {
		tools := make(map[string]any, len(a.Tools))
		for _, t := range a.Tools {
			tools[t] = true
		}
		fields["tools"] = tools
	}
	for k, v := range a.Extra {
		fields[k] = v
	}
	return fields
}

// mcpEntries maps servers field-by-field into OpenCode's connection shape:
// stdio servers become {type: local, command: [...]}, remote servers become
// {type: remote, url: ...}. Env is carried through unchanged as
// "environment" — flagging secrets is the merge step's job, not the
// emitter's.
func (o *OpenCode) mcpEntries(src *core.PluginSource) map[string]any {
	entries := make(map[string]any, len(src.McpServers))
	for _, name := range sortedNames(src.McpServers) {
		srv := src.McpServers[name]
		if srv.IsStdio() {
			entry := map[string]any{
				"type":    "local",
				"command": append([]string{srv.Command}, srv.Args...),
			}
			if len(srv.Env) > 0 {
				entry["environment"] = srv.Env
			}
			entries[name] = entry
			continue
		}
		entries[name] = map[string]any{
			"type": "remote",
			"url":  srv.URL,
		}
	}
	return entries
}

func init() { Register(NewOpenCode()) }
