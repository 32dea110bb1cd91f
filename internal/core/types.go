// Package core provides the plugin conversion engine for plugport.
// It has zero UI dependencies and is independently testable.
//
// The engine is a pipeline: Load (or LoadPersonal) produces a PluginSource,
// Merge combines several of them, and a target emitter (internal/core/target)
// turns the merged source into a Bundle of files that the writer persists.
package core

// ModelInherit is the sentinel model value meaning "use the host default".
// It must never be materialized as a literal model id in converted output;
// emitters omit the model field instead.
const ModelInherit = "inherit"

// PluginSource is one loaded plugin or personal-config tree. It is built by
// the loader and read-only afterward.
type PluginSource struct {
	Name       string
	RootPath   string
	Version    string
	Commands   []Command
	Agents     []Agent
	Skills     []Skill
	Hooks      []Hook
	McpServers map[string]McpServer
}

// Command is a slash command: frontmatter plus a raw markdown template body.
type Command struct {
	Name         string
	Description  string
	Model        string // "" or ModelInherit means no explicit override
	DisableModel bool   // disable-model-invocation: manual use only
	AllowedTools []string
	Body         string
	Extra        map[string]any
	FilePath     string // origin, for error messages only
}

// Agent is a subagent definition: frontmatter plus a system-prompt body.
type Agent struct {
	Name        string
	Description string
	Model       string
	Tools       []string
	Body        string
	Extra       map[string]any
	FilePath    string
}

// Skill is a directory of files. The primary SKILL.md body is subject to
// text rewriting; other files are copied verbatim unless they match the
// target's prose globs.
type Skill struct {
	Name        string
	Description string
	DirPath     string
	Files       []SkillFile
	Extra       map[string]any
}

// SkillFile is one file inside a skill directory, addressed relative to the
// skill root with forward slashes.
type SkillFile struct {
	Rel     string
	Content []byte
}

// Hook is a lifecycle trigger. Neither supported target can represent hooks;
// emitters drop them and record a fidelity note.
type Hook struct {
	Event   string
	Matcher string
	Command string
}

// McpServer is an MCP server declaration from a plugin manifest or .mcp.json.
type McpServer struct {
	Name    string
	Command string
	Args    []string
	URL     string
	Type    string // remote transport hint: "http", "sse"
	Env     map[string]string
}

// IsStdio reports whether the server uses stdio transport.
func (m McpServer) IsStdio() bool { return m.Command != "" }

// HasModel reports whether the command carries a concrete model override.
func (c Command) HasModel() bool { return c.Model != "" && c.Model != ModelInherit }

// HasModel reports whether the agent carries a concrete model override.
func (a Agent) HasModel() bool { return a.Model != "" && a.Model != ModelInherit }

// PrimaryFile returns the SKILL.md content, or nil if the skill has none.
func (s Skill) PrimaryFile() *SkillFile {
	for i := range s.Files {
		if s.Files[i].Rel == "SKILL.md" {
			return &s.Files[i]
		}
	}
	return nil
}
