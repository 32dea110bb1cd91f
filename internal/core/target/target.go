// Package target defines the Target abstraction for plugport.
//
// A Target represents an AI coding host (OpenCode, Codex). Each target knows
// its own file layout, frontmatter schema, and rewrite rule table, and turns
// a PluginSource into a Bundle. Emission is a pure function of the source
// and the rule table — no I/O, no clock, no randomness — so re-running it on
// unchanged input yields byte-identical output. Writing the Bundle to disk
// is the writer's job (writer.go), never the emitter's.
package target

import (
	"fmt"
	"strings"

	"github.com/avolkau/plugport/internal/core"
	"github.com/avolkau/plugport/internal/core/rewrite"
)

// FileKind partitions emitted files by the entity kind they came from.
type FileKind string

const (
	FileCommand FileKind = "command"
	FileAgent   FileKind = "agent"
	FileSkill   FileKind = "skill"
)

// File is one emitted file record: a project-relative path (forward slashes)
// and its full content.
type File struct {
	Kind    FileKind
	Path    string
	Content []byte
}

// ConfigPatch is the target-defined config object of a Bundle: entries to be
// merged under Key in the target's config file. The writer owns the merge;
// emitters only shape the entries.
type ConfigPatch struct {
	Path    string // project-relative config file, e.g. "opencode.json"
	PathAlt string // alternative checked first on disk, e.g. "opencode.jsonc"
	Key     string // top-level key, e.g. "mcp"
	Entries map[string]any
}

// Bundle is the write-once output of one emission pass.
type Bundle struct {
	Target string
	Files  []File
	Config *ConfigPatch // nil when the target has no config-file entries
}

// CommandPolicy selects how a target treats commands with
// disable-model-invocation set. The policy is fixed per target, never
// per command.
type CommandPolicy int

const (
	// IncludeManual emits the command; it is reachable only by explicit
	// invocation in the target.
	IncludeManual CommandPolicy = iota
	// Exclude drops the command entirely and records a fidelity note.
	Exclude
)

func (p CommandPolicy) String() string {
	if p == Exclude {
		return "exclude"
	}
	return "include-manual"
}

// Target defines how one host consumes a converted plugin source.
type Target interface {
	// Identity
	Name() string        // machine name: "opencode", "codex"
	DisplayName() string // human name: "OpenCode", "Codex"

	// Policy for disable-model-invocation commands.
	CommandPolicy() CommandPolicy

	// Rules returns a fresh rewrite rule table. Each emission pass gets
	// its own instance; rule data is never shared or mutated.
	Rules() *rewrite.Table

	// Emit converts the (merged) source into a Bundle plus the fidelity
	// notes for everything the target could not represent.
	Emit(src *core.PluginSource) (*Bundle, []core.FidelityNote, error)
}

// --- Registry ---

var targets []Target

// Register adds a target to the global registry.
func Register(t Target) { targets = append(targets, t) }

// All returns all registered targets.
func All() []Target { return targets }

// ByName returns the target with the given machine name, if registered.
func ByName(name string) (Target, bool) {
	for _, t := range targets {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// Names returns the machine names of all registered targets.
func Names() []string {
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.Name()
	}
	return names
}

// Resolve returns the target for name or an error listing valid names.
func Resolve(name string) (Target, error) {
	t, ok := ByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown target %q; available: %s",
			name, strings.Join(Names(), ", "))
	}
	return t, nil
}
