// Package rewrite defines the per-target rewrite rule tables: ordered path
// substitutions, in-body reference rewrites, and model-name normalization.
//
// A Table is pure data plus a small interpreter. Rule application order is
// fixed: path rules run before reference rules (a reference may itself
// contain a path), and within the path list home-relative prefixes come
// before project-relative ones so the longer prefix always wins. Applying a
// table to already-rewritten text is a no-op.
package rewrite

import (
	"regexp"
	"strings"
)

// PathRule is one ordered text substitution, applied to every occurrence.
type PathRule struct {
	From string
	To   string
}

// RefRule rewrites an in-body reference via a regexp and a replacement
// template ($1, $2 expansion per regexp.ReplaceAllString).
type RefRule struct {
	Pattern *regexp.Regexp
	Replace string
}

// Miss records a reference the table recognized in the source syntax but
// could not rewrite because the target has no equivalent concept. The text
// is left untouched; an incorrect guess is worse than a stale reference a
// human can grep for.
type Miss struct {
	Kind string // "slash-command" or "agent-ref"
	Text string // the matched reference as it appears in the body
}

// Table is the declarative rewrite rule set for one target.
type Table struct {
	Target string

	// Paths are applied first, in order, globally.
	Paths []PathRule

	// SlashRef and AgentRef rewrite command and agent references. A nil
	// rule means the target has no equivalent concept; matches of the
	// source syntax are reported as misses instead.
	SlashRef *RefRule
	AgentRef *RefRule

	// Models maps source model identifiers to target identifiers. The
	// sentinel values ("", "inherit", "default") always normalize to
	// "omit the field"; they never appear as keys here.
	Models map[string]string

	// OmitModels drops every model identifier, concrete or not, for
	// targets whose files carry no model field at all.
	OmitModels bool
}

// Source-syntax reference patterns, shared by all tables so that misses are
// detected uniformly.
var (
	// /name or /plugin:name at a word boundary.
	slashRefPattern = regexp.MustCompile(`(^|[\s(])/([a-zA-Z0-9_-]+:)?([a-zA-Z0-9_-]+)`)

	// @agent-name inline invocation.
	agentRefPattern = regexp.MustCompile(`@agent-([a-zA-Z0-9_-]+)`)
)

// Apply runs the full rule set over body text and returns the rewritten text
// plus any misses. Reapplying the result yields identical text.
func (t *Table) Apply(text string) (string, []Miss) {
	for _, r := range t.Paths {
		text = strings.ReplaceAll(text, r.From, r.To)
	}

	var misses []Miss

	if t.SlashRef != nil {
		text = t.SlashRef.Pattern.ReplaceAllString(text, t.SlashRef.Replace)
	} else {
		for _, m := range slashRefPattern.FindAllString(text, -1) {
			misses = append(misses, Miss{Kind: "slash-command", Text: strings.TrimSpace(m)})
		}
	}

	if t.AgentRef != nil {
		text = t.AgentRef.Pattern.ReplaceAllString(text, t.AgentRef.Replace)
	} else {
		for _, m := range agentRefPattern.FindAllString(text, -1) {
			misses = append(misses, Miss{Kind: "agent-ref", Text: m})
		}
	}

	return text, misses
}

// NormalizeModel maps a source model identifier to the target's identifier.
// The second return value reports whether the field should be emitted at
// all: sentinels normalize to omission, never to a literal string. Unknown
// concrete identifiers pass through unchanged.
func (t *Table) NormalizeModel(model string) (string, bool) {
	switch model {
	case "", "inherit", "default":
		return "", false
	}
	if t.OmitModels {
		return "", false
	}
	if mapped, ok := t.Models[model]; ok {
		return mapped, true
	}
	return model, true
}

// ForOpenCode returns a fresh rule table for the OpenCode target. Each
// caller gets its own instance; tables are never shared between emitters.
func ForOpenCode() *Table {
	return &Table{
		Target: "opencode",
		Paths: []PathRule{
			// Home-relative before project-relative: "~/.claude/" contains
			// ".claude/" and must be consumed first.
			{From: "~/.claude/", To: "~/.config/opencode/"},
			{From: ".claude/", To: ".opencode/"},
		},
		SlashRef: &RefRule{
			// OpenCode keeps slash invocation but has no plugin namespace;
			// /plugin:cmd collapses to /cmd.
			Pattern: regexp.MustCompile(`(^|[\s(])/([a-zA-Z0-9_-]+:)?([a-zA-Z0-9_-]+)`),
			Replace: `$1/$3`,
		},
		AgentRef: &RefRule{
			// @agent-reviewer becomes OpenCode's @reviewer mention.
			Pattern: agentRefPattern,
			Replace: `@$1`,
		},
		Models: map[string]string{
			"sonnet": "anthropic/claude-sonnet-4-5",
			"opus":   "anthropic/claude-opus-4-1",
			"haiku":  "anthropic/claude-haiku-4-5",
		},
	}
}

// ForCodex returns a fresh rule table for the Codex target. Codex prompts
// have no slash-command or subagent reference syntax, so those rules are
// absent and matches surface as misses.
func ForCodex() *Table {
	return &Table{
		Target: "codex",
		Paths: []PathRule{
			{From: "~/.claude/", To: "~/.codex/"},
			{From: ".claude/", To: ".codex/"},
		},
		OmitModels: true,
	}
}
