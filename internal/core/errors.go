package core

import "fmt"

// LoadError is a fatal parse or validation failure during source loading.
// It always identifies the offending file and aborts the run before any
// emission happens.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// loadErrorf builds a LoadError with a formatted message.
func loadErrorf(path, format string, args ...any) error {
	return &LoadError{Path: path, Err: fmt.Errorf(format, args...)}
}

// MergeWarning is a non-fatal condition detected while merging sources:
// a name collision between sources, or secret-like MCP environment keys.
// Warnings accumulate and are surfaced to the caller, never swallowed.
type MergeWarning struct {
	Kind    string // "command", "agent", "skill", "hook", "mcp", "mcp-env"
	Name    string // entity name, or "" for aggregated warnings
	Message string
}

func (w MergeWarning) String() string {
	if w.Name == "" {
		return w.Message
	}
	return fmt.Sprintf("%s %q: %s", w.Kind, w.Name, w.Message)
}

// FidelityNote records information the target cannot represent: a dropped
// entity kind, a stripped field, or a reference left unrewritten. Notes are
// surfaced in the run summary, never silently dropped.
type FidelityNote struct {
	Target string
	Kind   string // entity kind the note refers to
	Name   string // entity name
	Reason string
}

func (n FidelityNote) String() string {
	return fmt.Sprintf("[%s] %s %q: %s", n.Target, n.Kind, n.Name, n.Reason)
}
