package core

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// secretKeyPattern matches environment variable names that look like they
// carry credentials. Matching is by name only; values are never inspected
// or included in warnings.
var secretKeyPattern = regexp.MustCompile(`(?i)(key|token|secret|password|credential)`)

// Merge combines an ordered list of sources (personal config first, then
// installed plugins in install order) into one PluginSource named "merged".
//
// Entities are unioned per kind. On a name collision the later source wins,
// the entity keeps its first-seen position, and a MergeWarning is recorded —
// shadowing is expected in plugin ecosystems, so collisions are never fatal.
// Warnings come out in a deterministic order: collisions in encounter order,
// then at most one aggregated secret-env warning.
func Merge(sources []*PluginSource) (*PluginSource, []MergeWarning) {
	merged := &PluginSource{
		Name:       "merged",
		McpServers: map[string]McpServer{},
	}
	var warnings []MergeWarning

	cmdIdx := map[string]int{}
	agentIdx := map[string]int{}
	skillIdx := map[string]int{}
	mcpOwner := map[string]string{} // server name -> source that defined it

	for _, src := range sources {
		for _, c := range src.Commands {
			if i, ok := cmdIdx[c.Name]; ok {
				warnings = append(warnings, collisionWarning("command", c.Name, src.Name))
				merged.Commands[i] = c
				continue
			}
			cmdIdx[c.Name] = len(merged.Commands)
			merged.Commands = append(merged.Commands, c)
		}

		for _, a := range src.Agents {
			if i, ok := agentIdx[a.Name]; ok {
				warnings = append(warnings, collisionWarning("agent", a.Name, src.Name))
				merged.Agents[i] = a
				continue
			}
			agentIdx[a.Name] = len(merged.Agents)
			merged.Agents = append(merged.Agents, a)
		}

		for _, s := range src.Skills {
			if i, ok := skillIdx[s.Name]; ok {
				warnings = append(warnings, collisionWarning("skill", s.Name, src.Name))
				merged.Skills[i] = s
				continue
			}
			skillIdx[s.Name] = len(merged.Skills)
			merged.Skills = append(merged.Skills, s)
		}

		// Hooks have no name identity; concatenation in source order.
		merged.Hooks = append(merged.Hooks, src.Hooks...)

		for _, name := range sortedServerNames(src.McpServers) {
			if owner, ok := mcpOwner[name]; ok {
				warnings = append(warnings, MergeWarning{
					Kind:    "mcp",
					Name:    name,
					Message: fmt.Sprintf("overridden by source %q (was from %q)", src.Name, owner),
				})
			}
			mcpOwner[name] = src.Name
			merged.McpServers[name] = src.McpServers[name]
		}
	}

	if flagged := scanSecretEnv(sources); len(flagged) > 0 {
		warnings = append(warnings, MergeWarning{
			Kind: "mcp-env",
			Message: fmt.Sprintf("MCP server(s) %s declare secret-like environment variables; review before writing",
				strings.Join(flagged, ", ")),
		})
	}

	return merged, warnings
}

func collisionWarning(kind, name, winner string) MergeWarning {
	return MergeWarning{
		Kind:    kind,
		Name:    name,
		Message: fmt.Sprintf("overridden by source %q", winner),
	}
}

// scanSecretEnv returns the sorted, deduplicated names of MCP servers whose
// env mapping contains a secret-like key, across all sources.
func scanSecretEnv(sources []*PluginSource) []string {
	seen := map[string]bool{}
	var flagged []string
	for _, src := range sources {
		for name, srv := range src.McpServers {
			if seen[name] {
				continue
			}
			for envKey := range srv.Env {
				if secretKeyPattern.MatchString(envKey) {
					seen[name] = true
					flagged = append(flagged, name)
					break
				}
			}
		}
	}
	sort.Strings(flagged)
	return flagged
}

// sortedServerNames returns map keys in lexical order so merge output and
// warnings are stable across runs.
func sortedServerNames(m map[string]McpServer) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
