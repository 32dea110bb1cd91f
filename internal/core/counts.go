package core

// Counts is a per-kind entity tally for a plugin tree.
type Counts struct {
	Commands   int
	Agents     int
	Skills     int
	Hooks      int
	McpServers int
}

// Total returns the sum across all kinds.
func (c Counts) Total() int {
	return c.Commands + c.Agents + c.Skills + c.Hooks + c.McpServers
}

// ComputeCounts tallies entities across the given sources. It is a pure
// function of its input; callers that need post-merge numbers should pass
// the merged source alone.
func ComputeCounts(sources ...*PluginSource) Counts {
	var c Counts
	for _, src := range sources {
		c.Commands += len(src.Commands)
		c.Agents += len(src.Agents)
		c.Skills += len(src.Skills)
		c.Hooks += len(src.Hooks)
		c.McpServers += len(src.McpServers)
	}
	return c
}
