package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// pluginManifest mirrors the .claude-plugin/plugin.json structure.
type pluginManifest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`

	// Optional path overrides for component directories.
	Commands string `json:"commands,omitempty"`
	Agents   string `json:"agents,omitempty"`
	Skills   string `json:"skills,omitempty"`

	// MCP servers declared inline in the manifest. Servers may also (or
	// instead) live in a top-level .mcp.json.
	McpServers map[string]mcpServerEntry `json:"mcpServers,omitempty"`
}

// mcpServerEntry mirrors one MCP server declaration in plugin.json or .mcp.json.
type mcpServerEntry struct {
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	URL     string            `json:"url,omitempty"`
	Type    string            `json:"type,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// loadManifest reads and validates plugin.json at the given path.
func loadManifest(path string) (*pluginManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var m pluginManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, loadErrorf(path, "parsing manifest: %v", err)
	}
	if m.Name == "" {
		return nil, loadErrorf(path, "plugin name is required in manifest")
	}
	return &m, nil
}

// loadMcpFile reads MCP server declarations from a .mcp.json file. A missing
// file yields an empty map.
func loadMcpFile(path, pluginRoot string) (map[string]McpServer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]McpServer{}, nil
		}
		return nil, &LoadError{Path: path, Err: err}
	}

	var raw struct {
		McpServers map[string]mcpServerEntry `json:"mcpServers"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, loadErrorf(path, "parsing MCP config: %v", err)
	}

	return convertMcpEntries(raw.McpServers, pluginRoot), nil
}

// convertMcpEntries turns raw manifest entries into McpServer values with
// ${CLAUDE_PLUGIN_ROOT} expanded in command, args, and env values.
func convertMcpEntries(entries map[string]mcpServerEntry, pluginRoot string) map[string]McpServer {
	result := make(map[string]McpServer, len(entries))
	for name, e := range entries {
		srv := McpServer{
			Name:    name,
			Command: expandPluginRoot(e.Command, pluginRoot),
			URL:     e.URL,
			Type:    e.Type,
		}
		for _, arg := range e.Args {
			srv.Args = append(srv.Args, expandPluginRoot(arg, pluginRoot))
		}
		if len(e.Env) > 0 {
			srv.Env = make(map[string]string, len(e.Env))
			for k, v := range e.Env {
				srv.Env[k] = expandPluginRoot(v, pluginRoot)
			}
		}
		result[name] = srv
	}
	return result
}

// expandPluginRoot replaces ${CLAUDE_PLUGIN_ROOT} with the plugin root path.
func expandPluginRoot(s, pluginRoot string) string {
	return strings.ReplaceAll(s, "${CLAUDE_PLUGIN_ROOT}", pluginRoot)
}

// hooksFile mirrors hooks/hooks.json: events mapping to matcher groups,
// each group carrying one or more command hooks.
type hooksFile struct {
	Hooks map[string][]hookMatcherGroup `json:"hooks"`
}

type hookMatcherGroup struct {
	Matcher string      `json:"matcher,omitempty"`
	Hooks   []hookEntry `json:"hooks"`
}

type hookEntry struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

// loadHooks reads hooks/hooks.json and flattens it into Hook values sorted
// by event then matcher then command for deterministic ordering. A missing
// file yields no hooks.
func loadHooks(path, pluginRoot string) ([]Hook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &LoadError{Path: path, Err: err}
	}

	var hf hooksFile
	if err := json.Unmarshal(data, &hf); err != nil {
		return nil, loadErrorf(path, "parsing hooks: %v", err)
	}

	var hooks []Hook
	for event, groups := range hf.Hooks {
		for _, g := range groups {
			for _, h := range g.Hooks {
				hooks = append(hooks, Hook{
					Event:   event,
					Matcher: g.Matcher,
					Command: expandPluginRoot(h.Command, pluginRoot),
				})
			}
		}
	}

	sort.Slice(hooks, func(i, j int) bool {
		if hooks[i].Event != hooks[j].Event {
			return hooks[i].Event < hooks[j].Event
		}
		if hooks[i].Matcher != hooks[j].Matcher {
			return hooks[i].Matcher < hooks[j].Matcher
		}
		return hooks[i].Command < hooks[j].Command
	})

	return hooks, nil
}

// resolveComponentDir applies a manifest path override, defaulting to the
// conventional directory name.
func resolveComponentDir(root, override, fallback string) string {
	if override != "" {
		return filepath.Join(root, override)
	}
	return filepath.Join(root, fallback)
}
