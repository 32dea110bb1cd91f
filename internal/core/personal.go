package core

import (
	"os"
	"path/filepath"
)

// personalSourceName is the source name used for a personal-config tree.
const personalSourceName = "personal"

// DefaultPersonalRoot returns the conventional personal-config location
// (~/.claude), honoring a PLUGPORT_CONFIG override for tests and unusual
// setups.
func DefaultPersonalRoot() string {
	if override := os.Getenv("PLUGPORT_CONFIG"); override != "" {
		return override
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".claude"
	}
	return filepath.Join(home, ".claude")
}

// LoadPersonal reads a personal-config tree: the same layout as a plugin
// (commands/, agents/, skills/, hooks/hooks.json, .mcp.json) minus the
// manifest. A missing root yields an empty source rather than an error, so
// the sync path works for users without a personal config.
func LoadPersonal(root string) (*PluginSource, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &LoadError{Path: root, Err: err}
	}

	src := &PluginSource{
		Name:       personalSourceName,
		RootPath:   absRoot,
		McpServers: map[string]McpServer{},
	}

	if info, err := os.Stat(absRoot); err != nil || !info.IsDir() {
		return src, nil
	}

	if err := loadTree(src, absRoot, nil); err != nil {
		return nil, err
	}

	servers, err := loadMcpFile(filepath.Join(absRoot, ".mcp.json"), absRoot)
	if err != nil {
		return nil, err
	}
	src.McpServers = servers

	return src, nil
}
