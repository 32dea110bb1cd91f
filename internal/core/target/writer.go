package target

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tailscale/hujson"
)

// WriteBundle persists a Bundle under outDir. Bundles are emitted fully in
// memory before any write starts, so a bundle is always safe to write
// blindly; individual files land atomically (temp file + rename) and config
// entries are merged into any existing config file with comments preserved.
func WriteBundle(b *Bundle, outDir string) error {
	for _, f := range b.Files {
		dst := filepath.Join(outDir, filepath.FromSlash(f.Path))
		if err := writeFileAtomic(dst, f.Content); err != nil {
			return fmt.Errorf("writing %s: %w", f.Path, err)
		}
	}

	if b.Config != nil {
		if err := mergeConfig(b.Config, outDir); err != nil {
			return err
		}
	}

	return nil
}

// mergeConfig patches the target's config file with the bundle's entries.
// The file is parsed as JSONC/JWCC so user comments and formatting survive;
// existing entries with the same name are replaced.
func mergeConfig(cfg *ConfigPatch, outDir string) error {
	configPath := resolveConfigPath(cfg, outDir)

	content, err := readConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if content == "" {
		content = "{}"
	}

	root, err := hujson.Parse([]byte(content))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", configPath, err)
	}

	// Ensure the top-level config key object exists.
	topKeyPtr := "/" + jsonPointerEscape(cfg.Key)
	if root.Find(topKeyPtr) == nil {
		topKeyPatch := fmt.Sprintf(`[{"op":"add","path":%q,"value":{}}]`, topKeyPtr)
		if err := root.Patch([]byte(topKeyPatch)); err != nil {
			return fmt.Errorf("creating config key %q: %w", cfg.Key, err)
		}
	}

	for _, name := range sortedEntryNames(cfg.Entries) {
		valueJSON, err := json.MarshalIndent(cfg.Entries[name], "\t\t", "\t")
		if err != nil {
			return fmt.Errorf("encoding config entry %q: %w", name, err)
		}

		entryPtr := topKeyPtr + "/" + jsonPointerEscape(name)
		op := "add"
		if root.Find(entryPtr) != nil {
			op = "replace"
		}
		patch := fmt.Sprintf(`[{"op":%q,"path":%q,"value":%s}]`, op, entryPtr, valueJSON)
		if err := root.Patch([]byte(patch)); err != nil {
			return fmt.Errorf("writing config entry %q: %w", name, err)
		}
	}

	root.Format()
	removeTrailingCommas(&root)

	return writeFileAtomic(configPath, root.Pack())
}

// resolveConfigPath returns the config file to patch, preferring the
// alternative path when it already exists on disk.
func resolveConfigPath(cfg *ConfigPatch, outDir string) string {
	if cfg.PathAlt != "" {
		altPath := filepath.Join(outDir, cfg.PathAlt)
		if _, err := os.Stat(altPath); err == nil {
			return altPath
		}
	}
	return filepath.Join(outDir, cfg.Path)
}

// readConfigFile reads a config file. Returns empty string if not found.
func readConfigFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

// writeFileAtomic writes content via a temp file and rename, creating
// parent directories.
func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// jsonPointerEscape escapes a string for use as a JSON Pointer token (RFC 6901).
func jsonPointerEscape(s string) string {
	result := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '~':
			result = append(result, '~', '0')
		case '/':
			result = append(result, '~', '1')
		default:
			result = append(result, s[i])
		}
	}
	return string(result)
}

// removeTrailingCommas walks the JSONC AST and removes trailing commas.
func removeTrailingCommas(v *hujson.Value) {
	switch vv := v.Value.(type) {
	case *hujson.Object:
		for i := range vv.Members {
			removeTrailingCommas(&vv.Members[i].Name)
			removeTrailingCommas(&vv.Members[i].Value)
		}
		if len(vv.Members) > 0 {
			vv.Members[len(vv.Members)-1].Value.AfterExtra = nil
		}
	case *hujson.Array:
		for i := range vv.Elements {
			removeTrailingCommas(&vv.Elements[i])
		}
		if len(vv.Elements) > 0 {
			vv.Elements[len(vv.Elements)-1].AfterExtra = nil
		}
	}
}

func sortedEntryNames(m map[string]any) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
