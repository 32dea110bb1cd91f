package core

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	manifestRelPath = ".claude-plugin/plugin.json"
	skillFileName   = "SKILL.md"
)

// Load reads a plugin directory rooted at path and produces its PluginSource.
// The directory must contain a .claude-plugin/plugin.json manifest. Any parse
// problem is fatal and returned as a *LoadError naming the offending file.
func Load(path string) (*PluginSource, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, &LoadError{Path: absPath, Err: err}
	}
	if !info.IsDir() {
		return nil, loadErrorf(absPath, "plugin path must be a directory")
	}

	manifest, err := loadManifest(filepath.Join(absPath, manifestRelPath))
	if err != nil {
		return nil, err
	}

	src := &PluginSource{
		Name:     manifest.Name,
		RootPath: absPath,
		Version:  manifest.Version,
	}

	if err := loadTree(src, absPath, manifest); err != nil {
		return nil, err
	}

	// MCP servers: inline manifest entries first, then .mcp.json overlays.
	src.McpServers = convertMcpEntries(manifest.McpServers, absPath)
	fromFile, err := loadMcpFile(filepath.Join(absPath, ".mcp.json"), absPath)
	if err != nil {
		return nil, err
	}
	for name, srv := range fromFile {
		src.McpServers[name] = srv
	}

	return src, nil
}

// loadTree populates commands, agents, skills, and hooks from the
// conventional subdirectories (or manifest overrides).
func loadTree(src *PluginSource, root string, manifest *pluginManifest) error {
	var cmdOverride, agentOverride, skillOverride string
	if manifest != nil {
		cmdOverride = manifest.Commands
		agentOverride = manifest.Agents
		skillOverride = manifest.Skills
	}

	commands, err := loadCommands(resolveComponentDir(root, cmdOverride, "commands"))
	if err != nil {
		return err
	}
	src.Commands = commands

	agents, err := loadAgents(resolveComponentDir(root, agentOverride, "agents"))
	if err != nil {
		return err
	}
	src.Agents = agents

	skills, err := loadSkills(resolveComponentDir(root, skillOverride, "skills"))
	if err != nil {
		return err
	}
	src.Skills = skills

	hooks, err := loadHooks(filepath.Join(root, "hooks", "hooks.json"), root)
	if err != nil {
		return err
	}
	src.Hooks = hooks

	return nil
}

// loadCommands reads every .md file in dir as a command. A missing directory
// yields no commands. Duplicate names within the directory are fatal.
func loadCommands(dir string) ([]Command, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &LoadError{Path: dir, Err: err}
	}

	var commands []Command
	seen := make(map[string]string) // name -> file that defined it

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		fm, err := splitFrontmatter(raw, path)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}

		cmd := Command{
			Name:         fm.str("name"),
			Description:  fm.str("description"),
			Model:        fm.str("model"),
			DisableModel: fm.boolean("disable-model-invocation"),
			AllowedTools: fm.list("allowed-tools"),
			Body:         fm.Body,
			Extra:        fm.extra(),
			FilePath:     path,
		}
		if cmd.Name == "" {
			cmd.Name = strings.TrimSuffix(entry.Name(), ".md")
		}
		if cmd.Description == "" {
			return nil, loadErrorf(path, "command %q missing description in frontmatter", cmd.Name)
		}
		if prev, dup := seen[cmd.Name]; dup {
			return nil, loadErrorf(path, "duplicate command name %q (also defined in %s)", cmd.Name, prev)
		}
		seen[cmd.Name] = path

		commands = append(commands, cmd)
	}

	sort.Slice(commands, func(i, j int) bool { return commands[i].Name < commands[j].Name })
	return commands, nil
}

// loadAgents reads every .md file in dir as an agent definition.
func loadAgents(dir string) ([]Agent, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &LoadError{Path: dir, Err: err}
	}

	var agents []Agent
	seen := make(map[string]string)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		fm, err := splitFrontmatter(raw, path)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}

		agent := Agent{
			Name:        fm.str("name"),
			Description: fm.str("description"),
			Model:       fm.str("model"),
			Tools:       fm.list("tools"),
			Body:        fm.Body,
			Extra:       fm.extra(),
			FilePath:    path,
		}
		if agent.Name == "" {
			agent.Name = strings.TrimSuffix(entry.Name(), ".md")
		}
		if agent.Description == "" {
			return nil, loadErrorf(path, "agent %q missing description in frontmatter", agent.Name)
		}
		if prev, dup := seen[agent.Name]; dup {
			return nil, loadErrorf(path, "duplicate agent name %q (also defined in %s)", agent.Name, prev)
		}
		seen[agent.Name] = path

		agents = append(agents, agent)
	}

	sort.Slice(agents, func(i, j int) bool { return agents[i].Name < agents[j].Name })
	return agents, nil
}

// loadSkills reads every subdirectory of dir containing a SKILL.md as a
// skill, pulling the whole directory tree into memory. Subdirectories
// without a SKILL.md are ignored.
func loadSkills(dir string) ([]Skill, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &LoadError{Path: dir, Err: err}
	}

	var skills []Skill
	seen := make(map[string]string)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		skillDir := filepath.Join(dir, entry.Name())
		skillMd := filepath.Join(skillDir, skillFileName)
		if _, err := os.Stat(skillMd); err != nil {
			continue
		}

		raw, err := os.ReadFile(skillMd)
		if err != nil {
			return nil, &LoadError{Path: skillMd, Err: err}
		}
		fm, err := splitFrontmatter(raw, skillMd)
		if err != nil {
			return nil, &LoadError{Path: skillMd, Err: err}
		}

		skill := Skill{
			Name:        fm.str("name"),
			Description: fm.str("description"),
			DirPath:     skillDir,
			Extra:       fm.extra(),
		}
		if skill.Name == "" {
			skill.Name = entry.Name()
		}
		if skill.Description == "" {
			return nil, loadErrorf(skillMd, "skill %q missing description in frontmatter", skill.Name)
		}
		if prev, dup := seen[skill.Name]; dup {
			return nil, loadErrorf(skillMd, "duplicate skill name %q (also defined in %s)", skill.Name, prev)
		}
		seen[skill.Name] = skillMd

		files, err := readSkillFiles(skillDir)
		if err != nil {
			return nil, err
		}
		skill.Files = files

		skills = append(skills, skill)
	}

	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills, nil
}

// readSkillFiles loads every regular file under skillDir, sorted by relative
// path so the in-memory model is deterministic regardless of walk order.
func readSkillFiles(skillDir string) ([]SkillFile, error) {
	var files []SkillFile

	err := filepath.WalkDir(skillDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(skillDir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files = append(files, SkillFile{
			Rel:     filepath.ToSlash(rel),
			Content: data,
		})
		return nil
	})
	if err != nil {
		return nil, &LoadError{Path: skillDir, Err: err}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, nil
}
