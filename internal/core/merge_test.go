package core

import (
	"reflect"
	"strings"
	"testing"
)

func cmdNamed(name, desc string) Command {
	return Command{Name: name, Description: desc}
}

func TestMerge_Union(t *testing.T) {
	personal := &PluginSource{
		Name:     "personal",
		Commands: []Command{cmdNamed("alpha", "from personal")},
		Agents:   []Agent{{Name: "reviewer", Description: "d"}},
	}
	plug := &PluginSource{
		Name:     "tools",
		Commands: []Command{cmdNamed("beta", "from tools")},
		Skills:   []Skill{{Name: "web-design", Description: "d"}},
	}

	merged, warnings := Merge([]*PluginSource{personal, plug})
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(merged.Commands) != 2 || len(merged.Agents) != 1 || len(merged.Skills) != 1 {
		t.Errorf("counts = %d commands, %d agents, %d skills",
			len(merged.Commands), len(merged.Agents), len(merged.Skills))
	}
}

func TestMerge_CommandCollisionLastWins(t *testing.T) {
	personal := &PluginSource{
		Name: "personal",
		Commands: []Command{
			cmdNamed("deploy", "personal deploy"),
			cmdNamed("other", "untouched"),
		},
	}
	plug := &PluginSource{
		Name:     "plugin-a",
		Commands: []Command{cmdNamed("deploy", "plugin deploy")},
	}

	merged, warnings := Merge([]*PluginSource{personal, plug})

	if len(merged.Commands) != 2 {
		t.Fatalf("expected 2 commands after collision, got %d", len(merged.Commands))
	}
	// Later source wins, first-seen position kept.
	if merged.Commands[0].Name != "deploy" || merged.Commands[0].Description != "plugin deploy" {
		t.Errorf("commands[0] = %+v", merged.Commands[0])
	}
	if merged.Commands[1].Name != "other" {
		t.Errorf("commands[1] = %+v", merged.Commands[1])
	}

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	w := warnings[0]
	if w.Kind != "command" || w.Name != "deploy" {
		t.Errorf("warning = %+v", w)
	}
}

func TestMerge_McpCollision(t *testing.T) {
	a := &PluginSource{
		Name:       "a",
		McpServers: map[string]McpServer{"files": {Name: "files", Command: "/a/files"}},
	}
	b := &PluginSource{
		Name:       "b",
		McpServers: map[string]McpServer{"files": {Name: "files", Command: "/b/files"}},
	}

	merged, warnings := Merge([]*PluginSource{a, b})

	if merged.McpServers["files"].Command != "/b/files" {
		t.Errorf("server = %+v", merged.McpServers["files"])
	}
	if len(warnings) != 1 || warnings[0].Kind != "mcp" {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestMerge_HooksConcatenated(t *testing.T) {
	a := &PluginSource{Name: "a", Hooks: []Hook{{Event: "PreToolUse", Command: "a.sh"}}}
	b := &PluginSource{Name: "b", Hooks: []Hook{{Event: "PreToolUse", Command: "b.sh"}}}

	merged, _ := Merge([]*PluginSource{a, b})
	if len(merged.Hooks) != 2 {
		t.Fatalf("expected 2 hooks, got %d", len(merged.Hooks))
	}
	if merged.Hooks[0].Command != "a.sh" || merged.Hooks[1].Command != "b.sh" {
		t.Errorf("hooks = %+v", merged.Hooks)
	}
}

func TestMerge_SecretEnvWarning(t *testing.T) {
	src := &PluginSource{
		Name: "p",
		McpServers: map[string]McpServer{
			"search": {Name: "search", Command: "search", Env: map[string]string{"API_KEY": "x"}},
			"db":     {Name: "db", Command: "db", Env: map[string]string{"SECRET_TOKEN": "y"}},
			"web":    {Name: "web", Command: "web", Env: map[string]string{"PORT": "8080", "HOST": "localhost"}},
		},
	}

	_, warnings := Merge([]*PluginSource{src})

	var secret []MergeWarning
	for _, w := range warnings {
		if w.Kind == "mcp-env" {
			secret = append(secret, w)
		}
	}
	if len(secret) != 1 {
		t.Fatalf("expected 1 aggregated secret warning, got %d: %v", len(secret), warnings)
	}
	msg := secret[0].Message
	for _, want := range []string{"db", "search"} {
		if !strings.Contains(msg, want) {
			t.Errorf("warning %q should mention server %q", msg, want)
		}
	}
	if strings.Contains(msg, "web") {
		t.Errorf("warning %q should not flag server with benign env", msg)
	}
}

func TestMerge_Deterministic(t *testing.T) {
	mk := func() []*PluginSource {
		return []*PluginSource{
			{
				Name:     "personal",
				Commands: []Command{cmdNamed("x", "d")},
				McpServers: map[string]McpServer{
					"b": {Name: "b", Env: map[string]string{"TOKEN": "t"}},
					"a": {Name: "a", Env: map[string]string{"API_KEY": "k"}},
				},
			},
			{
				Name:       "plug",
				Commands:   []Command{cmdNamed("x", "d2")},
				McpServers: map[string]McpServer{"a": {Name: "a"}, "c": {Name: "c"}},
			},
		}
	}

	first, firstWarn := Merge(mk())
	for i := 0; i < 10; i++ {
		got, gotWarn := Merge(mk())
		if !reflect.DeepEqual(got, first) {
			t.Fatal("merged output differs between runs")
		}
		if !reflect.DeepEqual(gotWarn, firstWarn) {
			t.Fatalf("warning order differs between runs: %v vs %v", gotWarn, firstWarn)
		}
	}
}
