package target

import (
	"strings"
	"testing"

	"github.com/avolkau/plugport/internal/core"
)

func TestCodex_EmitPrompt(t *testing.T) {
	src := &core.PluginSource{
		Name: "p",
		Commands: []core.Command{{
			Name:        "review",
			Description: "Run a code review",
			Body:        "Read .claude/config.md and summarize.\n",
			Extra:       map[string]any{"argument-hint": "<path>", "unrelated": "x"},
		}},
	}

	bundle, _, err := NewCodex().Emit(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(bundle.Files) != 1 {
		t.Fatalf("files = %d", len(bundle.Files))
	}

	f := bundle.Files[0]
	if f.Path != ".codex/prompts/review.md" {
		t.Errorf("path = %q", f.Path)
	}
	content := string(f.Content)
	if !strings.Contains(content, "description: Run a code review") {
		t.Errorf("content = %q", content)
	}
	if !strings.Contains(content, "argument-hint: <path>") {
		t.Errorf("argument-hint not carried: %q", content)
	}
	// Prompts carry description and argument-hint only.
	if strings.Contains(content, "unrelated") {
		t.Errorf("unexpected frontmatter key: %q", content)
	}
	if !strings.Contains(content, "Read .codex/config.md and summarize.") {
		t.Errorf("body not rewritten: %q", content)
	}
}

func TestCodex_ExcludePolicy(t *testing.T) {
	src := &core.PluginSource{
		Name: "p",
		Commands: []core.Command{{
			Name:         "manual-only",
			Description:  "d",
			DisableModel: true,
		}},
	}

	bundle, notes, err := NewCodex().Emit(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(bundle.Files) != 0 {
		t.Errorf("excluded command produced files: %v", bundle.Files)
	}
	if len(notes) != 1 || notes[0].Kind != "command" || notes[0].Name != "manual-only" {
		t.Errorf("notes = %v", notes)
	}
}

func TestCodex_FilteringInvariant(t *testing.T) {
	src := &core.PluginSource{
		Name: "p",
		Commands: []core.Command{
			{Name: "a", Description: "d"},
			{Name: "b", Description: "d", DisableModel: true},
			{Name: "c", Description: "d"},
			{Name: "d", Description: "d", DisableModel: true},
		},
	}

	bundle, notes, err := NewCodex().Emit(src)
	if err != nil {
		t.Fatal(err)
	}

	excluded := 0
	for _, n := range notes {
		if n.Kind == "command" && strings.Contains(n.Reason, "excluded") {
			excluded++
		}
	}
	if len(bundle.Files) != len(src.Commands)-excluded {
		t.Errorf("emitted %d files for %d commands with %d exclusions",
			len(bundle.Files), len(src.Commands), excluded)
	}
	if excluded != 2 {
		t.Errorf("excluded = %d", excluded)
	}
}

func TestCodex_ModelDroppedWithNote(t *testing.T) {
	src := &core.PluginSource{
		Name: "p",
		Commands: []core.Command{{
			Name:        "slow",
			Description: "d",
			Model:       "opus",
		}},
	}

	bundle, notes, err := NewCodex().Emit(src)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(bundle.Files[0].Content), "model") {
		t.Errorf("model leaked into prompt: %q", bundle.Files[0].Content)
	}
	found := false
	for _, n := range notes {
		if n.Name == "slow" && strings.Contains(n.Reason, `model override "opus" dropped`) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected model-drop note, got %v", notes)
	}
}

func TestCodex_AgentsHooksMcpDropped(t *testing.T) {
	src := &core.PluginSource{
		Name:   "p",
		Agents: []core.Agent{{Name: "reviewer", Description: "d"}},
		Hooks:  []core.Hook{{Event: "PreToolUse", Command: "x.sh"}},
		McpServers: map[string]core.McpServer{
			"files": {Name: "files", Command: "files"},
		},
	}

	bundle, notes, err := NewCodex().Emit(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(bundle.Files) != 0 {
		t.Errorf("files = %v", bundle.Files)
	}
	if bundle.Config != nil {
		t.Errorf("config = %+v", bundle.Config)
	}

	kinds := map[string]int{}
	for _, n := range notes {
		kinds[n.Kind]++
	}
	if kinds["agent"] != 1 || kinds["hook"] != 1 || kinds["mcp"] != 1 {
		t.Errorf("note kinds = %v", kinds)
	}
}

func TestCodex_SkillEmitted(t *testing.T) {
	src := &core.PluginSource{
		Name: "p",
		Skills: []core.Skill{{
			Name:        "web-design",
			Description: "d",
			Files: []core.SkillFile{
				{Rel: "SKILL.md", Content: []byte("---\nname: web-design\ndescription: d\n---\nSee .claude/palette.md.\n")},
			},
		}},
	}

	bundle, _, err := NewCodex().Emit(src)
	if err != nil {
		t.Fatal(err)
	}
	f := bundle.Files[0]
	if f.Path != ".agents/skills/web-design/SKILL.md" {
		t.Errorf("path = %q", f.Path)
	}
	if !strings.Contains(string(f.Content), ".codex/palette.md") {
		t.Errorf("prose not rewritten: %q", f.Content)
	}
}

func TestCodex_SlashRefSurfacesNote(t *testing.T) {
	src := &core.PluginSource{
		Name: "p",
		Commands: []core.Command{{
			Name:        "chain",
			Description: "d",
			Body:        "Then run /other-cmd to finish.\n",
		}},
	}

	bundle, notes, err := NewCodex().Emit(src)
	if err != nil {
		t.Fatal(err)
	}
	// Reference is left as-is; the note flags it.
	if !strings.Contains(string(bundle.Files[0].Content), "/other-cmd") {
		t.Errorf("reference was altered: %q", bundle.Files[0].Content)
	}
	found := false
	for _, n := range notes {
		if strings.Contains(n.Reason, "/other-cmd") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected rewrite-miss note, got %v", notes)
	}
}

func TestRegistry(t *testing.T) {
	names := Names()
	want := map[string]bool{"opencode": false, "codex": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, seen := range want {
		if !seen {
			t.Errorf("target %q not registered", n)
		}
	}

	tgt, err := Resolve("opencode")
	if err != nil {
		t.Fatal(err)
	}
	if tgt.Name() != "opencode" {
		t.Errorf("Name() = %q", tgt.Name())
	}

	if _, err := Resolve("nope"); err == nil {
		t.Error("expected error for unknown target")
	}
}
