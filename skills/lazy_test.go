package skills

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youssefsiam38/agentbudget/config"
	"github.com/youssefsiam38/agentbudget/tokens"
)

func makeEntry(name, description, content string) Entry {
	return Entry{
		Skill: Skill{
			Name:        name,
			Description: description,
			Content:     content,
			FilePath:    "/skills/" + name + "/SKILL.md",
			BaseDir:     "/skills/" + name,
		},
		Frontmatter: map[string]any{},
		Metadata:    map[string]any{},
	}
}

var catalog = []Skill{
	{Name: "weather", Description: "Get weather", Content: "Full weather skill content here..."},
	{Name: "github", Description: "GitHub integration", Content: "Full GitHub skill content here..."},
}

func TestResolveLazyLoadingEnabled(t *testing.T) {
	assert.False(t, ResolveLazyLoadingEnabled(nil))
	assert.False(t, ResolveLazyLoadingEnabled(&config.Config{}))

	cfg := &config.Config{Agents: &config.AgentsConfig{Defaults: &config.AgentDefaults{
		Skills: &config.SkillsConfig{LazyLoading: config.Bool(true)},
	}}}
	assert.True(t, ResolveLazyLoadingEnabled(cfg))

	cfg.Agents.Defaults.Skills.LazyLoading = config.Bool(false)
	assert.False(t, ResolveLazyLoadingEnabled(cfg))
}

func TestBuildCompactIndex(t *testing.T) {
	assert.Equal(t, "", BuildCompactIndex(nil))
	assert.Equal(t, "", BuildCompactIndex([]Entry{}))

	index := BuildCompactIndex([]Entry{
		makeEntry("weather", "Get weather forecasts", "long body"),
		makeEntry("github", "Manage GitHub issues and PRs", "long body"),
	})

	assert.Contains(t, index, "**weather**: Get weather forecasts")
	assert.Contains(t, index, "**github**: Manage GitHub issues and PRs")
	assert.Contains(t, index, LoadSkillToolName)
	assert.NotContains(t, index, "long body")
	assert.Less(t, strings.Index(index, "weather"), strings.Index(index, "github"), "input order is kept")
}

func TestBuildCompactIndex_MuchSmallerThanContent(t *testing.T) {
	long := strings.Repeat("x", 5000)
	entries := []Entry{
		makeEntry("skill1", "Short description", long),
		makeEntry("skill2", "Another skill", long),
		makeEntry("skill3", "Third skill", long),
	}

	full := make([]string, 0, len(entries))
	for _, e := range entries {
		full = append(full, e.Skill.Content)
	}
	fullLen := len(strings.Join(full, "\n"))

	assert.Less(t, float64(len(BuildCompactIndex(entries))), float64(fullLen)*0.1)
}

func TestBuildFullPrompt(t *testing.T) {
	assert.Equal(t, "", BuildFullPrompt(nil))

	prompt := BuildFullPrompt([]Entry{makeEntry("weather", "Get weather", "Call the forecast API.")})
	assert.Contains(t, prompt, "### weather")
	assert.Contains(t, prompt, "Call the forecast API.")
	assert.NotContains(t, prompt, LoadSkillToolName)
}

func TestResolveContent(t *testing.T) {
	res := ResolveContent("weather", catalog)
	assert.True(t, res.Found)
	assert.Equal(t, "Full weather skill content here...", res.Content)

	res = ResolveContent("  Weather ", catalog)
	assert.True(t, res.Found)

	res = ResolveContent("GITHUB", catalog)
	assert.True(t, res.Found)
	assert.Equal(t, "Full GitHub skill content here...", res.Content)
}

func TestResolveContent_NotFound(t *testing.T) {
	res := ResolveContent("unknown", catalog)
	assert.False(t, res.Found)
	assert.Contains(t, res.Content, "not found")
	assert.Contains(t, res.Content, "weather")
	assert.Contains(t, res.Content, "github")
	assert.Equal(t, `Skill "unknown" not found. Available skills: weather, github`, res.Content)

	res = ResolveContent("test", nil)
	assert.False(t, res.Found)
	assert.Contains(t, res.Content, "none")
}

func TestBuildSnapshot(t *testing.T) {
	entries := Entries{makeEntry("weather", "Get weather", "")}
	resolved := entries.Skills()

	snap := BuildSnapshot(SnapshotParams{Entries: entries, ResolvedSkills: resolved, Version: 1})

	assert.Contains(t, snap.Prompt(), "weather")
	assert.Contains(t, snap.Prompt(), LoadSkillToolName)
	assert.Equal(t, BuildCompactIndex(entries), snap.Prompt())
	assert.Len(t, snap.ResolvedSkills(), 1)
	assert.Equal(t, 1, snap.Version())

	resolved[0].Name = "changed"
	assert.Equal(t, "weather", snap.ResolvedSkills()[0].Name, "snapshot owns its skills")

	got := snap.ResolvedSkills()
	got[0].Name = "changed"
	assert.Equal(t, "weather", snap.ResolvedSkills()[0].Name, "accessor returns a copy")
}

func TestLoadSkillTool(t *testing.T) {
	var seen []string
	loader := NewLoadSkillTool(catalog, func(_ context.Context, name string, found bool) {
		if found {
			seen = append(seen, name)
		}
	})

	assert.Equal(t, LoadSkillToolName, loader.Name())
	assert.Equal(t, []string{"name"}, loader.InputSchema().Required)

	out, err := loader.Execute(context.Background(), json.RawMessage(`{"name": "Weather"}`))
	require.NoError(t, err)
	assert.Equal(t, "Full weather skill content here...", out)

	out, err = loader.Execute(context.Background(), json.RawMessage(`{"name": "nope"}`))
	require.NoError(t, err)
	assert.Contains(t, out, "not found")

	out, err = loader.Execute(context.Background(), json.RawMessage(`not json`))
	require.NoError(t, err)
	assert.Contains(t, out, "Invalid")

	assert.Equal(t, []string{"Weather"}, seen)
}

func TestEstimateSavings(t *testing.T) {
	long := strings.Repeat("word ", 2000)
	entries := []Entry{makeEntry("a", "first", long), makeEntry("b", "second", long)}

	s := EstimateSavings(context.Background(), entries, nil)
	assert.Equal(t, tokens.ApproximateTokens(BuildCompactIndex(entries)), s.IndexTokens)
	assert.Greater(t, s.FullTokens, s.IndexTokens)
	assert.Equal(t, s.FullTokens-s.IndexTokens, s.Saved())
	assert.Less(t, s.Ratio(), 0.1)

	empty := EstimateSavings(context.Background(), nil, tokens.Approximate{})
	assert.Zero(t, empty.Saved())
	assert.Zero(t, empty.Ratio())
}
