package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessors_NilSafe(t *testing.T) {
	var cfg *Config
	assert.Nil(t, cfg.CompactionSettings())
	assert.Nil(t, cfg.SkillSettings())
	assert.Nil(t, cfg.ToolSettings())
	assert.Nil(t, ResolveExcludedTools(cfg))

	cfg = &Config{Agents: &AgentsConfig{}}
	assert.Nil(t, cfg.CompactionSettings())
}

func TestParse_YAML(t *testing.T) {
	doc := `
agents:
  defaults:
    compaction:
      reserveTokensFloor: 24000
      proactiveCompactionRatio: 0.3
    skills:
      lazyLoading: true
    tools:
      exclude: [Browser, " canvas "]
`
	cfg, err := Parse([]byte(doc), FormatYAML)
	require.NoError(t, err)

	comp := cfg.CompactionSettings()
	require.NotNil(t, comp)
	require.NotNil(t, comp.ReserveTokensFloor)
	assert.Equal(t, 24000.0, *comp.ReserveTokensFloor)
	require.NotNil(t, comp.ProactiveCompactionRatio)
	assert.Equal(t, 0.3, *comp.ProactiveCompactionRatio)

	require.NotNil(t, cfg.SkillSettings().LazyLoading)
	assert.True(t, *cfg.SkillSettings().LazyLoading)

	assert.Equal(t, []string{"Browser", " canvas "}, ResolveExcludedTools(cfg))
}

func TestParse_WrongTypesDecodeAsUnset(t *testing.T) {
	doc := `
agents:
  defaults:
    compaction:
      reserveTokensFloor: "lots"
      proactiveCompactionRatio: [0.3]
    skills:
      lazyLoading: "yes please"
    tools: 7
`
	cfg, err := Parse([]byte(doc), FormatYAML)
	require.NoError(t, err)

	comp := cfg.CompactionSettings()
	require.NotNil(t, comp)
	assert.Nil(t, comp.ReserveTokensFloor)
	assert.Nil(t, comp.ProactiveCompactionRatio)
	assert.Nil(t, cfg.SkillSettings().LazyLoading)
	assert.Empty(t, ResolveExcludedTools(cfg))
}

func TestParse_NonFiniteYAMLNumbers(t *testing.T) {
	doc := `
agents:
  defaults:
    compaction:
      reserveTokensFloor: .inf
      proactiveCompactionRatio: .nan
`
	cfg, err := Parse([]byte(doc), FormatYAML)
	require.NoError(t, err)

	comp := cfg.CompactionSettings()
	require.NotNil(t, comp.ReserveTokensFloor)
	assert.True(t, math.IsInf(*comp.ReserveTokensFloor, 1))
	require.NotNil(t, comp.ProactiveCompactionRatio)
	assert.True(t, math.IsNaN(*comp.ProactiveCompactionRatio))
}

func TestParse_JSONWithComments(t *testing.T) {
	doc := `{
	// compaction headroom
	"agents": {
		"defaults": {
			"compaction": { "reserveTokensFloor": 0, },
			"tools": { "exclude": "exec" },
		},
	},
}`
	cfg, err := Parse([]byte(doc), FormatJSON)
	require.NoError(t, err)

	comp := cfg.CompactionSettings()
	require.NotNil(t, comp.ReserveTokensFloor)
	assert.Equal(t, 0.0, *comp.ReserveTokensFloor)
	assert.Nil(t, cfg.SkillSettings())
	assert.Equal(t, []string{"exec"}, ResolveExcludedTools(cfg))
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse([]byte(`{"agents": `), FormatJSON)
	assert.Error(t, err)

	_, err = Parse([]byte("a: b"), Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "agent.yml")
	require.NoError(t, os.WriteFile(path, []byte("agents:\n  defaults:\n    skills:\n      lazyLoading: false\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.SkillSettings().LazyLoading)
	assert.False(t, *cfg.SkillSettings().LazyLoading)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "agent.ini"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestResolveExcludedTools_DropsBlank(t *testing.T) {
	cfg := &Config{Agents: &AgentsConfig{Defaults: &AgentDefaults{
		Tools: &ToolsConfig{Exclude: []string{"exec", "  ", "", "read"}},
	}}}
	assert.Equal(t, []string{"exec", "read"}, ResolveExcludedTools(cfg))
}
