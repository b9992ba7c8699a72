// Package config holds the read-only runtime configuration consumed by the
// budget components.
//
// Every field is optional. The resolvers in the compaction and skills
// packages read individual values through the nil-safe accessors below and
// fall back to documented defaults when a value is missing or invalid, so a
// Config never needs to be validated up front.
//
// Files are decoded leniently: a value of the wrong type (a string where a
// number is expected, a mapping where a boolean is expected) decodes as
// absent instead of failing the load.
package config

import "strings"

// Config is the root configuration document.
//
// Example (YAML):
//
//	agents:
//	  defaults:
//	    compaction:
//	      reserveTokensFloor: 24000
//	      proactiveCompactionRatio: 0.3
//	    skills:
//	      lazyLoading: true
//	    tools:
//	      exclude: [browser, canvas]
type Config struct {
	Agents *AgentsConfig `yaml:"agents,omitempty" json:"agents,omitempty"`
}

// AgentsConfig groups agent-wide settings.
type AgentsConfig struct {
	Defaults *AgentDefaults `yaml:"defaults,omitempty" json:"defaults,omitempty"`
}

// AgentDefaults holds the defaults applied to every agent session.
type AgentDefaults struct {
	Compaction *CompactionConfig `yaml:"compaction,omitempty" json:"compaction,omitempty"`
	Skills     *SkillsConfig     `yaml:"skills,omitempty" json:"skills,omitempty"`
	Tools      *ToolsConfig      `yaml:"tools,omitempty" json:"tools,omitempty"`
}

// CompactionConfig configures the compaction headroom.
type CompactionConfig struct {
	// ReserveTokensFloor is the minimum number of tokens kept free for
	// compaction. Must be finite and non-negative; it is floored to an
	// integer when read.
	// Default: 40000
	ReserveTokensFloor *float64 `yaml:"reserveTokensFloor,omitempty" json:"reserveTokensFloor,omitempty"`

	// ProactiveCompactionRatio is the fraction of the context window to keep
	// free. Values outside [0.1, 0.5] are ignored.
	// Default: 0.2
	ProactiveCompactionRatio *float64 `yaml:"proactiveCompactionRatio,omitempty" json:"proactiveCompactionRatio,omitempty"`
}

// SkillsConfig configures how skills are disclosed to the model.
type SkillsConfig struct {
	// LazyLoading discloses a compact name/description index instead of
	// every skill's full content.
	// Default: false
	LazyLoading *bool `yaml:"lazyLoading,omitempty" json:"lazyLoading,omitempty"`
}

// ToolsConfig configures the tool payload sent to the model.
type ToolsConfig struct {
	// Exclude lists tool names (case and whitespace insensitive) that are
	// never offered to the model.
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

// CompactionSettings returns agents.defaults.compaction, or nil.
func (c *Config) CompactionSettings() *CompactionConfig {
	if d := c.defaults(); d != nil {
		return d.Compaction
	}
	return nil
}

// SkillSettings returns agents.defaults.skills, or nil.
func (c *Config) SkillSettings() *SkillsConfig {
	if d := c.defaults(); d != nil {
		return d.Skills
	}
	return nil
}

// ToolSettings returns agents.defaults.tools, or nil.
func (c *Config) ToolSettings() *ToolsConfig {
	if d := c.defaults(); d != nil {
		return d.Tools
	}
	return nil
}

func (c *Config) defaults() *AgentDefaults {
	if c == nil || c.Agents == nil {
		return nil
	}
	return c.Agents.Defaults
}

// ResolveExcludedTools returns a copy of agents.defaults.tools.exclude.
// Blank entries are dropped; matching is left to the tool package.
func ResolveExcludedTools(cfg *Config) []string {
	tools := cfg.ToolSettings()
	if tools == nil {
		return nil
	}
	out := make([]string, 0, len(tools.Exclude))
	for _, name := range tools.Exclude {
		if strings.TrimSpace(name) == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Float returns a pointer to v. Handy for building configs in code.
func Float(v float64) *float64 {
	return &v
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}
