package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format identifies the on-disk syntax of a configuration file.
type Format string

const (
	// FormatYAML is YAML 1.2.
	FormatYAML Format = "yaml"

	// FormatJSON is JSON, with // and /* */ comments and trailing commas
	// tolerated.
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat is returned for file extensions Load cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// FormatFromPath picks a Format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc", ".json5":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads and decodes the configuration file at path.
// A missing file is an error; invalid values inside a readable file are not.
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the given format. Only syntax errors are reported.
func Parse(data []byte, format Format) (*Config, error) {
	switch format {
	case FormatJSON:
		var doc any
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return nil, err
		}
		// Re-encode as YAML so both formats share the lenient decoders below.
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, err
		}
		data = out
	case FormatYAML:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UnmarshalYAML keeps only numeric values; anything else reads as unset.
func (c *CompactionConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		ReserveTokensFloor       yaml.Node `yaml:"reserveTokensFloor"`
		ProactiveCompactionRatio yaml.Node `yaml:"proactiveCompactionRatio"`
	}
	if node.Kind != yaml.MappingNode || node.Decode(&raw) != nil {
		return nil
	}
	c.ReserveTokensFloor = numberNode(&raw.ReserveTokensFloor)
	c.ProactiveCompactionRatio = numberNode(&raw.ProactiveCompactionRatio)
	return nil
}

// UnmarshalYAML keeps only boolean values.
func (s *SkillsConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		LazyLoading yaml.Node `yaml:"lazyLoading"`
	}
	if node.Kind != yaml.MappingNode || node.Decode(&raw) != nil {
		return nil
	}
	s.LazyLoading = boolNode(&raw.LazyLoading)
	return nil
}

// UnmarshalYAML accepts a sequence of scalars or a single scalar.
func (t *ToolsConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Exclude yaml.Node `yaml:"exclude"`
	}
	if node.Kind != yaml.MappingNode || node.Decode(&raw) != nil {
		return nil
	}
	switch raw.Exclude.Kind {
	case yaml.ScalarNode:
		t.Exclude = []string{raw.Exclude.Value}
	case yaml.SequenceNode:
		for _, item := range raw.Exclude.Content {
			if item.Kind == yaml.ScalarNode {
				t.Exclude = append(t.Exclude, item.Value)
			}
		}
	}
	return nil
}

func numberNode(n *yaml.Node) *float64 {
	if n.Kind != yaml.ScalarNode {
		return nil
	}
	switch n.ShortTag() {
	case "!!int", "!!float":
	default:
		return nil
	}
	var v float64
	if err := n.Decode(&v); err != nil {
		return nil
	}
	return &v
}

func boolNode(n *yaml.Node) *bool {
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!bool" {
		return nil
	}
	var v bool
	if err := n.Decode(&v); err != nil {
		return nil
	}
	return &v
}
