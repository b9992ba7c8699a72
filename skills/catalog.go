package skills

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseCatalog decodes a YAML list of entries. A bare skill record (name,
// description, content at the top level) is accepted in place of an entry.
// Records without a name are rejected.
func ParseCatalog(data []byte) (Entries, error) {
	var raw []yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse skill catalog: %w", err)
	}

	entries := make(Entries, 0, len(raw))
	for i := range raw {
		node := &raw[i]

		var entry Entry
		if hasKey(node, "skill") {
			if err := node.Decode(&entry); err != nil {
				return nil, fmt.Errorf("skill catalog item %d: %w", i, err)
			}
		} else if err := node.Decode(&entry.Skill); err != nil {
			return nil, fmt.Errorf("skill catalog item %d: %w", i, err)
		}

		if entry.Skill.Name == "" {
			return nil, fmt.Errorf("skill catalog item %d: missing name", i)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// LoadCatalog reads and parses a YAML catalog file.
func LoadCatalog(path string) (Entries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skill catalog: %w", err)
	}
	return ParseCatalog(data)
}

func hasKey(node *yaml.Node, key string) bool {
	if node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}
