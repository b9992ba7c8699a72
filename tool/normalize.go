package tool

import "strings"

// nameAliases maps legacy or provider-specific spellings to canonical names.
var nameAliases = map[string]string{
	"bash":        "exec",
	"apply-patch": "apply_patch",
}

// NormalizeName returns the canonical form of a tool name: trimmed,
// lowercased and alias-resolved.
//
// Every "is this the same tool" comparison goes through this function so
// exclusion rules cannot silently miss because of casing or whitespace.
func NormalizeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := nameAliases[normalized]; ok {
		return alias
	}
	return normalized
}

// NameSet is a set of normalized tool names.
type NameSet map[string]struct{}

// NewNameSet normalizes names into a set. Blank names are skipped.
func NewNameSet(names []string) NameSet {
	set := make(NameSet, len(names))
	for _, name := range names {
		if n := NormalizeName(name); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// Has reports whether name, after normalization, is in the set.
func (s NameSet) Has(name string) bool {
	_, ok := s[NormalizeName(name)]
	return ok
}
