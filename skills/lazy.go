package skills

import (
	"fmt"
	"slices"
	"strings"

	"github.com/youssefsiam38/agentbudget/config"
)

const (
	indexHeader = "## Available Skills"
	indexFooter = "To use a skill, call the `" + LoadSkillToolName + "` tool with the skill name to load its full instructions before following it."
)

// ResolveLazyLoadingEnabled reports whether lazy skill loading is on.
// Missing configuration means off.
func ResolveLazyLoadingEnabled(cfg *config.Config) bool {
	s := cfg.SkillSettings()
	return s != nil && s.LazyLoading != nil && *s.LazyLoading
}

// BuildCompactIndex renders the one-line-per-skill index used in place of
// full skill content. It returns "" for an empty catalog.
func BuildCompactIndex(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(indexHeader)
	b.WriteString("\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "- **%s**: %s\n", e.Skill.Name, e.Skill.Description)
	}
	b.WriteString("\n")
	b.WriteString(indexFooter)
	return b.String()
}

// BuildFullPrompt renders every skill with its full content. This is what
// the prompt carries when lazy loading is off.
func BuildFullPrompt(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(indexHeader)
	for _, e := range entries {
		fmt.Fprintf(&b, "\n\n### %s\n\n", e.Skill.Name)
		if e.Skill.Description != "" {
			b.WriteString(e.Skill.Description)
			b.WriteString("\n\n")
		}
		b.WriteString(strings.TrimSpace(e.Skill.Content))
	}
	return b.String()
}

// ResolveContent finds a skill by name, ignoring case and surrounding
// whitespace, and returns its full content. The first match in catalog order
// wins. A miss is not an error: the returned content tells the model which
// names exist.
func ResolveContent(name string, skills []Skill) Resolution {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, s := range skills {
		if strings.ToLower(strings.TrimSpace(s.Name)) == want {
			return Resolution{Found: true, Content: s.Content}
		}
	}

	available := "none"
	if len(skills) > 0 {
		names := make([]string, 0, len(skills))
		for _, s := range skills {
			names = append(names, s.Name)
		}
		available = strings.Join(names, ", ")
	}
	return Resolution{
		Found:   false,
		Content: fmt.Sprintf("Skill %q not found. Available skills: %s", name, available),
	}
}

// SnapshotParams are the inputs to BuildSnapshot.
type SnapshotParams struct {
	Entries        []Entry
	ResolvedSkills []Skill
	Version        int
}

// Snapshot is an immutable view of the catalog for one prompt build. A
// catalog change produces a new Snapshot with a higher version.
type Snapshot struct {
	prompt  string
	skills  []Skill
	version int
}

// BuildSnapshot assembles a lazy snapshot. The prompt is the compact index.
func BuildSnapshot(p SnapshotParams) Snapshot {
	return Snapshot{
		prompt:  BuildCompactIndex(p.Entries),
		skills:  slices.Clone(p.ResolvedSkills),
		version: p.Version,
	}
}

// Prompt returns the prompt fragment.
func (s Snapshot) Prompt() string { return s.prompt }

// ResolvedSkills returns a copy of the skills that load_skill can serve.
func (s Snapshot) ResolvedSkills() []Skill { return slices.Clone(s.skills) }

// Version returns the snapshot version.
func (s Snapshot) Version() int { return s.version }
