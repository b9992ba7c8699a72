// Package skills keeps skill instructions out of the system prompt until the
// model asks for them.
//
// With lazy loading enabled, the prompt carries only a compact index (one
// line per skill) and the model fetches full instructions on demand through
// the load_skill tool:
//
//	snap := skills.BuildSnapshot(skills.SnapshotParams{
//	    Entries:        entries,
//	    ResolvedSkills: skills.Entries(entries).Skills(),
//	    Version:        1,
//	})
//	loader := skills.NewLoadSkillTool(snap.ResolvedSkills(), nil)
//
// Every function in this package is pure. Inputs are never modified.
package skills

// LoadSkillToolName is the name of the tool the model calls to fetch a
// skill's full instructions.
const LoadSkillToolName = "load_skill"

// Skill is a named unit of instructions. Content can be large.
type Skill struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Content     string `yaml:"content" json:"content"`
	FilePath    string `yaml:"file_path,omitempty" json:"filePath,omitempty"`
	BaseDir     string `yaml:"base_dir,omitempty" json:"baseDir,omitempty"`
}

// Invocation holds the invocation policy of a skill. This package carries it
// through without interpreting it.
type Invocation struct {
	UserInvocable          bool `yaml:"user_invocable,omitempty" json:"userInvocable,omitempty"`
	DisableModelInvocation bool `yaml:"disable_model_invocation,omitempty" json:"disableModelInvocation,omitempty"`
}

// Entry is a catalog record: a skill plus its parsed frontmatter and
// metadata.
type Entry struct {
	Skill       Skill          `yaml:"skill" json:"skill"`
	Frontmatter map[string]any `yaml:"frontmatter,omitempty" json:"frontmatter,omitempty"`
	Metadata    map[string]any `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	Invocation  Invocation     `yaml:"invocation,omitempty" json:"invocation,omitempty"`
}

// Entries is a catalog in display order.
type Entries []Entry

// Skills returns the skills of the catalog in a fresh slice.
func (e Entries) Skills() []Skill {
	out := make([]Skill, 0, len(e))
	for _, entry := range e {
		out = append(out, entry.Skill)
	}
	return out
}

// Resolution is the answer to a load_skill lookup. On a miss Content holds
// a model-readable explanation instead of skill instructions.
type Resolution struct {
	Found   bool
	Content string
}
