package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/youssefsiam38/agentbudget/tool"
)

// LoadObserver is notified of every load_skill lookup.
type LoadObserver func(ctx context.Context, name string, found bool)

type loadSkillTool struct {
	skills   []Skill
	observer LoadObserver
}

// NewLoadSkillTool returns the load_skill tool over skills. A lookup miss is
// reported to the model as text, not as an error. observer may be nil.
func NewLoadSkillTool(skills []Skill, observer LoadObserver) tool.Tool {
	return &loadSkillTool{
		skills:   slices.Clone(skills),
		observer: observer,
	}
}

func (t *loadSkillTool) Name() string { return LoadSkillToolName }

func (t *loadSkillTool) Description() string {
	return "Load the full instructions of a skill listed in the Available Skills index."
}

func (t *loadSkillTool) InputSchema() tool.ToolSchema {
	return tool.ToolSchema{
		Type: "object",
		Properties: map[string]tool.PropertyDef{
			"name": {
				Type:        "string",
				Description: "Skill name exactly as shown in the index",
			},
		},
		Required: []string{"name"},
	}
}

func (t *loadSkillTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	var params struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return fmt.Sprintf("Invalid %s input: %v", LoadSkillToolName, err), nil
	}

	res := ResolveContent(params.Name, t.skills)
	if t.observer != nil {
		t.observer(ctx, params.Name, res.Found)
	}
	return res.Content, nil
}
