package tool

// Adapter converts internal tools into the definitions sent to the model.
type Adapter interface {
	Adapt(tools []Tool) []Definition
}

// AdapterFunc lets an ordinary function act as an Adapter.
type AdapterFunc func(tools []Tool) []Definition

// Adapt implements Adapter.
func (f AdapterFunc) Adapt(tools []Tool) []Definition {
	return f(tools)
}

// DefaultAdapter renders each ToolSchema as a JSON Schema object.
type DefaultAdapter struct{}

// Adapt implements Adapter. The result is always a fresh slice.
func (DefaultAdapter) Adapt(tools []Tool) []Definition {
	defs := make([]Definition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, ToDefinition(t))
	}
	return defs
}

// ToDefinition converts a single tool.
func ToDefinition(t Tool) Definition {
	schema := t.InputSchema()

	properties := make(map[string]any, len(schema.Properties))
	for name, def := range schema.Properties {
		properties[name] = convertPropertyDef(def)
	}

	inputSchema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(schema.Required) > 0 {
		inputSchema["required"] = append([]string(nil), schema.Required...)
	}

	return Definition{
		Name:        t.Name(),
		Description: t.Description(),
		InputSchema: inputSchema,
	}
}

func convertPropertyDef(def PropertyDef) map[string]any {
	prop := map[string]any{
		"type": def.Type,
	}
	if def.Description != "" {
		prop["description"] = def.Description
	}
	if len(def.Enum) > 0 {
		prop["enum"] = def.Enum
	}
	if def.Minimum != nil {
		prop["minimum"] = *def.Minimum
	}
	if def.Maximum != nil {
		prop["maximum"] = *def.Maximum
	}
	if def.MinLength != nil {
		prop["minLength"] = *def.MinLength
	}
	if def.MaxLength != nil {
		prop["maxLength"] = *def.MaxLength
	}
	if def.Items != nil {
		prop["items"] = convertPropertyDef(*def.Items)
	}
	if len(def.Properties) > 0 {
		nested := make(map[string]any, len(def.Properties))
		for key, nestedDef := range def.Properties {
			nested[key] = convertPropertyDef(nestedDef)
		}
		prop["properties"] = nested
	}
	return prop
}
