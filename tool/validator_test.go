package tool

import (
	"errors"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name    string
		schema  ToolSchema
		input   string
		wantErr bool
	}{
		{
			name:   "valid string",
			schema: ToolSchema{Type: "object", Properties: map[string]PropertyDef{"name": {Type: "string"}}, Required: []string{"name"}},
			input:  `{"name": "test"}`,
		},
		{
			name:    "expected string got number",
			schema:  ToolSchema{Type: "object", Properties: map[string]PropertyDef{"name": {Type: "string"}}},
			input:   `{"name": 123}`,
			wantErr: true,
		},
		{
			name:    "missing required field",
			schema:  ToolSchema{Type: "object", Required: []string{"name"}},
			input:   `{}`,
			wantErr: true,
		},
		{
			name:   "empty input treated as object",
			schema: ToolSchema{Type: "object"},
			input:  ``,
		},
		{
			name:    "not an object",
			schema:  ToolSchema{Type: "object"},
			input:   `[1, 2]`,
			wantErr: true,
		},
		{
			name:    "malformed",
			schema:  ToolSchema{Type: "object"},
			input:   `{"name": `,
			wantErr: true,
		},
		{
			name:   "enum pass",
			schema: ToolSchema{Type: "object", Properties: map[string]PropertyDef{"status": {Type: "string", Enum: []string{"active", "inactive"}}}},
			input:  `{"status": "active"}`,
		},
		{
			name:    "enum fail",
			schema:  ToolSchema{Type: "object", Properties: map[string]PropertyDef{"status": {Type: "string", Enum: []string{"active", "inactive"}}}},
			input:   `{"status": "unknown"}`,
			wantErr: true,
		},
		{
			name:    "below minimum",
			schema:  ToolSchema{Type: "object", Properties: map[string]PropertyDef{"age": {Type: "number", Minimum: ptr(0.0)}}},
			input:   `{"age": -1}`,
			wantErr: true,
		},
		{
			name:    "integer rejects fraction",
			schema:  ToolSchema{Type: "object", Properties: map[string]PropertyDef{"n": {Type: "integer"}}},
			input:   `{"n": 1.5}`,
			wantErr: true,
		},
		{
			name:   "integer accepts whole float",
			schema: ToolSchema{Type: "object", Properties: map[string]PropertyDef{"n": {Type: "integer", Maximum: ptr(10.0)}}},
			input:  `{"n": 10.0}`,
		},
		{
			name:    "string too long",
			schema:  ToolSchema{Type: "object", Properties: map[string]PropertyDef{"s": {Type: "string", MaxLength: ptr(3)}}},
			input:   `{"s": "abcd"}`,
			wantErr: true,
		},
		{
			name:    "array item type",
			schema:  ToolSchema{Type: "object", Properties: map[string]PropertyDef{"tags": {Type: "array", Items: &PropertyDef{Type: "string"}}}},
			input:   `{"tags": ["a", 2]}`,
			wantErr: true,
		},
		{
			name: "nested object",
			schema: ToolSchema{Type: "object", Properties: map[string]PropertyDef{
				"opts": {Type: "object", Properties: map[string]PropertyDef{"verbose": {Type: "boolean"}}},
			}},
			input:   `{"opts": {"verbose": "yes"}}`,
			wantErr: true,
		},
		{
			name:   "null allowed",
			schema: ToolSchema{Type: "object", Properties: map[string]PropertyDef{"name": {Type: "string"}}},
			input:  `{"name": null}`,
		},
		{
			name:   "dotted property name",
			schema: ToolSchema{Type: "object", Properties: map[string]PropertyDef{"a.b": {Type: "string"}}, Required: []string{"a.b"}},
			input:  `{"a.b": "x"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInput(tt.schema, []byte(tt.input))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("Expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
