package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrToolNotFound is returned when a tool cannot be found in a Registry.
var ErrToolNotFound = errors.New("tool not found")

// Registry holds tools keyed by normalized name, preserving registration order.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool. Names that normalize to an already registered name
// are rejected.
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return fmt.Errorf("tool cannot be nil")
	}

	key := NormalizeName(t.Name())
	if key == "" {
		return fmt.Errorf("tool name cannot be empty")
	}

	if schema := t.InputSchema(); schema.Type != "object" {
		return fmt.Errorf("tool %s: schema type must be 'object', got %s", t.Name(), schema.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.tools[key]; exists {
		return fmt.Errorf("tool %s already registered as %s", t.Name(), existing.Name())
	}

	r.tools[key] = t
	r.order = append(r.order, key)
	return nil
}

// RegisterAll adds multiple tools, stopping at the first error.
func (r *Registry) RegisterAll(tools []Tool) error {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a tool by name, ignoring case and surrounding whitespace.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, exists := r.tools[NormalizeName(name)]
	return t, exists
}

// Has checks if a tool is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tool, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.tools[key])
	}
	return out
}

// Count returns the number of registered tools
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute validates input against the tool's schema and runs the tool
func (r *Registry) Execute(ctx context.Context, toolName string, input json.RawMessage) (string, error) {
	t, exists := r.Get(toolName)
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, toolName)
	}
	if err := ValidateInput(t.InputSchema(), input); err != nil {
		return "", err
	}
	return t.Execute(ctx, input)
}
