// Package hooks lets callers observe and veto the steps of a budgeted turn.
package hooks

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/youssefsiam38/agentbudget/compaction"
	"github.com/youssefsiam38/agentbudget/streaming"
	"github.com/youssefsiam38/agentbudget/tool"
)

// ReserveHook is called after the compaction reserve has been checked.
type ReserveHook func(ctx context.Context, result compaction.ReserveResult)

// SkillLoadHook is called for every load_skill lookup.
type SkillLoadHook func(ctx context.Context, name string, found bool)

// ToolsSplitHook is called after the tool list for a turn has been shaped.
type ToolsSplitHook func(ctx context.Context, result tool.SplitResult)

// BeforeRequestHook is called with the final model and options right before
// a request is sent. Returning an error aborts the request.
type BeforeRequestHook func(ctx context.Context, model streaming.Model, opts streaming.Options) error

// AfterResponseHook is called after a response has been received
type AfterResponseHook func(ctx context.Context, msg *streaming.Message) error

// ToolCallHook is called when a tool is executed
// Parameters: ctx, toolName, input, output, error
type ToolCallHook func(ctx context.Context, toolName string, input json.RawMessage, output string, err error) error

// Registry holds all registered hooks
type Registry struct {
	mu            sync.RWMutex
	reserve       []ReserveHook
	skillLoad     []SkillLoadHook
	toolsSplit    []ToolsSplitHook
	beforeRequest []BeforeRequestHook
	afterResponse []AfterResponseHook
	toolCall      []ToolCallHook
}

// NewRegistry creates a new hook registry
func NewRegistry() *Registry {
	return &Registry{}
}

// OnReserve registers a hook to be called after the reserve check
func (r *Registry) OnReserve(hook ReserveHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reserve = append(r.reserve, hook)
}

// OnSkillLoad registers a hook to be called on load_skill lookups
func (r *Registry) OnSkillLoad(hook SkillLoadHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skillLoad = append(r.skillLoad, hook)
}

// OnToolsSplit registers a hook to be called after the tool split
func (r *Registry) OnToolsSplit(hook ToolsSplitHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toolsSplit = append(r.toolsSplit, hook)
}

// OnBeforeRequest registers a hook to be called before each request
func (r *Registry) OnBeforeRequest(hook BeforeRequestHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeRequest = append(r.beforeRequest, hook)
}

// OnAfterResponse registers a hook to be called after each response
func (r *Registry) OnAfterResponse(hook AfterResponseHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterResponse = append(r.afterResponse, hook)
}

// OnToolCall registers a hook to be called when a tool is executed
func (r *Registry) OnToolCall(hook ToolCallHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toolCall = append(r.toolCall, hook)
}

// snapshot copies a hook slice under the read lock so triggers never hold
// the lock while running user code.
func snapshot[H any](r *Registry, hooks *[]H) []H {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]H, len(*hooks))
	copy(out, *hooks)
	return out
}

// TriggerReserve calls all registered reserve hooks
func (r *Registry) TriggerReserve(ctx context.Context, result compaction.ReserveResult) {
	for _, hook := range snapshot(r, &r.reserve) {
		hook(ctx, result)
	}
}

// TriggerSkillLoad calls all registered skill-load hooks
func (r *Registry) TriggerSkillLoad(ctx context.Context, name string, found bool) {
	for _, hook := range snapshot(r, &r.skillLoad) {
		hook(ctx, name, found)
	}
}

// TriggerToolsSplit calls all registered tools-split hooks
func (r *Registry) TriggerToolsSplit(ctx context.Context, result tool.SplitResult) {
	for _, hook := range snapshot(r, &r.toolsSplit) {
		hook(ctx, result)
	}
}

// TriggerBeforeRequest calls all registered before-request hooks, stopping
// at the first error.
func (r *Registry) TriggerBeforeRequest(ctx context.Context, model streaming.Model, opts streaming.Options) error {
	for _, hook := range snapshot(r, &r.beforeRequest) {
		if err := hook(ctx, model, opts); err != nil {
			return err
		}
	}
	return nil
}

// TriggerAfterResponse calls all registered after-response hooks
func (r *Registry) TriggerAfterResponse(ctx context.Context, msg *streaming.Message) error {
	for _, hook := range snapshot(r, &r.afterResponse) {
		if err := hook(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// TriggerToolCall calls all registered tool-call hooks
func (r *Registry) TriggerToolCall(ctx context.Context, toolName string, input json.RawMessage, output string, err error) error {
	for _, hook := range snapshot(r, &r.toolCall) {
		if hookErr := hook(ctx, toolName, input, output, err); hookErr != nil {
			return hookErr
		}
	}
	return nil
}
