package agentbudget

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/youssefsiam38/agentbudget/compaction"
	"github.com/youssefsiam38/agentbudget/streaming"
	"github.com/youssefsiam38/agentbudget/tool"
	"github.com/youssefsiam38/agentbudget/types"
)

// Turn is one prepared request shape. Its fields are fixed at Prepare time.
type Turn struct {
	ID            uuid.UUID
	SystemPrompt  string
	Tools         []tool.Definition
	Excluded      []string
	Reserve       compaction.ReserveResult
	LazySkills    bool
	SkillsVersion int

	budget   *Budget
	executor *tool.Executor
	sandbox  bool
}

// Request builds the provider-neutral request for messages.
func (t *Turn) Request(messages []*types.Message) streaming.Request {
	return streaming.Request{
		SystemPrompt: t.SystemPrompt,
		Messages:     messages,
		Tools:        t.Tools,
	}
}

// SendOption adjusts the options of a single Send.
type SendOption func(*streaming.Options)

// WithBetas adds provider beta names to the request.
func WithBetas(betas ...string) SendOption {
	return func(o *streaming.Options) {
		o.Betas = append(o.Betas, betas...)
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) SendOption {
	return func(o *streaming.Options) {
		o.Temperature = &temperature
	}
}

// WithOnEvent receives every stream event.
func WithOnEvent(fn func(streaming.Event)) SendOption {
	return func(o *streaming.Options) {
		o.OnEvent = fn
	}
}

// Send streams one response for messages.
func (t *Turn) Send(ctx context.Context, messages []*types.Message, opts ...SendOption) (*streaming.Message, error) {
	b := t.budget
	options := streaming.Options{MaxTokens: b.model.MaxTokens}
	for _, opt := range opts {
		opt(&options)
	}

	msg, err := b.stream(t.context(ctx), b.model, t.Request(messages), options)
	if err != nil {
		if !IsRequestRejected(err) {
			err = fmt.Errorf("%w: %w", ErrStreamFailed, err)
		}
		return nil, NewTurnError("Send", t.ID.String(), err).WithContext("model", b.model.ID)
	}

	if err := b.hooks.TriggerAfterResponse(ctx, msg); err != nil {
		b.log.Warn("after-response hook failed", "turn_id", t.ID, "error", err)
	}
	return msg, nil
}

// ExecuteToolCalls runs the tool calls in msg, in parallel unless
// WithSequentialToolCalls is set, and returns one tool_result block per
// call, in call order. Failures become error results
// for the model; they are never returned as Go errors.
func (t *Turn) ExecuteToolCalls(ctx context.Context, msg *streaming.Message) []types.ContentBlock {
	calls := msg.ToolCalls()
	if len(calls) == 0 {
		return nil
	}

	b := t.budget
	results := t.executor.ExecuteBatch(t.context(ctx), calls, !b.opts.sequential)

	blocks := make([]types.ContentBlock, 0, len(results))
	for _, r := range results {
		if err := b.hooks.TriggerToolCall(ctx, r.ToolName, r.Input, r.Output, r.Error); err != nil {
			b.log.Warn("tool-call hook failed", "turn_id", t.ID, "tool", r.ToolName, "error", err)
		}

		block := types.ContentBlock{
			Type:         types.ContentTypeToolResult,
			ToolResultID: r.ID,
			ToolContent:  r.Output,
		}
		if r.Error != nil {
			block.IsError = true
			block.ToolContent = fmt.Sprintf("Error executing tool: %v", r.Error)
			b.log.Debug("tool failed", "turn_id", t.ID, "tool", r.ToolName, "duration", r.Duration, "error", r.Error)
		}
		blocks = append(blocks, block)
	}
	return blocks
}

func (t *Turn) context(ctx context.Context) context.Context {
	return tool.WithTurnContext(ctx, tool.TurnContext{
		TurnID:         t.ID,
		SessionID:      t.budget.opts.sessionID,
		SandboxEnabled: t.sandbox,
	})
}
