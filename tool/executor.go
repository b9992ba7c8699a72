package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultTimeout bounds a single tool execution.
const DefaultTimeout = 30 * time.Second

// Executor runs tool calls from a Registry with a timeout. Inputs are
// validated against the tool schema first. Tool failures, including panics,
// come back as ExecuteResult.Error.
type Executor struct {
	registry       *Registry
	defaultTimeout time.Duration
}

// NewExecutor creates a new tool executor
func NewExecutor(registry *Registry) *Executor {
	return &Executor{
		registry:       registry,
		defaultTimeout: DefaultTimeout,
	}
}

// SetDefaultTimeout sets the default execution timeout
func (e *Executor) SetDefaultTimeout(timeout time.Duration) {
	e.defaultTimeout = timeout
}

// ToolCallRequest represents a request to execute a tool
type ToolCallRequest struct {
	ID       string          // Provider-assigned tool_use id
	ToolName string          // Name as sent by the model
	Input    json.RawMessage // Input parameters
}

// ExecuteResult represents the result of a tool execution
type ExecuteResult struct {
	ID       string
	ToolName string
	Input    json.RawMessage
	Output   string
	Error    error
	Duration time.Duration
}

// Execute executes a single tool call
func (e *Executor) Execute(ctx context.Context, call ToolCallRequest) *ExecuteResult {
	start := time.Now()

	result := &ExecuteResult{
		ID:       call.ID,
		ToolName: call.ToolName,
		Input:    call.Input,
	}

	execCtx, cancel := context.WithTimeout(ctx, e.defaultTimeout)
	defer cancel()

	result.Output, result.Error = e.run(execCtx, call)
	result.Duration = time.Since(start)

	switch {
	case errors.Is(execCtx.Err(), context.DeadlineExceeded):
		result.Error = fmt.Errorf("tool execution timeout after %v", e.defaultTimeout)
	case errors.Is(execCtx.Err(), context.Canceled):
		result.Error = fmt.Errorf("tool execution canceled")
	}

	return result
}

func (e *Executor) run(ctx context.Context, call ToolCallRequest) (output string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", call.ToolName, r)
		}
	}()
	return e.registry.Execute(ctx, call.ToolName, call.Input)
}

// ExecuteMultiple executes multiple tool calls in sequence
func (e *Executor) ExecuteMultiple(ctx context.Context, calls []ToolCallRequest) []*ExecuteResult {
	results := make([]*ExecuteResult, len(calls))
	for i, call := range calls {
		results[i] = e.Execute(ctx, call)
	}
	return results
}

// ExecuteParallel executes multiple tool calls in parallel
func (e *Executor) ExecuteParallel(ctx context.Context, calls []ToolCallRequest) []*ExecuteResult {
	results := make([]*ExecuteResult, len(calls))
	var wg sync.WaitGroup

	wg.Add(len(calls))
	for i, call := range calls {
		go func(idx int, c ToolCallRequest) {
			defer wg.Done()
			results[idx] = e.Execute(ctx, c)
		}(i, call)
	}

	wg.Wait()
	return results
}

// ExecuteBatch executes a batch of tool calls with the given strategy
func (e *Executor) ExecuteBatch(ctx context.Context, calls []ToolCallRequest, parallel bool) []*ExecuteResult {
	if parallel {
		return e.ExecuteParallel(ctx, calls)
	}
	return e.ExecuteMultiple(ctx, calls)
}
