package tool

import (
	"context"

	"github.com/google/uuid"
)

type turnContextKey struct{}

// TurnContext carries per-turn information available to tools during execution.
type TurnContext struct {
	// TurnID identifies the prepared turn that issued the tool call.
	TurnID uuid.UUID

	// SessionID is the host's session identifier, if any.
	SessionID string

	// SandboxEnabled mirrors the sandbox state the tool list was split under.
	SandboxEnabled bool
}

// WithTurnContext attaches turn context to ctx.
func WithTurnContext(ctx context.Context, tc TurnContext) context.Context {
	return context.WithValue(ctx, turnContextKey{}, tc)
}

// GetTurnContext extracts the turn context.
// Returns false if ctx was not enriched with WithTurnContext.
func GetTurnContext(ctx context.Context) (TurnContext, bool) {
	tc, ok := ctx.Value(turnContextKey{}).(TurnContext)
	return tc, ok
}
