package streaming

import (
	"context"

	"github.com/youssefsiam38/agentbudget/tool"
	"github.com/youssefsiam38/agentbudget/types"
)

// API identifies the wire protocol a model is served over.
type API string

const (
	APIAnthropicMessages  API = "anthropic-messages"
	APIOpenAICompletions  API = "openai-completions"
	APIOpenAIResponses    API = "openai-responses"
	APIGoogleGenerativeAI API = "google-generative-ai"
)

// Model describes the target of a request.
type Model struct {
	ID            string
	API           API
	Provider      string
	ContextWindow int
	MaxTokens     int
}

// Request is the provider-neutral request body. Wrappers treat it as
// read-only.
type Request struct {
	SystemPrompt string
	Messages     []*types.Message
	Tools        []tool.Definition

	// Extra carries provider-specific fields a stream function may honor.
	Extra map[string]any
}

// Options are per-call knobs passed alongside a Request.
type Options struct {
	// Betas lists provider beta feature names to enable for this call.
	Betas []string

	// MaxTokens overrides Model.MaxTokens when positive.
	MaxTokens int

	Temperature *float64

	// Headers are extra HTTP headers sent with the request.
	Headers map[string]string

	// OnEvent, if set, receives every stream event in order.
	OnEvent func(Event)
}

// Func sends one request and returns the complete assistant message.
type Func func(ctx context.Context, model Model, req Request, opts Options) (*Message, error)
