package streaming

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	convert "github.com/youssefsiam38/agentbudget/internal/anthropic"
)

// DefaultMaxTokens is used when neither Options nor Model set a limit.
const DefaultMaxTokens = 4096

// ErrUnsupportedAPI is returned by a stream function asked to serve a model
// on a protocol it does not speak.
var ErrUnsupportedAPI = errors.New("unsupported model API")

// NewAnthropicFunc returns a Func that streams from the Anthropic Messages
// API. Options.Betas are sent in the anthropic-beta header and
// Request.Extra entries are set as top-level body fields.
func NewAnthropicFunc(client *anthropic.Client, opts ...WrapOption) Func {
	cfg := wrapConfig{logger: noopLogger{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.logger

	return func(ctx context.Context, model Model, req Request, options Options) (*Message, error) {
		if model.API != APIAnthropicMessages {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedAPI, model.API)
		}

		params := anthropic.MessageNewParams{
			Model:     anthropic.Model(model.ID),
			MaxTokens: int64(maxTokens(model, options)),
			Messages:  convert.ConvertMessages(req.Messages),
			System:    convert.SystemBlocks(req.SystemPrompt),
			Tools:     convert.ConvertTools(req.Tools),
		}
		if options.Temperature != nil {
			params.Temperature = anthropic.Float(*options.Temperature)
		}

		var reqOpts []option.RequestOption
		if betas := convert.BetaHeaderValue(options.Betas); betas != "" {
			reqOpts = append(reqOpts, option.WithHeader(convert.BetaHeader, betas))
		}
		for _, k := range slices.Sorted(maps.Keys(options.Headers)) {
			reqOpts = append(reqOpts, option.WithHeader(k, options.Headers[k]))
		}
		for _, k := range slices.Sorted(maps.Keys(req.Extra)) {
			reqOpts = append(reqOpts, option.WithJSONSet(k, req.Extra[k]))
		}

		log.Debug("starting streaming request",
			"model", model.ID,
			"messages", len(params.Messages),
			"tools", len(params.Tools),
			"betas", options.Betas,
		)

		stream := client.Messages.NewStreaming(ctx, params, reqOpts...)
		defer stream.Close()

		acc := NewAccumulator()
		for stream.Next() {
			event := FromAnthropic(stream.Current())
			if event == nil {
				continue
			}
			acc.Add(event)
			if options.OnEvent != nil {
				options.OnEvent(event)
			}
		}
		if err := stream.Err(); err != nil {
			log.Warn("streaming failed", "model", model.ID, "retryable", convert.IsRetryableError(err), "error", err)
			return nil, fmt.Errorf("streaming error: %w", err)
		}

		msg := acc.Message()
		log.Debug("streaming completed",
			"model", model.ID,
			"stop_reason", msg.StopReason,
			"input_tokens", msg.Usage.InputTokens,
			"output_tokens", msg.Usage.OutputTokens,
		)
		return msg, nil
	}
}

func maxTokens(model Model, options Options) int {
	switch {
	case options.MaxTokens > 0:
		return options.MaxTokens
	case model.MaxTokens > 0:
		return model.MaxTokens
	default:
		return DefaultMaxTokens
	}
}
