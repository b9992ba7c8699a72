package streaming

import (
	"context"
	"slices"
)

// TokenEfficientToolsBeta enables Anthropic's compact tool-call encoding.
const TokenEfficientToolsBeta = "token-efficient-tools-2025-02-19"

// WrapOption configures WithTokenEfficientTools.
type WrapOption func(*wrapConfig)

type wrapConfig struct {
	logger Logger
}

// WithWrapLogger logs each call that gets the beta at debug level.
func WithWrapLogger(logger Logger) WrapOption {
	return func(c *wrapConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTokenEfficientTools returns a Func that enables the token-efficient
// tools beta for Anthropic Messages requests that carry at least one tool.
// All other calls reach next with their options untouched.
//
// The beta is appended to a fresh copy of Options.Betas, so the caller's
// slice is never written to. A beta that is already present is not added
// again. The returned Func holds no state and is safe for concurrent use.
func WithTokenEfficientTools(next Func, opts ...WrapOption) Func {
	cfg := wrapConfig{logger: noopLogger{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(ctx context.Context, model Model, req Request, options Options) (*Message, error) {
		switch model.API {
		case APIAnthropicMessages:
			if len(req.Tools) == 0 || slices.Contains(options.Betas, TokenEfficientToolsBeta) {
				break
			}
			betas := make([]string, 0, len(options.Betas)+1)
			betas = append(betas, options.Betas...)
			options.Betas = append(betas, TokenEfficientToolsBeta)

			cfg.logger.Debug("enabled token-efficient tools",
				"model", model.ID,
				"tools", len(req.Tools),
			)
		}
		return next(ctx, model, req, options)
	}
}
