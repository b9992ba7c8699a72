package agentbudget

import (
	"time"

	"github.com/youssefsiam38/agentbudget/compaction"
	"github.com/youssefsiam38/agentbudget/hooks"
	"github.com/youssefsiam38/agentbudget/skills"
	"github.com/youssefsiam38/agentbudget/tool"
)

// Option is a functional option for configuring a Budget
type Option func(*internalConfig) error

type internalConfig struct {
	skills       skills.Entries
	tools        []tool.Tool
	excluded     []string
	sandbox      bool
	adapter      tool.Adapter
	hooks        *hooks.Registry
	logger       Logger
	minReserve   *int
	reserveRatio *float64
	lazySkills   *bool
	toolTimeout  time.Duration
	sessionID    string
	sequential   bool
}

// WithSkills sets the skill catalog
func WithSkills(entries ...skills.Entry) Option {
	return func(c *internalConfig) error {
		c.skills = append(c.skills, entries...)
		return nil
	}
}

// WithTools registers tools offered to the model
func WithTools(tools ...tool.Tool) Option {
	return func(c *internalConfig) error {
		for _, t := range tools {
			if t == nil {
				return NewBudgetError("WithTools", ErrInvalidToolSchema).
					WithContext("reason", "tool is nil")
			}
			if schema := t.InputSchema(); schema.Type != "object" {
				return NewBudgetError("WithTools", ErrInvalidToolSchema).
					WithContext("tool", t.Name()).
					WithContext("reason", "schema type must be 'object'")
			}
			c.tools = append(c.tools, t)
		}
		return nil
	}
}

// WithExcludedTools adds tool names to drop from every turn. They are merged
// with the exclusions from the configuration file.
func WithExcludedTools(names ...string) Option {
	return func(c *internalConfig) error {
		c.excluded = append(c.excluded, names...)
		return nil
	}
}

// WithSandbox records that the session runs sandboxed
func WithSandbox(enabled bool) Option {
	return func(c *internalConfig) error {
		c.sandbox = enabled
		return nil
	}
}

// WithAdapter sets the tool adapter (default tool.DefaultAdapter)
func WithAdapter(adapter tool.Adapter) Option {
	return func(c *internalConfig) error {
		c.adapter = adapter
		return nil
	}
}

// WithHooks sets the hook registry
func WithHooks(registry *hooks.Registry) Option {
	return func(c *internalConfig) error {
		c.hooks = registry
		return nil
	}
}

// WithLogger sets the logger (default: no logging)
func WithLogger(logger Logger) Option {
	return func(c *internalConfig) error {
		c.logger = logger
		return nil
	}
}

// WithMinReserveTokens overrides the reserve floor from the configuration file
func WithMinReserveTokens(tokens int) Option {
	return func(c *internalConfig) error {
		if tokens < 0 {
			return NewBudgetError("WithMinReserveTokens", ErrInvalidConfig).
				WithContext("tokens", tokens).
				WithContext("reason", "must not be negative")
		}
		c.minReserve = &tokens
		return nil
	}
}

// WithReserveRatio overrides the proactive compaction ratio from the
// configuration file. It must lie within [0.1, 0.5].
func WithReserveRatio(ratio float64) Option {
	return func(c *internalConfig) error {
		if ratio < compaction.MinReserveRatio || ratio > compaction.MaxReserveRatio {
			return NewBudgetError("WithReserveRatio", ErrInvalidConfig).
				WithContext("ratio", ratio).
				WithContext("reason", "ratio must be between 0.1 and 0.5")
		}
		c.reserveRatio = &ratio
		return nil
	}
}

// WithLazySkills overrides the lazy loading setting from the configuration
// file
func WithLazySkills(enabled bool) Option {
	return func(c *internalConfig) error {
		c.lazySkills = &enabled
		return nil
	}
}

// WithToolTimeout sets the timeout for individual tool executions (default 30s)
func WithToolTimeout(timeout time.Duration) Option {
	return func(c *internalConfig) error {
		if timeout <= 0 {
			return NewBudgetError("WithToolTimeout", ErrInvalidConfig).
				WithContext("timeout", timeout).
				WithContext("reason", "timeout must be positive")
		}
		c.toolTimeout = timeout
		return nil
	}
}

// WithSessionID sets the session identifier exposed to tools through
// tool.TurnContext
func WithSessionID(id string) Option {
	return func(c *internalConfig) error {
		c.sessionID = id
		return nil
	}
}

// WithSequentialToolCalls runs the tool calls of a response one at a time,
// in call order. By default they run in parallel.
func WithSequentialToolCalls(enabled bool) Option {
	return func(c *internalConfig) error {
		c.sequential = enabled
		return nil
	}
}
