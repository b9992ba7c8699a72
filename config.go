package agentbudget

import (
	"fmt"

	"github.com/youssefsiam38/agentbudget/compaction"
	"github.com/youssefsiam38/agentbudget/config"
	"github.com/youssefsiam38/agentbudget/streaming"
)

// ModelInfo contains model-specific parameters
type ModelInfo struct {
	MaxContextTokens int
	DefaultMaxTokens int
}

// KnownModels maps model IDs to their capabilities
var KnownModels = map[string]ModelInfo{
	// Claude 4 models
	"claude-opus-4-5-20251101":   {MaxContextTokens: 200000, DefaultMaxTokens: 16384},
	"claude-sonnet-4-5-20250929": {MaxContextTokens: 200000, DefaultMaxTokens: 16384},
	"claude-haiku-4-5-20251001":  {MaxContextTokens: 200000, DefaultMaxTokens: 16384},
	"claude-opus-4-1-20250805":   {MaxContextTokens: 200000, DefaultMaxTokens: 16384},
	"claude-opus-4-20250514":     {MaxContextTokens: 200000, DefaultMaxTokens: 16384},
	"claude-sonnet-4-20250514":   {MaxContextTokens: 200000, DefaultMaxTokens: 16384},
	// Claude 3.x models
	"claude-3-7-sonnet-20250219": {MaxContextTokens: 200000, DefaultMaxTokens: 8192},
	"claude-3-5-haiku-20241022":  {MaxContextTokens: 200000, DefaultMaxTokens: 8192},
	"claude-3-haiku-20240307":    {MaxContextTokens: 200000, DefaultMaxTokens: 4096},
}

// GetModelInfo returns model info, using sensible defaults for unknown models
func GetModelInfo(model string) ModelInfo {
	if info, ok := KnownModels[model]; ok {
		return info
	}
	return ModelInfo{MaxContextTokens: 200000, DefaultMaxTokens: 8192}
}

// Config holds the required configuration for a Budget.
//
// Example:
//
//	client := anthropic.NewClient()
//	budget, _ := agentbudget.New(agentbudget.Config{
//	    Settings: settings.NewStore(),
//	    Stream:   streaming.NewAnthropicFunc(&client),
//	    Model:    streaming.Model{ID: "claude-sonnet-4-5-20250929"},
//	})
type Config struct {
	// Settings holds the compaction reserve the runtime uses (required)
	Settings compaction.SettingsManager

	// Stream sends requests to the model (required)
	Stream streaming.Func

	// Model is the request target (ID required). API defaults to
	// anthropic-messages; ContextWindow and MaxTokens default from
	// KnownModels.
	Model streaming.Model

	// SystemPrompt is prepended to the skill prompt of every turn
	SystemPrompt string

	// File is the parsed configuration file, if any. Options take
	// precedence over it.
	File *config.Config
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Settings == nil {
		return fmt.Errorf("%w: Settings is required", ErrInvalidConfig)
	}

	if c.Stream == nil {
		return fmt.Errorf("%w: Stream is required", ErrInvalidConfig)
	}

	if c.Model.ID == "" {
		return fmt.Errorf("%w: Model.ID is required", ErrInvalidConfig)
	}

	if c.Model.ContextWindow < 0 || c.Model.MaxTokens < 0 {
		return fmt.Errorf("%w: Model limits must not be negative", ErrInvalidConfig)
	}

	return nil
}

// resolvedModel fills unset model fields from KnownModels.
func (c *Config) resolvedModel() streaming.Model {
	m := c.Model
	info := GetModelInfo(m.ID)
	if m.API == "" {
		m.API = streaming.APIAnthropicMessages
	}
	if m.ContextWindow == 0 {
		m.ContextWindow = info.MaxContextTokens
	}
	if m.MaxTokens == 0 {
		m.MaxTokens = info.DefaultMaxTokens
	}
	return m
}
