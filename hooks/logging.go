package hooks

import (
	"context"
	"encoding/json"

	"github.com/youssefsiam38/agentbudget/compaction"
	"github.com/youssefsiam38/agentbudget/streaming"
	"github.com/youssefsiam38/agentbudget/tool"
)

// Logger is the logging interface used by LoggingHooks.
// It is satisfied by *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// LoggingHooks provides built-in structured logging hooks
type LoggingHooks struct {
	logger Logger
}

// NewLoggingHooks creates logging hooks with the provided logger
func NewLoggingHooks(logger Logger) *LoggingHooks {
	return &LoggingHooks{logger: logger}
}

// Attach registers every logging hook on r.
func (h *LoggingHooks) Attach(r *Registry) {
	r.OnReserve(h.Reserve)
	r.OnSkillLoad(h.SkillLoad)
	r.OnToolsSplit(h.ToolsSplit)
	r.OnBeforeRequest(h.BeforeRequest)
	r.OnAfterResponse(h.AfterResponse)
	r.OnToolCall(h.ToolCall)
}

// Reserve logs reserve overrides at info level and no-ops at debug level
func (h *LoggingHooks) Reserve(ctx context.Context, result compaction.ReserveResult) {
	if result.DidOverride {
		h.logger.Info("raised compaction reserve", "reserve_tokens", result.ReserveTokens)
		return
	}
	h.logger.Debug("compaction reserve sufficient", "reserve_tokens", result.ReserveTokens)
}

// SkillLoad logs load_skill lookups
func (h *LoggingHooks) SkillLoad(ctx context.Context, name string, found bool) {
	if !found {
		h.logger.Warn("skill not found", "skill", name)
		return
	}
	h.logger.Debug("skill loaded", "skill", name)
}

// ToolsSplit logs the shaped tool list
func (h *LoggingHooks) ToolsSplit(ctx context.Context, result tool.SplitResult) {
	h.logger.Debug("tools split",
		"kept", len(result.CustomTools),
		"excluded", result.Excluded,
		"sandbox", result.SandboxEnabled,
	)
}

// BeforeRequest logs the outgoing request shape
func (h *LoggingHooks) BeforeRequest(ctx context.Context, model streaming.Model, opts streaming.Options) error {
	h.logger.Debug("sending request", "model", model.ID, "api", model.API, "betas", opts.Betas)
	return nil
}

// AfterResponse logs response usage
func (h *LoggingHooks) AfterResponse(ctx context.Context, msg *streaming.Message) error {
	h.logger.Info("received response",
		"stop_reason", msg.StopReason,
		"input_tokens", msg.Usage.InputTokens,
		"output_tokens", msg.Usage.OutputTokens,
	)
	return nil
}

// ToolCall logs tool execution
func (h *LoggingHooks) ToolCall(ctx context.Context, toolName string, input json.RawMessage, output string, err error) error {
	if err != nil {
		h.logger.Warn("tool failed", "tool", toolName, "error", err)
		return nil
	}
	preview := output
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	h.logger.Debug("tool succeeded", "tool", toolName, "output", preview)
	return nil
}

// MetricsHooks collects metrics for monitoring
type MetricsHooks struct {
	OnMetric func(name string, value float64, tags map[string]string)
}

// NewMetricsHooks creates metrics collection hooks
func NewMetricsHooks(onMetric func(string, float64, map[string]string)) *MetricsHooks {
	return &MetricsHooks{OnMetric: onMetric}
}

// Attach registers every metrics hook on r.
func (h *MetricsHooks) Attach(r *Registry) {
	r.OnReserve(h.Reserve)
	r.OnToolsSplit(h.ToolsSplit)
	r.OnAfterResponse(h.AfterResponse)
	r.OnToolCall(h.ToolCall)
}

// Reserve records the effective reserve
func (h *MetricsHooks) Reserve(ctx context.Context, result compaction.ReserveResult) {
	h.OnMetric("budget.reserve.tokens", float64(result.ReserveTokens), nil)
	if result.DidOverride {
		h.OnMetric("budget.reserve.override", 1, nil)
	}
}

// ToolsSplit records how many tools were offered and excluded
func (h *MetricsHooks) ToolsSplit(ctx context.Context, result tool.SplitResult) {
	h.OnMetric("budget.tools.offered", float64(len(result.CustomTools)), nil)
	h.OnMetric("budget.tools.excluded", float64(len(result.Excluded)), nil)
}

// AfterResponse records response token usage
func (h *MetricsHooks) AfterResponse(ctx context.Context, msg *streaming.Message) error {
	h.OnMetric("agent.tokens.input", float64(msg.Usage.InputTokens), nil)
	h.OnMetric("agent.tokens.output", float64(msg.Usage.OutputTokens), nil)
	h.OnMetric("agent.tokens.total", float64(msg.Usage.InputTokens+msg.Usage.OutputTokens), nil)
	return nil
}

// ToolCall records tool execution metrics
func (h *MetricsHooks) ToolCall(ctx context.Context, toolName string, input json.RawMessage, output string, err error) error {
	tags := map[string]string{"tool": toolName}
	if err != nil {
		h.OnMetric("agent.tool.error", 1, tags)
	} else {
		h.OnMetric("agent.tool.success", 1, tags)
	}
	return nil
}
