// Package agentbudget manages the token footprint of the requests an agent
// runtime sends to a model.
//
// Four mechanisms keep prompts small and leave room for compaction:
//
//   - The compaction reserve is raised to an adaptive floor derived from the
//     model's context window (package compaction).
//   - Skills can be listed as a compact index and loaded on demand through
//     the load_skill tool (package skills).
//   - The tool list is filtered against an exclusion list with normalized
//     names (package tool).
//   - Anthropic requests that carry tools get the token-efficient tools beta
//     (package streaming).
//
// # Quick Start
//
//	client := anthropic.NewClient()
//	budget, err := agentbudget.New(
//	    agentbudget.Config{
//	        Settings:     settings.NewStore(),
//	        Stream:       streaming.NewAnthropicFunc(&client),
//	        Model:        streaming.Model{ID: "claude-sonnet-4-5-20250929"},
//	        SystemPrompt: "You are a helpful coding assistant",
//	    },
//	    agentbudget.WithTools(readTool, execTool),
//	    agentbudget.WithSkills(entries...),
//	    agentbudget.WithLazySkills(true),
//	    agentbudget.WithExcludedTools("exec"),
//	)
//
// Each turn is prepared, sent, and its tool calls executed:
//
//	turn, _ := budget.Prepare(ctx)
//	msg, _ := turn.Send(ctx, history)
//	results := turn.ExecuteToolCalls(ctx, msg)
//
// # Configuration
//
// Settings that can live in a configuration file (reserve floor, proactive
// compaction ratio, lazy loading, tool exclusions) are read from
// Config.File; see package config. Options override the file. Invalid file
// values fall back to defaults instead of failing.
//
// # Hooks
//
// Register hooks to observe reserve decisions, skill loads, tool splits,
// requests and tool calls:
//
//	reg := hooks.NewRegistry()
//	hooks.NewLoggingHooks(slog.Default()).Attach(reg)
//	budget, _ := agentbudget.New(cfg, agentbudget.WithHooks(reg))
package agentbudget
