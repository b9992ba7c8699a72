package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/youssefsiam38/agentbudget"
	"github.com/youssefsiam38/agentbudget/compaction"
	"github.com/youssefsiam38/agentbudget/config"
	"github.com/youssefsiam38/agentbudget/hooks"
	"github.com/youssefsiam38/agentbudget/settings"
	"github.com/youssefsiam38/agentbudget/skills"
	"github.com/youssefsiam38/agentbudget/streaming"
	"github.com/youssefsiam38/agentbudget/tokens"
	"github.com/youssefsiam38/agentbudget/tool"
)

const defaultModel = "claude-sonnet-4-5-20250929"

type inspectOptions struct {
	configPath    string
	model         string
	contextWindow int
	reserve       int
	excludeTools  []string
	tools         []string
	catalogPath   string
	lazy          *bool
	countAPI      bool
	logFile       string
	logFormat     string
	debug         bool
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Report the budget decisions for one turn",
		Long: heredoc.Doc(`
			Prepare a single turn and report what it would send.

			The compaction reserve starts from --reserve (or the runtime default)
			and is raised to the adaptive floor when it is too small. Skills come
			from a YAML catalog: a list of records with name, description and
			content. Tools named with --tools are simulated with empty schemas.
		`),
		Example: heredoc.Doc(`
			agentbudget inspect --config agent.yaml --catalog skills.yaml \
			  --tools read,write,exec,browser --exclude-tool browser
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := loadInspectOptions(cmd)
			return runInspect(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "Path to a YAML or JSON configuration file")
	flags.String("model", defaultModel, "Model ID")
	flags.Int("context-window", 0, "Context window in tokens (default: from the model table)")
	flags.Int("reserve", -1, "Current compaction reserve in tokens (default: runtime default)")
	flags.StringArray("exclude-tool", nil, "Tool name to exclude (repeatable)")
	flags.StringSlice("tools", nil, "Comma-separated tool names to simulate")
	flags.String("catalog", "", "Path to a YAML skill catalog")
	flags.Bool("lazy", false, "Force lazy skill loading on or off")
	flags.Bool("count-api", false, "Count tokens with the Anthropic API instead of estimating")
	flags.String("log-file", "", "Write logs to a rotating file instead of stderr")
	flags.String("log-format", "text", "Log format: text or json")
	flags.Bool("debug", false, "Enable debug logging")

	return cmd
}

func loadInspectOptions(cmd *cobra.Command) inspectOptions {
	flags := cmd.Flags()
	opts := inspectOptions{}
	opts.configPath, _ = flags.GetString("config")
	opts.model, _ = flags.GetString("model")
	opts.contextWindow, _ = flags.GetInt("context-window")
	opts.reserve, _ = flags.GetInt("reserve")
	opts.excludeTools, _ = flags.GetStringArray("exclude-tool")
	opts.tools, _ = flags.GetStringSlice("tools")
	opts.catalogPath, _ = flags.GetString("catalog")
	if flags.Changed("lazy") {
		lazy, _ := flags.GetBool("lazy")
		opts.lazy = &lazy
	}
	opts.countAPI, _ = flags.GetBool("count-api")
	opts.logFile, _ = flags.GetString("log-file")
	opts.logFormat, _ = flags.GetString("log-format")
	opts.debug, _ = flags.GetBool("debug")
	return opts
}

func runInspect(ctx context.Context, out, stderr io.Writer, opts inspectOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, closer, err := newLogger(stderr, opts.logFile, opts.logFormat, opts.debug)
	if err != nil {
		return err
	}
	defer closer.Close()

	var file *config.Config
	if opts.configPath != "" {
		file, err = config.Load(opts.configPath)
		if err != nil {
			return err
		}
	}

	var entries skills.Entries
	if opts.catalogPath != "" {
		entries, err = skills.LoadCatalog(opts.catalogPath)
		if err != nil {
			return err
		}
	}

	store := settings.NewStore()
	startReserve := store.GetCompactionReserveTokens()
	if opts.reserve >= 0 {
		store.ApplyOverrides(compaction.Overrides{Compaction: compaction.CompactionOverrides{ReserveTokens: opts.reserve}})
		startReserve = opts.reserve
	}

	client := anthropic.NewClient()
	reg := hooks.NewRegistry()
	hooks.NewLoggingHooks(logger).Attach(reg)

	budgetOpts := []agentbudget.Option{
		agentbudget.WithTools(simulatedTools(opts.tools)...),
		agentbudget.WithSkills(entries...),
		agentbudget.WithExcludedTools(opts.excludeTools...),
		agentbudget.WithHooks(reg),
		agentbudget.WithLogger(logger),
	}
	if opts.lazy != nil {
		budgetOpts = append(budgetOpts, agentbudget.WithLazySkills(*opts.lazy))
	}

	budget, err := agentbudget.New(agentbudget.Config{
		Settings: store,
		Stream:   streaming.NewAnthropicFunc(&client, streaming.WithWrapLogger(logger)),
		Model:    streaming.Model{ID: opts.model, ContextWindow: opts.contextWindow},
		File:     file,
	}, budgetOpts...)
	if err != nil {
		return err
	}

	turn, err := budget.Prepare(ctx)
	if err != nil {
		return err
	}

	var counter tokens.Counter = tokens.Approximate{}
	if opts.countAPI {
		counter, err = tokens.NewAPICounter(&client, opts.model, 0)
		if err != nil {
			return err
		}
	}

	r := report{
		model:        budget.Model(),
		startReserve: startReserve,
		turn:         turn,
		snapshot:     budget.Snapshot(),
		skillCount:   len(entries),
		savings:      skills.EstimateSavings(ctx, entries, counter),
	}
	r.write(out)
	return nil
}

func simulatedTools(names []string) []tool.Tool {
	out := make([]tool.Tool, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, tool.NewFuncTool(name, "Simulated "+name+" tool",
			tool.ToolSchema{Type: "object", Properties: map[string]tool.PropertyDef{}},
			func(context.Context, json.RawMessage) (string, error) { return "", nil },
		))
	}
	return out
}

type report struct {
	model        streaming.Model
	startReserve int
	turn         *agentbudget.Turn
	snapshot     skills.Snapshot
	skillCount   int
	savings      skills.Savings
}

func (r report) write(w io.Writer) {
	fmt.Fprintf(w, "Model:               %s (%s, context window %s tokens)\n",
		r.model.ID, r.model.API, humanize.Comma(int64(r.model.ContextWindow)))

	reserve := r.turn.Reserve
	if reserve.DidOverride {
		fmt.Fprintf(w, "Compaction reserve:  %s tokens (raised from %s)\n",
			humanize.Comma(int64(reserve.ReserveTokens)), humanize.Comma(int64(r.startReserve)))
	} else {
		fmt.Fprintf(w, "Compaction reserve:  %s tokens (unchanged)\n", humanize.Comma(int64(reserve.ReserveTokens)))
	}

	state := "disabled"
	if r.turn.LazySkills {
		state = "enabled"
	}
	fmt.Fprintf(w, "Lazy skills:         %s (%d skills, snapshot v%d)\n", state, r.skillCount, r.snapshot.Version())

	if r.skillCount > 0 {
		fmt.Fprintf(w, "Skill prompt:        index %s tokens, full %s tokens, saves %s tokens (%.0f%%)\n",
			humanize.Comma(int64(r.savings.IndexTokens)),
			humanize.Comma(int64(r.savings.FullTokens)),
			humanize.Comma(int64(r.savings.Saved())),
			(1-r.savings.Ratio())*100,
		)
		if r.turn.LazySkills {
			fmt.Fprintln(w, "Index preview:")
			for _, line := range strings.Split(r.snapshot.Prompt(), "\n") {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}

	names := make([]string, 0, len(r.turn.Tools))
	for _, d := range r.turn.Tools {
		names = append(names, d.Name)
	}
	fmt.Fprintf(w, "Tools offered (%d):  %s\n", len(names), listOrNone(names))
	fmt.Fprintf(w, "Tools excluded (%d): %s\n", len(r.turn.Excluded), listOrNone(r.turn.Excluded))

	beta := "off"
	if r.model.API == streaming.APIAnthropicMessages && len(r.turn.Tools) > 0 {
		beta = "on (" + streaming.TokenEfficientToolsBeta + ")"
	}
	fmt.Fprintf(w, "Token-efficient tools: %s\n", beta)
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
