package agentbudget

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/youssefsiam38/agentbudget/compaction"
	"github.com/youssefsiam38/agentbudget/config"
	"github.com/youssefsiam38/agentbudget/hooks"
	"github.com/youssefsiam38/agentbudget/skills"
	"github.com/youssefsiam38/agentbudget/streaming"
	"github.com/youssefsiam38/agentbudget/tool"
)

// Budget shapes every request a session sends: it keeps the compaction
// reserve adequate, chooses how skills enter the prompt, filters the tool
// list and enables the token-efficient tool encoding.
//
// A Budget is safe for concurrent use. Turns prepared from it are
// independent of later SetSkills calls.
type Budget struct {
	cfg   Config
	opts  internalConfig
	model streaming.Model
	log   Logger
	hooks *hooks.Registry

	tools  *tool.Registry
	stream streaming.Func

	mu       sync.RWMutex
	entries  skills.Entries
	snapshot skills.Snapshot
}

// New creates a Budget.
func New(cfg Config, opts ...Option) (*Budget, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ic := internalConfig{}
	for _, opt := range opts {
		if err := opt(&ic); err != nil {
			return nil, err
		}
	}
	if ic.logger == nil {
		ic.logger = noopLogger{}
	}
	if ic.hooks == nil {
		ic.hooks = hooks.NewRegistry()
	}

	registry := tool.NewRegistry()
	for _, t := range ic.tools {
		if tool.NormalizeName(t.Name()) == skills.LoadSkillToolName {
			return nil, NewBudgetError("New", ErrDuplicateTool).
				WithContext("tool", t.Name()).
				WithContext("reason", "name is reserved for skill loading")
		}
		if err := registry.Register(t); err != nil {
			return nil, NewBudgetError("New", fmt.Errorf("%w: %w", ErrDuplicateTool, err))
		}
	}

	b := &Budget{
		cfg:     cfg,
		opts:    ic,
		model:   cfg.resolvedModel(),
		log:     ic.logger,
		hooks:   ic.hooks,
		tools:   registry,
		entries: slices.Clone(ic.skills),
	}
	b.snapshot = b.buildSnapshot(b.entries, 1)
	b.stream = streaming.WithTokenEfficientTools(b.send, streaming.WithWrapLogger(ic.logger))

	b.log.Debug("budget created",
		"model", b.model.ID,
		"context_window", b.model.ContextWindow,
		"tools", registry.Count(),
		"skills", len(b.entries),
	)
	return b, nil
}

// send is the innermost stream function: hooks see the final options,
// including any betas added by wrappers.
func (b *Budget) send(ctx context.Context, model streaming.Model, req streaming.Request, opts streaming.Options) (*streaming.Message, error) {
	if err := b.hooks.TriggerBeforeRequest(ctx, model, opts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestRejected, err)
	}
	return b.cfg.Stream(ctx, model, req, opts)
}

func (b *Budget) buildSnapshot(entries skills.Entries, version int) skills.Snapshot {
	return skills.BuildSnapshot(skills.SnapshotParams{
		Entries:        entries,
		ResolvedSkills: entries.Skills(),
		Version:        version,
	})
}

// Model returns the resolved request target.
func (b *Budget) Model() streaming.Model {
	return b.model
}

// SetSkills replaces the skill catalog. The snapshot is rebuilt with the
// next version; turns already prepared keep the catalog they were built
// with.
func (b *Budget) SetSkills(entries []skills.Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = slices.Clone(entries)
	b.snapshot = b.buildSnapshot(b.entries, b.snapshot.Version()+1)

	b.log.Debug("skill catalog replaced", "skills", len(entries), "version", b.snapshot.Version())
}

// Snapshot returns the current skill snapshot.
func (b *Budget) Snapshot() skills.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshot
}

// LazySkills reports whether skills are served through load_skill.
func (b *Budget) LazySkills() bool {
	if b.opts.lazySkills != nil {
		return *b.opts.lazySkills
	}
	return skills.ResolveLazyLoadingEnabled(b.cfg.File)
}

// ExcludedTools returns the exclusion list: options first, then the
// configuration file.
func (b *Budget) ExcludedTools() []string {
	out := slices.Clone(b.opts.excluded)
	return append(out, config.ResolveExcludedTools(b.cfg.File)...)
}

// ReserveParams returns the reserve resolver inputs for this budget.
func (b *Budget) ReserveParams() compaction.ReserveParams {
	floor := compaction.ResolveReserveTokensFloor(b.cfg.File)
	if b.opts.minReserve != nil {
		floor = *b.opts.minReserve
	}
	ratio := compaction.ResolveProactiveCompactionRatio(b.cfg.File)
	if b.opts.reserveRatio != nil {
		ratio = *b.opts.reserveRatio
	}
	return compaction.ReserveParams{
		Settings:                 b.cfg.Settings,
		MinReserveTokens:         compaction.Int(floor),
		ContextWindowTokens:      compaction.Int(b.model.ContextWindow),
		ProactiveCompactionRatio: compaction.Float(ratio),
	}
}

// Prepare builds the next turn: it raises the compaction reserve if needed,
// renders the skill prompt and shapes the tool list.
func (b *Budget) Prepare(ctx context.Context) (*Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewBudgetError("Prepare", err)
	}

	turnID := uuid.New()

	reserve := compaction.EnsureReserveTokens(b.ReserveParams())
	b.hooks.TriggerReserve(ctx, reserve)
	if reserve.DidOverride {
		b.log.Info("raised compaction reserve",
			"turn_id", turnID,
			"reserve_tokens", reserve.ReserveTokens,
		)
	}

	b.mu.RLock()
	entries := b.entries
	snap := b.snapshot
	b.mu.RUnlock()

	lazy := b.LazySkills()
	candidates := b.tools.Tools()
	var skillPrompt string
	if lazy {
		skillPrompt = snap.Prompt()
		if len(entries) > 0 {
			candidates = append(candidates, skills.NewLoadSkillTool(snap.ResolvedSkills(), b.hooks.TriggerSkillLoad))
		}
	} else {
		skillPrompt = skills.BuildFullPrompt(entries)
	}

	exclude := b.ExcludedTools()
	if lazy {
		// The index tells the model to call load_skill; it must stay offered.
		exclude = slices.DeleteFunc(exclude, func(name string) bool {
			return tool.NormalizeName(name) == skills.LoadSkillToolName
		})
	}

	split := tool.Split(tool.SplitOptions{
		Tools:          candidates,
		SandboxEnabled: b.opts.sandbox,
		ExcludeTools:   exclude,
		Adapter:        b.opts.adapter,
	})
	b.hooks.TriggerToolsSplit(ctx, split)

	turnTools := tool.NewRegistry()
	excluded := tool.NewNameSet(split.Excluded)
	for _, t := range candidates {
		if excluded.Has(t.Name()) {
			continue
		}
		if err := turnTools.Register(t); err != nil {
			return nil, NewTurnError("Prepare", turnID.String(), err)
		}
	}
	executor := tool.NewExecutor(turnTools)
	if b.opts.toolTimeout > 0 {
		executor.SetDefaultTimeout(b.opts.toolTimeout)
	}

	b.log.Debug("turn prepared",
		"turn_id", turnID,
		"lazy_skills", lazy,
		"skills_version", snap.Version(),
		"tools", len(split.CustomTools),
		"excluded", split.Excluded,
	)

	return &Turn{
		ID:            turnID,
		SystemPrompt:  joinPrompt(b.cfg.SystemPrompt, skillPrompt),
		Tools:         split.CustomTools,
		Excluded:      split.Excluded,
		Reserve:       reserve,
		LazySkills:    lazy,
		SkillsVersion: snap.Version(),
		budget:        b,
		executor:      executor,
		sandbox:       split.SandboxEnabled,
	}, nil
}

func joinPrompt(parts ...string) string {
	var out string
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += "\n\n"
		}
		out += p
	}
	return out
}

// IsRequestRejected reports whether err came from a before-request hook veto.
func IsRequestRejected(err error) bool {
	return errors.Is(err, ErrRequestRejected)
}
