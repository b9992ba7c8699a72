package tool

// SplitOptions are the inputs to Split.
type SplitOptions struct {
	Tools []Tool

	// SandboxEnabled records whether the session runs sandboxed. Split does
	// not branch on it; it is carried into the result so adapters and
	// callers can show that sandbox state was considered here.
	SandboxEnabled bool

	// ExcludeTools lists tool names to drop. Matching uses NormalizeName on
	// both sides; names that match nothing are ignored.
	ExcludeTools []string

	// Adapter converts the kept tools. Default: DefaultAdapter
	Adapter Adapter
}

// SplitResult is the tool payload for one model request.
type SplitResult struct {
	// BuiltInTools is always empty. Every tool goes through the adapter and
	// is returned in CustomTools.
	BuiltInTools []Tool

	CustomTools []Definition

	// Excluded lists the names of input tools that were filtered out.
	Excluded []string

	SandboxEnabled bool
}

// Split filters opts.Tools against the exclusion list and adapts the rest.
// The input slice is never modified.
func Split(opts SplitOptions) SplitResult {
	adapter := opts.Adapter
	if adapter == nil {
		adapter = DefaultAdapter{}
	}

	tools := opts.Tools
	var excluded []string
	if len(opts.ExcludeTools) > 0 {
		set := NewNameSet(opts.ExcludeTools)
		kept := make([]Tool, 0, len(tools))
		for _, t := range tools {
			if set.Has(t.Name()) {
				excluded = append(excluded, t.Name())
				continue
			}
			kept = append(kept, t)
		}
		tools = kept
	}

	return SplitResult{
		BuiltInTools:   []Tool{},
		CustomTools:    adapter.Adapt(tools),
		Excluded:       excluded,
		SandboxEnabled: opts.SandboxEnabled,
	}
}
