package compaction

import "math"

// SettingsManager is the narrow view of a settings store this package needs.
// Persistence and validation are the store's business.
type SettingsManager interface {
	// GetCompactionReserveTokens returns the reserve currently in effect.
	GetCompactionReserveTokens() int

	// ApplyOverrides merges a partial override into the store.
	ApplyOverrides(overrides Overrides)
}

// Overrides is a partial settings update.
type Overrides struct {
	Compaction CompactionOverrides `json:"compaction"`
}

// CompactionOverrides holds the compaction fields that can be overridden.
type CompactionOverrides struct {
	ReserveTokens int `json:"reserveTokens"`
}

// ReserveParams are the inputs to EnsureReserveTokens.
// Nil pointers select the package defaults.
type ReserveParams struct {
	// Settings is the store to read from and, if needed, write to (required).
	Settings SettingsManager

	// MinReserveTokens is the floor for the reserve.
	// Default: DefaultReserveTokensFloor
	MinReserveTokens *int

	// ContextWindowTokens is the active model's context window. When nil or
	// not positive the reserve is just the floor.
	ContextWindowTokens *int

	// ProactiveCompactionRatio is the fraction of the context window to reserve.
	// Default: DefaultReserveRatio
	ProactiveCompactionRatio *float64
}

// ReserveResult reports the outcome of EnsureReserveTokens.
type ReserveResult struct {
	// DidOverride is true when an override was written to the store.
	DidOverride bool

	// ReserveTokens is the reserve in effect after the call.
	ReserveTokens int
}

// EnsureReserveTokens raises the store's compaction reserve to the adaptive
// target when the current value is below it.
//
// When the current reserve is already sufficient nothing is written and
// DidOverride is false. Otherwise exactly one ApplyOverrides call is made
// with the adaptive value. Calling it again afterwards is a no-op.
//
// This is a one-shot correction, not a standing policy; callers choose when
// to run it. See the package documentation for concurrency caveats.
func EnsureReserveTokens(params ReserveParams) ReserveResult {
	floor := DefaultReserveTokensFloor
	if params.MinReserveTokens != nil {
		floor = *params.MinReserveTokens
	}
	ratio := DefaultReserveRatio
	if params.ProactiveCompactionRatio != nil {
		ratio = *params.ProactiveCompactionRatio
	}
	contextWindow := 0
	if params.ContextWindowTokens != nil {
		contextWindow = *params.ContextWindowTokens
	}

	adaptive := AdaptiveReserveTokens(floor, contextWindow, ratio)

	current := params.Settings.GetCompactionReserveTokens()
	if current >= adaptive {
		return ReserveResult{DidOverride: false, ReserveTokens: current}
	}

	params.Settings.ApplyOverrides(Overrides{
		Compaction: CompactionOverrides{ReserveTokens: adaptive},
	})

	return ReserveResult{DidOverride: true, ReserveTokens: adaptive}
}

// AdaptiveReserveTokens returns max(floor, floor(contextWindow*ratio)) for a
// positive context window, and floor otherwise.
func AdaptiveReserveTokens(floor, contextWindow int, ratio float64) int {
	if contextWindow <= 0 {
		return floor
	}
	return max(floor, int(math.Floor(float64(contextWindow)*ratio)))
}

// Int returns a pointer to v, for building ReserveParams inline.
func Int(v int) *int {
	return &v
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
