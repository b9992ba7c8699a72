package compaction

import (
	"math"

	"github.com/youssefsiam38/agentbudget/config"
)

// Default configuration values.
const (
	DefaultReserveTokensFloor = 40000 // Minimum compaction headroom
	DefaultReserveRatio       = 0.2   // Compaction triggers at 80% usage
	MinReserveRatio           = 0.1
	MaxReserveRatio           = 0.5
)

// ResolveReserveTokensFloor reads agents.defaults.compaction.reserveTokensFloor.
//
// A finite, non-negative value is floored to an integer and returned (zero
// included). Anything else, including a missing config, yields
// DefaultReserveTokensFloor.
func ResolveReserveTokensFloor(cfg *config.Config) int {
	comp := cfg.CompactionSettings()
	if comp == nil || comp.ReserveTokensFloor == nil {
		return DefaultReserveTokensFloor
	}
	raw := *comp.ReserveTokensFloor
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw < 0 {
		return DefaultReserveTokensFloor
	}
	return int(math.Floor(raw))
}

// ResolveProactiveCompactionRatio reads agents.defaults.compaction.proactiveCompactionRatio.
//
// Values inside the closed range [MinReserveRatio, MaxReserveRatio] are
// returned as-is. Out-of-range values are rejected in favor of
// DefaultReserveRatio, never clamped to the nearest bound.
func ResolveProactiveCompactionRatio(cfg *config.Config) float64 {
	comp := cfg.CompactionSettings()
	if comp == nil || comp.ProactiveCompactionRatio == nil {
		return DefaultReserveRatio
	}
	raw := *comp.ProactiveCompactionRatio
	if math.IsNaN(raw) || raw < MinReserveRatio || raw > MaxReserveRatio {
		return DefaultReserveRatio
	}
	return raw
}
