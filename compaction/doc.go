// Package compaction decides how much of a model's context window must stay
// free so that conversation compaction can run before the window fills up.
//
// The reserve is adaptive: it is the larger of a fixed floor and a fraction
// of the active model's context window.
//
//	adaptive = max(floor, floor(contextWindow * ratio))   // contextWindow > 0
//	adaptive = floor                                      // otherwise
//
// # Usage
//
// Resolve the floor and ratio from configuration, then reconcile the
// settings store once per session start or model switch:
//
//	result := compaction.EnsureReserveTokens(compaction.ReserveParams{
//	    Settings:                 store,
//	    MinReserveTokens:         compaction.Int(compaction.ResolveReserveTokensFloor(cfg)),
//	    ContextWindowTokens:      compaction.Int(200000),
//	    ProactiveCompactionRatio: compaction.Float(compaction.ResolveProactiveCompactionRatio(cfg)),
//	})
//	if result.DidOverride {
//	    logger.Info("raised compaction reserve", "reserve_tokens", result.ReserveTokens)
//	}
//
// # Concurrency
//
// EnsureReserveTokens reads the current reserve and then conditionally
// writes a new one. The two steps are not atomic with respect to the
// settings store, and this package does no locking: concurrent calls
// against one store are last-write-wins, so a lower adaptive value can
// overwrite a higher one written moments earlier. Use one store per session
// or serialize calls per store.
package compaction
