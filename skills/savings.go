package skills

import (
	"context"

	"github.com/youssefsiam38/agentbudget/tokens"
)

// Savings compares the prompt cost of the compact index with the full
// catalog.
type Savings struct {
	IndexTokens int
	FullTokens  int
}

// Saved returns how many tokens the index saves. It is never negative.
func (s Savings) Saved() int {
	return max(0, s.FullTokens-s.IndexTokens)
}

// Ratio returns IndexTokens/FullTokens, or 0 when there is nothing to load.
func (s Savings) Ratio() float64 {
	if s.FullTokens == 0 {
		return 0
	}
	return float64(s.IndexTokens) / float64(s.FullTokens)
}

// EstimateSavings counts both renderings of entries with counter. A nil
// counter uses tokens.Approximate.
func EstimateSavings(ctx context.Context, entries []Entry, counter tokens.Counter) Savings {
	if counter == nil {
		counter = tokens.Approximate{}
	}
	return Savings{
		IndexTokens: counter.Count(ctx, BuildCompactIndex(entries)),
		FullTokens:  counter.Count(ctx, BuildFullPrompt(entries)),
	}
}
