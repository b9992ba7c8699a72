// Package tokens estimates how many tokens a piece of text costs.
package tokens

import (
	"context"
	"strconv"

	"github.com/anthropics/anthropic-sdk-go"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/xxh3"
)

// DefaultCacheSize is the number of counts an APICounter remembers.
const DefaultCacheSize = 1024

// Counter counts tokens in text.
type Counter interface {
	Count(ctx context.Context, text string) int
}

// ApproximateTokens provides fast estimation without an API call.
// Claude tokenizes roughly 3.5 characters per token for English text; any
// non-empty text costs at least one token.
func ApproximateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return max(1, len(text)*10/35)
}

// Approximate is a Counter backed by ApproximateTokens.
type Approximate struct{}

// Count implements Counter.
func (Approximate) Count(_ context.Context, text string) int {
	return ApproximateTokens(text)
}

// APICounter uses Claude's token counting API with an LRU cache, falling
// back to ApproximateTokens when the API call fails.
type APICounter struct {
	client *anthropic.Client
	model  string
	cache  *lru.Cache[string, int]
}

// NewAPICounter creates a counter for the given model.
// A cacheSize of zero or less selects DefaultCacheSize.
func NewAPICounter(client *anthropic.Client, model string, cacheSize int) (*APICounter, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, int](cacheSize)
	if err != nil {
		return nil, err
	}
	return &APICounter{client: client, model: model, cache: cache}, nil
}

// Count implements Counter.
func (c *APICounter) Count(ctx context.Context, text string) int {
	if text == "" {
		return 0
	}
	key := c.cacheKey(text)
	if n, ok := c.cache.Get(key); ok {
		return n
	}

	resp, err := c.client.Messages.CountTokens(ctx, anthropic.MessageCountTokensParams{
		Model: anthropic.Model(c.model),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		// Fallback is not cached so a later call can still reach the API.
		return ApproximateTokens(text)
	}

	n := int(resp.InputTokens)
	c.cache.Add(key, n)
	return n
}

func (c *APICounter) cacheKey(text string) string {
	return c.model + ":" + strconv.FormatUint(xxh3.HashString(text), 16)
}
