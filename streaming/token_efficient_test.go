package streaming

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/youssefsiam38/agentbudget/tool"
)

// recorder is a Func that remembers the options of every call.
type recorder struct {
	mu    sync.Mutex
	calls []Options
}

func (r *recorder) fn(_ context.Context, _ Model, _ Request, opts Options) (*Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, opts)
	return &Message{ID: "msg"}, nil
}

func (r *recorder) last() Options {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[len(r.calls)-1]
}

var (
	claude = Model{ID: "claude-sonnet-4-5", API: APIAnthropicMessages, Provider: "anthropic"}
	gpt    = Model{ID: "gpt-4.1", API: APIOpenAICompletions, Provider: "openai"}

	withTools = Request{Tools: []tool.Definition{{Name: "read", InputSchema: map[string]any{"type": "object"}}}}
)

func TestWithTokenEfficientTools(t *testing.T) {
	tests := []struct {
		name      string
		model     Model
		req       Request
		betas     []string
		wantBetas []string
	}{
		{
			name:      "anthropic with tools gets the beta",
			model:     claude,
			req:       withTools,
			wantBetas: []string{TokenEfficientToolsBeta},
		},
		{
			name:      "existing betas are kept first",
			model:     claude,
			req:       withTools,
			betas:     []string{"prompt-caching-2024-07-31"},
			wantBetas: []string{"prompt-caching-2024-07-31", TokenEfficientToolsBeta},
		},
		{
			name:      "beta already present is not duplicated",
			model:     claude,
			req:       withTools,
			betas:     []string{TokenEfficientToolsBeta, "x"},
			wantBetas: []string{TokenEfficientToolsBeta, "x"},
		},
		{
			name:  "anthropic without tools is untouched",
			model: claude,
			req:   Request{},
		},
		{
			name:      "other providers are untouched",
			model:     gpt,
			req:       withTools,
			betas:     []string{"x"},
			wantBetas: []string{"x"},
		},
		{
			name:  "unknown api is untouched",
			model: Model{ID: "m", API: "custom"},
			req:   withTools,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			wrapped := WithTokenEfficientTools(rec.fn)

			msg, err := wrapped(context.Background(), tt.model, tt.req, Options{Betas: tt.betas, MaxTokens: 99})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if msg.ID != "msg" {
				t.Errorf("Expected message from the wrapped func, got %q", msg.ID)
			}

			got := rec.last()
			if !slices.Equal(got.Betas, tt.wantBetas) {
				t.Errorf("Betas = %v, want %v", got.Betas, tt.wantBetas)
			}
			if got.MaxTokens != 99 {
				t.Errorf("MaxTokens = %d, want 99", got.MaxTokens)
			}
		})
	}
}

func TestWithTokenEfficientTools_DoesNotMutateCaller(t *testing.T) {
	rec := &recorder{}
	wrapped := WithTokenEfficientTools(rec.fn)

	betas := make([]string, 1, 8)
	betas[0] = "existing"
	opts := Options{Betas: betas}

	for range 2 {
		if _, err := wrapped(context.Background(), claude, withTools, opts); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got := rec.last().Betas; !slices.Equal(got, []string{"existing", TokenEfficientToolsBeta}) {
			t.Errorf("Betas = %v", got)
		}
	}

	if !slices.Equal(opts.Betas, []string{"existing"}) {
		t.Errorf("caller Betas changed to %v", opts.Betas)
	}
	if spare := betas[:2][1]; spare != "" {
		t.Errorf("spare capacity of the caller's slice was written: %q", spare)
	}
}

func TestWithTokenEfficientTools_Concurrent(t *testing.T) {
	rec := &recorder{}
	wrapped := WithTokenEfficientTools(rec.fn, WithWrapLogger(nil))

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = wrapped(context.Background(), claude, withTools, Options{Betas: []string{"a"}})
		}()
	}
	wg.Wait()

	if len(rec.calls) != 20 {
		t.Fatalf("Expected 20 calls, got %d", len(rec.calls))
	}
	for i, c := range rec.calls {
		if !slices.Equal(c.Betas, []string{"a", TokenEfficientToolsBeta}) {
			t.Errorf("call %d Betas = %v", i, c.Betas)
		}
	}
}

func TestWithTokenEfficientTools_PropagatesErrors(t *testing.T) {
	boom := errors.New("upstream failed")
	wrapped := WithTokenEfficientTools(func(context.Context, Model, Request, Options) (*Message, error) {
		return nil, boom
	})

	if _, err := wrapped(context.Background(), claude, withTools, Options{}); !errors.Is(err, boom) {
		t.Errorf("Expected upstream error, got %v", err)
	}
}
