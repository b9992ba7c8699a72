package streaming

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tidwall/gjson"

	"github.com/youssefsiam38/agentbudget/types"
)

var toolUseStream = []string{
	`{"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-5","content":[],"stop_reason":null,"stop_sequence":null,"usage":{"input_tokens":25,"output_tokens":1}}}`,
	`{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`,
	`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Reading it."}}`,
	`{"type":"content_block_stop","index":0}`,
	`{"type":"content_block_start","index":1,"content_block":{"type":"tool_use","id":"toolu_1","name":"read","input":{}}}`,
	`{"type":"content_block_delta","index":1,"delta":{"type":"input_json_delta","partial_json":"{\"path\": \"a.txt\"}"}}`,
	`{"type":"content_block_stop","index":1}`,
	`{"type":"message_delta","delta":{"stop_reason":"tool_use","stop_sequence":null},"usage":{"output_tokens":30}}`,
	`{"type":"message_stop"}`,
}

type capturedRequest struct {
	header http.Header
	body   []byte
}

func sseServer(t *testing.T, events []string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.header = r.Header.Clone()
		captured.body, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "text/event-stream")
		for _, data := range events {
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", gjson.Get(data, "type").Str, data)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func testClient(srv *httptest.Server) *anthropic.Client {
	client := anthropic.NewClient(
		option.WithBaseURL(srv.URL),
		option.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Transport: &http.Transport{DisableKeepAlives: true}}),
	)
	return &client
}

func TestNewAnthropicFunc(t *testing.T) {
	srv, captured := sseServer(t, toolUseStream)

	var seen []EventType
	send := WithTokenEfficientTools(NewAnthropicFunc(testClient(srv)))

	msg, err := send(context.Background(), claude, Request{
		SystemPrompt: "be brief",
		Messages:     []*types.Message{types.NewUserMessage("read a.txt")},
		Tools:        withTools.Tools,
		Extra:        map[string]any{"metadata": map[string]any{"user_id": "u-1"}},
	}, Options{
		Betas:   []string{"prompt-caching-2024-07-31"},
		Headers: map[string]string{"X-Trace": "t-1"},
		OnEvent: func(e Event) { seen = append(seen, e.Type()) },
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got, want := captured.header.Get("anthropic-beta"), "prompt-caching-2024-07-31,"+TokenEfficientToolsBeta; got != want {
		t.Errorf("anthropic-beta = %q, want %q", got, want)
	}
	if got := captured.header.Get("X-Trace"); got != "t-1" {
		t.Errorf("X-Trace = %q, want t-1", got)
	}

	body := gjson.ParseBytes(captured.body)
	for path, want := range map[string]string{
		"model":            "claude-sonnet-4-5",
		"max_tokens":       fmt.Sprint(DefaultMaxTokens),
		"system.0.text":    "be brief",
		"tools.0.name":     "read",
		"metadata.user_id": "u-1",
		"stream":           "true",
	} {
		if got := body.Get(path).String(); got != want {
			t.Errorf("body %s = %q, want %q", path, got, want)
		}
	}

	if msg.ID != "msg_1" || msg.StopReason != "tool_use" {
		t.Errorf("Unexpected message: id=%q stop=%q", msg.ID, msg.StopReason)
	}
	if msg.Text() != "Reading it." {
		t.Errorf("Expected text 'Reading it.', got '%s'", msg.Text())
	}
	if msg.Usage.InputTokens != 25 || msg.Usage.OutputTokens != 30 {
		t.Errorf("Unexpected usage: %+v", msg.Usage)
	}

	calls := msg.ToolCalls()
	if len(calls) != 1 {
		t.Fatalf("Expected 1 tool call, got %d", len(calls))
	}
	if got := gjson.GetBytes(calls[0].Input, "path").Str; got != "a.txt" {
		t.Errorf("tool input path = %q, want a.txt", got)
	}

	if len(seen) == 0 || seen[0] != EventTypeMessageStart || seen[len(seen)-1] != EventTypeMessageStop {
		t.Errorf("Unexpected event order: %v", seen)
	}
}

func TestNewAnthropicFunc_NoToolsNoBetaHeader(t *testing.T) {
	srv, captured := sseServer(t, toolUseStream[:1])

	send := WithTokenEfficientTools(NewAnthropicFunc(testClient(srv)))
	_, err := send(context.Background(), claude, Request{
		Messages: []*types.Message{types.NewUserMessage("hi")},
	}, Options{MaxTokens: 128})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := captured.header.Get("anthropic-beta"); got != "" {
		t.Errorf("anthropic-beta = %q, want none", got)
	}
	if gjson.GetBytes(captured.body, "tools").Exists() {
		t.Error("request body carries tools")
	}
	if got := gjson.GetBytes(captured.body, "max_tokens").Int(); got != 128 {
		t.Errorf("max_tokens = %d, want 128", got)
	}
}

func TestNewAnthropicFunc_RejectsOtherAPIs(t *testing.T) {
	client := anthropic.NewClient(option.WithAPIKey("unused"))
	_, err := NewAnthropicFunc(&client)(context.Background(), gpt, Request{}, Options{})
	if !errors.Is(err, ErrUnsupportedAPI) {
		t.Errorf("Expected ErrUnsupportedAPI, got %v", err)
	}
}

func TestNewAnthropicFunc_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer srv.Close()

	_, err := NewAnthropicFunc(testClient(srv))(context.Background(), claude, Request{
		Messages: []*types.Message{types.NewUserMessage("hi")},
	}, Options{})
	if err == nil || !strings.Contains(err.Error(), "streaming error") {
		t.Errorf("Expected streaming error, got %v", err)
	}
}
