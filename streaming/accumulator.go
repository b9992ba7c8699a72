package streaming

import (
	"encoding/json"
	"strings"

	"github.com/youssefsiam38/agentbudget/tool"
	"github.com/youssefsiam38/agentbudget/types"
)

// Accumulator folds stream events into a complete message. It is not safe
// for concurrent use.
type Accumulator struct {
	messageID    string
	model        string
	content      []*pendingBlock
	stopReason   string
	stopSequence string
	usage        Usage

	open map[int]*pendingBlock
}

type pendingBlock struct {
	kind     types.ContentType
	text     strings.Builder
	toolID   string
	toolName string
	input    strings.Builder
}

// Usage tracks token usage
type Usage struct {
	InputTokens         int
	OutputTokens        int
	CacheCreationTokens int
	CacheReadTokens     int
}

// NewAccumulator creates a new stream accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{
		open: make(map[int]*pendingBlock),
	}
}

// Add applies one event. Deltas for a block that was never started are
// dropped.
func (a *Accumulator) Add(event Event) {
	switch e := event.(type) {
	case *MessageStartEvent:
		a.messageID = e.MessageID
		a.model = e.Model
		a.usage.InputTokens = e.InputTokens
		a.usage.CacheCreationTokens = e.CacheCreationTokens
		a.usage.CacheReadTokens = e.CacheReadTokens

	case *TextStartEvent:
		a.start(e.Index, &pendingBlock{kind: types.ContentTypeText})

	case *ToolUseStartEvent:
		a.start(e.Index, &pendingBlock{kind: types.ContentTypeToolUse, toolID: e.ToolID, toolName: e.ToolName})

	case *TextDeltaEvent:
		if b, ok := a.open[e.Index]; ok {
			b.text.WriteString(e.Delta)
		}

	case *ToolInputDeltaEvent:
		if b, ok := a.open[e.Index]; ok {
			b.input.WriteString(e.Delta)
		}

	case *ContentBlockStopEvent:
		delete(a.open, e.Index)

	case *MessageDeltaEvent:
		a.stopReason = e.StopReason
		a.stopSequence = e.StopSequence
		a.usage.OutputTokens = e.OutputTokens
	}
}

func (a *Accumulator) start(index int, b *pendingBlock) {
	a.open[index] = b
	a.content = append(a.content, b)
}

// Message returns the message accumulated so far. Blocks that have started
// but not stopped are included with the content received.
func (a *Accumulator) Message() *Message {
	return &Message{
		ID:           a.messageID,
		Model:        a.model,
		Content:      a.buildContentBlocks(),
		StopReason:   a.stopReason,
		StopSequence: a.stopSequence,
		Usage:        a.usage,
	}
}

func (a *Accumulator) buildContentBlocks() []types.ContentBlock {
	blocks := make([]types.ContentBlock, 0, len(a.content))
	for _, b := range a.content {
		block := types.ContentBlock{Type: b.kind}
		switch b.kind {
		case types.ContentTypeText:
			block.Text = b.text.String()
		case types.ContentTypeToolUse:
			block.ToolUseID = b.toolID
			block.ToolName = b.toolName
			input := b.input.String()
			if input == "" {
				input = "{}"
			}
			block.ToolInputRaw = json.RawMessage(input)
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// Message is a complete assistant response.
type Message struct {
	ID           string
	Model        string
	Content      []types.ContentBlock
	StopReason   string
	StopSequence string
	Usage        Usage
}

// Text concatenates the text blocks.
func (m *Message) Text() string {
	return m.Conversation().Text()
}

// ToolCalls lists the tool_use blocks as executor requests, in order.
func (m *Message) ToolCalls() []tool.ToolCallRequest {
	var calls []tool.ToolCallRequest
	for _, b := range m.Content {
		if b.Type == types.ContentTypeToolUse {
			calls = append(calls, tool.ToolCallRequest{ID: b.ToolUseID, ToolName: b.ToolName, Input: b.ToolInputRaw})
		}
	}
	return calls
}

// Conversation returns the response as an assistant message for the next
// request's history.
func (m *Message) Conversation() *types.Message {
	return &types.Message{
		Role:    types.RoleAssistant,
		Content: append([]types.ContentBlock(nil), m.Content...),
	}
}
