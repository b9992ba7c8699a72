package streaming

import "github.com/anthropics/anthropic-sdk-go"

// EventType represents the type of streaming event
type EventType string

const (
	EventTypeMessageStart      EventType = "message_start"
	EventTypeContentBlockStart EventType = "content_block_start"
	EventTypeContentBlockDelta EventType = "content_block_delta"
	EventTypeContentBlockStop  EventType = "content_block_stop"
	EventTypeMessageDelta      EventType = "message_delta"
	EventTypeMessageStop       EventType = "message_stop"
)

// Event is a provider-neutral stream event delivered to Options.OnEvent.
type Event interface {
	Type() EventType
}

// MessageStartEvent is emitted when a message starts
type MessageStartEvent struct {
	MessageID           string
	Model               string
	InputTokens         int
	CacheCreationTokens int
	CacheReadTokens     int
}

func (e *MessageStartEvent) Type() EventType { return EventTypeMessageStart }

// TextStartEvent is emitted when a text block starts
type TextStartEvent struct {
	Index int
}

func (e *TextStartEvent) Type() EventType { return EventTypeContentBlockStart }

// TextDeltaEvent is emitted when text content arrives
type TextDeltaEvent struct {
	Index int
	Delta string
}

func (e *TextDeltaEvent) Type() EventType { return EventTypeContentBlockDelta }

// ToolUseStartEvent is emitted when a tool use block starts
type ToolUseStartEvent struct {
	Index    int
	ToolID   string
	ToolName string
}

func (e *ToolUseStartEvent) Type() EventType { return EventTypeContentBlockStart }

// ToolInputDeltaEvent carries a fragment of a tool call's JSON input.
type ToolInputDeltaEvent struct {
	Index int
	Delta string
}

func (e *ToolInputDeltaEvent) Type() EventType { return EventTypeContentBlockDelta }

// ContentBlockStopEvent is emitted when a content block ends
type ContentBlockStopEvent struct {
	Index int
}

func (e *ContentBlockStopEvent) Type() EventType { return EventTypeContentBlockStop }

// MessageDeltaEvent is emitted when message metadata changes
type MessageDeltaEvent struct {
	StopReason   string
	StopSequence string
	OutputTokens int
}

func (e *MessageDeltaEvent) Type() EventType { return EventTypeMessageDelta }

// MessageStopEvent is emitted when the message ends
type MessageStopEvent struct{}

func (e *MessageStopEvent) Type() EventType { return EventTypeMessageStop }

// FromAnthropic translates an SDK stream event. It returns nil for event
// kinds that have no neutral form, such as thinking deltas.
func FromAnthropic(event anthropic.MessageStreamEventUnion) Event {
	switch e := event.AsAny().(type) {
	case anthropic.MessageStartEvent:
		return &MessageStartEvent{
			MessageID:           e.Message.ID,
			Model:               string(e.Message.Model),
			InputTokens:         int(e.Message.Usage.InputTokens),
			CacheCreationTokens: int(e.Message.Usage.CacheCreationInputTokens),
			CacheReadTokens:     int(e.Message.Usage.CacheReadInputTokens),
		}

	case anthropic.ContentBlockStartEvent:
		switch block := e.ContentBlock.AsAny().(type) {
		case anthropic.TextBlock:
			return &TextStartEvent{Index: int(e.Index)}
		case anthropic.ToolUseBlock:
			return &ToolUseStartEvent{Index: int(e.Index), ToolID: block.ID, ToolName: block.Name}
		}

	case anthropic.ContentBlockDeltaEvent:
		switch delta := e.Delta.AsAny().(type) {
		case anthropic.TextDelta:
			return &TextDeltaEvent{Index: int(e.Index), Delta: delta.Text}
		case anthropic.InputJSONDelta:
			return &ToolInputDeltaEvent{Index: int(e.Index), Delta: delta.PartialJSON}
		}

	case anthropic.ContentBlockStopEvent:
		return &ContentBlockStopEvent{Index: int(e.Index)}

	case anthropic.MessageDeltaEvent:
		return &MessageDeltaEvent{
			StopReason:   string(e.Delta.StopReason),
			StopSequence: e.Delta.StopSequence,
			OutputTokens: int(e.Usage.OutputTokens),
		}

	case anthropic.MessageStopEvent:
		return &MessageStopEvent{}
	}
	return nil
}
