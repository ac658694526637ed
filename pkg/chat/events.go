package chat

import (
	"github.com/google/uuid"

	"github.com/llmcouncil/go-llm-council/pkg/llm"
)

type EventType string

const (
	EventConversationStarted EventType = "conversation_started"
	EventToken               EventType = "token"
	EventModelComplete       EventType = "model_complete"
	EventChatComplete        EventType = "chat_complete"
	EventError               EventType = "error"
)

// Event is one element of the outbound turn stream. It is a flat union:
// which fields are set depends on Type.
type Event struct {
	Type EventType `json:"type"`

	ConversationID *uuid.UUID `json:"conversation_id,omitempty"`
	UserMessageID  *uuid.UUID `json:"user_message_id,omitempty"`

	ModelID   string `json:"model_id,omitempty"`
	ModelName string `json:"model_name,omitempty"`
	Token     string `json:"token,omitempty"`

	Content      *string `json:"content,omitempty"`
	TokensInput  *int    `json:"tokens_input,omitempty"`
	TokensOutput *int    `json:"tokens_output,omitempty"`
	LatencyMS    *int64  `json:"latency_ms,omitempty"`
	Error        *string `json:"error,omitempty"`

	// Message carries the human readable text of error events.
	Message string `json:"message,omitempty"`
}

func conversationStartedEvent(conversationID uuid.UUID) Event {
	return Event{Type: EventConversationStarted, ConversationID: &conversationID}
}

func tokenEvent(modelID, token string) Event {
	return Event{Type: EventToken, ModelID: modelID, Token: token}
}

func modelCompleteEvent(modelName string, c *llm.Completion) Event {
	ev := Event{
		Type:         EventModelComplete,
		ModelID:      c.ModelID,
		ModelName:    modelName,
		Content:      c.Content,
		TokensInput:  c.TokensInput,
		TokensOutput: c.TokensOutput,
	}
	// measured latency only; units that never reached an adapter have none
	if c.LatencyMS > 0 {
		latency := c.LatencyMS
		ev.LatencyMS = &latency
	}
	if c.Err != nil {
		msg := c.Err.Error()
		ev.Error = &msg
	}
	return ev
}

func chatCompleteEvent(conversationID, userMessageID uuid.UUID) Event {
	return Event{
		Type:           EventChatComplete,
		ConversationID: &conversationID,
		UserMessageID:  &userMessageID,
	}
}

// ErrorEvent builds a request-shape error event. Exported so the
// transport layer can report envelope problems in the same stream shape.
func ErrorEvent(message, modelID string) Event {
	return Event{Type: EventError, Message: message, ModelID: modelID}
}
