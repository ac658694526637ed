package chat

import (
	"github.com/llmcouncil/go-llm-council/pkg/llm"
	"github.com/llmcouncil/go-llm-council/pkg/models"
)

// turn groups one user message with the assistant replies it triggered.
type turn struct {
	user     models.Message
	siblings []models.Message
}

// BuildContext assembles the prompt history a model should see for its
// next reply: the conversation's messages partitioned into turns, each
// completed turn contributing its user line and at most one assistant
// line picked by selectBestResponse with preferredModelID as first
// priority. A trailing user message with no replies yet is not part of
// the history; the caller appends the message that opens the new turn.
func BuildContext(conv *models.Conversation, preferredModelID string) []llm.ChatMessage {
	var context []llm.ChatMessage
	for _, t := range partitionTurns(conv.Messages) {
		if len(t.siblings) == 0 {
			continue
		}
		content := ""
		if t.user.Content != nil {
			content = *t.user.Content
		}
		context = append(context, llm.ChatMessage{Role: llm.RoleUser, Content: content})
		if best := selectBestResponse(t.siblings, preferredModelID); best != nil {
			context = append(context, llm.ChatMessage{Role: llm.RoleAssistant, Content: *best.Content})
		}
	}
	return context
}

// partitionTurns splits messages (creation order) into turns at each
// user message. Assistant messages before the first user message are
// dropped; they have no triggering turn.
func partitionTurns(messages []models.Message) []turn {
	var turns []turn
	for _, m := range messages {
		switch m.Role {
		case models.MessageRoleUser:
			turns = append(turns, turn{user: m})
		case models.MessageRoleAssistant:
			if len(turns) > 0 {
				last := &turns[len(turns)-1]
				last.siblings = append(last.siblings, m)
			}
		}
	}
	return turns
}

// selectBestResponse picks which sibling becomes "the" assistant line
// of a prior turn. Priority among successful responses: the preferred
// model's own reply, then the human-curated is_selected one, then the
// first in creation order. Returns nil when no sibling succeeded.
func selectBestResponse(siblings []models.Message, preferredModelID string) *models.Message {
	var successful []*models.Message
	for i := range siblings {
		if siblings[i].Succeeded() {
			successful = append(successful, &siblings[i])
		}
	}
	if len(successful) == 0 {
		return nil
	}
	if preferredModelID != "" {
		for _, m := range successful {
			if m.ModelID != nil && *m.ModelID == preferredModelID {
				return m
			}
		}
	}
	for _, m := range successful {
		if m.IsSelected {
			return m
		}
	}
	return successful[0]
}
