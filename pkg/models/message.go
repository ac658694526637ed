package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageRole defines the possible roles for a message
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Message is a single entry in a conversation: either a user prompt or one
// model's reply to it. Assistant messages link back to the user message that
// triggered them through ParentMessageID; all replies sharing a parent form a
// sibling set, of which at most one carries IsSelected.
//
// Nullable columns are pointers so a failed attempt with no output round-trips
// as null rather than as an empty string or zero.
type Message struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"conversation_id"`
	Role            MessageRole `gorm:"size:20;not null;check:role IN ('user','assistant')" json:"role"`
	Content         *string     `gorm:"type:text" json:"content"`
	ModelID         *string     `gorm:"size:100" json:"model_id"`
	ModelName       *string     `gorm:"size:100" json:"model_name"`
	TokensInput     *int        `json:"tokens_input"`
	TokensOutput    *int        `json:"tokens_output"`
	LatencyMS       *int64      `gorm:"column:latency_ms" json:"latency_ms"`
	Error           *string     `gorm:"type:text" json:"error"`
	ParentMessageID *uuid.UUID  `gorm:"type:uuid;index" json:"parent_message_id"`
	IsSelected      bool        `gorm:"not null;default:false" json:"is_selected"`
	CreatedAt       time.Time   `json:"created_at"`
}

// TableName specifies the table name for Message model
func (Message) TableName() string {
	return "messages"
}

// BeforeCreate hook to ensure ID is set
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Succeeded reports whether this assistant message carries usable content.
func (m *Message) Succeeded() bool {
	return m.Content != nil && m.Error == nil
}
