package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/llmcouncil/go-llm-council/pkg/models"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
)

// Store is the persistence gateway for conversations and messages.
// All reads return records with messages ordered oldest-first.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateConversation inserts a new conversation. Title may be nil; it is
// derived from the first user message later.
func (s *Store) CreateConversation(ctx context.Context, title *string) (*models.Conversation, error) {
	conv := &models.Conversation{Title: title}
	if err := s.db.WithContext(ctx).Create(conv).Error; err != nil {
		return nil, errors.Wrap(err, "creating conversation")
	}
	return conv, nil
}

// GetConversation loads a conversation with its full message history.
func (s *Store) GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.created_at ASC")
		}).
		First(&conv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading conversation")
	}
	return &conv, nil
}

// ListConversations returns conversation summaries, most recently
// updated first.
func (s *Store) ListConversations(ctx context.Context, limit, offset int) ([]models.ConversationSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	var convs []models.Conversation
	err := s.db.WithContext(ctx).
		Order("updated_at DESC").
		Limit(limit).Offset(offset).
		Find(&convs).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing conversations")
	}
	summaries := make([]models.ConversationSummary, 0, len(convs))
	for _, c := range convs {
		summaries = append(summaries, c.Summary())
	}
	return summaries, nil
}

// DeleteConversation removes a conversation and, via the FK constraint,
// all of its messages.
func (s *Store) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Conversation{}, "id = ?", id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "deleting conversation")
	}
	if res.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// UpdateTitle replaces a conversation's title.
func (s *Store) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	res := s.db.WithContext(ctx).Model(&models.Conversation{}).
		Where("id = ?", id).
		Update("title", title)
	if res.Error != nil {
		return errors.Wrap(res.Error, "updating title")
	}
	if res.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// titleLimit is the number of leading characters of the first user
// message used as the auto-derived conversation title.
const titleLimit = 50

func deriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titleLimit {
		return content
	}
	return string(runes[:titleLimit]) + "..."
}

// AddUserMessage appends a user message, bumps the conversation's
// updated_at and derives a title from the content when none is set.
func (s *Store) AddUserMessage(ctx context.Context, conversationID uuid.UUID, content string) (*models.Message, error) {
	msg := &models.Message{
		ConversationID: conversationID,
		Role:           models.MessageRoleUser,
		Content:        &content,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv models.Conversation
		if err := tx.First(&conv, "id = ?", conversationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrConversationNotFound
			}
			return err
		}
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{"updated_at": msg.CreatedAt}
		if conv.Title == nil {
			updates["title"] = deriveTitle(content)
		}
		return tx.Model(&conv).Updates(updates).Error
	})
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, "adding user message")
	}
	return msg, nil
}

// AssistantMessage carries the outcome of one model's reply, successful
// or failed, for persistence.
type AssistantMessage struct {
	ModelID      string
	ModelName    *string
	Content      *string
	TokensInput  *int
	TokensOutput *int
	LatencyMS    *int64
	Error        *string
	ParentID     *uuid.UUID
}

// AddAssistantMessage appends one model response and bumps updated_at.
// Failed responses are stored too, with Error set and Content nil or
// holding whatever partial output was streamed.
func (s *Store) AddAssistantMessage(ctx context.Context, conversationID uuid.UUID, am AssistantMessage) (*models.Message, error) {
	msg := &models.Message{
		ConversationID:  conversationID,
		Role:            models.MessageRoleAssistant,
		Content:         am.Content,
		ModelID:         &am.ModelID,
		ModelName:       am.ModelName,
		TokensInput:     am.TokensInput,
		TokensOutput:    am.TokensOutput,
		LatencyMS:       am.LatencyMS,
		Error:           am.Error,
		ParentMessageID: am.ParentID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			Update("updated_at", msg.CreatedAt).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "adding assistant message")
	}
	return msg, nil
}

// MarkSelected flips the selection flag of one assistant message and
// clears it on all siblings sharing the same parent, in one transaction.
func (s *Store) MarkSelected(ctx context.Context, conversationID, messageID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var msg models.Message
		err := tx.First(&msg, "id = ? AND conversation_id = ? AND role = ?",
			messageID, conversationID, models.MessageRoleAssistant).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		if err != nil {
			return errors.Wrap(err, "loading message")
		}

		siblings := tx.Model(&models.Message{}).
			Where("conversation_id = ? AND role = ?", conversationID, models.MessageRoleAssistant)
		if msg.ParentMessageID != nil {
			siblings = siblings.Where("parent_message_id = ?", *msg.ParentMessageID)
		} else {
			siblings = siblings.Where("parent_message_id IS NULL")
		}
		if err := siblings.Update("is_selected", false).Error; err != nil {
			return errors.Wrap(err, "clearing sibling selection")
		}

		return errors.Wrap(
			tx.Model(&models.Message{}).
				Where("id = ?", messageID).
				Update("is_selected", true).Error,
			"marking selection")
	})
}
