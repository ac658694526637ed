package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/d4l-data4life/go-svc/pkg/logging"

	"github.com/llmcouncil/go-llm-council/pkg/catalog"
	"github.com/llmcouncil/go-llm-council/pkg/llm"
	"github.com/llmcouncil/go-llm-council/pkg/metrics"
	"github.com/llmcouncil/go-llm-council/pkg/models"
	"github.com/llmcouncil/go-llm-council/pkg/store"
)

// Orchestrator fans one user turn out to several model backends
// concurrently and multiplexes their streams into a single event
// channel. One model failing never affects its siblings; the turn
// always ends with exactly one chat_complete.
type Orchestrator struct {
	store   *store.Store
	client  llm.Client
	catalog *catalog.Registry
}

func NewOrchestrator(s *store.Store, client llm.Client, reg *catalog.Registry) *Orchestrator {
	return &Orchestrator{store: s, client: client, catalog: reg}
}

// RunTurn starts one turn: resolve or create the conversation, persist
// the user message, stream every model concurrently. Precondition
// violations (empty text, no models) are returned as errors before any
// event is produced; everything after that flows through the returned
// channel, which closes after chat_complete.
func (o *Orchestrator) RunTurn(ctx context.Context, conversationID *uuid.UUID, userText string, modelIDs []string) (<-chan Event, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return nil, ErrEmptyMessage
	}
	if len(modelIDs) == 0 {
		return nil, ErrNoModels
	}

	// Writes must survive a client disconnect: the request context only
	// cancels the provider streams, not persistence.
	persistCtx := context.WithoutCancel(ctx)

	conv, err := o.resolveConversation(persistCtx, conversationID)
	if err != nil {
		return nil, err
	}
	userMsg, err := o.store.AddUserMessage(persistCtx, conv.ID, userText)
	if err != nil {
		return nil, err
	}
	// Reload so the assembler sees the full history including the new
	// user message, which it treats as the open turn and skips.
	conv, err = o.store.GetConversation(persistCtx, conv.ID)
	if err != nil {
		return nil, err
	}

	events := make(chan Event, streamBufferSize())
	go o.runUnits(ctx, persistCtx, events, conv, userMsg, modelIDs)
	return events, nil
}

func (o *Orchestrator) runUnits(ctx, persistCtx context.Context, events chan<- Event, conv *models.Conversation, userMsg *models.Message, modelIDs []string) {
	defer close(events)

	events <- conversationStartedEvent(conv.ID)

	// Barrier join: wait for every unit's terminal state, successful or
	// not. A fail-fast join would break failure isolation.
	var wg sync.WaitGroup
	for _, modelID := range modelIDs {
		wg.Add(1)
		go func(modelID string) {
			defer wg.Done()
			o.runUnit(ctx, persistCtx, events, conv, userMsg, modelID)
		}(modelID)
	}
	wg.Wait()

	events <- chatCompleteEvent(conv.ID, userMsg.ID)
}

// runUnit is the fault boundary of a single model: whatever goes wrong
// inside ends as one model_complete event with the error attached.
func (o *Orchestrator) runUnit(ctx, persistCtx context.Context, events chan<- Event, conv *models.Conversation, userMsg *models.Message, modelID string) {
	history := BuildContext(conv, modelID)
	history = append(history, llm.ChatMessage{Role: llm.RoleUser, Content: *userMsg.Content})

	completion := o.streamModel(ctx, events, modelID, history)
	o.finishUnit(persistCtx, events, conv.ID, userMsg.ID, completion)
}

func (o *Orchestrator) streamModel(ctx context.Context, events chan<- Event, modelID string, history []llm.ChatMessage) *llm.Completion {
	chunks, err := o.client.Stream(ctx, modelID, history)
	if err != nil {
		return &llm.Completion{ModelID: modelID, Err: err}
	}

	var terminal *llm.Completion
	for chunk := range chunks {
		switch chunk.Kind {
		case llm.ChunkKindToken:
			events <- tokenEvent(modelID, chunk.Token)
			metrics.TokensRelayed.WithLabelValues(modelID).Inc()
		case llm.ChunkKindComplete:
			terminal = chunk.Completion
		}
	}
	if terminal == nil {
		// adapter contract violation, synthesize the terminal result
		logging.LogWarningf(nil, "stream for model %s ended without terminal chunk", modelID)
		terminal = &llm.Completion{ModelID: modelID, Err: llm.ErrRequestFailed}
	}
	return terminal
}

// finishUnit persists the assistant message and emits model_complete.
// A failed write is logged and the event still goes out; reporting the
// response the user already watched stream beats strict durability.
func (o *Orchestrator) finishUnit(persistCtx context.Context, events chan<- Event, conversationID, userMessageID uuid.UUID, completion *llm.Completion) {
	modelName := o.modelName(completion.ModelID)

	am := store.AssistantMessage{
		ModelID:      completion.ModelID,
		ModelName:    &modelName,
		Content:      completion.Content,
		TokensInput:  completion.TokensInput,
		TokensOutput: completion.TokensOutput,
		ParentID:     &userMessageID,
	}
	if completion.LatencyMS > 0 {
		latency := completion.LatencyMS
		am.LatencyMS = &latency
	}
	if completion.Err != nil {
		msg := completion.Err.Error()
		am.Error = &msg
	}

	if _, err := o.store.AddAssistantMessage(persistCtx, conversationID, am); err != nil {
		logging.LogErrorf(err, "persisting response of model %s", completion.ModelID)
	}

	metrics.ObserveCompletion(completion.ModelID, completion.LatencyMS, completion.Err != nil)
	events <- modelCompleteEvent(modelName, completion)
}

func (o *Orchestrator) resolveConversation(ctx context.Context, conversationID *uuid.UUID) (*models.Conversation, error) {
	if conversationID != nil {
		conv, err := o.store.GetConversation(ctx, *conversationID)
		if err == nil {
			return conv, nil
		}
		if !errors.Is(err, store.ErrConversationNotFound) {
			return nil, err
		}
		logging.LogDebugf("conversation %s not found, starting a new one", conversationID)
	}
	return o.store.CreateConversation(ctx, nil)
}

func (o *Orchestrator) modelName(modelID string) string {
	if m, ok := o.catalog.Lookup(modelID); ok {
		return m.Name
	}
	return modelID
}

func streamBufferSize() int {
	if size := viper.GetInt("STREAM_BUFFER_SIZE"); size > 0 {
		return size
	}
	return 64
}
