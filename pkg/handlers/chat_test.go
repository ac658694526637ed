package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmcouncil/go-llm-council/internal/testutils"
	"github.com/llmcouncil/go-llm-council/pkg/catalog"
	"github.com/llmcouncil/go-llm-council/pkg/chat"
	"github.com/llmcouncil/go-llm-council/pkg/models"
	"github.com/llmcouncil/go-llm-council/pkg/store"
)

func newChatSession(t *testing.T, scripts map[string]testutils.ScriptedModel) (*websocket.Conn, *store.Store) {
	t.Helper()

	s := store.New(models.InitializeTestDB(t))
	reg := catalog.NewRegistry()
	orchestrator := chat.NewOrchestrator(s, testutils.NewFakeClient(scripts), reg)

	r := chi.NewRouter()
	r.Mount("/chat", NewChatHandler(orchestrator, reg).Routes())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn, s
}

func readEvent(t *testing.T, conn *websocket.Conn) chat.Event {
	t.Helper()
	var ev chat.Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

// readTurn collects events until chat_complete or error.
func readTurn(t *testing.T, conn *websocket.Conn) []chat.Event {
	t.Helper()
	var out []chat.Event
	for {
		ev := readEvent(t, conn)
		out = append(out, ev)
		if ev.Type == chat.EventChatComplete || ev.Type == chat.EventError {
			return out
		}
	}
}

func sendChat(t *testing.T, conn *websocket.Conn, conversationID *string, message string, modelIDs []string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":            "chat",
		"conversation_id": conversationID,
		"message":         message,
		"models":          modelIDs,
	}))
}

func TestSessionStreamsTurn(t *testing.T) {
	scripts := map[string]testutils.ScriptedModel{
		"gpt-4o":          {Tokens: []string{"Hel", "lo"}, Content: "Hello", TokensInput: 3, TokensOutput: 2, LatencyMS: 25},
		"ollama/llama3.2": {Failure: errors.New("connection refused")},
	}
	conn, s := newChatSession(t, scripts)

	sendChat(t, conn, nil, "hi", []string{"gpt-4o", "ollama/llama3.2"})
	events := readTurn(t, conn)

	require.GreaterOrEqual(t, len(events), 4)
	assert.Equal(t, chat.EventConversationStarted, events[0].Type)
	assert.Equal(t, chat.EventChatComplete, events[len(events)-1].Type)

	completes := make(map[string]chat.Event)
	var tokens []string
	for _, ev := range events {
		switch ev.Type {
		case chat.EventToken:
			tokens = append(tokens, ev.Token)
		case chat.EventModelComplete:
			completes[ev.ModelID] = ev
		}
	}
	assert.Equal(t, []string{"Hel", "lo"}, tokens)
	require.Len(t, completes, 2)

	ok := completes["gpt-4o"]
	require.NotNil(t, ok.Content)
	assert.Equal(t, "Hello", *ok.Content)
	assert.Equal(t, "GPT 4o", ok.ModelName)

	failed := completes["ollama/llama3.2"]
	require.NotNil(t, failed.Error)
	assert.Contains(t, *failed.Error, "connection refused")

	// both responses persisted under the started conversation
	conv, err := s.GetConversation(t.Context(), *events[0].ConversationID)
	require.NoError(t, err)
	assert.Len(t, conv.Messages, 3)
}

func TestSessionContinuesConversation(t *testing.T) {
	scripts := map[string]testutils.ScriptedModel{
		"gpt-4o": {Content: "first answer"},
	}
	conn, _ := newChatSession(t, scripts)

	sendChat(t, conn, nil, "first", []string{"gpt-4o"})
	events := readTurn(t, conn)
	convID := events[0].ConversationID.String()

	sendChat(t, conn, &convID, "second", []string{"gpt-4o"})
	events = readTurn(t, conn)
	assert.Equal(t, convID, events[0].ConversationID.String())
}

func TestSessionSurvivesRequestShapeErrors(t *testing.T) {
	scripts := map[string]testutils.ScriptedModel{
		"gpt-4o": {Content: "still here"},
	}
	conn, _ := newChatSession(t, scripts)

	// not a JSON envelope at all
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{broken")))
	ev := readEvent(t, conn)
	assert.Equal(t, chat.EventError, ev.Type)

	// wrong envelope type
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "subscribe"}))
	ev = readEvent(t, conn)
	assert.Equal(t, chat.EventError, ev.Type)

	// empty message: error event, no conversation_started
	sendChat(t, conn, nil, "   ", []string{"gpt-4o"})
	ev = readEvent(t, conn)
	assert.Equal(t, chat.EventError, ev.Type)

	// unknown model id
	sendChat(t, conn, nil, "hello", []string{"not-a-model"})
	ev = readEvent(t, conn)
	assert.Equal(t, chat.EventError, ev.Type)
	assert.Contains(t, ev.Message, "not-a-model")

	// bad conversation id
	bad := "no-uuid"
	sendChat(t, conn, &bad, "hello", []string{"gpt-4o"})
	ev = readEvent(t, conn)
	assert.Equal(t, chat.EventError, ev.Type)

	// the session is still usable after all of that
	sendChat(t, conn, nil, "hello", []string{"gpt-4o"})
	events := readTurn(t, conn)
	assert.Equal(t, chat.EventConversationStarted, events[0].Type)
	assert.Equal(t, chat.EventChatComplete, events[len(events)-1].Type)
}

func TestListModels(t *testing.T) {
	s := store.New(models.InitializeTestDB(t))
	reg := catalog.NewRegistry()
	orchestrator := chat.NewOrchestrator(s, testutils.NewFakeClient(nil), reg)

	r := chi.NewRouter()
	r.Mount("/chat", NewChatHandler(orchestrator, reg).Routes())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	resp, err := srv.Client().Get(srv.URL + "/chat/models")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
}
