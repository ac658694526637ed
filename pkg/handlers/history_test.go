package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmcouncil/go-llm-council/internal/testutils"
	"github.com/llmcouncil/go-llm-council/pkg/models"
	"github.com/llmcouncil/go-llm-council/pkg/store"
)

func newHistoryServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	s := store.New(models.InitializeTestDB(t))
	r := chi.NewRouter()
	r.Mount("/conversations", NewConversationsHandler(s).Routes())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, s
}

func doRequest(t *testing.T, srv *httptest.Server, method, path string, body interface{}) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, testutils.GetRequestPayload(body))
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func seedConversation(t *testing.T, s *store.Store) (*models.Conversation, *models.Message) {
	t.Helper()
	ctx := t.Context()
	conv, err := s.CreateConversation(ctx, nil)
	require.NoError(t, err)
	user, err := s.AddUserMessage(ctx, conv.ID, "seed question")
	require.NoError(t, err)
	return conv, user
}

func TestListAndGetConversations(t *testing.T) {
	srv, s := newHistoryServer(t)
	conv, _ := seedConversation(t, s)

	resp := doRequest(t, srv, http.MethodGet, "/conversations", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summaries []models.ConversationSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, conv.ID, summaries[0].ID)

	resp = doRequest(t, srv, http.MethodGet, "/conversations/"+conv.ID.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail models.Conversation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&detail))
	assert.Len(t, detail.Messages, 1)

	resp = doRequest(t, srv, http.MethodGet, "/conversations/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodGet, "/conversations/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateTitleEndpoint(t *testing.T) {
	srv, s := newHistoryServer(t)
	conv, _ := seedConversation(t, s)

	resp := doRequest(t, srv, http.MethodPatch, "/conversations/"+conv.ID.String(),
		UpdateTitleRequest{Title: "renamed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	loaded, err := s.GetConversation(t.Context(), conv.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Title)
	assert.Equal(t, "renamed", *loaded.Title)

	resp = doRequest(t, srv, http.MethodPatch, "/conversations/"+conv.ID.String(),
		UpdateTitleRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteConversationEndpoint(t *testing.T) {
	srv, s := newHistoryServer(t)
	conv, _ := seedConversation(t, s)

	resp := doRequest(t, srv, http.MethodDelete, "/conversations/"+conv.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodDelete, "/conversations/"+conv.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSelectResponseEndpoint(t *testing.T) {
	srv, s := newHistoryServer(t)
	conv, user := seedConversation(t, s)
	ctx := t.Context()

	content := "candidate"
	a, err := s.AddAssistantMessage(ctx, conv.ID, store.AssistantMessage{
		ModelID: "model-a", Content: &content, ParentID: &user.ID,
	})
	require.NoError(t, err)
	b, err := s.AddAssistantMessage(ctx, conv.ID, store.AssistantMessage{
		ModelID: "model-b", Content: &content, ParentID: &user.ID,
	})
	require.NoError(t, err)

	path := "/conversations/" + conv.ID.String() + "/messages/" + a.ID.String() + "/select"
	resp := doRequest(t, srv, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	loaded, err := s.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	for _, m := range loaded.Messages {
		switch m.ID {
		case a.ID:
			assert.True(t, m.IsSelected)
		case b.ID:
			assert.False(t, m.IsSelected)
		}
	}

	path = "/conversations/" + conv.ID.String() + "/messages/" + uuid.NewString() + "/select"
	resp = doRequest(t, srv, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
