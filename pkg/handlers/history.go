package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/d4l-data4life/go-svc/pkg/logging"

	"github.com/llmcouncil/go-llm-council/pkg/store"
)

// ConversationsHandler serves the conversation history REST API.
type ConversationsHandler struct {
	store *store.Store
}

// NewConversationsHandler creates a new conversations handler
func NewConversationsHandler(s *store.Store) *ConversationsHandler {
	return &ConversationsHandler{store: s}
}

// Routes returns conversation routes
func (h *ConversationsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListConversations)
	r.Get("/{id}", h.GetConversation)
	r.Patch("/{id}", h.UpdateTitle)
	r.Delete("/{id}", h.DeleteConversation)
	r.Post("/{id}/messages/{messageID}/select", h.SelectResponse)

	return r
}

// UpdateTitleRequest renames a conversation
type UpdateTitleRequest struct {
	Title string `json:"title"`
}

// ListConversations returns conversation summaries, most recent first
func (h *ConversationsHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	summaries, err := h.store.ListConversations(r.Context(), limit, offset)
	if err != nil {
		logging.LogErrorf(err, "Failed to list conversations")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "Failed to list conversations"})
		return
	}

	render.JSON(w, r, summaries)
}

// GetConversation returns one conversation with its full message history
func (h *ConversationsHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	conv, err := h.store.GetConversation(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err, "Failed to get conversation")
		return
	}

	render.JSON(w, r, conv)
}

// UpdateTitle renames a conversation
func (h *ConversationsHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "Title is required"})
		return
	}

	if err := h.store.UpdateTitle(r.Context(), id, req.Title); err != nil {
		respondStoreError(w, r, err, "Failed to update title")
		return
	}

	render.JSON(w, r, map[string]string{"title": req.Title})
}

// DeleteConversation removes a conversation and all of its messages
func (h *ConversationsHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.store.DeleteConversation(r.Context(), id); err != nil {
		respondStoreError(w, r, err, "Failed to delete conversation")
		return
	}

	render.NoContent(w, r)
}

// SelectResponse marks one assistant message as the curated reply of
// its turn, clearing the flag on its siblings.
func (h *ConversationsHandler) SelectResponse(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	messageID, ok := pathUUID(w, r, "messageID")
	if !ok {
		return
	}

	if err := h.store.MarkSelected(r.Context(), conversationID, messageID); err != nil {
		respondStoreError(w, r, err, "Failed to select response")
		return
	}

	render.JSON(w, r, map[string]string{"selected": messageID.String()})
}

func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "Invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, param string, fallback int) int {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func respondStoreError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, store.ErrConversationNotFound) || errors.Is(err, store.ErrMessageNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "Not found"})
		return
	}
	logging.LogErrorf(err, "%s", msg)
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, map[string]string{"error": msg})
}
