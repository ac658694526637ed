package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/d4l-data4life/go-svc/pkg/logging"

	"github.com/llmcouncil/go-llm-council/pkg/catalog"
	"github.com/llmcouncil/go-llm-council/pkg/chat"
)

// ChatHandler owns the WebSocket chat sessions and the model listing.
type ChatHandler struct {
	orchestrator *chat.Orchestrator
	catalog      *catalog.Registry
	upgrader     websocket.Upgrader
}

// NewChatHandler creates a new chat handler
func NewChatHandler(orchestrator *chat.Orchestrator, reg *catalog.Registry) *ChatHandler {
	return &ChatHandler{
		orchestrator: orchestrator,
		catalog:      reg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS is enforced at the router level
			},
		},
	}
}

// Routes returns chat routes
func (h *ChatHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/ws", h.Session)
	r.Get("/models", h.ListModels)

	return r
}

// ListModels returns the catalog grouped by configured provider.
func (h *ChatHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"providers": h.catalog.AvailableModels(),
		"featured":  h.catalog.FeaturedModels(),
	})
}

// chatRequest is the inbound session envelope.
type chatRequest struct {
	Type           string   `json:"type"`
	ConversationID *string  `json:"conversation_id"`
	Message        string   `json:"message"`
	Models         []string `json:"models"`
}

// Session runs one WebSocket chat session. Turns are processed
// serially; request-shape problems produce an error event and keep the
// connection open for the next turn.
func (h *ChatHandler) Session(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.LogErrorf(err, "Failed to upgrade to WebSocket")
		return
	}
	defer conn.Close()

	logging.LogDebugf("chat session established: %s", r.RemoteAddr)

	for {
		var req chatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.LogDebugf("chat session closed normally")
			} else if !websocket.IsUnexpectedCloseError(err) {
				// not JSON or not our envelope: report and keep reading
				if writeErr := conn.WriteJSON(chat.ErrorEvent("malformed request", "")); writeErr == nil {
					continue
				}
				logging.LogErrorf(err, "chat session read error")
			}
			return
		}
		if req.Type != "chat" {
			_ = conn.WriteJSON(chat.ErrorEvent("unsupported request type", ""))
			continue
		}

		h.runTurn(r.Context(), conn, req)
	}
}

// runTurn executes one turn and relays its events. Returns once
// chat_complete (or a precondition error) has been delivered.
func (h *ChatHandler) runTurn(ctx context.Context, conn *websocket.Conn, req chatRequest) {
	turnCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	conversationID, ok := parseConversationID(req.ConversationID)
	if !ok {
		_ = conn.WriteJSON(chat.ErrorEvent("invalid conversation id", ""))
		return
	}

	modelIDs, err := h.resolveModels(req.Models)
	if err != nil {
		_ = conn.WriteJSON(chat.ErrorEvent(err.Error(), ""))
		return
	}

	events, err := h.orchestrator.RunTurn(turnCtx, conversationID, req.Message, modelIDs)
	if err != nil {
		_ = conn.WriteJSON(chat.ErrorEvent(err.Error(), ""))
		return
	}

	relaying := true
	for ev := range events {
		if !relaying {
			continue
		}
		if err := conn.WriteJSON(ev); err != nil {
			logging.LogWarningf(err, "chat session write failed, abandoning relay")
			if viper.GetBool("CANCEL_ON_DISCONNECT") {
				cancel()
			}
			// keep draining so the orchestrator can finish persisting
			relaying = false
		}
	}
}

// resolveModels validates the requested model ids, defaulting an empty
// request to every model of every configured provider.
func (h *ChatHandler) resolveModels(requested []string) ([]string, error) {
	if len(requested) == 0 {
		var all []string
		for _, group := range h.catalog.AvailableModels() {
			for _, m := range group.Models {
				all = append(all, m.ID)
			}
		}
		if len(all) == 0 {
			return nil, chat.ErrNoModels
		}
		return all, nil
	}

	for _, id := range requested {
		if _, _, ok := h.catalog.ResolveModel(id); !ok {
			return nil, errors.Errorf("unknown model: %s", id)
		}
	}
	return requested, nil
}

func parseConversationID(raw *string) (*uuid.UUID, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}
