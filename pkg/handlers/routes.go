package handlers

import (
	"github.com/go-chi/chi"

	"github.com/llmcouncil/go-llm-council/pkg/auth"
	"github.com/llmcouncil/go-llm-council/pkg/catalog"
	"github.com/llmcouncil/go-llm-council/pkg/chat"
	"github.com/llmcouncil/go-llm-council/pkg/config"
	"github.com/llmcouncil/go-llm-council/pkg/store"
	"github.com/llmcouncil/go-llm-council/pkg/usage"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(
	r chi.Router,
	s *store.Store,
	orchestrator *chat.Orchestrator,
	reg *catalog.Registry,
	usageService *usage.Service,
	tokenValidator auth.TokenValidator,
) {
	r.Route(config.APIPrefixV1, func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(tokenValidator))

			chatHandler := NewChatHandler(orchestrator, reg)
			r.Mount("/chat", chatHandler.Routes())

			conversationsHandler := NewConversationsHandler(s)
			r.Mount("/conversations", conversationsHandler.Routes())

			usageHandler := NewUsageHandler(usageService)
			r.Mount("/usage", usageHandler.Routes())
		})
	})
}
