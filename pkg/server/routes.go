package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/d4l-data4life/go-svc/pkg/logging"

	"github.com/llmcouncil/go-llm-council/pkg/auth"
	"github.com/llmcouncil/go-llm-council/pkg/catalog"
	"github.com/llmcouncil/go-llm-council/pkg/chat"
	"github.com/llmcouncil/go-llm-council/pkg/handlers"
	"github.com/llmcouncil/go-llm-council/pkg/store"
	"github.com/llmcouncil/go-llm-council/pkg/usage"
)

// Dependencies are the long-lived collaborators the routes close over,
// constructed once at process start.
type Dependencies struct {
	DB             *gorm.DB
	Store          *store.Store
	Orchestrator   *chat.Orchestrator
	Catalog        *catalog.Registry
	Usage          *usage.Service
	TokenValidator auth.TokenValidator
}

// SetupRoutes adds all routes that the server should listen to
func SetupRoutes(mux *chi.Mux, deps Dependencies) {
	ch := handlers.NewChecksHandler(deps.DB)
	mux.Mount("/checks", ch.Routes())
	mux.Mount("/metrics", promhttp.Handler())

	mux.With(RequestLogger()).Group(func(r chi.Router) {
		handlers.RegisterRoutes(
			r,
			deps.Store,
			deps.Orchestrator,
			deps.Catalog,
			deps.Usage,
			deps.TokenValidator,
		)
	})

	// Displays all API paths in when debug enabled
	walkFunc := func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		route = strings.Replace(route, "/*/", "/", -1)
		logging.LogDebugf("%s %s\n", method, route)
		return nil
	}
	if err := chi.Walk(mux, walkFunc); err != nil {
		logging.LogErrorf(err, "logging error")
	}
}
