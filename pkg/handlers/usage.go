package handlers

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"github.com/d4l-data4life/go-svc/pkg/logging"

	"github.com/llmcouncil/go-llm-council/pkg/usage"
)

// UsageHandler serves the usage statistics API.
type UsageHandler struct {
	service *usage.Service
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(service *usage.Service) *UsageHandler {
	return &UsageHandler{service: service}
}

// Routes returns usage routes
func (h *UsageHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Summary)
	r.Get("/daily", h.Daily)

	return r
}

// Summary returns per-model usage totals for a period (day|week|month|all)
func (h *UsageHandler) Summary(w http.ResponseWriter, r *http.Request) {
	period, err := usage.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": errors.Cause(err).Error()})
		return
	}

	summary, err := h.service.Summary(r.Context(), period)
	if err != nil {
		logging.LogErrorf(err, "Failed to compute usage summary")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "Failed to compute usage summary"})
		return
	}

	render.JSON(w, r, summary)
}

// Daily returns a per-day usage breakdown for the last N days (default 7)
func (h *UsageHandler) Daily(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7)

	breakdown, err := h.service.Daily(r.Context(), days)
	if err != nil {
		logging.LogErrorf(err, "Failed to compute daily usage")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "Failed to compute daily usage"})
		return
	}

	render.JSON(w, r, map[string]interface{}{"days": breakdown})
}
