package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

const cacheMaxAge = "public, max-age=300"

type APIHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard *services.Dashboard, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
	Default    string   `json:"default"`
}

func (h *APIHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	data := categoriesResponse{
		Categories: h.dashboard.Categories(),
		Default:    h.dashboard.DefaultCategory(),
	}

	errors.WriteSuccessWithHeaders(w, data, map[string]string{
		"Cache-Control": cacheMaxAge,
	})
}

// HandleCharts returns the four chart specs for ?category=, falling back to
// the default category. Unknown categories yield empty charts.
func (h *APIHandlers) HandleCharts(w http.ResponseWriter, r *http.Request) {
	category := selectedCategory(r.URL.Query().Get("category"), h.dashboard)

	errors.WriteSuccessWithHeaders(w, h.dashboard.Charts(category), map[string]string{
		"Cache-Control": cacheMaxAge,
	})
}

func (h *APIHandlers) HandleAggregates(w http.ResponseWriter, r *http.Request) {
	category := selectedCategory(r.URL.Query().Get("category"), h.dashboard)

	errors.WriteSuccessWithHeaders(w, h.dashboard.Aggregates(category), map[string]string{
		"Cache-Control": cacheMaxAge,
	})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.dashboard == nil || h.dashboard.RecordCount() == 0 {
		errors.WriteError(w, h.logger, errors.Unavailable("no order data loaded"),
			observability.GetRequestID(r.Context()))
		return
	}

	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   Version,
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.dashboard.Stats())
}

func selectedCategory(requested string, d *services.Dashboard) string {
	if requested == "" {
		return d.DefaultCategory()
	}
	return requested
}
