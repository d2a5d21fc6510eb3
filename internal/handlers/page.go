package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

// Version is reported by /health.
const Version = "1.0.0"

const renderTimeout = 10 * time.Second

type PageHandlers struct {
	dashboard *services.Dashboard
	ui        config.UIConfig
	logger    *slog.Logger
}

func NewPageHandlers(dashboard *services.Dashboard, ui config.UIConfig, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		dashboard: dashboard,
		ui:        ui,
		logger:    logger,
	}
}

func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		errors.WriteError(w, h.logger, errors.NotFound("page not found"), observability.GetRequestID(r.Context()))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	page := templates.Dashboard(templates.DashboardProps{
		Title:      h.ui.Title,
		Heading:    h.ui.Heading,
		Categories: h.dashboard.Categories(),
		Selected:   h.dashboard.DefaultCategory(),
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(ctx, w); err != nil {
		h.logger.Error("render dashboard", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}
