package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

// chartsSignal is the browser-local signal holding the current ChartSet.
const chartsSignal = "_charts"

// The region chart has one point per order line, so its length is the order
// count. Aggregates are keyed by exact date, hence "dates" rather than months.
var summaryTemplate = template.Must(template.New("selectionSummary").Parse(
	`<div id="selection-summary">{{if .Empty}}No orders found for {{.Category}}{{else}}{{.Category}}: {{.Orders}} orders across {{.Dates}} dates{{end}}</div>`))

type summaryData struct {
	Category string
	Orders   int
	Dates    int
	Empty    bool
}

func renderSummary(set models.ChartSet) (string, error) {
	var buf strings.Builder
	err := summaryTemplate.Execute(&buf, summaryData{
		Category: set.Category,
		Orders:   len(set.RegionSales.Points),
		Dates:    len(set.SalesTrend.Points),
		Empty:    set.SalesTrend.Empty(),
	})
	return buf.String(), err
}

type SSEHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard *services.Dashboard, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

type dashboardSignals struct {
	Category string `json:"category"`
}

// HandleCharts recomputes the charts for the category signal and pushes them
// back along with a summary line.
func (h *SSEHandlers) HandleCharts(w http.ResponseWriter, r *http.Request) {
	var signals dashboardSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		appErr := errors.BadRequestWrap(err, "invalid datastar signals").
			WithDetails("expected a JSON object with a string category")
		errors.WriteError(w, h.logger, appErr, observability.GetRequestID(r.Context()))
		return
	}
	category := selectedCategory(signals.Category, h.dashboard)
	if !h.dashboard.HasCategory(category) {
		h.logger.Debug("unknown category selected", "category", category)
	}

	_, span := observability.StartSpan(r.Context(), "compute_charts")
	span.SetTag("category", category)
	charts := h.dashboard.Charts(category)
	span.End(r.Context(), h.logger)

	payload, err := json.Marshal(map[string]any{chartsSignal: charts})
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchSignals(payload); err != nil {
		h.logger.Debug("patch chart signals", "error", err)
		return
	}

	summary, err := renderSummary(charts)
	if err != nil {
		h.logger.Error("render selection summary", "error", err)
		return
	}
	if err := sse.PatchElements(summary); err != nil {
		h.logger.Debug("patch selection summary", "error", err)
	}
}
