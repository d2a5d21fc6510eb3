package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"sales-dashboard/internal/models"
)

// Dashboard holds the order table and its monthly aggregate. Both are built
// once and only read afterwards, so no locking is needed.
type Dashboard struct {
	records    []models.OrderRecord
	aggregates []models.MonthlyCategoryAggregate
	categories []string
	loadedAt   time.Time
	loadTime   time.Duration
}

func NewDashboard(records []models.OrderRecord) *Dashboard {
	return &Dashboard{
		records:    records,
		aggregates: Aggregate(records),
		categories: DistinctCategories(records),
		loadedAt:   time.Now(),
	}
}

// LoadDashboard reads the CSV at path and prepares a Dashboard from it.
func LoadDashboard(ctx context.Context, path string, opts LoadOptions, logger *slog.Logger) (*Dashboard, error) {
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	logger.Info("processing CSV file", "filename", path, "encoding", opts.Encoding)

	records, err := LoadOrders(ctx, path, opts)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	d := NewDashboard(records)
	d.loadTime = time.Since(start)

	logger.Info("csv processing complete",
		"records", len(records),
		"categories", len(d.categories),
		"aggregates", len(d.aggregates),
		"duration", d.loadTime,
		"rate", fmt.Sprintf("%.0f records/sec", float64(len(records))/max(d.loadTime.Seconds(), 1e-9)))

	return d, nil
}

// Categories returns the distinct category names in file order.
func (d *Dashboard) Categories() []string {
	return append(make([]string, 0, len(d.categories)), d.categories...)
}

// DefaultCategory is the first category in the file, or "" when empty.
func (d *Dashboard) DefaultCategory() string {
	if len(d.categories) == 0 {
		return ""
	}
	return d.categories[0]
}

func (d *Dashboard) HasCategory(category string) bool {
	return slices.Contains(d.categories, category)
}

func (d *Dashboard) Charts(category string) models.ChartSet {
	return ComputeCharts(category, d.aggregates, d.records)
}

func (d *Dashboard) Aggregates(category string) []models.MonthlyCategoryAggregate {
	return FilterAggregates(d.aggregates, category)
}

func (d *Dashboard) RecordCount() int {
	return len(d.records)
}

func (d *Dashboard) Stats() map[string]any {
	return map[string]any{
		"record_count":  len(d.records),
		"aggregates":    len(d.aggregates),
		"categories":    len(d.categories),
		"loaded_at":     d.loadedAt,
		"load_duration": d.loadTime.String(),
	}
}
