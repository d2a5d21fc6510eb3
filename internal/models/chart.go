package models

type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
)

// ChartPoint is a single plotted value. Group is set only when the owning
// spec has a ColorField.
type ChartPoint struct {
	X     string  `json:"x"`
	Y     float64 `json:"y"`
	Group string  `json:"group,omitempty"`
}

// ChartSpec describes a chart without rendering it. Points is never nil so
// an empty chart serializes as [].
type ChartSpec struct {
	Kind       ChartKind         `json:"kind"`
	Title      string            `json:"title"`
	XField     string            `json:"x_field"`
	YField     string            `json:"y_field"`
	ColorField string            `json:"color_field,omitempty"`
	Labels     map[string]string `json:"labels,omitempty"`
	Points     []ChartPoint      `json:"points"`
}

// Empty reports whether the chart has nothing to plot.
func (c ChartSpec) Empty() bool {
	return len(c.Points) == 0
}

// ChartSet is the full dashboard payload for one selected category.
type ChartSet struct {
	Category     string    `json:"category"`
	SalesTrend   ChartSpec `json:"sales_trend"`
	RevenueTrend ChartSpec `json:"revenue_trend"`
	TopProducts  ChartSpec `json:"top_products"`
	RegionSales  ChartSpec `json:"region_sales"`
}
