package services

import (
	"slices"

	"sales-dashboard/internal/models"
)

const topProductsLimit = 10

// Chart field names follow the source columns so the browser can label axes
// without a second lookup.
const (
	fieldRevenue      = "Revenue"
	fieldProductIndex = "index"
)

// ComputeCharts builds the four dashboard charts for category. It has no
// side effects and is safe to call concurrently. An unknown category yields
// four empty charts.
func ComputeCharts(category string, aggregates []models.MonthlyCategoryAggregate, records []models.OrderRecord) models.ChartSet {
	group := FilterAggregates(aggregates, category)
	raw := FilterRecords(records, category)

	return models.ChartSet{
		Category:     category,
		SalesTrend:   salesTrendChart(group),
		RevenueTrend: revenueTrendChart(group),
		TopProducts:  topProductsChart(TopProducts(raw, topProductsLimit)),
		RegionSales:  regionSalesChart(raw),
	}
}

// TopProducts ranks product names by how many rows mention them. Ties keep
// the order in which products first appear.
func TopProducts(records []models.OrderRecord, limit int) []models.ProductCount {
	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		if _, ok := counts[rec.ProductName]; !ok {
			order = append(order, rec.ProductName)
		}
		counts[rec.ProductName]++
	}

	ranked := make([]models.ProductCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, models.ProductCount{ProductName: name, Count: counts[name]})
	}
	slices.SortStableFunc(ranked, func(a, b models.ProductCount) int {
		return b.Count - a.Count
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func salesTrendChart(group []models.MonthlyCategoryAggregate) models.ChartSpec {
	points := make([]models.ChartPoint, 0, len(group))
	for _, agg := range group {
		points = append(points, models.ChartPoint{X: monthLabel(agg.Month), Y: float64(agg.Quantity)})
	}
	return models.ChartSpec{
		Kind:   models.ChartLine,
		Title:  "Sales Trend",
		XField: ColumnDate,
		YField: ColumnQuantity,
		Points: points,
	}
}

func revenueTrendChart(group []models.MonthlyCategoryAggregate) models.ChartSpec {
	points := make([]models.ChartPoint, 0, len(group))
	for _, agg := range group {
		points = append(points, models.ChartPoint{X: monthLabel(agg.Month), Y: agg.Revenue.InexactFloat64()})
	}
	return models.ChartSpec{
		Kind:   models.ChartLine,
		Title:  "Revenue Over Time",
		XField: ColumnDate,
		YField: fieldRevenue,
		Points: points,
	}
}

func topProductsChart(top []models.ProductCount) models.ChartSpec {
	points := make([]models.ChartPoint, 0, len(top))
	for _, pc := range top {
		points = append(points, models.ChartPoint{X: pc.ProductName, Y: float64(pc.Count)})
	}
	return models.ChartSpec{
		Kind:   models.ChartBar,
		Title:  "Top 10 Products",
		XField: fieldProductIndex,
		YField: ColumnProductName,
		Labels: map[string]string{
			fieldProductIndex: "Product Name",
			ColumnProductName: "Count",
		},
		Points: points,
	}
}

// regionSalesChart plots one bar per order line, not a per-region total.
func regionSalesChart(raw []models.OrderRecord) models.ChartSpec {
	points := make([]models.ChartPoint, 0, len(raw))
	for _, rec := range raw {
		points = append(points, models.ChartPoint{X: rec.Region, Y: float64(rec.Quantity), Group: rec.Region})
	}
	return models.ChartSpec{
		Kind:       models.ChartBar,
		Title:      "Sales by Region",
		XField:     ColumnRegion,
		YField:     ColumnQuantity,
		ColorField: ColumnRegion,
		Points:     points,
	}
}
