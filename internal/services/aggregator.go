package services

import (
	"cmp"
	"slices"
	"time"

	"sales-dashboard/internal/models"
)

type groupKey struct {
	sec      int64
	nsec     int
	category string
}

// Aggregate groups records by exact (date, category) and sums quantity and
// revenue. Rows come back ordered by month, then category, so any
// single-category slice of the result is already in date order.
func Aggregate(records []models.OrderRecord) []models.MonthlyCategoryAggregate {
	groups := make(map[groupKey]*models.MonthlyCategoryAggregate)

	for _, rec := range records {
		key := groupKey{sec: rec.Date.Unix(), nsec: rec.Date.Nanosecond(), category: rec.Category}
		agg, ok := groups[key]
		if !ok {
			agg = &models.MonthlyCategoryAggregate{
				Month:    rec.Date,
				Category: rec.Category,
			}
			groups[key] = agg
		}
		agg.Quantity += rec.Quantity
		agg.Revenue = agg.Revenue.Add(rec.Revenue)
	}

	result := make([]models.MonthlyCategoryAggregate, 0, len(groups))
	for _, agg := range groups {
		result = append(result, *agg)
	}
	slices.SortFunc(result, func(a, b models.MonthlyCategoryAggregate) int {
		if c := a.Month.Compare(b.Month); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})

	return result
}

// FilterAggregates returns the rows for one category, preserving order.
func FilterAggregates(aggregates []models.MonthlyCategoryAggregate, category string) []models.MonthlyCategoryAggregate {
	out := make([]models.MonthlyCategoryAggregate, 0)
	for _, agg := range aggregates {
		if agg.Category == category {
			out = append(out, agg)
		}
	}
	return out
}

// FilterRecords returns the raw records for one category in file order.
func FilterRecords(records []models.OrderRecord, category string) []models.OrderRecord {
	out := make([]models.OrderRecord, 0)
	for _, rec := range records {
		if rec.Category == category {
			out = append(out, rec)
		}
	}
	return out
}

// DistinctCategories lists category names in order of first appearance.
func DistinctCategories(records []models.OrderRecord) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range records {
		if _, ok := seen[rec.Category]; ok {
			continue
		}
		seen[rec.Category] = struct{}{}
		out = append(out, rec.Category)
	}
	return out
}

func monthLabel(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.DateTime)
}
