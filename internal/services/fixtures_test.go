package services

import (
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func order(date time.Time, category, product string, qty int, price string, region string) models.OrderRecord {
	p := decimal.RequireFromString(price)
	return models.OrderRecord{
		Date:        date,
		Category:    category,
		ProductName: product,
		Quantity:    qty,
		Price:       p,
		Region:      region,
		Revenue:     decimal.NewFromInt(int64(qty)).Mul(p),
	}
}

// scenarioRecords is the three-order example: two lines of A in January and
// one line of B in February.
func scenarioRecords() []models.OrderRecord {
	return []models.OrderRecord{
		order(day(2024, 1, 1), "A", "X", 2, "10", "East"),
		order(day(2024, 1, 1), "A", "Y", 1, "10", "West"),
		order(day(2024, 2, 1), "B", "Z", 5, "4", "East"),
	}
}
