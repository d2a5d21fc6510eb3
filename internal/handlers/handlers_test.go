package handlers

import (
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOrder(month time.Month, category, product string, qty int, price, region string) models.OrderRecord {
	p := decimal.RequireFromString(price)
	return models.OrderRecord{
		Date:        time.Date(2024, month, 1, 0, 0, 0, 0, time.UTC),
		Category:    category,
		ProductName: product,
		Quantity:    qty,
		Price:       p,
		Region:      region,
		Revenue:     decimal.NewFromInt(int64(qty)).Mul(p),
	}
}

func createTestDashboard() *services.Dashboard {
	return services.NewDashboard([]models.OrderRecord{
		testOrder(time.January, "A", "X", 2, "10", "East"),
		testOrder(time.January, "A", "Y", 1, "10", "West"),
		testOrder(time.February, "B", "Z", 5, "4", "East"),
	})
}

func testUI() config.UIConfig {
	return config.UIConfig{Title: "Test Title", Heading: "Test Heading"}
}
