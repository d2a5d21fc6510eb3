package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRecord is one order line from the source CSV. Revenue is derived at
// load time and never recomputed.
type OrderRecord struct {
	Date        time.Time       `json:"monthdate"`
	Category    string          `json:"category"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Region      string          `json:"region"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// MonthlyCategoryAggregate holds the summed quantity and revenue of every
// record sharing a (month, category) pair.
type MonthlyCategoryAggregate struct {
	Month    time.Time       `json:"monthdate"`
	Category string          `json:"category"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type ProductCount struct {
	ProductName string `json:"product_name"`
	Count       int    `json:"count"`
}
