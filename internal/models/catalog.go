package models

import "github.com/shopspring/decimal"

// Neighborhood (colonia) carries the delivery-zone shipping price. The cost
// is copied into the order at creation, so later price edits leave history
// untouched.
type Neighborhood struct {
	ID           string          `json:"id"   gorm:"type:varchar(36);primary_key"`
	Name         string          `json:"name" gorm:"unique_index"`
	Zone         string          `json:"zone"`
	ShippingCost decimal.Decimal `json:"shipping_cost" gorm:"type:decimal(12,2)"`
	Active       bool            `json:"active" gorm:"index"`
}

// OrderCounter backs the per-day sequential order number. One row per day,
// bumped with a single atomic upsert.
type OrderCounter struct {
	Day string `gorm:"type:varchar(8);primary_key"`
	Seq int
}
