package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

type Discount struct {
	Type  DiscountType    `json:"type"  validate:"required,oneof=percent fixed"`
	Value decimal.Decimal `json:"value"`
}

var hundred = decimal.NewFromInt(100)

// ItemSubtotal is unit price times quantity. Customization surcharges are
// already embedded in the variant's unit price.
func ItemSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// ComputeDiscount resolves a discount against a subtotal. Percentages must
// lie in [0,100]; fixed amounts may not exceed the subtotal. Neither may be
// negative.
func ComputeDiscount(subtotal decimal.Decimal, d *Discount) (decimal.Decimal, error) {
	if d == nil {
		return decimal.Zero, nil
	}
	if d.Value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative discount", ErrValidation)
	}

	switch d.Type {
	case DiscountPercent:
		if d.Value.GreaterThan(hundred) {
			return decimal.Zero, fmt.Errorf("%w: percentage discount above 100", ErrValidation)
		}
		return subtotal.Mul(d.Value).Div(hundred).Round(2), nil
	case DiscountFixed:
		if d.Value.GreaterThan(subtotal) {
			return decimal.Zero, fmt.Errorf("%w: fixed discount exceeds subtotal", ErrValidation)
		}
		return d.Value.Round(2), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown discount type %q", ErrValidation, d.Type)
	}
}

// ComputeTotal is max(0, subtotal - discount) + shipping.
func ComputeTotal(subtotal, discount, shipping decimal.Decimal) decimal.Decimal {
	base := subtotal.Sub(discount)
	if base.IsNegative() {
		base = decimal.Zero
	}
	return base.Add(shipping)
}
