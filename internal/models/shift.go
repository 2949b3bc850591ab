package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShiftType string

const (
	ShiftMatutino   ShiftType = "matutino"
	ShiftVespertino ShiftType = "vespertino"
)

func (t ShiftType) Valid() bool {
	return t == ShiftMatutino || t == ShiftVespertino
}

// Shift is the cash-shift ledger. Running totals only grow while the shift
// is open; close seals it and the row becomes historical record.
type Shift struct {
	ID        string    `json:"id"   gorm:"type:varchar(36);primary_key"`
	Type      ShiftType `json:"type" gorm:"type:varchar(20)"`
	CashierID string    `json:"cashier_id"`
	ManagerID string    `json:"manager_id"`
	OpenedAt  time.Time `json:"opened_at"`

	InitialFloat decimal.Decimal `json:"initial_float" gorm:"type:decimal(12,2)"`

	TotalEfectivo      decimal.Decimal `json:"total_efectivo"      gorm:"type:decimal(12,2)"`
	TotalTarjeta       decimal.Decimal `json:"total_tarjeta"       gorm:"type:decimal(12,2)"`
	TotalTransferencia decimal.Decimal `json:"total_transferencia" gorm:"type:decimal(12,2)"`
	TotalApp           decimal.Decimal `json:"total_app"           gorm:"type:decimal(12,2)"`

	OrdersDelivered int `json:"orders_delivered"`
	OrdersCanceled  int `json:"orders_canceled"`

	Open bool `json:"open" gorm:"index"`

	CountedCash  decimal.Decimal `json:"counted_cash"  gorm:"type:decimal(12,2)"`
	ExpectedCash decimal.Decimal `json:"expected_cash" gorm:"type:decimal(12,2)"`
	Variance     decimal.Decimal `json:"variance"      gorm:"type:decimal(12,2)"`
	Observations string          `json:"observations"`
	ClosedBy     string          `json:"closed_by"`
	ClosedAt     *time.Time      `json:"closed_at,omitempty"`
}

// AddSale adds an order total to the running total of its payment method.
func (s *Shift) AddSale(method PaymentMethod, amount decimal.Decimal) {
	switch method {
	case PayEfectivo:
		s.TotalEfectivo = s.TotalEfectivo.Add(amount)
	case PayTarjeta:
		s.TotalTarjeta = s.TotalTarjeta.Add(amount)
	case PayTransferencia:
		s.TotalTransferencia = s.TotalTransferencia.Add(amount)
	case PayApp:
		s.TotalApp = s.TotalApp.Add(amount)
	}
}

func (s *Shift) TotalFor(method PaymentMethod) decimal.Decimal {
	switch method {
	case PayEfectivo:
		return s.TotalEfectivo
	case PayTarjeta:
		return s.TotalTarjeta
	case PayTransferencia:
		return s.TotalTransferencia
	case PayApp:
		return s.TotalApp
	}
	return decimal.Zero
}
