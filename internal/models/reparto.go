package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RepartoStatus string

const (
	RepartoAsignado  RepartoStatus = "asignado"
	RepartoEnCamino  RepartoStatus = "en_camino"
	RepartoEntregado RepartoStatus = "entregado"
)

// Reparto is the delivery sub-record attached when a courier takes a ready
// order. Commission is computed once at assignment and never recomputed.
type Reparto struct {
	OrderRefer  string          `json:"-"            gorm:"type:varchar(36);index"`
	CourierID   string          `json:"courier_id"   gorm:"type:varchar(36);index"`
	CourierName string          `json:"courier_name"`
	Commission  decimal.Decimal `json:"commission"   gorm:"type:decimal(12,2)"`
	SubStatus   RepartoStatus   `json:"sub_status"   gorm:"type:varchar(20)"`
	AssignedAt  time.Time       `json:"assigned_at"`
	DeliveredAt *time.Time      `json:"delivered_at,omitempty"`
	Settled     bool            `json:"settled"`
	SettledAt   *time.Time      `json:"settled_at,omitempty"`
	Incident    string          `json:"incident,omitempty"`
}

type Courier struct {
	ID            string          `json:"id"   gorm:"type:varchar(36);primary_key"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	CommissionPct decimal.Decimal `json:"commission_pct" gorm:"type:decimal(5,2)"`
	Active        bool            `json:"active"`
}
