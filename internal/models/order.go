package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusRecibido      OrderStatus = "recibido"
	StatusEnPreparacion OrderStatus = "en_preparacion"
	StatusListo         OrderStatus = "listo"
	StatusEnReparto     OrderStatus = "en_reparto"
	StatusEntregado     OrderStatus = "entregado"
	StatusCancelado     OrderStatus = "cancelado"
)

// transitions is the forward edge set. cancelado is reachable from any
// non-terminal state and handled separately.
var transitions = map[OrderStatus]OrderStatus{
	StatusRecibido:      StatusEnPreparacion,
	StatusEnPreparacion: StatusListo,
	StatusListo:         StatusEnReparto,
	StatusEnReparto:     StatusEntregado,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusRecibido, StatusEnPreparacion, StatusListo,
		StatusEnReparto, StatusEntregado, StatusCancelado:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusEntregado || s == StatusCancelado
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if target == StatusCancelado {
		return !s.Terminal()
	}
	return transitions[s] == target
}

type Channel string

const (
	ChannelWhatsapp Channel = "whatsapp"
	ChannelCall     Channel = "call"
	ChannelCounter  Channel = "counter"
	ChannelUber     Channel = "uber"
	ChannelDidi     Channel = "didi"
	ChannelWeb      Channel = "web"
)

type PaymentMethod string

const (
	PayEfectivo      PaymentMethod = "efectivo"
	PayTarjeta       PaymentMethod = "tarjeta"
	PayTransferencia PaymentMethod = "transferencia"
	PayApp           PaymentMethod = "app"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PayEfectivo, PayTarjeta, PayTransferencia, PayApp:
		return true
	}
	return false
}

// Customer is the snapshot embedded into an order at creation time. It is a
// copy, not a reference: later edits to the customer never rewrite history.
type Customer struct {
	Name         string `json:"name"         validate:"required"`
	Phone        string `json:"phone"        validate:"required"`
	Address      string `json:"address"`
	Neighborhood string `json:"neighborhood"`
}

type Item struct {
	OrderRefer string          `json:"-" gorm:"type:varchar(36);index"`
	ProductID  string          `json:"product_id" validate:"required"`
	Name       string          `json:"name"       validate:"required"`
	Quantity   int             `json:"quantity"   validate:"gt=0"`
	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2)"`
	Notes      string          `json:"notes"`
	Subtotal   decimal.Decimal `json:"subtotal"   gorm:"type:decimal(12,2)"`
}

type Payment struct {
	Method         PaymentMethod   `json:"method"          validate:"required"`
	RequiresChange bool            `json:"requires_change"`
	AmountTendered decimal.Decimal `json:"amount_tendered" gorm:"type:decimal(12,2)"`
	ChangeDue      decimal.Decimal `json:"change_due"      gorm:"type:decimal(12,2)"`
}

type Order struct {
	ID      string `json:"id"     gorm:"type:varchar(36);primary_key"`
	Number  string `json:"number" gorm:"type:varchar(16);unique_index"`
	Channel Channel `json:"channel"`

	Customer Customer `json:"customer" gorm:"embedded;embedded_prefix:customer_"`
	Items    []Item   `json:"items"    gorm:"foreignkey:OrderRefer;association_foreignkey:ID"`

	Subtotal       decimal.Decimal `json:"subtotal"        gorm:"type:decimal(12,2)"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:decimal(12,2)"`
	Shipping       decimal.Decimal `json:"shipping"        gorm:"type:decimal(12,2)"`
	Total          decimal.Decimal `json:"total"           gorm:"type:decimal(12,2)"`

	Payment Payment `json:"payment" gorm:"embedded;embedded_prefix:payment_"`

	Status  OrderStatus `json:"status" gorm:"type:varchar(20);index"`
	Reparto *Reparto    `json:"reparto,omitempty" gorm:"foreignkey:OrderRefer;association_foreignkey:ID"`

	Notes         string `json:"notes"`
	InternalNotes string `json:"internal_notes"`

	ShiftID   string    `json:"shift_id" gorm:"type:varchar(36);index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	// Version guards read-modify-write updates. Bumped on every save; a
	// stale writer loses and must retry with fresh state.
	Version int `json:"-"`
}
