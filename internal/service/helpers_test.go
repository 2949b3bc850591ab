package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"comanda/internal/models"
	svc "comanda/internal/service"
)

func (e *env) seedCatalog() {
	e.catalog.neighborhoods["centro"] = models.Neighborhood{
		ID: "n-centro", Name: "centro", Zone: "1", ShippingCost: dec("30"), Active: true,
	}
	e.catalog.neighborhoods["aeropuerto"] = models.Neighborhood{
		ID: "n-aeropuerto", Name: "aeropuerto", Zone: "3", ShippingCost: dec("80"), Active: false,
	}
	e.catalog.couriers["c1"] = models.Courier{ID: "c1", Name: "Luis", CommissionPct: dec("10"), Active: true}
	e.catalog.couriers["c2"] = models.Courier{ID: "c2", Name: "Ana", CommissionPct: dec("12.5"), Active: true}
	e.catalog.couriers["c3"] = models.Courier{ID: "c3", Name: "Pedro", CommissionPct: dec("10"), Active: false}
}

func (e *env) openShift(t *testing.T) models.Shift {
	t.Helper()
	shift, err := e.svc.OpenShift(context.Background(), svc.OpenShiftRequest{
		Type:         models.ShiftMatutino,
		InitialFloat: dec("500"),
		CashierID:    "cashier-1",
	})
	require.NoError(t, err)
	return shift
}

// newOrderReq builds the canonical order of these tests: two items at 100,
// 10 percent discount, delivery to centro (shipping 30), paid cash. Total 210.
func newOrderReq() svc.CreateOrderRequest {
	return svc.CreateOrderRequest{
		Channel: models.ChannelWhatsapp,
		Customer: models.Customer{
			Name:         "Maria Lopez",
			Phone:        "5512345678",
			Address:      "Calle 5 #12",
			Neighborhood: "centro",
		},
		Items: []svc.ItemRequest{
			{ProductID: "p-100", Name: "taco pastor", Quantity: 2, UnitPrice: dec("100")},
		},
		Payment:  svc.PaymentRequest{Method: models.PayEfectivo},
		Discount: &svc.Discount{Type: svc.DiscountPercent, Value: dec("10")},
	}
}

func (e *env) place(t *testing.T) models.Order {
	t.Helper()
	o, err := e.svc.CreateOrder(context.Background(), newOrderReq())
	require.NoError(t, err)
	return o
}

// advance walks an order from recibido to the given status, driving the
// delivery sub-machine with courier c1 where the chain requires it.
func (e *env) advance(t *testing.T, orderID string, target models.OrderStatus) models.Order {
	t.Helper()
	ctx := context.Background()

	o, err := e.svc.GetOrder(orderID)
	require.NoError(t, err)

	steps := []models.OrderStatus{
		models.StatusEnPreparacion, models.StatusListo,
		models.StatusEnReparto, models.StatusEntregado,
	}
	reached := o.Status == target
	for _, next := range steps {
		if reached {
			break
		}
		if !o.Status.CanTransitionTo(next) {
			continue
		}
		switch next {
		case models.StatusEnReparto:
			o, err = e.svc.AssignCourier(ctx, orderID, "c1")
		case models.StatusEntregado:
			_, err = e.svc.MarkDelivered(ctx, orderID)
			require.NoError(t, err)
			o, err = e.svc.Transition(ctx, orderID, next)
		default:
			o, err = e.svc.Transition(ctx, orderID, next)
		}
		require.NoError(t, err)
		reached = o.Status == target
	}
	require.Equal(t, target, o.Status)
	return o
}
