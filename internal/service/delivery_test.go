package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"comanda/internal/models"
	svc "comanda/internal/service"
)

func TestAssignCourier(t *testing.T) {
	e := newEnv()
	e.seedCatalog()
	e.openShift(t)

	o := e.place(t)
	o = e.advance(t, o.ID, models.StatusListo)

	o, err := e.svc.AssignCourier(context.Background(), o.ID, "c1")
	require.NoError(t, err)

	require.Equal(t, models.StatusEnReparto, o.Status)
	require.NotNil(t, o.Reparto)
	require.Equal(t, "c1", o.Reparto.CourierID)
	require.Equal(t, "Luis", o.Reparto.CourierName)
	require.Equal(t, models.RepartoAsignado, o.Reparto.SubStatus)
	// 10% of 210.
	require.True(t, dec("21.00").Equal(o.Reparto.Commission), "commission %s", o.Reparto.Commission)
	require.Equal(t, *e.clock, o.Reparto.AssignedAt)
}

func TestAssignCourier_RoundsCommission(t *testing.T) {
	e := newEnv()
	e.seedCatalog()
	e.openShift(t)

	o := e.place(t)
	o = e.advance(t, o.ID, models.StatusListo)

	// 12.5% of 210 = 26.25, exact at two decimals.
	o, err := e.svc.AssignCourier(context.Background(), o.ID, "c2")
	require.NoError(t, err)
	require.True(t, dec("26.25").Equal(o.Reparto.Commission))
}

func TestAssignCourier_Preconditions(t *testing.T) {
	e := newEnv()
	e.seedCatalog()
	e.openShift(t)
	ctx := context.Background()

	t.Run("order not ready", func(t *testing.T) {
		o := e.place(t)
		_, err := e.svc.AssignCourier(ctx, o.ID, "c1")
		require.ErrorIs(t, err, svc.ErrInvalidState)
	})

	t.Run("unknown courier", func(t *testing.T) {
		o := e.place(t)
		e.advance(t, o.ID, models.StatusListo)
		_, err := e.svc.AssignCourier(ctx, o.ID, "ghost")
		require.ErrorIs(t, err, svc.ErrNotFound)
	})

	t.Run("inactive courier", func(t *testing.T) {
		o := e.place(t)
		e.advance(t, o.ID, models.StatusListo)
		_, err := e.svc.AssignCourier(ctx, o.ID, "c3")
		require.ErrorIs(t, err, svc.ErrValidation)
	})

	t.Run("already assigned", func(t *testing.T) {
		o := e.place(t)
		e.advance(t, o.ID, models.StatusEnReparto)
		_, err := e.svc.AssignCourier(ctx, o.ID, "c2")
		require.ErrorIs(t, err, svc.ErrInvalidState)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := e.svc.AssignCourier(ctx, "missing", "c1")
		require.ErrorIs(t, err, svc.ErrNotFound)
	})
}

func TestCommissionFrozenAfterAssignment(t *testing.T) {
	e := newEnv()
	e.seedCatalog()
	e.openShift(t)

	o := e.place(t)
	o = e.advance(t, o.ID, models.StatusEnReparto)
	frozen := o.Reparto.Commission

	// A rate change after assignment must not touch the stored commission.
	c := e.catalog.couriers["c1"]
	c.CommissionPct = dec("50")
	e.catalog.couriers["c1"] = c

	o = e.advance(t, o.ID, models.StatusEntregado)
	require.True(t, frozen.Equal(o.Reparto.Commission))
}

func TestMarkEnRouteThenDelivered(t *testing.T) {
	e := newEnv()
	e.seedCatalog()
	e.openShift(t)
	ctx := context.Background()

	o := e.place(t)
	o = e.advance(t, o.ID, models.StatusEnReparto)

	o, err := e.svc.MarkEnRoute(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, models.RepartoEnCamino, o.Reparto.SubStatus)

	// en_camino twice is refused.
	_, err = e.svc.MarkEnRoute(ctx, o.ID)
	require.ErrorIs(t, err, svc.ErrInvalidState)

	o, err = e.svc.MarkDelivered(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, models.RepartoEntregado, o.Reparto.SubStatus)
	require.NotNil(t, o.Reparto.DeliveredAt)
	require.Equal(t, *e.clock, *o.Reparto.DeliveredAt)

	// The order status does not move on its own.
	require.Equal(t, models.StatusEnReparto, o.Status)

	_, err = e.svc.MarkDelivered(ctx, o.ID)
	require.ErrorIs(t, err, svc.ErrInvalidState)
}

func TestMarkDelivered_SkippingEnRoute(t *testing.T) {
	e := newEnv()
	e.seedCatalog()
	e.openShift(t)

	o := e.place(t)
	o = e.advance(t, o.ID, models.StatusEnReparto)

	// Couriers often report delivery without ever flagging en_camino.
	o, err := e.svc.MarkDelivered(context.Background(), o.ID)
	require.NoError(t, err)
	require.Equal(t, models.RepartoEntregado, o.Reparto.SubStatus)
}

func TestReportIncident(t *testing.T) {
	e := newEnv()
	e.seedCatalog()
	e.openShift(t)
	ctx := context.Background()

	o := e.place(t)
	o = e.advance(t, o.ID, models.StatusEnReparto)

	require.ErrorIs(t, e.svc.ReportIncident(ctx, o.ID, ""), svc.ErrValidation)

	require.NoError(t, e.svc.ReportIncident(ctx, o.ID, "cliente no responde"))
	require.NoError(t, e.svc.ReportIncident(ctx, o.ID, "direccion equivocada"))

	got, err := e.svc.GetOrder(o.ID)
	require.NoError(t, err)
	require.Equal(t, "cliente no responde; direccion equivocada", got.Reparto.Incident)
	// Advisory only.
	require.Equal(t, models.StatusEnReparto, got.Status)

	ev, ok := e.notifier.last()
	require.True(t, ok)
	require.Equal(t, models.NotifIncident, ev.Kind)
	require.True(t, ev.HighPriority)
	require.Equal(t, []models.Audience{models.AudienceAdmin}, ev.Audiences)
}

func TestReportIncident_NoDelivery(t *testing.T) {
	e := newEnv()
	e.seedCatalog()
	e.openShift(t)

	o := e.place(t)
	err := e.svc.ReportIncident(context.Background(), o.ID, "se cayo la moto")
	require.ErrorIs(t, err, svc.ErrInvalidState)
}

func TestPendingSettlement(t *testing.T) {
	e := newEnv()
	e.seedCatalog()
	e.openShift(t)

	delivered := e.place(t)
	e.advance(t, delivered.ID, models.StatusEntregado)

	inFlight := e.place(t)
	e.advance(t, inFlight.ID, models.StatusEnReparto)

	pending, err := e.svc.PendingSettlement("c1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, delivered.ID, pending[0].ID)

	empty, err := e.svc.PendingSettlement("c2")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestSettleCourier(t *testing.T) {
	e := newEnv()
	e.seedCatalog()
	e.openShift(t)
	ctx := context.Background()

	a := e.place(t)
	e.advance(t, a.ID, models.StatusEntregado)
	b := e.place(t)
	e.advance(t, b.ID, models.StatusEntregado)

	require.NoError(t, e.svc.SettleCourier(ctx, "c1", []string{a.ID, b.ID}))

	for _, id := range []string{a.ID, b.ID} {
		o, err := e.svc.GetOrder(id)
		require.NoError(t, err)
		require.True(t, o.Reparto.Settled)
		require.NotNil(t, o.Reparto.SettledAt)
	}

	pending, err := e.svc.PendingSettlement("c1")
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestSettleCourier_AllOrNothing(t *testing.T) {
	e := newEnv()
	e.seedCatalog()
	e.openShift(t)
	ctx := context.Background()

	settled := e.place(t)
	e.advance(t, settled.ID, models.StatusEntregado)
	require.NoError(t, e.svc.SettleCourier(ctx, "c1", []string{settled.ID}))

	fresh := e.place(t)
	e.advance(t, fresh.ID, models.StatusEntregado)

	err := e.svc.SettleCourier(ctx, "c1", []string{fresh.ID, settled.ID})
	require.ErrorIs(t, err, svc.ErrAlreadySettled)

	// The eligible order must stay untouched.
	o, err := e.svc.GetOrder(fresh.ID)
	require.NoError(t, err)
	require.False(t, o.Reparto.Settled)
}

func TestSettleCourier_Validation(t *testing.T) {
	e := newEnv()
	e.seedCatalog()
	e.openShift(t)
	ctx := context.Background()

	require.ErrorIs(t, e.svc.SettleCourier(ctx, "c1", nil), svc.ErrValidation)

	notDelivered := e.place(t)
	e.advance(t, notDelivered.ID, models.StatusEnReparto)
	require.ErrorIs(t, e.svc.SettleCourier(ctx, "c1", []string{notDelivered.ID}), svc.ErrInvalidState)

	other := e.place(t)
	e.advance(t, other.ID, models.StatusEntregado)
	require.ErrorIs(t, e.svc.SettleCourier(ctx, "c2", []string{other.ID}), svc.ErrInvalidState)
}
