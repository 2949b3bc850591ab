package service

import (
	"context"
	"fmt"

	"comanda/internal/models"
	"comanda/internal/repository"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// AssignCourier attaches a delivery sub-record to a ready order and moves it
// to en_reparto. The commission is computed here, once, and stays frozen for
// the life of the order.
func (s *Service) AssignCourier(ctx context.Context, orderID, courierID string) (models.Order, error) {
	o, err := s.GetOrder(orderID)
	if err != nil {
		return models.Order{}, err
	}
	if o.Status != models.StatusListo {
		return models.Order{}, fmt.Errorf("%w: order %s is %s, must be %s", ErrInvalidState, o.Number, o.Status, models.StatusListo)
	}
	if o.Reparto != nil {
		return models.Order{}, fmt.Errorf("%w: order %s already has a courier", ErrInvalidState, o.Number)
	}

	courier, err := s.repos.Courier(courierID)
	if gorm.IsRecordNotFoundError(err) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, errors.Wrap(err, "lookup courier")
	}
	if !courier.Active {
		return models.Order{}, fmt.Errorf("%w: courier %s is not active", ErrValidation, courier.Name)
	}

	o.Reparto = &models.Reparto{
		CourierID:   courier.ID,
		CourierName: courier.Name,
		Commission:  o.Total.Mul(courier.CommissionPct).Div(hundred).Round(2),
		SubStatus:   models.RepartoAsignado,
		AssignedAt:  s.now(),
	}
	o.Status = models.StatusEnReparto

	if err := s.saveOrder(o); err != nil {
		return models.Order{}, err
	}
	o.Version++

	s.emit(ctx, models.NotificationEvent{
		Kind:        models.NotifAssignment,
		OrderID:     o.ID,
		OrderNumber: o.Number,
		OldStatus:   models.StatusListo,
		NewStatus:   models.StatusEnReparto,
		Audiences:   []models.Audience{models.AudienceKitchen, models.AudienceCounter},
		Message:     fmt.Sprintf("pedido %s asignado a %s", o.Number, courier.Name),
	})

	logrus.WithFields(logrus.Fields{
		"order":      o.Number,
		"courier":    courier.Name,
		"commission": o.Reparto.Commission.String(),
	}).Info("courier assigned")

	return o, nil
}

// MarkEnRoute advances the delivery sub-state from asignado to en_camino.
func (s *Service) MarkEnRoute(ctx context.Context, orderID string) (models.Order, error) {
	o, err := s.GetOrder(orderID)
	if err != nil {
		return models.Order{}, err
	}
	if o.Status != models.StatusEnReparto || o.Reparto == nil || o.Reparto.SubStatus != models.RepartoAsignado {
		return models.Order{}, fmt.Errorf("%w: order %s is not awaiting pickup", ErrInvalidState, o.Number)
	}

	o.Reparto.SubStatus = models.RepartoEnCamino
	if err := s.saveOrder(o); err != nil {
		return models.Order{}, err
	}
	o.Version++
	return o, nil
}

// MarkDelivered records the courier's delivery signal. It deliberately does
// NOT advance the order status to entregado; that remains a separate call
// which checks both machines jointly.
func (s *Service) MarkDelivered(ctx context.Context, orderID string) (models.Order, error) {
	o, err := s.GetOrder(orderID)
	if err != nil {
		return models.Order{}, err
	}
	if o.Status != models.StatusEnReparto || o.Reparto == nil {
		return models.Order{}, fmt.Errorf("%w: order %s is not out for delivery", ErrInvalidState, o.Number)
	}
	if o.Reparto.SubStatus != models.RepartoAsignado && o.Reparto.SubStatus != models.RepartoEnCamino {
		return models.Order{}, fmt.Errorf("%w: delivery already reported for order %s", ErrInvalidState, o.Number)
	}

	now := s.now()
	o.Reparto.SubStatus = models.RepartoEntregado
	o.Reparto.DeliveredAt = &now

	if err := s.saveOrder(o); err != nil {
		return models.Order{}, err
	}
	o.Version++

	logrus.WithFields(logrus.Fields{
		"order":   o.Number,
		"courier": o.Reparto.CourierName,
	}).Info("delivery reported")

	return o, nil
}

// ReportIncident attaches a free-text note and raises a high-priority alert.
// Advisory only: no status changes.
func (s *Service) ReportIncident(ctx context.Context, orderID, reason string) error {
	if reason == "" {
		return fmt.Errorf("%w: empty incident reason", ErrValidation)
	}

	o, err := s.GetOrder(orderID)
	if err != nil {
		return err
	}
	if o.Reparto == nil {
		return fmt.Errorf("%w: order %s has no delivery", ErrInvalidState, o.Number)
	}

	if o.Reparto.Incident != "" {
		o.Reparto.Incident += "; "
	}
	o.Reparto.Incident += reason

	if err := s.saveOrder(o); err != nil {
		return err
	}

	s.emit(ctx, models.NotificationEvent{
		Kind:         models.NotifIncident,
		OrderID:      o.ID,
		OrderNumber:  o.Number,
		Audiences:    []models.Audience{models.AudienceAdmin},
		Message:      fmt.Sprintf("incidente en pedido %s: %s", o.Number, reason),
		HighPriority: true,
	})

	logrus.WithFields(logrus.Fields{"order": o.Number, "reason": reason}).Warn("delivery incident reported")
	return nil
}

func (s *Service) PendingSettlement(courierID string) ([]models.Order, error) {
	return s.repos.OrderPostgres.PendingSettlement(courierID)
}

// SettleCourier liquidates a batch of delivered, unsettled orders for one
// courier. All or nothing: one already-settled (or otherwise ineligible)
// order fails the whole batch with no partial effect.
func (s *Service) SettleCourier(ctx context.Context, courierID string, orderIDs []string) error {
	if len(orderIDs) == 0 {
		return fmt.Errorf("%w: empty settlement batch", ErrValidation)
	}

	for _, id := range orderIDs {
		o, err := s.GetOrder(id)
		if err != nil {
			return err
		}
		if o.Reparto == nil || o.Reparto.CourierID != courierID {
			return fmt.Errorf("%w: order %s does not belong to courier %s", ErrInvalidState, o.Number, courierID)
		}
		if o.Reparto.SubStatus != models.RepartoEntregado {
			return fmt.Errorf("%w: order %s not delivered yet", ErrInvalidState, o.Number)
		}
		if o.Reparto.Settled {
			return fmt.Errorf("%w: order %s", ErrAlreadySettled, o.Number)
		}
	}

	err := s.repos.SettleBatch(courierID, orderIDs, s.now())
	if errors.Is(err, repository.ErrSettleConflict) {
		// A concurrent liquidation got there first.
		return ErrAlreadySettled
	}
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"courier": courierID,
		"orders":  len(orderIDs),
	}).Info("courier settled")

	return nil
}
