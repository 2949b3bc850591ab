package service

import (
	"context"
	"fmt"

	"comanda/internal/models"
	"comanda/internal/repository"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type OpenShiftRequest struct {
	Type         models.ShiftType `json:"type" validate:"required,oneof=matutino vespertino"`
	InitialFloat decimal.Decimal  `json:"initial_float"`
	CashierID    string           `json:"cashier_id" validate:"required"`
	ManagerID    string           `json:"manager_id"`
}

type CloseShiftRequest struct {
	CountedCash  decimal.Decimal `json:"counted_cash"`
	Observations string          `json:"observations"`
	ClosedBy     string          `json:"closed_by" validate:"required"`
}

func (s *Service) OpenShift(ctx context.Context, req OpenShiftRequest) (models.Shift, error) {
	if err := s.validateStruct(req); err != nil {
		return models.Shift{}, err
	}
	if req.InitialFloat.IsNegative() {
		return models.Shift{}, fmt.Errorf("%w: negative initial float", ErrValidation)
	}

	shift := models.Shift{
		ID:           uuid.NewString(),
		Type:         req.Type,
		CashierID:    req.CashierID,
		ManagerID:    req.ManagerID,
		OpenedAt:     s.now(),
		InitialFloat: req.InitialFloat,
		Open:         true,
	}

	err := s.repos.Open(shift)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrOpenShiftExists):
		return models.Shift{}, ErrShiftAlreadyOpen
	default:
		return models.Shift{}, err
	}

	s.emit(ctx, models.NotificationEvent{
		Kind:      models.NotifShift,
		ShiftID:   shift.ID,
		Audiences: []models.Audience{models.AudienceAdmin},
		Message:   fmt.Sprintf("turno %s abierto con fondo %s", shift.Type, shift.InitialFloat.StringFixed(2)),
	})

	logrus.WithFields(logrus.Fields{
		"shift":   shift.ID,
		"type":    shift.Type,
		"cashier": shift.CashierID,
	}).Info("shift opened")

	return shift, nil
}

// CloseShift seals the shift: expected cash is the float plus the cash-method
// total, variance is counted minus expected. A nonzero variance (either sign)
// is a valid outcome, not an error.
func (s *Service) CloseShift(ctx context.Context, shiftID string, req CloseShiftRequest) (models.Shift, error) {
	if err := s.validateStruct(req); err != nil {
		return models.Shift{}, err
	}

	shift, err := s.repos.ShiftPostgres.Get(shiftID)
	if gorm.IsRecordNotFoundError(err) {
		return models.Shift{}, ErrNotFound
	}
	if err != nil {
		return models.Shift{}, errors.Wrap(err, "load shift")
	}
	if !shift.Open {
		return models.Shift{}, ErrShiftAlreadyClosed
	}

	now := s.now()
	shift.Open = false
	shift.CountedCash = req.CountedCash
	shift.ExpectedCash = shift.InitialFloat.Add(shift.TotalEfectivo)
	shift.Variance = req.CountedCash.Sub(shift.ExpectedCash)
	shift.Observations = req.Observations
	shift.ClosedBy = req.ClosedBy
	shift.ClosedAt = &now

	if err := s.repos.ShiftPostgres.Save(shift); err != nil {
		return models.Shift{}, err
	}

	s.emit(ctx, models.NotificationEvent{
		Kind:      models.NotifShift,
		ShiftID:   shift.ID,
		Audiences: []models.Audience{models.AudienceAdmin},
		Message: fmt.Sprintf("turno cerrado: esperado %s, contado %s, diferencia %s",
			shift.ExpectedCash.StringFixed(2), shift.CountedCash.StringFixed(2), shift.Variance.StringFixed(2)),
	})

	logrus.WithFields(logrus.Fields{
		"shift":    shift.ID,
		"expected": shift.ExpectedCash.String(),
		"counted":  shift.CountedCash.String(),
		"variance": shift.Variance.String(),
	}).Info("shift closed")

	return shift, nil
}

func (s *Service) CurrentShift() (models.Shift, error) {
	shift, err := s.repos.CurrentOpen()
	if gorm.IsRecordNotFoundError(err) {
		return models.Shift{}, ErrNoOpenShift
	}
	return shift, err
}

// recordCompletion folds a delivered order into the shift ledger. Orders
// count toward the ledger only at entregado, so cancellations never
// subtract. The repo applies a relative update; no read-modify-write here.
func (s *Service) recordCompletion(o models.Order) {
	err := s.repos.AddCompletion(o.ShiftID, o.Payment.Method, o.Total)
	switch {
	case err == nil:
	case gorm.IsRecordNotFoundError(err):
		logrus.WithFields(logrus.Fields{"order": o.Number, "shift": o.ShiftID}).
			Warn("owning shift closed or missing, ledger not updated")
	default:
		logrus.WithError(err).WithField("shift", o.ShiftID).Warn("ledger update failed")
	}
}

func (s *Service) recordCancellation(o models.Order) {
	err := s.repos.AddCancellation(o.ShiftID)
	switch {
	case err == nil:
	case gorm.IsRecordNotFoundError(err):
		logrus.WithFields(logrus.Fields{"order": o.Number, "shift": o.ShiftID}).
			Warn("owning shift closed or missing, cancellation not counted")
	default:
		logrus.WithError(err).WithField("shift", o.ShiftID).Warn("cancellation count update failed")
	}
}
