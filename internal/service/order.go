package service

import (
	"context"
	"fmt"
	"strings"

	"comanda/internal/models"
	"comanda/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Name      string          `json:"name"       validate:"required"`
	Quantity  int             `json:"quantity"   validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Notes     string          `json:"notes"`
}

type PaymentRequest struct {
	Method         models.PaymentMethod `json:"method" validate:"required,oneof=efectivo tarjeta transferencia app"`
	RequiresChange bool                 `json:"requires_change"`
	AmountTendered decimal.Decimal      `json:"amount_tendered"`
}

type CreateOrderRequest struct {
	Channel  models.Channel  `json:"channel"  validate:"required,oneof=whatsapp call counter uber didi web"`
	Customer models.Customer `json:"customer" validate:"required"`
	Items    []ItemRequest   `json:"items"    validate:"required,min=1,dive"`
	Payment  PaymentRequest  `json:"payment"  validate:"required"`
	Discount *Discount       `json:"discount,omitempty"`
	Notes    string          `json:"notes"`
}

func humanizeValidationErrors(errs validator.ValidationErrors) string {
	var b strings.Builder
	for _, fe := range errs {
		if fe.Param() != "" {
			fmt.Fprintf(&b, "%s: %s=%s; ", fe.Namespace(), fe.Tag(), fe.Param())
		} else {
			fmt.Fprintf(&b, "%s: %s; ", fe.Namespace(), fe.Tag())
		}
	}
	s := b.String()
	if len(s) > 2 {
		s = s[:len(s)-2]
	}
	return s
}

func (s *Service) validateStruct(v interface{}) error {
	if err := s.v.Struct(v); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			return fmt.Errorf("%w: %s", ErrValidation, humanizeValidationErrors(verrs))
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// CreateOrder validates the request, snapshots shipping from the customer's
// neighborhood, computes totals, draws the next order number for the day and
// registers the order in recibido against the currently open shift.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (models.Order, error) {
	if err := s.validateStruct(req); err != nil {
		return models.Order{}, err
	}
	for _, it := range req.Items {
		if !it.UnitPrice.IsPositive() {
			return models.Order{}, fmt.Errorf("%w: item %s unit price must be positive", ErrValidation, it.ProductID)
		}
	}

	shift, err := s.repos.CurrentOpen()
	if gorm.IsRecordNotFoundError(err) {
		return models.Order{}, ErrNoOpenShift
	}
	if err != nil {
		return models.Order{}, errors.Wrap(err, "lookup open shift")
	}

	shipping := decimal.Zero
	if req.Customer.Neighborhood != "" {
		n, err := s.repos.NeighborhoodByName(req.Customer.Neighborhood)
		if gorm.IsRecordNotFoundError(err) {
			return models.Order{}, fmt.Errorf("%w: unknown neighborhood %q", ErrValidation, req.Customer.Neighborhood)
		}
		if err != nil {
			return models.Order{}, errors.Wrap(err, "lookup neighborhood")
		}
		if !n.Active {
			return models.Order{}, fmt.Errorf("%w: neighborhood %q is not active", ErrValidation, n.Name)
		}
		shipping = n.ShippingCost
	}

	items := make([]models.Item, 0, len(req.Items))
	subtotal := decimal.Zero
	for _, it := range req.Items {
		line := ItemSubtotal(it.UnitPrice, it.Quantity)
		subtotal = subtotal.Add(line)
		items = append(items, models.Item{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Notes:     it.Notes,
			Subtotal:  line,
		})
	}

	discount, err := ComputeDiscount(subtotal, req.Discount)
	if err != nil {
		return models.Order{}, err
	}
	total := ComputeTotal(subtotal, discount, shipping)

	payment := models.Payment{
		Method:         req.Payment.Method,
		RequiresChange: req.Payment.RequiresChange,
		AmountTendered: req.Payment.AmountTendered,
	}
	if payment.RequiresChange {
		if payment.AmountTendered.LessThan(total) {
			return models.Order{}, fmt.Errorf("%w: tendered amount below total", ErrValidation)
		}
		payment.ChangeDue = payment.AmountTendered.Sub(total)
	}

	order := models.Order{
		ID:             uuid.NewString(),
		Channel:        req.Channel,
		Customer:       req.Customer,
		Items:          items,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Shipping:       shipping,
		Total:          total,
		Payment:        payment,
		Status:         models.StatusRecibido,
		Notes:          req.Notes,
		ShiftID:        shift.ID,
		CreatedAt:      s.now(),
	}

	// The repo stamps the order number; allocation and insert share one
	// transaction so a failed insert never burns a sequence value.
	created, err := s.repos.OrderPostgres.Create(order)
	if err != nil {
		return models.Order{}, err
	}

	s.repos.PutCustomer(created.Customer.Phone, created.Customer)

	s.emit(ctx, models.NotificationEvent{
		Kind:        models.NotifStatusChange,
		OrderID:     created.ID,
		OrderNumber: created.Number,
		ShiftID:     shift.ID,
		NewStatus:   models.StatusRecibido,
		Audiences:   []models.Audience{models.AudienceKitchen, models.AudienceCounter},
		Message:     fmt.Sprintf("pedido %s recibido", created.Number),
	})

	logrus.WithFields(logrus.Fields{
		"order":  created.Number,
		"shift":  shift.ID,
		"total":  created.Total.String(),
		"method": created.Payment.Method,
	}).Info("order created")

	return created, nil
}

func (s *Service) GetOrder(id string) (models.Order, error) {
	o, err := s.repos.OrderPostgres.Get(id)
	if gorm.IsRecordNotFoundError(err) {
		return models.Order{}, ErrNotFound
	}
	return o, err
}

func (s *Service) ListOrders(f repository.OrderFilter) ([]models.Order, error) {
	return s.repos.List(f)
}

// Transition applies a status change per the order state machine. Canceling
// an already-canceled order is a silent no-op; entregado additionally
// requires the delivery sub-record to report delivered.
func (s *Service) Transition(ctx context.Context, id string, target models.OrderStatus) (models.Order, error) {
	if !target.Valid() {
		return models.Order{}, fmt.Errorf("%w: unknown status %q", ErrValidation, target)
	}

	o, err := s.GetOrder(id)
	if err != nil {
		return models.Order{}, err
	}

	if target == models.StatusCancelado && o.Status == models.StatusCancelado {
		return o, nil
	}
	if !o.Status.CanTransitionTo(target) {
		return models.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}
	if target == models.StatusEntregado {
		if o.Reparto == nil || o.Reparto.SubStatus != models.RepartoEntregado {
			return models.Order{}, fmt.Errorf("%w: order not reported delivered by courier", ErrInvalidState)
		}
	}

	old := o.Status
	o.Status = target
	if err := s.saveOrder(o); err != nil {
		return models.Order{}, err
	}
	o.Version++

	switch target {
	case models.StatusEntregado:
		s.recordCompletion(o)
	case models.StatusCancelado:
		s.recordCancellation(o)
	}

	s.emit(ctx, models.NotificationEvent{
		Kind:        models.NotifStatusChange,
		OrderID:     o.ID,
		OrderNumber: o.Number,
		ShiftID:     o.ShiftID,
		OldStatus:   old,
		NewStatus:   target,
		Audiences:   audiencesFor(old, target),
		Message:     fmt.Sprintf("pedido %s: %s -> %s", o.Number, old, target),
	})

	logrus.WithFields(logrus.Fields{
		"order": o.Number,
		"from":  old,
		"to":    target,
	}).Info("order status changed")

	return o, nil
}

func (s *Service) saveOrder(o models.Order) error {
	err := s.repos.OrderPostgres.Save(o)
	switch {
	case err == nil:
		return nil
	case gorm.IsRecordNotFoundError(err):
		return ErrNotFound
	case errors.Is(err, repository.ErrVersionConflict):
		return ErrConflict
	default:
		return err
	}
}

func audiencesFor(from, to models.OrderStatus) []models.Audience {
	switch {
	case to == models.StatusCancelado:
		return []models.Audience{models.AudienceKitchen, models.AudienceCounter, models.AudienceAdmin}
	case to == models.StatusEnPreparacion:
		return []models.Audience{models.AudienceKitchen}
	case to == models.StatusListo:
		return []models.Audience{models.AudienceDelivery, models.AudienceCounter}
	case to == models.StatusEnReparto:
		return []models.Audience{models.AudienceKitchen, models.AudienceCounter}
	case to == models.StatusEntregado:
		return []models.Audience{models.AudienceCounter, models.AudienceAdmin}
	default:
		return []models.Audience{models.AudienceCounter}
	}
}
