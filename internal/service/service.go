package service

import (
	"context"
	"time"

	"comanda/internal/models"
	"comanda/internal/repository"

	"github.com/go-playground/validator/v10"
)

// CRM is the full surface the HTTP layer drives.
type CRM interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (models.Order, error)
	GetOrder(id string) (models.Order, error)
	ListOrders(f repository.OrderFilter) ([]models.Order, error)
	Transition(ctx context.Context, id string, target models.OrderStatus) (models.Order, error)

	AssignCourier(ctx context.Context, orderID, courierID string) (models.Order, error)
	MarkEnRoute(ctx context.Context, orderID string) (models.Order, error)
	MarkDelivered(ctx context.Context, orderID string) (models.Order, error)
	ReportIncident(ctx context.Context, orderID, reason string) error
	PendingSettlement(courierID string) ([]models.Order, error)
	SettleCourier(ctx context.Context, courierID string, orderIDs []string) error

	OpenShift(ctx context.Context, req OpenShiftRequest) (models.Shift, error)
	CloseShift(ctx context.Context, shiftID string, req CloseShiftRequest) (models.Shift, error)
	CurrentShift() (models.Shift, error)

	DailyReport(date string, shiftType models.ShiftType) (DayReport, error)

	ActiveNeighborhoods() ([]models.Neighborhood, error)
	RecentCustomer(phone string) (models.Customer, error)
}

// Notifier is the fire-and-forget notification sink. Errors are logged and
// never propagate into the operation that raised the event.
type Notifier interface {
	Notify(ctx context.Context, ev models.NotificationEvent) error
}

type Service struct {
	repos    *repository.Repository
	notifier Notifier
	v        *validator.Validate
	now      func() time.Time
}

type Option func(*Service)

// WithClock overrides the service clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repos *repository.Repository, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		repos:    repos,
		notifier: notifier,
		v:        validator.New(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) ActiveNeighborhoods() ([]models.Neighborhood, error) {
	return s.repos.ActiveNeighborhoods()
}

func (s *Service) RecentCustomer(phone string) (models.Customer, error) {
	return s.repos.GetCustomer(phone)
}
