package service_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"

	"comanda/internal/models"
	"comanda/internal/repository"
	"comanda/internal/repository/cache"
	svc "comanda/internal/service"
)

type orderStub struct {
	mu     sync.Mutex
	orders map[string]models.Order
	seq    map[string]int

	createErr error
	saveErr   error
	settleErr error
}

func newOrderStub() *orderStub {
	return &orderStub{orders: map[string]models.Order{}, seq: map[string]int{}}
}

func copyOrder(o models.Order) models.Order {
	if o.Reparto != nil {
		rep := *o.Reparto
		o.Reparto = &rep
	}
	items := make([]models.Item, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}

func (s *orderStub) Create(o models.Order) (models.Order, error) {
	if s.createErr != nil {
		return models.Order{}, s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	day := o.CreatedAt.Format("20060102")
	s.seq[day]++
	o.Number = fmt.Sprintf("%s-%04d", day, s.seq[day])
	s.orders[o.ID] = copyOrder(o)
	return o, nil
}

func (s *orderStub) Get(id string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return models.Order{}, gorm.ErrRecordNotFound
	}
	return copyOrder(o), nil
}

func (s *orderStub) List(f repository.OrderFilter) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if !f.From.IsZero() && o.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !o.CreatedAt.Before(f.To) {
			continue
		}
		out = append(out, copyOrder(o))
	}
	return out, nil
}

func (s *orderStub) Save(o models.Order) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.orders[o.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if cur.Version != o.Version {
		return repository.ErrVersionConflict
	}
	o.Version++
	s.orders[o.ID] = copyOrder(o)
	return nil
}

func (s *orderStub) SettleBatch(courierID string, ids []string, at time.Time) error {
	if s.settleErr != nil {
		return s.settleErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		o, ok := s.orders[id]
		if !ok || o.Reparto == nil || o.Reparto.CourierID != courierID ||
			o.Reparto.SubStatus != models.RepartoEntregado || o.Reparto.Settled {
			return repository.ErrSettleConflict
		}
	}
	for _, id := range ids {
		o := s.orders[id]
		o.Reparto.Settled = true
		settledAt := at
		o.Reparto.SettledAt = &settledAt
		s.orders[id] = o
	}
	return nil
}

func (s *orderStub) PendingSettlement(courierID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.Reparto != nil && o.Reparto.CourierID == courierID &&
			o.Reparto.SubStatus == models.RepartoEntregado && !o.Reparto.Settled {
			out = append(out, copyOrder(o))
		}
	}
	return out, nil
}

type shiftStub struct {
	mu     sync.Mutex
	shifts map[string]models.Shift
}

func newShiftStub() *shiftStub {
	return &shiftStub{shifts: map[string]models.Shift{}}
}

func (s *shiftStub) Open(sh models.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.shifts {
		if existing.Open {
			return repository.ErrOpenShiftExists
		}
	}
	s.shifts[sh.ID] = sh
	return nil
}

func (s *shiftStub) CurrentOpen() (models.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sh := range s.shifts {
		if sh.Open {
			return sh, nil
		}
	}
	return models.Shift{}, gorm.ErrRecordNotFound
}

func (s *shiftStub) Get(id string) (models.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shifts[id]
	if !ok {
		return models.Shift{}, gorm.ErrRecordNotFound
	}
	return sh, nil
}

func (s *shiftStub) Save(sh models.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shifts[sh.ID] = sh
	return nil
}

func (s *shiftStub) AddCompletion(shiftID string, method models.PaymentMethod, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shifts[shiftID]
	if !ok || !sh.Open {
		return gorm.ErrRecordNotFound
	}
	sh.AddSale(method, amount)
	sh.OrdersDelivered++
	s.shifts[shiftID] = sh
	return nil
}

func (s *shiftStub) AddCancellation(shiftID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shifts[shiftID]
	if !ok || !sh.Open {
		return gorm.ErrRecordNotFound
	}
	sh.OrdersCanceled++
	s.shifts[shiftID] = sh
	return nil
}

func (s *shiftStub) ListBetween(from, to time.Time) ([]models.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Shift
	for _, sh := range s.shifts {
		if !sh.OpenedAt.Before(from) && sh.OpenedAt.Before(to) {
			out = append(out, sh)
		}
	}
	return out, nil
}

type catalogStub struct {
	neighborhoods map[string]models.Neighborhood
	couriers      map[string]models.Courier
}

func newCatalogStub() *catalogStub {
	return &catalogStub{
		neighborhoods: map[string]models.Neighborhood{},
		couriers:      map[string]models.Courier{},
	}
}

func (s *catalogStub) ActiveNeighborhoods() ([]models.Neighborhood, error) {
	var out []models.Neighborhood
	for _, n := range s.neighborhoods {
		if n.Active {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *catalogStub) NeighborhoodByName(name string) (models.Neighborhood, error) {
	n, ok := s.neighborhoods[name]
	if !ok {
		return models.Neighborhood{}, gorm.ErrRecordNotFound
	}
	return n, nil
}

func (s *catalogStub) Courier(id string) (models.Courier, error) {
	c, ok := s.couriers[id]
	if !ok {
		return models.Courier{}, gorm.ErrRecordNotFound
	}
	return c, nil
}

type customerCacheStub struct {
	m map[string]models.Customer
}

func newCustomerCacheStub() *customerCacheStub {
	return &customerCacheStub{m: map[string]models.Customer{}}
}

func (s *customerCacheStub) PutCustomer(phone string, c models.Customer) {
	s.m[phone] = c
}

func (s *customerCacheStub) GetCustomer(phone string) (models.Customer, error) {
	c, ok := s.m[phone]
	if !ok {
		return models.Customer{}, cache.NewErrorHandler(fmt.Errorf("customer %s not found", phone), http.StatusNotFound)
	}
	return c, nil
}

type notifierStub struct {
	mu     sync.Mutex
	events []models.NotificationEvent
	err    error
}

func (n *notifierStub) Notify(_ context.Context, ev models.NotificationEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, ev)
	return nil
}

func (n *notifierStub) last() (models.NotificationEvent, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.events) == 0 {
		return models.NotificationEvent{}, false
	}
	return n.events[len(n.events)-1], true
}

var (
	_ repository.OrderPostgres   = (*orderStub)(nil)
	_ repository.ShiftPostgres   = (*shiftStub)(nil)
	_ repository.CatalogPostgres = (*catalogStub)(nil)
	_ repository.CustomerCache   = (*customerCacheStub)(nil)
	_ svc.Notifier               = (*notifierStub)(nil)
)

type env struct {
	svc      *svc.Service
	orders   *orderStub
	shifts   *shiftStub
	catalog  *catalogStub
	cache    *customerCacheStub
	notifier *notifierStub
	clock    *time.Time
}

func newEnv() *env {
	e := &env{
		orders:   newOrderStub(),
		shifts:   newShiftStub(),
		catalog:  newCatalogStub(),
		cache:    newCustomerCacheStub(),
		notifier: &notifierStub{},
	}
	now := time.Date(2025, 1, 1, 13, 30, 0, 0, time.UTC)
	e.clock = &now

	repo := &repository.Repository{
		OrderPostgres:   e.orders,
		ShiftPostgres:   e.shifts,
		CatalogPostgres: e.catalog,
		CustomerCache:   e.cache,
	}
	e.svc = svc.NewService(repo, e.notifier, svc.WithClock(func() time.Time { return *e.clock }))
	return e
}
