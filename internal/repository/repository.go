package repository

import (
	"time"

	"comanda/internal/models"
	"comanda/internal/repository/cache"
	"comanda/internal/repository/postgres"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// Sentinel errors surfaced by the postgres repos. Re-exported here so the
// service layer never imports the postgres package directly.
var (
	ErrVersionConflict = postgres.ErrVersionConflict
	ErrOpenShiftExists = postgres.ErrOpenShiftExists
	ErrSettleConflict  = postgres.ErrSettleConflict
)

type OrderFilter = postgres.OrderFilter

type OrderPostgres interface {
	// Create stamps the order with the day's next sequential number and
	// inserts it, atomically.
	Create(o models.Order) (models.Order, error)
	Get(id string) (models.Order, error)
	List(f OrderFilter) ([]models.Order, error)
	// Save persists mutable order fields and the reparto sub-record. It is
	// conditional on the order's version; a stale version yields
	// ErrVersionConflict.
	Save(o models.Order) error
	SettleBatch(courierID string, ids []string, at time.Time) error
	PendingSettlement(courierID string) ([]models.Order, error)
}

type ShiftPostgres interface {
	Open(s models.Shift) error
	CurrentOpen() (models.Shift, error)
	Get(id string) (models.Shift, error)
	Save(s models.Shift) error
	ListBetween(from, to time.Time) ([]models.Shift, error)
	// AddCompletion and AddCancellation bump the ledger with relative
	// updates; concurrent callers never overwrite each other's sales.
	AddCompletion(shiftID string, method models.PaymentMethod, amount decimal.Decimal) error
	AddCancellation(shiftID string) error
}

type CatalogPostgres interface {
	ActiveNeighborhoods() ([]models.Neighborhood, error)
	NeighborhoodByName(name string) (models.Neighborhood, error)
	Courier(id string) (models.Courier, error)
}

type CustomerCache interface {
	PutCustomer(phone string, c models.Customer)
	GetCustomer(phone string) (models.Customer, error)
}

type Repository struct {
	OrderPostgres
	ShiftPostgres
	CatalogPostgres
	CustomerCache
}

func NewRepository(db *gorm.DB, customers cache.Store) *Repository {
	return &Repository{
		OrderPostgres:   postgres.NewOrderPostgres(db),
		ShiftPostgres:   postgres.NewShiftPostgres(db),
		CatalogPostgres: postgres.NewCatalogPostgres(db),
		CustomerCache:   cache.NewCustomerCache(customers),
	}
}
