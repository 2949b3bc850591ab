package postgres

import (
	"time"

	"comanda/internal/models"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Serializes shift opening across connections. The check-then-create below
// is only safe while this transaction-scoped lock is held.
const shiftOpenLockKey = 74201

type ShiftPostgresRepo struct {
	db *gorm.DB
}

func NewShiftPostgres(db *gorm.DB) *ShiftPostgresRepo {
	return &ShiftPostgresRepo{db: db}
}

func (r *ShiftPostgresRepo) Open(s models.Shift) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", shiftOpenLockKey).Error; err != nil {
			return errors.Wrap(err, "shift open lock")
		}

		var count int
		if err := tx.Model(&models.Shift{}).
			Where("open = ?", true).
			Count(&count).Error; err != nil {
			return errors.Wrap(err, "open shift count")
		}
		if count > 0 {
			return ErrOpenShiftExists
		}

		return errors.Wrap(tx.Create(&s).Error, "create shift")
	})
}

func (r *ShiftPostgresRepo) CurrentOpen() (models.Shift, error) {
	var s models.Shift
	err := r.db.Where("open = ?", true).First(&s).Error
	return s, err
}

func (r *ShiftPostgresRepo) Get(id string) (models.Shift, error) {
	var s models.Shift
	err := r.db.Where("id = ?", id).First(&s).Error
	return s, err
}

func (r *ShiftPostgresRepo) ListBetween(from, to time.Time) ([]models.Shift, error) {
	var out []models.Shift
	err := r.db.Where("opened_at >= ? AND opened_at < ?", from, to).
		Order("opened_at asc").
		Find(&out).Error
	return out, errors.Wrap(err, "list shifts")
}

// Save seals a shift at close. Running totals and order counters move only
// through AddCompletion/AddCancellation and are deliberately not written
// here.
func (r *ShiftPostgresRepo) Save(s models.Shift) error {
	err := r.db.Model(&models.Shift{}).
		Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"open":          s.Open,
			"counted_cash":  s.CountedCash,
			"expected_cash": s.ExpectedCash,
			"variance":      s.Variance,
			"observations":  s.Observations,
			"closed_by":     s.ClosedBy,
			"closed_at":     s.ClosedAt,
		}).Error
	return errors.Wrap(err, "save shift")
}

func cashColumn(m models.PaymentMethod) (string, bool) {
	switch m {
	case models.PayEfectivo:
		return "total_efectivo", true
	case models.PayTarjeta:
		return "total_tarjeta", true
	case models.PayTransferencia:
		return "total_transferencia", true
	case models.PayApp:
		return "total_app", true
	}
	return "", false
}

// AddCompletion folds a delivered order into the shift's running totals with
// a single relative UPDATE, so two orders completing at once can never lose
// a sale. RowsAffected 0 means the shift is closed or gone and surfaces as
// gorm.ErrRecordNotFound.
func (r *ShiftPostgresRepo) AddCompletion(shiftID string, method models.PaymentMethod, amount decimal.Decimal) error {
	col, ok := cashColumn(method)
	if !ok {
		return errors.Errorf("unknown payment method %q", method)
	}

	res := r.db.Model(&models.Shift{}).
		Where("id = ? AND open = ?", shiftID, true).
		Updates(map[string]interface{}{
			col:                gorm.Expr(col+" + ?", amount),
			"orders_delivered": gorm.Expr("orders_delivered + 1"),
		})
	if res.Error != nil {
		return errors.Wrap(res.Error, "add completion")
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ShiftPostgresRepo) AddCancellation(shiftID string) error {
	res := r.db.Model(&models.Shift{}).
		Where("id = ? AND open = ?", shiftID, true).
		Update("orders_canceled", gorm.Expr("orders_canceled + 1"))
	if res.Error != nil {
		return errors.Wrap(res.Error, "add cancellation")
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
