package postgres

import (
	"fmt"
	"time"

	"comanda/internal/models"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

type OrderFilter struct {
	Status    models.OrderStatus
	From      time.Time
	To        time.Time
	CourierID string
}

type OrderPostgresRepo struct {
	db *gorm.DB
}

func NewOrderPostgres(db *gorm.DB) *OrderPostgresRepo {
	return &OrderPostgresRepo{db: db}
}

// Create draws the day's next sequence and inserts the order in the same
// transaction. A failed insert rolls the counter back with it, so numbering
// stays gap-free.
func (r *OrderPostgresRepo) Create(o models.Order) (models.Order, error) {
	for i := range o.Items {
		o.Items[i].OrderRefer = o.ID
	}
	if o.Reparto != nil {
		o.Reparto.OrderRefer = o.ID
	}

	day := o.CreatedAt.Format("20060102")
	err := r.db.Transaction(func(tx *gorm.DB) error {
		seq, err := nextSeq(tx, day)
		if err != nil {
			return err
		}
		o.Number = fmt.Sprintf("%s-%04d", day, seq)
		return errors.Wrap(tx.Create(&o).Error, "create order")
	})
	if err != nil {
		return models.Order{}, err
	}
	return o, nil
}

func (r *OrderPostgresRepo) Get(id string) (models.Order, error) {
	var o models.Order
	q := r.db.Preload("Items").
		Preload("Reparto").
		Where("id = ?", id).
		First(&o)
	return o, q.Error
}

func (r *OrderPostgresRepo) List(f OrderFilter) ([]models.Order, error) {
	q := r.db.Preload("Items").Preload("Reparto")

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To)
	}
	if f.CourierID != "" {
		q = q.Joins("JOIN repartos ON repartos.order_refer = orders.id").
			Where("repartos.courier_id = ?", f.CourierID)
	}

	var out []models.Order
	err := q.Order("created_at asc").Find(&out).Error
	return out, errors.Wrap(err, "list orders")
}

// Save writes mutable order fields guarded by the version column and upserts
// the reparto sub-record in the same transaction. RowsAffected == 0 with an
// existing row means a concurrent writer won.
func (r *OrderPostgresRepo) Save(o models.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND version = ?", o.ID, o.Version).
			Updates(map[string]interface{}{
				"status":         o.Status,
				"internal_notes": o.InternalNotes,
				"version":        o.Version + 1,
			})
		if res.Error != nil {
			return errors.Wrap(res.Error, "update order")
		}
		if res.RowsAffected == 0 {
			var count int
			if err := tx.Model(&models.Order{}).
				Where("id = ?", o.ID).
				Count(&count).Error; err != nil {
				return errors.Wrap(err, "order existence check")
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
			return ErrVersionConflict
		}

		if o.Reparto == nil {
			return nil
		}
		o.Reparto.OrderRefer = o.ID

		var rep models.Reparto
		err := tx.Where("order_refer = ?", o.ID).First(&rep).Error
		switch {
		case gorm.IsRecordNotFoundError(err):
			return errors.Wrap(tx.Create(o.Reparto).Error, "create reparto")
		case err != nil:
			return errors.Wrap(err, "load reparto")
		default:
			return errors.Wrap(tx.Model(&models.Reparto{}).
				Where("order_refer = ?", o.ID).
				Updates(map[string]interface{}{
					"courier_id":   o.Reparto.CourierID,
					"courier_name": o.Reparto.CourierName,
					"commission":   o.Reparto.Commission,
					"sub_status":   o.Reparto.SubStatus,
					"assigned_at":  o.Reparto.AssignedAt,
					"delivered_at": o.Reparto.DeliveredAt,
					"settled":      o.Reparto.Settled,
					"settled_at":   o.Reparto.SettledAt,
					"incident":     o.Reparto.Incident,
				}).Error, "update reparto")
		}
	})
}

// SettleBatch marks every reparto in ids settled, all or nothing. The guard
// predicate re-checks courier, delivered sub-status and the settled flag
// inside the transaction; any row that no longer qualifies aborts the batch.
func (r *OrderPostgresRepo) SettleBatch(courierID string, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Reparto{}).
			Where("order_refer IN (?) AND courier_id = ? AND sub_status = ? AND settled = ?",
				ids, courierID, models.RepartoEntregado, false).
			Updates(map[string]interface{}{"settled": true, "settled_at": at})
		if res.Error != nil {
			return errors.Wrap(res.Error, "settle batch")
		}
		if int(res.RowsAffected) != len(ids) {
			return ErrSettleConflict
		}
		return nil
	})
}

func (r *OrderPostgresRepo) PendingSettlement(courierID string) ([]models.Order, error) {
	var out []models.Order
	err := r.db.Preload("Items").Preload("Reparto").
		Joins("JOIN repartos ON repartos.order_refer = orders.id").
		Where("repartos.courier_id = ? AND repartos.sub_status = ? AND repartos.settled = ?",
			courierID, models.RepartoEntregado, false).
		Find(&out).Error
	return out, errors.Wrap(err, "pending settlement")
}

// nextSeq bumps the per-day counter in a single upsert. The row lock the
// upsert takes serializes concurrent creations for the day, so two orders
// can never draw the same number.
func nextSeq(tx *gorm.DB, day string) (int, error) {
	row := tx.Raw(`
		INSERT INTO order_counters (day, seq) VALUES (?, 1)
		ON CONFLICT (day) DO UPDATE SET seq = order_counters.seq + 1
		RETURNING seq`, day).Row()

	var seq int
	if err := row.Scan(&seq); err != nil {
		return 0, errors.Wrap(err, "next order number")
	}
	return seq, nil
}
