package repository

import (
	"context"

	"github.com/diewo77/go-supplies/internal/models"
	"gorm.io/gorm"
)

// OrderQuery filters purchase order listings. Zero values match everything.
type OrderQuery struct {
	Search string
	Item   string
	Status models.OrderStatus
}

// ItemTotals aggregates the purchase orders of one item.
type ItemTotals struct {
	Item string
	// Received sums ordered_qty of RECEIVED orders.
	Received int64
	// Pending sums pending_qty of every order that is not RECEIVED.
	Pending int64
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *models.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OrderRepository) Save(ctx context.Context, o *models.PurchaseOrder) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*models.PurchaseOrder, error) {
	var o models.PurchaseOrder
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.PurchaseOrder{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns orders, newest first. Search matches the order number, vendor
// or item, case-insensitively.
func (r *OrderRepository) List(ctx context.Context, q OrderQuery) ([]models.PurchaseOrder, error) {
	db := r.db.WithContext(ctx)
	if q.Search != "" {
		p := like(q.Search)
		db = db.Where("LOWER(number) LIKE ? OR LOWER(vendor) LIKE ? OR LOWER(item) LIKE ?", p, p, p)
	}
	if q.Item != "" {
		db = db.Where("item = ?", q.Item)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	var orders []models.PurchaseOrder
	err := db.Order("id DESC").Find(&orders).Error
	return orders, err
}

// PendingTotal sums pending_qty over the item's orders that are not RECEIVED.
func (r *OrderRepository) PendingTotal(ctx context.Context, item string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.PurchaseOrder{}).
		Select("COALESCE(SUM(pending_qty), 0)").
		Where("item = ? AND status <> ?", item, models.OrderReceived).
		Scan(&total).Error
	return total, err
}

// Totals aggregates received and pending quantities per item.
func (r *OrderRepository) Totals(ctx context.Context) (map[string]ItemTotals, error) {
	var rows []ItemTotals
	err := r.db.WithContext(ctx).Model(&models.PurchaseOrder{}).
		Select(
			"item, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN ordered_qty ELSE 0 END), 0) AS received, "+
				"COALESCE(SUM(CASE WHEN status <> ? THEN pending_qty ELSE 0 END), 0) AS pending",
			models.OrderReceived, models.OrderReceived,
		).
		Group("item").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]ItemTotals, len(rows))
	for _, t := range rows {
		out[t.Item] = t
	}
	return out, nil
}
