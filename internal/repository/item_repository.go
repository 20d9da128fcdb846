package repository

import (
	"context"
	"strings"

	"github.com/diewo77/go-supplies/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// List returns the catalog sorted by name. An empty category lists all.
func (r *ItemRepository) List(ctx context.Context, category models.Category) ([]models.Item, error) {
	var items []models.Item
	q := r.db.WithContext(ctx)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *ItemRepository) FindByName(ctx context.Context, name string) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).Where("name = ?", strings.TrimSpace(name)).First(&item).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

// ReplaceAll deletes every catalog entry and inserts items.
func (r *ItemRepository) ReplaceAll(ctx context.Context, items []models.Item) error {
	db := r.db.WithContext(ctx)
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Item{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.CreateInBatches(items, 200).Error
}

func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ItemRepository) UpdateCMM(ctx context.Context, name string, cmm decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&models.Item{}).Where("name = ?", name).Update("cmm", cmm)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ByName returns every catalog item keyed by name.
func (r *ItemRepository) ByName(ctx context.Context) (map[string]models.Item, error) {
	items, err := r.List(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.Item, len(items))
	for _, it := range items {
		out[it.Name] = it
	}
	return out, nil
}
