package repository

import (
	"context"
	"time"

	"github.com/diewo77/go-supplies/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ContractQuery filters contract listings. Zero values match everything.
type ContractQuery struct {
	Search   string
	Category models.Category
	Status   models.SignatureStatus
	Item     string
}

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Create(ctx context.Context, c *models.Contract) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ContractRepository) FindByID(ctx context.Context, id uint) (*models.Contract, error) {
	var c models.Contract
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// List returns contracts ordered by item then id. Search matches the process
// number, company name or item, case-insensitively.
func (r *ContractRepository) List(ctx context.Context, q ContractQuery) ([]models.Contract, error) {
	db := r.db.WithContext(ctx)
	if q.Search != "" {
		p := like(q.Search)
		db = db.Where("LOWER(process_number) LIKE ? OR LOWER(company_name) LIKE ? OR LOWER(item) LIKE ?", p, p, p)
	}
	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.Item != "" {
		db = db.Where("item = ?", q.Item)
	}
	var contracts []models.Contract
	err := db.Order("item ASC, id ASC").Find(&contracts).Error
	return contracts, err
}

// FindSignedByItem returns every SIGNED contract for item.
func (r *ContractRepository) FindSignedByItem(ctx context.Context, item string) ([]models.Contract, error) {
	return r.List(ctx, ContractQuery{Item: item, Status: models.SignatureSigned})
}

// UpdateDetails writes the editable fields of c. Balances and stock are
// left untouched.
func (r *ContractRepository) UpdateDetails(ctx context.Context, c *models.Contract) error {
	return r.db.WithContext(ctx).Model(c).
		Select("process_number", "company_name", "company_info", "category", "item", "expires_on", "status").
		Updates(c).Error
}

// SaveBalance persists the current balance of c.
func (r *ContractRepository) SaveBalance(ctx context.Context, c *models.Contract) error {
	return r.db.WithContext(ctx).Model(c).Update("current_balance", c.CurrentBalance).Error
}

func (r *ContractRepository) SetManualStock(ctx context.Context, id uint, stock decimal.NullDecimal) error {
	return r.db.WithContext(ctx).Model(&models.Contract{ID: id}).Update("manual_stock", stock).Error
}

// SetAvailableStock stamps qty on every contract for item and returns how
// many contracts were updated.
func (r *ContractRepository) SetAvailableStock(ctx context.Context, item string, qty decimal.Decimal, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Contract{}).
		Where("item = ?", item).
		Updates(map[string]any{"available_stock": qty, "stock_updated_at": at})
	return res.RowsAffected, res.Error
}

// Delete removes the contract and its comments. Purchase orders are kept.
func (r *ContractRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("contract_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	res := db.Delete(&models.Contract{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
