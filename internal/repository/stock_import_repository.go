package repository

import (
	"context"

	"github.com/diewo77/go-supplies/internal/models"
	"gorm.io/gorm"
)

type StockImportRepository struct {
	db *gorm.DB
}

func NewStockImportRepository(db *gorm.DB) *StockImportRepository {
	return &StockImportRepository{db: db}
}

func (r *StockImportRepository) Create(ctx context.Context, imp *models.StockImport) error {
	return r.db.WithContext(ctx).Create(imp).Error
}

// Recent returns the latest imports, newest first.
func (r *StockImportRepository) Recent(ctx context.Context, limit int) ([]models.StockImport, error) {
	var imports []models.StockImport
	err := r.db.WithContext(ctx).Order("imported_at DESC, id DESC").Limit(limit).Find(&imports).Error
	return imports, err
}
