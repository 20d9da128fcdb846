package services

import (
	"context"
	"io"
	"time"

	"github.com/diewo77/go-supplies/internal/models"
	"github.com/diewo77/go-supplies/internal/repository"
	"github.com/diewo77/go-supplies/internal/spreadsheet"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type StockImportService struct {
	store repository.Store
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewStockImportService(store repository.Store, log logrus.FieldLogger) *StockImportService {
	return &StockImportService{store: store, log: orDiscard(log), now: time.Now}
}

// Import reads a stock snapshot file and applies it. A malformed file
// applies nothing.
func (s *StockImportService) Import(ctx context.Context, source string, r io.Reader) (*models.StockImport, error) {
	rows, err := spreadsheet.ReadStock(source, r)
	if err != nil {
		return nil, ioError(source, err)
	}
	return s.Apply(ctx, source, rows)
}

// Apply groups rows by item, summing duplicates, and stamps the available
// stock of every contract for each item in a single transaction. Items
// without a contract are ignored. Any negative row rejects the whole
// snapshot.
func (s *StockImportService) Apply(ctx context.Context, source string, rows []models.StockRow) (*models.StockImport, error) {
	for _, r := range rows {
		if r.Quantity.IsNegative() {
			return nil, invalid("quantity", "must_not_be_negative")
		}
	}
	grouped := models.GroupStockRows(rows)
	at := s.now()
	imp := &models.StockImport{
		BatchID:    uuid.NewString(),
		Source:     source,
		Rows:       len(rows),
		Items:      len(grouped),
		ImportedAt: at,
	}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		for _, r := range grouped {
			n, err := tx.Contracts().SetAvailableStock(ctx, r.Item, r.Quantity, at)
			if err != nil {
				return err
			}
			imp.Matched += int(n)
		}
		return tx.Imports().Create(ctx, imp)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"batch":   imp.BatchID,
		"source":  source,
		"rows":    imp.Rows,
		"items":   imp.Items,
		"matched": imp.Matched,
	}).Info("stock snapshot applied")
	return imp, nil
}

// Recent lists the latest applied snapshots.
func (s *StockImportService) Recent(ctx context.Context, limit int) ([]models.StockImport, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.Imports().Recent(ctx, limit)
}
