package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/diewo77/go-supplies/internal/models"
	"github.com/diewo77/go-supplies/internal/repository"
	"github.com/diewo77/go-supplies/internal/spreadsheet"
	"github.com/diewo77/go-supplies/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ItemInput is a catalog entry entered by hand.
type ItemInput struct {
	Name     string          `json:"name" validate:"required,max=255"`
	Region   string          `json:"region" validate:"max=10"`
	Category models.Category `json:"category" validate:"required"`
	CMM      decimal.Decimal `json:"cmm"`
}

type CatalogService struct {
	store repository.Store
	log   logrus.FieldLogger
}

func NewCatalogService(store repository.Store, log logrus.FieldLogger) *CatalogService {
	return &CatalogService{store: store, log: orDiscard(log)}
}

// Create adds one item. Names are unique.
func (s *CatalogService) Create(ctx context.Context, in ItemInput) (*models.Item, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Region = strings.ToUpper(strings.TrimSpace(in.Region))
	v := make(validation.Violations)
	validation.Struct(in, v)
	if in.Category != "" && !in.Category.Valid() {
		v["category"] = "invalid_choice"
	}
	validation.NonNegative("cmm", in.CMM, v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	item := &models.Item{Name: in.Name, Region: in.Region, Category: in.Category, CMM: in.CMM}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		_, err := tx.Items().FindByName(ctx, in.Name)
		switch {
		case err == nil:
			return invalid("name", "already_exists")
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
		return tx.Items().Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ImportItems replaces the whole catalog with the items of a tabular file.
// Nothing changes when the file cannot be read.
func (s *CatalogService) ImportItems(ctx context.Context, source string, r io.Reader) (int, error) {
	items, err := spreadsheet.ReadItems(source, r)
	if err != nil {
		return 0, ioError(source, err)
	}
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		return tx.Items().ReplaceAll(ctx, items)
	})
	if err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{"source": source, "items": len(items)}).Info("catalog imported")
	return len(items), nil
}

// UpdateCMM sets the monthly average consumption of an item.
func (s *CatalogService) UpdateCMM(ctx context.Context, name string, cmm decimal.Decimal) (*models.Item, error) {
	if cmm.IsNegative() {
		return nil, invalid("cmm", "must_not_be_negative")
	}
	name = strings.TrimSpace(name)
	if err := s.store.Items().UpdateCMM(ctx, name, cmm); err != nil {
		return nil, lookupErr(err, "item", name)
	}
	return s.Get(ctx, name)
}

func (s *CatalogService) Get(ctx context.Context, name string) (*models.Item, error) {
	item, err := s.store.Items().FindByName(ctx, name)
	if err != nil {
		return nil, lookupErr(err, "item", name)
	}
	return item, nil
}

// List returns the catalog; an empty category lists every item.
func (s *CatalogService) List(ctx context.Context, category models.Category) ([]models.Item, error) {
	return s.store.Items().List(ctx, category)
}

// ioError wraps a reader failure, keeping the row of malformed data.
func ioError(source string, err error) error {
	e := &IOError{Source: source, Err: err}
	var rowErr *spreadsheet.RowError
	if errors.As(err, &rowErr) {
		e.Row = rowErr.Row
	}
	return e
}
