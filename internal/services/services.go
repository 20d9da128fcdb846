// Package services implements the supply ledger: contracts, purchase
// orders, receipts, the dashboard and the catalog and stock imports.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/diewo77/go-supplies/internal/models"
	"github.com/diewo77/go-supplies/internal/repository"
	"github.com/sirupsen/logrus"
)

// RefundBasis selects the quantity a deleted purchase order returns to its
// contract.
type RefundBasis string

const (
	// RefundOrdered gives back the whole ordered quantity.
	RefundOrdered RefundBasis = "ordered"
	// RefundReceived gives back only what receipts already debited.
	RefundReceived RefundBasis = "received"
)

// ParseRefundBasis accepts "ordered" or "received"; blank means ordered.
func ParseRefundBasis(s string) (RefundBasis, error) {
	switch RefundBasis(strings.ToLower(strings.TrimSpace(s))) {
	case "", RefundOrdered:
		return RefundOrdered, nil
	case RefundReceived:
		return RefundReceived, nil
	}
	return "", fmt.Errorf("unknown refund basis %q", s)
}

// Options tune ledger behaviour.
type Options struct {
	RefundBasis       RefundBasis
	ExpiryWarningDays int
}

// DefaultOptions match the behaviour of the original spreadsheet workflow.
func DefaultOptions() Options {
	return Options{RefundBasis: RefundOrdered, ExpiryWarningDays: 90}
}

// Services bundles every ledger service over one store.
type Services struct {
	Catalog    *CatalogService
	Contracts  *ContractService
	Orders     *PurchaseOrderService
	Collection *CollectionService
	Dashboard  *DashboardService
	Comments   *CommentService
	Stock      *StockImportService
	Export     *ExportService
}

// New wires all services. A nil logger discards output.
func New(store repository.Store, opts Options, log logrus.FieldLogger) *Services {
	log = orDiscard(log)
	collection := NewCollectionService(store, log)
	dashboard := NewDashboardService(store, opts.ExpiryWarningDays)
	return &Services{
		Catalog:    NewCatalogService(store, log),
		Contracts:  NewContractService(store, log),
		Orders:     NewPurchaseOrderService(store, collection, opts.RefundBasis, log),
		Collection: collection,
		Dashboard:  dashboard,
		Comments:   NewCommentService(store),
		Stock:      NewStockImportService(store, log),
		Export:     NewExportService(store, dashboard),
	}
}

func orDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// lookupErr turns a repository miss into a NotFoundError.
func lookupErr(err error, entity string, key any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entity, Key: key}
	}
	return err
}

// signedContract returns the single SIGNED contract for item.
func signedContract(ctx context.Context, tx repository.Store, item string) (*models.Contract, error) {
	contracts, err := tx.Contracts().FindSignedByItem(ctx, item)
	if err != nil {
		return nil, err
	}
	if len(contracts) != 1 {
		return nil, &NotFoundError{Entity: "signed contract for item", Key: item}
	}
	return &contracts[0], nil
}

// matchingContract resolves the contract a receipt or refund applies to:
// the SIGNED contract for item when there is one, otherwise the oldest
// contract for item.
func matchingContract(ctx context.Context, tx repository.Store, item string) (*models.Contract, error) {
	signed, err := tx.Contracts().FindSignedByItem(ctx, item)
	if err != nil {
		return nil, err
	}
	if len(signed) > 0 {
		return &signed[0], nil
	}
	all, err := tx.Contracts().List(ctx, repository.ContractQuery{Item: item})
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, &NotFoundError{Entity: "contract for item", Key: item}
	}
	return &all[0], nil
}

// ruleFromModel translates model method errors into service errors.
func ruleFromModel(err error, field string) error {
	switch {
	case errors.Is(err, models.ErrBelowReceived):
		return ruleErr(RuleBelowReceived, "ordered quantity cannot go below the received quantity")
	case errors.Is(err, models.ErrReceiptOvershoot):
		return ruleErr(RuleReceiptOvershoot, "receipt would exceed the ordered quantity")
	case errors.Is(err, models.ErrReceiptNotAllowed):
		return ruleErr(RuleReceiptNotAllowed, "order status does not accept receipts")
	case errors.Is(err, models.ErrNonPositiveQty):
		return invalid(field, "must_be_positive")
	case errors.Is(err, models.ErrNoCollectionStage):
		return invalid("collection_status", "invalid_choice")
	}
	return err
}

func today(now func() time.Time) time.Time {
	return models.DateOnly(now())
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
