package services

import (
	"context"

	"github.com/diewo77/go-supplies/internal/models"
	"github.com/diewo77/go-supplies/internal/repository"
	"github.com/sirupsen/logrus"
)

// ReceiptInput is a quantity arriving at a collection stage.
type ReceiptInput struct {
	Quantity         int64                   `json:"quantity"`
	CollectionStatus models.CollectionStatus `json:"collection_status"`
}

// ReceiptResult is the state of the order and its contract after a receipt.
type ReceiptResult struct {
	Order    *models.PurchaseOrder `json:"order"`
	Contract *models.Contract      `json:"contract"`
}

type CollectionService struct {
	store repository.Store
	log   logrus.FieldLogger
}

func NewCollectionService(store repository.Store, log logrus.FieldLogger) *CollectionService {
	return &CollectionService{store: store, log: orDiscard(log)}
}

// RegisterReceipt adds increment units to the order at the given collection
// stage and debits the increment from the matching contract. Order and
// contract are written in one transaction.
func (s *CollectionService) RegisterReceipt(ctx context.Context, orderID uint, in ReceiptInput) (*ReceiptResult, error) {
	var res *ReceiptResult
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().FindByID(ctx, orderID)
		if err != nil {
			return lookupErr(err, "purchase order", orderID)
		}
		res, err = s.apply(ctx, tx, order, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// apply runs the receipt inside an open transaction. The contract is
// resolved before anything is written.
func (s *CollectionService) apply(ctx context.Context, tx repository.Store, order *models.PurchaseOrder, in ReceiptInput) (*ReceiptResult, error) {
	if in.Quantity <= 0 {
		return nil, invalid("quantity", "must_be_positive")
	}
	if in.Quantity > models.MaxQuantity {
		return nil, invalid("quantity", "too_large")
	}
	if !in.CollectionStatus.Valid() || in.CollectionStatus == models.CollectionNone {
		return nil, invalid("collection_status", "invalid_choice")
	}
	if !order.CanReceive() {
		return nil, ruleFromModel(models.ErrReceiptNotAllowed, "quantity")
	}

	contract, err := matchingContract(ctx, tx, order.Item)
	if err != nil {
		return nil, err
	}
	if err := order.ApplyReceipt(in.Quantity, in.CollectionStatus); err != nil {
		return nil, ruleFromModel(err, "quantity")
	}
	if err := tx.Orders().Save(ctx, order); err != nil {
		return nil, err
	}
	contract.Debit(in.Quantity)
	if err := tx.Contracts().SaveBalance(ctx, contract); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"contract_id": contract.ID,
		"item":        order.Item,
		"increment":   in.Quantity,
		"stage":       in.CollectionStatus,
		"status":      order.Status,
	}).Info("receipt registered")
	return &ReceiptResult{Order: order, Contract: contract}, nil
}
