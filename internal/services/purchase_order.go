package services

import (
	"context"
	"strings"
	"time"

	"github.com/diewo77/go-supplies/internal/models"
	"github.com/diewo77/go-supplies/internal/repository"
	"github.com/diewo77/go-supplies/internal/validation"
	"github.com/sirupsen/logrus"
)

// OrderInput carries the purchase order fields an operator enters. Receipt
// is only used when Status says the goods have already arrived.
type OrderInput struct {
	Number     string             `json:"number" validate:"required,max=100"`
	Item       string             `json:"item"`
	OrderedQty int64              `json:"ordered_qty" validate:"gt=0"`
	AcceptedOn time.Time          `json:"accepted_on"`
	Vendor     string             `json:"vendor" validate:"max=255"`
	Status     models.OrderStatus `json:"status"`
	Receipt    *ReceiptInput      `json:"receipt,omitempty"`
}

func (in *OrderInput) normalize() {
	in.Number = strings.TrimSpace(in.Number)
	in.Item = strings.TrimSpace(in.Item)
	in.Vendor = strings.TrimSpace(in.Vendor)
}

// OrderResult is returned by Create and Update. ReceiptRequired is set when
// the chosen status announces a receipt that was not supplied; the order
// then keeps a status that still accepts receipts.
type OrderResult struct {
	Order           *models.PurchaseOrder `json:"order"`
	Contract        *models.Contract      `json:"contract,omitempty"`
	ReceiptRequired bool                  `json:"receipt_required"`
}

// DeleteResult reports the refund made when an order was deleted.
type DeleteResult struct {
	OrderID    uint  `json:"order_id"`
	ContractID uint  `json:"contract_id,omitempty"`
	Refunded   int64 `json:"refunded"`
}

type PurchaseOrderService struct {
	store      repository.Store
	collection *CollectionService
	refund     RefundBasis
	log        logrus.FieldLogger
}

func NewPurchaseOrderService(store repository.Store, collection *CollectionService, refund RefundBasis, log logrus.FieldLogger) *PurchaseOrderService {
	if refund == "" {
		refund = RefundOrdered
	}
	return &PurchaseOrderService{store: store, collection: collection, refund: refund, log: orDiscard(log)}
}

func validateOrder(in OrderInput, v validation.Violations) {
	validation.Struct(in, v)
	validation.AtMost("ordered_qty", in.OrderedQty, models.MaxQuantity, v)
	if in.Status != "" && (!in.Status.Valid() || in.Status == models.OrderAvailable) {
		v["status"] = "invalid_choice"
	}
}

// Create issues an order against the single SIGNED contract for the item.
// It fails when the pending quantity of the item, this order included,
// would exceed the contract's current balance.
func (s *PurchaseOrderService) Create(ctx context.Context, in OrderInput) (*OrderResult, error) {
	in.normalize()
	v := make(validation.Violations)
	validation.Required("item", in.Item, v)
	validateOrder(in, v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	status := in.Status
	if status == "" || status.IndicatesReceipt() {
		status = models.OrderInTransit
	}
	res := &OrderResult{}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		contract, err := signedContract(ctx, tx, in.Item)
		if err != nil {
			return err
		}
		pending, err := tx.Orders().PendingTotal(ctx, in.Item)
		if err != nil {
			return err
		}
		if in.OrderedQty > contract.CurrentBalance-pending {
			return ruleErr(RuleBalanceExceeded,
				"pending %d + ordered %d exceeds the contract balance of %d", pending, in.OrderedQty, contract.CurrentBalance)
		}

		order := &models.PurchaseOrder{
			Number:     in.Number,
			AcceptedOn: in.AcceptedOn,
			Vendor:     in.Vendor,
			Item:       in.Item,
			OrderedQty: in.OrderedQty,
			Status:     status,
		}
		order.CollectionStatus = models.CollectionNone
		order.Recompute()
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		res.Order, res.Contract = order, contract
		return s.followUp(ctx, tx, in, res)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"order_id": res.Order.ID, "item": res.Order.Item, "qty": res.Order.OrderedQty}).Info("purchase order created")
	return res, nil
}

// followUp registers the receipt announced by the input status.
func (s *PurchaseOrderService) followUp(ctx context.Context, tx repository.Store, in OrderInput, res *OrderResult) error {
	if !in.Status.IndicatesReceipt() {
		return nil
	}
	if in.Receipt == nil {
		res.ReceiptRequired = true
		return nil
	}
	rr, err := s.collection.apply(ctx, tx, res.Order, *in.Receipt)
	if err != nil {
		return err
	}
	res.Order, res.Contract = rr.Order, rr.Contract
	return nil
}

// Update edits an order. The item cannot change. Growing the ordered
// quantity re-checks the contract balance.
func (s *PurchaseOrderService) Update(ctx context.Context, id uint, in OrderInput) (*OrderResult, error) {
	in.normalize()
	v := make(validation.Violations)
	validateOrder(in, v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	res := &OrderResult{}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().FindByID(ctx, id)
		if err != nil {
			return lookupErr(err, "purchase order", id)
		}
		if in.Item != "" && in.Item != order.Item {
			return invalid("item", "not_editable")
		}

		prevPending, counted := order.PendingQty, order.CountsAsPending()
		if err := order.Resize(in.OrderedQty); err != nil {
			return ruleFromModel(err, "ordered_qty")
		}
		if in.Status != "" && !in.Status.IndicatesReceipt() {
			order.Status = in.Status
		}
		settleStatus(order)

		if order.CountsAsPending() && order.PendingQty > prevPending {
			if err := s.checkGrowth(ctx, tx, order, prevPending, counted); err != nil {
				return err
			}
		}

		order.Number = in.Number
		order.AcceptedOn = in.AcceptedOn
		order.Vendor = in.Vendor
		if err := tx.Orders().Save(ctx, order); err != nil {
			return err
		}
		res.Order = order
		in.Item = order.Item
		return s.followUp(ctx, tx, in, res)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"order_id": id, "qty": res.Order.OrderedQty}).Info("purchase order updated")
	return res, nil
}

// settleStatus keeps the received states consistent with the quantities
// after a resize.
func settleStatus(o *models.PurchaseOrder) {
	switch {
	case o.Status == models.OrderReceived && o.PendingQty > 0:
		o.Status = models.OrderPartiallyReceived
	case o.Status == models.OrderPartiallyReceived && o.PendingQty == 0:
		o.Status = models.OrderReceived
	}
}

func (s *PurchaseOrderService) checkGrowth(ctx context.Context, tx repository.Store, order *models.PurchaseOrder, prevPending int64, counted bool) error {
	contract, err := signedContract(ctx, tx, order.Item)
	if err != nil {
		return err
	}
	pending, err := tx.Orders().PendingTotal(ctx, order.Item)
	if err != nil {
		return err
	}
	if counted {
		pending -= prevPending
	}
	if order.PendingQty > contract.CurrentBalance-pending {
		return ruleErr(RuleBalanceExceeded,
			"pending %d + %d exceeds the contract balance of %d", pending, order.PendingQty, contract.CurrentBalance)
	}
	return nil
}

// Delete refunds the order into its contract and removes it in one
// transaction. Without any contract for the item the order is removed
// without a refund.
func (s *PurchaseOrderService) Delete(ctx context.Context, id uint) (*DeleteResult, error) {
	res := &DeleteResult{OrderID: id}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().FindByID(ctx, id)
		if err != nil {
			return lookupErr(err, "purchase order", id)
		}
		contract, err := matchingContract(ctx, tx, order.Item)
		switch {
		case err == nil:
			res.Refunded = order.OrderedQty
			if s.refund == RefundReceived {
				res.Refunded = order.ReceivedQty
			}
			contract.Credit(res.Refunded)
			if err := tx.Contracts().SaveBalance(ctx, contract); err != nil {
				return err
			}
			res.ContractID = contract.ID
		case isNotFound(err):
			s.log.WithFields(logrus.Fields{"order_id": id, "item": order.Item}).Warn("no contract to refund, deleting order only")
		default:
			return err
		}
		return tx.Orders().Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"order_id": id, "contract_id": res.ContractID, "refunded": res.Refunded}).Info("purchase order deleted")
	return res, nil
}

func (s *PurchaseOrderService) Get(ctx context.Context, id uint) (*models.PurchaseOrder, error) {
	o, err := s.store.Orders().FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "purchase order", id)
	}
	return o, nil
}

func (s *PurchaseOrderService) List(ctx context.Context, q repository.OrderQuery) ([]models.PurchaseOrder, error) {
	return s.store.Orders().List(ctx, q)
}

func (s *PurchaseOrderService) ListByItem(ctx context.Context, item string) ([]models.PurchaseOrder, error) {
	return s.store.Orders().List(ctx, repository.OrderQuery{Item: strings.TrimSpace(item)})
}

// ListByContract lists the orders drawn on the contract's item.
func (s *PurchaseOrderService) ListByContract(ctx context.Context, contractID uint) ([]models.PurchaseOrder, error) {
	c, err := s.store.Contracts().FindByID(ctx, contractID)
	if err != nil {
		return nil, lookupErr(err, "contract", contractID)
	}
	return s.ListByItem(ctx, c.Item)
}
