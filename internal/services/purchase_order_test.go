package services

import (
	"errors"
	"math"
	"testing"

	"github.com/diewo77/go-supplies/internal/models"
	"github.com/diewo77/go-supplies/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBeefScenario(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.item(t, "Beef", models.CategoryRefrigerated, 300)
	c := f.contract(t, "Beef", 1000, models.SignatureSigned)

	po1 := f.order(t, "OC-1", "Beef", 400)
	assert.Equal(t, int64(0), po1.ReceivedQty)
	assert.Equal(t, int64(400), po1.PendingQty)
	assert.Equal(t, models.OrderInTransit, po1.Status)
	assert.Equal(t, int64(1000), f.reloadContract(t, c.ID).CurrentBalance, "ordering does not debit")

	rr, err := f.svc.Collection.RegisterReceipt(f.ctx, po1.ID, ReceiptInput{Quantity: 400, CollectionStatus: models.CollectionWarehousing})
	require.NoError(t, err)
	assert.Equal(t, int64(400), rr.Order.ReceivedQty)
	assert.Equal(t, int64(0), rr.Order.PendingQty)
	assert.Equal(t, models.OrderReceived, rr.Order.Status)
	assert.Equal(t, int64(600), f.reloadContract(t, c.ID).CurrentBalance)

	_, err = f.svc.Orders.Create(f.ctx, OrderInput{Number: "OC-2", Item: "Beef", OrderedQty: 700})
	requireRule(t, err, RuleBalanceExceeded)
	assert.Equal(t, int64(1), f.countOrders(t))
	assert.Equal(t, int64(600), f.reloadContract(t, c.ID).CurrentBalance)

	del, err := f.svc.Orders.Delete(f.ctx, po1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(400), del.Refunded, "refund uses the ordered quantity")
	assert.Equal(t, c.ID, del.ContractID)
	after := f.reloadContract(t, c.ID)
	assert.Equal(t, int64(1000), after.CurrentBalance)
	assert.Equal(t, int64(1000), after.InitialBalance)
	assert.Equal(t, int64(0), f.countOrders(t))
}

func TestCreateOrderPendingIncludesExistingOrders(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.item(t, "Beef", models.CategoryRefrigerated, 0)
	f.contract(t, "Beef", 1000, models.SignatureSigned)

	f.order(t, "OC-1", "Beef", 600)
	f.order(t, "OC-2", "Beef", 400)
	_, err := f.svc.Orders.Create(f.ctx, OrderInput{Number: "OC-3", Item: "Beef", OrderedQty: 1})
	requireRule(t, err, RuleBalanceExceeded)
}

func TestCreateOrderHugeQuantityCannotWrapBalance(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.item(t, "Beef", models.CategoryRefrigerated, 0)
	f.contract(t, "Beef", 1000, models.SignatureSigned)
	po := f.order(t, "OC-1", "Beef", 500)

	_, err := f.svc.Orders.Create(f.ctx, OrderInput{Number: "OC-2", Item: "Beef", OrderedQty: math.MaxInt64 - 100})
	requireViolation(t, err, "ordered_qty", "too_large")

	_, err = f.svc.Orders.Create(f.ctx, OrderInput{Number: "OC-2", Item: "Beef", OrderedQty: models.MaxQuantity})
	requireRule(t, err, RuleBalanceExceeded)

	_, err = f.svc.Orders.Update(f.ctx, po.ID, OrderInput{Number: "OC-1", OrderedQty: math.MaxInt64})
	requireViolation(t, err, "ordered_qty", "too_large")

	_, err = f.svc.Orders.Update(f.ctx, po.ID, OrderInput{Number: "OC-1", OrderedQty: models.MaxQuantity})
	requireRule(t, err, RuleBalanceExceeded)

	pending, err := f.store.Orders().PendingTotal(f.ctx, "Beef")
	require.NoError(t, err)
	assert.Equal(t, int64(500), pending)
	assert.Equal(t, int64(1), f.countOrders(t))
}

func TestCreateOrderRequiresSingleSignedContract(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.item(t, "Beef", models.CategoryRefrigerated, 0)
	f.item(t, "Rice", models.CategoryDry, 0)

	_, err := f.svc.Orders.Create(f.ctx, OrderInput{Number: "OC-1", Item: "Beef", OrderedQty: 1})
	assert.ErrorIs(t, err, ErrNotFound, "no contract")

	f.contract(t, "Beef", 100, models.SignatureVendor)
	_, err = f.svc.Orders.Create(f.ctx, OrderInput{Number: "OC-1", Item: "Beef", OrderedQty: 1})
	assert.ErrorIs(t, err, ErrNotFound, "unsigned contract")

	f.contract(t, "Rice", 100, models.SignatureSigned)
	f.contract(t, "Rice", 100, models.SignatureSigned)
	_, err = f.svc.Orders.Create(f.ctx, OrderInput{Number: "OC-2", Item: "Rice", OrderedQty: 1})
	assert.ErrorIs(t, err, ErrNotFound, "ambiguous signed contracts")
	assert.Equal(t, int64(0), f.countOrders(t))
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t, DefaultOptions())

	_, err := f.svc.Orders.Create(f.ctx, OrderInput{Item: "Beef", OrderedQty: 0})
	requireViolation(t, err, "ordered_qty", "must_be_positive")
	requireViolation(t, err, "number", "required")

	_, err = f.svc.Orders.Create(f.ctx, OrderInput{Number: "OC-1", OrderedQty: 5})
	requireViolation(t, err, "item", "required")

	_, err = f.svc.Orders.Create(f.ctx, OrderInput{Number: "OC-1", Item: "Beef", OrderedQty: 5, Status: models.OrderAvailable})
	requireViolation(t, err, "status", "invalid_choice")
}

func TestCreateOrderWithInitialReceipt(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.item(t, "Beef", models.CategoryRefrigerated, 0)
	c := f.contract(t, "Beef", 1000, models.SignatureSigned)

	res, err := f.svc.Orders.Create(f.ctx, OrderInput{
		Number: "OC-1", Item: "Beef", OrderedQty: 400, Status: models.OrderPartiallyReceived,
		Receipt: &ReceiptInput{Quantity: 100, CollectionStatus: models.CollectionCounting},
	})
	require.NoError(t, err)
	assert.False(t, res.ReceiptRequired)
	assert.Equal(t, models.OrderPartiallyReceived, res.Order.Status)
	assert.Equal(t, int64(300), res.Order.PendingQty)
	assert.Equal(t, int64(900), res.Contract.CurrentBalance)

	stored := f.reloadOrder(t, res.Order.ID)
	assert.Equal(t, int64(100), stored.ReceivedQty)
	assert.Equal(t, models.CollectionCounting, stored.CollectionStatus)
	assert.Equal(t, int64(900), f.reloadContract(t, c.ID).CurrentBalance)
}

func TestCreateOrderReceiptRequired(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.item(t, "Beef", models.CategoryRefrigerated, 0)
	f.contract(t, "Beef", 1000, models.SignatureSigned)

	res, err := f.svc.Orders.Create(f.ctx, OrderInput{Number: "OC-1", Item: "Beef", OrderedQty: 400, Status: models.OrderReceived})
	require.NoError(t, err)
	assert.True(t, res.ReceiptRequired)
	assert.Equal(t, models.OrderInTransit, res.Order.Status)
	assert.Equal(t, int64(400), res.Order.PendingQty)
}

func TestCreateOrderRollsBackWhenInitialReceiptFails(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.item(t, "Beef", models.CategoryRefrigerated, 0)
	c := f.contract(t, "Beef", 1000, models.SignatureSigned)

	_, err := f.svc.Orders.Create(f.ctx, OrderInput{
		Number: "OC-1", Item: "Beef", OrderedQty: 400, Status: models.OrderReceived,
		Receipt: &ReceiptInput{Quantity: 500, CollectionStatus: models.CollectionWarehousing},
	})
	requireRule(t, err, RuleReceiptOvershoot)
	assert.Equal(t, int64(0), f.countOrders(t))
	assert.Equal(t, int64(1000), f.reloadContract(t, c.ID).CurrentBalance)
}

func TestUpdateOrder(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.item(t, "Beef", models.CategoryRefrigerated, 0)
	f.contract(t, "Beef", 1000, models.SignatureSigned)
	po := f.order(t, "OC-1", "Beef", 400)
	_, err := f.svc.Collection.RegisterReceipt(f.ctx, po.ID, ReceiptInput{Quantity: 150, CollectionStatus: models.CollectionCounting})
	require.NoError(t, err)

	t.Run("below received", func(t *testing.T) {
		_, err := f.svc.Orders.Update(f.ctx, po.ID, OrderInput{Number: "OC-1", OrderedQty: 100})
		requireRule(t, err, RuleBelowReceived)
		assert.Equal(t, int64(400), f.reloadOrder(t, po.ID).OrderedQty)
	})

	t.Run("item not editable", func(t *testing.T) {
		_, err := f.svc.Orders.Update(f.ctx, po.ID, OrderInput{Number: "OC-1", Item: "Rice", OrderedQty: 400})
		requireViolation(t, err, "item", "not_editable")
	})

	t.Run("growth over balance", func(t *testing.T) {
		// balance is 850 after the receipt; 1001 ordered leaves 851 pending
		_, err := f.svc.Orders.Update(f.ctx, po.ID, OrderInput{Number: "OC-1", OrderedQty: 1001})
		requireRule(t, err, RuleBalanceExceeded)
	})

	t.Run("shrink to received settles status", func(t *testing.T) {
		res, err := f.svc.Orders.Update(f.ctx, po.ID, OrderInput{Number: "OC-1b", Vendor: "Acme", OrderedQty: 150})
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.Order.PendingQty)
		assert.Equal(t, models.OrderReceived, res.Order.Status)
		stored := f.reloadOrder(t, po.ID)
		assert.Equal(t, "OC-1b", stored.Number)
		assert.Equal(t, "Acme", stored.Vendor)
		assert.Equal(t, "Beef", stored.Item)
	})

	t.Run("grow received order", func(t *testing.T) {
		res, err := f.svc.Orders.Update(f.ctx, po.ID, OrderInput{Number: "OC-1b", OrderedQty: 300})
		require.NoError(t, err)
		assert.Equal(t, int64(150), res.Order.PendingQty)
		assert.Equal(t, models.OrderPartiallyReceived, res.Order.Status)
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := f.svc.Orders.Update(f.ctx, 999, OrderInput{Number: "x", OrderedQty: 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteOrderRefundBasis(t *testing.T) {
	tests := []struct {
		basis RefundBasis
		want  int64
	}{
		{RefundOrdered, 400},
		{RefundReceived, 150},
	}
	for _, tt := range tests {
		t.Run(string(tt.basis), func(t *testing.T) {
			f := newFixture(t, Options{RefundBasis: tt.basis})
			f.item(t, "Beef", models.CategoryRefrigerated, 0)
			c := f.contract(t, "Beef", 1000, models.SignatureSigned)
			po := f.order(t, "OC-1", "Beef", 400)
			_, err := f.svc.Collection.RegisterReceipt(f.ctx, po.ID, ReceiptInput{Quantity: 150, CollectionStatus: models.CollectionCounting})
			require.NoError(t, err)
			require.Equal(t, int64(850), f.reloadContract(t, c.ID).CurrentBalance)

			res, err := f.svc.Orders.Delete(f.ctx, po.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Refunded)
			assert.Equal(t, 850+tt.want, f.reloadContract(t, c.ID).CurrentBalance)
		})
	}
}

func TestDeleteOrderWithoutContract(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.item(t, "Beef", models.CategoryRefrigerated, 0)
	c := f.contract(t, "Beef", 1000, models.SignatureSigned)
	po := f.order(t, "OC-1", "Beef", 400)
	require.NoError(t, f.svc.Contracts.Delete(f.ctx, c.ID))

	res, err := f.svc.Orders.Delete(f.ctx, po.ID)
	require.NoError(t, err)
	assert.Zero(t, res.Refunded)
	assert.Zero(t, res.ContractID)
	assert.Equal(t, int64(0), f.countOrders(t))

	_, err = f.svc.Orders.Delete(f.ctx, po.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteOrderRollsBackRefund(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.item(t, "Beef", models.CategoryRefrigerated, 0)
	c := f.contract(t, "Beef", 1000, models.SignatureSigned)
	po := f.order(t, "OC-1", "Beef", 400)

	err := f.db.Callback().Delete().Before("gorm:delete").Register("test:fail_orders", func(tx *gorm.DB) {
		if tx.Statement.Table == "purchase_orders" {
			tx.AddError(errors.New("injected failure"))
		}
	})
	require.NoError(t, err)

	_, err = f.svc.Orders.Delete(f.ctx, po.ID)
	require.Error(t, err)
	assert.Equal(t, int64(1000), f.reloadContract(t, c.ID).CurrentBalance)
	assert.Equal(t, int64(1), f.countOrders(t))
}

func TestListOrders(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.item(t, "Beef", models.CategoryRefrigerated, 0)
	f.item(t, "Rice", models.CategoryDry, 0)
	c := f.contract(t, "Beef", 1000, models.SignatureSigned)
	f.contract(t, "Rice", 1000, models.SignatureSigned)
	f.order(t, "OC-1", "Beef", 10)
	f.order(t, "OC-2", "Rice", 10)
	f.order(t, "OC-3", "Beef", 10)

	byItem, err := f.svc.Orders.ListByItem(f.ctx, "Beef")
	require.NoError(t, err)
	assert.Len(t, byItem, 2)

	byContract, err := f.svc.Orders.ListByContract(f.ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, byContract, 2)
	assert.Equal(t, "OC-3", byContract[0].Number, "newest first")

	found, err := f.svc.Orders.List(f.ctx, repository.OrderQuery{Search: "oc-2"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Rice", found[0].Item)

	_, err = f.svc.Orders.ListByContract(f.ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}
