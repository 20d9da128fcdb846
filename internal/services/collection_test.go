package services

import (
	"math"
	"testing"

	"github.com/diewo77/go-supplies/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterReceiptOvershootByStage(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.item(t, "Beef", models.CategoryRefrigerated, 0)
	c := f.contract(t, "Beef", 1000, models.SignatureSigned)
	po := f.order(t, "OC-1", "Beef", 400)

	_, err := f.svc.Collection.RegisterReceipt(f.ctx, po.ID, ReceiptInput{Quantity: 300, CollectionStatus: models.CollectionCounting})
	require.NoError(t, err)

	_, err = f.svc.Collection.RegisterReceipt(f.ctx, po.ID, ReceiptInput{Quantity: 200, CollectionStatus: models.CollectionCounting})
	requireRule(t, err, RuleReceiptOvershoot)
	stored := f.reloadOrder(t, po.ID)
	assert.Equal(t, int64(300), stored.ReceivedQty)
	assert.Equal(t, models.OrderPartiallyReceived, stored.Status)
	assert.Equal(t, int64(700), f.reloadContract(t, c.ID).CurrentBalance)

	res, err := f.svc.Collection.RegisterReceipt(f.ctx, po.ID, ReceiptInput{Quantity: 200, CollectionStatus: models.CollectionInspection})
	require.NoError(t, err)
	assert.Equal(t, int64(400), res.Order.ReceivedQty, "clamped to ordered")
	assert.Equal(t, int64(0), res.Order.PendingQty)
	assert.Equal(t, models.OrderAvailable, res.Order.Status)
	assert.Equal(t, models.CollectionInspection, res.Order.CollectionStatus)
	// the full increment is debited even when the quantity was clamped
	assert.Equal(t, int64(500), f.reloadContract(t, c.ID).CurrentBalance)

	_, err = f.svc.Collection.RegisterReceipt(f.ctx, po.ID, ReceiptInput{Quantity: 1, CollectionStatus: models.CollectionCounting})
	requireRule(t, err, RuleReceiptNotAllowed)
}

func TestRegisterReceiptClampsBalanceAtZero(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.item(t, "Beef", models.CategoryRefrigerated, 0)
	c := f.contract(t, "Beef", 100, models.SignatureSigned)
	po := f.order(t, "OC-1", "Beef", 100)

	_, err := f.svc.Collection.RegisterReceipt(f.ctx, po.ID, ReceiptInput{Quantity: 150, CollectionStatus: models.CollectionAvailable})
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.reloadContract(t, c.ID).CurrentBalance)
}

func TestRegisterReceiptValidation(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.item(t, "Beef", models.CategoryRefrigerated, 0)
	f.contract(t, "Beef", 1000, models.SignatureSigned)
	po := f.order(t, "OC-1", "Beef", 400)

	_, err := f.svc.Collection.RegisterReceipt(f.ctx, po.ID, ReceiptInput{Quantity: 0, CollectionStatus: models.CollectionCounting})
	requireViolation(t, err, "quantity", "must_be_positive")

	_, err = f.svc.Collection.RegisterReceipt(f.ctx, po.ID, ReceiptInput{Quantity: 5, CollectionStatus: models.CollectionNone})
	requireViolation(t, err, "collection_status", "invalid_choice")

	_, err = f.svc.Collection.RegisterReceipt(f.ctx, 999, ReceiptInput{Quantity: 5, CollectionStatus: models.CollectionCounting})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterReceiptHugeQuantity(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.item(t, "Beef", models.CategoryRefrigerated, 0)
	c := f.contract(t, "Beef", 1000, models.SignatureSigned)
	po := f.order(t, "OC-1", "Beef", 400)
	_, err := f.svc.Collection.RegisterReceipt(f.ctx, po.ID, ReceiptInput{Quantity: 100, CollectionStatus: models.CollectionCounting})
	require.NoError(t, err)

	_, err = f.svc.Collection.RegisterReceipt(f.ctx, po.ID, ReceiptInput{Quantity: math.MaxInt64, CollectionStatus: models.CollectionCounting})
	requireViolation(t, err, "quantity", "too_large")

	_, err = f.svc.Collection.RegisterReceipt(f.ctx, po.ID, ReceiptInput{Quantity: models.MaxQuantity, CollectionStatus: models.CollectionCounting})
	requireRule(t, err, RuleReceiptOvershoot)

	stored := f.reloadOrder(t, po.ID)
	assert.Equal(t, int64(100), stored.ReceivedQty)
	assert.Equal(t, int64(300), stored.PendingQty)
	assert.Equal(t, models.OrderPartiallyReceived, stored.Status)
	assert.Equal(t, int64(900), f.reloadContract(t, c.ID).CurrentBalance)
}

func TestRegisterReceiptAwaitingContract(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.item(t, "Beef", models.CategoryRefrigerated, 0)
	f.contract(t, "Beef", 1000, models.SignatureSigned)
	res, err := f.svc.Orders.Create(f.ctx, OrderInput{Number: "OC-1", Item: "Beef", OrderedQty: 10, Status: models.OrderAwaitingContract})
	require.NoError(t, err)

	_, err = f.svc.Collection.RegisterReceipt(f.ctx, res.Order.ID, ReceiptInput{Quantity: 5, CollectionStatus: models.CollectionCounting})
	requireRule(t, err, RuleReceiptNotAllowed)
}

func TestRegisterReceiptWithoutContractWritesNothing(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.item(t, "Beef", models.CategoryRefrigerated, 0)
	c := f.contract(t, "Beef", 1000, models.SignatureSigned)
	po := f.order(t, "OC-1", "Beef", 400)
	require.NoError(t, f.svc.Contracts.Delete(f.ctx, c.ID))

	_, err := f.svc.Collection.RegisterReceipt(f.ctx, po.ID, ReceiptInput{Quantity: 100, CollectionStatus: models.CollectionCounting})
	assert.ErrorIs(t, err, ErrNotFound)
	stored := f.reloadOrder(t, po.ID)
	assert.Equal(t, int64(0), stored.ReceivedQty)
	assert.Equal(t, models.OrderInTransit, stored.Status)
}

func TestRegisterReceiptRollsBackOrderWhenContractWriteFails(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	f.item(t, "Beef", models.CategoryRefrigerated, 0)
	c := f.contract(t, "Beef", 1000, models.SignatureSigned)
	po := f.order(t, "OC-1", "Beef", 400)
	failOn(t, f.db, "update", "contracts")

	_, err := f.svc.Collection.RegisterReceipt(f.ctx, po.ID, ReceiptInput{Quantity: 100, CollectionStatus: models.CollectionCounting})
	require.Error(t, err)

	stored := f.reloadOrder(t, po.ID)
	assert.Equal(t, int64(0), stored.ReceivedQty)
	assert.Equal(t, int64(400), stored.PendingQty)
	assert.Equal(t, models.OrderInTransit, stored.Status)
	assert.Equal(t, int64(1000), f.reloadContract(t, c.ID).CurrentBalance)
}
