package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-supplies/internal/db"
	"github.com/diewo77/go-supplies/internal/models"
	"github.com/diewo77/go-supplies/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixedNow is the clock used by every test.
var fixedNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

type fixture struct {
	db    *gorm.DB
	store *repository.GormStore
	svc   *Services
	ctx   context.Context
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	conn := setupTestDB(t)
	store := repository.NewStore(conn)
	svc := New(store, opts, nil)
	clock := func() time.Time { return fixedNow }
	svc.Contracts.now = clock
	svc.Dashboard.now = clock
	svc.Stock.now = clock
	return &fixture{db: conn, store: store, svc: svc, ctx: context.Background()}
}

func (f *fixture) item(t *testing.T, name string, cat models.Category, cmm int64) {
	t.Helper()
	_, err := f.svc.Catalog.Create(f.ctx, ItemInput{Name: name, Region: "RJ", Category: cat, CMM: decimal.NewFromInt(cmm)})
	require.NoError(t, err)
}

func (f *fixture) contract(t *testing.T, item string, balance int64, status models.SignatureStatus) *models.Contract {
	t.Helper()
	c, err := f.svc.Contracts.Create(f.ctx, contractInput(item, balance, status))
	require.NoError(t, err)
	return c
}

func (f *fixture) order(t *testing.T, number, item string, qty int64) *models.PurchaseOrder {
	t.Helper()
	res, err := f.svc.Orders.Create(f.ctx, OrderInput{Number: number, Item: item, OrderedQty: qty, AcceptedOn: fixedNow})
	require.NoError(t, err)
	return res.Order
}

func (f *fixture) reloadContract(t *testing.T, id uint) *models.Contract {
	t.Helper()
	c, err := f.store.Contracts().FindByID(f.ctx, id)
	require.NoError(t, err)
	return c
}

func (f *fixture) reloadOrder(t *testing.T, id uint) *models.PurchaseOrder {
	t.Helper()
	o, err := f.store.Orders().FindByID(f.ctx, id)
	require.NoError(t, err)
	return o
}

func (f *fixture) countOrders(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.PurchaseOrder{}).Count(&n).Error)
	return n
}

func contractInput(item string, balance int64, status models.SignatureStatus) ContractInput {
	return ContractInput{
		ProcessNumber:    "62000.001/2026",
		CompanyName:      "Frigorífico Acme",
		Category:         models.CategoryRefrigerated,
		Item:             item,
		RequestedBalance: balance,
		ExpiresOn:        fixedNow.AddDate(1, 0, 0),
		Status:           status,
	}
}

// failOn makes every write of the given kind on table fail.
func failOn(t *testing.T, conn *gorm.DB, kind, table string) {
	t.Helper()
	fail := func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			tx.AddError(fmt.Errorf("injected failure on %s", table))
		}
	}
	var err error
	switch kind {
	case "update":
		err = conn.Callback().Update().Before("gorm:update").Register("test:fail_"+table, fail)
	case "create":
		err = conn.Callback().Create().Before("gorm:create").Register("test:fail_"+table, fail)
	}
	require.NoError(t, err)
}

func requireRule(t *testing.T, err error, code string) {
	t.Helper()
	require.ErrorIs(t, err, ErrBusinessRule)
	var re *RuleError
	require.ErrorAs(t, err, &re)
	require.Equal(t, code, re.Code)
}

func requireViolation(t *testing.T, err error, field, code string) {
	t.Helper()
	require.ErrorIs(t, err, ErrValidation)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, code, ve.Violations[field], "violations: %v", ve.Violations)
}
