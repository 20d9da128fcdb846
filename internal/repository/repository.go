// Package repository persists the supply ledger through gorm.
package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Store groups the repositories and opens transaction scopes. Every
// repository returned from a Store handed to a Transaction callback writes
// inside that transaction.
type Store interface {
	Items() *ItemRepository
	Contracts() *ContractRepository
	Orders() *OrderRepository
	Comments() *CommentRepository
	Imports() *StockImportRepository

	// Transaction runs fn in one database transaction. The transaction is
	// rolled back when fn returns an error or panics.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// GormStore is the gorm-backed Store.
type GormStore struct {
	db *gorm.DB

	items     *ItemRepository
	contracts *ContractRepository
	orders    *OrderRepository
	comments  *CommentRepository
	imports   *StockImportRepository
}

// NewStore creates a Store on top of db.
func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:        db,
		items:     NewItemRepository(db),
		contracts: NewContractRepository(db),
		orders:    NewOrderRepository(db),
		comments:  NewCommentRepository(db),
		imports:   NewStockImportRepository(db),
	}
}

func (s *GormStore) DB() *gorm.DB { return s.db }
func (s *GormStore) Items() *ItemRepository { return s.items }
func (s *GormStore) Contracts() *ContractRepository { return s.contracts }
func (s *GormStore) Orders() *OrderRepository { return s.orders }
func (s *GormStore) Comments() *CommentRepository { return s.comments }
func (s *GormStore) Imports() *StockImportRepository { return s.imports }

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// notFound maps gorm's missing-row error onto ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// like builds a case-insensitive substring pattern for LOWER(col) LIKE ?.
func like(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}
