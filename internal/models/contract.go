package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Contract grants the supply office a finite balance of one item.
type Contract struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProcessNumber string   `gorm:"size:100;not null;index" json:"process_number"`
	CompanyName   string   `gorm:"size:255;not null" json:"company_name"`
	CompanyInfo   string   `gorm:"type:text" json:"company_info,omitempty"`
	Category      Category `gorm:"size:20;not null" json:"category"`
	Item          string   `gorm:"size:255;not null;index" json:"item"`

	// InitialBalance is written once at creation and is the denominator of
	// the consumption percentage.
	InitialBalance int64 `gorm:"not null" json:"initial_balance"`
	CurrentBalance int64 `gorm:"not null" json:"current_balance"`

	ExpiresOn time.Time       `gorm:"not null" json:"expires_on"`
	Status    SignatureStatus `gorm:"size:20;not null;index" json:"status"`

	StockUpdatedAt *time.Time          `json:"stock_updated_at,omitempty"`
	AvailableStock decimal.Decimal     `gorm:"type:decimal(20,4);not null;default:0" json:"available_stock"`
	ManualStock    decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"manual_stock"`

	Comments []Comment `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsSigned returns true when purchase orders may be drawn against the contract.
func (c *Contract) IsSigned() bool {
	return c.Status == SignatureSigned
}

// Debit removes qty from the current balance, never going below zero.
func (c *Contract) Debit(qty int64) {
	c.CurrentBalance -= qty
	if c.CurrentBalance < 0 {
		c.CurrentBalance = 0
	}
}

// Credit returns qty to the current balance.
func (c *Contract) Credit(qty int64) {
	c.CurrentBalance += qty
}

// DisplayedStock is the manual override when set, the imported stock otherwise.
func (c *Contract) DisplayedStock() decimal.Decimal {
	if c.ManualStock.Valid {
		return c.ManualStock.Decimal
	}
	return c.AvailableStock
}

// ExpiresWithin reports whether the contract expires at most days days after
// today. Already expired contracts are included.
func (c *Contract) ExpiresWithin(today time.Time, days int) bool {
	return DaysBetween(today, c.ExpiresOn) <= days
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	a = DateOnly(a)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, a.Location())
	return int(math.Round(b.Sub(a).Hours() / 24))
}
