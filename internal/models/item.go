package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a catalog entry. Contracts and purchase orders reference it by name.
type Item struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name     string   `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Region   string   `gorm:"size:10" json:"region,omitempty"`
	Category Category `gorm:"size:20;not null;index" json:"category"`

	// CMM is the monthly average consumption.
	CMM decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"cmm"`
}
