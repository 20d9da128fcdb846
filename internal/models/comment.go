package models

import "time"

// Comment is a free-text annotation on a contract.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ContractID uint   `gorm:"index;not null" json:"contract_id"`
	Text       string `gorm:"type:text;not null" json:"text"`
}
