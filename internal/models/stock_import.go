package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StockImport records one applied stock snapshot.
type StockImport struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BatchID    string    `gorm:"size:36;uniqueIndex;not null" json:"batch_id"`
	Source     string    `gorm:"size:500" json:"source"`
	Rows       int       `gorm:"not null" json:"rows"`
	Items      int       `gorm:"not null" json:"items"`
	Matched    int       `gorm:"not null" json:"matched"`
	ImportedAt time.Time `gorm:"not null;index" json:"imported_at"`
}

// StockRow is one line of a stock snapshot: available quantity per item.
type StockRow struct {
	Item     string          `json:"item"`
	Quantity decimal.Decimal `json:"quantity"`
}

// GroupStockRows trims item names, drops blank ones and sums the quantities
// of duplicates. The result keeps first-seen order.
func GroupStockRows(rows []StockRow) []StockRow {
	index := make(map[string]int, len(rows))
	var out []StockRow
	for _, r := range rows {
		name := strings.TrimSpace(r.Item)
		if name == "" {
			continue
		}
		if i, ok := index[name]; ok {
			out[i].Quantity = out[i].Quantity.Add(r.Quantity)
			continue
		}
		index[name] = len(out)
		out = append(out, StockRow{Item: name, Quantity: r.Quantity})
	}
	return out
}
