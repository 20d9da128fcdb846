package spreadsheet

import (
	"fmt"
	"io"

	"github.com/diewo77/go-supplies/internal/models"
	"github.com/shopspring/decimal"
)

// Header synonyms accepted by stock snapshot files.
var (
	StockItemColumns     = []string{"ITEM", "NOME_ITEM", "ITEM_NAME", "ITEM_SOLICITADO", "PI"}
	StockQuantityColumns = []string{"QTDE_DISPONIVEL", "QUANTIDADE_DISPONIVEL", "SALDO", "ESTOQUE", "QUANTIDADE"}
)

// RowError reports a malformed data row. Row is 1-based and counts the header.
type RowError struct {
	Row    int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ReadStock parses a stock snapshot. Rows without an item name are skipped
// and a blank quantity counts as zero. Negative quantities are rejected. Duplicate items are not grouped here.
func ReadStock(name string, r io.Reader) ([]models.StockRow, error) {
	t, err := Read(name, r)
	if err != nil {
		return nil, err
	}
	itemCol := t.Column(StockItemColumns...)
	if itemCol < 0 {
		return nil, fmt.Errorf("%w: item (%v)", ErrMissingColumn, StockItemColumns)
	}
	qtyCol := t.Column(StockQuantityColumns...)
	if qtyCol < 0 {
		return nil, fmt.Errorf("%w: quantity (%v)", ErrMissingColumn, StockQuantityColumns)
	}

	rows := make([]models.StockRow, 0, len(t.Rows))
	for i, row := range t.Rows {
		item := Cell(row, itemCol)
		if item == "" {
			continue
		}
		qty := decimal.Zero
		if raw := Cell(row, qtyCol); raw != "" {
			qty, err = ParseNumber(raw)
			if err != nil {
				return nil, &RowError{Row: i + 2, Column: t.Header[qtyCol], Err: err}
			}
			if qty.IsNegative() {
				return nil, &RowError{Row: i + 2, Column: t.Header[qtyCol], Err: fmt.Errorf("negative quantity %s", raw)}
			}
		}
		rows = append(rows, models.StockRow{Item: item, Quantity: qty})
	}
	return rows, nil
}
