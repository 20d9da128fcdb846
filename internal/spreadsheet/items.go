package spreadsheet

import (
	"fmt"
	"io"

	"github.com/diewo77/go-supplies/internal/models"
	"github.com/shopspring/decimal"
)

// Header names of the item catalog file.
var (
	ItemNameColumns     = []string{"ITEM", "NOME_ITEM"}
	ItemRegionColumns   = []string{"UF", "REGIAO"}
	ItemCategoryColumns = []string{"TIPO_DE_PRODUTO", "CATEGORIA", "CATEGORY"}
	ItemCMMColumns      = []string{"CMM"}
)

// ReadItems parses a catalog file. The CMM column is optional and defaults
// to zero. Later rows win when an item name repeats.
func ReadItems(name string, r io.Reader) ([]models.Item, error) {
	t, err := Read(name, r)
	if err != nil {
		return nil, err
	}
	nameCol := t.Column(ItemNameColumns...)
	catCol := t.Column(ItemCategoryColumns...)
	if nameCol < 0 {
		return nil, fmt.Errorf("%w: item", ErrMissingColumn)
	}
	if catCol < 0 {
		return nil, fmt.Errorf("%w: product type", ErrMissingColumn)
	}
	regionCol := t.Column(ItemRegionColumns...)
	cmmCol := t.Column(ItemCMMColumns...)

	index := make(map[string]int)
	var items []models.Item
	for i, row := range t.Rows {
		itemName := Cell(row, nameCol)
		if itemName == "" {
			continue
		}
		cat, err := models.ParseCategory(Cell(row, catCol))
		if err != nil {
			return nil, &RowError{Row: i + 2, Column: t.Header[catCol], Err: err}
		}
		cmm := decimal.Zero
		if raw := Cell(row, cmmCol); raw != "" {
			cmm, err = ParseNumber(raw)
			if err != nil {
				return nil, &RowError{Row: i + 2, Column: t.Header[cmmCol], Err: err}
			}
			if cmm.IsNegative() {
				return nil, &RowError{Row: i + 2, Column: t.Header[cmmCol], Err: fmt.Errorf("negative CMM %s", raw)}
			}
		}
		it := models.Item{Name: itemName, Region: Cell(row, regionCol), Category: cat, CMM: cmm}
		if j, ok := index[itemName]; ok {
			items[j] = it
			continue
		}
		index[itemName] = len(items)
		items = append(items, it)
	}
	return items, nil
}
