package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet is one exported view.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Write encodes sheet in the given format.
func Write(w io.Writer, format Format, sheet Sheet) error {
	switch format {
	case FormatXLSX:
		return writeXLSX(w, sheet)
	case FormatCSV:
		return writeCSV(w, sheet)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// WriteFile writes sheet to path, choosing the format from its extension.
func WriteFile(path string, sheet Sheet) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, format, sheet); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeXLSX(w io.Writer, sheet Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	name := sheet.Name
	if name == "" {
		name = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return err
	}

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range sheet.Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(name, cell, h); err != nil {
			return err
		}
		f.SetCellStyle(name, cell, cell, boldStyle)
	}
	for r, row := range sheet.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(name, cell, xlsxValue(v)); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}

func writeCSV(w io.Writer, sheet Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sheet.Header); err != nil {
		return err
	}
	for _, row := range sheet.Rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = text(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func xlsxValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		f, _ := x.Float64()
		return f
	case decimal.NullDecimal:
		if !x.Valid {
			return ""
		}
		f, _ := x.Decimal.Float64()
		return f
	case time.Time:
		return text(x)
	case *time.Time:
		return text(x)
	case *int64:
		if x == nil {
			return ""
		}
		return *x
	}
	return v
}

// text renders a cell for csv output. Dates are written as YYYY-MM-DD.
func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case decimal.Decimal:
		return x.String()
	case decimal.NullDecimal:
		if !x.Valid {
			return ""
		}
		return x.Decimal.String()
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.DateOnly)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.Format(time.DateTime)
	case *int64:
		if x == nil {
			return ""
		}
		return fmt.Sprint(*x)
	case bool:
		if x {
			return "yes"
		}
		return "no"
	}
	return fmt.Sprint(v)
}
