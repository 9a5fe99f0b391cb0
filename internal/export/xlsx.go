// Package export renders a user's ledger as an XLSX workbook.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"bilancio/internal/core"
)

const sheetName = "Transactions"

var headers = []string{"Date", "Type", "Category", "Amount", "Note"}

// TransactionsXLSX writes the transactions into a single-sheet workbook.
// Category names resolve through the names map; a missing entry falls back
// to the deleted-category label.
func TransactionsXLSX(txs []core.Transaction, names map[string]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, t := range txs {
		name, ok := names[t.CategoryID]
		if !ok {
			name = core.DeletedCategoryName
		}
		row := i + 2
		values := []any{
			t.OccurredOn.Format("2006-01-02"),
			string(t.Type),
			name,
			core.FormatAmount(t.Amount),
			t.Note,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
