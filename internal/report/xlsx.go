package report

import (
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Relatório"

var xlsxHeader = []any{"Mês", "Receita", "Despesa", "Lucro"}

// WriteXLSX writes one row per bucket followed by the totals row.
func WriteXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, "A1", &xlsxHeader); err != nil {
		return err
	}

	rows := append(append([]Bucket(nil), r.Buckets...), Bucket{
		Key:     "Total",
		Revenue: r.Totals.Revenue,
		Expense: r.Totals.Expense,
		Profit:  r.Totals.Profit,
	})
	for i, b := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{b.Key, b.Revenue.InexactFloat64(), b.Expense.InexactFloat64(), b.Profit.InexactFloat64()}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheetName, "A", "D", 16); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}
