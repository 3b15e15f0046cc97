// Package export 报表导出成 Excel
package export

import (
	"fmt"
	"io"

	"land_records_lending/models"

	excelize "github.com/xuri/excelize/v2"
)

const OverdueSheet = "Overdue"

var overdueHeader = []any{"Borrowing ID", "User ID", "User", "Document Type", "Document ID", "Opened At (UTC)", "Days Overdue"}

// WriteOverdueXLSX 每条逾期借阅一行，第一行是表头
func WriteOverdueXLSX(w io.Writer, rows []models.OverdueReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), OverdueSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(OverdueSheet, "A1", &overdueHeader); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		line := []any{
			r.BorrowingID,
			r.UserID,
			r.UserName,
			string(r.DocumentType),
			r.DocumentID,
			r.OpenedAt.UTC().Format("2006-01-02 15:04:05"),
			r.DaysOverdue,
		}
		if err := f.SetSheetRow(OverdueSheet, cell, &line); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return f.Write(w)
}
