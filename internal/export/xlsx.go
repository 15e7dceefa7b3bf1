package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Veraticus/vendor-dash/internal/model"
	"github.com/xuri/excelize/v2"
)

// XLSXSheet is the worksheet the transaction list is written to.
const XLSXSheet = "Transactions"

// WriteXLSX writes the transaction list as a workbook with the CSV columns.
// Item counts are stored as numbers.
func WriteXLSX(w io.Writer, txns []model.Transaction, loc *time.Location) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", XLSXSheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(XLSXSheet, cell, h); err != nil {
			return fmt.Errorf("xlsx header: %w", err)
		}
	}

	for r, row := range Rows(txns, loc) {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			var value any = v
			if c == 3 {
				if n, err := strconv.Atoi(v); err == nil {
					value = n
				}
			}
			if err := f.SetCellValue(XLSXSheet, cell, value); err != nil {
				return fmt.Errorf("xlsx row %d: %w", r+2, err)
			}
		}
	}

	_ = f.SetColWidth(XLSXSheet, "A", "A", 28)
	_ = f.SetColWidth(XLSXSheet, "B", "C", 24)
	_ = f.SetColWidth(XLSXSheet, "D", "D", 12)
	_ = f.SetColWidth(XLSXSheet, "E", "E", 24)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
