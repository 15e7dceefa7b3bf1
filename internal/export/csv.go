package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Veraticus/vendor-dash/internal/model"
)

// File names used by the exporters.
const (
	ListCSVName  = "transactions_export.csv"
	ListXLSXName = "transactions_export.xlsx"
)

// DisplayDateLayout is how transaction timestamps are shown in exports.
const DisplayDateLayout = "Jan 2, 2006, 03:04 PM"

// Header is the column header shared by the CSV, XLSX and Sheets exports.
var Header = []string{"Transaction ID", "Store Name", "Manager Name", "Total Items", "Date"}

// TransactionCSVName is the file name of a single-record CSV export.
func TransactionCSVName(id string) string {
	return fmt.Sprintf("transaction_%s.csv", id)
}

// FormatDate renders t in loc using DisplayDateLayout, or "N/A" for the zero
// time. A nil loc means time.Local.
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "N/A"
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DisplayDateLayout)
}

// Rows converts transactions into export rows in Header order.
func Rows(txns []model.Transaction, loc *time.Location) [][]string {
	rows := make([][]string, 0, len(txns))
	for i := range txns {
		t := &txns[i]
		rows = append(rows, []string{
			t.TransactionID,
			t.StoreName(),
			t.ManagerName,
			strconv.Itoa(t.ItemCount()),
			FormatDate(t.CreatedAt, loc),
		})
	}
	return rows
}

// WriteCSV writes Header followed by one row per transaction.
func WriteCSV(w io.Writer, txns []model.Transaction, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(Rows(txns, loc)); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}
