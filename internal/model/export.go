package model

import "time"

// ExportFormat identifies the kind of file or destination an export produced.
type ExportFormat string

// Export formats.
const (
	ExportCSV    ExportFormat = "csv"
	ExportXLSX   ExportFormat = "xlsx"
	ExportPDF    ExportFormat = "pdf"
	ExportReport ExportFormat = "report"
	ExportSheets ExportFormat = "sheets"
)

// ExportRecord is one entry of the local export history.
type ExportRecord struct {
	CreatedAt time.Time
	ID        string
	Format    ExportFormat
	StoreID   string
	// Target is a file path or, for Sheets, the spreadsheet ID.
	Target string
	Rows   int
}
