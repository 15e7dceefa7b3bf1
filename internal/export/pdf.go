package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Veraticus/vendor-dash/internal/model"
	"github.com/jung-kurt/gofpdf"
)

// PDFOptions controls rendering details that vary between callers.
type PDFOptions struct {
	// CreatedAt pins the document creation date. Zero means now.
	CreatedAt time.Time
	Location  *time.Location
	// NoCompression leaves page streams readable.
	NoCompression bool
}

func (o PDFOptions) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// BillPDFName is the file name of a transaction bill.
func BillPDFName(id string) string {
	return id + "_Bill.pdf"
}

// ReportPDFName is the file name of a store summary report.
func ReportPDFName(storeID, from, to string) string {
	return fmt.Sprintf("store_%s_%s_%s.pdf", storeID, from, to)
}

const (
	pageMargin   = 10.0
	bottomMargin = 15.0
	rowHeight    = 10.0
)

type rgb struct{ r, g, b int }

var (
	accent    = rgb{30, 64, 175}
	muted     = rgb{100, 100, 100}
	headFill  = rgb{238, 242, 255}
	plainFill = rgb{249, 250, 251}
)

// document wraps gofpdf with the few layout helpers the reports share.
type document struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func newDocument(opts PDFOptions) *document {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, 15, pageMargin)
	pdf.SetAutoPageBreak(true, bottomMargin)
	pdf.SetCompression(!opts.NoCompression)
	pdf.SetCatalogSort(true)
	created := opts.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	pdf.SetCreationDate(created)
	pdf.AddPage()
	return &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *document) color(c rgb) {
	d.pdf.SetTextColor(c.r, c.g, c.b)
}

func (d *document) centered(text string, size float64, c rgb, lineHeight float64) {
	d.pdf.SetFont("Helvetica", "", size)
	d.color(c)
	d.pdf.CellFormat(0, lineHeight, d.tr(text), "", 1, "C", false, 0, "")
}

func (d *document) rule() {
	w, _ := d.pdf.GetPageSize()
	y := d.pdf.GetY() + 2
	d.pdf.Line(pageMargin, y, w-pageMargin, y)
	d.pdf.SetY(y + 6)
}

func (d *document) heading(text string, c rgb) {
	d.pdf.SetFont("Helvetica", "B", 13)
	d.color(c)
	d.pdf.CellFormat(0, 8, d.tr(text), "", 1, "L", false, 0, "")
}

// ensureRoom starts a new page when h no longer fits on the current one.
func (d *document) ensureRoom(h float64) {
	_, pageH := d.pdf.GetPageSize()
	if d.pdf.GetY()+h > pageH-bottomMargin {
		d.pdf.AddPage()
	}
}

func (d *document) headerRow(widths []float64, cells []string, fill rgb, textColor rgb) {
	d.ensureRoom(8)
	d.pdf.SetFont("Helvetica", "B", 9)
	d.pdf.SetFillColor(fill.r, fill.g, fill.b)
	d.color(textColor)
	for i, c := range cells {
		d.pdf.CellFormat(widths[i], 8, d.tr(c), "1", 0, "L", true, 0, "")
	}
	d.pdf.Ln(-1)
}

func (d *document) row(widths []float64, cells []string) {
	d.ensureRoom(8)
	d.pdf.SetFont("Helvetica", "", 9)
	d.color(rgb{})
	for i, c := range cells {
		d.pdf.CellFormat(widths[i], 8, d.tr(c), "1", 0, "L", false, 0, "")
	}
	d.pdf.Ln(-1)
}

// footer writes a label spanning the first span columns followed by value.
func (d *document) footer(widths []float64, span int, label, value string) {
	d.ensureRoom(8)
	labelW := 0.0
	for _, w := range widths[:span] {
		labelW += w
	}
	d.pdf.SetFillColor(headFill.r, headFill.g, headFill.b)
	d.pdf.SetFont("Helvetica", "B", 9)
	d.color(accent)
	d.pdf.CellFormat(labelW, 8, d.tr(label), "1", 0, "R", true, 0, "")
	d.color(rgb{})
	d.pdf.CellFormat(widths[span], 8, value, "1", 0, "L", true, 0, "")
	for _, w := range widths[span+1:] {
		d.pdf.CellFormat(w, 8, "", "1", 0, "L", true, 0, "")
	}
	d.pdf.Ln(-1)
}

func (d *document) write(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

var (
	itemColumns    = []float64{14, 60, 30, 86}
	summaryColumns = []float64{14, 86, 30, 60}
)

// WriteBillPDF renders the bill for one transaction: a header block, the
// item table with its grand total and, when there are items, a per-material
// summary.
func WriteBillPDF(w io.Writer, t *model.Transaction, opts PDFOptions) error {
	d := newDocument(opts)
	loc := opts.location()

	vendor := t.VendorName
	if vendor == "" {
		vendor = "Vendor"
	}
	storeName := t.StoreName()
	if storeName == "" {
		storeName = "N/A"
	}

	d.centered(vendor, 18, accent, 8)
	d.centered(fmt.Sprintf("Store: %s , %s", storeName, t.StoreLocation()), 11, muted, 6)
	d.centered("Transaction ID: "+t.TransactionID, 10, muted, 6)
	d.rule()

	d.heading("Detailed Transaction Items", rgb{})
	d.headerRow(itemColumns, []string{"SN", "Material", "Weight (kg)", "Time & Source"}, headFill, accent)

	d.pdf.SetFont("Helvetica", "", 9)
	for i, item := range t.Items {
		d.ensureRoom(rowHeight)
		d.color(rgb{})
		d.pdf.CellFormat(itemColumns[0], rowHeight, strconv.Itoa(i+1), "1", 0, "L", false, 0, "")
		d.pdf.CellFormat(itemColumns[1], rowHeight, d.tr(item.MaterialType), "1", 0, "L", false, 0, "")
		d.pdf.CellFormat(itemColumns[2], rowHeight, strconv.FormatFloat(item.Weight, 'f', -1, 64), "1", 0, "L", false, 0, "")
		d.pdf.MultiCell(itemColumns[3], rowHeight/2, itemTimestamp(item, loc), "1", "L", false)
	}

	groups := Summarize(t.Items)
	d.footer(itemColumns, 2, "Grand Total Weight : ", FormatWeight(GrandTotal(groups)))

	if len(groups) > 0 {
		d.pdf.Ln(6)
		d.heading("Material Type Summary", accent)
		d.headerRow(summaryColumns, []string{"#", "Material", "Items", "Total Weight (kg)"}, plainFill, rgb{})
		for _, g := range groups {
			d.row(summaryColumns, []string{
				strconv.Itoa(g.Index),
				g.MaterialType,
				strconv.Itoa(g.Count),
				FormatWeight(g.Weight),
			})
		}
	}

	return d.write(w)
}

func itemTimestamp(item model.Item, loc *time.Location) string {
	at := item.CreatedAt.In(loc)
	return fmt.Sprintf("Date: %s\nTime: %s (%s)", at.Format("1/2/2006"), at.Format("3:04:05 PM"), item.WeightSource.Short())
}

var reportColumns = []float64{14, 86, 30, 60}

// WriteReportPDF renders the date-range summary of one store.
func WriteReportPDF(w io.Writer, r *model.StoreReport, from, to string, opts PDFOptions) error {
	d := newDocument(opts)

	vendor := r.VendorName
	if vendor == "" {
		vendor = "Vendor"
	}
	d.centered(vendor, 18, accent, 8)
	d.centered(fmt.Sprintf("Store: %s , %s", r.StoreName, r.StoreLocation), 11, muted, 6)
	d.centered(fmt.Sprintf("Period: %s to %s", from, to), 10, muted, 6)
	d.rule()

	d.heading("Material Summary", accent)
	d.headerRow(reportColumns, []string{"#", "Material", "Items", "Total Weight (kg)"}, headFill, accent)
	for i, m := range r.Items {
		count := ""
		if m.Count > 0 {
			count = strconv.Itoa(m.Count)
		}
		d.row(reportColumns, []string{
			strconv.Itoa(i + 1),
			m.MaterialType,
			count,
			FormatWeight(decimalOf(m.TotalWeight)),
		})
	}
	d.footer(reportColumns, 3, "Grand Total Weight : ", FormatWeight(ReportTotal(r.Items)))

	return d.write(w)
}
