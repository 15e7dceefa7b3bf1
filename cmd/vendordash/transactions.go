package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/vendor-dash/internal/cli"
	"github.com/Veraticus/vendor-dash/internal/common"
	"github.com/Veraticus/vendor-dash/internal/export"
	"github.com/Veraticus/vendor-dash/internal/model"
	"github.com/Veraticus/vendor-dash/internal/query"
	"github.com/Veraticus/vendor-dash/internal/sheets"
	"github.com/spf13/cobra"
)

// errDateFlags is returned when --date is combined with --from/--to.
var errDateFlags = errors.New("use either --date or --from/--to, not both")

// listFlags are the list criteria shared by transactions and browse.
type listFlags struct {
	store    string
	manager  string
	date     string
	from     string
	to       string
	sort     string
	pageSize int
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.store, "store", "", "store name contains (case-insensitive)")
	cmd.Flags().StringVar(&f.manager, "manager", "", "manager name contains (case-insensitive)")
	cmd.Flags().StringVar(&f.date, "date", "", "exact day YYYY-MM-DD, or a range FROM..TO")
	cmd.Flags().StringVar(&f.from, "from", "", "first day of a date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "last day of a date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.sort, "sort", string(query.SortLatest), "latest, oldest, itemsLow or itemsHigh")
	cmd.Flags().IntVar(&f.pageSize, "page-size", query.DefaultPageSize, "rows per page (6, 10 or 20)")
}

// criteria converts the flags into list criteria for loc.
func (f listFlags) criteria(loc *time.Location) (query.Criteria, error) {
	c := query.DefaultCriteria()
	c.Location = loc
	c.SearchStore = f.store
	c.SearchManager = f.manager
	c.Sort = query.ParseSortOption(f.sort)
	c.PageSize = query.NormalizePageSize(f.pageSize)

	switch {
	case f.date != "" && (f.from != "" || f.to != ""):
		return c, common.NewUserError(errDateFlags.Error(), errDateFlags)
	case f.date != "":
		c.Date = query.ParseDateFilter(f.date)
	default:
		c.Date = query.DateFilter{From: f.from, To: f.to}
	}
	return c, nil
}

// exportFlags select the exports applied to the filtered list.
type exportFlags struct {
	csv     bool
	xlsx    bool
	sheets  bool
	pdfEach bool
}

func (e exportFlags) any() bool {
	return e.csv || e.xlsx || e.sheets || e.pdfEach
}

func transactionsCmd() *cobra.Command {
	var (
		list    listFlags
		exports exportFlags
		page    int
	)

	cmd := &cobra.Command{
		Use:   "transactions <storeId>",
		Short: "List, filter and export a store's transactions",
		Long: `List the transactions of one store.

Filters apply first, then sorting, then pagination. Exports always cover the
whole filtered list, not just the page shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransactions(cmd, args[0], list, exports, page)
		},
	}

	list.register(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "page to show")
	cmd.Flags().BoolVar(&exports.csv, "csv", false, "export the filtered list to "+export.ListCSVName)
	cmd.Flags().BoolVar(&exports.xlsx, "xlsx", false, "export the filtered list to "+export.ListXLSXName)
	cmd.Flags().BoolVar(&exports.sheets, "sheets", false, "export the filtered list to Google Sheets")
	cmd.Flags().BoolVar(&exports.pdfEach, "pdf-each", false, "write a bill PDF for every filtered transaction")

	return cmd
}

func runTransactions(cmd *cobra.Command, storeID string, list listFlags, exports exportFlags, page int) error {
	ctx := cmd.Context()
	a, err := newAuthedApp()
	if err != nil {
		return err
	}

	criteria, err := list.criteria(a.cfg.Location)
	if err != nil {
		return err
	}

	txns, err := a.client.StoreTransactions(ctx, storeID)
	if err != nil {
		return err
	}

	result := query.Run(txns, criteria, page)
	if err := printPage(cmd.OutOrStdout(), result.Page, a.cfg.Location); err != nil {
		return err
	}

	if !exports.any() {
		return nil
	}

	x := &listExporter{app: a, storeID: storeID, out: cmd.OutOrStdout(), txns: result.Filtered}
	if exports.csv {
		if err := x.csv(ctx); err != nil {
			return err
		}
	}
	if exports.xlsx {
		if err := x.xlsx(ctx); err != nil {
			return err
		}
	}
	if exports.sheets {
		if err := x.sheets(ctx); err != nil {
			return err
		}
	}
	if exports.pdfEach {
		if err := x.bills(ctx); err != nil {
			return err
		}
	}
	return nil
}

func printPage(w io.Writer, page query.Page, loc *time.Location) error {
	if page.TotalCount == 0 {
		_, err := fmt.Fprintln(w, cli.FormatInfo("No transactions found"))
		return err
	}

	if len(page.Items) > 0 {
		if _, err := fmt.Fprintln(w, cli.RenderTable(export.Header, export.Rows(page.Items, loc))); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, cli.SubtleStyle.Render(fmt.Sprintf("Page %d of %d · %d transactions",
		page.CurrentPage, max(page.TotalPages, 1), page.TotalCount)))
	return err
}

// listExporter writes one filtered transaction list to each requested target.
type listExporter struct {
	app     *app
	out     io.Writer
	storeID string
	txns    []model.Transaction
}

func (x *listExporter) record(ctx context.Context, format model.ExportFormat, target string, rows int) {
	recordExport(ctx, x.app.cfg, &model.ExportRecord{
		Format:  format,
		StoreID: x.storeID,
		Target:  target,
		Rows:    rows,
	})
}

func (x *listExporter) done(path string, rows int) error {
	_, err := fmt.Fprintln(x.out, cli.FormatSuccess(fmt.Sprintf("Exported %d rows to %s", rows, path)))
	return err
}

func (x *listExporter) csv(ctx context.Context) error {
	path, err := writeExportFile(x.app.cfg.ExportDir, export.ListCSVName, func(f *os.File) error {
		return export.WriteCSV(f, x.txns, x.app.cfg.Location)
	})
	if err != nil {
		return err
	}
	x.record(ctx, model.ExportCSV, path, len(x.txns))
	return x.done(path, len(x.txns))
}

func (x *listExporter) xlsx(ctx context.Context) error {
	path, err := writeExportFile(x.app.cfg.ExportDir, export.ListXLSXName, func(f *os.File) error {
		return export.WriteXLSX(f, x.txns, x.app.cfg.Location)
	})
	if err != nil {
		return err
	}
	x.record(ctx, model.ExportXLSX, path, len(x.txns))
	return x.done(path, len(x.txns))
}

func (x *listExporter) sheets(ctx context.Context) error {
	cfg := x.app.cfg.Sheets
	if !cfg.Configured() {
		return common.NewUserError("Google Sheets is not configured; run 'vendordash sheets auth' or set sheets.service_account_path", common.ErrMissingConfig)
	}

	writer, err := sheets.NewWriter(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s %s", x.storeID, time.Now().In(x.app.cfg.Location).Format("2006-01-02 15.04.05"))
	res, err := writer.WriteRows(ctx, title, export.Header, export.Rows(x.txns, x.app.cfg.Location))
	if err != nil {
		return err
	}

	x.record(ctx, model.ExportSheets, res.SpreadsheetID, res.Rows)
	_, err = fmt.Fprintln(x.out, cli.FormatSuccess(fmt.Sprintf("Exported %d rows to sheet %q of spreadsheet %s", res.Rows, res.SheetTitle, res.SpreadsheetID)))
	return err
}

// bills fetches each transaction's detail and writes its bill PDF. Bills
// written before an interrupt are kept.
func (x *listExporter) bills(ctx context.Context) error {
	if len(x.txns) == 0 {
		_, err := fmt.Fprintln(x.out, cli.FormatInfo("No transactions to export"))
		return err
	}

	dir := x.app.cfg.ExportDir
	handler := cli.NewInterruptHandler(x.out)
	ctx, stop := handler.HandleInterrupts(ctx, "PDF export", "Bills already written remain in "+dir)
	defer stop()

	bar := cli.NewProgress(x.out, len(x.txns), "Writing bills")
	opts := export.PDFOptions{CreatedAt: time.Now(), Location: x.app.cfg.Location}

	written := 0
	for _, summary := range x.txns {
		if err := ctx.Err(); err != nil {
			break
		}

		detail, err := x.app.client.Transaction(ctx, summary.TransactionID)
		if err != nil {
			if handler.WasInterrupted() {
				break
			}
			return fmt.Errorf("transaction %s: %w", summary.TransactionID, err)
		}

		path, err := writeExportFile(dir, export.BillPDFName(detail.TransactionID), func(f *os.File) error {
			return export.WriteBillPDF(f, detail, opts)
		})
		if err != nil {
			return err
		}
		x.record(ctx, model.ExportPDF, path, detail.ItemCount())
		written++
		_ = bar.Add(1)
	}

	if handler.WasInterrupted() {
		return fmt.Errorf("wrote %d of %d bills: %w", written, len(x.txns), context.Canceled)
	}
	_, err := fmt.Fprintln(x.out, cli.FormatSuccess(fmt.Sprintf("Wrote %d bills to %s", written, dir)))
	return err
}
