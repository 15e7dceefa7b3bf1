package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Veraticus/vendor-dash/internal/cli"
	"github.com/Veraticus/vendor-dash/internal/common"
	"github.com/Veraticus/vendor-dash/internal/export"
	"github.com/Veraticus/vendor-dash/internal/model"
	"github.com/Veraticus/vendor-dash/internal/query"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <storeId>",
		Short: "Write a store's material summary PDF for a date range",
		Args:  cobra.ExactArgs(1),
		RunE:  runReport,
	}

	cmd.Flags().String("from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "last day (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	storeID := args[0]
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	if err := validateRange(from, to); err != nil {
		return err
	}

	a, err := newAuthedApp()
	if err != nil {
		return err
	}

	report, err := a.client.StoreReport(ctx, storeID, from, to)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rows := make([][]string, 0, len(report.Items)+1)
	for i, m := range report.Items {
		rows = append(rows, []string{strconv.Itoa(i + 1), m.MaterialType, export.FormatWeight(decimal.NewFromFloat(m.TotalWeight))})
	}
	rows = append(rows, []string{"", "Grand Total", export.FormatWeight(export.ReportTotal(report.Items))})
	title := fmt.Sprintf("%s, %s · %s to %s", report.StoreName, report.StoreLocation, from, to)
	if _, err := fmt.Fprintln(out, cli.FormatTitle(title)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out, cli.RenderTable([]string{"#", "Material", "Total Weight (kg)"}, rows)); err != nil {
		return err
	}

	opts := export.PDFOptions{CreatedAt: time.Now(), Location: a.cfg.Location}
	path, err := writeExportFile(a.cfg.ExportDir, export.ReportPDFName(storeID, from, to), func(f *os.File) error {
		return export.WriteReportPDF(f, report, from, to, opts)
	})
	if err != nil {
		return err
	}
	recordExport(ctx, a.cfg, &model.ExportRecord{Format: model.ExportReport, StoreID: storeID, Target: path, Rows: len(report.Items)})

	_, err = fmt.Fprintln(out, cli.FormatSuccess("Report written to "+path))
	return err
}

// validateRange checks that from and to are calendar days with from <= to.
func validateRange(from, to string) error {
	start, err := time.Parse(query.DateLayout, from)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("--from %q is not a YYYY-MM-DD date", from), err)
	}
	end, err := time.Parse(query.DateLayout, to)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("--to %q is not a YYYY-MM-DD date", to), err)
	}
	if end.Before(start) {
		return common.NewUserError("--to must not be before --from", nil)
	}
	return nil
}
