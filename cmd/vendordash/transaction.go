package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/vendor-dash/internal/cli"
	"github.com/Veraticus/vendor-dash/internal/export"
	"github.com/Veraticus/vendor-dash/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func transactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transaction <transactionId>",
		Short: "Show one transaction with its items and material summary",
		Args:  cobra.ExactArgs(1),
		RunE:  runTransaction,
	}

	cmd.Flags().Bool("pdf", false, "write the bill PDF")
	cmd.Flags().Bool("csv", false, "write the transaction as a one-row CSV")
	cmd.Flags().String("images", "", "save the calibration and item photos into this directory")

	return cmd
}

func runTransaction(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newAuthedApp()
	if err != nil {
		return err
	}

	txn, err := a.client.Transaction(ctx, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := printTransaction(out, txn, a.cfg.Location); err != nil {
		return err
	}

	if ok, _ := cmd.Flags().GetBool("pdf"); ok {
		opts := export.PDFOptions{CreatedAt: time.Now(), Location: a.cfg.Location}
		path, err := writeExportFile(a.cfg.ExportDir, export.BillPDFName(txn.TransactionID), func(f *os.File) error {
			return export.WriteBillPDF(f, txn, opts)
		})
		if err != nil {
			return err
		}
		recordExport(ctx, a.cfg, &model.ExportRecord{Format: model.ExportPDF, StoreID: storeIDOf(txn), Target: path, Rows: txn.ItemCount()})
		if _, err := fmt.Fprintln(out, cli.FormatSuccess("Bill written to "+path)); err != nil {
			return err
		}
	}

	if ok, _ := cmd.Flags().GetBool("csv"); ok {
		path, err := writeExportFile(a.cfg.ExportDir, export.TransactionCSVName(txn.TransactionID), func(f *os.File) error {
			return export.WriteCSV(f, []model.Transaction{*txn}, a.cfg.Location)
		})
		if err != nil {
			return err
		}
		recordExport(ctx, a.cfg, &model.ExportRecord{Format: model.ExportCSV, StoreID: storeIDOf(txn), Target: path, Rows: 1})
		if _, err := fmt.Fprintln(out, cli.FormatSuccess("CSV written to "+path)); err != nil {
			return err
		}
	}

	if dir, _ := cmd.Flags().GetString("images"); dir != "" {
		saved, remote, err := saveImages(dir, txn)
		if err != nil {
			return err
		}
		for _, url := range remote {
			if _, err := fmt.Fprintln(out, cli.FormatInfo("Remote photo: "+url)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Saved %d photos to %s", saved, dir))); err != nil {
			return err
		}
	}

	return nil
}

func storeIDOf(t *model.Transaction) string {
	if t.Store == nil {
		return ""
	}
	return t.Store.StoreID
}

func printTransaction(w io.Writer, t *model.Transaction, loc *time.Location) error {
	store := t.StoreName()
	if l := t.StoreLocation(); l != "" {
		store += ", " + l
	}

	summary := strings.Join([]string{
		"Store:        " + orDefault(store, "N/A"),
		"Manager:      " + orDefault(t.ManagerName, "N/A"),
		"Vendor:       " + orDefault(t.VendorName, "N/A"),
		"Date:         " + export.FormatDate(t.CreatedAt, loc),
		"Items:        " + strconv.Itoa(t.ItemCount()),
		"Calibration:  " + t.CalibrationErrorLabel(),
		"Total weight: " + export.FormatWeight(export.TotalWeight(t.Items)) + " kg",
	}, "\n")
	if _, err := fmt.Fprintln(w, cli.RenderBox(cli.RecycleIcon+" Transaction "+t.TransactionID, summary)); err != nil {
		return err
	}

	if len(t.Items) == 0 {
		_, err := fmt.Fprintln(w, cli.FormatInfo("No items recorded"))
		return err
	}

	items := make([][]string, 0, len(t.Items))
	for i, item := range t.Items {
		items = append(items, []string{
			strconv.Itoa(i + 1),
			item.MaterialType,
			export.FormatWeight(decimal.NewFromFloat(item.Weight)),
			item.WeightSource.Short(),
			export.FormatDate(item.CreatedAt, loc),
		})
	}
	if _, err := fmt.Fprintln(w, cli.RenderTable([]string{"SN", "Material", "Weight (kg)", "Source", "Time"}, items)); err != nil {
		return err
	}

	groups := export.Summarize(t.Items)
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{strconv.Itoa(g.Index), g.MaterialType, export.FormatWeight(g.Weight)})
	}
	rows = append(rows, []string{"", "Grand Total", export.FormatWeight(export.GrandTotal(groups))})
	_, err := fmt.Fprintln(w, cli.RenderTable([]string{"#", "Material Type", "Total Weight (kg)"}, rows))
	return err
}

// saveImages decodes inline photos into dir and returns how many were saved
// along with the URLs of photos stored remotely.
func saveImages(dir string, t *model.Transaction) (int, []string, error) {
	type photo struct {
		name  string
		image string
	}

	var photos []photo
	if t.Calibration != nil {
		photos = append(photos, photo{name: t.TransactionID + "_calibration", image: t.Calibration.Image})
	}
	for i, item := range t.Items {
		n := item.ItemNo
		if n == 0 {
			n = i + 1
		}
		photos = append(photos, photo{name: fmt.Sprintf("%s_item_%d", t.TransactionID, n), image: item.Image})
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return 0, nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	saved := 0
	var remote []string
	for _, p := range photos {
		data, ext, err := model.DecodeImage(p.image)
		switch {
		case errors.Is(err, model.ErrNoImage):
			continue
		case errors.Is(err, model.ErrRemoteImage):
			remote = append(remote, p.image)
			continue
		case err != nil:
			return saved, remote, fmt.Errorf("photo %s: %w", p.name, err)
		}

		path := filepath.Join(dir, p.name+"."+ext)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return saved, remote, fmt.Errorf("failed to write %s: %w", path, err)
		}
		saved++
	}
	return saved, remote, nil
}
