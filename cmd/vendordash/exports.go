package main

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/vendor-dash/internal/cli"
	"github.com/Veraticus/vendor-dash/internal/storage"
	"github.com/spf13/cobra"
)

func exportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exports",
		Short: "Show recent exports",
		Long:  `List the files and spreadsheets written by earlier exports, newest first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := openExportLog(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			limit, _ := cmd.Flags().GetInt("limit")
			records, err := store.ListExports(ctx, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				_, err := fmt.Fprintln(out, cli.FormatInfo("No exports yet"))
				return err
			}

			rows := make([][]string, 0, len(records))
			for _, r := range records {
				rows = append(rows, []string{
					r.CreatedAt.In(cfg.Location).Format("2006-01-02 15:04"),
					string(r.Format),
					r.StoreID,
					strconv.Itoa(r.Rows),
					r.Target,
				})
			}
			_, err = fmt.Fprintln(out, cli.RenderTable([]string{"When", "Format", "Store", "Rows", "Target"}, rows))
			return err
		},
	}

	cmd.Flags().Int("limit", storage.DefaultExportLimit, "maximum number of exports to show")

	return cmd
}
