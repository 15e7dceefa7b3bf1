package main

import (
	"log/slog"

	"github.com/Veraticus/vendor-dash/internal/tui"
	"github.com/spf13/cobra"
)

func browseCmd() *cobra.Command {
	var list listFlags

	cmd := &cobra.Command{
		Use:   "browse <storeId>",
		Short: "Browse a store's transactions interactively",
		Long: `Open an interactive list of a store's transactions.

Press ? inside the list for the key bindings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newAuthedApp()
			if err != nil {
				return err
			}

			criteria, err := list.criteria(a.cfg.Location)
			if err != nil {
				return err
			}

			opts := []tui.Option{
				tui.WithCriteria(criteria),
				tui.WithLocation(a.cfg.Location),
				tui.WithExportDir(a.cfg.ExportDir),
			}

			exports, err := openExportLog(ctx, a.cfg)
			if err != nil {
				slog.Warn("Export history unavailable", "error", err)
			} else {
				defer func() { _ = exports.Close() }()
				opts = append(opts, tui.WithExports(exports))
			}

			return tui.Run(ctx, a.backend(), args[0], opts...)
		},
	}

	list.register(cmd)

	return cmd
}
