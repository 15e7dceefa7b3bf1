package tui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/vendor-dash/internal/export"
	"github.com/Veraticus/vendor-dash/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// fetch loads the store's transactions, tagged with the current generation.
func (m Model) fetch() tea.Cmd {
	ctx := m.ctx
	backend := m.config.Backend
	storeID := m.config.StoreID
	gen := m.gen

	return func() tea.Msg {
		txns, err := backend.StoreTransactions(ctx, storeID)
		return transactionsLoadedMsg{gen: gen, transactions: txns, err: err}
	}
}

// exportCSV writes txns to the list CSV file and records the export.
func (m Model) exportCSV(txns []model.Transaction) tea.Cmd {
	ctx := m.ctx
	cfg := m.config
	rows := make([]model.Transaction, len(txns))
	copy(rows, txns)

	return func() tea.Msg {
		if err := os.MkdirAll(cfg.ExportDir, 0o750); err != nil {
			return exportDoneMsg{err: fmt.Errorf("create export directory: %w", err)}
		}
		path := filepath.Join(cfg.ExportDir, export.ListCSVName)

		f, err := os.Create(path)
		if err != nil {
			return exportDoneMsg{err: fmt.Errorf("create %s: %w", path, err)}
		}
		if err := export.WriteCSV(f, rows, cfg.Location); err != nil {
			_ = f.Close()
			return exportDoneMsg{err: err}
		}
		if err := f.Close(); err != nil {
			return exportDoneMsg{err: fmt.Errorf("close %s: %w", path, err)}
		}

		if cfg.Exports != nil {
			rec := &model.ExportRecord{
				Format:  model.ExportCSV,
				StoreID: cfg.StoreID,
				Target:  path,
				Rows:    len(rows),
			}
			if err := cfg.Exports.RecordExport(ctx, rec); err != nil {
				slog.Warn("Failed to record export", "target", path, "error", err)
			}
		}

		return exportDoneMsg{path: path, rows: len(rows)}
	}
}
