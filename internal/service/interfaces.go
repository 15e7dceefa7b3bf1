// Package service defines the interfaces shared by commands and the TUI.
package service

import (
	"context"

	"github.com/Veraticus/vendor-dash/internal/model"
)

// Backend is the vendor backend as seen by the presentation layer.
type Backend interface {
	StoresOverview(ctx context.Context) (*model.StoresOverview, error)
	StoreTransactions(ctx context.Context, storeID string) ([]model.Transaction, error)
	StoreReport(ctx context.Context, storeID, from, to string) (*model.StoreReport, error)
	Transaction(ctx context.Context, id string) (*model.Transaction, error)
}

// ExportLog records the exports the user has produced.
type ExportLog interface {
	RecordExport(ctx context.Context, rec *model.ExportRecord) error
	ListExports(ctx context.Context, limit int) ([]model.ExportRecord, error)
}
