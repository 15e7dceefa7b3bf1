package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/vendor-dash/internal/model"
	"github.com/google/uuid"
)

// DefaultExportLimit caps ListExports when no limit is given.
const DefaultExportLimit = 50

// RecordExport stores rec, assigning an ID and timestamp when missing.
func (s *SQLiteStorage) RecordExport(ctx context.Context, rec *model.ExportRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExport(rec); err != nil {
		return err
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exports (id, format, store_id, target, row_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Format), rec.StoreID, rec.Target, rec.Rows, rec.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}
	return nil
}

// ListExports returns the newest exports first.
func (s *SQLiteStorage) ListExports(ctx context.Context, limit int) ([]model.ExportRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultExportLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, format, COALESCE(store_id, ''), target, row_count, created_at
		FROM exports
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.ExportRecord
	for rows.Next() {
		var rec model.ExportRecord
		var format string
		if err := rows.Scan(&rec.ID, &format, &rec.StoreID, &rec.Target, &rec.Rows, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		rec.Format = model.ExportFormat(format)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exports: %w", err)
	}
	return records, nil
}
