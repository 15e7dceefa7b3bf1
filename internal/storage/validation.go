package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/vendor-dash/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidExport    = errors.New("invalid export record")
	ErrNegativeRowCount = errors.New("row count cannot be negative")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateExport(rec *model.ExportRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: export", ErrNilParameter)
	}
	switch rec.Format {
	case model.ExportCSV, model.ExportXLSX, model.ExportPDF, model.ExportReport, model.ExportSheets:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidExport, rec.Format)
	}
	if err := validateString(rec.Target, "target"); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}
	if rec.Rows < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidExport, ErrNegativeRowCount)
	}
	return nil
}
