package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/vendor-dash/internal/common"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// spreadsheetAPI is the subset of the Sheets API the writer needs.
type spreadsheetAPI interface {
	Exists(ctx context.Context, spreadsheetID string) error
	Create(ctx context.Context, title, sheetTitle string) (id, url string, err error)
	AddSheet(ctx context.Context, spreadsheetID, sheetTitle string) error
	Update(ctx context.Context, spreadsheetID, rangeStr string, values [][]any) error
}

// Writer uploads tabular exports to a Google spreadsheet, one tab per export.
type Writer struct {
	api    spreadsheetAPI
	logger *slog.Logger
	config Config
}

// Result describes where an export landed.
type Result struct {
	SpreadsheetID string
	SheetTitle    string
	Rows          int
}

// NewWriter creates a writer backed by the live Sheets API.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sheets config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return newWriter(&liveAPI{srv: srv}, config, logger), nil
}

func newWriter(api spreadsheetAPI, config Config, logger *slog.Logger) *Writer {
	return &Writer{
		api:    api,
		config: config,
		logger: common.OrDefault(logger),
	}
}

// WriteRows writes header plus rows into a new tab named sheetTitle.
func (w *Writer) WriteRows(ctx context.Context, sheetTitle string, header []string, rows [][]string) (*Result, error) {
	w.logger.Info("sheets.export.start", "sheet", sheetTitle, "rows", len(rows))

	retryOpts := common.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	spreadsheetID, err := w.targetSpreadsheet(ctx, sheetTitle)
	if err != nil {
		return nil, err
	}

	values := toValues(header, rows)
	err = common.WithRetry(ctx, func() error {
		return w.writeBatches(ctx, spreadsheetID, sheetTitle, values)
	}, retryOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to write rows: %w", err)
	}

	w.logger.Info("sheets.export.ok",
		"spreadsheet_id", spreadsheetID,
		"sheet", sheetTitle,
		"rows", len(rows))

	return &Result{SpreadsheetID: spreadsheetID, SheetTitle: sheetTitle, Rows: len(rows)}, nil
}

// targetSpreadsheet returns the configured spreadsheet with a fresh tab, or
// creates a new spreadsheet whose first tab is sheetTitle.
func (w *Writer) targetSpreadsheet(ctx context.Context, sheetTitle string) (string, error) {
	if w.config.SpreadsheetID == "" {
		id, url, err := w.api.Create(ctx, w.config.SpreadsheetName, sheetTitle)
		if err != nil {
			return "", fmt.Errorf("unable to create spreadsheet: %w", err)
		}
		w.logger.Info("created new spreadsheet", "id", id, "url", url)
		return id, nil
	}

	if err := w.api.Exists(ctx, w.config.SpreadsheetID); err != nil {
		return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
	}
	if err := w.api.AddSheet(ctx, w.config.SpreadsheetID, sheetTitle); err != nil {
		return "", fmt.Errorf("unable to add sheet %q: %w", sheetTitle, err)
	}
	return w.config.SpreadsheetID, nil
}

func (w *Writer) writeBatches(ctx context.Context, spreadsheetID, sheetTitle string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))

		rangeStr := fmt.Sprintf("'%s'!A%d", sheetTitle, i+1)
		if err := w.api.Update(ctx, spreadsheetID, rangeStr, values[i:end]); err != nil {
			return classify(fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err))
		}

		w.logger.Debug("wrote batch", "start_row", i+1, "rows", end-i)
	}
	return nil
}

// classify marks client errors (4xx other than 429) as permanent.
func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code >= 400 && gerr.Code < 500 && gerr.Code != 429 {
		return &common.PermanentError{Err: err}
	}
	return err
}

func toValues(header []string, rows [][]string) [][]any {
	values := make([][]any, 0, len(rows)+1)
	values = append(values, stringsToAny(header))
	for _, row := range rows {
		values = append(values, stringsToAny(row))
	}
	return values
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		tokenSource = client.TokenSource(ctx, &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		})
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// liveAPI adapts *sheets.Service to spreadsheetAPI.
type liveAPI struct {
	srv *sheets.Service
}

func (a *liveAPI) Exists(ctx context.Context, spreadsheetID string) error {
	_, err := a.srv.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	return err
}

func (a *liveAPI) Create(ctx context.Context, title, sheetTitle string) (string, string, error) {
	created, err := a.srv.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: sheetTitle}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", "", err
	}
	return created.SpreadsheetId, created.SpreadsheetUrl, nil
}

func (a *liveAPI) AddSheet(ctx context.Context, spreadsheetID, sheetTitle string) error {
	_, err := a.srv.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: sheetTitle}}},
		},
	}).Context(ctx).Do()
	return err
}

func (a *liveAPI) Update(ctx context.Context, spreadsheetID, rangeStr string, values [][]any) error {
	_, err := a.srv.Spreadsheets.Values.Update(spreadsheetID, rangeStr, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}
