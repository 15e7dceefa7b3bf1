package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/vendor-dash/internal/common"
	"github.com/Veraticus/vendor-dash/internal/config"
	"github.com/Veraticus/vendor-dash/internal/model"
	"github.com/Veraticus/vendor-dash/internal/service"
	"github.com/Veraticus/vendor-dash/internal/session"
	"github.com/Veraticus/vendor-dash/internal/storage"
	"github.com/Veraticus/vendor-dash/internal/vendorapi"
	"github.com/spf13/viper"
)

// app bundles what a backend-facing command needs.
type app struct {
	cfg      *config.Config
	client   *vendorapi.Client
	sessions *session.Manager
}

// loadConfig resolves the viper configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError(err.Error(), err)
	}
	return cfg, nil
}

// newApp builds the backend client and session manager without requiring a
// saved session.
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireBackend(); err != nil {
		return nil, common.NewUserError(err.Error(), err)
	}

	client, err := vendorapi.New(cfg.BackendURL, cfg.Timeout, slog.Default())
	if err != nil {
		return nil, err
	}

	sessionPath := cfg.SessionPath
	if sessionPath == "" {
		if sessionPath, err = session.DefaultPath(); err != nil {
			return nil, fmt.Errorf("failed to resolve session path: %w", err)
		}
	}

	return &app{
		cfg:      cfg,
		client:   client,
		sessions: session.NewManager(client, session.NewStore(sessionPath), slog.Default()),
	}, nil
}

// newAuthedApp is newApp plus a restored session.
func newAuthedApp() (*app, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	if _, err := a.sessions.Restore(); err != nil {
		if errors.Is(err, common.ErrNotLoggedIn) {
			return nil, common.NewUserError("You are not logged in", err)
		}
		return nil, err
	}
	return a, nil
}

// backend exposes the client through the interface the TUI and exporters use.
func (a *app) backend() service.Backend {
	return a.client
}

// openExportLog opens the export history database and brings its schema up to date.
func openExportLog(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// recordExport adds rec to the export history. History is best effort: a
// failure is logged and never fails the export itself.
func recordExport(ctx context.Context, cfg *config.Config, rec *model.ExportRecord) {
	store, err := openExportLog(ctx, cfg)
	if err != nil {
		slog.Warn("Export history unavailable", "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	if err := store.RecordExport(ctx, rec); err != nil {
		slog.Warn("Failed to record export", "error", err, "target", rec.Target)
	}
}

// createExportFile creates name inside dir, creating dir if needed.
func createExportFile(dir, name string) (*os.File, string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return nil, "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, path, nil
}

// writeExportFile creates name in dir and fills it with write.
func writeExportFile(dir, name string, write func(f *os.File) error) (string, error) {
	f, path, err := createExportFile(dir, name)
	if err != nil {
		return "", err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}
