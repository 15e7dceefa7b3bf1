// Package config loads vendordash settings from viper.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/vendor-dash/internal/common"
	"github.com/Veraticus/vendor-dash/internal/sheets"
	"github.com/spf13/viper"
)

// Defaults.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultDatabasePath = "$HOME/.local/share/vendordash/vendordash.db"
	DefaultExportDir    = "."
)

// Config is the resolved application configuration.
type Config struct {
	Location    *time.Location
	BackendURL  string
	SessionPath string
	DBPath      string
	ExportDir   string
	Sheets      sheets.Config
	Timeout     time.Duration
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("backend.timeout", DefaultTimeout)
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("export.dir", DefaultExportDir)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads the configuration held by v. A missing backend URL is not an
// error here; commands that talk to the backend call RequireBackend.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		BackendURL:  strings.TrimRight(strings.TrimSpace(v.GetString("backend.url")), "/"),
		Timeout:     v.GetDuration("backend.timeout"),
		SessionPath: ExpandPath(v.GetString("session.path")),
		DBPath:      ExpandPath(v.GetString("database.path")),
		ExportDir:   ExpandPath(v.GetString("export.dir")),
		Location:    time.Local,
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.DBPath == "" {
		cfg.DBPath = ExpandPath(DefaultDatabasePath)
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = DefaultExportDir
	}

	if tz := strings.TrimSpace(v.GetString("timezone")); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("%w: timezone %q: %v", common.ErrInvalidConfig, tz, err)
		}
		cfg.Location = loc
	}

	if cfg.BackendURL != "" {
		u, err := url.Parse(cfg.BackendURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%w: backend.url %q is not an absolute URL", common.ErrInvalidConfig, cfg.BackendURL)
		}
	}

	cfg.Sheets = loadSheets(v)

	return cfg, nil
}

// RequireBackend returns an error when no backend URL is configured.
func (c *Config) RequireBackend() error {
	if c.BackendURL == "" {
		return fmt.Errorf("%w: backend.url (set it in config.yaml or VENDORDASH_BACKEND_URL)", common.ErrMissingConfig)
	}
	return nil
}

// loadSheets reads the sheets.* keys, falling back to GOOGLE_SHEETS_* variables.
func loadSheets(v *viper.Viper) sheets.Config {
	cfg := sheets.DefaultConfig()

	pick := func(key, env string) string {
		if s := v.GetString(key); s != "" {
			return s
		}
		return os.Getenv(env)
	}

	cfg.ServiceAccountPath = ExpandPath(pick("sheets.service_account_path", "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"))
	cfg.ClientID = pick("sheets.client_id", "GOOGLE_SHEETS_CLIENT_ID")
	cfg.ClientSecret = pick("sheets.client_secret", "GOOGLE_SHEETS_CLIENT_SECRET")
	cfg.RefreshToken = pick("sheets.refresh_token", "GOOGLE_SHEETS_REFRESH_TOKEN")
	cfg.SpreadsheetID = pick("sheets.spreadsheet_id", "GOOGLE_SHEETS_SPREADSHEET_ID")
	if name := pick("sheets.spreadsheet_name", "GOOGLE_SHEETS_SPREADSHEET_NAME"); name != "" {
		cfg.SpreadsheetName = name
	}

	return cfg
}

// ExpandPath expands a leading ~ and any $VAR references in path.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return os.ExpandEnv(path)
}
