package tui

import (
	"time"

	"github.com/Veraticus/vendor-dash/internal/query"
	"github.com/Veraticus/vendor-dash/internal/service"
	"github.com/Veraticus/vendor-dash/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme     themes.Theme
	Backend   service.Backend
	Exports   service.ExportLog
	Location  *time.Location
	StoreID   string
	ExportDir string
	Criteria  query.Criteria
	Width     int
	Height    int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		Criteria:  query.DefaultCriteria(),
		Location:  time.Local,
		ExportDir: ".",
		Width:     100,
		Height:    30,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithCriteria sets the criteria the list opens with.
func WithCriteria(criteria query.Criteria) Option {
	return func(c *Config) {
		c.Criteria = criteria
	}
}

// WithLocation sets the time zone used for dates.
func WithLocation(loc *time.Location) Option {
	return func(c *Config) {
		if loc != nil {
			c.Location = loc
		}
	}
}

// WithExportDir sets the directory CSV exports are written to.
func WithExportDir(dir string) Option {
	return func(c *Config) {
		if dir != "" {
			c.ExportDir = dir
		}
	}
}

// WithExports records CSV exports into log.
func WithExports(log service.ExportLog) Option {
	return func(c *Config) {
		c.Exports = log
	}
}
