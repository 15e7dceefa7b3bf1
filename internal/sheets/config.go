// Package sheets writes transaction exports to Google Sheets.
package sheets

import (
	"errors"
	"time"
)

// Configuration errors.
var (
	ErrNoAuth        = errors.New("no authentication method configured")
	ErrMultipleAuth  = errors.New("multiple authentication methods configured; use either OAuth2 or service account")
	ErrBadBatchSize  = errors.New("batch size must be positive")
	ErrBadRetryCount = errors.New("retry attempts cannot be negative")
	ErrBadRetryDelay = errors.New("retry delay cannot be negative")
)

// Config holds the configuration for the Google Sheets writer.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName: "Vendor Transactions",
		BatchSize:       1000,
		RetryAttempts:   3,
		RetryDelay:      time.Second,
	}
}

// Configured reports whether any credentials were supplied at all.
func (c *Config) Configured() bool {
	return c.ServiceAccountPath != "" || c.ClientID != "" || c.RefreshToken != ""
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	hasOAuth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	hasServiceAccount := c.ServiceAccountPath != ""

	switch {
	case !hasOAuth && !hasServiceAccount:
		return ErrNoAuth
	case hasOAuth && hasServiceAccount:
		return ErrMultipleAuth
	case c.BatchSize <= 0:
		return ErrBadBatchSize
	case c.RetryAttempts < 0:
		return ErrBadRetryCount
	case c.RetryDelay < 0:
		return ErrBadRetryDelay
	}

	return nil
}
