package common

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Is(t *testing.T) {
	err := fmt.Errorf("fetch stores: %w", &APIError{Path: "/vendor/profile", StatusCode: 401, Message: "Not Authorized"})

	assert.ErrorIs(t, err, ErrApplicationFailure)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, IsAuthFailure(err))

	rejected := &APIError{Path: "/vendor/login", StatusCode: 200, Message: "Invalid credentials"}
	assert.ErrorIs(t, rejected, ErrApplicationFailure)
	assert.NotErrorIs(t, rejected, ErrUnauthorized)
	assert.Contains(t, rejected.Error(), "Invalid credentials")
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "backend message", err: fmt.Errorf("wrap: %w", &APIError{Message: "Store not found"}), want: "Store not found"},
		{name: "backend without message", err: &APIError{StatusCode: 500}, want: DefaultUserMessage},
		{name: "user error", err: NewUserError("Transaction not found", ErrNotFound), want: "Transaction not found"},
		{name: "network", err: fmt.Errorf("%w: dial tcp", ErrNetworkFailure), want: "Network error: backend unreachable"},
		{name: "other", err: errors.New("boom"), want: DefaultUserMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestUserError_Unwrap(t *testing.T) {
	err := NewUserError("Transaction not found", ErrNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Transaction not found: not found", err.Error())
	assert.Equal(t, "plain", NewUserError("plain", nil).Error())
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	_, err = ParseLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)

	logger.Info("export.csv.ok", "rows", 3)
	assert.Contains(t, buf.String(), `"rows":3`)

	_, err = NewLogger(&buf, slog.LevelInfo, "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	assert.NotNil(t, OrDefault(nil))
	assert.Same(t, logger, OrDefault(logger))
}
