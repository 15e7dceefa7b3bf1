// Package session persists the backend session between command invocations.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/vendor-dash/internal/common"
	"github.com/Veraticus/vendor-dash/internal/model"
)

// Session is an authenticated vendor session. It exists only between a
// successful login and the matching logout.
type Session struct {
	CreatedAt  time.Time     `json:"created_at"`
	Vendor     *model.Vendor `json:"vendor"`
	BackendURL string        `json:"backend_url"`
	Cookies    []Cookie      `json:"cookies"`
}

// Cookie is a saved backend cookie.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Client is the part of the backend client a session needs.
type Client interface {
	Login(ctx context.Context, email, password string) (*model.Vendor, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*model.Vendor, error)
	BaseURL() string
	Cookies() []*http.Cookie
	SetCookies(cookies []*http.Cookie)
	ClearCookies()
}

// DefaultPath returns $XDG_DATA_HOME/vendordash/session.json, falling back
// to ~/.local/share when XDG_DATA_HOME is unset.
func DefaultPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "vendordash", "session.json"), nil
}

// Store reads and writes the session file.
type Store struct {
	path string
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the session file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the saved session. A missing file yields common.ErrNotLoggedIn.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, common.ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: corrupt session file: %v", common.ErrNotLoggedIn, err)
	}
	return &sess, nil
}

// Save writes the session, readable by the owner only.
func (s *Store) Save(sess *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Delete removes the session file. Deleting a missing session is not an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Manager creates, restores and destroys sessions for one client.
type Manager struct {
	client Client
	store  *Store
	logger *slog.Logger
	now    func() time.Time
}

// NewManager returns a manager for client persisting to store.
func NewManager(client Client, store *Store, logger *slog.Logger) *Manager {
	return &Manager{
		client: client,
		store:  store,
		logger: common.OrDefault(logger),
		now:    time.Now,
	}
}

// Login authenticates and saves the new session.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	vendor, err := m.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		CreatedAt:  m.now(),
		Vendor:     vendor,
		BackendURL: m.client.BaseURL(),
	}
	for _, c := range m.client.Cookies() {
		sess.Cookies = append(sess.Cookies, Cookie{Name: c.Name, Value: c.Value})
	}

	if err := m.store.Save(sess); err != nil {
		return nil, err
	}

	m.logger.Info("session created", "vendor", vendor.Email, "cookies", len(sess.Cookies))
	return sess, nil
}

// Restore loads the saved session into the client's cookie jar. A session
// saved against a different backend is treated as absent.
func (m *Manager) Restore() (*Session, error) {
	sess, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	if sess.BackendURL != m.client.BaseURL() {
		m.logger.Debug("ignoring session for another backend", "saved", sess.BackendURL)
		return nil, common.ErrNotLoggedIn
	}

	cookies := make([]*http.Cookie, 0, len(sess.Cookies))
	for _, c := range sess.Cookies {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	m.client.SetCookies(cookies)
	return sess, nil
}

// Status returns the current vendor, or common.ErrNotLoggedIn when there is
// no session or the backend no longer accepts it.
func (m *Manager) Status(ctx context.Context) (*model.Vendor, error) {
	if _, err := m.Restore(); err != nil {
		return nil, err
	}

	vendor, err := m.client.Profile(ctx)
	if err != nil {
		if errors.Is(err, common.ErrApplicationFailure) {
			m.logger.Debug("saved session rejected", "error", err)
			return nil, common.ErrNotLoggedIn
		}
		return nil, err
	}
	return vendor, nil
}

// Logout ends the session. The local session is destroyed even when the
// backend call fails; that failure is still returned.
func (m *Manager) Logout(ctx context.Context) error {
	var backendErr error
	if _, err := m.Restore(); err == nil {
		backendErr = m.client.Logout(ctx)
	}

	m.client.ClearCookies()
	if err := m.store.Delete(); err != nil {
		return err
	}

	if backendErr != nil {
		m.logger.Warn("backend logout failed; local session removed", "error", backendErr)
		return fmt.Errorf("logout: %w", backendErr)
	}
	m.logger.Info("session destroyed")
	return nil
}
