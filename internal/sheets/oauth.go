package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// DefaultCallbackAddr is where the local OAuth2 callback server listens.
const DefaultCallbackAddr = "localhost:8080"

// AuthTimeout bounds how long Authorize waits for the browser round trip.
const AuthTimeout = 5 * time.Minute

// Authorization errors.
var (
	ErrNoClientCredentials = errors.New("oauth2 client id and secret are required")
	ErrStateMismatch       = errors.New("oauth2 state mismatch")
	ErrNoAuthCode          = errors.New("no authorization code received")
)

// OAuth2Config holds what the interactive flow needs.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	// TokenFile, when set, receives the obtained token.
	TokenFile string
	// Addr is the callback listen address; DefaultCallbackAddr when empty.
	Addr string
}

func (c OAuth2Config) addr() string {
	if c.Addr == "" {
		return DefaultCallbackAddr
	}
	return c.Addr
}

func (c OAuth2Config) oauth2() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "http://" + c.addr() + "/callback",
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
}

// Authorize runs the browser consent flow and returns a token carrying a
// refresh token. openURL is handed the consent URL; it may be nil.
func Authorize(ctx context.Context, config OAuth2Config, openURL func(string)) (*oauth2.Token, error) {
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, ErrNoClientCredentials
	}
	oauthConfig := config.oauth2()

	listener, err := net.Listen("tcp", config.addr())
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}

	cb := newCallback(uuid.NewString())
	mux := http.NewServeMux()
	mux.Handle("/callback", cb)
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cb.fail(fmt.Errorf("callback server: %w", err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Error shutting down callback server", "error", err)
		}
	}()

	authURL := oauthConfig.AuthCodeURL(cb.state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	slog.Info("Waiting for Google Sheets authorization", "url", authURL)
	if openURL != nil {
		openURL(authURL)
	}

	var code string
	select {
	case code = <-cb.codes:
	case err := <-cb.errs:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(AuthTimeout):
		return nil, fmt.Errorf("authorization timed out after %s", AuthTimeout)
	}

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if config.TokenFile != "" {
		if err := SaveToken(config.TokenFile, token); err != nil {
			slog.Warn("Failed to save token", "error", err, "file", config.TokenFile)
		}
	}
	return token, nil
}

// callback receives the redirect from Google's consent screen.
type callback struct {
	codes chan string
	errs  chan error
	state string
}

func newCallback(state string) *callback {
	return &callback{
		state: state,
		codes: make(chan string, 1),
		errs:  make(chan error, 1),
	}
}

func (c *callback) fail(err error) {
	select {
	case c.errs <- err:
	default:
	}
}

func (c *callback) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Get("state") != c.state:
		c.fail(ErrStateMismatch)
		http.Error(w, "Authorization failed: state mismatch.", http.StatusBadRequest)
		return
	case q.Get("code") == "":
		c.fail(fmt.Errorf("%w: %s", ErrNoAuthCode, q.Get("error")))
		http.Error(w, "Authorization failed: no code received.", http.StatusBadRequest)
		return
	}

	select {
	case c.codes <- q.Get("code"):
	default:
	}
	_, _ = fmt.Fprint(w, "Authorization complete. You can close this window and return to the terminal.")
}

// LoadToken reads a token saved by SaveToken.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, err
	}
	token := &oauth2.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return token, nil
}

// SaveToken writes token to path, readable by the owner only.
func SaveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}
