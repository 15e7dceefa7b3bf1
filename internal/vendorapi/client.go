// Package vendorapi is the HTTP client for the vendor backend.
package vendorapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/vendor-dash/internal/common"
	"github.com/google/uuid"
)

// Client talks to the vendor backend. Session cookies live in its cookie jar.
// Calls are never retried.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// envelope is the wrapper every backend response carries.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// New creates a client for baseURL with an empty cookie jar.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: backend url %q", common.ErrInvalidConfig, baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		base:       base,
		httpClient: &http.Client{Timeout: timeout, Jar: jar},
		logger:     common.OrDefault(logger),
	}, nil
}

// BaseURL returns the backend root the client was created with.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Cookies returns the cookies the backend has set for its root or for the
// login endpoint. A login cookie without a Path is scoped below the root.
func (c *Client) Cookies() []*http.Cookie {
	seen := make(map[string]bool)
	var cookies []*http.Cookie
	for _, raw := range []string{c.base.String(), c.endpoint("vendor", "login")} {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		for _, ck := range c.httpClient.Jar.Cookies(u) {
			if seen[ck.Name] {
				continue
			}
			seen[ck.Name] = true
			cookies = append(cookies, ck)
		}
	}
	return cookies
}

// SetCookies loads previously saved session cookies.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	c.httpClient.Jar.SetCookies(c.base, cookies)
}

// ClearCookies drops every cookie held by the client.
func (c *Client) ClearCookies() {
	jar, _ := cookiejar.New(nil)
	c.httpClient.Jar = jar
}

func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.base.String() + "/" + strings.Join(escaped, "/")
}

// do sends one request and decodes the envelope plus payload into out.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	reqID := uuid.New().String()
	start := time.Now()

	var reader io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	path := req.URL.Path
	c.logger.Debug("vendorapi.request", "req_id", reqID, "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("vendorapi.send_error",
			"req_id", reqID,
			"path", path,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s %s: %w", common.ErrNetworkFailure, method, path, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("vendorapi.response_body_close_error", "req_id", reqID, "error", cerr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", common.ErrNetworkFailure, err)
	}

	c.logger.Info("vendorapi.response",
		"req_id", reqID,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds())

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode/100 != 2 {
		return &common.APIError{Path: path, StatusCode: resp.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: %s: malformed response: %w", common.ErrApplicationFailure, path, decodeErr)
	}
	if env.Success != nil && !*env.Success {
		return &common.APIError{Path: path, StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: %s: decode payload: %w", common.ErrApplicationFailure, path, err)
		}
	}
	return nil
}

// IsNetworkFailure reports whether err came from the transport rather than
// the backend.
func IsNetworkFailure(err error) bool {
	return errors.Is(err, common.ErrNetworkFailure)
}
