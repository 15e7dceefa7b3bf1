package vendorapi

import (
	"context"
	"net/http"

	"github.com/Veraticus/vendor-dash/internal/model"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Login authenticates the vendor and returns its profile. The session
// cookie stays in the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) (*model.Vendor, error) {
	body := credentials{Email: email, Password: password, Role: "vendor"}
	if err := c.do(ctx, http.MethodPost, c.endpoint("vendor", "login"), body, nil); err != nil {
		return nil, err
	}
	return c.Profile(ctx)
}

// Profile returns the logged-in vendor.
func (c *Client) Profile(ctx context.Context) (*model.Vendor, error) {
	var resp struct {
		Vendor model.Vendor `json:"vendor"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint("vendor", "profile"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Vendor, nil
}

// Logout ends the session on the backend.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, c.endpoint("vendor", "logout"), nil, nil)
}

// Message is the text the backend attached to an action's reply.
type Message struct {
	Text string `json:"message"`
}

// SendResetOTP asks the backend to email a password-reset code.
func (c *Client) SendResetOTP(ctx context.Context, email string) (string, error) {
	var resp Message
	body := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, c.endpoint("auth", "send-reset-otp"), body, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

// ResetPassword sets a new password using the emailed code.
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) (string, error) {
	var resp Message
	body := map[string]string{"email": email, "otp": otp, "newPassword": newPassword}
	if err := c.do(ctx, http.MethodPost, c.endpoint("auth", "reset-password"), body, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}
