package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"

	authdomain "github.com/taskfolio/taskfolio-web/internal/auth/domain"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type userEnvelope struct {
	User *authdomain.User `json:"user"`
}

// Auth asks the backend who owns the current session cookie. A 2xx without
// a user means anonymous and returns (nil, nil).
func (c *Client) Auth(ctx context.Context) (*authdomain.User, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, "/users/auth", nil, nil)
	if err != nil {
		return nil, err
	}
	var env userEnvelope
	if err := c.do(ctx, "auth", c.defaultClient, req, &env); err != nil {
		return nil, err
	}
	return env.User, nil
}

// Login posts credentials and returns the signed-in user. The session cookie
// the backend sets lands in the bound jar.
func (c *Client) Login(ctx context.Context, in LoginRequest) (*authdomain.User, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/users/login", nil, in)
	if err != nil {
		return nil, err
	}
	var env userEnvelope
	if err := c.do(ctx, "login", c.defaultClient, req, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, fmt.Errorf("login: response has no user")
	}
	return env.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/users/logout", nil, nil)
	if err != nil {
		return err
	}
	return c.do(ctx, "logout", c.defaultClient, req, nil)
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) error {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/users/register", nil, in)
	if err != nil {
		return err
	}
	return c.do(ctx, "register", c.defaultClient, req, nil)
}

// Ping sends an anonymous auth probe and returns the raw status code. It
// bypasses the jar, the limiter and request logging; the backend monitor
// calls it on a schedule.
func (c *Client) Ping(ctx context.Context) (int, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, "/users/auth", nil, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.defaultClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ping: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
