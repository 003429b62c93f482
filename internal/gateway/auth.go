package gateway

import (
	"context"

	"github.com/felixgeelhaar/portal/internal/domain"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against the backend. The returned token is not
// installed on the client; the session store decides what to keep.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	var res domain.AuthResult
	if err := c.sendJSON(ctx, RouteAuthLogin, RouteAuthLogin.Path, LoginRequest{Email: email, Password: password}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Signup registers a new account and returns its first token
func (c *Client) Signup(ctx context.Context, profile domain.Profile) (*domain.AuthResult, error) {
	var res domain.AuthResult
	if err := c.sendJSON(ctx, RouteAuthSignup, RouteAuthSignup.Path, profile, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Me returns the user that owns token. The token is passed explicitly so a
// persisted token can be validated before it is installed.
func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	var user domain.User
	req := request{route: RouteAuthMe, path: RouteAuthMe.Path}
	body, err := c.withToken(token).do(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := decode(body, "", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// withToken returns a shallow copy of c that sends token instead of the
// installed one.
func (c *Client) withToken(token string) *Client {
	cp := &Client{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		userAgent:  c.userAgent,
		token:      token,
		logger:     c.logger,
		metrics:    c.metrics,
		onRequest:  c.onRequest,
		onFailure:  c.onFailure,
	}
	return cp
}
