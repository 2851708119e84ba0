package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/seniko/internal/common"
)

// User is the public view of a registered account.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Client is the SeNiko API contract used by the CLI.
type Client interface {
	Register(ctx context.Context, username, email string, password []byte) (*User, error)
	Login(ctx context.Context, email string, password []byte) (string, error)
	Me(ctx context.Context, token string) (string, error)
}

// HTTPClient talks to the SeNiko HTTP API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient creates a client for the server at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and returns it.
func (c *HTTPClient) Register(ctx context.Context, username, email string, password []byte) (*User, error) {
	var u User
	err := c.do(ctx, http.MethodPost, "/auth/register", "", registerRequest{
		Username: username,
		Password: string(password),
		Email:    email,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for a signed token.
func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: string(password)}, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// Me resolves token to the user ID it was issued for.
func (c *HTTPClient) Me(ctx context.Context, token string) (string, error) {
	var out struct {
		UserID string `json:"userId"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &out); err != nil {
		return "", err
	}
	return out.UserID, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
