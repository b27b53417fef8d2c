// Package client provides a Go client for the sortstore HTTP API. The
// bearer token is an explicit argument on every authenticated call; the
// client holds no mutable session state.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client calls the sortstore API at a fixed base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the given base URL. If httpClient is nil,
// http.DefaultClient is used.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// AuthResponse is the body of successful register and login calls.
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ChangePasswordResponse is the body of a successful password change.
type ChangePasswordResponse struct {
	Message  string `json:"message"`
	NewToken string `json:"newToken"`
}

// ArrayResponse is the body of successful array mutations.
type ArrayResponse struct {
	Message string `json:"message"`
	Array   []int  `json:"array"`
}

// HistoryEntry is one row of the request history listing.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	Endpoint  string    `json:"endpoint"`
	Timestamp time.Time `json:"timestamp"`
}

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// Register creates an account and returns its first token.
func (c *Client) Register(ctx context.Context, username, password string) (AuthResponse, error) {
	var out AuthResponse
	q := url.Values{"username": {username}, "password": {password}}
	err := c.do(ctx, http.MethodPost, "/register", q, "", &out)
	return out, err
}

// Login authenticates and returns a fresh token, invalidating any prior
// one.
func (c *Client) Login(ctx context.Context, username, password string) (AuthResponse, error) {
	var out AuthResponse
	q := url.Values{"username": {username}, "password": {password}}
	err := c.do(ctx, http.MethodPost, "/login", q, "", &out)
	return out, err
}

// ChangePassword sets a new password. The passed token stops working; use
// the returned one afterwards.
func (c *Client) ChangePassword(ctx context.Context, token, newPassword string) (ChangePasswordResponse, error) {
	var out ChangePasswordResponse
	q := url.Values{"newPassword": {newPassword}}
	err := c.do(ctx, http.MethodPatch, "/change_password", q, token, &out)
	return out, err
}

// CreateArray generates a random array of the given size, replacing any
// stored one.
func (c *Client) CreateArray(ctx context.Context, token string, size int) (ArrayResponse, error) {
	var out ArrayResponse
	q := url.Values{"size": {strconv.Itoa(size)}}
	err := c.do(ctx, http.MethodPost, "/array/create", q, token, &out)
	return out, err
}

// PatchArray updates the stored array. newSize regenerates it randomly;
// newValues replaces it verbatim and wins when both are given.
func (c *Client) PatchArray(ctx context.Context, token string, newSize *int, newValues []int) (ArrayResponse, error) {
	var out ArrayResponse
	q := url.Values{}
	if newSize != nil {
		q.Set("newSize", strconv.Itoa(*newSize))
	}
	for _, v := range newValues {
		q.Add("newValues", strconv.Itoa(v))
	}
	err := c.do(ctx, http.MethodPatch, "/array", q, token, &out)
	return out, err
}

// GetArray returns the stored array.
func (c *Client) GetArray(ctx context.Context, token string) ([]int, error) {
	var out struct {
		Array []int `json:"array"`
	}
	err := c.do(ctx, http.MethodGet, "/array", nil, token, &out)
	return out.Array, err
}

// SortShell sorts the stored array ascending and persists the result.
func (c *Client) SortShell(ctx context.Context, token string) (ArrayResponse, error) {
	var out ArrayResponse
	err := c.do(ctx, http.MethodPost, "/array/sort/shell", nil, token, &out)
	return out, err
}

// History returns the request history, newest first.
func (c *Client) History(ctx context.Context, token string) ([]HistoryEntry, error) {
	var out []HistoryEntry
	err := c.do(ctx, http.MethodGet, "/requests_history", nil, token, &out)
	return out, err
}

// ClearHistory deletes the request history.
func (c *Client) ClearHistory(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/requests_history", nil, token, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage pulls the human-readable text out of an error body, which
// the service writes under "error" (or "message" for the patch no-op).
func errorMessage(resp *http.Response) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return resp.Status
	}
	if body.Error != "" {
		return body.Error
	}
	if body.Message != "" {
		return body.Message
	}
	return resp.Status
}
