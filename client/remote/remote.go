// Package remote talks to the tutomate backend: the anonymous session
// endpoint, the license activation endpoint, and the organization-scoped
// table API.
package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/rlawlghkd12/tutomate-sub000/client/mapper"
)

// APIError is a non-2xx backend response with its wire error code
type APIError struct {
	Status int
	Code   string
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Code, e.Detail)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Code)
}

// errorBody mirrors the backend's error envelope
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// Client is the HTTP client for the backend. The token provider is consulted
// on every request so a session refresh needs no client rebuild.
type Client struct {
	http  *resty.Client
	token func() string
}

// New creates a backend client. token may be nil for unauthenticated use.
func New(baseURL string, token func() string) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json"),
		token: token,
	}
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if t := c.token(); t != "" {
		req.SetAuthToken(t)
	}
	return req
}

// apiError turns a non-2xx response into an APIError
func apiError(resp *resty.Response) error {
	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err != nil || body.Error == "" {
		return &APIError{Status: resp.StatusCode(), Code: "internal_error"}
	}
	return &APIError{Status: resp.StatusCode(), Code: body.Error, Detail: body.Detail}
}

// SessionResult is a freshly minted anonymous session
type SessionResult struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
}

// CreateAnonymousSession creates an anonymous user and returns its token
func (c *Client) CreateAnonymousSession(ctx context.Context) (*SessionResult, error) {
	var result SessionResult
	resp, err := c.http.R().SetContext(ctx).
		SetResult(&result).
		Post("/api/v1/auth/anonymous")
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &result, nil
}

// ActivateResult is the activation endpoint's success payload
type ActivateResult struct {
	OrganizationID string `json:"organization_id"`
	IsNewOrg       bool   `json:"is_new_org"`
	Plan           string `json:"plan"`
}

// Activate runs the license activation protocol on the backend
func (c *Client) Activate(ctx context.Context, licenseKey, deviceID string) (*ActivateResult, error) {
	var result ActivateResult
	resp, err := c.request(ctx).
		SetBody(map[string]string{
			"license_key": licenseKey,
			"device_id":   deviceID,
		}).
		SetResult(&result).
		Post("/api/v1/license/activate")
	if err != nil {
		return nil, fmt.Errorf("activate: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &result, nil
}

// Select returns all rows of the caller's organization in the table
func (c *Client) Select(ctx context.Context, table string) ([]mapper.Row, error) {
	var result struct {
		Rows []mapper.Row `json:"rows"`
	}
	resp, err := c.request(ctx).
		SetResult(&result).
		Get("/api/v1/tables/" + table)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return result.Rows, nil
}

// Insert stores a row in the table
func (c *Client) Insert(ctx context.Context, table string, row mapper.Row) error {
	resp, err := c.request(ctx).
		SetBody(row).
		Post("/api/v1/tables/" + table)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// Update applies a partial update to the row with the id
func (c *Client) Update(ctx context.Context, table, id string, updates mapper.Row) error {
	resp, err := c.request(ctx).
		SetBody(updates).
		Patch("/api/v1/tables/" + table + "/" + id)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", table, id, err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// Delete removes the row with the id
func (c *Client) Delete(ctx context.Context, table, id string) error {
	resp, err := c.request(ctx).
		Delete("/api/v1/tables/" + table + "/" + id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", table, id, err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}
