// Package jira implements the issue gateway: the HTTP client that
// searches, creates, and updates tracked issues.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxErrorBody caps how much of an error payload is kept for logging.
const maxErrorBody = 4096

// Config holds the connection settings for the tracking service.
type Config struct {
	// BaseURL is the service root, e.g. "https://tracker.example.com".
	BaseURL string

	// Email and Token form the basic-auth credential. The token is an
	// opaque API token, not a password.
	Email string
	Token string

	// Timeout bounds each HTTP call. Defaults to 30 seconds.
	Timeout time.Duration

	// HTTPClient overrides the transport, used by tests.
	HTTPClient *http.Client
}

// Client talks to the tracking service's REST API.
type Client struct {
	baseURL string
	email   string
	token   string
	client  *http.Client
}

// NewClient creates a gateway client from config.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("tracking service base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		email:   cfg.Email,
		token:   cfg.Token,
		client:  httpClient,
	}, nil
}

// SearchPage runs one page of an issue search. Only the requested fields
// are returned per issue.
func (c *Client) SearchPage(ctx context.Context, jql string, startAt, maxResults int, fields []string) (*SearchPage, error) {
	body := searchRequest{
		JQL:        jql,
		StartAt:    startAt,
		MaxResults: maxResults,
		Fields:     fields,
	}

	var page SearchPage
	if err := c.do(ctx, http.MethodPost, "/rest/api/2/search", body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateIssue submits a new tracked issue and returns its key.
func (c *Client) CreateIssue(ctx context.Context, req CreateRequest) (string, error) {
	payload := createPayload{
		Fields: createFields{
			Project:     keyRef{Key: req.ProjectKey},
			Summary:     req.Summary,
			IssueType:   idRef{ID: req.IssueTypeID},
			Description: req.Description,
		},
	}
	if req.ParentKey != "" {
		payload.Fields.Parent = &keyRef{Key: req.ParentKey}
	}
	if req.Component != "" {
		payload.Fields.Components = []nameRef{{Name: req.Component}}
	}

	var resp createResponse
	if err := c.do(ctx, http.MethodPost, "/rest/api/2/issue", payload, &resp); err != nil {
		return "", err
	}
	return resp.Key, nil
}

// UpdateIssue replaces the description and parent of an existing issue.
func (c *Client) UpdateIssue(ctx context.Context, key string, req UpdateRequest) error {
	payload := updatePayload{
		Fields: updateFields{
			Description: req.Description,
		},
	}
	if req.ParentKey != "" {
		payload.Fields.Parent = &keyRef{Key: req.ParentKey}
	}

	return c.do(ctx, http.MethodPut, "/rest/api/2/issue/"+url.PathEscape(key), payload, nil)
}

// do issues one authenticated JSON request and decodes the response into
// out (when out is non-nil). Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.email, c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(detail)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
