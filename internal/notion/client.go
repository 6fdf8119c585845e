// Package notion is a thin typed client for the Notion REST API, covering
// the handful of endpoints the project-management tooling needs. Write
// operations are disabled unless NOTION_ALLOW_WRITE is explicitly set, so
// the integration stays read-only by default.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"
)

var (
	// ErrMissingToken indicates no NOTION_TOKEN was provided.
	ErrMissingToken = errors.New("notion: missing API token")

	// ErrWriteDisabled indicates a mutation was attempted without
	// NOTION_ALLOW_WRITE set. Writes must be opted into per task.
	ErrWriteDisabled = errors.New("notion: write operations are disabled, set NOTION_ALLOW_WRITE=true to enable")
)

// APIError is a non-2xx response from the Notion API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion: %s (%d): %s", e.Code, e.Status, e.Message)
}

// Client calls the Notion REST API.
type Client struct {
	http       *http.Client
	baseURL    string
	token      string
	allowWrite bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithWriteAccess enables or disables mutating calls.
func WithWriteAccess(allow bool) Option {
	return func(c *Client) { c.allowWrite = allow }
}

// NewClient creates a client authenticating with the given integration token.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	c := &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClientFromEnv creates a client from NOTION_TOKEN and NOTION_ALLOW_WRITE.
func NewClientFromEnv(opts ...Option) (*Client, error) {
	base := []Option{WithWriteAccess(WriteAllowedFromEnv())}
	return NewClient(os.Getenv("NOTION_TOKEN"), append(base, opts...)...)
}

// WriteAllowedFromEnv reports whether NOTION_ALLOW_WRITE opts into writes.
func WriteAllowedFromEnv() bool {
	switch strings.ToLower(os.Getenv("NOTION_ALLOW_WRITE")) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// Search runs a workspace search. An empty query returns recently shared
// objects, matching the API's behavior.
func (c *Client) Search(ctx context.Context, query string, pageSize int) ([]Result, error) {
	body := map[string]any{"page_size": pageSize}
	if strings.TrimSpace(query) != "" {
		body["query"] = query
	}

	var resp struct {
		Results []Result `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, "/search", body, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// SearchDatabases returns the databases visible to the integration.
func (c *Client) SearchDatabases(ctx context.Context, pageSize int) ([]Result, error) {
	results, err := c.Search(ctx, "", pageSize)
	if err != nil {
		return nil, err
	}
	var dbs []Result
	for _, r := range results {
		if r.Object == "database" {
			dbs = append(dbs, r)
		}
	}
	return dbs, nil
}

// RetrieveDatabase fetches a database's metadata (title and schema).
func (c *Client) RetrieveDatabase(ctx context.Context, databaseID string) (*Result, error) {
	var db Result
	if err := c.do(ctx, http.MethodGet, "/databases/"+url.PathEscape(databaseID), nil, &db); err != nil {
		return nil, err
	}
	return &db, nil
}

// QueryDatabase returns up to pageSize rows of a database.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, pageSize int) ([]Result, error) {
	body := map[string]any{"page_size": pageSize}

	var resp struct {
		Results []Result `json:"results"`
	}
	path := "/databases/" + url.PathEscape(databaseID) + "/query"
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// ListBlockChildren returns all direct children of a block or page,
// following next_cursor until the listing is exhausted.
func (c *Client) ListBlockChildren(ctx context.Context, blockID string) ([]Block, error) {
	var all []Block
	cursor := ""
	for {
		path := "/blocks/" + url.PathEscape(blockID) + "/children?page_size=100"
		if cursor != "" {
			path += "&start_cursor=" + url.QueryEscape(cursor)
		}

		var resp struct {
			Results    []Block `json:"results"`
			HasMore    bool    `json:"has_more"`
			NextCursor string  `json:"next_cursor"`
		}
		if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Results...)
		if !resp.HasMore {
			return all, nil
		}
		cursor = resp.NextCursor
	}
}

// AppendBlockChildren appends blocks to a page or block. Write-gated.
func (c *Client) AppendBlockChildren(ctx context.Context, blockID string, children []Block) error {
	if !c.allowWrite {
		return ErrWriteDisabled
	}
	body := map[string]any{"children": children}
	path := "/blocks/" + url.PathEscape(blockID) + "/children"
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

// UpdateBlock patches a single block's content. Write-gated.
func (c *Client) UpdateBlock(ctx context.Context, blockID string, patch map[string]any) error {
	if !c.allowWrite {
		return ErrWriteDisabled
	}
	return c.do(ctx, http.MethodPatch, "/blocks/"+url.PathEscape(blockID), patch, nil)
}

// UpdatePage patches a page's properties. Write-gated.
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties map[string]any) error {
	if !c.allowWrite {
		return ErrWriteDisabled
	}
	body := map[string]any{"properties": properties}
	return c.do(ctx, http.MethodPatch, "/pages/"+url.PathEscape(pageID), body, nil)
}

// Me returns the bot user the token authenticates as. Useful as a
// connectivity check.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// do performs one API call: JSON in, JSON out, errors decoded into APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("notion: encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("notion: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("notion: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Message = resp.Status
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("notion: decode response: %w", err)
	}
	return nil
}
