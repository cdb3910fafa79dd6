package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/longkey1/notionquery/internal/notion/types"
)

const (
	// DefaultBaseURL is the base URL for the Notion API
	DefaultBaseURL = "https://api.notion.com/v1"
	// DefaultNotionVersion is the Notion API version sent with every request
	DefaultNotionVersion = "2022-06-28"
)

// Client is a Notion REST API client
type Client struct {
	httpClient    *http.Client
	token         string
	baseURL       string
	notionVersion string
	logger        *zap.Logger
}

var _ types.Client = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API base URL
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithNotionVersion overrides the Notion-Version header
func WithNotionVersion(version string) Option {
	return func(c *Client) {
		if version != "" {
			c.notionVersion = version
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new Notion REST API client
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: 60 * time.Second},
		token:         token,
		baseURL:       DefaultBaseURL,
		notionVersion: DefaultNotionVersion,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search searches pages or databases shared with the integration
func (c *Client) Search(ctx context.Context, opts *types.SearchOptions) (*types.PaginatedList[types.Page], error) {
	searchReq := searchRequest{}

	if opts != nil {
		searchReq.Query = opts.Query
		searchReq.StartCursor = opts.StartCursor
		if opts.PageSize > 0 {
			searchReq.PageSize = opts.PageSize
		}
		if opts.ObjectType != "" {
			searchReq.Filter = &searchFilter{
				Value:    opts.ObjectType,
				Property: "object",
			}
		}
		if opts.Sort != "" {
			searchReq.Sort = &searchSort{
				Direction: opts.Sort,
				Timestamp: "last_edited_time",
			}
		}
	}

	var resp types.PaginatedList[types.Page]
	if err := c.do(ctx, http.MethodPost, "/search", nil, searchReq, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RetrievePage retrieves a page by ID
func (c *Client) RetrievePage(ctx context.Context, pageID string) (*types.Page, error) {
	var page types.Page
	if err := c.do(ctx, http.MethodGet, "/pages/"+url.PathEscape(pageID), nil, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListBlockChildren lists the children of a block, starting at cursor if set
func (c *Client) ListBlockChildren(ctx context.Context, blockID string, cursor string) (*types.PaginatedList[types.Block], error) {
	query := url.Values{}
	if cursor != "" {
		query.Set("start_cursor", cursor)
	}

	var resp types.PaginatedList[types.Block]
	if err := c.do(ctx, http.MethodGet, "/blocks/"+url.PathEscape(blockID)+"/children", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// QueryDatabase queries a database with an opaque filter/sort payload
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, payload map[string]any) (*types.PaginatedList[types.Page], error) {
	if payload == nil {
		payload = map[string]any{}
	}

	var resp types.PaginatedList[types.Page]
	if err := c.do(ctx, http.MethodPost, "/databases/"+url.PathEscape(databaseID)+"/query", nil, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do sends a request and decodes a successful response into out
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("notion request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr types.APIError
		if err := json.Unmarshal(respBody, &apiErr); err != nil || apiErr.Message == "" {
			return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
		}
		if apiErr.Status == 0 {
			apiErr.Status = resp.StatusCode
		}
		return &apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", c.notionVersion)
}

// Internal types for API requests

type searchRequest struct {
	Query       string        `json:"query,omitempty"`
	Sort        *searchSort   `json:"sort,omitempty"`
	Filter      *searchFilter `json:"filter,omitempty"`
	StartCursor string        `json:"start_cursor,omitempty"`
	PageSize    int           `json:"page_size,omitempty"`
}

type searchSort struct {
	Direction string `json:"direction"`
	Timestamp string `json:"timestamp"`
}

type searchFilter struct {
	Value    string `json:"value"`
	Property string `json:"property"`
}
