// Package gomag is a thin client for the Gomag public API. Every
// operation is a POST of a JSON payload to <base>/<path>/json with the
// shop's Apikey/ApiShop headers.
package gomag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gomag-importer/internal/types"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.gomag.ro/api/v1"

// Client talks to one shop's Gomag API.
type Client struct {
	baseURL string
	apiKey  string
	apiShop string
	http    *http.Client
	logger  types.Logger
}

// NewClient creates a Gomag client. baseURL may be empty to use the
// production endpoint.
func NewClient(baseURL, apiKey, apiShop string, logger types.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		apiShop: strings.TrimSuffix(apiShop, "/"),
		http:    &http.Client{Timeout: 90 * time.Second},
		logger:  logger,
	}
}

// Category is one shop category as returned by category/read.
type Category struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ParentID int    `json:"parent_id,omitempty"`
}

// ProductWrite creates or updates one product.
func (c *Client) ProductWrite(ctx context.Context, record types.ImportRecord) error {
	_, err := c.post(ctx, "product/write", BuildPayload(record))
	return err
}

// CategoryRead lists the shop's categories for the review UI.
func (c *Client) CategoryRead(ctx context.Context, limit int) ([]Category, error) {
	if limit <= 0 {
		limit = 5000
	}
	data, err := c.post(ctx, "category/read", map[string]interface{}{"limit": limit})
	if err != nil {
		return nil, err
	}

	var categories []Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode category list: %w", err)
	}
	return categories, nil
}

// CategoryWrite creates a category, optionally under a parent.
func (c *Client) CategoryWrite(ctx context.Context, name string, parentID int) error {
	payload := map[string]interface{}{"name": name}
	if parentID > 0 {
		payload["parent_id"] = parentID
	}
	_, err := c.post(ctx, "category/write", payload)
	return err
}

// post sends one API call and unwraps the envelope. Gomag reports
// failures inside a 200 response via an "error" field.
func (c *Client) post(ctx context.Context, path string, payload interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", path, err)
	}

	url := fmt.Sprintf("%s/%s/json", c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", path, err)
	}
	req.Header.Set("Apikey", c.apiKey)
	req.Header.Set("ApiShop", c.apiShop)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debugf("Gomag POST %s (%d bytes)", url, len(body))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, truncate(raw, 200))
	}

	var envelope struct {
		Error json.RawMessage `json:"error"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		// Some endpoints answer with a bare array.
		return raw, nil
	}
	if len(envelope.Error) > 0 && string(envelope.Error) != "null" && string(envelope.Error) != "false" {
		return nil, fmt.Errorf("%s API error: %s", path, truncate(envelope.Error, 200))
	}
	if len(envelope.Data) > 0 {
		return envelope.Data, nil
	}
	return raw, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
