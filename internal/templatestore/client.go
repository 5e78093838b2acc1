// Package templatestore is the HTTP client for the external template and
// contract store. The engine never does I/O itself; this client is how the
// service fetches stored templates and persists pricing state back.
package templatestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/leadlaw/contractengine/internal/docmodel"
	"github.com/leadlaw/contractengine/internal/pricing"
)

// RetryableError marks store failures worth retrying (5xx, transport).
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Client communicates with the template store HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Template is a stored contract template. Content is one of the
// normalizer's accepted shapes; the shape is identical for new and legacy
// sources.
type Template struct {
	ID       string          `json:"id"`
	Name     string          `json:"name,omitempty"`
	Currency string          `json:"currency,omitempty"`
	Content  json.RawMessage `json:"content"`
}

// GetTemplate retrieves a stored template. Returns nil when not found.
func (c *Client) GetTemplate(ctx context.Context, id string) (*Template, error) {
	var tpl Template
	found, err := c.get(ctx, "/templates/"+id, &tpl)
	if err != nil || !found {
		return nil, err
	}
	return &tpl, nil
}

// PutTemplate stores a template with its canonical, id-assigned content.
func (c *Client) PutTemplate(ctx context.Context, id, name, currency string, doc *docmodel.Node) error {
	content, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal template: %w", err)
	}
	return c.put(ctx, "/templates/"+id, Template{
		ID:       id,
		Name:     name,
		Currency: currency,
		Content:  content,
	})
}

// GetTierTable retrieves the default tier table for a currency family.
// Returns nil when the store has none configured.
func (c *Client) GetTierTable(ctx context.Context, currency string) (map[string]float64, error) {
	var table map[string]float64
	found, err := c.get(ctx, "/tier-tables/"+currency, &table)
	if err != nil || !found {
		return nil, err
	}
	return table, nil
}

// PutPricingState persists a contract's recomputed pricing state.
func (c *Client) PutPricingState(ctx context.Context, contractID string, st *pricing.State) error {
	return c.put(ctx, "/contracts/"+contractID+"/pricing", st)
}

func (c *Client) get(ctx context.Context, path string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, &RetryableError{Err: fmt.Errorf("get %s: %w", path, err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, statusError("get", path, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

func (c *Client) put(ctx context.Context, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RetryableError{Err: fmt.Errorf("put %s: %w", path, err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError("put", path, resp)
	}
	return nil
}

func statusError(verb, path string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	err := fmt.Errorf("%s %s: status %d: %s", verb, path, resp.StatusCode, string(body))
	if resp.StatusCode >= 500 {
		return &RetryableError{Err: err}
	}
	return err
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
