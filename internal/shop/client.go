// Package shop holds the catalog-consuming side of the platform: an HTTP
// client for the catalog API, a synchronizing in-memory store with a
// persisted fallback snapshot, and the filtered product view the public
// showcase renders.
package shop

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"GardenRosas/internal/catalog"
)

var (
	// ErrRemoteNotFound is the remote collaborator's not-found, as
	// opposed to catalog.ErrNotFound for ids absent from local state.
	ErrRemoteNotFound = errors.New("catalog product not found")

	ErrUnavailable = errors.New("catalog unavailable")
	ErrBadStatus   = errors.New("catalog bad status")
)

// Client talks to the catalog API. Reads are public; mutations carry the
// bearer token when one is set (the gateway verifies it and injects the
// identity headers the catalog service checks).
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) List(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Create(ctx context.Context, d catalog.Draft) (catalog.Product, error) {
	var p catalog.Product
	if err := c.do(ctx, http.MethodPost, "/api/products", d, &p); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

func (c *Client) Update(ctx context.Context, id int64, d catalog.Draft) (catalog.Product, error) {
	var p catalog.Product
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/products/%d", id), d, &p); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

func (c *Client) Delete(ctx context.Context, id int64) (catalog.Product, error) {
	var p catalog.Product
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil, &p); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

func (c *Client) BulkPriceUpdate(ctx context.Context, change catalog.PriceChange) (int64, error) {
	var resp struct {
		Affected int64 `json:"affected"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/products/bulk-price", change, &resp); err != nil {
		return 0, err
	}
	return resp.Affected, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrUnavailable
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return ErrUnavailable
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrRemoteNotFound
	default:
		return fmt.Errorf("%w: status=%d: %s", ErrBadStatus, resp.StatusCode, errorMessage(resp.Body))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// errorMessage pulls the human-readable message out of an API error
// envelope so callers can show it as-is.
func errorMessage(body io.Reader) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&envelope); err != nil || envelope.Error == "" {
		return "unexpected response"
	}
	return envelope.Error
}
