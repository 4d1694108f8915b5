// Package remote fetches the restaurant collection from the read-only HTTP
// endpoint.
package remote

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Ratio1/restaurant_directory_go/internal/httpx"
	"github.com/Ratio1/restaurant_directory_go/internal/restaurantapi"
	"github.com/Ratio1/restaurant_directory_go/pkg/restaurant"
)

// Client issues GET requests against the restaurants endpoint.
type Client struct {
	http   *httpx.Client
	logger *zap.Logger
}

// New constructs a Client bound to the endpoint URL.
func New(endpoint string, opts ...httpx.Option) (*Client, error) {
	cl, err := httpx.NewClient(endpoint, opts...)
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	return NewWithHTTPClient(cl), nil
}

// NewWithHTTPClient wraps an existing httpx.Client.
func NewWithHTTPClient(cl *httpx.Client) *Client {
	return &Client{http: cl, logger: zap.NewNop()}
}

// WithLogger returns a copy of the client that logs through l.
func (c *Client) WithLogger(l *zap.Logger) *Client {
	if l == nil {
		return c
	}
	cp := *c
	cp.logger = l
	return &cp
}

// Endpoint returns the URL the client fetches.
func (c *Client) Endpoint() string {
	return c.http.BaseURL()
}

// FetchAll retrieves and parses the full collection. Every failure is a
// *restaurant.NetworkError; no partial collection is ever returned.
func (c *Client) FetchAll(ctx context.Context) ([]restaurant.Restaurant, error) {
	if c == nil || c.http == nil {
		return nil, &restaurant.NetworkError{Err: fmt.Errorf("remote client not configured")}
	}
	endpoint := c.http.BaseURL()

	resp, err := c.http.Do(ctx, &httpx.Request{
		Method: http.MethodGet,
		Header: http.Header{"Accept": {"application/json"}},
	})
	if err != nil {
		return nil, &restaurant.NetworkError{URL: endpoint, Err: err}
	}
	body, err := httpx.ReadAllAndClose(resp.Body)
	if err != nil {
		return nil, &restaurant.NetworkError{URL: endpoint, Err: fmt.Errorf("read body: %w", err)}
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !httpx.IsJSON(ct) {
		c.logger.Debug("unexpected content type, decoding anyway", zap.String("content_type", ct))
	}

	restaurants, err := restaurantapi.DecodeCollection(body)
	if err != nil {
		return nil, &restaurant.NetworkError{URL: endpoint, Err: err}
	}
	c.logger.Debug("fetched restaurants", zap.String("url", endpoint), zap.Int("count", len(restaurants)))
	return restaurants, nil
}
