// Package fetch retrieves upstream documents over HTTP.
package fetch

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"RecallScanner/internal/config"
	"RecallScanner/internal/ports"
)

// Client wraps a resty HTTP client configured for upstream agency sites.
type Client struct {
	client *resty.Client
}

var _ ports.Fetcher = (*Client)(nil)

// NewClient builds a fetcher from configuration.
func NewClient(cfg config.FetchConfig) *Client {
	client := resty.New()
	client.SetTimeout(cfg.Timeout())
	client.SetHeader("User-Agent", cfg.UserAgent)
	return &Client{client: client}
}

// Get retrieves one document and returns its body. Any 4xx/5xx status is an
// error.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%s returned %s", url, resp.Status())
	}
	return resp.Body(), nil
}
