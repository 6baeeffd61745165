package fxfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/retail/backend/internal/domain/exchange"
	"github.com/retail/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
)

// Client fetches the reference local-per-USD rate from the configured HTTP
// feed. The feed responds with JSON of the form {"usd": "36.50"}; the rate
// may arrive as a JSON string or number and is treated as untrusted input.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// rateResponse is the feed's wire format
type rateResponse struct {
	USD json.Number `json:"usd"`
}

// NewClient creates a feed client from configuration
func NewClient(cfg config.ExchangeConfig) *Client {
	timeout := cfg.FeedTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.FeedURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchReferenceRate pulls the current reference rate from the feed
func (c *Client) FetchReferenceRate(ctx context.Context) (decimal.Decimal, error) {
	if c.baseURL == "" {
		return decimal.Zero, fmt.Errorf("no rate feed URL configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("building rate feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("calling rate feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return decimal.Zero, fmt.Errorf("rate feed returned %d: %s", resp.StatusCode, string(body))
	}

	var payload rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("decoding rate feed response: %w", err)
	}
	if payload.USD == "" {
		return decimal.Zero, fmt.Errorf("rate feed response missing usd field")
	}

	rate, err := decimal.NewFromString(payload.USD.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing feed rate %q: %w", payload.USD.String(), err)
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("feed returned non-positive rate %s", rate.String())
	}

	return rate, nil
}

var _ exchange.ReferenceProvider = (*Client)(nil)
