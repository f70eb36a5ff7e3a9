// Package warehouse provides the HTTP client for the external fulfillment
// service.
package warehouse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ersonp/restock-core/internal/infrastructure/config"
)

// fulfillRequest is the wire payload for one restock request.
type fulfillRequest struct {
	MedicineID string `json:"medicine_id"`
	Quantity   int    `json:"quantity"`
}

// Client implements ports.Fulfiller against a remote warehouse endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a warehouse client from configuration.
func NewClient(cfg config.WarehouseConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("warehouse url is required")
	}
	return &Client{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
	}, nil
}

// Fulfill posts a restock request. Any transport failure or non-2xx reply
// is returned as an error for the dispatcher to log.
func (c *Client) Fulfill(ctx context.Context, medicineID string, quantity int) error {
	body, err := json.Marshal(fulfillRequest{MedicineID: medicineID, Quantity: quantity})
	if err != nil {
		return fmt.Errorf("encoding fulfillment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building fulfillment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling warehouse: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("warehouse returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
