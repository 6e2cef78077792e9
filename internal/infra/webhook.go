package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ClosingEvent is the payload POSTed to the automation webhook (n8n) after a
// register closes. The receiving workflow handles report text generation and
// owner notifications; this side only delivers the numbers.
type ClosingEvent struct {
	ClosingID         string  `json:"closing_id"`
	RegisterName      string  `json:"register_name"`
	ClosedAt          string  `json:"closed_at"` // ISO 8601
	TotalSales        string  `json:"total_sales"`
	TotalTransactions int     `json:"total_transactions"`
	ExpectedCash      string  `json:"expected_cash"`
	CountedCash       *string `json:"counted_cash"`
	CashDifference    *string `json:"cash_difference"`
	ByMethod          []struct {
		Method string `json:"method"`
		Total  string `json:"total"`
		Count  int    `json:"count"`
	} `json:"by_method"`
}

// WebhookClient delivers closing events to the external automation endpoint.
// The endpoint is an opaque collaborator; failures are retried by the worker
// layer, never by the request path.
type WebhookClient struct {
	url        string
	httpClient *http.Client
}

func NewWebhookClient(url string) *WebhookClient {
	return &WebhookClient{
		url:        url,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether a webhook endpoint is configured.
func (c *WebhookClient) Enabled() bool { return c.url != "" }

// Notify POSTs the event as JSON. Any non-2xx response is an error.
func (c *WebhookClient) Notify(ctx context.Context, event ClosingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: endpoint returned %d", resp.StatusCode)
	}
	return nil
}
