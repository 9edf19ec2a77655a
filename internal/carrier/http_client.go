package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient talks to the carrier's REST API. Requests carry the API
// key as a bearer token.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) CreateShipment(ctx context.Context, req CreateShipmentRequest) (*CreateShipmentResponse, error) {
	var resp CreateShipmentResponse
	if err := c.do(ctx, http.MethodPost, "/v1/shipments", req, &resp); err != nil {
		return nil, fmt.Errorf("carrier create shipment: %w", err)
	}
	return &resp, nil
}

func (c *HTTPClient) Track(ctx context.Context, awbNumber string) (*TrackingResponse, error) {
	var resp TrackingResponse
	path := fmt.Sprintf("/v1/shipments/%s/track", awbNumber)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("carrier track: %w", err)
	}
	return &resp, nil
}

func (c *HTTPClient) CancelShipment(ctx context.Context, awbNumber string) error {
	path := fmt.Sprintf("/v1/shipments/%s/cancel", awbNumber)
	if err := c.do(ctx, http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("carrier cancel shipment: %w", err)
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("request serialization: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("carrier API status %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("response deserialization: %w", err)
		}
	}
	return nil
}
