// Package functions calls serverless functions hosted by the backend
// platform (POST <base>/functions/v1/<name> with a JSON body).
package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// InvokeError is returned when a function answers with a non-2xx status.
type InvokeError struct {
	Function string
	Status   int
	Body     string
}

func (e *InvokeError) Error() string {
	return fmt.Sprintf("function %s failed (status %d): %s", e.Function, e.Status, e.Body)
}

// Client invokes functions over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New creates a functions client. Returns nil if baseURL is empty, so the
// app can start without push delivery.
func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		return nil
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Invoke posts payload to the named function and decodes the JSON response
// into out. out may be nil when the response body is not needed.
func (c *Client) Invoke(ctx context.Context, name string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("function %s marshal: %w", name, err)
	}

	url := c.baseURL + "/functions/v1/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("function %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("function %s http: %w", name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("function %s read body: %w", name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &InvokeError{Function: name, Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("function %s unmarshal: %w", name, err)
	}
	return nil
}
