package llm

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

// HTTPClient implements Client against a JSON generation endpoint.
// It POSTs the GenerateRequest to {baseURL}/v1/generate and expects a
// GenerateResponse body. Timeouts come from ctx or the underlying
// http.Client.
type HTTPClient struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// NewHTTPClient creates a client for the given base URL.
func NewHTTPClient(baseURL string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithHTTPModel sets the default model sent with each request.
func WithHTTPModel(model string) HTTPOption {
	return func(c *HTTPClient) { c.model = model }
}

// WithAPIKey sets the bearer token sent with each request.
func WithAPIKey(key string) HTTPOption {
	return func(c *HTTPClient) { c.apiKey = key }
}

// WithHTTPClient sets the underlying http.Client.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		if hc != nil {
			c.client = hc
		}
	}
}

// Generate implements Client.
func (c *HTTPClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	if req.Model == "" {
		req.Model = c.model
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, NewError("generate", fmt.Errorf("encode request: %w", err), false)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return nil, NewError("generate", err, false)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewError("generate", ctx.Err(), false)
		}
		return nil, NewError("generate", err, true)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, NewError("generate", fmt.Errorf("read response: %w", err), true)
	}

	if httpResp.StatusCode != http.StatusOK {
		retryable := httpResp.StatusCode == http.StatusTooManyRequests ||
			httpResp.StatusCode >= http.StatusInternalServerError
		return nil, NewError("generate",
			fmt.Errorf("status %d: %s", httpResp.StatusCode, strings.TrimSpace(string(respBody))),
			retryable)
	}

	var resp GenerateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, NewError("generate", fmt.Errorf("decode response: %w", err), false)
	}
	resp.Duration = time.Since(start)

	return &resp, nil
}
