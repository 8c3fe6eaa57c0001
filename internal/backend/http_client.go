package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// HTTPClient is the shared transport for every resource client.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewHTTPClient creates a client for the backend rooted at baseURL.
// A zero timeout falls back to 20 seconds.
func NewHTTPClient(baseURL, token string, timeoutSec int) *HTTPClient {
	if timeoutSec <= 0 {
		timeoutSec = 20
	}
	return &HTTPClient{
		client:  &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		baseURL: baseURL,
		token:   token,
	}
}

// BaseURL returns the backend root.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

// Get makes a GET request with the given query string.
func (c *HTTPClient) Get(ctx context.Context, endpoint string, query url.Values) (*HTTPResponse, error) {
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.do(req)
}

// PutJSON makes a PUT request with a JSON payload.
func (c *HTTPClient) PutJSON(ctx context.Context, endpoint string, payload any) (*HTTPResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal JSON payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *HTTPClient) do(req *http.Request) (*HTTPResponse, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "fleetdesk")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Msg("making HTTP request")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		log.Error().
			Str("method", req.Method).
			Str("url", req.URL.Path).
			Err(err).
			Msg("HTTP request failed")
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	log.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Path).
		Int("status_code", resp.StatusCode).
		Int("body_length", len(body)).
		Dur("duration", time.Since(start)).
		Msg("received HTTP response")

	return &HTTPResponse{StatusCode: resp.StatusCode, Headers: resp.Header, Body: body}, nil
}

// HTTPResponse represents a buffered HTTP response.
type HTTPResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsSuccess reports a 2xx status code.
func (r *HTTPResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the JSON body into v.
func (r *HTTPResponse) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

func (r *HTTPResponse) String() string {
	return string(r.Body)
}
