// Package client calls the customer support API. Calls never return an
// error: transport and HTTP failures are folded into Result.Err.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	contractx "github.com/tanpawarit/customer-support-api/agent/contract"
)

const (
	DefaultBaseURL       = "http://localhost:8000"
	maxResponseSizeBytes = 4 << 20
)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each call. The default client has no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) HealthCheck(ctx context.Context) Result[contractx.Health] {
	return call[contractx.Health](ctx, c, http.MethodGet, contractx.HealthPath, nil)
}

func (c *Client) GetAPIInfo(ctx context.Context) Result[contractx.APIInfo] {
	return call[contractx.APIInfo](ctx, c, http.MethodGet, contractx.APIInfoPath, nil)
}

func (c *Client) ProcessInquiry(ctx context.Context, customer, person, inquiry string) Result[contractx.InquiryResponse] {
	payload := contractx.InquiryRequest{
		Customer: customer,
		Person:   person,
		Inquiry:  inquiry,
	}
	return call[contractx.InquiryResponse](ctx, c, http.MethodPost, contractx.InquiryPath, payload)
}

func call[T any](ctx context.Context, c *Client, method, path string, payload any) Result[T] {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	url := c.baseURL + path

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return failed[T](fmt.Sprintf("encode request: %v", err))
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return failed[T](err.Error())
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failed[T](err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return failed[T](fmt.Sprintf("read response: %v", err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return failed[T](errorMessage(resp.StatusCode, url, raw))
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return failed[T](fmt.Sprintf("decode response: %v", err))
	}
	return ok(out)
}

// errorMessage prefers the server's "detail" field and falls back to a
// generic status line.
func errorMessage(status int, url string, raw []byte) string {
	generic := fmt.Sprintf("%d %s for url: %s", status, statusReason(status), url)

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return generic
	}
	detail, found := body["detail"]
	if !found {
		return generic
	}

	if string(bytes.TrimSpace(detail)) == "null" {
		return generic
	}

	var text string
	if err := json.Unmarshal(detail, &text); err == nil {
		if strings.TrimSpace(text) == "" {
			return generic
		}
		return text
	}
	return string(detail)
}

func statusReason(status int) string {
	reason := http.StatusText(status)
	switch {
	case status >= 400 && status < 500:
		return "Client Error: " + reason
	case status >= 500:
		return "Server Error: " + reason
	default:
		return reason
	}
}
