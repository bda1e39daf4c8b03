// internal/models/httpclient.go
package models

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// MaxResponseBytes bounds how much of a reply body is read.
const MaxResponseBytes = 10 << 20

// DefaultTimeout is the overall deadline of a single generate request.
const DefaultTimeout = 120 * time.Second

// ErrMalformedResponse marks a reply body that is not valid JSON.
var ErrMalformedResponse = errors.New("malformed response body")

// TransportError describes a request that produced no usable JSON body.
type TransportError struct {
	Endpoint   string
	StatusCode int // 0 when no response arrived
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("POST %s (HTTP %d): %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("POST %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request hit a deadline.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// GenerateRequest is the body sent to every backend service.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// Reply is a parsed backend answer.
type Reply struct {
	StatusCode int
	// Text is the generated_response value; empty when the field is
	// missing, empty or not a string.
	Text string
}

// Client posts prompts to backend services.
type Client struct {
	client *http.Client
}

// NewClient creates a client whose requests give up after timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
			},
		},
	}
}

// NewClientWithHTTP wraps an existing http.Client.
func NewClientWithHTTP(hc *http.Client) *Client {
	return &Client{client: hc}
}

// Generate issues a single POST of prompt to endpoint. Any JSON body counts as
// an answer regardless of status code; everything else is a *TransportError.
func (c *Client) Generate(ctx context.Context, endpoint, prompt string) (Reply, error) {
	body, err := json.Marshal(GenerateRequest{Prompt: prompt})
	if err != nil {
		return Reply{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := NewRequestWithBody(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return Reply{}, &TransportError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Reply{}, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return Reply{}, &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	text, err := parseReply(raw)
	if err != nil {
		return Reply{}, &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	return Reply{StatusCode: resp.StatusCode, Text: text}, nil
}

// parseReply extracts generated_response from any JSON document. Documents
// that are not objects, and objects without a string field, yield "".
func parseReply(raw []byte) (string, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return "", nil
	}
	text, _ := obj["generated_response"].(string)
	return text, nil
}

// NewRequestWithBody creates a new HTTP request with the given body bytes
func NewRequestWithBody(ctx context.Context, method, url string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	req.Body, _ = req.GetBody()
	req.ContentLength = int64(len(body))
	return req, nil
}
