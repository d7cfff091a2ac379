package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-buyer-indexer/internal/domain"
	"github.com/feral-file/ff-buyer-indexer/internal/logger"
)

const (
	// maxResponseBytes bounds how much of a response body is buffered
	maxResponseBytes = 32 << 20

	// maxErrorBody bounds how much of an error response is kept in messages
	maxErrorBody = 512
)

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is 2xx
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StatusError maps a non-2xx response onto the error taxonomy. It returns nil for 2xx.
func StatusError(r *Response) error {
	switch {
	case r.OK():
		return nil
	case r.StatusCode == http.StatusUnauthorized || r.StatusCode == http.StatusForbidden:
		return &domain.AuthError{Message: fmt.Sprintf("status %d: %s", r.StatusCode, r.snippet())}
	case r.StatusCode == http.StatusTooManyRequests:
		return &domain.RateLimitedError{
			RetryAfter: ParseRetryAfter(r.Header.Get("Retry-After")),
			Message:    r.snippet(),
		}
	default:
		return &domain.ServiceError{StatusCode: r.StatusCode, Message: r.snippet()}
	}
}

// ParseRetryAfter reads a delta-seconds Retry-After header, falling back to domain.DefaultRetryAfter
func ParseRetryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds < 0 {
		return domain.DefaultRetryAfter
	}
	return time.Duration(seconds) * time.Second
}

func (r *Response) snippet() string {
	if len(r.Body) > maxErrorBody {
		return string(r.Body[:maxErrorBody]) + "..."
	}
	return string(r.Body)
}

// HTTPClient defines an interface for HTTP client operations to enable mocking.
// Non-2xx responses are returned without error so callers can map status codes.
// An error means no response was received.
//
//go:generate mockgen -source=http.go -destination=../mocks/http.go -package=mocks -mock_names=HTTPClient=MockHTTPClient
type HTTPClient interface {
	// Get performs a GET request
	Get(ctx context.Context, url string, headers map[string]string) (*Response, error)

	// PostJSON marshals body as JSON and performs a POST request
	PostJSON(ctx context.Context, url string, headers map[string]string, body interface{}) (*Response, error)
}

// RealHTTPClient implements HTTPClient using the standard http package
type RealHTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates a new real HTTP client
func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &RealHTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get performs a GET request
func (c *RealHTTPClient) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, headers)
}

// PostJSON marshals body as JSON and performs a POST request
func (c *RealHTTPClient) PostJSON(ctx context.Context, url string, headers map[string]string, body interface{}) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, headers)
}

func (c *RealHTTPClient) do(req *http.Request, headers map[string]string) (*Response, error) {
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("failed to close response body", zap.Error(err), zap.String("url", req.URL.String()))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
