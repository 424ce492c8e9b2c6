// Package client is a Go client for the gateway's search API, used by the
// query command.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/davidbz/lumen/internal/domain"
)

const (
	DefaultBaseURL = "http://localhost:5000"
	DefaultTimeout = 10 * time.Second

	searchPath = "/api/search"
)

// APIError is a non-2xx answer from the gateway.
type APIError struct {
	StatusCode int
	Message    string          `json:"error"`
	Details    json.RawMessage `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("gateway returned %d: %s: %s", e.StatusCode, e.Message, string(e.Details))
	}
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Message)
}

// Response is a successful search answer.
type Response struct {
	Result   *domain.SearchResult
	CacheHit bool
}

// Client wraps the HTTP client for gateway calls.
type Client struct {
	baseURL    string
	timeout    time.Duration
	retry      *domain.RetryPolicy
	httpClient *http.Client
}

// NewClient creates a gateway client. Each attempt gets its own timeout;
// retries follow policy.
func NewClient(baseURL string, timeout time.Duration, policy *domain.RetryPolicy) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if policy == nil {
		policy = domain.NewRetryPolicy(domain.DefaultRetryAttempts, domain.DefaultRetryDelay)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		retry:      policy,
		httpClient: &http.Client{},
	}
}

// Search posts query to the gateway. Gateway error answers are returned as
// *APIError wrapped in a terminal *domain.UpstreamError; only timeouts and
// transport failures are retried.
func (c *Client) Search(ctx context.Context, query string) (*Response, error) {
	var cacheHit bool

	result, err := c.retry.Do(ctx, func(attemptCtx context.Context) (*domain.SearchResult, error) {
		resp, err := c.searchOnce(attemptCtx, query)
		if err != nil {
			return nil, err
		}
		cacheHit = resp.CacheHit
		return resp.Result, nil
	})
	if err != nil {
		return nil, err
	}

	return &Response{Result: result, CacheHit: cacheHit}, nil
}

func (c *Client) searchOnce(ctx context.Context, query string) (*Response, error) {
	reqBody, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(reqBody))
	if err != nil {
		return nil, domain.NewConfigurationError(fmt.Sprintf("invalid gateway url: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(callCtx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(callCtx, err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(body, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		upstreamErr := domain.NewHTTPStatusError(resp.StatusCode, string(body))
		upstreamErr.Err = apiErr
		return nil, upstreamErr
	}

	var result domain.SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, domain.NewMalformedResponseError(err)
	}

	return &Response{
		Result:   &result,
		CacheHit: resp.Header.Get("X-Cache") == "HIT",
	}, nil
}

func classifyTransport(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return domain.NewTimeoutError(err)
	}
	return domain.NewNetworkError(err)
}
