package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const maxErrorBody = 64 << 10

// searchRequest is the web search request body.
type searchRequest struct {
	Query       string  `json:"query"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// searchResponse is the part of the web search response we read.
type searchResponse struct {
	Text *string `json:"text"`
}

// Client wraps the HTTP client for Perplexity API calls.
type Client struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

// NewClient creates a new Perplexity HTTP client. Deadlines come from the
// request context.
func NewClient(apiKey, url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		apiKey:     apiKey,
		url:        url,
		httpClient: httpClient,
	}
}

// statusError is a non-2xx response.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.status, e.body)
}

// decodeError is a 2xx response that could not be used.
type decodeError struct {
	err error
}

func (e *decodeError) Error() string {
	return "failed to decode response: " + e.err.Error()
}

func (e *decodeError) Unwrap() error {
	return e.err
}

// Search posts req and returns the text field of the response.
func (c *Client) Search(ctx context.Context, req searchRequest) (string, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &statusError{status: resp.StatusCode, body: string(body)}
	}

	var searchResp searchResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&searchResp); decodeErr != nil {
		return "", &decodeError{err: decodeErr}
	}
	if searchResp.Text == nil {
		return "", &decodeError{err: errors.New("missing text field")}
	}

	return *searchResp.Text, nil
}
