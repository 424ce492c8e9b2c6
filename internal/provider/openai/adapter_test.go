package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/lumen/internal/domain"
	"github.com/davidbz/lumen/internal/provider/openai"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

const completionBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "test-model",
	"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "  Artificial intelligence is...  "}}],
	"usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
}`

func newUpstreamServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	return server, &calls
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func newProvider(baseURL string) *openai.Provider {
	return openai.NewProvider(openai.Config{
		APIKey:      "test-key",
		BaseURL:     baseURL + "/v1/",
		Model:       "test-model",
		Temperature: openai.DefaultTemperature,
		Timeout:     time.Second,
	})
}

func TestProvider_Name(t *testing.T) {
	provider := openai.NewProvider(openai.Config{APIKey: "test-key"})

	require.Equal(t, "openai", provider.Name())
}

func TestProvider_Complete_Success(t *testing.T) {
	var got chatRequest
	server, calls := newUpstreamServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, completionBody)
	})

	result, err := newProvider(server.URL).Complete(context.Background(), "What is AI?")

	require.NoError(t, err)
	require.Equal(t, "Artificial intelligence is...", result.Result)
	require.GreaterOrEqual(t, result.Duration, int64(0))
	_, parseErr := time.Parse(domain.TimestampLayout, result.Timestamp)
	require.NoError(t, parseErr)
	require.Equal(t, int32(1), calls.Load())

	require.Equal(t, "test-model", got.Model)
	require.InDelta(t, openai.DefaultTemperature, got.Temperature, 0.0001)
	require.Equal(t, openai.DefaultMaxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	require.Equal(t, "system", got.Messages[0].Role)
	require.Equal(t, openai.DefaultSystemPrompt, got.Messages[0].Content)
	require.Equal(t, "user", got.Messages[1].Role)
	require.Equal(t, "What is AI?", got.Messages[1].Content)
}

func TestProvider_Complete_Temperature(t *testing.T) {
	tests := []struct {
		name        string
		temperature float64
		want        float64
	}{
		{name: "should send explicit zero", temperature: 0, want: 0},
		{name: "should send configured value", temperature: 0.2, want: 0.2},
		{name: "should replace negative with default", temperature: -1, want: openai.DefaultTemperature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]any
			server, _ := newUpstreamServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				writeJSON(w, http.StatusOK, completionBody)
			})

			provider := openai.NewProvider(openai.Config{
				APIKey:      "test-key",
				BaseURL:     server.URL + "/v1/",
				Temperature: tt.temperature,
				Timeout:     time.Second,
			})

			_, err := provider.Complete(context.Background(), "What is AI?")

			require.NoError(t, err)
			require.Contains(t, got, "temperature")
			require.InDelta(t, tt.want, got["temperature"], 0.0001)
		})
	}
}

func TestProvider_Complete_Configuration(t *testing.T) {
	server, calls := newUpstreamServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, completionBody)
	})

	tests := []struct {
		name    string
		config  openai.Config
		message string
	}{
		{
			name:    "missing API key",
			config:  openai.Config{BaseURL: server.URL},
			message: domain.MsgAPIKeyMissing,
		},
		{
			name:    "missing API URL",
			config:  openai.Config{APIKey: "test-key"},
			message: domain.MsgAPIURLMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := openai.NewProvider(tt.config).Complete(context.Background(), "What is AI?")

			require.Nil(t, result)
			var upstreamErr *domain.UpstreamError
			require.ErrorAs(t, err, &upstreamErr)
			require.Equal(t, domain.FailureConfiguration, upstreamErr.Class)
			require.Equal(t, tt.message, upstreamErr.Message)
		})
	}

	require.Zero(t, calls.Load())
}

func TestProvider_Complete_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		class   domain.FailureClass
	}{
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`)
			},
			class: domain.FailureUpstreamHTTP,
		},
		{
			name: "unparseable body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, `{"choices": [`)
			},
			class: domain.FailureMalformedResponse,
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, `{"id":"x","object":"chat.completion","model":"m","choices":[]}`)
			},
			class: domain.FailureMalformedResponse,
		},
		{
			name: "empty completion",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK,
					`{"id":"x","object":"chat.completion","model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"   "}}]}`)
			},
			class: domain.FailureMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, calls := newUpstreamServer(t, tt.handler)

			result, err := newProvider(server.URL).Complete(context.Background(), "What is AI?")

			require.Nil(t, result)
			require.Equal(t, tt.class, domain.ClassOf(err))
			require.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestProvider_Complete_KeepsErrorBody(t *testing.T) {
	server, _ := newUpstreamServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, `{"error":{"message":"rate limited"}}`)
	})

	_, err := newProvider(server.URL).Complete(context.Background(), "What is AI?")

	var upstreamErr *domain.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	require.Equal(t, http.StatusTooManyRequests, upstreamErr.StatusCode)
	require.Contains(t, upstreamErr.Body, "rate limited")
}

func TestProvider_Complete_Timeout(t *testing.T) {
	server, _ := newUpstreamServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		writeJSON(w, http.StatusOK, completionBody)
	})

	provider := openai.NewProvider(openai.Config{
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1/",
		Timeout: 50 * time.Millisecond,
	})

	start := time.Now()
	result, err := provider.Complete(context.Background(), "What is AI?")

	require.Nil(t, result)
	require.Equal(t, domain.FailureTimeout, domain.ClassOf(err))
	require.Less(t, time.Since(start), time.Second)
}

func TestProvider_Complete_Network(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	result, err := newProvider(baseURL).Complete(context.Background(), "What is AI?")

	require.Nil(t, result)
	require.Equal(t, domain.FailureNetwork, domain.ClassOf(err))
}
