// Package openai provides an upstream for OpenAI-compatible chat completion
// APIs using the official SDK. It implements the domain.Upstream interface and
// maps every SDK failure onto a domain.FailureClass.
package openai

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/lumen/internal/domain"
	"github.com/davidbz/lumen/internal/observability"
)

const (
	upstreamName = "openai"

	// maxErrorBody bounds how much of a failed response body is kept.
	maxErrorBody = 64 << 10
)

// Provider implements the domain.Upstream interface for OpenAI.
type Provider struct {
	client openai.Client
	config Config
	name   string
}

// NewProvider creates a new OpenAI upstream. A missing key or URL is not an
// error here; it is reported by Complete as a configuration failure so the
// gateway can still start and answer health checks.
func NewProvider(config Config) *Provider {
	config = config.withDefaults()

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		// Retries are owned by domain.RetryPolicy.
		option.WithMaxRetries(0),
		option.WithMiddleware(statusMiddleware),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &Provider{
		client: openai.NewClient(opts...),
		config: config,
		name:   upstreamName,
	}
}

// Name returns the upstream identifier.
func (p *Provider) Name() string {
	return p.name
}

// Complete sends the query as a single chat completion.
func (p *Provider) Complete(ctx context.Context, query domain.Query) (*domain.SearchResult, error) {
	if p.config.APIKey == "" {
		return nil, domain.NewConfigurationError(domain.MsgAPIKeyMissing)
	}
	if p.config.BaseURL == "" {
		return nil, domain.NewConfigurationError(domain.MsgAPIURLMissing)
	}

	logger := observability.FromContext(ctx)
	logger.Debug("calling OpenAI API", observability.String("model", p.config.Model))

	callCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	startedAt := time.Now()
	resp, err := p.client.Chat.Completions.New(callCtx, p.toSDKParams(query))
	if err != nil {
		classified := classify(callCtx, err)
		logger.Warn("OpenAI API call failed",
			observability.String("failure_class", domain.ClassOf(classified).String()),
			observability.Error(err))
		return nil, classified
	}

	if len(resp.Choices) == 0 {
		return nil, domain.NewMalformedResponseError(errors.New("response has no choices"))
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, domain.NewMalformedResponseError(errors.New("response has empty completion"))
	}

	finishedAt := time.Now()
	logger.Debug("OpenAI API call succeeded",
		observability.Int("prompt_tokens", int(resp.Usage.PromptTokens)),
		observability.Int("completion_tokens", int(resp.Usage.CompletionTokens)),
	)

	return domain.NewSearchResult(content, startedAt, finishedAt), nil
}

// toSDKParams builds the system plus user message request.
func (p *Provider) toSDKParams(query domain.Query) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(p.config.SystemPrompt),
			openai.UserMessage(query.String()),
		},
		Temperature: openai.Float(p.config.Temperature),
		MaxTokens:   openai.Int(int64(p.config.MaxTokens)),
	}
}

// statusMiddleware turns non-2xx responses into an UpstreamHTTP error that
// keeps the raw body.
func statusMiddleware(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
	resp, err := next(req)
	if err != nil || resp.StatusCode < http.StatusBadRequest {
		return resp, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, domain.NewHTTPStatusError(resp.StatusCode, string(body))
}

// classify maps an SDK error onto the failure taxonomy. A hit deadline is
// always a timeout regardless of how the transport reported it.
func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return domain.NewTimeoutError(err)
	}

	var upstreamErr *domain.UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return domain.NewHTTPStatusError(apiErr.StatusCode, apiErr.Error())
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return domain.NewNetworkError(err)
	}

	return domain.NewMalformedResponseError(err)
}
