// Package perplexity provides an upstream for the Perplexity web search API.
// It implements the domain.Upstream interface over a plain JSON HTTP client.
package perplexity

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/davidbz/lumen/internal/domain"
	"github.com/davidbz/lumen/internal/observability"
)

const upstreamName = "perplexity"

// Provider implements the domain.Upstream interface for Perplexity.
type Provider struct {
	client *Client
	config Config
	name   string
}

// NewProvider creates a new Perplexity upstream.
func NewProvider(config Config) *Provider {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &Provider{
		client: NewClient(config.APIKey, config.BaseURL, nil),
		config: config,
		name:   upstreamName,
	}
}

// Name returns the upstream identifier.
func (p *Provider) Name() string {
	return p.name
}

// Complete runs a web search for query.
func (p *Provider) Complete(ctx context.Context, query domain.Query) (*domain.SearchResult, error) {
	if p.config.APIKey == "" {
		return nil, domain.NewConfigurationError(domain.MsgAPIKeyMissing)
	}
	if p.config.BaseURL == "" {
		return nil, domain.NewConfigurationError(domain.MsgAPIURLMissing)
	}

	logger := observability.FromContext(ctx)
	logger.Debug("calling Perplexity API")

	callCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	startedAt := time.Now()
	text, err := p.client.Search(callCtx, searchRequest{
		Query:       query.String(),
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	})
	if err != nil {
		classified := classify(callCtx, err)
		logger.Warn("Perplexity API call failed",
			observability.String("failure_class", domain.ClassOf(classified).String()),
			observability.Error(err))
		return nil, classified
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewMalformedResponseError(errors.New("response has empty text"))
	}

	return domain.NewSearchResult(text, startedAt, time.Now()), nil
}

func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return domain.NewTimeoutError(err)
	}

	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return domain.NewHTTPStatusError(statusErr.status, statusErr.body)
	}

	var decodeErr *decodeError
	if errors.As(err, &decodeErr) {
		return domain.NewMalformedResponseError(err)
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return domain.NewNetworkError(err)
	}

	return domain.NewMalformedResponseError(err)
}
