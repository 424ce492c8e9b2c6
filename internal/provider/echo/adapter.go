// Package echo provides a development upstream that echoes the query back.
// It implements the domain.Upstream interface without making external API
// calls, providing deterministic responses for local runs and tests.
package echo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davidbz/lumen/internal/domain"
	"github.com/davidbz/lumen/internal/observability"
)

const upstreamName = "echo"

// Provider implements the domain.Upstream interface for echo testing.
type Provider struct {
	name   string
	config Config
	now    func() time.Time
}

// NewProvider creates a new echo upstream.
// A zero Config answers immediately under DefaultTimeout.
func NewProvider(config Config) *Provider {
	return &Provider{
		name:   upstreamName,
		config: config.withDefaults(),
		now:    time.Now,
	}
}

// Complete returns the query as the result after the configured delay.
// A delay that outlasts the timeout fails with a timeout error.
func (p *Provider) Complete(ctx context.Context, query domain.Query) (*domain.SearchResult, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("echoing query", observability.Duration("delay", p.config.Delay))

	startedAt := p.now()

	if p.config.Delay > 0 {
		callCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()

		timer := time.NewTimer(p.config.Delay)
		defer timer.Stop()

		select {
		case <-callCtx.Done():
			if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
				return nil, domain.NewTimeoutError(callCtx.Err())
			}
			return nil, domain.NewNetworkError(callCtx.Err())
		case <-timer.C:
		}
	}

	return domain.NewSearchResult(buildEchoContent(query), startedAt, p.now()), nil
}

// Name returns the upstream identifier.
func (p *Provider) Name() string {
	return p.name
}

func buildEchoContent(query domain.Query) string {
	return fmt.Sprintf("[echo]: %s", query)
}
