package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/boardsense/internal/core/domain"
	"github.com/custodia-labs/boardsense/internal/core/ports/driven"
	"github.com/custodia-labs/boardsense/internal/logger"
)

// RetryPolicy is a fixed-delay linear retry policy: no exponential
// backoff, no jitter. Keeping the policy as data keeps the retry loop
// bounded and testable.
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first.
	Attempts int

	// Delay is the fixed wait between attempts.
	Delay time.Duration
}

// DefaultRetryPolicy retries embedding calls 3 times, 1 second apart.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Delay: time.Second}

// EmbeddingGateway is the sole point of contact with the embedding
// provider. It wraps the raw text-to-vector call with bounded fixed-delay
// retry and a proactive rate limiter; both indexing and query embedding go
// through it.
type EmbeddingGateway struct {
	service driven.EmbeddingService
	policy  RetryPolicy
	limiter *rate.Limiter
}

// NewEmbeddingGateway wraps the given service with the default retry
// policy and a limiter allowing rps requests per second. rps <= 0 disables
// throttling.
func NewEmbeddingGateway(service driven.EmbeddingService, rps float64) *EmbeddingGateway {
	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &EmbeddingGateway{
		service: service,
		policy:  DefaultRetryPolicy,
		limiter: limiter,
	}
}

// SetRetryPolicy overrides the retry policy. Useful for tests.
func (g *EmbeddingGateway) SetRetryPolicy(policy RetryPolicy) {
	if policy.Attempts > 0 {
		g.policy = policy
	}
}

// Embed generates an embedding for the text, retrying transient failures
// up to the policy bound. After exhausting retries the last error is
// propagated to the caller.
func (g *EmbeddingGateway) Embed(ctx context.Context, text string) ([]float32, error) {
	if g.service == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	var lastErr error
	for attempt := 1; attempt <= g.policy.Attempts; attempt++ {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		embedding, err := g.service.Embed(ctx, text)
		if err == nil {
			return embedding, nil
		}
		lastErr = err
		logger.Warn("Embedding attempt %d/%d failed: %v", attempt, g.policy.Attempts, err)

		if attempt < g.policy.Attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.policy.Delay):
			}
		}
	}

	return nil, fmt.Errorf("embed after %d attempts: %w", g.policy.Attempts, lastErr)
}

// Dimensions reports the wrapped service's vector size, or 0 when no
// service is configured.
func (g *EmbeddingGateway) Dimensions() int {
	if g.service == nil {
		return 0
	}
	return g.service.Dimensions()
}
