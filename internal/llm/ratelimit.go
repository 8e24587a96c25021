package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// rateLimitedClient holds every call until the shared limiter admits it.
type rateLimitedClient struct {
	next    LLMClient
	limiter *rate.Limiter
}

// WithRateLimit wraps client so that at most perSec calls start per second,
// with bursts up to burst. A non-positive perSec returns client unchanged.
func WithRateLimit(client LLMClient, perSec float64, burst int) LLMClient {
	if perSec <= 0 {
		return client
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimitedClient{next: client, limiter: rate.NewLimiter(rate.Limit(perSec), burst)}
}

func (c *rateLimitedClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return c.next.Generate(ctx, req)
}

func (c *rateLimitedClient) Available(ctx context.Context) bool {
	return c.next.Available(ctx)
}
