package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available reports whether the backend looks usable right now.
	Available(ctx context.Context) bool
}

// completion is one provider round trip with resolved parameters.
type completion struct {
	system      string
	prompt      string
	temperature float64
	maxTokens   int
}

// backend is the provider-specific half of a client. It makes exactly one
// attempt; retries, timeouts and reporting live in retryingClient.
type backend interface {
	complete(ctx context.Context, c completion) (text, model string, err error)
	available(ctx context.Context) bool
}

// retryingClient wraps a backend with per-task timeouts, a bounded retry
// loop and observer reporting.
type retryingClient struct {
	cfg      LLMConfig
	backend  backend
	observer Observer
	backoff  time.Duration
}

func newRetryingClient(cfg LLMConfig, b backend, observer Observer) *retryingClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &retryingClient{cfg: cfg, backend: b, observer: observer, backoff: 500 * time.Millisecond}
}

func (c *retryingClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	temp, maxTok := c.cfg.params(req)
	call := completion{system: req.SystemPrompt, prompt: req.UserPrompt, temperature: temp, maxTokens: maxTok}

	timeoutMs := c.cfg.TaskTimeout(req.Task)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries
	tried := 0

	for i := 0; i < attempts; i++ {
		tried++
		text, model, err := c.backend.complete(ctx, call)
		if err == nil {
			latency := time.Since(start).Milliseconds()
			c.report(req.Task, latency, tried, nil)
			if model == "" {
				model = c.cfg.Model
			}
			return &GenerateResponse{Text: text, Model: model, LatencyMs: latency}, nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout or a missing backend.
		if ctx.Err() != nil || errors.Is(err, ErrProviderUnavailable) {
			break
		}
		if errors.Is(err, ErrRateLimited) && i+1 < attempts {
			select {
			case <-ctx.Done():
			case <-time.After(c.backoff * time.Duration(i+1)):
			}
		}
	}

	err := classify(ctx, lastErr)
	c.report(req.Task, time.Since(start).Milliseconds(), tried, err)
	return nil, err
}

func (c *retryingClient) Available(ctx context.Context) bool {
	return c.backend.available(ctx)
}

func (c *retryingClient) report(task TaskType, latency int64, attempts int, err error) {
	c.observer.OnCallComplete(LLMCallEvent{
		Task:      task,
		Provider:  c.cfg.Provider,
		Model:     c.cfg.Model,
		LatencyMs: latency,
		Attempts:  attempts,
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
}

// classify maps the last attempt's error onto the package sentinels.
func classify(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil:
		return ErrTimeout
	case errors.Is(err, ErrProviderUnavailable), errors.Is(err, ErrRateLimited):
		return err
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return err != nil && errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrProviderUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrRateLimited):
		return "RATE_LIMITED"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}
