package llm

import "errors"

// Every client wraps its failures in one of these, so the orchestrator can
// report why an insight fell back without knowing which provider ran.
var (
	// ErrProviderUnavailable: the backend is unreachable or has no API key.
	ErrProviderUnavailable = errors.New("llm provider unavailable")

	// ErrTimeout: the task's TimeoutMs elapsed before a response arrived.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput: the response held no text, or no JSON matching the
	// expected schema.
	ErrInvalidOutput = errors.New("invalid llm output format")

	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrRateLimited: the provider answered 429 or the local limiter's wait
	// outlived the context.
	ErrRateLimited = errors.New("llm rate limited")
)
