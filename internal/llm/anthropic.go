package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicBackend calls the Anthropic Messages API. The SDK's own retries
// are disabled so attempts are counted in one place.
type anthropicBackend struct {
	client anthropic.Client
	model  string
	hasKey bool
}

// NewAnthropicClient creates an LLMClient backed by Claude. Endpoint, when
// set, replaces the API base URL.
func NewAnthropicClient(cfg LLMConfig, observer Observer) LLMClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" && cfg.Endpoint != DefaultConfig().Endpoint {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	b := &anthropicBackend{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
		hasKey: cfg.APIKey != "",
	}
	return newRetryingClient(cfg, b, observer)
}

func (b *anthropicBackend) complete(ctx context.Context, c completion) (string, string, error) {
	if !b.hasKey {
		return "", "", fmt.Errorf("%w: ANTHROPIC_API_KEY is not set", ErrProviderUnavailable)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(c.prompt)),
		},
		Temperature: anthropic.Float(c.temperature),
	}
	if c.system != "" {
		params.System = []anthropic.TextBlockParam{{Text: c.system}}
	}

	msg, err := b.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			switch apiErr.StatusCode {
			case http.StatusTooManyRequests, 529:
				return "", "", fmt.Errorf("%w: %v", ErrRateLimited, err)
			case http.StatusUnauthorized, http.StatusForbidden:
				return "", "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
			}
		}
		return "", "", err
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", "", fmt.Errorf("%w: no text content in response", ErrInvalidOutput)
	}
	return text.String(), string(msg.Model), nil
}

func (b *anthropicBackend) available(context.Context) bool { return b.hasKey }
