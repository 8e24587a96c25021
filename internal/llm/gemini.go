package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// geminiBackend calls the Gemini API through the genai SDK. The SDK client
// is created lazily because construction needs a context.
type geminiBackend struct {
	cfg    LLMConfig
	client *genai.Client
}

// NewGeminiClient creates an LLMClient backed by Gemini.
func NewGeminiClient(cfg LLMConfig, observer Observer) LLMClient {
	return newRetryingClient(cfg, &geminiBackend{cfg: cfg}, observer)
}

func (b *geminiBackend) connect(ctx context.Context) (*genai.Client, error) {
	if b.client != nil {
		return b.client, nil
	}
	if b.cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrProviderUnavailable)
	}
	cc := &genai.ClientConfig{APIKey: b.cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if b.cfg.Endpoint != "" && b.cfg.Endpoint != DefaultConfig().Endpoint {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: b.cfg.Endpoint}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	b.client = client
	return client, nil
}

func (b *geminiBackend) complete(ctx context.Context, c completion) (string, string, error) {
	client, err := b.connect(ctx)
	if err != nil {
		return "", "", err
	}

	temp := float32(c.temperature)
	gc := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: int32(c.maxTokens),
	}
	if c.system != "" {
		gc.SystemInstruction = genai.NewContentFromText(c.system, genai.RoleUser)
	}

	resp, err := client.Models.GenerateContent(ctx, b.cfg.Model,
		[]*genai.Content{genai.NewContentFromText(c.prompt, genai.RoleUser)}, gc)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
			return "", "", fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return "", "", err
	}

	text := resp.Text()
	if text == "" {
		return "", "", fmt.Errorf("%w: empty response from gemini", ErrInvalidOutput)
	}
	return text, resp.ModelVersion, nil
}

func (b *geminiBackend) available(context.Context) bool { return b.cfg.APIKey != "" }
