package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = endpoint
	return cfg
}

func TestOllamaClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "system prompt", req.System)
		assert.Equal(t, "<data>profit: $5,000</data>", req.Prompt)
		assert.InDelta(t, 0.5, req.Options.Temperature, 1e-9)
		assert.Equal(t, 300, req.Options.NumPredict)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.2", Response: "You kept $5,000 this week."})
	}))
	defer srv.Close()

	client := NewOllamaClient(testConfig(srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskSummary,
		SystemPrompt: "system prompt",
		UserPrompt:   "<data>profit: $5,000</data>",
	})

	require.NoError(t, err)
	assert.Equal(t, "You kept $5,000 this week.", resp.Text)
	assert.Equal(t, "llama3.2", resp.Model)
	assert.GreaterOrEqual(t, resp.LatencyMs, int64(0))
}

func TestOllamaClient_Generate_RequestOverrides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.InDelta(t, 0.9, req.Options.Temperature, 1e-9)
		assert.Equal(t, 42, req.Options.NumPredict)
		json.NewEncoder(w).Encode(ollamaResponse{Response: "ok"})
	}))
	defer srv.Close()

	temp, maxTok := 0.9, 42
	client := NewOllamaClient(testConfig(srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task: TaskTitle, UserPrompt: "x", Temperature: &temp, MaxTokens: &maxTok,
	})
	require.NoError(t, err)
	assert.Equal(t, "llama3.2", resp.Model, "falls back to the configured model")
}

func TestOllamaClient_Generate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskStory: {Temperature: 0.6, MaxTokens: 500, TimeoutMs: 50},
	}

	client := NewOllamaClient(cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskStory, UserPrompt: "test"})

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestOllamaClient_Generate_Unavailable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1") // nothing listening
	cfg.MaxRetries = 0
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskTitle: {Temperature: 0.5, MaxTokens: 120, TimeoutMs: 1000},
	}

	client := NewOllamaClient(cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskTitle, UserPrompt: "test"})

	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestOllamaClient_Generate_RetryOnTransientError(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("internal error"))
			return
		}
		json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.2", Response: "ok"})
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 1

	var captured LLMCallEvent
	client := NewOllamaClient(cfg, &captureObserver{fn: func(e LLMCallEvent) { captured = e }})
	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskAudio, UserPrompt: "test"})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, int32(2), attempts.Load())
	assert.Equal(t, 2, captured.Attempts)
}

func TestOllamaClient_Generate_RateLimitedBacksOff(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(ollamaResponse{Response: "ok"})
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 1
	client := NewOllamaClient(cfg, NoopObserver{}).(*retryingClient)
	client.backoff = time.Millisecond

	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskActions, UserPrompt: "test"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
}

func TestOllamaClient_Generate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad request"))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 0

	client := NewOllamaClient(cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskSummary, UserPrompt: "test"})

	assert.ErrorIs(t, err, ErrRetryExhausted)
}

func TestOllamaClient_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.True(t, NewOllamaClient(testConfig(srv.URL), NoopObserver{}).Available(context.Background()))
	assert.False(t, NewOllamaClient(testConfig("http://127.0.0.1:1"), NoopObserver{}).Available(context.Background()))
}

func TestOllamaClient_ObserverTimeoutErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 0
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskTitle: {Temperature: 0.5, MaxTokens: 120, TimeoutMs: 50},
	}

	var captured LLMCallEvent
	client := NewOllamaClient(cfg, &captureObserver{fn: func(e LLMCallEvent) { captured = e }})

	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskTitle, UserPrompt: "test"})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.False(t, captured.Success)
	assert.Equal(t, "TIMEOUT", captured.ErrorCode)
	assert.Equal(t, ProviderOllama, captured.Provider)
	assert.Equal(t, TaskTitle, captured.Task)
}

func TestAnthropicClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-test", body["model"])
		assert.EqualValues(t, 120, body["max_tokens"])
		assert.NotEmpty(t, body["system"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",
			"content":[{"type":"text","text":"Your profit held at $5,000"}],
			"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":6}}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL + "/")
	cfg.Provider = ProviderAnthropic
	cfg.Model = "claude-test"
	cfg.APIKey = "test-key"

	client := NewAnthropicClient(cfg, NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task: TaskTitle, SystemPrompt: "be brief", UserPrompt: "title please",
	})
	require.NoError(t, err)
	assert.Equal(t, "Your profit held at $5,000", resp.Text)
	assert.Equal(t, "claude-test", resp.Model)
}

func TestAnthropicClient_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL + "/")
	cfg.Provider = ProviderAnthropic
	cfg.APIKey = "test-key"
	cfg.MaxRetries = 0

	_, err := NewAnthropicClient(cfg, NoopObserver{}).Generate(context.Background(), GenerateRequest{Task: TaskSummary, UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestHostedClients_MissingKey(t *testing.T) {
	for _, p := range []Provider{ProviderAnthropic, ProviderGemini} {
		t.Run(string(p), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Enabled = true
			cfg.Provider = p
			cfg.Model = DefaultModel(p)

			var events int
			client, err := NewClient(cfg, &captureObserver{fn: func(LLMCallEvent) { events++ }})
			require.NoError(t, err)
			assert.False(t, client.Available(context.Background()))

			_, err = client.Generate(context.Background(), GenerateRequest{Task: TaskTitle, UserPrompt: "x"})
			assert.ErrorIs(t, err, ErrProviderUnavailable)
			assert.Equal(t, 1, events, "no retries without a key")
		})
	}
}

func TestNewClient_UnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mistral"
	_, err := NewClient(cfg, nil)
	assert.Error(t, err)
}

func TestWithRateLimit(t *testing.T) {
	inner := &stubClient{}
	assert.Same(t, inner, WithRateLimit(inner, 0, 1).(*stubClient))

	limited := WithRateLimit(inner, 1, 1)
	_, err := limited.Generate(context.Background(), GenerateRequest{})
	require.NoError(t, err, "first call uses the burst")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = limited.Generate(ctx, GenerateRequest{})
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 1, inner.calls)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", errorCode(nil))
	assert.Equal(t, "UNAVAILABLE", errorCode(ErrProviderUnavailable))
	assert.Equal(t, "RATE_LIMITED", errorCode(ErrRateLimited))
	assert.Equal(t, "UNKNOWN", errorCode(errors.New("boom")))
}

type stubClient struct{ calls int }

func (s *stubClient) Generate(context.Context, GenerateRequest) (*GenerateResponse, error) {
	s.calls++
	return &GenerateResponse{Text: "ok"}, nil
}

func (s *stubClient) Available(context.Context) bool { return true }

type captureObserver struct {
	fn func(LLMCallEvent)
}

func (o *captureObserver) OnCallComplete(e LLMCallEvent) { o.fn(e) }
