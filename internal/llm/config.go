package llm

import (
	"os"
	"strconv"
	"strings"
)

// TaskType identifies which insight fragment a call produces.
type TaskType string

const (
	TaskTitle   TaskType = "title"
	TaskSummary TaskType = "summary"
	TaskStory   TaskType = "story"
	TaskActions TaskType = "actions"
	TaskAudio   TaskType = "audio"
)

// AllTasks lists the tasks in the order they appear in an insight.
var AllTasks = []TaskType{TaskTitle, TaskSummary, TaskStory, TaskActions, TaskAudio}

// Provider selects the text-generation backend.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
	TimeoutMs   int     `toml:"timeout_ms"` // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool     `toml:"enabled"`
	LogCalls   bool     `toml:"log_calls"`
	Provider   Provider `toml:"provider" validate:"omitempty,oneof=ollama anthropic gemini"`
	Endpoint   string   `toml:"endpoint"`
	Model      string   `toml:"model"`
	APIKey     string   `toml:"-"`
	TimeoutMs  int      `toml:"timeout_ms" validate:"gte=0"`
	MaxRetries int      `toml:"max_retries" validate:"gte=0"`
	// RatePerSec caps outgoing calls; zero disables limiting.
	RatePerSec float64 `toml:"rate_per_sec" validate:"gte=0"`
	Burst      int     `toml:"burst" validate:"gte=0"`
	Tasks      map[TaskType]TaskConfig `toml:"tasks"`
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// LLM is disabled by default, so insights use the fallback text.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:   ProviderOllama,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  20000,
		MaxRetries: 1,
		Burst:      4,
		Tasks: map[TaskType]TaskConfig{
			TaskTitle:   {Temperature: 0.5, MaxTokens: 120, TimeoutMs: 15000},
			TaskSummary: {Temperature: 0.5, MaxTokens: 300},
			TaskStory:   {Temperature: 0.6, MaxTokens: 500, TimeoutMs: 30000},
			TaskActions: {Temperature: 0.2, MaxTokens: 400},
			TaskAudio:   {Temperature: 0.4, MaxTokens: 350},
		},
	}
}

// DefaultModel is the model used for a provider when none is configured.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderAnthropic:
		return "claude-3-5-haiku-latest"
	case ProviderGemini:
		return "gemini-2.0-flash"
	default:
		return "llama3.2"
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// ApplyEnv overlays LEDGERPULSE_LLM_* and provider key variables onto cfg.
func ApplyEnv(cfg *LLMConfig) {
	if v := os.Getenv("LEDGERPULSE_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("LEDGERPULSE_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("LEDGERPULSE_LLM_PROVIDER"); v != "" {
		p := Provider(strings.ToLower(v))
		if p != cfg.Provider && os.Getenv("LEDGERPULSE_LLM_MODEL") == "" {
			cfg.Model = DefaultModel(p)
		}
		cfg.Provider = p
	}
	if v := os.Getenv("LEDGERPULSE_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("LEDGERPULSE_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("LEDGERPULSE_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("LEDGERPULSE_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("LEDGERPULSE_LLM_RATE_PER_SEC"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.RatePerSec = f
		}
	}

	switch cfg.Provider {
	case ProviderAnthropic:
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case ProviderGemini:
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	for _, task := range AllTasks {
		applyTaskTimeoutEnv(cfg, task, "LEDGERPULSE_LLM_"+strings.ToUpper(string(task))+"_TIMEOUT_MS")
	}
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// params resolves temperature and token limit for a request.
func (c LLMConfig) params(req GenerateRequest) (float64, int) {
	tc := c.Tasks[req.Task]
	temp, maxTok := tc.Temperature, tc.MaxTokens
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	if maxTok <= 0 {
		maxTok = 512
	}
	return temp, maxTok
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	if cfg.Tasks == nil {
		cfg.Tasks = map[TaskType]TaskConfig{}
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
