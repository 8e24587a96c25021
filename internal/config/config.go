// Package config loads application settings: defaults, then an optional
// TOML file, then LEDGERPULSE_* environment overrides, then validation.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/alexanderramin/ledgerpulse/internal/llm"
)

// Duration lets TOML carry values such as "5m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds all application settings.
type Config struct {
	DBPath      string `toml:"db_path" validate:"required"`
	Locale      string `toml:"locale" validate:"required,bcp47_language_tag"`
	Timezone    string `toml:"timezone" validate:"required,timezone"`
	InsightHour int    `toml:"insight_hour" validate:"gte=0,lte=23"`
	// EnabledTeams is the raw team allow-list: empty for none, "*" for all,
	// otherwise comma-separated IDs.
	EnabledTeams     string        `toml:"enabled_teams"`
	CurrencyCacheTTL Duration      `toml:"currency_cache_ttl"`
	LLM              llm.LLMConfig `toml:"llm"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DBPath:           filepath.Join(homeDir(), ".ledgerpulse", "ledgerpulse.db"),
		Locale:           "en-US",
		Timezone:         "Europe/Stockholm",
		InsightHour:      7,
		CurrencyCacheTTL: Duration{5 * time.Minute},
		LLM:              llm.DefaultConfig(),
	}
}

// DefaultPath is where Load looks when no file is named.
func DefaultPath() string {
	return filepath.Join(homeDir(), ".ledgerpulse", "config.toml")
}

// Load builds the configuration. An empty path reads DefaultPath when it
// exists; a named file that is missing is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct constraints, including the nested LLM settings.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LEDGERPULSE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("LEDGERPULSE_LOCALE"); v != "" {
		cfg.Locale = v
	}
	if v := os.Getenv("LEDGERPULSE_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("LEDGERPULSE_INSIGHT_HOUR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.InsightHour = n
		}
	}
	if v, ok := os.LookupEnv("INSIGHTS_ENABLED_TEAM_IDS"); ok {
		cfg.EnabledTeams = v
	}
	if v := os.Getenv("LEDGERPULSE_CURRENCY_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.CurrencyCacheTTL = Duration{d}
		}
	}
	llm.ApplyEnv(&cfg.LLM)
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
