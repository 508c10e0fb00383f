// Package config loads the application configuration from an optional YAML
// file with environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"kotodama/internal/domain"
)

// Config is the resolved application configuration.
type Config struct {
	Port           string
	Model          string
	Locale         string
	LogLevel       string
	CacheTTL       time.Duration
	SessionTTL     time.Duration
	Debounce       time.Duration
	MinChars       int
	RateLimit      int           // model invocations per IP per window
	RateWindow     time.Duration
	DatabaseURL    string
	DefaultPersona domain.PersonaDNA
}

// rawConfig represents the YAML structure.
type rawConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Gemini struct {
		Model  string `yaml:"model"`
		Locale string `yaml:"locale"`
	} `yaml:"gemini"`
	Cache struct {
		TTLMinutes int `yaml:"ttl_minutes"`
	} `yaml:"cache"`
	Session struct {
		TTLMinutes int `yaml:"ttl_minutes"`
		DebounceMS int `yaml:"debounce_ms"`
		MinChars   int `yaml:"min_chars"`
	} `yaml:"session"`
	RateLimit struct {
		PerMinute int `yaml:"per_minute"`
	} `yaml:"rate_limit"`
	Persona domain.PersonaDNA `yaml:"persona"`
}

// defaults returns the configuration used when no file and no overrides are
// present.
func defaults() Config {
	return Config{
		Port:       "3000",
		Locale:     "", // prompts fall back to their own default
		LogLevel:   "info",
		CacheTTL:   5 * time.Minute,
		SessionTTL: 30 * time.Minute,
		Debounce:   1500 * time.Millisecond,
		MinChars:   5,
		RateLimit:  10,
		RateWindow: time.Minute,
	}
}

// Load reads the YAML file at path (missing file is fine) and applies
// environment overrides: PORT, DATABASE_URL, LOG_LEVEL, CACHE_TTL_MINUTES.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			var raw rawConfig
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return Config{}, fmt.Errorf("failed to parse config: %w", err)
			}
			applyRaw(&cfg, raw)
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyRaw(cfg *Config, raw rawConfig) {
	if raw.Server.Port != "" {
		cfg.Port = raw.Server.Port
	}
	if raw.Gemini.Model != "" {
		cfg.Model = raw.Gemini.Model
	}
	if raw.Gemini.Locale != "" {
		cfg.Locale = raw.Gemini.Locale
	}
	if raw.Cache.TTLMinutes > 0 {
		cfg.CacheTTL = time.Duration(raw.Cache.TTLMinutes) * time.Minute
	}
	if raw.Session.TTLMinutes > 0 {
		cfg.SessionTTL = time.Duration(raw.Session.TTLMinutes) * time.Minute
	}
	if raw.Session.DebounceMS > 0 {
		cfg.Debounce = time.Duration(raw.Session.DebounceMS) * time.Millisecond
	}
	if raw.Session.MinChars > 0 {
		cfg.MinChars = raw.Session.MinChars
	}
	if raw.RateLimit.PerMinute > 0 {
		cfg.RateLimit = raw.RateLimit.PerMinute
	}
	if !raw.Persona.IsZero() {
		cfg.DefaultPersona = raw.Persona
	}
}

func applyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if ttl := os.Getenv("CACHE_TTL_MINUTES"); ttl != "" {
		if minutes, err := strconv.Atoi(ttl); err == nil && minutes > 0 {
			cfg.CacheTTL = time.Duration(minutes) * time.Minute
		}
	}
}
