package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort       = "8080"
	DefaultModel      = "openai/gpt-oss-120b:free"
	DefaultBaseURL    = "https://openrouter.ai/api/v1"
	DefaultAITimeout  = 30 * time.Second
	DefaultStatePath  = "triage.db"
	DefaultBatchLimit = 4
)

// Config holds process configuration read from the environment.
type Config struct {
	Port string

	// OpenRouter credentials. An empty APIKey selects rule-based mode.
	APIKey    string
	Model     string
	BaseURL   string
	AITimeout time.Duration

	StatePath   string
	BatchLimit  int
	WhoisEnrich bool
}

// Load reads .env (if present) and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:        envOr("PORT", DefaultPort),
		APIKey:      strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),
		Model:       envOr("OPENROUTER_MODEL", DefaultModel),
		BaseURL:     strings.TrimRight(envOr("OPENROUTER_BASE_URL", DefaultBaseURL), "/"),
		AITimeout:   DefaultAITimeout,
		StatePath:   envOr("TRIAGE_STATE_PATH", DefaultStatePath),
		BatchLimit:  DefaultBatchLimit,
		WhoisEnrich: envBool("TRIAGE_WHOIS_ENRICH"),
	}

	if v := os.Getenv("TRIAGE_AI_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("parse TRIAGE_AI_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return cfg, fmt.Errorf("TRIAGE_AI_TIMEOUT must be positive, got %s", v)
		}
		cfg.AITimeout = d
	}

	if v := os.Getenv("TRIAGE_BATCH_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("TRIAGE_BATCH_LIMIT must be a positive integer, got %q", v)
		}
		cfg.BatchLimit = n
	}

	return cfg, nil
}

// HasCredential reports whether the reasoning service can be called.
func (c Config) HasCredential() bool {
	return c.APIKey != ""
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
