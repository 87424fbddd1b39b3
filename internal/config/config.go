package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Server
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Environment string `json:"environment"`
	APIPrefix   string `json:"api_prefix"`
	LogLevel    string `json:"log_level"`

	// CORS
	CORSOrigins []string `json:"cors_origins"`

	// Auth
	APIKeyHeader string   `json:"api_key_header"`
	APIKeys      []string `json:"api_keys"`
	EnableAuth   bool     `json:"enable_auth"`

	// Rate limiting
	RateLimitPerMinute int `json:"rate_limit_per_minute"`

	// Schedule data store (DoltHub SQL API)
	DoltBaseURL string `json:"dolt_base_url"`
	DoltOwner   string `json:"dolt_owner"`
	DoltRepo    string `json:"dolt_repo"`
	DoltBranch  string `json:"dolt_branch"`

	// AI / LLM
	AnthropicAPIKey  string `json:"anthropic_api_key"`
	AnthropicBaseURL string `json:"anthropic_base_url"` // override for compatible proxies
	AnthropicModel   string `json:"anthropic_model"`
	AgentTimeout     int    `json:"agent_timeout"`

	// Orchestration loop budgets
	MaxSteps    int `json:"max_steps"`
	ErrorBudget int `json:"error_budget"`

	// Audit
	EnableAuditLogging bool `json:"enable_audit_logging"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Host:               DefaultHost,
		Port:               DefaultPort,
		Environment:        DefaultEnvironment,
		APIPrefix:          DefaultAPIPrefix,
		LogLevel:           DefaultLogLevel,
		CORSOrigins:        DefaultCORSOrigins,
		APIKeyHeader:       "X-API-Key",
		RateLimitPerMinute: DefaultRateLimitPerMinute,
		DoltBaseURL:        DefaultDoltBaseURL,
		DoltOwner:          DefaultDoltOwner,
		DoltRepo:           DefaultDoltRepo,
		DoltBranch:         DefaultDoltBranch,
		AnthropicModel:     DefaultAnthropicModel,
		AgentTimeout:       DefaultAgentTimeout,
		MaxSteps:           DefaultMaxSteps,
		ErrorBudget:        DefaultErrorBudget,
		EnableAuditLogging: true,
	}

	// Load from JSON config file if specified
	if path := getEnv("NL2SPORTS_CONFIG", ""); path != "" {
		if err := loadJSON(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func loadJSON(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("NL2SPORTS_HOST", ""); v != "" {
		cfg.Host = v
	}
	if v := getEnv("NL2SPORTS_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := getEnv("NL2SPORTS_ENV", ""); v != "" {
		cfg.Environment = v
	}
	if v := getEnv("NL2SPORTS_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("NL2SPORTS_API_KEYS", ""); v != "" {
		cfg.APIKeys = strings.Split(v, ",")
		cfg.EnableAuth = true
	}
	if v := getEnv("ANTHROPIC_API_KEY", ""); v != "" {
		cfg.AnthropicAPIKey = v
	}
	// Legacy name used by the original deployment.
	if cfg.AnthropicAPIKey == "" {
		cfg.AnthropicAPIKey = getEnv("API_KEY", "")
	}
	if v := getEnv("ANTHROPIC_BASE_URL", ""); v != "" {
		cfg.AnthropicBaseURL = v
	}
	if v := getEnv("ANTHROPIC_MODEL", ""); v != "" {
		cfg.AnthropicModel = v
	}
	if v := getEnv("DOLTHUB_BASE_URL", ""); v != "" {
		cfg.DoltBaseURL = v
	}
	if v := getEnv("DOLTHUB_OWNER", ""); v != "" {
		cfg.DoltOwner = v
	}
	if v := getEnv("DOLTHUB_REPO", ""); v != "" {
		cfg.DoltRepo = v
	}
	if v := getEnv("DOLTHUB_BRANCH", ""); v != "" {
		cfg.DoltBranch = v
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		if r, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerMinute = r
		}
	}
	if v := getEnv("ENABLE_AUTH", ""); v != "" {
		cfg.EnableAuth = v == "true" || v == "1"
	}
	if v := getEnv("NL2SPORTS_MAX_STEPS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxSteps = n
		}
	}
	if v := getEnv("NL2SPORTS_ERROR_BUDGET", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ErrorBudget = n
		}
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
