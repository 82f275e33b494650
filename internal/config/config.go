// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// AI service types selecting default endpoint and model.
const (
	ServiceDoubao = "doubao"
	ServiceOpenAI = "openai"
	ServiceCustom = "custom"
)

// AIConfig holds the completion-provider configuration.
type AIConfig struct {
	ServiceType string        // "doubao", "openai" or "custom"
	APIKey      string        // empty means the smart-query feature is unavailable
	BaseURL     string        // resolved endpoint
	Model       string        // resolved model or endpoint ID
	Timeout     time.Duration // hard bound on one provider call (default 30s)
}

// Configured reports whether an API credential is available.
func (a *AIConfig) Configured() bool { return a.APIKey != "" }

// Config holds the configuration for the HTTP API and the SQLite store.
type Config struct {
	DBPath     string // path to the SQLite database file
	ListenAddr string // HTTP listen address (default ":8080")
	JWTSecret  string // HS256 shared secret for auth tokens
	LogLevel   string // log level: debug, info, warn, error (default "info")

	// Rate limiting
	RateLimitRPS   float64 // sustained requests per second (default 100)
	RateLimitBurst int     // burst capacity (default 200)

	// CORS
	CORSAllowedOrigins []string // allowed origins (default: ["*"])

	// BootstrapAdmin is the username promoted to superuser at startup.
	BootstrapAdmin string

	// AI holds the completion-provider configuration.
	AI AIConfig

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		DBPath:         os.Getenv("DB_PATH"),
		ListenAddr:     os.Getenv("LISTEN_ADDR"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		BootstrapAdmin: os.Getenv("BOOTSTRAP_ADMIN"),
	}

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitBurst = n
		}
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = origins
	}

	cfg.AI = loadAIConfig()

	// Defaults
	if cfg.DBPath == "" {
		cfg.DBPath = "countystats.sqlite"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
		cfg.Warnings = append(cfg.Warnings, "JWT_SECRET not set, using an insecure default. Set JWT_SECRET in production!")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 100
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 200
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}
	if !cfg.AI.Configured() {
		cfg.Warnings = append(cfg.Warnings, "no AI API key configured, smart queries will be unavailable (set AI_API_KEY)")
	}

	return cfg, nil
}

// loadAIConfig resolves the completion-provider settings with the precedence:
// explicit env var → alternative env var names → built-in default per
// service type.
func loadAIConfig() AIConfig {
	ai := AIConfig{
		ServiceType: strings.ToLower(os.Getenv("AI_SERVICE_TYPE")),
		APIKey:      firstNonEmpty(os.Getenv("AI_API_KEY"), os.Getenv("DOUBAO_API_KEY"), os.Getenv("ARK_API_KEY")),
		BaseURL:     os.Getenv("AI_API_BASE"),
		Model:       os.Getenv("AI_MODEL"),
		Timeout:     30 * time.Second,
	}

	if v := os.Getenv("AI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ai.Timeout = d
		}
	}

	switch ai.ServiceType {
	case ServiceOpenAI, ServiceCustom:
		if ai.BaseURL == "" {
			ai.BaseURL = "https://api.openai.com/v1"
		}
		if ai.Model == "" {
			ai.Model = "gpt-3.5-turbo"
		}
	case ServiceDoubao:
		fallthrough
	default:
		// Doubao (Volcano Ark) is the default service type.
		ai.ServiceType = ServiceDoubao
		if ai.BaseURL == "" {
			ai.BaseURL = "https://ark.cn-beijing.volces.com/api/v3"
		}
		if ai.Model == "" {
			ai.Model = "doubao-pro-32k"
		}
	}

	return ai
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// LoadDotEnv reads a .env file and sets any variables not already in the
// environment. Lines must be in KEY=VALUE format. Comments (#) and blank
// lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripQuotes(strings.TrimSpace(value))
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
