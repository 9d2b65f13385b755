// Package common provides shared utilities for the advisor service
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the advisor service
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Analyzer    AnalyzerConfig `toml:"analyzer"`
	Clients     ClientsConfig  `toml:"clients"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// AnalyzerConfig holds analysis pipeline configuration
type AnalyzerConfig struct {
	BenchmarkSymbol string `toml:"benchmark_symbol"` // reference index code, default "000001"
	MaxBatchSize    int    `toml:"max_batch_size"`   // per-request symbol cap, default 10
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Eastmoney EastmoneyConfig `toml:"eastmoney"`
	GLM       GLMConfig       `toml:"glm"`
}

// EastmoneyConfig holds eastmoney market-data and flash-news configuration
type EastmoneyConfig struct {
	KlineBaseURL string `toml:"kline_base_url"`
	NewsBaseURL  string `toml:"news_base_url"`
	RateLimit    int    `toml:"rate_limit"`
	Timeout      string `toml:"timeout"`
	NewsTimeout  string `toml:"news_timeout"`
}

// GetTimeout parses and returns the kline request timeout duration
func (c *EastmoneyConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetNewsTimeout parses and returns the flash-news request timeout duration
func (c *EastmoneyConfig) GetNewsTimeout() time.Duration {
	d, err := time.ParseDuration(c.NewsTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// GLMConfig holds GLM advisory model configuration
type GLMConfig struct {
	BaseURL     string  `toml:"base_url"`
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	Timeout     string  `toml:"timeout"`
}

// GetTimeout parses and returns the advisory request timeout duration
func (c *GLMConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Analyzer: AnalyzerConfig{
			BenchmarkSymbol: "000001",
			MaxBatchSize:    10,
		},
		Clients: ClientsConfig{
			Eastmoney: EastmoneyConfig{
				KlineBaseURL: "https://push2his.eastmoney.com",
				NewsBaseURL:  "http://newsapi.eastmoney.com",
				RateLimit:    5,
				Timeout:      "30s",
				NewsTimeout:  "5s",
			},
			GLM: GLMConfig{
				BaseURL:     "https://open.bigmodel.cn/api/paas/v4",
				Model:       "glm-4-flash",
				Temperature: 0.1,
				Timeout:     "120s",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("ADVISOR_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("ADVISOR_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("ADVISOR_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("ADVISOR_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if bench := os.Getenv("ADVISOR_BENCHMARK_SYMBOL"); bench != "" {
		config.Analyzer.BenchmarkSymbol = bench
	}

	if model := os.Getenv("ADVISOR_GLM_MODEL"); model != "" {
		config.Clients.GLM.Model = model
	}
}

// ResolveAPIKey resolves an API key from environment variables with config fallback
func ResolveAPIKey(name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"glm_api_key": {"GLM_API_KEY", "ADVISOR_GLM_API_KEY", "ZHIPUAI_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
