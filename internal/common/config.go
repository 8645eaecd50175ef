// Package common provides shared utilities for Coinfolio
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Coinfolio
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Feed        FeedConfig    `toml:"feed"`
	Logging     LoggingConfig `toml:"logging"`
	Auth        AuthConfig    `toml:"auth"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds file storage configuration.
type StorageConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	CoinGecko CoinGeckoConfig `toml:"coingecko"`
	News      NewsConfig      `toml:"news"`
	Inference InferenceConfig `toml:"inference"`
	Gemini    GeminiConfig    `toml:"gemini"`
}

// CoinGeckoConfig holds CoinGecko API configuration. The API key is optional;
// without one the public endpoints still work at a lower rate limit.
type CoinGeckoConfig struct {
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
	TopN      int    `toml:"top_n"`
}

// GetTimeout parses and returns the timeout duration
func (c *CoinGeckoConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// NewsConfig holds news provider configuration. Provider selects the primary
// source ("cryptocompare" or "newsdata"); the other acts as fallback.
type NewsConfig struct {
	Provider       string `toml:"provider"`
	NewsDataAPIKey string `toml:"newsdata_api_key"`
	Timeout        string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *NewsConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// InferenceConfig holds the ML prediction service configuration
type InferenceConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *InferenceConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration for sentiment summaries
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// FeedConfig holds polling intervals and feed behavior.
type FeedConfig struct {
	PriceInterval      string `toml:"price_interval"`
	PredictionInterval string `toml:"prediction_interval"`
	NewsInterval       string `toml:"news_interval"`
	JitterEnabled      bool   `toml:"jitter_enabled"`
	JitterInterval     string `toml:"jitter_interval"`
}

func parseInterval(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GetPriceInterval returns the market data polling interval.
func (c *FeedConfig) GetPriceInterval() time.Duration {
	return parseInterval(c.PriceInterval, 30*time.Second)
}

// GetPredictionInterval returns the prediction refresh interval.
func (c *FeedConfig) GetPredictionInterval() time.Duration {
	return parseInterval(c.PredictionInterval, 30*time.Second)
}

// GetNewsInterval returns the news refresh interval.
func (c *FeedConfig) GetNewsInterval() time.Duration {
	return parseInterval(c.NewsInterval, 2*time.Minute)
}

// GetJitterInterval returns the jitter simulator tick interval.
func (c *FeedConfig) GetJitterInterval() time.Duration {
	return parseInterval(c.JitterInterval, 3*time.Second)
}

// AuthConfig holds authentication configuration for JWT sessions.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
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
		Storage: StorageConfig{
			Path: "data",
		},
		Clients: ClientsConfig{
			CoinGecko: CoinGeckoConfig{
				BaseURL:   "https://api.coingecko.com/api/v3",
				RateLimit: 5,
				Timeout:   "30s",
				TopN:      10,
			},
			News: NewsConfig{
				Provider: "cryptocompare",
				Timeout:  "30s",
			},
			Inference: InferenceConfig{
				BaseURL: "http://localhost:5000",
				Timeout: "10s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Feed: FeedConfig{
			PriceInterval:      "30s",
			PredictionInterval: "30s",
			NewsInterval:       "2m",
			JitterEnabled:      false,
			JitterInterval:     "3s",
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
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
	if env := os.Getenv("COINFOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("COINFOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("COINFOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("COINFOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("COINFOLIO_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if v := os.Getenv("COINFOLIO_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("COINFOLIO_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
	if v := os.Getenv("COINFOLIO_INFERENCE_URL"); v != "" {
		config.Clients.Inference.BaseURL = v
	}
	if v := os.Getenv("COINFOLIO_COINGECKO_API_KEY"); v != "" {
		config.Clients.CoinGecko.APIKey = v
	}
	if v := os.Getenv("COINFOLIO_NEWSDATA_API_KEY"); v != "" {
		config.Clients.News.NewsDataAPIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		config.Clients.Gemini.APIKey = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
