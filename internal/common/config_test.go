package common

import (
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Clients.News.Provider != "cryptocompare" {
		t.Errorf("News.Provider default = %q, want cryptocompare", cfg.Clients.News.Provider)
	}
	if cfg.Feed.JitterEnabled {
		t.Error("jitter must be disabled by default")
	}
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("COINFOLIO_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_APIKeyEnvOverrides(t *testing.T) {
	t.Setenv("COINFOLIO_COINGECKO_API_KEY", "cg-key")
	t.Setenv("COINFOLIO_NEWSDATA_API_KEY", "nd-key")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Clients.CoinGecko.APIKey != "cg-key" {
		t.Errorf("CoinGecko.APIKey = %q, want cg-key", cfg.Clients.CoinGecko.APIKey)
	}
	if cfg.Clients.News.NewsDataAPIKey != "nd-key" {
		t.Errorf("News.NewsDataAPIKey = %q, want nd-key", cfg.Clients.News.NewsDataAPIKey)
	}
}

func TestFeedConfig_IntervalFallbacks(t *testing.T) {
	feed := FeedConfig{PriceInterval: "not-a-duration"}
	if got := feed.GetPriceInterval(); got != 30*time.Second {
		t.Errorf("GetPriceInterval() = %v on bad input, want 30s", got)
	}

	feed = FeedConfig{PriceInterval: "10s", NewsInterval: "5m"}
	if got := feed.GetPriceInterval(); got != 10*time.Second {
		t.Errorf("GetPriceInterval() = %v, want 10s", got)
	}
	if got := feed.GetNewsInterval(); got != 5*time.Minute {
		t.Errorf("GetNewsInterval() = %v, want 5m", got)
	}
}
