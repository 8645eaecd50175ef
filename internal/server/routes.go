package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/veldrane/coinfolio/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Auth
	mux.HandleFunc("/api/auth/register", s.handleAuthRegister)
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/validate", s.handleAuthValidate)
	mux.HandleFunc("/api/auth/session", s.handleAuthSession)

	// Market data
	mux.HandleFunc("/api/market/prices", s.handleMarketPrices)
	mux.HandleFunc("/api/market/global", s.handleMarketGlobal)
	mux.HandleFunc("/api/market/chart/", s.handleMarketChart)

	// News
	mux.HandleFunc("/api/news", s.handleNews)

	// Portfolio (user-scoped)
	mux.HandleFunc("/api/portfolio", s.handlePortfolioGet)
	mux.HandleFunc("/api/portfolio/holdings", s.handleHoldingsCreate)
	mux.HandleFunc("/api/portfolio/holdings/", s.handleHoldingByID)
	mux.HandleFunc("/api/portfolio/metrics", s.handlePortfolioMetrics)
	mux.HandleFunc("/api/portfolio/predictions", s.handlePortfolioPredictions)

	// Predictions and signals
	mux.HandleFunc("/api/predictions/", s.handlePrediction)
	mux.HandleFunc("/api/signals/", s.handleSignal)
	mux.HandleFunc("/api/sentiment/", s.handleSentiment)
	mux.HandleFunc("/api/inference/status", s.handleInferenceStatus)
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	snapshot := s.app.MarketService.Snapshot()
	feed := "empty"
	if snapshot != nil {
		feed = "live"
		if snapshot.Fallback {
			feed = "fallback"
		}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": common.GetVersion(),
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
		"feed":    feed,
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
		"go_version": runtime.Version(),
	})
}

// handleConfig handles GET /api/config. Secrets are masked, never echoed.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	cfg := s.app.Config

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":          cfg.Environment,
		"storage_path":         cfg.Storage.Path,
		"logging_level":        cfg.Logging.Level,
		"price_interval":       cfg.Feed.GetPriceInterval().String(),
		"prediction_interval":  cfg.Feed.GetPredictionInterval().String(),
		"news_interval":        cfg.Feed.GetNewsInterval().String(),
		"jitter_enabled":       cfg.Feed.JitterEnabled,
		"news_provider":        cfg.Clients.News.Provider,
		"coingecko_api_key":    maskSecret(cfg.Clients.CoinGecko.APIKey),
		"coingecko_configured": cfg.Clients.CoinGecko.APIKey != "",
		"newsdata_configured":  cfg.Clients.News.NewsDataAPIKey != "",
		"gemini_configured":    cfg.Clients.Gemini.APIKey != "",
		"inference_url":        cfg.Clients.Inference.BaseURL,
	})
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
