package server

import (
	"fmt"
	"net/http"
	"strconv"
)

// handleMarketPrices handles GET /api/market/prices.
func (s *Server) handleMarketPrices(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	snapshot := s.app.MarketService.Snapshot()
	if snapshot == nil || r.URL.Query().Get("refresh") == "true" {
		// Force a poll, or fetch inline when the first request beats the
		// initial scheduled poll.
		var err error
		snapshot, err = s.app.MarketService.Refresh(r.Context())
		if err != nil && snapshot == nil {
			WriteError(w, http.StatusServiceUnavailable, "Market data unavailable")
			return
		}
	}

	WriteJSON(w, http.StatusOK, snapshot)
}

// handleMarketGlobal handles GET /api/market/global.
func (s *Server) handleMarketGlobal(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	global, err := s.app.MarketService.GlobalMarket(r.Context())
	if err != nil {
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Failed to fetch global market data: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, global)
}

// handleMarketChart handles GET /api/market/chart/{id}?days=N.
func (s *Server) handleMarketChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	assetID := PathParam(r, "/api/market/chart/", "")
	if assetID == "" {
		WriteError(w, http.StatusBadRequest, "Asset id is required")
		return
	}

	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 1 || d > 365 {
			WriteError(w, http.StatusBadRequest, "days must be an integer between 1 and 365")
			return
		}
		days = d
	}

	chart, err := s.app.MarketService.Chart(r.Context(), assetID, days)
	if err != nil {
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Failed to fetch chart: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, chart)
}

// handleNews handles GET /api/news.
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	articles, err := s.app.NewsService.Articles(r.Context())
	if err != nil {
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Failed to fetch news: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"articles": articles,
	})
}
