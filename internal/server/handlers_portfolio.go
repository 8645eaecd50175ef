package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/veldrane/coinfolio/internal/models"
)

// handlePortfolioGet handles GET /api/portfolio.
func (s *Server) handlePortfolioGet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	portfolio, err := s.app.PortfolioService.GetPortfolio(r.Context(), uc.UserID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load portfolio: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, portfolio)
}

// handleHoldingsCreate handles POST /api/portfolio/holdings.
func (s *Server) handleHoldingsCreate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	var holding models.Holding
	if !DecodeJSON(w, r, &holding) {
		return
	}

	portfolio, err := s.app.PortfolioService.AddHolding(r.Context(), uc.UserID, holding)
	if err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Failed to add holding: %v", err))
		return
	}

	WriteJSON(w, http.StatusCreated, portfolio)
}

// handleHoldingByID handles PATCH and DELETE /api/portfolio/holdings/{id}.
func (s *Server) handleHoldingByID(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPatch, http.MethodDelete) {
		return
	}

	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	holdingID := PathParam(r, "/api/portfolio/holdings/", "")
	if holdingID == "" {
		WriteError(w, http.StatusBadRequest, "Holding id is required")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var update models.HoldingUpdate
		if !DecodeJSON(w, r, &update) {
			return
		}
		portfolio, err := s.app.PortfolioService.UpdateHolding(r.Context(), uc.UserID, holdingID, update)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to update holding: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, portfolio)

	case http.MethodDelete:
		portfolio, err := s.app.PortfolioService.RemoveHolding(r.Context(), uc.UserID, holdingID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to remove holding: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, portfolio)
	}
}

// handlePortfolioMetrics handles GET /api/portfolio/metrics.
func (s *Server) handlePortfolioMetrics(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	metrics, err := s.app.PortfolioService.ComputeMetrics(r.Context(), uc.UserID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to compute metrics: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, metrics)
}

// handlePortfolioPredictions handles GET /api/portfolio/predictions: one
// prediction per held symbol. Symbols that cannot be predicted are skipped
// and reported, not fatal.
func (s *Server) handlePortfolioPredictions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	portfolio, err := s.app.PortfolioService.GetPortfolio(r.Context(), uc.UserID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load portfolio: %v", err))
		return
	}

	seen := make(map[string]struct{})
	predictions := []*models.Prediction{}
	var skipped []string

	for _, h := range portfolio.Holdings {
		symbol := strings.ToUpper(h.Symbol)
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}

		p, err := s.app.PredictionService.Predict(r.Context(), symbol)
		if err != nil {
			s.logger.Debug().Str("symbol", symbol).Err(err).Msg("portfolio prediction skipped")
			skipped = append(skipped, symbol)
			continue
		}
		predictions = append(predictions, p)
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"predictions": predictions,
		"skipped":     skipped,
	})
}
