package server

import (
	"fmt"
	"net/http"
	"strings"
)

// symbolParam extracts and normalizes the {symbol} path segment.
func symbolParam(r *http.Request, prefix string) string {
	return strings.ToUpper(strings.TrimSpace(PathParam(r, prefix, "")))
}

// handlePrediction handles GET /api/predictions/{symbol}.
func (s *Server) handlePrediction(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := symbolParam(r, "/api/predictions/")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	prediction, err := s.app.PredictionService.Predict(r.Context(), symbol)
	if err != nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("No prediction for %s: %v", symbol, err))
		return
	}

	WriteJSON(w, http.StatusOK, prediction)
}

// handleSignal handles GET /api/signals/{symbol}.
func (s *Server) handleSignal(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := symbolParam(r, "/api/signals/")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	signal, err := s.app.SignalService.Signal(r.Context(), symbol)
	if err != nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("No signal for %s: %v", symbol, err))
		return
	}

	WriteJSON(w, http.StatusOK, signal)
}

// handleSentiment handles GET /api/sentiment/{symbol}.
func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := symbolParam(r, "/api/sentiment/")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	sentiment, err := s.app.PredictionService.Sentiment(r.Context(), symbol)
	if err != nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("No sentiment for %s: %v", symbol, err))
		return
	}

	WriteJSON(w, http.StatusOK, sentiment)
}

// handleInferenceStatus handles GET /api/inference/status.
func (s *Server) handleInferenceStatus(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, s.app.PredictionService.Status(r.Context()))
}
