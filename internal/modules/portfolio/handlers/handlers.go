// Package handlers provides HTTP handlers for portfolio holdings and
// valuation.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/clients/yahoo"
	"github.com/finsight/finsight/internal/modules/auth"
	"github.com/finsight/finsight/internal/modules/portfolio"
)

// Handler handles portfolio HTTP requests. All routes require auth.
type Handler struct {
	service  *portfolio.Service
	validate *validator.Validate
	log      zerolog.Logger
}

// NewHandler creates a new portfolio handler.
func NewHandler(service *portfolio.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		log:      log.With().Str("handler", "portfolio").Logger(),
	}
}

type holdingRequest struct {
	Symbol      string  `json:"symbol" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	AverageCost float64 `json:"average_cost" validate:"gte=0"`
	Notes       string  `json:"notes"`
}

// HandleSetHolding handles PUT /api/portfolio/holdings
func (h *Handler) HandleSetHolding(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req holdingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	holding, err := h.service.SetHolding(r.Context(), userID, req.Symbol, req.Quantity, req.AverageCost, req.Notes)
	if err != nil {
		if errors.Is(err, yahoo.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "Market data temporarily unavailable")
			return
		}
		h.log.Error().Err(err).Str("symbol", req.Symbol).Msg("Failed to set holding")
		writeError(w, http.StatusInternalServerError, "Failed to set holding")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": holding})
}

// HandleRemoveHolding handles DELETE /api/portfolio/holdings/{symbol}
func (h *Handler) HandleRemoveHolding(w http.ResponseWriter, r *http.Request, symbol string) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	removed, err := h.service.RemoveHolding(r.Context(), userID, symbol)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to remove holding")
		writeError(w, http.StatusInternalServerError, "Failed to remove holding")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "Holding not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{"removed": symbol},
	})
}

// HandleSummary handles GET /api/portfolio
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	summary, err := h.service.Summary(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to build portfolio summary")
		writeError(w, http.StatusInternalServerError, "Failed to build portfolio summary")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": summary,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleNarrative handles GET /api/portfolio/analysis
func (h *Handler) HandleNarrative(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	narrative, err := h.service.Narrative(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to generate portfolio analysis")
		writeError(w, http.StatusInternalServerError, "Failed to generate portfolio analysis")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{"analysis": narrative},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
