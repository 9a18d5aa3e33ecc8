// Package handlers provides HTTP handlers for asset master data and price
// history.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/clients/yahoo"
	"github.com/finsight/finsight/internal/modules/assets"
)

// Handler handles asset HTTP requests.
type Handler struct {
	service *assets.Service
	log     zerolog.Logger
}

// NewHandler creates a new asset handler.
func NewHandler(service *assets.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "assets").Logger(),
	}
}

// HandleList handles GET /api/assets
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.URL.Query().Get("type"))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list assets")
		writeError(w, http.StatusInternalServerError, "Failed to list assets")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"assets": list,
			"count":  len(list),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleSearch handles GET /api/assets/search
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "q parameter is required")
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	list, err := h.service.Search(q, limit)
	if err != nil {
		h.log.Error().Err(err).Str("q", q).Msg("Failed to search assets")
		writeError(w, http.StatusInternalServerError, "Failed to search assets")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"assets": list,
			"count":  len(list),
		},
	})
}

// HandleInfo handles GET /api/assets/{symbol}/info
func (h *Handler) HandleInfo(w http.ResponseWriter, r *http.Request, symbol string) {
	info, err := h.service.Info(r.Context(), symbol)
	if err != nil {
		h.handleProviderError(w, err, symbol, "Failed to get asset info")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": info})
}

// HandleHistory handles GET /api/assets/{symbol}/history
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request, symbol string) {
	days := 365
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		if parsed, err := strconv.Atoi(daysStr); err == nil && parsed > 0 {
			days = parsed
		}
	}

	bars, err := h.service.History(r.Context(), symbol, days)
	if err != nil {
		h.handleProviderError(w, err, symbol, "Failed to get price history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"symbol":  symbol,
			"history": bars,
			"count":   len(bars),
		},
		"metadata": map[string]interface{}{
			"days":      days,
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleQuote handles GET /api/assets/{symbol}/realtime
func (h *Handler) HandleQuote(w http.ResponseWriter, r *http.Request, symbol string) {
	quote, err := h.service.Quote(r.Context(), symbol)
	if err != nil {
		h.handleProviderError(w, err, symbol, "Failed to get quote")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"symbol":         quote.Symbol,
			"price":          quote.Price,
			"previous_close": quote.PreviousClose,
			"change_percent": quote.ChangePercent(),
			"currency":       quote.Currency,
			"market_time":    quote.MarketTime.Format(time.RFC3339),
		},
	})
}

func (h *Handler) handleProviderError(w http.ResponseWriter, err error, symbol, msg string) {
	if errors.Is(err, yahoo.ErrUnavailable) {
		h.log.Warn().Err(err).Str("symbol", symbol).Msg(msg)
		writeError(w, http.StatusServiceUnavailable, "Market data temporarily unavailable")
		return
	}
	h.log.Error().Err(err).Str("symbol", symbol).Msg(msg)
	writeError(w, http.StatusInternalServerError, msg)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
