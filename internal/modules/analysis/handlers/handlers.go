// Package handlers provides HTTP handlers for asset analytics and
// correlation matrices.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/clients/yahoo"
	"github.com/finsight/finsight/internal/modules/analysis"
)

// Handler handles analysis HTTP requests.
type Handler struct {
	service *analysis.Service
	log     zerolog.Logger
}

// NewHandler creates a new analysis handler.
func NewHandler(service *analysis.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "analysis").Logger(),
	}
}

// HandleAnalyze handles GET /api/assets/{symbol}/analysis
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request, symbol string) {
	days := queryInt(r, "days", 365)
	benchmark := r.URL.Query().Get("benchmark")
	withNarrative := r.URL.Query().Get("narrative") != "false"

	result, err := h.service.Analyze(r.Context(), symbol, days, benchmark, withNarrative)
	if err != nil {
		if errors.Is(err, yahoo.ErrUnavailable) {
			h.log.Warn().Err(err).Str("symbol", symbol).Msg("Analysis failed, provider unavailable")
			writeError(w, http.StatusServiceUnavailable, "Market data temporarily unavailable")
			return
		}
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to analyze asset")
		writeError(w, http.StatusInternalServerError, "Failed to analyze asset")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": result,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleCorrelations handles GET /api/analysis/correlations?symbols=A,B,C
func (h *Handler) HandleCorrelations(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("symbols")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "symbols parameter is required")
		return
	}
	symbols := strings.Split(raw, ",")
	if len(symbols) < 2 {
		writeError(w, http.StatusBadRequest, "at least two symbols are required")
		return
	}

	days := queryInt(r, "days", 365)
	matrix, err := h.service.CorrelationMatrix(r.Context(), symbols, days)
	if err != nil {
		h.log.Error().Err(err).Str("symbols", raw).Msg("Failed to compute correlation matrix")
		writeError(w, http.StatusInternalServerError, "Failed to compute correlation matrix")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"symbols": matrix.Symbols,
			"matrix":  matrix.Values,
		},
		"metadata": map[string]interface{}{
			"days":      days,
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
