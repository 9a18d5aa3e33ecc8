// Package handlers provides HTTP handlers for macroeconomic indicators.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/modules/macro"
)

// Handler handles macro HTTP requests.
type Handler struct {
	service *macro.Service
	log     zerolog.Logger
}

// NewHandler creates a new macro handler.
func NewHandler(service *macro.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "macro").Logger(),
	}
}

// HandleLatest handles GET /api/macro
func (h *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")

	metrics, err := h.service.Latest(country)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load macro metrics")
		writeError(w, http.StatusInternalServerError, "Failed to load macro metrics")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"metrics": metrics,
			"count":   len(metrics),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleHistory handles GET /api/macro/{code}/history
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request, code string) {
	country := r.URL.Query().Get("country")
	days := 365
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		if parsed, err := strconv.Atoi(daysStr); err == nil && parsed > 0 {
			days = parsed
		}
	}

	metrics, err := h.service.History(code, country, days)
	if err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("Failed to load macro history")
		writeError(w, http.StatusInternalServerError, "Failed to load macro history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"code":    code,
			"history": metrics,
			"count":   len(metrics),
		},
		"metadata": map[string]interface{}{
			"days":      days,
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleAnalysis handles GET /api/macro/analysis
func (h *Handler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")

	analysis, err := h.service.Analysis(r.Context(), country)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to generate macro analysis")
		writeError(w, http.StatusInternalServerError, "Failed to generate macro analysis")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{"analysis": analysis},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleSync handles POST /api/macro/sync
func (h *Handler) HandleSync(w http.ResponseWriter, r *http.Request) {
	synced, err := h.service.Sync(r.Context(), 5)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to sync macro metrics")
		writeError(w, http.StatusInternalServerError, "Failed to sync macro metrics")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{"synced_series": synced},
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
