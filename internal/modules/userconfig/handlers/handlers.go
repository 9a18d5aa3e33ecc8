// Package handlers provides HTTP handlers for watchlists and price alerts.
// All routes require auth.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/modules/auth"
	"github.com/finsight/finsight/internal/modules/userconfig"
)

// Handler handles userconfig HTTP requests.
type Handler struct {
	service  *userconfig.Service
	validate *validator.Validate
	log      zerolog.Logger
}

// NewHandler creates a new userconfig handler.
func NewHandler(service *userconfig.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		log:      log.With().Str("handler", "userconfig").Logger(),
	}
}

type watchlistRequest struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description"`
	AssetSymbols []string `json:"asset_symbols"`
}

// HandleListWatchlists handles GET /api/watchlists
func (h *Handler) HandleListWatchlists(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	watchlists, err := h.service.Watchlists(userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list watchlists")
		writeError(w, http.StatusInternalServerError, "Failed to list watchlists")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"watchlists": watchlists,
			"count":      len(watchlists),
		},
	})
}

// HandleCreateWatchlist handles POST /api/watchlists
func (h *Handler) HandleCreateWatchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req watchlistRequest
	if !h.decode(w, r, &req) {
		return
	}

	watchlist, err := h.service.CreateWatchlist(userID, req.Name, req.Description, req.AssetSymbols)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create watchlist")
		writeError(w, http.StatusInternalServerError, "Failed to create watchlist")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": watchlist})
}

// HandleUpdateWatchlist handles PUT /api/watchlists/{id}
func (h *Handler) HandleUpdateWatchlist(w http.ResponseWriter, r *http.Request, id int64) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req watchlistRequest
	if !h.decode(w, r, &req) {
		return
	}

	watchlist, err := h.service.UpdateWatchlist(userID, id, req.Name, req.Description, req.AssetSymbols)
	if err != nil {
		h.log.Error().Err(err).Int64("watchlist_id", id).Msg("Failed to update watchlist")
		writeError(w, http.StatusInternalServerError, "Failed to update watchlist")
		return
	}
	if watchlist == nil {
		writeError(w, http.StatusNotFound, "Watchlist not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": watchlist})
}

// HandleDeleteWatchlist handles DELETE /api/watchlists/{id}
func (h *Handler) HandleDeleteWatchlist(w http.ResponseWriter, r *http.Request, id int64) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	deleted, err := h.service.DeleteWatchlist(userID, id)
	if err != nil {
		h.log.Error().Err(err).Int64("watchlist_id", id).Msg("Failed to delete watchlist")
		writeError(w, http.StatusInternalServerError, "Failed to delete watchlist")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Watchlist not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{"deleted": id},
	})
}

type alertRequest struct {
	AssetSymbol string  `json:"asset_symbol" validate:"required"`
	AlertType   string  `json:"alert_type" validate:"required,oneof=price_above price_below"`
	TargetValue float64 `json:"target_value" validate:"required,gt=0"`
}

// HandleListAlerts handles GET /api/alerts
func (h *Handler) HandleListAlerts(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	alerts, err := h.service.Alerts(userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list alerts")
		writeError(w, http.StatusInternalServerError, "Failed to list alerts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"alerts": alerts,
			"count":  len(alerts),
		},
	})
}

// HandleCreateAlert handles POST /api/alerts
func (h *Handler) HandleCreateAlert(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req alertRequest
	if !h.decode(w, r, &req) {
		return
	}

	alert, err := h.service.CreateAlert(userID, req.AssetSymbol, req.AlertType, req.TargetValue)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create alert")
		writeError(w, http.StatusInternalServerError, "Failed to create alert")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": alert})
}

// HandleResetAlert handles POST /api/alerts/{id}/reset
func (h *Handler) HandleResetAlert(w http.ResponseWriter, r *http.Request, id int64) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	reset, err := h.service.ResetAlert(userID, id)
	if err != nil {
		h.log.Error().Err(err).Int64("alert_id", id).Msg("Failed to reset alert")
		writeError(w, http.StatusInternalServerError, "Failed to reset alert")
		return
	}
	if !reset {
		writeError(w, http.StatusNotFound, "Alert not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{"reset": id},
	})
}

// HandleDeleteAlert handles DELETE /api/alerts/{id}
func (h *Handler) HandleDeleteAlert(w http.ResponseWriter, r *http.Request, id int64) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	deleted, err := h.service.DeleteAlert(userID, id)
	if err != nil {
		h.log.Error().Err(err).Int64("alert_id", id).Msg("Failed to delete alert")
		writeError(w, http.StatusInternalServerError, "Failed to delete alert")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Alert not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{"deleted": id},
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func parseID(w http.ResponseWriter, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
