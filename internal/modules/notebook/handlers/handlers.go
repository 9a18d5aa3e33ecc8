// Package handlers provides HTTP handlers for the investment journal. All
// routes require auth.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/modules/auth"
	"github.com/finsight/finsight/internal/modules/notebook"
)

// Handler handles notebook HTTP requests.
type Handler struct {
	service  *notebook.Service
	validate *validator.Validate
	log      zerolog.Logger
}

// NewHandler creates a new notebook handler.
func NewHandler(service *notebook.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		log:      log.With().Str("handler", "notebook").Logger(),
	}
}

type entryRequest struct {
	Title        string   `json:"title" validate:"required"`
	Content      string   `json:"content" validate:"required"`
	EntryDate    string   `json:"entry_date"`
	Tags         []string `json:"tags"`
	AssetSymbols []string `json:"asset_symbols"`
}

func (h *Handler) decodeEntry(w http.ResponseWriter, r *http.Request) (*entryRequest, time.Time, bool) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return nil, time.Time{}, false
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, time.Time{}, false
	}

	var entryDate time.Time
	if req.EntryDate != "" {
		parsed, err := time.Parse("2006-01-02", req.EntryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "entry_date must be YYYY-MM-DD")
			return nil, time.Time{}, false
		}
		entryDate = parsed
	}
	return &req, entryDate, true
}

// HandleCreate handles POST /api/notebook
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	req, entryDate, ok := h.decodeEntry(w, r)
	if !ok {
		return
	}

	entry, err := h.service.Create(userID, req.Title, req.Content, entryDate, req.Tags, req.AssetSymbols)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create entry")
		writeError(w, http.StatusInternalServerError, "Failed to create entry")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": entry})
}

// HandleList handles GET /api/notebook
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	entries, err := h.service.List(userID, limit, offset)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list entries")
		writeError(w, http.StatusInternalServerError, "Failed to list entries")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"entries": entries,
			"count":   len(entries),
		},
	})
}

// HandleGet handles GET /api/notebook/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request, id int64) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	entry, err := h.service.Get(userID, id)
	if err != nil {
		h.log.Error().Err(err).Int64("entry_id", id).Msg("Failed to load entry")
		writeError(w, http.StatusInternalServerError, "Failed to load entry")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": entry})
}

// HandleUpdate handles PUT /api/notebook/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request, id int64) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	req, entryDate, ok := h.decodeEntry(w, r)
	if !ok {
		return
	}

	entry, err := h.service.Update(userID, id, req.Title, req.Content, entryDate, req.Tags, req.AssetSymbols)
	if err != nil {
		h.log.Error().Err(err).Int64("entry_id", id).Msg("Failed to update entry")
		writeError(w, http.StatusInternalServerError, "Failed to update entry")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": entry})
}

// HandleDelete handles DELETE /api/notebook/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request, id int64) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	deleted, err := h.service.Delete(userID, id)
	if err != nil {
		h.log.Error().Err(err).Int64("entry_id", id).Msg("Failed to delete entry")
		writeError(w, http.StatusInternalServerError, "Failed to delete entry")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{"deleted": id},
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return fallback
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
