package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/modules/summary"
)

// Handler serves daily market summary endpoints.
type Handler struct {
	service *summary.Service
	log     zerolog.Logger
}

func NewHandler(service *summary.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "summary").Logger(),
	}
}

// HandleGet returns the summary for a date, today by default.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	date := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}
	market := r.URL.Query().Get("market")

	record, err := h.service.Get(date, market)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load summary")
		writeError(w, http.StatusInternalServerError, "failed to load summary")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "no summary for that date")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// HandleLatest returns the most recent summaries.
func (h *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	records, err := h.service.Latest(r.URL.Query().Get("market"), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list summaries")
		writeError(w, http.StatusInternalServerError, "failed to list summaries")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleGenerate builds the summary for a date on demand.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	date := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	record, err := h.service.Generate(r.Context(), date, r.URL.Query().Get("market"))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to generate summary")
		writeError(w, http.StatusBadGateway, "failed to generate summary")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	response := map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}
	_ = json.NewEncoder(w).Encode(response)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": message,
	})
}
