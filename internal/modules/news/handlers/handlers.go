// Package handlers provides HTTP handlers for news retrieval and ingestion.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/clients/yahoo"
	"github.com/finsight/finsight/internal/modules/news"
)

// Handler handles news HTTP requests.
type Handler struct {
	service  *news.Service
	validate *validator.Validate
	log      zerolog.Logger
}

// NewHandler creates a new news handler.
func NewHandler(service *news.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		log:      log.With().Str("handler", "news").Logger(),
	}
}

// HandleMarket handles GET /api/news
func (h *Handler) HandleMarket(w http.ResponseWriter, r *http.Request) {
	articles, err := h.service.Market(queryInt(r, "limit", 50))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list market news")
		writeError(w, http.StatusInternalServerError, "Failed to list market news")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"articles": articles,
			"count":    len(articles),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleAssetNews handles GET /api/assets/{symbol}/news
func (h *Handler) HandleAssetNews(w http.ResponseWriter, r *http.Request, symbol string) {
	articles, err := h.service.ForAsset(r.Context(), symbol, queryInt(r, "limit", 20))
	if err != nil {
		if errors.Is(err, yahoo.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "Market data temporarily unavailable")
			return
		}
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to list asset news")
		writeError(w, http.StatusInternalServerError, "Failed to list asset news")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"symbol":   symbol,
			"articles": articles,
			"count":    len(articles),
		},
	})
}

type ingestRequest struct {
	Symbol      string  `json:"symbol"`
	Title       string  `json:"title" validate:"required"`
	Content     string  `json:"content"`
	Summary     string  `json:"summary"`
	Source      string  `json:"source"`
	SourceURL   string  `json:"source_url" validate:"omitempty,url"`
	PublishedAt string  `json:"published_at"`
	Relevance   float64 `json:"relevance_score"`
}

// HandleIngest handles POST /api/news
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	article := &news.Article{
		Title:          req.Title,
		Content:        req.Content,
		Summary:        req.Summary,
		Source:         req.Source,
		SourceURL:      req.SourceURL,
		RelevanceScore: req.Relevance,
	}
	if req.PublishedAt != "" {
		published, err := time.Parse(time.RFC3339, req.PublishedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "published_at must be RFC 3339")
			return
		}
		article.PublishedAt = published
	}

	inserted, err := h.service.Ingest(r.Context(), req.Symbol, article)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to ingest article")
		writeError(w, http.StatusInternalServerError, "Failed to ingest article")
		return
	}
	if !inserted {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"data": map[string]interface{}{"duplicate": true},
		})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": article})
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
