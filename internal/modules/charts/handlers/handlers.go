package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/modules/charts"
)

// Handler serves rendered chart images.
type Handler struct {
	service *charts.Service
	log     zerolog.Logger
}

func NewHandler(service *charts.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "charts").Logger(),
	}
}

// HandlePrice renders the price chart for an asset. SMA overlays come from
// ?sma=20,50.
func (h *Handler) HandlePrice(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	days := queryInt(r, "days", 365)

	var smaWindows []int
	if raw := r.URL.Query().Get("sma"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			window, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || window < 2 {
				writeError(w, http.StatusBadRequest, "sma must be a comma-separated list of window sizes")
				return
			}
			smaWindows = append(smaWindows, window)
		}
	}

	img, err := h.service.PriceChart(r.Context(), symbol, days, smaWindows)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to render price chart")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writePNG(w, img)
}

// HandleDrawdown renders the drawdown chart for an asset.
func (h *Handler) HandleDrawdown(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	img, err := h.service.DrawdownChart(r.Context(), symbol, queryInt(r, "days", 365))
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to render drawdown chart")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writePNG(w, img)
}

// HandleReturns renders the cumulative return chart for an asset.
func (h *Handler) HandleReturns(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	img, err := h.service.CumulativeReturnChart(r.Context(), symbol, queryInt(r, "days", 365))
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to render returns chart")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writePNG(w, img)
}

// HandleCompare renders a normalized comparison of ?symbols=A,B,C.
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("symbols")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "symbols query parameter is required")
		return
	}

	img, err := h.service.ComparisonChart(r.Context(), strings.Split(raw, ","), queryInt(r, "days", 365))
	if err != nil {
		h.log.Error().Err(err).Str("symbols", raw).Msg("Failed to render comparison chart")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writePNG(w, img)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func writePNG(w http.ResponseWriter, img []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": message,
	})
}
