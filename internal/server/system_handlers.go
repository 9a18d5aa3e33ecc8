package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/finsight/finsight/internal/database"
)

var startTime = time.Now()

// SystemHandlers serves system monitoring endpoints.
type SystemHandlers struct {
	log       zerolog.Logger
	dataDir   string
	databases map[string]*database.DB
}

// NewSystemHandlers creates the system monitoring handlers.
func NewSystemHandlers(log zerolog.Logger, dataDir string, databases map[string]*database.DB) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("handler", "system").Logger(),
		dataDir:   dataDir,
		databases: databases,
	}
}

// HandleSystemStatus returns CPU, memory, disk and uptime information.
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := h.systemStats()

	response := map[string]interface{}{
		"uptime_seconds": int64(time.Since(startTime).Seconds()),
		"cpu_percent":    cpuPercent,
		"memory_percent": memPercent,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	}

	if usage, err := disk.Usage(h.dataDir); err != nil {
		h.log.Warn().Err(err).Msg("Failed to read disk usage")
	} else {
		response["disk"] = map[string]interface{}{
			"total_gb":     float64(usage.Total) / 1e9,
			"free_gb":      float64(usage.Free) / 1e9,
			"used_percent": usage.UsedPercent,
		}
	}

	h.writeJSON(w, response)
}

// HandleDatabaseStats returns per-database size and page statistics.
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	stats := make(map[string]interface{}, len(h.databases))
	for name, db := range h.databases {
		entry := map[string]interface{}{}

		var pageCount, pageSize int64
		if err := db.QueryRow("PRAGMA page_count").Scan(&pageCount); err == nil {
			entry["page_count"] = pageCount
		}
		if err := db.QueryRow("PRAGMA page_size").Scan(&pageSize); err == nil {
			entry["page_size"] = pageSize
		}
		if pageCount > 0 && pageSize > 0 {
			entry["size_mb"] = float64(pageCount*pageSize) / 1024 / 1024
		}
		if info, err := os.Stat(db.Path() + "-wal"); err == nil {
			entry["wal_size_mb"] = float64(info.Size()) / 1024 / 1024
		}
		entry["path"] = filepath.Base(db.Path())
		stats[name] = entry
	}
	h.writeJSON(w, stats)
}

// systemStats reads CPU and RAM usage. The 100ms CPU sample keeps the
// endpoint fast enough for dashboard polling.
func (h *SystemHandlers) systemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}
	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}
