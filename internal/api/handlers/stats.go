package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"ncs-viewer-go/internal/models"
)

// StatsHandler reports viewer counters and process metrics
type StatsHandler struct {
	WorkerID  string
	viewer    ViewerStatus
	startTime time.Time
}

func NewStatsHandler(workerID string, viewer ViewerStatus) *StatsHandler {
	return &StatsHandler{
		WorkerID:  workerID,
		viewer:    viewer,
		startTime: time.Now(),
	}
}

type SystemStats struct {
	UptimeSeconds int64  `json:"uptime_seconds" example:"3600"`
	MemoryMB      uint64 `json:"memory_mb" example:"42"`
	CPUCores      int    `json:"cpu_cores" example:"8"`
	Goroutines    int    `json:"goroutines" example:"12"`
	GoVersion     string `json:"go_version" example:"go1.24.0"`
}

type StatsResponse struct {
	WorkerID  string             `json:"worker_id" example:"viewer-1"`
	Viewer    models.ViewerStats `json:"viewer"`
	System    SystemStats        `json:"system"`
	Timestamp int64              `json:"timestamp" example:"1700000000"`
}

// @Summary Get viewer stats
// @Description Frame counters, frame rate and process metrics
// @Tags system
// @Accept json
// @Produce json
// @Success 200 {object} StatsResponse
// @Router /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.JSON(http.StatusOK, StatsResponse{
		WorkerID: h.WorkerID,
		Viewer:   h.viewer.Stats(),
		System: SystemStats{
			UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
			MemoryMB:      m.Alloc / 1024 / 1024,
			CPUCores:      runtime.NumCPU(),
			Goroutines:    runtime.NumGoroutine(),
			GoVersion:     runtime.Version(),
		},
		Timestamp: time.Now().Unix(),
	})
}
