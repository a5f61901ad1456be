package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ncs-viewer-go/internal/models"
)

// ViewerStatus is the part of the viewer the API reports on
type ViewerStatus interface {
	Stats() models.ViewerStats
	Healthy() bool
}

type HealthHandler struct {
	WorkerID string
	Version  string
	viewer   ViewerStatus
}

func NewHealthHandler(workerID, version string, viewer ViewerStatus) *HealthHandler {
	return &HealthHandler{WorkerID: workerID, Version: version, viewer: viewer}
}

type HealthResponse struct {
	Status        string `json:"status" example:"healthy"`
	WorkerID      string `json:"worker_id" example:"viewer-1"`
	NatsConnected bool   `json:"nats_connected" example:"true"`
}

type WorkerInfoResponse struct {
	WorkerID     string   `json:"worker_id" example:"viewer-1"`
	Status       string   `json:"status" example:"running"`
	Version      string   `json:"version" example:"1.0.0"`
	Subject      string   `json:"subject" example:"movidius_ncs_stream.detected_objects"`
	Capabilities []string `json:"capabilities"`
}

// @Summary Health check
// @Description Check if the viewer is connected to the bus and rendering frames
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	stats := h.viewer.Stats()
	resp := HealthResponse{
		Status:        "healthy",
		WorkerID:      h.WorkerID,
		NatsConnected: stats.NatsConnected,
	}

	if !h.viewer.Healthy() {
		resp.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Viewer information
// @Description Get basic viewer information and capabilities
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} WorkerInfoResponse
// @Router / [get]
func (h *HealthHandler) WorkerInfo(c *gin.Context) {
	stats := h.viewer.Stats()

	capabilities := []string{"detection_overlay"}
	if stats.DisplayEnabled {
		capabilities = append(capabilities, "window_display")
	}
	if stats.MJPEGEnabled {
		capabilities = append(capabilities, "mjpeg_streaming")
	}

	c.JSON(http.StatusOK, WorkerInfoResponse{
		WorkerID:     h.WorkerID,
		Status:       "running",
		Version:      h.Version,
		Subject:      stats.Subject,
		Capabilities: capabilities,
	})
}
