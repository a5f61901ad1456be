package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ncs-viewer-go/internal/logging"
	"ncs-viewer-go/internal/models"
	"ncs-viewer-go/internal/services/publisher"
)

// FrameSource serves annotated frames over HTTP
type FrameSource interface {
	StreamMJPEGHTTP(w http.ResponseWriter, r *http.Request) error
	LatestJPEG() ([]byte, *models.RenderedFrame, bool)
	StreamClients() int
}

type StreamHandler struct {
	frames FrameSource
}

func NewStreamHandler(frames FrameSource) *StreamHandler {
	return &StreamHandler{frames: frames}
}

type ErrorResponse struct {
	Error string `json:"error" example:"no frame rendered yet"`
}

// @Summary MJPEG stream
// @Description Multipart MJPEG stream of annotated frames
// @Tags stream
// @Produce multipart/x-mixed-replace
// @Success 200
// @Failure 404 {object} ErrorResponse
// @Router /stream.mjpg [get]
func (h *StreamHandler) MJPEG(c *gin.Context) {
	logging.Info(c).Int("clients", h.frames.StreamClients()+1).Msg("MJPEG client connected")

	if err := h.frames.StreamMJPEGHTTP(c.Writer, c.Request); err != nil {
		if errors.Is(err, publisher.ErrMJPEGDisabled) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		logging.Error(c).Err(err).Msg("MJPEG stream failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	logging.Info(c).Msg("MJPEG client disconnected")
}

// @Summary Latest frame
// @Description Latest annotated frame as a JPEG image
// @Tags stream
// @Produce image/jpeg
// @Success 200
// @Failure 404 {object} ErrorResponse
// @Router /frame.jpg [get]
func (h *StreamHandler) LatestFrame(c *gin.Context) {
	jpeg, frame, ok := h.frames.LatestJPEG()
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no frame rendered yet"})
		return
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	if frame != nil {
		c.Header("X-Frame-Sequence", strconv.FormatInt(frame.Sequence, 10))
		c.Header("X-Frame-Objects", strconv.Itoa(frame.ObjectCount))
	}
	c.Data(http.StatusOK, "image/jpeg", jpeg)
}
