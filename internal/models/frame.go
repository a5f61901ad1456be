package models

import (
	"time"
)

// RenderedFrame is an annotated frame handed to the frame sinks
type RenderedFrame struct {
	FrameID   string
	Sequence  int64
	Timestamp time.Time
	Width     int
	Height    int

	// Metadata
	ObjectCount     int
	InferenceTimeMs float32
	FPS             float64
	RenderTime      time.Duration
}

// ViewerStats is a snapshot of the viewer counters
type ViewerStats struct {
	Subject         string    `json:"subject"`
	FramesReceived  int64     `json:"frames_received"`
	FramesRendered  int64     `json:"frames_rendered"`
	FramesDropped   int64     `json:"frames_dropped"`
	ObjectsDrawn    int64     `json:"objects_drawn"`
	BusDropped      int       `json:"bus_dropped"`
	FPS             float64   `json:"fps"`
	LastFrameTime   time.Time `json:"last_frame_time"`
	LastError       string    `json:"last_error,omitempty"`
	LastFrameSize   string    `json:"last_frame_size,omitempty"`
	NatsConnected   bool      `json:"nats_connected"`
	DisplayEnabled  bool      `json:"display_enabled"`
	MJPEGEnabled    bool      `json:"mjpeg_enabled"`
	LastRenderMs    float64   `json:"last_render_ms"`
	LastInferenceMs float32   `json:"last_inference_ms"`
}
