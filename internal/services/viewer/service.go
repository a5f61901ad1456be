package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"ncs-viewer-go/internal/codec"
	"ncs-viewer-go/internal/config"
	"ncs-viewer-go/internal/imaging"
	"ncs-viewer-go/internal/logging"
	"ncs-viewer-go/internal/models"
	"ncs-viewer-go/internal/services/messaging"
	"ncs-viewer-go/internal/services/overlay"
)

// Source yields detection messages. Next returns messaging.ErrNoMessage when
// the timeout passes without a message.
type Source interface {
	Next(timeout time.Duration) (*messaging.Message, error)
	Dropped() int
}

// FrameSink receives annotated frames
type FrameSink interface {
	PublishFrame(mat gocv.Mat, frame *models.RenderedFrame) error
	Idle()
}

type Service struct {
	cfg       *config.Config
	source    Source
	sink      FrameSink
	renderer  *overlay.Renderer
	fallback  codec.Codec
	connected func() bool
	logger    zerolog.Logger

	mu        sync.RWMutex
	stats     models.ViewerStats
	fps       *fpsTracker
	sequence  int64
	lastError time.Time
}

// NewService wires a message source to the frame sinks. connected may be nil.
func NewService(cfg *config.Config, source Source, sink FrameSink, connected func() bool) (*Service, error) {
	fallback, err := codec.ForFormat(cfg.PayloadFormat)
	if err != nil {
		return nil, fmt.Errorf("invalid PAYLOAD_FORMAT: %w", err)
	}

	s := &Service{
		cfg:       cfg,
		source:    source,
		sink:      sink,
		renderer:  overlay.NewRenderer(overlay.StyleFromConfig(cfg), overlay.StatsOptionsFromConfig(cfg)),
		fallback:  fallback,
		connected: connected,
		fps:       newFPSTracker(defaultFPSWindow),
		logger:    logging.WithSubject(logging.NewServiceLogger(cfg, "viewer"), cfg.DetectionsSubject),
	}
	s.stats.Subject = cfg.DetectionsSubject
	s.stats.DisplayEnabled = cfg.DisplayEnabled
	s.stats.MJPEGEnabled = cfg.MJPEGEnabled

	return s, nil
}

// Run consumes detection messages until ctx is cancelled or the source is
// closed. It must run on the goroutine that owns the display.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info().
		Dur("window_wait", s.cfg.WindowWait).
		Str("payload_format", s.cfg.PayloadFormat).
		Msg("Viewer loop started")
	defer s.logger.Info().Msg("Viewer loop stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		msg, err := s.source.Next(s.cfg.WindowWait)
		if err != nil {
			if errors.Is(err, messaging.ErrNoMessage) {
				s.sink.Idle()
				continue
			}
			if errors.Is(err, messaging.ErrSubscriptionClosed) {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			s.logger.Warn().Err(err).Msg("Failed to receive detection message")
			s.recordError(err)
			s.sink.Idle()
			continue
		}

		if err := s.HandleMessage(msg); err != nil {
			s.logger.Error().
				Err(err).
				Int("bytes", len(msg.Data)).
				Msg("Dropped detection frame")
		}
	}
}

// HandleMessage decodes, annotates and publishes one detection message.
// Any failure drops the whole frame.
func (s *Service) HandleMessage(msg *messaging.Message) error {
	s.mu.Lock()
	s.stats.FramesReceived++
	s.mu.Unlock()

	start := time.Now()

	detections, err := codec.Decode(msg.Data, msg.ContentType, s.fallback)
	if err != nil {
		s.dropFrame(err)
		return err
	}

	mat, err := imaging.NewMat(detections.Image)
	if err != nil {
		s.dropFrame(err)
		return err
	}
	defer mat.Close()

	s.mu.Lock()
	fps := s.fps.Tick(start)
	s.sequence++
	sequence := s.sequence
	s.mu.Unlock()

	s.renderer.Render(&mat, detections, fps)

	frame := &models.RenderedFrame{
		FrameID:         detections.Header.FrameID,
		Sequence:        sequence,
		Timestamp:       detections.Header.Stamp,
		Width:           mat.Cols(),
		Height:          mat.Rows(),
		ObjectCount:     len(detections.Objects),
		InferenceTimeMs: detections.InferenceTimeMs,
		FPS:             fps,
		RenderTime:      time.Since(start),
	}
	if frame.Timestamp.IsZero() {
		frame.Timestamp = start
	}

	if err := s.sink.PublishFrame(mat, frame); err != nil {
		// still counts as rendered
		s.logger.Warn().Err(err).Int64("sequence", sequence).Msg("Frame sink failed")
		s.recordError(err)
	}

	s.mu.Lock()
	s.stats.FramesRendered++
	s.stats.ObjectsDrawn += int64(len(detections.Objects))
	s.stats.FPS = fps
	s.stats.LastFrameTime = start
	s.stats.LastFrameSize = fmt.Sprintf("%dx%d", frame.Width, frame.Height)
	s.stats.LastRenderMs = float64(frame.RenderTime.Microseconds()) / 1000
	s.stats.LastInferenceMs = detections.InferenceTimeMs
	s.mu.Unlock()

	s.logger.Debug().
		Int64("sequence", sequence).
		Str("frame_id", frame.FrameID).
		Int("objects", frame.ObjectCount).
		Dur("render_time", frame.RenderTime).
		Msg("Frame rendered")

	return nil
}

func (s *Service) dropFrame(err error) {
	s.mu.Lock()
	s.stats.FramesDropped++
	s.mu.Unlock()
	s.recordError(err)
}

func (s *Service) recordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.LastError = err.Error()
	s.lastError = time.Now()
}

// Stats returns a snapshot of the viewer counters
func (s *Service) Stats() models.ViewerStats {
	s.mu.RLock()
	stats := s.stats
	s.mu.RUnlock()

	stats.BusDropped = s.source.Dropped()
	if s.connected != nil {
		stats.NatsConnected = s.connected()
	}
	return stats
}

// Healthy reports whether frames are flowing or at least the bus is up
func (s *Service) Healthy() bool {
	if s.connected != nil && !s.connected() {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stats.FramesRendered == 0 {
		return true
	}
	// a burst of dropped frames after the last good one means the stream broke
	return !s.lastError.After(s.stats.LastFrameTime.Add(s.cfg.HealthCheckInterval))
}
