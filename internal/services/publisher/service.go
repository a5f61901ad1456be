package publisher

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"ncs-viewer-go/internal/config"
	"ncs-viewer-go/internal/models"
	"ncs-viewer-go/internal/services/publisher/mjpeg"
	"ncs-viewer-go/internal/services/publisher/window"
)

// ErrMJPEGDisabled is returned when HTTP streaming is requested but the
// MJPEG sink is switched off
var ErrMJPEGDisabled = errors.New("mjpeg output disabled")

// Sink consumes annotated frames
type Sink interface {
	Name() string
	Show(mat gocv.Mat, frame *models.RenderedFrame) error
	Idle()
	Close() error
}

type Service struct {
	cfg            *config.Config
	sinks          []Sink
	mjpegPublisher *mjpeg.Publisher
}

func NewService(cfg *config.Config) (*Service, error) {
	s := &Service{cfg: cfg}

	if cfg.DisplayEnabled {
		s.sinks = append(s.sinks, window.NewPublisher(cfg.WindowName, cfg.WindowWait))
	}

	if cfg.MJPEGEnabled {
		mjpegPub, err := mjpeg.NewPublisher(cfg)
		if err != nil {
			return nil, err
		}
		s.mjpegPublisher = mjpegPub
		s.sinks = append(s.sinks, mjpegPub)
	}

	if len(s.sinks) == 0 {
		log.Warn().Msg("No frame sinks enabled; frames will be rendered and discarded")
	}

	return s, nil
}

// NewServiceWithSinks builds a service over caller-provided sinks
func NewServiceWithSinks(cfg *config.Config, sinks ...Sink) *Service {
	s := &Service{cfg: cfg, sinks: sinks}
	for _, sink := range sinks {
		if m, ok := sink.(*mjpeg.Publisher); ok {
			s.mjpegPublisher = m
		}
	}
	return s
}

// PublishFrame hands the frame to every sink. A failing sink does not keep
// the others from receiving the frame.
func (s *Service) PublishFrame(mat gocv.Mat, frame *models.RenderedFrame) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Show(mat, frame); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Idle lets sinks service their event loops between frames
func (s *Service) Idle() {
	for _, sink := range s.sinks {
		sink.Idle()
	}
}

func (s *Service) MJPEGEnabled() bool {
	return s.mjpegPublisher != nil
}

func (s *Service) StreamMJPEGHTTP(w http.ResponseWriter, r *http.Request) error {
	if s.mjpegPublisher == nil {
		return ErrMJPEGDisabled
	}
	s.mjpegPublisher.StreamMJPEGHTTP(w, r)
	return nil
}

// LatestJPEG returns the most recent annotated frame as JPEG
func (s *Service) LatestJPEG() ([]byte, *models.RenderedFrame, bool) {
	if s.mjpegPublisher == nil {
		return nil, nil, false
	}
	return s.mjpegPublisher.Latest()
}

func (s *Service) StreamClients() int {
	if s.mjpegPublisher == nil {
		return 0
	}
	return s.mjpegPublisher.Clients()
}

func (s *Service) Shutdown(ctx context.Context) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}
	return errors.Join(errs...)
}
