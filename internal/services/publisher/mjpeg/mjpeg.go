package mjpeg

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"ncs-viewer-go/internal/config"
	"ncs-viewer-go/internal/imaging"
	"ncs-viewer-go/internal/models"
)

const boundary = "frame"

// Publisher keeps the latest annotated frame as JPEG and fans it out to
// HTTP clients
type Publisher struct {
	cfg     *config.Config
	quality int

	jpegMutex  sync.RWMutex
	latestJPEG []byte
	latest     *models.RenderedFrame

	notifyMutex sync.Mutex
	frameNotify map[uint64]chan struct{}
	nextClient  uint64
}

func NewPublisher(cfg *config.Config) (*Publisher, error) {
	quality := cfg.MJPEGQuality
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("invalid MJPEG quality %d (expected 1-100)", quality)
	}

	p := &Publisher{
		cfg:         cfg,
		quality:     quality,
		frameNotify: make(map[uint64]chan struct{}),
	}

	return p, nil
}

func (p *Publisher) Name() string { return "mjpeg" }

func (p *Publisher) Show(mat gocv.Mat, frame *models.RenderedFrame) error {
	jpeg, err := imaging.EncodeJPEG(mat, p.quality)
	if err != nil {
		return fmt.Errorf("failed to encode MJPEG frame: %w", err)
	}

	p.jpegMutex.Lock()
	p.latestJPEG = jpeg
	p.latest = frame
	p.jpegMutex.Unlock()

	p.notifyStreamers()
	return nil
}

// Idle is a no-op; HTTP clients are served from their own goroutines
func (p *Publisher) Idle() {}

// Latest returns the latest JPEG and the frame it was rendered from
func (p *Publisher) Latest() ([]byte, *models.RenderedFrame, bool) {
	p.jpegMutex.RLock()
	defer p.jpegMutex.RUnlock()
	if len(p.latestJPEG) == 0 {
		return nil, nil, false
	}
	return p.latestJPEG, p.latest, true
}

// Clients returns the number of connected stream clients
func (p *Publisher) Clients() int {
	p.notifyMutex.Lock()
	defer p.notifyMutex.Unlock()
	return len(p.frameNotify)
}

func (p *Publisher) notifyStreamers() {
	p.notifyMutex.Lock()
	defer p.notifyMutex.Unlock()

	for _, notify := range p.frameNotify {
		select {
		case notify <- struct{}{}:
		default:
		}
	}
}

func (p *Publisher) addClient() (uint64, chan struct{}) {
	p.notifyMutex.Lock()
	defer p.notifyMutex.Unlock()

	id := p.nextClient
	p.nextClient++
	notify := make(chan struct{}, 1)
	p.frameNotify[id] = notify
	return id, notify
}

func (p *Publisher) removeClient(id uint64) {
	p.notifyMutex.Lock()
	defer p.notifyMutex.Unlock()

	delete(p.frameNotify, id)
}

func (p *Publisher) StreamMJPEGHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	id, notify := p.addClient()
	defer p.removeClient(id)

	writePart := func(jpeg []byte) bool {
		if _, err := io.WriteString(w, "--"+boundary+"\r\n"); err != nil {
			return false
		}
		if _, err := io.WriteString(w, "Content-Type: image/jpeg\r\n"); err != nil {
			return false
		}
		if _, err := io.WriteString(w, fmt.Sprintf("Content-Length: %d\r\n\r\n", len(jpeg))); err != nil {
			return false
		}
		if _, err := w.Write(jpeg); err != nil {
			return false
		}
		if _, err := io.WriteString(w, "\r\n"); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	first, _, ok := p.Latest()
	if !ok {
		first = p.placeholder()
	}
	if len(first) > 0 {
		if !writePart(first) {
			return
		}
	}

	keepaliveTicker := time.NewTicker(2 * time.Second)
	defer keepaliveTicker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-notify:
		case <-keepaliveTicker.C:
		}

		if buf, _, ok := p.Latest(); ok {
			if !writePart(buf) {
				return
			}
		}
	}
}

// placeholder renders a "waiting" frame for clients that connect before the
// first detection message
func (p *Publisher) placeholder() []byte {
	placeholder := gocv.NewMatWithSize(360, 640, gocv.MatTypeCV8UC3)
	defer placeholder.Close()

	placeholder.SetTo(gocv.Scalar{Val1: 64, Val2: 64, Val3: 64, Val4: 0})

	textColor := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gocv.PutText(&placeholder, fmt.Sprintf("Subject: %s", p.cfg.DetectionsSubject),
		image.Pt(20, 180), gocv.FontHersheySimplex, 0.7, textColor, 2)
	gocv.PutText(&placeholder, "Waiting for detections...",
		image.Pt(20, 220), gocv.FontHersheySimplex, 0.8, textColor, 2)

	buf, err := imaging.EncodeJPEG(placeholder, p.quality)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to encode MJPEG placeholder")
		return nil
	}
	return buf
}

func (p *Publisher) Close() error {
	log.Info().Msg("MJPEG Publisher shutting down")
	return nil
}
