package window

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"ncs-viewer-go/internal/models"
)

// Publisher shows frames in a HighGUI window. All methods must be called from
// the goroutine that owns the OS main thread.
type Publisher struct {
	name   string
	waitMs int

	mu     sync.Mutex
	window *gocv.Window
	shown  int64
}

func NewPublisher(name string, wait time.Duration) *Publisher {
	waitMs := int(wait / time.Millisecond)
	if waitMs < 1 {
		// WaitKey(0) blocks until a key is pressed
		waitMs = 1
	}
	return &Publisher{name: name, waitMs: waitMs}
}

func (p *Publisher) Name() string { return "window" }

// WaitMs is the per-frame event wait handed to WaitKey
func (p *Publisher) WaitMs() int { return p.waitMs }

func (p *Publisher) Show(mat gocv.Mat, _ *models.RenderedFrame) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.window == nil {
		p.window = gocv.NewWindow(p.name)
		log.Info().Str("window", p.name).Msg("Display window opened")
	}

	p.window.IMShow(mat)
	p.window.WaitKey(p.waitMs)
	p.shown++
	return nil
}

// Idle pumps window events while no frame is arriving
func (p *Publisher) Idle() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.window != nil {
		p.window.WaitKey(p.waitMs)
	}
}

// Shown returns how many frames were pushed to the window
func (p *Publisher) Shown() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shown
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.window == nil {
		return nil
	}
	err := p.window.Close()
	p.window = nil
	log.Info().Str("window", p.name).Msg("Display window closed")
	return err
}
