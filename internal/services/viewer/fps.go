package viewer

import "time"

const defaultFPSWindow = 30

// fpsTracker estimates the frame rate over a rolling window of arrival times
type fpsTracker struct {
	windowSize int
	recent     []time.Time
}

func newFPSTracker(windowSize int) *fpsTracker {
	if windowSize < 2 {
		windowSize = defaultFPSWindow
	}
	return &fpsTracker{
		windowSize: windowSize,
		recent:     make([]time.Time, 0, windowSize),
	}
}

// Tick records a frame arrival and returns the current estimate
func (t *fpsTracker) Tick(now time.Time) float64 {
	t.recent = append(t.recent, now)
	if len(t.recent) > t.windowSize {
		t.recent = t.recent[1:]
	}
	return t.Current()
}

func (t *fpsTracker) Current() float64 {
	if len(t.recent) < 2 {
		return 0
	}

	timeSpan := t.recent[len(t.recent)-1].Sub(t.recent[0]).Seconds()
	if timeSpan <= 0 {
		return 0
	}
	return float64(len(t.recent)-1) / timeSpan
}
