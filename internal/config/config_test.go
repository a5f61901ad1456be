package config

import (
	"testing"
	"time"

	"go.viam.com/test"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NATS_URL", "nats://bus:4222")

	cfg := Load()
	test.That(t, cfg.DetectionsSubject, test.ShouldEqual, "movidius_ncs_stream.detected_objects")
	test.That(t, cfg.WindowName, test.ShouldEqual, "image_viewer")
	test.That(t, cfg.WindowWait, test.ShouldEqual, 5*time.Millisecond)
	test.That(t, cfg.LabelBandHeight, test.ShouldEqual, 20)
	test.That(t, cfg.PayloadFormat, test.ShouldEqual, "json")
	test.That(t, cfg.NatsURL, test.ShouldEqual, "nats://bus:4222")
	test.That(t, cfg.ShowFPS, test.ShouldBeFalse)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DETECTIONS_SUBJECT", "cams.front.detections")
	t.Setenv("DISPLAY_ENABLED", "false")
	t.Setenv("WINDOW_WAIT", "20ms")
	t.Setenv("PORT", "9100")
	t.Setenv("SHOW_FPS", "true")

	cfg := Load()
	test.That(t, cfg.DetectionsSubject, test.ShouldEqual, "cams.front.detections")
	test.That(t, cfg.DisplayEnabled, test.ShouldBeFalse)
	test.That(t, cfg.WindowWait, test.ShouldEqual, 20*time.Millisecond)
	test.That(t, cfg.Port, test.ShouldEqual, 9100)
	test.That(t, cfg.ShowFPS, test.ShouldBeTrue)
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("MJPEG_ENABLED", "maybe")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg := Load()
	test.That(t, cfg.Port, test.ShouldEqual, 8000)
	test.That(t, cfg.MJPEGEnabled, test.ShouldBeTrue)
	test.That(t, cfg.ShutdownTimeout, test.ShouldEqual, 10*time.Second)
}
