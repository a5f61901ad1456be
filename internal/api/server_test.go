package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.viam.com/test"

	"ncs-viewer-go/internal/api/handlers"
	"ncs-viewer-go/internal/config"
	"ncs-viewer-go/internal/models"
	"ncs-viewer-go/internal/services/publisher"
)

type fakeViewer struct {
	stats   models.ViewerStats
	healthy bool
}

func (f *fakeViewer) Stats() models.ViewerStats { return f.stats }
func (f *fakeViewer) Healthy() bool             { return f.healthy }

type fakeFrames struct {
	jpeg    []byte
	frame   *models.RenderedFrame
	enabled bool
}

func (f *fakeFrames) StreamMJPEGHTTP(w http.ResponseWriter, _ *http.Request) error {
	if !f.enabled {
		return publisher.ErrMJPEGDisabled
	}
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.WriteHeader(http.StatusOK)
	return nil
}

func (f *fakeFrames) LatestJPEG() ([]byte, *models.RenderedFrame, bool) {
	return f.jpeg, f.frame, len(f.jpeg) > 0
}

func (f *fakeFrames) StreamClients() int { return 0 }

func newTestServer(viewer *fakeViewer, frames *fakeFrames) *Server {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{WorkerID: "viewer-1", Version: "1.2.3", Port: 8000}
	return NewServer(cfg, viewer, frames)
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestWorkerInfo(t *testing.T) {
	viewer := &fakeViewer{stats: models.ViewerStats{
		Subject:        "movidius_ncs_stream.detected_objects",
		DisplayEnabled: true,
	}}
	w := get(newTestServer(viewer, &fakeFrames{}), "/")
	test.That(t, w.Code, test.ShouldEqual, http.StatusOK)

	var resp handlers.WorkerInfoResponse
	test.That(t, json.Unmarshal(w.Body.Bytes(), &resp), test.ShouldBeNil)
	test.That(t, resp.Version, test.ShouldEqual, "1.2.3")
	test.That(t, resp.Subject, test.ShouldEqual, "movidius_ncs_stream.detected_objects")
	test.That(t, resp.Capabilities, test.ShouldResemble, []string{"detection_overlay", "window_display"})
}

func TestHealth(t *testing.T) {
	viewer := &fakeViewer{healthy: true, stats: models.ViewerStats{NatsConnected: true}}
	s := newTestServer(viewer, &fakeFrames{})

	w := get(s, "/health")
	test.That(t, w.Code, test.ShouldEqual, http.StatusOK)
	var resp handlers.HealthResponse
	test.That(t, json.Unmarshal(w.Body.Bytes(), &resp), test.ShouldBeNil)
	test.That(t, resp.Status, test.ShouldEqual, "healthy")
	test.That(t, resp.NatsConnected, test.ShouldBeTrue)

	viewer.healthy = false
	viewer.stats.NatsConnected = false
	w = get(s, "/health")
	test.That(t, w.Code, test.ShouldEqual, http.StatusServiceUnavailable)
	test.That(t, json.Unmarshal(w.Body.Bytes(), &resp), test.ShouldBeNil)
	test.That(t, resp.Status, test.ShouldEqual, "unhealthy")
}

func TestStats(t *testing.T) {
	viewer := &fakeViewer{stats: models.ViewerStats{FramesReceived: 10, FramesRendered: 9, FramesDropped: 1}}
	w := get(newTestServer(viewer, &fakeFrames{}), "/stats")
	test.That(t, w.Code, test.ShouldEqual, http.StatusOK)

	var resp handlers.StatsResponse
	test.That(t, json.Unmarshal(w.Body.Bytes(), &resp), test.ShouldBeNil)
	test.That(t, resp.WorkerID, test.ShouldEqual, "viewer-1")
	test.That(t, resp.Viewer.FramesRendered, test.ShouldEqual, int64(9))
	test.That(t, resp.Viewer.FramesDropped, test.ShouldEqual, int64(1))
	test.That(t, resp.System.CPUCores, test.ShouldBeGreaterThan, 0)
}

func TestLatestFrame(t *testing.T) {
	frames := &fakeFrames{}
	s := newTestServer(&fakeViewer{}, frames)

	w := get(s, "/frame.jpg")
	test.That(t, w.Code, test.ShouldEqual, http.StatusNotFound)

	frames.jpeg = []byte{0xFF, 0xD8, 0xFF, 0xD9}
	frames.frame = &models.RenderedFrame{Sequence: 42, ObjectCount: 3}
	w = get(s, "/frame.jpg")
	test.That(t, w.Code, test.ShouldEqual, http.StatusOK)
	test.That(t, w.Header().Get("Content-Type"), test.ShouldEqual, "image/jpeg")
	test.That(t, w.Header().Get("X-Frame-Sequence"), test.ShouldEqual, "42")
	test.That(t, w.Header().Get("X-Frame-Objects"), test.ShouldEqual, "3")
	test.That(t, w.Body.Bytes(), test.ShouldResemble, frames.jpeg)
}

func TestMJPEGStream(t *testing.T) {
	frames := &fakeFrames{}
	s := newTestServer(&fakeViewer{}, frames)

	w := get(s, "/stream.mjpg")
	test.That(t, w.Code, test.ShouldEqual, http.StatusNotFound)

	frames.enabled = true
	w = get(s, "/stream.mjpg")
	test.That(t, w.Code, test.ShouldEqual, http.StatusOK)
	test.That(t, w.Header().Get("Content-Type"), test.ShouldStartWith, "multipart/x-mixed-replace")
}

func TestAPIInfoAndDocs(t *testing.T) {
	s := newTestServer(&fakeViewer{}, &fakeFrames{})

	w := get(s, "/api/info")
	test.That(t, w.Code, test.ShouldEqual, http.StatusOK)
	test.That(t, w.Body.String(), test.ShouldContainSubstring, `"stream":"/stream.mjpg"`)

	w = get(s, "/docs")
	test.That(t, w.Code, test.ShouldEqual, http.StatusMovedPermanently)
	test.That(t, w.Header().Get("Location"), test.ShouldEqual, "/docs/index.html")

	w = get(s, "/health")
	test.That(t, w.Header().Get("X-Request-ID"), test.ShouldNotBeEmpty)
}
