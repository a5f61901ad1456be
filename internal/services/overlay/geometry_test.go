package overlay

import (
	"image"
	"math/rand"
	"testing"

	"go.viam.com/test"

	"ncs-viewer-go/internal/models"
)

func roi(x, y, w, h uint32) models.RegionOfInterest {
	return models.RegionOfInterest{XOffset: x, YOffset: y, Width: w, Height: h}
}

func TestBoxRect(t *testing.T) {
	tests := []struct {
		name     string
		roi      models.RegionOfInterest
		expected image.Rectangle
	}{
		{"inside", roi(100, 100, 50, 50), image.Rect(75, 75, 125, 125)},
		{"clamped top left", roi(10, 10, 50, 50), image.Rect(0, 0, 35, 35)},
		{"clamped bottom right", roi(639, 479, 10, 10), image.Rect(634, 474, 640, 480)},
		{"odd size truncates", roi(100, 100, 51, 31), image.Rect(75, 85, 125, 115)},
		{"zero size", roi(320, 240, 0, 0), image.Rect(320, 240, 320, 240)},
		{"covers whole image", roi(320, 240, 2000, 2000), image.Rect(0, 0, 640, 480)},
		{"center outside image", roi(1000, 900, 10, 10), image.Rect(640, 480, 640, 480)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := BoxRect(tc.roi, 640, 480)
			test.That(t, r.Min.X, test.ShouldEqual, tc.expected.Min.X)
			test.That(t, r.Min.Y, test.ShouldEqual, tc.expected.Min.Y)
			test.That(t, r.Max.X, test.ShouldEqual, tc.expected.Max.X)
			test.That(t, r.Max.Y, test.ShouldEqual, tc.expected.Max.Y)
		})
	}
}

func TestBoxRectStaysInsideImage(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 10000; i++ {
		width := 1 + rng.Intn(2000)
		height := 1 + rng.Intn(2000)
		region := roi(
			uint32(rng.Intn(3*width)),
			uint32(rng.Intn(3*height)),
			uint32(rng.Intn(3*width)),
			uint32(rng.Intn(3*height)),
		)

		r := BoxRect(region, width, height)
		if r.Min.X < 0 || r.Min.X > r.Max.X || r.Max.X > width ||
			r.Min.Y < 0 || r.Min.Y > r.Max.Y || r.Max.Y > height {
			t.Fatalf("BoxRect(%+v, %d, %d) = %v is outside the image", region, width, height, r)
		}
	}
}

func TestLabelText(t *testing.T) {
	tests := []struct {
		obj      models.Object
		expected string
	}{
		{models.Object{Name: "person", Probability: 0.873}, "person: 87.3%"},
		{models.Object{Name: "bottle", Probability: 1}, "bottle: 100.0%"},
		{models.Object{Name: "cat", Probability: 0}, "cat: 0.0%"},
		{models.Object{Name: "tvmonitor", Probability: 0.5049}, "tvmonitor: 50.5%"},
	}

	for _, tc := range tests {
		test.That(t, LabelText(tc.obj), test.ShouldEqual, tc.expected)
	}
}
