package imaging

import (
	"errors"
	"testing"

	"go.viam.com/test"
	"gocv.io/x/gocv"
)

func TestMatType(t *testing.T) {
	tests := []struct {
		encoding      string
		expected      gocv.MatType
		bytesPerPixel int
	}{
		{"mono8", gocv.MatTypeCV8UC1, 1},
		{"mono16", gocv.MatTypeCV16SC1, 2},
		{"bgr8", gocv.MatTypeCV8UC3, 3},
		{"rgb8", gocv.MatTypeCV8UC3, 3},
		{"bgra8", gocv.MatTypeCV8UC4, 4},
		{"rgba8", gocv.MatTypeCV8UC4, 4},
		{"32FC1", gocv.MatTypeCV32FC1, 4},
	}

	for _, tc := range tests {
		t.Run(tc.encoding, func(t *testing.T) {
			mt, err := MatType(tc.encoding)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, mt, test.ShouldEqual, tc.expected)

			bpp, err := BytesPerPixel(tc.encoding)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, bpp, test.ShouldEqual, tc.bytesPerPixel)
		})
	}

	test.That(t, SupportedEncodings(), test.ShouldHaveLength, len(tests))
}

func TestMatTypeUnsupported(t *testing.T) {
	for _, encoding := range []string{"", "yuv422", "BGR8", "mono32", "16UC1", "bayer_rggb8", "rgb16"} {
		_, err := MatType(encoding)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, errors.Is(err, ErrUnsupportedEncoding), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "unsupported encoding")

		_, err = BytesPerPixel(encoding)
		test.That(t, errors.Is(err, ErrUnsupportedEncoding), test.ShouldBeTrue)
	}
}
