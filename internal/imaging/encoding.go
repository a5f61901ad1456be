package imaging

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"ncs-viewer-go/internal/models"
)

// ErrUnsupportedEncoding is returned for encoding tags the viewer cannot map
// onto an OpenCV pixel format
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

type pixelFormat struct {
	matType         gocv.MatType
	channels        int
	bytesPerChannel int
}

var pixelFormats = map[string]pixelFormat{
	models.EncodingMono8:  {gocv.MatTypeCV8UC1, 1, 1},
	models.EncodingMono16: {gocv.MatTypeCV16SC1, 1, 2},
	models.EncodingBGR8:   {gocv.MatTypeCV8UC3, 3, 1},
	models.EncodingRGB8:   {gocv.MatTypeCV8UC3, 3, 1},
	models.EncodingBGRA8:  {gocv.MatTypeCV8UC4, 4, 1},
	models.EncodingRGBA8:  {gocv.MatTypeCV8UC4, 4, 1},
	models.Encoding32FC1:  {gocv.MatTypeCV32FC1, 1, 4},
}

func lookup(encoding string) (pixelFormat, error) {
	pf, ok := pixelFormats[encoding]
	if !ok {
		return pixelFormat{}, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
	}
	return pf, nil
}

// MatType maps an image encoding tag to the OpenCV Mat type used to view its
// raw bytes
func MatType(encoding string) (gocv.MatType, error) {
	pf, err := lookup(encoding)
	if err != nil {
		return 0, err
	}
	return pf.matType, nil
}

// BytesPerPixel returns the packed size of one pixel for an encoding tag
func BytesPerPixel(encoding string) (int, error) {
	pf, err := lookup(encoding)
	if err != nil {
		return 0, err
	}
	return pf.channels * pf.bytesPerChannel, nil
}

// SupportedEncodings lists every encoding tag MatType accepts
func SupportedEncodings() []string {
	return []string{
		models.EncodingMono8,
		models.EncodingMono16,
		models.EncodingBGR8,
		models.EncodingRGB8,
		models.EncodingBGRA8,
		models.EncodingRGBA8,
		models.Encoding32FC1,
	}
}
