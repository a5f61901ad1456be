// Package samples builds synthetic detection messages for exercising a viewer
// without a camera or inference stick attached.
package samples

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gocv.io/x/gocv"

	"ncs-viewer-go/internal/imaging"
	"ncs-viewer-go/internal/models"
)

// ParseObject parses "name:probability:x:y:width:height", where x and y are
// the box center in pixels
func ParseObject(s string) (models.ObjectInBox, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return models.ObjectInBox{}, fmt.Errorf("object %q: expected name:probability:x:y:width:height", s)
	}

	prob, err := strconv.ParseFloat(parts[1], 32)
	if err != nil || prob < 0 || prob > 1 {
		return models.ObjectInBox{}, fmt.Errorf("object %q: probability must be in [0,1]", s)
	}

	var dims [4]uint32
	for i, p := range parts[2:] {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return models.ObjectInBox{}, fmt.Errorf("object %q: %w", s, err)
		}
		dims[i] = uint32(v)
	}

	return models.ObjectInBox{
		Object: models.Object{Name: parts[0], Probability: float32(prob)},
		ROI: models.RegionOfInterest{
			XOffset: dims[0],
			YOffset: dims[1],
			Width:   dims[2],
			Height:  dims[3],
		},
	}, nil
}

// Gradient renders a diagonal test pattern in the given encoding
func Gradient(width, height int, encoding string) (models.Image, error) {
	bpp, err := imaging.BytesPerPixel(encoding)
	if err != nil {
		return models.Image{}, err
	}
	if width <= 0 || height <= 0 {
		return models.Image{}, fmt.Errorf("invalid size %dx%d", width, height)
	}

	step := width * bpp
	data := make([]byte, step*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := float64(x+y) / float64(width+height)
			px := data[y*step+x*bpp : y*step+(x+1)*bpp]
			switch encoding {
			case models.EncodingMono8:
				px[0] = byte(v * 255)
			case models.EncodingMono16:
				binary.LittleEndian.PutUint16(px, uint16(v*math.MaxInt16))
			case models.Encoding32FC1:
				binary.LittleEndian.PutUint32(px, math.Float32bits(float32(v)))
			default:
				for c := range px {
					px[c] = byte(v * 255 * float64(c+1) / float64(len(px)))
				}
				if bpp == 4 {
					px[3] = 255
				}
			}
		}
	}

	return models.Image{
		Height:   uint32(height),
		Width:    uint32(width),
		Encoding: encoding,
		Step:     uint32(step),
		Data:     data,
	}, nil
}

// FromMat converts a BGR image (as loaded by gocv.IMRead) to a message image
// in one of the 8-bit encodings
func FromMat(mat gocv.Mat, encoding string) (models.Image, error) {
	if mat.Empty() || mat.Type() != gocv.MatTypeCV8UC3 {
		return models.Image{}, fmt.Errorf("expected a non-empty 8-bit BGR image")
	}

	var code gocv.ColorConversionCode
	switch encoding {
	case models.EncodingBGR8:
		code = -1
	case models.EncodingRGB8:
		code = gocv.ColorBGRToRGB
	case models.EncodingMono8:
		code = gocv.ColorBGRToGray
	case models.EncodingBGRA8:
		code = gocv.ColorBGRToBGRA
	case models.EncodingRGBA8:
		code = gocv.ColorBGRToRGBA
	default:
		return models.Image{}, fmt.Errorf("%w: %q cannot be built from a color image", imaging.ErrUnsupportedEncoding, encoding)
	}

	out := mat
	if code >= 0 {
		out = gocv.NewMat()
		defer out.Close()
		gocv.CvtColor(mat, &out, code)
	}

	bpp, _ := imaging.BytesPerPixel(encoding)
	return models.Image{
		Height:   uint32(out.Rows()),
		Width:    uint32(out.Cols()),
		Encoding: encoding,
		Step:     uint32(out.Cols() * bpp),
		Data:     out.ToBytes(),
	}, nil
}

// Message assembles a detection message around img
func Message(frameID string, img models.Image, objects []models.ObjectInBox, inferenceMs float32, now time.Time) *models.ObjectsInBoxes {
	header := models.Header{Stamp: now, FrameID: frameID}
	img.Header = header
	return &models.ObjectsInBoxes{
		Header:          header,
		Objects:         objects,
		InferenceTimeMs: inferenceMs,
		Image:           img,
	}
}
