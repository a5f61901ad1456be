package imaging

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"ncs-viewer-go/internal/models"
)

// ErrMalformedImage is returned when an image's dimensions, stride and buffer
// length do not agree
var ErrMalformedImage = errors.New("malformed image")

// NewMat copies a message image into an owned Mat ready for drawing.
// Padded rows are repacked, big-endian samples are swapped to host order and
// rgb8 is converted to BGR. The caller must Close the returned Mat.
func NewMat(img models.Image) (gocv.Mat, error) {
	pf, err := lookup(img.Encoding)
	if err != nil {
		return gocv.Mat{}, err
	}

	width, height := int(img.Width), int(img.Height)
	if width == 0 || height == 0 {
		return gocv.Mat{}, fmt.Errorf("%w: zero size %dx%d", ErrMalformedImage, width, height)
	}

	rowBytes := width * pf.channels * pf.bytesPerChannel
	step := int(img.Step)
	if step == 0 {
		step = rowBytes
	}
	if step < rowBytes {
		return gocv.Mat{}, fmt.Errorf("%w: step %d shorter than row of %d bytes", ErrMalformedImage, step, rowBytes)
	}
	if len(img.Data) < step*(height-1)+rowBytes {
		return gocv.Mat{}, fmt.Errorf("%w: buffer of %d bytes too short for %dx%d step %d",
			ErrMalformedImage, len(img.Data), width, height, step)
	}

	data := packRows(img.Data, height, rowBytes, step)
	if img.IsBigEndian != 0 && pf.bytesPerChannel > 1 {
		if step == rowBytes {
			data = append([]byte(nil), data...)
		}
		swapSampleBytes(data, pf.bytesPerChannel)
	}

	view, err := gocv.NewMatFromBytes(height, width, pf.matType, data)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to create Mat from image data: %w", err)
	}
	defer view.Close()

	mat := gocv.NewMat()
	if img.Encoding == models.EncodingRGB8 {
		gocv.CvtColor(view, &mat, gocv.ColorRGBToBGR)
	} else {
		view.CopyTo(&mat)
	}
	return mat, nil
}

// packRows drops the per-row padding of a strided buffer. The input slice is
// returned unchanged when rows are already packed.
func packRows(data []byte, rows, rowBytes, step int) []byte {
	if step == rowBytes {
		return data[:rows*rowBytes]
	}
	packed := make([]byte, rows*rowBytes)
	for r := 0; r < rows; r++ {
		copy(packed[r*rowBytes:(r+1)*rowBytes], data[r*step:r*step+rowBytes])
	}
	return packed
}

func swapSampleBytes(data []byte, size int) {
	for i := 0; i+size <= len(data); i += size {
		for a, b := i, i+size-1; a < b; a, b = a+1, b-1 {
			data[a], data[b] = data[b], data[a]
		}
	}
}
