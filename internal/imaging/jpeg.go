package imaging

import (
	"fmt"

	"gocv.io/x/gocv"
)

// isJPEGData checks if the byte slice contains JPEG data by checking magic bytes
func isJPEGData(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	// JPEG magic bytes: FF D8
	return data[0] == 0xFF && data[1] == 0xD8
}

// ToBGR returns an 8-bit, 3-channel copy of a Mat produced by NewMat.
// Mono images are expanded to gray BGR, 4-channel images drop alpha, and
// 16-bit or float images are min-max scaled to 0-255 first.
func ToBGR(src gocv.Mat) (gocv.Mat, error) {
	dst := gocv.NewMat()

	switch src.Type() {
	case gocv.MatTypeCV8UC3:
		src.CopyTo(&dst)
	case gocv.MatTypeCV8UC1:
		gocv.CvtColor(src, &dst, gocv.ColorGrayToBGR)
	case gocv.MatTypeCV8UC4:
		gocv.CvtColor(src, &dst, gocv.ColorBGRAToBGR)
	case gocv.MatTypeCV16SC1, gocv.MatTypeCV32FC1:
		scaled := gocv.NewMat()
		defer scaled.Close()
		gocv.Normalize(src, &scaled, 0, 255, gocv.NormMinMax)

		gray := gocv.NewMat()
		defer gray.Close()
		scaled.ConvertTo(&gray, gocv.MatTypeCV8UC1)

		gocv.CvtColor(gray, &dst, gocv.ColorGrayToBGR)
	default:
		dst.Close()
		return gocv.Mat{}, fmt.Errorf("%w: mat type %v", ErrUnsupportedEncoding, src.Type())
	}

	return dst, nil
}

// EncodeJPEG encodes any Mat produced by NewMat as JPEG
func EncodeJPEG(src gocv.Mat, quality int) ([]byte, error) {
	if src.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	bgr, err := ToBGR(src)
	if err != nil {
		return nil, err
	}
	defer bgr.Close()

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, bgr, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	defer buf.Close()

	b := buf.GetBytes()
	jpegCopy := make([]byte, len(b))
	copy(jpegCopy, b)

	if !isJPEGData(jpegCopy) {
		return nil, fmt.Errorf("encoder returned non-JPEG data")
	}
	return jpegCopy, nil
}
