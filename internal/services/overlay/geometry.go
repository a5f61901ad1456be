package overlay

import (
	"fmt"
	"image"

	"ncs-viewer-go/internal/models"
)

// BoxRect converts a center/size region into a rectangle clamped to a
// width x height image. Half sizes use truncating division. The result always
// satisfies 0 <= Min <= Max <= (width, height); regions that fall outside the
// image collapse onto its border.
func BoxRect(roi models.RegionOfInterest, width, height int) image.Rectangle {
	x, y := int(roi.XOffset), int(roi.YOffset)
	halfW, halfH := int(roi.Width)/2, int(roi.Height)/2

	xmin := clamp(x-halfW, 0, width)
	xmax := clamp(x+halfW, xmin, width)
	ymin := clamp(y-halfH, 0, height)
	ymax := clamp(y+halfH, ymin, height)

	return image.Rect(xmin, ymin, xmax, ymax)
}

// LabelText renders "<name>: <percent>%" with one decimal
func LabelText(obj models.Object) string {
	return fmt.Sprintf("%s: %.1f%%", obj.Name, float64(obj.Probability)*100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
