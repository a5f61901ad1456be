package overlay

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"gocv.io/x/gocv"

	"ncs-viewer-go/internal/config"
	"ncs-viewer-go/internal/models"
)

// Style holds the colors and font used for detection boxes
type Style struct {
	BoxColor       color.RGBA
	BoxThickness   int
	LabelBandColor color.RGBA
	LabelBandH     int
	TextColor      color.RGBA
	TextPadX       int
	FontFace       gocv.HersheyFont
	FontScale      float64
	FontThickness  int
}

// DefaultStyle draws green boxes and bands with red Hershey plain labels
func DefaultStyle() Style {
	return Style{
		BoxColor:       color.RGBA{R: 0, G: 255, B: 0, A: 255},
		BoxThickness:   1,
		LabelBandColor: color.RGBA{R: 0, G: 255, B: 0, A: 255},
		LabelBandH:     20,
		TextColor:      color.RGBA{R: 255, G: 0, B: 0, A: 255},
		TextPadX:       5,
		FontFace:       gocv.FontHersheyPlain,
		FontScale:      1,
		FontThickness:  1,
	}
}

// StyleFromConfig applies the configured colors, band height and font on top
// of DefaultStyle. Invalid colors keep their defaults.
func StyleFromConfig(cfg *config.Config) Style {
	style := DefaultStyle()
	if cfg == nil {
		return style
	}
	if c, err := parseHexColor(cfg.BoxColor); err == nil {
		style.BoxColor = c
	}
	if c, err := parseHexColor(cfg.LabelBandColor); err == nil {
		style.LabelBandColor = c
	}
	if c, err := parseHexColor(cfg.TextColor); err == nil {
		style.TextColor = c
	}
	if cfg.LabelBandHeight > 0 {
		style.LabelBandH = cfg.LabelBandHeight
	}
	// OverlayFont directly maps to gocv font constants
	style.FontFace = gocv.HersheyFont(cfg.OverlayFont)
	return style
}

// Renderer draws detections onto frames
type Renderer struct {
	style Style
	stats StatsOptions
}

func NewRenderer(style Style, stats StatsOptions) *Renderer {
	return &Renderer{style: style, stats: stats}
}

// DrawDetections draws, for each object in order, its clamped box, a filled
// label band along the top edge and the label text inside the band.
func (r *Renderer) DrawDetections(mat *gocv.Mat, objects []models.ObjectInBox) {
	if mat == nil || mat.Empty() || len(objects) == 0 {
		return
	}

	width, height := mat.Cols(), mat.Rows()
	for _, obj := range objects {
		box := BoxRect(obj.ROI, width, height)

		gocv.Rectangle(mat, box, r.style.BoxColor, r.style.BoxThickness)

		band := image.Rect(box.Min.X, box.Min.Y, box.Max.X, box.Min.Y+r.style.LabelBandH)
		gocv.Rectangle(mat, band, r.style.LabelBandColor, -1)

		textPos := image.Pt(box.Min.X+r.style.TextPadX, box.Min.Y+r.style.LabelBandH)
		gocv.PutText(mat, LabelText(obj.Object), textPos, r.style.FontFace, r.style.FontScale,
			r.style.TextColor, r.style.FontThickness)
	}
}

// Render draws detections and, when enabled, the stats block
func (r *Renderer) Render(mat *gocv.Mat, msg *models.ObjectsInBoxes, fps float64) {
	if mat == nil || msg == nil {
		return
	}
	r.DrawDetections(mat, msg.Objects)
	r.drawStats(mat, msg, fps)
}

// parseHexColor converts a color string like "#RRGGBB" to color.RGBA
func parseHexColor(s string) (color.RGBA, error) {
	var c color.RGBA
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return c, fmt.Errorf("invalid color length: %s", s)
	}
	r, err := strconv.ParseUint(s[0:2], 16, 8)
	if err != nil {
		return c, err
	}
	g, err := strconv.ParseUint(s[2:4], 16, 8)
	if err != nil {
		return c, err
	}
	b, err := strconv.ParseUint(s[4:6], 16, 8)
	if err != nil {
		return c, err
	}
	c = color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
	return c, nil
}
