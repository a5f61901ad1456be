package overlay

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"ncs-viewer-go/internal/config"
	"ncs-viewer-go/internal/models"
)

// line spacing of the stats block, also its top-left margin
const lineSpacing = 20

// StatsOptions selects the lines of the stats block
type StatsOptions struct {
	ShowFPS           bool
	ShowInferenceTime bool
	ShowObjectCount   bool
}

func StatsOptionsFromConfig(cfg *config.Config) StatsOptions {
	if cfg == nil {
		return StatsOptions{}
	}
	return StatsOptions{
		ShowFPS:           cfg.ShowFPS,
		ShowInferenceTime: cfg.ShowInferenceTime,
		ShowObjectCount:   cfg.ShowObjectCount,
	}
}

func formatStatsLines(msg *models.ObjectsInBoxes, fps float64, opts StatsOptions) []string {
	var lines []string

	if opts.ShowFPS {
		if fps > 0 {
			lines = append(lines, fmt.Sprintf("FPS: %.1f", fps))
		} else {
			lines = append(lines, "FPS: --.-")
		}
	}
	if opts.ShowInferenceTime {
		lines = append(lines, fmt.Sprintf("Inference: %.1f ms", msg.InferenceTimeMs))
	}
	if opts.ShowObjectCount {
		lines = append(lines, fmt.Sprintf("Objects: %d", len(msg.Objects)))
	}

	return lines
}

func (r *Renderer) drawStats(mat *gocv.Mat, msg *models.ObjectsInBoxes, fps float64) {
	lines := formatStatsLines(msg, fps, r.stats)
	for i, line := range lines {
		pos := image.Pt(lineSpacing, lineSpacing*(i+1))
		gocv.PutText(mat, line, pos, r.style.FontFace, r.style.FontScale, r.style.BoxColor, r.style.FontThickness)
	}
}
