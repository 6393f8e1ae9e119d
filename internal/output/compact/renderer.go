package compact

import (
	"fmt"
	"strings"
)

func RenderStatusLine(model ProgressModel, width int) string {
	line := fmt.Sprintf("[install] %s %s", RenderProgress(float64(model.Percent), width), model.Status)
	if strings.TrimSpace(model.Entry) != "" {
		line += " (" + model.Entry + ")"
	}
	return line
}

func RenderProgress(percent float64, width int) string {
	clamped := ClampPercent(percent)
	if width <= 0 {
		width = 16
	}
	filled := int((clamped / 100) * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
	return fmt.Sprintf("[%s] %5.1f%%", bar, clamped)
}

func ClampPercent(percent float64) float64 {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
