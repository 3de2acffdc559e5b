package uihelpers

import (
	"math"
	"path/filepath"
	"strconv"
)

// ComputeChartDimensions applies width/height clamp rules used for the chart.
// Input: desired raw width (e.g., canvas width). Returns clamped width & height at a 10:6 aspect.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 640 {
		w = 640
	}
	h := int(float32(w) * 0.6)
	if h < 384 {
		h = 384
	}
	if h > 900 {
		h = 900
	}
	return w, h
}

// ComputeTableColumnWidths returns the 3 column widths for the data table given a window width.
// Order: Series, Depth, AvgTime
func ComputeTableColumnWidths(winW float32) [3]int {
	const compactBreakpoint = 900
	const ultraCompactBreakpoint = 520
	if winW < ultraCompactBreakpoint {
		return [3]int{120, 70, 100}
	}
	if winW < compactBreakpoint {
		return [3]int{180, 90, 140}
	}
	return [3]int{260, 120, 180}
}

// FormatNumericTick provides a compact label for depth and time cells.
func FormatNumericTick(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 100:
		return strconv.FormatInt(int64(math.Round(v)), 10)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case av >= 1:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case av >= 0.01:
		return strconv.FormatFloat(v, 'f', 3, 64)
	default:
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
}

// TruncatePath shortens p to about n bytes, keeping the file name and the start of the directory.
func TruncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}
