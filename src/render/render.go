// Package render draws depth/time series as a log-log line chart and returns PNG bytes.
//
// Backends implement Renderer; the report package only shapes data and never touches a
// charting library directly. Both backends draw every series as a connected line with its
// own marker shape and legend entry, on log10 axes, over a light dashed grid covering major
// (decade) and minor (2..9 x decade) ticks.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/iafilius/depthbench/src/types"
)

// Renderer turns series into an encoded PNG image.
type Renderer interface {
	Name() string
	Render(series []types.Series, opts Options) ([]byte, error)
}

// Options controls titles and output size. Width and Height are pixels.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	Width  int
	Height int
	// Notes are short remarks stamped under the plot (e.g. dropped points).
	Notes []string
}

// DefaultOptions returns the fixed chart styling: 960x576 px (10x6 in at 96 dpi).
func DefaultOptions() Options {
	return Options{
		Title:  "Benchmark results",
		XLabel: "Depth",
		YLabel: "Average time (ns)",
		Width:  960,
		Height: 576,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.XLabel == "" {
		o.XLabel = d.XLabel
	}
	if o.YLabel == "" {
		o.YLabel = d.YLabel
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}

var (
	// ErrNoSeries is returned when there is nothing to draw.
	ErrNoSeries = errors.New("no series to render")
	// ErrNotPlottable is returned for points a log axis cannot show.
	ErrNotPlottable = errors.New("point not plottable on log axes")
)

// Plottable reports whether m can be placed on log-log axes (both coordinates finite and > 0).
func Plottable(m types.Measurement) bool {
	return m.Depth > 0 && m.AvgTimeNs > 0 && !math.IsInf(m.Depth, 0) && !math.IsInf(m.AvgTimeNs, 0)
}

func joinNotes(notes []string) string {
	return strings.Join(notes, "; ")
}

func validate(series []types.Series) error {
	if len(series) == 0 {
		return ErrNoSeries
	}
	for _, s := range series {
		if len(s.Points) == 0 {
			return fmt.Errorf("series %q: %w", s.Label, ErrNoSeries)
		}
		for _, p := range s.Points {
			if !Plottable(p) {
				return fmt.Errorf("series %q depth=%v time=%v: %w", s.Label, p.Depth, p.AvgTimeNs, ErrNotPlottable)
			}
		}
	}
	return nil
}

// Marker is the point shape used for a series.
type Marker int

const (
	MarkerCircle Marker = iota
	MarkerSquare
	MarkerTriangle
	MarkerRing
	MarkerCross
	MarkerPlus
)

var markerOrder = []Marker{MarkerCircle, MarkerSquare, MarkerTriangle, MarkerRing, MarkerCross, MarkerPlus}

// MarkerFor returns the marker of the i-th series; the first two are circle and square.
func MarkerFor(i int) Marker { return markerOrder[i%len(markerOrder)] }

// tab10-like palette so the output resembles the usual matplotlib comparison charts.
var palette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
	{R: 140, G: 86, B: 75, A: 255},
}

// SeriesColor returns the line/marker color of the i-th series.
func SeriesColor(i int) color.RGBA { return palette[i%len(palette)] }

var (
	gridMajorColor = color.RGBA{R: 176, G: 176, B: 176, A: 255}
	gridMinorColor = color.RGBA{R: 216, G: 216, B: 216, A: 255}
)

// extent is the data bounding box over all series.
type extent struct {
	minX, maxX, minY, maxY float64
}

func bounds(series []types.Series) extent {
	e := extent{minX: math.Inf(1), maxX: math.Inf(-1), minY: math.Inf(1), maxY: math.Inf(-1)}
	for _, s := range series {
		for _, p := range s.Points {
			e.minX = math.Min(e.minX, p.Depth)
			e.maxX = math.Max(e.maxX, p.Depth)
			e.minY = math.Min(e.minY, p.AvgTimeNs)
			e.maxY = math.Max(e.maxY, p.AvgTimeNs)
		}
	}
	return e
}

// padLog widens [min,max] by 5% of its log span on each side; a degenerate range becomes [min/2, max*2].
func padLog(min, max float64) (float64, float64) {
	if max <= min {
		return min / 2, max * 2
	}
	f := math.Pow(max/min, 0.05)
	return min / f, max * f
}

var registry = map[string]func() Renderer{
	"gonum":   func() Renderer { return gonumRenderer{} },
	"gochart": func() Renderer { return goChartRenderer{} },
}

// DefaultBackend is used when no backend is named.
const DefaultBackend = "gonum"

// New returns the renderer registered under name ("gonum" or "gochart").
func New(name string) (Renderer, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		n = DefaultBackend
	}
	mk, ok := registry[n]
	if !ok {
		return nil, fmt.Errorf("unknown chart backend %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return mk(), nil
}

// Names lists the registered backends in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
