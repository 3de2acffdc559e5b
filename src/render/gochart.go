package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/iafilius/depthbench/src/types"
)

// goChartRenderer draws with go-chart. go-chart has no log axes, so values are plotted as
// log10 and ticks are labelled with the decade they stand for.
type goChartRenderer struct{}

func (goChartRenderer) Name() string { return "gochart" }

const goChartMarkerRadius = 4

func (goChartRenderer) Render(series []types.Series, opts Options) ([]byte, error) {
	if err := validate(series); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	e := bounds(series)
	xMin, xMax := decadeSpan(e.minX, e.maxX)
	yMin, yMax := decadeSpan(e.minY, e.maxY)

	data := make([]chart.Series, 0, len(series))
	for i, s := range series {
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for j, p := range s.Points {
			xs[j] = math.Log10(p.Depth)
			ys[j] = math.Log10(p.AvgTimeNs)
		}
		col := toDrawingColor(SeriesColor(i))
		data = append(data, markerSeries{
			ContinuousSeries: chart.ContinuousSeries{
				Name:    s.Label,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: col,
					StrokeWidth: 2,
				},
			},
			marker: MarkerFor(i),
			color:  col,
		})
	}

	padBottom := 20
	if len(opts.Notes) > 0 {
		padBottom += 18
	}
	ch := chart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 24, Bottom: padBottom}},
		XAxis: chart.XAxis{
			Name:  opts.XLabel,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks: decadeTicks(xMin, xMax),
		},
		YAxis: chart.YAxis{
			Name:  opts.YLabel,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
			Ticks: decadeTicks(yMin, yMax),
		},
		Series: append([]chart.Series{newDecadeGrid(xMin, xMax, yMin, yMax)}, data...),
	}
	// legend built from the data series only so the grid gets no entry
	legendSrc := chart.Chart{Series: data}
	ch.Elements = []chart.Renderable{chart.Legend(&legendSrc)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("go-chart render: %w", err)
	}
	if len(opts.Notes) == 0 {
		return buf.Bytes(), nil
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("go-chart decode: %w", err)
	}
	var out bytes.Buffer
	if err := png.Encode(&out, drawHint(img, joinNotes(opts.Notes))); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return out.Bytes(), nil
}

func toDrawingColor(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// decadeSpan returns whole log10 exponents covering [min,max], at least one decade wide.
func decadeSpan(min, max float64) (float64, float64) {
	lo := math.Floor(math.Log10(min))
	hi := math.Ceil(math.Log10(max))
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

func decadeTicks(lo, hi float64) []chart.Tick {
	ticks := make([]chart.Tick, 0, int(hi-lo)+1)
	for k := lo; k <= hi; k++ {
		ticks = append(ticks, chart.Tick{Value: k, Label: decadeLabel(int(k))})
	}
	return ticks
}

// decadeLabel prints 10^k in full up to a million and as 1eK beyond either end.
func decadeLabel(k int) string {
	if k >= 0 && k <= 6 {
		return strconv.FormatFloat(math.Pow(10, float64(k)), 'f', -1, 64)
	}
	return "1e" + strconv.Itoa(k)
}

// markerSeries is a ContinuousSeries that also draws a marker shape on every point.
type markerSeries struct {
	chart.ContinuousSeries
	marker Marker
	color  drawing.Color
}

// Render draws the connecting line first, then the markers on top.
func (ms markerSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	ms.ContinuousSeries.Render(r, canvasBox, xrange, yrange, defaults)
	for i := range ms.XValues {
		x := canvasBox.Left + xrange.Translate(ms.XValues[i])
		y := canvasBox.Bottom - yrange.Translate(ms.YValues[i])
		drawMarker(r, ms.marker, ms.color, x, y, goChartMarkerRadius)
	}
}

func drawMarker(r chart.Renderer, m Marker, col drawing.Color, x, y, rad int) {
	r.ResetStyle()
	r.SetStrokeColor(col)
	r.SetFillColor(col)
	r.SetStrokeWidth(1.5)
	switch m {
	case MarkerSquare:
		r.MoveTo(x-rad, y-rad)
		r.LineTo(x+rad, y-rad)
		r.LineTo(x+rad, y+rad)
		r.LineTo(x-rad, y+rad)
		r.Close()
		r.FillStroke()
	case MarkerTriangle:
		r.MoveTo(x, y-rad-1)
		r.LineTo(x+rad+1, y+rad)
		r.LineTo(x-rad-1, y+rad)
		r.Close()
		r.FillStroke()
	case MarkerRing:
		r.SetFillColor(drawing.ColorWhite)
		r.Circle(float64(rad), x, y)
		r.FillStroke()
	case MarkerCross:
		r.MoveTo(x-rad, y-rad)
		r.LineTo(x+rad, y+rad)
		r.Stroke()
		r.MoveTo(x-rad, y+rad)
		r.LineTo(x+rad, y-rad)
		r.Stroke()
	case MarkerPlus:
		r.MoveTo(x-rad, y)
		r.LineTo(x+rad, y)
		r.Stroke()
		r.MoveTo(x, y-rad)
		r.LineTo(x, y+rad)
		r.Stroke()
	default:
		r.Circle(float64(rad), x, y)
		r.FillStroke()
	}
	r.ResetStyle()
}

// decadeGrid is a value-less series that draws dashed grid lines at every decade (major) and
// at 2..9 times every decade (minor), in log10 coordinates. It has no values, so it never
// affects the axis ranges.
type decadeGrid struct {
	xMin, xMax, yMin, yMax float64
	major, minor           chart.Style
}

func newDecadeGrid(xMin, xMax, yMin, yMax float64) decadeGrid {
	dash := []float64{4, 4}
	return decadeGrid{
		xMin: xMin, xMax: xMax, yMin: yMin, yMax: yMax,
		major: chart.Style{StrokeColor: toDrawingColor(gridMajorColor), StrokeWidth: 0.6, StrokeDashArray: dash},
		minor: chart.Style{StrokeColor: toDrawingColor(gridMinorColor), StrokeWidth: 0.5, StrokeDashArray: dash},
	}
}

func (g decadeGrid) GetName() string           { return "" }
func (g decadeGrid) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (g decadeGrid) GetStyle() chart.Style     { return chart.Style{} }
func (g decadeGrid) Validate() error           { return nil }

// gridValues returns log10 positions of the major and minor lines inside [lo,hi].
func gridValues(lo, hi float64) (major, minor []float64) {
	for k := lo; k <= hi; k++ {
		major = append(major, k)
		if k == hi {
			break
		}
		for m := 2; m <= 9; m++ {
			minor = append(minor, k+math.Log10(float64(m)))
		}
	}
	return major, minor
}

func (g decadeGrid) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, _ chart.Style) {
	stroke := func(st chart.Style, x0, y0, x1, y1 int) {
		r.ResetStyle()
		r.SetStrokeColor(st.StrokeColor)
		r.SetStrokeWidth(st.StrokeWidth)
		r.SetStrokeDashArray(st.StrokeDashArray)
		r.MoveTo(x0, y0)
		r.LineTo(x1, y1)
		r.Stroke()
	}
	xMajor, xMinor := gridValues(g.xMin, g.xMax)
	yMajor, yMinor := gridValues(g.yMin, g.yMax)
	for _, v := range xMinor {
		x := canvasBox.Left + xrange.Translate(v)
		stroke(g.minor, x, canvasBox.Top, x, canvasBox.Bottom)
	}
	for _, v := range yMinor {
		y := canvasBox.Bottom - yrange.Translate(v)
		stroke(g.minor, canvasBox.Left, y, canvasBox.Right, y)
	}
	for _, v := range xMajor {
		x := canvasBox.Left + xrange.Translate(v)
		stroke(g.major, x, canvasBox.Top, x, canvasBox.Bottom)
	}
	for _, v := range yMajor {
		y := canvasBox.Bottom - yrange.Translate(v)
		stroke(g.major, canvasBox.Left, y, canvasBox.Right, y)
	}
	r.ResetStyle()
}

// drawHint draws a small hint string onto the provided image near the bottom-left.
func drawHint(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	pad := 4
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 64, G: 64, B: 64, A: 255})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6
	// light background so the text stays readable over axis labels
	bg := image.NewUniform(color.NRGBA{R: 245, G: 245, B: 245, A: 230})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}
