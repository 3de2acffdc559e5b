package render

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/iafilius/depthbench/src/types"
)

// gonumDPI is the resolution vgimg uses for PNG output.
const gonumDPI = 96

type gonumRenderer struct{}

func (gonumRenderer) Name() string { return "gonum" }

func (gonumRenderer) Render(series []types.Series, opts Options) ([]byte, error) {
	if err := validate(series); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	// grid first so it stays under the lines
	p.Add(newLogGrid())

	for i, s := range series {
		xys := make(plotter.XYs, len(s.Points))
		for j, m := range s.Points {
			xys[j].X = m.Depth
			xys[j].Y = m.AvgTimeNs
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Label, err)
		}
		col := SeriesColor(i)
		line.Color = col
		line.Width = vg.Points(1.5)
		points.Color = col
		points.Radius = vg.Points(3.5)
		points.Shape = gonumGlyph(MarkerFor(i))
		p.Add(line, points)
		p.Legend.Add(s.Label, line, points)
	}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.Padding = 1 * vg.Millimeter

	e := bounds(series)
	p.X.Min, p.X.Max = padLog(e.minX, e.maxX)
	p.Y.Min, p.Y.Max = padLog(e.minY, e.maxY)

	if len(opts.Notes) > 0 {
		p.X.Label.Text += "\n" + joinNotes(opts.Notes)
	}

	w := vg.Length(opts.Width) * vg.Inch / gonumDPI
	h := vg.Length(opts.Height) * vg.Inch / gonumDPI
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("gonum canvas: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("gonum png encode: %w", err)
	}
	return buf.Bytes(), nil
}

func gonumGlyph(m Marker) draw.GlyphDrawer {
	switch m {
	case MarkerSquare:
		return draw.BoxGlyph{}
	case MarkerTriangle:
		return draw.PyramidGlyph{}
	case MarkerRing:
		return draw.RingGlyph{}
	case MarkerCross:
		return draw.CrossGlyph{}
	case MarkerPlus:
		return draw.PlusGlyph{}
	}
	return draw.CircleGlyph{}
}

// logGrid draws dashed lines at every tick of both axes, minor ticks included.
// plotter.Grid only draws major ticks.
type logGrid struct {
	Major draw.LineStyle
	Minor draw.LineStyle
}

func newLogGrid() *logGrid {
	dashes := []vg.Length{vg.Points(3), vg.Points(3)}
	return &logGrid{
		Major: draw.LineStyle{Color: gridMajorColor, Width: vg.Points(0.5), Dashes: dashes},
		Minor: draw.LineStyle{Color: gridMinorColor, Width: vg.Points(0.5), Dashes: dashes},
	}
}

func (g *logGrid) style(t plot.Tick) draw.LineStyle {
	if t.IsMinor() {
		return g.Minor
	}
	return g.Major
}

// Plot implements plot.Plotter.
func (g *logGrid) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, t := range plt.X.Tick.Marker.Ticks(plt.X.Min, plt.X.Max) {
		if t.Value < plt.X.Min || t.Value > plt.X.Max {
			continue
		}
		x := trX(t.Value)
		c.StrokeLine2(g.style(t), x, c.Min.Y, x, c.Max.Y)
	}
	for _, t := range plt.Y.Tick.Marker.Ticks(plt.Y.Min, plt.Y.Max) {
		if t.Value < plt.Y.Min || t.Value > plt.Y.Max {
			continue
		}
		y := trY(t.Value)
		c.StrokeLine2(g.style(t), c.Min.X, y, c.Max.X, y)
	}
}
