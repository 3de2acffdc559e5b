package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iafilius/depthbench/src/types"
)

func sampleSeries() []types.Series {
	return []types.Series{
		{Label: "Tree.design()", Points: []types.Measurement{{Depth: 10, AvgTimeNs: 300}, {Depth: 100, AvgTimeNs: 1200}, {Depth: 1000, AvgTimeNs: 9000}, {Depth: 10000, AvgTimeNs: 80000}}},
		{Label: "OldTree.design()", Points: []types.Measurement{{Depth: 10, AvgTimeNs: 500}, {Depth: 100, AvgTimeNs: 4000}, {Depth: 1000, AvgTimeNs: 42000}}},
	}
}

func decodePNG(t *testing.T, b []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err, "output is not a PNG")
	return img
}

func TestBackendsRenderPNGOfRequestedSize(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			r, err := New(name)
			require.NoError(t, err)
			require.Equal(t, name, r.Name())

			opts := DefaultOptions()
			opts.Width, opts.Height = 800, 480
			b, err := r.Render(sampleSeries(), opts)
			require.NoError(t, err)
			img := decodePNG(t, b)
			require.InDelta(t, 800, img.Bounds().Dx(), 1)
			require.InDelta(t, 480, img.Bounds().Dy(), 1)
		})
	}
}

func TestBackendsRenderSinglePointSeries(t *testing.T) {
	series := []types.Series{
		{Label: "one", Points: []types.Measurement{{Depth: 100, AvgTimeNs: 1200}}},
		{Label: "other", Points: []types.Measurement{{Depth: 100, AvgTimeNs: 1500}}},
	}
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			r, err := New(name)
			require.NoError(t, err)
			b, err := r.Render(series, Options{})
			require.NoError(t, err)
			img := decodePNG(t, b)
			def := DefaultOptions()
			require.InDelta(t, def.Width, img.Bounds().Dx(), 1)
		})
	}
}

func TestBackendsWithNotes(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			r, err := New(name)
			require.NoError(t, err)
			opts := DefaultOptions()
			opts.Notes = []string{"dropped 1 non-positive point from OldTree.design()"}
			b, err := r.Render(sampleSeries(), opts)
			require.NoError(t, err)
			decodePNG(t, b)
		})
	}
}

func TestRenderRejectsEmptyAndNonPlottable(t *testing.T) {
	for _, name := range Names() {
		r, err := New(name)
		require.NoError(t, err)

		_, err = r.Render(nil, DefaultOptions())
		require.ErrorIs(t, err, ErrNoSeries)

		_, err = r.Render([]types.Series{{Label: "empty"}}, DefaultOptions())
		require.ErrorIs(t, err, ErrNoSeries)

		bad := []types.Series{{Label: "zero", Points: []types.Measurement{{Depth: 0, AvgTimeNs: 10}, {Depth: 10, AvgTimeNs: 20}}}}
		_, err = r.Render(bad, DefaultOptions())
		require.ErrorIs(t, err, ErrNotPlottable)
	}
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New("matplotlib")
	require.Error(t, err)
	r, err := New("")
	require.NoError(t, err)
	require.Equal(t, DefaultBackend, r.Name())
}

func TestPlottable(t *testing.T) {
	cases := []struct {
		m    types.Measurement
		want bool
	}{
		{types.Measurement{Depth: 1, AvgTimeNs: 1}, true},
		{types.Measurement{Depth: 0, AvgTimeNs: 1}, false},
		{types.Measurement{Depth: 1, AvgTimeNs: -5}, false},
		{types.Measurement{Depth: math.NaN(), AvgTimeNs: 1}, false},
		{types.Measurement{Depth: 1, AvgTimeNs: math.Inf(1)}, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Plottable(tc.m), "%+v", tc.m)
	}
}

func TestMarkersDistinctForFirstSeries(t *testing.T) {
	require.Equal(t, MarkerCircle, MarkerFor(0))
	require.Equal(t, MarkerSquare, MarkerFor(1))
	require.NotEqual(t, SeriesColor(0), SeriesColor(1))
	require.Equal(t, MarkerFor(0), MarkerFor(len(markerOrder)))
}

func TestPadLog(t *testing.T) {
	lo, hi := padLog(100, 100)
	require.Equal(t, 50.0, lo)
	require.Equal(t, 200.0, hi)

	lo, hi = padLog(10, 1000)
	require.Less(t, lo, 10.0)
	require.Greater(t, hi, 1000.0)
	// symmetric in log space
	require.InDelta(t, math.Log10(10)-math.Log10(lo), math.Log10(hi)-math.Log10(1000), 1e-9)
}

func TestDecadeSpanAndTicks(t *testing.T) {
	lo, hi := decadeSpan(300, 80000)
	require.Equal(t, 2.0, lo)
	require.Equal(t, 5.0, hi)

	lo, hi = decadeSpan(100, 100)
	require.Equal(t, 2.0, lo)
	require.Equal(t, 3.0, hi)

	ticks := decadeTicks(1, 3)
	require.Len(t, ticks, 3)
	require.Equal(t, "10", ticks[0].Label)
	require.Equal(t, "1000", ticks[2].Label)
	require.Equal(t, "1e9", decadeLabel(9))
	require.Equal(t, "1e-2", decadeLabel(-2))
}

func TestGridValues(t *testing.T) {
	major, minor := gridValues(1, 3)
	require.Equal(t, []float64{1, 2, 3}, major)
	require.Len(t, minor, 16)
	require.InDelta(t, 1+math.Log10(2), minor[0], 1e-12)
	for _, v := range minor {
		require.True(t, v > 1 && v < 3, "minor line %v outside span", v)
	}
}

func luminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
}

func TestDrawHintLightBoxDarkText(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 400; x++ {
			src.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	out := drawHint(src, "notes")
	b := out.Bounds()

	// inside the padded box, left of the text
	box := luminance(out.At(5, b.Max.Y-8))
	require.Greater(t, box, 200.0, "hint background should stay light")
	require.NotEqual(t, color.RGBAModel.Convert(out.At(5, b.Max.Y-8)), color.RGBAModel.Convert(src.At(5, b.Max.Y-8)), "hint box not drawn")

	// darkest pixel in the text area belongs to a glyph
	darkest := 255.0
	for y := b.Max.Y - 20; y < b.Max.Y; y++ {
		for x := 8; x < 8+5*7; x++ {
			if l := luminance(out.At(x, y)); l < darkest {
				darkest = l
			}
		}
	}
	require.Less(t, darkest, box-50, "hint text should be darker than its background")
	require.Same(t, src, drawHint(src, "  ").(*image.RGBA))
}
