package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/color"
	png "image/png"
	"os"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/depthbench/cmd/depthviewer/uihelpers"
	"github.com/iafilius/depthbench/src/logger"
	"github.com/iafilius/depthbench/src/parser"
	"github.com/iafilius/depthbench/src/render"
	"github.com/iafilius/depthbench/src/report"
	"github.com/iafilius/depthbench/src/types"
)

type uiState struct {
	app    fyne.App
	window fyne.Window

	sources  []report.Source
	format   parser.Format
	datasets []*types.Dataset

	// toggles and modes
	backend   string
	visible   []bool
	skipEmpty bool

	// last successful render, exported as is
	lastPNG []byte
	series  []types.Series

	// widgets
	table       *widget.Table
	chartCanvas *canvas.Image
	statusLabel *widget.Label
	seriesBox   *fyne.Container

	// headless width override (screenshots mode)
	widthOverride int
}

func main() {
	var treeFlag, oldTreeFlag, formatFlag, backendFlag, shotsDir, logLevel string
	flag.StringVar(&treeFlag, "tree", report.DefaultTreeFile, "Benchmark log of the current tree implementation")
	flag.StringVar(&oldTreeFlag, "oldtree", report.DefaultOldTreeFile, "Benchmark log of the legacy tree implementation")
	flag.StringVar(&formatFlag, "format", string(parser.FormatAuto), "Input format (log|gobench|auto)")
	flag.StringVar(&backendFlag, "backend", render.DefaultBackend, "Initial chart backend ("+strings.Join(render.Names(), "|")+")")
	flag.StringVar(&shotsDir, "screenshots", "", "Render one PNG per backend into this directory and exit (no window)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()
	logger.SetLogLevel(logLevel)

	format, err := parser.ParseFormat(formatFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	sources := report.DefaultSources()
	sources[0].Path, sources[1].Path = treeFlag, oldTreeFlag
	if shotsDir != "" {
		if err := RunScreenshotsMode(sources, format, shotsDir); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("[viewer] screenshots written to %s\n", shotsDir)
		return
	}

	a := app.NewWithID("com.depthbench.viewer")
	w := a.NewWindow("Depth Benchmark Viewer")
	w.Resize(fyne.NewSize(1100, 800))

	state := newState(sources, format, backendFlag)
	state.app = a
	state.window = w
	loadPrefs(state)

	backendSelect := widget.NewSelect(render.Names(), nil)
	backendSelect.Selected = state.backend
	skipChk := widget.NewCheck("Skip empty", nil)
	skipChk.SetChecked(state.skipEmpty)
	state.statusLabel = widget.NewLabel("")
	state.seriesBox = container.NewHBox()

	state.table = widget.NewTable(
		func() (int, int) { return len(tableRows(state)) + 1, 3 },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			lbl := o.(*widget.Label)
			if id.Row == 0 {
				lbl.SetText([]string{"Series", "Depth", "Avg time (ns)"}[id.Col])
				return
			}
			rows := tableRows(state)
			rix := id.Row - 1
			if rix < 0 || rix >= len(rows) {
				lbl.SetText("")
				return
			}
			lbl.SetText(rows[rix][id.Col])
		},
	)
	applyColumnWidths(state, 1100)

	state.chartCanvas = canvas.NewImageFromImage(blank(100, 60))
	state.chartCanvas.FillMode = canvas.ImageFillContain
	state.chartCanvas.SetMinSize(fyne.NewSize(960, 576))

	top := container.NewHBox(
		widget.NewButton("Reload", func() { loadAll(state) }),
		widget.NewButton("Export PNG…", func() { exportChartPNG(state, report.DefaultOutputFile) }),
		widget.NewLabel("Backend:"), backendSelect,
		skipChk,
		widget.NewLabel("Series:"), state.seriesBox,
	)
	tabs := container.NewAppTabs(
		container.NewTabItem("Chart", container.NewVScroll(state.chartCanvas)),
		container.NewTabItem("Data", state.table),
	)
	tabs.SetTabLocation(container.TabLocationTop)
	w.SetContent(container.NewBorder(top, state.statusLabel, nil, nil, tabs))

	// Redraw chart on window resize so it scales with width
	if w.Canvas() != nil {
		prevW := int(w.Canvas().Size().Width)
		done := make(chan struct{})
		w.SetOnClosed(func() {
			savePrefs(state)
			close(done)
		})
		go func() {
			t := time.NewTicker(300 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					c := w.Canvas()
					if c == nil {
						continue
					}
					curW := int(c.Size().Width)
					if curW != prevW {
						prevW = curW
						fyne.Do(func() {
							applyColumnWidths(state, float32(curW))
							redrawChart(state)
						})
					}
				}
			}
		}()
	}

	backendSelect.OnChanged = func(v string) {
		state.backend = v
		savePrefs(state)
		redrawChart(state)
	}
	skipChk.OnChanged = func(b bool) {
		state.skipEmpty = b
		savePrefs(state)
		redrawChart(state)
	}

	buildMenus(state)
	loadAll(state)
	w.ShowAndRun()
}

func newState(sources []report.Source, format parser.Format, backend string) *uiState {
	if _, err := render.New(backend); err != nil {
		backend = render.DefaultBackend
	}
	visible := make([]bool, len(sources))
	for i := range visible {
		visible[i] = true
	}
	return &uiState{sources: sources, format: format, backend: backend, visible: visible}
}

func buildMenus(state *uiState) {
	if state == nil || state.window == nil {
		return
	}
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Reload", func() { loadAll(state) }),
		fyne.NewMenuItem("Export Chart…", func() { exportChartPNG(state, report.DefaultOutputFile) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu))

	canv := state.window.Canvas()
	if canv != nil {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { loadAll(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { loadAll(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { state.window.Close() })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { state.window.Close() })
	}
}

// loadAll re-parses every source and refreshes the series toggles, table and chart.
func loadAll(state *uiState) {
	datasets, err := report.Load(state.sources, state.format)
	if err != nil {
		setStatus(state, err.Error())
		if state.window != nil {
			dialog.ShowError(err, state.window)
		}
		return
	}
	state.datasets = datasets
	var parts []string
	for i, ds := range datasets {
		parts = append(parts, fmt.Sprintf("%s=%d", report.ResolveLabel(state.sources[i], ds), ds.Len()))
	}
	fmt.Printf("[viewer] loaded %d file(s): %s\n", len(datasets), strings.Join(parts, ", "))
	rebuildSeriesChecks(state)
	redrawChart(state)
	if state.table != nil {
		state.table.Refresh()
	}
}

func rebuildSeriesChecks(state *uiState) {
	if state.seriesBox == nil {
		return
	}
	state.seriesBox.RemoveAll()
	for i, src := range state.sources {
		var ds *types.Dataset
		if i < len(state.datasets) {
			ds = state.datasets[i]
		}
		i := i
		chk := widget.NewCheck(report.ResolveLabel(src, ds), nil)
		chk.SetChecked(state.visible[i])
		chk.OnChanged = func(b bool) {
			state.visible[i] = b
			redrawChart(state)
		}
		state.seriesBox.Add(chk)
	}
	state.seriesBox.Refresh()
}

// selection returns the sources and datasets whose series are switched on.
func selection(state *uiState) ([]report.Source, []*types.Dataset) {
	var srcs []report.Source
	var dss []*types.Dataset
	for i, ds := range state.datasets {
		if i < len(state.visible) && !state.visible[i] {
			continue
		}
		srcs = append(srcs, state.sources[i])
		dss = append(dss, ds)
	}
	return srcs, dss
}

// renderChart renders the visible series at the current chart size and remembers the PNG.
func renderChart(state *uiState) (image.Image, error) {
	srcs, dss := selection(state)
	w, h := chartSize(state)
	opts := render.DefaultOptions()
	opts.Width, opts.Height = w, h
	res, err := report.Chart(report.Config{
		Sources:   srcs,
		Format:    state.format,
		SkipEmpty: state.skipEmpty,
		Backend:   state.backend,
		Render:    opts,
	}, dss)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(res.PNG))
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	state.lastPNG = res.PNG
	state.series = res.Series
	return img, nil
}

func redrawChart(state *uiState) {
	img, err := renderChart(state)
	if err != nil {
		state.lastPNG = nil
		state.series = nil
		setStatus(state, err.Error())
		w, h := chartSize(state)
		img = blank(w, h)
	} else {
		setStatus(state, fmt.Sprintf("%d series, backend %s", len(state.series), state.backend))
	}
	if state.chartCanvas != nil {
		state.chartCanvas.Image = img
		b := img.Bounds()
		state.chartCanvas.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
		state.chartCanvas.Refresh()
	}
	if state.table != nil {
		state.table.Refresh()
	}
}

func setStatus(state *uiState, msg string) {
	if state.statusLabel != nil {
		state.statusLabel.SetText(msg)
	}
}

// tableRows flattens the last rendered series into Series/Depth/AvgTime cells.
func tableRows(state *uiState) [][3]string {
	var rows [][3]string
	for _, s := range state.series {
		for _, p := range s.Points {
			rows = append(rows, [3]string{s.Label, uihelpers.FormatNumericTick(p.Depth), uihelpers.FormatNumericTick(p.AvgTimeNs)})
		}
	}
	return rows
}

func applyColumnWidths(state *uiState, winW float32) {
	if state.table == nil {
		return
	}
	for i, cw := range uihelpers.ComputeTableColumnWidths(winW) {
		state.table.SetColumnWidth(i, float32(cw))
	}
}

// chartSize computes a chart size based on the current window width.
func chartSize(state *uiState) (int, int) {
	if state != nil && state.widthOverride > 0 {
		return uihelpers.ComputeChartDimensions(state.widthOverride)
	}
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		d := render.DefaultOptions()
		return d.Width, d.Height
	}
	sz := state.window.Canvas().Size()
	// Use ~95% of the available width, minus a small margin for scrollbars/padding
	return uihelpers.ComputeChartDimensions(int(sz.Width*0.95) - 12)
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 250, G: 250, B: 250, A: 255})
		}
	}
	return img
}

// export PNG
func exportChartPNG(state *uiState, defaultName string) {
	if state == nil || state.window == nil {
		return
	}
	if len(state.lastPNG) == 0 {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	data := state.lastPNG
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if _, err := wc.Write(data); err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		fmt.Printf("[viewer] exported chart to %s\n", uihelpers.TruncatePath(wc.URI().Path(), 60))
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("backend", state.backend)
	prefs.SetBool("skipEmpty", state.skipEmpty)
}

func loadPrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	if b := prefs.StringWithFallback("backend", ""); b != "" {
		if _, err := render.New(b); err == nil && state.backend == render.DefaultBackend {
			state.backend = b
		}
	}
	state.skipEmpty = prefs.BoolWithFallback("skipEmpty", false)
}
