package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iafilius/depthbench/src/parser"
	"github.com/iafilius/depthbench/src/render"
	"github.com/iafilius/depthbench/src/report"
)

// screenshotWidth is the chart width used when no window exists.
var screenshotWidth = 960

// RunScreenshotsMode renders the chart once per backend and writes the PNGs under outDir.
// It runs headlessly without creating a UI window.
func RunScreenshotsMode(sources []report.Source, format parser.Format, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	st := newState(sources, format, render.DefaultBackend)
	st.widthOverride = screenshotWidth
	datasets, err := report.Load(sources, format)
	if err != nil {
		return err
	}
	st.datasets = datasets

	base := strings.TrimSuffix(report.DefaultOutputFile, filepath.Ext(report.DefaultOutputFile))
	for _, name := range render.Names() {
		st.backend = name
		if _, err := renderChart(st); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		outPath := filepath.Join(outDir, base+"_"+name+".png")
		if err := report.WritePNG(outPath, st.lastPNG); err != nil {
			return err
		}
	}
	return nil
}
