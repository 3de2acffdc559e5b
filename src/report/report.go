// Package report shapes parsed datasets into chart series and produces the comparison image.
//
// Pipeline: Load (parse each benchmark file) -> Build (sort each dataset by depth, resolve
// labels, handle empty datasets, drop points log axes cannot show) -> render -> WritePNG.
// Dependency direction: report -> parser, render; neither of those imports report.
package report

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/iafilius/depthbench/src/logger"
	"github.com/iafilius/depthbench/src/parser"
	"github.com/iafilius/depthbench/src/render"
	"github.com/iafilius/depthbench/src/types"
)

// ErrNoData means a dataset (or every dataset) yielded no measurements.
var ErrNoData = errors.New("no data parsed")

// Default file names and series labels.
const (
	DefaultTreeFile     = "benchmark_results_tree.txt"
	DefaultOldTreeFile  = "benchmark_results_oldtree.txt"
	DefaultOutputFile   = "benchmark_results.png"
	DefaultTreeLabel    = "Tree.design()"
	DefaultOldTreeLabel = "OldTree.design()"
)

// Source is one input file and how its series should be labelled.
type Source struct {
	Path string
	// Label overrides the label found in the file when non-empty.
	Label string
	// Fallback is used when neither Label nor the file provides one.
	Fallback string
}

// DefaultSources returns the two fixed inputs: the current tree and the legacy tree.
func DefaultSources() []Source {
	return []Source{
		{Path: DefaultTreeFile, Fallback: DefaultTreeLabel},
		{Path: DefaultOldTreeFile, Fallback: DefaultOldTreeLabel},
	}
}

// Config drives a full run.
type Config struct {
	Sources []Source
	Format  parser.Format
	// SkipEmpty drops empty datasets (with a warning) instead of failing with ErrNoData.
	SkipEmpty bool
	Backend   string
	Render    render.Options
	// OutPath is where the PNG is written; empty means DefaultOutputFile.
	OutPath string
}

// Result is everything a run produced.
type Result struct {
	Datasets []*types.Dataset
	Series   []types.Series
	Notes    []string
	PNG      []byte
	OutPath  string
}

// SortByDepth sorts ms ascending by depth in place. Equal depths are ordered by time so the
// output does not depend on input order; the sort is stable and idempotent.
func SortByDepth(ms []types.Measurement) {
	slices.SortStableFunc(ms, func(a, b types.Measurement) int {
		if c := cmp.Compare(a.Depth, b.Depth); c != 0 {
			return c
		}
		return cmp.Compare(a.AvgTimeNs, b.AvgTimeNs)
	})
}

// Unzip splits measurements into aligned depth and time slices.
func Unzip(ms []types.Measurement) (depths, times []float64) {
	depths = make([]float64, len(ms))
	times = make([]float64, len(ms))
	for i, m := range ms {
		depths[i] = m.Depth
		times[i] = m.AvgTimeNs
	}
	return depths, times
}

// ResolveLabel picks the legend label: explicit override, then the file's own, then fallback.
func ResolveLabel(src Source, ds *types.Dataset) string {
	switch {
	case src.Label != "":
		return src.Label
	case ds != nil && ds.Label != "":
		return ds.Label
	case src.Fallback != "":
		return src.Fallback
	}
	return filepath.Base(src.Path)
}

// Prepare returns a depth-sorted copy of ds as a series. An empty dataset is ErrNoData.
func Prepare(ds *types.Dataset, label string) (types.Series, error) {
	if ds.Len() == 0 {
		source := "dataset"
		if ds != nil && ds.Source != "" {
			source = ds.Source
		}
		return types.Series{}, fmt.Errorf("%s: %w", source, ErrNoData)
	}
	pts := slices.Clone(ds.Measurements)
	SortByDepth(pts)
	return types.Series{Label: label, Points: pts}, nil
}

// Load parses every source. A file that cannot be opened is fatal and returned as is.
func Load(sources []Source, format parser.Format) ([]*types.Dataset, error) {
	out := make([]*types.Dataset, 0, len(sources))
	for _, src := range sources {
		ds, err := parser.ParseFileFormat(src.Path, format)
		if err != nil {
			return nil, err
		}
		logStats(ds)
		out = append(out, ds)
	}
	return out, nil
}

func logStats(ds *types.Dataset) {
	st := ds.Stats
	if st.TotalSkipped() == 0 {
		logger.Infof("[parse %s] lines=%d measurements=%d", ds.Source, st.Lines, st.Emitted)
		return
	}
	detail := ""
	for _, r := range st.SkipReasons() {
		detail += fmt.Sprintf(" %s=%d", r, st.Skipped[r])
	}
	logger.Infof("[parse %s] lines=%d measurements=%d dropped=%d:%s", ds.Source, st.Lines, st.Emitted, st.TotalSkipped(), detail)
}

// Build turns datasets into plottable series. sources[i] describes datasets[i].
// Notes describe anything left out of the chart.
func Build(sources []Source, datasets []*types.Dataset, skipEmpty bool) ([]types.Series, []string, error) {
	if len(sources) != len(datasets) {
		return nil, nil, fmt.Errorf("build: %d sources for %d datasets", len(sources), len(datasets))
	}
	var series []types.Series
	var notes []string
	for i, ds := range datasets {
		label := ResolveLabel(sources[i], ds)
		s, err := Prepare(ds, label)
		if err == nil {
			s, err = plottable(s, &notes)
		}
		if err != nil {
			if errors.Is(err, ErrNoData) && skipEmpty {
				logger.Warnf("[plot] series %q skipped: %v", label, err)
				notes = append(notes, fmt.Sprintf("%s: no data", label))
				continue
			}
			return nil, nil, fmt.Errorf("series %q: %w", label, err)
		}
		series = append(series, s)
	}
	if len(series) == 0 {
		return nil, notes, fmt.Errorf("nothing to plot: %w", ErrNoData)
	}
	return series, notes, nil
}

// plottable removes points log axes cannot show and records a note when it does.
func plottable(s types.Series, notes *[]string) (types.Series, error) {
	kept := make([]types.Measurement, 0, len(s.Points))
	for _, p := range s.Points {
		if render.Plottable(p) {
			kept = append(kept, p)
		}
	}
	if dropped := len(s.Points) - len(kept); dropped > 0 {
		logger.Warnf("[plot] series %q: %d point(s) with non-positive or non-finite values left out of log axes", s.Label, dropped)
		*notes = append(*notes, fmt.Sprintf("%s: %d point(s) not plottable on log axes", s.Label, dropped))
	}
	if len(kept) == 0 {
		return s, fmt.Errorf("no plottable points: %w", ErrNoData)
	}
	s.Points = kept
	return s, nil
}

// Chart builds series from datasets and renders them with the configured backend.
func Chart(cfg Config, datasets []*types.Dataset) (*Result, error) {
	defer logger.TimeTrack(time.Now(), "chart")
	series, notes, err := Build(cfg.Sources, datasets, cfg.SkipEmpty)
	if err != nil {
		return nil, err
	}
	r, err := render.New(cfg.Backend)
	if err != nil {
		return nil, err
	}
	opts := cfg.Render
	opts.Notes = append(slices.Clone(opts.Notes), notes...)
	b, err := r.Render(series, opts)
	if err != nil {
		return nil, fmt.Errorf("render (%s): %w", r.Name(), err)
	}
	return &Result{Datasets: datasets, Series: series, Notes: notes, PNG: b}, nil
}

// Run loads all sources, renders the chart and writes it to cfg.OutPath.
func Run(cfg Config) (*Result, error) {
	datasets, err := Load(cfg.Sources, cfg.Format)
	if err != nil {
		return nil, err
	}
	res, err := Chart(cfg, datasets)
	if err != nil {
		return nil, err
	}
	out := cfg.OutPath
	if out == "" {
		out = DefaultOutputFile
	}
	if err := WritePNG(out, res.PNG); err != nil {
		return nil, err
	}
	res.OutPath = out
	return res, nil
}

// WritePNG writes encoded image bytes to path, creating parent directories.
func WritePNG(path string, b []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create out dir: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
