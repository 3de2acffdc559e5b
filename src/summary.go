package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/iafilius/depthbench/src/report"
	"github.com/iafilius/depthbench/src/types"
)

type seriesSummary struct {
	Label    string         `json:"label"`
	Source   string         `json:"source"`
	Points   int            `json:"points"`
	MinDepth float64        `json:"min_depth"`
	MaxDepth float64        `json:"max_depth"`
	Lines    int            `json:"lines"`
	Dropped  map[string]int `json:"dropped,omitempty"`
}

// depthRatio is the time of the second series divided by the first at a depth both measured.
type depthRatio struct {
	Depth float64 `json:"depth"`
	Ratio float64 `json:"ratio"`
}

type runSummary struct {
	GeneratedAt string          `json:"generated_at"`
	Output      string          `json:"output"`
	Backend     string          `json:"backend"`
	Series      []seriesSummary `json:"series"`
	Notes       []string        `json:"notes"`
	Comparison  []depthRatio    `json:"comparison,omitempty"`
}

// buildSummary describes a finished run. Per-file details are attached only when every
// dataset became a series, since only then do the indexes line up.
func buildSummary(res *report.Result, backend string) runSummary {
	notes := res.Notes
	if notes == nil {
		notes = []string{}
	}
	rep := runSummary{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339Nano),
		Output:      res.OutPath,
		Backend:     backend,
		Notes:       notes,
	}
	for i, s := range res.Series {
		ss := seriesSummary{Label: s.Label, Points: len(s.Points)}
		if n := len(s.Points); n > 0 {
			ss.MinDepth = s.Points[0].Depth
			ss.MaxDepth = s.Points[n-1].Depth
		}
		if len(res.Series) == len(res.Datasets) && res.Datasets[i] != nil {
			ds := res.Datasets[i]
			ss.Source = ds.Source
			ss.Lines = ds.Stats.Lines
			if ds.Stats.TotalSkipped() > 0 {
				ss.Dropped = map[string]int{}
				for _, r := range ds.Stats.SkipReasons() {
					ss.Dropped[string(r)] = ds.Stats.Skipped[r]
				}
			}
		}
		rep.Series = append(rep.Series, ss)
	}
	if len(res.Series) == 2 {
		rep.Comparison = compareAtDepths(res.Series[0].Points, res.Series[1].Points)
	}
	return rep
}

// compareAtDepths pairs the first measurement of each depth present in both sorted series.
// Pairs whose ratio is not finite are left out.
func compareAtDepths(a, b []types.Measurement) []depthRatio {
	first := map[float64]float64{}
	for _, m := range a {
		if _, ok := first[m.Depth]; !ok {
			first[m.Depth] = m.AvgTimeNs
		}
	}
	var out []depthRatio
	seen := map[float64]bool{}
	for _, m := range b {
		base, ok := first[m.Depth]
		if !ok || seen[m.Depth] || base == 0 {
			continue
		}
		ratio := m.AvgTimeNs / base
		if math.IsInf(ratio, 0) || math.IsNaN(ratio) {
			continue
		}
		seen[m.Depth] = true
		out = append(out, depthRatio{Depth: m.Depth, Ratio: ratio})
	}
	return out
}

func writeSummaryJSON(path string, res *report.Result, backend string) error {
	b, err := json.MarshalIndent(buildSummary(res, backend), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("write summary %s: %w", path, err)
	}
	return nil
}
