package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/iafilius/depthbench/src/report"
	"github.com/iafilius/depthbench/src/types"
)

func TestSanitizeHost(t *testing.T) {
	if got := sanitizeHost("My.Host_01"); got != "my-host_01" {
		t.Fatalf("sanitizeHost=%q", got)
	}
}

func TestExpandHost(t *testing.T) {
	got, ok := expandHost("out/bench_{host}.png", "box")
	if !ok || got != "out/bench_box.png" {
		t.Fatalf("expandHost=%q ok=%v", got, ok)
	}
	got, ok = expandHost("bench_%HOST%_$HOST.png", "box")
	if !ok || got != "bench_box_box.png" {
		t.Fatalf("expandHost=%q ok=%v", got, ok)
	}
	if got, ok := expandHost(report.DefaultOutputFile, "box"); ok || got != report.DefaultOutputFile {
		t.Fatalf("plain path changed: %q", got)
	}
}

func TestCompareAtDepths(t *testing.T) {
	tree := []types.Measurement{{10, 300}, {100, 1200}, {1000, 9000}}
	old := []types.Measurement{{10, 600}, {100, 4800}, {5000, 1}}
	got := compareAtDepths(tree, old)
	if len(got) != 2 {
		t.Fatalf("expected 2 common depths, got %v", got)
	}
	if got[0].Depth != 10 || got[0].Ratio != 2 || got[1].Depth != 100 || got[1].Ratio != 4 {
		t.Fatalf("unexpected ratios %v", got)
	}
}

// TestWriteSummaryJSON ensures the comparison block appears for two series and drops are listed.
func TestWriteSummaryJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	tree := &types.Dataset{Source: "tree.txt", Measurements: []types.Measurement{{10, 300}}}
	tree.Stats.Lines = 3
	tree.Stats.Add(types.Outcome{Kind: types.Skipped, Reason: types.ReasonBadTime})
	old := &types.Dataset{Source: "old.txt", Measurements: []types.Measurement{{10, 900}}}
	res := &report.Result{
		Datasets: []*types.Dataset{tree, old},
		Series: []types.Series{
			{Label: "Tree.design()", Points: tree.Measurements},
			{Label: "OldTree.design()", Points: old.Measurements},
		},
		OutPath: "benchmark_results.png",
	}
	if err := writeSummaryJSON(path, res, "gonum"); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(b, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	comp, ok := parsed["comparison"].([]interface{})
	if !ok || len(comp) != 1 {
		t.Fatalf("expected one comparison entry: %s", string(b))
	}
	if notes, ok := parsed["notes"].([]interface{}); !ok || len(notes) != 0 {
		t.Fatalf("expected empty notes array: %s", string(b))
	}
	series := parsed["series"].([]interface{})
	first := series[0].(map[string]interface{})
	if first["source"] != "tree.txt" {
		t.Fatalf("unexpected source: %v", first["source"])
	}
	if dropped, ok := first["dropped"].(map[string]interface{}); !ok || dropped[string(types.ReasonBadTime)] != float64(1) {
		t.Fatalf("expected bad_time drop: %s", string(b))
	}
}

func TestCompareAtDepthsSkipsNonFiniteRatio(t *testing.T) {
	tree := []types.Measurement{{10, 1e-10}, {100, 2}}
	old := []types.Measurement{{10, 1e308}, {100, 8}}
	got := compareAtDepths(tree, old)
	if len(got) != 1 || got[0].Depth != 100 || got[0].Ratio != 4 {
		t.Fatalf("expected only depth 100 with ratio 4, got %v", got)
	}
}

// TestWriteSummaryJSONHugeRatio ensures an overflowing ratio does not lose the summary file.
func TestWriteSummaryJSONHugeRatio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	res := &report.Result{
		Series: []types.Series{
			{Label: "Tree.design()", Points: []types.Measurement{{10, 1e-10}}},
			{Label: "OldTree.design()", Points: []types.Measurement{{10, 1e308}}},
		},
	}
	if err := writeSummaryJSON(path, res, "gochart"); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(b, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := parsed["comparison"]; ok {
		t.Fatalf("did not expect comparison with only a non-finite ratio: %s", string(b))
	}
}

func TestBuildSources(t *testing.T) {
	src := buildSources("a.txt", "b.txt", "", "Legacy")
	if len(src) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(src))
	}
	if src[0].Path != "a.txt" || src[0].Label != "" || src[0].Fallback != report.DefaultTreeLabel {
		t.Fatalf("unexpected tree source: %+v", src[0])
	}
	if src[1].Path != "b.txt" || src[1].Label != "Legacy" || src[1].Fallback != report.DefaultOldTreeLabel {
		t.Fatalf("unexpected oldtree source: %+v", src[1])
	}
	def := buildSources(report.DefaultTreeFile, report.DefaultOldTreeFile, "", "")
	if def[0].Path != report.DefaultSources()[0].Path || def[1].Path != report.DefaultSources()[1].Path {
		t.Fatalf("defaults differ from report.DefaultSources: %+v", def)
	}
}
