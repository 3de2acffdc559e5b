package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/iafilius/depthbench/src/types"
)

const goBenchOutput = `goos: linux
goarch: amd64
pkg: example.com/tree
cpu: Intel(R) Core(TM) i7-8650U CPU @ 1.90GHz
BenchmarkDesign/depth=100-8         	    1000	      1200 ns/op
BenchmarkDesign/depth=10-8          	    5000	       300 ns/op
BenchmarkUnrelated-8                	  100000	        50 ns/op
PASS
ok  	example.com/tree	1.234s
`

func TestParseGoBench(t *testing.T) {
	ds, err := ParseGoBench(strings.NewReader(goBenchOutput), "bench.txt")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []types.Measurement{{Depth: 100, AvgTimeNs: 1200}, {Depth: 10, AvgTimeNs: 300}}
	if diff := cmp.Diff(want, ds.Measurements); diff != "" {
		t.Fatalf("measurements mismatch (-want +got):\n%s", diff)
	}
	if ds.Label != "Design" {
		t.Fatalf("label: got %q", ds.Label)
	}
	if ds.Stats.Skipped[types.ReasonNoCurrentDepth] != 1 {
		t.Fatalf("expected the depth-less result to be skipped, stats=%+v", ds.Stats)
	}
}

func TestGoBenchMatchesLogFormat(t *testing.T) {
	logDS := parseString(t, strings.Join([]string{
		"Benchmarking Design with depth: 100",
		"Average time for Design at depth 100: 1200 ns",
		"Benchmarking Design with depth: 10",
		"Average time for Design at depth 10: 300 ns",
	}, "\n"))
	benchDS, err := ParseGoBench(strings.NewReader(goBenchOutput), "bench.txt")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(logDS.Measurements, benchDS.Measurements); diff != "" {
		t.Fatalf("formats disagree (-log +gobench):\n%s", diff)
	}
}

func TestDetect(t *testing.T) {
	if got := Detect([]byte(goBenchOutput)); got != FormatGoBench {
		t.Fatalf("go bench output detected as %q", got)
	}
	logText := "Benchmarking Tree.design() with depth: 100\nAverage time for Tree.design() at depth 100: 1200 ns\n"
	if got := Detect([]byte(logText)); got != FormatLog {
		t.Fatalf("log output detected as %q", got)
	}
}

func TestParseFileFormatAuto(t *testing.T) {
	path := writeTemp(t, "bench.txt", goBenchOutput)
	ds, err := ParseFileFormat(path, FormatAuto)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("expected 2 measurements via auto detection, got %d", ds.Len())
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatLog, "log": FormatLog, " GoBench ": FormatGoBench, "auto": FormatAuto}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Fatalf("expected error for csv")
	}
}
