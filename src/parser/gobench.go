package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/perf/benchfmt"

	"github.com/iafilius/depthbench/src/types"
)

// Format selects the input syntax of a benchmark file.
type Format string

const (
	// FormatLog is the "Benchmarking ... with depth:" / "Average time ...:" text log.
	FormatLog Format = "log"
	// FormatGoBench is `go test -bench` output with a /depth=<n> sub-benchmark key.
	FormatGoBench Format = "gobench"
	// FormatAuto picks one of the above by looking at the content.
	FormatAuto Format = "auto"
)

// ParseFormat validates a -format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatLog, FormatGoBench, FormatAuto:
		return f, nil
	case "":
		return FormatLog, nil
	}
	return "", fmt.Errorf("unknown input format %q (want log, gobench or auto)", s)
}

var goBenchLine = regexp.MustCompile(`^Benchmark\S*\s+\d+\s+.*\bns/op\b`)

// Detect reports FormatGoBench when b contains at least one go benchmark result line, else FormatLog.
func Detect(b []byte) Format {
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if goBenchLine.MatchString(strings.TrimSpace(sc.Text())) {
			return FormatGoBench
		}
	}
	return FormatLog
}

// depthKey is the sub-benchmark name key carrying the depth, as in BenchmarkDesign/depth=100-8.
const depthKey = "depth"

// ParseGoBench reads `go test -bench` output. Every result whose name has a /depth=<n> part
// and a time-per-op value becomes a measurement; other results are skipped with a reason.
// Stats.Lines counts benchmark records, not raw lines (configuration lines are absorbed by the reader).
func ParseGoBench(r io.Reader, source string) (*types.Dataset, error) {
	ds := &types.Dataset{Source: source}
	br := benchfmt.NewReader(r, source)
	for br.Scan() {
		switch rec := br.Result().(type) {
		case *benchfmt.Result:
			_, line := rec.Pos()
			o := goBenchOutcome(rec, line)
			if ds.Label == "" {
				base, _ := rec.Name.Parts()
				ds.Label = strings.TrimPrefix(string(base), "Benchmark")
			}
			record(ds, o)
		case *benchfmt.SyntaxError:
			_, line := rec.Pos()
			record(ds, types.Outcome{Line: line, Kind: types.Skipped, Reason: types.ReasonBadTime})
		default:
			_, line := rec.Pos()
			record(ds, types.Outcome{Line: line, Kind: types.Ignored})
		}
	}
	if err := br.Err(); err != nil {
		return ds, fmt.Errorf("read %s: %w", source, err)
	}
	return ds, nil
}

func goBenchOutcome(res *benchfmt.Result, line int) types.Outcome {
	depth, ok := depthFromName(res.Name)
	if !ok {
		return types.Outcome{Line: line, Kind: types.Skipped, Reason: types.ReasonNoCurrentDepth}
	}
	ns, ok := nsPerOp(res)
	if !ok {
		return types.Outcome{Line: line, Kind: types.Skipped, Reason: types.ReasonMissingTimeValue}
	}
	return types.Outcome{Line: line, Kind: types.Emitted, Measurement: types.Measurement{Depth: depth, AvgTimeNs: ns}}
}

func depthFromName(name benchfmt.Name) (float64, bool) {
	_, parts := name.Parts()
	for _, p := range parts {
		s := string(p)
		if !strings.HasPrefix(s, "/") {
			continue
		}
		k, v, ok := strings.Cut(s[1:], "=")
		if !ok || k != depthKey {
			continue
		}
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return d, true
	}
	return 0, false
}

// nsPerOp returns the time per op in nanoseconds. The reader normalises ns/op to sec/op,
// so prefer the original unit when it is still recorded.
func nsPerOp(res *benchfmt.Result) (float64, bool) {
	for _, v := range res.Values {
		switch {
		case v.OrigUnit == "ns/op":
			return v.OrigValue, true
		case v.Unit == "ns/op":
			return v.Value, true
		case v.Unit == "sec/op":
			return v.Value * 1e9, true
		}
	}
	return 0, false
}
