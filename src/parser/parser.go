// Package parser turns benchmark log files into depth/average-time datasets.
//
// The text log format is the one written by the tree benchmarks:
//
//	Benchmarking Tree.design() with depth: 100
//	Iteration 1: 1312 ns, result: ...
//	Average time for Tree.design() at depth 100: 1200 ns
//	------------------------------------------------------
//
// Lines are classified by prefix only. A depth declaration sets the current depth, an average
// time line emits (current depth, time), everything else is ignored. Malformed recognised lines
// are dropped, never fatal; each drop is reported as a Skipped outcome with a reason.
package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/iafilius/depthbench/src/logger"
	"github.com/iafilius/depthbench/src/types"
)

const (
	depthPrefix = "Benchmarking"
	depthMarker = "with depth:"
	timePrefix  = "Average time"
)

// State is the cursor threaded through one pass over a file. The zero value is the start state.
type State struct {
	Depth     float64
	HaveDepth bool
	// Label is the benchmark name from the first depth declaration that carried one.
	Label string
	Line  int
}

// Step classifies one raw line and returns the next state with the line's outcome.
func Step(st State, raw string) (State, types.Outcome) {
	st.Line++
	out := types.Outcome{Line: st.Line, Kind: types.Ignored}
	line := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(line, depthPrefix):
		parts := strings.Split(line, depthMarker)
		if len(parts) < 2 {
			out.Kind, out.Reason = types.Skipped, types.ReasonMissingDepthValue
			return st, out
		}
		if st.Label == "" {
			if name := strings.TrimSpace(strings.TrimPrefix(parts[0], depthPrefix)); name != "" {
				st.Label = name
			}
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			// current depth stays as it was
			out.Kind, out.Reason = types.Skipped, types.ReasonBadDepth
			return st, out
		}
		st.Depth, st.HaveDepth = d, true
		out.Kind, out.Depth = types.DepthSet, d
		return st, out

	case strings.HasPrefix(line, timePrefix):
		parts := strings.Split(line, ":")
		if len(parts) < 2 {
			out.Kind, out.Reason = types.Skipped, types.ReasonMissingTimeValue
			return st, out
		}
		if !st.HaveDepth {
			out.Kind, out.Reason = types.Skipped, types.ReasonNoCurrentDepth
			return st, out
		}
		fields := strings.Fields(strings.TrimSpace(parts[1]))
		if len(fields) == 0 {
			out.Kind, out.Reason = types.Skipped, types.ReasonMissingTimeValue
			return st, out
		}
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			out.Kind, out.Reason = types.Skipped, types.ReasonBadTime
			return st, out
		}
		out.Kind = types.Emitted
		out.Measurement = types.Measurement{Depth: st.Depth, AvgTimeNs: v}
		return st, out
	}
	return st, out
}

// Parse folds Step over every line of r. source names the input in the dataset and in errors.
func Parse(r io.Reader, source string) (*types.Dataset, error) {
	ds := &types.Dataset{Source: source}
	var st State
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var o types.Outcome
		st, o = Step(st, scanner.Text())
		record(ds, o)
	}
	ds.Label = st.Label
	if err := scanner.Err(); err != nil {
		return ds, fmt.Errorf("read %s: %w", source, err)
	}
	return ds, nil
}

func record(ds *types.Dataset, o types.Outcome) {
	ds.Stats.Add(o)
	switch o.Kind {
	case types.Emitted:
		ds.Measurements = append(ds.Measurements, o.Measurement)
	case types.Skipped:
		logger.Debugf("[parse %s] line %d dropped: %s", ds.Source, o.Line, o.Reason)
	}
}

// ParseFile parses the text log format at path.
func ParseFile(path string) (*types.Dataset, error) {
	return ParseFileFormat(path, FormatLog)
}

// ParseFileFormat opens path and parses it in the given format. Open errors are returned
// wrapped with the path; they are the only fatal parser errors.
func ParseFileFormat(path string, format Format) (*types.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open benchmark file: %w", err)
	}
	defer f.Close()
	switch format {
	case FormatLog, "":
		return Parse(f, path)
	case FormatGoBench:
		return ParseGoBench(f, path)
	case FormatAuto:
		b, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if Detect(b) == FormatGoBench {
			logger.Debugf("[parse %s] detected go test -bench output", path)
			return ParseGoBench(bytes.NewReader(b), path)
		}
		return Parse(bytes.NewReader(b), path)
	}
	return nil, fmt.Errorf("unknown input format %q", format)
}
