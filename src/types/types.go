// Package types holds the value types shared by the parser, the report shaping code and the
// chart renderers.
package types

import "sort"

// Measurement is one (depth, average time) reading. AvgTimeNs is in nanoseconds.
type Measurement struct {
	Depth     float64 `json:"depth"`
	AvgTimeNs float64 `json:"avg_time_ns"`
}

// Dataset is everything parsed from one benchmark file, in file order.
type Dataset struct {
	// Label is the benchmarked name taken from the first depth declaration (e.g. "Tree.design()").
	Label        string        `json:"label,omitempty"`
	Source       string        `json:"source,omitempty"`
	Measurements []Measurement `json:"measurements"`
	Stats        ParseStats    `json:"stats"`
}

// Len returns the number of measurements.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Measurements)
}

// Depths returns the depth column; index i matches AverageTimes()[i].
func (d *Dataset) Depths() []float64 {
	out := make([]float64, d.Len())
	for i := range out {
		out[i] = d.Measurements[i].Depth
	}
	return out
}

// AverageTimes returns the average time column (ns).
func (d *Dataset) AverageTimes() []float64 {
	out := make([]float64, d.Len())
	for i := range out {
		out[i] = d.Measurements[i].AvgTimeNs
	}
	return out
}

// Series is a labelled, depth-sorted point list ready to be drawn as one chart line.
type Series struct {
	Label  string
	Points []Measurement
}

// OutcomeKind classifies what a single input line did to the parse.
type OutcomeKind int

const (
	// Ignored lines match no known prefix.
	Ignored OutcomeKind = iota
	// DepthSet lines replaced the current depth.
	DepthSet
	// Emitted lines produced a Measurement.
	Emitted
	// Skipped lines matched a prefix but could not be used; Reason says why.
	Skipped
)

func (k OutcomeKind) String() string {
	switch k {
	case Ignored:
		return "ignored"
	case DepthSet:
		return "depth"
	case Emitted:
		return "emitted"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

// SkipReason names why a recognised line was dropped.
type SkipReason string

const (
	ReasonNone              SkipReason = ""
	ReasonBadDepth          SkipReason = "bad_depth"
	ReasonMissingDepthValue SkipReason = "missing_depth_value"
	ReasonNoCurrentDepth    SkipReason = "no_current_depth"
	ReasonBadTime           SkipReason = "bad_time"
	ReasonMissingTimeValue  SkipReason = "missing_time_value"
)

// Outcome is the per-line result of the parser fold.
type Outcome struct {
	Line        int
	Kind        OutcomeKind
	Measurement Measurement // valid when Kind == Emitted
	Depth       float64     // valid when Kind == DepthSet
	Reason      SkipReason  // valid when Kind == Skipped
}

// ParseStats counts line outcomes for one file.
type ParseStats struct {
	Lines     int                `json:"lines"`
	Ignored   int                `json:"ignored"`
	DepthSets int                `json:"depth_sets"`
	Emitted   int                `json:"emitted"`
	Skipped   map[SkipReason]int `json:"skipped,omitempty"`
}

// Add folds one outcome into the counters.
func (s *ParseStats) Add(o Outcome) {
	s.Lines++
	switch o.Kind {
	case Ignored:
		s.Ignored++
	case DepthSet:
		s.DepthSets++
	case Emitted:
		s.Emitted++
	case Skipped:
		if s.Skipped == nil {
			s.Skipped = map[SkipReason]int{}
		}
		s.Skipped[o.Reason]++
	}
}

// TotalSkipped returns the number of recognised lines that were dropped.
func (s ParseStats) TotalSkipped() int {
	n := 0
	for _, c := range s.Skipped {
		n += c
	}
	return n
}

// SkipReasons returns the reasons present in Skipped, sorted for stable output.
func (s ParseStats) SkipReasons() []SkipReason {
	out := make([]SkipReason, 0, len(s.Skipped))
	for r := range s.Skipped {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
