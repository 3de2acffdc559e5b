package uihelpers

import (
	"strings"
	"testing"
)

func TestComputeChartDimensions(t *testing.T) {
	cases := []struct {
		in    int
		wantW int
	}{
		{100, 640},
		{639, 640},
		{960, 960},
		{2400, 2400},
	}
	for _, c := range cases {
		w, h := ComputeChartDimensions(c.in)
		if w != c.wantW {
			t.Fatalf("input %d => width %d want %d", c.in, w, c.wantW)
		}
		if h < 384 || h > 900 {
			t.Fatalf("height clamp violated for input %d => h=%d", c.in, h)
		}
	}
	if _, h := ComputeChartDimensions(960); h != 576 {
		t.Fatalf("960 wide should give the default 576 height, got %d", h)
	}
}

func TestComputeTableColumnWidths(t *testing.T) {
	ultra := ComputeTableColumnWidths(400)
	wide := ComputeTableColumnWidths(1200)
	for i := range ultra {
		if ultra[i] <= 0 || ultra[i] > wide[i] {
			t.Fatalf("column %d: ultra=%d wide=%d", i, ultra[i], wide[i])
		}
	}
	if ComputeTableColumnWidths(700) != [3]int{180, 90, 140} {
		t.Fatalf("compact widths mismatch: %#v", ComputeTableColumnWidths(700))
	}
}

func TestFormatNumericTick(t *testing.T) {
	cases := map[float64]string{
		1200:   "1200",
		12.34:  "12.3",
		1.234:  "1.23",
		0.1234: "0.123",
		0.0012: "0.0012",
	}
	for in, want := range cases {
		if got := FormatNumericTick(in); got != want {
			t.Fatalf("FormatNumericTick(%v)=%q want %q", in, got, want)
		}
	}
}

func TestTruncatePath(t *testing.T) {
	if got := TruncatePath("short.txt", 60); got != "short.txt" {
		t.Fatalf("short path changed: %q", got)
	}
	long := "/home/user/projects/trees/results/" + strings.Repeat("x", 20) + "/benchmark_results_tree.txt"
	got := TruncatePath(long, 50)
	if !strings.HasSuffix(got, "benchmark_results_tree.txt") || !strings.Contains(got, "...") {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if len(got) > 50 {
		t.Fatalf("truncated path too long (%d): %q", len(got), got)
	}
}
