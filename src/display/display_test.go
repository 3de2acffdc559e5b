package display

import (
	"image"
	"testing"
)

func TestSupported(t *testing.T) {
	env := func(m map[string]string) func(string) string {
		return func(k string) string { return m[k] }
	}
	cases := []struct {
		goos string
		env  map[string]string
		want bool
	}{
		{"linux", nil, false},
		{"linux", map[string]string{"DISPLAY": ":0"}, true},
		{"linux", map[string]string{"WAYLAND_DISPLAY": "wayland-0"}, true},
		{"freebsd", nil, false},
		{"darwin", nil, true},
		{"windows", nil, true},
	}
	for _, tc := range cases {
		if got := supported(tc.goos, env(tc.env)); got != tc.want {
			t.Fatalf("supported(%s, %v)=%v want %v", tc.goos, tc.env, got, tc.want)
		}
	}
}

func TestWindowSize(t *testing.T) {
	s := windowSize(image.NewRGBA(image.Rect(0, 0, 960, 576)))
	if s.Width != 960 || s.Height != 576 {
		t.Fatalf("unexpected size %v", s)
	}
	if s := windowSize(nil); s.Width != 640 || s.Height != 480 {
		t.Fatalf("unexpected default size %v", s)
	}
}
