// Package display shows a rendered chart in a desktop window.
package display

import (
	"image"
	"os"
	"runtime"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"

	"github.com/iafilius/depthbench/src/logger"
)

// Supported reports whether a window can be opened. On Linux and the BSDs that needs an X11
// or Wayland display; other platforms always have one.
func Supported() bool {
	return supported(runtime.GOOS, os.Getenv)
}

func supported(goos string, getenv func(string) string) bool {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return getenv("DISPLAY") != "" || getenv("WAYLAND_DISPLAY") != ""
	}
	return true
}

// Show opens a window holding img and blocks until the user closes it.
func Show(title string, img image.Image) {
	ShowFor(title, img, 0)
}

// ShowFor is Show with an automatic close after d. d <= 0 waits for the user.
func ShowFor(title string, img image.Image, d time.Duration) {
	a := app.New()
	w := a.NewWindow(title)
	ci := canvas.NewImageFromImage(img)
	ci.FillMode = canvas.ImageFillContain
	w.SetContent(ci)
	w.Resize(windowSize(img))
	if d > 0 {
		go func() {
			time.Sleep(d)
			logger.Debugf("[display] closing window after %s", d)
			fyne.Do(func() { w.Close() })
		}()
	}
	w.ShowAndRun()
}

// windowSize fits the window to the image; a missing image gets a small default window.
func windowSize(img image.Image) fyne.Size {
	if img == nil || img.Bounds().Empty() {
		return fyne.NewSize(640, 480)
	}
	b := img.Bounds()
	return fyne.NewSize(float32(b.Dx()), float32(b.Dy()))
}
