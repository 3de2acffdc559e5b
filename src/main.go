// depthbench main entrypoint.
//
// Parses the two benchmark result files (current tree and legacy tree), sorts each by depth,
// renders a log-log comparison chart, writes it as a PNG and, when a display is available,
// shows it in a window.
//
// Design notes:
//   - Both inputs are required: a missing file is fatal before anything is drawn.
//   - An empty dataset is fatal (report.ErrNoData) unless --skip-empty is set.
//   - Dependency direction: main -> report -> parser, render; display only for presentation.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"os"
	"runtime"
	"strings"

	"github.com/iafilius/depthbench/src/display"
	"github.com/iafilius/depthbench/src/logger"
	"github.com/iafilius/depthbench/src/parser"
	"github.com/iafilius/depthbench/src/render"
	"github.com/iafilius/depthbench/src/report"
)

// sanitizeHost lowercases hn and replaces any char not alnum, dash or underscore with '-'.
func sanitizeHost(hn string) string {
	hn = strings.ToLower(hn)
	var b strings.Builder
	for _, r := range hn {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// expandHost substitutes {host}, %HOST% and $HOST in path. ok is false when nothing changed.
func expandHost(path, host string) (string, bool) {
	if host == "" {
		return path, false
	}
	out := path
	for _, p := range []string{"{host}", "%HOST%", "$HOST"} {
		out = strings.ReplaceAll(out, p, host)
	}
	return out, out != path
}

// buildSources starts from the fixed tree/oldtree inputs and applies the path and label flags.
func buildSources(treePath, oldTreePath, treeLabel, oldTreeLabel string) []report.Source {
	src := report.DefaultSources()
	src[0].Path, src[0].Label = treePath, treeLabel
	src[1].Path, src[1].Label = oldTreePath, oldTreeLabel
	return src
}

func main() {
	treeFile := flag.String("tree", report.DefaultTreeFile, "Benchmark log of the current tree implementation")
	oldTreeFile := flag.String("oldtree", report.DefaultOldTreeFile, "Benchmark log of the legacy tree implementation")
	treeLabel := flag.String("tree-label", "", "Legend label for --tree (default: label found in the file, else "+report.DefaultTreeLabel+")")
	oldTreeLabel := flag.String("oldtree-label", "", "Legend label for --oldtree (default: label found in the file, else "+report.DefaultOldTreeLabel+")")
	outFile := flag.String("out", report.DefaultOutputFile, "Output PNG path ({host} is replaced with the hostname)")
	format := flag.String("format", string(parser.FormatLog), "Input format (log|gobench|auto)")
	backend := flag.String("backend", render.DefaultBackend, "Chart backend ("+strings.Join(render.Names(), "|")+")")
	title := flag.String("title", render.DefaultOptions().Title, "Chart title")
	width := flag.Int("width", render.DefaultOptions().Width, "Image width in pixels")
	height := flag.Int("height", render.DefaultOptions().Height, "Image height in pixels")
	show := flag.Bool("show", true, "Show the chart in a window after saving (skipped without a display)")
	showFor := flag.Duration("show-for", 0, "Close the window automatically after this long (0 waits for the user)")
	summaryJSON := flag.String("summary-json", "", "Path to write a JSON run summary (optional)")
	skipEmpty := flag.Bool("skip-empty", false, "Leave out files with no measurements instead of failing")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()

	logger.SetLogLevel(*logLevel)

	if hn, herr := os.Hostname(); herr == nil && hn != "" {
		if path, ok := expandHost(*outFile, sanitizeHost(hn)); ok {
			fmt.Printf("[init] expanded output path with hostname (orig=%s): %s\n", hn, path)
			*outFile = path
		}
	}

	f, err := parser.ParseFormat(*format)
	if err != nil {
		fmt.Printf("[init] %v\n", err)
		os.Exit(1)
	}

	opts := render.DefaultOptions()
	opts.Title = *title
	opts.Width = *width
	opts.Height = *height
	cfg := report.Config{
		Sources:   buildSources(*treeFile, *oldTreeFile, *treeLabel, *oldTreeLabel),
		Format:    f,
		SkipEmpty: *skipEmpty,
		Backend:   *backend,
		Render:    opts,
		OutPath:   *outFile,
	}
	fmt.Printf("[init] tree=%s oldtree=%s format=%s backend=%s out=%s go=%s/%s\n", *treeFile, *oldTreeFile, f, *backend, *outFile, runtime.GOOS, runtime.GOARCH)

	res, err := report.Run(cfg)
	if err != nil {
		if errors.Is(err, report.ErrNoData) {
			fmt.Printf("[plot] %v (use --skip-empty to plot the remaining files)\n", err)
		} else {
			fmt.Printf("[plot] %v\n", err)
		}
		os.Exit(1)
	}
	for _, s := range res.Series {
		fmt.Printf("[parse] series=%q points=%d\n", s.Label, len(s.Points))
	}
	for _, n := range res.Notes {
		fmt.Printf("[plot] note: %s\n", n)
	}
	fmt.Printf("[plot] wrote %s\n", res.OutPath)
	if *summaryJSON != "" {
		if err := writeSummaryJSON(*summaryJSON, res, *backend); err != nil {
			fmt.Printf("[plot] %v\n", err)
		} else {
			fmt.Printf("[plot] wrote run summary JSON: %s\n", *summaryJSON)
		}
	}

	if !*show {
		return
	}
	if !display.Supported() {
		fmt.Printf("[plot] no display available; chart saved only\n")
		return
	}
	img, err := png.Decode(bytes.NewReader(res.PNG))
	if err != nil {
		fmt.Printf("[plot] decode for display: %v\n", err)
		os.Exit(1)
	}
	if *showFor > 0 {
		display.ShowFor(opts.Title, img, *showFor)
		return
	}
	display.Show(opts.Title, img)
}
