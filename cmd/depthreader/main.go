// depthreader prints what the parser made of one or more benchmark files: the series label,
// how many measurements were kept, why lines were dropped, and the depth-sorted table.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iafilius/depthbench/src/logger"
	"github.com/iafilius/depthbench/src/parser"
	"github.com/iafilius/depthbench/src/report"
	"github.com/iafilius/depthbench/src/types"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Width(14).Align(lipgloss.Right).PaddingRight(1)
)

func main() {
	var files string
	var format string
	var logLevel string
	flag.StringVar(&files, "file", report.DefaultTreeFile+","+report.DefaultOldTreeFile, "Comma separated benchmark files")
	flag.StringVar(&format, "format", string(parser.FormatAuto), "Input format (log|gobench|auto)")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	flag.Parse()
	logger.SetLogLevel(logLevel)

	f, err := parser.ParseFormat(format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	for _, path := range splitFiles(files) {
		ds, err := parser.ParseFileFormat(path, f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		printDataset(os.Stdout, path, ds)
	}
}

func splitFiles(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printDataset(w io.Writer, path string, ds *types.Dataset) {
	label := ds.Label
	if label == "" {
		label = "(none)"
	}
	fmt.Fprintln(w, titleStyle.Render(path))
	field := func(k, v string) {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(k+":"), valueStyle.Render(v))
	}
	field("label", label)
	field("lines", strconv.Itoa(ds.Stats.Lines))
	field("measurements", strconv.Itoa(ds.Len()))
	for _, r := range ds.Stats.SkipReasons() {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("dropped "+string(r)+":"), warnStyle.Render(strconv.Itoa(ds.Stats.Skipped[r])))
	}
	if ds.Len() == 0 {
		fmt.Fprintln(w, warnStyle.Render("  no data"))
		fmt.Fprintln(w)
		return
	}
	s, err := report.Prepare(ds, label)
	if err != nil {
		fmt.Fprintln(w, warnStyle.Render("  "+err.Error()))
		return
	}
	fmt.Fprintln(w, "  "+headerStyle.Render(cellStyle.Render("depth")+cellStyle.Render("avg time (ns)")))
	for _, m := range s.Points {
		fmt.Fprintln(w, "  "+cellStyle.Render(formatNum(m.Depth))+cellStyle.Render(formatNum(m.AvgTimeNs)))
	}
	fmt.Fprintln(w)
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
