package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

// statusLabelWidth pads "FFmpeg:" style labels so the [OK] markers line up.
const statusLabelWidth = 20

var statusStyles = [...]struct {
	label string
	color *color.Color
}{
	statusInfo:  {"INFO", color.New(color.FgBlue)},
	statusOK:    {"OK", color.New(color.FgGreen)},
	statusWarn:  {"WARN", color.New(color.FgYellow)},
	statusError: {"ERROR", color.New(color.FgRed)},
}

// renderStatusLine formats one `vt check` line:
//
//	  FFmpeg:              [OK] Ready (/usr/bin/ffmpeg) version 7.1
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	line := fmt.Sprintf("  %-*s [%s]", statusLabelWidth, label+":", style.label)
	if message != "" {
		line += " " + message
	}
	return paint(style.color, line, colorize)
}

func renderSectionHeader(title string, colorize bool) []string {
	title = "== " + strings.TrimSpace(title) + " =="
	c := statusStyles[statusInfo].color
	return []string{paint(c, title, colorize), paint(c, strings.Repeat("-", len(title)), colorize)}
}

// paint applies c to s when colorize is set, regardless of color.NoColor,
// which only reflects os.Stdout.
func paint(c *color.Color, s string, colorize bool) string {
	if !colorize || c == nil {
		return s
	}
	painted := *c
	painted.EnableColor()
	return painted.Sprint(s)
}

// checkMark renders the per-item result marker used by batch output.
func checkMark(ok, colorize bool) string {
	if ok {
		return paint(statusStyles[statusOK].color, "✓", colorize)
	}
	return paint(statusStyles[statusError].color, "✗", colorize)
}

// shouldColorize honours NO_COLOR and otherwise colours terminals only.
func shouldColorize(w io.Writer) bool {
	if _, disabled := os.LookupEnv("NO_COLOR"); disabled {
		return false
	}
	return isTerminal(w)
}
