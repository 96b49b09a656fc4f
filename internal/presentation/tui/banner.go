package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the circuitlab banner, colored when w supports it.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{`      _                _ _   _       _     `, "#22d3ee"},
		{`  ___(_)_ __ ___ _   _(_) |_| | __ _| |__  `, "#38bdf8"},
		{` / __| | '__/ __| | | | | __| |/ _' | '_ \ `, "#60a5fa"},
		{`| (__| | | | (__| |_| | | |_| | (_| | |_) |`, "#818cf8"},
		{` \___|_|_|  \___|\__,_|_|\__|_|\__,_|_.__/ `, "#a78bfa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, out.String("  "+version).Faint())
	}
	fmt.Fprintln(w)
}
