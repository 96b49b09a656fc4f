package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/muesli/termenv"
)

var statusColors = map[domain.Status]string{
	domain.StatusComplete:   "#22c55e",
	domain.StatusOpen:       "#f59e0b",
	domain.StatusSwitchOpen: "#f97316",
	domain.StatusNoSource:   "#ef4444",
}

// StatusLine returns a one-line summary of a result, colored for w's profile.
func StatusLine(w io.Writer, res *domain.Result) string {
	if res == nil {
		return ""
	}
	out := termenv.NewOutput(w)
	name := out.String(fmt.Sprintf("%-11s", res.Status)).Foreground(out.Color(statusColors[res.Status])).Bold()

	line := fmt.Sprintf("%s paths=%d V=%.2f I=%.3f", name, len(res.Paths), res.Voltage, res.Current)
	if res.Truncated {
		line += " " + out.String("(truncated)").Faint().String()
	}
	return line
}

// PrintResult writes the status line, each closed path and the non-trivial readings.
func PrintResult(w io.Writer, res *domain.Result) {
	if res == nil {
		return
	}
	fmt.Fprintln(w, StatusLine(w, res))
	for i, p := range res.Paths {
		fmt.Fprintf(w, "  path %d: %s\n", i+1, strings.Join(p.IDs(), " -> "))
	}

	ids := make([]string, 0, len(res.Readings))
	for id := range res.Readings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		r := res.Readings[id]
		var notes []string
		if r.On {
			notes = append(notes, "on")
		}
		if r.BurntOut {
			notes = append(notes, "burnt out")
		}
		if r.Current > 0 {
			notes = append(notes, fmt.Sprintf("I=%.3fA", r.Current))
		}
		if r.Voltage > 0 {
			notes = append(notes, fmt.Sprintf("V=%.2fV", r.Voltage))
		}
		if len(notes) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-12s %-10s %s\n", id, r.Kind, strings.Join(notes, ", "))
	}
}
