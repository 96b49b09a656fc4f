package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour.
// When glamour cannot be initialized the markdown is returned unchanged.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(wrapWidth()),
	)
	if err != nil {
		return PlainRenderer
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// PlainRenderer is the identity renderer used when output is not a terminal.
func PlainRenderer(markdown string) (string, error) {
	return markdown, nil
}

// RendererFor picks the glamour renderer for terminals and the plain one otherwise.
func RendererFor(w io.Writer) func(string) (string, error) {
	if IsTerminal(w) {
		return NewRenderer()
	}
	return PlainRenderer
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func wrapWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || width > 100 {
		return 80
	}
	return width - 4
}
