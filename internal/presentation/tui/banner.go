package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"       _                          _          ", "#818cf8"},
		{"   ___| |__   ___  _ __ ___  ___| | ___   _ ", "#a78bfa"},
		{"  / __| '_ \\ / _ \\| '_ ` _ \\/ __| |/ / | | |", "#c084fc"},
		{" | (__| | | | (_) | | | | | \\__ \\   <| |_| |", "#e879f9"},
		{"  \\___|_| |_|\\___/|_| |_| |_|___/_|\\_\\\\__, |", "#f472b6"},
		{"                                       |___/ ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Status formats a one-line verdict, green when ok and red otherwise.
func Status(w io.Writer, ok bool, msg string) string {
	out := termenv.NewOutput(w)
	mark, color := "✓", "#22c55e"
	if !ok {
		mark, color = "✗", "#ef4444"
	}
	return out.String(mark + " " + msg).Foreground(out.Color(color)).String()
}
