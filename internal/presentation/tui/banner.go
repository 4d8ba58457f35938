package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/muesli/termenv"
)

// PrintBanner outputs the cmdgraph banner.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Using a subtle gradient-like color scheme (Teal/Green)
	lines := []struct{ text, color string }{
		{"                    _                       _     ", "#2dd4bf"},
		{"  ___ _ __ ___   __| | __ _ _ __ __ _ _ __ | |__  ", "#34d399"},
		{" / __| '_ ` _ \\ / _` |/ _` | '__/ _` | '_ \\| '_ \\ ", "#4ade80"},
		{"| (__| | | | | | (_| | (_| | | | (_| | |_) | | | |", "#a3e635"},
		{" \\___|_| |_| |_|\\__,_|\\__, |_|  \\__,_| .__/|_| |_|", "#facc15"},
		{"                      |___/          |_|          ", "#fbbf24"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// PhaseLabel colors a lifecycle phase for terminal output.
func PhaseLabel(phase domain.Phase) string {
	p := termenv.ColorProfile()
	color := "#facc15"
	switch phase {
	case domain.PhaseCanRegister:
		color = "#38bdf8"
	case domain.PhaseLoaded:
		color = "#4ade80"
	}
	return termenv.String(phase.String()).Foreground(p.Color(color)).Bold().String()
}
