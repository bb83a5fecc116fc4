package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Colour modes accepted by NewStyles.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Palette
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	labelFg   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	borderCol = lipgloss.Color("#243141")
)

// Styles are bound to one output so colour detection follows that stream.
type Styles struct {
	Target   lipgloss.Style
	Neighbor lipgloss.Style
	Label    lipgloss.Style
	Title    lipgloss.Style
	Dim      lipgloss.Style
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Border   lipgloss.Style
}

// NewStyles builds styles for w. In auto mode colour is used only when w is
// a terminal (and NO_COLOR is unset).
func NewStyles(w io.Writer, mode string) Styles {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	case ColorAlways:
		if r.ColorProfile() == termenv.Ascii {
			r.SetColorProfile(termenv.ANSI256)
		}
	default:
		if !IsTerminal(w) {
			r.SetColorProfile(termenv.Ascii)
		}
	}
	return Styles{
		Target:   r.NewStyle().Foreground(accentFg).Bold(true),
		Neighbor: r.NewStyle().Foreground(baseDimFg),
		Label:    r.NewStyle().Foreground(labelFg).Bold(true),
		Title:    r.NewStyle().Foreground(accentFg).Bold(true),
		Dim:      r.NewStyle().Foreground(baseDimFg),
		Header:   r.NewStyle().Foreground(accentFg).Bold(true).Padding(0, 1),
		Cell:     r.NewStyle().Foreground(baseFg).Padding(0, 1),
		Border:   r.NewStyle().Foreground(borderCol),
	}
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
