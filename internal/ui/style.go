package ui

import (
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/lipgloss/v2"
)

// styles bundles the few lipgloss styles the children share. With noColor
// set every style is the zero style, so Render passes text through
// unchanged and frames stay byte-comparable in tests and snapshots.
type styles struct {
	title    lipgloss.Style
	hint     lipgloss.Style
	selected lipgloss.Style
	errText  lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		return styles{}
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		hint:     lipgloss.NewStyle().Faint(true),
		selected: lipgloss.NewStyle().Reverse(true),
		errText:  lipgloss.NewStyle().Bold(true),
	}
}

// newHelpModel returns the help bar component, stripped of its default
// color scheme when noColor is set.
func newHelpModel(noColor bool) help.Model {
	h := help.New()
	if noColor {
		h.Styles = help.Styles{}
	}
	return h
}

// centerLine pads s on the left so it sits centered in width columns.
// Trailing padding is never added. Measured with lipgloss so embedded
// escape sequences do not count as width.
func centerLine(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", (width-w)/2) + s
}
