package ui

import (
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

// Run starts the Bubble Tea program around the root model. A positive
// width or height pins the layout to that size; missing dimensions are
// filled from the terminal, then from the 80x24 fallback.
func Run(r *Root, width, height int, opts ...tea.ProgramOption) error {
	if width > 0 || height > 0 {
		runW := width
		runH := height
		if runW <= 0 || runH <= 0 {
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				if runW <= 0 {
					runW = w
				}
				if runH <= 0 {
					runH = h
				}
			}
		}
		if runW <= 0 {
			runW = 80
		}
		if runH <= 0 {
			runH = 24
		}
		opts = append(opts, tea.WithWindowSize(runW, runH))
	}

	prog := tea.NewProgram(r, opts...)
	_, err := prog.Run()
	return err
}
