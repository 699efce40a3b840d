// Package tui is the embeddable surface of the vsr viewer. Hosts hand it
// a loaded session and it either runs the interactive program or renders
// a one-shot snapshot frame.
package tui

import (
	"io"
	"os"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/Sphmer/vsr/internal/config"
	"github.com/Sphmer/vsr/internal/ui"
)

// defaultFallbackTermWidth is used when terminal size cannot be detected.
const defaultFallbackTermWidth = 120

// Config holds host-provided settings for running the viewer.
type Config struct {
	Width   int  // Terminal width; 0 lets the program detect it
	Height  int  // Terminal height; 0 lets the program detect it
	NoColor bool // Disable all text styling
}

// DetectTerminalSize returns the best-effort terminal width and height by
// probing stdout, stderr, and stdin, then falling back to the COLUMNS
// environment variable. If detection fails completely, returns generous
// defaults (120, 24) to avoid overly narrow output in CI or non-TTY
// environments.
func DetectTerminalSize() (width int, height int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 0
		}
	}
	return defaultFallbackTermWidth, 24
}

// Run starts the interactive viewer for sess. A nil session opens the
// saved-file picker instead. Preferences collected while running are
// written to store; a nil store disables persistence. Host applications
// can pass optional tea.ProgramOption values to control IO.
func Run(sess *ui.Session, store config.Store, cfg Config, opts ...tea.ProgramOption) error {
	root := ui.NewRoot(sess, store, cfg.NoColor)
	return ui.Run(root, cfg.Width, cfg.Height, opts...)
}

// RenderSnapshot renders one viewer frame for the session and returns it
// as a plain string. This is what piped output and the --snapshot flag
// print; nothing interactive runs and no preferences are written.
func RenderSnapshot(sess *ui.Session, cfg Config) string {
	return ui.RenderSnapshot(sess, cfg.Width, cfg.Height, cfg.NoColor)
}

// WithIO returns tea.ProgramOptions to set custom input/output.
func WithIO(in io.Reader, out io.Writer) []tea.ProgramOption {
	opts := []tea.ProgramOption{}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return opts
}
