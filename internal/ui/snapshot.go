package ui

import (
	"path/filepath"
	"strings"
)

// RenderSnapshot renders one viewer frame for the session and returns it
// as a plain string, padded to the requested height. Used for piped
// output and the --snapshot flag; nothing interactive runs.
func RenderSnapshot(sess *Session, width, height int, noColor bool) string {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	v := NewViewer(sess.Path, filepath.Base(sess.Path), sess.Sets, sess.Prefs, sess.Slide, noColor)
	v.SetTransform(sess.Transform)
	v.SetSize(width, height)
	return padSnapshotHeight(v.View(), height, width)
}

func padSnapshotHeight(view string, height, width int) string {
	if height <= 0 {
		return view
	}
	lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
	if len(lines) >= height {
		return strings.Join(lines, "\n")
	}
	padLine := " "
	if width > 1 {
		padLine = strings.Repeat(" ", width)
	}
	for len(lines) < height {
		lines = append(lines, padLine)
	}
	return strings.Join(lines, "\n")
}
