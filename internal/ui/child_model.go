// Package ui holds the Bubble Tea models for the interactive terminal
// surface: the viewer that renders slides of processed data sets, the
// configuration wizard, and the saved-file picker. A thin root model owns
// the terminal and routes messages to whichever child is active.
package ui

import (
	tea "charm.land/bubbletea/v2"
)

// ChildModel is the contract between the root model and its children. It
// mirrors tea.Model except that Update returns a ChildModel and View
// returns the plain frame string; the root wraps the active child's frame
// into the final tea.View.
type ChildModel interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (ChildModel, tea.Cmd)
	View() string
}

// ModelWithSize is implemented by children that lay out against the
// terminal dimensions. The root forwards every tea.WindowSizeMsg to all
// children through this interface, not just to the active one, so a child
// revealed later is already sized.
type ModelWithSize interface {
	SetSize(width, height int)
}
