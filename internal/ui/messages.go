package ui

import (
	"fmt"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"

	"github.com/Sphmer/vsr/internal/config"
	"github.com/Sphmer/vsr/internal/dataset"
	"github.com/Sphmer/vsr/pkg/loader"
)

// requestQuitMsg asks the root to tear the program down. Children return
// it instead of tea.Quit so the root can blank the final frame first.
type requestQuitMsg struct{}

func requestQuit() tea.Msg { return requestQuitMsg{} }

// reconfigureMsg is sent by the viewer when the user asks to redo the
// per-set preferences for the currently open file.
type reconfigureMsg struct{}

// wizardDoneMsg carries the preference map assembled by the wizard. The
// root persists it and switches to the viewer.
type wizardDoneMsg struct {
	prefs map[string]config.Preference
}

// wizardCancelledMsg is sent when the wizard is quit before any data set
// was configured.
type wizardCancelledMsg struct{}

// pickerChosenMsg names the saved file the user selected in the picker.
type pickerChosenMsg struct {
	path string
}

// fileOpenedMsg is the result of loading and classifying a file picked at
// runtime, including any preferences found for it in the store.
type fileOpenedMsg struct {
	path  string
	sets  map[string]*dataset.DataSet
	prefs map[string]config.Preference
	found bool
	err   error
}

// reloadedMsg is the result of re-reading the viewer's file from disk.
type reloadedMsg struct {
	sets map[string]*dataset.DataSet
	err  error
}

// openFile reads, parses, and classifies path off the Update loop and
// looks the file up in the preference store.
func openFile(path string, store config.Store) tea.Cmd {
	return func() tea.Msg {
		sets, data, err := loadSets(path)
		if err != nil {
			return fileOpenedMsg{path: path, err: err}
		}
		msg := fileOpenedMsg{path: path, sets: sets}
		if store != nil {
			prefs, found, err := store.Get(config.Identity(path, data))
			if err == nil && found {
				msg.prefs = prefs
				msg.found = true
			}
		}
		return msg
	}
}

// reloadFile re-reads the viewer's file. Preferences are kept in memory;
// only the data sets are rebuilt.
func reloadFile(path string) tea.Cmd {
	return func() tea.Msg {
		sets, _, err := loadSets(path)
		if err != nil {
			return reloadedMsg{err: err}
		}
		return reloadedMsg{sets: sets}
	}
}

func loadSets(path string) (map[string]*dataset.DataSet, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := loader.LoadBytes(data, filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}
	sets, err := dataset.Classify(doc)
	if err != nil {
		return nil, nil, err
	}
	return sets, data, nil
}
