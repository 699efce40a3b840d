package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sphmer/vsr/internal/config"
	"github.com/Sphmer/vsr/internal/dataset"
)

func newSessionFromFile(t *testing.T, path string, prefs map[string]config.Preference, found bool) *Session {
	t.Helper()
	sets, _, err := loadSets(path)
	require.NoError(t, err)
	return &Session{Path: path, Sets: sets, Prefs: prefs, Found: found}
}

func TestRootStartsInViewerWithSavedPrefs(t *testing.T) {
	path := writeDataFile(t, t.TempDir(), "rows.json", `[{"a":1}]`)
	prefs := map[string]config.Preference{
		dataset.MainSetName: {View: config.ViewTable, Slide: 1},
	}
	r := NewRoot(newSessionFromFile(t, path, prefs, true), nil, true)
	assert.Equal(t, ModeViewer, r.Mode())
	require.NotNil(t, r.Viewer())
	assert.Contains(t, r.Viewer().View(), "rows.json")
}

func TestRootStartsInWizardWithoutSavedPrefs(t *testing.T) {
	path := writeDataFile(t, t.TempDir(), "rows.json", `[{"a":1}]`)
	r := NewRoot(newSessionFromFile(t, path, nil, false), nil, true)
	assert.Equal(t, ModeWizard, r.Mode())
	require.NotNil(t, r.Wizard())
}

func TestRootStartsInPickerWithoutSession(t *testing.T) {
	store := config.NewFileStore(filepath.Join(t.TempDir(), "saved"))
	r := NewRoot(nil, store, true)
	assert.Equal(t, ModePicker, r.Mode())
	require.NotNil(t, r.Picker())
}

func TestRootCtrlCQuitsImmediately(t *testing.T) {
	store := config.NewFileStore(filepath.Join(t.TempDir(), "saved"))
	r := NewRoot(nil, store, true)

	m, cmd := r.Update(tea.KeyPressMsg{Code: 0x03})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "", fmt.Sprint(m.(*Root).View().Content), "final frame is blanked")
}

func TestRootQuitRequestFlowsThroughChildren(t *testing.T) {
	store := config.NewFileStore(filepath.Join(t.TempDir(), "saved"))
	r := NewRoot(nil, store, true)

	_, cmd := r.Update(keyRune('q'))
	require.NotNil(t, cmd)
	m, quitCmd := r.Update(cmd())
	require.NotNil(t, quitCmd)
	assert.Equal(t, tea.QuitMsg{}, quitCmd())
	assert.Equal(t, "", fmt.Sprint(m.(*Root).View().Content))
}

func TestRootWizardDoneSavesPreferences(t *testing.T) {
	dir := t.TempDir()
	path := writeDataFile(t, dir, "rows.json", `{"people":[{"name":"ada"}]}`)
	store := config.NewFileStore(filepath.Join(dir, "saved"))
	r := NewRoot(newSessionFromFile(t, path, nil, false), store, true)
	require.Equal(t, ModeWizard, r.Mode())

	r.Update(wizardDoneMsg{prefs: map[string]config.Preference{
		"people": {View: config.ViewTree, Slide: 2},
	}})
	assert.Equal(t, ModeViewer, r.Mode())
	assert.Nil(t, r.Wizard())
	require.NotNil(t, r.Viewer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	stored, found, err := store.Get(config.Identity(path, data))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, config.Preference{View: config.ViewTree, Slide: 2}, stored["people"])
}

func TestRootWizardDoneReportsSaveFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeDataFile(t, dir, "rows.json", `[{"a":1}]`)
	store := config.NewFileStore(filepath.Join(dir, "saved"))
	r := NewRoot(newSessionFromFile(t, path, nil, false), store, true)
	require.NoError(t, os.Remove(path))

	r.Update(wizardDoneMsg{prefs: map[string]config.Preference{
		dataset.MainSetName: {View: config.ViewTable, Slide: 1},
	}})
	require.NotNil(t, r.Viewer())
	assert.Contains(t, r.Viewer().View(), "Preferences not saved:")
}

func TestRootReconfigureSeedsWizardFromViewer(t *testing.T) {
	path := writeDataFile(t, t.TempDir(), "two.json", twoSetsJSON)
	prefs := map[string]config.Preference{
		"people": {View: config.ViewTable, Slide: 1},
		"scores": {View: config.ViewTree, Slide: 2},
	}
	r := NewRoot(newSessionFromFile(t, path, prefs, true), nil, true)

	_, cmd := r.Update(reconfigureMsg{})
	assert.Nil(t, cmd)
	require.Equal(t, ModeWizard, r.Mode())
	require.NotNil(t, r.Wizard())
	assert.Equal(t, config.ViewTree, r.Wizard().Prefs()["scores"].View)
	assert.Contains(t, r.Wizard().View(), "Currently: table on slide 1")
}

func TestRootWizardDoneKeepsViewerSlide(t *testing.T) {
	path := writeDataFile(t, t.TempDir(), "two.json", twoSetsJSON)
	prefs := map[string]config.Preference{
		"people": {View: config.ViewTable, Slide: 1},
		"scores": {View: config.ViewTable, Slide: 2},
	}
	sess := newSessionFromFile(t, path, prefs, true)
	sess.Slide = 2
	r := NewRoot(sess, nil, true)
	require.Equal(t, 2, r.Viewer().Slide())

	r.Update(reconfigureMsg{})
	r.Update(wizardDoneMsg{prefs: prefs})
	require.Equal(t, ModeViewer, r.Mode())
	assert.Equal(t, 2, r.Viewer().Slide())
}

func TestRootWizardCancelFallsBackToViewer(t *testing.T) {
	path := writeDataFile(t, t.TempDir(), "rows.json", `[{"a":1}]`)
	prefs := map[string]config.Preference{
		dataset.MainSetName: {View: config.ViewTable, Slide: 1},
	}
	r := NewRoot(newSessionFromFile(t, path, prefs, true), nil, true)
	r.Update(reconfigureMsg{})
	require.Equal(t, ModeWizard, r.Mode())

	_, cmd := r.Update(wizardCancelledMsg{})
	assert.Nil(t, cmd)
	assert.Equal(t, ModeViewer, r.Mode())
	assert.Nil(t, r.Wizard())
}

func TestRootWizardCancelWithoutViewerQuits(t *testing.T) {
	path := writeDataFile(t, t.TempDir(), "rows.json", `[{"a":1}]`)
	r := NewRoot(newSessionFromFile(t, path, nil, false), nil, true)

	_, cmd := r.Update(wizardCancelledMsg{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestRootPickerOpensSavedFile(t *testing.T) {
	dir := t.TempDir()
	store := config.NewFileStore(filepath.Join(dir, "saved"))
	path := writeDataFile(t, dir, "rows.json", `[{"a":1}]`)
	saveEntry(t, store, path, time.Now())
	r := NewRoot(nil, store, true)

	_, cmd := r.Update(pickerChosenMsg{path: path})
	require.NotNil(t, cmd)
	assert.True(t, r.Picker().opening)

	msg := openFile(path, store)()
	opened, ok := msg.(fileOpenedMsg)
	require.True(t, ok)
	require.NoError(t, opened.err)
	require.True(t, opened.found)

	r.Update(opened)
	assert.Equal(t, ModeViewer, r.Mode())
	assert.False(t, r.Picker().opening)
	require.NotNil(t, r.Viewer())
	assert.Contains(t, r.Viewer().View(), "rows.json")
}

func TestRootPickerOpenWithoutPrefsStartsWizard(t *testing.T) {
	dir := t.TempDir()
	store := config.NewFileStore(filepath.Join(dir, "saved"))
	path := writeDataFile(t, dir, "rows.json", `[{"a":1}]`)
	r := NewRoot(nil, store, true)

	msg := openFile(path, store)()
	opened, ok := msg.(fileOpenedMsg)
	require.True(t, ok)
	require.NoError(t, opened.err)
	assert.False(t, opened.found)

	r.Update(opened)
	assert.Equal(t, ModeWizard, r.Mode())
	require.NotNil(t, r.Wizard())
}

func TestRootFileOpenErrorStaysInPicker(t *testing.T) {
	dir := t.TempDir()
	store := config.NewFileStore(filepath.Join(dir, "saved"))
	r := NewRoot(nil, store, true)

	msg := openFile(filepath.Join(dir, "missing.json"), store)()
	opened, ok := msg.(fileOpenedMsg)
	require.True(t, ok)
	require.Error(t, opened.err)

	r.Update(opened)
	assert.Equal(t, ModePicker, r.Mode())
	assert.Contains(t, r.Picker().status, "missing.json")
}

func TestRootResizeReachesAllChildren(t *testing.T) {
	path := writeDataFile(t, t.TempDir(), "rows.json", `[{"a":1}]`)
	prefs := map[string]config.Preference{
		dataset.MainSetName: {View: config.ViewTable, Slide: 1},
	}
	r := NewRoot(newSessionFromFile(t, path, prefs, true), nil, true)
	r.Update(reconfigureMsg{})
	require.NotNil(t, r.Wizard())

	r.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, r.viewer.width)
	assert.Equal(t, 120, r.wizard.width)
}
