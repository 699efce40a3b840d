package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Sphmer/vsr/internal/config"
	"github.com/Sphmer/vsr/internal/dataset"
)

// Mode names which child model owns the screen.
type Mode int

const (
	// ModeViewer shows the slides of the open file.
	ModeViewer Mode = iota
	// ModeWizard collects per-set preferences.
	ModeWizard
	// ModePicker lists previously viewed files.
	ModePicker
)

// Session is the state the command line hands over after loading a file:
// the classified sets plus whatever the preference store knew about them.
// A nil session starts the picker instead. Slide is the initial slide
// selection; zero falls back to the first slide.
type Session struct {
	Path      string
	Sets      map[string]*dataset.DataSet
	Prefs     map[string]config.Preference
	Found     bool
	Slide     int
	Transform Transform
}

// Root owns the terminal and the mode switching between viewer, wizard,
// and picker. Children never quit the program themselves; they send
// messages and the root decides.
type Root struct {
	mode Mode

	viewer *Viewer
	wizard *Wizard
	picker *Picker

	store     config.Store
	path      string
	fileName  string
	sets      map[string]*dataset.DataSet
	transform Transform
	noColor   bool

	width    int
	height   int
	quitting bool
}

// NewRoot builds the root model. With a session the first screen is the
// viewer when saved preferences were found, otherwise the wizard; without
// one it is the saved-file picker.
func NewRoot(sess *Session, store config.Store, noColor bool) *Root {
	r := &Root{
		store:   store,
		noColor: noColor,
		width:   80,
		height:  24,
	}
	if sess == nil {
		r.picker = NewPicker(store, noColor)
		r.mode = ModePicker
		return r
	}

	r.path = sess.Path
	r.fileName = filepath.Base(sess.Path)
	r.sets = sess.Sets
	r.transform = sess.Transform
	if sess.Found {
		r.viewer = NewViewer(r.path, r.fileName, r.sets, sess.Prefs, sess.Slide, noColor)
		r.viewer.SetTransform(r.transform)
		r.mode = ModeViewer
		return r
	}
	r.wizard = NewWizard(r.fileName, r.sets, sess.Prefs, noColor)
	r.mode = ModeWizard
	return r
}

// Mode reports which child currently owns the screen.
func (r *Root) Mode() Mode { return r.mode }

// Viewer returns the viewer child, nil until a file is opened.
func (r *Root) Viewer() *Viewer { return r.viewer }

// Wizard returns the wizard child, nil unless configuration is running.
func (r *Root) Wizard() *Wizard { return r.wizard }

// Picker returns the picker child, nil unless vsr started without a file.
func (r *Root) Picker() *Picker { return r.picker }

func (r *Root) Init() tea.Cmd {
	if c := r.active(); c != nil {
		return c.Init()
	}
	return nil
}

func (r *Root) active() ChildModel {
	switch r.mode {
	case ModeViewer:
		if r.viewer != nil {
			return r.viewer
		}
	case ModeWizard:
		if r.wizard != nil {
			return r.wizard
		}
	case ModePicker:
		if r.picker != nil {
			return r.picker
		}
	}
	return nil
}

func (r *Root) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		// Resize every child, not just the active one, so a later mode
		// switch starts laid out.
		if r.viewer != nil {
			r.viewer.SetSize(r.width, r.height)
		}
		if r.wizard != nil {
			r.wizard.SetSize(r.width, r.height)
		}
		if r.picker != nil {
			r.picker.SetSize(r.width, r.height)
		}
		return r, nil

	case requestQuitMsg:
		r.quitting = true
		return r, tea.Quit

	case reconfigureMsg:
		prefs := map[string]config.Preference{}
		if r.viewer != nil {
			prefs = r.viewer.Prefs()
		}
		r.wizard = NewWizard(r.fileName, r.sets, prefs, r.noColor)
		r.wizard.SetSize(r.width, r.height)
		r.mode = ModeWizard
		return r, r.wizard.Init()

	case wizardDoneMsg:
		saveErr := r.savePrefs(msg.prefs)
		slide := 1
		if r.viewer != nil {
			slide = r.viewer.Slide()
		}
		r.viewer = NewViewer(r.path, r.fileName, r.sets, msg.prefs, slide, r.noColor)
		r.viewer.SetTransform(r.transform)
		r.viewer.SetSize(r.width, r.height)
		if saveErr != nil {
			r.viewer.SetStatus(fmt.Sprintf("Preferences not saved: %v", saveErr))
		}
		r.wizard = nil
		r.mode = ModeViewer
		return r, nil

	case wizardCancelledMsg:
		r.wizard = nil
		switch {
		case r.viewer != nil:
			r.mode = ModeViewer
		case r.picker != nil:
			r.picker.opening = false
			r.mode = ModePicker
		default:
			r.quitting = true
			return r, tea.Quit
		}
		return r, nil

	case pickerChosenMsg:
		if r.picker == nil {
			return r, nil
		}
		r.picker.opening = true
		r.picker.openPath = msg.path
		r.picker.status = ""
		return r, tea.Batch(openFile(msg.path, r.store), r.picker.spin.Tick)

	case fileOpenedMsg:
		if r.picker != nil {
			r.picker.opening = false
		}
		if msg.err != nil {
			if r.picker != nil {
				r.picker.status = msg.err.Error()
			}
			return r, nil
		}
		r.path = msg.path
		r.fileName = filepath.Base(msg.path)
		r.sets = msg.sets
		if msg.found {
			r.viewer = NewViewer(r.path, r.fileName, r.sets, msg.prefs, 1, r.noColor)
			r.viewer.SetTransform(r.transform)
			r.viewer.SetSize(r.width, r.height)
			r.mode = ModeViewer
			return r, nil
		}
		r.wizard = NewWizard(r.fileName, r.sets, nil, r.noColor)
		r.wizard.SetSize(r.width, r.height)
		r.mode = ModeWizard
		return r, r.wizard.Init()

	case tea.KeyMsg:
		keyStr := msg.String()
		// Check for ctrl+c in both the string form and the raw control
		// character (0x03).
		if keyStr == "ctrl+c" || msg.Key().Code == 0x03 {
			r.quitting = true
			return r, tea.Quit
		}
	}

	return r.routeToActive(msg)
}

func (r *Root) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	c := r.active()
	if c == nil {
		return r, nil
	}
	next, cmd := c.Update(msg)
	switch child := next.(type) {
	case *Viewer:
		r.viewer = child
	case *Wizard:
		r.wizard = child
	case *Picker:
		r.picker = child
	}
	return r, cmd
}

// savePrefs persists the wizard's preference map under the identity of
// the file's current content.
func (r *Root) savePrefs(prefs map[string]config.Preference) error {
	if r.store == nil {
		return nil
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", r.path, err)
	}
	abs, err := filepath.Abs(r.path)
	if err != nil {
		abs = r.path
	}
	entry := config.Entry{
		FilePath:  abs,
		FileName:  r.fileName,
		CreatedAt: time.Now(),
		Prefs:     prefs,
	}
	return r.store.Set(config.Identity(r.path, data), entry)
}

func (r *Root) View() tea.View {
	if r.quitting {
		return tea.NewView("")
	}
	frame := ""
	if c := r.active(); c != nil {
		frame = c.View()
	}
	v := tea.NewView(frame)
	v.AltScreen = true
	return v
}
