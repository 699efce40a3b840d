package ui

import (
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-runewidth"

	"github.com/Sphmer/vsr/internal/config"
)

// pickerNameWidth is the column the file name is padded to in the list.
const pickerNameWidth = 24

// Picker lists the saved configurations whose source files still exist
// and opens the selected one. It is the entry surface when vsr starts
// without a file argument.
type Picker struct {
	store   config.Store
	entries []config.Saved
	cursor  int

	opening  bool
	openPath string
	spin     spinner.Model

	status string
	width  int
	height int

	keys   pickerKeyMap
	help   help.Model
	styles styles
}

// NewPicker builds the picker and loads the saved-file list once.
func NewPicker(store config.Store, noColor bool) *Picker {
	s := spinner.New()
	s.Spinner = spinner.Dot
	p := &Picker{
		store:  store,
		spin:   s,
		width:  80,
		height: 24,
		keys:   pickerKeys,
		help:   newHelpModel(noColor),
		styles: newStyles(noColor),
	}
	p.refresh()
	return p
}

// Entries exposes the listed entries, mainly for tests.
func (p *Picker) Entries() []config.Saved { return p.entries }

func (p *Picker) Init() tea.Cmd { return nil }

func (p *Picker) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.help.SetWidth(width)
}

// refresh reloads the store listing, dropping entries whose source file
// is gone. Those stay on disk until a clean pass removes them.
func (p *Picker) refresh() {
	saved, err := p.store.List()
	if err != nil {
		p.status = err.Error()
		return
	}
	p.entries = p.entries[:0]
	for _, entry := range saved {
		if _, err := os.Stat(entry.FilePath); err == nil {
			p.entries = append(p.entries, entry)
		}
	}
	if p.cursor >= len(p.entries) {
		p.cursor = 0
	}
}

func (p *Picker) Update(msg tea.Msg) (ChildModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !p.opening {
			return p, nil
		}
		var cmd tea.Cmd
		p.spin, cmd = p.spin.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		if p.opening {
			return p, nil
		}
		switch {
		case key.Matches(msg, p.keys.Quit):
			return p, requestQuit
		case key.Matches(msg, p.keys.Up):
			if n := len(p.entries); n > 0 {
				p.cursor = (p.cursor - 1 + n) % n
			}
		case key.Matches(msg, p.keys.Down):
			if n := len(p.entries); n > 0 {
				p.cursor = (p.cursor + 1) % n
			}
		case key.Matches(msg, p.keys.Open):
			if len(p.entries) == 0 {
				return p, nil
			}
			path := p.entries[p.cursor].FilePath
			return p, func() tea.Msg { return pickerChosenMsg{path: path} }
		case key.Matches(msg, p.keys.Clean):
			removed, err := cleanupStore(p.store)
			if err != nil {
				p.status = err.Error()
				return p, nil
			}
			p.refresh()
			unit := "entries"
			if removed == 1 {
				unit = "entry"
			}
			p.status = fmt.Sprintf("Removed %d stale %s.", removed, unit)
		case key.Matches(msg, p.keys.Refresh):
			p.refresh()
			p.status = "Refreshed."
		}
	}
	return p, nil
}

// cleanupStore prunes stale entries when the store implementation
// supports it.
func cleanupStore(store config.Store) (int, error) {
	type cleaner interface {
		Cleanup() (int, error)
	}
	if c, ok := store.(cleaner); ok {
		return c.Cleanup()
	}
	return 0, nil
}

func (p *Picker) View() string {
	var b strings.Builder
	rule := strings.Repeat("=", p.width)
	b.WriteString(rule + "\n")
	b.WriteString(centerLine(p.styles.title.Render("vsr | Saved files"), p.width) + "\n")
	b.WriteString(rule + "\n")

	switch {
	case p.opening:
		b.WriteString(p.spin.View() + " Opening " + p.openPath + "...\n")
	case p.status != "":
		b.WriteString(p.styles.hint.Render(p.status) + "\n")
	default:
		b.WriteString("\n")
	}

	maxRows := p.height - viewerChrome
	if maxRows < 1 {
		maxRows = 1
	}

	var body []string
	if len(p.entries) == 0 {
		body = pickerUsageLines()
	} else {
		body = p.listLines(maxRows)
	}
	for i := 0; i < maxRows; i++ {
		if i < len(body) {
			b.WriteString(body[i])
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("-", p.width) + "\n")
	if len(p.entries) == 0 {
		b.WriteString(centerLine("No previous files found", p.width) + "\n")
	} else {
		b.WriteString(centerLine(fmt.Sprintf("%d saved file(s)", len(p.entries)), p.width) + "\n")
	}
	b.WriteString(centerLine(p.help.View(p.keys), p.width))
	return b.String()
}

// listLines renders the visible window of the saved-file list, keeping
// the cursor row inside it.
func (p *Picker) listLines(maxRows int) []string {
	start := 0
	if p.cursor >= maxRows {
		start = p.cursor - maxRows + 1
	}
	lines := make([]string, 0, maxRows)
	for i := start; i < len(p.entries) && i-start < maxRows; i++ {
		entry := p.entries[i]
		name := runewidth.FillRight(runewidth.Truncate(entry.FileName, pickerNameWidth, "..."), pickerNameWidth)
		row := fmt.Sprintf("  %s %s  %s", name, entry.CreatedAt.Format("2006-01-02 15:04"), entry.FilePath)
		if i == p.cursor {
			row = p.styles.selected.Render(">" + row[1:])
		}
		lines = append(lines, row)
	}
	return lines
}

func pickerUsageLines() []string {
	return []string{
		"No previously viewed files were found.",
		"",
		"Usage:",
		"  vsr <file>        open a data file",
		"  vsr configs       list saved configurations",
		"",
		"Supported formats: JSON, YAML, TOML, NDJSON, CSV, XLSX.",
	}
}
