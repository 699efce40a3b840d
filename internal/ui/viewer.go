package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/Sphmer/vsr/internal/config"
	"github.com/Sphmer/vsr/internal/dataset"
	"github.com/Sphmer/vsr/internal/processor"
	"github.com/Sphmer/vsr/internal/render"
	"github.com/Sphmer/vsr/internal/slides"
)

// viewerChrome is the number of frame lines around the body: three header
// lines, the status line, and the three footer lines, plus margin so the
// frame never touches the terminal's last row.
const viewerChrome = 9

// viewerRowBudget is passed to the renderers as the per-set row cap. The
// viewer windows at line granularity afterwards, so the cap only needs to
// be out of reach for real inputs.
const viewerRowBudget = 100000

// Transform is an optional derivation applied to every processed set
// before rendering. The command line builds one from --sort, --filter,
// and the record-window flags.
type Transform func(*processor.ProcessedDataSet) *processor.ProcessedDataSet

// Viewer renders the slides of one loaded file and owns the view cursor:
// scroll offset and current slide. Preferences are fixed for its lifetime;
// reconfiguration replaces the viewer via the root.
type Viewer struct {
	path      string
	fileName  string
	sets      map[string]*dataset.DataSet
	prefs     map[string]config.Preference
	transform Transform

	slideMap    map[int][]string
	totalSlides int
	slide       int
	scroll      int

	width  int
	height int

	status    string
	reloading bool
	showHelp  bool

	keys   viewerKeyMap
	help   help.Model
	styles styles
}

// NewViewer builds a viewer for the given file. fileName is the display
// name used in the title; path is re-read on reload. A slide selection
// outside the organized range falls back to the first slide.
func NewViewer(path, fileName string, sets map[string]*dataset.DataSet, prefs map[string]config.Preference, slide int, noColor bool) *Viewer {
	v := &Viewer{
		path:     path,
		fileName: fileName,
		sets:     sets,
		prefs:    prefs,
		slide:    slide,
		width:    80,
		height:   24,
		keys:     viewerKeys,
		help:     newHelpModel(noColor),
		styles:   newStyles(noColor),
	}
	v.organize()
	return v
}

// SetTransform installs a derivation applied after preference processing.
func (v *Viewer) SetTransform(t Transform) { v.transform = t }

// SetStatus replaces the transient status line under the header.
func (v *Viewer) SetStatus(s string) { v.status = s }

// Slide returns the one-based slide currently shown.
func (v *Viewer) Slide() int { return v.slide }

// TotalSlides returns the organized slide count, never below one.
func (v *Viewer) TotalSlides() int { return v.totalSlides }

// Scroll returns the current line offset into the slide body.
func (v *Viewer) Scroll() int { return v.scroll }

// Prefs returns the preference map the viewer renders with.
func (v *Viewer) Prefs() map[string]config.Preference { return v.prefs }

func (v *Viewer) Init() tea.Cmd { return nil }

// SetSize records the terminal dimensions and re-clamps the scroll
// position against the new line window.
func (v *Viewer) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.help.SetWidth(width)
	v.clampScroll()
}

func (v *Viewer) organize() {
	v.slideMap, v.totalSlides = slides.Organize(v.prefs)
	v.slide = slides.Clamp(v.slide, v.totalSlides)
}

func (v *Viewer) Update(msg tea.Msg) (ChildModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reloadedMsg:
		v.reloading = false
		if msg.err != nil {
			v.status = fmt.Sprintf("Reload failed: %v", msg.err)
			return v, nil
		}
		v.sets = msg.sets
		v.status = ""
		v.organize()
		v.clampScroll()
		return v, nil

	case tea.KeyMsg:
		if v.showHelp {
			v.showHelp = false
			return v, nil
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, requestQuit
		case key.Matches(msg, v.keys.ScrollDown):
			v.scroll++
			v.clampScroll()
		case key.Matches(msg, v.keys.ScrollUp):
			if v.scroll > 0 {
				v.scroll--
			}
		case key.Matches(msg, v.keys.Top):
			v.scroll = 0
		case key.Matches(msg, v.keys.Bottom):
			v.scroll = v.maxScroll()
		case key.Matches(msg, v.keys.PrevSlide):
			if v.slide > 1 {
				v.slide--
				v.scroll = 0
			}
		case key.Matches(msg, v.keys.NextSlide):
			if v.slide < v.totalSlides {
				v.slide++
				v.scroll = 0
			}
		case key.Matches(msg, v.keys.Reload):
			if v.reloading {
				return v, nil
			}
			v.reloading = true
			v.status = "Reloading " + v.fileName + "..."
			return v, reloadFile(v.path)
		case key.Matches(msg, v.keys.Configure):
			return v, func() tea.Msg { return reconfigureMsg{} }
		case key.Matches(msg, v.keys.Help):
			v.showHelp = true
		}
	}
	return v, nil
}

// slideSets processes every data set assigned to the current slide, in
// the organizer's deterministic order. Sets that vanished on reload are
// skipped rather than failing the frame.
func (v *Viewer) slideSets() []*processor.ProcessedDataSet {
	names := v.slideMap[v.slide]
	out := make([]*processor.ProcessedDataSet, 0, len(names))
	for _, name := range names {
		ds, ok := v.sets[name]
		if !ok {
			continue
		}
		p := processor.Process(ds, v.prefs[name])
		if v.transform != nil {
			p = v.transform(p)
		}
		out = append(out, p)
	}
	return out
}

func (v *Viewer) bodyLines() []string {
	return render.Mixed(v.slideSets(), 0, v.width, viewerRowBudget)
}

func (v *Viewer) maxDisplayRows() int {
	rows := v.height - viewerChrome
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (v *Viewer) maxScroll() int {
	max := len(v.bodyLines()) - v.maxDisplayRows()
	if max < 0 {
		return 0
	}
	return max
}

func (v *Viewer) clampScroll() {
	if max := v.maxScroll(); v.scroll > max {
		v.scroll = max
	}
	if v.scroll < 0 {
		v.scroll = 0
	}
}

func (v *Viewer) title() string {
	onSlide := len(v.slideMap[v.slide])
	if v.totalSlides > 1 {
		return fmt.Sprintf("vsr - %s | Slide %d/%d (%d data sets)", v.fileName, v.slide, v.totalSlides, onSlide)
	}
	if onSlide > 1 {
		return fmt.Sprintf("vsr - %s | Mixed View (%d data sets)", v.fileName, onSlide)
	}
	return fmt.Sprintf("vsr - %s | Mode: %s", v.fileName, v.singleViewName())
}

// singleViewName labels the title when exactly one set is shown.
func (v *Viewer) singleViewName() string {
	names := v.slideMap[v.slide]
	if len(names) == 0 {
		return "Empty"
	}
	switch v.prefs[names[0]].Normalize().View {
	case config.ViewBars:
		return "Bars"
	case config.ViewTree:
		return "Tree"
	default:
		return "Table"
	}
}

func (v *Viewer) View() string {
	var b strings.Builder
	rule := strings.Repeat("=", v.width)
	b.WriteString(rule + "\n")
	b.WriteString(centerLine(v.styles.title.Render(v.title()), v.width) + "\n")
	b.WriteString(rule + "\n")

	if v.status != "" {
		b.WriteString(v.styles.errText.Render(v.status) + "\n")
	} else {
		b.WriteString("\n")
	}

	if v.showHelp {
		v.writeHelpBody(&b)
		return b.String()
	}

	lines := v.bodyLines()
	total := len(lines)
	maxRows := v.maxDisplayRows()

	start := v.scroll
	if start > total {
		start = total
	}
	end := start + maxRows
	if end > total {
		end = total
	}
	for _, line := range lines[start:end] {
		b.WriteString(line + "\n")
	}
	for i := end - start; i < maxRows; i++ {
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("-", v.width) + "\n")
	if total == 0 {
		b.WriteString(centerLine("No data", v.width) + "\n")
	} else {
		b.WriteString(centerLine(fmt.Sprintf("Showing lines %d-%d of %d", start+1, end, total), v.width) + "\n")
	}
	b.WriteString(centerLine(v.help.View(v.keys), v.width))
	return b.String()
}

// writeHelpBody replaces the slide body with the full key reference while
// the help overlay is open.
func (v *Viewer) writeHelpBody(b *strings.Builder) {
	maxRows := v.maxDisplayRows()
	body := []string{
		v.styles.title.Render("Keys"),
		"",
	}
	body = append(body, strings.Split(v.help.FullHelpView(v.keys.FullHelp()), "\n")...)
	body = append(body, "", v.styles.hint.Render("Press any key to return."))

	for i := 0; i < maxRows; i++ {
		if i < len(body) {
			b.WriteString(body[i])
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("-", v.width) + "\n")
	b.WriteString(centerLine("Help", v.width) + "\n")
	b.WriteString(centerLine(v.help.View(v.keys), v.width))
}
