package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/Sphmer/vsr/internal/config"
	"github.com/Sphmer/vsr/internal/dataset"
	"github.com/Sphmer/vsr/internal/processor"
	"github.com/Sphmer/vsr/internal/render"
)

// wizardStep names the prompt the wizard currently shows for one set.
type wizardStep int

const (
	stepView wizardStep = iota
	stepSlide
	stepColumns
	stepBarField
)

// previewRows is how many data rows the per-set preview table shows.
const previewRows = 3

// Wizard walks every data set of a file in name order and collects one
// Preference per set: view kind, slide assignment, and an optional column
// selection. Sets passed over are recorded as skipped so the preference
// map always covers the whole file.
type Wizard struct {
	fileName string
	names    []string
	sets     map[string]*dataset.DataSet
	prefs    map[string]config.Preference

	idx  int
	step wizardStep

	proc         *processor.ProcessedDataSet
	pendingView  config.ViewKind
	pendingSlide int

	slideInput textinput.Model
	cursor     int
	checked    []bool
	choices    []string

	status string
	width  int
	height int

	keys   wizardKeyMap
	styles styles
}

// NewWizard builds the configurator for a file's data sets. prefs may
// carry the previous configuration when the wizard reopens from the
// viewer; it is copied, never mutated in place.
func NewWizard(fileName string, sets map[string]*dataset.DataSet, prefs map[string]config.Preference, noColor bool) *Wizard {
	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	sort.Strings(names)

	seeded := make(map[string]config.Preference, len(prefs))
	for name, p := range prefs {
		seeded[name] = p.Normalize()
	}

	si := textinput.New()
	si.Prompt = "> "
	si.Placeholder = "1"
	si.CharLimit = 4
	si.SetWidth(12)

	w := &Wizard{
		fileName:   fileName,
		names:      names,
		sets:       sets,
		prefs:      seeded,
		slideInput: si,
		width:      80,
		height:     24,
		keys:       wizardKeys,
		styles:     newStyles(noColor),
	}
	w.enterSet()
	return w
}

// Prefs exposes the accumulated preference map, mainly for tests.
func (w *Wizard) Prefs() map[string]config.Preference { return w.prefs }

func (w *Wizard) Init() tea.Cmd { return nil }

func (w *Wizard) SetSize(width, height int) {
	w.width = width
	w.height = height
}

func (w *Wizard) currentName() string {
	if w.idx >= len(w.names) {
		return ""
	}
	return w.names[w.idx]
}

// enterSet resets the per-set prompt state and processes the set once for
// the preview table and the column statistics.
func (w *Wizard) enterSet() {
	w.step = stepView
	w.pendingView = ""
	w.pendingSlide = 0
	w.status = ""
	w.cursor = 0
	name := w.currentName()
	if name == "" {
		return
	}
	w.proc = processor.Process(w.sets[name], config.Preference{View: config.ViewTable, Slide: 1})
	if p, ok := w.prefs[name]; ok {
		w.status = fmt.Sprintf("Currently: %s on slide %d", p.View, p.Slide)
	}
}

func (w *Wizard) Update(msg tea.Msg) (ChildModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || w.idx >= len(w.names) {
		return w, nil
	}
	switch w.step {
	case stepView:
		return w.updateViewStep(keyMsg)
	case stepSlide:
		return w.updateSlideStep(keyMsg)
	case stepColumns:
		return w.updateColumnsStep(keyMsg)
	case stepBarField:
		return w.updateBarFieldStep(keyMsg)
	}
	return w, nil
}

func (w *Wizard) updateViewStep(msg tea.KeyMsg) (ChildModel, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Finish):
		return w, w.finish()
	case key.Matches(msg, w.keys.Prev):
		if w.idx > 0 {
			w.skipIfUnconfigured()
			w.idx--
			w.enterSet()
		}
		return w, nil
	case key.Matches(msg, w.keys.Next):
		w.skipIfUnconfigured()
		return w, w.advance()
	}

	switch s := msg.String(); s {
	case "t":
		return w, w.chooseView(config.ViewTable)
	case "b":
		return w, w.chooseView(config.ViewBars)
	case "r":
		return w, w.chooseView(config.ViewTree)
	case "s":
		w.prefs[w.currentName()] = config.Preference{View: config.ViewSkip, Slide: 1}
		return w, w.advance()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n, _ := strconv.Atoi(s)
		w.pendingSlide = n
		w.status = fmt.Sprintf("Slide %d selected, now choose a view.", n)
	}
	return w, nil
}

// chooseView records the view kind and moves to the slide prompt, unless
// a digit already fixed the slide, in which case the set is committed
// right away.
func (w *Wizard) chooseView(view config.ViewKind) tea.Cmd {
	w.pendingView = view
	if w.pendingSlide > 0 {
		return w.afterSlide(w.pendingSlide)
	}
	w.step = stepSlide
	w.slideInput.SetValue("")
	w.slideInput.Focus()
	w.status = ""
	return textinput.Blink
}

func (w *Wizard) updateSlideStep(msg tea.KeyMsg) (ChildModel, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Back), key.Matches(msg, w.keys.Finish):
		w.slideInput.Blur()
		w.step = stepView
		w.pendingView = ""
		w.status = ""
		return w, nil
	case key.Matches(msg, w.keys.Confirm):
		raw := strings.TrimSpace(w.slideInput.Value())
		slide, err := w.parseSlide(raw)
		if err != nil {
			w.status = err.Error()
			return w, nil
		}
		w.slideInput.Blur()
		return w, w.afterSlide(slide)
	}
	var cmd tea.Cmd
	w.slideInput, cmd = w.slideInput.Update(msg)
	return w, cmd
}

// parseSlide accepts a positive slide number, "n" for the next unused
// slide, or an empty entry for slide one.
func (w *Wizard) parseSlide(raw string) (int, error) {
	switch strings.ToLower(raw) {
	case "":
		return 1, nil
	case "n":
		return w.nextNewSlide(), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("enter a slide number or 'n' for a new slide")
	}
	return n, nil
}

// nextNewSlide returns one past the highest slide assigned so far.
func (w *Wizard) nextNewSlide() int {
	max := 0
	for _, p := range w.prefs {
		if p.View != config.ViewSkip && p.Slide > max {
			max = p.Slide
		}
	}
	return max + 1
}

// afterSlide decides whether the chosen view needs a column prompt before
// the set can be committed.
func (w *Wizard) afterSlide(slide int) tea.Cmd {
	w.pendingSlide = slide
	switch {
	case w.pendingView == config.ViewTable && len(w.proc.Columns) > 2:
		w.step = stepColumns
		w.cursor = 0
		w.choices = append([]string(nil), w.proc.Columns...)
		w.checked = make([]bool, len(w.choices))
		for i := range w.checked {
			w.checked[i] = true
		}
		w.status = ""
		return nil
	case w.pendingView == config.ViewBars && len(w.numericColumns()) > 1:
		w.step = stepBarField
		w.cursor = 0
		w.choices = w.numericColumns()
		w.status = ""
		return nil
	}
	return w.commit(nil)
}

func (w *Wizard) updateColumnsStep(msg tea.KeyMsg) (ChildModel, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Up):
		if w.cursor > 0 {
			w.cursor--
		}
	case key.Matches(msg, w.keys.Down):
		if w.cursor < len(w.choices)-1 {
			w.cursor++
		}
	case key.Matches(msg, w.keys.Toggle):
		w.checked[w.cursor] = !w.checked[w.cursor]
	case key.Matches(msg, w.keys.All):
		for i := range w.checked {
			w.checked[i] = true
		}
	case key.Matches(msg, w.keys.None):
		for i := range w.checked {
			w.checked[i] = false
		}
	case key.Matches(msg, w.keys.Back), key.Matches(msg, w.keys.Finish):
		// Leaving the prompt keeps every column.
		return w, w.commit(nil)
	case key.Matches(msg, w.keys.Confirm):
		var selected []string
		for i, col := range w.choices {
			if w.checked[i] {
				selected = append(selected, col)
			}
		}
		if len(selected) < 2 {
			w.status = "Select at least two columns."
			return w, nil
		}
		if len(selected) == len(w.choices) {
			selected = nil
		}
		return w, w.commit(selected)
	}
	return w, nil
}

func (w *Wizard) updateBarFieldStep(msg tea.KeyMsg) (ChildModel, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Up):
		if w.cursor > 0 {
			w.cursor--
		}
	case key.Matches(msg, w.keys.Down):
		if w.cursor < len(w.choices)-1 {
			w.cursor++
		}
	case key.Matches(msg, w.keys.Back), key.Matches(msg, w.keys.Finish):
		return w, w.commit(nil)
	case key.Matches(msg, w.keys.Confirm):
		return w, w.commit(w.barFieldColumns(w.choices[w.cursor]))
	}
	return w, nil
}

// barFieldColumns moves the chosen value column to the front so the bar
// renderer, which charts the first numeric column, picks it up.
func (w *Wizard) barFieldColumns(field string) []string {
	out := []string{field}
	for _, col := range w.proc.Columns {
		if col != field {
			out = append(out, col)
		}
	}
	return out
}

// numericColumns lists the columns whose statistics came out numeric, in
// display order.
func (w *Wizard) numericColumns() []string {
	var out []string
	for _, col := range w.proc.Columns {
		if w.proc.ColumnStats[col].IsNumeric {
			out = append(out, col)
		}
	}
	return out
}

// commit stores the pending preference for the current set and moves on.
func (w *Wizard) commit(columns []string) tea.Cmd {
	w.prefs[w.currentName()] = config.Preference{
		View:    w.pendingView,
		Slide:   w.pendingSlide,
		Columns: columns,
	}
	return w.advance()
}

func (w *Wizard) skipIfUnconfigured() {
	name := w.currentName()
	if _, ok := w.prefs[name]; !ok {
		w.prefs[name] = config.Preference{View: config.ViewSkip, Slide: 1}
	}
}

// advance steps to the next set, or finishes after the last one.
func (w *Wizard) advance() tea.Cmd {
	w.idx++
	if w.idx >= len(w.names) {
		return w.finish()
	}
	w.enterSet()
	return nil
}

// finish marks every unvisited set as skipped and hands the result to the
// root. A run where nothing was given a view counts as cancelled.
func (w *Wizard) finish() tea.Cmd {
	for _, name := range w.names {
		if _, ok := w.prefs[name]; !ok {
			w.prefs[name] = config.Preference{View: config.ViewSkip, Slide: 1}
		}
	}
	configured := false
	for _, p := range w.prefs {
		if p.View != config.ViewSkip {
			configured = true
			break
		}
	}
	prefs := w.prefs
	if !configured {
		return func() tea.Msg { return wizardCancelledMsg{} }
	}
	return func() tea.Msg { return wizardDoneMsg{prefs: prefs} }
}

func (w *Wizard) View() string {
	var b strings.Builder
	rule := strings.Repeat("=", w.width)
	if w.idx >= len(w.names) {
		b.WriteString(rule + "\n")
		b.WriteString(centerLine("Saving preferences...", w.width) + "\n")
		b.WriteString(rule)
		return b.String()
	}
	title := fmt.Sprintf("vsr - %s | Configure data sets (%d/%d)", w.fileName, w.idx+1, len(w.names))
	b.WriteString(rule + "\n")
	b.WriteString(centerLine(w.styles.title.Render(title), w.width) + "\n")
	b.WriteString(rule + "\n")

	if w.status != "" {
		b.WriteString(w.styles.hint.Render(w.status) + "\n")
	} else {
		b.WriteString("\n")
	}

	var body []string
	switch w.step {
	case stepView:
		body = w.viewStepBody()
	case stepSlide:
		body = w.slideStepBody()
	case stepColumns:
		body = w.columnsStepBody()
	case stepBarField:
		body = w.barFieldStepBody()
	}

	maxRows := w.height - viewerChrome
	if maxRows < 1 {
		maxRows = 1
	}
	for i := 0; i < maxRows; i++ {
		if i < len(body) {
			b.WriteString(body[i])
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("-", w.width) + "\n")
	b.WriteString(centerLine(w.stepHint(), w.width) + "\n")
	b.WriteString(centerLine(w.styles.hint.Render("[q] save and view  [←/→] previous/skip"), w.width))
	return b.String()
}

func (w *Wizard) viewStepBody() []string {
	name := w.currentName()
	ds := w.sets[name]
	lines := []string{
		fmt.Sprintf("Data set: %s  (%d of %d)", w.styles.title.Render(name), w.idx+1, len(w.names)),
		fmt.Sprintf("Kind: %s    Rows: %d    Columns: %d", ds.Kind, len(ds.Rows), len(w.proc.Columns)),
		"",
	}
	lines = append(lines, render.Table([]*processor.ProcessedDataSet{w.proc}, 0, w.width, previewRows)...)
	lines = append(lines,
		"",
		"How should this data set be displayed?",
		"",
		"  [t] table",
		"  [b] bar chart",
		"  [r] tree",
		"  [s] skip",
	)
	return lines
}

func (w *Wizard) slideStepBody() []string {
	lines := []string{
		fmt.Sprintf("Assign %q to a slide.", w.currentName()),
		"",
	}
	if summary := w.slideSummary(); summary != "" {
		lines = append(lines, "Slides so far: "+summary, "")
	}
	lines = append(lines,
		"Slide number ('n' starts a new slide, empty is slide 1):",
		"",
		"  "+w.slideInput.View(),
	)
	return lines
}

// slideSummary describes the slides assigned so far, like "1 (2 sets), 2
// (1 set)".
func (w *Wizard) slideSummary() string {
	counts := make(map[int]int)
	for _, p := range w.prefs {
		if p.View != config.ViewSkip {
			counts[p.Slide]++
		}
	}
	if len(counts) == 0 {
		return ""
	}
	nums := make([]int, 0, len(counts))
	for n := range counts {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	parts := make([]string, 0, len(nums))
	for _, n := range nums {
		unit := "sets"
		if counts[n] == 1 {
			unit = "set"
		}
		parts = append(parts, fmt.Sprintf("%d (%d %s)", n, counts[n], unit))
	}
	return strings.Join(parts, ", ")
}

func (w *Wizard) columnsStepBody() []string {
	lines := []string{
		fmt.Sprintf("Select the columns to show for %q (at least two):", w.currentName()),
		"",
	}
	for i, col := range w.choices {
		mark := "[ ]"
		if w.checked[i] {
			mark = "[x]"
		}
		line := fmt.Sprintf("  %s %s", mark, col)
		if i == w.cursor {
			line = w.styles.selected.Render(">" + line[1:])
		}
		lines = append(lines, line)
	}
	return lines
}

func (w *Wizard) barFieldStepBody() []string {
	lines := []string{
		fmt.Sprintf("Choose the value column for the %q bar chart:", w.currentName()),
		"",
	}
	for i, col := range w.choices {
		line := "    " + col
		if i == w.cursor {
			line = w.styles.selected.Render("  > " + col)
		}
		lines = append(lines, line)
	}
	return lines
}

func (w *Wizard) stepHint() string {
	switch w.step {
	case stepSlide:
		return "[enter] confirm  [esc] back"
	case stepColumns:
		return "[j/k] move  [space] toggle  [a] all  [n] none  [enter] confirm  [esc] keep all"
	case stepBarField:
		return "[j/k] move  [enter] confirm  [esc] keep order"
	default:
		return "[t/b/r/s] view  [1-9] slide"
	}
}
