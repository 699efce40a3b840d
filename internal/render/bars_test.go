package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sphmer/vsr/internal/config"
	"github.com/Sphmer/vsr/internal/processor"
)

func barProcessed(t *testing.T, input string) *processor.ProcessedDataSet {
	t.Helper()
	return processInput(t, input, "data.json", config.Preference{View: config.ViewBars, Slide: 1})
}

// barLength counts the bar glyphs on one chart line.
func barLength(line string) int {
	return strings.Count(line, "█")
}

func TestBarsChooseColumns(t *testing.T) {
	p := barProcessed(t, `[{"city":"A","pop":10},{"city":"B","pop":20}]`)
	lines := Bars([]*processor.ProcessedDataSet{p}, 0, 80, 10)

	require.NotEmpty(t, lines)
	assert.Equal(t, "Bar Chart: pop by city", lines[0], "first numeric column charts, first text column labels")
}

func TestBarsSyntheticRowLabels(t *testing.T) {
	p := barProcessed(t, `[{"a":1,"b":2},{"a":3,"b":4}]`)
	lines := Bars([]*processor.ProcessedDataSet{p}, 0, 80, 10)

	require.NotEmpty(t, lines)
	assert.Equal(t, "Bar Chart: a by Row", lines[0])
	assert.Contains(t, lines[1], "Row 1")
	assert.Contains(t, lines[2], "Row 2")
}

func TestBarsScalingAnchor(t *testing.T) {
	p := barProcessed(t, `[{"l":"A","v":10},{"l":"B","v":0},{"l":"C","v":-5}]`)
	lines := Bars([]*processor.ProcessedDataSet{p}, 0, 80, 10)

	// width 80 gives barWidth = min(50, 80-30) = 50.
	require.Len(t, lines, 5, "title, three bars, trailing blank")
	assert.Equal(t, 50, barLength(lines[1]), "max |value| fills the whole bar area")
	assert.Equal(t, 0, barLength(lines[2]))
	assert.Equal(t, 25, barLength(lines[3]), "|-5|/10 of the bar area")
}

func TestBarsTotalLengthBound(t *testing.T) {
	p := barProcessed(t, `[{"l":"A","v":3},{"l":"B","v":7},{"l":"C","v":9},{"l":"D","v":1}]`)
	maxRows := 4
	lines := Bars([]*processor.ProcessedDataSet{p}, 0, 80, maxRows)

	total := 0
	for _, line := range lines {
		total += barLength(line)
	}
	assert.LessOrEqual(t, total, maxRows*50)
}

func TestBarsSkipNonNumericRowsWithoutBudget(t *testing.T) {
	// Rows 2 and 4 have non-numeric bar cells; a budget of three rows must
	// still chart three numeric rows.
	p := barProcessed(t, `[
		{"l":"A","v":1},
		{"l":"B","v":"x"},
		{"l":"C","v":2},
		{"l":"D","v":"y"},
		{"l":"E","v":3}
	]`)
	lines := Bars([]*processor.ProcessedDataSet{p}, 0, 80, 3)

	require.Len(t, lines, 5)
	assert.Contains(t, lines[1], "A")
	assert.Contains(t, lines[2], "C")
	assert.Contains(t, lines[3], "E")
}

func TestBarsScrollOffset(t *testing.T) {
	p := barProcessed(t, `[{"l":"A","v":1},{"l":"B","v":2},{"l":"C","v":3}]`)
	lines := Bars([]*processor.ProcessedDataSet{p}, 1, 80, 10)

	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "B")
	assert.Contains(t, lines[2], "C")
}

func TestBarsWindowRescalesAfterScroll(t *testing.T) {
	// Once the 10 row scrolls out, 4 becomes the window maximum and fills
	// the bar area.
	p := barProcessed(t, `[{"l":"A","v":10},{"l":"B","v":4},{"l":"C","v":2}]`)
	lines := Bars([]*processor.ProcessedDataSet{p}, 1, 80, 10)

	require.Len(t, lines, 4)
	assert.Equal(t, 50, barLength(lines[1]), "window max anchors the scale")
	assert.Equal(t, 25, barLength(lines[2]))
}

func TestBarsNoNumericColumn(t *testing.T) {
	p := barProcessed(t, `[{"a":"x","b":"y"}]`)
	lines := Bars([]*processor.ProcessedDataSet{p}, 0, 80, 10)
	assert.Equal(t, []string{"No numeric column found for bar chart: main", ""}, lines)
}

func TestBarsAllZero(t *testing.T) {
	p := barProcessed(t, `[{"l":"A","v":0},{"l":"B","v":0}]`)
	lines := Bars([]*processor.ProcessedDataSet{p}, 0, 80, 10)

	require.Len(t, lines, 3)
	assert.Equal(t, "All values are zero.", lines[1])
}

func TestBarsNarrowTerminalClampsBarWidth(t *testing.T) {
	p := barProcessed(t, `[{"l":"A","v":5}]`)
	lines := Bars([]*processor.ProcessedDataSet{p}, 0, 31, 10)

	require.Len(t, lines, 3)
	assert.Equal(t, 1, barLength(lines[1]), "width-30 clamps to at least one cell")
}

func TestBarsEmptySet(t *testing.T) {
	p := processor.Filter(barProcessed(t, `[{"l":"A","v":1}]`), "l", "zzz")
	lines := Bars([]*processor.ProcessedDataSet{p}, 0, 80, 10)
	assert.Equal(t, []string{"No data for bar chart: main", ""}, lines)
}

func TestBarsValueColumnShown(t *testing.T) {
	p := barProcessed(t, `[{"l":"A","v":12.5}]`)
	lines := Bars([]*processor.ProcessedDataSet{p}, 0, 80, 10)

	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], fmt.Sprintf("%8.2f", 12.5))
}
