package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/xlab/treeprint"

	"github.com/Sphmer/vsr/internal/processor"
)

const (
	// treeSampleLimit is how many sample cells appear under a column.
	treeSampleLimit = 3
	// treeSampleWidth is the widest a sample cell may render.
	treeSampleWidth = 20
)

// treeLines renders one set as a structural summary: column and row counts,
// then one branch per column tagged with its numeric range or "(text)".
// Every column except the last carries up to treeSampleLimit sample cells,
// with scroll skipping into the row sequence.
func treeLines(p *processor.ProcessedDataSet, scroll, _, _ int) []string {
	if len(p.Rows) == 0 {
		return []string{"No data for tree view: " + p.SetName}
	}

	tree := treeprint.NewWithRoot(fmt.Sprintf("Tree View: %s", p.SetName))
	tree.AddNode(fmt.Sprintf("Columns: %d", len(p.Columns)))
	tree.AddNode(fmt.Sprintf("Rows: %d", len(p.Rows)))

	for i, col := range p.Columns {
		label := col
		if st, ok := p.ColumnStats[col]; ok {
			if st.IsNumeric {
				label = fmt.Sprintf("%s (numeric: %.2f - %.2f)", col, st.Min, st.Max)
			} else {
				label = col + " (text)"
			}
		}

		if i == len(p.Columns)-1 {
			tree.AddNode(label)
			continue
		}

		branch := tree.AddBranch(label)
		samples := 0
		for rowIdx, row := range p.Rows {
			if rowIdx < scroll || samples >= treeSampleLimit {
				continue
			}
			value, ok := row[col]
			if !ok {
				continue
			}
			branch.AddNode(runewidth.Truncate(value, treeSampleWidth, "..."))
			samples++
		}
	}

	return strings.Split(strings.TrimRight(tree.String(), "\n"), "\n")
}
