package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sphmer/vsr/internal/config"
	"github.com/Sphmer/vsr/internal/dataset"
	"github.com/Sphmer/vsr/pkg/loader"
)

func classifySet(t *testing.T, input, name string) *dataset.DataSet {
	t.Helper()
	root, err := loader.LoadBytes([]byte(input), name)
	require.NoError(t, err)
	sets, err := dataset.Classify(root)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	for _, ds := range sets {
		return ds
	}
	return nil
}

func citiesSet(t *testing.T) *dataset.DataSet {
	t.Helper()
	input := "name,population,state\nNew York,8419000,NY\nLos Angeles,3980000,CA\n"
	return classifySet(t, input, "cities.csv")
}

func TestProcessCitiesCSV(t *testing.T) {
	pref := config.Preference{
		View:    config.ViewTable,
		Slide:   1,
		Columns: []string{"name", "population", "state"},
	}
	p := Process(citiesSet(t), pref)

	require.Len(t, p.Rows, 2)
	assert.Equal(t, []string{"name", "population", "state"}, p.Columns)
	assert.Equal(t, "New York", p.Rows[0]["name"])
	assert.Equal(t, "8419000", p.Rows[0]["population"])

	pop := p.ColumnStats["population"]
	assert.True(t, pop.IsNumeric)
	assert.Equal(t, 3980000.0, pop.Min)
	assert.Equal(t, 8419000.0, pop.Max)
	assert.Equal(t, 12399000.0, pop.Sum)
	assert.Equal(t, 6199500.0, pop.Avg)
	assert.Equal(t, 2, pop.Count)

	name := p.ColumnStats["name"]
	assert.False(t, name.IsNumeric)
	assert.Equal(t, 2, name.Count)
}

func TestProcessKeepsRowCount(t *testing.T) {
	ds := citiesSet(t)
	p := Process(ds, config.Preference{View: config.ViewTable, Slide: 1})
	assert.Equal(t, len(ds.Rows), len(p.Rows), "projection never drops rows")
}

func TestProcessDefaultColumnsFromFirstRow(t *testing.T) {
	ds := classifySet(t, `[{"b":1,"a":2},{"a":3,"c":4}]`, "data.json")
	p := Process(ds, config.Preference{View: config.ViewTable, Slide: 1})

	assert.Equal(t, []string{"b", "a"}, p.Columns, "first row's order wins when no selection is given")
	assert.Equal(t, MissingCell, p.Rows[1]["b"], "second row lacks b")
}

func TestProcessSelectionOrderIsDisplayOrder(t *testing.T) {
	p := Process(citiesSet(t), config.Preference{
		View:    config.ViewTable,
		Slide:   1,
		Columns: []string{"state", "name"},
	})

	assert.Equal(t, []string{"state", "name"}, p.Columns)
	for _, row := range p.Rows {
		_, hasPop := row["population"]
		assert.False(t, hasPop, "unselected columns are not projected")
	}
}

func TestProcessUnknownSelectedColumn(t *testing.T) {
	p := Process(citiesSet(t), config.Preference{
		View:    config.ViewTable,
		Slide:   1,
		Columns: []string{"name", "altitude"},
	})

	for _, row := range p.Rows {
		assert.Equal(t, MissingCell, row["altitude"])
	}
	st := p.ColumnStats["altitude"]
	assert.False(t, st.IsNumeric)
	assert.Equal(t, 2, st.Count)
}

func TestProcessStatsSkipNonNumericCells(t *testing.T) {
	ds := classifySet(t, `[{"v":10,"l":"A"},{"v":"x","l":"B"},{"v":20,"l":"C"}]`, "data.json")
	p := Process(ds, config.Preference{View: config.ViewTable, Slide: 1})

	st := p.ColumnStats["v"]
	assert.True(t, st.IsNumeric, "one numeric cell is enough to mark the column numeric")
	assert.Equal(t, 2, st.Count, "only cells that parse as numbers are counted")
	assert.LessOrEqual(t, st.Count, len(p.Rows))
	assert.Equal(t, 10.0, st.Min)
	assert.Equal(t, 20.0, st.Max)
	assert.Equal(t, 30.0, st.Sum)
	assert.Equal(t, 15.0, st.Avg)
}

func TestProcessAvgEqualsSumOverCount(t *testing.T) {
	p := Process(citiesSet(t), config.Preference{View: config.ViewTable, Slide: 1})
	for col, st := range p.ColumnStats {
		if !st.IsNumeric {
			continue
		}
		require.Positive(t, st.Count, col)
		assert.InDelta(t, st.Sum/float64(st.Count), st.Avg, 1e-9, col)
	}
}

func TestProcessRendersValueKinds(t *testing.T) {
	ds := classifySet(t, `[{"price":999.99,"active":true,"note":null,"qty":3}]`, "data.json")
	p := Process(ds, config.Preference{View: config.ViewTable, Slide: 1})

	row := p.Rows[0]
	assert.Equal(t, "999.99", row["price"])
	assert.Equal(t, "true", row["active"])
	assert.Equal(t, "null", row["note"])
	assert.Equal(t, "3", row["qty"])
}

func TestProcessCarriesViewAndSlide(t *testing.T) {
	p := Process(citiesSet(t), config.Preference{View: config.ViewBars, Slide: 3})
	assert.Equal(t, config.ViewBars, p.View)
	assert.Equal(t, 3, p.Slide)
	assert.Equal(t, dataset.MainSetName, p.SetName)
}

func TestProcessNormalizesPreference(t *testing.T) {
	p := Process(citiesSet(t), config.Preference{View: "sideways", Slide: -1})
	assert.Equal(t, config.ViewTable, p.View)
	assert.Equal(t, 1, p.Slide)
}
