package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sphmer/vsr/internal/config"
)

func processedCities(t *testing.T) *ProcessedDataSet {
	t.Helper()
	return Process(citiesSet(t), config.Preference{View: config.ViewTable, Slide: 1})
}

func names(p *ProcessedDataSet) []string {
	out := make([]string, 0, len(p.Rows))
	for _, row := range p.Rows {
		out = append(out, row["name"])
	}
	return out
}

func TestSortNumeric(t *testing.T) {
	p := processedCities(t)

	asc := Sort(p, "population", true)
	assert.Equal(t, []string{"Los Angeles", "New York"}, names(asc))

	desc := Sort(p, "population", false)
	assert.Equal(t, []string{"New York", "Los Angeles"}, names(desc))

	assert.Equal(t, []string{"New York", "Los Angeles"}, names(p), "input is not mutated")
}

func TestSortString(t *testing.T) {
	p := processedCities(t)
	asc := Sort(p, "state", true)
	assert.Equal(t, []string{"Los Angeles", "New York"}, names(asc), "CA sorts before NY")
}

func TestSortStable(t *testing.T) {
	ds := classifySet(t, `[{"g":"b","id":1},{"g":"a","id":2},{"g":"b","id":3},{"g":"a","id":4}]`, "data.json")
	p := Process(ds, config.Preference{View: config.ViewTable, Slide: 1})

	once := Sort(p, "g", true)
	ids := func(p *ProcessedDataSet) []string {
		out := make([]string, 0, len(p.Rows))
		for _, row := range p.Rows {
			out = append(out, row["id"])
		}
		return out
	}
	assert.Equal(t, []string{"2", "4", "1", "3"}, ids(once), "equal keys keep their relative order")

	twice := Sort(once, "g", true)
	assert.Equal(t, ids(once), ids(twice), "sorting twice matches sorting once")
}

func TestSortReverseWithoutTies(t *testing.T) {
	ds := classifySet(t, `[{"v":3},{"v":1},{"v":2}]`, "data.json")
	p := Process(ds, config.Preference{View: config.ViewTable, Slide: 1})

	asc := Sort(p, "v", true)
	desc := Sort(p, "v", false)

	require.Len(t, asc.Rows, 3)
	for i := range asc.Rows {
		assert.Equal(t, asc.Rows[i]["v"], desc.Rows[len(desc.Rows)-1-i]["v"])
	}
}

func TestSortMixedCellsCompareAsStrings(t *testing.T) {
	ds := classifySet(t, `[{"v":"10"},{"v":"x"},{"v":"2"}]`, "data.json")
	p := Process(ds, config.Preference{View: config.ViewTable, Slide: 1})

	asc := Sort(p, "v", true)
	// "x" forces string comparison against its neighbours, numeric pairs
	// still compare as numbers.
	vals := make([]string, 0, 3)
	for _, row := range asc.Rows {
		vals = append(vals, row["v"])
	}
	assert.Equal(t, []string{"2", "10", "x"}, vals)
}

func TestSortUnknownColumnIsNoop(t *testing.T) {
	p := processedCities(t)
	assert.Same(t, p, Sort(p, "altitude", true))
}

func TestFilterCaseInsensitiveSubstring(t *testing.T) {
	p := processedCities(t)

	got := Filter(p, "name", "new")
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "New York", got.Rows[0]["name"])

	st := got.ColumnStats["population"]
	assert.Equal(t, 1, st.Count, "stats are recomputed on the filtered rows")
	assert.Equal(t, 8419000.0, st.Min)
	assert.Equal(t, 8419000.0, st.Max)
}

func TestFilterIdempotent(t *testing.T) {
	p := processedCities(t)
	once := Filter(p, "state", "ca")
	twice := Filter(once, "state", "ca")
	assert.Equal(t, once.Rows, twice.Rows)
}

func TestFilterNoMatch(t *testing.T) {
	p := processedCities(t)
	got := Filter(p, "name", "zzz")
	assert.Empty(t, got.Rows)
}

func TestFilterUnknownColumnYieldsEmpty(t *testing.T) {
	p := processedCities(t)
	got := Filter(p, "altitude", "x")
	assert.Empty(t, got.Rows)
	assert.Equal(t, p.Columns, got.Columns)
}

func TestLimitTruncates(t *testing.T) {
	p := processedCities(t)

	got := Limit(p, 1)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, p.Rows[0], got.Rows[0], "limit keeps the leading rows in order")

	st := got.ColumnStats["population"]
	assert.Equal(t, 1, st.Count)
}

func TestLimitWithinBoundIsNoop(t *testing.T) {
	p := processedCities(t)
	assert.Same(t, p, Limit(p, 2))
	assert.Same(t, p, Limit(p, 100))
}

func TestLimitIdempotent(t *testing.T) {
	p := processedCities(t)
	once := Limit(p, 1)
	twice := Limit(once, 1)
	assert.Equal(t, once.Rows, twice.Rows)
}

func TestLimitNegativeClampsToZero(t *testing.T) {
	p := processedCities(t)
	got := Limit(p, -5)
	assert.Empty(t, got.Rows)
}

func TestWindowKeepsHalfOpenRange(t *testing.T) {
	ds := classifySet(t, `[{"id":1},{"id":2},{"id":3},{"id":4},{"id":5}]`, "data.json")
	p := Process(ds, config.Preference{View: config.ViewTable, Slide: 1})

	got := Window(p, 1, 4)
	ids := make([]string, 0, len(got.Rows))
	for _, row := range got.Rows {
		ids = append(ids, row["id"])
	}
	assert.Equal(t, []string{"2", "3", "4"}, ids)

	st := got.ColumnStats["id"]
	assert.Equal(t, 3, st.Count, "stats are recomputed on the window")
	assert.Equal(t, 2.0, st.Min)
	assert.Equal(t, 4.0, st.Max)
}

func TestWindowClampsBounds(t *testing.T) {
	p := processedCities(t)
	assert.Empty(t, Window(p, 5, 9).Rows)
	assert.Len(t, Window(p, -3, 1).Rows, 1)
	assert.Len(t, Window(p, 1, 100).Rows, 1)
}

func TestWindowFullRangeIsNoop(t *testing.T) {
	p := processedCities(t)
	assert.Same(t, p, Window(p, 0, len(p.Rows)))
	assert.Same(t, p, Window(p, -1, 100))
}
