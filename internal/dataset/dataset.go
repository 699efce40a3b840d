// Package dataset defines the typed cell values that flow through the whole
// pipeline and classifies parsed input documents into named groups of rows.
package dataset

// Kind identifies how a data set was derived from its source document.
type Kind int

const (
	// KindFlat is a single top-level object flattened into one row.
	KindFlat Kind = iota
	// KindNested is an array of objects found under a top-level object key.
	KindNested
	// KindArrayOfObjects is a top-level array of objects.
	KindArrayOfObjects
	// KindCsv is tabular input with an explicit header row.
	KindCsv
)

// String returns the kind name for logs and error messages.
func (k Kind) String() string {
	switch k {
	case KindFlat:
		return "Flat"
	case KindNested:
		return "Nested"
	case KindArrayOfObjects:
		return "ArrayOfObjects"
	case KindCsv:
		return "Csv"
	}
	return "Unknown"
}

// MainSetName is the reserved set name for single-group files: a flat
// object, a top-level array, or tabular input.
const MainSetName = "main"

// DataSet is one named group of rows extracted from an input file. Sets are
// created once by Classify and never mutated afterward.
type DataSet struct {
	Name string
	Kind Kind
	// Header holds the source header row for KindCsv sets and fixes the
	// column order verbatim. Empty for document-derived kinds.
	Header []string
	Rows   []*Row
}

// ColumnNames returns the display column order: the header verbatim for
// tabular sets, otherwise every column observed across rows de-duplicated,
// with the first row's columns first and later discoveries appended.
func (d *DataSet) ColumnNames() []string {
	if d.Kind == KindCsv {
		return d.Header
	}
	var cols []string
	seen := make(map[string]bool)
	for _, row := range d.Rows {
		for _, c := range row.Columns() {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	return cols
}
