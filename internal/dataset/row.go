package dataset

// Row is an insertion-ordered mapping from column name to Value. Rows in the
// same set need not share identical columns; a missing column renders as the
// "N/A" sentinel downstream instead of failing.
type Row struct {
	cols   []string
	values map[string]Value
}

// NewRow returns an empty row.
func NewRow() *Row {
	return &Row{values: make(map[string]Value)}
}

// Set stores a value under col. Re-setting an existing column overwrites the
// value but keeps the column's original position.
func (r *Row) Set(col string, v Value) {
	if _, ok := r.values[col]; !ok {
		r.cols = append(r.cols, col)
	}
	r.values[col] = v
}

// Get returns the value for col and whether the column is present.
func (r *Row) Get(col string) (Value, bool) {
	v, ok := r.values[col]
	return v, ok
}

// Columns returns the column names in insertion order. The returned slice is
// shared; callers must not modify it.
func (r *Row) Columns() []string {
	return r.cols
}

// Len returns the number of columns.
func (r *Row) Len() int {
	return len(r.cols)
}
