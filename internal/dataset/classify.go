package dataset

import (
	"fmt"

	"github.com/Sphmer/vsr/pkg/loader"
)

// FormatError reports a top-level document shape that yields no data sets.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported input format: %s", e.Reason)
}

// EmptyInputError reports input that contains no data rows.
type EmptyInputError struct {
	Name string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("no data rows in input: %s", e.Name)
}

// Classify turns a parsed input document into named data sets.
//
// A top-level array of objects becomes one "main" set; non-object elements
// are skipped. A top-level object is scanned key by key: every key holding a
// non-empty array whose first element is an object becomes its own set named
// after the key, and when at least one key qualifies the remaining keys are
// dropped. When no key qualifies the whole object collapses into a single
// "main" set with one row. Tabular input becomes a "main" set whose column
// order is the header row.
func Classify(root any) (map[string]*DataSet, error) {
	switch t := root.(type) {
	case *loader.Table:
		return classifyTable(t)
	case []any:
		return classifyArray(t)
	case *loader.Object:
		return classifyObject(t)
	}
	return nil, &FormatError{
		Reason: fmt.Sprintf("top-level value is neither an object, an array, nor tabular rows (got %T)", root),
	}
}

func classifyTable(t *loader.Table) (map[string]*DataSet, error) {
	if len(t.Records) == 0 {
		return nil, &EmptyInputError{Name: MainSetName}
	}
	ds := &DataSet{Name: MainSetName, Kind: KindCsv, Header: t.Header}
	for i := range t.Records {
		row := NewRow()
		for j, col := range t.Header {
			row.Set(col, Coerce(t.Cell(i, j)))
		}
		ds.Rows = append(ds.Rows, row)
	}
	return map[string]*DataSet{MainSetName: ds}, nil
}

func classifyArray(items []any) (map[string]*DataSet, error) {
	ds := &DataSet{Name: MainSetName, Kind: KindArrayOfObjects}
	for _, item := range items {
		obj, ok := item.(*loader.Object)
		if !ok {
			continue
		}
		ds.Rows = append(ds.Rows, rowFromObject(obj))
	}
	if len(ds.Rows) == 0 {
		return nil, &EmptyInputError{Name: MainSetName}
	}
	return map[string]*DataSet{MainSetName: ds}, nil
}

func classifyObject(obj *loader.Object) (map[string]*DataSet, error) {
	sets := make(map[string]*DataSet)
	for _, key := range obj.Keys() {
		value, _ := obj.Get(key)
		arr, ok := value.([]any)
		if !ok || len(arr) == 0 {
			continue
		}
		if _, ok := arr[0].(*loader.Object); !ok {
			continue
		}
		ds := &DataSet{Name: key, Kind: KindNested}
		for _, item := range arr {
			o, ok := item.(*loader.Object)
			if !ok {
				continue
			}
			ds.Rows = append(ds.Rows, rowFromObject(o))
		}
		sets[key] = ds
	}
	if len(sets) > 0 {
		// Qualifying keys win; scalar and non-qualifying keys are dropped.
		return sets, nil
	}

	row := rowFromObject(obj)
	return map[string]*DataSet{MainSetName: {
		Name: MainSetName,
		Kind: KindFlat,
		Rows: []*Row{row},
	}}, nil
}

func rowFromObject(obj *loader.Object) *Row {
	row := NewRow()
	for _, key := range obj.Keys() {
		value, _ := obj.Get(key)
		row.Set(key, FromAny(value))
	}
	return row
}
