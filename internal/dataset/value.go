package dataset

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Sphmer/vsr/pkg/loader"
)

// ValueKind tags the concrete type held by a Value.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueInt
	ValueFloat
	ValueBool
	ValueNull
)

// Value is a single cell value: one of string, integer, float, boolean, or
// null. Values are immutable once constructed.
type Value struct {
	kind ValueKind
	s    string
	i    int64
	f    float64
	b    bool
}

// String returns a string-kinded Value holding s verbatim.
func String(s string) Value { return Value{kind: ValueString, s: s} }

// Int returns an integer-kinded Value.
func Int(i int64) Value { return Value{kind: ValueInt, i: i} }

// Float returns a float-kinded Value.
func Float(f float64) Value { return Value{kind: ValueFloat, f: f} }

// Bool returns a boolean-kinded Value.
func Bool(b bool) Value { return Value{kind: ValueBool, b: b} }

// Null returns the null Value.
func Null() Value { return Value{kind: ValueNull} }

// Kind returns the value's type tag.
func (v Value) Kind() ValueKind { return v.kind }

// Coerce converts a raw input string through the shared coercion rules:
// "true" and "false" become booleans, strings that parse in full as integers
// or floats become numbers, everything else stays a string. Every cell read
// from input goes through this one function.
func Coerce(s string) Value {
	switch s {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}
	return String(s)
}

// FromAny converts a decoded document leaf into a Value. String leaves go
// through Coerce so numeric-looking strings become numbers. Nested objects
// and arrays are stringified as compact JSON since a cell can only hold a
// scalar.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case int64:
		return Int(t)
	case int:
		return Int(int64(t))
	case float64:
		return Float(t)
	case string:
		return Coerce(t)
	case *loader.Object, []any:
		return String(compactJSON(t))
	default:
		return String(fmt.Sprintf("%v", t))
	}
}

// Display renders the value for the terminal: integers in decimal, floats
// with two decimals, booleans as "true"/"false", null as "null", strings
// verbatim.
func (v Value) Display() string {
	switch v.kind {
	case ValueInt:
		return strconv.FormatInt(v.i, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.f, 'f', 2, 64)
	case ValueBool:
		return strconv.FormatBool(v.b)
	case ValueNull:
		return "null"
	}
	return v.s
}

// Num returns the value as a float64 and whether it is numeric.
func (v Value) Num() (float64, bool) {
	switch v.kind {
	case ValueInt:
		return float64(v.i), true
	case ValueFloat:
		return v.f, true
	}
	return 0, false
}

// IsNumericString reports whether s parses in full as a number. Statistics
// collection and bar scaling share this check with value coercion.
func IsNumericString(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// compactJSON renders a decoded document subtree as single-line JSON,
// walking ordered objects so key order survives.
func compactJSON(v any) string {
	var sb strings.Builder
	writeJSON(&sb, v)
	return sb.String()
}

func writeJSON(sb *strings.Builder, v any) {
	switch t := v.(type) {
	case *loader.Object:
		sb.WriteByte('{')
		for i, key := range t.Keys() {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeScalarJSON(sb, key)
			sb.WriteByte(':')
			value, _ := t.Get(key)
			writeJSON(sb, value)
		}
		sb.WriteByte('}')
	case []any:
		sb.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeJSON(sb, item)
		}
		sb.WriteByte(']')
	case nil:
		sb.WriteString("null")
	default:
		writeScalarJSON(sb, t)
	}
}

func writeScalarJSON(sb *strings.Builder, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		b, _ = json.Marshal(fmt.Sprintf("%v", v))
	}
	sb.Write(b)
}
