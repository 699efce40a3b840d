package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sphmer/vsr/pkg/loader"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind ValueKind
		wantText string
	}{
		{name: "integer", input: "123", wantKind: ValueInt, wantText: "123"},
		{name: "negative integer", input: "-42", wantKind: ValueInt, wantText: "-42"},
		{name: "float", input: "-4.5", wantKind: ValueFloat, wantText: "-4.50"},
		{name: "float rounds display", input: "3.14159", wantKind: ValueFloat, wantText: "3.14"},
		{name: "exponent", input: "2e3", wantKind: ValueFloat, wantText: "2000.00"},
		{name: "bool true", input: "true", wantKind: ValueBool, wantText: "true"},
		{name: "bool false", input: "false", wantKind: ValueBool, wantText: "false"},
		{name: "capitalized True stays string", input: "True", wantKind: ValueString, wantText: "True"},
		{name: "plain text", input: "hello", wantKind: ValueString, wantText: "hello"},
		{name: "empty string", input: "", wantKind: ValueString, wantText: ""},
		{name: "number with trailing text", input: "12abc", wantKind: ValueString, wantText: "12abc"},
		{name: "padded number stays string", input: " 42", wantKind: ValueString, wantText: " 42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Coerce(tt.input)
			assert.Equal(t, tt.wantKind, v.Kind())
			assert.Equal(t, tt.wantText, v.Display())
		})
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{name: "int", value: Int(8419000), want: "8419000"},
		{name: "float two decimals", value: Float(999.99), want: "999.99"},
		{name: "float pads decimals", value: Float(1.5), want: "1.50"},
		{name: "bool", value: Bool(true), want: "true"},
		{name: "null", value: Null(), want: "null"},
		{name: "string verbatim", value: String("NY"), want: "NY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.Display())
		})
	}
}

func TestNum(t *testing.T) {
	f, ok := Int(30).Num()
	require.True(t, ok)
	assert.Equal(t, 30.0, f)

	f, ok = Float(-4.5).Num()
	require.True(t, ok)
	assert.Equal(t, -4.5, f)

	_, ok = String("30").Num()
	assert.False(t, ok, "string values are not numeric even when they look like numbers")

	_, ok = Bool(true).Num()
	assert.False(t, ok)

	_, ok = Null().Num()
	assert.False(t, ok)
}

func TestFromAny(t *testing.T) {
	nested := loader.NewObject()
	nested.Set("b", int64(2))
	nested.Set("a", int64(1))

	tests := []struct {
		name     string
		input    any
		wantKind ValueKind
		wantText string
	}{
		{name: "nil", input: nil, wantKind: ValueNull, wantText: "null"},
		{name: "bool", input: true, wantKind: ValueBool, wantText: "true"},
		{name: "int64", input: int64(7), wantKind: ValueInt, wantText: "7"},
		{name: "float64", input: 2.5, wantKind: ValueFloat, wantText: "2.50"},
		{name: "plain string", input: "text", wantKind: ValueString, wantText: "text"},
		{name: "numeric string coerces", input: "123", wantKind: ValueInt, wantText: "123"},
		{name: "object stringifies in key order", input: nested, wantKind: ValueString, wantText: `{"b":2,"a":1}`},
		{name: "array stringifies", input: []any{int64(1), "x", nil}, wantKind: ValueString, wantText: `[1,"x",null]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := FromAny(tt.input)
			assert.Equal(t, tt.wantKind, v.Kind())
			assert.Equal(t, tt.wantText, v.Display())
		})
	}
}

func TestIsNumericString(t *testing.T) {
	assert.True(t, IsNumericString("123"))
	assert.True(t, IsNumericString("-4.5"))
	assert.True(t, IsNumericString("2e3"))
	assert.False(t, IsNumericString(""))
	assert.False(t, IsNumericString("N/A"))
	assert.False(t, IsNumericString("12abc"))
	assert.False(t, IsNumericString("true"))
}

func TestRowOrder(t *testing.T) {
	row := NewRow()
	row.Set("z", Int(1))
	row.Set("a", Int(2))
	row.Set("z", Int(3))

	assert.Equal(t, []string{"z", "a"}, row.Columns())
	assert.Equal(t, 2, row.Len())

	v, ok := row.Get("z")
	require.True(t, ok)
	assert.Equal(t, "3", v.Display())

	_, ok = row.Get("absent")
	assert.False(t, ok)
}
