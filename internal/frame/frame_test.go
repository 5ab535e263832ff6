package frame

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNull(t *testing.T) {
	assert.True(t, IsNull(nil))
	assert.True(t, IsNull(Null{}))
	assert.True(t, IsNull(Float(math.NaN())))
	assert.False(t, IsNull(Float(0)))
	assert.False(t, IsNull(String("")))
	assert.False(t, IsNull(Bool(false)))
}

func TestNumeric(t *testing.T) {
	f, ok := Numeric(Int(3))
	require.True(t, ok)
	assert.Equal(t, 3.0, f)

	_, ok = Numeric(Bool(true))
	assert.False(t, ok, "bools are not numeric")
	_, ok = Numeric(String("3"))
	assert.False(t, ok)
	_, ok = Numeric(Float(math.NaN()))
	assert.False(t, ok)
}

func TestInferDType(t *testing.T) {
	tests := []struct {
		name   string
		values []Value
		want   DType
	}{
		{"ints", Values(1, 2, nil), DTypeInt64},
		{"floats", Values(1.5, nil), DTypeFloat64},
		{"strings", Values("a", "b"), DTypeString},
		{"bools", Values(true, false), DTypeBool},
		{"mixed", Values(1, "a"), DTypeObject},
		{"all null", Values(nil, nil), DTypeObject},
		{"empty", nil, DTypeObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferDType(tt.values))
		})
	}
}

func TestParseDType(t *testing.T) {
	d, err := ParseDType("float")
	require.NoError(t, err)
	assert.Equal(t, DTypeFloat64, d)

	d, err = ParseDType(" Int64 ")
	require.NoError(t, err)
	assert.Equal(t, DTypeInt64, d)

	_, err = ParseDType("decimal")
	assert.Error(t, err)
}

func TestColumnCastIntToFloat(t *testing.T) {
	c := NewColumn("a", Values(1, 2, nil))
	require.Equal(t, DTypeInt64, c.DType())

	cast, err := c.Cast(DTypeFloat64)
	require.NoError(t, err)
	assert.Equal(t, DTypeFloat64, cast.DType())
	assert.Equal(t, Float(1), cast.At(0))
	assert.True(t, IsNull(cast.At(2)), "nulls survive casts")
	assert.Equal(t, DTypeInt64, c.DType(), "receiver untouched")
}

func TestColumnCastTextToIntFails(t *testing.T) {
	c := NewColumn("a", Values("1", "two"))
	_, err := c.Cast(DTypeInt64)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCast)
}

func TestColumnCastToStringAndBool(t *testing.T) {
	c := NewColumn("a", Values(0, 3))
	s, err := c.Cast(DTypeString)
	require.NoError(t, err)
	assert.Equal(t, []Value{String("0"), String("3")}, s.Values())

	b, err := c.Cast(DTypeBool)
	require.NoError(t, err)
	assert.Equal(t, []Value{Bool(false), Bool(true)}, b.Values())
}

func TestNewTypedColumnRejectsNonConforming(t *testing.T) {
	_, err := NewTypedColumn("a", DTypeInt64, Values(1, "x"))
	assert.ErrorIs(t, err, ErrCast)

	c, err := NewTypedColumn("a", DTypeInt64, Values(1, nil))
	require.NoError(t, err)
	assert.Equal(t, DTypeInt64, c.DType())
}

func TestColumnDuplicatesNumericIdentity(t *testing.T) {
	c := NewColumn("a", Values(1, 1.0, 2, nil, nil))
	assert.Equal(t, []bool{false, true, false, false, true}, c.Duplicated())
	assert.False(t, c.IsUnique())
}

func TestColumnDropDuplicatesKeepsFirstAndLabels(t *testing.T) {
	c, err := NewColumn("a", Values(3, 1, 3, 2)).WithLabels(NewLabels(Values("w", "x", "y", "z")))
	require.NoError(t, err)

	out := c.DropDuplicates()
	assert.Equal(t, Values(3, 1, 2), out.Values())
	assert.Equal(t, Values("w", "x", "z"), out.Labels().Values())
	assert.Equal(t, 4, c.Len(), "receiver untouched")
}

func TestColumnMapKeepsOrReinfersDType(t *testing.T) {
	c := NewColumn("a", Values(-1, 2))
	clamped := c.Map(func(v Value) Value {
		if n, ok := v.(Int); ok && n < 0 {
			return Int(0)
		}
		return v
	})
	assert.Equal(t, DTypeInt64, clamped.DType())

	mixed := c.Map(func(v Value) Value { return String("x") })
	assert.Equal(t, DTypeString, mixed.DType())
}

func TestCompareTotalOrder(t *testing.T) {
	assert.Negative(t, Compare(Bool(true), Int(0)))
	assert.Negative(t, Compare(Int(5), String("a")))
	assert.Negative(t, Compare(String("z"), Null{}))
	assert.Negative(t, Compare(Int(1), Float(1.5)))
	assert.Zero(t, Compare(Int(2), Float(2)))
	assert.Zero(t, Compare(Null{}, Float(math.NaN())))
}

func TestLabelsMonotonic(t *testing.T) {
	assert.True(t, NewLabels(Values(1, 2, 2, 3)).IsMonotonicIncreasing())
	assert.True(t, NewLabels(Values(3, 2, 1)).IsMonotonicDecreasing())
	l := NewLabels(Values(3, 1, 2))
	assert.False(t, l.IsMonotonicIncreasing())
	assert.False(t, l.IsMonotonicDecreasing())

	sorted := l.SortAscending()
	assert.Equal(t, Values(1, 2, 3), sorted.Values())
	assert.Equal(t, Values(3, 1, 2), l.Values(), "receiver untouched")
}

func TestLabelsSortNullsLast(t *testing.T) {
	l := NewLabels(Values(nil, 2, 1), "k").SortAscending()
	assert.Equal(t, Values(1, 2, nil), l.Values())
	assert.Equal(t, []string{"k"}, l.Names())
	assert.True(t, l.IsMonotonicIncreasing())
}

func TestLabelsSetNamesInPlace(t *testing.T) {
	l := NewLabels(Values(1, 2))
	alias := l
	l.SetNames([]string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, alias.Names())

	names := alias.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, l.Names(), "Names returns a copy")
}

func TestTableColumnsAndAssignment(t *testing.T) {
	tbl := MustTable(NewColumn("a", Values(1, 2)), NewColumn("b", Values("x", "y")))
	assert.Equal(t, []string{"a", "b"}, tbl.ColumnNames())
	assert.True(t, tbl.Has("a"))
	assert.False(t, tbl.Has("c"))

	out, err := tbl.WithColumn(NewNullColumn("c", 2))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, out.ColumnNames())
	assert.False(t, tbl.Has("c"), "receiver untouched")

	replaced, err := out.WithColumn(NewColumn("a", Values(9, 9)))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, replaced.ColumnNames(), "replacement keeps position")
	col, ok := replaced.Column("a")
	require.True(t, ok)
	assert.Equal(t, Values(9, 9), col.Values())

	_, err = tbl.WithColumn(NewColumn("d", Values(1)))
	assert.ErrorIs(t, err, ErrLength)
}

func TestTableColumnCarriesRowLabels(t *testing.T) {
	labels := NewLabels(Values("r1", "r2"), "row")
	tbl, err := NewTableWithLabels(labels, NewColumn("a", Values(1, 2)))
	require.NoError(t, err)

	col, ok := tbl.Column("a")
	require.True(t, ok)
	assert.Same(t, labels, col.Labels())
}

func TestTableCastAllOrNothing(t *testing.T) {
	tbl := MustTable(NewColumn("a", Values(1, 2)), NewColumn("b", Values("x", "1")))

	_, err := tbl.Cast(map[string]DType{"a": DTypeFloat64, "b": DTypeInt64})
	require.ErrorIs(t, err, ErrCast)
	assert.Equal(t, DTypeInt64, tbl.DTypes()["a"])

	_, err = tbl.Cast(map[string]DType{"missing": DTypeFloat64})
	assert.ErrorIs(t, err, ErrNoColumn)

	out, err := tbl.Cast(map[string]DType{"a": DTypeFloat64})
	require.NoError(t, err)
	assert.Equal(t, DTypeFloat64, out.DTypes()["a"])
	assert.Equal(t, DTypeString, out.DTypes()["b"])
}

func TestNewTableRejectsDuplicateColumns(t *testing.T) {
	_, err := NewTable(NewColumn("a", Values(1)), NewColumn("a", Values(2)))
	assert.Error(t, err)
}

func TestFingerprintStable(t *testing.T) {
	a := MustTable(NewColumn("x", Values(1, 2.5, "s", nil, true)))
	b := MustTable(NewColumn("x", Values(1, 2.5, "s", nil, true)))
	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
	assert.Len(t, fa, 64)

	c := MustTable(NewColumn("x", Values(1.0, 2.5, "s", nil, true)))
	fc, err := Fingerprint(c)
	require.NoError(t, err)
	assert.NotEqual(t, fa, fc, "Int and Float encode differently")
}

func TestFingerprintNFC(t *testing.T) {
	composed := NewLabels(Values("caf\u00e9"))
	decomposed := NewLabels(Values("cafe\u0301"))
	fa, err := Fingerprint(composed)
	require.NoError(t, err)
	fb, err := Fingerprint(decomposed)
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
}

func TestMarshalCanonicalKeyOrder(t *testing.T) {
	data, err := MarshalCanonical(NewLabels(Values(1), "k"))
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"labels","names":["k"],"values":[{"i":1}]}`, string(data))
}

func TestReadCSVInfersDTypes(t *testing.T) {
	in := "id,qty,price,ok,name,blank\n" +
		"a,1,1.5,true,x,\n" +
		"b,,2,false,y,\n"
	tbl, err := ReadCSV(strings.NewReader(in), CSVOptions{LabelColumn: "id"})
	require.NoError(t, err)

	assert.Equal(t, []string{"qty", "price", "ok", "name", "blank"}, tbl.ColumnNames())
	assert.Equal(t, map[string]DType{
		"qty":   DTypeInt64,
		"price": DTypeFloat64,
		"ok":    DTypeBool,
		"name":  DTypeString,
		"blank": DTypeObject,
	}, tbl.DTypes())
	assert.Equal(t, Values("a", "b"), tbl.Labels().Values())
	assert.Equal(t, []string{"id"}, tbl.Labels().Names())

	qty, _ := tbl.Column("qty")
	assert.True(t, IsNull(qty.At(1)))
}

func TestReadCSVMissingLabelColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a\n1\n"), CSVOptions{LabelColumn: "id"})
	assert.ErrorIs(t, err, ErrNoColumn)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	in := "id,qty\na,1\nb,\n"
	tbl, err := ReadCSV(strings.NewReader(in), CSVOptions{LabelColumn: "id"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl, "id"))
	assert.Equal(t, in, buf.String())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindTable, KindOf[*Table]())
	assert.Equal(t, KindColumn, KindOf[*Column]())
	assert.Equal(t, KindLabels, KindOf[*Labels]())
}
