package value_test

import (
	"math"
	"testing"

	"github.com/aretw0/navbridge/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapping_KeepsInsertionOrder(t *testing.T) {
	m := value.NewMapping().
		Set("b", value.Int(1)).
		Set("a", value.Int(2)).
		Set("c", value.Null())

	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())

	m.Set("b", value.Int(3))
	assert.Equal(t, []string{"b", "a", "c"}, m.Keys(), "replacing a key must not move it")
	got, ok := m.Get("b")
	require.True(t, ok)
	assert.True(t, value.Equal(value.Int(3), got))

	assert.True(t, m.Has("c"), "null entries are still present")
	assert.False(t, m.Has("missing"))
}

func TestValue_ZeroIsNull(t *testing.T) {
	var v value.Value
	assert.True(t, v.IsNull())
	assert.Equal(t, value.KindNull, v.Kind())
}

func TestValue_NoNumericCoercion(t *testing.T) {
	i := value.Int(2)
	d := value.Double(2)

	assert.False(t, value.Equal(i, d))

	_, ok := i.AsDouble()
	assert.False(t, ok)
	n, ok := i.AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 2.0, n)
}

func TestValue_Optionals(t *testing.T) {
	s := "x"
	f := 1.5
	var n int64 = 7

	assert.True(t, value.OptionalString(nil).IsNull())
	assert.True(t, value.OptionalDouble(nil).IsNull())
	assert.True(t, value.OptionalInt(nil).IsNull())
	assert.True(t, value.Equal(value.String("x"), value.OptionalString(&s)))
	assert.True(t, value.Equal(value.Double(1.5), value.OptionalDouble(&f)))
	assert.True(t, value.Equal(value.Int(7), value.OptionalInt(&n)))
}

func TestValue_NilCollectionsAreEmpty(t *testing.T) {
	seq := value.Sequence()
	items, ok := seq.AsSequence()
	require.True(t, ok)
	assert.NotNil(t, items)
	assert.Equal(t, 0, seq.Len())

	m := value.Map(nil)
	assert.Equal(t, value.KindMapping, m.Kind())
	assert.Equal(t, 0, m.Len())
}

func TestValue_Get(t *testing.T) {
	v := value.Map(value.NewMapping().Set("k", value.String("v")))
	assert.True(t, value.Equal(value.String("v"), v.Get("k")))
	assert.True(t, v.Get("missing").IsNull())
	assert.True(t, value.Int(1).Get("k").IsNull())
}

func TestEqual_Nested(t *testing.T) {
	build := func(lat float64) value.Value {
		return value.Map(value.NewMapping().
			Set("points", value.Sequence(
				value.Map(value.NewMapping().Set("latitude", value.Double(lat))),
			)))
	}
	assert.True(t, value.Equal(build(1), build(1)))
	assert.False(t, value.Equal(build(1), build(2)))

	a := value.Map(value.NewMapping().Set("x", value.Null()).Set("y", value.Null()))
	b := value.Map(value.NewMapping().Set("y", value.Null()).Set("x", value.Null()))
	assert.False(t, value.Equal(a, b), "key order is part of a mapping")
}

func TestMarshalJSON(t *testing.T) {
	v := value.Map(value.NewMapping().
		Set("z", value.Int(1)).
		Set("a", value.Double(2)).
		Set("s", value.String("q\"")).
		Set("n", value.Null()).
		Set("b", value.Bool(true)).
		Set("nan", value.Double(math.NaN())).
		Set("l", value.Sequence(value.Double(0.5), value.Int(-3))))

	data, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2.0,"s":"q\"","n":null,"b":true,"nan":null,"l":[0.5,-3]}`, string(data))
}

type kindCounter struct{}

func (kindCounter) VisitNull() string                  { return "null" }
func (kindCounter) VisitBool(bool) string              { return "bool" }
func (kindCounter) VisitInt(int64) string              { return "int" }
func (kindCounter) VisitDouble(float64) string         { return "double" }
func (kindCounter) VisitString(string) string          { return "string" }
func (kindCounter) VisitSequence([]value.Value) string { return "sequence" }
func (kindCounter) VisitMapping(*value.Mapping) string { return "mapping" }

func TestVisit_DispatchesEveryKind(t *testing.T) {
	cases := []value.Value{
		value.Null(), value.Bool(false), value.Int(0), value.Double(0),
		value.String(""), value.Sequence(), value.Map(nil),
	}
	for _, c := range cases {
		assert.Equal(t, c.Kind().String(), value.Visit[string](c, kindCounter{}))
	}
}
