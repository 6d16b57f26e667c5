package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderObjectOrderPreserved(t *testing.T) {
	b := NewBuilder(Object)
	require.NoError(t, b.AddProperty("z", NewBuilder(Null)))
	require.NoError(t, b.AddProperty("a", NewBuilder(Null)))
	require.NoError(t, b.AddProperty("m", NewBuilder(Null)))

	props := b.Properties()
	require.Len(t, props, 3)
	require.Equal(t, []string{"z", "a", "m"}, []string{props[0].Name, props[1].Name, props[2].Name})
}

func TestBuilderArrayInsertReplaceRemove(t *testing.T) {
	b := NewBuilder(Array)
	require.NoError(t, b.AddArrayItem(NewBuilderFromValue(Str("a"))))
	require.NoError(t, b.AddArrayItem(NewBuilderFromValue(Str("c"))))
	require.NoError(t, b.InsertArrayItem(1, NewBuilderFromValue(Str("b"))))

	items, _ := b.ToValue().Items()
	require.Len(t, items, 3)
	s0, _ := items[0].AsString()
	s1, _ := items[1].AsString()
	s2, _ := items[2].AsString()
	require.Equal(t, "a", s0)
	require.Equal(t, "b", s1)
	require.Equal(t, "c", s2)

	require.NoError(t, b.ReplaceArrayItem(2, NewBuilderFromValue(Str("z"))))
	require.NoError(t, b.RemoveArrayItem(0))
	items, _ = b.ToValue().Items()
	require.Len(t, items, 2)
	s0, _ = items[0].AsString()
	s1, _ = items[1].AsString()
	require.Equal(t, "b", s0)
	require.Equal(t, "z", s1)
}

func TestBuilderArrayOutOfRangeErrors(t *testing.T) {
	b := NewBuilder(Array)
	require.NoError(t, b.AddArrayItem(NewBuilder(Null)))
	require.Error(t, b.ReplaceArrayItem(5, NewBuilder(Null)))
	require.Error(t, b.RemoveArrayItem(5))
	require.Error(t, b.InsertArrayItem(5, NewBuilder(Null)))
}

func TestBuilderCloneIsIndependent(t *testing.T) {
	b := NewBuilder(Object)
	require.NoError(t, b.AddProperty("x", NewBuilderFromValue(NumberFromFloat64(1))))
	clone := b.Clone()
	require.NoError(t, b.AddProperty("y", NewBuilderFromValue(NumberFromFloat64(2))))
	require.Equal(t, 1, clone.Len())
	require.Equal(t, 2, b.Len())
}

func TestAssignPreservesIdentity(t *testing.T) {
	b := NewBuilder(Object)
	other := NewBuilderFromValue(Str("replaced"))
	b.Assign(other)
	require.Equal(t, String, b.Kind())
	s, _ := b.ToValue().AsString()
	require.Equal(t, "replaced", s)
}

func TestFromAnyToAnyRoundTrip(t *testing.T) {
	in := map[string]any{
		"a": 1.0,
		"b": []any{"x", "y"},
		"c": nil,
		"d": true,
	}
	v := FromAny(in)
	out := v.ToAny()
	require.Equal(t, in, out)
}

func TestTryDecimalExactForLiteral(t *testing.T) {
	v, ok := NumberFromLiteral("0.1")
	require.True(t, ok)
	r, ok := v.TryDecimal()
	require.True(t, ok)
	require.Equal(t, "1/10", r.RatString())
}

func TestTryDecimalFallsBackToFloat(t *testing.T) {
	v := NumberFromFloat64(2.5)
	r, ok := v.TryDecimal()
	require.True(t, ok)
	require.Equal(t, "5/2", r.RatString())
}
