package builtins

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"molscript/model"
	"molscript/selection"
	"molscript/types"
)

func call(t *testing.T, r *Registry, ctx *Context, name string, args ...types.Value) types.Value {
	t.Helper()
	fn, ok := r.Get(name)
	require.True(t, ok, "builtin %s not registered", name)
	res := fn(ctx, args)
	require.False(t, res.IsError(), "%s: %v", name, res.Error)
	return res.Val
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.Has("sqrt"))
	assert.True(t, r.Has("SQRT"))
	assert.False(t, r.Has("nosuch"))

	id, ok := r.GetID("abs")
	require.True(t, ok)
	res := r.CallByID(id, nil, []types.Value{types.NewInt(-3)})
	assert.Equal(t, types.NewInt(3), res.Val)

	names := r.Names()
	assert.Contains(t, names, "distance")
	assert.IsNonDecreasing(t, names)
}

func TestMethodFallsBackToFunction(t *testing.T) {
	r := NewRegistry()
	fn, ok := r.Method("format")
	require.True(t, ok)
	res := fn(nil, []types.Value{types.NewFloat(3.14159), types.NewStr("%5.2f")})
	assert.Equal(t, " 3.14", types.AsString(res.Val))

	fn, ok = r.Method("length")
	require.True(t, ok)
	res = fn(nil, []types.Value{types.NewStr("héllo")})
	assert.Equal(t, types.NewInt(5), res.Val)
}

func TestMathBuiltins(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		name string
		args []types.Value
		want float64
	}{
		{"sqrt", []types.Value{types.NewInt(16)}, 4},
		{"abs", []types.Value{types.NewFloat(-2.5)}, 2.5},
		{"floor", []types.Value{types.NewFloat(-1.5)}, -2},
		{"ceil", []types.Value{types.NewFloat(1.2)}, 2},
		{"round", []types.Value{types.NewFloat(2.5)}, 3},
		{"round", []types.Value{types.NewFloat(3.14159), types.NewInt(2)}, 3.14},
		{"sin", []types.Value{types.NewInt(90)}, 1},
		{"cos", []types.Value{types.NewInt(0)}, 1},
		{"acos", []types.Value{types.NewInt(0)}, 90},
		{"atan2", []types.Value{types.NewInt(1), types.NewInt(1)}, 45},
		{"pow", []types.Value{types.NewInt(2), types.NewInt(10)}, 1024},
		{"min", []types.Value{types.NewInt(3), types.NewFloat(1.5), types.NewInt(2)}, 1.5},
		{"max", []types.Value{types.FloatList([]float64{4, 9, 2})}, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := call(t, r, nil, tt.name, tt.args...)
			assert.InDelta(t, tt.want, types.AsFloat(got), 1e-9)
		})
	}
}

func TestRoundingKeepsIntegers(t *testing.T) {
	r := NewRegistry()
	assert.IsType(t, types.IntValue{}, call(t, r, nil, "floor", types.NewFloat(2.7)))
	assert.IsType(t, types.IntValue{}, call(t, r, nil, "abs", types.NewInt(-2)))
	assert.IsType(t, types.FloatValue{}, call(t, r, nil, "round", types.NewFloat(2.75), types.NewInt(1)))
}

func TestBadArgumentCount(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"sqrt", "pow", "distance", "angle", "push"} {
		fn, _ := r.Get(name)
		res := fn(nil, nil)
		require.True(t, res.IsError(), name)
		assert.Equal(t, types.E_BAD_ARGUMENT_COUNT, res.Error.Kind, name)
	}
}

func TestStringBuiltins(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, "12 atoms", types.AsString(call(t, r, nil, "format", types.NewStr("%d atoms"), types.NewInt(12))))
	assert.Equal(t, "a-b-c", types.AsString(call(t, r, nil, "join", types.StringList([]string{"a", "b", "c"}), types.NewStr("-"))))

	parts := call(t, r, nil, "split", types.NewStr("x,y,z"), types.NewStr(","))
	assert.True(t, types.AreEqual(types.StringList([]string{"x", "y", "z"}), parts))
	lines := call(t, r, nil, "split", types.NewStr("one\ntwo"))
	assert.Equal(t, 2, lines.(*types.ListValue).Len())
	chars := call(t, r, nil, "split", types.NewStr("abc"), types.NewStr(""))
	assert.Equal(t, 3, chars.(*types.ListValue).Len())

	assert.Equal(t, "pad", types.AsString(call(t, r, nil, "trim", types.NewStr("  pad \t"))))
	assert.Equal(t, "pad", types.AsString(call(t, r, nil, "trim", types.NewStr("xxpadx"), types.NewStr("x"))))
	assert.Equal(t, "ca", types.AsString(call(t, r, nil, "lc", types.NewStr("CA"))))
	assert.Equal(t, "CA", types.AsString(call(t, r, nil, "uc", types.NewStr("ca"))))
}

func TestLengthOfContainers(t *testing.T) {
	r := NewRegistry()
	m := types.NewMap()
	m.Set("a", types.NewInt(1))
	tests := []struct {
		v    types.Value
		want int
	}{
		{types.NewStr("abc"), 3},
		{types.FloatList([]float64{1, 2}), 2},
		{m, 1},
		{types.BitSetOf(1, 4, 7), 3},
		{types.NewBytes([]byte{1, 2, 3, 4}), 4},
		{types.NewInt(12345), 5},
	}
	for _, tt := range tests {
		assert.Equal(t, types.NewInt(tt.want), call(t, r, nil, "size", tt.v))
	}
}

func TestListBuiltins(t *testing.T) {
	r := NewRegistry()
	l := call(t, r, nil, "array", types.NewInt(3), types.NewInt(1), types.NewInt(2)).(*types.ListValue)
	assert.Equal(t, 3, l.Len())

	sorted := call(t, r, nil, "sort", l)
	assert.Same(t, l, sorted)
	assert.True(t, types.AreEqual(types.NewList([]types.Value{types.NewInt(1), types.NewInt(2), types.NewInt(3)}), l))

	call(t, r, nil, "reverse", l)
	assert.Equal(t, types.NewInt(3), l.Get(1))
	assert.Equal(t, "cba", types.AsString(call(t, r, nil, "reverse", types.NewStr("abc"))))

	call(t, r, nil, "push", l, types.NewStr("x"))
	assert.Equal(t, 4, l.Len())
	assert.Equal(t, "x", types.AsString(call(t, r, nil, "pop", l)))
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, "", types.AsString(call(t, r, nil, "pop", types.NewList(nil))))
}

func TestKeys(t *testing.T) {
	r := NewRegistry()
	m := types.NewMap()
	m.Set("b", types.NewInt(2))
	m.Set("a", types.NewInt(1))
	keys := call(t, r, nil, "keys", m)
	assert.True(t, types.AreEqual(types.StringList([]string{"a", "b"}), keys))

	ctxv := types.NewContext(m, "script")
	keys = call(t, r, nil, "keys", ctxv)
	assert.True(t, types.AreEqual(types.StringList([]string{"a", "b"}), keys))

	fn, _ := r.Get("keys")
	res := fn(nil, []types.Value{types.NewInt(1)})
	assert.Equal(t, types.E_INVALID_ARGUMENT, res.Error.Kind)
}

func TestPointAndPlane(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, types.NewPoint3(1, 2, 3), call(t, r, nil, "point", types.NewInt(1), types.NewInt(2), types.NewInt(3)))
	assert.Equal(t, types.NewPoint3(1, 2, 3), call(t, r, nil, "point", types.NewStr("{1 2 3}")))
	assert.Equal(t, types.NewPoint4(0, 0, 1, -2), call(t, r, nil, "point", types.NewInt(0), types.NewInt(0), types.NewInt(1), types.NewInt(-2)))

	plane := call(t, r, nil, "plane",
		types.NewPoint3(0, 0, 2), types.NewPoint3(1, 0, 2), types.NewPoint3(0, 1, 2)).(types.Point4Value)
	assert.InDelta(t, 1, plane.Z, 1e-9)
	assert.InDelta(t, -2, plane.W, 1e-9)
	assert.InDelta(t, 0, plane.DistanceTo(types.NewPoint3(5, 5, 2)), 1e-9)
}

func TestDistanceAndAngle(t *testing.T) {
	r := NewRegistry()
	d := call(t, r, nil, "distance", types.NewPoint3(0, 0, 0), types.NewPoint3(3, 4, 0))
	assert.InDelta(t, 5, types.AsFloat(d), 1e-9)

	d = call(t, r, nil, "distance", types.NewPoint3(0, 0, 5), types.NewPoint4(0, 0, 1, -2))
	assert.InDelta(t, 3, types.AsFloat(d), 1e-9)

	a := call(t, r, nil, "angle", types.NewPoint3(1, 0, 0), types.NewPoint3(0, 0, 0), types.NewPoint3(0, 1, 0))
	assert.InDelta(t, 90, types.AsFloat(a), 1e-9)

	a = call(t, r, nil, "angle", types.NewPoint3(1, 0, 0), types.NewPoint3(1, 0, 0), types.NewPoint3(0, 1, 0))
	assert.True(t, math.IsNaN(types.AsFloat(a)))
}

func TestDistanceBetweenSelections(t *testing.T) {
	store, err := model.Parse([]byte(`
atoms:
  - {name: C1, element: C, xyz: [0, 0, 0]}
  - {name: C2, element: C, xyz: [2, 0, 0]}
  - {name: O1, element: O, xyz: [1, 4, 0]}
`))
	require.NoError(t, err)
	ctx := &Context{Selection: selection.New(store, zap.NewNop())}
	r := NewRegistry()

	d := call(t, r, ctx, "distance", types.BitSetOf(0, 1), types.BitSetOf(2))
	assert.InDelta(t, 4, types.AsFloat(d), 1e-9)

	p := call(t, r, ctx, "point", types.BitSetOf(0, 1))
	assert.Equal(t, types.NewPoint3(1, 0, 0), p)

	fn, _ := r.Get("distance")
	res := fn(nil, []types.Value{types.BitSetOf(0), types.NewPoint3(0, 0, 0)})
	assert.Equal(t, types.E_INVALID_ARGUMENT, res.Error.Kind)
}
