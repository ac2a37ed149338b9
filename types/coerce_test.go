package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthiness(t *testing.T) {
	tests := []struct {
		name string
		val  Value
		want bool
	}{
		{"true", True, true},
		{"false", False, false},
		{"int zero", NewInt(0), false},
		{"int nonzero", NewInt(-3), true},
		{"float tiny", NewFloat(0.00005), false},
		{"float small", NewFloat(0.001), true},
		{"empty string", NewStr(""), false},
		{"string false", NewStr("false"), false},
		{"string FALSE", NewStr("FALSE"), false},
		{"string true", NewStr("true"), true},
		{"string zero", NewStr("0"), false},
		{"string number", NewStr("2.5"), true},
		{"string text", NewStr("abc"), true},
		{"empty list", NewList(nil), false},
		{"list", NewList([]Value{NewInt(0)}), true},
		{"origin", NewPoint3(0, 0, 0), false},
		{"point", NewPoint3(0, 0, 1), true},
		{"plane through origin", NewPoint4(0, 0, 1, 0), false},
		{"plane off origin", NewPoint4(0, 0, 1, 2), true},
		{"identity matrix", Identity3(), false},
		{"translation", translation(1, 0, 0), true},
		{"empty bitset", BitSetOf(), false},
		{"bitset", BitSetOf(4), true},
		{"empty map", NewMap(), true},
		{"context", NewContext(nil, ""), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AsBoolean(tt.val))
			assert.Equal(t, tt.want, tt.val.Truthy())
		})
	}
}

func translation(x, y, z float64) Matrix4Value {
	m := Identity4()
	m.M[0][3], m.M[1][3], m.M[2][3] = x, y, z
	return m
}

func TestAsFloat(t *testing.T) {
	assert.Equal(t, 1.0, AsFloat(True))
	assert.Equal(t, 3.0, AsFloat(NewList([]Value{NewInt(1), NewInt(1), NewInt(1)})))
	assert.Equal(t, 5.0, AsFloat(NewPoint3(3, 4, 0)))
	assert.InDelta(t, 2.0, AsFloat(NewPoint4(0, 0, 2, 4)), 1e-9)
	assert.Equal(t, 0.0, AsFloat(Identity3()))
	assert.InDelta(t, 5.0, AsFloat(translation(3, 4, 0)), 1e-9)
	assert.Equal(t, 2.0, AsFloat(BitSetOf(1, 7)))
	assert.Equal(t, 12.5, AsFloat(NewStr("  12.5abc")))
	assert.True(t, math.IsNaN(AsFloat(NewStr("abc"))))
	assert.Equal(t, 0.0, AsFloat(NewStr("false")))
	assert.Equal(t, 1.0, AsFloat(NewStr("TRUE")))
}

func TestAsInt(t *testing.T) {
	assert.Equal(t, 2, AsInt(NewFloat(2.9)))
	assert.Equal(t, 0, AsInt(NewStr("abc")))
	assert.Equal(t, 42, AsInt(NewStr("42")))
	assert.Equal(t, 3, AsInt(BitSetOf(0, 1, 2)))
	assert.Equal(t, 2, AsInt(NewBytes([]byte{1, 2})))
}

func TestAsStringDefaults(t *testing.T) {
	assert.Equal(t, "3", AsString(NewInt(3)))
	assert.Equal(t, "3.0", AsString(NewFloat(3)))
	assert.Equal(t, "{1.0 2.0 3.5}", AsString(NewPoint3(1, 2, 3.5)))
	assert.Equal(t, "({0 2:5})", AsString(BitSetOf(0, 2, 3, 4, 5)))
	assert.Equal(t, "[{1}]", AsString(NewBondSet(BitSetOf(1).Bits)))
	assert.Equal(t, "a\nb", AsString(StringList([]string{"a", "b"})))
	assert.Equal(t, "[[1.0,0.0,0.0],[0.0,1.0,0.0],[0.0,0.0,1.0]]", AsString(Identity3()))
}

func TestAsPointAndPlane(t *testing.T) {
	p, ok := AsPoint(NewStr("{1 2 3}"))
	require.True(t, ok)
	assert.Equal(t, NewPoint3(1, 2, 3), p)

	_, ok = AsPoint(NewInt(3))
	assert.False(t, ok)

	q, ok := AsPlane(NewStr("{0 0 1 -2}"))
	require.True(t, ok)
	assert.Equal(t, NewPoint4(0, 0, 1, -2), q)
}

func TestAreEqual(t *testing.T) {
	assert.True(t, AreEqual(NewStr("Carbon"), NewStr("CARBON")))
	assert.True(t, AreEqual(NewInt(2), NewFloat(2.0000001)))
	assert.False(t, AreEqual(NewInt(2), NewFloat(2.001)))
	assert.True(t, AreEqual(NewPoint3(1, 2, 3), NewPoint3(1, 2, 3.0000001)))
	assert.True(t, AreEqual(BitSetOf(1, 2), BitSetOf(2, 1)))
	assert.False(t, AreEqual(BitSetOf(1, 2), NewBondSet(BitSetOf(1, 2).Bits)))

	a := NewList([]Value{NewInt(1), NewStr("x")})
	b := NewList([]Value{NewFloat(1), NewStr("X")})
	assert.True(t, AreEqual(a, b))

	m1 := NewMap()
	m1.Set("k", NewInt(1))
	m2 := NewMap()
	m2.Set("k", NewInt(1))
	assert.True(t, AreEqual(m1, m2))
	m2.Set("j", NewInt(1))
	assert.False(t, AreEqual(m1, m2))
	assert.False(t, AreEqual(nil, NewInt(0)))
}

func TestFromExternal(t *testing.T) {
	assert.Equal(t, NewInt(7), FromExternal(int64(7)))
	assert.Equal(t, NewStr("x"), FromExternal("x"))
	assert.Equal(t, NewPoint3(1, 2, 3), FromExternal([3]float64{1, 2, 3}))

	l, ok := FromExternal([]any{1, "a", 2.5}).(*ListValue)
	require.True(t, ok)
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, NewFloat(2.5), l.Get(3))

	m, ok := FromExternal(map[string]any{"n": 1}).(*MapValue)
	require.True(t, ok)
	n, _ := m.Get("n")
	assert.Equal(t, NewInt(1), n)

	assert.True(t, IsScriptValue(3.5))
	assert.False(t, IsScriptValue(struct{ A int }{1}))
	assert.Equal(t, NewStr("{1}"), FromExternal(struct{ A int }{1}))
}
