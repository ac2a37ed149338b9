package types

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// FromExternal converts a host object into a script value. Anything not
// recognized falls back to its string form.
func FromExternal(o any) Value {
	v, _ := classify(o)
	return v
}

// IsScriptValue reports whether o converts without the string fallback
func IsScriptValue(o any) bool {
	_, ok := classify(o)
	return ok
}

func classify(o any) (Value, bool) {
	switch x := o.(type) {
	case nil:
		return EmptyStr, true
	case Value:
		return x, true
	case bool:
		return NewBool(x), true
	case int:
		return NewInt(x), true
	case int8:
		return NewInt(int(x)), true
	case int16:
		return NewInt(int(x)), true
	case int32:
		return NewInt(int(x)), true
	case int64:
		return NewInt(int(x)), true
	case uint8:
		return NewInt(int(x)), true
	case uint16:
		return NewInt(int(x)), true
	case uint32:
		return NewInt(int(x)), true
	case float32:
		return NewFloat(float64(x)), true
	case float64:
		return NewFloat(x), true
	case string:
		return NewStr(x), true
	case []byte:
		return NewBytes(x), true
	case *bitset.BitSet:
		return NewBitSet(x), true
	case [3]float64:
		return NewPoint3(x[0], x[1], x[2]), true
	case [4]float64:
		return NewPoint4(x[0], x[1], x[2], x[3]), true
	case [3][3]float64:
		return Matrix3Value{M: x}, true
	case [4][4]float64:
		return Matrix4Value{M: x}, true
	case []Value:
		return NewList(x), true
	case []float64:
		return FloatList(x), true
	case []float32:
		l := NewEmptyList(len(x))
		for _, f := range x {
			l.Append(NewFloat(float64(f)))
		}
		return l, true
	case []int:
		l := NewEmptyList(len(x))
		for _, n := range x {
			l.Append(NewInt(n))
		}
		return l, true
	case []string:
		return StringList(x), true
	case [][]float64:
		l := NewEmptyList(len(x))
		for _, row := range x {
			l.Append(FloatList(row))
		}
		return l, true
	case []any:
		l := NewEmptyList(len(x))
		for _, e := range x {
			l.Append(FromExternal(e))
		}
		return l, true
	case map[string]Value:
		return MapOf(x), true
	case map[string]any:
		m := NewMap()
		for k, e := range x {
			m.Set(k, FromExternal(e))
		}
		return m, true
	case fmt.Stringer:
		return NewStr(x.String()), false
	}
	return NewStr(fmt.Sprint(o)), false
}
