package types

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// AsBoolean is the total truthiness coercion.
// Integers are true when nonzero; decimals, points, planes and matrices
// when abs(AsFloat) exceeds 1e-4; strings and arrays when AsFloat is
// nonzero (so "abc", reading as NaN, is true); bit-sets and byte arrays
// when non-empty; maps and contexts always.
func AsBoolean(v Value) bool {
	switch x := v.(type) {
	case nil:
		return false
	case BoolValue:
		return x.Val
	case IntValue:
		return x.Val != 0
	case FloatValue, Point3Value, Point4Value, Matrix3Value, Matrix4Value:
		return math.Abs(AsFloat(v)) > 0.0001
	case StrValue, *ListValue:
		return AsFloat(v) != 0
	case BitSetValue, BytesValue:
		return AsInt(v) != 0
	case *MapValue, *ContextValue:
		return true
	}
	return false
}

// AsInt is the total integer coercion; non-finite readings become 0
func AsInt(v Value) int {
	switch x := v.(type) {
	case nil:
		return 0
	case BoolValue:
		if x.Val {
			return 1
		}
		return 0
	case IntValue:
		return x.Val
	case BitSetValue:
		return x.Cardinality()
	case BytesValue:
		return len(x.Data)
	case *MapValue, *ContextValue:
		return 0
	}
	f := AsFloat(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// AsFloat is the total decimal coercion
func AsFloat(v Value) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case BoolValue:
		if x.Val {
			return 1
		}
		return 0
	case IntValue:
		return float64(x.Val)
	case FloatValue:
		return x.Val
	case StrValue:
		return StringToFloat(x.val)
	case *ListValue:
		return float64(x.Len())
	case BitSetValue:
		return float64(x.Cardinality())
	case BytesValue:
		return float64(len(x.Data))
	case Point3Value:
		return x.Length()
	case Point4Value:
		return x.DistanceTo(Point3Value{})
	case Matrix3Value:
		return x.Transform(Point3Value{}).Length()
	case Matrix4Value:
		return x.Transform(Point3Value{}).Length()
	}
	return 0
}

// StringToFloat reads "true" as 1, "" and "false" as 0, and anything else
// with a permissive numeric parse that yields NaN when no number leads
func StringToFloat(s string) float64 {
	switch {
	case strings.EqualFold(s, "true"):
		return 1
	case s == "" || strings.EqualFold(s, "false"):
		return 0
	}
	return ParseFloat(s)
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseFloat parses the longest numeric prefix of s after leading
// whitespace, returning NaN when there is none
func ParseFloat(s string) float64 {
	s = strings.TrimLeft(s, " \t\r\n")
	m := leadingNumber.FindString(s)
	if m == "" {
		switch {
		case strings.HasPrefix(s, "NaN"):
			return math.NaN()
		case strings.HasPrefix(s, "Infinity"):
			return math.Inf(1)
		case strings.HasPrefix(s, "-Infinity"):
			return math.Inf(-1)
		}
		return math.NaN()
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ParseInt parses a whole-number string, reporting success
func ParseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}

// AsString is the total string coercion
func AsString(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case StrValue:
		return x.val
	case *ListValue:
		parts := make([]string, x.Len())
		for i, e := range x.Elements() {
			if e != nil && e.Type().IsContainer() && e.Type() != TYPE_BITSET {
				parts[i] = Format(e, FormatOptions{Escaped: true, Compact: true})
			} else {
				parts[i] = AsString(e)
			}
		}
		return strings.Join(parts, "\n")
	case *MapValue, *ContextValue:
		return Format(v, FormatOptions{Escaped: true, Compact: true})
	}
	return v.String()
}

// AsPoint coerces to a 3D point; only points, planes (xyz part) and
// strings in brace form succeed
func AsPoint(v Value) (Point3Value, bool) {
	switch x := v.(type) {
	case Point3Value:
		return x, true
	case Point4Value:
		return x.Normal(), true
	case StrValue:
		if p, ok := Unescape(x.val).(Point3Value); ok {
			return p, true
		}
	}
	return Point3Value{}, false
}

// AsPlane coerces to a 4D point; only planes and strings in brace form
// succeed
func AsPlane(v Value) (Point4Value, bool) {
	switch x := v.(type) {
	case Point4Value:
		return x, true
	case StrValue:
		if p, ok := Unescape(x.val).(Point4Value); ok {
			return p, true
		}
	}
	return Point4Value{}, false
}

// AsBitSet extracts a selection, reporting whether v is a bit-set
func AsBitSet(v Value) (BitSetValue, bool) {
	b, ok := v.(BitSetValue)
	return b, ok
}

// AsList returns the list, or wraps a scalar in a one-element list
func AsList(v Value) *ListValue {
	if l, ok := v.(*ListValue); ok {
		return l
	}
	if v == nil {
		return NewList(nil)
	}
	return NewList([]Value{v})
}

// FloatsOf reads a list as decimals
func FloatsOf(l *ListValue) []float64 {
	out := make([]float64, l.Len())
	for i, e := range l.Elements() {
		out[i] = AsFloat(e)
	}
	return out
}
