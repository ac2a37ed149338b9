package types

import (
	"bytes"
	"math"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// Fold returns the case-folded form of s
func Fold(s string) string {
	return folder.String(s)
}

// FoldEqual compares strings under Unicode case folding
func FoldEqual(a, b string) bool {
	if a == b {
		return true
	}
	return folder.String(a) == folder.String(b)
}

// AreEqual is the script's loose equality: case-insensitive strings, a
// 1e-6 tolerance for numbers, points and planes, exact matrices and
// structural containers. Mixed tags compare numerically.
func AreEqual(a, b Value) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Type() == b.Type() {
		switch x := a.(type) {
		case StrValue:
			return FoldEqual(x.val, b.(StrValue).val)
		case Point3Value:
			return x.Distance(b.(Point3Value)) < epsilon
		case Point4Value:
			return x.distance4(b.(Point4Value)) < epsilon
		case Matrix3Value:
			return x.M == b.(Matrix3Value).M
		case Matrix4Value:
			return x.M == b.(Matrix4Value).M
		case BitSetValue:
			y := b.(BitSetValue)
			return x.Bond == y.Bond && SameBits(x.Selected(), y.Selected())
		case BytesValue:
			return bytes.Equal(x.Data, b.(BytesValue).Data)
		case *ListValue:
			return listsEqual(x, b.(*ListValue), map[*ListValue]bool{})
		case *MapValue:
			return mapsEqual(x, b.(*MapValue))
		case *ContextValue:
			return mapsEqual(x.Vars, b.(*ContextValue).Vars)
		}
	}
	return math.Abs(AsFloat(a)-AsFloat(b)) < epsilon
}

func listsEqual(a, b *ListValue, seen map[*ListValue]bool) bool {
	if a == b {
		return true
	}
	if a.Len() != b.Len() {
		return false
	}
	if seen[a] {
		return true
	}
	seen[a] = true
	for i, e := range a.Elements() {
		f := b.Elements()[i]
		if la, ok := e.(*ListValue); ok {
			lb, ok := f.(*ListValue)
			if !ok || !listsEqual(la, lb, seen) {
				return false
			}
			continue
		}
		if !AreEqual(e, f) {
			return false
		}
	}
	return true
}

func mapsEqual(a, b *MapValue) bool {
	if a == b {
		return true
	}
	if a.Len() != b.Len() {
		return false
	}
	for k, v := range a.entries {
		w, ok := b.entries[k]
		if !ok || !AreEqual(v, w) {
			return false
		}
	}
	return true
}
