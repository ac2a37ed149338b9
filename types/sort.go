package types

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Comparator orders values for list sorting. Numbers compare numerically
// whenever either side is numeric; strings lexicographically
// (case-sensitive); arrays shortest first, then by the element at
// ArrayIndex (0-based, negative counts from the end); maps by Key.
type Comparator struct {
	ArrayIndex int
	Key        string
}

// Compare returns -1, 0 or 1
func (c Comparator) Compare(x, y Value) int {
	if x == nil || y == nil {
		switch {
		case x == nil && y == nil:
			return 0
		case x == nil:
			return -1
		}
		return 1
	}
	tx, ty := x.Type(), y.Type()
	if tx != ty {
		if tx.IsNumeric() || ty.IsNumeric() {
			return compareFloats(AsFloat(x), AsFloat(y))
		}
		if tx == TYPE_STR || ty == TYPE_STR {
			return strings.Compare(AsString(x), AsString(y))
		}
	}
	switch tx {
	case TYPE_STR:
		return strings.Compare(AsString(x), AsString(y))
	case TYPE_LIST:
		lx, ly := x.(*ListValue), y.(*ListValue)
		if lx.Len() != ly.Len() {
			if lx.Len() < ly.Len() {
				return -1
			}
			return 1
		}
		i := c.ArrayIndex
		if i < 0 {
			i += lx.Len()
		}
		if i < 0 || i >= lx.Len() {
			return 0
		}
		return c.Compare(lx.Elements()[i], ly.Elements()[i])
	case TYPE_MAP:
		if c.Key != "" {
			a, _ := x.(*MapValue).Get(c.Key)
			b, _ := y.(*MapValue).Get(c.Key)
			return c.Compare(a, b)
		}
	}
	return compareFloats(AsFloat(x), AsFloat(y))
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SortList sorts l in place (stable). arrayPt is the 1-based element used
// to order arrays of arrays; 0 selects the last element.
func SortList(l *ListValue, arrayPt int) *ListValue {
	return SortListBy(l, Comparator{ArrayIndex: arrayPt - 1})
}

// SortListBy sorts l in place with the given comparator
func SortListBy(l *ListValue, c Comparator) *ListValue {
	if l.Len() > 1 {
		slices.SortStableFunc(l.elems, c.Compare)
	}
	return l
}

// ReverseList reverses l in place by swapping
func ReverseList(l *ListValue) *ListValue {
	e := l.elems
	for i, j := 0, len(e)-1; i < j; i, j = i+1, j-1 {
		e[i], e[j] = e[j], e[i]
	}
	return l
}
