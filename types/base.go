package types

import "math"

// Unselected is the selector sentinel meaning "no item selected"
const Unselected = math.MaxInt32

// NoIndex marks the absent second bound of a single-item selection
const NoIndex = math.MinInt32

// Value is the interface all script values implement
type Value interface {
	Type() TypeCode
	String() string   // default string form, as AsString
	Equal(Value) bool // loose equality, as AreEqual
	Truthy() bool     // as AsBoolean
}

// Named is implemented by containers that may carry a variable name used
// in diagnostics and circular-reference labels
type Named interface {
	Name() string
	SetName(string)
}

// epsilon is the tolerance for numeric, point and plane equality
const epsilon = 1e-6
