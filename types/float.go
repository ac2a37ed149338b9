package types

import (
	"math"
	"strconv"
	"strings"
)

// FloatValue represents a script decimal
type FloatValue struct {
	Val float64
}

// NewFloat creates a new FloatValue
func NewFloat(val float64) FloatValue {
	return FloatValue{Val: val}
}

// Type returns the type code for decimals
func (f FloatValue) Type() TypeCode {
	return TYPE_FLOAT
}

// String returns the shortest representation, keeping a decimal point
// for whole numbers (3.0 not 3)
func (f FloatValue) String() string {
	return formatFloat(f.Val)
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 1) {
		return "Infinity"
	}
	if math.IsInf(v, -1) {
		return "-Infinity"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Equal compares loosely, as AreEqual
func (f FloatValue) Equal(other Value) bool {
	return AreEqual(f, other)
}

// Truthy is true when the magnitude exceeds 1e-4
func (f FloatValue) Truthy() bool {
	return AsBoolean(f)
}

// IsNaN returns true if the decimal is NaN
func (f FloatValue) IsNaN() bool {
	return math.IsNaN(f.Val)
}
