package types

import "strconv"

// IntValue represents a script integer
type IntValue struct {
	Val int
}

// NewInt creates a new IntValue
func NewInt(val int) IntValue {
	return IntValue{Val: val}
}

// Type returns the type code for integers
func (i IntValue) Type() TypeCode {
	return TYPE_INT
}

// String returns the decimal representation
func (i IntValue) String() string {
	return strconv.Itoa(i.Val)
}

// Equal compares loosely, as AreEqual
func (i IntValue) Equal(other Value) bool {
	return AreEqual(i, other)
}

// Truthy is true for any nonzero integer
func (i IntValue) Truthy() bool {
	return i.Val != 0
}
