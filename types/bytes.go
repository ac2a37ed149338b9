package types

import (
	"encoding/base64"
)

// BytesValue is a byte array; Data is shared storage
type BytesValue struct {
	Data []byte
}

// NewBytes creates a new BytesValue
func NewBytes(b []byte) BytesValue {
	return BytesValue{Data: b}
}

// Type returns the type code for byte arrays
func (b BytesValue) Type() TypeCode {
	return TYPE_BYTES
}

// String returns the base64 form used by escaped output
func (b BytesValue) String() string {
	return ";base64," + base64.StdEncoding.EncodeToString(b.Data)
}

// Equal compares contents
func (b BytesValue) Equal(other Value) bool {
	return AreEqual(b, other)
}

// Truthy is true for a non-empty array
func (b BytesValue) Truthy() bool {
	return len(b.Data) != 0
}
