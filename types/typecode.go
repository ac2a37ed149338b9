package types

// TypeCode identifies the tag of a script value
type TypeCode int

const (
	TYPE_BOOL TypeCode = iota
	TYPE_INT
	TYPE_FLOAT
	TYPE_STR
	TYPE_POINT3
	TYPE_POINT4
	TYPE_MATRIX3
	TYPE_MATRIX4
	TYPE_BITSET
	TYPE_BYTES
	TYPE_LIST
	TYPE_MAP
	TYPE_CONTEXT
)

var typeNames = [...]string{
	TYPE_BOOL:    "boolean",
	TYPE_INT:     "integer",
	TYPE_FLOAT:   "decimal",
	TYPE_STR:     "string",
	TYPE_POINT3:  "point",
	TYPE_POINT4:  "point4",
	TYPE_MATRIX3: "matrix3f",
	TYPE_MATRIX4: "matrix4f",
	TYPE_BITSET:  "bitset",
	TYPE_BYTES:   "bytearray",
	TYPE_LIST:    "array",
	TYPE_MAP:     "hash",
	TYPE_CONTEXT: "context",
}

// String returns the script-visible name of the type
func (t TypeCode) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// IsNumeric reports whether values of this type are plain numbers
func (t TypeCode) IsNumeric() bool {
	return t == TYPE_INT || t == TYPE_FLOAT
}

// IsContainer reports whether values of this type share storage by reference
func (t TypeCode) IsContainer() bool {
	switch t {
	case TYPE_BITSET, TYPE_BYTES, TYPE_LIST, TYPE_MAP, TYPE_CONTEXT:
		return true
	}
	return false
}
