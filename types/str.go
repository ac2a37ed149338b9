package types

// StrValue represents a script string
type StrValue struct {
	val string
}

// NewStr creates a new string value
func NewStr(s string) StrValue {
	return StrValue{val: s}
}

// EmptyStr is the neutral value returned by out-of-range selections
var EmptyStr = StrValue{}

// String returns the raw string; use Escape for the quoted form
func (s StrValue) String() string {
	return s.val
}

// Type returns the type code for strings
func (s StrValue) Type() TypeCode {
	return TYPE_STR
}

// Truthy follows the numeric reading of the string
func (s StrValue) Truthy() bool {
	return AsBoolean(s)
}

// Equal compares case-insensitively against other strings
func (s StrValue) Equal(other Value) bool {
	return AreEqual(s, other)
}

// Value returns the internal string value
func (s StrValue) Value() string {
	return s.val
}

// Len returns the length in runes
func (s StrValue) Len() int {
	return len([]rune(s.val))
}
