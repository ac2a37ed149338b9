package types

// BoolValue represents a script boolean
type BoolValue struct {
	Val bool
}

// True and False are the shared boolean values
var (
	True  = BoolValue{Val: true}
	False = BoolValue{Val: false}
)

// NewBool creates a new BoolValue
func NewBool(b bool) BoolValue {
	return BoolValue{Val: b}
}

// Type returns the type code for booleans
func (b BoolValue) Type() TypeCode {
	return TYPE_BOOL
}

// String returns "true" or "false"
func (b BoolValue) String() string {
	if b.Val {
		return "true"
	}
	return "false"
}

// Equal compares loosely, as AreEqual
func (b BoolValue) Equal(other Value) bool {
	return AreEqual(b, other)
}

// Truthy returns the boolean itself
func (b BoolValue) Truthy() bool {
	return b.Val
}
