package types

// Result is the outcome of applying an operator or builtin: either a value
// or a script error
type Result struct {
	Val   Value
	Error *ScriptError
}

// Ok creates a Result carrying a value
func Ok(v Value) Result {
	return Result{Val: v}
}

// Err creates a Result for a failure of the given kind
func Err(kind ErrorKind) Result {
	return Result{Error: NewError(kind, "")}
}

// ErrTok creates a Result for a failure naming the offending token
func ErrTok(kind ErrorKind, tok string) Result {
	return Result{Error: NewError(kind, tok)}
}

// IsError returns true if the result is a failure
func (r Result) IsError() bool {
	return r.Error != nil
}

// Unpack converts the result to Go's value/error convention
func (r Result) Unpack() (Value, error) {
	if r.Error != nil {
		return nil, r.Error
	}
	return r.Val, nil
}
