package types

// ListValue is a script array. Lists are handles: copying the pointer
// shares the elements, and mutation through any holder is visible to all.
type ListValue struct {
	elems []Value
	name  string
}

// NewList creates a new list holding elems (not copied)
func NewList(elems []Value) *ListValue {
	if elems == nil {
		elems = []Value{}
	}
	return &ListValue{elems: elems}
}

// NewEmptyList creates a list with capacity n
func NewEmptyList(n int) *ListValue {
	return &ListValue{elems: make([]Value, 0, n)}
}

// FloatList builds a list of decimals
func FloatList(fs []float64) *ListValue {
	l := NewEmptyList(len(fs))
	for _, f := range fs {
		l.Append(NewFloat(f))
	}
	return l
}

// StringList builds a list of strings
func StringList(ss []string) *ListValue {
	l := NewEmptyList(len(ss))
	for _, s := range ss {
		l.Append(NewStr(s))
	}
	return l
}

// Type returns the type code for arrays
func (l *ListValue) Type() TypeCode {
	return TYPE_LIST
}

// String joins the element strings with newlines
func (l *ListValue) String() string {
	return AsString(l)
}

// Equal compares element-wise
func (l *ListValue) Equal(other Value) bool {
	return AreEqual(l, other)
}

// Truthy follows the length of the list
func (l *ListValue) Truthy() bool {
	return AsBoolean(l)
}

// Name returns the variable name attached to the list
func (l *ListValue) Name() string { return l.name }

// SetName attaches a variable name to the list
func (l *ListValue) SetName(n string) { l.name = n }

// Len returns the number of elements
func (l *ListValue) Len() int {
	return len(l.elems)
}

// Get returns the element at 1-based index i, or nil
func (l *ListValue) Get(i int) Value {
	if i < 1 || i > len(l.elems) {
		return nil
	}
	return l.elems[i-1]
}

// Set stores v at 1-based index i, growing with "" padding as needed
func (l *ListValue) Set(i int, v Value) {
	if i < 1 {
		i = 1
	}
	for len(l.elems) < i {
		l.elems = append(l.elems, EmptyStr)
	}
	l.elems[i-1] = v
}

// Append adds v at the end
func (l *ListValue) Append(v Value) {
	l.elems = append(l.elems, v)
}

// Pop removes and returns the last element, or nil
func (l *ListValue) Pop() Value {
	if len(l.elems) == 0 {
		return nil
	}
	v := l.elems[len(l.elems)-1]
	l.elems = l.elems[:len(l.elems)-1]
	return v
}

// Splice replaces the 1-based inclusive range [i1, i2] with repl
func (l *ListValue) Splice(i1, i2 int, repl []Value) {
	if i1 < 1 {
		i1 = 1
	}
	for len(l.elems) < i1-1 {
		l.elems = append(l.elems, EmptyStr)
	}
	if i2 > len(l.elems) {
		i2 = len(l.elems)
	}
	if i2 < i1-1 {
		i2 = i1 - 1
	}
	out := make([]Value, 0, len(l.elems)-(i2-i1+1)+len(repl))
	out = append(out, l.elems[:i1-1]...)
	out = append(out, repl...)
	out = append(out, l.elems[i2:]...)
	l.elems = out
}

// Elements exposes the backing slice for iteration
func (l *ListValue) Elements() []Value {
	return l.elems
}

// Slice returns a new list holding the 1-based inclusive range [i1, i2]
func (l *ListValue) Slice(i1, i2 int) *ListValue {
	if i1 < 1 {
		i1 = 1
	}
	if i2 > len(l.elems) {
		i2 = len(l.elems)
	}
	if i1 > i2 {
		return NewList(nil)
	}
	out := make([]Value, i2-i1+1)
	copy(out, l.elems[i1-1:i2])
	return NewList(out)
}

// Copy returns a shallow copy
func (l *ListValue) Copy() *ListValue {
	out := make([]Value, len(l.elems))
	copy(out, l.elems)
	return NewList(out)
}
