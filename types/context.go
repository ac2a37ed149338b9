package types

// ContextValue is a saved variable scope: a map of bindings plus the path
// of the script position it was captured from
type ContextValue struct {
	Vars *MapValue
	Path string
	name string
}

// NewContext creates a context over vars
func NewContext(vars *MapValue, path string) *ContextValue {
	if vars == nil {
		vars = NewMap()
	}
	return &ContextValue{Vars: vars, Path: path}
}

// Type returns the type code for contexts
func (c *ContextValue) Type() TypeCode {
	return TYPE_CONTEXT
}

// String returns the escaped form of the bindings
func (c *ContextValue) String() string {
	return AsString(c)
}

// Equal compares the bindings
func (c *ContextValue) Equal(other Value) bool {
	return AreEqual(c, other)
}

// Truthy is always true for contexts
func (c *ContextValue) Truthy() bool {
	return true
}

// Name returns the variable name attached to the context
func (c *ContextValue) Name() string { return c.name }

// SetName attaches a variable name to the context
func (c *ContextValue) SetName(n string) { c.name = n }

// Get looks up a binding
func (c *ContextValue) Get(key string) (Value, bool) {
	return c.Vars.Get(key)
}

// Set stores a binding
func (c *ContextValue) Set(key string, v Value) {
	c.Vars.Set(key, v)
}
