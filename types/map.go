package types

import (
	"golang.org/x/exp/slices"
)

// MapValue is a string-keyed associative array. Like lists, maps are
// handles shared by reference. Keys are case-sensitive.
type MapValue struct {
	entries map[string]Value
	name    string
}

// NewMap creates an empty map
func NewMap() *MapValue {
	return &MapValue{entries: make(map[string]Value)}
}

// MapOf wraps entries (not copied)
func MapOf(entries map[string]Value) *MapValue {
	if entries == nil {
		entries = make(map[string]Value)
	}
	return &MapValue{entries: entries}
}

// Type returns the type code for hashes
func (m *MapValue) Type() TypeCode {
	return TYPE_MAP
}

// String returns the escaped form
func (m *MapValue) String() string {
	return AsString(m)
}

// Equal compares entry-wise
func (m *MapValue) Equal(other Value) bool {
	return AreEqual(m, other)
}

// Truthy is always true for maps
func (m *MapValue) Truthy() bool {
	return true
}

// Name returns the variable name attached to the map
func (m *MapValue) Name() string { return m.name }

// SetName attaches a variable name to the map
func (m *MapValue) SetName(n string) { m.name = n }

// Len returns the number of entries
func (m *MapValue) Len() int {
	return len(m.entries)
}

// Get looks up key
func (m *MapValue) Get(key string) (Value, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Set stores v under key
func (m *MapValue) Set(key string, v Value) {
	m.entries[key] = v
}

// Delete removes key
func (m *MapValue) Delete(key string) {
	delete(m.entries, key)
}

// Keys returns the keys in sorted order
func (m *MapValue) Keys() []string {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Copy returns a shallow copy
func (m *MapValue) Copy() *MapValue {
	out := make(map[string]Value, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return MapOf(out)
}
