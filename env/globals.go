package env

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"molscript/types"
)

// Globals is the table of global properties consulted when no variable
// of a name exists. Properties can be changed but never created by
// assignment.
type Globals struct {
	props    map[string]types.Value
	onChange []func(name string, v types.Value)
}

// NewGlobals creates an empty table
func NewGlobals() *Globals {
	return &Globals{props: make(map[string]types.Value)}
}

// Define adds a property with its initial value
func (g *Globals) Define(name string, v types.Value) {
	g.props[key(name)] = v
}

// Get returns a property
func (g *Globals) Get(name string) (types.Value, bool) {
	v, ok := g.props[key(name)]
	return v, ok
}

// Has reports whether name is a property
func (g *Globals) Has(name string) bool {
	_, ok := g.props[key(name)]
	return ok
}

// Set changes an existing property and notifies the watchers. It
// reports false when name is not a property.
func (g *Globals) Set(name string, v types.Value) bool {
	k := key(name)
	if _, ok := g.props[k]; !ok {
		return false
	}
	g.props[k] = v
	for _, f := range g.onChange {
		f(k, v)
	}
	return true
}

// OnChange registers f to run after every property change
func (g *Globals) OnChange(f func(name string, v types.Value)) {
	g.onChange = append(g.onChange, f)
}

// Names lists the properties, sorted
func (g *Globals) Names() []string {
	names := maps.Keys(g.props)
	slices.Sort(names)
	return names
}
