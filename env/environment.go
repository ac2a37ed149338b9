// Package env stores script variables in nested scopes over a table of
// global properties.
package env

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"molscript/types"
)

// Environment manages variable bindings with lexical scoping. Names are
// case-insensitive.
type Environment struct {
	vars     map[string]types.Value
	parent   *Environment
	globals  *Globals
	modified map[string]bool
}

// NewEnvironment creates a global scope. A nil globals table gets an empty
// one.
func NewEnvironment(globals *Globals) *Environment {
	if globals == nil {
		globals = NewGlobals()
	}
	return &Environment{
		vars:     make(map[string]types.Value),
		globals:  globals,
		modified: make(map[string]bool),
	}
}

// NewNestedEnvironment creates a scope whose lookups fall through to
// parent
func NewNestedEnvironment(parent *Environment) *Environment {
	return &Environment{
		vars:     make(map[string]types.Value),
		parent:   parent,
		globals:  parent.globals,
		modified: parent.modified,
	}
}

func key(name string) string {
	return strings.ToLower(name)
}

// Get looks up a variable in this scope, then parent scopes, then the
// global properties
func (e *Environment) Get(name string) (types.Value, bool) {
	k := key(name)
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[k]; ok {
			return v, true
		}
	}
	return e.globals.Get(k)
}

// Set assigns a variable. An existing binding in an enclosing scope is
// updated in place; a global property name updates the property;
// otherwise the variable is created in the outermost scope.
func (e *Environment) Set(name string, value types.Value) {
	k := key(name)
	e.modified[k] = true
	root := e
	for s := e; s != nil; s = s.parent {
		if _, ok := s.vars[k]; ok {
			s.vars[k] = value
			return
		}
		root = s
	}
	if e.globals.Has(k) {
		e.globals.Set(k, value)
		return
	}
	root.vars[k] = value
}

// Define creates a variable in the current scope, shadowing any outer
// binding
func (e *Environment) Define(name string, value types.Value) {
	k := key(name)
	e.modified[k] = true
	e.vars[k] = value
}

// Delete removes a variable from the scope that holds it
func (e *Environment) Delete(name string) {
	k := key(name)
	for s := e; s != nil; s = s.parent {
		if _, ok := s.vars[k]; ok {
			delete(s.vars, k)
			return
		}
	}
}

// Names lists the variables visible from this scope, sorted
func (e *Environment) Names() []string {
	seen := map[string]bool{}
	for s := e; s != nil; s = s.parent {
		for k := range s.vars {
			seen[k] = true
		}
	}
	names := maps.Keys(seen)
	slices.Sort(names)
	return names
}

// Modified reports whether name was assigned since the last
// ClearModified
func (e *Environment) Modified(name string) bool {
	return e.modified[key(name)]
}

// ClearModified resets the modified flags of every scope sharing this
// environment's root
func (e *Environment) ClearModified() {
	maps.Clear(e.modified)
}

// Globals returns the global property table
func (e *Environment) Globals() *Globals {
	return e.globals
}

// Context captures the variables of this scope as a context value
func (e *Environment) Context(path string) *types.ContextValue {
	m := types.NewMap()
	for k, v := range e.vars {
		m.Set(k, v)
	}
	return types.NewContext(m, path)
}
