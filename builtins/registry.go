package builtins

import (
	"sort"
	"strings"

	"molscript/selection"
	"molscript/types"
)

// Context carries what builtins need from the evaluator
type Context struct {
	// Selection resolves bit-set arguments; nil when no model is loaded
	Selection *selection.Engine
}

// BuiltinFunc is a function type for builtin functions
// Takes an evaluation context and list of arguments, returns a Result
type BuiltinFunc func(ctx *Context, args []types.Value) types.Result

// Registry holds all registered builtin functions. Methods are called as
// value.name(args) with the value prepended to args; a name without a
// method form falls back to the function of the same name.
type Registry struct {
	funcs    map[string]BuiltinFunc
	methods  map[string]BuiltinFunc
	byID     map[int]BuiltinFunc
	nameToID map[string]int
	nextID   int
}

// NewRegistry creates a new builtin function registry
func NewRegistry() *Registry {
	r := &Registry{
		funcs:    make(map[string]BuiltinFunc),
		methods:  make(map[string]BuiltinFunc),
		byID:     make(map[int]BuiltinFunc),
		nameToID: make(map[string]int),
	}

	// math
	r.Register("sqrt", builtinSqrt)
	r.Register("abs", builtinAbs)
	r.Register("floor", builtinFloor)
	r.Register("ceil", builtinCeil)
	r.Register("round", builtinRound)
	r.Register("sin", builtinSin)
	r.Register("cos", builtinCos)
	r.Register("tan", builtinTan)
	r.Register("acos", builtinAcos)
	r.Register("atan2", builtinAtan2)
	r.Register("pow", builtinPow)
	r.Register("min", builtinMin)
	r.Register("max", builtinMax)

	// strings
	r.Register("format", builtinFormat)
	r.Register("sprintf", builtinFormat)
	r.RegisterMethod("format", builtinFormatMethod)
	r.Register("join", builtinJoin)
	r.Register("split", builtinSplit)
	r.Register("length", builtinLength)
	r.Register("size", builtinLength)
	r.Register("trim", builtinTrim)
	r.Register("lc", builtinLower)
	r.Register("uc", builtinUpper)

	// lists and maps
	r.Register("array", builtinArray)
	r.Register("sort", builtinSort)
	r.Register("reverse", builtinReverse)
	r.Register("keys", builtinKeys)
	r.Register("push", builtinPush)
	r.Register("pop", builtinPop)

	// geometry
	r.Register("point", builtinPoint)
	r.Register("plane", builtinPlane)
	r.Register("distance", builtinDistance)
	r.Register("angle", builtinAngle)

	return r
}

// Register adds a builtin function to the registry
func (r *Registry) Register(name string, fn BuiltinFunc) {
	r.funcs[name] = fn
	id := r.nextID
	r.byID[id] = fn
	r.nameToID[name] = id
	r.nextID++
}

// RegisterMethod adds a method form that differs from the function
func (r *Registry) RegisterMethod(name string, fn BuiltinFunc) {
	r.methods[name] = fn
}

// GetID returns the ID for a builtin function name
func (r *Registry) GetID(name string) (int, bool) {
	id, ok := r.nameToID[strings.ToLower(name)]
	return id, ok
}

// CallByID calls a builtin function by its ID
func (r *Registry) CallByID(id int, ctx *Context, args []types.Value) types.Result {
	fn, ok := r.byID[id]
	if !ok {
		return types.Err(types.E_UNKNOWN_FUNCTION)
	}
	return fn(ctx, args)
}

// Get retrieves a builtin function by name
// Returns (function, true) if found, (nil, false) if not found
func (r *Registry) Get(name string) (BuiltinFunc, bool) {
	fn, ok := r.funcs[strings.ToLower(name)]
	return fn, ok
}

// Has checks if a builtin function is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Method retrieves the method form of name
func (r *Registry) Method(name string) (BuiltinFunc, bool) {
	name = strings.ToLower(name)
	if fn, ok := r.methods[name]; ok {
		return fn, true
	}
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names lists the registered function names in order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func argCount(args []types.Value, min, max int) bool {
	return len(args) >= min && (max < 0 || len(args) <= max)
}
