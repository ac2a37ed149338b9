package vm

import (
	"go.uber.org/zap"

	"molscript/builtins"
	"molscript/parser"
	"molscript/selection"
	"molscript/token"
	"molscript/trace"
	"molscript/types"
)

// Host supplies variable storage and the meta-expressions that need a
// scope of their own
type Host interface {
	// Variable looks up a variable, falling back to global properties
	Variable(name string) (types.Value, bool)
	SetVariable(name string, v types.Value)
	// EvalMeta evaluates select(x; set; expr) and for(x; set; expr)
	EvalMeta(m *token.Meta) (types.Value, error)
}

// operand is a stack slot. ref names the variable an int or float was
// read from when it is the target of ++ or --.
type operand struct {
	val types.Value
	ref string
}

// Step is one selector of an assignment target, recorded instead of
// applied
type Step struct {
	Index    []types.Value // one or two item selectors
	Property string        // .name, lowercased
	Key      string        // .name as written, for map keys
	Prop     token.Tok     // keyword code of Property, or TokNada
}

// Target is an evaluated assignment target: the root variable, its
// current value (nil when undefined) and the selectors below it. Var is
// empty when the root is a selection expression such as {carbon}.
type Target struct {
	Var   string
	Root  types.Value
	Steps []Step
}

// VM evaluates postfix programs
type VM struct {
	Host      Host
	Selection *selection.Engine  // resolves atom expressions; nil without a model
	Builtins  *builtins.Registry // builtin function registry
	Log       *zap.Logger
	Diag      trace.Diagnostics
	// CheckOnly suppresses stack dumps while a script is only being
	// syntax-checked
	CheckOnly bool

	stack  []operand
	marks  []int
	steps  []Step
	source string
}

// New creates an evaluator. A nil logger discards output.
func New(host Host, sel *selection.Engine, reg *builtins.Registry, log *zap.Logger) *VM {
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = builtins.NewRegistry()
	}
	return &VM{
		Host:      host,
		Selection: sel,
		Builtins:  reg,
		Log:       log,
		Diag:      trace.Global(),
		stack:     make([]operand, 0, 16),
	}
}

// sub returns an evaluator sharing this one's collaborators with a fresh
// stack, for lazily evaluated branches and nested atom expressions
func (vm *VM) sub() *VM {
	return &VM{
		Host:      vm.Host,
		Selection: vm.Selection,
		Builtins:  vm.Builtins,
		Log:       vm.Log,
		Diag:      vm.Diag,
		CheckOnly: vm.CheckOnly,
		stack:     make([]operand, 0, 8),
	}
}

// Evaluate runs a program and returns its single result
func (vm *VM) Evaluate(prog token.Program) (types.Value, error) {
	if err := vm.run(prog); err != nil {
		return nil, err
	}
	if len(vm.stack) != 1 {
		return nil, vm.underflow()
	}
	return vm.stack[0].val, nil
}

// EvaluateToSelection runs an atom expression. A string result is itself
// compiled as an atom expression.
func (vm *VM) EvaluateToSelection(prog token.Program) (types.BitSetValue, error) {
	v, err := vm.Evaluate(prog)
	if err != nil {
		return types.BitSetValue{}, err
	}
	switch x := v.(type) {
	case types.BitSetValue:
		return x, nil
	case types.StrValue:
		return vm.atomString(x.Value())
	}
	return types.BitSetValue{}, types.NewError(types.E_TYPE_MISMATCH, types.AsString(v))
}

// EvaluateTarget runs an assignment target program. Selectors flagged as
// assignment steps are evaluated but not applied.
func (vm *VM) EvaluateTarget(prog token.Program) (*Target, error) {
	if len(prog) == 0 {
		return nil, types.NewError(types.E_INVALID_ARGUMENT, "")
	}
	vm.reset(prog)
	t := &Target{}
	rest := prog
	if prog[0].Tok == token.TokVariable {
		t.Var = prog[0].Name()
		t.Root, _ = vm.Host.Variable(t.Var)
		vm.Push(t.Root)
		rest = prog[1:]
	}
	if err := vm.exec(rest); err != nil {
		return nil, err
	}
	if len(vm.stack) != 1 {
		return nil, vm.underflow()
	}
	if t.Var == "" {
		t.Root = vm.Peek(0)
	}
	t.Steps = vm.steps
	return t, nil
}

func (vm *VM) reset(prog token.Program) {
	vm.stack = vm.stack[:0]
	vm.marks = vm.marks[:0]
	vm.steps = nil
	vm.source = prog.String()
}

func (vm *VM) run(prog token.Program) error {
	vm.reset(prog)
	return vm.exec(prog)
}

func (vm *VM) exec(prog token.Program) error {
	for i, t := range prog {
		var next *token.Token
		if i+1 < len(prog) {
			next = prog[i+1]
		}
		if err := vm.Execute(t, next); err != nil {
			return err
		}
	}
	return nil
}

// underflow reports an empty or unbalanced stack, dumping what is left
// unless only checking
func (vm *VM) underflow() error {
	if !vm.CheckOnly {
		vals := make([]types.Value, len(vm.stack))
		for i, o := range vm.stack {
			vals[i] = o.val
		}
		vm.Diag.StackDump(vals)
		vm.Log.Debug("unbalanced stack", zap.String("program", vm.source), zap.Int("depth", len(vm.stack)))
	}
	return types.NewError(types.E_END_OF_STATEMENT, "")
}

// ============================================================================
// STACK
// ============================================================================

// Push pushes a value
func (vm *VM) Push(v types.Value) {
	vm.stack = append(vm.stack, operand{val: v})
}

// Pop pops a value; ok is false on underflow
func (vm *VM) Pop() (types.Value, bool) {
	o, ok := vm.popOperand()
	return o.val, ok
}

func (vm *VM) popOperand() (operand, bool) {
	n := len(vm.stack)
	if n == 0 || len(vm.marks) > 0 && vm.marks[len(vm.marks)-1] >= n {
		return operand{}, false
	}
	o := vm.stack[n-1]
	vm.stack = vm.stack[:n-1]
	return o, true
}

// Peek returns the value n slots below the top
func (vm *VM) Peek(n int) types.Value {
	if n >= len(vm.stack) {
		return nil
	}
	return vm.stack[len(vm.stack)-1-n].val
}

// PopN pops n values, returned in push order
func (vm *VM) PopN(n int) ([]types.Value, bool) {
	if n > len(vm.stack) || len(vm.marks) > 0 && len(vm.stack)-n < vm.marks[len(vm.marks)-1] {
		return nil, false
	}
	out := make([]types.Value, n)
	for i, o := range vm.stack[len(vm.stack)-n:] {
		out[i] = o.val
	}
	vm.stack = vm.stack[:len(vm.stack)-n]
	return out, true
}

func (vm *VM) mark() {
	vm.marks = append(vm.marks, len(vm.stack))
}

// popMark pops everything pushed since the innermost mark
func (vm *VM) popMark() ([]types.Value, bool) {
	if len(vm.marks) == 0 {
		return nil, false
	}
	m := vm.marks[len(vm.marks)-1]
	vm.marks = vm.marks[:len(vm.marks)-1]
	return vm.PopN(len(vm.stack) - m)
}

func (vm *VM) pushResult(r types.Result) error {
	if r.IsError() {
		return r.Error
	}
	vm.Push(r.Val)
	return nil
}

// ============================================================================
// DISPATCH
// ============================================================================

// Execute applies one token. next is the following token, if any; a
// variable read directly before ++ or -- becomes a reference.
func (vm *VM) Execute(t *token.Token, next *token.Token) error {
	if t.Tok.IsLiteral() {
		vm.Push(t.Literal())
		return nil
	}

	switch t.Tok {
	case token.TokVariable:
		return vm.executeVariable(t, next)
	case token.TokDefine:
		return vm.executeDefine(t)
	case token.TokFunction:
		return vm.executeFunction(t)
	case token.TokMethod:
		return vm.executeMethod(t)
	case token.TokProperty:
		return vm.executeProperty(t)
	case token.TokIndex:
		return vm.executeIndex(t)
	case token.TokMeta:
		return vm.executeMeta(t)

	case token.TokArrayBegin, token.TokHashBegin, token.TokPointBegin:
		vm.mark()
		return nil
	case token.TokArrayEnd:
		items, ok := vm.popMark()
		if !ok {
			return vm.underflow()
		}
		vm.Push(types.NewList(items))
		return nil
	case token.TokHashEnd:
		return vm.executeHashEnd()
	case token.TokPointEnd:
		return vm.executePointEnd(t)

	case token.TokOpPlusPlus, token.TokOpMinusMinus:
		return vm.executeIncrement(t)
	case token.TokOpNot:
		x, ok := vm.Pop()
		if !ok {
			return vm.underflow()
		}
		return vm.pushResult(vm.not(x))
	case token.TokOpUnaryMinus:
		x, ok := vm.Pop()
		if !ok {
			return vm.underflow()
		}
		return vm.pushResult(unaryMinus(x))
	}

	if token.Arity(t.Tok) == 2 {
		right, ok1 := vm.Pop()
		left, ok2 := vm.Pop()
		if !ok1 || !ok2 {
			return vm.underflow()
		}
		return vm.pushResult(vm.binary(t.Tok, left, right))
	}

	return vm.executeAtom(t)
}

func (vm *VM) executeVariable(t *token.Token, next *token.Token) error {
	name := t.Name()
	v, ok := vm.Host.Variable(name)
	if !ok {
		v = types.EmptyStr
	}
	if next != nil && (next.Tok == token.TokOpPlusPlus || next.Tok == token.TokOpMinusMinus) {
		switch v.(type) {
		case types.IntValue, types.FloatValue:
			vm.stack = append(vm.stack, operand{val: v, ref: name})
			return nil
		}
	}
	vm.Push(v)
	return nil
}

// executeIncrement applies ++ or --. On a variable reference the new value
// is stored and the old one stays on the stack.
func (vm *VM) executeIncrement(t *token.Token) error {
	o, ok := vm.popOperand()
	if !ok {
		return vm.underflow()
	}
	delta := types.NewInt(1)
	op := token.TokOpPlus
	if t.Tok == token.TokOpMinusMinus {
		op = token.TokOpMinus
	}
	r := vm.binary(op, o.val, delta)
	if r.IsError() {
		return r.Error
	}
	if o.ref == "" {
		vm.Push(r.Val)
		return nil
	}
	vm.Host.SetVariable(o.ref, r.Val)
	vm.Push(o.val)
	return nil
}

// executeDefine resolves @name and @{expr}. In an atom expression a
// string value is compiled and evaluated as an atom expression.
func (vm *VM) executeDefine(t *token.Token) error {
	var v types.Value
	if t.Has(token.FlagEvaluated) {
		x, ok := vm.Pop()
		if !ok {
			return vm.underflow()
		}
		v = x
	} else {
		x, ok := vm.Host.Variable(t.Name())
		if !ok {
			return types.NewError(types.E_INVALID_ARGUMENT, "@"+t.Name())
		}
		v = x
	}
	switch {
	case t.Has(token.FlagForceString):
		v = types.NewStr(types.AsString(v))
	case t.Int == 1:
		if s, ok := v.(types.StrValue); ok {
			bs, err := vm.atomString(s.Value())
			if err != nil {
				return err
			}
			v = bs
		}
	}
	vm.Push(v)
	return nil
}

// atomString compiles and evaluates text as an atom expression
func (vm *VM) atomString(s string) (types.BitSetValue, error) {
	toks, err := parser.Lex(s)
	if err != nil {
		return types.BitSetValue{}, err
	}
	prog, err := parser.CompileAtomExpression(toks)
	if err != nil {
		return types.BitSetValue{}, err
	}
	return vm.sub().EvaluateToSelection(prog)
}

func (vm *VM) executeHashEnd() error {
	items, ok := vm.popMark()
	if !ok || len(items)%2 != 0 {
		return vm.underflow()
	}
	m := types.NewMap()
	for i := 0; i < len(items); i += 2 {
		m.Set(types.AsString(items[i]), items[i+1])
	}
	vm.Push(m)
	return nil
}

func (vm *VM) executePointEnd(t *token.Token) error {
	items, ok := vm.popMark()
	if !ok {
		return vm.underflow()
	}
	if len(items) != t.Int || (t.Int != 3 && t.Int != 4) {
		return types.NewError(types.E_BAD_ARGUMENT_COUNT, "{}")
	}
	f := make([]float64, len(items))
	for i, v := range items {
		switch v.(type) {
		case types.IntValue, types.FloatValue, types.BoolValue, types.StrValue:
			f[i] = types.AsFloat(v)
		default:
			return types.NewError(types.E_NUMBER_EXPECTED, types.AsString(v))
		}
	}
	if len(f) == 3 {
		vm.Push(types.NewPoint3(f[0], f[1], f[2]))
	} else {
		vm.Push(types.NewPoint4(f[0], f[1], f[2], f[3]))
	}
	return nil
}

// executeMeta evaluates if(...) and cond ? a : b lazily and hands select
// and for to the host
func (vm *VM) executeMeta(t *token.Token) error {
	m, ok := t.Value.(*token.Meta)
	if !ok {
		return types.NewError(types.E_UNRECOGNIZED_TOKEN, t.String())
	}
	if m.Kind != token.TokIf {
		v, err := vm.Host.EvalMeta(m)
		if err != nil {
			return err
		}
		vm.Push(v)
		return nil
	}
	cond, ok := vm.Pop()
	if !ok {
		return vm.underflow()
	}
	branch := m.Else
	if types.AsBoolean(cond) {
		branch = m.Expr
	}
	v, err := vm.sub().Evaluate(branch)
	if err != nil {
		return err
	}
	vm.Push(v)
	return nil
}

// ============================================================================
// FUNCTIONS
// ============================================================================

func (vm *VM) context() *builtins.Context {
	return &builtins.Context{Selection: vm.Selection}
}

// executeFunction calls a builtin, else a user function of the model
func (vm *VM) executeFunction(t *token.Token) error {
	args, ok := vm.PopN(t.Int)
	if !ok {
		return vm.underflow()
	}
	name := t.Name()
	if fn, ok := vm.Builtins.Get(name); ok {
		return vm.pushResult(fn(vm.context(), args))
	}
	if vm.Selection != nil && vm.Selection.Model.IsFunction(name) {
		v, err := vm.Selection.Model.CallFunction(name, args, nil)
		if err != nil {
			return err
		}
		vm.Push(v)
		return nil
	}
	return types.NewError(types.E_UNKNOWN_FUNCTION, name)
}

// executeMethod calls value.name(args). On a selection a user function
// is evaluated once per atom.
func (vm *VM) executeMethod(t *token.Token) error {
	args, ok := vm.PopN(t.Int)
	if !ok {
		return vm.underflow()
	}
	recv, ok := vm.Pop()
	if !ok {
		return vm.underflow()
	}
	name := t.Name()
	if fn, ok := vm.Builtins.Method(name); ok {
		return vm.pushResult(fn(vm.context(), append([]types.Value{recv}, args...)))
	}
	if bs, ok := recv.(types.BitSetValue); ok && vm.Selection != nil && vm.Selection.Model.IsFunction(name) {
		v, err := vm.Selection.GetBitsetProperty(bs, token.TokFunctionProperty, name, token.TokNada, args)
		if err != nil {
			return err
		}
		vm.Push(v)
		return nil
	}
	return types.NewError(types.E_UNKNOWN_FUNCTION, name)
}
