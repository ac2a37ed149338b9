package script

import (
	"strings"

	"molscript/parser"
	"molscript/token"
	"molscript/types"
	"molscript/vm"
)

// ============================================================================
// ASSIGNMENT
// ============================================================================

func (e *Engine) assign(f *frame, st *parser.Statement) error {
	var value types.Value = types.NewInt(1)
	if st.Kind == parser.StmtAssign {
		v, err := f.vm().Evaluate(st.Expr)
		if err != nil {
			return err
		}
		value = v
	}
	op := st.Op
	switch op {
	case token.TokOpPlusPlus:
		op = token.TokOpPlus
	case token.TokOpMinusMinus:
		op = token.TokOpMinus
	}
	if op != token.TokNada {
		m := f.vm()
		current, err := m.Evaluate(readProgram(st.Target))
		if err != nil {
			return err
		}
		if value, err = m.Apply(op, current, value); err != nil {
			return err
		}
	}
	return e.assignTarget(f, st.Target, value, st.Local)
}

// readProgram turns an assignment target back into an expression that
// reads the current value
func readProgram(target token.Program) token.Program {
	out := make(token.Program, len(target))
	for i, t := range target {
		if t.Has(token.FlagAssignStep) {
			c := *t
			c.Flags &^= token.FlagAssignStep
			t = &c
		}
		out[i] = t
	}
	return out
}

// Assign stores value through a compiled assignment target such as
// x, x[2], m.key, sel.temperature or {carbon}.temperature
func (e *Engine) Assign(target token.Program, value types.Value) error {
	return e.assignTarget(e.root(), target, value, false)
}

func (e *Engine) assignTarget(f *frame, target token.Program, value types.Value, local bool) error {
	t, err := f.vm().EvaluateTarget(target)
	if err != nil {
		return err
	}
	if t.Var == "" {
		// a selection root only carries property assignments
		if _, ok := t.Root.(types.BitSetValue); !ok {
			return types.NewError(types.E_INVALID_ARGUMENT, target.String())
		}
		_, err := e.assignPath(t.Root, t.Steps, value)
		return err
	}
	root, err := e.assignPath(t.Root, t.Steps, value)
	if err != nil {
		return err
	}
	if local {
		f.env.Define(t.Var, root)
		return nil
	}
	f.env.Set(t.Var, root)
	return nil
}

// assignPath stores value below cur and returns the new cur. Lists, maps
// and contexts are updated in place; scalars are replaced.
func (e *Engine) assignPath(cur types.Value, steps []vm.Step, value types.Value) (types.Value, error) {
	if len(steps) == 0 {
		return value, nil
	}
	s, rest := steps[0], steps[1:]
	if s.Property != "" {
		return e.assignProperty(cur, s, rest, value)
	}
	return e.assignIndex(cur, s.Index, rest, value)
}

func undefined(v types.Value) bool {
	if v == nil {
		return true
	}
	s, ok := v.(types.StrValue)
	return ok && s.Len() == 0
}

func axisIndex(name string) int {
	return strings.Index("xyzw", name)
}

func (e *Engine) assignProperty(cur types.Value, s vm.Step, rest []vm.Step, value types.Value) (types.Value, error) {
	axis := -1
	if len(s.Property) == 1 {
		axis = axisIndex(s.Property)
	}
	switch c := cur.(type) {
	case types.BitSetValue:
		if e.Selection == nil || len(rest) > 0 {
			break
		}
		return c, e.Selection.SetBitsetProperty(c, s.Prop, value)
	case types.Point3Value:
		if axis >= 0 && axis < 3 && len(rest) == 0 {
			return c.WithComponent(axis, types.AsFloat(value)), nil
		}
	case types.Point4Value:
		if axis >= 0 && len(rest) == 0 {
			return c.WithComponent(axis, types.AsFloat(value)), nil
		}
	case *types.MapValue:
		child, _ := c.Get(s.Key)
		v, err := e.assignPath(child, rest, value)
		if err != nil {
			return nil, err
		}
		c.Set(s.Key, v)
		return c, nil
	case *types.ContextValue:
		child, _ := c.Get(s.Key)
		v, err := e.assignPath(child, rest, value)
		if err != nil {
			return nil, err
		}
		c.Set(s.Key, v)
		return c, nil
	default:
		if undefined(cur) {
			return e.assignProperty(types.NewMap(), s, rest, value)
		}
	}
	return nil, types.NewError(types.E_UNRECOGNIZED_PROPERTY, s.Property)
}

// itemIndex adjusts a 1-based item selector: n <= 0 counts back from the
// end, and anything before the first item is the first item
func itemIndex(n, length int) int {
	if n <= 0 {
		n += length
	}
	if n < 1 {
		n = 1
	}
	return n
}

func isContainer(v types.Value) bool {
	switch v.(type) {
	case *types.ListValue, *types.MapValue, *types.ContextValue,
		types.Point3Value, types.Point4Value, types.Matrix3Value, types.Matrix4Value:
		return true
	}
	return false
}

func (e *Engine) assignIndex(cur types.Value, idx []types.Value, rest []vm.Step, value types.Value) (types.Value, error) {
	if len(idx) == 0 {
		return nil, types.NewError(types.E_INVALID_ARGUMENT, "[]")
	}
	if len(idx) == 2 {
		i1, i2 := types.AsInt(idx[0]), types.AsInt(idx[1])
		switch c := cur.(type) {
		case types.Matrix3Value, types.Matrix4Value:
			if len(rest) == 0 {
				return assignMatrix(cur, idx, value)
			}
		case types.StrValue:
			if c.Len() > 0 && len(rest) == 0 {
				return setRange(c.Value(), i1, i2, types.AsString(value)), nil
			}
		case *types.ListValue:
			if len(rest) == 0 && !isContainer(c.Get(itemIndex(i1, c.Len()))) {
				spliceRange(c, i1, i2, value)
				return c, nil
			}
		}
		// x[i][j] = v addresses item j of item i
		rest = append([]vm.Step{{Index: idx[1:]}}, rest...)
		idx = idx[:1]
	}
	i := idx[0]
	switch c := cur.(type) {
	case *types.MapValue:
		key := types.AsString(i)
		child, _ := c.Get(key)
		v, err := e.assignPath(child, rest, value)
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return c, nil
	case *types.ContextValue:
		key := types.AsString(i)
		child, _ := c.Get(key)
		v, err := e.assignPath(child, rest, value)
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return c, nil
	case *types.ListValue:
		n := itemIndex(types.AsInt(i), c.Len())
		v, err := e.assignPath(c.Get(n), rest, value)
		if err != nil {
			return nil, err
		}
		c.Set(n, v)
		return c, nil
	case types.Point3Value:
		if n := types.AsInt(i); n >= 1 && n <= 3 && len(rest) == 0 {
			return c.WithComponent(n-1, types.AsFloat(value)), nil
		}
	case types.Point4Value:
		if n := types.AsInt(i); n >= 1 && n <= 4 && len(rest) == 0 {
			return c.WithComponent(n-1, types.AsFloat(value)), nil
		}
	case types.Matrix3Value, types.Matrix4Value:
		if len(rest) == 0 {
			return assignMatrix(cur, idx, value)
		}
	case types.StrValue:
		if c.Len() == 0 {
			if _, isStr := i.(types.StrValue); isStr {
				return e.assignIndex(types.NewMap(), idx, rest, value)
			}
			if len(rest) > 0 {
				return e.assignIndex(types.NewList(nil), idx, rest, value)
			}
		}
		if len(rest) == 0 {
			n := types.AsInt(i)
			return setRange(c.Value(), n, n, types.AsString(value)), nil
		}
	case nil:
		if _, isStr := i.(types.StrValue); isStr {
			return e.assignIndex(types.NewMap(), idx, rest, value)
		}
		return e.assignIndex(types.NewList(nil), idx, rest, value)
	}
	return nil, types.NewError(types.E_INVALID_ARGUMENT, types.AsString(i))
}

// setRange replaces characters i1 through i2 (1-based, <= 0 counting from
// the end) with s, padding with spaces when i1 is past the end
func setRange(str string, i1, i2 int, s string) types.Value {
	r := []rune(str)
	i1, i2 = itemIndex(i1, len(r)), itemIndex(i2, len(r))
	for len(r) < i1-1 {
		r = append(r, ' ')
	}
	if i2 > len(r) {
		i2 = len(r)
	}
	if i2 < i1-1 {
		i2 = i1 - 1
	}
	out := make([]rune, 0, len(r)+len(s))
	out = append(out, r[:i1-1]...)
	out = append(out, []rune(s)...)
	out = append(out, r[i2:]...)
	return types.NewStr(string(out))
}

// spliceRange replaces items i1 through i2 with the items of a list
// value, or with value itself
func spliceRange(l *types.ListValue, i1, i2 int, value types.Value) {
	i1, i2 = itemIndex(i1, l.Len()), itemIndex(i2, l.Len())
	repl := []types.Value{value}
	if vl, ok := value.(*types.ListValue); ok {
		repl = append([]types.Value(nil), vl.Elements()...)
	}
	l.Splice(i1, i2, repl)
}

func isMatrix(v types.Value) bool {
	switch v.(type) {
	case types.Matrix3Value, types.Matrix4Value:
		return true
	}
	return false
}

func matrixSize(v types.Value) int {
	if _, ok := v.(types.Matrix4Value); ok {
		return 4
	}
	return 3
}

// assignMatrix sets m[r][c], m[rc] (r and c single digits), row m[r]
// from a point or list, or column m[-c]
func assignMatrix(m types.Value, idx []types.Value, value types.Value) (types.Value, error) {
	dim := matrixSize(m)
	inRange := func(k int) bool { return k >= 1 && k <= dim }
	bad := types.NewError(types.E_INVALID_ARGUMENT, types.AsString(idx[0]))
	if len(idx) == 2 {
		r, c := types.AsInt(idx[0]), types.AsInt(idx[1])
		if !inRange(r) || !inRange(c) {
			return nil, bad
		}
		return types.WithMatrixElement(m, r-1, c-1, types.AsFloat(value)), nil
	}
	n := types.AsInt(idx[0])
	switch {
	case n > 10:
		r, c := n/10, n%10
		if !inRange(r) || !inRange(c) {
			return nil, bad
		}
		return types.WithMatrixElement(m, r-1, c-1, types.AsFloat(value)), nil
	case inRange(n) || inRange(-n):
		fs, ok := vectorOf(value, dim)
		if !ok {
			return nil, types.NewError(types.E_TYPE_MISMATCH, types.AsString(value))
		}
		for k, f := range fs {
			if n > 0 {
				m = types.WithMatrixElement(m, n-1, k, f)
			} else {
				m = types.WithMatrixElement(m, k, -n-1, f)
			}
		}
		return m, nil
	}
	return nil, bad
}

// vectorOf reads dim floats from a point or list
func vectorOf(v types.Value, dim int) ([]float64, bool) {
	var fs []float64
	switch x := v.(type) {
	case types.Point3Value:
		fs = []float64{x.X, x.Y, x.Z}
	case types.Point4Value:
		fs = []float64{x.X, x.Y, x.Z, x.W}
	case *types.ListValue:
		fs = types.FloatsOf(x)
	default:
		return nil, false
	}
	if len(fs) < dim {
		return nil, false
	}
	return fs[:dim], true
}
