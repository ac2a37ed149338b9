package script

import (
	"github.com/bits-and-blooms/bitset"

	"molscript/env"
	"molscript/token"
	"molscript/types"
	"molscript/vm"
)

// frame is one variable scope of a running statement. Meta-expressions
// evaluate their bodies in a nested frame holding the loop variable.
type frame struct {
	e   *Engine
	env *env.Environment
}

func (f *frame) Variable(name string) (types.Value, bool) {
	return f.env.Get(name)
}

func (f *frame) SetVariable(name string, v types.Value) {
	f.env.Set(name, v)
}

func (f *frame) vm() *vm.VM {
	return f.e.newVM(f)
}

func (f *frame) nested() *frame {
	return &frame{e: f.e, env: env.NewNestedEnvironment(f.env)}
}

// EvalMeta evaluates select(x; set; expr) and for(x; set; expr)
func (f *frame) EvalMeta(m *token.Meta) (types.Value, error) {
	switch m.Kind {
	case token.TokSelect:
		return f.selectWhere(m)
	case token.TokFor:
		return f.forEach(m)
	}
	return nil, types.NewError(types.E_UNRECOGNIZED_TOKEN, m.Kind.String())
}

// each calls fn with x bound to a one-member set for every member of bs
func (f *frame) each(m *token.Meta, bs types.BitSetValue, fn func(i uint, v types.Value) error) error {
	inner := f.nested()
	sel := bs.Selected()
	for i, ok := sel.NextSet(0); ok; i, ok = sel.NextSet(i + 1) {
		inner.env.Define(m.Var, bs.WithBits(bitset.New(i+1).Set(i)))
		v, err := inner.vm().Evaluate(m.Expr)
		if err != nil {
			return err
		}
		if err := fn(i, v); err != nil {
			return err
		}
	}
	return nil
}

// selectWhere keeps the members of the set for which expr is true
func (f *frame) selectWhere(m *token.Meta) (types.Value, error) {
	bs, err := f.vm().EvaluateToSelection(m.Set)
	if err != nil {
		return nil, err
	}
	out := bitset.New(0)
	err = f.each(m, bs, func(i uint, v types.Value) error {
		if types.AsBoolean(v) {
			out.Set(i)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bs.WithBits(out), nil
}

// forEach collects expr for every member of a set or element of a list
func (f *frame) forEach(m *token.Meta) (types.Value, error) {
	set, err := f.vm().Evaluate(m.Set)
	if err != nil {
		return nil, err
	}
	results := types.NewList(nil)
	// one string per entity
	collect := func(_ uint, v types.Value) error {
		results.Append(types.NewStr(types.AsString(v)))
		return nil
	}
	switch s := set.(type) {
	case types.BitSetValue:
		err = f.each(m, s, collect)
	case types.StrValue:
		var bs types.BitSetValue
		if bs, err = f.vm().EvaluateToSelection(m.Set); err == nil {
			err = f.each(m, bs, collect)
		}
	case *types.ListValue:
		inner := f.nested()
		for _, item := range s.Elements() {
			inner.env.Define(m.Var, item)
			v, err := inner.vm().Evaluate(m.Expr)
			if err != nil {
				return nil, err
			}
			results.Append(v)
		}
	default:
		return nil, types.NewError(types.E_TYPE_MISMATCH, types.AsString(set))
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}
