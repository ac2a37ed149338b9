package vm

import (
	"molscript/selection"
	"molscript/token"
	"molscript/types"
)

// ============================================================================
// PROPERTY SELECTORS
// ============================================================================

// executeProperty applies .name. On an assignment target the property is
// recorded and the container stays on the stack.
func (vm *VM) executeProperty(t *token.Token) error {
	if t.Has(token.FlagAssignStep) {
		vm.steps = append(vm.steps, Step{Property: t.Name(), Key: t.Text, Prop: token.Tok(t.Int)})
		return nil
	}
	x, ok := vm.Pop()
	if !ok {
		return vm.underflow()
	}
	v, err := vm.property(x, t)
	if err != nil {
		return err
	}
	vm.Push(v)
	return nil
}

func isSize(name string) bool {
	return name == "size" || name == "length" || name == "count"
}

func (vm *VM) property(x types.Value, t *token.Token) (types.Value, error) {
	name := t.Name()
	prop := token.Tok(t.Int)
	switch v := x.(type) {
	case types.BitSetValue:
		return vm.bitsetProperty(v, t)
	case types.Point3Value:
		if i := axis(prop); i >= 0 && i < 3 {
			return types.NewFloat(v.Component(i)), nil
		}
	case types.Point4Value:
		if i := axis(prop); i >= 0 {
			return types.NewFloat(v.Component(i)), nil
		}
		if name == "w" {
			return types.NewFloat(v.W), nil
		}
	case *types.ListValue:
		switch {
		case isSize(name):
			return types.NewInt(v.Len()), nil
		case prop.Has(token.AttrModifier):
			return selection.Aggregate(v.Elements(), prop), nil
		}
	case types.StrValue:
		if isSize(name) {
			return types.NewInt(v.Len()), nil
		}
	case *types.MapValue:
		switch {
		case name == "keys":
			return types.StringList(v.Keys()), nil
		case isSize(name):
			return types.NewInt(v.Len()), nil
		}
		return lookup(v, t.Text), nil
	case *types.ContextValue:
		switch {
		case name == "keys":
			return types.StringList(v.Vars.Keys()), nil
		case isSize(name):
			return types.NewInt(v.Vars.Len()), nil
		}
		return lookup(v, t.Text), nil
	}
	return nil, types.NewError(types.E_UNRECOGNIZED_PROPERTY, name)
}

// axis maps .x .y .z to a component index, -1 otherwise
func axis(prop token.Tok) int {
	switch prop {
	case token.TokX:
		return 0
	case token.TokY:
		return 1
	case token.TokZ:
		return 2
	}
	return -1
}

// bitsetProperty reads an atom or bond property over a selection; .size
// is its cardinality and an unknown name may be a user function
func (vm *VM) bitsetProperty(bs types.BitSetValue, t *token.Token) (types.Value, error) {
	name := t.Name()
	prop := token.Tok(t.Int)
	if name == "size" || name == "count" {
		return types.NewInt(bs.Cardinality()), nil
	}
	if vm.Selection == nil {
		return nil, types.NewError(types.E_UNRECOGNIZED_PROPERTY, name)
	}
	if name == "bonds" && !bs.Bond {
		return vm.Selection.BondsOf(bs.Selected()), nil
	}
	if prop.IsAtomProperty() || prop.Has(token.AttrBondProperty) {
		return vm.Selection.GetBitsetProperty(bs, prop, "", t.Op, nil)
	}
	if vm.Selection.Model.IsFunction(name) {
		return vm.Selection.GetBitsetProperty(bs, token.TokFunctionProperty, name, t.Op, nil)
	}
	return nil, types.NewError(types.E_UNRECOGNIZED_PROPERTY, name)
}
