package vm

import (
	"molscript/token"
	"molscript/types"
)

// ============================================================================
// INDEXING
// ============================================================================

// executeIndex applies [i] or [i][j]. On an assignment target the
// selectors are recorded and the container stays on the stack.
func (vm *VM) executeIndex(t *token.Token) error {
	idx, ok := vm.PopN(t.Int)
	if !ok || len(idx) == 0 {
		return vm.underflow()
	}
	if t.Has(token.FlagAssignStep) {
		vm.steps = append(vm.steps, Step{Index: idx})
		return nil
	}
	x, ok := vm.Pop()
	if !ok {
		return vm.underflow()
	}
	return vm.pushResult(index(x, idx))
}

// index selects from x. Maps and contexts take keys, applied one after
// the other; everything else takes 1-based item selectors.
func index(x types.Value, idx []types.Value) types.Result {
	switch v := x.(type) {
	case *types.MapValue, *types.ContextValue:
		cur := x
		for _, k := range idx {
			cur = lookup(cur, types.AsString(k))
		}
		return types.Ok(cur)
	case types.Point3Value:
		if len(idx) == 1 {
			if i := types.AsInt(idx[0]); i >= 1 && i <= 3 {
				return types.Ok(types.NewFloat(v.Component(i - 1)))
			}
			return types.Ok(types.EmptyStr)
		}
	case types.Point4Value:
		if len(idx) == 1 {
			if i := types.AsInt(idx[0]); i >= 1 && i <= 4 {
				return types.Ok(types.NewFloat(v.Component(i - 1)))
			}
			return types.Ok(types.EmptyStr)
		}
	}
	i1, i2 := types.AsInt(idx[0]), types.NoIndex
	if len(idx) == 2 {
		i2 = types.AsInt(idx[1])
	}
	return types.Ok(types.SelectItem(x, i1, i2))
}

// lookup reads key from a map or context, "" when absent
func lookup(x types.Value, key string) types.Value {
	var v types.Value
	var ok bool
	switch c := x.(type) {
	case *types.MapValue:
		v, ok = c.Get(key)
	case *types.ContextValue:
		v, ok = c.Get(key)
	}
	if !ok {
		return types.EmptyStr
	}
	return v
}
