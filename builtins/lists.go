package builtins

import (
	"golang.org/x/exp/slices"

	"molscript/types"
)

// ============================================================================
// LIST AND MAP BUILTINS
// ============================================================================

// builtinArray collects its arguments
// array(a, b, ...) -> list
func builtinArray(ctx *Context, args []types.Value) types.Result {
	return types.Ok(types.NewList(slices.Clone(args)))
}

// builtinSort sorts a list in place, lists of lists by element n
// sort(list [, n]) -> list
func builtinSort(ctx *Context, args []types.Value) types.Result {
	if !argCount(args, 1, 2) {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "sort")
	}
	l, ok := args[0].(*types.ListValue)
	if !ok {
		return types.Ok(args[0])
	}
	pt := 0
	if len(args) == 2 {
		pt = types.AsInt(args[1])
	}
	return types.Ok(types.SortList(l, pt))
}

// builtinReverse reverses a list in place, or a string
// reverse(list|str) -> list|str
func builtinReverse(ctx *Context, args []types.Value) types.Result {
	if len(args) != 1 {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "1")
	}
	switch v := args[0].(type) {
	case *types.ListValue:
		return types.Ok(types.ReverseList(v))
	case types.StrValue:
		r := []rune(v.Value())
		slices.Reverse(r)
		return types.Ok(types.NewStr(string(r)))
	}
	return types.Ok(args[0])
}

// builtinKeys lists the keys of a map in sorted order
// keys(map) -> list
func builtinKeys(ctx *Context, args []types.Value) types.Result {
	if len(args) != 1 {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "1")
	}
	var keys []string
	switch v := args[0].(type) {
	case *types.MapValue:
		keys = v.Keys()
	case *types.ContextValue:
		keys = v.Vars.Keys()
	default:
		return types.ErrTok(types.E_INVALID_ARGUMENT, types.AsString(args[0]))
	}
	slices.Sort(keys)
	return types.Ok(types.StringList(keys))
}

// builtinPush appends to a list in place
// push(list, value) -> list
func builtinPush(ctx *Context, args []types.Value) types.Result {
	if len(args) != 2 {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "2")
	}
	l, ok := args[0].(*types.ListValue)
	if !ok {
		return types.ErrTok(types.E_INVALID_ARGUMENT, types.AsString(args[0]))
	}
	l.Append(args[1])
	return types.Ok(l)
}

// builtinPop removes and returns the last item, "" when empty
// pop(list) -> value
func builtinPop(ctx *Context, args []types.Value) types.Result {
	if len(args) != 1 {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "1")
	}
	l, ok := args[0].(*types.ListValue)
	if !ok {
		return types.ErrTok(types.E_INVALID_ARGUMENT, types.AsString(args[0]))
	}
	if l.Len() == 0 {
		return types.Ok(types.NewStr(""))
	}
	return types.Ok(l.Pop())
}
