package builtins

import (
	"strings"

	"molscript/types"
)

// ============================================================================
// STRING BUILTINS
// ============================================================================

// builtinFormat formats a value with a %-template
// format(template, value) -> str
func builtinFormat(ctx *Context, args []types.Value) types.Result {
	if !argCount(args, 1, 2) {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "format")
	}
	var v types.Value
	if len(args) == 2 {
		v = args[1]
	}
	return types.Ok(types.NewStr(types.Sprintf(types.AsString(args[0]), v)))
}

// builtinFormatMethod is value.format(template)
func builtinFormatMethod(ctx *Context, args []types.Value) types.Result {
	if len(args) != 2 {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "format")
	}
	return types.Ok(types.NewStr(types.Sprintf(types.AsString(args[1]), args[0])))
}

// builtinJoin joins list items
// join(list [, separator]) -> str
func builtinJoin(ctx *Context, args []types.Value) types.Result {
	if !argCount(args, 1, 2) {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "join")
	}
	l, ok := args[0].(*types.ListValue)
	if !ok {
		return types.Ok(types.NewStr(types.AsString(args[0])))
	}
	sep := ""
	if len(args) == 2 {
		sep = types.AsString(args[1])
	}
	parts := make([]string, l.Len())
	for i, e := range l.Elements() {
		parts[i] = types.AsString(e)
	}
	return types.Ok(types.NewStr(strings.Join(parts, sep)))
}

// builtinSplit splits a string, on newlines by default
// split(str [, separator]) -> list
func builtinSplit(ctx *Context, args []types.Value) types.Result {
	if !argCount(args, 1, 2) {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "split")
	}
	sep := "\n"
	if len(args) == 2 {
		sep = types.AsString(args[1])
	}
	s := types.AsString(args[0])
	if sep == "" {
		return types.Ok(types.StringList(strings.Split(s, "")))
	}
	return types.Ok(types.StringList(strings.Split(s, sep)))
}

// builtinLength returns the length of a string, list, map or selection
// length(value) -> int
func builtinLength(ctx *Context, args []types.Value) types.Result {
	if len(args) != 1 {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "1")
	}
	switch v := args[0].(type) {
	case types.StrValue:
		return types.Ok(types.NewInt(v.Len()))
	case *types.ListValue:
		return types.Ok(types.NewInt(v.Len()))
	case *types.MapValue:
		return types.Ok(types.NewInt(v.Len()))
	case types.BitSetValue:
		return types.Ok(types.NewInt(v.Cardinality()))
	case types.BytesValue:
		return types.Ok(types.NewInt(len(v.Data)))
	}
	return types.Ok(types.NewInt(len(types.AsString(args[0]))))
}

func builtinTrim(ctx *Context, args []types.Value) types.Result {
	if !argCount(args, 1, 2) {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "trim")
	}
	s := types.AsString(args[0])
	if len(args) == 2 {
		return types.Ok(types.NewStr(strings.Trim(s, types.AsString(args[1]))))
	}
	return types.Ok(types.NewStr(strings.TrimSpace(s)))
}

func builtinLower(ctx *Context, args []types.Value) types.Result {
	if len(args) != 1 {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "1")
	}
	return types.Ok(types.NewStr(strings.ToLower(types.AsString(args[0]))))
}

func builtinUpper(ctx *Context, args []types.Value) types.Result {
	if len(args) != 1 {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "1")
	}
	return types.Ok(types.NewStr(strings.ToUpper(types.AsString(args[0]))))
}
