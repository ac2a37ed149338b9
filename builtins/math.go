package builtins

import (
	"math"

	"molscript/types"
)

// ============================================================================
// MATH BUILTINS
// ============================================================================

// Angles are in degrees throughout.

func unaryFloat(args []types.Value, f func(float64) float64) types.Result {
	if len(args) != 1 {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "1")
	}
	return types.Ok(types.NewFloat(f(types.AsFloat(args[0]))))
}

func radians(d float64) float64 { return d * math.Pi / 180 }
func degrees(r float64) float64 { return r * 180 / math.Pi }

// builtinSqrt returns the square root
// sqrt(number) -> float
func builtinSqrt(ctx *Context, args []types.Value) types.Result {
	return unaryFloat(args, math.Sqrt)
}

// builtinAbs returns absolute value, keeping integers integral
// abs(number) -> int|float
func builtinAbs(ctx *Context, args []types.Value) types.Result {
	if len(args) != 1 {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "1")
	}
	if v, ok := args[0].(types.IntValue); ok {
		if v.Val < 0 {
			return types.Ok(types.NewInt(-v.Val))
		}
		return types.Ok(v)
	}
	return types.Ok(types.NewFloat(math.Abs(types.AsFloat(args[0]))))
}

func toInt(f float64) types.Value {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return types.NewFloat(f)
	}
	return types.NewInt(int(f))
}

// builtinFloor rounds down to an integer
func builtinFloor(ctx *Context, args []types.Value) types.Result {
	if len(args) != 1 {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "1")
	}
	return types.Ok(toInt(math.Floor(types.AsFloat(args[0]))))
}

// builtinCeil rounds up to an integer
func builtinCeil(ctx *Context, args []types.Value) types.Result {
	if len(args) != 1 {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "1")
	}
	return types.Ok(toInt(math.Ceil(types.AsFloat(args[0]))))
}

// builtinRound rounds half away from zero
// round(x) -> int
// round(x, decimals) -> float
func builtinRound(ctx *Context, args []types.Value) types.Result {
	if !argCount(args, 1, 2) {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "round")
	}
	f := types.AsFloat(args[0])
	if len(args) == 1 {
		return types.Ok(toInt(math.Round(f)))
	}
	scale := math.Pow(10, float64(types.AsInt(args[1])))
	return types.Ok(types.NewFloat(math.Round(f*scale) / scale))
}

func builtinSin(ctx *Context, args []types.Value) types.Result {
	return unaryFloat(args, func(d float64) float64 { return math.Sin(radians(d)) })
}

func builtinCos(ctx *Context, args []types.Value) types.Result {
	return unaryFloat(args, func(d float64) float64 { return math.Cos(radians(d)) })
}

func builtinTan(ctx *Context, args []types.Value) types.Result {
	return unaryFloat(args, func(d float64) float64 { return math.Tan(radians(d)) })
}

func builtinAcos(ctx *Context, args []types.Value) types.Result {
	return unaryFloat(args, func(x float64) float64 { return degrees(math.Acos(x)) })
}

// builtinAtan2 returns the angle of (x, y)
// atan2(y, x) -> float
func builtinAtan2(ctx *Context, args []types.Value) types.Result {
	if len(args) != 2 {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "2")
	}
	return types.Ok(types.NewFloat(degrees(math.Atan2(types.AsFloat(args[0]), types.AsFloat(args[1])))))
}

// builtinPow raises to a power
// pow(base, exponent) -> float
func builtinPow(ctx *Context, args []types.Value) types.Result {
	if len(args) != 2 {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "2")
	}
	return types.Ok(types.NewFloat(math.Pow(types.AsFloat(args[0]), types.AsFloat(args[1]))))
}

// numbers spreads a single list argument
func numbers(args []types.Value) []types.Value {
	if len(args) == 1 {
		if l, ok := args[0].(*types.ListValue); ok {
			return l.Elements()
		}
	}
	return args
}

func extreme(args []types.Value, better func(a, b float64) bool) types.Result {
	vals := numbers(args)
	if len(vals) == 0 {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "0")
	}
	best := vals[0]
	bestF := types.AsFloat(best)
	for _, v := range vals[1:] {
		if f := types.AsFloat(v); better(f, bestF) {
			best, bestF = v, f
		}
	}
	return types.Ok(best)
}

// builtinMin returns the smallest value
// min(num1, num2, ...) or min(list) -> int|float
func builtinMin(ctx *Context, args []types.Value) types.Result {
	return extreme(args, func(a, b float64) bool { return a < b })
}

// builtinMax returns the largest value
// max(num1, num2, ...) or max(list) -> int|float
func builtinMax(ctx *Context, args []types.Value) types.Result {
	return extreme(args, func(a, b float64) bool { return a > b })
}
