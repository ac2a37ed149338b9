package builtins

import (
	"math"

	"molscript/token"
	"molscript/types"
)

// ============================================================================
// GEOMETRY BUILTINS
// ============================================================================

// pointOf resolves a point argument. A selection stands for the centroid
// of its atoms.
func pointOf(ctx *Context, v types.Value) (types.Point3Value, bool) {
	if bs, ok := v.(types.BitSetValue); ok {
		if ctx == nil || ctx.Selection == nil || bs.Cardinality() == 0 {
			return types.Point3Value{}, false
		}
		c, err := ctx.Selection.GetBitsetProperty(bs, token.TokXYZ, "", token.TokAverage, nil)
		if err != nil {
			return types.Point3Value{}, false
		}
		return types.AsPoint(c)
	}
	return types.AsPoint(v)
}

// builtinPoint builds a point
// point(x, y, z) -> point
// point(x, y, z, w) -> plane
// point("{x y z}") -> point
func builtinPoint(ctx *Context, args []types.Value) types.Result {
	switch len(args) {
	case 1:
		if p, ok := types.AsPlane(args[0]); ok {
			return types.Ok(p)
		}
		if p, ok := pointOf(ctx, args[0]); ok {
			return types.Ok(p)
		}
		return types.ErrTok(types.E_INVALID_ARGUMENT, types.AsString(args[0]))
	case 3:
		return types.Ok(types.NewPoint3(types.AsFloat(args[0]), types.AsFloat(args[1]), types.AsFloat(args[2])))
	case 4:
		return types.Ok(types.NewPoint4(types.AsFloat(args[0]), types.AsFloat(args[1]),
			types.AsFloat(args[2]), types.AsFloat(args[3])))
	}
	return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "point")
}

// builtinPlane builds a plane
// plane(a, b, c, d) -> plane ax+by+cz+d=0
// plane(p1, p2, p3) -> plane through three points
func builtinPlane(ctx *Context, args []types.Value) types.Result {
	switch len(args) {
	case 1:
		if p, ok := types.AsPlane(args[0]); ok {
			return types.Ok(p)
		}
	case 3:
		var pts [3]types.Point3Value
		for i, a := range args {
			p, ok := pointOf(ctx, a)
			if !ok {
				return types.ErrTok(types.E_INVALID_ARGUMENT, types.AsString(a))
			}
			pts[i] = p
		}
		n := pts[1].Sub(pts[0]).Cross(pts[2].Sub(pts[0]))
		if l := n.Length(); l > 0 {
			n = n.Scale(1 / l)
		}
		return types.Ok(types.NewPoint4(n.X, n.Y, n.Z, -n.Dot(pts[0])))
	case 4:
		return builtinPoint(ctx, args)
	}
	return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "plane")
}

// builtinDistance measures between points or selections, or from a
// point to a plane
// distance(a, b) -> float
func builtinDistance(ctx *Context, args []types.Value) types.Result {
	if len(args) != 2 {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "2")
	}
	a, ok := pointOf(ctx, args[0])
	if !ok {
		return types.ErrTok(types.E_INVALID_ARGUMENT, types.AsString(args[0]))
	}
	if plane, ok := args[1].(types.Point4Value); ok {
		return types.Ok(types.NewFloat(plane.DistanceTo(a)))
	}
	b, ok := pointOf(ctx, args[1])
	if !ok {
		return types.ErrTok(types.E_INVALID_ARGUMENT, types.AsString(args[1]))
	}
	return types.Ok(types.NewFloat(a.Distance(b)))
}

// builtinAngle returns the angle a-b-c in degrees
// angle(a, b, c) -> float
func builtinAngle(ctx *Context, args []types.Value) types.Result {
	if len(args) != 3 {
		return types.ErrTok(types.E_BAD_ARGUMENT_COUNT, "3")
	}
	var pts [3]types.Point3Value
	for i, a := range args {
		p, ok := pointOf(ctx, a)
		if !ok {
			return types.ErrTok(types.E_INVALID_ARGUMENT, types.AsString(a))
		}
		pts[i] = p
	}
	u, v := pts[0].Sub(pts[1]), pts[2].Sub(pts[1])
	d := u.Length() * v.Length()
	if d == 0 {
		return types.Ok(types.NewFloat(math.NaN()))
	}
	c := math.Max(-1, math.Min(1, u.Dot(v)/d))
	return types.Ok(types.NewFloat(degrees(math.Acos(c))))
}
