package vm

import (
	"math"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"molscript/selection"
	"molscript/token"
	"molscript/types"
)

// number classifies a numeric operand. Booleans count as integers and
// strings holding an integer are integers.
func number(v types.Value) (i int, f float64, isInt bool) {
	switch x := v.(type) {
	case types.IntValue:
		return x.Val, float64(x.Val), true
	case types.BoolValue:
		n := types.AsInt(x)
		return n, float64(n), true
	case types.StrValue:
		if n, ok := types.ParseInt(strings.TrimSpace(x.Value())); ok {
			return n, float64(n), true
		}
	}
	return 0, types.AsFloat(v), false
}

func isNumber(v types.Value) bool {
	switch v.(type) {
	case types.IntValue, types.FloatValue, types.BoolValue:
		return true
	}
	return false
}

func bits(v types.BitSetValue) *bitset.BitSet {
	return v.Selected().Clone()
}

// ============================================================================
// UNARY OPERATORS
// ============================================================================

// unaryMinus implements negation: -x
// Supports numbers and points
func unaryMinus(operand types.Value) types.Result {
	switch v := operand.(type) {
	case types.IntValue:
		return types.Ok(types.NewInt(-v.Val))
	case types.FloatValue:
		return types.Ok(types.NewFloat(-v.Val))
	case types.BoolValue:
		return types.Ok(types.NewInt(-types.AsInt(v)))
	case types.Point3Value:
		return types.Ok(v.Scale(-1))
	case types.Point4Value:
		return types.Ok(types.NewPoint4(-v.X, -v.Y, -v.Z, -v.W))
	case types.StrValue:
		i, f, isInt := number(v)
		if isInt {
			return types.Ok(types.NewInt(-i))
		}
		return types.Ok(types.NewFloat(-f))
	}
	return types.ErrTok(types.E_TYPE_MISMATCH, "-"+types.AsString(operand))
}

// not implements logical NOT. A selection is complemented over its
// universe.
func (vm *VM) not(operand types.Value) types.Result {
	bs, ok := operand.(types.BitSetValue)
	if !ok {
		return types.Ok(types.NewBool(!types.AsBoolean(operand)))
	}
	n := types.BitSetLength(bs.Bits)
	if vm.Selection != nil {
		if bs.Bond {
			n = vm.Selection.Model.BondCount()
		} else {
			n = vm.Selection.AtomCount()
		}
	}
	return types.Ok(bs.WithBits(types.Complement(bits(bs), n)))
}

// ============================================================================
// BINARY DISPATCH
// ============================================================================

// Apply runs a binary operator outside a program, for compound
// assignment
func (vm *VM) Apply(op token.Tok, left, right types.Value) (types.Value, error) {
	r := vm.binary(op, left, right)
	if r.IsError() {
		return nil, r.Error
	}
	return r.Val, nil
}

func (vm *VM) binary(op token.Tok, left, right types.Value) types.Result {
	switch op {
	case token.TokOpPlus:
		return add(left, right)
	case token.TokOpMinus:
		return subtract(left, right)
	case token.TokOpMul:
		return multiply(left, right)
	case token.TokOpDiv:
		return divide(left, right)
	case token.TokOpIntDiv:
		return intDivide(left, right)
	case token.TokOpMod:
		return modulo(left, right)
	case token.TokOpPow:
		return power(left, right)
	case token.TokOpEQ:
		return types.Ok(types.NewBool(types.AreEqual(left, right)))
	case token.TokOpNE:
		return types.Ok(types.NewBool(!types.AreEqual(left, right)))
	case token.TokOpLT, token.TokOpLE, token.TokOpGT, token.TokOpGE:
		return compare(op, left, right)
	case token.TokOpLike:
		return types.Ok(types.NewBool(selection.Like(types.AsString(left), types.AsString(right))))
	case token.TokOpAnd, token.TokOpOr, token.TokOpXor, token.TokOpToggle:
		return logical(op, left, right)
	}
	return types.ErrTok(types.E_UNRECOGNIZED_TOKEN, op.String())
}

// ============================================================================
// ARITHMETIC OPERATORS
// ============================================================================

// add implements left + right. A string on the left concatenates; lists
// append; maps merge into a copy; selections unite; points add
// component-wise.
func add(left, right types.Value) types.Result {
	switch l := left.(type) {
	case types.StrValue:
		return types.Ok(types.NewStr(l.Value() + types.AsString(right)))
	case *types.ListValue:
		out := l.Copy()
		if r, ok := right.(*types.ListValue); ok {
			for _, e := range r.Elements() {
				out.Append(e)
			}
		} else {
			out.Append(right)
		}
		return types.Ok(out)
	case *types.MapValue:
		if r, ok := right.(*types.MapValue); ok {
			out := l.Copy()
			for _, k := range r.Keys() {
				v, _ := r.Get(k)
				out.Set(k, v)
			}
			return types.Ok(out)
		}
	case types.BitSetValue:
		if r, ok := right.(types.BitSetValue); ok {
			return setOp(token.TokOpOr, l, r)
		}
	case types.Point3Value:
		switch r := right.(type) {
		case types.Point3Value:
			return types.Ok(l.Add(r))
		case types.Point4Value:
			return types.Ok(l.Add(r.Normal()))
		}
		f := types.AsFloat(right)
		return types.Ok(l.Add(types.NewPoint3(f, f, f)))
	case types.Point4Value:
		if r, ok := right.(types.Point4Value); ok {
			return types.Ok(types.NewPoint4(l.X+r.X, l.Y+r.Y, l.Z+r.Z, l.W+r.W))
		}
	}
	if r, ok := right.(types.Point3Value); ok && isNumber(left) {
		f := types.AsFloat(left)
		return types.Ok(r.Add(types.NewPoint3(f, f, f)))
	}
	li, lf, lInt := number(left)
	ri, rf, rInt := number(right)
	if lInt && rInt {
		return types.Ok(types.NewInt(li + ri))
	}
	return types.Ok(types.NewFloat(lf + rf))
}

// subtract implements left - right. Selections subtract as sets and a
// map minus a key drops that key.
func subtract(left, right types.Value) types.Result {
	switch l := left.(type) {
	case types.BitSetValue:
		if r, ok := right.(types.BitSetValue); ok {
			return types.Ok(l.WithBits(bits(l).Difference(r.Selected())))
		}
	case *types.MapValue:
		out := l.Copy()
		if r, ok := right.(*types.ListValue); ok {
			for _, k := range r.Elements() {
				out.Delete(types.AsString(k))
			}
		} else {
			out.Delete(types.AsString(right))
		}
		return types.Ok(out)
	case types.Point3Value:
		switch r := right.(type) {
		case types.Point3Value:
			return types.Ok(l.Sub(r))
		case types.Point4Value:
			return types.Ok(l.Sub(r.Normal()))
		}
		f := types.AsFloat(right)
		return types.Ok(l.Sub(types.NewPoint3(f, f, f)))
	case types.Point4Value:
		if r, ok := right.(types.Point4Value); ok {
			return types.Ok(types.NewPoint4(l.X-r.X, l.Y-r.Y, l.Z-r.Z, l.W-r.W))
		}
	}
	if r, ok := right.(types.Point3Value); ok && isNumber(left) {
		f := types.AsFloat(left)
		return types.Ok(types.NewPoint3(f, f, f).Sub(r))
	}
	li, lf, lInt := number(left)
	ri, rf, rInt := number(right)
	if lInt && rInt {
		return types.Ok(types.NewInt(li - ri))
	}
	return types.Ok(types.NewFloat(lf - rf))
}

// multiply implements left * right. point*number scales, point*point is
// the dot product and matrices transform points or compose.
func multiply(left, right types.Value) types.Result {
	switch l := left.(type) {
	case types.Point3Value:
		switch r := right.(type) {
		case types.Point3Value:
			return types.Ok(types.NewFloat(l.Dot(r)))
		case types.Point4Value:
			return types.Ok(types.NewFloat(l.Dot(r.Normal())))
		}
		if isNumber(right) {
			return types.Ok(l.Scale(types.AsFloat(right)))
		}
	case types.Matrix3Value:
		switch r := right.(type) {
		case types.Point3Value:
			return types.Ok(l.Transform(r))
		case types.Matrix3Value:
			return types.Ok(l.Mul(r))
		}
	case types.Matrix4Value:
		switch r := right.(type) {
		case types.Point3Value:
			return types.Ok(l.Transform(r))
		case types.Matrix4Value:
			return types.Ok(l.Mul(r))
		}
	}
	if r, ok := right.(types.Point3Value); ok && isNumber(left) {
		return types.Ok(r.Scale(types.AsFloat(left)))
	}
	li, lf, lInt := number(left)
	ri, rf, rInt := number(right)
	if lInt && rInt {
		return types.Ok(types.NewInt(li * ri))
	}
	return types.Ok(types.NewFloat(lf * rf))
}

// divide implements left / right. Integers stay integral when the
// division is exact.
func divide(left, right types.Value) types.Result {
	if l, ok := left.(types.Point3Value); ok && isNumber(right) {
		return types.Ok(l.Scale(1 / types.AsFloat(right)))
	}
	li, lf, lInt := number(left)
	ri, rf, rInt := number(right)
	if lInt && rInt && ri != 0 && li%ri == 0 {
		return types.Ok(types.NewInt(li / ri))
	}
	return types.Ok(types.NewFloat(lf / rf))
}

// intDivide implements left \ right, truncating toward zero
func intDivide(left, right types.Value) types.Result {
	_, lf, _ := number(left)
	_, rf, _ := number(right)
	if rf == 0 {
		return types.Ok(types.NewFloat(math.NaN()))
	}
	q := math.Trunc(lf / rf)
	if math.IsInf(q, 0) || math.Abs(q) > math.MaxInt32 {
		return types.Ok(types.NewFloat(q))
	}
	return types.Ok(types.NewInt(int(q)))
}

// modulo implements left % right. A decimal modulo an integer n is the
// decimal formatted with n digits after the point.
func modulo(left, right types.Value) types.Result {
	if l, ok := left.(types.FloatValue); ok {
		if r, ok := right.(types.IntValue); ok {
			if r.Val >= 0 {
				return types.Ok(types.NewStr(strconv.FormatFloat(l.Val, 'f', r.Val, 64)))
			}
			return types.Ok(types.NewStr(strconv.FormatFloat(l.Val, 'E', -r.Val-1, 64)))
		}
	}
	li, lf, lInt := number(left)
	ri, rf, rInt := number(right)
	if lInt && rInt {
		if ri == 0 {
			return types.Ok(types.NewFloat(math.NaN()))
		}
		return types.Ok(types.NewInt(li % ri))
	}
	return types.Ok(types.NewFloat(math.Mod(lf, rf)))
}

// power implements left ** right
func power(left, right types.Value) types.Result {
	_, lf, _ := number(left)
	_, rf, _ := number(right)
	return types.Ok(types.NewFloat(math.Pow(lf, rf)))
}

// ============================================================================
// COMPARISON AND LOGIC
// ============================================================================

// compare implements < <= > >=. Two strings compare lexically, anything
// else numerically.
func compare(op token.Tok, left, right types.Value) types.Result {
	var c int
	ls, lok := left.(types.StrValue)
	rs, rok := right.(types.StrValue)
	if lok && rok {
		c = strings.Compare(ls.Value(), rs.Value())
	} else {
		_, a, _ := number(left)
		_, b, _ := number(right)
		if math.IsNaN(a) || math.IsNaN(b) {
			return types.Ok(types.NewBool(false))
		}
		switch {
		case a < b:
			c = -1
		case a > b:
			c = 1
		}
	}
	switch op {
	case token.TokOpLT:
		return types.Ok(types.NewBool(c < 0))
	case token.TokOpLE:
		return types.Ok(types.NewBool(c <= 0))
	case token.TokOpGT:
		return types.Ok(types.NewBool(c > 0))
	}
	return types.Ok(types.NewBool(c >= 0))
}

// logical implements and, or, xor and tog: set algebra on two
// selections, boolean logic otherwise
func logical(op token.Tok, left, right types.Value) types.Result {
	l, lok := left.(types.BitSetValue)
	r, rok := right.(types.BitSetValue)
	if lok && rok {
		return setOp(op, l, r)
	}
	a, b := types.AsBoolean(left), types.AsBoolean(right)
	switch op {
	case token.TokOpAnd:
		return types.Ok(types.NewBool(a && b))
	case token.TokOpOr:
		return types.Ok(types.NewBool(a || b))
	}
	return types.Ok(types.NewBool(a != b))
}

// setOp combines two selections into a new one; neither operand is
// modified
func setOp(op token.Tok, l, r types.BitSetValue) types.Result {
	a := bits(l)
	b := r.Selected()
	switch op {
	case token.TokOpAnd:
		a.InPlaceIntersection(b)
	case token.TokOpOr:
		a.InPlaceUnion(b)
	default:
		a.InPlaceSymmetricDifference(b)
	}
	return types.Ok(l.WithBits(a))
}
