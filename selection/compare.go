package selection

import (
	"math"
	"path"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"molscript/token"
	"molscript/types"
)

// Compare evaluates a comparator token against every atom. value is the
// literal carried by the token or, when it has none, the value computed
// by the preceding code.
func (e *Engine) Compare(cmp *token.Token, value types.Value) (*bitset.BitSet, error) {
	prop, op := token.Tok(cmp.Int), cmp.Op
	if cmp.Has(token.FlagNegate) {
		switch v := value.(type) {
		case types.IntValue:
			value = types.NewInt(-v.Val)
		default:
			value = types.NewFloat(-types.AsFloat(value))
		}
	}
	switch {
	case prop.Has(token.AttrStringProperty):
		return e.CompareString(prop, op, types.AsString(value)), nil
	case prop.Has(token.AttrPointProperty):
		pt, ok := types.AsPoint(value)
		if !ok {
			return nil, types.NewError(types.E_INVALID_ARGUMENT, types.AsString(value))
		}
		return e.ComparePoint(prop, op, pt)
	case prop.Has(token.AttrIntProperty):
		switch v := value.(type) {
		case types.IntValue:
			return e.CompareInt(prop, op, v.Val), nil
		case types.BoolValue:
			return e.CompareInt(prop, op, types.AsInt(v)), nil
		}
		f := types.AsFloat(value)
		if f == math.Trunc(f) && math.Abs(f) < math.MaxInt32 {
			return e.CompareInt(prop, op, int(f)), nil
		}
		return e.CompareFloat(prop, op, f), nil
	case prop.Has(token.AttrFloatProperty):
		return e.CompareFloat(prop, op, types.AsFloat(value)), nil
	}
	return nil, types.NewError(types.E_INVALID_ARGUMENT, prop.String())
}

func compareNumbers[T int | float64](a T, op token.Tok, b T) bool {
	switch op {
	case token.TokOpLT:
		return a < b
	case token.TokOpLE:
		return a <= b
	case token.TokOpGE:
		return a >= b
	case token.TokOpGT:
		return a > b
	case token.TokOpEQ:
		return a == b
	case token.TokOpNE:
		return a != b
	}
	return false
}

// CompareInt selects atoms whose integer property stands in relation op
// to value. atomindex is answered with ranges; symop tests membership in
// the operations that generated each atom.
func (e *Engine) CompareInt(prop, op token.Tok, value int) *bitset.BitSet {
	switch prop {
	case token.TokAtomIndex:
		return e.atomIndexRange(op, value)
	case token.TokSymop:
		return e.compareSymop(op, value)
	}
	return e.matching(func(i int) bool {
		return compareNumbers(e.Model.AtomInt(i, prop), op, value)
	})
}

func (e *Engine) atomIndexRange(op token.Tok, value int) *bitset.BitSet {
	n := e.Model.AtomCount()
	bs := bitset.New(uint(n))
	lo, hi := 0, n // half-open
	switch op {
	case token.TokOpLT:
		hi = value
	case token.TokOpLE:
		hi = value + 1
	case token.TokOpGE:
		lo = value
	case token.TokOpGT:
		lo = value + 1
	case token.TokOpEQ:
		lo, hi = value, value+1
	case token.TokOpNE:
		bs.FlipRange(0, uint(n))
		if value >= 0 && value < n {
			bs.Clear(uint(value))
		}
		return bs
	}
	lo = max(lo, 0)
	hi = min(hi, n)
	if lo < hi {
		bs.FlipRange(uint(lo), uint(hi))
	}
	return bs
}

// compareSymop handles symop comparisons. Values of 200 and above encode
// op*1000+ijk: the lattice translation ijk (555 is the home cell) of the
// atom, or of operation op, is compared. Smaller values compare against
// the set of operations that generated the atom, truncated to the
// model's operation count.
func (e *Engine) compareSymop(op token.Tok, value int) *bitset.BitSet {
	return e.matching(func(i int) bool {
		ops := e.Model.AtomSymops(i)
		if ops == nil {
			return false
		}
		nOps := e.Model.ModelSymmetryCount(e.Model.AtomInt(i, token.TokModelIndex))
		if value >= 200 {
			ijk, symop := value%1000, value/1000-1
			var code int
			if symop < 0 {
				code = cellCode(e.Model.AtomPoint(i, token.TokFracXYZ))
			} else {
				if nOps == 0 || !ops.Test(uint(symop)) {
					return false
				}
				t, ok := e.Model.AtomSymmetryTranslation(i, symop)
				if !ok {
					return false
				}
				code = translationCode(t)
			}
			return compareNumbers(code, op, ijk)
		}
		if nOps > 0 {
			if value > nOps && op != token.TokOpLT && op != token.TokOpLE {
				return false
			}
			ops = ops.Clone()
			for k := uint(nOps); k < ops.Len(); k++ {
				ops.Clear(k)
			}
		}
		k := value - 1
		switch op {
		case token.TokOpEQ:
			return k >= 0 && ops.Test(uint(k))
		case token.TokOpNE:
			return k < 0 || !ops.Test(uint(k))
		case token.TokOpLT:
			return anyBitIn(ops, 0, k)
		case token.TokOpLE:
			return anyBitIn(ops, 0, k+1)
		case token.TokOpGT:
			return anyBitIn(ops, k+1, math.MaxInt32)
		case token.TokOpGE:
			return anyBitIn(ops, k, math.MaxInt32)
		}
		return false
	})
}

// anyBitIn reports a set bit in [lo, hi)
func anyBitIn(bs *bitset.BitSet, lo, hi int) bool {
	lo = max(lo, 0)
	if lo >= hi {
		return false
	}
	next, ok := bs.NextSet(uint(lo))
	return ok && int(next) < hi
}

// cellCode encodes the unit cell holding a fractional coordinate as ijk
// with 5 for the home cell
func cellCode(frac types.Point3Value) int {
	return translationCode(types.NewPoint3(math.Floor(frac.X), math.Floor(frac.Y), math.Floor(frac.Z)))
}

func translationCode(t types.Point3Value) int {
	return int(t.X+5)*100 + int(t.Y+5)*10 + int(t.Z+5)
}

// CompareFloat selects atoms whose float property stands in relation op
// to value; comparisons are exact
func (e *Engine) CompareFloat(prop, op token.Tok, value float64) *bitset.BitSet {
	intProp := prop.Has(token.AttrIntProperty)
	return e.matching(func(i int) bool {
		var f float64
		if intProp {
			f = float64(e.Model.AtomInt(i, prop))
		} else {
			f = e.Model.AtomFloat(i, prop)
		}
		return compareNumbers(f, op, value)
	})
}

// CompareString selects atoms by string property. Only == and != apply.
// Matching is case-sensitive except for chain identifiers when chains are
// configured case-insensitive; * and ? in value are wildcards.
func (e *Engine) CompareString(prop, op token.Tok, value string) *bitset.BitSet {
	fold := prop == token.TokChain && !e.CaseSensitiveChains
	if fold {
		value = types.Fold(value)
	}
	wild := strings.ContainsAny(value, "*?")
	bs := e.matching(func(i int) bool {
		s := e.Model.AtomString(i, prop)
		if fold {
			s = types.Fold(s)
		}
		if wild {
			return Like(s, value)
		}
		return s == value
	})
	switch op {
	case token.TokOpEQ:
		return bs
	case token.TokOpNE:
		n := e.Model.AtomCount()
		return types.Complement(bs, n)
	}
	return e.None()
}

// ComparePoint selects atoms whose point property equals (or not) value
// within the usual tolerance
func (e *Engine) ComparePoint(prop, op token.Tok, value types.Point3Value) (*bitset.BitSet, error) {
	if op != token.TokOpEQ && op != token.TokOpNE {
		return nil, types.NewError(types.E_INVALID_ARGUMENT, op.String())
	}
	return e.matching(func(i int) bool {
		eq := types.AreEqual(e.Model.AtomPoint(i, prop), value)
		return eq == (op == token.TokOpEQ)
	}), nil
}

// Like matches s against a pattern where * matches any run and ? any one
// character
func Like(s, pattern string) bool {
	pattern = strings.NewReplacer("[", "\\[", "]", "\\]", "\\", "\\\\").Replace(pattern)
	ok, err := path.Match(pattern, s)
	return err == nil && ok
}
