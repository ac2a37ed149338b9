package selection

import (
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/exp/constraints"

	"molscript/token"
	"molscript/types"
)

// stats accumulates the aggregate modifiers over a run of numbers
type stats[T constraints.Integer | constraints.Float] struct {
	n        int
	min, max T
	sum      T
	sum2     float64
}

func (s *stats[T]) add(v T) {
	if s.n == 0 || v < s.min {
		s.min = v
	}
	if s.n == 0 || v > s.max {
		s.max = v
	}
	s.n++
	s.sum += v
	s.sum2 += float64(v) * float64(v)
}

func (s *stats[T]) stddev() float64 {
	if s.n < 2 {
		return math.NaN()
	}
	n := float64(s.n)
	sum := float64(s.sum)
	return math.Sqrt((s.sum2 - sum*sum/n) / (n - 1))
}

// intStats reports an aggregate over integers. Sums and extremes stay
// integral, as does an average that divides exactly.
func intStats(s *stats[int], modifier token.Tok) types.Value {
	if s.n == 0 {
		return types.NewFloat(math.NaN())
	}
	switch modifier {
	case token.TokMin:
		return types.NewInt(s.min)
	case token.TokMax:
		return types.NewInt(s.max)
	case token.TokSum:
		return types.NewInt(s.sum)
	case token.TokSum2:
		return types.NewInt(int(s.sum2))
	case token.TokStdDev:
		return types.NewFloat(s.stddev())
	}
	if s.sum%s.n == 0 {
		return types.NewInt(s.sum / s.n)
	}
	return types.NewFloat(float64(s.sum) / float64(s.n))
}

func floatStats(s *stats[float64], modifier token.Tok) types.Value {
	if s.n == 0 {
		return types.NewFloat(math.NaN())
	}
	switch modifier {
	case token.TokMin:
		return types.NewFloat(s.min)
	case token.TokMax:
		return types.NewFloat(s.max)
	case token.TokSum:
		return types.NewFloat(s.sum)
	case token.TokSum2:
		return types.NewFloat(s.sum2)
	case token.TokStdDev:
		return types.NewFloat(s.stddev())
	}
	return types.NewFloat(s.sum / float64(s.n))
}

// Aggregate applies a modifier to a list of values: numbers are reduced,
// points are averaged or summed, anything else is returned as is
func Aggregate(vals []types.Value, modifier token.Tok) types.Value {
	if modifier == token.TokAll {
		return types.NewList(vals)
	}
	allInt := true
	var pts []types.Point3Value
	for _, v := range vals {
		switch v := v.(type) {
		case types.IntValue:
		case types.FloatValue:
			allInt = false
		case types.Point3Value:
			pts = append(pts, v)
		default:
			return types.NewList(vals)
		}
	}
	if len(pts) > 0 {
		if len(pts) != len(vals) {
			return types.NewList(vals)
		}
		return pointStats(pts, modifier)
	}
	if allInt {
		var s stats[int]
		for _, v := range vals {
			s.add(v.(types.IntValue).Val)
		}
		return intStats(&s, modifier)
	}
	var s stats[float64]
	for _, v := range vals {
		s.add(types.AsFloat(v))
	}
	return floatStats(&s, modifier)
}

func pointStats(pts []types.Point3Value, modifier token.Tok) types.Value {
	var sum types.Point3Value
	for _, p := range pts {
		sum = sum.Add(p)
	}
	if modifier == token.TokSum {
		return sum
	}
	return sum.Scale(1 / float64(len(pts)))
}

// GetBitsetProperty reads property prop over the members of bs and
// reduces it with modifier. TokNada averages numbers; a single selected
// member yields its raw value. For TokFunctionProperty, fn names the user
// function called once per atom with args.
func (e *Engine) GetBitsetProperty(bs types.BitSetValue, prop token.Tok, fn string, modifier token.Tok, args []types.Value) (types.Value, error) {
	if bs.Bond {
		return e.bondProperty(bs, prop, modifier)
	}
	members := bs.Selected()
	if modifier == token.TokAllFloat {
		return e.denseFloats(e.AtomCount(), members, func(i int) float64 {
			return e.atomFloat(i, prop)
		}), nil
	}
	if bs.IsSelected() && modifier == token.TokNada {
		i, ok := members.NextSet(0)
		if !ok {
			return types.NewStr(""), nil
		}
		return e.atomValue(int(i), prop, fn, args)
	}
	switch {
	case prop == token.TokFunctionProperty:
		vals, err := e.eachAtom(members, func(i int) (types.Value, error) {
			return e.atomValue(i, prop, fn, args)
		})
		if err != nil {
			return nil, err
		}
		return Aggregate(vals, modifier), nil
	case prop.Has(token.AttrStringProperty):
		ss := make([]string, 0, members.Count())
		for _, i := range types.Ordinals(members) {
			ss = append(ss, e.Model.AtomString(i, prop))
		}
		if len(ss) == 1 && modifier != token.TokAll {
			return types.NewStr(ss[0]), nil
		}
		return types.StringList(ss), nil
	case prop.Has(token.AttrPointProperty):
		vals, _ := e.eachAtom(members, func(i int) (types.Value, error) {
			return e.Model.AtomPoint(i, prop), nil
		})
		if len(vals) == 0 {
			return types.NewStr(""), nil
		}
		return Aggregate(vals, modifier), nil
	case prop.Has(token.AttrIntProperty):
		if modifier == token.TokAll {
			vals, _ := e.eachAtom(members, func(i int) (types.Value, error) {
				return types.NewInt(e.Model.AtomInt(i, prop)), nil
			})
			return types.NewList(vals), nil
		}
		var s stats[int]
		for _, i := range types.Ordinals(members) {
			s.add(e.Model.AtomInt(i, prop))
		}
		return intStats(&s, modifier), nil
	case prop.Has(token.AttrFloatProperty):
		if modifier == token.TokAll {
			vals, _ := e.eachAtom(members, func(i int) (types.Value, error) {
				return types.NewFloat(e.Model.AtomFloat(i, prop)), nil
			})
			return types.NewList(vals), nil
		}
		var s stats[float64]
		for _, i := range types.Ordinals(members) {
			s.add(e.Model.AtomFloat(i, prop))
		}
		return floatStats(&s, modifier), nil
	}
	return nil, types.NewError(types.E_UNRECOGNIZED_PROPERTY, prop.String())
}

func (e *Engine) eachAtom(members *bitset.BitSet, f func(i int) (types.Value, error)) ([]types.Value, error) {
	vals := make([]types.Value, 0, members.Count())
	for _, i := range types.Ordinals(members) {
		v, err := f(i)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func (e *Engine) atomValue(i int, prop token.Tok, fn string, args []types.Value) (types.Value, error) {
	switch {
	case prop == token.TokFunctionProperty:
		one := bitset.New(uint(e.AtomCount())).Set(uint(i))
		return e.Model.CallFunction(fn, args, one)
	case prop.Has(token.AttrStringProperty):
		return types.NewStr(e.Model.AtomString(i, prop)), nil
	case prop.Has(token.AttrPointProperty):
		return e.Model.AtomPoint(i, prop), nil
	case prop.Has(token.AttrIntProperty):
		return types.NewInt(e.Model.AtomInt(i, prop)), nil
	case prop.Has(token.AttrFloatProperty):
		return types.NewFloat(e.Model.AtomFloat(i, prop)), nil
	}
	return nil, types.NewError(types.E_UNRECOGNIZED_PROPERTY, prop.String())
}

func (e *Engine) atomFloat(i int, prop token.Tok) float64 {
	if prop.Has(token.AttrIntProperty) {
		return float64(e.Model.AtomInt(i, prop))
	}
	if prop.Has(token.AttrFloatProperty) {
		return e.Model.AtomFloat(i, prop)
	}
	return math.NaN()
}

// denseFloats lays out one float per entity ordinal with NaN for
// entities outside members
func (e *Engine) denseFloats(n int, members *bitset.BitSet, f func(i int) float64) *types.ListValue {
	fs := make([]float64, n)
	for i := range fs {
		if members.Test(uint(i)) {
			fs[i] = f(i)
		} else {
			fs[i] = math.NaN()
		}
	}
	return types.FloatList(fs)
}

// bondProperty supports length, xyz (the bond midpoint) and color
func (e *Engine) bondProperty(bs types.BitSetValue, prop token.Tok, modifier token.Tok) (types.Value, error) {
	var f func(b int) types.Value
	switch prop {
	case token.TokLength:
		f = func(b int) types.Value {
			i, j := e.Model.BondAtoms(b)
			return types.NewFloat(e.xyz(i).Distance(e.xyz(j)))
		}
	case token.TokXYZ:
		f = func(b int) types.Value {
			i, j := e.Model.BondAtoms(b)
			return e.xyz(i).Add(e.xyz(j)).Scale(0.5)
		}
	case token.TokColor:
		f = func(b int) types.Value { return e.Model.BondColor(b) }
	default:
		return nil, types.NewError(types.E_UNRECOGNIZED_BOND_PROPERTY, prop.String())
	}
	members := bs.Selected()
	if modifier == token.TokAllFloat && prop == token.TokLength {
		return e.denseFloats(e.Model.BondCount(), members, func(b int) float64 {
			return types.AsFloat(f(b))
		}), nil
	}
	vals := make([]types.Value, 0, members.Count())
	for _, b := range types.Ordinals(members) {
		vals = append(vals, f(b))
	}
	if len(vals) == 0 {
		return types.NewStr(""), nil
	}
	if len(vals) == 1 && modifier != token.TokAll {
		return vals[0], nil
	}
	if prop == token.TokColor && modifier == token.TokNada {
		return types.NewList(vals), nil
	}
	return Aggregate(vals, modifier), nil
}

// SetBitsetProperty assigns v to prop on every atom of bs. A list value
// is spread over the atoms in order; extra atoms are left untouched.
// Failures do not stop the assignment and are reported together.
func (e *Engine) SetBitsetProperty(bs types.BitSetValue, prop token.Tok, v types.Value) error {
	if bs.Bond {
		return types.NewError(types.E_UNRECOGNIZED_BOND_PROPERTY, prop.String())
	}
	if !prop.Has(token.AttrAtomProperty) {
		return types.NewError(types.E_UNRECOGNIZED_PROPERTY, prop.String())
	}
	list, isList := v.(*types.ListValue)
	var err error
	for k, i := range types.Ordinals(bs.Selected()) {
		val := v
		if isList {
			if k >= list.Len() {
				break
			}
			val = list.Get(k + 1)
		}
		if perr := e.Model.SetAtomProperty(i, prop, val); perr != nil {
			err = multierr.Append(err, fmt.Errorf("atom %d: %w", i, perr))
		}
	}
	if err != nil {
		e.log.Debug("property assignment failed",
			zap.Stringer("property", prop), zap.Int("failures", len(multierr.Errors(err))))
	}
	return err
}
