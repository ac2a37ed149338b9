package vm

import (
	"strings"

	"github.com/bits-and-blooms/bitset"

	"molscript/token"
	"molscript/types"
)

// ============================================================================
// ATOM EXPRESSIONS
// ============================================================================

// executeAtom evaluates the predicates of an atom expression
func (vm *VM) executeAtom(t *token.Token) error {
	if vm.Selection == nil {
		return types.NewError(types.E_INVALID_ARGUMENT, t.String())
	}
	sel := vm.Selection
	var bs *bitset.BitSet
	var err error
	switch t.Tok {
	case token.TokAll:
		bs = sel.All()
	case token.TokNone:
		bs = sel.None()
	case token.TokSelected:
		bs = sel.Selected()
	case token.TokNamedSet:
		return vm.executeNamedSet(t.Name())
	case token.TokSpecName, token.TokSpecSeqcode, token.TokSpecSeqcodeRange, token.TokSpecChain,
		token.TokSpecAtom, token.TokSpecAlternate, token.TokSpecModel, token.TokSpecModel2:
		bs = sel.Spec(t)
	case token.TokComparator:
		v := t.Literal()
		if v == nil {
			x, ok := vm.Pop()
			if !ok {
				return vm.underflow()
			}
			v = x
		}
		bs, err = sel.Compare(t, v)
	case token.TokWithin, token.TokContact, token.TokConnected, token.TokSearch, token.TokSmiles:
		args, ok := vm.PopN(t.Int)
		if !ok {
			return vm.underflow()
		}
		switch t.Tok {
		case token.TokWithin:
			bs, err = sel.Within(args)
		case token.TokContact:
			bs, err = sel.Contact(args)
		case token.TokConnected:
			bs, err = sel.Connected(args)
		default:
			bs, err = sel.Search(t.Tok, args)
		}
	case token.TokCell, token.TokCentroid:
		pt, ok := t.Value.(types.Point3Value)
		if !ok {
			return types.NewError(types.E_INVALID_ARGUMENT, t.String())
		}
		if t.Tok == token.TokCell {
			bs = sel.Cell(pt)
		} else {
			bs = sel.Centroid(pt)
		}
	default:
		return types.NewError(types.E_UNRECOGNIZED_TOKEN, t.String())
	}
	if err != nil {
		return err
	}
	vm.Push(types.NewBitSet(bs))
	return nil
}

// executeNamedSet resolves a bare name in an atom expression: a
// predefined set, then a selection held in a variable, then a group name
func (vm *VM) executeNamedSet(name string) error {
	if bs, ok := vm.Selection.Model.PredefinedSet(strings.ToLower(name)); ok {
		vm.Push(types.NewBitSet(bs.Clone()))
		return nil
	}
	if v, ok := vm.Host.Variable(name); ok {
		if bs, ok := v.(types.BitSetValue); ok {
			vm.Push(bs)
			return nil
		}
	}
	vm.Push(types.NewBitSet(vm.Selection.GroupMatch(name)))
	return nil
}
