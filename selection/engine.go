package selection

import (
	"github.com/bits-and-blooms/bitset"
	"go.uber.org/zap"

	"molscript/types"
)

// Engine evaluates predicates over one model
type Engine struct {
	Model Model
	// CaseSensitiveChains makes chain identifiers compare case-sensitively
	CaseSensitiveChains bool

	log *zap.Logger
}

// New creates an engine. A nil logger discards output.
func New(m Model, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{Model: m, log: log}
}

// AtomCount is the size of the atom universe
func (e *Engine) AtomCount() int {
	return e.Model.AtomCount()
}

// All returns a set holding every atom
func (e *Engine) All() *bitset.BitSet {
	n := e.Model.AtomCount()
	return bitset.New(uint(n)).FlipRange(0, uint(n))
}

// None returns an empty atom set
func (e *Engine) None() *bitset.BitSet {
	return bitset.New(uint(e.Model.AtomCount()))
}

// Selected returns the model's current selection
func (e *Engine) Selected() *bitset.BitSet {
	if bs := e.Model.Selection(); bs != nil {
		return bs.Clone()
	}
	return e.None()
}

// matching sets bit i for every atom satisfying f
func (e *Engine) matching(f func(i int) bool) *bitset.BitSet {
	n := e.Model.AtomCount()
	bs := bitset.New(uint(n))
	for i := 0; i < n; i++ {
		if f(i) {
			bs.Set(uint(i))
		}
	}
	return bs
}

// BondsOf returns the bonds whose two atoms are both in atoms
func (e *Engine) BondsOf(atoms *bitset.BitSet) types.BitSetValue {
	n := e.Model.BondCount()
	bonds := bitset.New(uint(n))
	for b := 0; b < n; b++ {
		i, j := e.Model.BondAtoms(b)
		if atoms.Test(uint(i)) && atoms.Test(uint(j)) {
			bonds.Set(uint(b))
		}
	}
	v := types.NewBondSet(bonds)
	v.Associated = atoms
	return v
}
