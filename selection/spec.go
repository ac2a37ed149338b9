package selection

import (
	"strings"

	"github.com/bits-and-blooms/bitset"

	"molscript/token"
	"molscript/types"
)

// Spec evaluates one residue-specification token
func (e *Engine) Spec(t *token.Token) *bitset.BitSet {
	m := e.Model
	switch t.Tok {
	case token.TokSpecName:
		return e.GroupMatch(t.Name())
	case token.TokSpecSeqcode:
		return e.matching(func(i int) bool { return m.AtomInt(i, token.TokResNo) == t.Int })
	case token.TokSpecSeqcodeRange:
		end := types.AsInt(t.Literal())
		return e.matching(func(i int) bool {
			r := m.AtomInt(i, token.TokResNo)
			return r >= t.Int && r <= end
		})
	case token.TokSpecChain:
		return e.CompareString(token.TokChain, token.TokOpEQ, t.Name())
	case token.TokSpecAtom:
		pattern := strings.ToUpper(t.Name())
		return e.matching(func(i int) bool { return Like(strings.ToUpper(m.AtomString(i, token.TokAtomName)), pattern) })
	case token.TokSpecAlternate:
		alt := t.Name()
		return e.matching(func(i int) bool { return m.AtomString(i, token.TokAltLoc) == alt })
	case token.TokSpecModel, token.TokSpecModel2:
		return e.BitSetForModelFileNumber(t.Int)
	}
	return e.None()
}

// GroupMatch selects atoms whose group name matches pattern,
// case-insensitively, with * and ? wildcards
func (e *Engine) GroupMatch(pattern string) *bitset.BitSet {
	pattern = strings.ToUpper(pattern)
	return e.matching(func(i int) bool {
		return Like(strings.ToUpper(e.Model.AtomString(i, token.TokGroup)), pattern)
	})
}

// BitSetForModelFileNumber resolves file*1000000+model. A zero model part
// means every model of the file; a trajectory file contributes only its
// first model. Without a file set, plain model numbers belong to file 1.
func (e *Engine) BitSetForModelFileNumber(m int) *bitset.BitSet {
	bs := e.None()
	md := e.Model
	if m < 1000000 && md.HaveFileSet() {
		m *= 1000000
	}
	if m%1000000 != 0 {
		if m < 1000000 {
			m += 1000000
		}
		if idx := md.ModelNumberIndex(m); idx >= 0 {
			bs.InPlaceUnion(md.ModelAtoms(idx))
		}
		return bs
	}
	model1 := 0
	if m != 0 {
		if model1 = md.ModelNumberIndex(m + 1); model1 < 0 {
			return bs
		}
	}
	model2 := md.ModelCount()
	if m != 0 {
		if next := md.ModelNumberIndex(m + 1000001); next >= 0 {
			model2 = next
		}
	}
	if md.IsTrajectory(model1) {
		model2 = model1 + 1
	}
	for j := model1; j < model2; j++ {
		bs.InPlaceUnion(md.ModelAtoms(j))
	}
	return bs
}

// NamedSet resolves a bare name: a predefined set, else a group name
func (e *Engine) NamedSet(name string) *bitset.BitSet {
	if bs, ok := e.Model.PredefinedSet(strings.ToLower(name)); ok {
		return bs.Clone()
	}
	return e.GroupMatch(name)
}

// Cell selects atoms inside unit cell pt, where {1 1 1} is the home cell
func (e *Engine) Cell(pt types.Point3Value) *bitset.BitSet {
	want := cellCode(pt.Sub(types.NewPoint3(1, 1, 1)))
	return e.matching(func(i int) bool {
		return cellCode(e.Model.AtomPoint(i, token.TokFracXYZ)) == want
	})
}

// Centroid selects whole molecules whose centroid lies in unit cell pt
func (e *Engine) Centroid(pt types.Point3Value) *bitset.BitSet {
	want := cellCode(pt.Sub(types.NewPoint3(1, 1, 1)))
	sums := map[int]types.Point3Value{}
	counts := map[int]int{}
	n := e.Model.AtomCount()
	for i := 0; i < n; i++ {
		mol := e.Model.AtomInt(i, token.TokMolecule)
		sums[mol] = sums[mol].Add(e.Model.AtomPoint(i, token.TokFracXYZ))
		counts[mol]++
	}
	inside := map[int]bool{}
	for mol, sum := range sums {
		inside[mol] = cellCode(sum.Scale(1/float64(counts[mol]))) == want
	}
	return e.matching(func(i int) bool {
		return inside[e.Model.AtomInt(i, token.TokMolecule)]
	})
}
