// Package selection resolves atom predicates and property projections
// against a domain model: comparators, residue specifications, within
// and connected clauses, and aggregate property values over bit-sets.
package selection

import (
	"github.com/bits-and-blooms/bitset"

	"molscript/token"
	"molscript/types"
)

// Model is the domain model as seen by the selection engine. Atoms and
// bonds are 0-based ordinals; properties are addressed by keyword code.
type Model interface {
	AtomCount() int
	BondCount() int

	AtomInt(i int, prop token.Tok) int
	AtomFloat(i int, prop token.Tok) float64
	AtomString(i int, prop token.Tok) string
	AtomPoint(i int, prop token.Tok) types.Point3Value

	// BondAtoms returns the two atoms joined by bond b
	BondAtoms(b int) (int, int)
	BondOrder(b int) string
	BondColor(b int) types.Point3Value

	ModelCount() int
	ModelAtoms(modelIndex int) *bitset.BitSet
	// ModelNumberIndex maps file*1000000+model to a model index, or -1
	ModelNumberIndex(number int) int
	HaveFileSet() bool
	IsTrajectory(modelIndex int) bool

	// ModelSymmetryCount is the number of symmetry operations of a model
	ModelSymmetryCount(modelIndex int) int
	// AtomSymops has bit k set when operation k+1 generated atom i; nil
	// when the atom carries no symmetry
	AtomSymops(i int) *bitset.BitSet
	// AtomSymmetryTranslation is the lattice translation op (0-based)
	// applied to produce atom i
	AtomSymmetryTranslation(i, op int) (types.Point3Value, bool)

	// UnitCell is the orthorhombic cell of a model, edge lengths a b c
	UnitCell(modelIndex int) (types.Point3Value, bool)

	PredefinedSet(name string) (*bitset.BitSet, bool)
	Selection() *bitset.BitSet
	SetSelection(bs *bitset.BitSet)
	SetAtomProperty(i int, prop token.Tok, v types.Value) error

	IsFunction(name string) bool
	CallFunction(name string, args []types.Value, atoms *bitset.BitSet) (types.Value, error)

	// MatchPattern runs a substructure (TokSearch) or SMILES (TokSmiles)
	// match restricted to the given atoms
	MatchPattern(kind token.Tok, pattern string, atoms *bitset.BitSet) (*bitset.BitSet, error)
}
