package selection

import (
	"math"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"molscript/token"
	"molscript/types"
)

// planeTolerance is how far from a plane an atom may lie and still be in it
const planeTolerance = 0.01

func badArgs(name string) error {
	return types.NewError(types.E_BAD_ARGUMENT_COUNT, name)
}

func (e *Engine) xyz(i int) types.Point3Value {
	return e.Model.AtomPoint(i, token.TokXYZ)
}

func (e *Engine) modelOf(i int) int {
	return e.Model.AtomInt(i, token.TokModelIndex)
}

func atomsOf(v types.Value) (*bitset.BitSet, bool) {
	bs, ok := types.AsBitSet(v)
	if !ok {
		return nil, false
	}
	return bs.Selected(), true
}

// Within implements within(distance, [allModels,] target) where target is
// a set, a point, a plane or a list of points, and within(kind, ...) for
// the named kinds handled by withinKind.
func (e *Engine) Within(args []types.Value) (*bitset.BitSet, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, badArgs("within")
	}
	if s, ok := args[0].(types.StrValue); ok {
		return e.withinKind(strings.ToLower(s.Value()), args[1:])
	}
	target := args[len(args)-1]
	dist := types.AsFloat(args[0])
	allModels := len(args) == 3 && types.AsBoolean(args[1])
	switch t := target.(type) {
	case types.BitSetValue:
		return e.withinDistance(dist, t.Selected(), allModels, nil), nil
	case types.Point3Value:
		return e.matching(func(i int) bool { return e.xyz(i).Distance(t) <= dist }), nil
	case types.Point4Value:
		return e.matching(func(i int) bool { return math.Abs(t.DistanceTo(e.xyz(i))) <= dist }), nil
	case *types.ListValue:
		pts := make([]types.Point3Value, 0, t.Len())
		for _, v := range t.Elements() {
			if p, ok := types.AsPoint(v); ok {
				pts = append(pts, p)
			}
		}
		return e.matching(func(i int) bool {
			for _, p := range pts {
				if e.xyz(i).Distance(p) <= dist {
					return true
				}
			}
			return false
		}), nil
	}
	return nil, types.NewError(types.E_INVALID_ARGUMENT, types.AsString(target))
}

// withinDistance selects atoms within dist of any atom of target. radius,
// when set, replaces dist by a per-pair cutoff.
func (e *Engine) withinDistance(dist float64, target *bitset.BitSet, allModels bool, radius func(i, j int) float64) *bitset.BitSet {
	members := types.Ordinals(target)
	return e.matching(func(i int) bool {
		if target.Test(uint(i)) {
			return true
		}
		p := e.xyz(i)
		for _, j := range members {
			if !allModels && e.modelOf(i) != e.modelOf(j) {
				continue
			}
			cutoff := dist
			if radius != nil {
				cutoff = radius(i, j)
			}
			if p.Distance(e.xyz(j)) <= cutoff {
				return true
			}
		}
		return false
	})
}

// withinKind handles within(kind, ...):
//
//	group, chain, molecule, model, element, vanderwaals: set
//	plane: plane
//	hkl: {h k l} against each model's unit cell
//	coord: [distance,] point
//	branch: set1, set2
//	atomtype: "name[,name...]" [, set]
func (e *Engine) withinKind(kind string, args []types.Value) (*bitset.BitSet, error) {
	switch kind {
	case "hkl":
		return e.withinHKL(args)
	case "coord":
		return e.withinCoord(args)
	case "branch":
		return e.branch(args)
	case "atomtype":
		return e.withinAtomType(args)
	}
	if len(args) != 1 {
		return nil, badArgs("within")
	}
	target := args[0]
	if kind == "plane" {
		plane, ok := types.AsPlane(target)
		if !ok {
			return nil, types.NewError(types.E_INVALID_ARGUMENT, types.AsString(target))
		}
		return e.matching(func(i int) bool { return math.Abs(plane.DistanceTo(e.xyz(i))) <= planeTolerance }), nil
	}
	bs, ok := atomsOf(target)
	if !ok {
		return nil, types.NewError(types.E_INVALID_ARGUMENT, types.AsString(target))
	}
	if kind == "vanderwaals" {
		return e.withinDistance(0, bs, false, e.vdwSum(1)), nil
	}
	key := e.keyFunc(kind)
	if key == nil {
		return nil, types.NewError(types.E_INVALID_ARGUMENT, kind)
	}
	keys := map[string]bool{}
	for _, i := range types.Ordinals(bs) {
		keys[key(i)] = true
	}
	return e.matching(func(i int) bool { return keys[key(i)] }), nil
}

// millerPlane is the lattice plane (h k l) of an orthorhombic cell with
// edges a b c: h*x/a + k*y/b + l*z/c = 1
func millerPlane(hkl, cell types.Point3Value) types.Point4Value {
	return types.NewPoint4(hkl.X/cell.X, hkl.Y/cell.Y, hkl.Z/cell.Z, -1)
}

func (e *Engine) withinHKL(args []types.Value) (*bitset.BitSet, error) {
	if len(args) != 1 {
		return nil, badArgs("within")
	}
	hkl, ok := args[0].(types.Point3Value)
	if !ok || hkl.Length() == 0 {
		return nil, types.NewError(types.E_INVALID_ARGUMENT, types.AsString(args[0]))
	}
	planes := map[int]types.Point4Value{}
	for m := 0; m < e.Model.ModelCount(); m++ {
		if cell, ok := e.Model.UnitCell(m); ok {
			planes[m] = millerPlane(hkl, cell)
		}
	}
	if len(planes) == 0 {
		return nil, types.NewError(types.E_INVALID_ARGUMENT, "hkl without a unit cell")
	}
	return e.matching(func(i int) bool {
		plane, ok := planes[e.modelOf(i)]
		return ok && math.Abs(plane.DistanceTo(e.xyz(i))) <= planeTolerance
	}), nil
}

func (e *Engine) withinCoord(args []types.Value) (*bitset.BitSet, error) {
	dist := planeTolerance
	if len(args) == 2 {
		dist = types.AsFloat(args[0])
	}
	pt, ok := args[len(args)-1].(types.Point3Value)
	if !ok {
		return nil, types.NewError(types.E_INVALID_ARGUMENT, types.AsString(args[len(args)-1]))
	}
	return e.matching(func(i int) bool { return e.xyz(i).Distance(pt) <= dist }), nil
}

// branch selects the atoms bonded, directly or through other atoms, to the
// first atom of set2 without passing through the first atom of set1
func (e *Engine) branch(args []types.Value) (*bitset.BitSet, error) {
	if len(args) != 2 {
		return nil, badArgs("within")
	}
	var ends [2]int
	for k, a := range args {
		bs, ok := atomsOf(a)
		if !ok {
			return nil, types.NewError(types.E_INVALID_ARGUMENT, types.AsString(a))
		}
		first, ok := bs.NextSet(0)
		if !ok {
			return e.None(), nil
		}
		ends[k] = int(first)
	}
	stop, start := ends[0], ends[1]
	adj := e.neighbors()
	result := e.None()
	result.Set(uint(start))
	queue := []int{start}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for _, j := range adj[i] {
			if j == stop || result.Test(uint(j)) {
				continue
			}
			result.Set(uint(j))
			queue = append(queue, j)
		}
	}
	return result, nil
}

func (e *Engine) neighbors() [][]int {
	adj := make([][]int, e.AtomCount())
	for b := 0; b < e.Model.BondCount(); b++ {
		i, j := e.Model.BondAtoms(b)
		adj[i] = append(adj[i], j)
		adj[j] = append(adj[j], i)
	}
	return adj
}

func (e *Engine) withinAtomType(args []types.Value) (*bitset.BitSet, error) {
	atoms := e.All()
	if len(args) == 2 {
		bs, ok := atomsOf(args[1])
		if !ok {
			return nil, types.NewError(types.E_INVALID_ARGUMENT, types.AsString(args[1]))
		}
		atoms = bs
	}
	names := map[string]bool{}
	for _, n := range strings.Split(types.AsString(args[0]), ",") {
		names[strings.ToUpper(strings.TrimSpace(n))] = true
	}
	result := e.None()
	for _, i := range types.Ordinals(atoms) {
		if names[strings.ToUpper(e.Model.AtomString(i, token.TokAtomType))] {
			result.Set(uint(i))
		}
	}
	return result, nil
}

// keyFunc returns the grouping key used by within(kind, set)
func (e *Engine) keyFunc(kind string) func(i int) string {
	m := e.Model
	switch kind {
	case "group":
		return func(i int) string {
			return strconv.Itoa(e.modelOf(i)) + ":" + m.AtomString(i, token.TokChain) + ":" +
				strconv.Itoa(m.AtomInt(i, token.TokResNo)) + ":" + m.AtomString(i, token.TokGroup)
		}
	case "chain":
		return func(i int) string { return strconv.Itoa(e.modelOf(i)) + ":" + m.AtomString(i, token.TokChain) }
	case "molecule":
		return func(i int) string { return strconv.Itoa(m.AtomInt(i, token.TokMolecule)) }
	case "model":
		return func(i int) string { return strconv.Itoa(e.modelOf(i)) }
	case "element":
		return func(i int) string { return strings.ToUpper(m.AtomString(i, token.TokElement)) }
	}
	return nil
}

// vdwSum scales the sum of two van der Waals radii
func (e *Engine) vdwSum(scale float64) func(i, j int) float64 {
	return func(i, j int) float64 {
		return scale * (e.Model.AtomFloat(i, token.TokRadius) + e.Model.AtomFloat(j, token.TokRadius))
	}
}

// Contact implements contact(percent, set1 [, set2]): atoms of the two sets
// whose van der Waals spheres, scaled by percent/100, touch. set2 defaults
// to every atom outside set1.
func (e *Engine) Contact(args []types.Value) (*bitset.BitSet, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, badArgs("contact")
	}
	scale := types.AsFloat(args[0]) / 100
	set1, ok := atomsOf(args[1])
	if !ok {
		return nil, types.NewError(types.E_INVALID_ARGUMENT, types.AsString(args[1]))
	}
	var set2 *bitset.BitSet
	if len(args) == 3 {
		if set2, ok = atomsOf(args[2]); !ok {
			return nil, types.NewError(types.E_INVALID_ARGUMENT, types.AsString(args[2]))
		}
	} else {
		set2 = types.Complement(set1, e.AtomCount())
	}
	radius := e.vdwSum(scale)
	result := e.None()
	for _, i := range types.Ordinals(set1) {
		for _, j := range types.Ordinals(set2) {
			if i == j || e.modelOf(i) != e.modelOf(j) {
				continue
			}
			if e.xyz(i).Distance(e.xyz(j)) <= radius(i, j) {
				result.Set(uint(i))
				result.Set(uint(j))
			}
		}
	}
	return result, nil
}

// Connected implements connected([min [max]] [mindist [maxdist]] [order]
// [atoms]): atoms with between min and max qualifying bonds. A bond
// qualifies when its partner is in atoms, its order matches and its
// length lies in [mindist, maxdist]. With no arguments, every bonded atom.
func (e *Engine) Connected(args []types.Value) (*bitset.BitSet, error) {
	minCount, maxCount := 1, math.MaxInt32
	minDist, maxDist := 0.0, math.Inf(1)
	order := "any"
	var partners *bitset.BitSet
	nInt, nDec := 0, 0
	for _, a := range args {
		switch v := a.(type) {
		case types.IntValue:
			if nInt == 0 {
				minCount, maxCount = v.Val, v.Val
			} else {
				maxCount = v.Val
			}
			nInt++
		case types.FloatValue:
			if nDec == 0 {
				minDist = v.Val
			} else {
				maxDist = v.Val
			}
			nDec++
		case types.StrValue:
			order = strings.ToLower(v.Value())
		case types.BitSetValue:
			partners = v.Selected()
		default:
			return nil, types.NewError(types.E_INVALID_ARGUMENT, types.AsString(a))
		}
	}
	if nInt > 2 || nDec > 2 {
		return nil, badArgs("connected")
	}
	if nDec == 1 {
		maxDist, minDist = minDist, 0
	}
	counts := make([]int, e.AtomCount())
	for b := 0; b < e.Model.BondCount(); b++ {
		if order != "any" && !strings.EqualFold(e.Model.BondOrder(b), order) {
			continue
		}
		i, j := e.Model.BondAtoms(b)
		d := e.xyz(i).Distance(e.xyz(j))
		if d < minDist || d > maxDist {
			continue
		}
		if partners == nil || partners.Test(uint(j)) {
			counts[i]++
		}
		if partners == nil || partners.Test(uint(i)) {
			counts[j]++
		}
	}
	return e.matching(func(i int) bool {
		return counts[i] >= minCount && counts[i] <= maxCount
	}), nil
}

// Search implements search("pattern" [, atoms]) and smiles(...) through
// the model's pattern matcher
func (e *Engine) Search(kind token.Tok, args []types.Value) (*bitset.BitSet, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, badArgs(kind.String())
	}
	atoms := e.All()
	if len(args) == 2 {
		bs, ok := atomsOf(args[1])
		if !ok {
			return nil, types.NewError(types.E_INVALID_ARGUMENT, types.AsString(args[1]))
		}
		atoms = bs
	}
	return e.Model.MatchPattern(kind, types.AsString(args[0]), atoms)
}
