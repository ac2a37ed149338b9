package model

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"molscript/selection"
	"molscript/token"
	"molscript/types"
)

// Func is a user function callable as a property or from expressions.
// atoms is the set the function is applied to.
type Func func(args []types.Value, atoms *bitset.BitSet) (types.Value, error)

// Store is an in-memory molecular model
type Store struct {
	Atoms  []*Atom
	Bonds  []*Bond
	Models []*ModelInfo

	sets      map[string]*bitset.BitSet
	functions map[string]Func
	selection *bitset.BitSet
	molecules []int // lazily computed molecule numbers, 1-based
}

var _ selection.Model = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		sets:      make(map[string]*bitset.BitSet),
		functions: make(map[string]Func),
	}
}

// AddModel appends a model and returns its index
func (s *Store) AddModel(m *ModelInfo) int {
	s.Models = append(s.Models, m)
	return len(s.Models) - 1
}

// AddAtom appends an atom and returns its ordinal
func (s *Store) AddAtom(a *Atom) (int, error) {
	if len(s.Models) == 0 {
		s.AddModel(&ModelInfo{File: 1, Number: 1})
	}
	if a.Model < 0 || a.Model >= len(s.Models) {
		return -1, fmt.Errorf("atom %q: model index %d out of range", a.Name, a.Model)
	}
	s.Atoms = append(s.Atoms, a)
	s.molecules = nil
	return len(s.Atoms) - 1, nil
}

// AddBond joins atoms a and b
func (s *Store) AddBond(b *Bond) error {
	n := len(s.Atoms)
	if b.A < 0 || b.A >= n || b.B < 0 || b.B >= n || b.A == b.B {
		return fmt.Errorf("bond %d-%d: invalid atom ordinals", b.A, b.B)
	}
	s.Bonds = append(s.Bonds, b)
	s.molecules = nil
	return nil
}

// DefineSet records a named atom set
func (s *Store) DefineSet(name string, bs *bitset.BitSet) {
	s.sets[strings.ToLower(name)] = bs.Clone()
}

// RegisterFunction makes fn callable by name
func (s *Store) RegisterFunction(name string, fn Func) {
	s.functions[strings.ToLower(name)] = fn
}

func (s *Store) AtomCount() int { return len(s.Atoms) }
func (s *Store) BondCount() int { return len(s.Bonds) }

func (s *Store) atom(i int) *Atom {
	if i < 0 || i >= len(s.Atoms) {
		return &Atom{}
	}
	return s.Atoms[i]
}

func (s *Store) modelOf(i int) *ModelInfo {
	a := s.atom(i)
	if a.Model < 0 || a.Model >= len(s.Models) {
		return &ModelInfo{}
	}
	return s.Models[a.Model]
}

// AtomInt reads an integer property
func (s *Store) AtomInt(i int, prop token.Tok) int {
	a := s.atom(i)
	switch prop {
	case token.TokAtomIndex:
		return i
	case token.TokAtomNo:
		if a.AtomNo == 0 {
			return i + 1
		}
		return a.AtomNo
	case token.TokElemNo:
		return ElementNumber(a.Element)
	case token.TokResNo:
		return a.ResNo
	case token.TokModelIndex:
		return a.Model
	case token.TokFormalCharge:
		return a.FormalCharge
	case token.TokSymop:
		if len(a.Symops) == 0 {
			return 0
		}
		return a.Symops[0]
	case token.TokBondCount:
		n := 0
		for _, b := range s.Bonds {
			if b.A == i || b.B == i {
				n++
			}
		}
		return n
	case token.TokFile:
		return s.modelOf(i).File
	case token.TokModel:
		return s.modelOf(i).Number
	case token.TokMolecule:
		return s.moleculeOf(i)
	}
	return 0
}

// AtomFloat reads a float property. Fractional coordinates equal the
// cartesian ones when the model has no unit cell.
func (s *Store) AtomFloat(i int, prop token.Tok) float64 {
	a := s.atom(i)
	switch prop {
	case token.TokX:
		return a.XYZ[0]
	case token.TokY:
		return a.XYZ[1]
	case token.TokZ:
		return a.XYZ[2]
	case token.TokFX, token.TokFY, token.TokFZ:
		return s.fractional(i).Component(int(prop - token.TokFX))
	case token.TokTemperature:
		return a.Temperature
	case token.TokOccupancy:
		return a.Occupancy
	case token.TokPartialCharge:
		return a.PartialCharge
	case token.TokRadius:
		if a.Radius != 0 {
			return a.Radius
		}
		if e := lookupElement(a.Element); e != nil {
			return e.vdw
		}
		return 2.0
	case token.TokMass:
		if e := lookupElement(a.Element); e != nil {
			return e.mass
		}
	}
	if prop.Has(token.AttrIntProperty) {
		return float64(s.AtomInt(i, prop))
	}
	return 0
}

func (s *Store) fractional(i int) types.Point3Value {
	p := s.atom(i).Point()
	cell := s.modelOf(i).Cell
	for k, edge := range cell {
		if edge != 0 {
			p = p.WithComponent(k, p.Component(k)/edge)
		}
	}
	return p
}

// AtomString reads a string property
func (s *Store) AtomString(i int, prop token.Tok) string {
	a := s.atom(i)
	switch prop {
	case token.TokChain:
		return a.Chain
	case token.TokAtomName:
		return a.Name
	case token.TokElement:
		return a.Element
	case token.TokGroup:
		return a.Group
	case token.TokAltLoc:
		return a.AltLoc
	case token.TokAtomType:
		if a.AtomType == "" {
			return a.Name
		}
		return a.AtomType
	}
	return ""
}

// AtomPoint reads a point property
func (s *Store) AtomPoint(i int, prop token.Tok) types.Point3Value {
	if prop == token.TokFracXYZ {
		return s.fractional(i)
	}
	return s.atom(i).Point()
}

func (s *Store) BondAtoms(b int) (int, int) {
	return s.Bonds[b].A, s.Bonds[b].B
}

func (s *Store) BondOrder(b int) string {
	if s.Bonds[b].Order == "" {
		return "single"
	}
	return s.Bonds[b].Order
}

func (s *Store) BondColor(b int) types.Point3Value {
	c := s.Bonds[b].Color
	return types.NewPoint3(c[0], c[1], c[2])
}

func (s *Store) ModelCount() int { return len(s.Models) }

// ModelAtoms returns the atoms of one model
func (s *Store) ModelAtoms(modelIndex int) *bitset.BitSet {
	bs := bitset.New(uint(len(s.Atoms)))
	for i, a := range s.Atoms {
		if a.Model == modelIndex {
			bs.Set(uint(i))
		}
	}
	return bs
}

// ModelNumberIndex maps file*1000000+model to a model index
func (s *Store) ModelNumberIndex(number int) int {
	for i, m := range s.Models {
		if m.FileNumber() == number {
			return i
		}
	}
	return -1
}

// HaveFileSet reports models from more than one file
func (s *Store) HaveFileSet() bool {
	for _, m := range s.Models {
		if m.File != s.Models[0].File {
			return true
		}
	}
	return false
}

func (s *Store) IsTrajectory(modelIndex int) bool {
	return modelIndex >= 0 && modelIndex < len(s.Models) && s.Models[modelIndex].Trajectory
}

func (s *Store) ModelSymmetryCount(modelIndex int) int {
	if modelIndex < 0 || modelIndex >= len(s.Models) {
		return 0
	}
	return s.Models[modelIndex].SymmetryCount
}

// UnitCell returns the edge lengths of a model's unit cell
func (s *Store) UnitCell(modelIndex int) (types.Point3Value, bool) {
	if modelIndex < 0 || modelIndex >= len(s.Models) {
		return types.Point3Value{}, false
	}
	c := s.Models[modelIndex].Cell
	if c[0] == 0 || c[1] == 0 || c[2] == 0 {
		return types.Point3Value{}, false
	}
	return types.NewPoint3(c[0], c[1], c[2]), true
}

// AtomSymops returns the operations that generated atom i
func (s *Store) AtomSymops(i int) *bitset.BitSet {
	a := s.atom(i)
	if len(a.Symops) == 0 {
		return nil
	}
	bs := bitset.New(0)
	for _, op := range a.Symops {
		if op > 0 {
			bs.Set(uint(op - 1))
		}
	}
	return bs
}

func (s *Store) AtomSymmetryTranslation(i, op int) (types.Point3Value, bool) {
	t, ok := s.atom(i).Translations[op+1]
	if !ok {
		return types.Point3Value{}, false
	}
	return types.NewPoint3(t[0], t[1], t[2]), true
}

// PredefinedSet resolves defined sets, element names and the residue
// classes protein, nucleic, water and hetero
func (s *Store) PredefinedSet(name string) (*bitset.BitSet, bool) {
	name = strings.ToLower(name)
	if bs, ok := s.sets[name]; ok {
		return bs.Clone(), true
	}
	var f func(a *Atom) bool
	switch name {
	case "protein":
		f = func(a *Atom) bool { return aminoAcids[strings.ToUpper(a.Group)] }
	case "nucleic":
		f = func(a *Atom) bool { return nucleotides[strings.ToUpper(a.Group)] }
	case "water":
		f = func(a *Atom) bool { return waters[strings.ToUpper(a.Group)] }
	case "hetero":
		f = func(a *Atom) bool { return a.Flags.Has(FlagHetero) }
	case "hidden":
		f = func(a *Atom) bool { return a.Flags.Has(FlagHidden) }
	default:
		e, ok := byName[name]
		if !ok {
			return nil, false
		}
		f = func(a *Atom) bool { return strings.EqualFold(a.Element, e.symbol) }
	}
	bs := bitset.New(uint(len(s.Atoms)))
	for i, a := range s.Atoms {
		if f(a) {
			bs.Set(uint(i))
		}
	}
	return bs, true
}

// Selection returns the current selection, all atoms until set
func (s *Store) Selection() *bitset.BitSet {
	if s.selection == nil {
		n := uint(len(s.Atoms))
		return bitset.New(n).FlipRange(0, n)
	}
	return s.selection
}

func (s *Store) SetSelection(bs *bitset.BitSet) {
	s.selection = bs.Clone()
}

// SetAtomProperty writes a settable property of atom i
func (s *Store) SetAtomProperty(i int, prop token.Tok, v types.Value) error {
	if i < 0 || i >= len(s.Atoms) {
		return types.NewError(types.E_INVALID_ARGUMENT, fmt.Sprint(i))
	}
	a := s.Atoms[i]
	switch prop {
	case token.TokX, token.TokY, token.TokZ:
		a.XYZ[prop-token.TokX] = types.AsFloat(v)
	case token.TokXYZ:
		p, ok := types.AsPoint(v)
		if !ok {
			return types.NewError(types.E_INVALID_ARGUMENT, types.AsString(v))
		}
		a.XYZ = [3]float64{p.X, p.Y, p.Z}
	case token.TokTemperature:
		a.Temperature = types.AsFloat(v)
	case token.TokOccupancy:
		a.Occupancy = types.AsFloat(v)
	case token.TokPartialCharge:
		a.PartialCharge = types.AsFloat(v)
	case token.TokRadius:
		a.Radius = types.AsFloat(v)
	case token.TokFormalCharge:
		a.FormalCharge = types.AsInt(v)
	case token.TokResNo:
		a.ResNo = types.AsInt(v)
	case token.TokAtomNo:
		a.AtomNo = types.AsInt(v)
	case token.TokAtomName:
		a.Name = types.AsString(v)
	case token.TokAtomType:
		a.AtomType = types.AsString(v)
	case token.TokChain:
		a.Chain = types.AsString(v)
	case token.TokGroup:
		a.Group = types.AsString(v)
	case token.TokElement:
		sym := types.AsString(v)
		if lookupElement(sym) == nil {
			return types.NewError(types.E_INVALID_ARGUMENT, sym)
		}
		a.Element = sym
	default:
		return types.NewError(types.E_INVALID_ARGUMENT, prop.String()+" is read-only")
	}
	return nil
}

func (s *Store) IsFunction(name string) bool {
	_, ok := s.functions[strings.ToLower(name)]
	return ok
}

func (s *Store) CallFunction(name string, args []types.Value, atoms *bitset.BitSet) (types.Value, error) {
	fn, ok := s.functions[strings.ToLower(name)]
	if !ok {
		return nil, types.NewError(types.E_UNKNOWN_FUNCTION, name)
	}
	return fn(args, atoms)
}

// moleculeOf numbers the connected components of the bond graph
func (s *Store) moleculeOf(i int) int {
	if s.molecules == nil {
		parent := make([]int, len(s.Atoms))
		for k := range parent {
			parent[k] = k
		}
		var find func(int) int
		find = func(k int) int {
			for parent[k] != k {
				parent[k] = parent[parent[k]]
				k = parent[k]
			}
			return k
		}
		for _, b := range s.Bonds {
			parent[find(b.A)] = find(b.B)
		}
		s.molecules = make([]int, len(s.Atoms))
		numbers := map[int]int{}
		for k := range s.Atoms {
			root := find(k)
			if _, ok := numbers[root]; !ok {
				numbers[root] = len(numbers) + 1
			}
			s.molecules[k] = numbers[root]
		}
	}
	if i < 0 || i >= len(s.molecules) {
		return 0
	}
	return s.molecules[i]
}

// neighbors lists the atoms bonded to i
func (s *Store) neighbors(i int) []int {
	var out []int
	for _, b := range s.Bonds {
		switch i {
		case b.A:
			out = append(out, b.B)
		case b.B:
			out = append(out, b.A)
		}
	}
	return out
}
