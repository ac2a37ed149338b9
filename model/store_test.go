package model

import (
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molscript/token"
	"molscript/types"
)

func loadWater(t *testing.T) *Store {
	t.Helper()
	s, err := Load("testdata/water.yaml")
	require.NoError(t, err)
	return s
}

func TestLoadFixture(t *testing.T) {
	s := loadWater(t)
	assert.Equal(t, 6, s.AtomCount())
	assert.Equal(t, 3, s.BondCount())
	assert.Equal(t, 2, s.ModelCount())
	assert.False(t, s.HaveFileSet())
	assert.Equal(t, 1, s.ModelNumberIndex(1000002))
	assert.Equal(t, -1, s.ModelNumberIndex(2000001))
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("atoms:\n  - {name: C, colour: red}\n"))
	assert.Error(t, err)
}

func TestParseRejectsBadBond(t *testing.T) {
	_, err := Parse([]byte("atoms:\n  - {name: C, element: C, xyz: [0, 0, 0]}\nbonds:\n  - {a: 0, b: 3}\n"))
	assert.Error(t, err)
}

func TestAtomProperties(t *testing.T) {
	s := loadWater(t)
	tests := []struct {
		prop token.Tok
		atom int
		want int
	}{
		{token.TokAtomIndex, 4, 4},
		{token.TokAtomNo, 4, 5},
		{token.TokElemNo, 3, 6},
		{token.TokResNo, 3, 2},
		{token.TokModelIndex, 5, 1},
		{token.TokModel, 5, 2},
		{token.TokFile, 5, 1},
		{token.TokBondCount, 0, 2},
		{token.TokMolecule, 2, 1},
		{token.TokMolecule, 4, 2},
		{token.TokMolecule, 5, 3},
		{token.TokSymop, 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.prop.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, s.AtomInt(tt.atom, tt.prop))
		})
	}
	assert.Equal(t, 6.43, s.AtomFloat(4, token.TokX))
	assert.Equal(t, 1.2, s.AtomFloat(5, token.TokFX))
	assert.Equal(t, 1.52, s.AtomFloat(0, token.TokRadius))
	assert.Equal(t, "b", s.AtomString(3, token.TokChain))
	assert.Equal(t, "H1", s.AtomString(1, token.TokAtomType))
	assert.Equal(t, types.NewPoint3(5, 5, 5), s.AtomPoint(3, token.TokXYZ))
}

func TestSymmetry(t *testing.T) {
	s := loadWater(t)
	assert.Nil(t, s.AtomSymops(0))
	ops := s.AtomSymops(5)
	require.NotNil(t, ops)
	assert.Equal(t, []int{0, 2}, types.Ordinals(ops))
	tr, ok := s.AtomSymmetryTranslation(5, 2)
	require.True(t, ok)
	assert.Equal(t, types.NewPoint3(1, 0, 0), tr)
	_, ok = s.AtomSymmetryTranslation(5, 0)
	assert.False(t, ok)
	assert.Equal(t, 4, s.ModelSymmetryCount(1))
}

func TestPredefinedSets(t *testing.T) {
	s := loadWater(t)
	tests := []struct {
		name string
		want []int
	}{
		{"water", []int{0, 1, 2, 5}},
		{"oxygen", []int{0, 4, 5}},
		{"hetero", []int{3, 4}},
		{"LIGAND", []int{3, 4}},
		{"protein", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bs, ok := s.PredefinedSet(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, types.Ordinals(bs))
		})
	}
	_, ok := s.PredefinedSet("unobtainium")
	assert.False(t, ok)
}

func TestSelectionDefaultsToAll(t *testing.T) {
	s := loadWater(t)
	assert.Equal(t, uint(6), s.Selection().Count())
	s.SetSelection(bitset.New(6).Set(2))
	assert.Equal(t, []int{2}, types.Ordinals(s.Selection()))
}

func TestSetAtomProperty(t *testing.T) {
	s := loadWater(t)
	require.NoError(t, s.SetAtomProperty(0, token.TokTemperature, types.NewInt(99)))
	assert.Equal(t, 99.0, s.AtomFloat(0, token.TokTemperature))
	require.NoError(t, s.SetAtomProperty(0, token.TokXYZ, types.NewPoint3(1, 2, 3)))
	assert.Equal(t, 2.0, s.AtomFloat(0, token.TokY))
	assert.Error(t, s.SetAtomProperty(0, token.TokElement, types.NewStr("Xx")))
	assert.Error(t, s.SetAtomProperty(0, token.TokBondCount, types.NewInt(1)))
	assert.Error(t, s.SetAtomProperty(10, token.TokX, types.NewInt(1)))
}

func TestFunctions(t *testing.T) {
	s := loadWater(t)
	s.RegisterFunction("Count", func(args []types.Value, atoms *bitset.BitSet) (types.Value, error) {
		return types.NewInt(int(atoms.Count())), nil
	})
	assert.True(t, s.IsFunction("count"))
	v, err := s.CallFunction("COUNT", nil, bitset.New(6).Set(1).Set(2))
	require.NoError(t, err)
	assert.Equal(t, types.NewInt(2), v)
	_, err = s.CallFunction("nope", nil, nil)
	assert.Equal(t, types.E_UNKNOWN_FUNCTION, types.KindOf(err))
}

func TestMatchPattern(t *testing.T) {
	s := loadWater(t)
	all := bitset.New(6).FlipRange(0, 6)
	tests := []struct {
		pattern string
		want    []int
	}{
		{"O", []int{0, 4, 5}},
		{"[OH2]", []int{0, 4, 5}},
		{"OH", []int{0, 1, 2}},
		{"C=O", []int{3, 4}},
		{"C-O", []int{}},
		{"C~O", []int{3, 4}},
		{"*", []int{0, 1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			bs, err := s.MatchPattern(token.TokSmiles, tt.pattern, all)
			require.NoError(t, err)
			assert.Equal(t, tt.want, types.Ordinals(bs))
		})
	}
	_, err := s.MatchPattern(token.TokSearch, "C(O)C", all)
	assert.Error(t, err)
	_, err = s.MatchPattern(token.TokSearch, "[C", all)
	assert.Error(t, err)
}
