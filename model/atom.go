package model

import "molscript/types"

// Atom is one atom of the store. Cross references use ordinals, not
// pointers, so a store can be written back to a fixture unchanged.
type Atom struct {
	Name          string     `yaml:"name"`
	Element       string     `yaml:"element"`
	Group         string     `yaml:"group,omitempty"`
	ResNo         int        `yaml:"resno,omitempty"`
	Chain         string     `yaml:"chain,omitempty"`
	AltLoc        string     `yaml:"altloc,omitempty"`
	AtomNo        int        `yaml:"atomno,omitempty"`
	Model         int        `yaml:"model,omitempty"` // index into Store.Models
	XYZ           [3]float64 `yaml:"xyz,flow"`
	FormalCharge  int        `yaml:"charge,omitempty"`
	PartialCharge float64    `yaml:"partialcharge,omitempty"`
	Temperature   float64    `yaml:"temperature,omitempty"`
	Occupancy     float64    `yaml:"occupancy,omitempty"`
	Radius        float64    `yaml:"radius,omitempty"` // zero means the element's van der Waals radius
	AtomType      string     `yaml:"atomtype,omitempty"`
	Flags         AtomFlags  `yaml:"flags,omitempty"`

	// Symops lists the 1-based symmetry operations that generated the atom
	Symops []int `yaml:"symops,omitempty,flow"`
	// Translations holds the lattice translation of an operation, by op
	Translations map[int][3]float64 `yaml:"translations,omitempty"`
}

// AtomFlags marks atom categories not derivable from names
type AtomFlags uint32

const (
	FlagHetero AtomFlags = 1 << 0
	FlagHidden AtomFlags = 1 << 1
)

// Has checks if a flag is set
func (f AtomFlags) Has(flag AtomFlags) bool {
	return f&flag != 0
}

// Set sets a flag
func (f AtomFlags) Set(flag AtomFlags) AtomFlags {
	return f | flag
}

// Clear clears a flag
func (f AtomFlags) Clear(flag AtomFlags) AtomFlags {
	return f &^ flag
}

// Point returns the cartesian position as a point value
func (a *Atom) Point() types.Point3Value {
	return types.NewPoint3(a.XYZ[0], a.XYZ[1], a.XYZ[2])
}

// Bond joins two atoms
type Bond struct {
	A     int        `yaml:"a"`
	B     int        `yaml:"b"`
	Order string     `yaml:"order,omitempty"` // single when empty
	Color [3]float64 `yaml:"color,omitempty,flow"`
}

// ModelInfo describes one model (frame) of a file
type ModelInfo struct {
	File          int  `yaml:"file"`
	Number        int  `yaml:"number"`
	Trajectory    bool `yaml:"trajectory,omitempty"`
	SymmetryCount int  `yaml:"symmetryCount,omitempty"`
	// Cell holds orthorhombic unit cell edge lengths; zero means no cell
	Cell [3]float64 `yaml:"cell,omitempty,flow"`
}

// FileNumber is the model number in file*1000000+model form
func (m *ModelInfo) FileNumber() int {
	return m.File*1000000 + m.Number
}
