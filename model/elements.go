package model

import "strings"

type element struct {
	symbol string
	name   string
	number int
	mass   float64
	vdw    float64
}

var elements = []element{
	{"H", "hydrogen", 1, 1.008, 1.10},
	{"He", "helium", 2, 4.003, 1.40},
	{"Li", "lithium", 3, 6.94, 1.81},
	{"B", "boron", 5, 10.81, 1.92},
	{"C", "carbon", 6, 12.011, 1.70},
	{"N", "nitrogen", 7, 14.007, 1.55},
	{"O", "oxygen", 8, 15.999, 1.52},
	{"F", "fluorine", 9, 18.998, 1.47},
	{"Na", "sodium", 11, 22.990, 2.27},
	{"Mg", "magnesium", 12, 24.305, 1.73},
	{"Si", "silicon", 14, 28.085, 2.10},
	{"P", "phosphorus", 15, 30.974, 1.80},
	{"S", "sulfur", 16, 32.06, 1.80},
	{"Cl", "chlorine", 17, 35.45, 1.75},
	{"K", "potassium", 19, 39.098, 2.75},
	{"Ca", "calcium", 20, 40.078, 2.31},
	{"Fe", "iron", 26, 55.845, 2.04},
	{"Cu", "copper", 29, 63.546, 1.96},
	{"Zn", "zinc", 30, 65.38, 2.01},
	{"Br", "bromine", 35, 79.904, 1.85},
	{"I", "iodine", 53, 126.904, 1.98},
}

var (
	bySymbol = map[string]*element{}
	byName   = map[string]*element{}
)

func init() {
	for i := range elements {
		e := &elements[i]
		bySymbol[strings.ToUpper(e.symbol)] = e
		byName[e.name] = e
	}
}

func lookupElement(symbol string) *element {
	return bySymbol[strings.ToUpper(symbol)]
}

// ElementNumber returns the atomic number of a symbol, or 0
func ElementNumber(symbol string) int {
	if e := lookupElement(symbol); e != nil {
		return e.number
	}
	return 0
}

var aminoAcids = map[string]bool{
	"ALA": true, "ARG": true, "ASN": true, "ASP": true, "CYS": true,
	"GLN": true, "GLU": true, "GLY": true, "HIS": true, "ILE": true,
	"LEU": true, "LYS": true, "MET": true, "PHE": true, "PRO": true,
	"SER": true, "THR": true, "TRP": true, "TYR": true, "VAL": true,
}

var nucleotides = map[string]bool{
	"A": true, "C": true, "G": true, "T": true, "U": true,
	"DA": true, "DC": true, "DG": true, "DT": true,
}

var waters = map[string]bool{"HOH": true, "WAT": true, "H2O": true, "DOD": true}
