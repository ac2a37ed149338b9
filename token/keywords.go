package token

import "strings"

// Attr classifies keyword codes
type Attr uint32

const (
	AttrAtomProperty Attr = 1 << iota
	AttrIntProperty
	AttrFloatProperty
	AttrStringProperty
	AttrPointProperty
	AttrBondProperty
	AttrModifier
	AttrComparison
	AttrMathOperator
	AttrPredicate
	AttrCommand
	AttrClause // function-like atom-expression clause
)

type keyword struct {
	name string
	tok  Tok
	attr Attr
}

const (
	intProp   = AttrAtomProperty | AttrIntProperty
	floatProp = AttrAtomProperty | AttrFloatProperty
	strProp   = AttrAtomProperty | AttrStringProperty
	pointProp = AttrAtomProperty | AttrPointProperty
)

var keywordTable = []keyword{
	{"select", TokSelect, AttrCommand},
	{"print", TokPrint, AttrCommand},
	{"set", TokSet, AttrCommand},
	{"var", TokVar, AttrCommand},
	{"for", TokFor, 0},
	{"if", TokIf, 0},
	{"true", TokTrue, 0},
	{"false", TokFalse, 0},

	{"and", TokOpAnd, AttrMathOperator},
	{"or", TokOpOr, AttrMathOperator},
	{"xor", TokOpXor, AttrMathOperator},
	{"tog", TokOpToggle, AttrMathOperator},
	{"not", TokOpNot, AttrMathOperator},
	{"like", TokOpLike, AttrMathOperator},

	{"all", TokAll, AttrPredicate | AttrModifier},
	{"none", TokNone, AttrPredicate},
	{"selected", TokSelected, AttrPredicate},

	{"within", TokWithin, AttrClause},
	{"contact", TokContact, AttrClause},
	{"connected", TokConnected, AttrClause},
	{"search", TokSearch, AttrClause},
	{"smiles", TokSmiles, AttrClause},
	{"cell", TokCell, 0},
	{"centroid", TokCentroid, 0},

	{"atomindex", TokAtomIndex, intProp},
	{"atomno", TokAtomNo, intProp},
	{"elemno", TokElemNo, intProp},
	{"resno", TokResNo, intProp},
	{"modelindex", TokModelIndex, intProp},
	{"formalcharge", TokFormalCharge, intProp},
	{"charge", TokFormalCharge, intProp},
	{"symop", TokSymop, intProp},
	{"bondcount", TokBondCount, intProp},
	{"file", TokFile, intProp},
	{"model", TokModel, intProp},
	{"molecule", TokMolecule, intProp},

	{"x", TokX, floatProp},
	{"y", TokY, floatProp},
	{"z", TokZ, floatProp},
	{"fx", TokFX, floatProp},
	{"fy", TokFY, floatProp},
	{"fz", TokFZ, floatProp},
	{"temperature", TokTemperature, floatProp},
	{"occupancy", TokOccupancy, floatProp},
	{"partialcharge", TokPartialCharge, floatProp},
	{"radius", TokRadius, floatProp},
	{"mass", TokMass, floatProp},

	{"chain", TokChain, strProp},
	{"atomname", TokAtomName, strProp},
	{"element", TokElement, strProp},
	{"group", TokGroup, strProp},
	{"altloc", TokAltLoc, strProp},
	{"atomtype", TokAtomType, strProp},

	{"xyz", TokXYZ, pointProp | AttrBondProperty},
	{"fxyz", TokFracXYZ, pointProp},

	{"length", TokLength, AttrBondProperty},
	{"color", TokColor, AttrBondProperty},

	{"min", TokMin, AttrModifier},
	{"max", TokMax, AttrModifier},
	{"sum", TokSum, AttrModifier},
	{"sum2", TokSum2, AttrModifier},
	{"average", TokAverage, AttrModifier},
	{"stddev", TokStdDev, AttrModifier},
	{"allfloat", TokAllFloat, AttrModifier},
}

var (
	byName   = make(map[string]Tok, len(keywordTable))
	attrs    = make(map[Tok]Attr, len(keywordTable))
	tokNames = map[Tok]string{
		TokNada:             "nada",
		TokInteger:          "integer",
		TokDecimal:          "decimal",
		TokString:           "string",
		TokBoolean:          "boolean",
		TokPoint3:           "point",
		TokPoint4:           "point4",
		TokMatrix3:          "matrix3f",
		TokMatrix4:          "matrix4f",
		TokBitset:           "bitset",
		TokBytes:            "bytearray",
		TokList:             "array",
		TokMap:              "hash",
		TokContext:          "context",
		TokIdentifier:       "identifier",
		TokVariable:         "variable",
		TokDefine:           "@",
		TokFunction:         "function",
		TokMethod:           "method",
		TokProperty:         "property",
		TokMeta:             "meta",
		TokLeftParen:        "(",
		TokRightParen:       ")",
		TokLeftBracket:      "[",
		TokRightBracket:     "]",
		TokLeftBrace:        "{",
		TokRightBrace:       "}",
		TokComma:            ",",
		TokSemicolon:        ";",
		TokColon:            ":",
		TokPeriod:           ".",
		TokAt:               "@",
		TokQuestion:         "?",
		TokCompoundAssign:   "op=",
		TokOpPlus:           "+",
		TokOpMinus:          "-",
		TokOpMul:            "*",
		TokOpDiv:            "/",
		TokOpIntDiv:         "\\",
		TokOpMod:            "%",
		TokOpPow:            "**",
		TokOpEQ:             "==",
		TokOpNE:             "!=",
		TokOpLT:             "<",
		TokOpLE:             "<=",
		TokOpGT:             ">",
		TokOpGE:             ">=",
		TokOpUnaryMinus:     "-/1",
		TokOpPlusPlus:       "++",
		TokOpMinusMinus:     "--",
		TokIndex:            "[]",
		TokArrayBegin:       "[/begin",
		TokArrayEnd:         "]/end",
		TokHashBegin:        "{/hash",
		TokHashEnd:          "}/hash",
		TokPointBegin:       "{/point",
		TokPointEnd:         "}/point",
		TokExpressionBegin:  "expressionBegin",
		TokComparator:       "comparator",
		TokNamedSet:         "set",
		TokSpecName:         "spec_name",
		TokSpecSeqcode:      "spec_seqcode",
		TokSpecSeqcodeRange: "spec_seqcode_range",
		TokSpecChain:        "spec_chain",
		TokSpecAtom:         "spec_atom",
		TokSpecAlternate:    "spec_alternate",
		TokSpecModel:        "spec_model",
		TokSpecModel2:       "spec_model2",
		TokFunctionProperty: "function",
	}
)

func init() {
	for _, k := range keywordTable {
		byName[k.name] = k.tok
		attrs[k.tok] |= k.attr
		if _, ok := tokNames[k.tok]; !ok {
			tokNames[k.tok] = k.name
		}
	}
	// comparison operators
	for _, t := range []Tok{TokOpEQ, TokOpNE, TokOpLT, TokOpLE, TokOpGT, TokOpGE} {
		attrs[t] |= AttrComparison | AttrMathOperator
	}
	for _, t := range []Tok{TokOpPlus, TokOpMinus, TokOpMul, TokOpDiv, TokOpIntDiv, TokOpMod, TokOpPow, TokOpUnaryMinus} {
		attrs[t] |= AttrMathOperator
	}
}

// Lookup returns the keyword code for a word, case-insensitively
func Lookup(word string) (Tok, bool) {
	t, ok := byName[strings.ToLower(word)]
	return t, ok
}

// Keywords lists every keyword spelling
func Keywords() []string {
	out := make([]string, 0, len(keywordTable))
	for _, k := range keywordTable {
		out = append(out, k.name)
	}
	return out
}

// Has reports whether t carries attribute a
func (t Tok) Has(a Attr) bool {
	return attrs[t]&a != 0
}

// IsAtomProperty reports whether t names a per-atom property
func (t Tok) IsAtomProperty() bool { return t.Has(AttrAtomProperty) }

// IsComparison reports whether t is one of < <= > >= == !=
func (t Tok) IsComparison() bool { return t.Has(AttrComparison) }

// IsLiteral reports whether t carries a types.Value
func (t Tok) IsLiteral() bool {
	return t >= TokInteger && t <= TokContext
}

// String returns the display name of the code
func (t Tok) String() string {
	if s, ok := tokNames[t]; ok {
		return s
	}
	return "tok?"
}

// Precedence of binary math operators; higher binds tighter, 0 means not
// a binary operator
func Precedence(t Tok) int {
	switch t {
	case TokOpOr, TokOpXor, TokOpToggle:
		return 1
	case TokOpAnd:
		return 2
	case TokOpEQ, TokOpNE, TokOpLT, TokOpLE, TokOpGT, TokOpGE, TokOpLike:
		return 4
	case TokOpPlus, TokOpMinus:
		return 5
	case TokOpMul, TokOpDiv, TokOpIntDiv, TokOpMod:
		return 6
	case TokOpPow:
		return 8
	}
	return 0
}

// Arity is the number of operands an operator consumes from the stack
func Arity(t Tok) int {
	switch t {
	case TokOpNot, TokOpUnaryMinus, TokOpPlusPlus, TokOpMinusMinus:
		return 1
	}
	if Precedence(t) > 0 {
		return 2
	}
	return 0
}

// Inverse returns the comparison that holds when t fails
func Inverse(t Tok) Tok {
	switch t {
	case TokOpLT:
		return TokOpGE
	case TokOpLE:
		return TokOpGT
	case TokOpGT:
		return TokOpLE
	case TokOpGE:
		return TokOpLT
	case TokOpEQ:
		return TokOpNE
	case TokOpNE:
		return TokOpEQ
	}
	return t
}
