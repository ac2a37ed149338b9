package token

// Tok is the discriminant code of a token
type Tok int

const (
	TokNada Tok = iota

	// literals; Value holds the types.Value
	TokInteger
	TokDecimal
	TokString
	TokBoolean
	TokPoint3
	TokPoint4
	TokMatrix3
	TokMatrix4
	TokBitset
	TokBytes
	TokList
	TokMap
	TokContext

	// names and references
	TokIdentifier // a word with no keyword meaning
	TokVariable   // variable read; Value = name
	TokDefine     // @name or @{expr}; Value = name
	TokFunction   // call; Value = name, Int = argument count
	TokMethod     // .name(args) on the value below the arguments
	TokProperty   // .name; Int = property code, Op = aggregate modifier
	TokMeta       // select/for/if/?: ; Value = *Meta

	// punctuation
	TokLeftParen
	TokRightParen
	TokLeftBracket
	TokRightBracket
	TokLeftBrace
	TokRightBrace
	TokComma
	TokSemicolon
	TokColon
	TokPeriod
	TokAt
	TokQuestion
	TokCompoundAssign // +=, -=, *=, /=; Op = the arithmetic operator

	// operators
	TokOpPlus
	TokOpMinus
	TokOpMul
	TokOpDiv
	TokOpIntDiv
	TokOpMod
	TokOpPow
	TokOpEQ
	TokOpNE
	TokOpLT
	TokOpLE
	TokOpGT
	TokOpGE
	TokOpLike
	TokOpAnd
	TokOpOr
	TokOpXor
	TokOpToggle
	TokOpNot
	TokOpUnaryMinus
	TokOpPlusPlus
	TokOpMinusMinus

	// structure emitted by the compiler
	TokIndex // item selector; Int = 1 (single) or 2 (range)
	TokArrayBegin
	TokArrayEnd
	TokHashBegin
	TokHashEnd
	TokPointBegin
	TokPointEnd
	TokExpressionBegin // placeholder while a brace is being classified
	TokComparator      // Int = property code, Op = comparison, Value = literal or nil

	// atom-expression predicates
	TokAll
	TokNone
	TokSelected
	TokNamedSet // Value = name
	TokSpecName
	TokSpecSeqcode
	TokSpecSeqcodeRange
	TokSpecChain
	TokSpecAtom
	TokSpecAlternate
	TokSpecModel
	TokSpecModel2
	TokWithin
	TokContact
	TokConnected
	TokSearch
	TokSmiles
	TokCell
	TokCentroid

	// commands
	TokSelect
	TokPrint
	TokSet
	TokVar
	TokFor
	TokIf
	TokTrue
	TokFalse

	// integer atom properties
	TokAtomIndex
	TokAtomNo
	TokElemNo
	TokResNo
	TokModelIndex
	TokFormalCharge
	TokSymop
	TokBondCount
	TokFile
	TokModel
	TokMolecule

	// float atom properties
	TokX
	TokY
	TokZ
	TokFX
	TokFY
	TokFZ
	TokTemperature
	TokOccupancy
	TokPartialCharge
	TokRadius
	TokMass

	// string atom properties
	TokChain
	TokAtomName
	TokElement
	TokGroup
	TokAltLoc
	TokAtomType

	// point properties
	TokXYZ
	TokFracXYZ

	// bond properties
	TokLength
	TokColor

	// aggregate modifiers; TokAll doubles as the list modifier
	TokMin
	TokMax
	TokSum
	TokSum2
	TokAverage
	TokStdDev
	TokAllFloat

	// user-function property
	TokFunctionProperty

	tokCount
)
