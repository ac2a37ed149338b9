package token

import (
	"strconv"
	"strings"

	"molscript/types"
)

// Flag marks compiler decisions carried to the evaluator
type Flag uint8

const (
	// FlagAssignStep marks a selector that belongs to an assignment target
	FlagAssignStep Flag = 1 << iota
	// FlagForceString makes an @ substitution yield a string
	FlagForceString
	// FlagEvaluated marks @{expr}: the value is already on the stack
	FlagEvaluated
	// FlagNegate flips the sign of a comparison value (operator text ends
	// in "-")
	FlagNegate
)

// Token is one lexical or compiled unit
type Token struct {
	Tok   Tok
	Int   int
	Value any
	Text  string
	Op    Tok
	Flags Flag
}

// Has reports whether the token carries flag f
func (t *Token) Has(f Flag) bool {
	return t.Flags&f != 0
}

// Name returns the string payload, or the source text
func (t *Token) Name() string {
	if s, ok := t.Value.(string); ok {
		return s
	}
	return t.Text
}

// Literal returns the types.Value payload of a literal token
func (t *Token) Literal() types.Value {
	if v, ok := t.Value.(types.Value); ok {
		return v
	}
	return nil
}

// String renders the token for program listings and error messages
func (t *Token) String() string {
	switch {
	case t.Tok.IsLiteral():
		return types.Escape(t.Literal())
	case t.Tok == TokVariable || t.Tok == TokIdentifier || t.Tok == TokNamedSet:
		return t.Name()
	case t.Tok == TokDefine:
		if t.Has(FlagEvaluated) {
			return "@{}"
		}
		return "@" + t.Name()
	case t.Tok == TokFunction || t.Tok == TokMethod:
		return t.Name() + "/" + strconv.Itoa(t.Int)
	case t.Tok == TokProperty:
		s := "." + t.Name()
		if t.Op != TokNada {
			s += "." + t.Op.String()
		}
		return s
	case t.Tok == TokComparator:
		s := Tok(t.Int).String() + t.Text
		if v, ok := t.Value.(types.Value); ok {
			s += types.Escape(v)
		}
		return s
	case t.Tok == TokMeta:
		if m, ok := t.Value.(*Meta); ok {
			return m.String()
		}
	case t.Tok == TokIndex:
		if t.Int == 2 {
			return "[][]"
		}
	case t.Tok == TokCell, t.Tok == TokCentroid:
		if v, ok := t.Value.(types.Value); ok {
			return t.Tok.String() + "=" + types.Escape(v)
		}
	case t.Tok >= TokSpecName && t.Tok <= TokSpecModel2:
		if t.Text != "" {
			return t.Tok.String() + "=" + t.Text
		}
		if s, ok := t.Value.(string); ok {
			return t.Tok.String() + "=" + s
		}
		return t.Tok.String() + "=" + strconv.Itoa(t.Int)
	case t.Tok.Has(AttrClause):
		return t.Tok.String() + "/" + strconv.Itoa(t.Int)
	}
	if t.Tok == TokIdentifier || t.Tok == TokNada {
		return t.Text
	}
	return t.Tok.String()
}

// New creates a token with a code and source text
func New(tok Tok, text string) *Token {
	return &Token{Tok: tok, Text: text}
}

// NewInt creates a token with an integer payload
func NewInt(tok Tok, n int) *Token {
	return &Token{Tok: tok, Int: n}
}

// NewValue creates a token with an object payload
func NewValue(tok Tok, v any) *Token {
	return &Token{Tok: tok, Value: v}
}

// Literal wraps a value in the literal token for its type
func Literal(v types.Value) *Token {
	t := &Token{Value: v, Int: types.Unselected}
	switch x := v.(type) {
	case types.IntValue:
		t.Tok = TokInteger
		t.Int = x.Val
	case types.FloatValue:
		t.Tok = TokDecimal
	case types.StrValue:
		t.Tok = TokString
	case types.BoolValue:
		t.Tok = TokBoolean
	case types.Point3Value:
		t.Tok = TokPoint3
	case types.Point4Value:
		t.Tok = TokPoint4
	case types.Matrix3Value:
		t.Tok = TokMatrix3
	case types.Matrix4Value:
		t.Tok = TokMatrix4
	case types.BitSetValue:
		t.Tok = TokBitset
	case types.BytesValue:
		t.Tok = TokBytes
	case *types.ListValue:
		t.Tok = TokList
	case *types.MapValue:
		t.Tok = TokMap
	case *types.ContextValue:
		t.Tok = TokContext
	default:
		t.Tok = TokString
		t.Value = types.NewStr(types.AsString(v))
	}
	t.Text = types.AsString(t.Value.(types.Value))
	return t
}

// Program is a compiled postfix instruction stream. Programs are not
// modified by evaluation and may be run any number of times.
type Program []*Token

// String lists the tokens separated by spaces
func (p Program) String() string {
	parts := make([]string, len(p))
	for i, t := range p {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// Meta is the payload of a context-scoped token: select(x; set; expr),
// for(x; set; expr), if(cond; a; b) and cond ? a : b. Locals names the
// bindings introduced for Expr; their values live in the evaluation
// frame, not in the token.
type Meta struct {
	Kind   Tok // TokSelect, TokFor or TokIf
	Var    string
	Set    Program
	Expr   Program
	Else   Program
	Locals []string
}

func (m *Meta) String() string {
	switch m.Kind {
	case TokIf:
		return "if(" + m.Expr.String() + "; " + m.Else.String() + ")"
	default:
		return m.Kind.String() + "(" + m.Var + "; " + m.Set.String() + "; " + m.Expr.String() + ")"
	}
}
