package parser

import (
	"strconv"
	"strings"

	"molscript/token"
	"molscript/types"
)

// compiler turns a statement's tokens into postfix programs. Math
// expressions and atom expressions share the output buffer; braces switch
// between the two grammars.
type compiler struct {
	stream
	out token.Program

	haveString  bool // comma separates arguments instead of meaning "or"
	juxtapose   bool // inside a coordinate, adjacent operands are separate items
	atomCoords  bool // a coordinate is acceptable where an atom expression is parsed
	forceString bool // @ substitutions yield strings (file-name commands)
}

func newCompiler(toks []*token.Token) *compiler {
	c := &compiler{}
	c.toks = append([]*token.Token(nil), toks...)
	return c
}

// CompileExpression compiles a math expression
func CompileExpression(toks []*token.Token) (token.Program, error) {
	c := newCompiler(toks)
	if err := c.expression(); err != nil {
		return nil, err
	}
	return c.finish()
}

// CompileAtomExpression compiles an atom expression, the argument of
// select and the body of {...}
func CompileAtomExpression(toks []*token.Token) (token.Program, error) {
	c := newCompiler(toks)
	if !c.more() {
		return token.Program{token.New(token.TokAll, "*")}, nil
	}
	if err := c.atomExpression(); err != nil {
		return nil, err
	}
	return c.finish()
}

func (c *compiler) finish() (token.Program, error) {
	if t := c.peek(); t != nil {
		return nil, unexpected(t)
	}
	return c.out, nil
}

func (c *compiler) emit(t *token.Token) {
	c.out = append(c.out, t)
}

func unexpected(t *token.Token) error {
	if t == nil {
		return types.NewError(types.E_END_OF_COMMAND, "")
	}
	return types.NewError(types.E_UNRECOGNIZED_TOKEN, tokenText(t))
}

func tokenText(t *token.Token) string {
	if t.Text != "" {
		return t.Text
	}
	return t.String()
}

// sub compiles into a fresh buffer and returns what f emitted
func (c *compiler) sub(f func() error) (token.Program, error) {
	saved := c.out
	c.out = nil
	err := f()
	prog := c.out
	c.out = saved
	return prog, err
}

// scope runs f under the comma and whitespace rules of a freshly opened
// bracket, restoring the enclosing rules afterwards
func (c *compiler) scope(commaSeparates bool, f func() error) error {
	j, h := c.juxtapose, c.haveString
	c.juxtapose, c.haveString = false, commaSeparates
	defer func() { c.juxtapose, c.haveString = j, h }()
	return f()
}

func isNumber(t *token.Token) bool {
	return t != nil && (t.Tok == token.TokInteger || t.Tok == token.TokDecimal)
}

// math grammar

func (c *compiler) expression() error {
	return c.ternary()
}

// ternary compiles cond ? a : b. The branches are kept out of line so
// only the chosen one is evaluated.
func (c *compiler) ternary() error {
	if err := c.binary(1); err != nil {
		return err
	}
	if !c.getTokenIf(token.TokQuestion) {
		return nil
	}
	then, err := c.sub(c.ternary)
	if err != nil {
		return err
	}
	if _, err := c.expect(token.TokColon); err != nil {
		return err
	}
	els, err := c.sub(c.ternary)
	if err != nil {
		return err
	}
	c.emit(token.NewValue(token.TokMeta, &token.Meta{Kind: token.TokIf, Expr: then, Else: els}))
	return nil
}

// binary is precedence climbing over the infix operators
func (c *compiler) binary(minPrec int) error {
	if err := c.unary(); err != nil {
		return err
	}
	for {
		if !c.juxtapose && isNegativeNumber(c.peek()) {
			c.splitNegative()
		}
		op := c.peek()
		if op == nil {
			return nil
		}
		prec := token.Precedence(op.Tok)
		if prec == 0 || prec < minPrec {
			return nil
		}
		c.getToken()
		next := prec + 1
		if op.Tok == token.TokOpPow {
			next = prec
		}
		if err := c.binary(next); err != nil {
			return err
		}
		c.emit(token.New(op.Tok, op.Text))
	}
}

func (c *compiler) unary() error {
	switch c.tokPeek() {
	case token.TokOpNot:
		t, _ := c.getToken()
		if err := c.binary(token.Precedence(token.TokOpEQ)); err != nil {
			return err
		}
		c.emit(token.New(token.TokOpNot, t.Text))
		return nil
	case token.TokOpMinus:
		c.getToken()
		if err := c.binary(token.Precedence(token.TokOpPow)); err != nil {
			return err
		}
		c.emit(token.New(token.TokOpUnaryMinus, "-"))
		return nil
	case token.TokOpPlus:
		c.getToken()
		return c.binary(token.Precedence(token.TokOpPow))
	}
	if err := c.primary(); err != nil {
		return err
	}
	return c.postfix()
}

func (c *compiler) primary() error {
	t, err := c.getToken()
	if err != nil {
		return err
	}
	if t.Tok.IsLiteral() {
		c.emit(t)
		return nil
	}
	switch t.Tok {
	case token.TokLeftParen:
		if err := c.scope(false, c.expression); err != nil {
			return err
		}
		_, err := c.expect(token.TokRightParen)
		return err
	case token.TokLeftBracket:
		return c.arrayLiteral()
	case token.TokLeftBrace:
		return c.brace(true)
	case token.TokAt:
		return c.define(false)
	case token.TokSelect, token.TokFor:
		if c.tokPeekIs(token.TokLeftParen) {
			return c.loopMeta(t.Tok)
		}
	case token.TokIf:
		if c.tokPeekIs(token.TokLeftParen) {
			return c.ifMeta()
		}
	case token.TokWithin, token.TokContact, token.TokConnected, token.TokSearch, token.TokSmiles:
		c.returnToken()
		return c.clause()
	case token.TokAll, token.TokNone, token.TokSelected:
		c.emit(token.New(t.Tok, t.Text))
		return nil
	}
	if isWord(t) && !t.Tok.Has(token.AttrMathOperator) {
		if c.tokPeekIs(token.TokLeftParen) {
			argc, err := c.arguments()
			if err != nil {
				return err
			}
			c.emit(&token.Token{Tok: token.TokFunction, Value: strings.ToLower(t.Text), Text: t.Text, Int: argc})
			return nil
		}
		c.emit(&token.Token{Tok: token.TokVariable, Value: t.Text, Text: t.Text})
		return nil
	}
	return unexpected(t)
}

// arguments compiles a parenthesized, comma-separated argument list and
// returns its length
func (c *compiler) arguments() (int, error) {
	if _, err := c.expect(token.TokLeftParen); err != nil {
		return 0, err
	}
	n := 0
	err := c.scope(true, func() error {
		if c.getTokenIf(token.TokRightParen) {
			return nil
		}
		for {
			if err := c.expression(); err != nil {
				return err
			}
			n++
			if c.getTokenIf(token.TokComma) {
				continue
			}
			_, err := c.expect(token.TokRightParen)
			return err
		}
	})
	return n, err
}

func (c *compiler) postfix() error {
	for {
		switch c.tokPeek() {
		case token.TokLeftBracket:
			c.getToken()
			if err := c.selector(0); err != nil {
				return err
			}
		case token.TokPeriod:
			c.getToken()
			if err := c.member(0); err != nil {
				return err
			}
		case token.TokOpPlusPlus, token.TokOpMinusMinus:
			if len(c.out) == 0 || c.out[len(c.out)-1].Tok != token.TokVariable {
				return nil
			}
			t, _ := c.getToken()
			c.emit(token.New(t.Tok, t.Text))
		default:
			return nil
		}
	}
}

// selector compiles [i] or [i][j] following an opening bracket already
// consumed. Two adjacent brackets form one range selector.
func (c *compiler) selector(flags token.Flag) error {
	index := func() error {
		if err := c.scope(true, c.expression); err != nil {
			return err
		}
		_, err := c.expect(token.TokRightBracket)
		return err
	}
	if err := index(); err != nil {
		return err
	}
	n := 1
	if c.getTokenIf(token.TokLeftBracket) {
		if err := index(); err != nil {
			return err
		}
		n = 2
	}
	c.emit(&token.Token{Tok: token.TokIndex, Int: n, Flags: flags, Text: "[]"})
	return nil
}

// member compiles .name, .name.modifier or .name(args) after the period
func (c *compiler) member(flags token.Flag) error {
	t, err := c.getToken()
	if err != nil {
		return err
	}
	if !isWord(t) {
		return unexpected(t)
	}
	name := strings.ToLower(t.Text)
	if flags == 0 && c.tokPeekIs(token.TokLeftParen) {
		argc, err := c.arguments()
		if err != nil {
			return err
		}
		c.emit(&token.Token{Tok: token.TokMethod, Value: name, Text: t.Text, Int: argc})
		return nil
	}
	p := &token.Token{Tok: token.TokProperty, Value: name, Text: t.Text, Flags: flags}
	if t.Tok != token.TokIdentifier {
		p.Int = int(t.Tok)
	}
	if flags == 0 && (t.Tok.IsAtomProperty() || t.Tok.Has(token.AttrBondProperty)) &&
		c.tokPeekIs(token.TokPeriod) && c.tokAt(2) != token.TokLeftParen {
		if m := c.peekAt(1); m != nil && m.Tok.Has(token.AttrModifier) {
			c.getToken()
			c.getToken()
			p.Op = m.Tok
		}
	}
	c.emit(p)
	return nil
}

func (c *compiler) arrayLiteral() error {
	c.emit(token.New(token.TokArrayBegin, "["))
	return c.scope(true, func() error {
		if !c.tokPeekIs(token.TokRightBracket) {
			for {
				if err := c.expression(); err != nil {
					return err
				}
				if !c.getTokenIf(token.TokComma) {
					break
				}
			}
		}
		if _, err := c.expect(token.TokRightBracket); err != nil {
			return err
		}
		c.emit(token.New(token.TokArrayEnd, "]"))
		return nil
	})
}

func (c *compiler) hashLiteral() error {
	c.emit(token.New(token.TokHashBegin, "{"))
	return c.scope(true, func() error {
		for {
			k, err := c.expect(token.TokString)
			if err != nil {
				return err
			}
			c.emit(k)
			if _, err := c.expect(token.TokColon); err != nil {
				return err
			}
			if err := c.expression(); err != nil {
				return err
			}
			if c.getTokenIf(token.TokComma) {
				continue
			}
			if _, err := c.expect(token.TokRightBrace); err != nil {
				return err
			}
			c.emit(token.New(token.TokHashEnd, "}"))
			return nil
		}
	})
}

// brace classifies what follows an opening brace: an empty or keyed hash,
// a coordinate where one is allowed, or else a nested atom expression
func (c *compiler) brace(allowCoord bool) error {
	if c.getTokenIf(token.TokRightBrace) {
		c.emit(token.New(token.TokHashBegin, "{"))
		c.emit(token.New(token.TokHashEnd, "}"))
		return nil
	}
	if c.tokPeekIs(token.TokString) && c.tokAt(1) == token.TokColon {
		return c.hashLiteral()
	}
	if allowCoord {
		toks, pos, n := c.toks, c.pos, len(c.out)
		if c.coordinate() {
			return nil
		}
		c.toks, c.pos, c.out, c.pushedBack = toks, pos, c.out[:n], false
	}
	err := c.scope(false, func() error {
		saved := c.atomCoords
		c.atomCoords = false
		defer func() { c.atomCoords = saved }()
		return c.atomExpression()
	})
	if err != nil {
		return err
	}
	_, err = c.expect(token.TokRightBrace)
	return err
}

// coordinate tries to read {x y z} or {x y z w}, items separated by
// whitespace or commas. All-literal coordinates fold into one point
// literal; others build at run time between point markers.
func (c *compiler) coordinate() bool {
	p := len(c.out)
	c.emit(token.New(token.TokExpressionBegin, "{"))
	j, h := c.juxtapose, c.haveString
	c.juxtapose, c.haveString = true, true
	defer func() { c.juxtapose, c.haveString = j, h }()

	n := 0
	literal := true
	for !c.tokPeekIs(token.TokRightBrace) {
		if !c.more() {
			return false
		}
		start := len(c.out)
		if err := c.expression(); err != nil {
			return false
		}
		if len(c.out) != start+1 || !isNumber(c.out[start]) {
			literal = false
		}
		n++
		c.getTokenIf(token.TokComma)
	}
	if n != 3 && n != 4 {
		return false
	}
	c.getToken()
	if literal {
		f := make([]float64, n)
		for i, t := range c.out[p+1:] {
			f[i] = types.AsFloat(t.Literal())
		}
		c.out = c.out[:p]
		if n == 3 {
			c.emit(token.Literal(types.NewPoint3(f[0], f[1], f[2])))
		} else {
			c.emit(token.Literal(types.NewPoint4(f[0], f[1], f[2], f[3])))
		}
		return true
	}
	c.out[p] = token.New(token.TokPointBegin, "{")
	c.emit(&token.Token{Tok: token.TokPointEnd, Int: n, Text: "}"})
	return true
}

// define compiles @name or @{expr} after the @. In an atom expression a
// string value is compiled as an atom expression when evaluated.
func (c *compiler) define(atom bool) error {
	d := &token.Token{Tok: token.TokDefine, Text: "@"}
	if c.forceString {
		d.Flags |= token.FlagForceString
	}
	if atom {
		d.Int = 1
	}
	if c.getTokenIf(token.TokLeftBrace) {
		if err := c.scope(true, c.expression); err != nil {
			return err
		}
		if _, err := c.expect(token.TokRightBrace); err != nil {
			return err
		}
		d.Flags |= token.FlagEvaluated
		c.emit(d)
		return nil
	}
	t, err := c.getToken()
	if err != nil {
		return err
	}
	if !isWord(t) {
		return types.NewError(types.E_NUMBER_OR_VARIABLE_EXPECTED, tokenText(t))
	}
	d.Value = t.Text
	c.emit(d)
	return nil
}

// loopMeta compiles select(x; set; expr) and for(x; set; expr)
func (c *compiler) loopMeta(kind token.Tok) error {
	c.getToken()
	v, err := c.getToken()
	if err != nil {
		return err
	}
	if !isWord(v) {
		return types.NewError(types.E_NUMBER_OR_VARIABLE_EXPECTED, tokenText(v))
	}
	if _, err := c.expect(token.TokSemicolon); err != nil {
		return err
	}
	set, err := c.sub(func() error { return c.scope(true, c.expression) })
	if err != nil {
		return err
	}
	if _, err := c.expect(token.TokSemicolon); err != nil {
		return err
	}
	expr, err := c.sub(func() error { return c.scope(true, c.expression) })
	if err != nil {
		return err
	}
	if _, err := c.expect(token.TokRightParen); err != nil {
		return err
	}
	c.emit(token.NewValue(token.TokMeta, &token.Meta{
		Kind:   kind,
		Var:    v.Text,
		Set:    set,
		Expr:   expr,
		Locals: []string{v.Text},
	}))
	return nil
}

// ifMeta compiles if(cond; a; b); the condition is evaluated inline
func (c *compiler) ifMeta() error {
	c.getToken()
	if err := c.scope(true, c.expression); err != nil {
		return err
	}
	separator := func() error {
		if c.getTokenIf(token.TokSemicolon) || c.getTokenIf(token.TokComma) {
			return nil
		}
		return types.NewError(types.E_TOKEN_EXPECTED, ";")
	}
	if err := separator(); err != nil {
		return err
	}
	then, err := c.sub(func() error { return c.scope(true, c.expression) })
	if err != nil {
		return err
	}
	if err := separator(); err != nil {
		return err
	}
	els, err := c.sub(func() error { return c.scope(true, c.expression) })
	if err != nil {
		return err
	}
	if _, err := c.expect(token.TokRightParen); err != nil {
		return err
	}
	c.emit(token.NewValue(token.TokMeta, &token.Meta{Kind: token.TokIf, Expr: then, Else: els}))
	return nil
}

// modelNumber encodes a file.model decimal as file*1000000+model using the
// digits as written, so 2.10 is model 10
func modelNumber(t *token.Token) int {
	text := t.Text
	if text == "" {
		text = types.AsString(t.Literal())
	}
	whole, frac, _ := strings.Cut(text, ".")
	f, _ := strconv.Atoi(whole)
	m, _ := strconv.Atoi(frac)
	return f*1000000 + m
}
