package parser

import (
	"strings"

	"molscript/token"
	"molscript/types"
)

// atom expression grammar: or/xor/tog (and comma) < and < not < primitive

func (c *compiler) atomExpression() error {
	return c.clauseOr()
}

func (c *compiler) clauseOr() error {
	if err := c.clauseAnd(); err != nil {
		return err
	}
	for {
		t := c.peek()
		if t == nil {
			return nil
		}
		op := t.Tok
		switch op {
		case token.TokOpOr, token.TokOpXor, token.TokOpToggle:
		case token.TokComma:
			if c.haveString {
				return nil
			}
			op = token.TokOpOr
		default:
			return nil
		}
		c.getToken()
		if err := c.clauseAnd(); err != nil {
			return err
		}
		c.emit(token.New(op, t.Text))
	}
}

func (c *compiler) clauseAnd() error {
	if err := c.clauseNot(); err != nil {
		return err
	}
	for c.tokPeekIs(token.TokOpAnd) {
		t, _ := c.getToken()
		if err := c.clauseNot(); err != nil {
			return err
		}
		c.emit(token.New(token.TokOpAnd, t.Text))
	}
	return nil
}

func (c *compiler) clauseNot() error {
	if c.tokPeekIs(token.TokOpNot) {
		t, _ := c.getToken()
		if err := c.clauseNot(); err != nil {
			return err
		}
		c.emit(token.New(token.TokOpNot, t.Text))
		return nil
	}
	return c.clausePrimitive()
}

func (c *compiler) clausePrimitive() error {
	t := c.peek()
	if t == nil {
		return types.NewError(types.E_END_OF_COMMAND, "")
	}
	switch t.Tok {
	case token.TokLeftParen:
		c.getToken()
		if err := c.scope(false, c.clauseOr); err != nil {
			return err
		}
		if _, err := c.expect(token.TokRightParen); err != nil {
			return err
		}
		return c.atomSelectors()
	case token.TokLeftBrace:
		c.getToken()
		if err := c.brace(c.atomCoords); err != nil {
			return err
		}
		return c.atomSelectors()
	case token.TokAt:
		c.getToken()
		if err := c.define(true); err != nil {
			return err
		}
		return c.atomSelectors()
	case token.TokBitset:
		c.getToken()
		c.emit(t)
		return c.atomSelectors()
	case token.TokAll, token.TokNone, token.TokSelected:
		c.getToken()
		c.emit(token.New(t.Tok, t.Text))
		return nil
	case token.TokDecimal:
		if !isNegativeNumber(t) {
			c.getToken()
			c.emit(&token.Token{Tok: token.TokSpecModel2, Int: modelNumber(t), Text: t.Text})
			return nil
		}
	case token.TokCell, token.TokCentroid:
		if c.tokAt(1) == token.TokOpEQ {
			return c.cellClause()
		}
	case token.TokWithin, token.TokContact, token.TokConnected, token.TokSearch, token.TokSmiles:
		return c.clause()
	}
	if t.Tok.IsAtomProperty() && c.tokAt(1).IsComparison() {
		return c.comparator()
	}
	if t.Tok == token.TokIdentifier && c.tokAt(1) == token.TokLeftParen {
		err := types.NewError(types.E_UNRECOGNIZED_TOKEN, t.Text)
		err.Suggestion = Suggest(t.Text, clauseNames)
		return err
	}
	return c.residueSpec()
}

// atomSelectors compiles item selectors following a parenthesized or
// braced atom expression, e.g. (carbon)[2]
func (c *compiler) atomSelectors() error {
	for c.getTokenIf(token.TokLeftBracket) {
		if err := c.selector(0); err != nil {
			return err
		}
	}
	return nil
}

// comparator compiles property op value. The value is a literal carried
// by the token, or is computed by preceding code and taken from the stack.
// "op - number" keeps the number positive and marks the operator.
func (c *compiler) comparator() error {
	prop, _ := c.getToken()
	op, _ := c.getToken()
	if prop.Tok.Has(token.AttrStringProperty) && op.Tok != token.TokOpEQ && op.Tok != token.TokOpNE {
		return types.NewError(types.E_INVALID_ATOM_SPEC, prop.Text+op.Text)
	}
	cmp := &token.Token{Tok: token.TokComparator, Int: int(prop.Tok), Op: op.Tok, Text: op.Text}
	v := c.peek()
	switch {
	case v == nil:
		return types.NewError(types.E_NUMBER_OR_VARIABLE_EXPECTED, "")
	case v.Tok == token.TokOpMinus && isNumber(c.peekAt(1)):
		c.getToken()
		n, _ := c.getToken()
		cmp.Value = n.Literal()
		cmp.Text += "-"
		cmp.Flags |= token.FlagNegate
	case v.Tok.IsLiteral():
		c.getToken()
		cmp.Value = v.Literal()
	case isWord(v):
		c.getToken()
		if prop.Tok.Has(token.AttrStringProperty) {
			cmp.Value = types.NewStr(v.Text)
		} else {
			c.emit(&token.Token{Tok: token.TokVariable, Value: v.Text, Text: v.Text})
		}
	case v.Tok == token.TokAt:
		c.getToken()
		if err := c.define(false); err != nil {
			return err
		}
	case v.Tok == token.TokLeftBrace:
		c.getToken()
		if err := c.brace(true); err != nil {
			return err
		}
	case v.Tok == token.TokLeftParen:
		c.getToken()
		if err := c.scope(false, c.expression); err != nil {
			return err
		}
		if _, err := c.expect(token.TokRightParen); err != nil {
			return err
		}
	default:
		return types.NewError(types.E_NUMBER_OR_VARIABLE_EXPECTED, tokenText(v))
	}
	c.emit(cmp)
	return nil
}

// residueSpec compiles [name|*|[name]][seq[-seq]][:chain][.atom][%alt][/model].
// The parts present are and-ed; a bare * selects everything.
func (c *compiler) residueSpec() error {
	var specs []*token.Token
	add := func(t *token.Token) { specs = append(specs, t) }
	start := c.pos
	named := ""

	t := c.peek()
	switch {
	case t.Tok == token.TokOpMul:
		c.getToken()
	case t.Tok == token.TokLeftBracket:
		c.getToken()
		var sb strings.Builder
		for !c.tokPeekIs(token.TokRightBracket) {
			n, err := c.getToken()
			if err != nil {
				return types.NewError(types.E_TOKEN_EXPECTED, "]")
			}
			sb.WriteString(n.Text)
		}
		c.getToken()
		add(&token.Token{Tok: token.TokSpecName, Value: sb.String(), Text: sb.String()})
	case isWord(t) && !t.Tok.Has(token.AttrMathOperator):
		c.getToken()
		name, seq := splitResidueName(t.Text)
		switch {
		case seq != "":
			if name != "*" {
				add(&token.Token{Tok: token.TokSpecName, Value: name, Text: name})
			}
			n, _ := types.ParseInt(seq)
			add(&token.Token{Tok: token.TokSpecSeqcode, Int: n, Text: seq})
		case strings.ContainsAny(name, "?*"):
			add(&token.Token{Tok: token.TokSpecName, Value: name, Text: name})
		default:
			named = name
		}
	}

	if t := c.peek(); t != nil && t.Tok == token.TokInteger {
		c.getToken()
		if named != "" {
			add(&token.Token{Tok: token.TokSpecName, Value: named, Text: named})
			named = ""
		}
		add(c.seqcode(t))
	}

	if c.getTokenIf(token.TokColon) {
		v := c.peek()
		switch {
		case v != nil && (isWord(v) || v.Tok == token.TokInteger && !isNegativeNumber(v)):
			c.getToken()
			if v.Text != "*" {
				add(&token.Token{Tok: token.TokSpecChain, Value: v.Text, Text: v.Text})
			}
		case v != nil && (v.Tok == token.TokOpMul || v.Tok == token.TokQuestion):
			c.getToken()
		default:
			return types.NewError(types.E_INVALID_CHAIN_SPEC, textOf(v))
		}
	}

	if c.getTokenIf(token.TokPeriod) {
		v := c.peek()
		switch {
		case v != nil && (isWord(v) || v.Tok == token.TokInteger):
			c.getToken()
			if v.Text != "*" {
				add(&token.Token{Tok: token.TokSpecAtom, Value: v.Text, Text: v.Text})
			}
		case v != nil && (v.Tok == token.TokOpMul || v.Tok == token.TokQuestion):
			c.getToken()
		default:
			return types.NewError(types.E_INVALID_ATOM_SPEC, textOf(v))
		}
	}

	if c.getTokenIf(token.TokOpMod) {
		v := c.peek()
		switch {
		case v != nil && (isWord(v) || v.Tok == token.TokInteger):
			c.getToken()
			add(&token.Token{Tok: token.TokSpecAlternate, Value: v.Text, Text: v.Text})
		case v != nil && v.Tok == token.TokOpMul:
			c.getToken()
		default:
			return types.NewError(types.E_INVALID_ATOM_SPEC, "%"+textOf(v))
		}
	}

	if c.getTokenIf(token.TokOpDiv) {
		v := c.peek()
		switch {
		case v != nil && v.Tok == token.TokInteger:
			c.getToken()
			add(&token.Token{Tok: token.TokSpecModel, Int: v.Int, Text: v.Text})
		case v != nil && v.Tok == token.TokDecimal:
			c.getToken()
			add(&token.Token{Tok: token.TokSpecModel2, Int: modelNumber(v), Text: v.Text})
		case v != nil && v.Tok == token.TokOpMul:
			c.getToken()
		default:
			return types.NewError(types.E_INVALID_MODEL_SPEC, textOf(v))
		}
	}

	if c.pos == start {
		return types.NewError(types.E_RESIDUE_SPEC_EXPECTED, textOf(t))
	}
	if named != "" {
		if len(specs) == 0 {
			c.emit(&token.Token{Tok: token.TokNamedSet, Value: named, Text: named})
			return nil
		}
		specs = append([]*token.Token{{Tok: token.TokSpecName, Value: named, Text: named}}, specs...)
	}
	if len(specs) == 0 {
		c.emit(token.New(token.TokAll, "*"))
		return nil
	}
	c.emit(specs[0])
	for _, s := range specs[1:] {
		c.emit(s)
		c.emit(token.New(token.TokOpAnd, "and"))
	}
	return nil
}

// seqcode compiles n, n-m or "n -m" (lexed as a negative number)
func (c *compiler) seqcode(first *token.Token) *token.Token {
	end, ok := 0, false
	switch next := c.peek(); {
	case next != nil && next.Tok == token.TokOpMinus && c.tokAt(1) == token.TokInteger:
		c.getToken()
		n, _ := c.getToken()
		end, ok = n.Int, true
	case isNegativeNumber(next) && next.Tok == token.TokInteger:
		c.getToken()
		end, ok = -next.Int, true
	}
	if !ok {
		return &token.Token{Tok: token.TokSpecSeqcode, Int: first.Int, Text: first.Text}
	}
	return &token.Token{
		Tok:   token.TokSpecSeqcodeRange,
		Int:   first.Int,
		Value: types.NewInt(end),
		Text:  first.Text + "-" + types.AsString(types.NewInt(end)),
	}
}

// splitResidueName splits ALA23 into ALA and 23. Only a trailing run of
// digits after a purely alphabetic (or wildcard) name is split off.
func splitResidueName(word string) (string, string) {
	i := len(word)
	for i > 0 && word[i-1] >= '0' && word[i-1] <= '9' {
		i--
	}
	if i == len(word) || i == 0 {
		return word, ""
	}
	for _, ch := range word[:i] {
		if !(ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '?' || ch == '*') {
			return word, ""
		}
	}
	return word[:i], word[i:]
}

func textOf(t *token.Token) string {
	if t == nil {
		return ""
	}
	return tokenText(t)
}

// cellClause compiles cell=nnn, cell={i j k} and the centroid forms.
// nnn counts from 5, so cell=555 is the unit cell {1 1 1}.
func (c *compiler) cellClause() error {
	t, _ := c.getToken()
	c.getToken()
	v, err := c.getToken()
	if err != nil {
		return err
	}
	var pt types.Point3Value
	switch v.Tok {
	case token.TokInteger:
		n := v.Int
		pt = types.NewPoint3(float64(n/100-4), float64((n/10)%10-4), float64(n%10-4))
	case token.TokLeftBrace:
		var f []float64
		for !c.getTokenIf(token.TokRightBrace) {
			n, err := c.getToken()
			if err != nil {
				return err
			}
			if n.Tok == token.TokComma {
				continue
			}
			if !isNumber(n) {
				return types.NewError(types.E_NUMBER_EXPECTED, tokenText(n))
			}
			f = append(f, types.AsFloat(n.Literal()))
		}
		if len(f) != 3 {
			return types.NewError(types.E_BAD_ARGUMENT_COUNT, t.Text)
		}
		pt = types.NewPoint3(f[0], f[1], f[2])
	default:
		return types.NewError(types.E_NUMBER_EXPECTED, tokenText(v))
	}
	c.emit(&token.Token{Tok: t.Tok, Value: pt, Text: t.Text})
	return nil
}

// clause compiles within(...), contact(...), connected(...), search(...)
// and smiles(...). Arguments are pushed in order and the clause token
// carries their count.
func (c *compiler) clause() error {
	t, _ := c.getToken()
	switch t.Tok {
	case token.TokConnected:
		return c.connected(t)
	case token.TokSearch, token.TokSmiles:
		return c.search(t)
	}
	if _, err := c.expect(token.TokLeftParen); err != nil {
		return err
	}
	argStart := len(c.out)
	argc := 0
	numeric := false
	err := c.clauseScope(func() error {
		for !c.tokPeekIs(token.TokRightParen) {
			if argc > 0 {
				if _, err := c.expect(token.TokComma); err != nil {
					return err
				}
			}
			a := c.peek()
			switch {
			case argc == 0 && isNumber(a):
				c.getToken()
				c.emit(a)
				numeric = true
			case argc == 0 && isWord(a) && isWithinKind(a.Text):
				c.getToken()
				c.emit(token.Literal(types.NewStr(strings.ToLower(a.Text))))
			case argc == 0 && t.Tok == token.TokWithin && isWord(a) && c.tokAt(1) == token.TokComma:
				err := types.NewError(types.E_INVALID_ARGUMENT, a.Text)
				err.Suggestion = Suggest(a.Text, withinKinds)
				return err
			default:
				if err := c.clauseArg(); err != nil {
					return err
				}
			}
			argc++
		}
		c.getToken()
		return nil
	})
	if err != nil {
		return err
	}
	if t.Tok == token.TokContact && !numeric {
		c.out = append(c.out[:argStart], append(token.Program{token.Literal(types.NewFloat(100))}, c.out[argStart:]...)...)
		argc++
	}
	c.emit(&token.Token{Tok: t.Tok, Int: argc, Text: t.Text})
	return nil
}

// clauseScope runs f with commas separating arguments and coordinates
// accepted in place of atom expressions
func (c *compiler) clauseScope(f func() error) error {
	saved := c.atomCoords
	c.atomCoords = true
	defer func() { c.atomCoords = saved }()
	return c.scope(true, f)
}

func (c *compiler) clauseArg() error {
	a := c.peek()
	switch {
	case a == nil:
		return types.NewError(types.E_END_OF_COMMAND, "")
	case a.Tok.IsLiteral() && a.Tok != token.TokBitset:
		c.getToken()
		c.emit(a)
		return nil
	}
	return c.clauseOr()
}

// connected([min [max]] [mindist [maxdist]] [order] [atoms])
func (c *compiler) connected(t *token.Token) error {
	if !c.getTokenIf(token.TokLeftParen) {
		c.emit(&token.Token{Tok: t.Tok, Text: t.Text})
		return nil
	}
	argc, nInt, nDec := 0, 0, 0
	err := c.clauseScope(func() error {
		for !c.getTokenIf(token.TokRightParen) {
			if argc > 0 {
				c.getTokenIf(token.TokComma)
			}
			a := c.peek()
			switch {
			case a == nil:
				return types.NewError(types.E_TOKEN_EXPECTED, ")")
			case a.Tok == token.TokInteger:
				if nInt++; nInt > 2 {
					return types.NewError(types.E_BAD_ARGUMENT_COUNT, t.Text)
				}
				c.getToken()
				c.emit(a)
			case a.Tok == token.TokDecimal:
				if nDec++; nDec > 2 {
					return types.NewError(types.E_BAD_ARGUMENT_COUNT, t.Text)
				}
				c.getToken()
				c.emit(a)
			case a.Tok == token.TokString:
				c.getToken()
				c.emit(a)
			case isWord(a) && bondOrders[strings.ToLower(a.Text)]:
				c.getToken()
				c.emit(token.Literal(types.NewStr(strings.ToLower(a.Text))))
			default:
				if err := c.clauseOr(); err != nil {
					return err
				}
			}
			argc++
		}
		return nil
	})
	if err != nil {
		return err
	}
	c.emit(&token.Token{Tok: t.Tok, Int: argc, Text: t.Text})
	return nil
}

// search("pattern" [, atoms]) and smiles("pattern" [, atoms])
func (c *compiler) search(t *token.Token) error {
	if _, err := c.expect(token.TokLeftParen); err != nil {
		return err
	}
	argc := 1
	err := c.clauseScope(func() error {
		switch a := c.peek(); {
		case a != nil && a.Tok == token.TokString:
			c.getToken()
			c.emit(a)
		case a != nil && a.Tok == token.TokAt:
			c.getToken()
			if err := c.define(false); err != nil {
				return err
			}
		default:
			return types.NewError(types.E_TOKEN_EXPECTED, "string")
		}
		if c.getTokenIf(token.TokComma) {
			if err := c.clauseOr(); err != nil {
				return err
			}
			argc++
		}
		_, err := c.expect(token.TokRightParen)
		return err
	})
	if err != nil {
		return err
	}
	c.emit(&token.Token{Tok: t.Tok, Int: argc, Text: t.Text})
	return nil
}
