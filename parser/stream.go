package parser

import (
	"molscript/token"
	"molscript/types"
)

// stream is the cursor over a statement's tokens. theToken is the last
// token consumed; returnToken pushes exactly that one back.
type stream struct {
	toks       []*token.Token
	pos        int
	theToken   *token.Token
	pushedBack bool
}

func (s *stream) more() bool {
	return s.pos < len(s.toks)
}

// peek returns the next token without consuming it, or nil at the end
func (s *stream) peek() *token.Token {
	return s.peekAt(0)
}

func (s *stream) peekAt(n int) *token.Token {
	if s.pos+n < len(s.toks) && s.pos+n >= 0 {
		return s.toks[s.pos+n]
	}
	return nil
}

// tokPeek returns the code of the next token, TokNada at the end
func (s *stream) tokPeek() token.Tok {
	return s.tokAt(0)
}

func (s *stream) tokAt(n int) token.Tok {
	if t := s.peekAt(n); t != nil {
		return t.Tok
	}
	return token.TokNada
}

func (s *stream) tokPeekIs(t token.Tok) bool {
	return s.tokPeek() == t
}

// getToken consumes the next token; running off the end is an
// end-of-command error
func (s *stream) getToken() (*token.Token, error) {
	if !s.more() {
		return nil, types.NewError(types.E_END_OF_COMMAND, "")
	}
	s.theToken = s.toks[s.pos]
	s.pos++
	s.pushedBack = false
	return s.theToken, nil
}

// returnToken undoes the last getToken. Only one token of pushback
// exists; a second call without an intervening getToken is a bug.
func (s *stream) returnToken() {
	if s.pushedBack {
		panic("parser: returnToken called twice")
	}
	s.pos--
	s.pushedBack = true
}

// getTokenIf consumes the next token when it has code t
func (s *stream) getTokenIf(t token.Tok) bool {
	if s.tokPeekIs(t) {
		s.getToken()
		return true
	}
	return false
}

// expect consumes a token of code t or fails with "X expected"
func (s *stream) expect(t token.Tok) (*token.Token, error) {
	if !s.more() {
		return nil, types.NewError(types.E_TOKEN_EXPECTED, t.String())
	}
	if !s.tokPeekIs(t) {
		return nil, types.NewError(types.E_TOKEN_EXPECTED, t.String())
	}
	return s.getToken()
}

// splitNegative rewrites a lexed negative number at the cursor into a
// minus operator followed by the positive number
func (s *stream) splitNegative() {
	t := s.toks[s.pos]
	var pos *token.Token
	switch v := t.Literal().(type) {
	case types.IntValue:
		pos = token.Literal(types.NewInt(-v.Val))
	case types.FloatValue:
		pos = token.Literal(types.NewFloat(-v.Val))
	default:
		return
	}
	pos.Text = t.Text[1:]
	rest := append([]*token.Token{token.New(token.TokOpMinus, "-"), pos}, s.toks[s.pos+1:]...)
	s.toks = append(s.toks[:s.pos:s.pos], rest...)
}

// isNegativeNumber reports a numeric literal lexed with its sign
func isNegativeNumber(t *token.Token) bool {
	if t == nil || (t.Tok != token.TokInteger && t.Tok != token.TokDecimal) {
		return false
	}
	return len(t.Text) > 1 && t.Text[0] == '-'
}

// isWord reports tokens that can serve as a name: identifiers and keywords
// spelled as words
func isWord(t *token.Token) bool {
	if t == nil {
		return false
	}
	if t.Tok == token.TokIdentifier {
		return true
	}
	if t.Tok.IsLiteral() || t.Text == "" {
		return false
	}
	c := t.Text[0]
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
