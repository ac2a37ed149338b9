package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/bits-and-blooms/bitset"

	"molscript/token"
	"molscript/types"
)

// Lexer tokenizes script source. It is the default producer of the token
// stream the compiler consumes; any other tokenizer may stand in for it.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	prev         *token.Token
	spaced       bool // whitespace preceded the current token
}

// NewLexer creates a new Lexer instance
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// Lex tokenizes one statement
func Lex(input string) ([]*token.Token, error) {
	l := NewLexer(input)
	var out []*token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return out, nil
		}
		out = append(out, tok)
	}
}

// LexStatements tokenizes a script and splits it at top-level semicolons
func LexStatements(input string) ([][]*token.Token, error) {
	toks, err := Lex(input)
	if err != nil {
		return nil, err
	}
	return SplitStatements(toks), nil
}

// SplitStatements cuts a token list at semicolons that are not nested in
// parentheses, brackets or braces. Empty statements are dropped.
func SplitStatements(toks []*token.Token) [][]*token.Token {
	var out [][]*token.Token
	depth, start := 0, 0
	for i, t := range toks {
		switch t.Tok {
		case token.TokLeftParen, token.TokLeftBracket, token.TokLeftBrace:
			depth++
		case token.TokRightParen, token.TokRightBracket, token.TokRightBrace:
			depth--
		case token.TokSemicolon:
			if depth == 0 {
				if i > start {
					out = append(out, toks[start:i])
				}
				start = i + 1
			}
		}
	}
	if start < len(toks) {
		out = append(out, toks[start:])
	}
	return out
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// peekChar returns the next character without advancing
func (l *Lexer) peekChar() byte {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(n int) byte {
	if l.readPosition+n >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition+n]
}

// skipWhitespace skips blanks and comments (# or // to end of line,
// /* ... */)
func (l *Lexer) skipWhitespace() {
	l.spaced = false
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '#', l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for l.ch != 0 && !(l.ch == '*' && l.peekChar() == '/') {
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar()
				l.readChar()
			}
		default:
			return
		}
		l.spaced = true
	}
}

// NextToken returns the next token, or nil at end of input
func (l *Lexer) NextToken() (*token.Token, error) {
	l.skipWhitespace()
	tok, err := l.scan()
	if tok != nil {
		l.prev = tok
	}
	return tok, err
}

func (l *Lexer) scan() (*token.Token, error) {
	ch := l.ch
	switch {
	case ch == 0:
		return nil, nil
	case ch == '"' || ch == '\'':
		return l.readString(ch)
	case isDigit(ch), ch == '.' && isDigit(l.peekChar()) && !l.afterOperand():
		return l.readNumber(), nil
	case ch == '-' && l.startsNumber(1) && !l.afterOperand():
		return l.readNumber(), nil
	case isLetter(ch):
		return l.readWord(), nil
	case ch == '(' && l.peekChar() == '{' && !l.afterName():
		if tok := l.readBitSet(')', types.NewBitSet); tok != nil {
			return tok, nil
		}
	case ch == '[' && l.peekChar() == '{' && !l.afterOperand():
		if tok := l.readBitSet(']', types.NewBondSet); tok != nil {
			return tok, nil
		}
	}
	return l.readOperator()
}

// startsNumber reports whether a number begins n characters ahead
func (l *Lexer) startsNumber(n int) bool {
	c := l.peekAt(n - 1)
	return isDigit(c) || c == '.' && isDigit(l.peekAt(n))
}

// afterOperand reports whether the previous token ends a value, so a
// following '.' is a property selector rather than a decimal point
func (l *Lexer) afterOperand() bool {
	if l.prev == nil || l.spaced {
		return false
	}
	switch l.prev.Tok {
	case token.TokRightParen, token.TokRightBracket, token.TokRightBrace, token.TokIdentifier:
		return true
	}
	return l.prev.Tok.IsLiteral() || l.prev.Tok >= token.TokSelect
}

// afterName reports a name directly before the current character, so a
// following '(' opens an argument list: distance({0 0 0})
func (l *Lexer) afterName() bool {
	return l.prev != nil && !l.spaced && isWord(l.prev)
}

func (l *Lexer) readOperator() (*token.Token, error) {
	two := string(l.ch) + string(l.peekChar())
	ops2 := map[string]token.Tok{
		"**": token.TokOpPow,
		"==": token.TokOpEQ,
		"!=": token.TokOpNE,
		"<>": token.TokOpNE,
		"<=": token.TokOpLE,
		">=": token.TokOpGE,
		"&&": token.TokOpAnd,
		"||": token.TokOpOr,
		"++": token.TokOpPlusPlus,
		"--": token.TokOpMinusMinus,
	}
	if t, ok := ops2[two]; ok {
		l.readChar()
		l.readChar()
		return token.New(t, two), nil
	}
	if l.peekChar() == '=' {
		switch l.ch {
		case '+', '-', '*', '/':
			op := map[byte]token.Tok{'+': token.TokOpPlus, '-': token.TokOpMinus, '*': token.TokOpMul, '/': token.TokOpDiv}[l.ch]
			l.readChar()
			l.readChar()
			return &token.Token{Tok: token.TokCompoundAssign, Op: op, Text: two}, nil
		}
	}
	ops1 := map[byte]token.Tok{
		'+':  token.TokOpPlus,
		'-':  token.TokOpMinus,
		'*':  token.TokOpMul,
		'/':  token.TokOpDiv,
		'\\': token.TokOpIntDiv,
		'%':  token.TokOpMod,
		'=':  token.TokOpEQ,
		'<':  token.TokOpLT,
		'>':  token.TokOpGT,
		'&':  token.TokOpAnd,
		'|':  token.TokOpOr,
		'!':  token.TokOpNot,
		'(':  token.TokLeftParen,
		')':  token.TokRightParen,
		'[':  token.TokLeftBracket,
		']':  token.TokRightBracket,
		'{':  token.TokLeftBrace,
		'}':  token.TokRightBrace,
		',':  token.TokComma,
		';':  token.TokSemicolon,
		':':  token.TokColon,
		'.':  token.TokPeriod,
		'@':  token.TokAt,
		'?':  token.TokQuestion,
	}
	ch := l.ch
	t, ok := ops1[ch]
	if !ok {
		return nil, types.NewError(types.E_UNRECOGNIZED_TOKEN, string(ch))
	}
	l.readChar()
	return token.New(t, string(ch)), nil
}

// readString reads a quoted literal with escape sequences
func (l *Lexer) readString(quote byte) (*token.Token, error) {
	l.readChar() // skip opening quote
	var result []byte
	for l.ch != quote {
		if l.ch == 0 {
			return nil, types.NewError(types.E_END_OF_COMMAND, "unterminated string")
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				result = append(result, '\n')
			case 't':
				result = append(result, '\t')
			case 'r':
				result = append(result, '\r')
			case '"', '\'', '\\':
				result = append(result, l.ch)
			case 0:
				return nil, types.NewError(types.E_END_OF_COMMAND, "unterminated string")
			default:
				result = append(result, '\\', l.ch)
			}
			l.readChar()
			continue
		}
		result = append(result, l.ch)
		l.readChar()
	}
	l.readChar() // skip closing quote
	return token.Literal(types.NewStr(string(result))), nil
}

// readNumber reads an integer or decimal. A '.' followed by a letter ends
// the number, so 23.CA lexes as 23 . CA. A leading '-' is part of the
// number only where no operand precedes it, or after whitespace: {1 -2 3}.
func (l *Lexer) readNumber() *token.Token {
	start := l.position
	isDecimal := false
	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		isDecimal = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if (l.ch == 'e' || l.ch == 'E') && (isDigit(l.peekChar()) ||
		(l.peekChar() == '-' || l.peekChar() == '+') && isDigit(l.peekAt(1))) {
		isDecimal = true
		l.readChar()
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	text := l.input[start:l.position]
	if !isDecimal {
		if n, err := strconv.Atoi(text); err == nil {
			tok := token.Literal(types.NewInt(n))
			tok.Text = text
			return tok
		}
	}
	f, _ := strconv.ParseFloat(text, 64)
	tok := token.Literal(types.NewFloat(f))
	tok.Text = text
	return tok
}

// readWord reads an identifier or keyword. Names may contain digits, '_',
// '?' wildcards and a trailing prime, and may end in a '*' wildcard when
// nothing operand-like follows.
func (l *Lexer) readWord() *token.Token {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '?' || l.ch == '\'' {
		l.readChar()
	}
	if l.ch == '*' && endsWord(l.peekChar()) {
		l.readChar()
	}
	word := l.input[start:l.position]
	if strings.ContainsAny(word, "?*'") {
		return token.New(token.TokIdentifier, word)
	}
	if t, ok := token.Lookup(word); ok {
		switch t {
		case token.TokTrue:
			tok := token.Literal(types.True)
			tok.Text = word
			return tok
		case token.TokFalse:
			tok := token.Literal(types.False)
			tok.Text = word
			return tok
		}
		return token.New(t, word)
	}
	return token.New(token.TokIdentifier, word)
}

func endsWord(ch byte) bool {
	switch ch {
	case 0, ' ', '\t', '\n', '\r', ')', '}', ']', ',', ':', '.', '%', '/', ';':
		return true
	}
	return false
}

// readBitSet reads an escaped atom set such as ({0 2:5}) or, with closer
// ']', a bond set [{0 2:5}]; it returns nil, consuming nothing, if the
// text is not one
func (l *Lexer) readBitSet(closer byte, wrap func(*bitset.BitSet) types.BitSetValue) *token.Token {
	end := strings.IndexByte(l.input[l.position:], '}')
	if end < 0 || l.position+end+1 >= len(l.input) || l.input[l.position+end+1] != closer {
		return nil
	}
	body := l.input[l.position+2 : l.position+end]
	bs, ok := types.ParseBitSet(body)
	if !ok {
		return nil
	}
	for i := 0; i < end+2; i++ {
		l.readChar()
	}
	return token.Literal(wrap(bs))
}

// isLetter returns true if the character is a letter or underscore
func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

// isDigit returns true if the character is a digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
