package parser

import (
	"testing"

	"molscript/token"
	"molscript/types"
)

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Tok
		texts []string
	}{
		{"42", []token.Tok{token.TokInteger}, []string{"42"}},
		{"42 -17 0", []token.Tok{token.TokInteger, token.TokInteger, token.TokInteger}, []string{"42", "-17", "0"}},
		{"3-2", []token.Tok{token.TokInteger, token.TokOpMinus, token.TokInteger}, []string{"3", "-", "2"}},
		{"1.5e3", []token.Tok{token.TokDecimal}, []string{"1.5e3"}},
		{".5", []token.Tok{token.TokDecimal}, []string{".5"}},
		{"23.CA", []token.Tok{token.TokInteger, token.TokPeriod, token.TokIdentifier}, []string{"23", ".", "CA"}},
		{"{1 -2 3}", []token.Tok{token.TokLeftBrace, token.TokInteger, token.TokInteger, token.TokInteger, token.TokRightBrace}, []string{"{", "1", "-2", "3", "}"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex(%q) error: %v", tt.input, err)
			}
			if len(toks) != len(tt.want) {
				t.Fatalf("Lex(%q) = %d tokens, want %d", tt.input, len(toks), len(tt.want))
			}
			for i, tok := range toks {
				if tok.Tok != tt.want[i] {
					t.Errorf("token[%d] = %s, want %s", i, tok.Tok, tt.want[i])
				}
				if tok.Text != tt.texts[i] {
					t.Errorf("token[%d] text = %q, want %q", i, tok.Text, tt.texts[i])
				}
			}
		})
	}
}

func TestLexerWords(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Tok
	}{
		{"select atomno", []token.Tok{token.TokSelect, token.TokAtomNo}},
		{"SELECT Within", []token.Tok{token.TokSelect, token.TokWithin}},
		{"C5' C* AL?", []token.Tok{token.TokIdentifier, token.TokIdentifier, token.TokIdentifier}},
		{"a*b", []token.Tok{token.TokIdentifier, token.TokOpMul, token.TokIdentifier}},
		{"true false", []token.Tok{token.TokBoolean, token.TokBoolean}},
		{"n += 1", []token.Tok{token.TokIdentifier, token.TokCompoundAssign, token.TokInteger}},
		{"a <> b", []token.Tok{token.TokIdentifier, token.TokOpNE, token.TokIdentifier}},
		{"a && !b", []token.Tok{token.TokIdentifier, token.TokOpAnd, token.TokOpNot, token.TokIdentifier}},
		{"1 # comment", []token.Tok{token.TokInteger}},
		{"1 /* c */ 2 // d", []token.Tok{token.TokInteger, token.TokInteger}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex(%q) error: %v", tt.input, err)
			}
			if len(toks) != len(tt.want) {
				t.Fatalf("Lex(%q) = %d tokens, want %d", tt.input, len(toks), len(tt.want))
			}
			for i, tok := range toks {
				if tok.Tok != tt.want[i] {
					t.Errorf("token[%d] = %s, want %s", i, tok.Tok, tt.want[i])
				}
			}
		})
	}
}

func TestLexerCompoundOperator(t *testing.T) {
	toks, err := Lex("n -= 2")
	if err != nil {
		t.Fatal(err)
	}
	if toks[1].Op != token.TokOpMinus {
		t.Errorf("compound op = %s, want -", toks[1].Op)
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello"`, "hello"},
		{`'it'`, "it"},
		{`"a\"b"`, `a"b`},
		{`"tab\there"`, "tab\there"},
	}
	for _, tt := range tests {
		toks, err := Lex(tt.input)
		if err != nil {
			t.Fatalf("Lex(%q) error: %v", tt.input, err)
		}
		if got := types.AsString(toks[0].Literal()); got != tt.want {
			t.Errorf("Lex(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLexerBitSet(t *testing.T) {
	toks, err := Lex("({0 2:5}) or x")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Tok != token.TokBitset {
		t.Fatalf("token[0] = %s, want bitset", toks[0].Tok)
	}
	bs := toks[0].Literal().(types.BitSetValue)
	if bs.Cardinality() != 5 {
		t.Errorf("cardinality = %d, want 5", bs.Cardinality())
	}
	if toks[1].Tok != token.TokOpOr {
		t.Errorf("token[1] = %s, want or", toks[1].Tok)
	}
}

func TestLexerCallArgumentIsNotBitSet(t *testing.T) {
	toks, err := Lex("{atomno=3}.distance({0 0 0})")
	if err != nil {
		t.Fatal(err)
	}
	if toks[7].Tok != token.TokLeftParen || toks[8].Tok != token.TokLeftBrace {
		t.Fatalf("tokens after distance = %s %s, want ( {", toks[7].Tok, toks[8].Tok)
	}

	toks, err = Lex("select ({0 2})")
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 2 || toks[1].Tok != token.TokBitset {
		t.Fatalf("select ({0 2}) lexed as %v", toks)
	}
}

func TestLexerBondSet(t *testing.T) {
	toks, err := Lex("[{0 2:3}].length")
	if err != nil {
		t.Fatal(err)
	}
	bs, ok := toks[0].Literal().(types.BitSetValue)
	if !ok || !bs.Bond {
		t.Fatalf("token[0] = %v, want a bond set", toks[0])
	}
	if bs.Cardinality() != 3 {
		t.Errorf("cardinality = %d, want 3", bs.Cardinality())
	}
	if toks[1].Tok != token.TokPeriod {
		t.Errorf("token[1] = %s, want .", toks[1].Tok)
	}

	toks, err = Lex("[{1.5 2 3}]")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Tok != token.TokLeftBracket {
		t.Errorf("[{1.5 2 3}] starts with %s, want [", toks[0].Tok)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  types.ErrorKind
	}{
		{`"abc`, types.E_END_OF_COMMAND},
		{"a $ b", types.E_UNRECOGNIZED_TOKEN},
	}
	for _, tt := range tests {
		_, err := Lex(tt.input)
		if types.KindOf(err) != tt.kind {
			t.Errorf("Lex(%q) error = %v, want %s", tt.input, err, tt.kind)
		}
	}
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"a = 1; b = 2", 2},
		{"a = 1;; b = 2;", 2},
		{"print select(x; {*}; x.atomno < 3)", 1},
		{"", 0},
	}
	for _, tt := range tests {
		got, err := LexStatements(tt.input)
		if err != nil {
			t.Fatalf("LexStatements(%q) error: %v", tt.input, err)
		}
		if len(got) != tt.want {
			t.Errorf("LexStatements(%q) = %d statements, want %d", tt.input, len(got), tt.want)
		}
	}
}
