package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molscript/token"
	"molscript/types"
)

func compileMath(t *testing.T, src string) token.Program {
	t.Helper()
	toks, err := Lex(src)
	require.NoError(t, err)
	prog, err := CompileExpression(toks)
	require.NoError(t, err, src)
	return prog
}

func compileAtoms(t *testing.T, src string) token.Program {
	t.Helper()
	toks, err := Lex(src)
	require.NoError(t, err)
	prog, err := CompileAtomExpression(toks)
	require.NoError(t, err, src)
	return prog
}

func TestCompileMath(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "1 2 3 * +"},
		{"(1 + 2) * 3", "1 2 + 3 *"},
		{"2 ** 3 ** 2", "2 3 2 ** **"},
		{"-a.x", "a .x -/1"},
		{"n -1", "n 1 -"},
		{"7 \\ 2 % 3", "7 2 \\ 3 %"},
		{"not a and b", "a not b and"},
		{"a == 1 or b < 2", "a 1 == b 2 < or"},
		{"a ? b : c", "a if(b; c)"},
		{"if(a; 1; 2)", "a if(1; 2)"},
		{"[1, 2, 3]", "[/begin 1 2 3 ]/end"},
		{"[]", "[/begin ]/end"},
		{`{"a": 1, "b": [2]}`, `{/hash "a" 1 "b" [/begin 2 ]/end }/hash`},
		{"{}", "{/hash }/hash"},
		{"sqrt(2) + max(1, 2)", "2 sqrt/1 1 2 max/2 +"},
		{"a[2][3]", "a 2 3 [][]"},
		{"a[1].size()", "a 1 [] size/0"},
		{"@{1+2}", "1 2 + @{}"},
		{"@v[2]", "@v 2 []"},
		{"n++", "n ++"},
		{"s like \"C*\"", `s "C*" like`},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, compileMath(t, tt.src).String())
		})
	}
}

func TestCompileCoordinates(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"{1 2 3}", "{1.0 2.0 3.0}"},
		{"{1, 2, 3}", "{1.0 2.0 3.0}"},
		{"{1 -2 3}", "{1.0 -2.0 3.0}"},
		{"{0 0 1 -2}", "{0.0 0.0 1.0 -2.0}"},
		{"{a b c}", "{/point a b c }/point"},
		{"{1 n+1 3}", "{/point 1 n 1 + 3 }/point"},
		{"{carbon}", "carbon"},
		{"{*}.x.min", "all .x.min"},
		{"{1.1}", "spec_model2=1.1"},
		{"within(5.0, {1 2 3})", "5.0 {1.0 2.0 3.0} within/2"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, compileMath(t, tt.src).String())
		})
	}
}

func TestCompileAtomExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"", "all"},
		{"*", "all"},
		{"carbon, nitrogen", "carbon nitrogen or"},
		{"not (carbon or nitrogen) and selected", "carbon nitrogen or not selected and"},
		{"atomno < 5", "atomno<5"},
		{"atomno=-3", "atomno=-3"},
		{`chain = A`, `chain="A"`},
		{"temperature > n", "n temperature>"},
		{"ALA23:A.CA", "spec_name=ALA spec_seqcode=23 and spec_chain=A and spec_atom=CA and"},
		{"[ALA]", "spec_name=ALA"},
		{"10-20", "spec_seqcode_range=10-20"},
		{"10 -20", "spec_seqcode_range=10-20"},
		{"*:B", "spec_chain=B"},
		{"*.C*", "spec_atom=C*"},
		{"*%A", "spec_alternate=A"},
		{"*/2", "spec_model=2"},
		{"1.2", "spec_model2=1.2"},
		{"water", "water"},
		{"HOH:A", "spec_name=HOH spec_chain=A and"},
		{"cell=555", "cell={1.0 1.0 1.0}"},
		{"cell={1 1 2}", "cell={1.0 1.0 2.0}"},
		{"within(5.0, {1 2 3})", "5.0 {1.0 2.0 3.0} within/2"},
		{"within(group, carbon)", `"group" carbon within/2`},
		{"within(branch, {atomno=1}, {atomno=2})", `"branch" atomno=1 atomno=2 within/3`},
		{"within(coord, {0 0 0})", `"coord" {0.0 0.0 0.0} within/2`},
		{"within(HKL, {1 0 0})", `"hkl" {1.0 0.0 0.0} within/2`},
		{`within(atomtype, "C.3")`, `"atomtype" "C.3" within/2`},
		{"contact({carbon})", "100.0 carbon contact/2"},
		{"connected(2, carbon)", "2 carbon connected/2"},
		{"connected", "connected/0"},
		{`search("CC", *:A)`, `"CC" spec_chain=A search/2`},
		{"@s and ({0 2})", "@s ({0 2}) and"},
		{"(carbon)[2]", "carbon 2 []"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, compileAtoms(t, tt.src).String())
		})
	}
}

func TestCompileComparatorNegation(t *testing.T) {
	prog := compileAtoms(t, "atomno > - 3")
	require.Len(t, prog, 1)
	cmp := prog[0]
	assert.Equal(t, token.TokComparator, cmp.Tok)
	assert.True(t, cmp.Has(token.FlagNegate))
	assert.Equal(t, ">-", cmp.Text)
	assert.Equal(t, types.NewInt(3), cmp.Value)

	prog = compileAtoms(t, "atomno > -3")
	assert.False(t, prog[0].Has(token.FlagNegate))
	assert.Equal(t, types.NewInt(-3), prog[0].Value)
}

func TestCompileModelNumbers(t *testing.T) {
	assert.Equal(t, 2000001, compileAtoms(t, "2.1")[0].Int)
	assert.Equal(t, 2000010, compileAtoms(t, "2.10")[0].Int)
}

func TestCompileMetaExpressions(t *testing.T) {
	prog := compileMath(t, "select(x; {*}; x.atomno < 3)")
	require.Len(t, prog, 1)
	m := prog[0].Value.(*token.Meta)
	assert.Equal(t, token.TokSelect, m.Kind)
	assert.Equal(t, "x", m.Var)
	assert.Equal(t, []string{"x"}, m.Locals)
	assert.Equal(t, "all", m.Set.String())
	assert.Equal(t, "x .atomno 3 <", m.Expr.String())

	prog = compileMath(t, "for(v; [1,2]; v*2)")
	m = prog[0].Value.(*token.Meta)
	assert.Equal(t, token.TokFor, m.Kind)
	assert.Equal(t, "v 2 *", m.Expr.String())
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		src  string
		atom bool
		kind types.ErrorKind
	}{
		{"1 +", false, types.E_END_OF_COMMAND},
		{"(1", false, types.E_TOKEN_EXPECTED},
		{"[1, 2", false, types.E_TOKEN_EXPECTED},
		{"1 )", false, types.E_UNRECOGNIZED_TOKEN},
		{"chain < A", true, types.E_INVALID_ATOM_SPEC},
		{"atomno < )", true, types.E_NUMBER_OR_VARIABLE_EXPECTED},
		{"*:(", true, types.E_INVALID_CHAIN_SPEC},
		{"*/x", true, types.E_INVALID_MODEL_SPEC},
		{")", true, types.E_RESIDUE_SPEC_EXPECTED},
		{"connected(1, 2, 3)", true, types.E_BAD_ARGUMENT_COUNT},
		{"cell=x", true, types.E_NUMBER_EXPECTED},
		{"within(carbon, {1 2 3})", true, types.E_INVALID_ARGUMENT},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			toks, err := Lex(tt.src)
			require.NoError(t, err)
			if tt.atom {
				_, err = CompileAtomExpression(toks)
			} else {
				_, err = CompileExpression(toks)
			}
			assert.Equal(t, tt.kind, types.KindOf(err), "%v", err)
		})
	}
}

func TestCompileSuggestsClause(t *testing.T) {
	toks, err := Lex("withn(5, carbon)")
	require.NoError(t, err)
	_, err = CompileAtomExpression(toks)
	var se *types.ScriptError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, types.E_UNRECOGNIZED_TOKEN, se.Kind)
	assert.Equal(t, "within", se.Suggestion)
}

func TestCompileSuggestsWithinKind(t *testing.T) {
	toks, err := Lex("within(grop, carbon)")
	require.NoError(t, err)
	_, err = CompileAtomExpression(toks)
	var se *types.ScriptError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, types.E_INVALID_ARGUMENT, se.Kind)
	assert.Equal(t, "group", se.Suggestion)
}

func TestReturnTokenOnce(t *testing.T) {
	s := &stream{toks: []*token.Token{token.New(token.TokComma, ",")}}
	_, err := s.getToken()
	require.NoError(t, err)
	s.returnToken()
	assert.Panics(t, func() { s.returnToken() })
}
