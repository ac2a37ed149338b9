package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molscript/token"
	"molscript/types"
)

func compileStmt(t *testing.T, src string) *Statement {
	t.Helper()
	toks, err := Lex(src)
	require.NoError(t, err)
	st, err := CompileStatement(toks)
	require.NoError(t, err, src)
	return st
}

func TestCompileStatementKinds(t *testing.T) {
	tests := []struct {
		src  string
		kind Kind
		expr string
	}{
		{"select carbon", StmtSelect, "carbon"},
		{"select", StmtSelect, "all"},
		{"print 1+1", StmtPrint, "1 1 +"},
		{"select(x; {*}; true)", StmtExpression, ""},
		{"1 + 2", StmtExpression, "1 2 +"},
		{"sqrt(4)", StmtExpression, "4 sqrt/1"},
		{"n.size", StmtExpression, "n .size"},
		{"set caseSensitiveChains true", StmtAssign, "true"},
		{"var n = 3", StmtAssign, "3"},
		{"n += 2", StmtAssign, "2"},
		{"n++", StmtIncrement, ""},
		{"load @f", StmtCommand, ""},
		{"zoom", StmtCommand, ""},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			st := compileStmt(t, tt.src)
			assert.Equal(t, tt.kind, st.Kind)
			if tt.expr != "" {
				assert.Equal(t, tt.expr, st.Expr.String())
			}
		})
	}
}

func TestCompileAssignmentTarget(t *testing.T) {
	st := compileStmt(t, `x[5] = "z"`)
	assert.Equal(t, StmtAssign, st.Kind)
	assert.Equal(t, "x", st.Var)
	require.Len(t, st.Target, 3)
	assert.True(t, st.Target[2].Has(token.FlagAssignStep))
	assert.Equal(t, `"z"`, st.Expr.String())

	st = compileStmt(t, "a[b[c]] = 1")
	assert.Equal(t, "a b c [] []", st.Target.String())
	assert.False(t, st.Target[3].Has(token.FlagAssignStep))
	assert.True(t, st.Target[4].Has(token.FlagAssignStep))

	st = compileStmt(t, "h.key = 2")
	assert.Equal(t, "h .key", st.Target.String())
	assert.True(t, st.Target[1].Has(token.FlagAssignStep))

	st = compileStmt(t, "m[2][3] = 0")
	assert.Equal(t, 2, st.Target[3].Int)
}

func TestCompileStatementDetails(t *testing.T) {
	st := compileStmt(t, "var n = 3")
	assert.True(t, st.Local)

	st = compileStmt(t, "n *= 2")
	assert.Equal(t, token.TokOpMul, st.Op)

	st = compileStmt(t, "n--")
	assert.Equal(t, token.TokOpMinusMinus, st.Op)
	assert.Equal(t, "n", st.Var)

	st = compileStmt(t, "load @f")
	assert.Equal(t, "load", st.Name)
	assert.Len(t, st.Args, 2)
	assert.True(t, IsFileCommand(st.Name))
}

func TestCompileStatementErrors(t *testing.T) {
	tests := []struct {
		src  string
		kind types.ErrorKind
	}{
		{"+ 1", types.E_COMMAND_EXPECTED},
		{"set n", types.E_TOKEN_EXPECTED},
		{"n = ", types.E_END_OF_COMMAND},
		{"select atomno <", types.E_NUMBER_OR_VARIABLE_EXPECTED},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			toks, err := Lex(tt.src)
			require.NoError(t, err)
			_, err = CompileStatement(toks)
			assert.Equal(t, tt.kind, types.KindOf(err), "%v", err)
		})
	}
}

func TestCompileScript(t *testing.T) {
	stmts, err := CompileScript("n = 1; n++; print n")
	require.NoError(t, err)
	require.Len(t, stmts, 3)
	assert.Equal(t, StmtPrint, stmts[2].Kind)
}
