package script_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"molscript/model"
	"molscript/script"
	"molscript/token"
	"molscript/types"
)

const fourAtoms = `
atoms:
  - {name: CA, element: C, group: ALA, resno: 1, chain: A, xyz: [0, 0, 0], temperature: 1}
  - {name: CB, element: C, group: ALA, resno: 2, chain: A, xyz: [1.5, 0, 0], temperature: 2}
  - {name: N, element: N, group: GLY, resno: 3, chain: B, xyz: [3, 0, 0], temperature: 3}
  - {name: O, element: O, group: HOH, resno: 4, chain: B, xyz: [10, 0, 0], temperature: 4}
bonds:
  - {a: 0, b: 1}
  - {a: 1, b: 2, order: double}
`

func newEngine(t *testing.T, opts ...script.Option) (*script.Engine, *model.Store, *bytes.Buffer) {
	t.Helper()
	store, err := model.Parse([]byte(fourAtoms))
	require.NoError(t, err)
	out := &bytes.Buffer{}
	e, err := script.New(store, append([]script.Option{script.WithOutput(out)}, opts...)...)
	require.NoError(t, err)
	return e, store, out
}

func run(t *testing.T, e *script.Engine, src string) []types.Value {
	t.Helper()
	vals, err := e.Run(context.Background(), src)
	require.NoError(t, err, src)
	return vals
}

func get(t *testing.T, e *script.Engine, name string) types.Value {
	t.Helper()
	v, ok := e.Get(name)
	require.True(t, ok, name)
	return v
}

func TestRunStatements(t *testing.T) {
	e, _, out := newEngine(t)
	vals := run(t, e, "n = 1; n++; n += 2; print n; n * 10")
	assert.Equal(t, "4\n", out.String())
	require.Len(t, vals, 1)
	assert.Equal(t, types.NewInt(40), vals[0])

	run(t, e, "n--; n *= 3")
	assert.Equal(t, types.NewInt(9), get(t, e, "n"))

	run(t, e, `s = "a"; s += "b"`)
	assert.Equal(t, types.NewStr("ab"), get(t, e, "s"))
}

func TestPrint(t *testing.T) {
	e, _, out := newEngine(t)
	run(t, e, `print "hi"; print 1 + 1; print`)
	assert.Equal(t, "hi\n2\n\n", out.String())
}

func TestListAssignmentPads(t *testing.T) {
	e, _, _ := newEngine(t)
	run(t, e, `x = [1, 2]; x[5] = "z"`)
	l, ok := get(t, e, "x").(*types.ListValue)
	require.True(t, ok)
	assert.Equal(t, 5, l.Len())
	assert.Equal(t, types.EmptyStr, l.Get(3))
	assert.Equal(t, types.NewStr("z"), l.Get(5))

	run(t, e, "x[0] = 7; x[1] += 10")
	assert.Equal(t, types.NewInt(7), l.Get(5))
	assert.Equal(t, types.NewInt(11), l.Get(1))

	run(t, e, "y[2] = 1")
	y := get(t, e, "y").(*types.ListValue)
	assert.Equal(t, 2, y.Len())
}

func TestNestedListAssignment(t *testing.T) {
	e, _, _ := newEngine(t)
	run(t, e, "g = [[1, 2], [3, 4]]; g[2][1] = 30")
	g := get(t, e, "g").(*types.ListValue)
	inner := g.Get(2).(*types.ListValue)
	assert.Equal(t, types.NewInt(30), inner.Get(1))
	assert.Equal(t, types.NewInt(4), inner.Get(2))
}

func TestStringAssignmentPads(t *testing.T) {
	e, _, _ := newEngine(t)
	run(t, e, `s = "ab"; s[4] = "d"`)
	assert.Equal(t, types.NewStr("ab d"), get(t, e, "s"))
	run(t, e, `s[1] = "X"`)
	assert.Equal(t, types.NewStr("Xb d"), get(t, e, "s"))
}

func TestRangeAssignment(t *testing.T) {
	e, _, _ := newEngine(t)
	run(t, e, `s = "abcdef"; s[2][3] = "Z"`)
	assert.Equal(t, types.NewStr("aZdef"), get(t, e, "s"))
	run(t, e, `s[7][9] = "!"`)
	assert.Equal(t, types.NewStr("aZdef !"), get(t, e, "s"))

	run(t, e, `x = [1, 2, 3, 4]; x[2][3] = "x"`)
	assert.Equal(t, []types.Value{types.NewInt(1), types.NewStr("x"), types.NewInt(4)},
		get(t, e, "x").(*types.ListValue).Elements())

	run(t, e, "y = [1, 2, 3]; y[2][2] = [7, 8]")
	assert.Equal(t, []types.Value{types.NewInt(1), types.NewInt(7), types.NewInt(8), types.NewInt(3)},
		get(t, e, "y").(*types.ListValue).Elements())
}

func TestIndexBeforeStartIsFirstItem(t *testing.T) {
	e, _, _ := newEngine(t)
	run(t, e, "x = [1, 2, 3]; x[-5] = 9")
	assert.Equal(t, []types.Value{types.NewInt(9), types.NewInt(2), types.NewInt(3)},
		get(t, e, "x").(*types.ListValue).Elements())

	run(t, e, `s = "abc"; s[-7] = "Z"`)
	assert.Equal(t, types.NewStr("Zbc"), get(t, e, "s"))
}

func TestIndexedIndexAssignment(t *testing.T) {
	e, _, _ := newEngine(t)
	run(t, e, "arr = [1, 2, 3]; ptr = [5, 2]; n = 2; arr[ptr[n]] = 9")
	assert.Equal(t, []types.Value{types.NewInt(1), types.NewInt(9), types.NewInt(3)},
		get(t, e, "arr").(*types.ListValue).Elements())

	run(t, e, `m = {"k": [0, 0]}; picks = ["k"]; m[picks[1]][2] = 4`)
	inner, ok := get(t, e, "m").(*types.MapValue).Get("k")
	require.True(t, ok)
	assert.Equal(t, types.NewInt(4), inner.(*types.ListValue).Get(2))
}

func TestMapAssignment(t *testing.T) {
	e, _, _ := newEngine(t)
	run(t, e, `m = {"a": 1}; m.b = 2; m["c"] = 3; m.d.e = 4`)
	m := get(t, e, "m").(*types.MapValue)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, m.Keys())
	d, ok := m.Get("d")
	require.True(t, ok)
	e4, ok := d.(*types.MapValue).Get("e")
	require.True(t, ok)
	assert.Equal(t, types.NewInt(4), e4)

	run(t, e, "h.k.j = 1")
	h := get(t, e, "h").(*types.MapValue)
	k, ok := h.Get("k")
	require.True(t, ok)
	assert.IsType(t, &types.MapValue{}, k)
}

func TestPointAssignment(t *testing.T) {
	e, _, _ := newEngine(t)
	run(t, e, "p = {1 2 3}; p.x = 5; p[3] = 9; p.y += 1")
	assert.Equal(t, types.NewPoint3(5, 3, 9), get(t, e, "p"))
}

func TestMatrixAssignment(t *testing.T) {
	e, _, _ := newEngine(t)
	e.Set("m", types.Matrix3Value{})
	run(t, e, "m[1][2] = 5; m[21] = 7; m[3] = [1, 2, 3]; m[-1] = {8 8 8}")
	m := get(t, e, "m")
	assert.Equal(t, 5.0, types.MatrixElement(m, 0, 1))
	assert.Equal(t, []float64{8, 8, 8}, types.MatrixColumn(m, 0))
	assert.Equal(t, []float64{8, 2, 3}, types.MatrixRow(m, 2))

	_, err := e.Run(context.Background(), "m[5] = 1")
	assert.Equal(t, types.E_INVALID_ARGUMENT, types.KindOf(err))
}

func TestSelectionPropertyAssignment(t *testing.T) {
	e, store, _ := newEngine(t)
	run(t, e, "s = {carbon}; s.temperature = 9")
	assert.Equal(t, 9.0, store.Atoms[0].Temperature)
	assert.Equal(t, 9.0, store.Atoms[1].Temperature)
	assert.Equal(t, 3.0, store.Atoms[2].Temperature)

	run(t, e, "s.temperature = [5, 6]")
	assert.Equal(t, 5.0, store.Atoms[0].Temperature)
	assert.Equal(t, 6.0, store.Atoms[1].Temperature)

	v, err := e.Eval("{carbon}.temperature")
	require.NoError(t, err)
	assert.InDelta(t, 5.5, types.AsFloat(v), 1e-9)
}

func TestLiteralSelectionPropertyAssignment(t *testing.T) {
	e, store, out := newEngine(t)
	run(t, e, "{carbon}.temperature = 9; print {carbon}.temperature.max")
	assert.Equal(t, 9.0, store.Atoms[0].Temperature)
	assert.Equal(t, 9.0, store.Atoms[1].Temperature)
	assert.Equal(t, 3.0, store.Atoms[2].Temperature)
	assert.Equal(t, types.AsString(types.NewFloat(9))+"\n", out.String())

	run(t, e, "({2 3}).temperature = [7, 8]")
	assert.Equal(t, 7.0, store.Atoms[2].Temperature)
	assert.Equal(t, 8.0, store.Atoms[3].Temperature)

	_, err := e.Run(context.Background(), "{1 2 3}.x = 4")
	assert.Equal(t, types.E_INVALID_ARGUMENT, types.KindOf(err))
}

func TestWithinKinds(t *testing.T) {
	e, _, _ := newEngine(t)
	v, err := e.Eval("{within(branch, {atomno=1}, {atomno=2})}")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, types.Ordinals(v.(types.BitSetValue).Selected()))

	v, err = e.Eval("{within(coord, {0 0 0})}")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, types.Ordinals(v.(types.BitSetValue).Selected()))

	_, err = e.Eval("{within(hkl, {1 0 0})}")
	assert.Equal(t, types.E_INVALID_ARGUMENT, types.KindOf(err))
	_, err = e.Eval("{within(carbon, {0 0 0})}")
	assert.Equal(t, types.E_INVALID_ARGUMENT, types.KindOf(err))
}

func TestBondSets(t *testing.T) {
	e, _, _ := newEngine(t)
	v, err := e.Eval("[{0 1}].length.sum")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, types.AsFloat(v), 1e-9)

	v, err = e.Eval("[{1}].xyz")
	require.NoError(t, err)
	assert.Equal(t, types.NewPoint3(2.25, 0, 0), v)

	v, err = e.Eval("{*}.bonds")
	require.NoError(t, err)
	bonds := v.(types.BitSetValue)
	assert.True(t, bonds.Bond)
	assert.Equal(t, []int{0, 1}, types.Ordinals(bonds.Selected()))

	v, err = e.Eval("{atomno < 3}.bonds.size")
	require.NoError(t, err)
	assert.Equal(t, types.NewInt(1), v)
}

func TestMethodWithCoordinateArgument(t *testing.T) {
	e, _, _ := newEngine(t)
	v, err := e.Eval("{atomno=3}.distance({0 0 0})")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, types.AsFloat(v), 1e-9)
}

func TestVarAndGlobals(t *testing.T) {
	e, _, _ := newEngine(t)
	run(t, e, "var v = 3")
	assert.Equal(t, types.NewInt(3), get(t, e, "v"))
	assert.True(t, e.Env.Modified("v"))

	assert.False(t, e.Selection.CaseSensitiveChains)
	run(t, e, "set caseSensitiveChains true; set formatDepth 2")
	assert.True(t, e.Config.CaseSensitiveChains)
	assert.True(t, e.Selection.CaseSensitiveChains)
	assert.Equal(t, 2, e.Config.FormatDepth)
	assert.NotContains(t, e.Env.Names(), "casesensitivechains")
}

func TestSelectStatement(t *testing.T) {
	e, store, _ := newEngine(t)
	run(t, e, "select carbon")
	assert.Equal(t, []int{0, 1}, types.Ordinals(store.Selection()))

	v, err := e.Eval("{selected}.size")
	require.NoError(t, err)
	assert.Equal(t, types.NewInt(2), v)
}

func TestMetaExpressions(t *testing.T) {
	e, _, _ := newEngine(t)
	v, err := e.Eval("select(q; {*}; q.temperature > 2)")
	require.NoError(t, err)
	bs, ok := v.(types.BitSetValue)
	require.True(t, ok)
	assert.Equal(t, []int{2, 3}, types.Ordinals(bs.Selected()))

	v, err = e.Eval("for(q; [1, 2, 3]; q * 2)")
	require.NoError(t, err)
	assert.Equal(t, []types.Value{types.NewInt(2), types.NewInt(4), types.NewInt(6)},
		v.(*types.ListValue).Elements())

	v, err = e.Eval("for(q; {carbon}; q.temperature)")
	require.NoError(t, err)
	assert.Equal(t, []types.Value{
		types.NewStr(types.AsString(types.NewFloat(1))),
		types.NewStr(types.AsString(types.NewFloat(2))),
	}, v.(*types.ListValue).Elements())
	assert.Equal(t, []float64{1, 2}, types.FloatsOf(v.(*types.ListValue)))

	v, err = e.Eval("if(1 > 2; \"yes\"; \"no\")")
	require.NoError(t, err)
	assert.Equal(t, types.NewStr("no"), v)

	_, ok = e.Get("q")
	assert.False(t, ok)
}

type recorder struct {
	name string
	args []*token.Token
}

func (r *recorder) handle(name string, args []*token.Token) error {
	r.name, r.args = name, args
	return nil
}

func TestCommandSubstitution(t *testing.T) {
	rec := &recorder{}
	e, _, _ := newEngine(t, script.WithCommandHandler(rec.handle))

	run(t, e, "n = 3; zoom @n")
	assert.Equal(t, "zoom", rec.name)
	require.Len(t, rec.args, 1)
	assert.Equal(t, token.TokInteger, rec.args[0].Tok)
	assert.Equal(t, 3, rec.args[0].Int)

	run(t, e, "load @n")
	require.Len(t, rec.args, 1)
	assert.Equal(t, token.TokString, rec.args[0].Tok)
	assert.Equal(t, types.NewStr("3"), rec.args[0].Literal())

	run(t, e, "zoom @{n * 2} 10")
	require.Len(t, rec.args, 2)
	assert.Equal(t, types.NewInt(6), rec.args[0].Literal())
	assert.Equal(t, token.TokInteger, rec.args[1].Tok)

	e.Set("select", types.NewInt(7))
	e.Set("lst", types.NewList([]types.Value{types.NewInt(10), types.NewInt(20)}))
	run(t, e, "zoom @select @lst[2]")
	require.Len(t, rec.args, 2)
	assert.Equal(t, types.NewInt(7), rec.args[0].Literal())
	assert.Equal(t, types.NewInt(20), rec.args[1].Literal())
}

func TestFailureStopsScript(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e, _, _ := newEngine(t, script.WithLogger(zap.New(core)))

	vals, err := e.Run(context.Background(), "n = 1; n + 1; n = nosuch(1); n = 5")
	require.Error(t, err)
	assert.Equal(t, types.E_UNKNOWN_FUNCTION, types.KindOf(err))
	assert.Len(t, vals, 1)
	assert.Equal(t, types.NewInt(1), get(t, e, "n"))
	assert.Equal(t, 1, logs.FilterMessage("statement failed").Len())

	_, err = e.Run(context.Background(), "+ 1")
	assert.Equal(t, types.E_COMMAND_EXPECTED, types.KindOf(err))
	assert.Equal(t, 2, logs.FilterMessage("statement failed").Len())
}

func TestInterrupted(t *testing.T) {
	e, _, _ := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Run(ctx, "n = 1")
	assert.Equal(t, types.E_INTERRUPTED, types.KindOf(err))
	assert.ErrorIs(t, err, context.Canceled)
	_, ok := e.Get("n")
	assert.False(t, ok)
}

func TestCheckOnly(t *testing.T) {
	cfg := script.DefaultConfig()
	cfg.CheckOnly = true
	e, _, _ := newEngine(t, script.WithConfig(cfg))
	vals, err := e.Run(context.Background(), "n = 1; n + 1")
	require.NoError(t, err)
	assert.Empty(t, vals)
	_, ok := e.Get("n")
	assert.False(t, ok)

	_, err = e.Run(context.Background(), "n = ")
	assert.Error(t, err)
}

func TestCompileCache(t *testing.T) {
	e, _, _ := newEngine(t)
	a, err := e.Compile("n = 1; print n")
	require.NoError(t, err)
	b, err := e.Compile("n = 1; print n")
	require.NoError(t, err)
	require.Len(t, a, 2)
	assert.Same(t, a[0], b[0])
}

func TestAssignAPI(t *testing.T) {
	e, _, _ := newEngine(t)
	e.Set("x", types.NewList([]types.Value{types.NewInt(1)}))
	stmts, err := e.Compile("x[3] = 0")
	require.NoError(t, err)
	require.NoError(t, e.Assign(stmts[0].Target, types.NewStr("w")))
	l := get(t, e, "x").(*types.ListValue)
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, types.NewStr("w"), l.Get(3))

	toks := []*token.Token{
		{Tok: token.TokIdentifier, Text: "k"},
		{Tok: token.TokOpEQ, Text: "="},
		token.Literal(types.NewInt(4)),
	}
	st, err := e.CompileTokens(toks)
	require.NoError(t, err)
	v, err := e.EvaluateToValue(st.Expr)
	require.NoError(t, err)
	require.NoError(t, e.Assign(st.Target, v))
	assert.Equal(t, types.NewInt(4), get(t, e, "k"))
}

func TestWithoutModel(t *testing.T) {
	e, err := script.New(nil)
	require.NoError(t, err)
	v, err := e.Eval("2 ** 10")
	require.NoError(t, err)
	assert.InDelta(t, 1024.0, types.AsFloat(v), 1e-9)

	_, err = e.Run(context.Background(), "select carbon")
	assert.Error(t, err)
}
