package vm_test

import (
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"molscript/model"
	"molscript/parser"
	"molscript/selection"
	"molscript/token"
	"molscript/trace"
	"molscript/types"
	"molscript/vm"
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

type mapHost struct {
	vars  map[string]types.Value
	metas []*token.Meta
}

func (h *mapHost) Variable(name string) (types.Value, bool) {
	v, ok := h.vars[name]
	return v, ok
}

func (h *mapHost) SetVariable(name string, v types.Value) {
	h.vars[name] = v
}

func (h *mapHost) EvalMeta(m *token.Meta) (types.Value, error) {
	h.metas = append(h.metas, m)
	return types.NewStr(m.Var), nil
}

func newVM(t *testing.T) (*vm.VM, *mapHost) {
	t.Helper()
	store, err := model.Parse([]byte(fourAtoms))
	require.NoError(t, err)
	host := &mapHost{vars: map[string]types.Value{}}
	return vm.New(host, selection.New(store, nil), nil, nil), host
}

func eval(t *testing.T, m *vm.VM, src string) types.Value {
	t.Helper()
	toks, err := parser.Lex(src)
	require.NoError(t, err)
	prog, err := parser.CompileExpression(toks)
	require.NoError(t, err, src)
	v, err := m.Evaluate(prog)
	require.NoError(t, err, src)
	return v
}

func selectAtoms(t *testing.T, m *vm.VM, src string) []int {
	t.Helper()
	toks, err := parser.Lex(src)
	require.NoError(t, err)
	prog, err := parser.CompileAtomExpression(toks)
	require.NoError(t, err, src)
	bs, err := m.EvaluateToSelection(prog)
	require.NoError(t, err, src)
	return types.Ordinals(bs.Selected())
}

func TestArithmetic(t *testing.T) {
	m, _ := newVM(t)
	tests := []struct {
		src  string
		want types.Value
	}{
		{"1 + 2 * 3", types.NewInt(7)},
		{"7 / 2", types.NewFloat(3.5)},
		{"8 / 2", types.NewInt(4)},
		{"7 \\ 2", types.NewInt(3)},
		{"7 % 3", types.NewInt(1)},
		{"3.14159 % 2", types.NewStr("3.14")},
		{"2 ** 3", types.NewFloat(8)},
		{"1 + 2.5", types.NewFloat(3.5)},
		{`"a" + 1`, types.NewStr("a1")},
		{`2 + "3"`, types.NewInt(5)},
		{"-(2 + 1)", types.NewInt(-3)},
		{"true + 1", types.NewInt(2)},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, eval(t, m, tt.src))
		})
	}
}

func TestComparisonAndLogic(t *testing.T) {
	m, _ := newVM(t)
	tests := []struct {
		src  string
		want bool
	}{
		{"1 < 2", true},
		{"2 <= 1", false},
		{`"b" > "a"`, true},
		{`"ABC" == "abc"`, true},
		{`"abc" != "abd"`, true},
		{"1.0000001 == 1", true},
		{`"CA" like "C*"`, true},
		{`"CA" like "N*"`, false},
		{"1 and 0", false},
		{"1 or 0", true},
		{"1 xor 1", false},
		{"not 0", true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, types.NewBool(tt.want), eval(t, m, tt.src))
		})
	}
}

func TestLazyConditionals(t *testing.T) {
	m, host := newVM(t)
	host.vars["n"] = types.NewInt(1)
	assert.Equal(t, types.NewInt(2), eval(t, m, "1 ? 2 : 3"))
	assert.Equal(t, types.NewInt(3), eval(t, m, "if(0; 2; 3)"))

	// the branch not taken is never run
	eval(t, m, "1 ? 0 : n++")
	assert.Equal(t, types.NewInt(1), host.vars["n"])
}

func TestPointArithmetic(t *testing.T) {
	m, _ := newVM(t)
	assert.Equal(t, types.NewPoint3(2, 3, 4), eval(t, m, "{1 2 3} + {1 1 1}"))
	assert.Equal(t, types.NewPoint3(2, 4, 6), eval(t, m, "{1 2 3} * 2"))
	assert.Equal(t, types.NewFloat(0), eval(t, m, "{1 0 0} * {0 1 0}"))
	assert.Equal(t, types.NewPoint3(-1, -2, -3), eval(t, m, "-{1 2 3}"))
	assert.Equal(t, types.NewFloat(2), eval(t, m, "{1 2 3}.y"))
	assert.Equal(t, types.NewFloat(3), eval(t, m, "{1 2 3}[3]"))
}

func TestItemSelection(t *testing.T) {
	m, _ := newVM(t)
	assert.Equal(t, types.NewStr("g"), eval(t, m, `"testing"[0]`))
	assert.Equal(t, types.NewStr("n"), eval(t, m, `"testing"[-1]`))
	assert.Equal(t, types.NewStr(""), eval(t, m, `"testing"[-10]`))
	assert.Equal(t, types.NewInt(20), eval(t, m, "[10, 20, 30][2]"))

	r := eval(t, m, "[1, 2, 3, 4][2][3]")
	assert.True(t, types.AreEqual(types.NewList([]types.Value{types.NewInt(2), types.NewInt(3)}), r), "%v", r)
}

func TestContainers(t *testing.T) {
	m, host := newVM(t)
	l := eval(t, m, "[1, 2] + 3").(*types.ListValue)
	assert.Equal(t, 3, l.Len())

	assert.Equal(t, types.NewInt(1), eval(t, m, `{"a": 1}["a"]`))
	assert.Equal(t, types.NewInt(2), eval(t, m, `{"a": 1, "b": 2}.b`))
	assert.Equal(t, types.NewInt(2), eval(t, m, `{"a": 1, "b": 2}.size`))
	keys := eval(t, m, `{"b": 1, "a": 2}.keys`)
	assert.True(t, types.AreEqual(types.StringList([]string{"a", "b"}), keys))

	merged := eval(t, m, `{"a": 1} + {"b": 2}`).(*types.MapValue)
	assert.Equal(t, 2, merged.Len())

	assert.InDelta(t, 3, types.AsFloat(eval(t, m, "[3, 1, 2].max")), 1e-9)
	assert.InDelta(t, 10, types.AsFloat(eval(t, m, "[1, 2, 3, 4].sum")), 1e-9)
	assert.Equal(t, types.NewInt(2), eval(t, m, "[1, 2].size()"))

	shared := types.NewList([]types.Value{types.NewInt(1)})
	host.vars["l"] = shared
	assert.Same(t, shared, eval(t, m, "l"))
}

func TestFunctionsAndMethods(t *testing.T) {
	m, host := newVM(t)
	host.vars["x"] = types.NewFloat(3.14159)
	assert.Equal(t, types.NewFloat(4), eval(t, m, "sqrt(16)"))
	assert.Equal(t, types.NewStr(" 3.14"), eval(t, m, `x.format("%5.2f")`))

	toks, err := parser.Lex("nosuch(1)")
	require.NoError(t, err)
	prog, err := parser.CompileExpression(toks)
	require.NoError(t, err)
	_, err = m.Evaluate(prog)
	assert.Equal(t, types.E_UNKNOWN_FUNCTION, types.KindOf(err))
}

func TestUserFunctions(t *testing.T) {
	store, err := model.Parse([]byte(fourAtoms))
	require.NoError(t, err)
	store.RegisterFunction("twice", func(args []types.Value, atoms *bitset.BitSet) (types.Value, error) {
		if atoms != nil {
			return types.NewInt(2 * len(types.Ordinals(atoms))), nil
		}
		return types.NewInt(2 * types.AsInt(args[0])), nil
	})
	host := &mapHost{vars: map[string]types.Value{}}
	m := vm.New(host, selection.New(store, nil), nil, nil)

	assert.Equal(t, types.NewInt(42), eval(t, m, "twice(21)"))
}

func TestIncrement(t *testing.T) {
	m, host := newVM(t)
	host.vars["n"] = types.NewInt(5)
	assert.Equal(t, types.NewInt(5), eval(t, m, "n++"))
	assert.Equal(t, types.NewInt(6), host.vars["n"])
	assert.Equal(t, types.NewInt(6), eval(t, m, "n--"))
	assert.Equal(t, types.NewInt(5), host.vars["n"])

	host.vars["s"] = types.NewStr("x")
	eval(t, m, "s++")
	assert.Equal(t, types.NewStr("x"), host.vars["s"], "only numbers are incremented in place")
}

func TestVariablesAndDefines(t *testing.T) {
	m, host := newVM(t)
	host.vars["v"] = types.NewStr("x")
	assert.Equal(t, types.NewStr(""), eval(t, m, "undefined"))
	assert.Equal(t, types.NewStr("x"), eval(t, m, "@v"))
	assert.Equal(t, types.NewInt(3), eval(t, m, "@{1 + 2}"))
}

func TestUnbalancedStack(t *testing.T) {
	m, _ := newVM(t)
	core, logs := observer.New(zapcore.DebugLevel)
	m.Diag = trace.New(true, nil, zap.New(core))

	prog := token.Program{token.Literal(types.NewInt(1)), token.Literal(types.NewInt(2))}
	_, err := m.Evaluate(prog)
	assert.Equal(t, types.E_END_OF_STATEMENT, types.KindOf(err))
	assert.Equal(t, 1, logs.FilterMessage("stack dump").Len())

	_, err = m.Evaluate(token.Program{token.New(token.TokOpPlus, "+")})
	assert.Equal(t, types.E_END_OF_STATEMENT, types.KindOf(err))

	m.CheckOnly = true
	_, err = m.Evaluate(prog)
	assert.Error(t, err)
	assert.Equal(t, 2, logs.FilterMessage("stack dump").Len())
}

func TestAtomExpressions(t *testing.T) {
	m, host := newVM(t)
	host.vars["mine"] = types.BitSetOf(3)
	host.vars["s"] = types.NewStr("carbon")
	host.vars["n"] = types.NewInt(2)

	tests := []struct {
		src  string
		want []int
	}{
		{"carbon", []int{0, 1}},
		{"atomno < 3", []int{0, 1}},
		{"not atomno < 3", []int{2, 3}},
		{"ALA", []int{0, 1}},
		{"*:B", []int{2, 3}},
		{"ALA and resno=2", []int{1}},
		{"within(2.0, {0 0 0})", []int{0, 1}},
		{"connected(2)", []int{1}},
		{"(carbon)[2]", []int{1}},
		{"mine", []int{3}},
		{"@s", []int{0, 1}},
		{"temperature > n", []int{2, 3}},
		{"none", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, selectAtoms(t, m, tt.src))
		})
	}
}

func TestSelectionsInMath(t *testing.T) {
	m, _ := newVM(t)
	assert.Equal(t, types.NewFloat(1.5), eval(t, m, "{carbon}.temperature"))
	assert.Equal(t, types.NewInt(10), eval(t, m, "{*}.resno.sum"))
	assert.Equal(t, types.NewInt(4), eval(t, m, "{*}.size"))
	assert.InDelta(t, 10, types.AsFloat(eval(t, m, "{*}.x.max")), 1e-9)

	names := eval(t, m, "{carbon}.atomname")
	assert.True(t, types.AreEqual(types.StringList([]string{"CA", "CB"}), names))

	union := eval(t, m, "{carbon} or {oxygen}").(types.BitSetValue)
	assert.Equal(t, []int{0, 1, 3}, types.Ordinals(union.Selected()))
	inverse := eval(t, m, "not {carbon}").(types.BitSetValue)
	assert.Equal(t, []int{2, 3}, types.Ordinals(inverse.Selected()))
	diff := eval(t, m, "{*} - {carbon}").(types.BitSetValue)
	assert.Equal(t, []int{2, 3}, types.Ordinals(diff.Selected()))
}

func TestSelectionOperandsAreNotModified(t *testing.T) {
	m, host := newVM(t)
	carbon := types.BitSetOf(0, 1)
	host.vars["c"] = carbon
	eval(t, m, "c and {nitrogen}")
	eval(t, m, "not c")
	assert.Equal(t, []int{0, 1}, types.Ordinals(carbon.Bits))
}

func TestMetaDelegatesToHost(t *testing.T) {
	m, host := newVM(t)
	assert.Equal(t, types.NewStr("x"), eval(t, m, "select(x; {*}; x.atomno < 3)"))
	require.Len(t, host.metas, 1)
	assert.Equal(t, token.TokSelect, host.metas[0].Kind)
}

func TestEvaluateTarget(t *testing.T) {
	m, host := newVM(t)
	host.vars["x"] = types.NewList(nil)

	target := func(src string) *vm.Target {
		t.Helper()
		st, err := parser.CompileScript(src)
		require.NoError(t, err)
		require.Len(t, st, 1)
		tg, err := m.EvaluateTarget(st[0].Target)
		require.NoError(t, err)
		return tg
	}

	tg := target("x[1 + 1] = 5")
	assert.Equal(t, "x", tg.Var)
	assert.Same(t, host.vars["x"], tg.Root)
	require.Len(t, tg.Steps, 1)
	assert.Equal(t, []types.Value{types.NewInt(2)}, tg.Steps[0].Index)

	tg = target("m.key.sub = 1")
	assert.Nil(t, tg.Root)
	require.Len(t, tg.Steps, 2)
	assert.Equal(t, "key", tg.Steps[0].Property)
	assert.Equal(t, "sub", tg.Steps[1].Property)

	tg = target("p.x = 1")
	require.Len(t, tg.Steps, 1)
	assert.Equal(t, token.TokX, tg.Steps[0].Prop)
}
