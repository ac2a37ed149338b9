package trace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"molscript/types"
)

func observed(enabled bool, filters ...string) (*Tracer, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(enabled, filters, zap.New(core)), logs
}

func TestFilters(t *testing.T) {
	tr, logs := observed(true, "print *", "x = ?")
	tr.Statement("print 1")
	tr.Statement("select all")
	tr.Statement("x = 5")
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "print 1", logs.All()[0].ContextMap()["source"])
	assert.Equal(t, "x = 5", logs.All()[1].ContextMap()["source"])
}

func TestDisabledTracerIsQuiet(t *testing.T) {
	tr, logs := observed(false)
	tr.Statement("print 1")
	tr.Result("print 1", types.NewInt(1))
	assert.Equal(t, 0, logs.Len())

	tr.ScriptError("print x", errors.New("boom"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
}

func TestScriptErrorCarriesKind(t *testing.T) {
	tr, logs := observed(true)
	tr.ScriptError("print 1 +", types.NewError(types.E_END_OF_COMMAND, ""))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "E_END_OF_COMMAND", entry.ContextMap()["kind"])
}

func TestStackDump(t *testing.T) {
	tr, logs := observed(false)
	tr.StackDump([]types.Value{types.NewInt(1), types.NewStr("a"), nil})
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "1", fields["0"])
	assert.Equal(t, `"a"`, fields["1"])
	assert.Equal(t, "<nil>", fields["2"])
}

func TestGlobalBeforeInit(t *testing.T) {
	globalTracer = nil
	assert.False(t, IsEnabled())
	assert.NotNil(t, Global())
	Statement("print 1")

	Init(true, nil, nil)
	assert.True(t, IsEnabled())
	globalTracer = nil
}
