package trace

import (
	"path/filepath"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"molscript/types"
)

// Diagnostics receives evaluation failures and stack dumps
type Diagnostics interface {
	ScriptError(source string, err error)
	StackDump(values []types.Value)
}

// Tracer provides execution tracing for debugging
type Tracer struct {
	enabled bool
	filters []string
	log     *zap.Logger
	mu      sync.Mutex
}

// Global tracer instance
var globalTracer *Tracer

// New creates a tracer. Filters are glob patterns matched against the
// statement source; with no filters every statement is traced.
func New(enabled bool, filters []string, log *zap.Logger) *Tracer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracer{
		enabled: enabled,
		filters: filters,
		log:     log.Named("trace"),
	}
}

// Init initializes the global tracer
func Init(enabled bool, filters []string, log *zap.Logger) {
	globalTracer = New(enabled, filters, log)
}

// Global returns the global tracer, a disabled one before Init
func Global() *Tracer {
	if globalTracer == nil {
		return New(false, nil, nil)
	}
	return globalTracer
}

// IsEnabled returns whether tracing is enabled
func IsEnabled() bool {
	if globalTracer == nil {
		return false
	}
	return globalTracer.enabled
}

// matchesFilter checks if a statement matches any of the filter patterns
func (t *Tracer) matchesFilter(source string) bool {
	if len(t.filters) == 0 {
		return true
	}
	for _, pattern := range t.filters {
		if matched, _ := filepath.Match(pattern, source); matched {
			return true
		}
	}
	return false
}

// Statement logs the start of a statement
func (t *Tracer) Statement(source string) {
	if !t.enabled || !t.matchesFilter(source) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.log.Info("statement", zap.String("source", source))
}

// Result logs the value a statement produced
func (t *Tracer) Result(source string, v types.Value) {
	if !t.enabled || !t.matchesFilter(source) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	result := ""
	if v != nil {
		result = types.Escape(v)
	}
	t.log.Info("result", zap.String("source", source), zap.String("value", result))
}

// ScriptError logs a failed statement. Errors are reported even when
// tracing is off, at debug level.
func (t *Tracer) ScriptError(source string, err error) {
	if !t.enabled || !t.matchesFilter(source) {
		t.log.Debug("script error", zap.String("source", source), zap.Error(err))
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fields := []zap.Field{zap.String("source", source), zap.Error(err)}
	if kind := types.KindOf(err); kind != types.E_NONE {
		fields = append(fields, zap.Stringer("kind", kind))
	}
	t.log.Warn("script error", fields...)
}

// StackDump logs the operand stack, bottom first
func (t *Tracer) StackDump(values []types.Value) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fields := make([]zap.Field, len(values))
	for i, v := range values {
		fields[i] = zap.Stringer(strconv.Itoa(i), escaped{v})
	}
	t.log.Debug("stack dump", fields...)
}

// escaped renders a value in its escaped form when the field is encoded
type escaped struct{ v types.Value }

func (e escaped) String() string {
	if e.v == nil {
		return "<nil>"
	}
	return types.Escape(e.v)
}

// Global convenience functions

// Statement logs a statement using the global tracer
func Statement(source string) {
	if globalTracer != nil {
		globalTracer.Statement(source)
	}
}

// Result logs a statement result using the global tracer
func Result(source string, v types.Value) {
	if globalTracer != nil {
		globalTracer.Result(source, v)
	}
}

// ScriptError logs a failure using the global tracer
func ScriptError(source string, err error) {
	if globalTracer != nil {
		globalTracer.ScriptError(source, err)
	}
}

// StackDump logs a stack using the global tracer
func StackDump(values []types.Value) {
	if globalTracer != nil {
		globalTracer.StackDump(values)
	}
}
