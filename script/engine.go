package script

import (
	"context"
	"fmt"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"molscript/builtins"
	"molscript/env"
	"molscript/parser"
	"molscript/selection"
	"molscript/token"
	"molscript/trace"
	"molscript/types"
	"molscript/vm"
)

// CommandHandler receives command statements with their arguments
// already substituted
type CommandHandler func(name string, args []*token.Token) error

// Engine compiles and runs scripts against one model. It is not safe
// for concurrent use.
type Engine struct {
	Config    Config
	Selection *selection.Engine // nil when there is no model
	Builtins  *builtins.Registry
	Env       *env.Environment
	Out       io.Writer // print output

	log     *zap.Logger
	tracer  *trace.Tracer
	handler CommandHandler
	cache   *lru.Cache[string, []*parser.Statement]
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithConfig replaces the default settings
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.Config = cfg
	}
}

// WithCommandHandler sets the receiver of command statements
func WithCommandHandler(h CommandHandler) Option {
	return func(e *Engine) {
		e.handler = h
	}
}

// WithBuiltins sets the builtin function registry
func WithBuiltins(reg *builtins.Registry) Option {
	return func(e *Engine) {
		e.Builtins = reg
	}
}

// WithOutput sets where print writes
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.Out = w
	}
}

// WithTracer sets the diagnostics sink
func WithTracer(t *trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = t
	}
}

// New creates an engine over m, which may be nil for pure math
func New(m selection.Model, opts ...Option) (*Engine, error) {
	e := &Engine{
		Config: DefaultConfig(),
		Out:    io.Discard,
		log:    zap.NewNop(),
		tracer: trace.Global(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.Builtins == nil {
		e.Builtins = builtins.NewRegistry()
	}
	if e.Config.CacheSize <= 0 {
		e.Config.CacheSize = DefaultConfig().CacheSize
	}
	cache, err := lru.New[string, []*parser.Statement](e.Config.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("statement cache: %w", err)
	}
	e.cache = cache
	if m != nil {
		e.Selection = selection.New(m, e.log.Named("selection"))
		e.Selection.CaseSensitiveChains = e.Config.CaseSensitiveChains
	}

	globals := env.NewGlobals()
	for name, v := range e.Config.properties() {
		globals.Define(name, v)
	}
	globals.OnChange(e.propertyChanged)
	e.Env = env.NewEnvironment(globals)
	return e, nil
}

func (e *Engine) propertyChanged(name string, v types.Value) {
	e.Config.apply(name, v)
	if e.Selection != nil {
		e.Selection.CaseSensitiveChains = e.Config.CaseSensitiveChains
	}
	e.log.Debug("property changed", zap.String("name", name), zap.Stringer("value", v))
}

func (e *Engine) root() *frame {
	return &frame{e: e, env: e.Env}
}

func (e *Engine) newVM(host vm.Host) *vm.VM {
	m := vm.New(host, e.Selection, e.Builtins, e.log.Named("vm"))
	m.Diag = e.tracer
	m.CheckOnly = e.Config.CheckOnly
	return m
}

// Compile compiles a script, reusing earlier compilations of the same
// source
func (e *Engine) Compile(source string) ([]*parser.Statement, error) {
	if stmts, ok := e.cache.Get(source); ok {
		return stmts, nil
	}
	stmts, err := parser.CompileScript(source)
	if err != nil {
		return nil, err
	}
	e.cache.Add(source, stmts)
	return stmts, nil
}

// CompileTokens compiles one statement from an external token stream
func (e *Engine) CompileTokens(toks []*token.Token) (*parser.Statement, error) {
	return parser.CompileStatement(toks)
}

// EvaluateToValue runs a compiled math expression in the engine's
// variable scope
func (e *Engine) EvaluateToValue(prog token.Program) (types.Value, error) {
	return e.newVM(e.root()).Evaluate(prog)
}

// EvaluateToSelection runs a compiled atom expression
func (e *Engine) EvaluateToSelection(prog token.Program) (types.BitSetValue, error) {
	return e.newVM(e.root()).EvaluateToSelection(prog)
}

// Eval compiles and evaluates one math expression
func (e *Engine) Eval(source string) (types.Value, error) {
	toks, err := parser.Lex(source)
	if err != nil {
		return nil, e.fail(source, err)
	}
	prog, err := parser.CompileExpression(toks)
	if err != nil {
		return nil, e.fail(source, err)
	}
	v, err := e.EvaluateToValue(prog)
	if err != nil {
		return nil, e.fail(source, err)
	}
	return v, nil
}

// Run executes every statement of a script and returns the values of
// its expression statements. Execution stops at the first failure;
// effects of earlier statements remain. ctx is checked between
// statements.
func (e *Engine) Run(ctx context.Context, source string) ([]types.Value, error) {
	stmts, err := e.Compile(source)
	if err != nil {
		return nil, e.fail(source, err)
	}
	if e.Config.CheckOnly {
		return nil, nil
	}
	var results []types.Value
	for _, st := range stmts {
		if err := ctx.Err(); err != nil {
			return results, e.fail(source, types.Errorf(types.E_INTERRUPTED, "%w", err))
		}
		v, err := e.Execute(st)
		if err != nil {
			return results, err
		}
		if v != nil {
			results = append(results, v)
		}
	}
	return results, nil
}

// Execute runs one compiled statement. Only expression statements
// produce a value.
func (e *Engine) Execute(st *parser.Statement) (types.Value, error) {
	source := token.Program(st.Source).String()
	e.tracer.Statement(source)
	v, err := e.execute(e.root(), st)
	if err != nil {
		return nil, e.fail(source, err)
	}
	if v != nil {
		e.tracer.Result(source, v)
	}
	return v, nil
}

func (e *Engine) execute(f *frame, st *parser.Statement) (types.Value, error) {
	switch st.Kind {
	case parser.StmtExpression:
		return f.vm().Evaluate(st.Expr)
	case parser.StmtSelect:
		if e.Selection == nil {
			return nil, types.NewError(types.E_INVALID_ARGUMENT, "select")
		}
		bs, err := f.vm().EvaluateToSelection(st.Expr)
		if err != nil {
			return nil, err
		}
		e.Selection.Model.SetSelection(bs.Selected())
		return nil, nil
	case parser.StmtPrint:
		return nil, e.print(f, st.Expr)
	case parser.StmtAssign, parser.StmtIncrement:
		return nil, e.assign(f, st)
	case parser.StmtCommand:
		return nil, e.command(f, st)
	}
	return nil, types.NewError(types.E_COMMAND_EXPECTED, st.Kind.String())
}

func (e *Engine) print(f *frame, prog token.Program) error {
	if len(prog) == 0 {
		_, err := fmt.Fprintln(e.Out)
		return err
	}
	v, err := f.vm().Evaluate(prog)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.Out, e.Format(v))
	return err
}

// Format renders a value the way print shows it
func (e *Engine) Format(v types.Value) string {
	return types.Format(v, types.FormatOptions{MaxDepth: e.Config.FormatDepth})
}

func (e *Engine) command(f *frame, st *parser.Statement) error {
	args, err := f.substitute(st.Name, st.Args)
	if err != nil {
		return err
	}
	if e.handler == nil {
		e.log.Debug("command ignored", zap.String("command", st.Name), zap.Int("args", len(args)))
		return nil
	}
	return e.handler(st.Name, args)
}

// fail reports a statement failure and returns it unchanged
func (e *Engine) fail(source string, err error) error {
	e.log.Warn("statement failed", zap.String("statement", source), zap.Error(err))
	e.tracer.ScriptError(source, err)
	return err
}

// Set assigns a variable in the engine's scope
func (e *Engine) Set(name string, v types.Value) {
	e.Env.Set(name, v)
}

// Get reads a variable or global property
func (e *Engine) Get(name string) (types.Value, bool) {
	return e.Env.Get(name)
}
