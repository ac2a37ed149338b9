package conformance

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"molscript/model"
	"molscript/parser"
	"molscript/script"
	"molscript/types"
)

// TestResult represents the outcome of running a single test
type TestResult struct {
	Test       LoadedTest
	Passed     bool
	Skipped    bool
	SkipReason string
	Error      error
}

// Runner executes conformance tests. Every test gets a fresh engine and
// model, so tests cannot see each other's variables or property changes.
type Runner struct {
	log *zap.Logger
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{log: log}
}

func (r *Runner) engine(test LoadedTest, out *bytes.Buffer) (*script.Engine, error) {
	opts := []script.Option{script.WithLogger(r.log), script.WithOutput(out)}
	var (
		store *model.Store
		err   error
	)
	switch {
	case test.Suite.Model != "":
		store, err = model.Parse([]byte(test.Suite.Model))
	case test.Suite.ModelFile != "":
		store, err = model.Load(filepath.Join(test.Dir, test.Suite.ModelFile))
	default:
		return script.New(nil, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	return script.New(store, opts...)
}

// Run executes a single test case
func (r *Runner) Run(test LoadedTest) TestResult {
	if skipped, reason := test.Test.IsSkipped(); skipped {
		return TestResult{Test: test, Skipped: true, SkipReason: reason}
	}
	fail := func(err error) TestResult {
		return TestResult{Test: test, Error: err}
	}

	out := &bytes.Buffer{}
	e, err := r.engine(test, out)
	if err != nil {
		return fail(err)
	}
	ctx := context.Background()
	for _, setup := range []string{test.Suite.Setup, test.Test.Setup} {
		if setup == "" {
			continue
		}
		if _, err := e.Run(ctx, setup); err != nil {
			return fail(fmt.Errorf("setup failed: %w", err))
		}
	}

	var v types.Value
	switch tc := test.Test; {
	case tc.Code != "":
		v, err = e.Eval(tc.Code)
	case tc.Statement != "":
		var vals []types.Value
		vals, err = e.Run(ctx, tc.Statement)
		if len(vals) > 0 {
			v = vals[len(vals)-1]
		}
	case tc.Select != "":
		v, err = r.selectAtoms(e, tc.Select)
	default:
		return TestResult{Test: test, Skipped: true, SkipReason: "no code/statement/select"}
	}

	if err := checkExpectation(test.Test.Expect, v, err, out.String()); err != nil {
		return fail(err)
	}
	return TestResult{Test: test, Passed: true}
}

func (r *Runner) selectAtoms(e *script.Engine, src string) (types.Value, error) {
	toks, err := parser.Lex(src)
	if err != nil {
		return nil, err
	}
	prog, err := parser.CompileAtomExpression(toks)
	if err != nil {
		return nil, err
	}
	return e.EvaluateToSelection(prog)
}

// RunAll executes all loaded tests
func (r *Runner) RunAll(tests []LoadedTest) []TestResult {
	results := make([]TestResult, len(tests))
	for i, test := range tests {
		results[i] = r.Run(test)
	}
	return results
}

// Failures combines the errors of every failed test
func Failures(results []TestResult) error {
	var err error
	for _, res := range results {
		if res.Error != nil {
			err = multierr.Append(err, fmt.Errorf("%s/%s: %w", res.Test.File, res.Test.Test.Name, res.Error))
		}
	}
	return err
}

// SummaryStats computes statistics from test results
type SummaryStats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// ComputeStats generates statistics from test results
func ComputeStats(results []TestResult) SummaryStats {
	stats := SummaryStats{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Skipped:
			stats.Skipped++
		case r.Passed:
			stats.Passed++
		default:
			stats.Failed++
		}
	}
	return stats
}

// FormatStats returns a human-readable summary
func FormatStats(stats SummaryStats) string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped (%d total)",
		stats.Passed, stats.Failed, stats.Skipped, stats.Total)
}

// checkExpectation compares an outcome with every field of the
// expectation and reports all mismatches together
func checkExpectation(expect Expectation, v types.Value, runErr error, output string) error {
	if expect.IsEmpty() {
		return fmt.Errorf("no expectation specified")
	}
	if expect.Error != "" {
		if runErr == nil {
			return fmt.Errorf("expected error %s, got value %s", expect.Error, describe(v))
		}
		if got := types.KindOf(runErr).String(); got != strings.ToUpper(expect.Error) {
			return fmt.Errorf("expected error %s, got %s: %v", expect.Error, got, runErr)
		}
		return nil
	}
	if runErr != nil {
		return fmt.Errorf("unexpected error: %w", runErr)
	}

	var err error
	if expect.Value != nil {
		want, cerr := convertYAMLValue(expect.Value)
		switch {
		case cerr != nil:
			err = multierr.Append(err, cerr)
		case v == nil || !types.AreEqual(v, want):
			err = multierr.Append(err, fmt.Errorf("expected %s, got %s", types.Escape(want), describe(v)))
		}
	}
	if expect.Type != "" && (v == nil || v.Type().String() != expect.Type) {
		err = multierr.Append(err, fmt.Errorf("expected type %s, got %s", expect.Type, typeName(v)))
	}
	if expect.Match != "" {
		re, rerr := regexp.Compile(expect.Match)
		switch {
		case rerr != nil:
			err = multierr.Append(err, rerr)
		case v == nil || !re.MatchString(types.AsString(v)):
			err = multierr.Append(err, fmt.Errorf("%s does not match %q", describe(v), expect.Match))
		}
	}
	if expect.Contains != nil {
		want, cerr := convertYAMLValue(expect.Contains)
		switch {
		case cerr != nil:
			err = multierr.Append(err, cerr)
		case !contains(v, want):
			err = multierr.Append(err, fmt.Errorf("%s does not contain %s", describe(v), types.Escape(want)))
		}
	}
	if expect.Range != nil {
		if len(expect.Range) != 2 {
			err = multierr.Append(err, fmt.Errorf("range needs min and max"))
		} else if f := types.AsFloat(v); v == nil || f < expect.Range[0] || f > expect.Range[1] {
			err = multierr.Append(err, fmt.Errorf("%s outside %v", describe(v), expect.Range))
		}
	}
	if expect.Atoms != nil {
		bs, ok := v.(types.BitSetValue)
		if !ok {
			err = multierr.Append(err, fmt.Errorf("expected a selection, got %s", describe(v)))
		} else if got := types.Ordinals(bs.Selected()); !slices.Equal(got, expect.Atoms) {
			err = multierr.Append(err, fmt.Errorf("expected atoms %v, got %v", expect.Atoms, got))
		}
	}
	if expect.Output != "" && strings.TrimRight(output, "\n") != strings.TrimRight(expect.Output, "\n") {
		err = multierr.Append(err, fmt.Errorf("expected output %q, got %q", expect.Output, output))
	}
	return err
}

func describe(v types.Value) string {
	if v == nil {
		return "nothing"
	}
	return types.Escape(v)
}

func typeName(v types.Value) string {
	if v == nil {
		return "nothing"
	}
	return v.Type().String()
}

func contains(v, want types.Value) bool {
	switch x := v.(type) {
	case *types.ListValue:
		for _, e := range x.Elements() {
			if types.AreEqual(e, want) {
				return true
			}
		}
	case types.BitSetValue:
		i := types.AsInt(want)
		return i >= 0 && x.Selected().Test(uint(i))
	case types.StrValue:
		return strings.Contains(x.Value(), types.AsString(want))
	}
	return false
}

// convertYAMLValue converts a decoded YAML value to a script value
func convertYAMLValue(v interface{}) (types.Value, error) {
	switch val := v.(type) {
	case int:
		return types.NewInt(val), nil
	case float64:
		return types.NewFloat(val), nil
	case string:
		return types.NewStr(val), nil
	case bool:
		return types.NewBool(val), nil
	case []interface{}:
		elements := make([]types.Value, len(val))
		for i, elem := range val {
			e, err := convertYAMLValue(elem)
			if err != nil {
				return nil, err
			}
			elements[i] = e
		}
		return types.NewList(elements), nil
	case map[string]interface{}:
		m := types.NewMap()
		for k, elem := range val {
			e, err := convertYAMLValue(elem)
			if err != nil {
				return nil, err
			}
			m.Set(k, e)
		}
		return m, nil
	}
	return nil, fmt.Errorf("unsupported YAML type: %T", v)
}
