package conformance

// TestSuite represents a complete YAML test file
type TestSuite struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	// Model is an inline model fixture; ModelFile names one relative to
	// the suite file. Without either the suite runs with no model.
	Model     string     `yaml:"model,omitempty"`
	ModelFile string     `yaml:"model_file,omitempty"`
	Setup     string     `yaml:"setup,omitempty"` // script run before every test
	Tests     []TestCase `yaml:"tests"`
}

// TestCase represents a single test within a suite
type TestCase struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Skip        interface{} `yaml:"skip,omitempty"` // bool or string
	Code        string      `yaml:"code,omitempty"`      // one math expression
	Statement   string      `yaml:"statement,omitempty"` // script; the last expression statement is the result
	Select      string      `yaml:"select,omitempty"`    // atom expression
	Setup       string      `yaml:"setup,omitempty"`
	Expect      Expectation `yaml:"expect"`
}

// Expectation defines what result is expected from a test. Every field
// given is checked.
type Expectation struct {
	Value    interface{} `yaml:"value,omitempty"`    // loose equality
	Error    string      `yaml:"error,omitempty"`    // E_TYPE_MISMATCH, E_UNKNOWN_FUNCTION, ...
	Type     string      `yaml:"type,omitempty"`     // integer, decimal, string, array, ...
	Match    string      `yaml:"match,omitempty"`    // regex over the string form
	Contains interface{} `yaml:"contains,omitempty"` // list element or substring
	Range    []float64   `yaml:"range,omitempty"`    // min, max for numbers
	Atoms    []int       `yaml:"atoms,omitempty"`    // selected atom indexes
	Output   string      `yaml:"output,omitempty"`   // printed text
}

// IsEmpty reports an expectation with nothing to check
func (e Expectation) IsEmpty() bool {
	return e.Value == nil && e.Error == "" && e.Type == "" && e.Match == "" &&
		e.Contains == nil && e.Range == nil && e.Atoms == nil && e.Output == ""
}

// IsSkipped returns true if this test should be skipped
func (tc *TestCase) IsSkipped() (bool, string) {
	switch v := tc.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
	case string:
		return true, v
	}
	return false, ""
}
