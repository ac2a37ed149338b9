package conformance

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TestPath is the directory holding the suites, relative to this package
const TestPath = "testdata"

// fixtureDir holds model fixtures referenced by model_file; it is not
// scanned for suites
const fixtureDir = "fixtures"

// LoadedTest represents a test with its source file path
type LoadedTest struct {
	File  string
	Dir   string // directory of the suite file, for model_file
	Suite TestSuite
	Test  TestCase
}

// LoadAllTests walks dir and loads every test case of every .yaml file
func LoadAllTests(dir string) ([]LoadedTest, error) {
	testDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(testDir); err != nil {
		return nil, fmt.Errorf("conformance directory: %w", err)
	}

	var loaded []LoadedTest
	err = filepath.Walk(testDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == fixtureDir {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".yaml" {
			return nil
		}
		suite, err := loadTestFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		relPath, _ := filepath.Rel(testDir, path)
		for _, test := range suite.Tests {
			loaded = append(loaded, LoadedTest{
				File:  relPath,
				Dir:   filepath.Dir(path),
				Suite: *suite,
				Test:  test,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

// loadTestFile parses a single YAML suite. Unknown fields are errors so
// a misspelled expectation cannot pass silently.
func loadTestFile(path string) (*TestSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var suite TestSuite
	if err := dec.Decode(&suite); err != nil {
		return nil, err
	}
	return &suite, nil
}
