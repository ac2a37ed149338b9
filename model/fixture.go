package model

import (
	"bytes"
	"fmt"
	"os"

	"github.com/bits-and-blooms/bitset"
	"gopkg.in/yaml.v3"
)

// Fixture is the YAML form of a store
type Fixture struct {
	Name   string           `yaml:"name,omitempty"`
	Models []*ModelInfo     `yaml:"models,omitempty"`
	Atoms  []*Atom          `yaml:"atoms"`
	Bonds  []*Bond          `yaml:"bonds,omitempty"`
	Sets   map[string][]int `yaml:"sets,omitempty"`
}

// Load reads a fixture file into a new store
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes fixture YAML into a new store
func Parse(data []byte) (*Store, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return f.Build()
}

// Build creates a store holding the fixture's contents
func (f *Fixture) Build() (*Store, error) {
	s := NewStore()
	for _, m := range f.Models {
		s.AddModel(m)
	}
	for _, a := range f.Atoms {
		if _, err := s.AddAtom(a); err != nil {
			return nil, err
		}
	}
	for _, b := range f.Bonds {
		if err := s.AddBond(b); err != nil {
			return nil, err
		}
	}
	for name, members := range f.Sets {
		bs := bitset.New(uint(len(s.Atoms)))
		for _, i := range members {
			if i < 0 || i >= len(s.Atoms) {
				return nil, fmt.Errorf("set %s: atom %d out of range", name, i)
			}
			bs.Set(uint(i))
		}
		s.DefineSet(name, bs)
	}
	return s, nil
}
