package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"molscript/types"
)

// Config holds engine settings
type Config struct {
	CaseSensitiveChains bool   `yaml:"caseSensitiveChains"`
	FormatDepth         int    `yaml:"formatDepth"`
	CacheSize           int    `yaml:"cacheSize"`
	CheckOnly           bool   `yaml:"checkOnly"`
	LogLevel            string `yaml:"logLevel"`
}

// DefaultConfig returns the settings used when no file is given
func DefaultConfig() Config {
	return Config{
		FormatDepth: 8,
		CacheSize:   256,
		LogLevel:    "info",
	}
}

// LoadConfig reads a YAML config file. Missing fields keep their
// defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML config data, rejecting unknown fields
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.CacheSize <= 0 {
		return Config{}, fmt.Errorf("parse config: cacheSize must be positive, got %d", cfg.CacheSize)
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Level is the parsed LogLevel
func (c Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(c.LogLevel)
}

// properties are the settings scripts can change with set
func (c Config) properties() map[string]types.Value {
	return map[string]types.Value{
		"caseSensitiveChains": types.NewBool(c.CaseSensitiveChains),
		"formatDepth":         types.NewInt(c.FormatDepth),
		"checkOnly":           types.NewBool(c.CheckOnly),
	}
}

// apply copies a changed global property back into the config
func (c *Config) apply(name string, v types.Value) {
	switch name {
	case "casesensitivechains":
		c.CaseSensitiveChains = types.AsBoolean(v)
	case "formatdepth":
		c.FormatDepth = types.AsInt(v)
	case "checkonly":
		c.CheckOnly = types.AsBoolean(v)
	}
}
