// Package config loads hintkit tool configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"strings"

	semver "github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/hintkit/internal/codegen"
	"github.com/orizon-lang/hintkit/internal/errors"
	"github.com/orizon-lang/hintkit/internal/registry"
)

// MinQueueCapacity is the smallest accepted traversal queue capacity
const MinQueueCapacity = 8

// Config is the top-level configuration file
type Config struct {
	TargetVersion string        `yaml:"target_version" json:"target_version"`
	Codegen       CodegenConfig `yaml:"codegen" json:"codegen"`
	Log           LogConfig     `yaml:"log" json:"log"`
}

// CodegenConfig shapes generated check code
type CodegenConfig struct {
	PithRoot      string `yaml:"pith_root" json:"pith_root"`
	Indent        string `yaml:"indent" json:"indent"`
	QueueCapacity int    `yaml:"queue_capacity" json:"queue_capacity"`
	NumericTower  bool   `yaml:"numeric_tower" json:"numeric_tower"`
}

// LogConfig selects logger verbosity
type LogConfig struct {
	Verbose bool `yaml:"verbose" json:"verbose"`
	Debug   bool `yaml:"debug" json:"debug"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	opts := codegen.DefaultOptions()
	return &Config{
		TargetVersion: registry.DefaultTarget,
		Codegen: CodegenConfig{
			PithRoot:      opts.PithRoot,
			Indent:        opts.Indent,
			QueueCapacity: opts.QueueCapacity,
			NumericTower:  opts.NumericTower,
		},
	}
}

// Load reads path and merges its content over Default. The result is
// validated before it is returned.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML data over Default and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field
func (c *Config) Validate() error {
	if _, err := semver.NewVersion(c.TargetVersion); err != nil {
		return errors.InvalidConfig("target_version", fmt.Sprintf("%q is not a version: %v", c.TargetVersion, err))
	}
	if strings.TrimSpace(c.Codegen.PithRoot) == "" {
		return errors.InvalidConfig("codegen.pith_root", "must not be empty")
	}
	if strings.TrimSpace(c.Codegen.Indent) != "" {
		return errors.InvalidConfig("codegen.indent", fmt.Sprintf("%q must contain only whitespace", c.Codegen.Indent))
	}
	if c.Codegen.QueueCapacity < MinQueueCapacity {
		return errors.InvalidConfig("codegen.queue_capacity", fmt.Sprintf("%d is below the minimum of %d", c.Codegen.QueueCapacity, MinQueueCapacity))
	}
	return nil
}

// CodegenOptions converts the codegen section
func (c *Config) CodegenOptions() codegen.Options {
	return codegen.Options{
		PithRoot:      c.Codegen.PithRoot,
		Indent:        c.Codegen.Indent,
		QueueCapacity: c.Codegen.QueueCapacity,
		NumericTower:  c.Codegen.NumericTower,
	}
}

// Registry builds the sign registry for the configured target
func (c *Config) Registry() (*registry.Registry, error) {
	return registry.New(c.TargetVersion)
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
