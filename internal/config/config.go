// Package config loads the YAML stage configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/qft-labs/nupid/internal/binning"
	"github.com/qft-labs/nupid/internal/core"
	"github.com/qft-labs/nupid/internal/flavor"
	"github.com/qft-labs/nupid/internal/param"
)

// Config holds one PID stage configuration.
type Config struct {
	// Particles is "neutrinos" or "muons".
	Particles string `yaml:"particles"`
	// InputNames lists the flavor/interaction histograms the stage consumes.
	// Accepts a YAML list or a comma-separated string.
	InputNames StringList `yaml:"input_names"`
	// TransformGroups lists the flavor groups sharing a parameterization.
	TransformGroups StringList `yaml:"transform_groups"`
	// Binning declares the input and output axes.
	Binning BinningConfig `yaml:"binning"`
	// PID locates the parameterization.
	PID PIDConfig `yaml:"pid"`
	// Logging controls stage log verbosity.
	Logging LoggingConfig `yaml:"logging"`
}

// BinningConfig declares the input and output binning axes in order.
type BinningConfig struct {
	Input  []AxisConfig `yaml:"input"`
	Output []AxisConfig `yaml:"output"`
}

// AxisConfig declares one binning axis.
type AxisConfig struct {
	Name  string    `yaml:"name"`
	Edges []float64 `yaml:"edges"`
	Scale string    `yaml:"scale"` // "linear" (default) or "log"
}

// PIDConfig locates the PID parameterization: a JSON resource path or an
// inline mapping. Exactly one must be set.
type PIDConfig struct {
	ParamFile string                       `yaml:"paramfile"`
	Params    map[string]map[string]string `yaml:"params"`
}

// LoggingConfig controls logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// StringList is a []string that also unmarshals from a comma-separated
// scalar, e.g. "numu_cc, numubar_cc".
type StringList []string

// UnmarshalYAML accepts either a sequence or a comma-separated scalar.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = flavor.SplitList(s)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("config: expected string or list, got yaml kind %d", value.Kind)
	}
}

// Load reads and validates a configuration file.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the parts the stage constructor does not: required
// sections and the parameterization source shape.
func (c Config) Validate() error {
	if len(c.InputNames) == 0 {
		return fmt.Errorf("config: %w: input_names is required", core.ErrConfiguration)
	}
	if len(c.TransformGroups) == 0 {
		return fmt.Errorf("config: %w: transform_groups is required", core.ErrConfiguration)
	}
	if len(c.Binning.Input) == 0 {
		return fmt.Errorf("config: %w: binning.input is required", core.ErrConfiguration)
	}
	if c.PID.ParamFile == "" && c.PID.Params == nil {
		return fmt.Errorf("config: %w: pid needs either paramfile or params", core.ErrConfiguration)
	}
	if c.PID.ParamFile != "" && c.PID.Params != nil {
		return fmt.Errorf("config: %w: pid.paramfile and pid.params are mutually exclusive",
			core.ErrConfiguration)
	}
	return nil
}

// InputBinning builds the declared input binning.
func (c Config) InputBinning() (binning.Binning, error) {
	return buildBinning(c.Binning.Input)
}

// OutputBinning builds the declared output binning. An empty declaration
// yields an empty binning; the stage appends the classification axis.
func (c Config) OutputBinning() (binning.Binning, error) {
	return buildBinning(c.Binning.Output)
}

func buildBinning(axes []AxisConfig) (binning.Binning, error) {
	built := make([]binning.Axis, len(axes))
	for i, ac := range axes {
		ax, err := binning.NewAxis(ac.Name, ac.Edges, binning.Scale(ac.Scale))
		if err != nil {
			return binning.Binning{}, err
		}
		built[i] = ax
	}
	return binning.New(built...)
}

// Source builds the parameterization source.
func (c Config) Source() param.Source {
	if c.PID.ParamFile != "" {
		return param.FileSource(c.PID.ParamFile)
	}
	inline := make(map[string]param.Entry, len(c.PID.Params))
	for group, channels := range c.PID.Params {
		inline[group] = param.Entry(channels)
	}
	return param.InlineSource(inline)
}
