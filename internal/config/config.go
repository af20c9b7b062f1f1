// Package config loads YAML run profiles: a defaults block plus named
// profiles that override it field by field.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// HistogramSpec selects the payout histogram binning. Kind is one of
// "progressive", "fixed" or "custom".
type HistogramSpec struct {
	Kind  string    `yaml:"kind"`
	Max   float64   `yaml:"max"`
	Bins  int       `yaml:"bins"`
	Edges []float64 `yaml:"edges"`
}

// MechanicsSpec names the game variant and its data file.
type MechanicsSpec struct {
	Variant            string  `yaml:"variant"`
	Config             string  `yaml:"config"`
	BaseValueFactor    float64 `yaml:"base_value_factor"`
	FeatureValueFactor float64 `yaml:"feature_value_factor"`
}

// Profile is one runnable configuration. Pointer fields distinguish
// "unset" from a zero value so profiles can override defaults selectively.
type Profile struct {
	Batches      *int64         `yaml:"batches"`
	BatchRounds  *int64         `yaml:"batch_rounds"`
	Mode         string         `yaml:"mode"`
	Memory       string         `yaml:"memory"`
	Parallel     *bool          `yaml:"parallel"`
	Workers      *int           `yaml:"workers"`
	SecondChance *float64       `yaml:"second_chance"`
	BaseBet      *int           `yaml:"base_bet"`
	Histogram    *HistogramSpec `yaml:"histogram"`
	Mechanics    *MechanicsSpec `yaml:"mechanics"`
}

// File is the on-disk layout: defaults plus named profiles.
type File struct {
	Defaults Profile            `yaml:"defaults"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// Load reads a profile file and returns the named profile merged over the
// defaults. An empty name returns the defaults alone.
func Load(path, name string) (Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return Profile{}, fmt.Errorf("parse profile file: %w", err)
	}

	merged := f.Defaults
	if name != "" {
		p, ok := f.Profiles[name]
		if !ok {
			return Profile{}, fmt.Errorf("profile %q not found in %s", name, path)
		}
		merged = mergeProfile(merged, p)
	}
	if err := Validate(merged); err != nil {
		return Profile{}, err
	}
	return merged, nil
}

// mergeProfile overlays b onto a: fields set in b win.
func mergeProfile(a, b Profile) Profile {
	out := a
	if b.Batches != nil {
		out.Batches = b.Batches
	}
	if b.BatchRounds != nil {
		out.BatchRounds = b.BatchRounds
	}
	if b.Mode != "" {
		out.Mode = b.Mode
	}
	if b.Memory != "" {
		out.Memory = b.Memory
	}
	if b.Parallel != nil {
		out.Parallel = b.Parallel
	}
	if b.Workers != nil {
		out.Workers = b.Workers
	}
	if b.SecondChance != nil {
		out.SecondChance = b.SecondChance
	}
	if b.BaseBet != nil {
		out.BaseBet = b.BaseBet
	}

	switch {
	case out.Histogram == nil && b.Histogram != nil:
		c := *b.Histogram
		out.Histogram = &c
	case out.Histogram != nil && b.Histogram != nil:
		if b.Histogram.Kind != "" {
			out.Histogram.Kind = b.Histogram.Kind
		}
		if b.Histogram.Max != 0 {
			out.Histogram.Max = b.Histogram.Max
		}
		if b.Histogram.Bins != 0 {
			out.Histogram.Bins = b.Histogram.Bins
		}
		if len(b.Histogram.Edges) > 0 {
			out.Histogram.Edges = append([]float64(nil), b.Histogram.Edges...)
		}
	}

	switch {
	case out.Mechanics == nil && b.Mechanics != nil:
		c := *b.Mechanics
		out.Mechanics = &c
	case out.Mechanics != nil && b.Mechanics != nil:
		if b.Mechanics.Variant != "" {
			out.Mechanics.Variant = b.Mechanics.Variant
		}
		if b.Mechanics.Config != "" {
			out.Mechanics.Config = b.Mechanics.Config
		}
		if b.Mechanics.BaseValueFactor != 0 {
			out.Mechanics.BaseValueFactor = b.Mechanics.BaseValueFactor
		}
		if b.Mechanics.FeatureValueFactor != 0 {
			out.Mechanics.FeatureValueFactor = b.Mechanics.FeatureValueFactor
		}
	}

	return out
}

// Validate checks semantic constraints of a merged profile.
func Validate(p Profile) error {
	var errs []string

	if p.Batches != nil && *p.Batches <= 0 {
		errs = append(errs, "batches must be >= 1")
	}
	if p.BatchRounds != nil && *p.BatchRounds <= 0 {
		errs = append(errs, "batch_rounds must be >= 1")
	}
	switch p.Mode {
	case "", "full", "feature_only", "base_only":
	default:
		errs = append(errs, "mode must be one of: full, feature_only, base_only")
	}
	switch p.Memory {
	case "", "efficient", "accurate":
	default:
		errs = append(errs, "memory must be one of: efficient, accurate")
	}
	if p.Workers != nil && *p.Workers < 0 {
		errs = append(errs, "workers must be >= 0 (0 means auto)")
	}
	if p.SecondChance != nil && (*p.SecondChance < 0 || *p.SecondChance > 1) {
		errs = append(errs, "second_chance must be in [0,1]")
	}
	if p.BaseBet != nil && *p.BaseBet <= 0 {
		errs = append(errs, "base_bet must be >= 1")
	}

	if p.Histogram != nil {
		switch p.Histogram.Kind {
		case "", "progressive":
		case "fixed":
			if p.Histogram.Max <= 1 {
				errs = append(errs, "histogram.max must be > 1 for kind=fixed")
			}
			if p.Histogram.Bins < 1 {
				errs = append(errs, "histogram.bins must be >= 1 for kind=fixed")
			}
		case "custom":
			if len(p.Histogram.Edges) == 0 {
				errs = append(errs, "histogram.edges is required for kind=custom")
			}
		default:
			errs = append(errs, "histogram.kind must be one of: progressive, fixed, custom")
		}
	}

	if p.Mechanics != nil {
		switch p.Mechanics.Variant {
		case "", "pool-multiplier", "trigger-count":
		default:
			errs = append(errs, "mechanics.variant must be one of: pool-multiplier, trigger-count")
		}
		if p.Mechanics.Variant != "" && p.Mechanics.Config == "" {
			errs = append(errs, "mechanics.config is required when mechanics.variant is set")
		}
		if p.Mechanics.BaseValueFactor < 0 {
			errs = append(errs, "mechanics.base_value_factor must be >= 0")
		}
		if p.Mechanics.FeatureValueFactor < 0 {
			errs = append(errs, "mechanics.feature_value_factor must be >= 0")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("profile validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
