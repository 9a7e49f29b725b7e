// Package config carries the tunable constants of the layout engine.
// The defaults are empirically tuned values; they are exposed as
// configuration rather than derived so that maps stay reproducible
// when the tuning changes.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the scoring and construction constants used by the
// candidate search.
type Tuning struct {
	// TruncationEpsilon is how far (in square units) a candidate's
	// truncation may exceed the minimum and still stay in the ranked
	// set.
	TruncationEpsilon float64 `yaml:"truncation_epsilon"`

	// MinSharedWall is the minimum wall length (in units) a candidate
	// must share with the existing plan; anything less is a point
	// touch, not a placement.
	MinSharedWall float64 `yaml:"min_shared_wall"`
}

// Default returns the tuning the engine was calibrated with.
func Default() Tuning {
	return Tuning{
		TruncationEpsilon: 50,
		MinSharedWall:     5,
	}
}

// Load reads a tuning file, filling any omitted field from the
// defaults.
func Load(path string) (Tuning, error) {
	t := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("load tuning: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse tuning %s: %w", path, err)
	}
	if err := t.validate(); err != nil {
		return Default(), fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}

func (t Tuning) validate() error {
	if t.TruncationEpsilon < 0 {
		return fmt.Errorf("truncation_epsilon %v must not be negative", t.TruncationEpsilon)
	}
	if t.MinSharedWall < 0 {
		return fmt.Errorf("min_shared_wall %v must not be negative", t.MinSharedWall)
	}
	return nil
}
