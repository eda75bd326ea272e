package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultFetchTimeout = 30 * time.Second

// Duration is a time.Duration that decodes from YAML strings such as "30s" or
// from integer nanoseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid duration at line %d", value.Line)
	}
	if tmp, err := time.ParseDuration(value.Value); err == nil {
		*d = Duration(tmp)
		return nil
	}
	var ns int64
	if err := value.Decode(&ns); err != nil {
		return fmt.Errorf("invalid duration %q at line %d", value.Value, value.Line)
	}
	*d = Duration(time.Duration(ns))
	return nil
}

// MarshalYAML writes the duration back in its readable form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the duration as time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
