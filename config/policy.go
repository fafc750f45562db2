// Package config loads the three policy booleans (spec.md §4.7) from an
// optional YAML file, the way the teacher's config package loads a
// driver/target definition: read bytes, unmarshal, done. The CLI layers
// viper's flag > config-file > default precedence on top of this.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Policy mirrors plan.Policy but is the on-disk/flag-bindable shape:
// yaml tags and no dependency on the plan package, so this package
// stays a leaf.
type Policy struct {
	AllowRecreateIndexes     bool `yaml:"allowRecreateIndexes"`
	AllowRecreateConstraints bool `yaml:"allowRecreateConstraints"`
	AllowDropStatements      bool `yaml:"allowDropStatements"`
}

func Default() *Policy {
	return &Policy{}
}

func FromText(buf []byte) (*Policy, error) {
	p := Default()
	if err := yaml.Unmarshal(buf, p); err != nil {
		return nil, fmt.Errorf("parsing policy config: %w", err)
	}
	return p, nil
}

// FromPath loads a policy file if configPath is non-empty; an empty
// path returns the all-false default rather than scanning the working
// directory for one (spec.md has no notion of a discovered config
// file, unlike the teacher's *.yml auto-discovery).
func FromPath(configPath string) (*Policy, error) {
	if configPath == "" {
		return Default(), nil
	}
	buf, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading policy config %s: %w", configPath, err)
	}
	return FromText(buf)
}
