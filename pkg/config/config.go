// Package config loads the profile configuration of a dfm source directory.
//
// A profile config is an optional .dfm.yml, .dfm.yaml or .dfm.toml file at
// the root of the source directory. It sets the target directory and the
// user mappings, which are evaluated in file order ahead of the built-in
// mappings.
package config

import (
	"fmt"

	"github.com/arthur-debert/dfm/pkg/errors"
	"github.com/arthur-debert/dfm/pkg/mapping"
)

// ProfileConfig is the decoded profile configuration.
type ProfileConfig struct {
	TargetDir string          `koanf:"target_dir" yaml:"target_dir,omitempty" toml:"target_dir,omitempty"`
	Mappings  []MappingConfig `koanf:"mappings" yaml:"mappings,omitempty" toml:"mappings,omitempty"`

	// Path is the file the config was read from, or "" when none exists.
	Path string `koanf:"-" yaml:"-" toml:"-"`
}

// MappingConfig is one mapping entry as written in a config file.
type MappingConfig struct {
	Match     string   `koanf:"match" yaml:"match" toml:"match"`
	LinkAsDir bool     `koanf:"link_as_dir" yaml:"link_as_dir,omitempty" toml:"link_as_dir,omitempty"`
	Dest      string   `koanf:"dest" yaml:"dest,omitempty" toml:"dest,omitempty"`
	TargetDir string   `koanf:"target_dir" yaml:"target_dir,omitempty" toml:"target_dir,omitempty"`
	Skip      bool     `koanf:"skip" yaml:"skip,omitempty" toml:"skip,omitempty"`
	TargetOS  []string `koanf:"target_os" yaml:"target_os,omitempty" toml:"target_os,omitempty"`
}

// Options converts the entry into mapping options.
func (mc MappingConfig) Options() mapping.Options {
	return mapping.Options{
		Match:     mc.Match,
		LinkAsDir: mc.LinkAsDir,
		Dest:      mc.Dest,
		TargetDir: mc.TargetDir,
		Skip:      mc.Skip,
		TargetOS:  append([]string(nil), mc.TargetOS...),
	}
}

// Validate compiles every mapping and reports the first invalid entry.
func (c *ProfileConfig) Validate() error {
	for i, mc := range c.Mappings {
		if _, err := mapping.New(mc.Options()); err != nil {
			return errors.Wrapf(err, errors.ErrConfigValid, "mapping #%d is invalid", i+1).
				WithDetail("index", i).
				WithDetail("match", mc.Match).
				WithDetail("file", c.Path)
		}
	}
	return nil
}

// String summarizes the config for logs.
func (c *ProfileConfig) String() string {
	target := c.TargetDir
	if target == "" {
		target = "~"
	}
	return fmt.Sprintf("ProfileConfig(target=%s, mappings=%d)", target, len(c.Mappings))
}
