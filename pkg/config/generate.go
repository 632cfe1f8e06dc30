package config

import (
	"bytes"

	"github.com/arthur-debert/dfm/pkg/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a config file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

const generatedHeader = "# dfm profile configuration\n" +
	"# Mappings are evaluated in order, before the built-in rules.\n\n"

// Sample returns the example profile written by Generate.
func Sample() *ProfileConfig {
	return &ProfileConfig{
		TargetDir: "~",
		Mappings: []MappingConfig{
			{Match: `\.vimrc$`, TargetDir: "~/.config/vim"},
			{Match: "secrets", Skip: true, TargetOS: []string{"darwin"}},
			{Match: "nvim", LinkAsDir: true, Dest: "~/.config/nvim"},
		},
	}
}

// Generate renders the sample profile in the given format.
func Generate(format Format) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(generatedHeader)

	switch format {
	case FormatYAML, "":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(Sample()); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode yaml")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode yaml")
		}
	case FormatTOML:
		enc := toml.NewEncoder(&buf)
		if err := enc.Encode(Sample()); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode toml")
		}
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown config format %q", format).
			WithDetail("format", string(format))
	}

	return buf.Bytes(), nil
}

// FileName returns the profile config file name for format.
func FileName(format Format) string {
	if format == FormatTOML {
		return ".dfm.toml"
	}
	return ".dfm.yml"
}
