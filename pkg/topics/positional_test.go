package topics

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func TestPositional(t *testing.T) {
	flags := pflag.NewFlagSet("root", pflag.ContinueOnError)
	flags.String("source", "", "")
	flags.String("format", "auto", "")
	flags.BoolP("dry-run", "n", false, "")
	flags.CountP("verbose", "v", "")

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"plain", []string{"mappings"}, []string{"mappings"}},
		{"value flag", []string{"--source", "/src", "config"}, []string{"config"}},
		{"inline value", []string{"--format=json", "config"}, []string{"config"}},
		{"bool flag", []string{"--dry-run", "config"}, []string{"config"}},
		{"count shorthand", []string{"-vv", "config"}, []string{"config"}},
		{"unknown flag kept", []string{"--source", "/src", "--overwrite"}, []string{"--overwrite"}},
		{"separator kept", []string{"--", "x"}, []string{"--", "x"}},
		{"only inherited flags", []string{"--source", "/src", "--dry-run"}, []string{"--dry-run"}},
		{"no args", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, positional(flags, tt.args))
		})
	}
}
