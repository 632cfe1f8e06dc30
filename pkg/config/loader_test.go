package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dfm/pkg/config"
	"github.com/arthur-debert/dfm/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadProfileConfig(t *testing.T) {
	t.Run("missing_file_gives_defaults", func(t *testing.T) {
		cfg, err := config.LoadProfileConfig(t.TempDir(), nil)
		require.NoError(t, err)

		assert.Empty(t, cfg.TargetDir)
		assert.Empty(t, cfg.Mappings)
		assert.Empty(t, cfg.Path)
	})

	t.Run("yaml", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, ".dfm.yml", `
target_dir: ~/home
mappings:
  - match: "\\.vimrc$"
    target_dir: ~/.config/vim
  - match: secrets
    skip: true
    target_os: darwin
  - match: nvim
    link_as_dir: true
    dest: ~/.config/nvim
  - match: work
    skip: true
    target_os: [darwin, linux]
`)

		cfg, err := config.LoadProfileConfig(dir, nil)
		require.NoError(t, err)

		assert.Equal(t, path, cfg.Path)
		assert.Equal(t, "~/home", cfg.TargetDir)
		assert.Equal(t, []config.MappingConfig{
			{Match: `\.vimrc$`, TargetDir: "~/.config/vim"},
			{Match: "secrets", Skip: true, TargetOS: []string{"darwin"}},
			{Match: "nvim", LinkAsDir: true, Dest: "~/.config/nvim"},
			{Match: "work", Skip: true, TargetOS: []string{"darwin", "linux"}},
		}, cfg.Mappings)
	})

	t.Run("toml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, ".dfm.toml", `
target_dir = "/opt/home"

[[mappings]]
match = "bashrc"
dest = ".bashrc_local"

[[mappings]]
match = "secrets"
skip = true
target_os = ["Darwin"]
`)

		cfg, err := config.LoadProfileConfig(dir, nil)
		require.NoError(t, err)

		assert.Equal(t, "/opt/home", cfg.TargetDir)
		require.Len(t, cfg.Mappings, 2)
		assert.Equal(t, ".bashrc_local", cfg.Mappings[0].Dest)
		assert.Equal(t, []string{"Darwin"}, cfg.Mappings[1].TargetOS)
	})

	t.Run("yml_preferred_over_toml", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, ".dfm.yml", "target_dir: /from/yml\n")
		writeFile(t, dir, ".dfm.toml", `target_dir = "/from/toml"`)

		cfg, err := config.LoadProfileConfig(dir, nil)
		require.NoError(t, err)
		assert.Equal(t, path, cfg.Path)
		assert.Equal(t, "/from/yml", cfg.TargetDir)
	})

	t.Run("env_overrides_file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, ".dfm.yaml", "target_dir: /from/file\n")
		t.Setenv("DFM_TARGET_DIR", "/from/env")
		t.Setenv("DFM_SOURCE_DIR", "/ignored")

		cfg, err := config.LoadProfileConfig(dir, nil)
		require.NoError(t, err)
		assert.Equal(t, "/from/env", cfg.TargetDir)
	})

	t.Run("overrides_win", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, ".dfm.yml", "target_dir: /from/file\n")
		t.Setenv("DFM_TARGET_DIR", "/from/env")

		cfg, err := config.LoadProfileConfig(dir, map[string]interface{}{"target_dir": "/from/flag"})
		require.NoError(t, err)
		assert.Equal(t, "/from/flag", cfg.TargetDir)
	})

	t.Run("malformed_file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, ".dfm.yml", "mappings: [unclosed\n")

		_, err := config.LoadProfileConfig(dir, nil)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
		assert.Equal(t, filepath.Join(dir, ".dfm.yml"), errors.GetErrorDetails(err)["path"])
	})

	t.Run("invalid_pattern", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, ".dfm.yml", "mappings:\n  - match: \"(\"\n")

		_, err := config.LoadProfileConfig(dir, nil)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
		assert.Equal(t, 0, errors.GetErrorDetails(err)["index"])
	})
}

func TestMappingConfig_Options(t *testing.T) {
	mc := config.MappingConfig{
		Match:     "x",
		LinkAsDir: true,
		Dest:      "d",
		TargetDir: "t",
		Skip:      true,
		TargetOS:  []string{"linux"},
	}
	opts := mc.Options()

	assert.Equal(t, "x", opts.Match)
	assert.True(t, opts.LinkAsDir)
	assert.Equal(t, "d", opts.Dest)
	assert.Equal(t, "t", opts.TargetDir)
	assert.True(t, opts.Skip)
	assert.Equal(t, []string{"linux"}, opts.TargetOS)

	opts.TargetOS[0] = "darwin"
	assert.Equal(t, "linux", mc.TargetOS[0], "options must not alias the config slice")
}

func TestGenerate(t *testing.T) {
	for _, format := range []config.Format{config.FormatYAML, config.FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			content, err := config.Generate(format)
			require.NoError(t, err)
			assert.Contains(t, string(content), "# dfm profile configuration")

			dir := t.TempDir()
			writeFile(t, dir, config.FileName(format), string(content))

			cfg, err := config.LoadProfileConfig(dir, nil)
			require.NoError(t, err)
			assert.Equal(t, config.Sample().TargetDir, cfg.TargetDir)
			assert.Equal(t, config.Sample().Mappings, cfg.Mappings)
		})
	}

	t.Run("unknown_format", func(t *testing.T) {
		_, err := config.Generate("ini")
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}
