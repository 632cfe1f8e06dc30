package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dfm/pkg/errors"
	"github.com/arthur-debert/dfm/pkg/links"
	"github.com/arthur-debert/dfm/pkg/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLister []string

func (s staticLister) ListFiles(string) ([]string, error) { return s, nil }

type fixture struct {
	source string
	target string
	files  staticLister
}

func newFixture(t *testing.T, files ...string) *fixture {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	root := t.TempDir()
	f := &fixture{
		source: filepath.Join(root, "dotfiles"),
		target: filepath.Join(root, "home"),
	}
	require.NoError(t, os.MkdirAll(f.source, 0755))
	require.NoError(t, os.MkdirAll(f.target, 0755))
	for _, name := range files {
		path := filepath.Join(f.source, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0644))
		f.files = append(f.files, path)
	}
	return f
}

func (f *fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd(&globalOptions{lister: f.files})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--source", f.source, "--target", f.target}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestLinkCommand(t *testing.T) {
	f := newFixture(t, ".bashrc", ".git/config", "README.md")

	out, err := f.run(t, "link", "--format", "json")
	require.NoError(t, err)

	var report links.LinkReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, []links.Directive{{
		Source:      filepath.Join(f.source, ".bashrc"),
		Destination: filepath.Join(f.target, ".bashrc"),
	}}, report.Linked)

	got, err := os.Readlink(filepath.Join(f.target, ".bashrc"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.source, ".bashrc"), got)
}

func TestLinkCommand_DryRunAndOverwrite(t *testing.T) {
	f := newFixture(t, ".bashrc")
	dst := filepath.Join(f.target, ".bashrc")
	require.NoError(t, os.WriteFile(dst, []byte("mine"), 0644))

	out, err := f.run(t, "link", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "obstructed")

	out, err = f.run(t, "link", "--overwrite", "--dry-run", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run")
	assert.FileExists(t, dst)

	_, err = f.run(t, "link", "--overwrite")
	require.NoError(t, err)
	got, err := os.Readlink(dst)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.source, ".bashrc"), got)
}

func TestStatusAndUnlinkCommands(t *testing.T) {
	f := newFixture(t, ".bashrc", ".zshrc")
	require.NoError(t, os.Symlink(filepath.Join(f.source, ".bashrc"), filepath.Join(f.target, ".bashrc")))

	out, err := f.run(t, "status", "--format", "json")
	require.NoError(t, err)
	var statuses []links.DirectiveStatus
	require.NoError(t, json.Unmarshal([]byte(out), &statuses))
	require.Len(t, statuses, 2)
	assert.Equal(t, links.StateLinked, statuses[0].State)
	assert.Equal(t, links.StateMissing, statuses[1].State)

	_, err = f.run(t, "unlink")
	require.NoError(t, err)
	_, err = os.Lstat(filepath.Join(f.target, ".bashrc"))
	assert.True(t, os.IsNotExist(err))
}

func TestConfigDrivesCommands(t *testing.T) {
	f := newFixture(t, ".vimrc", "secrets/token")
	require.NoError(t, os.WriteFile(filepath.Join(f.source, ".dfm.yml"), []byte(`
mappings:
  - match: "\\.vimrc$"
    target_dir: `+filepath.Join(f.target, ".config", "vim")+`
  - match: secrets
    skip: true
`), 0644))

	out, err := f.run(t, "plan", "--format", "json")
	require.NoError(t, err)

	var directives []links.Directive
	require.NoError(t, json.Unmarshal([]byte(out), &directives))
	assert.Equal(t, []links.Directive{{
		Source:      filepath.Join(f.source, ".vimrc"),
		Destination: filepath.Join(f.target, ".config", "vim", ".vimrc"),
	}}, directives)

	out, err = f.run(t, "mappings", "--format", "json")
	require.NoError(t, err)
	var rows []output.MappingRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Equal(t, "secrets", rows[1].Match)
	assert.False(t, rows[1].Builtin)
	assert.True(t, rows[2].Builtin)
}

func TestGenConfigCommand(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "genconfig")
	require.NoError(t, err)
	assert.Contains(t, out, "mappings:")

	out, err = f.run(t, "genconfig", "--toml")
	require.NoError(t, err)
	assert.Contains(t, out, "[[mappings]]")

	_, err = f.run(t, "genconfig", "--write", "--dry-run")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(f.source, ".dfm.yml"))

	_, err = f.run(t, "genconfig", "--write")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(f.source, ".dfm.yml"))

	_, err = f.run(t, "genconfig", "--write")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestCommandErrors(t *testing.T) {
	f := newFixture(t, ".bashrc")

	t.Run("bad_format", func(t *testing.T) {
		_, err := f.run(t, "plan", "--format", "xml")
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("profile_and_source", func(t *testing.T) {
		_, err := f.run(t, "plan", "--profile", "work")
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("bad_config", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(f.source, ".dfm.yml"), []byte("mappings:\n  - match: \"(\"\n"), 0644))
		t.Cleanup(func() { _ = os.Remove(filepath.Join(f.source, ".dfm.yml")) })

		_, err := f.run(t, "link")
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	})
}

func TestProfileResolution(t *testing.T) {
	f := newFixture(t, ".bashrc")
	configDir := t.TempDir()
	t.Setenv("DFM_CONFIG_DIR", configDir)

	profile := filepath.Join(configDir, "profiles", "work")
	require.NoError(t, os.MkdirAll(profile, 0755))

	cmd := newRootCmd(&globalOptions{lister: staticLister{filepath.Join(profile, ".workrc")}})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--profile", "work", "--target", f.target, "plan", "--format", "text"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), filepath.Join(f.target, ".workrc"))
}

func TestVersionAndHelp(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dfm version")

	out, err = f.run(t, "help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "mappings")
	assert.Contains(t, out, "--dry-run")

	out, err = f.run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "dfm")
}

func TestRemoveCommand(t *testing.T) {
	setup := func(t *testing.T) (profile, target string, run func(args ...string) (string, error)) {
		t.Helper()
		t.Setenv("XDG_STATE_HOME", t.TempDir())
		configDir := t.TempDir()
		t.Setenv("DFM_CONFIG_DIR", configDir)

		profile = filepath.Join(configDir, "profiles", "work")
		target = t.TempDir()
		require.NoError(t, os.MkdirAll(profile, 0755))
		src := filepath.Join(profile, ".workrc")
		require.NoError(t, os.WriteFile(src, []byte("work"), 0644))
		require.NoError(t, os.Symlink(src, filepath.Join(target, ".workrc")))
		require.NoError(t, os.WriteFile(filepath.Join(target, ".bashrc"), []byte("mine"), 0644))

		run = func(args ...string) (string, error) {
			cmd := newRootCmd(&globalOptions{lister: staticLister{src}})
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs(append([]string{"--target", target}, args...))
			err := cmd.Execute()
			return out.String(), err
		}
		return profile, target, run
	}

	t.Run("dry_run_keeps_everything", func(t *testing.T) {
		profile, target, run := setup(t)

		out, err := run("remove", "work", "--dry-run", "--format", "text")
		require.NoError(t, err)
		assert.Contains(t, out, "would unlink")
		assert.Contains(t, out, "would remove profile work")

		assert.DirExists(t, profile)
		_, err = os.Readlink(filepath.Join(target, ".workrc"))
		assert.NoError(t, err)
	})

	t.Run("removes_links_then_profile", func(t *testing.T) {
		profile, target, run := setup(t)

		out, err := run("remove", "work", "--format", "json")
		require.NoError(t, err)

		var removal output.ProfileRemoval
		require.NoError(t, json.Unmarshal([]byte(out), &removal))
		assert.Equal(t, "work", removal.Profile)
		require.Len(t, removal.Unlinked, 1)
		assert.Equal(t, filepath.Join(target, ".workrc"), removal.Unlinked[0].Destination)

		assert.NoDirExists(t, profile)
		_, err = os.Lstat(filepath.Join(target, ".workrc"))
		assert.True(t, os.IsNotExist(err))
		assert.FileExists(t, filepath.Join(target, ".bashrc"))
	})

	t.Run("missing_profile", func(t *testing.T) {
		_, _, run := setup(t)
		_, err := run("remove", "home")
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	})

	t.Run("rejects_source", func(t *testing.T) {
		_, _, run := setup(t)
		_, err := run("--source", t.TempDir(), "remove", "work")
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}
