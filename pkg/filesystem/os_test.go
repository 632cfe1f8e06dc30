// Test Type: Integration Test
// Description: Tests the OS filesystem against a temp directory

package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dfm/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFS_SymlinkLifecycle(t *testing.T) {
	fs := filesystem.NewOS()
	root := t.TempDir()

	src := filepath.Join(root, "src", ".bashrc")
	require.NoError(t, fs.MkdirAll(filepath.Dir(src), 0755))
	require.NoError(t, os.WriteFile(src, []byte("export X=1"), 0644))

	dst := filepath.Join(root, "home", ".bashrc")
	require.NoError(t, fs.MkdirAll(filepath.Dir(dst), 0755))
	require.NoError(t, fs.Symlink(src, dst))

	info, err := fs.Lstat(dst)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)

	info, err = fs.Stat(dst)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular(), "Stat should follow the link")

	target, err := fs.Readlink(dst)
	require.NoError(t, err)
	assert.Equal(t, src, target)

	resolved, err := fs.EvalSymlinks(dst)
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(src)
	require.NoError(t, err)
	assert.Equal(t, want, resolved)

	require.NoError(t, fs.Remove(dst))
	_, err = fs.Lstat(dst)
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, src)

	require.NoError(t, fs.RemoveAll(filepath.Join(root, "src")))
	assert.NoDirExists(t, filepath.Join(root, "src"))
}
