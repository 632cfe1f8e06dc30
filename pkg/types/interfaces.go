package types

import (
	"io/fs"
)

// FS is every filesystem call the link manager makes. Tests wrap it to
// record or fail mutations.
type FS interface {
	// Inspection
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	Readlink(name string) (string, error)
	// EvalSymlinks resolves every symlink along path, as filepath.EvalSymlinks.
	EvalSymlinks(path string) (string, error)

	// Mutation
	MkdirAll(path string, perm fs.FileMode) error
	Symlink(oldname, newname string) error
	Remove(name string) error
	RemoveAll(path string) error
}
