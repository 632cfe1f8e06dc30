// Package filesystem provides filesystem implementations for dfm.
//
// This package contains the OS-backed implementation of the types.FS
// interface used by the link manager.
package filesystem
