// Package types defines the interfaces shared between dfm's packages.
// The FS interface lets the link manager and mappings run against the real
// filesystem or a test double.
package types
