// Package mapping implements the rewrite rules that decide, for a single
// source file, whether it is skipped and where its link is placed.
//
// A Mapping is evaluated against absolute source paths with a regular
// expression substring search. Evaluation never reads ambient process state:
// the current OS identifier is passed in by the caller.
package mapping

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arthur-debert/dfm/pkg/errors"
	"github.com/arthur-debert/dfm/pkg/paths"
	"github.com/arthur-debert/dfm/pkg/types"
)

// Options describes a mapping the way it is written in a profile config.
type Options struct {
	// Match is a regular expression searched for anywhere in the source path.
	Match string
	// LinkAsDir links the matched directory instead of the files below it.
	LinkAsDir bool
	// Dest replaces the destination. Relative values are joined onto
	// TargetDir, or onto the link manager's target directory.
	Dest string
	// TargetDir re-roots destinations that fall under the manager's target directory.
	TargetDir string
	// Skip excludes matching files.
	Skip bool
	// TargetOS restricts Skip and destination rewriting to the listed OSes.
	TargetOS []string
}

// Mapping is a compiled rewrite rule.
type Mapping struct {
	pattern   string
	rgx       *regexp.Regexp
	linkAsDir bool
	dest      string
	targetDir string
	skip      bool
	targetOS  []string
}

// New compiles opts into a Mapping. Dest and TargetDir have a leading ~
// expanded; relative ones are resolved later against the manager's target
// directory. An invalid pattern is a configuration error.
func New(opts Options) (*Mapping, error) {
	if opts.Match == "" {
		return nil, errors.New(errors.ErrConfigValid, "mapping has an empty match pattern")
	}

	rgx, err := regexp.Compile(opts.Match)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigValid, "invalid mapping pattern %q", opts.Match).
			WithDetail("pattern", opts.Match)
	}

	m := &Mapping{
		pattern:   opts.Match,
		rgx:       rgx,
		linkAsDir: opts.LinkAsDir,
		skip:      opts.Skip,
	}
	if opts.Dest != "" {
		m.dest = filepath.Clean(paths.ExpandHome(opts.Dest))
	}
	if opts.TargetDir != "" {
		m.targetDir = filepath.Clean(paths.ExpandHome(opts.TargetDir))
	}
	for _, goos := range opts.TargetOS {
		if goos = strings.TrimSpace(goos); goos != "" {
			m.targetOS = append(m.targetOS, goos)
		}
	}

	return m, nil
}

// MustNew is like New but panics on error. It is meant for built-in rules.
func MustNew(opts Options) *Mapping {
	m, err := New(opts)
	if err != nil {
		panic(err)
	}
	return m
}

// Pattern returns the raw regular expression.
func (m *Mapping) Pattern() string { return m.pattern }

// LinkAsDir reports whether the mapping links a whole directory.
func (m *Mapping) LinkAsDir() bool { return m.linkAsDir }

// Dest returns the destination override, or "".
func (m *Mapping) Dest() string { return m.dest }

// TargetDir returns the target directory override, or "".
func (m *Mapping) TargetDir() string { return m.targetDir }

// Skip returns the raw skip flag, regardless of OS.
func (m *Mapping) Skip() bool { return m.skip }

// TargetOS returns a copy of the OS condition.
func (m *Mapping) TargetOS() []string {
	return append([]string(nil), m.targetOS...)
}

// Matches reports whether the pattern is found anywhere in path.
func (m *Mapping) Matches(path string) bool {
	return m.rgx.MatchString(path)
}

// OnTargetOS reports whether goos is one of the mapping's target OSes.
// Identifiers compare case-insensitively, so "Darwin" and "darwin" are equal.
func (m *Mapping) OnTargetOS(goos string) bool {
	for _, target := range m.targetOS {
		if strings.EqualFold(target, goos) {
			return true
		}
	}
	return false
}

// ShouldSkip reports whether files matching this mapping are excluded on goos.
// An OS-conditional skip rule only applies on the OSes it names.
func (m *Mapping) ShouldSkip(goos string) bool {
	if !m.skip {
		return false
	}
	if len(m.targetOS) == 0 {
		return true
	}
	return m.OnTargetOS(goos)
}

// ResolveDestination rewrites defaultDest according to the mapping.
// managerTargetDir is the link manager's own target directory, which
// targetDir overrides re-root from.
func (m *Mapping) ResolveDestination(defaultDest, managerTargetDir, goos string) string {
	switch {
	case len(m.targetOS) > 0 && !m.OnTargetOS(goos):
		return defaultDest

	case m.dest != "":
		if filepath.IsAbs(m.dest) {
			return m.dest
		}
		return filepath.Join(m.base(managerTargetDir), m.dest)

	case m.targetDir != "":
		rel, err := filepath.Rel(managerTargetDir, defaultDest)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return defaultDest
		}
		return filepath.Join(m.base(managerTargetDir), rel)

	default:
		return defaultDest
	}
}

// base is the directory relative destinations are joined onto. A relative
// target_dir is itself taken relative to the manager's target directory.
func (m *Mapping) base(managerTargetDir string) string {
	switch {
	case m.targetDir == "":
		return managerTargetDir
	case filepath.IsAbs(m.targetDir):
		return m.targetDir
	default:
		return filepath.Join(managerTargetDir, m.targetDir)
	}
}

// SourcePathForDirMapping returns the directory a link-as-dir mapping links.
// A pattern that already contains sourceRoot is taken as the absolute path;
// otherwise the pattern is joined onto sourceRoot and must name an existing
// directory.
func (m *Mapping) SourcePathForDirMapping(sourceRoot string, fsys types.FS) (string, error) {
	if !m.linkAsDir {
		return "", errors.Newf(errors.ErrInternal, "mapping %s is not a link-as-dir mapping", m.pattern)
	}

	if strings.Contains(m.pattern, sourceRoot) {
		return m.pattern, nil
	}

	path := filepath.Join(sourceRoot, m.pattern)
	info, err := fsys.Stat(path)
	if err != nil || !info.IsDir() {
		dfmErr := errors.Newf(errors.ErrConfigValid,
			"could not resolve %s to a directory in %s", m.pattern, sourceRoot).
			WithDetail("pattern", m.pattern).
			WithDetail("path", path)
		if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			dfmErr.Wrapped = err
		}
		return "", dfmErr
	}

	return path, nil
}

// String renders the mapping for diagnostics.
func (m *Mapping) String() string {
	var to string
	switch {
	case m.dest != "":
		to = m.dest
	case m.targetDir != "":
		to = m.targetDir + string(filepath.Separator)
	case m.skip:
		to = "SKIP"
	case m.linkAsDir:
		to = "DIR"
	default:
		to = "UNKNOWN"
	}
	return fmt.Sprintf("Mapping(%s -> %s, os=%v)", m.pattern, to, m.targetOS)
}
