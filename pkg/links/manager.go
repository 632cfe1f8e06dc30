// Package links resolves the files of a dotfile source directory into link
// directives and applies them to a target directory.
//
// A LinkManager evaluates every source file against an ordered list of
// mappings. User mappings come first and the built-in defaults last; when
// several mappings match a file, each match replaces the decision of the
// previous one, so the last matching mapping in the list wins.
package links

import (
	"runtime"

	"github.com/arthur-debert/dfm/pkg/config"
	"github.com/arthur-debert/dfm/pkg/filesystem"
	"github.com/arthur-debert/dfm/pkg/git"
	"github.com/arthur-debert/dfm/pkg/logging"
	"github.com/arthur-debert/dfm/pkg/mapping"
	"github.com/arthur-debert/dfm/pkg/paths"
	"github.com/arthur-debert/dfm/pkg/types"
	"github.com/rs/zerolog"
)

// LinkManager owns one source directory, one target directory and the
// mappings between them. It is meant for a single linking pass.
type LinkManager struct {
	sourceDir string
	targetDir string
	goos      string
	mappings  []*mapping.Mapping
	fs        types.FS
	lister    SourceLister
	logger    zerolog.Logger
}

// Option configures a LinkManager.
type Option func(*LinkManager)

// WithTargetDir sets the directory links are created under. ~ is expanded.
func WithTargetDir(dir string) Option {
	return func(m *LinkManager) { m.targetDir = dir }
}

// WithMappings replaces the mapping list, including the defaults.
func WithMappings(mappings []*mapping.Mapping) Option {
	return func(m *LinkManager) { m.mappings = mappings }
}

// WithOS sets the OS identifier used for OS-conditional mappings.
func WithOS(goos string) Option {
	return func(m *LinkManager) { m.goos = goos }
}

// WithFS sets the filesystem used for all reads and mutations.
func WithFS(fs types.FS) Option {
	return func(m *LinkManager) { m.fs = fs }
}

// WithLister sets the source enumeration collaborator.
func WithLister(lister SourceLister) Option {
	return func(m *LinkManager) { m.lister = lister }
}

// New creates a LinkManager for sourceDir. Without options it links into the
// user's home directory using the default mappings, the OS filesystem, git
// enumeration and the running OS.
func New(sourceDir string, opts ...Option) (*LinkManager, error) {
	m := &LinkManager{
		goos:   runtime.GOOS,
		logger: logging.GetLogger("links.manager"),
	}
	for _, opt := range opts {
		opt(m)
	}

	source, err := paths.NormalizePath(sourceDir)
	if err != nil {
		return nil, err
	}
	m.sourceDir = source

	if m.targetDir == "" {
		m.targetDir = paths.HomeDir()
	}
	target, err := paths.NormalizePath(m.targetDir)
	if err != nil {
		return nil, err
	}
	m.targetDir = target

	if m.mappings == nil {
		m.mappings = mapping.Defaults()
	}
	if m.fs == nil {
		m.fs = filesystem.NewOS()
	}
	if m.lister == nil {
		m.lister = git.NewLister()
	}

	m.logger.Debug().
		Str("source", m.sourceDir).
		Str("target", m.targetDir).
		Str("os", m.goos).
		Int("mappings", len(m.mappings)).
		Msg("Link manager created")

	return m, nil
}

// FromConfig creates a LinkManager from a profile configuration. The
// configured mappings are evaluated first, in order, followed by the
// defaults. A configured target directory is used unless opts override it.
func FromConfig(sourceDir string, cfg *config.ProfileConfig, opts ...Option) (*LinkManager, error) {
	if cfg == nil {
		cfg = &config.ProfileConfig{}
	}

	mappings := make([]*mapping.Mapping, 0, len(cfg.Mappings)+6)
	for _, mc := range cfg.Mappings {
		mp, err := mapping.New(mc.Options())
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, mp)
	}
	mappings = append(mappings, mapping.Defaults()...)

	base := []Option{WithMappings(mappings)}
	if cfg.TargetDir != "" {
		base = append(base, WithTargetDir(cfg.TargetDir))
	}

	return New(sourceDir, append(base, opts...)...)
}

// SourceDir returns the absolute source directory.
func (m *LinkManager) SourceDir() string { return m.sourceDir }

// TargetDir returns the absolute target directory.
func (m *LinkManager) TargetDir() string { return m.targetDir }

// OS returns the OS identifier captured at construction.
func (m *LinkManager) OS() string { return m.goos }

// Mappings returns the mappings in evaluation order.
func (m *LinkManager) Mappings() []*mapping.Mapping {
	return append([]*mapping.Mapping(nil), m.mappings...)
}
