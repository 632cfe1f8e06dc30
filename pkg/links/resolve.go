package links

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/dfm/pkg/errors"
)

// resolution is the accumulator carried across mappings while resolving a
// single source file.
type resolution struct {
	skip        bool
	source      string
	destination string
}

// TranslateName returns the absolute source path of filename and its default
// destination: the path relative to the source directory, joined onto the
// target directory.
func (m *LinkManager) TranslateName(filename string) (source, destination string) {
	source = filename
	if abs, err := filepath.Abs(filename); err == nil {
		source = abs
	}
	source = filepath.Clean(source)

	rel := strings.TrimPrefix(source, m.sourceDir)
	rel = strings.TrimPrefix(rel, string(filepath.Separator))

	return source, filepath.Join(m.targetDir, rel)
}

// ResolveOne runs filename through the mappings. When the final decision is
// to skip, skip is true and the directive is empty.
func (m *LinkManager) ResolveOne(filename string) (Directive, bool, error) {
	src, dest := m.TranslateName(filename)
	acc := resolution{source: src, destination: dest}

	for _, mp := range m.mappings {
		if !mp.Matches(filename) {
			continue
		}

		next := resolution{source: acc.source, destination: acc.destination}
		switch {
		case mp.ShouldSkip(m.goos):
			next.skip = true
		case mp.LinkAsDir():
			dir, err := mp.SourcePathForDirMapping(m.sourceDir, m.fs)
			if err != nil {
				return Directive{}, false, err
			}
			next.source, next.destination = m.TranslateName(dir)
		default:
			next.destination = mp.ResolveDestination(acc.destination, m.targetDir, m.goos)
		}
		acc = next
	}

	if acc.skip {
		m.logger.Trace().Str("file", filename).Msg("Skipped")
		return Directive{}, true, nil
	}

	return Directive{Source: acc.source, Destination: acc.destination}, false, nil
}

// Validate checks that every link-as-dir mapping names an existing directory
// in the source tree.
func (m *LinkManager) Validate() error {
	for _, mp := range m.mappings {
		if !mp.LinkAsDir() {
			continue
		}
		if _, err := mp.SourcePathForDirMapping(m.sourceDir, m.fs); err != nil {
			return err
		}
	}
	return nil
}

// EnumerateDirectives resolves every file in the source directory and
// returns the distinct directives, ordered by destination.
func (m *LinkManager) EnumerateDirectives() ([]Directive, error) {
	files, err := m.lister.ListFiles(m.sourceDir)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrEnumeration) {
			return nil, err
		}
		return nil, errors.Wrapf(err, errors.ErrEnumeration, "failed to list files in %s", m.sourceDir).
			WithDetail("dir", m.sourceDir)
	}

	seen := make(map[Directive]struct{}, len(files))
	directives := make([]Directive, 0, len(files))
	skipped := 0

	for _, file := range files {
		d, skip, err := m.ResolveOne(file)
		if err != nil {
			return nil, err
		}
		if skip {
			skipped++
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		directives = append(directives, d)
	}

	sort.Slice(directives, func(i, j int) bool {
		if directives[i].Destination != directives[j].Destination {
			return directives[i].Destination < directives[j].Destination
		}
		return directives[i].Source < directives[j].Source
	})

	m.logger.Debug().
		Int("files", len(files)).
		Int("skipped", skipped).
		Int("directives", len(directives)).
		Msg("Directives enumerated")

	return directives, nil
}
