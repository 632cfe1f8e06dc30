package links

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dfm/pkg/errors"
	"github.com/arthur-debert/dfm/pkg/logging"
)

// Link creates a symlink for every directive. A destination occupied by real
// data is reported in LinkReport.Obstructed and left alone unless overwrite
// is set. A dry run reports the same outcome without touching the filesystem.
func (m *LinkManager) Link(dryRun, overwrite bool) (*LinkReport, error) {
	defer logging.Timed(m.logger, "link")()

	if err := m.Validate(); err != nil {
		return nil, err
	}

	directives, err := m.EnumerateDirectives()
	if err != nil {
		return nil, err
	}

	report := &LinkReport{
		DryRun:     dryRun,
		Linked:     []Directive{},
		Obstructed: []Directive{},
	}

	for _, d := range directives {
		blocked, err := m.clearObstruction(d.Destination, overwrite, dryRun)
		if err != nil {
			return report, err
		}
		if blocked {
			report.Obstructed = append(report.Obstructed, d)
			continue
		}

		if dryRun {
			m.logger.Info().
				Str("source", d.Source).
				Str("destination", d.Destination).
				Msg("Would link")
			report.Linked = append(report.Linked, d)
			continue
		}

		parent := filepath.Dir(d.Destination)
		if err := m.fs.MkdirAll(parent, 0755); err != nil {
			return report, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", parent).
				WithDetail("path", parent)
		}
		if err := m.fs.Symlink(d.Source, d.Destination); err != nil {
			return report, errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s", d.Destination).
				WithDetails(map[string]interface{}{
					"source":      d.Source,
					"destination": d.Destination,
				})
		}

		m.logger.Info().
			Str("source", d.Source).
			Str("destination", d.Destination).
			Msg("Linked")
		report.Linked = append(report.Linked, d)
	}

	return report, nil
}

// ClearObstruction prepares path for a new link and reports whether linking
// cannot proceed. A symlink is always removed. Real data is removed only
// when overwrite is set; otherwise it blocks the link.
func (m *LinkManager) ClearObstruction(path string, overwrite bool) (bool, error) {
	return m.clearObstruction(path, overwrite, false)
}

func (m *LinkManager) clearObstruction(path string, overwrite, dryRun bool) (bool, error) {
	info, err := m.fs.Lstat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", path).
			WithDetail("path", path)
	}

	inside, err := m.resolvesIntoSource(path)
	if err != nil {
		return false, err
	}
	if inside {
		obstruction := errors.Newf(errors.ErrObstruction, "%s resolves into the source tree", path).
			WithDetail("path", path)
		m.logger.Warn().Err(obstruction).Str("path", path).
			Msg("Destination is reached through a link into the source, skipping")
		return true, nil
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if dryRun {
			m.logger.Debug().Str("path", path).Msg("Would replace existing symlink")
			return false, nil
		}
		if err := m.fs.Remove(path); err != nil {
			return false, errors.Wrapf(err, errors.ErrFileRemove, "failed to remove symlink %s", path).
				WithDetail("path", path)
		}
		m.logger.Debug().Str("path", path).Msg("Removed existing symlink")
		return false, nil
	}

	if !overwrite {
		obstruction := errors.Newf(errors.ErrObstruction, "%s exists and is not a symlink", path).
			WithDetail("path", path)
		m.logger.Warn().Err(obstruction).Str("path", path).Msg("Destination obstructed, skipping")
		return true, nil
	}

	if dryRun {
		m.logger.Info().Str("path", path).Bool("dir", info.IsDir()).Msg("Would overwrite")
		return false, nil
	}

	if info.IsDir() {
		err = m.fs.RemoveAll(path)
	} else {
		err = m.fs.Remove(path)
	}
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileRemove, "failed to remove %s", path).
			WithDetail("path", path)
	}
	m.logger.Info().Str("path", path).Msg("Overwrote existing data")

	return false, nil
}

// resolvesIntoSource reports whether path, with the symlinks in its parent
// resolved, lies inside the source directory. A parent linked by an earlier
// link_as_dir pass does this, and the "obstruction" is then the source file
// itself.
func (m *LinkManager) resolvesIntoSource(path string) (bool, error) {
	dir := filepath.Dir(path)
	parent, err := m.fs.EvalSymlinks(dir)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to resolve %s", dir).
			WithDetail("path", path)
	}

	root := m.sourceDir
	if resolved, err := m.fs.EvalSymlinks(root); err == nil {
		root = resolved
	}
	return within(root, filepath.Join(parent, filepath.Base(path))), nil
}

// within reports whether path is root or below it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Unlink removes every destination that is a symlink to its directive's
// source. Anything else at a destination is left untouched.
func (m *LinkManager) Unlink(dryRun bool) (*UnlinkReport, error) {
	defer logging.Timed(m.logger, "unlink")()

	return m.unlinkWhere(dryRun, func(st DirectiveStatus) bool {
		return st.State == StateLinked
	})
}

// UnlinkOwned is Unlink widened to destinations that are symlinks to any
// absolute path inside the source directory, such as links left by an older
// mapping set. It runs before a profile is deleted so that no link into it
// survives.
func (m *LinkManager) UnlinkOwned(dryRun bool) (*UnlinkReport, error) {
	defer logging.Timed(m.logger, "unlink_owned")()

	return m.unlinkWhere(dryRun, func(st DirectiveStatus) bool {
		switch st.State {
		case StateLinked:
			return true
		case StateForeign:
			return filepath.IsAbs(st.LinkTarget) && within(m.sourceDir, filepath.Clean(st.LinkTarget))
		}
		return false
	})
}

func (m *LinkManager) unlinkWhere(dryRun bool, remove func(DirectiveStatus) bool) (*UnlinkReport, error) {
	statuses, err := m.Status()
	if err != nil {
		return nil, err
	}

	report := &UnlinkReport{DryRun: dryRun, Removed: []Directive{}}
	for _, st := range statuses {
		if !remove(st) {
			continue
		}
		if !dryRun {
			if err := m.fs.Remove(st.Destination); err != nil {
				return report, errors.Wrapf(err, errors.ErrFileRemove, "failed to unlink %s", st.Destination).
					WithDetail("path", st.Destination)
			}
		}
		m.logger.Info().Str("destination", st.Destination).Bool("dry_run", dryRun).Msg("Unlinked")
		report.Removed = append(report.Removed, st.Directive)
	}

	return report, nil
}

// Status reports the on-disk state of every directive's destination.
func (m *LinkManager) Status() ([]DirectiveStatus, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	directives, err := m.EnumerateDirectives()
	if err != nil {
		return nil, err
	}

	statuses := make([]DirectiveStatus, 0, len(directives))
	for _, d := range directives {
		st, err := m.stateOf(d)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func (m *LinkManager) stateOf(d Directive) (DirectiveStatus, error) {
	st := DirectiveStatus{Directive: d}

	info, err := m.fs.Lstat(d.Destination)
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		st.State = StateMissing
		return st, nil
	case err != nil:
		return st, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", d.Destination).
			WithDetail("path", d.Destination)
	case info.Mode()&os.ModeSymlink == 0:
		st.State = StateObstructed
		return st, nil
	}

	target, err := m.fs.Readlink(d.Destination)
	if err != nil {
		return st, errors.Wrapf(err, errors.ErrFileAccess, "failed to read link %s", d.Destination).
			WithDetail("path", d.Destination)
	}
	st.LinkTarget = target
	if target == d.Source {
		st.State = StateLinked
	} else {
		st.State = StateForeign
	}
	return st, nil
}
