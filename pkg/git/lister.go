// Package git enumerates the files of a source directory the way git sees
// them: tracked files plus untracked files that are not ignored.
package git

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dfm/pkg/errors"
	"github.com/arthur-debert/dfm/pkg/logging"
	"github.com/rs/zerolog"
)

var lsFilesArgs = []string{"ls-files", "-z", "--others", "--cached", "--exclude-standard"}

// Lister lists source files by running git in the source directory.
type Lister struct {
	gitBinary string
	logger    zerolog.Logger
}

// NewLister returns a Lister that runs the git found on PATH.
func NewLister() *Lister {
	return &Lister{
		gitBinary: "git",
		logger:    logging.GetLogger("git.lister"),
	}
}

// ListFiles returns the absolute paths of every tracked or untracked,
// non-ignored file below dir, in the order git reports them.
func (l *Lister) ListFiles(dir string) ([]string, error) {
	logging.LogCommand(l.logger, l.gitBinary, lsFilesArgs)

	cmd := exec.Command(l.gitBinary, lsFilesArgs...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrEnumeration,
			"git ls-files failed in %s: %s", dir, strings.TrimSpace(stderr.String())).
			WithDetail("dir", dir)
	}

	var files []string
	for _, entry := range strings.Split(stdout.String(), "\x00") {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		files = append(files, filepath.Join(dir, entry))
	}

	l.logger.Debug().
		Str("dir", dir).
		Int("files", len(files)).
		Msg("Enumerated source files")

	return files, nil
}
