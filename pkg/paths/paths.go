package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dfm/pkg/errors"
)

// Environment variable names
const (
	// EnvSourceDir overrides source root discovery
	EnvSourceDir = "DFM_SOURCE_DIR"

	// EnvConfigDir overrides the XDG config directory for dfm
	EnvConfigDir = "DFM_CONFIG_DIR"

	// EnvXDGConfigHome is read before falling back to the xdg package default
	EnvXDGConfigHome = "XDG_CONFIG_HOME"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// DfmDirName is the directory name for dfm-specific files
	DfmDirName = "dfm"

	// ProfilesDirName is the subdirectory of the dfm dir holding profiles
	ProfilesDirName = "profiles"
)

// HomeDir returns the current user's home directory.
func HomeDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	return xdg.Home
}

// ExpandHome expands a leading ~ to the home directory. Paths of the form
// ~user are returned unchanged.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	if len(path) == 1 {
		return HomeDir()
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(HomeDir(), path[2:])
	}

	return path
}

// NormalizePath expands home, makes the path absolute and cleans it.
func NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", path)
	}

	return filepath.Clean(abs), nil
}

// DfmDir returns the dfm configuration and state directory.
func DfmDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return ExpandHome(dir)
	}

	configHome := os.Getenv(EnvXDGConfigHome)
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, DfmDirName)
}

// ProfilesDir returns the directory holding named profiles.
func ProfilesDir() string {
	return filepath.Join(DfmDir(), ProfilesDirName)
}

// ProfilePath returns the source directory of the named profile.
func ProfilePath(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", errors.Newf(errors.ErrInvalidInput, "invalid profile name %q", name)
	}
	return filepath.Join(ProfilesDir(), name), nil
}

// FindSourceRoot determines the source root using the following priority:
// 1. DFM_SOURCE_DIR environment variable (if set)
// 2. Git repository root (found via 'git rev-parse --show-toplevel')
// 3. Current working directory (fallback)
//
// The boolean result reports whether the working directory fallback was used.
func FindSourceRoot() (string, bool, error) {
	if root := os.Getenv(EnvSourceDir); root != "" {
		abs, err := NormalizePath(root)
		return abs, false, err
	}

	if gitRoot, err := findGitRoot(); err == nil && gitRoot != "" {
		return gitRoot, false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrap(err, errors.ErrFileAccess, "failed to get current directory")
	}

	return cwd, true, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}

	return gitRoot, nil
}
