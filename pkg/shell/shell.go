// Package shell contains the small set of helpers every task body needs: command formatting,
// executable lookup, a scoped working directory and file removal.
package shell

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrToolNotFound is returned by tasks which need an executable that isn't on the search path
var ErrToolNotFound = eris.New("not found")

// Shell bundles the project root and the search path used by the helpers
type Shell struct {
	Root string
	Path []string
}

// New returns a Shell for the given root. If path is empty, the directories from $PATH are used.
func New(root string, path []string) (*Shell, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to resolve project root %s", root)
	}

	if len(path) == 0 {
		path = SearchPath()
	}

	return &Shell{
		Root: root,
		Path: path,
	}, nil
}

// SearchPath returns the directories listed in $PATH in order
func SearchPath() []string {
	return filepath.SplitList(os.Getenv("PATH"))
}

// FromPath returns the first executable called name in s.Path. The second return value is false
// if no directory contains a matching file.
func (s *Shell) FromPath(name string) (string, bool) {
	candidates := []string{name}
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		for _, ext := range filepath.SplitList(os.Getenv("PATHEXT")) {
			candidates = append(candidates, name+strings.ToLower(ext))
		}
	}

	for _, dir := range s.Path {
		if dir == "" {
			dir = "."
		}

		for _, candidate := range candidates {
			path := filepath.Join(dir, candidate)
			if isExecutable(path) {
				return path, true
			}
		}
	}

	return "", false
}

// RequireTool works like FromPath but returns ErrToolNotFound if the executable is missing
func (s *Shell) RequireTool(name string) (string, error) {
	exe, ok := s.FromPath(name)
	if !ok {
		return "", eris.Wrapf(ErrToolNotFound, "%s", name)
	}

	return exe, nil
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	if runtime.GOOS == "windows" {
		return true
	}

	return info.Mode().Perm()&0111 != 0
}

// InRoot runs fn with the working directory set to s.Root
func (s *Shell) InRoot(fn func() error) error {
	return InDir(s.Root, fn)
}

// InDir changes the working directory to dir while fn runs. The previous directory is restored
// once fn returns, fails or panics.
func InDir(dir string, fn func() error) (err error) {
	prev, err := os.Getwd()
	if err != nil {
		return eris.Wrap(err, "failed to retrieve the current working directory")
	}

	if err = os.Chdir(dir); err != nil {
		return eris.Wrapf(err, "failed to change directory to %s", dir)
	}

	defer func() {
		if cdErr := os.Chdir(prev); cdErr != nil && err == nil {
			err = eris.Wrapf(cdErr, "failed to restore directory %s", prev)
		}
	}()

	return fn()
}
