package config

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// RootMarkers are the files whose presence marks a directory as the project root
var RootMarkers = []string{"tasks.toml", "tasks.yaml", "tasks.star", "setup.py", ".git"}

// FindProjectRoot returns the nearest directory (starting at start or the working directory)
// that contains one of RootMarkers.
func FindProjectRoot(start string) (string, error) {
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", eris.Wrap(err, "failed to retrieve the current working directory")
		}
		start = wd
	}

	path, err := filepath.Abs(start)
	if err != nil {
		return "", eris.Wrapf(err, "failed to resolve %s", start)
	}

	for {
		for _, marker := range RootMarkers {
			_, err := os.Stat(filepath.Join(path, marker))
			if err == nil {
				return path, nil
			}

			if !eris.Is(err, os.ErrNotExist) {
				return "", eris.Wrap(err, "error occurred while searching for project root")
			}
		}

		parent := filepath.Dir(path)
		if parent == path {
			break
		}
		path = parent
	}

	return "", eris.New("project root not found")
}
