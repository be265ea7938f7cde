package shell

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

func shellReadDir(path string) ([]os.FileInfo, error) {
	if path == "" {
		path = "."
	}

	return ioutil.ReadDir(path)
}

// Files returns all existing paths below base which match the glob pattern. If recursive is true,
// subdirectories are searched as well.
func Files(base, pattern string, recursive bool) ([]string, error) {
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to resolve %s", base)
	}

	if recursive {
		pattern = "**/" + pattern
	}

	// only the pattern may contain glob characters, base is matched literally
	quotedBase, err := syntax.Quote(filepath.ToSlash(base)+"/", syntax.LangBash)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to quote %s", base)
	}
	pattern = quotedBase + filepath.ToSlash(pattern)

	cfg := expand.Config{
		ReadDir:  shellReadDir,
		GlobStar: true,
	}

	words := make([]*syntax.Word, 0)
	err = syntax.NewParser().Words(strings.NewReader(pattern), func(w *syntax.Word) bool {
		words = append(words, w)
		return true
	})
	if err != nil {
		return nil, eris.Wrapf(err, "failed to parse pattern %s", pattern)
	}

	matches, err := expand.Fields(&cfg, words...)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to resolve pattern %s", pattern)
	}

	result := make([]string, 0, len(matches))
	for _, match := range matches {
		// a pattern without matches is returned as-is
		if _, err := os.Lstat(match); err == nil {
			result = append(result, filepath.FromSlash(match))
		}
	}

	return result, nil
}

// Rm deletes the given files. Missing files are ignored.
func Rm(names ...string) error {
	for _, name := range names {
		info, err := os.Lstat(name)
		if err != nil {
			if eris.Is(err, os.ErrNotExist) {
				continue
			}
			return eris.Wrapf(err, "could not stat %s", name)
		}

		if info.IsDir() {
			return eris.Errorf("%s is a directory", name)
		}

		if err = os.Remove(name); err != nil && !eris.Is(err, os.ErrNotExist) {
			return eris.Wrapf(err, "could not delete %s", name)
		}
	}

	return nil
}

// RmRf deletes the given files and directories including their contents. Missing paths are ignored.
func RmRf(names ...string) error {
	for _, name := range names {
		if err := os.RemoveAll(name); err != nil {
			return eris.Wrapf(err, "could not delete %s", name)
		}
	}

	return nil
}

// Mkdir creates the given directories. With parents set, missing parent directories are created too.
func Mkdir(parents bool, names ...string) error {
	for _, name := range names {
		var err error
		if parents {
			err = os.MkdirAll(name, 0770)
		} else {
			err = os.Mkdir(name, 0770)
		}

		if err != nil {
			return eris.Wrapf(err, "failed to create %s", name)
		}
	}

	return nil
}
