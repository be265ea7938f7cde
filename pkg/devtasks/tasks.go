// Package devtasks contains the built-in development tasks for a Python package: cleaning,
// dependency installation, docs, linting, packaging and tests.
package devtasks

import (
	"github.com/rotisserie/eris"

	"github.com/ngld/devtasks/pkg/tasks"
)

var (
	// ErrFlagConflict is returned when mutually exclusive flags are combined or all are missing
	ErrFlagConflict = eris.New("invalid flag combination")
	// ErrMissingEnv is returned when a required environment variable isn't set
	ErrMissingEnv = eris.New("missing environment variable")
)

// Register adds all built-in tasks to registry
func Register(registry *tasks.Registry) error {
	return registry.Add(
		&tasks.Task{
			Short: "clean",
			Desc:  "Wipe *.py[co] files and test leftovers",
			Run:   Clean,
		},
		&tasks.Task{
			Short: "deps",
			Desc:  "Install the development dependencies",
			Run:   Deps,
		},
		&tasks.Task{
			Short: "docs",
			Desc:  "Build the HTML documentation and open it",
			Run:   Docs,
		},
		&tasks.Task{
			Short: "lint",
			Desc:  "Run pylint on the package",
			Deps:  []string{"clean"},
			Run:   Lint,
		},
		&tasks.Task{
			Short: "pypi",
			Desc:  "Build a source distribution and upload it to PyPI",
			Params: []tasks.Param{
				{Name: "test", Kind: tasks.BoolParam, Help: "upload to the test index"},
				{Name: "live", Kind: tasks.BoolParam, Help: "upload to the live index"},
			},
			Run: Pypi,
		},
		&tasks.Task{
			Short:      "test",
			Desc:       "Run the test suite and measure code coverage",
			Deps:       []string{"clean"},
			Positional: "additional py.test options",
			Run:        Test,
		},
		&tasks.Task{
			Short: "testcircle",
			Desc:  "Run the test suite and write CI reports",
			Deps:  []string{"clean"},
			Run:   TestCircle,
		},
		&tasks.Task{
			Short: "tox",
			Desc:  "Run the test suite using tox",
			Params: []tasks.Param{
				{Name: "rebuild", Kind: tasks.BoolParam, Help: "recreate the virtual environments"},
				{Name: "env", Kind: tasks.StringParam, Help: "only run the named environment"},
				{Name: "hashseed", Kind: tasks.StringParam, Help: "set PYTHONHASHSEED"},
			},
			Run: Tox,
		},
	)
}
