package devtasks

import (
	"context"

	"github.com/ngld/devtasks/pkg/shell"
	"github.com/ngld/devtasks/pkg/tasks"
)

var (
	cleanFiles = []string{"pytest.xml", "coverage.xml"}
	cleanDirs  = []string{"_coverage", "build", "dist"}
)

// Clean removes coverage data, compiled Python files, reports and build output from the project root
func Clean(ctx context.Context, env *tasks.Env, _ tasks.Args) error {
	return env.Shell.InRoot(func() error {
		coverage, err := shell.Files(".", ".coverage*", false)
		if err != nil {
			return err
		}

		compiled, err := shell.Files(".", "*.py[co]", true)
		if err != nil {
			return err
		}

		files := append(coverage, compiled...)
		files = append(files, cleanFiles...)

		tasks.Log(ctx).Debug().Strs("files", files).Strs("dirs", cleanDirs).Msg("removing")
		if env.DryRun {
			return nil
		}

		if err = shell.Rm(files...); err != nil {
			return err
		}

		return shell.RmRf(cleanDirs...)
	})
}
