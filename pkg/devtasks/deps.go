package devtasks

import (
	"context"
	"path/filepath"
	"runtime"

	"github.com/ngld/devtasks/pkg/tasks"
)

// Deps installs the requirements file with pip
func Deps(ctx context.Context, env *tasks.Env, _ tasks.Args) error {
	return env.Shell.InRoot(func() error {
		return env.Runf(ctx, "pip install -r %s", env.Config.Requirements)
	})
}

func defaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "start"
	default:
		return "xdg-open"
	}
}

// Docs builds the HTML documentation with make and opens the index page
func Docs(ctx context.Context, env *tasks.Env, _ tasks.Args) error {
	opener := env.Config.Docs.Opener
	if opener == "" {
		opener = defaultOpener()
	}

	docsDir := filepath.ToSlash(env.Config.Docs.Dir)
	return env.Shell.InRoot(func() error {
		if err := env.Runf(ctx, "make -C %s html", docsDir); err != nil {
			return err
		}

		return env.Runf(ctx, "%s %s/build/html/index.html", opener, docsDir)
	})
}

// Lint runs pylint with the configured rc file over the package
func Lint(ctx context.Context, env *tasks.Env, _ tasks.Args) error {
	exe, err := env.Shell.RequireTool("pylint")
	if err != nil {
		return err
	}

	return env.Shell.InRoot(func() error {
		return env.Runf(ctx, "%s --rcfile %s %s", exe, env.Config.PylintRC, env.Config.Package)
	})
}
