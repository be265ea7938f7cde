package devtasks

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/ngld/devtasks/pkg/tasks"
)

// PypiTarget returns the twine repository for the given flags. Exactly one of them has to be set.
func PypiTarget(test, live bool) (string, error) {
	if test == live {
		return "", eris.Wrap(ErrFlagConflict, "Must specify whether to upload to test or live PyPI")
	}

	if test {
		return "test", nil
	}
	return "pypi", nil
}

// Pypi builds an sdist and uploads it with twine
func Pypi(ctx context.Context, env *tasks.Env, args tasks.Args) error {
	target, err := PypiTarget(args.Bool("test"), args.Bool("live"))
	if err != nil {
		return err
	}

	return env.Shell.InRoot(func() error {
		if err := env.Run(ctx, "python setup.py sdist"); err != nil {
			return err
		}

		return env.Runf(ctx, "twine upload -r %s dist/*", target)
	})
}
