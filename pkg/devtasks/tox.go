package devtasks

import (
	"context"

	"github.com/ngld/devtasks/pkg/shell"
	"github.com/ngld/devtasks/pkg/tasks"
)

// ToxCommand builds the tox command line. env and hashseed are only passed if set.
func ToxCommand(exe, testConfig string, rebuild bool, env, hashseed *string) (string, error) {
	cmd := "%s -c %s"
	values := []interface{}{exe, testConfig}

	if rebuild {
		cmd += " -r"
	}

	if env != nil {
		cmd += " -e %s"
		values = append(values, *env)
	}

	if hashseed != nil {
		cmd += " --hashseed %s"
		values = append(values, *hashseed)
	}

	return shell.Command(cmd, values...)
}

func optional(args tasks.Args, name string) *string {
	value, ok := args.Lookup(name)
	if !ok {
		return nil
	}
	return &value
}

// Tox runs the test suite in all (or the selected) tox environments
func Tox(ctx context.Context, env *tasks.Env, args tasks.Args) error {
	exe, err := env.Shell.RequireTool("tox")
	if err != nil {
		return err
	}

	cmdline, err := ToxCommand(exe, env.Config.TestConfig, args.Bool("rebuild"), optional(args, "env"), optional(args, "hashseed"))
	if err != nil {
		return err
	}

	return env.Shell.InRoot(func() error {
		return env.Run(ctx, cmdline)
	})
}
