package devtasks

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ngld/devtasks/pkg/shell"
	"github.com/ngld/devtasks/pkg/tasks"
)

// TestCommand builds the py.test command line for the given package and config file
func TestCommand(pkg, testConfig string, options []string) (string, error) {
	cov, err := shell.NamedCommand("--cov=%(package)s", map[string]interface{}{"package": pkg})
	if err != nil {
		return "", err
	}

	command := []string{
		"py.test", "-c", testConfig, "-vv", "-s",
		"--doctest-modules", "--color=yes", "--exitfirst",
		cov,
		"--cov-config=" + testConfig,
		"--cov-report=html",
		"--no-cov-on-fail",
	}

	return strings.Join(append(command, options...), " "), nil
}

func runTests(ctx context.Context, env *tasks.Env, options []string) error {
	cmdline, err := TestCommand(env.Config.Package, env.Config.TestConfig, options)
	if err != nil {
		return err
	}

	return env.Shell.InRoot(func() error {
		return env.Run(ctx, cmdline)
	})
}

// Test runs the test suite and measures code coverage. Positional arguments are passed to py.test.
func Test(ctx context.Context, env *tasks.Env, args tasks.Args) error {
	return runTests(ctx, env, args.Positional())
}

// TestCircle runs the test suite like Test but writes JUnit and coverage reports to the CI report
// directory.
func TestCircle(ctx context.Context, env *tasks.Env, _ tasks.Args) error {
	name := env.Config.CI.ReportsEnv
	reports, ok := os.LookupEnv(name)
	if !ok || reports == "" {
		return eris.Wrapf(ErrMissingEnv, "%s", name)
	}

	return runTests(ctx, env, []string{
		"--junitxml",
		filepath.Join(reports, "pytest.xml"),
		"--cov-report=html",
		"--cov-report=xml",
		"--cov-report=term",
	})
}
