package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngld/devtasks/pkg/devtasks"
	"github.com/ngld/devtasks/pkg/tasks"
	"github.com/ngld/devtasks/pkg/tasks/taskstest"
)

func newTestApp(t *testing.T) (*app, *taskstest.Recorder, *bytes.Buffer) {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	cfg := taskstest.Config(root)
	cfg.Path = []string{t.TempDir()}

	registry := tasks.NewRegistry()
	require.NoError(t, devtasks.Register(registry))

	recorder := &taskstest.Recorder{}
	out := &bytes.Buffer{}
	return &app{
		cfg:      cfg,
		registry: registry,
		logger:   zerolog.Nop(),
		exec:     recorder,
		out:      out,
	}, recorder, out
}

func execute(a *app, args ...string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestParseGlobalFlags(t *testing.T) {
	flags := parseGlobalFlags([]string{"tox", "--rebuild", "-n", "--config", "ci.toml", "--env", "py37", "-v"})
	assert.True(t, flags.dryRun)
	assert.True(t, flags.verbose)
	assert.Equal(t, "ci.toml", flags.configFile)
	assert.Empty(t, flags.root)
}

func TestTaskList(t *testing.T) {
	a, recorder, out := newTestApp(t)
	require.NoError(t, execute(a))

	listing := out.String()
	assert.Contains(t, listing, "Available tasks:")
	for _, name := range a.registry.Names() {
		assert.Contains(t, listing, " * "+name+":")
	}
	assert.Contains(t, listing, "Run the test suite using tox")
	assert.Empty(t, recorder.Calls)
}

func TestTaskFlags(t *testing.T) {
	a, recorder, _ := newTestApp(t)
	require.NoError(t, execute(a, "pypi", "--test"))

	assert.Equal(t, []string{
		"python setup.py sdist",
		"twine upload -r test dist/*",
	}, recorder.Commands())
}

func TestTaskFlagConflict(t *testing.T) {
	a, recorder, _ := newTestApp(t)

	err := execute(a, "pypi", "--test", "--live")
	assert.True(t, eris.Is(err, devtasks.ErrFlagConflict))
	assert.Empty(t, recorder.Calls)
}

func TestUnknownFlag(t *testing.T) {
	a, recorder, _ := newTestApp(t)

	assert.Error(t, execute(a, "pypi", "--staging"))
	assert.Empty(t, recorder.Calls)
}

func TestPositionalArgs(t *testing.T) {
	a, recorder, _ := newTestApp(t)
	require.NoError(t, execute(a, "test", "--", "-k", "parser"))

	commands := recorder.Commands()
	require.Len(t, commands, 1)
	assert.Contains(t, commands[0], "py.test -c test.ini")
	assert.Contains(t, commands[0], "--no-cov-on-fail -k parser")

	// only tasks with positional arguments accept them
	assert.Error(t, execute(a, "lint", "extra"))
}

func TestDryRun(t *testing.T) {
	a, recorder, _ := newTestApp(t)
	require.NoError(t, execute(a, "-n", "pypi", "--live"))
	assert.Empty(t, recorder.Calls)
}

func TestConfigErrorOnlyAffectsTasks(t *testing.T) {
	a, recorder, out := newTestApp(t)
	a.cfg = nil
	a.cfgErr = eris.New("package is required")

	require.NoError(t, execute(a))
	assert.Contains(t, out.String(), "Config not loaded: package is required")

	err := execute(a, "deps")
	assert.EqualError(t, err, "package is required")
	assert.Empty(t, recorder.Calls)
}

func TestPositionalHelp(t *testing.T) {
	a, _, _ := newTestApp(t)

	test, ok := a.registry.Get("test")
	require.True(t, ok)
	cmd := a.taskCommand(test)
	assert.Contains(t, cmd.Use, "[-- ")
	assert.Contains(t, cmd.Long, "Everything after -- is passed on unchanged")
	assert.Equal(t, "  task test -- -k some_test -x", cmd.Example)

	// without -- the options are rejected as unknown flags
	assert.Error(t, execute(a, "test", "-k", "parser"))

	lint, ok := a.registry.Get("lint")
	require.True(t, ok)
	assert.Empty(t, a.taskCommand(lint).Example)
}
