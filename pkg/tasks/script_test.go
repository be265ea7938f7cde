package tasks_test

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngld/devtasks/pkg/tasks"
	"github.com/ngld/devtasks/pkg/tasks/taskstest"
)

const testScript = `
task(
    name = "clean",
    desc = "Remove build output",
    cmds = ["rm -rf build"],
)

task(
    name = "format",
    desc = "Format the package",
    deps = ["clean"],
    cmds = [
        command("black %s", PACKAGE),
        ["isort", "--settings-path", "setup cfg", PACKAGE],
    ],
)
`

func loadScript(t *testing.T, content string) (*tasks.Registry, *tasks.Env, *taskstest.Recorder, error) {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	cfg := taskstest.Config(root)
	require.NoError(t, ioutil.WriteFile(cfg.ScriptPath(), []byte(content), 0644))

	env, recorder := taskstest.NewEnv(t, cfg)
	registry := tasks.NewRegistry()
	err = tasks.LoadScript(context.Background(), cfg.ScriptPath(), cfg, registry)
	return registry, env, recorder, err
}

func TestLoadScript(t *testing.T) {
	registry, env, recorder, err := loadScript(t, testScript)
	require.NoError(t, err)

	assert.Equal(t, []string{"clean", "format"}, registry.Names())
	task, ok := registry.Get("format")
	require.True(t, ok)
	assert.Equal(t, "Format the package", task.Desc)
	assert.Equal(t, []string{"clean"}, task.Deps)

	require.NoError(t, tasks.RunTask(context.Background(), env, registry, "format", tasks.Args{}))
	assert.Equal(t, []string{
		"rm -rf build",
		"black py_bingads",
		"isort --settings-path 'setup cfg' py_bingads",
	}, recorder.Commands())

	for _, call := range recorder.Calls {
		assert.Equal(t, env.Config.Root, call.Dir)
	}
}

func TestLoadScriptDuplicateTask(t *testing.T) {
	_, _, _, err := loadScript(t, `
task(name = "clean")
task(name = "clean")
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate task")
}

func TestLoadScriptErrors(t *testing.T) {
	_, _, _, err := loadScript(t, `task(name = "x", cmds = [42])`)
	assert.Error(t, err)

	_, _, _, err = loadScript(t, `command("%s %s", "a")`)
	assert.Error(t, err)
}

func TestLoadScriptMissingFile(t *testing.T) {
	cfg := taskstest.Config(t.TempDir())
	registry := tasks.NewRegistry()

	require.NoError(t, tasks.LoadScript(context.Background(), cfg.ScriptPath(), cfg, registry))
	assert.Empty(t, registry.Names())
}
