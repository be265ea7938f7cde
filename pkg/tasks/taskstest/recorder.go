// Package taskstest provides helpers for testing task bodies without running external tools.
package taskstest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ngld/devtasks/pkg/config"
	"github.com/ngld/devtasks/pkg/shell"
	"github.com/ngld/devtasks/pkg/tasks"
)

// Call is a single recorded command
type Call struct {
	Dir     string
	Command string
}

// Recorder is a tasks.Executor that records commands instead of running them
type Recorder struct {
	Calls []Call
	// Failures maps command lines to the error returned for them
	Failures map[string]error
}

// Exec implements tasks.Executor
func (r *Recorder) Exec(ctx context.Context, dir, cmdline string) error {
	r.Calls = append(r.Calls, Call{Dir: dir, Command: cmdline})
	return r.Failures[cmdline]
}

// Commands returns the recorded command lines in order
func (r *Recorder) Commands() []string {
	result := make([]string, len(r.Calls))
	for idx, call := range r.Calls {
		result[idx] = call.Command
	}
	return result
}

// Config returns a valid config rooted at root
func Config(root string) *config.Config {
	cfg := &config.Config{
		Package:      "py_bingads",
		Root:         root,
		Requirements: "development.txt",
		PylintRC:     "pylintrc",
		TestConfig:   "test.ini",
		Script:       "tasks.star",
	}
	cfg.Docs.Dir = "docs"
	cfg.CI.ReportsEnv = "CIRCLE_TEST_REPORTS"
	cfg.Log.Level = "info"

	return cfg
}

// NewEnv returns an Env for cfg whose commands are captured by the returned Recorder. path is
// used as the tool search path.
func NewEnv(t *testing.T, cfg *config.Config, path ...string) (*tasks.Env, *Recorder) {
	t.Helper()

	if len(path) == 0 {
		path = []string{t.TempDir()}
	}

	sh, err := shell.New(cfg.Root, path)
	require.NoError(t, err)

	recorder := &Recorder{Failures: map[string]error{}}
	return &tasks.Env{
		Config: cfg,
		Shell:  sh,
		Exec:   recorder,
	}, recorder
}
