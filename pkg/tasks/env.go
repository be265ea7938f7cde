package tasks

import (
	"context"
	"os"

	"github.com/rotisserie/eris"

	"github.com/ngld/devtasks/pkg/config"
	"github.com/ngld/devtasks/pkg/shell"
)

// Env is the execution context passed to every task body
type Env struct {
	Config *config.Config
	Shell  *shell.Shell
	Exec   Executor
	// DryRun only logs commands instead of executing them
	DryRun bool
}

// NewEnv assembles the execution context for cfg
func NewEnv(cfg *config.Config, exec Executor, dryRun bool) (*Env, error) {
	sh, err := shell.New(cfg.Root, cfg.Path)
	if err != nil {
		return nil, err
	}

	return &Env{
		Config: cfg,
		Shell:  sh,
		Exec:   exec,
		DryRun: dryRun,
	}, nil
}

// C formats a command line, see shell.Command
func (e *Env) C(template string, values ...interface{}) (string, error) {
	return shell.Command(template, values...)
}

// Run executes cmdline in the current working directory
func (e *Env) Run(ctx context.Context, cmdline string) error {
	Log(ctx).Info().Bool("command", true).Msg(cmdline)
	if e.DryRun {
		return nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return eris.Wrap(err, "failed to retrieve the current working directory")
	}

	return e.Exec.Exec(ctx, dir, cmdline)
}

// Runf formats the command with C and executes it with Run
func (e *Env) Runf(ctx context.Context, template string, values ...interface{}) error {
	cmdline, err := e.C(template, values...)
	if err != nil {
		return err
	}

	return e.Run(ctx, cmdline)
}
