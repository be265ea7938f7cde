package tasks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/ngld/devtasks/pkg/shell"
)

// Executor runs a command line in the given directory
type Executor interface {
	Exec(ctx context.Context, dir, cmdline string) error
}

// ExitError is returned when a command exits with a non-zero status
type ExitError struct {
	Command string
	Status  int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.Status)
}

// ExitCode maps err to a process exit code: the status of a failed command, 1 for any other error
// and 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if eris.As(err, &exitErr) {
		return exitErr.Status
	}

	return 1
}

// ShellExecutor interprets command lines with mvdan.cc/sh. rm and mkdir are implemented in-process
// so they behave the same on every platform.
type ShellExecutor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Env is added to the process environment
	Env map[string]string
}

// NewShellExecutor returns an executor connected to the process' stdio
func NewShellExecutor() *ShellExecutor {
	return &ShellExecutor{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Env:    map[string]string{},
	}
}

func (e *ShellExecutor) environ() expand.Environ {
	envVars := os.Environ()

	for name, value := range e.Env {
		envVars = append(envVars, fmt.Sprintf("%s=%s", name, value))
	}

	return expand.ListEnviron(envVars...)
}

// Exec runs each statement in cmdline with "set -e" semantics
func (e *ShellExecutor) Exec(ctx context.Context, dir, cmdline string) error {
	file, err := syntax.NewParser().Parse(strings.NewReader(cmdline), "")
	if err != nil {
		return eris.Wrapf(err, "failed to parse command %s", cmdline)
	}

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(e.environ()),
		interp.ExecHandlers(builtinHandler),
		interp.StdIO(e.Stdin, e.Stdout, e.Stderr),
		interp.Params("-e"),
	)
	if err != nil {
		return eris.Wrap(err, "Failed to initialize runner")
	}

	printer := syntax.NewPrinter(syntax.Minify(true))
	strBuffer := strings.Builder{}

	for _, stmt := range file.Stmts {
		strBuffer.Reset()
		if err = printer.Print(&strBuffer, stmt); err == nil {
			Log(ctx).Debug().Str("dir", dir).Msg(strBuffer.String())
		}

		err = runner.Run(ctx, stmt)
		if err != nil {
			if status, ok := interp.IsExitStatus(err); ok {
				return &ExitError{Command: cmdline, Status: int(status)}
			}
			return eris.Wrapf(err, "failed to run %s", cmdline)
		}

		if runner.Exited() {
			return nil
		}

		if err = ctx.Err(); err != nil {
			return err
		}
	}

	return nil
}

func builtinHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		var err error
		switch args[0] {
		case "rm":
			err = builtinRm(ctx, args[1:])
		case "mkdir":
			err = builtinMkdir(ctx, args[1:])
		default:
			return next(ctx, args)
		}

		if err != nil {
			fmt.Fprintf(interp.HandlerCtx(ctx).Stderr, "%s: %s\n", args[0], err)
			return interp.NewExitStatus(1)
		}

		return nil
	}
}

// splitFlags separates leading short options ("-rf") from operands
func splitFlags(args []string) (map[rune]bool, []string) {
	flags := make(map[rune]bool)
	for idx, arg := range args {
		if arg == "--" {
			return flags, args[idx+1:]
		}

		if len(arg) < 2 || arg[0] != '-' {
			return flags, args[idx:]
		}

		for _, flag := range arg[1:] {
			flags[flag] = true
		}
	}

	return flags, []string{}
}

func resolveArgs(ctx context.Context, args []string) []string {
	dir := interp.HandlerCtx(ctx).Dir
	result := make([]string, len(args))
	for idx, arg := range args {
		if filepath.IsAbs(arg) {
			result[idx] = arg
		} else {
			result[idx] = filepath.Join(dir, arg)
		}
	}

	return result
}

func builtinRm(ctx context.Context, args []string) error {
	flags, names := splitFlags(args)
	names = resolveArgs(ctx, names)

	if flags['r'] || flags['R'] {
		return shell.RmRf(names...)
	}

	return shell.Rm(names...)
}

func builtinMkdir(ctx context.Context, args []string) error {
	flags, names := splitFlags(args)
	return shell.Mkdir(flags['p'], resolveArgs(ctx, names)...)
}
