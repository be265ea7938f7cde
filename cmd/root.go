// Package cmd implements the task CLI
package cmd

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/aidarkhanov/nanoid"
	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ngld/devtasks/pkg/config"
	"github.com/ngld/devtasks/pkg/devtasks"
	"github.com/ngld/devtasks/pkg/tasks"
)

// reserved for the helper subcommands
var reservedNames = map[string]bool{
	"rm":         true,
	"mkdir":      true,
	"help":       true,
	"completion": true,
}

type globalFlags struct {
	configFile string
	root       string
	dryRun     bool
	verbose    bool
}

func (f *globalFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.configFile, "config", "", "additional config file")
	flags.StringVar(&f.root, "root", "", "project root (default: detected from the working directory)")
	flags.BoolVarP(&f.dryRun, "dry", "n", false, "dry run; only print the commands, don't execute anything")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug output")
}

type app struct {
	flags    globalFlags
	cfg      *config.Config
	cfgErr   error
	registry *tasks.Registry
	logger   zerolog.Logger
	exec     tasks.Executor
	out      io.Writer
}

// parseGlobalFlags extracts the global flags before the command tree is built since the available
// tasks depend on the config.
func parseGlobalFlags(args []string) globalFlags {
	var result globalFlags
	flags := pflag.NewFlagSet("bootstrap", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.SetOutput(ioutil.Discard)
	flags.Usage = func() {}
	result.register(flags)

	// errors are reported by the real parser later
	_ = flags.Parse(args)
	return result
}

func newLogger(cfg *config.Config, verbose bool) zerolog.Logger {
	var logger zerolog.Logger
	if cfg != nil && cfg.Log.JSON {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(NewConsoleWriter())
	}

	level := zerolog.InfoLevel
	if cfg != nil {
		level = cfg.LogLevel()
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	return logger.Level(level).With().Str("run", nanoid.New()).Logger()
}

// bootstrap loads the config and collects the available tasks. A config error doesn't abort
// since the task list and the helper commands still work without it.
func (a *app) bootstrap(ctx context.Context) error {
	var extraFiles []string
	if a.flags.configFile != "" {
		extraFiles = append(extraFiles, a.flags.configFile)
	}

	a.cfg, a.cfgErr = config.Load(a.flags.root, extraFiles...)
	if a.cfgErr != nil {
		a.cfg = nil
	}
	a.logger = newLogger(a.cfg, a.flags.verbose)

	a.registry = tasks.NewRegistry()
	if err := devtasks.Register(a.registry); err != nil {
		return err
	}

	if a.cfg != nil {
		ctx = tasks.WithLogger(ctx, &a.logger)
		if err := tasks.LoadScript(ctx, a.cfg.ScriptPath(), a.cfg, a.registry); err != nil {
			return err
		}
	}

	for _, task := range a.registry.Tasks() {
		if reservedNames[task.Short] {
			return eris.Errorf("the task name %q is reserved, please use a different name", task.Short)
		}
	}

	return nil
}

func (a *app) run(ctx context.Context, name string, args tasks.Args) error {
	if a.cfgErr != nil {
		return a.cfgErr
	}

	env, err := tasks.NewEnv(a.cfg, a.exec, a.flags.dryRun)
	if err != nil {
		return err
	}

	ctx = tasks.WithLogger(ctx, &a.logger)
	return tasks.RunTask(ctx, env, a.registry, name, args)
}

func (a *app) printTaskList() {
	colorstring.Fprintln(a.out, "[bold]Available tasks:")
	maxNameLen := 0
	for _, name := range a.registry.Names() {
		if len(name) > maxNameLen {
			maxNameLen = len(name)
		}
	}

	lineFmt := fmt.Sprintf(" * %%-%ds %%s\n", maxNameLen+3)
	for _, name := range a.registry.Names() {
		task, _ := a.registry.Get(name)
		fmt.Fprintf(a.out, lineFmt, name+":", task.Desc)
	}

	if a.cfgErr != nil {
		colorstring.Fprintf(a.out, "\n[yellow]Config not loaded: %s\n", a.cfgErr)
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "task",
		Short: "Development tasks for Python packages",
		Long: `This command runs the development tasks (tests, linting, packaging, ...) of the Python
package in the current project. Additional tasks are read from the configured tasks.star file.

Arguments for the underlying tool go after --, e.g. "task test -- -k parser".`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			a.printTaskList()
		},
	}
	a.flags.register(root.PersistentFlags())
	root.SetOut(a.out)

	for _, task := range a.registry.Tasks() {
		root.AddCommand(a.taskCommand(task))
	}

	root.AddCommand(rmCmd(), mkdirCmd())
	return root
}

// Execute runs the CLI and exits with the status of the failed command (if any)
func Execute() {
	ctx := context.Background()
	a := &app{
		flags: parseGlobalFlags(os.Args[1:]),
		exec:  tasks.NewShellExecutor(),
		out:   os.Stdout,
	}

	err := a.bootstrap(ctx)
	if err == nil {
		err = a.rootCommand().ExecuteContext(ctx)
	}

	if err != nil {
		a.logger.Error().Err(err).Msg("Failed")
		os.Exit(tasks.ExitCode(err))
	}
}
