package tasks

import (
	"context"

	"github.com/rotisserie/eris"
)

type runState struct {
	// false while a task is running, true once it finished
	runTasks map[string]bool
	registry *Registry
	env      *Env
}

// RunTask executes the named task after its dependencies. Each task runs at most once per call;
// dependencies always receive empty Args. The first failure aborts the run.
func RunTask(ctx context.Context, env *Env, registry *Registry, name string, args Args) error {
	task, found := registry.Get(name)
	if !found {
		return eris.Wrapf(ErrTaskNotFound, "%s", name)
	}

	if err := checkArgs(task, args); err != nil {
		return err
	}

	state := &runState{
		runTasks: make(map[string]bool),
		registry: registry,
		env:      env,
	}

	return state.run(ctx, task, args)
}

func checkArgs(task *Task, args Args) error {
	for _, name := range args.Names() {
		if _, ok := task.Param(name); !ok {
			return eris.Errorf("task %s has no parameter %s", task.Short, name)
		}
	}

	if len(args.Positional()) > 0 && task.Positional == "" {
		return eris.Errorf("task %s doesn't accept positional arguments", task.Short)
	}

	return nil
}

func (s *runState) run(ctx context.Context, task *Task, args Args) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status, ok := s.runTasks[task.Short]
	if ok {
		if status {
			Log(ctx).Debug().Msgf("Task %s already run", task.Short)
			return nil
		}

		return eris.Errorf("Task %s was called recursively", task.Short)
	}

	s.runTasks[task.Short] = false

	for _, dep := range task.Deps {
		depTask, ok := s.registry.Get(dep)
		if !ok {
			return eris.Wrapf(ErrTaskNotFound, "%s (dependency of %s)", dep, task.Short)
		}

		err := s.run(ctx, depTask, Args{})
		if err != nil {
			return eris.Wrapf(err, "Task %s failed due to its dependency %s", task.Short, dep)
		}
	}

	logger := Log(ctx).With().Str("task", task.Short).Logger()
	taskCtx := WithLogger(ctx, &logger)

	if task.Run != nil {
		logger.Debug().Msg("starting")
		if err := task.Run(taskCtx, s.env, args); err != nil {
			return err
		}
	}

	s.runTasks[task.Short] = true
	return nil
}
