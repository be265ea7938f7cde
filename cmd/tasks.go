package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ngld/devtasks/pkg/tasks"
)

func (a *app) taskCommand(task *tasks.Task) *cobra.Command {
	use := task.Short
	if len(task.Params) > 0 {
		use += " [flags]"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: task.Desc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make(map[string]string)
			for _, param := range task.Params {
				flag := cmd.Flags().Lookup(param.Name)
				if flag != nil && flag.Changed {
					values[param.Name] = flag.Value.String()
				}
			}

			return a.run(cmd.Context(), task.Short, tasks.NewArgs(values, args...))
		},
	}

	cmd.Long = task.Desc
	if len(task.Deps) > 0 {
		cmd.Long += "\n\nRuns first: " + strings.Join(task.Deps, ", ")
	}

	if task.Positional != "" {
		cmd.Use += " [-- " + task.Positional + "]"
		cmd.Args = cobra.ArbitraryArgs
		// options starting with a dash would be parsed as flags of this command otherwise
		cmd.Long += "\n\nEverything after -- is passed on unchanged (" + task.Positional + ")."
		cmd.Example = "  task " + task.Short + " -- -k some_test -x"
	}

	for _, param := range task.Params {
		switch param.Kind {
		case tasks.BoolParam:
			cmd.Flags().Bool(param.Name, param.Default == "true", param.Help)
		case tasks.StringParam:
			cmd.Flags().String(param.Name, param.Default, param.Help)
		}
	}

	return cmd
}
