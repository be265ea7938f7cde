package cmd

import (
	"path/filepath"
	"runtime"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ngld/devtasks/pkg/shell"
)

// expandArgs resolves glob patterns on Windows where the shell doesn't do it for us
func expandArgs(args []string, force bool) ([]string, error) {
	if runtime.GOOS != "windows" {
		return args, nil
	}

	items := []string{}
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, eris.Wrapf(err, "Failed to resolve pattern %s", arg)
		}

		if matches == nil {
			if force {
				continue
			}
			return nil, eris.Errorf("Pattern %s produced no matches", arg)
		}

		items = append(items, matches...)
	}

	return items, nil
}

func rmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm [-r] [-f] paths...",
		Short: "A cross-platform implementation of the POSIX rm command",
		RunE: func(cmd *cobra.Command, args []string) error {
			recursive, err := cmd.Flags().GetBool("recursive")
			if err != nil {
				return err
			}

			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}

			items, err := expandArgs(args, force)
			if err != nil {
				return err
			}

			if recursive {
				return shell.RmRf(items...)
			}
			return shell.Rm(items...)
		},
	}

	cmd.Flags().BoolP("recursive", "r", false, "recursively delete directories")
	cmd.Flags().BoolP("force", "f", false, "suppresses errors caused by patterns without matches")
	return cmd
}

func mkdirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mkdir [-p] paths...",
		Short: "A cross-platform implementation of the POSIX mkdir command",
		RunE: func(cmd *cobra.Command, args []string) error {
			makeParents, err := cmd.Flags().GetBool("parents")
			if err != nil {
				return err
			}

			return shell.Mkdir(makeParents, args...)
		},
	}

	cmd.Flags().BoolP("parents", "p", false, "create parent directories as needed")
	return cmd
}
