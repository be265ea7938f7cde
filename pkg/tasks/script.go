package tasks

import (
	"context"
	"io/ioutil"
	"os"
	"runtime"
	"strings"

	"github.com/rotisserie/eris"
	"go.starlark.net/starlark"
	"mvdan.cc/sh/v3/syntax"

	"github.com/ngld/devtasks/pkg/config"
	"github.com/ngld/devtasks/pkg/shell"
)

type scriptCtx struct {
	registry *Registry
}

func getScriptCtx(thread *starlark.Thread) *scriptCtx {
	return thread.Local("scriptCtx").(*scriptCtx)
}

func starlarkList2stringSlice(input *starlark.List, field string) ([]string, error) {
	if input == nil {
		return []string{}, nil
	}

	result := make([]string, 0, input.Len())
	iter := input.Iterate()
	defer iter.Done()

	var item starlark.Value
	for iter.Next(&item) {
		value, ok := item.(starlark.String)
		if !ok {
			return nil, eris.Errorf("expected all items in %s to be strings but found %s", field, item.Type())
		}
		result = append(result, value.GoString())
	}
	return result, nil
}

// joinCmdParts turns a list of arguments into a single command line, quoting arguments where necessary
func joinCmdParts(parts []string) (string, error) {
	cmd := new(syntax.CallExpr)
	cmd.Args = make([]*syntax.Word, len(parts))
	for idx, part := range parts {
		var wordPart syntax.WordPart
		if part == "" || strings.ContainsAny(part, " \t\n$'\"*?[]{}()<>|&;`\\#~") {
			if strings.Contains(part, "'") {
				return "", eris.Errorf("argument %q contains a single quote", part)
			}
			wordPart = &syntax.SglQuoted{Value: part}
		} else {
			wordPart = &syntax.Lit{Value: part}
		}

		cmd.Args[idx] = &syntax.Word{Parts: []syntax.WordPart{wordPart}}
	}

	strBuffer := strings.Builder{}
	err := syntax.NewPrinter(syntax.Minify(true)).Print(&strBuffer, cmd)
	if err != nil {
		return "", err
	}

	return strBuffer.String(), nil
}

func starGetenv(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var key string
	var fallback string

	err := starlark.UnpackArgs(fn.Name(), args, kwargs, "key", &key, "default?", &fallback)
	if err != nil {
		return nil, err
	}

	value, ok := os.LookupEnv(key)
	if !ok {
		value = fallback
	}

	return starlark.String(value), nil
}

func starCommand(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, eris.Errorf("%s: unexpected keyword arguments", fn.Name())
	}

	if len(args) < 1 {
		return nil, eris.Errorf("%s: expects a template", fn.Name())
	}

	template, ok := args[0].(starlark.String)
	if !ok {
		return nil, eris.Errorf("%s: template must be a string, not %s", fn.Name(), args[0].Type())
	}

	values := make([]interface{}, len(args)-1)
	for idx, arg := range args[1:] {
		if str, ok := arg.(starlark.String); ok {
			values[idx] = str.GoString()
		} else {
			values[idx] = arg.String()
		}
	}

	result, err := shell.Command(template.GoString(), values...)
	if err != nil {
		return nil, err
	}

	return starlark.String(result), nil
}

func starTask(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var deps *starlark.List
	var cmds *starlark.List

	task := new(Task)
	err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &task.Short, "desc?", &task.Desc, "deps?", &deps,
		"cmds?", &cmds)
	if err != nil {
		return nil, err
	}

	task.Deps, err = starlarkList2stringSlice(deps, "deps")
	if err != nil {
		return nil, err
	}

	cmdLines := make([]string, 0)
	if cmds != nil {
		iter := cmds.Iterate()
		defer iter.Done()

		var item starlark.Value
		idx := 0
		for iter.Next(&item) {
			switch value := item.(type) {
			case starlark.String:
				cmdLines = append(cmdLines, value.GoString())
			case *starlark.List:
				parts, err := starlarkList2stringSlice(value, "cmds")
				if err != nil {
					return nil, eris.Wrapf(err, "failed to process command #%d", idx)
				}

				line, err := joinCmdParts(parts)
				if err != nil {
					return nil, eris.Wrapf(err, "failed to process command #%d", idx)
				}
				cmdLines = append(cmdLines, line)
			default:
				return nil, eris.Errorf("%s: unexpected type %s. Only strings and lists are valid", fn.Name(), item.Type())
			}
			idx++
		}
	}

	task.Run = func(ctx context.Context, env *Env, _ Args) error {
		return env.Shell.InRoot(func() error {
			for _, line := range cmdLines {
				if err := env.Run(ctx, line); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err = getScriptCtx(thread).registry.Add(task); err != nil {
		return nil, err
	}

	return starlark.None, nil
}

// LoadScript executes the Starlark file filename and adds the tasks it declares to registry.
// A missing file is not an error.
func LoadScript(ctx context.Context, filename string, cfg *config.Config, registry *Registry) error {
	script, err := ioutil.ReadFile(filename)
	if err != nil {
		if eris.Is(err, os.ErrNotExist) {
			return nil
		}
		return eris.Wrapf(err, "failed to read %s", filename)
	}

	builtins := starlark.StringDict{
		"PACKAGE": starlark.String(cfg.Package),
		"ROOT":    starlark.String(cfg.Root),
		"OS":      starlark.String(runtime.GOOS),
		"ARCH":    starlark.String(runtime.GOARCH),
		"getenv":  starlark.NewBuiltin("getenv", starGetenv),
		"command": starlark.NewBuiltin("command", starCommand),
		"task":    starlark.NewBuiltin("task", starTask),
	}

	thread := &starlark.Thread{
		Name: "main",
		Print: func(thread *starlark.Thread, msg string) {
			Log(ctx).Info().Str("thread", thread.Name).Msg(msg)
		},
	}
	thread.SetLocal("scriptCtx", &scriptCtx{registry: registry})

	_, err = starlark.ExecFile(thread, filename, script, builtins)
	if err != nil {
		if evalError, ok := err.(*starlark.EvalError); ok {
			return eris.Errorf("failed to execute %s:\n%s", filename, evalError.Backtrace())
		}
		return eris.Wrapf(err, "failed to execute %s", filename)
	}

	return nil
}
