package tasks

import (
	"context"
	"fmt"
	"strconv"
)

// ParamKind describes how a parameter is passed on the command line
type ParamKind int

const (
	// BoolParam is a switch (--rebuild)
	BoolParam ParamKind = iota
	// StringParam takes a value (--env NAME)
	StringParam
)

// Param describes a single named task parameter
type Param struct {
	Name    string
	Help    string
	Kind    ParamKind
	Default string
}

// Task is a named unit of work. Deps are run (in order) before Run.
type Task struct {
	Short  string
	Desc   string
	Deps   []string
	Params []Param
	// Positional describes the accepted positional arguments. Tasks with an empty Positional
	// reject positional arguments.
	Positional string
	Run        func(ctx context.Context, env *Env, args Args) error
}

// String returns a string representation of the task
func (t *Task) String() string {
	return fmt.Sprintf("<Task %s: %s>", t.Short, t.Desc)
}

// Param returns the parameter called name
func (t *Task) Param(name string) (Param, bool) {
	for _, p := range t.Params {
		if p.Name == name {
			return p, true
		}
	}

	return Param{}, false
}

// Args holds the parameter values and positional arguments passed to a task
type Args struct {
	values     map[string]string
	positional []string
}

// NewArgs builds Args from explicitly passed parameter values and positional arguments
func NewArgs(values map[string]string, positional ...string) Args {
	return Args{
		values:     values,
		positional: positional,
	}
}

// Lookup returns the value of the named parameter. The second return value is false if the
// parameter wasn't passed.
func (a Args) Lookup(name string) (string, bool) {
	value, ok := a.values[name]
	return value, ok
}

// String returns the value of the named parameter or an empty string
func (a Args) String(name string) string {
	return a.values[name]
}

// Bool reports whether the named switch was passed and is true
func (a Args) Bool(name string) bool {
	value, ok := a.values[name]
	if !ok {
		return false
	}

	result, err := strconv.ParseBool(value)
	return err == nil && result
}

// Positional returns the positional arguments
func (a Args) Positional() []string {
	return a.positional
}

// Names returns the names of all passed parameters
func (a Args) Names() []string {
	names := make([]string, 0, len(a.values))
	for name := range a.values {
		names = append(names, name)
	}

	return names
}
