// Package tasks implements a minimal task runner: an ordered registry of named tasks with
// prerequisites, an execution environment shared by all task bodies and a shell executor based on
// mvdan.cc/sh. Additional tasks can be declared in a Starlark script.
package tasks
