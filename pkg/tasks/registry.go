package tasks

import (
	"sort"

	"github.com/rotisserie/eris"
)

var (
	// ErrTaskNotFound is returned when a task name isn't registered
	ErrTaskNotFound = eris.New("task not found")
	// ErrDuplicateTask is returned when a task name is registered twice
	ErrDuplicateTask = eris.New("duplicate task")
)

// Registry keeps tasks in registration order
type Registry struct {
	tasks []*Task
	index map[string]*Task
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{
		tasks: make([]*Task, 0),
		index: make(map[string]*Task),
	}
}

// Add registers the given tasks. Task names have to be unique.
func (r *Registry) Add(tasks ...*Task) error {
	for _, task := range tasks {
		if task.Short == "" {
			return eris.New("task name must not be empty")
		}

		if _, present := r.index[task.Short]; present {
			return eris.Wrapf(ErrDuplicateTask, "%s", task.Short)
		}

		r.tasks = append(r.tasks, task)
		r.index[task.Short] = task
	}

	return nil
}

// Get returns the task called name
func (r *Registry) Get(name string) (*Task, bool) {
	task, ok := r.index[name]
	return task, ok
}

// Tasks returns all tasks in registration order
func (r *Registry) Tasks() []*Task {
	result := make([]*Task, len(r.tasks))
	copy(result, r.tasks)
	return result
}

// Names returns the sorted task names
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tasks))
	for _, task := range r.tasks {
		names = append(names, task.Short)
	}

	sort.Strings(names)
	return names
}
