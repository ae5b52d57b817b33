// Package todo manages the persisted to-do list.
package todo

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"dashboard/models"
	"dashboard/store"
)

// Key is the store key the task list is persisted under.
const Key = "todos"

// ErrIndexOutOfRange is returned when an operation references a task
// position that does not exist.
var ErrIndexOutOfRange = errors.New("task index out of range")

// Repository owns the in-memory task list and is the only writer to its
// backing store key. The list loads once, on first access, and every
// mutation re-persists it in full before returning, so the stored file
// always reflects the in-memory state exactly.
type Repository struct {
	store  store.Store
	tasks  []models.Task
	loaded bool
}

// NewRepository creates a repository over the given store.
func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

func (r *Repository) ensureLoaded() {
	if r.loaded {
		return
	}
	var tasks []models.Task
	if r.store.Load(Key, &tasks) {
		r.tasks = tasks
	}
	r.loaded = true
}

func (r *Repository) persist() error {
	if r.tasks == nil {
		// Persist an empty array rather than JSON null.
		return r.store.Save(Key, []models.Task{})
	}
	return r.store.Save(Key, r.tasks)
}

// List returns a copy of the task list in insertion order.
func (r *Repository) List() []models.Task {
	r.ensureLoaded()
	return slices.Clone(r.tasks)
}

// Count returns the number of tasks.
func (r *Repository) Count() int {
	r.ensureLoaded()
	return len(r.tasks)
}

// Add appends a new open task and returns the resulting count. Text that
// trims to empty is a silent no-op.
func (r *Repository) Add(text string) (int, error) {
	r.ensureLoaded()

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return len(r.tasks), nil
	}

	r.tasks = append(r.tasks, models.Task{Text: trimmed})
	if err := r.persist(); err != nil {
		r.tasks = r.tasks[:len(r.tasks)-1]
		return len(r.tasks), fmt.Errorf("failed to persist tasks: %w", err)
	}
	return len(r.tasks), nil
}

// ToggleAt flips the done state of the task at index i.
func (r *Repository) ToggleAt(i int) error {
	r.ensureLoaded()

	if i < 0 || i >= len(r.tasks) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}

	r.tasks[i].Done = !r.tasks[i].Done
	if err := r.persist(); err != nil {
		r.tasks[i].Done = !r.tasks[i].Done
		return fmt.Errorf("failed to persist tasks: %w", err)
	}
	return nil
}

// RemoveAt deletes the task at index i; later tasks shift down by one.
func (r *Repository) RemoveAt(i int) error {
	r.ensureLoaded()

	if i < 0 || i >= len(r.tasks) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}

	removed := r.tasks[i]
	r.tasks = slices.Delete(r.tasks, i, i+1)
	if err := r.persist(); err != nil {
		r.tasks = slices.Insert(r.tasks, i, removed)
		return fmt.Errorf("failed to persist tasks: %w", err)
	}
	return nil
}

// ClearAll removes every task.
func (r *Repository) ClearAll() error {
	r.ensureLoaded()

	prev := r.tasks
	r.tasks = nil
	if err := r.persist(); err != nil {
		r.tasks = prev
		return fmt.Errorf("failed to persist tasks: %w", err)
	}
	return nil
}

// ClearCompleted removes every completed task, keeping the relative order
// of the rest.
func (r *Repository) ClearCompleted() error {
	r.ensureLoaded()

	prev := r.tasks
	kept := make([]models.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if !t.Done {
			kept = append(kept, t)
		}
	}

	r.tasks = kept
	if err := r.persist(); err != nil {
		r.tasks = prev
		return fmt.Errorf("failed to persist tasks: %w", err)
	}
	return nil
}
