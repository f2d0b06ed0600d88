// Package testutil provides testing utilities.
package testutil

import (
	"errors"
	"strconv"
	"sync"

	"todoview/internal/model"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// FakeStore is an in-memory implementation of view.Store for testing.
type FakeStore struct {
	mu        sync.Mutex
	tasks     []model.Task
	nextSubID int64

	// Calls records every write in order, e.g. "task:3" or "subtask:12".
	Calls []string

	// Error injection for testing
	FetchErr         error
	SaveTaskErr      error
	SaveSubtaskErr   error
	AddSubtaskErr    error
	DeleteSubtaskErr error
	SetTrashedErr    error
}

// NewFakeStore creates a FakeStore holding copies of tasks.
func NewFakeStore(tasks ...model.Task) *FakeStore {
	f := &FakeStore{nextSubID: 1000}
	for _, t := range tasks {
		f.tasks = append(f.tasks, t.Clone())
	}
	return f
}

// Task returns the stored copy of a task.
func (f *FakeStore) Task(id int64) (model.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return model.Task{}, false
}

// FetchTasks implements view.Store. Trashed tasks are omitted.
func (f *FakeStore) FetchTasks() ([]model.Task, error) {
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		if !t.Trashed {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

// SaveTask implements view.Store. Subtasks are stored separately.
func (f *FakeStore) SaveTask(t model.Task) error {
	if f.SaveTaskErr != nil {
		return f.SaveTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "task:"+itoa(t.ID))
	for i := range f.tasks {
		if f.tasks[i].ID == t.ID {
			subs := f.tasks[i].Subtasks
			f.tasks[i] = t.Clone()
			f.tasks[i].Subtasks = subs
			return nil
		}
	}
	return ErrNotFound
}

// SaveSubtask implements view.Store.
func (f *FakeStore) SaveSubtask(st model.Subtask) error {
	if f.SaveSubtaskErr != nil {
		return f.SaveSubtaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "subtask:"+itoa(st.ID))
	for i := range f.tasks {
		for j := range f.tasks[i].Subtasks {
			if f.tasks[i].Subtasks[j].ID == st.ID {
				f.tasks[i].Subtasks[j] = st
				return nil
			}
		}
	}
	return ErrNotFound
}

// AddSubtask implements view.Store.
func (f *FakeStore) AddSubtask(taskID int64, name string) (model.Subtask, error) {
	if f.AddSubtaskErr != nil {
		return model.Subtask{}, f.AddSubtaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == taskID {
			f.nextSubID++
			st := model.Subtask{ID: f.nextSubID, TaskID: taskID, Name: name}
			f.tasks[i].Subtasks = append(f.tasks[i].Subtasks, st)
			f.Calls = append(f.Calls, "add-subtask:"+itoa(st.ID))
			return st, nil
		}
	}
	return model.Subtask{}, ErrNotFound
}

// DeleteSubtask implements view.Store.
func (f *FakeStore) DeleteSubtask(id int64) error {
	if f.DeleteSubtaskErr != nil {
		return f.DeleteSubtaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].RemoveSubtask(id) {
			f.Calls = append(f.Calls, "delete-subtask:"+itoa(id))
			return nil
		}
	}
	return ErrNotFound
}

// SetTrashed implements view.Store.
func (f *FakeStore) SetTrashed(taskID int64, trashed bool) error {
	if f.SetTrashedErr != nil {
		return f.SetTrashedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == taskID {
			f.tasks[i].Trashed = trashed
			f.Calls = append(f.Calls, "trash:"+itoa(taskID))
			return nil
		}
	}
	return ErrNotFound
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
