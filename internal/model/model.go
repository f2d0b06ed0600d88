// Package model holds the task and subtask records shared by storage, the view engine and the UI.
package model

import (
	"fmt"
	"strings"
	"time"
)

type Priority int

// Declaration order is rank order: High sorts first.
const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

// Priorities returns every priority in rank order.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

func (p Priority) Valid() bool {
	return p >= PriorityHigh && p <= PriorityLow
}

// Label is the display text used for priority divider rows.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High priority"
	case PriorityMedium:
		return "Medium priority"
	case PriorityLow:
		return "Low priority"
	default:
		return "Unknown priority"
	}
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

func ParsePriority(v string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "high", "h", "1":
		return PriorityHigh, nil
	case "", "medium", "m", "2":
		return PriorityMedium, nil
	case "low", "l", "3":
		return PriorityLow, nil
	}
	return PriorityMedium, fmt.Errorf("unknown priority %q", v)
}

type Subtask struct {
	ID     int64
	TaskID int64
	Name   string
	Done   bool
}

type Task struct {
	ID          int64
	Name        string
	Description string
	Done        bool
	Priority    Priority
	// Zero means no deadline.
	Deadline time.Time
	// Zero means the default reminder lead time applies.
	Reminder     time.Time
	Progress     int
	ListID       int64
	ListName     string
	Trashed      bool
	ListPosition int
	Subtasks     []Subtask
	CreatedAt    time.Time
}

func (t *Task) HasDeadline() bool {
	return !t.Deadline.IsZero()
}

// MatchesQuery reports whether the query occurs, case-insensitively, in the task's
// name, description or any subtask name. An empty query matches everything.
func (t *Task) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Name), q) || strings.Contains(strings.ToLower(t.Description), q) {
		return true
	}
	for _, st := range t.Subtasks {
		if strings.Contains(strings.ToLower(st.Name), q) {
			return true
		}
	}
	return false
}

func (t *Task) AppendSubtask(st Subtask) {
	st.TaskID = t.ID
	t.Subtasks = append(t.Subtasks, st)
}

// RemoveSubtask drops the subtask with the given id and reports whether it was present.
func (t *Task) RemoveSubtask(id int64) bool {
	for i, st := range t.Subtasks {
		if st.ID == id {
			t.Subtasks = append(t.Subtasks[:i], t.Subtasks[i+1:]...)
			return true
		}
	}
	return false
}

func (t *Task) Subtask(id int64) (*Subtask, bool) {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return &t.Subtasks[i], true
		}
	}
	return nil, false
}

func (t *Task) SetAllSubtasksDone(done bool) {
	for i := range t.Subtasks {
		t.Subtasks[i].Done = done
	}
}

func (t *Task) DoneSubtasks() int {
	n := 0
	for _, st := range t.Subtasks {
		if st.Done {
			n++
		}
	}
	return n
}

// DoneStatusChanged marks the task done exactly when all of its subtasks are done and
// reports whether the done flag changed. Tasks without subtasks are left alone.
func (t *Task) DoneStatusChanged() bool {
	if len(t.Subtasks) == 0 {
		return false
	}
	allDone := t.DoneSubtasks() == len(t.Subtasks)
	if allDone == t.Done {
		return false
	}
	t.Done = allDone
	return true
}

// Clone returns a copy that does not share the subtask slice.
func (t Task) Clone() Task {
	if t.Subtasks != nil {
		t.Subtasks = append([]Subtask(nil), t.Subtasks...)
	}
	return t
}
