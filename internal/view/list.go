package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"todoview/internal/model"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrSubtaskNotFound = errors.New("subtask not found")
	ErrEmptyName       = errors.New("name cannot be empty")
)

// Store is the persistence collaborator. *storage.Store implements it.
type Store interface {
	FetchTasks() ([]model.Task, error)
	SaveTask(t model.Task) error
	SaveSubtask(st model.Subtask) error
	AddSubtask(taskID int64, name string) (model.Subtask, error)
	DeleteSubtask(id int64) error
	SetTrashed(taskID int64, trashed bool) error
}

// Config carries the preferences that affect the derived view.
type Config struct {
	AutoProgress bool
	// ShowListName is passed through to rendering only.
	ShowListName bool
	// DefaultReminder is the lead time before a deadline at which a task counts as due soon.
	DefaultReminder time.Duration
}

// Selection is the item most recently targeted for a context action.
type Selection struct {
	Task model.Task
	// Nil when the task row itself was selected.
	Subtask *model.Subtask
}

func (s Selection) IsSubtask() bool { return s.Subtask != nil }

// List owns the raw task collection and the derived layout. Every change to the
// collection, criterion, sort mask or config rebuilds the layout from scratch.
// It is not safe for concurrent use.
type List struct {
	store     Store
	cfg       Config
	criterion Criterion
	sort      SortMask
	raw       []model.Task
	layout    Layout
}

func NewList(store Store, cfg Config) *List {
	l := &List{store: store, cfg: cfg}
	l.Recompute()
	return l
}

// Reload fetches the current collection from the store and recomputes.
func (l *List) Reload() error {
	tasks, err := l.store.FetchTasks()
	if err != nil {
		return fmt.Errorf("fetch tasks: %w", err)
	}
	l.SetTasks(tasks)
	return nil
}

func (l *List) SetTasks(tasks []model.Task) {
	l.raw = tasks
	l.Recompute()
}

// Recompute runs filter, sort and grouping over the raw collection.
func (l *List) Recompute() {
	all := make([]*model.Task, len(l.raw))
	for i := range l.raw {
		all[i] = &l.raw[i]
		ComputeProgress(all[i], l.cfg.AutoProgress)
	}
	working := FilterTasks(all, l.criterion)
	SortTasks(working, l.sort)
	l.layout = NewLayout(working, l.sort.Has(SortByPriority))
}

func (l *List) Config() Config { return l.cfg }

func (l *List) SetConfig(cfg Config) {
	l.cfg = cfg
	l.Recompute()
}

func (l *List) Criterion() Criterion { return l.criterion }

func (l *List) SetCriterion(c Criterion) {
	l.criterion = c
	l.Recompute()
}

func (l *List) SetFilter(f Filter) {
	l.criterion.Filter = f
	l.Recompute()
}

func (l *List) SetQuery(q string) {
	l.criterion.Query = q
	l.Recompute()
}

func (l *List) SortMask() SortMask { return l.sort }

func (l *List) SetSortMask(m SortMask) {
	l.sort = m
	l.Recompute()
}

func (l *List) AddSortCondition(c SortMask) { l.SetSortMask(l.sort.Add(c)) }

func (l *List) RemoveSortCondition(c SortMask) { l.SetSortMask(l.sort.Remove(c)) }

func (l *List) Layout() Layout { return l.layout }

func (l *List) TotalGroupRows() int { return l.layout.TotalGroupRows() }

func (l *List) RowType(row int) RowKind { return l.layout.RowType(row) }

func (l *List) TaskAtRow(row int) (*model.Task, bool) { return l.layout.TaskAtRow(row) }

func (l *List) DividerLabel(row int) string { return l.layout.DividerLabel(row) }

func (l *List) ChildCount(row int) int { return l.layout.ChildCount(row) }

func (l *List) ChildType(row, child int) ChildKind { return l.layout.ChildType(row, child) }

func (l *List) ChildSelectable(row, child int) bool { return l.layout.ChildSelectable(row, child) }

// Task looks a task up in the raw collection, visible or not.
func (l *List) Task(id int64) (*model.Task, bool) {
	for i := range l.raw {
		if l.raw[i].ID == id {
			return &l.raw[i], true
		}
	}
	return nil, false
}

func (l *List) lookup(taskID, subtaskID int64) (*model.Task, *model.Subtask, error) {
	t, ok := l.Task(taskID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %d", ErrTaskNotFound, taskID)
	}
	if subtaskID == 0 {
		return t, nil, nil
	}
	st, ok := t.Subtask(subtaskID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %d", ErrSubtaskNotFound, subtaskID)
	}
	return t, st, nil
}

// SetTaskDone sets the task's done flag and cascades it to every subtask.
func (l *List) SetTaskDone(taskID int64, done bool) error {
	t, _, err := l.lookup(taskID, 0)
	if err != nil {
		return err
	}
	t.Done = done
	t.SetAllSubtasksDone(done)
	ComputeProgress(t, l.cfg.AutoProgress)

	errs := []error{l.saveTask(t)}
	for _, st := range t.Subtasks {
		errs = append(errs, l.saveSubtask(st))
	}
	l.Recompute()
	return errors.Join(errs...)
}

// SetSubtaskDone updates one subtask, then the parent's done status and progress.
func (l *List) SetSubtaskDone(taskID, subtaskID int64, done bool) error {
	if subtaskID == 0 {
		return fmt.Errorf("%w: %d", ErrSubtaskNotFound, subtaskID)
	}
	t, st, err := l.lookup(taskID, subtaskID)
	if err != nil {
		return err
	}
	st.Done = done
	t.DoneStatusChanged()
	ComputeProgress(t, l.cfg.AutoProgress)

	err = errors.Join(l.saveSubtask(*st), l.saveTask(t))
	l.Recompute()
	return err
}

// AppendSubtask persists a new subtask and appends it to its parent.
func (l *List) AppendSubtask(taskID int64, name string) (model.Subtask, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Subtask{}, ErrEmptyName
	}
	t, _, err := l.lookup(taskID, 0)
	if err != nil {
		return model.Subtask{}, err
	}
	st, err := l.store.AddSubtask(taskID, name)
	if err != nil {
		return model.Subtask{}, fmt.Errorf("add subtask: %w", err)
	}
	t.AppendSubtask(st)
	if l.cfg.AutoProgress {
		ComputeProgress(t, true)
		err = l.saveTask(t)
	}
	l.Recompute()
	return st, err
}

func (l *List) RemoveSubtask(taskID, subtaskID int64) error {
	t, _, err := l.lookup(taskID, subtaskID)
	if err != nil {
		return err
	}
	if err := l.store.DeleteSubtask(subtaskID); err != nil {
		return fmt.Errorf("delete subtask %d: %w", subtaskID, err)
	}
	t.RemoveSubtask(subtaskID)
	if l.cfg.AutoProgress {
		ComputeProgress(t, true)
		err = l.saveTask(t)
	}
	l.Recompute()
	return err
}

// TrashTask moves a task to the trash and drops it from the collection.
func (l *List) TrashTask(taskID int64) error {
	if _, _, err := l.lookup(taskID, 0); err != nil {
		return err
	}
	if err := l.store.SetTrashed(taskID, true); err != nil {
		return fmt.Errorf("trash task %d: %w", taskID, err)
	}
	for i := range l.raw {
		if l.raw[i].ID == taskID {
			l.raw = append(l.raw[:i], l.raw[i+1:]...)
			break
		}
	}
	l.Recompute()
	return nil
}

// SelectRow selects the task shown at a group row.
func (l *List) SelectRow(row int) (Selection, bool) {
	t, ok := l.layout.TaskAtRow(row)
	if !ok {
		return Selection{}, false
	}
	return Selection{Task: t.Clone()}, true
}

// SelectChild selects the subtask shown at a child position.
func (l *List) SelectChild(row, child int) (Selection, bool) {
	st, ok := l.layout.SubtaskAt(row, child)
	if !ok {
		return Selection{}, false
	}
	t, _ := l.layout.TaskAtRow(row)
	picked := *st
	return Selection{Task: t.Clone(), Subtask: &picked}, true
}

// Discard applies the delete context action to a selection.
func (l *List) Discard(sel Selection) error {
	if sel.IsSubtask() {
		return l.RemoveSubtask(sel.Task.ID, sel.Subtask.ID)
	}
	return l.TrashTask(sel.Task.ID)
}

func (l *List) saveTask(t *model.Task) error {
	if err := l.store.SaveTask(*t); err != nil {
		return fmt.Errorf("save task %d: %w", t.ID, err)
	}
	return nil
}

func (l *List) saveSubtask(st model.Subtask) error {
	if err := l.store.SaveSubtask(st); err != nil {
		return fmt.Errorf("save subtask %d: %w", st.ID, err)
	}
	return nil
}
