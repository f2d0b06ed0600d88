package view

import "todoview/internal/model"

type RowKind int

const (
	TaskRow RowKind = iota
	PriorityDividerRow
)

type ChildKind int

const (
	DescriptionRow ChildKind = iota
	SubtaskRow
	AddSubtaskRow
)

const unknownPriorityLabel = "Unknown priority"

// Row is one group row of the flattened list: a task or a priority divider.
type Row struct {
	Kind     RowKind
	Task     *model.Task
	Priority model.Priority
}

// Layout is the flattened view of a sorted working set.
type Layout struct {
	rows     []Row
	tasks    []*model.Task
	dividers DividerMap
	grouping bool
}

// NewLayout flattens sorted tasks, inserting a divider ahead of each priority band when grouping.
func NewLayout(sorted []*model.Task, grouping bool) Layout {
	l := Layout{tasks: sorted, grouping: grouping}
	if !grouping || len(sorted) == 0 {
		l.rows = make([]Row, 0, len(sorted))
		for _, t := range sorted {
			l.rows = append(l.rows, Row{Kind: TaskRow, Task: t, Priority: t.Priority})
		}
		return l
	}

	l.dividers = ComputeDividers(sorted)
	l.rows = make([]Row, 0, len(sorted)+len(l.dividers))
	for _, t := range sorted {
		if r, ok := l.dividers[t.Priority]; ok && r == len(l.rows) {
			l.rows = append(l.rows, Row{Kind: PriorityDividerRow, Priority: t.Priority})
		}
		l.rows = append(l.rows, Row{Kind: TaskRow, Task: t, Priority: t.Priority})
	}
	return l
}

func (l Layout) Grouping() bool { return l.grouping }

// Tasks is the working set in display order.
func (l Layout) Tasks() []*model.Task { return l.tasks }

// Dividers is nil unless grouping is active and the working set is non-empty.
func (l Layout) Dividers() DividerMap { return l.dividers }

func (l Layout) Rows() []Row { return l.rows }

func (l Layout) TotalGroupRows() int { return len(l.rows) }

func (l Layout) Row(row int) (Row, bool) {
	if row < 0 || row >= len(l.rows) {
		return Row{}, false
	}
	return l.rows[row], true
}

// TaskAtRow returns false for divider rows and for rows outside the layout.
func (l Layout) TaskAtRow(row int) (*model.Task, bool) {
	r, ok := l.Row(row)
	if !ok || r.Kind != TaskRow {
		return nil, false
	}
	return r.Task, true
}

func (l Layout) RowType(row int) RowKind {
	if r, ok := l.Row(row); ok {
		return r.Kind
	}
	return TaskRow
}

func (l Layout) ChildCount(row int) int {
	t, ok := l.TaskAtRow(row)
	if !ok {
		return 0
	}
	return len(t.Subtasks) + 2
}

func (l Layout) ChildType(row, child int) ChildKind {
	if child == 0 {
		return DescriptionRow
	}
	if t, ok := l.TaskAtRow(row); ok && child == len(t.Subtasks)+1 {
		return AddSubtaskRow
	}
	return SubtaskRow
}

func (l Layout) ChildSelectable(row, child int) bool {
	t, ok := l.TaskAtRow(row)
	if !ok {
		return false
	}
	return child > 0 && child < len(t.Subtasks)+1
}

// SubtaskAt resolves a subtask child position of a task row.
func (l Layout) SubtaskAt(row, child int) (*model.Subtask, bool) {
	if !l.ChildSelectable(row, child) {
		return nil, false
	}
	t, _ := l.TaskAtRow(row)
	return &t.Subtasks[child-1], true
}

func (l Layout) DividerLabel(row int) string {
	if p, ok := l.dividers.PriorityAt(row); ok {
		return p.Label()
	}
	return unknownPriorityLabel
}

// RowOfTask returns the group row currently showing the task with the given id.
func (l Layout) RowOfTask(id int64) (int, bool) {
	for i, r := range l.rows {
		if r.Kind == TaskRow && r.Task.ID == id {
			return i, true
		}
	}
	return 0, false
}
