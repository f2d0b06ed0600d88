package view

import (
	"testing"

	"todoview/internal/model"
)

func groupedFixture() []*model.Task {
	tasks := []*model.Task{
		task(1, model.PriorityLow, 2),
		task(2, model.PriorityHigh, 4),
		task(3, model.PriorityMedium, -1),
		task(4, model.PriorityHigh, 1),
	}
	tasks[1].Subtasks = []model.Subtask{{ID: 21}, {ID: 22}, {ID: 23}}
	SortTasks(tasks, SortByPriority|SortByDeadline)
	return tasks
}

func TestComputeDividers(t *testing.T) {
	sorted := groupedFixture()
	assertIDs(t, sorted, 4, 2, 3, 1)

	d := ComputeDividers(sorted)

	want := DividerMap{model.PriorityHigh: 0, model.PriorityMedium: 3, model.PriorityLow: 5}
	if len(d) != len(want) {
		t.Fatalf("expected %v, got %v", want, d)
	}
	for p, r := range want {
		if d[p] != r {
			t.Fatalf("expected %v, got %v", want, d)
		}
	}
}

func TestComputeDividers_OnlyPresentPriorities(t *testing.T) {
	sorted := []*model.Task{task(1, model.PriorityHigh, -1), task(2, model.PriorityLow, -1), task(3, model.PriorityLow, -1)}

	d := ComputeDividers(sorted)

	if _, ok := d[model.PriorityMedium]; ok {
		t.Fatalf("absent priority must not get a divider: %v", d)
	}
	rows := d.Rows()
	if len(rows) != 2 || rows[0] != 0 || rows[1] != 2 {
		t.Fatalf("expected divider rows [0 2], got %v", rows)
	}
	if len(ComputeDividers(nil)) != 0 {
		t.Fatalf("empty working set must have no dividers")
	}
}

func TestLayout_GroupedRows(t *testing.T) {
	l := NewLayout(groupedFixture(), true)

	if got := l.TotalGroupRows(); got != 4+3 {
		t.Fatalf("expected 7 rows, got %d", got)
	}

	wantKinds := []RowKind{PriorityDividerRow, TaskRow, TaskRow, PriorityDividerRow, TaskRow, PriorityDividerRow, TaskRow}
	wantIDs := []int64{0, 4, 2, 0, 3, 0, 1}
	for row := range wantKinds {
		if got := l.RowType(row); got != wantKinds[row] {
			t.Fatalf("row %d: expected kind %v, got %v", row, wantKinds[row], got)
		}
		tk, ok := l.TaskAtRow(row)
		if wantIDs[row] == 0 {
			if ok {
				t.Fatalf("row %d: divider resolved to task %d", row, tk.ID)
			}
			continue
		}
		if !ok || tk.ID != wantIDs[row] {
			t.Fatalf("row %d: expected task %d, got %v", row, wantIDs[row], tk)
		}
	}

	if got := l.DividerLabel(3); got != "Medium priority" {
		t.Fatalf("unexpected divider label %q", got)
	}
	if got := l.DividerLabel(1); got != unknownPriorityLabel {
		t.Fatalf("non-divider row should use the fallback label, got %q", got)
	}
}

func TestLayout_RoundTrip(t *testing.T) {
	for _, grouping := range []bool{false, true} {
		l := NewLayout(groupedFixture(), grouping)
		for row := 0; row < l.TotalGroupRows(); row++ {
			isDivider := l.RowType(row) == PriorityDividerRow
			_, hasTask := l.TaskAtRow(row)
			if isDivider == hasTask {
				t.Fatalf("grouping=%v row %d: divider=%v task=%v", grouping, row, isDivider, hasTask)
			}
		}
	}
}

func TestLayout_AgreesWithDividerArithmetic(t *testing.T) {
	sorted := groupedFixture()
	l := NewLayout(sorted, true)
	dividerRows := l.Dividers().Rows()

	for row := 0; row < l.TotalGroupRows(); row++ {
		passed := 0
		for _, r := range dividerRows {
			if r <= row {
				passed++
			}
		}
		tk, ok := l.TaskAtRow(row)
		if !ok {
			continue
		}
		if sorted[row-passed] != tk {
			t.Fatalf("row %d: arithmetic resolves task %d, layout resolves %d", row, sorted[row-passed].ID, tk.ID)
		}
	}
}

func TestLayout_Ungrouped(t *testing.T) {
	sorted := groupedFixture()
	l := NewLayout(sorted, false)

	if l.TotalGroupRows() != len(sorted) {
		t.Fatalf("expected %d rows, got %d", len(sorted), l.TotalGroupRows())
	}
	if l.Dividers() != nil {
		t.Fatalf("dividers must be unset without grouping")
	}
	for row := range sorted {
		if l.RowType(row) != TaskRow {
			t.Fatalf("row %d should be a task row", row)
		}
	}
}

func TestLayout_OutOfRange(t *testing.T) {
	l := NewLayout(groupedFixture(), true)

	for _, row := range []int{-1, l.TotalGroupRows(), 100} {
		if _, ok := l.TaskAtRow(row); ok {
			t.Fatalf("row %d should not resolve", row)
		}
		if l.ChildCount(row) != 0 {
			t.Fatalf("row %d should have no children", row)
		}
		if l.DividerLabel(row) != unknownPriorityLabel {
			t.Fatalf("row %d should use the fallback label", row)
		}
	}
}

func TestLayout_ChildRows(t *testing.T) {
	l := NewLayout(groupedFixture(), true)
	row, ok := l.RowOfTask(2)
	if !ok {
		t.Fatalf("task 2 not in layout")
	}

	if got := l.ChildCount(row); got != 5 {
		t.Fatalf("expected 3 subtasks + 2 rows, got %d", got)
	}
	if l.ChildCount(0) != 0 {
		t.Fatalf("divider rows have no children")
	}

	want := []ChildKind{DescriptionRow, SubtaskRow, SubtaskRow, SubtaskRow, AddSubtaskRow}
	for child, kind := range want {
		if got := l.ChildType(row, child); got != kind {
			t.Fatalf("child %d: expected %v, got %v", child, kind, got)
		}
		selectable := child >= 1 && child <= 3
		if got := l.ChildSelectable(row, child); got != selectable {
			t.Fatalf("child %d: expected selectable=%v", child, selectable)
		}
	}

	st, ok := l.SubtaskAt(row, 2)
	if !ok || st.ID != 22 {
		t.Fatalf("expected subtask 22 at child 2, got %v", st)
	}
	if _, ok := l.SubtaskAt(row, 4); ok {
		t.Fatalf("add-subtask row must not resolve to a subtask")
	}
}
