package view

import (
	"testing"

	"todoview/internal/model"
)

func withSubtasks(progress int, done ...bool) *model.Task {
	t := &model.Task{Progress: progress}
	for i, d := range done {
		t.Subtasks = append(t.Subtasks, model.Subtask{ID: int64(i + 1), Done: d})
	}
	return t
}

func TestComputeProgress(t *testing.T) {
	cases := []struct {
		name string
		task *model.Task
		auto bool
		want int
	}{
		{"half done", withSubtasks(0, true, false, true, false), true, 50},
		{"manual mode keeps value", withSubtasks(15, true, true, true, true), false, 15},
		{"truncates", withSubtasks(0, true, false, false), true, 33},
		{"two thirds truncates", withSubtasks(0, true, true, false), true, 66},
		{"all done", withSubtasks(0, true, true), true, 100},
		{"no subtasks keeps value", withSubtasks(40), true, 40},
	}
	for _, tc := range cases {
		if got := ComputeProgress(tc.task, tc.auto); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
		if tc.task.Progress != tc.want {
			t.Errorf("%s: stored progress %d, want %d", tc.name, tc.task.Progress, tc.want)
		}
	}
}

func TestComputeProgress_ExactRatio(t *testing.T) {
	done := make([]bool, 100)
	for i := 0; i < 29; i++ {
		done[i] = true
	}
	if got := ComputeProgress(withSubtasks(0, done...), true); got != 29 {
		t.Fatalf("expected 29, got %d", got)
	}
}
