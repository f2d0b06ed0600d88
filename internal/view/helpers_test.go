package view

import (
	"testing"
	"time"

	"todoview/internal/model"
)

var baseDay = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// day returns a deadline n days after baseDay; n < 0 means no deadline.
func day(n int) time.Time {
	if n < 0 {
		return time.Time{}
	}
	return baseDay.AddDate(0, 0, n)
}

func task(id int64, prio model.Priority, deadlineDay int) *model.Task {
	return &model.Task{
		ID:           id,
		Name:         "task",
		Priority:     prio,
		Deadline:     day(deadlineDay),
		ListPosition: int(id),
	}
}

func ids(tasks []*model.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func assertIDs(t *testing.T, got []*model.Task, want ...int64) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("expected ids %v, got %v", want, g)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("expected ids %v, got %v", want, g)
		}
	}
}
