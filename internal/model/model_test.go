package model

import (
	"testing"
	"time"
)

func TestMatchesQuery(t *testing.T) {
	task := Task{
		Name:        "Buy groceries",
		Description: "milk and Bread",
		Subtasks:    []Subtask{{ID: 1, Name: "Check pantry"}},
	}
	cases := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"GROCER", true},
		{"bread", true},
		{"pantry", true},
		{"dentist", false},
	}
	for _, tc := range cases {
		if got := task.MatchesQuery(tc.query); got != tc.want {
			t.Errorf("MatchesQuery(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}

func TestDoneStatusChanged(t *testing.T) {
	task := Task{Subtasks: []Subtask{{ID: 1, Done: true}, {ID: 2}}}
	if task.DoneStatusChanged() {
		t.Fatalf("expected no change while a subtask is open")
	}
	task.Subtasks[1].Done = true
	if !task.DoneStatusChanged() || !task.Done {
		t.Fatalf("expected task to become done once all subtasks are done")
	}
	task.Subtasks[0].Done = false
	if !task.DoneStatusChanged() || task.Done {
		t.Fatalf("expected task to reopen when a subtask reopens")
	}

	empty := Task{Done: true}
	if empty.DoneStatusChanged() || !empty.Done {
		t.Fatalf("task without subtasks must keep its done flag")
	}
}

func TestAppendAndRemoveSubtask(t *testing.T) {
	task := Task{ID: 7}
	task.AppendSubtask(Subtask{ID: 1, Name: "a"})
	task.AppendSubtask(Subtask{ID: 2, Name: "b"})
	if task.Subtasks[1].TaskID != 7 {
		t.Fatalf("expected back-reference to parent, got %d", task.Subtasks[1].TaskID)
	}
	if !task.RemoveSubtask(1) {
		t.Fatalf("expected subtask 1 to be removed")
	}
	if task.RemoveSubtask(1) {
		t.Fatalf("removing twice should report false")
	}
	if len(task.Subtasks) != 1 || task.Subtasks[0].ID != 2 {
		t.Fatalf("unexpected subtasks after removal: %+v", task.Subtasks)
	}
}

func TestCloneDoesNotShareSubtasks(t *testing.T) {
	task := Task{Subtasks: []Subtask{{ID: 1}}}
	c := task.Clone()
	c.Subtasks[0].Done = true
	if task.Subtasks[0].Done {
		t.Fatalf("clone mutated original subtask")
	}
}

func TestParsePriority(t *testing.T) {
	for in, want := range map[string]Priority{"high": PriorityHigh, "M": PriorityMedium, "": PriorityMedium, "3": PriorityLow} {
		got, err := ParsePriority(in)
		if err != nil || got != want {
			t.Errorf("ParsePriority(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Errorf("expected error for unknown priority")
	}
}

func TestUrgency(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	cases := []struct {
		name string
		task Task
		want Urgency
	}{
		{"no deadline", Task{}, UrgencyNone},
		{"done", Task{Done: true, Deadline: now.Add(-day)}, UrgencyNone},
		{"overdue", Task{Deadline: now.Add(-time.Hour)}, UrgencyOverdue},
		{"inside lead time", Task{Deadline: now.Add(12 * time.Hour)}, UrgencyDueSoon},
		{"outside lead time", Task{Deadline: now.Add(3 * day)}, UrgencyNotDue},
		{"explicit reminder passed", Task{Deadline: now.Add(3 * day), Reminder: now.Add(-time.Minute)}, UrgencyDueSoon},
	}
	for _, tc := range cases {
		if got := tc.task.Urgency(now, day); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
