package view

import (
	"testing"

	"todoview/internal/model"
)

func filterFixture() []*model.Task {
	return []*model.Task{
		{ID: 1, Name: "Write report", Done: true},
		{ID: 2, Name: "Call plumber"},
		{ID: 3, Name: "Book flights", Done: true, Description: "Lisbon in May"},
		{ID: 4, Name: "Water plants", Subtasks: []model.Subtask{{ID: 40, Name: "Balcony"}}},
	}
}

func TestFilterTasks_DoneSelector(t *testing.T) {
	raw := filterFixture()

	assertIDs(t, FilterTasks(raw, Criterion{Filter: AllTasks}), 1, 2, 3, 4)
	assertIDs(t, FilterTasks(raw, Criterion{Filter: OnlyCompleted}), 1, 3)
	assertIDs(t, FilterTasks(raw, Criterion{Filter: OnlyOpen}), 2, 4)
}

func TestFilterTasks_Query(t *testing.T) {
	raw := filterFixture()

	assertIDs(t, FilterTasks(raw, Criterion{Query: ""}), 1, 2, 3, 4)
	assertIDs(t, FilterTasks(raw, Criterion{Query: "lisbon"}), 3)
	assertIDs(t, FilterTasks(raw, Criterion{Query: "BALCONY"}), 4)
	assertIDs(t, FilterTasks(raw, Criterion{Filter: OnlyOpen, Query: "report"}))
	assertIDs(t, FilterTasks(raw, Criterion{Query: "no such thing"}))
}

func TestFilterTasks_DoesNotMutateInput(t *testing.T) {
	raw := filterFixture()
	before := ids(raw)

	out := FilterTasks(raw, Criterion{Filter: OnlyOpen})
	out[0] = &model.Task{ID: 99}

	assertIDs(t, raw, before...)
	if raw[1].Done {
		t.Fatalf("filter must not change done flags")
	}
}

func TestParseFilter(t *testing.T) {
	cases := map[string]Filter{"": AllTasks, "all": AllTasks, "Open": OnlyOpen, "completed": OnlyCompleted, "done": OnlyCompleted}
	for in, want := range cases {
		got, err := ParseFilter(in)
		if err != nil || got != want {
			t.Errorf("ParseFilter(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFilter("someday"); err == nil {
		t.Errorf("expected error for unknown filter")
	}
}

func TestFilterNextCycles(t *testing.T) {
	f := AllTasks
	seen := []Filter{f}
	for i := 0; i < 3; i++ {
		f = f.Next()
		seen = append(seen, f)
	}
	want := []Filter{AllTasks, OnlyOpen, OnlyCompleted, AllTasks}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected cycle %v, got %v", want, seen)
		}
	}
}
