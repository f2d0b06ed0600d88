package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"todoview/internal/model"
)

// SortMask is a bit set of active sort criteria. Priority is primary, deadline secondary.
type SortMask uint8

const (
	SortByPriority SortMask = 1 << iota
	SortByDeadline
)

func (m SortMask) Has(c SortMask) bool { return m&c == c && c != 0 }

func (m SortMask) Add(c SortMask) SortMask { return m | c }

func (m SortMask) Remove(c SortMask) SortMask { return m &^ c }

func (m SortMask) Toggle(c SortMask) SortMask {
	if m.Has(c) {
		return m.Remove(c)
	}
	return m.Add(c)
}

func (m SortMask) String() string {
	var parts []string
	if m.Has(SortByPriority) {
		parts = append(parts, "priority")
	}
	if m.Has(SortByDeadline) {
		parts = append(parts, "deadline")
	}
	if len(parts) == 0 {
		return "position"
	}
	return strings.Join(parts, ",")
}

// ParseSortMask accepts a comma separated list of "priority" and "deadline".
func ParseSortMask(v string) (SortMask, error) {
	var m SortMask
	for _, part := range strings.Split(v, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "", "position", "none":
		case "priority", "prio":
			m = m.Add(SortByPriority)
		case "deadline", "due":
			m = m.Add(SortByDeadline)
		default:
			return 0, fmt.Errorf("unknown sort condition %q", part)
		}
	}
	return m, nil
}

// SortTasks orders tasks in place. Ties keep their relative order.
func SortTasks(tasks []*model.Task, mask SortMask) {
	byPriority := mask.Has(SortByPriority)
	byDeadline := mask.Has(SortByDeadline)
	slices.SortStableFunc(tasks, func(a, b *model.Task) int {
		switch {
		case byPriority:
			if c := cmp.Compare(a.Priority, b.Priority); c != 0 || !byDeadline {
				return c
			}
			return compareDeadlines(a, b)
		case byDeadline:
			return compareDeadlines(a, b)
		default:
			return cmp.Compare(a.ListPosition, b.ListPosition)
		}
	})
}

// compareDeadlines puts tasks without a deadline after every task that has one.
func compareDeadlines(a, b *model.Task) int {
	switch {
	case !a.HasDeadline() && !b.HasDeadline():
		return 0
	case !a.HasDeadline():
		return 1
	case !b.HasDeadline():
		return -1
	}
	return a.Deadline.Compare(b.Deadline)
}
