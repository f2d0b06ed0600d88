// Package view turns a raw task collection into the flattened, two-level row layout
// the list display is driven by: filter, sort, priority grouping and row lookups.
package view

import (
	"fmt"
	"strings"

	"todoview/internal/model"
)

type Filter int

const (
	AllTasks Filter = iota
	OnlyCompleted
	OnlyOpen
)

func (f Filter) String() string {
	switch f {
	case OnlyCompleted:
		return "completed"
	case OnlyOpen:
		return "open"
	default:
		return "all"
	}
}

// Next cycles all -> open -> completed -> all.
func (f Filter) Next() Filter {
	switch f {
	case AllTasks:
		return OnlyOpen
	case OnlyOpen:
		return OnlyCompleted
	default:
		return AllTasks
	}
}

func ParseFilter(v string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "all":
		return AllTasks, nil
	case "completed", "done":
		return OnlyCompleted, nil
	case "open", "pending":
		return OnlyOpen, nil
	}
	return AllTasks, fmt.Errorf("unknown filter %q", v)
}

type Criterion struct {
	Filter Filter
	Query  string
}

func (c Criterion) accepts(t *model.Task) bool {
	switch c.Filter {
	case OnlyCompleted:
		if !t.Done {
			return false
		}
	case OnlyOpen:
		if t.Done {
			return false
		}
	}
	return t.MatchesQuery(c.Query)
}

// FilterTasks returns the tasks accepted by c in their original order.
func FilterTasks(raw []*model.Task, c Criterion) []*model.Task {
	out := make([]*model.Task, 0, len(raw))
	for _, t := range raw {
		if c.accepts(t) {
			out = append(out, t)
		}
	}
	return out
}
