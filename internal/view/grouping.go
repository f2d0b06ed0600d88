package view

import (
	"slices"

	"todoview/internal/model"
)

// DividerMap maps each priority present in the working set to the row of its divider.
type DividerMap map[model.Priority]int

// ComputeDividers reserves one divider row before the first task of every priority.
func ComputeDividers(sorted []*model.Task) DividerMap {
	dividers := DividerMap{}
	pos := 0
	for _, t := range sorted {
		if _, seen := dividers[t.Priority]; !seen {
			dividers[t.Priority] = pos
			pos++
		}
		pos++
	}
	return dividers
}

// Rows returns the divider rows in ascending order.
func (d DividerMap) Rows() []int {
	rows := make([]int, 0, len(d))
	for _, r := range d {
		rows = append(rows, r)
	}
	slices.Sort(rows)
	return rows
}

// PriorityAt returns the priority whose divider sits at row.
func (d DividerMap) PriorityAt(row int) (model.Priority, bool) {
	for p, r := range d {
		if r == row {
			return p, true
		}
	}
	return 0, false
}
