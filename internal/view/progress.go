package view

import "todoview/internal/model"

// ComputeProgress derives the completion percentage from subtasks when auto is on and
// stores it on the task. A task without subtasks keeps its stored progress.
func ComputeProgress(t *model.Task, auto bool) int {
	if !auto || len(t.Subtasks) == 0 {
		return t.Progress
	}
	t.Progress = 100 * t.DoneSubtasks() / len(t.Subtasks)
	return t.Progress
}
