package tasktree

import "taskmirror/internal/task"

// Find returns the first task with the given id, checking each node before
// descending into its subtasks and visiting siblings in order. Task ids are
// unique within a loaded project, so the first match is the only one.
// Returns nil when the id is absent.
func Find(id string, nodes []*task.Task) *task.Task {
	for _, t := range nodes {
		if t.ID == id {
			return t
		}
		if match := Find(id, t.SubTasks); match != nil {
			return match
		}
	}
	return nil
}
