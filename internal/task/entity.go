package task

import (
	"fmt"
	"time"
)

// Status is a task's lifecycle state. The remote task service permits every
// pairwise transition; there is no enforced workflow ordering.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusBlocked    Status = "blocked"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusBlocked:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown status %q (want pending, in-progress, completed or blocked)", s)
	}
	return status, nil
}

// Complexity is the remote service's rough effort estimate for a task.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// Task is one unit of work inside a project plan. SubTasks is the owning
// edge of the tree; ParentID is a display-only back-reference and is never
// followed for traversal or mutation. Dependency ids are opaque to the
// client, the remote service is responsible for their validity.
type Task struct {
	ID            string     `json:"id" yaml:"id"`
	Title         string     `json:"title" yaml:"title"`
	Description   string     `json:"description,omitempty" yaml:"description,omitempty"`
	Status        Status     `json:"status" yaml:"status"`
	Complexity    Complexity `json:"complexity,omitempty" yaml:"complexity,omitempty"`
	EstimatedTime string     `json:"estimatedTime,omitempty" yaml:"estimated_time,omitempty"`
	ProjectID     string     `json:"projectId" yaml:"project_id"`
	ParentID      string     `json:"parentId,omitempty" yaml:"parent_id,omitempty"`
	Dependencies  []string   `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	SubTasks      []*Task    `json:"subTasks,omitempty" yaml:"sub_tasks,omitempty"`
	CreatedAt     time.Time  `json:"createdAt" yaml:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" yaml:"updated_at"`
}

// Project is one generated plan. Tasks stays nil when the field was absent
// from the wire payload, which callers use to tell a missing task list from
// an empty one.
type Project struct {
	ID             string    `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	OriginalPrompt string    `json:"originalPrompt" yaml:"original_prompt"`
	Tasks          []*Task   `json:"tasks" yaml:"tasks"`
	CreatedAt      time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" yaml:"updated_at"`
}
