package reconcile

import (
	"context"
	"log/slog"
	"strings"

	"taskmirror/internal/task"
	"taskmirror/internal/tasktree"
	"taskmirror/pkg/cerr"
)

// RemoteService is the slice of the remote task service the engine needs.
// Implemented by *remote.Client.
type RemoteService interface {
	GenerateProject(ctx context.Context, prompt string) (*task.Project, error)
	UpdateTaskStatus(ctx context.Context, id string, status task.Status) (*task.Task, error)
	GetTask(ctx context.Context, id string) (*task.Task, error)
	ProjectTasks(ctx context.Context, projectID string) (*task.Project, error)
}

// Engine reconciles the local task tree with the remote task service. The
// local tree is mutated only after the remote confirms a change; on any
// failure the tree is left untouched apart from a forced repaint.
//
// Operations are not serialized against each other. Concurrent calls race
// and the last-processed response wins, mirroring the remote service's
// last-writer-wins model.
type Engine struct {
	cache  *tasktree.Cache
	remote RemoteService
}

func NewEngine(cache *tasktree.Cache, remote RemoteService) *Engine {
	return &Engine{
		cache:  cache,
		remote: remote,
	}
}

// GenerateProject asks the remote service to decompose prompt into a fresh
// plan and replaces the whole local tree with the result. Any failure, and
// a response without a task list, clears the tree rather than keeping a
// possibly inconsistent previous one.
func (e *Engine) GenerateProject(ctx context.Context, prompt string) (Outcome, error) {
	if strings.TrimSpace(prompt) == "" {
		return OutcomeFailed, cerr.NewError(cerr.InvalidArgument, "prompt must not be empty", nil)
	}

	p, err := e.remote.GenerateProject(ctx, prompt)
	if err != nil {
		slog.WarnContext(ctx, "project generation failed, clearing tree", "error", err)
		e.cache.LoadProject(nil)
		return OutcomeFailed, err
	}
	if p == nil || p.Tasks == nil {
		slog.WarnContext(ctx, "generation response carried no task list")
		e.cache.LoadProject(nil)
		return OutcomeEmptyProject, nil
	}

	e.cache.LoadProject(p)
	slog.InfoContext(ctx, "project loaded", "project_id", p.ID, "root_tasks", len(p.Tasks))
	if len(p.Tasks) == 0 {
		return OutcomeEmptyProject, nil
	}
	return OutcomeApplied, nil
}

// UpdateStatus moves one task to a new status via the remote service and,
// on confirmation, applies the change to the cached node in place. Only the
// node's Status and UpdatedAt are taken from the response. A request for
// the status the task already has is answered locally without any remote
// call.
func (e *Engine) UpdateStatus(ctx context.Context, taskID string, status task.Status) (Outcome, error) {
	if !status.Valid() {
		return OutcomeFailed, cerr.NewError(cerr.InvalidArgument, "invalid status "+string(status), nil)
	}

	// Local read only, not authoritative: the remote still decides the
	// outcome of every real transition.
	if current := e.cache.FindTask(taskID); current != nil && current.Status == status {
		slog.DebugContext(ctx, "status unchanged, skipping remote call", "task_id", taskID, "status", status)
		return OutcomeNoOp, nil
	}

	updated, err := e.remote.UpdateTaskStatus(ctx, taskID, status)
	if err != nil {
		// Repaint anyway so any transient "updating" indicator clears.
		e.cache.Refresh()
		return OutcomeFailed, err
	}

	if updated == nil || updated.ID != taskID {
		slog.WarnContext(ctx, "update response did not echo the task id", "task_id", taskID)
		e.cache.Refresh()
		return OutcomeIncompleteRefresh, nil
	}
	node := e.cache.FindTask(taskID)
	if node == nil {
		slog.WarnContext(ctx, "confirmed task no longer in local tree", "task_id", taskID)
		e.cache.Refresh()
		return OutcomeIncompleteRefresh, nil
	}

	node.Status = updated.Status
	node.UpdatedAt = updated.UpdatedAt
	e.cache.Refresh()
	slog.InfoContext(ctx, "task status updated", "task_id", taskID, "status", updated.Status)
	return OutcomeApplied, nil
}

// OpenProject loads an existing project's task tree from the remote
// service. Unlike GenerateProject, a failure keeps whatever tree is already
// loaded; only a repaint fires.
func (e *Engine) OpenProject(ctx context.Context, projectID string) (Outcome, error) {
	p, err := e.remote.ProjectTasks(ctx, projectID)
	if err != nil {
		e.cache.Refresh()
		return OutcomeFailed, err
	}
	if p == nil || p.Tasks == nil {
		slog.WarnContext(ctx, "project response carried no task list", "project_id", projectID)
		e.cache.Refresh()
		return OutcomeIncompleteRefresh, nil
	}

	e.cache.LoadProject(p)
	if len(p.Tasks) == 0 {
		return OutcomeEmptyProject, nil
	}
	return OutcomeApplied, nil
}

// ReloadProject re-fetches the currently loaded project.
func (e *Engine) ReloadProject(ctx context.Context) (Outcome, error) {
	current := e.cache.Project()
	if current == nil {
		return OutcomeFailed, cerr.NewError(cerr.FailedPrecondition, "no project loaded", nil)
	}
	return e.OpenProject(ctx, current.ID)
}

// InspectTask resolves a task by id, preferring the local tree and falling
// back to the remote service for tasks outside the loaded project.
func (e *Engine) InspectTask(ctx context.Context, id string) (*task.Task, error) {
	if t := e.cache.FindTask(id); t != nil {
		return t, nil
	}
	return e.remote.GetTask(ctx, id)
}
