package tasktree

import (
	"sync"

	"taskmirror/internal/eventbus"
	"taskmirror/internal/task"
)

// Cache owns the in-memory task tree mirrored from the remote task service.
// All structural changes go through LoadProject and every change is paired
// with a bus notification, so the rendering layer can always repaint from
// the current state.
//
// The lock guards the root slice and project pointer only. Node fields are
// mutated in place by the sync engine after remote confirmation; concurrent
// updates to the same task are resolved last-processed-wins, matching the
// remote service's last-writer-wins semantics.
type Cache struct {
	mu      sync.RWMutex
	project *task.Project
	roots   []*task.Task
	bus     *eventbus.Bus
}

func NewCache(bus *eventbus.Bus) *Cache {
	return &Cache{bus: bus}
}

// LoadProject atomically replaces the tree with p's tasks. A nil project or
// a project without a task list loads the empty tree. The tree-replaced
// event fires unconditionally, even when the new tree is empty.
func (c *Cache) LoadProject(p *task.Project) {
	c.mu.Lock()
	c.project = p
	if p == nil || p.Tasks == nil {
		c.roots = nil
	} else {
		c.roots = p.Tasks
	}
	c.mu.Unlock()
	c.bus.Publish(eventbus.TypeTreeReplaced)
}

// Roots returns the current root tasks in order. Callers must treat the
// slice as read-only.
func (c *Cache) Roots() []*task.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roots
}

// Children returns t's subtasks in order, possibly empty.
func (c *Cache) Children(t *task.Task) []*task.Task {
	if t == nil {
		return nil
	}
	return t.SubTasks
}

// FindTask locates a task anywhere in the current tree by id.
func (c *Cache) FindTask(id string) *task.Task {
	c.mu.RLock()
	roots := c.roots
	c.mu.RUnlock()
	return Find(id, roots)
}

// Refresh fires a repaint notification without touching the tree. Used
// after operations whose outcome the cache cannot infer on its own, such as
// a failed remote call that may have left a transient indicator on screen.
func (c *Cache) Refresh() {
	c.bus.Publish(eventbus.TypeTreeRefreshed)
}

// Project returns the currently loaded project, nil when none is loaded.
func (c *Cache) Project() *task.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.project
}
