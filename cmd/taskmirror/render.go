package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"taskmirror/internal/task"
	"taskmirror/internal/tasktree"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type renderer struct {
	w      io.Writer
	format string
	color  bool
	dirty  atomic.Bool
}

func newRenderer(w io.Writer, format string, colored bool) *renderer {
	return &renderer{
		w:      w,
		format: format,
		color:  colored,
	}
}

func (r *renderer) markDirty() {
	r.dirty.Store(true)
}

// renderIfDirty repaints the tree once if any change notification arrived
// since the last paint.
func (r *renderer) renderIfDirty(cache *tasktree.Cache) error {
	if !r.dirty.Swap(false) {
		return nil
	}
	switch r.format {
	case formatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(renderPayload(cache))
	case formatYAML:
		data, err := yaml.Marshal(renderPayload(cache))
		if err != nil {
			return err
		}
		_, err = r.w.Write(data)
		return err
	default:
		return r.renderTextTree(cache)
	}
}

// renderPayload prefers the full project when one is loaded, falling back
// to the bare root list.
func renderPayload(cache *tasktree.Cache) any {
	if p := cache.Project(); p != nil {
		return p
	}
	return cache.Roots()
}

func (r *renderer) renderTextTree(cache *tasktree.Cache) error {
	if p := cache.Project(); p != nil {
		if _, err := fmt.Fprintf(r.w, "%s (%s)\n", p.Name, p.ID); err != nil {
			return err
		}
	}
	roots := cache.Roots()
	if len(roots) == 0 {
		_, err := fmt.Fprintln(r.w, "  (no tasks)")
		return err
	}
	return r.renderNodes(cache, roots, 1)
}

func (r *renderer) renderNodes(cache *tasktree.Cache, nodes []*task.Task, depth int) error {
	for _, t := range nodes {
		indent := strings.Repeat("  ", depth)
		if _, err := fmt.Fprintf(r.w, "%s%s %s  %s\n", indent, r.statusTag(t.Status), t.Title, t.ID); err != nil {
			return err
		}
		if err := r.renderNodes(cache, cache.Children(t), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) statusTag(s task.Status) string {
	tag := fmt.Sprintf("[%s]", s)
	if !r.color {
		return tag
	}
	switch s {
	case task.StatusCompleted:
		return color.GreenString(tag)
	case task.StatusInProgress:
		return color.BlueString(tag)
	case task.StatusBlocked:
		return color.RedString(tag)
	default:
		return color.YellowString(tag)
	}
}

func (r *renderer) renderTask(t *task.Task) error {
	switch r.format {
	case formatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	case formatYAML:
		data, err := yaml.Marshal(t)
		if err != nil {
			return err
		}
		_, err = r.w.Write(data)
		return err
	default:
		if _, err := fmt.Fprintf(r.w, "%s %s  %s\n", r.statusTag(t.Status), t.Title, t.ID); err != nil {
			return err
		}
		if t.Description != "" {
			if _, err := fmt.Fprintf(r.w, "  %s\n", t.Description); err != nil {
				return err
			}
		}
		if t.Complexity != "" {
			if _, err := fmt.Fprintf(r.w, "  complexity: %s\n", t.Complexity); err != nil {
				return err
			}
		}
		if t.EstimatedTime != "" {
			if _, err := fmt.Fprintf(r.w, "  estimated: %s\n", t.EstimatedTime); err != nil {
				return err
			}
		}
		if len(t.Dependencies) > 0 {
			if _, err := fmt.Fprintf(r.w, "  depends on: %s\n", strings.Join(t.Dependencies, ", ")); err != nil {
				return err
			}
		}
		return nil
	}
}
