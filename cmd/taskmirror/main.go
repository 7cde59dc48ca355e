package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"taskmirror/internal/config"
	"taskmirror/internal/eventbus"
	"taskmirror/internal/reconcile"
	"taskmirror/internal/remote"
	"taskmirror/internal/task"
	"taskmirror/internal/tasktree"
	"taskmirror/pkg/clog"
)

var (
	app        = kingpin.New("taskmirror", "Mirror and reconcile task plans owned by a remote task service")
	formatFlag = app.Flag("format", "Output format").Default(formatText).Enum(formatText, formatJSON, formatYAML)
	noColor    = app.Flag("no-color", "Disable colored output").Bool()

	generateCmd    = app.Command("generate", "Generate a new project plan from a prompt")
	generatePrompt = generateCmd.Arg("prompt", "High-level goal to decompose").Required().String()

	showCmd     = app.Command("show", "Show a project's task tree")
	showProject = showCmd.Arg("project-id", "Project ID").Required().String()

	updateCmd     = app.Command("update", "Update a task's status")
	updateProject = updateCmd.Flag("project", "Project ID to sync before updating").Required().String()
	updateID      = updateCmd.Arg("task-id", "Task ID").Required().String()
	updateStatus  = updateCmd.Arg("status", "New status (pending, in-progress, completed, blocked)").Required().String()

	taskCmd = app.Command("task", "Show a single task")
	taskID  = taskCmd.Arg("task-id", "Task ID").Required().String()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewTextHandler(os.Stderr, clog.WithLevel(level), clog.WithColor(!*noColor))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	bus := eventbus.New()
	cache := tasktree.NewCache(bus)
	client := remote.NewClient(env.RemoteURL, remote.WithTimeout(env.HTTPTimeout))
	engine := reconcile.NewEngine(cache, client)

	r := newRenderer(os.Stdout, *formatFlag, !*noColor)
	// Repaint on whatever the core reports changed; the renderer re-queries
	// the cache instead of carrying state through the event.
	bus.Subscribe(func(eventbus.Event) {
		r.markDirty()
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, command, engine, cache, r); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, engine *reconcile.Engine, cache *tasktree.Cache, r *renderer) error {
	switch command {
	case generateCmd.FullCommand():
		outcome, err := engine.GenerateProject(ctx, *generatePrompt)
		if err != nil {
			return err
		}
		fmt.Println(outcome)
		return r.renderIfDirty(cache)

	case showCmd.FullCommand():
		if _, err := engine.OpenProject(ctx, *showProject); err != nil {
			return err
		}
		return r.renderIfDirty(cache)

	case updateCmd.FullCommand():
		status, err := task.ParseStatus(*updateStatus)
		if err != nil {
			return err
		}
		// Sync first so the equal-status short circuit sees current state.
		if _, err := engine.OpenProject(ctx, *updateProject); err != nil {
			return err
		}
		outcome, err := engine.UpdateStatus(ctx, *updateID, status)
		if err != nil {
			return err
		}
		fmt.Println(outcome)
		return r.renderIfDirty(cache)

	case taskCmd.FullCommand():
		t, err := engine.InspectTask(ctx, *taskID)
		if err != nil {
			return err
		}
		return r.renderTask(t)
	}
	return nil
}
