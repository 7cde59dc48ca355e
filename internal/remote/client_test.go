package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmirror/internal/task"
	"taskmirror/pkg/cerr"
)

// fakeService is an httptest stand-in for the remote task service, wired
// with the same routes the real one exposes.
type fakeService struct {
	server  *httptest.Server
	project *task.Project

	generateCalls atomic.Int64
	updateCalls   atomic.Int64
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()

	projectID := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Second)
	sub := &task.Task{
		ID:        uuid.NewString(),
		Title:     "Create a project directory",
		Status:    task.StatusPending,
		ProjectID: projectID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	root := &task.Task{
		ID:         uuid.NewString(),
		Title:      "Set up the project environment",
		Status:     task.StatusPending,
		Complexity: task.ComplexitySimple,
		ProjectID:  projectID,
		SubTasks:   []*task.Task{sub},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	sub.ParentID = root.ID

	f := &fakeService{
		project: &task.Project{
			ID:             projectID,
			Name:           "Generated Plan",
			OriginalPrompt: "build the thing",
			Tasks:          []*task.Task{root},
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}

	r := chi.NewRouter()
	r.Post("/projects/generate", func(w http.ResponseWriter, req *http.Request) {
		f.generateCalls.Add(1)
		var body struct {
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Prompt == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Prompt is required in the request body."})
			return
		}
		f.project.OriginalPrompt = body.Prompt
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(f.project)
	})
	r.Get("/projects/{projectID}/tasks", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "projectID") != f.project.ID {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Project not found."})
			return
		}
		json.NewEncoder(w).Encode(f.project)
	})
	r.Get("/tasks/{taskID}", func(w http.ResponseWriter, req *http.Request) {
		if t := findInForest(chi.URLParam(req, "taskID"), f.project.Tasks); t != nil {
			json.NewEncoder(w).Encode(t)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Task not found."})
	})
	r.Put("/tasks/{taskID}", func(w http.ResponseWriter, req *http.Request) {
		f.updateCalls.Add(1)
		var body struct {
			Status task.Status `json:"status"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil || !body.Status.Valid() {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid status."})
			return
		}
		t := findInForest(chi.URLParam(req, "taskID"), f.project.Tasks)
		if t == nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Task not found."})
			return
		}
		t.Status = body.Status
		t.UpdatedAt = time.Now().UTC()
		json.NewEncoder(w).Encode(t)
	})

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

func findInForest(id string, nodes []*task.Task) *task.Task {
	for _, t := range nodes {
		if t.ID == id {
			return t
		}
		if match := findInForest(id, t.SubTasks); match != nil {
			return match
		}
	}
	return nil
}

func TestClientGenerateProject(t *testing.T) {
	f := newFakeService(t)
	c := NewClient(f.server.URL)

	p, err := c.GenerateProject(context.Background(), "build the thing")
	require.NoError(t, err)
	assert.Equal(t, f.project.ID, p.ID)
	require.Len(t, p.Tasks, 1)
	require.Len(t, p.Tasks[0].SubTasks, 1)
	assert.Equal(t, p.Tasks[0].ID, p.Tasks[0].SubTasks[0].ParentID)
	assert.Equal(t, int64(1), f.generateCalls.Load())
}

func TestClientUpdateTaskStatus(t *testing.T) {
	f := newFakeService(t)
	c := NewClient(f.server.URL)
	id := f.project.Tasks[0].SubTasks[0].ID

	updated, err := c.UpdateTaskStatus(context.Background(), id, task.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, id, updated.ID)
	assert.Equal(t, task.StatusCompleted, updated.Status)
}

func TestClientRejectedCarriesDetail(t *testing.T) {
	f := newFakeService(t)
	c := NewClient(f.server.URL)

	_, err := c.UpdateTaskStatus(context.Background(), uuid.NewString(), task.StatusCompleted)
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.Rejected))
	assert.Contains(t, err.Error(), "Task not found.")
}

func TestClientRejectedWithoutDetailBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway exploded", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL)

	_, err := c.GenerateProject(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.Rejected))
	assert.Contains(t, err.Error(), "502")
}

func TestClientMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tasks": "not a list"`))
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL)

	_, err := c.GenerateProject(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.Malformed))
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nobody listening anymore
	c := NewClient(srv.URL)

	_, err := c.GenerateProject(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.Network))
}

func TestClientContextCancellation(t *testing.T) {
	ready := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The server cancels the request context on client disconnect only
		// once the body has been consumed; without this the handler never
		// unblocks and srv.Close deadlocks in cleanup.
		io.Copy(io.Discard, r.Body)
		close(ready)
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-ready
		cancel()
	}()

	_, err := c.GenerateProject(ctx, "x")
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.Canceled))
}

func TestClientProjectTasks(t *testing.T) {
	f := newFakeService(t)
	c := NewClient(f.server.URL)

	p, err := c.ProjectTasks(context.Background(), f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, f.project.ID, p.ID)
	require.NotNil(t, p.Tasks)

	_, err = c.ProjectTasks(context.Background(), uuid.NewString())
	assert.True(t, cerr.IsCode(err, cerr.Rejected))
}

func TestClientGetTask(t *testing.T) {
	f := newFakeService(t)
	c := NewClient(f.server.URL)
	id := f.project.Tasks[0].ID

	got, err := c.GetTask(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Set up the project environment", got.Title)
}
