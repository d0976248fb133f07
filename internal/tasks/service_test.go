package tasks_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow-hq/taskflow/internal/auth"
	"github.com/taskflow-hq/taskflow/internal/platform/httpx"
	"github.com/taskflow-hq/taskflow/internal/platform/kv"
	"github.com/taskflow-hq/taskflow/internal/projects"
	"github.com/taskflow-hq/taskflow/internal/store"
	"github.com/taskflow-hq/taskflow/internal/tasks"
)

var (
	adminSess = auth.Session{Email: "admin@x.com", Role: store.RoleAdmin}
	sarahSess = auth.Session{Email: "sarah@x.com", Role: store.RoleManager}
	jamesSess = auth.Session{Email: "james@x.com", Role: store.RoleManager}
	miaSess   = auth.Session{Email: "mia@x.com", Role: store.RoleMember}
)

func newService(t *testing.T) *tasks.Service {
	t.Helper()
	seed := store.Seed{
		Projects: []store.Project{
			{ID: 1, Name: "Alpha", Owner: "sarah@x.com"},
			{ID: 2, Name: "Beta", Owner: "james@x.com"},
		},
		Tasks: []store.Task{
			{ID: 1, ProjectID: 1, Title: "one", AssignedTo: "mia@x.com", Status: store.StatusPending},
			{ID: 2, ProjectID: 2, Title: "two", AssignedTo: "mia@x.com", Status: store.StatusInProgress},
		},
	}
	st := store.New(context.Background(), kv.NewMemory(seed.Payload()), seed, nil)
	return tasks.NewService(st)
}

func TestListAndStatsAreScoped(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	assert.Len(t, svc.List(ctx, adminSess), 2)
	assert.Len(t, svc.List(ctx, sarahSess), 1)
	assert.Len(t, svc.List(ctx, miaSess), 2)

	assert.Equal(t, store.Stats{Total: 1, Pending: 1}, svc.Stats(ctx, sarahSess))
	assert.Equal(t, store.Stats{Total: 2, Pending: 1, InProgress: 1}, svc.Stats(ctx, miaSess))
}

func TestCreateRights(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	input := tasks.CreateInput{ProjectID: 1, Title: "new", AssignedTo: "mia@x.com", Status: store.StatusPending}

	created, err := svc.Create(ctx, adminSess, input)
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)

	created, err = svc.Create(ctx, sarahSess, input)
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)

	// A manager may not create tasks in a project they do not own.
	_, err = svc.Create(ctx, jamesSess, input)
	assert.ErrorIs(t, err, httpx.ErrForbidden)

	_, err = svc.Create(ctx, miaSess, input)
	assert.ErrorIs(t, err, httpx.ErrForbidden)

	_, err = svc.Create(ctx, adminSess, tasks.CreateInput{ProjectID: 99, Title: "x", Status: store.StatusPending})
	assert.ErrorIs(t, err, httpx.ErrNotFound)

	_, err = svc.Create(ctx, adminSess, tasks.CreateInput{ProjectID: 1, Title: "x", Status: "bogus"})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateRights(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	title := "edited"

	updated, err := svc.Update(ctx, sarahSess, 1, store.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Title)

	_, err = svc.Update(ctx, jamesSess, 1, store.TaskPatch{Title: &title})
	assert.ErrorIs(t, err, httpx.ErrForbidden)

	// Members may not edit tasks, even their own.
	_, err = svc.Update(ctx, miaSess, 1, store.TaskPatch{Title: &title})
	assert.ErrorIs(t, err, httpx.ErrForbidden)

	bogus := store.TaskStatus("bogus")
	_, err = svc.Update(ctx, adminSess, 1, store.TaskPatch{Status: &bogus})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Update(ctx, adminSess, 99, store.TaskPatch{Title: &title})
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestDeleteRights(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, jamesSess, 1), httpx.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, miaSess, 1), httpx.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, sarahSess, 1))
	assert.ErrorIs(t, svc.Delete(ctx, sarahSess, 1), httpx.ErrNotFound)
}

func TestSetStatusRights(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	// The assigned member may move their own task.
	updated, err := svc.SetStatus(ctx, miaSess, 1, store.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, store.StatusDone, updated.Status)

	// A member may not move someone else's task.
	noahSess := auth.Session{Email: "noah@x.com", Role: store.RoleMember}
	_, err = svc.SetStatus(ctx, noahSess, 1, store.StatusPending)
	assert.ErrorIs(t, err, httpx.ErrForbidden)

	// A manager who does not own the project may not move its tasks.
	_, err = svc.SetStatus(ctx, jamesSess, 1, store.StatusPending)
	assert.ErrorIs(t, err, httpx.ErrForbidden)

	_, err = svc.SetStatus(ctx, sarahSess, 1, store.StatusInProgress)
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, adminSess, 1, "bogus")
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.SetStatus(ctx, adminSess, 99, store.StatusDone)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

// TestProjectLifecycleFlow walks the cross-role flow end to end: an admin
// creates a project owned by one manager, another manager is denied task
// creation in it, the assigned member moves the task, and the non-owning
// manager is denied the status change.
func TestProjectLifecycleFlow(t *testing.T) {
	seed := store.Seed{}
	st := store.New(context.Background(), kv.NewMemory(seed.Payload()), seed, nil)
	projectSvc := projects.NewService(st)
	taskSvc := tasks.NewService(st)
	ctx := context.Background()

	ownerSess := auth.Session{Email: "a@x.com", Role: store.RoleManager}
	otherSess := auth.Session{Email: "b@x.com", Role: store.RoleManager}
	memberSess := auth.Session{Email: "m@x.com", Role: store.RoleMember}

	project, err := projectSvc.Create(ctx, adminSess, projects.CreateInput{Name: "Launch", Owner: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), project.ID)

	input := tasks.CreateInput{ProjectID: project.ID, Title: "ship it", AssignedTo: "m@x.com", Status: store.StatusPending}

	_, err = taskSvc.Create(ctx, otherSess, input)
	assert.ErrorIs(t, err, httpx.ErrForbidden)

	task, err := taskSvc.Create(ctx, adminSess, input)
	require.NoError(t, err)
	assert.Equal(t, int64(1), task.ID)

	moved, err := taskSvc.SetStatus(ctx, memberSess, task.ID, store.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, store.StatusDone, moved.Status)

	_, err = taskSvc.SetStatus(ctx, otherSess, task.ID, store.StatusPending)
	assert.ErrorIs(t, err, httpx.ErrForbidden)

	_, err = taskSvc.SetStatus(ctx, ownerSess, task.ID, store.StatusInProgress)
	require.NoError(t, err)
}
