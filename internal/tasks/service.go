// Package tasks implements task CRUD and status transitions gated by the
// authorization policy.
package tasks

import (
	"context"
	"fmt"

	"github.com/taskflow-hq/taskflow/internal/auth"
	"github.com/taskflow-hq/taskflow/internal/platform/httpx"
	"github.com/taskflow-hq/taskflow/internal/scope"
	"github.com/taskflow-hq/taskflow/internal/store"
)

// Service handles task business rules.
type Service struct {
	store *store.Store
}

// NewService constructs a Service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// CreateInput carries the fields for a new task.
type CreateInput struct {
	ProjectID  int64
	Title      string
	AssignedTo string
	Status     store.TaskStatus
}

// List returns the tasks visible to the session.
func (s *Service) List(ctx context.Context, sess auth.Session) []store.Task {
	return scope.TasksFor(sess, s.store.ListProjects(ctx), s.store.ListTasks(ctx))
}

// Stats reduces the session's visible tasks to a status breakdown.
func (s *Service) Stats(ctx context.Context, sess auth.Session) store.Stats {
	return store.TaskStats(s.List(ctx, sess))
}

// Create stores a new task after checking the project exists and the
// caller may create tasks in it.
func (s *Service) Create(ctx context.Context, sess auth.Session, input CreateInput) (store.Task, error) {
	if !input.Status.Valid() {
		return store.Task{}, fmt.Errorf("status %q: %w", input.Status, httpx.ErrValidation)
	}
	project := s.store.GetProject(ctx, input.ProjectID)
	if project == nil {
		return store.Task{}, fmt.Errorf("project %d: %w", input.ProjectID, httpx.ErrNotFound)
	}
	if !auth.CanCreateTask(sess.Role, sess.Email, project.Owner) {
		return store.Task{}, fmt.Errorf("create task in project %d: %w", input.ProjectID, httpx.ErrForbidden)
	}
	return s.store.CreateTask(ctx, store.Task{
		ProjectID:  input.ProjectID,
		Title:      input.Title,
		AssignedTo: input.AssignedTo,
		Status:     input.Status,
	}), nil
}

// Update applies a partial update to title, assignee or status.
func (s *Service) Update(ctx context.Context, sess auth.Session, id int64, patch store.TaskPatch) (store.Task, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return store.Task{}, fmt.Errorf("status %q: %w", *patch.Status, httpx.ErrValidation)
	}
	task, project, err := s.taskWithProject(ctx, id)
	if err != nil {
		return store.Task{}, err
	}
	if !auth.CanEditTask(sess.Role, sess.Email, project.Owner) {
		return store.Task{}, fmt.Errorf("edit task %d: %w", task.ID, httpx.ErrForbidden)
	}
	updated := s.store.UpdateTask(ctx, id, patch)
	if updated == nil {
		return store.Task{}, fmt.Errorf("task %d: %w", id, httpx.ErrNotFound)
	}
	return *updated, nil
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, sess auth.Session, id int64) error {
	task, project, err := s.taskWithProject(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanDeleteTask(sess.Role, sess.Email, project.Owner) {
		return fmt.Errorf("delete task %d: %w", task.ID, httpx.ErrForbidden)
	}
	if !s.store.DeleteTask(ctx, id) {
		return fmt.Errorf("task %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

// SetStatus transitions a task's status. Members may only move their own
// tasks; a manager who does not own the project may not move any.
func (s *Service) SetStatus(ctx context.Context, sess auth.Session, id int64, status store.TaskStatus) (store.Task, error) {
	if !status.Valid() {
		return store.Task{}, fmt.Errorf("status %q: %w", status, httpx.ErrValidation)
	}
	task, project, err := s.taskWithProject(ctx, id)
	if err != nil {
		return store.Task{}, err
	}
	if !auth.CanUpdateTaskStatus(sess.Role, sess.Email, task.AssignedTo, project.Owner) {
		return store.Task{}, fmt.Errorf("update status of task %d: %w", task.ID, httpx.ErrForbidden)
	}
	updated := s.store.SetTaskStatus(ctx, id, status)
	if updated == nil {
		return store.Task{}, fmt.Errorf("task %d: %w", id, httpx.ErrNotFound)
	}
	return *updated, nil
}

func (s *Service) taskWithProject(ctx context.Context, id int64) (store.Task, store.Project, error) {
	task := s.store.GetTask(ctx, id)
	if task == nil {
		return store.Task{}, store.Project{}, fmt.Errorf("task %d: %w", id, httpx.ErrNotFound)
	}
	project := s.store.GetProject(ctx, task.ProjectID)
	if project == nil {
		return store.Task{}, store.Project{}, fmt.Errorf("project %d: %w", task.ProjectID, httpx.ErrNotFound)
	}
	return *task, *project, nil
}
