// Package projects implements project CRUD gated by the authorization
// policy, with list results scoped to the caller's role.
package projects

import (
	"context"
	"fmt"

	"github.com/taskflow-hq/taskflow/internal/auth"
	"github.com/taskflow-hq/taskflow/internal/platform/httpx"
	"github.com/taskflow-hq/taskflow/internal/scope"
	"github.com/taskflow-hq/taskflow/internal/store"
)

// Service handles project business rules.
type Service struct {
	store *store.Store
}

// NewService constructs a Service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// View is a project with its task status breakdown.
type View struct {
	store.Project
	Stats store.Stats `json:"stats"`
}

// CreateInput carries the fields for a new project. An empty Owner
// defaults to the caller.
type CreateInput struct {
	Name        string
	Description string
	Owner       string
}

// List returns the projects visible to the session, each with stats.
func (s *Service) List(ctx context.Context, sess auth.Session) []View {
	projects := s.store.ListProjects(ctx)
	tasks := s.store.ListTasks(ctx)
	visible := scope.ProjectsFor(sess, projects, tasks)

	views := make([]View, 0, len(visible))
	for _, p := range visible {
		projectTasks := make([]store.Task, 0)
		for _, t := range tasks {
			if t.ProjectID == p.ID {
				projectTasks = append(projectTasks, t)
			}
		}
		views = append(views, View{Project: p, Stats: store.TaskStats(projectTasks)})
	}
	return views
}

// Get returns a single project when it is in the caller's visible set.
func (s *Service) Get(ctx context.Context, sess auth.Session, id int64) (store.Project, error) {
	project := s.store.GetProject(ctx, id)
	if project == nil {
		return store.Project{}, fmt.Errorf("project %d: %w", id, httpx.ErrNotFound)
	}
	if !scope.CanSeeProject(sess, *project, s.store.ListTasksByProject(ctx, id)) {
		return store.Project{}, fmt.Errorf("project %d: %w", id, httpx.ErrForbidden)
	}
	return *project, nil
}

// Create stores a new project. Admins may set any owner; a manager may
// only create projects they own themselves; members may not create.
func (s *Service) Create(ctx context.Context, sess auth.Session, input CreateInput) (store.Project, error) {
	owner := input.Owner
	if owner == "" {
		owner = sess.Email
	}
	switch sess.Role {
	case store.RoleAdmin:
	case store.RoleManager:
		if owner != sess.Email {
			return store.Project{}, fmt.Errorf("create project for %s: %w", owner, httpx.ErrForbidden)
		}
	default:
		return store.Project{}, fmt.Errorf("create project: %w", httpx.ErrForbidden)
	}

	return s.store.CreateProject(ctx, store.Project{
		Name:        input.Name,
		Description: input.Description,
		Owner:       owner,
	}), nil
}

// Update applies a partial update. The owner is fixed at creation.
func (s *Service) Update(ctx context.Context, sess auth.Session, id int64, patch store.ProjectPatch) (store.Project, error) {
	project := s.store.GetProject(ctx, id)
	if project == nil {
		return store.Project{}, fmt.Errorf("project %d: %w", id, httpx.ErrNotFound)
	}
	if !auth.CanManageProject(sess.Role, sess.Email, project.Owner) {
		return store.Project{}, fmt.Errorf("manage project %d: %w", id, httpx.ErrForbidden)
	}
	updated := s.store.UpdateProject(ctx, id, patch)
	if updated == nil {
		return store.Project{}, fmt.Errorf("project %d: %w", id, httpx.ErrNotFound)
	}
	return *updated, nil
}

// Delete removes a project and, with it, every task it contains.
func (s *Service) Delete(ctx context.Context, sess auth.Session, id int64) error {
	project := s.store.GetProject(ctx, id)
	if project == nil {
		return fmt.Errorf("project %d: %w", id, httpx.ErrNotFound)
	}
	if !auth.CanManageProject(sess.Role, sess.Email, project.Owner) {
		return fmt.Errorf("manage project %d: %w", id, httpx.ErrForbidden)
	}
	if !s.store.DeleteProject(ctx, id) {
		return fmt.Errorf("project %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

// Tasks returns a visible project's tasks with their stats.
func (s *Service) Tasks(ctx context.Context, sess auth.Session, id int64) ([]store.Task, store.Stats, error) {
	project := s.store.GetProject(ctx, id)
	if project == nil {
		return nil, store.Stats{}, fmt.Errorf("project %d: %w", id, httpx.ErrNotFound)
	}
	tasks := s.store.ListTasksByProject(ctx, id)
	if !scope.CanSeeProject(sess, *project, tasks) {
		return nil, store.Stats{}, fmt.Errorf("project %d: %w", id, httpx.ErrForbidden)
	}
	return tasks, store.TaskStats(tasks), nil
}
