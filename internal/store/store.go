package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	"github.com/taskflow-hq/taskflow/internal/platform/kv"
)

// Store owns the three collections. One instance per process, injected
// into the services that need it. Each collection has its own mutex so at
// most one mutation runs against it at a time; reads refresh the local
// copy from the backend, writes mutate locally and propagate best effort.
type Store struct {
	backend kv.Backend
	logger  *slog.Logger

	usersMu    sync.Mutex
	projectsMu sync.Mutex
	tasksMu    sync.Mutex

	users    []User
	projects []Project
	tasks    []Task
}

// New constructs a Store. The seed supplies the initial in-process copies,
// which double as the fallback values when the backend cannot serve a
// read. The first refresh picks up whatever the backend already holds.
func New(ctx context.Context, backend kv.Backend, seed Seed, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		backend:  backend,
		logger:   logger,
		users:    slices.Clone(seed.Users),
		projects: slices.Clone(seed.Projects),
		tasks:    slices.Clone(seed.Tasks),
	}

	s.usersMu.Lock()
	s.refreshUsersLocked(ctx)
	s.usersMu.Unlock()

	s.projectsMu.Lock()
	s.refreshProjectsLocked(ctx)
	s.projectsMu.Unlock()

	s.tasksMu.Lock()
	s.refreshTasksLocked(ctx)
	s.tasksMu.Unlock()

	return s
}

// User operations

// ListUsers returns all users.
func (s *Store) ListUsers(ctx context.Context) []User {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	s.refreshUsersLocked(ctx)
	return slices.Clone(s.users)
}

// GetUserByEmail returns the user with the given email, or nil.
func (s *Store) GetUserByEmail(ctx context.Context, email string) *User {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	s.refreshUsersLocked(ctx)
	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user
		}
	}
	return nil
}

// SetUserRole updates a user's role and returns the updated user, or nil
// when the email is unknown.
func (s *Store) SetUserRole(ctx context.Context, email string, role Role) *User {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	s.refreshUsersLocked(ctx)
	idx := slices.IndexFunc(s.users, func(u User) bool { return u.Email == email })
	if idx < 0 {
		return nil
	}
	s.users[idx].Role = role
	s.persistUsersLocked(ctx)
	user := s.users[idx]
	return &user
}

// Project operations

// ListProjects returns all projects.
func (s *Store) ListProjects(ctx context.Context) []Project {
	s.projectsMu.Lock()
	defer s.projectsMu.Unlock()
	s.refreshProjectsLocked(ctx)
	return slices.Clone(s.projects)
}

// GetProject returns the project with the given id, or nil.
func (s *Store) GetProject(ctx context.Context, id int64) *Project {
	s.projectsMu.Lock()
	defer s.projectsMu.Unlock()
	s.refreshProjectsLocked(ctx)
	idx := slices.IndexFunc(s.projects, func(p Project) bool { return p.ID == id })
	if idx < 0 {
		return nil
	}
	project := s.projects[idx]
	return &project
}

// ListProjectsByOwner returns the projects owned by the given email.
func (s *Store) ListProjectsByOwner(ctx context.Context, owner string) []Project {
	s.projectsMu.Lock()
	defer s.projectsMu.Unlock()
	s.refreshProjectsLocked(ctx)
	owned := make([]Project, 0)
	for _, p := range s.projects {
		if p.Owner == owner {
			owned = append(owned, p)
		}
	}
	return owned
}

// CreateProject assigns the next id and stores the project.
func (s *Store) CreateProject(ctx context.Context, project Project) Project {
	s.projectsMu.Lock()
	defer s.projectsMu.Unlock()
	s.refreshProjectsLocked(ctx)
	project.ID = nextID(s.projects, func(p Project) int64 { return p.ID })
	s.projects = append(s.projects, project)
	s.persistProjectsLocked(ctx)
	return project
}

// UpdateProject applies a partial update and returns the updated project,
// or nil when the id is unknown. The owner is fixed at creation.
func (s *Store) UpdateProject(ctx context.Context, id int64, patch ProjectPatch) *Project {
	s.projectsMu.Lock()
	defer s.projectsMu.Unlock()
	s.refreshProjectsLocked(ctx)
	idx := slices.IndexFunc(s.projects, func(p Project) bool { return p.ID == id })
	if idx < 0 {
		return nil
	}
	if patch.Name != nil {
		s.projects[idx].Name = *patch.Name
	}
	if patch.Description != nil {
		s.projects[idx].Description = *patch.Description
	}
	s.persistProjectsLocked(ctx)
	project := s.projects[idx]
	return &project
}

// DeleteProject removes the project and every task that references it.
// Both collections are updated under their locks before the call returns,
// so no reader observes a partial cascade.
func (s *Store) DeleteProject(ctx context.Context, id int64) bool {
	s.projectsMu.Lock()
	defer s.projectsMu.Unlock()
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	s.refreshProjectsLocked(ctx)
	idx := slices.IndexFunc(s.projects, func(p Project) bool { return p.ID == id })
	if idx < 0 {
		return false
	}
	s.projects = slices.Delete(s.projects, idx, idx+1)
	s.persistProjectsLocked(ctx)

	s.refreshTasksLocked(ctx)
	s.tasks = slices.DeleteFunc(s.tasks, func(t Task) bool { return t.ProjectID == id })
	s.persistTasksLocked(ctx)
	return true
}

// Task operations

// ListTasks returns all tasks.
func (s *Store) ListTasks(ctx context.Context) []Task {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()
	s.refreshTasksLocked(ctx)
	return slices.Clone(s.tasks)
}

// GetTask returns the task with the given id, or nil.
func (s *Store) GetTask(ctx context.Context, id int64) *Task {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()
	s.refreshTasksLocked(ctx)
	idx := slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
	if idx < 0 {
		return nil
	}
	task := s.tasks[idx]
	return &task
}

// ListTasksByProject returns the tasks belonging to the given project.
func (s *Store) ListTasksByProject(ctx context.Context, projectID int64) []Task {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()
	s.refreshTasksLocked(ctx)
	tasks := make([]Task, 0)
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// ListTasksByAssignee returns the tasks assigned to the given email.
func (s *Store) ListTasksByAssignee(ctx context.Context, email string) []Task {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()
	s.refreshTasksLocked(ctx)
	tasks := make([]Task, 0)
	for _, t := range s.tasks {
		if t.AssignedTo == email {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// CreateTask assigns the next id and stores the task.
func (s *Store) CreateTask(ctx context.Context, task Task) Task {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()
	s.refreshTasksLocked(ctx)
	task.ID = nextID(s.tasks, func(t Task) int64 { return t.ID })
	s.tasks = append(s.tasks, task)
	s.persistTasksLocked(ctx)
	return task
}

// UpdateTask applies a partial update and returns the updated task, or nil
// when the id is unknown.
func (s *Store) UpdateTask(ctx context.Context, id int64, patch TaskPatch) *Task {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()
	s.refreshTasksLocked(ctx)
	idx := slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
	if idx < 0 {
		return nil
	}
	if patch.Title != nil {
		s.tasks[idx].Title = *patch.Title
	}
	if patch.AssignedTo != nil {
		s.tasks[idx].AssignedTo = *patch.AssignedTo
	}
	if patch.Status != nil {
		s.tasks[idx].Status = *patch.Status
	}
	s.persistTasksLocked(ctx)
	task := s.tasks[idx]
	return &task
}

// DeleteTask removes a single task.
func (s *Store) DeleteTask(ctx context.Context, id int64) bool {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()
	s.refreshTasksLocked(ctx)
	idx := slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
	if idx < 0 {
		return false
	}
	s.tasks = slices.Delete(s.tasks, idx, idx+1)
	s.persistTasksLocked(ctx)
	return true
}

// SetTaskStatus updates only the status of a task.
func (s *Store) SetTaskStatus(ctx context.Context, id int64, status TaskStatus) *Task {
	return s.UpdateTask(ctx, id, TaskPatch{Status: &status})
}

// Backend returns the active persistence backend.
func (s *Store) Backend() kv.Backend {
	return s.backend
}

// nextID computes max(existing ids, 0) + 1 under the collection lock.
func nextID[T any](items []T, id func(T) int64) int64 {
	var highest int64
	for _, item := range items {
		if v := id(item); v > highest {
			highest = v
		}
	}
	return highest + 1
}

// refresh helpers: read the collection from the backend with the local
// copy as fallback, then adopt whatever came back.

func (s *Store) refreshUsersLocked(ctx context.Context) {
	data := s.backend.Get(ctx, kv.UsersKey, marshalUsers(s.users))
	var records []userRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("store: decode users", slog.Any("error", err))
		return
	}
	users := make([]User, 0, len(records))
	for _, rec := range records {
		users = append(users, User{Email: rec.Email, PasswordHash: rec.PasswordHash, Role: rec.Role})
	}
	s.users = users
}

func (s *Store) refreshProjectsLocked(ctx context.Context) {
	data := s.backend.Get(ctx, kv.ProjectsKey, mustMarshal(s.projects))
	var projects []Project
	if err := json.Unmarshal(data, &projects); err != nil {
		s.logger.Warn("store: decode projects", slog.Any("error", err))
		return
	}
	s.projects = projects
}

func (s *Store) refreshTasksLocked(ctx context.Context) {
	data := s.backend.Get(ctx, kv.TasksKey, mustMarshal(s.tasks))
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		s.logger.Warn("store: decode tasks", slog.Any("error", err))
		return
	}
	s.tasks = tasks
}

func (s *Store) persistUsersLocked(ctx context.Context) {
	s.backend.Set(ctx, kv.UsersKey, marshalUsers(s.users))
}

func (s *Store) persistProjectsLocked(ctx context.Context) {
	s.backend.Set(ctx, kv.ProjectsKey, mustMarshal(s.projects))
}

func (s *Store) persistTasksLocked(ctx context.Context) {
	s.backend.Set(ctx, kv.TasksKey, mustMarshal(s.tasks))
}

func marshalUsers(users []User) []byte {
	records := make([]userRecord, 0, len(users))
	for _, u := range users {
		records = append(records, userRecord{Email: u.Email, PasswordHash: u.PasswordHash, Role: u.Role})
	}
	return mustMarshal(records)
}

func mustMarshal[T any](items []T) []byte {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return []byte("[]")
	}
	return data
}
