// Package store is the single source of truth for users, projects and
// tasks. All reads and writes pass through a Store instance backed by one
// of the kv backends.
package store

// Role is the sole axis of access control.
type Role string

// The three roles. Exactly one per user.
const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

// Task statuses.
const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// User is a seeded account. The password hash never leaves the process.
type User struct {
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

// userRecord is the persisted form of User, hash included.
type userRecord struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password"`
	Role         Role   `json:"role"`
}

// Project groups tasks under a single owner, fixed at creation.
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
}

// Task belongs to a project and is assigned to a user by email. Both
// references are soft; the store does not enforce them.
type Task struct {
	ID         int64      `json:"id"`
	ProjectID  int64      `json:"projectId"`
	Title      string     `json:"title"`
	AssignedTo string     `json:"assignedTo"`
	Status     TaskStatus `json:"status"`
}

// ProjectPatch carries partial project updates. Nil fields are untouched.
type ProjectPatch struct {
	Name        *string
	Description *string
}

// TaskPatch carries partial task updates. Nil fields are untouched.
type TaskPatch struct {
	Title      *string
	AssignedTo *string
	Status     *TaskStatus
}

// Stats is the task status breakdown shown on dashboards.
type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
}

// TaskStats reduces tasks to a status breakdown. Pure, no side effects.
func TaskStats(tasks []Task) Stats {
	stats := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case StatusPending:
			stats.Pending++
		case StatusInProgress:
			stats.InProgress++
		case StatusDone:
			stats.Done++
		}
	}
	return stats
}
