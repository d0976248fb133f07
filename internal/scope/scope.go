// Package scope narrows list results to what a caller's role may see.
// It is pure filtering over already-fetched collections and never feeds
// mutation decisions; those belong to the auth policy.
package scope

import (
	"github.com/taskflow-hq/taskflow/internal/auth"
	"github.com/taskflow-hq/taskflow/internal/store"
)

// ProjectsFor returns the projects visible to the session: all for an
// admin, owned projects for a manager, and for a member the projects
// containing at least one task assigned to them.
func ProjectsFor(sess auth.Session, projects []store.Project, tasks []store.Task) []store.Project {
	switch sess.Role {
	case store.RoleAdmin:
		return projects
	case store.RoleManager:
		visible := make([]store.Project, 0)
		for _, p := range projects {
			if p.Owner == sess.Email {
				visible = append(visible, p)
			}
		}
		return visible
	default:
		assigned := make(map[int64]bool)
		for _, t := range tasks {
			if t.AssignedTo == sess.Email {
				assigned[t.ProjectID] = true
			}
		}
		visible := make([]store.Project, 0)
		for _, p := range projects {
			if assigned[p.ID] {
				visible = append(visible, p)
			}
		}
		return visible
	}
}

// TasksFor returns the tasks visible to the session: all for an admin,
// tasks of owned projects for a manager, and assigned tasks for a member.
func TasksFor(sess auth.Session, projects []store.Project, tasks []store.Task) []store.Task {
	switch sess.Role {
	case store.RoleAdmin:
		return tasks
	case store.RoleManager:
		owned := make(map[int64]bool)
		for _, p := range projects {
			if p.Owner == sess.Email {
				owned[p.ID] = true
			}
		}
		visible := make([]store.Task, 0)
		for _, t := range tasks {
			if owned[t.ProjectID] {
				visible = append(visible, t)
			}
		}
		return visible
	default:
		visible := make([]store.Task, 0)
		for _, t := range tasks {
			if t.AssignedTo == sess.Email {
				visible = append(visible, t)
			}
		}
		return visible
	}
}

// CanSeeProject reports whether a single project is in the session's
// visible set, using the same rules as ProjectsFor.
func CanSeeProject(sess auth.Session, project store.Project, projectTasks []store.Task) bool {
	switch sess.Role {
	case store.RoleAdmin:
		return true
	case store.RoleManager:
		return project.Owner == sess.Email
	default:
		for _, t := range projectTasks {
			if t.AssignedTo == sess.Email {
				return true
			}
		}
		return false
	}
}
