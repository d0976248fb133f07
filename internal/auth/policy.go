package auth

import "github.com/taskflow-hq/taskflow/internal/store"

// Authorization policy: pure predicates over (role, actor email, resource
// owner/assignee). No state, no I/O. Emails are compared by value, so a
// dangling owner or assignee reference simply grants nothing.
//
// Note the asymmetry: a manager who does not own a project has zero rights
// on its tasks, including status updates, which is stricter than a member
// assigned to a task in it.

// CanManageProject reports whether the actor may edit or delete a project.
func CanManageProject(role store.Role, actorEmail, projectOwner string) bool {
	if role == store.RoleAdmin {
		return true
	}
	return role == store.RoleManager && actorEmail == projectOwner
}

// CanCreateTask reports whether the actor may create a task in a project.
func CanCreateTask(role store.Role, actorEmail, projectOwner string) bool {
	if role == store.RoleAdmin {
		return true
	}
	return role == store.RoleManager && actorEmail == projectOwner
}

// CanEditTask reports whether the actor may change a task's title or
// assignee. Members never can; status is covered by CanUpdateTaskStatus.
func CanEditTask(role store.Role, actorEmail, projectOwner string) bool {
	if role == store.RoleAdmin {
		return true
	}
	return role == store.RoleManager && actorEmail == projectOwner
}

// CanDeleteTask reports whether the actor may delete a task.
func CanDeleteTask(role store.Role, actorEmail, projectOwner string) bool {
	if role == store.RoleAdmin {
		return true
	}
	return role == store.RoleManager && actorEmail == projectOwner
}

// CanUpdateTaskStatus reports whether the actor may change a task's status.
func CanUpdateTaskStatus(role store.Role, actorEmail, taskAssignedTo, projectOwner string) bool {
	if role == store.RoleAdmin {
		return true
	}
	if role == store.RoleManager && actorEmail == projectOwner {
		return true
	}
	return role == store.RoleMember && actorEmail == taskAssignedTo
}

// CanManageUsers reports whether the actor may change user roles.
func CanManageUsers(role store.Role) bool {
	return role == store.RoleAdmin
}
