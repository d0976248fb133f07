package store

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/taskflow-hq/taskflow/internal/platform/kv"
)

// Seed is the startup dataset. It primes the in-process collections and,
// through Payload, whichever backend needs bootstrapping.
type Seed struct {
	Users    []User
	Projects []Project
	Tasks    []Task
}

// Payload returns the seed keyed and encoded the way backends store it.
func (s Seed) Payload() map[string][]byte {
	return map[string][]byte{
		kv.UsersKey:    marshalUsers(s.Users),
		kv.ProjectsKey: mustMarshal(s.Projects),
		kv.TasksKey:    mustMarshal(s.Tasks),
	}
}

// DefaultSeed returns the demo dataset. Passwords are hashed when the seed
// is built so plaintext never reaches a backend.
func DefaultSeed() Seed {
	return Seed{
		Users: []User{
			{Email: "admin@taskflow.dev", PasswordHash: hashPassword("admin123"), Role: RoleAdmin},
			{Email: "sarah@taskflow.dev", PasswordHash: hashPassword("manager123"), Role: RoleManager},
			{Email: "james@taskflow.dev", PasswordHash: hashPassword("manager123"), Role: RoleManager},
			{Email: "mia@taskflow.dev", PasswordHash: hashPassword("member123"), Role: RoleMember},
			{Email: "noah@taskflow.dev", PasswordHash: hashPassword("member123"), Role: RoleMember},
			{Email: "lucas@taskflow.dev", PasswordHash: hashPassword("member123"), Role: RoleMember},
		},
		Projects: []Project{
			{ID: 1, Name: "Website Redesign", Description: "Refresh the marketing site and docs portal.", Owner: "sarah@taskflow.dev"},
			{ID: 2, Name: "Mobile App", Description: "Ship the v1 companion app.", Owner: "james@taskflow.dev"},
		},
		Tasks: []Task{
			{ID: 1, ProjectID: 1, Title: "Draft new landing page copy", AssignedTo: "mia@taskflow.dev", Status: StatusInProgress},
			{ID: 2, ProjectID: 1, Title: "Migrate docs to new theme", AssignedTo: "noah@taskflow.dev", Status: StatusPending},
			{ID: 3, ProjectID: 1, Title: "Collect stakeholder feedback", AssignedTo: "mia@taskflow.dev", Status: StatusDone},
			{ID: 4, ProjectID: 2, Title: "Set up release pipeline", AssignedTo: "lucas@taskflow.dev", Status: StatusPending},
			{ID: 5, ProjectID: 2, Title: "Implement login screen", AssignedTo: "noah@taskflow.dev", Status: StatusInProgress},
		},
	}
}

func hashPassword(plain string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return ""
	}
	return string(hash)
}
