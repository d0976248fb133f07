// Package users implements user administration: listing accounts and
// changing roles, both admin only.
package users

import (
	"context"
	"fmt"

	"github.com/taskflow-hq/taskflow/internal/auth"
	"github.com/taskflow-hq/taskflow/internal/platform/httpx"
	"github.com/taskflow-hq/taskflow/internal/store"
)

// Service handles user administration rules.
type Service struct {
	store *store.Store
}

// NewService constructs a Service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// List returns all users. Admin only.
func (s *Service) List(ctx context.Context, sess auth.Session) ([]store.User, error) {
	if !auth.CanManageUsers(sess.Role) {
		return nil, fmt.Errorf("list users: %w", httpx.ErrForbidden)
	}
	return s.store.ListUsers(ctx), nil
}

// UpdateRole changes a user's role. The change applies to the user's next
// login; sessions already issued keep the role they were created with.
func (s *Service) UpdateRole(ctx context.Context, sess auth.Session, email string, role store.Role) (store.User, error) {
	if !auth.CanManageUsers(sess.Role) {
		return store.User{}, fmt.Errorf("update role: %w", httpx.ErrForbidden)
	}
	if !role.Valid() {
		return store.User{}, fmt.Errorf("role %q: %w", role, httpx.ErrValidation)
	}
	if s.store.GetUserByEmail(ctx, email) == nil {
		return store.User{}, fmt.Errorf("user %s: %w", email, httpx.ErrNotFound)
	}
	updated := s.store.SetUserRole(ctx, email, role)
	if updated == nil {
		return store.User{}, fmt.Errorf("user %s: %w", email, httpx.ErrNotFound)
	}
	return *updated, nil
}
