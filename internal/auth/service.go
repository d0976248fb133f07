package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskflow-hq/taskflow/internal/store"
)

// UserDirectory is the slice of the store the service needs.
type UserDirectory interface {
	GetUserByEmail(ctx context.Context, email string) *store.User
}

// Service validates login credentials.
type Service struct {
	users UserDirectory
}

// NewService constructs a Service.
func NewService(users UserDirectory) *Service {
	return &Service{users: users}
}

// ValidateCredentials checks email/password and returns the session the
// user would carry. Unknown email and wrong password both return
// ErrInvalidCredentials.
func (s *Service) ValidateCredentials(ctx context.Context, email, password string) (Session, error) {
	user := s.users.GetUserByEmail(ctx, email)
	if user == nil {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return Session{Email: user.Email, Role: user.Role}, nil
}
