package auth_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskflow-hq/taskflow/internal/auth"
	"github.com/taskflow-hq/taskflow/internal/store"
)

type stubDirectory struct {
	user *store.User
}

func (s *stubDirectory) GetUserByEmail(ctx context.Context, email string) *store.User {
	if s.user == nil || s.user.Email != email {
		return nil
	}
	user := *s.user
	return &user
}

func hashForTest(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(hash)
}

func TestValidateCredentials(t *testing.T) {
	svc := auth.NewService(&stubDirectory{user: &store.User{
		Email:        "sarah@taskflow.dev",
		PasswordHash: hashForTest(t, "correcthorse"),
		Role:         store.RoleManager,
	}})

	sess, err := svc.ValidateCredentials(context.Background(), "sarah@taskflow.dev", "correcthorse")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if sess.Email != "sarah@taskflow.dev" || sess.Role != store.RoleManager {
		t.Fatalf("unexpected session %+v", sess)
	}
}

func TestValidateCredentialsMismatchesIndistinguishable(t *testing.T) {
	svc := auth.NewService(&stubDirectory{user: &store.User{
		Email:        "sarah@taskflow.dev",
		PasswordHash: hashForTest(t, "correcthorse"),
		Role:         store.RoleManager,
	}})

	_, unknownErr := svc.ValidateCredentials(context.Background(), "nobody@taskflow.dev", "correcthorse")
	_, wrongErr := svc.ValidateCredentials(context.Background(), "sarah@taskflow.dev", "wrongpass")

	if !errors.Is(unknownErr, auth.ErrInvalidCredentials) {
		t.Fatalf("unknown email: %v", unknownErr)
	}
	if !errors.Is(wrongErr, auth.ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatal("unknown email and wrong password must be indistinguishable")
	}
}
