// Package auth resolves caller identity and decides what each role may do.
package auth

import (
	"context"
	"errors"

	"github.com/taskflow-hq/taskflow/internal/store"
)

// Session is the resolved identity of one caller: an (email, role) pair
// trusted for the lifetime of the token it was issued in. A later role
// change does not touch sessions already in hand; it takes effect on the
// user's next login.
type Session struct {
	Email string     `json:"email"`
	Role  store.Role `json:"role"`
}

// ErrInvalidCredentials covers both unknown email and wrong password, so
// the caller cannot tell the two apart.
var ErrInvalidCredentials = errors.New("invalid email or password")

type sessionContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(Session)
	return sess, ok
}
