package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskflow-hq/taskflow/internal/platform/httpx"
	"github.com/taskflow-hq/taskflow/internal/store"
)

const tokenIssuer = "taskflow"

// TokenManager issues and resolves bearer session tokens. Tokens are
// self-contained HS256 JWTs carrying the (email, role) pair captured at
// login; nothing is stored server side and nothing is revalidated against
// live user data until the next login.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager constructs a TokenManager with a fixed token lifetime.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// TTL exposes the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue signs a token for the given session.
func (tm *TokenManager) Issue(sess Session) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  sess.Email,
		"role": string(sess.Role),
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(tm.ttl).Unix(),
		"iss":  tokenIssuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Resolve parses a bearer token back into a Session. Absent, garbled,
// expired or otherwise invalid tokens resolve to ErrUnauthorized.
func (tm *TokenManager) Resolve(raw string) (Session, error) {
	if raw == "" {
		return Session{}, httpx.ErrUnauthorized
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return Session{}, httpx.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, httpx.ErrUnauthorized
	}
	email, _ := claims["sub"].(string)
	roleStr, _ := claims["role"].(string)
	role := store.Role(roleStr)
	if email == "" || !role.Valid() {
		return Session{}, httpx.ErrUnauthorized
	}
	return Session{Email: email, Role: role}, nil
}
