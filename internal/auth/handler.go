package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/taskflow-hq/taskflow/internal/platform/httpx"
)

// Handler wires the HTTP endpoints for login and session introspection.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	tokens   *TokenManager
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, tokens *TokenManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:   logger,
		service:  service,
		tokens:   tokens,
		validate: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Get("/auth/session", h.handleSession)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionUser struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type loginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    sessionUser `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	sess, err := h.service.ValidateCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.Error(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.Error("login", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "An error occurred during login")
		return
	}

	token, err := h.tokens.Issue(sess)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "An error occurred during login")
		return
	}

	httpx.JSON(w, http.StatusOK, loginResponse{
		Success: true,
		Token:   token,
		User:    sessionUser{Email: sess.Email, Role: string(sess.Role)},
	})
}

// handleSession is a probe, not a gate: callers without a valid token get
// a 200 with a null session.
func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.tokens.Resolve(BearerToken(r))
	if err != nil {
		httpx.JSON(w, http.StatusOK, map[string]any{"session": nil})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"session": sess})
}
