package users

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/taskflow-hq/taskflow/internal/auth"
	"github.com/taskflow-hq/taskflow/internal/platform/httpx"
	"github.com/taskflow-hq/taskflow/internal/store"
)

// Handler wires the admin user-management endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers the admin routes. The caller must have applied
// the session middleware already; the admin-only decision stays with the
// service so non-admins get a 403, not a 404.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/admin/users", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Patch("/{email}", h.handleUpdateRole)
	})
}

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin manager member"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	list, err := h.service.List(r.Context(), sess)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"users": list})
}

func (h *Handler) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil || email == "" {
		httpx.Error(w, http.StatusBadRequest, "Invalid email")
		return
	}

	var req roleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid role")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid role")
		return
	}

	user, err := h.service.UpdateRole(r.Context(), sess, email, store.Role(req.Role))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}
