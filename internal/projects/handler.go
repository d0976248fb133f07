package projects

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/taskflow-hq/taskflow/internal/auth"
	"github.com/taskflow-hq/taskflow/internal/platform/httpx"
	"github.com/taskflow-hq/taskflow/internal/store"
)

// Handler wires the project HTTP endpoints.
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

// MountRoutes registers project routes. The caller must have applied the
// session middleware already.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{id}", h.handleGet)
		r.Patch("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
		r.Get("/{id}/tasks", h.handleTasks)
	})
}

type createRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Owner       string `json:"owner" validate:"omitempty,email"`
}

type updateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"projects": h.service.List(r.Context(), sess)})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	project, err := h.service.Create(r.Context(), sess, CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Owner:       req.Owner,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "project": project})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := h.sessionAndID(w, r)
	if !ok {
		return
	}
	project, err := h.service.Get(r.Context(), sess, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"project": project})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := h.sessionAndID(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	project, err := h.service.Update(r.Context(), sess, id, store.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "project": project})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := h.sessionAndID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), sess, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) handleTasks(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := h.sessionAndID(w, r)
	if !ok {
		return
	}
	tasks, stats, err := h.service.Tasks(r.Context(), sess, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"tasks": tasks, "stats": stats})
}

func (h *Handler) sessionAndID(w http.ResponseWriter, r *http.Request) (auth.Session, int64, bool) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return auth.Session{}, 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid project ID")
		return auth.Session{}, 0, false
	}
	return sess, id, true
}
