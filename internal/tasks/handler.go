package tasks

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

// Handler wires the task HTTP endpoints.
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

// MountRoutes registers task routes. The caller must have applied the
// session middleware already.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Patch("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
		r.Patch("/{id}/status", h.handleStatus)
	})
	r.Get("/stats", h.handleStats)
}

type createRequest struct {
	ProjectID  int64  `json:"projectId" validate:"required"`
	Title      string `json:"title" validate:"required"`
	AssignedTo string `json:"assignedTo" validate:"required,email"`
	Status     string `json:"status" validate:"required,oneof=pending in_progress done"`
}

type updateRequest struct {
	Title      *string `json:"title"`
	AssignedTo *string `json:"assignedTo"`
	Status     *string `json:"status"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress done"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"tasks": h.service.List(r.Context(), sess)})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"stats": h.service.Stats(r.Context(), sess)})
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

	task, err := h.service.Create(r.Context(), sess, CreateInput{
		ProjectID:  req.ProjectID,
		Title:      req.Title,
		AssignedTo: req.AssignedTo,
		Status:     store.TaskStatus(req.Status),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "task": task})
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
	patch := store.TaskPatch{Title: req.Title, AssignedTo: req.AssignedTo}
	if req.Status != nil {
		status := store.TaskStatus(*req.Status)
		patch.Status = &status
	}

	task, err := h.service.Update(r.Context(), sess, id, patch)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "task": task})
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

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := h.sessionAndID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid status")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid status")
		return
	}

	task, err := h.service.SetStatus(r.Context(), sess, id, store.TaskStatus(req.Status))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "task": task})
}

func (h *Handler) sessionAndID(w http.ResponseWriter, r *http.Request) (auth.Session, int64, bool) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return auth.Session{}, 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid task ID")
		return auth.Session{}, 0, false
	}
	return sess, id, true
}
