package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"timekeeper/internal/domain"
	"timekeeper/internal/service"
)

// ProjectHandler handles project CRUD requests.
type ProjectHandler struct {
	projects *service.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// HandleList returns all projects, optionally filtered by status and
// enriched with per-project totals.
// GET /api/projects?status=&include_stats=
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	includeStats := strings.EqualFold(r.URL.Query().Get("include_stats"), "true")

	projects, err := h.projects.List(r.Context(), status, includeStats)
	if err != nil {
		slog.Error("list projects", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toProjectDTOs(projects))
}

// HandleGet returns a single project.
// GET /api/projects/{id}?include_stats=
func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	includeStats := strings.EqualFold(r.URL.Query().Get("include_stats"), "true")

	project, err := h.projects.Get(r.Context(), id, includeStats)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		slog.Error("get project", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toProjectDTO(*project))
}

// HandleCreate creates a new project.
// POST /api/projects
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Status      string `json:"status"`
		Color       string `json:"color"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project, err := h.projects.Create(r.Context(), service.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Color:       req.Color,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "Project name is required")
			return
		}
		slog.Error("create project", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create project")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Project created successfully",
		"project": toProjectDTO(service.ProjectWithStats{Project: *project}),
	})
}

// HandleUpdate applies a partial update to a project.
// PUT /api/projects/{id}
func (h *ProjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
		Color       *string `json:"color"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project, err := h.projects.Update(r.Context(), id, domain.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Color:       req.Color,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "Project name is required")
		default:
			slog.Error("update project", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Project updated successfully",
		"project": toProjectDTO(service.ProjectWithStats{Project: *project}),
	})
}

// HandleDelete removes a project and all of its time entries.
// DELETE /api/projects/{id}
func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	if err := h.projects.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		slog.Error("delete project", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Project deleted successfully"})
}
