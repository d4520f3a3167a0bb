package handlers

import (
    "net/http"

    "github.com/gin-gonic/gin"

    "github.com/local/vibedoc/internal/service"
)

type ProjectHandler struct {
    svc *service.ProjectService
}

func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
    return &ProjectHandler{svc: svc}
}

type CreateProjectRequest struct {
    Name string `json:"name" binding:"required"`
}

type UpdateNameRequest struct {
    Name string `json:"name" binding:"required"`
}

type UpdateSystemPromptRequest struct {
    SystemPrompt *string `json:"systemPrompt" binding:"required"`
}

// ListProjects godoc
// @Summary List projects, newest first
// @Tags projects
// @Produce json
// @Success 200 {array} models.ProjectListItem
// @Failure 500 {object} ErrorResponse
// @Router /api/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
    items, err := h.svc.List(c.Request.Context())
    if err != nil { respondError(c, err); return }
    c.JSON(http.StatusOK, items)
}

// GetProject godoc
// @Summary Get a project with its forms, inputs and additional documents
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} ErrorResponse
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
    id, ok := parseID(c, "id")
    if !ok { return }
    p, err := h.svc.Get(c.Request.Context(), id)
    if err != nil { respondError(c, err); return }
    c.JSON(http.StatusOK, p)
}

// CreateProject godoc
// @Summary Create a project with an empty system prompt
// @Tags projects
// @Accept json
// @Produce json
// @Param body body CreateProjectRequest true "Project"
// @Success 201 {object} models.Project
// @Failure 400 {object} ErrorResponse
// @Router /api/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
    var req CreateProjectRequest
    if err := c.ShouldBindJSON(&req); err != nil { bindError(c, err); return }
    p, err := h.svc.Create(c.Request.Context(), req.Name)
    if err != nil { respondError(c, err); return }
    c.JSON(http.StatusCreated, p)
}

// UpdateName godoc
// @Summary Rename a project
// @Tags projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param body body UpdateNameRequest true "Name"
// @Success 200 {object} models.Project
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/projects/{id}/name [patch]
func (h *ProjectHandler) UpdateName(c *gin.Context) {
    id, ok := parseID(c, "id")
    if !ok { return }
    var req UpdateNameRequest
    if err := c.ShouldBindJSON(&req); err != nil { bindError(c, err); return }
    p, err := h.svc.Rename(c.Request.Context(), id, req.Name)
    if err != nil { respondError(c, err); return }
    c.JSON(http.StatusOK, p)
}

// UpdateSystemPrompt godoc
// @Summary Replace the project's system prompt
// @Tags projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param body body UpdateSystemPromptRequest true "Prompt"
// @Success 200 {object} models.Project
// @Failure 404 {object} ErrorResponse
// @Router /api/projects/{id}/system-prompt [patch]
func (h *ProjectHandler) UpdateSystemPrompt(c *gin.Context) {
    id, ok := parseID(c, "id")
    if !ok { return }
    var req UpdateSystemPromptRequest
    if err := c.ShouldBindJSON(&req); err != nil { bindError(c, err); return }
    p, err := h.svc.UpdateSystemPrompt(c.Request.Context(), id, *req.SystemPrompt)
    if err != nil { respondError(c, err); return }
    c.JSON(http.StatusOK, p)
}

// DeleteProject godoc
// @Summary Delete a project and everything in it
// @Tags projects
// @Param id path int true "Project ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
    id, ok := parseID(c, "id")
    if !ok { return }
    if err := h.svc.Delete(c.Request.Context(), id); err != nil { respondError(c, err); return }
    c.Status(http.StatusNoContent)
}
