package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photoproof-backend/internal/models"
	"photoproof-backend/internal/services"
)

type ProjectsHandler struct {
	projectService *services.ProjectService
}

func NewProjectsHandler(projectService *services.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{projectService: projectService}
}

func (h *ProjectsHandler) projectResponse(project *models.Project, withOwner bool) models.ProjectResponse {
	count, err := h.projectService.CountProjectPhotos(project.ID)
	if err != nil {
		count = 0
	}
	return models.NewProjectResponse(project, count, withOwner)
}

// CreateProject godoc
// @Summary     Create a project
// @Description Creates a new album for the authenticated owner. Titles are unique per owner.
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateProjectRequest true "Project"
// @Success     201 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /projects [post]
func (h *ProjectsHandler) CreateProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	project, err := h.projectService.CreateProject(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.projectResponse(project, false))
}

// ListProjects godoc
// @Summary     List projects
// @Description Returns the owner's projects, paginated, optionally filtered by status
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       skip query int false "Offset"
// @Param       limit query int false "Page size (max 100)"
// @Param       status query string false "Status filter"
// @Success     200 {object} models.ProjectListResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /projects [get]
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	p := queryPagination(c)
	projects, total, err := h.projectService.ListProjects(userID, p, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = h.projectResponse(&projects[i], false)
	}

	c.JSON(http.StatusOK, models.ProjectListResponse{
		Projects: responses,
		Meta:     models.NewPaginationMeta(p, total),
	})
}

// GetProject godoc
// @Summary     Get a project
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Success     200 {object} models.ProjectResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id} [get]
func (h *ProjectsHandler) GetProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(userID, projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.projectResponse(project, true))
}

// UpdateProject godoc
// @Summary     Update a project
// @Description Applies partial updates to title, notes, or status
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Param       request body models.UpdateProjectRequest true "Fields to update"
// @Success     200 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /projects/{project_id} [patch]
func (h *ProjectsHandler) UpdateProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	project, err := h.projectService.UpdateProject(userID, projectID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.projectResponse(project, false))
}

// UpdateProjectStatus godoc
// @Summary     Update project status
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Param       request body models.UpdateProjectStatusRequest true "New status"
// @Success     200 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id}/status [patch]
func (h *ProjectsHandler) UpdateProjectStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	var req models.UpdateProjectStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	project, err := h.projectService.UpdateProjectStatus(userID, projectID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.projectResponse(project, false))
}

// DeleteProject godoc
// @Summary     Delete a project
// @Description Removes the project, its sessions, and all stored photo objects
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Success     204
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id} [delete]
func (h *ProjectsHandler) DeleteProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), userID, projectID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateProjectToken godoc
// @Summary     Issue the project's guest access token
// @Description Creates the single active client token for a project. Fails with 409 if one already exists.
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateProjectTokenRequest true "Token options"
// @Success     201 {object} models.SessionTokenResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /projects/create-project-token [post]
func (h *ProjectsHandler) CreateProjectToken(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateProjectTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	session, err := h.projectService.CreateProjectToken(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newSessionTokenResponse(session, nil))
}

// VerifyProjectToken godoc
// @Summary     Verify a guest access token
// @Description Resolves a token (and optional password) to its session and project. Unauthenticated.
// @Tags        projects
// @Accept      json
// @Produce     json
// @Param       request body models.VerifyProjectTokenRequest true "Token and optional password"
// @Success     200 {object} models.SessionTokenResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /projects/verify-project-token [post]
func (h *ProjectsHandler) VerifyProjectToken(c *gin.Context) {
	var req models.VerifyProjectTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	session, project, err := h.projectService.VerifyProjectToken(req.Token, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := h.projectResponse(project, false)
	c.JSON(http.StatusOK, newSessionTokenResponse(session, &resp))
}

// GetProjectToken godoc
// @Summary     Get the project's active guest token
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Success     200 {object} models.SessionTokenResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id}/token [get]
func (h *ProjectsHandler) GetProjectToken(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	session, err := h.projectService.GetProjectToken(userID, projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionTokenResponse(session, nil))
}

// RevokeProjectToken godoc
// @Summary     Revoke the project's active guest token
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Success     200 {object} models.SessionTokenResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id}/token [delete]
func (h *ProjectsHandler) RevokeProjectToken(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	session, err := h.projectService.RevokeProjectToken(userID, projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionTokenResponse(session, nil))
}

// RefreshProjectToken godoc
// @Summary     Extend the project token's expiry
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Param       request body models.CreateProjectTokenRequest true "New expiry in days"
// @Success     200 {object} models.SessionTokenResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id}/token/refresh [post]
func (h *ProjectsHandler) RefreshProjectToken(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	var req struct {
		ExpiresInDays int `json:"expires_in_days" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	session, err := h.projectService.RefreshProjectToken(userID, projectID, req.ExpiresInDays)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionTokenResponse(session, nil))
}
