package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nirman/internal/middleware"
	"nirman/internal/service"
	"nirman/pkg/response"
)

type ProjectHandler struct {
	projects service.ProjectService
}

// NewProjectHandler sets up the routing dependencies for project endpoints
func NewProjectHandler(projects service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *ProjectHandler) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/api/projects", middleware.RequireAuth())
	{
		projects.GET("", h.List)
		projects.GET("/:id", h.Get)
		projects.POST("", middleware.RequireAdmin(), h.Create)
		projects.PUT("/:id", middleware.RequireAdmin(), h.Update)
		projects.POST("/:id/assignments", middleware.RequireAdmin(), h.Assign)
		projects.DELETE("/:id/assignments/:userId", middleware.RequireAdmin(), h.Unassign)
	}
}

// AssignRequest names the user to grant project access to.
type AssignRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// Create adds a project
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateProjectRequest  true  "Project payload"
// @Success      201      {object}  response.Response
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)

	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	project, err := h.projects.Create(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, project))
}

// Update edits project fields
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	var req service.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	project, err := h.projects.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// Get returns one project the caller can access
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	project, err := h.projects.Get(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// List returns the projects the caller can access
func (h *ProjectHandler) List(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)

	projects, err := h.projects.ListAccessible(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, projects))
}

// Assign grants a user access to a project
func (h *ProjectHandler) Assign(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	assignment, err := h.projects.Assign(c.Request.Context(), actor, id, req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, assignment))
}

// Unassign revokes a user's access to a project
func (h *ProjectHandler) Unassign(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}
	actor, _ := middleware.CurrentActor(c)

	if err := h.projects.Unassign(c.Request.Context(), actor, id, userID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"status": "unassigned"}))
}
