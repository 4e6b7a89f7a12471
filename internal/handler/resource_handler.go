package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nirman/internal/middleware"
	"nirman/internal/model"
	"nirman/internal/service"
	"nirman/pkg/pagination"
	"nirman/pkg/response"
)

// ResourceHandler is the single HTTP surface for all nine governed modules.
// The module tag in the path selects the table; the service decides whether
// the mutation applies immediately or lands in the pending queue.
type ResourceHandler struct {
	resources service.ResourceService
}

// NewResourceHandler sets up the routing dependencies for governed resources
func NewResourceHandler(resources service.ResourceService) *ResourceHandler {
	return &ResourceHandler{resources: resources}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *ResourceHandler) RegisterRoutes(router *gin.RouterGroup) {
	resources := router.Group("/api/resources/:module", middleware.RequireAuth())
	{
		resources.POST("", h.Create)
		resources.GET("", h.List)
		resources.GET("/:id", h.Get)
		resources.PUT("/:id", h.Edit)
		resources.DELETE("/:id", h.Delete)
	}
}

// MutationRequest wraps a create payload or an edit diff together with the
// submitter's justification for the approval queue.
type MutationRequest struct {
	Data           map[string]any `json:"data" binding:"required"`
	RequestMessage string         `json:"request_message"`
}

// DeleteRequest carries the optional justification on delete.
type DeleteRequest struct {
	RequestMessage string `json:"request_message"`
}

func parseModule(c *gin.Context) (model.Module, bool) {
	m := model.Module(c.Param("module"))
	if _, ok := model.NewGovernedResource(m); !ok {
		badRequest(c, "unknown resource module: "+c.Param("module"))
		return "", false
	}
	return m, true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid resource id")
		return uuid.Nil, false
	}
	return id, true
}

// Create adds a resource, or queues it as pending-create
// @Summary      Create a governed resource
// @Description  Creates the resource immediately, or queues a pending-create request when the approval matrix requires it
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        module   path      string           true  "Resource module tag"
// @Param        payload  body      MutationRequest  true  "Resource payload"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /api/resources/{module} [post]
func (h *ResourceHandler) Create(c *gin.Context) {
	m, ok := parseModule(c)
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	var req MutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	res, err := h.resources.Create(c.Request.Context(), actor, m, req.Data, req.RequestMessage)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// List returns the module's resources, optionally filtered by project
func (h *ResourceHandler) List(c *gin.Context) {
	m, ok := parseModule(c)
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)
	p := pagination.Parse(c)

	var projectID *uuid.UUID
	if raw := c.Query("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "invalid project_id")
			return
		}
		projectID = &id
	}

	items, total, err := h.resources.List(c.Request.Context(), actor, m, projectID, p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List(http.StatusOK, items, total, p.Page, p.Limit))
}

// Get returns a single resource
func (h *ResourceHandler) Get(c *gin.Context) {
	m, ok := parseModule(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	res, err := h.resources.Get(c.Request.Context(), actor, m, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Edit applies a diff, or queues it as pending-edit
// @Summary      Edit a governed resource
// @Description  Applies the diff immediately for admins; otherwise stashes it as a pending-edit request
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        module   path      string           true  "Resource module tag"
// @Param        id       path      string           true  "Resource id"
// @Param        payload  body      MutationRequest  true  "Field diff"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/resources/{module}/{id} [put]
func (h *ResourceHandler) Edit(c *gin.Context) {
	m, ok := parseModule(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	var req MutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	res, err := h.resources.Edit(c.Request.Context(), actor, m, id, req.Data, req.RequestMessage)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Delete removes a resource, or queues it as pending-delete
func (h *ResourceHandler) Delete(c *gin.Context) {
	m, ok := parseModule(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Empty body is fine; the justification is optional.
		req.RequestMessage = ""
	}

	result, err := h.resources.Delete(c.Request.Context(), actor, m, id, req.RequestMessage)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
