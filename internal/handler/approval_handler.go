package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nirman/internal/approval"
	"nirman/internal/middleware"
	"nirman/internal/service"
	"nirman/pkg/response"
)

type ApprovalHandler struct {
	resources service.ResourceService
}

// NewApprovalHandler sets up the routing dependencies for the approval queue
func NewApprovalHandler(resources service.ResourceService) *ApprovalHandler {
	return &ApprovalHandler{resources: resources}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *ApprovalHandler) RegisterRoutes(router *gin.RouterGroup) {
	approvals := router.Group("/api/approvals", middleware.RequireAuth(), middleware.RequireAdmin())
	{
		approvals.GET("/pending", h.ListPending)
		approvals.PUT("/:module/:id/resolve", h.Resolve)
	}
}

// ResolveRequest is the admin's verdict on a pending item.
type ResolveRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	Remarks  string `json:"remarks"`
}

// ListPending returns all pending items grouped by module
// @Summary      List pending approval requests
// @Description  Fans out over all governed modules and returns every resource awaiting a decision
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/approvals/pending [get]
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)

	pending, err := h.resources.ListPending(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pending))
}

// Resolve approves or rejects one pending item
// @Summary      Resolve a pending approval request
// @Description  Approving a pending-delete performs the deletion; approving a pending-edit merges the stashed diff; rejection labels the resource rejected without touching its data
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        module   path      string          true  "Resource module tag"
// @Param        id       path      string          true  "Resource id"
// @Param        payload  body      ResolveRequest  true  "Decision payload"
// @Success      200      {object}  response.Response{data=service.ResolveResult}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/approvals/{module}/{id}/resolve [put]
func (h *ApprovalHandler) Resolve(c *gin.Context) {
	m, ok := parseModule(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	result, err := h.resources.Resolve(c.Request.Context(), actor, m, id, approval.Decision(req.Decision), req.Remarks)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
