package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nirman/internal/middleware"
	"nirman/internal/service"
	"nirman/pkg/response"
)

type InviteHandler struct {
	invites service.InviteService
}

// NewInviteHandler sets up the routing dependencies for invite endpoints
func NewInviteHandler(invites service.InviteService) *InviteHandler {
	return &InviteHandler{invites: invites}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *InviteHandler) RegisterRoutes(router *gin.RouterGroup) {
	invites := router.Group("/api/invites")
	{
		invites.POST("", middleware.RequireAuth(), middleware.RequireAdmin(), h.Create)
		invites.GET("", middleware.RequireAuth(), middleware.RequireAdmin(), h.List)
		// Accept is public: the caller holds only the token from the email.
		invites.POST("/accept", h.Accept)
	}
}

// Create mints an invite token for a new member
// @Summary      Invite a member
// @Tags         invites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateInviteRequest  true  "Invite payload"
// @Success      201      {object}  response.Response
// @Router       /api/invites [post]
func (h *InviteHandler) Create(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)

	var req service.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	invite, err := h.invites.Create(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	// The token is returned to the caller; delivering it by email is the
	// mail collaborator's job.
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{
		"invite": invite,
		"token":  invite.Token,
	}))
}

// List returns the organization's invites
func (h *InviteHandler) List(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)

	invites, err := h.invites.List(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invites))
}

// Accept redeems an invite token and creates the member account
func (h *InviteHandler) Accept(c *gin.Context) {
	var req service.AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	user, err := h.invites.Accept(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}
