package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nirman/internal/middleware"
	"nirman/internal/service"
	"nirman/pkg/response"
)

// RecordHandler exposes the settlement operations that sit on top of the
// record module. Record CRUD itself goes through the generic resource
// routes.
type RecordHandler struct {
	settlements service.SettlementService
}

// NewRecordHandler sets up the routing dependencies for settlements
func NewRecordHandler(settlements service.SettlementService) *RecordHandler {
	return &RecordHandler{settlements: settlements}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *RecordHandler) RegisterRoutes(router *gin.RouterGroup) {
	records := router.Group("/api/records", middleware.RequireAuth())
	{
		records.POST("/:id/settlements", h.AddSettlement)
		records.GET("/:id/settlements", h.ListSettlements)
	}
}

// AddSettlement appends a partial payment and recomputes the record totals
// @Summary      Add a settlement to a record
// @Description  Appends an immutable settlement, optionally generating a linked ledger transaction, and recomputes paid/balance/status atomically
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Record id"
// @Param        payload  body      service.AddSettlementRequest  true  "Settlement payload"
// @Success      201      {object}  response.Response{data=service.SettlementResult}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/records/{id}/settlements [post]
func (h *RecordHandler) AddSettlement(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	var req service.AddSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	result, err := h.settlements.AddSettlement(c.Request.Context(), actor, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListSettlements returns a record's settlement history, oldest first
func (h *RecordHandler) ListSettlements(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	settlements, err := h.settlements.ListSettlements(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, settlements))
}
