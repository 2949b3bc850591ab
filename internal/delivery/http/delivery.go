package http

import (
	"net/http"
	"strings"

	"comanda/internal/models"

	"github.com/gin-gonic/gin"
)

type assignRequest struct {
	CourierID string `json:"courier_id" binding:"required"`
}

// AssignCourier
// @Summary AssignCourier
// @Description Assigns a courier to a ready order and freezes the commission
// @ID assign-courier
// @Accept json
// @Produce json
// @Param id path string true "order id"
// @Param body body assignRequest true "courier"
// @Success 200 {object} models.Order
// @Failure 400,404,409 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/orders/{id}/delivery/assign [post]
func (h *Handler) AssignCourier(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		newErrorResponse(c, http.StatusBadRequest, "missing id")
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	order, err := h.svc.AssignCourier(c.Request.Context(), id, req.CourierID)
	if err != nil {
		respondError(c, err)
		return
	}

	statusTransitions.WithLabelValues(string(models.StatusEnReparto)).Inc()
	c.JSON(http.StatusOK, order)
}

// MarkEnRoute
// @Summary MarkEnRoute
// @Description Marks the delivery as picked up by the courier
// @ID mark-en-route
// @Produce json
// @Param id path string true "order id"
// @Success 200 {object} models.Order
// @Failure 400,404,409 {object} errorResponse
// @Router /api/orders/{id}/delivery/enroute [post]
func (h *Handler) MarkEnRoute(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		newErrorResponse(c, http.StatusBadRequest, "missing id")
		return
	}

	order, err := h.svc.MarkEnRoute(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// MarkDelivered
// @Summary MarkDelivered
// @Description Records the courier's delivered signal (order status unchanged)
// @ID mark-delivered
// @Produce json
// @Param id path string true "order id"
// @Success 200 {object} models.Order
// @Failure 400,404,409 {object} errorResponse
// @Router /api/orders/{id}/delivery/delivered [post]
func (h *Handler) MarkDelivered(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		newErrorResponse(c, http.StatusBadRequest, "missing id")
		return
	}

	order, err := h.svc.MarkDelivered(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

type incidentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReportIncident
// @Summary ReportIncident
// @Description Attaches an incident note and alerts admins; changes no status
// @ID report-incident
// @Accept json
// @Produce json
// @Param id path string true "order id"
// @Param body body incidentRequest true "incident"
// @Success 204
// @Failure 400,404,409 {object} errorResponse
// @Router /api/orders/{id}/delivery/incident [post]
func (h *Handler) ReportIncident(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		newErrorResponse(c, http.StatusBadRequest, "missing id")
		return
	}

	var req incidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.ReportIncident(c.Request.Context(), id, req.Reason); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PendingSettlement
// @Summary PendingSettlement
// @Description Lists delivered, unsettled orders for a courier
// @ID pending-settlement
// @Produce json
// @Param id path string true "courier id"
// @Success 200 {object} listOrdersResponse
// @Failure 500 {object} errorResponse
// @Router /api/couriers/{id}/pending [get]
func (h *Handler) PendingSettlement(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		newErrorResponse(c, http.StatusBadRequest, "missing courier id")
		return
	}

	orders, err := h.svc.PendingSettlement(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listOrdersResponse{Data: orders})
}

type settleRequest struct {
	OrderIDs []string `json:"order_ids" binding:"required"`
}

// SettleCourier
// @Summary SettleCourier
// @Description Liquidates a batch of delivered orders for one courier, all or nothing
// @ID settle-courier
// @Accept json
// @Produce json
// @Param id path string true "courier id"
// @Param body body settleRequest true "orders to settle"
// @Success 204
// @Failure 400,404,409 {object} errorResponse
// @Router /api/couriers/{id}/settle [post]
func (h *Handler) SettleCourier(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		newErrorResponse(c, http.StatusBadRequest, "missing courier id")
		return
	}

	var req settleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.SettleCourier(c.Request.Context(), id, req.OrderIDs); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
